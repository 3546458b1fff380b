package config

// LatinReplacements maps base strings to the latin variations folded into them.
// Letters whose variation is a plain combining mark (é, ñ, č, ...) are not listed:
// the decomposition step and the character filter take care of those.
var LatinReplacements = map[string][]string{
	"a":  {"ɑ", "ɐ", "ɒ", "ᴀ", "ⱥ", "ₐ"},
	"aa": {"å", "Å", "ꜳ"},
	"ae": {"ä", "Ä", "æ", "Æ", "ǽ", "ǣ", "ᴁ"},
	"b":  {"ƀ", "ɓ", "ʙ", "ᴃ"},
	"c":  {"ȼ", "ƈ", "ᴄ"},
	"d":  {"đ", "Đ", "ð", "Ð", "ɖ", "ɗ", "ᴅ"},
	"e":  {"ɇ", "ǝ", "ɛ", "ə", "ᴇ"},
	"g":  {"ǥ", "ɠ", "ɢ"},
	"h":  {"ħ", "Ħ", "ʜ"},
	"i":  {"ı", "ɨ", "ɪ"},
	"j":  {"ɉ", "ᴊ"},
	"k":  {"ƙ", "ᴋ"},
	"l":  {"ł", "Ł", "ƚ", "ɫ", "ʟ"},
	"m":  {"ᴍ"},
	"n":  {"ɴ", "ƞ"},
	"ng": {"ŋ", "Ŋ"},
	"o":  {"ø", "Ø", "ǿ", "ɔ", "ɵ", "ᴏ"},
	"oe": {"ö", "Ö", "œ", "Œ", "ɶ"},
	"ou": {"ȣ", "ʊ"},
	"p":  {"ᴘ", "ƥ"},
	"r":  {"ʀ", "ɍ"},
	"s":  {"ſ", "ꜱ"},
	"ss": {"ß", "ẞ"},
	"t":  {"ŧ", "Ŧ", "ƭ", "ᴛ"},
	"th": {"þ", "Þ"},
	"u":  {"ʉ", "ᴜ"},
	"ue": {"ü", "Ü"},
	"v":  {"ᴠ", "ʋ"},
	"w":  {"ᴡ"},
	"y":  {"ɏ", "ƴ", "ʏ"},
	"z":  {"ƶ", "ȥ", "ᴢ"},
}
