package normalization

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"

	"github.com/gcbaptista/go-fuzzy-search/model"
)

// Character filters and lowercases characters one by one. Space equivalents
// become a single space, runs of spaces collapse and leading or trailing spaces
// are dropped. Characters outside the basic multilingual plane and invalid UTF-8
// are dropped and counted as numberOfSurrogateCharacters.
type Character struct {
	isSpace  func(rune) bool
	allow    func(rune) bool
	reserved map[rune]bool
}

// NewCharacter creates a character filter. Characters in reserved are dropped
// even if allow admits them.
func NewCharacter(isSpace, allow func(rune) bool, reserved map[rune]bool) *Character {
	return &Character{isSpace: isSpace, allow: allow, reserved: reserved}
}

// Normalize filters input, folding runs of space characters into one space.
func (c *Character) Normalize(input string) string {
	normalized, _ := c.normalize(input)
	return normalized
}

// NormalizeBulk filters every input and counts dropped non-BMP or invalid characters.
func (c *Character) NormalizeBulk(inputs []string) ([]string, *model.Meta) {
	out := make([]string, len(inputs))
	surrogates := 0
	for i, input := range inputs {
		var count int
		out[i], count = c.normalize(input)
		surrogates += count
	}
	meta := model.NewMeta()
	_ = meta.Add("numberOfSurrogateCharacters", surrogates)
	return out, meta
}

func (c *Character) normalize(input string) (string, int) {
	var sb strings.Builder
	sb.Grow(len(input))
	surrogates := 0
	pendingSpace := false

	for _, r := range input {
		if r == ' ' || c.isSpace(r) {
			pendingSpace = true
			continue
		}
		if r > 0xFFFF || r == utf8.RuneError {
			surrogates++
			continue
		}
		if !c.allow(r) {
			continue
		}
		r = unicode.ToLower(r)
		if c.reserved[r] {
			continue
		}
		if pendingSpace && sb.Len() > 0 {
			sb.WriteByte(' ')
		}
		pendingSpace = false
		sb.WriteRune(r)
	}
	return sb.String(), surrogates
}

// StripMarks removes nonspacing combining marks (accents left over by NFKD).
type StripMarks struct {
	remover transform.Transformer
}

// NewStripMarks creates a normalizer removing nonspacing marks.
func NewStripMarks() *StripMarks {
	return &StripMarks{remover: runes.Remove(runes.In(unicode.Mn))}
}

// Normalize removes the marks, returning input unchanged if the transform fails.
func (s *StripMarks) Normalize(input string) string {
	out, _, err := transform.String(s.remover, input)
	if err != nil {
		return input
	}
	return out
}

// NormalizeBulk removes the marks of every input.
func (s *StripMarks) NormalizeBulk(inputs []string) ([]string, *model.Meta) {
	return mapAll(s.Normalize, inputs), model.NewMeta()
}
