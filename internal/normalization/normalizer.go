// Package normalization turns raw terms and queries into their searchable form.
// Every stage implements services.Normalizer and the default pipeline chains them.
package normalization

import (
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"

	"github.com/gcbaptista/go-fuzzy-search/config"
	"github.com/gcbaptista/go-fuzzy-search/model"
	"github.com/gcbaptista/go-fuzzy-search/services"
)

// LowerNFKC lowercases input and applies compatibility composition.
func LowerNFKC(input string) string {
	return norm.NFKC.String(strings.ToLower(input))
}

// NFKD applies compatibility decomposition.
func NFKD(input string) string {
	return norm.NFKD.String(input)
}

// NewDefault builds the pipeline variation replacement, NFKD decomposition,
// optional mark stripping and character filtering. Characters in reserved are
// always dropped by the filter.
func NewDefault(cfg config.NormalizerConfig, reserved map[rune]bool) *Multi {
	stages := []services.Normalizer{
		NewVariation(cfg.Replacements, LowerNFKC),
		NewGeneric(NFKD),
	}
	if cfg.StripCombiningMarks {
		stages = append(stages, NewStripMarks())
	}
	stages = append(stages, NewCharacter(cfg.TreatCharacterAsSpace, cfg.AllowCharacter, reserved))
	return NewMulti(stages...)
}

// Multi applies normalizers in sequence.
type Multi struct {
	normalizers []services.Normalizer
}

// NewMulti chains normalizers; the output of one stage is the input of the next.
func NewMulti(normalizers ...services.Normalizer) *Multi {
	return &Multi{normalizers: normalizers}
}

// Normalize runs input through every stage.
func (m *Multi) Normalize(input string) string {
	for _, n := range m.normalizers {
		input = n.Normalize(input)
	}
	return input
}

// NormalizeBulk runs every stage over all inputs and collects the diagnostics of each stage.
func (m *Multi) NormalizeBulk(inputs []string) ([]string, *model.Meta) {
	meta := model.NewMeta()
	for _, n := range m.normalizers {
		var stageMeta *model.Meta
		inputs, stageMeta = n.NormalizeBulk(inputs)
		for _, entry := range stageMeta.Entries() {
			// stage diagnostics use distinct keys; a clash means two identical stages, keep the first
			_ = meta.Add(entry.Key, entry.Value)
		}
	}
	return inputs, meta
}

// Generic applies an arbitrary string function.
type Generic struct {
	fn func(string) string
}

// NewGeneric wraps fn as a normalizer without diagnostics.
func NewGeneric(fn func(string) string) *Generic {
	return &Generic{fn: fn}
}

// Normalize applies the wrapped function.
func (g *Generic) Normalize(input string) string {
	return g.fn(input)
}

// NormalizeBulk applies the wrapped function to every input.
func (g *Generic) NormalizeBulk(inputs []string) ([]string, *model.Meta) {
	return mapAll(g.fn, inputs), model.NewMeta()
}

// Variation replaces characters by their base form using priority-ordered tables.
// Table entries and input are prepared with the same function so that lookups
// work on one canonical form.
type Variation struct {
	replacements []map[rune]string
	prepare      func(string) string
}

// NewVariation creates a Variation normalizer. Each table maps a base string to its
// variations; variations that do not prepare to a single character are ignored.
func NewVariation(tables []map[string][]string, prepare func(string) string) *Variation {
	replacements := make([]map[rune]string, 0, len(tables))
	for _, table := range tables {
		current := make(map[rune]string)
		for base, variations := range table {
			for _, variation := range variations {
				runes := []rune(prepare(variation))
				if len(runes) != 1 {
					continue
				}
				current[runes[0]] = base
			}
		}
		replacements = append(replacements, current)
	}
	return &Variation{replacements: replacements, prepare: prepare}
}

// Normalize prepares input and replaces every variation by its base string.
// The first table containing a character wins.
func (v *Variation) Normalize(input string) string {
	input = v.prepare(input)

	var sb strings.Builder
	sb.Grow(len(input))
	for _, r := range input {
		sb.WriteString(v.replace(r))
	}
	return sb.String()
}

func (v *Variation) replace(r rune) string {
	for _, table := range v.replacements {
		if base, ok := table[r]; ok {
			return base
		}
	}
	return string(r)
}

// NormalizeBulk normalizes every input.
func (v *Variation) NormalizeBulk(inputs []string) ([]string, *model.Meta) {
	return mapAll(v.Normalize, inputs), model.NewMeta()
}

// Ngram wraps a filtered string in padding for n-gram computation. Spaces are
// replaced by the middle padding. The empty string stays empty.
type Ngram struct {
	PaddingLeft   string
	PaddingRight  string
	PaddingMiddle string
}

// NewNgram creates an Ngram normalizer with the given paddings.
func NewNgram(left, right, middle string) *Ngram {
	return &Ngram{PaddingLeft: left, PaddingRight: right, PaddingMiddle: middle}
}

// Normalize pads input.
func (n *Ngram) Normalize(input string) string {
	if input == "" {
		return input
	}
	return n.PaddingLeft + strings.ReplaceAll(input, " ", n.PaddingMiddle) + n.PaddingRight
}

// NormalizeBulk pads every input.
func (n *Ngram) NormalizeBulk(inputs []string) ([]string, *model.Meta) {
	return mapAll(n.Normalize, inputs), model.NewMeta()
}

// Timed reports the duration of the wrapped bulk normalization as normalizationDuration.
type Timed struct {
	normalizer services.Normalizer
}

// NewTimed wraps normalizer.
func NewTimed(normalizer services.Normalizer) *Timed {
	return &Timed{normalizer: normalizer}
}

// Normalize delegates without timing; single queries are not measured.
func (t *Timed) Normalize(input string) string {
	return t.normalizer.Normalize(input)
}

// NormalizeBulk puts normalizationDuration first, followed by the wrapped diagnostics.
func (t *Timed) NormalizeBulk(inputs []string) ([]string, *model.Meta) {
	start := time.Now()
	normalized, inner := t.normalizer.NormalizeBulk(inputs)
	meta := model.NewMeta()
	_ = meta.Add("normalizationDuration", time.Since(start).Milliseconds())
	for _, entry := range inner.Entries() {
		_ = meta.Add(entry.Key, entry.Value)
	}
	return normalized, meta
}

func mapAll(fn func(string) string, inputs []string) []string {
	out := make([]string, len(inputs))
	for i, input := range inputs {
		out[i] = fn(input)
	}
	return out
}
