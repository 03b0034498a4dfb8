package linearize

import (
	"strconv"
	"strings"

	"github.com/dgallion1/docxmd/internal/doctree"
)

// NumberingResolver resolves (list id, depth) pairs to level definitions.
type NumberingResolver struct {
	info doctree.Numbering
}

func NewNumberingResolver(info doctree.Numbering) *NumberingResolver {
	return &NumberingResolver{info: info}
}

// ResolveLevel follows list id -> abstract id -> level. A missing link at
// any step is not an error; it simply resolves to nothing.
func (r *NumberingResolver) ResolveLevel(listID string, depth int) (doctree.NumberingLevel, bool) {
	if r == nil {
		return doctree.NumberingLevel{}, false
	}
	abstractID, ok := r.info.Instances[listID]
	if !ok || abstractID == "" {
		return doctree.NumberingLevel{}, false
	}
	def, ok := r.info.Abstract[abstractID]
	if !ok {
		return doctree.NumberingLevel{}, false
	}
	lvl, ok := def.Levels[depth]
	return lvl, ok
}

type counterKey struct {
	listID string
	depth  int
}

// listCounters holds the next ordinal per (list id, depth) for a whole
// document. Bullet levels never touch it.
type listCounters map[counterKey]int

// next returns the line prefix for a list paragraph and advances the
// counter when the level is ordered.
func (c listCounters) next(r *NumberingResolver, listID string, depth int, mode Ordinals) string {
	if depth < 0 {
		depth = 0
	}
	indent := strings.Repeat("  ", depth)

	lvl, ok := r.ResolveLevel(listID, depth)
	if !ok || !lvl.Format.Ordered() {
		return indent + "- "
	}

	key := counterKey{listID: listID, depth: depth}
	n, seen := c[key]
	if !seen {
		n = lvl.Start
	}
	c[key] = n + 1
	return indent + formatOrdinal(n, lvl.Format, mode) + ". "
}

func formatOrdinal(n int, f doctree.NumberFormat, mode Ordinals) string {
	if mode == OrdinalsDeclared && n > 0 {
		switch f {
		case doctree.FormatUpperLetter:
			return letters(n)
		case doctree.FormatLowerLetter:
			return strings.ToLower(letters(n))
		case doctree.FormatUpperRoman:
			if n < 4000 {
				return roman(n)
			}
		case doctree.FormatLowerRoman:
			if n < 4000 {
				return strings.ToLower(roman(n))
			}
		}
	}
	return strconv.Itoa(n)
}

// letters is bijective base-26: 1=A, 26=Z, 27=AA.
func letters(n int) string {
	var b []byte
	for n > 0 {
		n--
		b = append(b, 'A'+byte(n%26))
		n /= 26
	}
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
	return string(b)
}

var romanTable = []struct {
	value  int
	symbol string
}{
	{1000, "M"}, {900, "CM"}, {500, "D"}, {400, "CD"},
	{100, "C"}, {90, "XC"}, {50, "L"}, {40, "XL"},
	{10, "X"}, {9, "IX"}, {5, "V"}, {4, "IV"}, {1, "I"},
}

func roman(n int) string {
	var sb strings.Builder
	for _, r := range romanTable {
		for n >= r.value {
			sb.WriteString(r.symbol)
			n -= r.value
		}
	}
	return sb.String()
}
