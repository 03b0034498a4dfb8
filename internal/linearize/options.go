package linearize

import "fmt"

// Options tune the rendering. The zero value reproduces the reference output.
type Options struct {
	Ordinals Ordinals
	Labels   Labels
}

// Ordinals selects how ordered list markers are written.
type Ordinals int

const (
	// OrdinalsDecimal writes every ordered family (letters and Roman
	// numerals included) as a decimal number.
	OrdinalsDecimal Ordinals = iota
	// OrdinalsDeclared honors the declared family: A/a for letter lists,
	// I/i for Roman lists.
	OrdinalsDeclared
)

func (o Ordinals) String() string {
	if o == OrdinalsDeclared {
		return "declared"
	}
	return "decimal"
}

// ParseOrdinals accepts "decimal" or "declared". Empty means decimal.
func ParseOrdinals(s string) (Ordinals, error) {
	switch s {
	case "", "decimal":
		return OrdinalsDecimal, nil
	case "declared":
		return OrdinalsDeclared, nil
	}
	return OrdinalsDecimal, fmt.Errorf("unknown ordinal style %q (want decimal or declared)", s)
}

// Labels selects the vocabulary of annotation blocks.
type Labels int

const (
	LabelsEnglish Labels = iota
	LabelsChinese
)

func (l Labels) String() string {
	if l == LabelsChinese {
		return "zh"
	}
	return "en"
}

// ParseLabels accepts "en" or "zh". Empty means en.
func ParseLabels(s string) (Labels, error) {
	switch s {
	case "", "en":
		return LabelsEnglish, nil
	case "zh":
		return LabelsChinese, nil
	}
	return LabelsEnglish, fmt.Errorf("unknown label locale %q (want en or zh)", s)
}

type labelSet struct {
	comment  string
	original string
	note     string
	sep      string
}

func (l Labels) set() labelSet {
	if l == LabelsChinese {
		return labelSet{comment: "批注", original: "原文", note: "批注", sep: "："}
	}
	return labelSet{comment: "comment", original: "original", note: "comment", sep: ": "}
}
