package doctree

// Kind identifies what a Node represents in a document body.
type Kind int

const (
	KindContainer Kind = iota // Unrecognized element; only its children matter.
	KindBody
	KindParagraph
	KindRun
	KindText
	KindDeletedText
	KindTab
	KindBreak
	KindNoBreakHyphen
	KindSoftHyphen
	KindCommentRangeStart
	KindCommentRangeEnd
	KindCommentReference
	KindInsertion
	KindDeletion
	KindTable
	KindTableRow
	KindTableCell
)

var kindNames = [...]string{
	KindContainer:         "container",
	KindBody:              "body",
	KindParagraph:         "paragraph",
	KindRun:               "run",
	KindText:              "text",
	KindDeletedText:       "deleted_text",
	KindTab:               "tab",
	KindBreak:             "break",
	KindNoBreakHyphen:     "no_break_hyphen",
	KindSoftHyphen:        "soft_hyphen",
	KindCommentRangeStart: "comment_range_start",
	KindCommentRangeEnd:   "comment_range_end",
	KindCommentReference:  "comment_reference",
	KindInsertion:         "insertion",
	KindDeletion:          "deletion",
	KindTable:             "table",
	KindTableRow:          "table_row",
	KindTableCell:         "table_cell",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Node is one element of the content tree.
type Node struct {
	Kind Kind
	Name string // Local element name, kept for KindContainer.
	ID   string // Comment id for the comment kinds.
	Text string // Content of KindText and KindDeletedText.

	Run       RunProps       // Valid for KindRun.
	Paragraph ParagraphProps // Valid for KindParagraph.

	Children []*Node
}

// RunProps are the formatting flags a run declares locally.
type RunProps struct {
	Highlight bool
	Bold      bool
	Italic    bool
}

// ParagraphProps are the paragraph-level properties the renderer consults.
type ParagraphProps struct {
	StyleID string
	ListID  string // Empty when the paragraph is not part of a list.
	Depth   int    // List nesting depth, 0-based.
}

// Document is everything a conversion needs, already parsed.
type Document struct {
	Title     string
	Body      *Node
	Comments  []Comment
	Numbering Numbering
	Styles    []StyleDef
}

// Comment is one entry of the comments part.
type Comment struct {
	ID     string
	Author string // Empty when absent.
	Date   string // Normalized; empty when absent.
	Text   string // Whitespace-collapsed.
}

// NumberFormat is the declared numbering family of a list level.
type NumberFormat string

const (
	FormatBullet      NumberFormat = "bullet"
	FormatDecimal     NumberFormat = "decimal"
	FormatUpperLetter NumberFormat = "upperLetter"
	FormatLowerLetter NumberFormat = "lowerLetter"
	FormatUpperRoman  NumberFormat = "upperRoman"
	FormatLowerRoman  NumberFormat = "lowerRoman"
)

// Ordered reports whether the format is one of the counted families.
func (f NumberFormat) Ordered() bool {
	switch f {
	case FormatDecimal, FormatUpperLetter, FormatLowerLetter, FormatUpperRoman, FormatLowerRoman:
		return true
	}
	return false
}

// NumberingLevel is the format of one depth of an abstract numbering definition.
type NumberingLevel struct {
	Format   NumberFormat
	Template string // Marker template such as "%1." or a bullet glyph.
	Start    int
}

// NumberingDefinition holds the levels of one abstract definition, by depth.
type NumberingDefinition struct {
	Levels map[int]NumberingLevel
}

// Numbering maps list instances to abstract definitions.
type Numbering struct {
	Abstract  map[string]NumberingDefinition // abstract id -> definition
	Instances map[string]string              // list id -> abstract id
}

// StyleDef is a paragraph style as declared in the styles part.
type StyleDef struct {
	ID           string
	Name         string
	OutlineLevel int // Negative when the style declares none.
}

// Walk calls fn for n and every descendant in document order.
// Returning false from fn skips the node's children.
func Walk(n *Node, fn func(*Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	for _, c := range n.Children {
		Walk(c, fn)
	}
}
