package linearize

import (
	"strings"

	"github.com/dgallion1/docxmd/internal/doctree"
)

// renderTable flattens tbl into pipe-delimited rows. The first row is
// always treated as the header.
func (t *traversal) renderTable(tbl *doctree.Node, out *formatBuffer) {
	rows := t.tableRows(tbl)

	width := 0
	for _, row := range rows {
		width = max(width, len(row))
	}
	if width == 0 {
		return
	}

	for i, row := range rows {
		for len(row) < width {
			row = append(row, "")
		}
		out.emitLiteral("| " + strings.Join(row, " | ") + " |\n")
		if i == 0 {
			sep := make([]string, width)
			for j := range sep {
				sep[j] = "---"
			}
			out.emitLiteral("| " + strings.Join(sep, " | ") + " |\n")
		}
	}
}

// tableRows renders the cells of the direct rows of tbl. A cell is the
// space-joined content of every paragraph beneath it, nested tables
// included.
func (t *traversal) tableRows(tbl *doctree.Node) [][]string {
	var rows [][]string
	for _, tr := range tbl.Children {
		if tr.Kind != doctree.KindTableRow {
			continue
		}
		row := []string{}
		for _, tc := range tr.Children {
			if tc.Kind != doctree.KindTableCell {
				continue
			}
			row = append(row, t.cellContent(tc))
		}
		rows = append(rows, row)
	}
	return rows
}

func (t *traversal) cellContent(tc *doctree.Node) string {
	var parts []string
	doctree.Walk(tc, func(n *doctree.Node) bool {
		if n.Kind == doctree.KindParagraph {
			if content := t.paragraphContent(n); content != "" {
				parts = append(parts, content)
			}
		}
		return true
	})
	return strings.TrimSpace(strings.Join(parts, " "))
}
