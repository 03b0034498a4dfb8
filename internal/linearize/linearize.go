// Package linearize turns a parsed word-processing document into a single
// annotated Markdown stream.
//
// Inline formatting becomes ==highlight==, **bold** and *italic* markers,
// tracked changes become {+inserted+} and [-deleted-] spans, and every
// comment is written once, as a quote block after the paragraph in which
// its range closed.
package linearize

import (
	"strings"

	"github.com/dgallion1/docxmd/internal/doctree"
)

// Linearize renders doc. The result is empty or ends with exactly one
// newline. Each call uses its own traversal state, so repeated calls on
// the same document produce identical output.
func Linearize(doc *doctree.Document, opts Options) string {
	if doc == nil || doc.Body == nil {
		return ""
	}
	t := newTraversal(doc, opts)

	var lines []string
	for _, child := range doc.Body.Children {
		switch child.Kind {
		case doctree.KindParagraph:
			lines = append(lines, t.paragraphLines(child)...)
		case doctree.KindTable:
			out := newFormatBuffer(t)
			t.renderTable(child, out)
			if chunk := trimRight(out.finish()); chunk != "" {
				lines = append(lines, chunk)
			}
		}
	}

	// Comments completed after the last paragraph, then ranges that never
	// closed.
	t.flushUnterminated()
	for _, c := range t.drainPending() {
		lines = append(lines, "", t.annotation(c))
	}

	text := trimRight(strings.Join(lines, "\n"))
	if text == "" {
		return ""
	}
	return text + "\n"
}
