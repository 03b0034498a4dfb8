package linearize

import "github.com/dgallion1/docxmd/internal/doctree"

// render writes n into out under the inherited format f.
func (t *traversal) render(n *doctree.Node, f format, out *formatBuffer) {
	switch n.Kind {
	case doctree.KindCommentRangeStart:
		if n.ID != "" {
			t.startRange(n.ID)
		}
	case doctree.KindCommentRangeEnd:
		if n.ID != "" {
			t.endRange(n.ID)
		}
	case doctree.KindInsertion:
		t.renderRevision(n, f, out, "{+", "+}")
	case doctree.KindDeletion:
		t.renderRevision(n, f, out, "[-", "-]")
	case doctree.KindRun:
		t.renderRun(n, f, out)
	case doctree.KindTable:
		t.renderTable(n, out)
	default:
		// Paragraphs, cells and unrecognized containers contribute no
		// markup of their own.
		t.renderChildren(n, f, out)
	}
}

func (t *traversal) renderChildren(n *doctree.Node, f format, out *formatBuffer) {
	for _, c := range n.Children {
		t.render(c, f, out)
	}
}

// renderRevision resolves the revised content on its own and wraps it, so
// the wrapper never interleaves with the markers around it.
func (t *traversal) renderRevision(n *doctree.Node, f format, out *formatBuffer, open, close string) {
	text := t.scoped(func(inner *formatBuffer) {
		t.renderChildren(n, f, inner)
	})
	if text == "" {
		return
	}
	out.emitLiteral(open + text + close)
}

func (t *traversal) renderRun(n *doctree.Node, f format, out *formatBuffer) {
	merged := f.merge(n.Run)
	for _, c := range n.Children {
		switch c.Kind {
		case doctree.KindCommentReference:
			if c.ID != "" {
				t.reference(c.ID)
			}
		case doctree.KindText, doctree.KindDeletedText:
			out.emitText(c.Text, merged)
		case doctree.KindTab:
			out.emitLiteral("\t")
		case doctree.KindBreak:
			out.emitLiteral("\n")
		case doctree.KindNoBreakHyphen:
			out.emitText("\u2011", merged)
		case doctree.KindSoftHyphen:
			out.emitText("\u00ad", merged)
		default:
			t.render(c, merged, out)
		}
	}
}
