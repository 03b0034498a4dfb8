package linearize

import (
	"strings"

	"github.com/dgallion1/docxmd/internal/doctree"
)

const (
	markHighlight = "=="
	markBold      = "**"
	markItalic    = "*"
)

// format is the inline formatting in effect for a run. Nested runs can add
// flags but never clear inherited ones.
type format struct {
	highlight bool
	bold      bool
	italic    bool
}

func (f format) merge(p doctree.RunProps) format {
	return format{
		highlight: f.highlight || p.Highlight,
		bold:      f.bold || p.Bold,
		italic:    f.italic || p.Italic,
	}
}

// recorder receives every fragment a buffer writes, verbatim.
type recorder interface {
	record(text string)
}

// formatBuffer accumulates output and keeps the highlight, bold and italic
// markers balanced. Markers open in the order highlight, bold, italic and
// close in the order italic, bold, highlight; this is a fixed protocol,
// not a stack, so a partial transition can close an outer marker before
// an inner one.
type formatBuffer struct {
	sb  strings.Builder
	rec recorder

	highlight bool
	bold      bool
	italic    bool
}

func newFormatBuffer(rec recorder) *formatBuffer {
	return &formatBuffer{rec: rec}
}

// emitText writes text under f, toggling whichever markers differ.
func (b *formatBuffer) emitText(text string, f format) {
	if text == "" {
		return
	}
	b.forward(text)
	b.toggle(&b.highlight, f.highlight, markHighlight)
	b.toggle(&b.bold, f.bold, markBold)
	b.toggle(&b.italic, f.italic, markItalic)
	b.sb.WriteString(text)
}

// emitLiteral closes every open marker and writes lit unformatted.
func (b *formatBuffer) emitLiteral(lit string) {
	b.closeAll()
	if lit == "" {
		return
	}
	b.sb.WriteString(lit)
	b.forward(lit)
}

// finish closes every open marker and returns the accumulated text.
func (b *formatBuffer) finish() string {
	b.closeAll()
	return b.sb.String()
}

func (b *formatBuffer) toggle(open *bool, want bool, mark string) {
	if *open == want {
		return
	}
	b.sb.WriteString(mark)
	*open = want
}

func (b *formatBuffer) closeAll() {
	b.toggle(&b.italic, false, markItalic)
	b.toggle(&b.bold, false, markBold)
	b.toggle(&b.highlight, false, markHighlight)
}

func (b *formatBuffer) forward(text string) {
	if b.rec != nil {
		b.rec.record(text)
	}
}
