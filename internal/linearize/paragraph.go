package linearize

import (
	"strings"
	"unicode"

	"github.com/dgallion1/docxmd/internal/doctree"
)

// paragraphContent renders p with a fresh buffer, without any line prefix.
func (t *traversal) paragraphContent(p *doctree.Node) string {
	out := newFormatBuffer(t)
	t.render(p, format{}, out)
	return trimRight(out.finish())
}

// paragraphLines renders p as zero or more output lines: the content with
// its heading or list prefix, then one annotation block per comment that
// was completed inside the paragraph.
func (t *traversal) paragraphLines(p *doctree.Node) []string {
	content := t.paragraphContent(p)
	comments := t.drainPending()

	var lines []string
	if content == "" && len(comments) == 0 {
		return lines
	}

	props := p.Paragraph
	if content != "" {
		if lvl, ok := t.styles.HeadingLevel(props.StyleID); ok {
			content = strings.Repeat("#", lvl) + " " + content
		} else if props.ListID != "" {
			content = t.counters.next(t.numbering, props.ListID, props.Depth, t.opts.Ordinals) + content
		}
		lines = append(lines, content)
	}

	for _, c := range comments {
		lines = append(lines, "", t.annotation(c))
	}
	return lines
}

// annotation formats one comment as a Markdown quote block.
func (t *traversal) annotation(c collected) string {
	meta := []string{"**[" + t.labels.comment + " #" + c.id + "]**"}
	if c.author != "" {
		meta = append(meta, c.author)
	}
	if c.date != "" {
		meta = append(meta, "("+c.date+")")
	}

	lines := []string{"> " + strings.Join(meta, " ")}
	if c.original != "" {
		lines = append(lines, "> **"+t.labels.original+"**"+t.labels.sep+c.original)
	}
	if c.text != "" {
		lines = append(lines, "> **"+t.labels.note+"**"+t.labels.sep+c.text)
	}
	return strings.Join(lines, "\n")
}

func trimRight(s string) string {
	return strings.TrimRightFunc(s, unicode.IsSpace)
}
