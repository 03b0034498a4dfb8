package linearize

import (
	"strings"

	"github.com/dgallion1/docxmd/internal/doctree"
)

// activeRange collects the source text between a comment's range markers.
type activeRange struct {
	id    string
	parts []string
}

// collected is a comment ready to be written as an annotation block.
type collected struct {
	id       string
	author   string
	date     string
	original string
	text     string
}

// traversal is the mutable state of one conversion. It is created per
// document and threaded through every render call; nothing in it outlives
// the conversion.
type traversal struct {
	comments  *CommentRegistry
	numbering *NumberingResolver
	styles    *StyleResolver
	opts      Options
	labels    labelSet

	ranges   []*activeRange // open ranges, in the order they were opened
	pending  []collected
	emitted  map[string]bool
	counters listCounters
}

func newTraversal(doc *doctree.Document, opts Options) *traversal {
	return &traversal{
		comments:  NewCommentRegistry(doc.Comments),
		numbering: NewNumberingResolver(doc.Numbering),
		styles:    NewStyleResolver(doc.Styles),
		opts:      opts,
		labels:    opts.Labels.set(),
		emitted:   make(map[string]bool),
		counters:  make(listCounters),
	}
}

func (t *traversal) activeRange(id string) (int, *activeRange) {
	for i, r := range t.ranges {
		if r.id == id {
			return i, r
		}
	}
	return -1, nil
}

func (t *traversal) startRange(id string) {
	if _, r := t.activeRange(id); r != nil {
		return
	}
	t.ranges = append(t.ranges, &activeRange{id: id})
}

// endRange closes the range for id and queues its comment. A range end
// without a matching start is ignored.
func (t *traversal) endRange(id string) {
	i, r := t.activeRange(id)
	if r == nil {
		return
	}
	t.ranges = append(t.ranges[:i], t.ranges[i+1:]...)
	t.collect(id, collapse(strings.Join(r.parts, "")))
}

// reference handles a bare comment reference. While a range for id is
// still open the range end is responsible for the comment.
func (t *traversal) reference(id string) {
	if _, r := t.activeRange(id); r != nil {
		return
	}
	t.collect(id, "")
}

// collect registers id as emitted and queues its comment. It is the single
// entry point for both triggers, so a comment is queued at most once;
// unknown ids are dropped.
func (t *traversal) collect(id, original string) {
	if t.emitted[id] {
		return
	}
	c, ok := t.comments.Lookup(id)
	if !ok {
		return
	}
	t.emitted[id] = true
	t.pending = append(t.pending, collected{
		id:       id,
		author:   c.Author,
		date:     c.Date,
		original: original,
		text:     c.Text,
	})
}

// record implements recorder: every open range receives the fragment.
func (t *traversal) record(text string) {
	for _, r := range t.ranges {
		r.parts = append(r.parts, text)
	}
}

func (t *traversal) drainPending() []collected {
	out := t.pending
	t.pending = nil
	return out
}

// flushUnterminated closes every range still open, in opening order.
func (t *traversal) flushUnterminated() {
	open := t.ranges
	t.ranges = nil
	for _, r := range open {
		t.collect(r.id, collapse(strings.Join(r.parts, "")))
	}
}

// scoped renders through fn into an isolated buffer and returns its closed
// text. Open ranges still receive every fragment fn writes.
func (t *traversal) scoped(fn func(inner *formatBuffer)) string {
	inner := newFormatBuffer(t)
	fn(inner)
	return inner.finish()
}

// collapse trims s and folds internal whitespace runs into single spaces.
func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
