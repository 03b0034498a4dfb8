package linearize

import "github.com/dgallion1/docxmd/internal/doctree"

// CommentRegistry is the read-only id -> comment map of one document.
type CommentRegistry struct {
	byID map[string]doctree.Comment
}

// NewCommentRegistry indexes comments by id. A later duplicate replaces an
// earlier one; comments without an id are skipped.
func NewCommentRegistry(comments []doctree.Comment) *CommentRegistry {
	r := &CommentRegistry{byID: make(map[string]doctree.Comment, len(comments))}
	for _, c := range comments {
		if c.ID == "" {
			continue
		}
		r.byID[c.ID] = c
	}
	return r
}

// Lookup returns the comment registered under id.
func (r *CommentRegistry) Lookup(id string) (doctree.Comment, bool) {
	if r == nil {
		return doctree.Comment{}, false
	}
	c, ok := r.byID[id]
	return c, ok
}

// Len returns the number of registered comments.
func (r *CommentRegistry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.byID)
}
