package linearize

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/dgallion1/docxmd/internal/doctree"
)

var headingName = regexp.MustCompile(`^(?:heading|标题)\s*(\d+)`)

// StyleResolver maps paragraph style ids to heading levels 1-6.
type StyleResolver struct {
	levels map[string]int
}

// NewStyleResolver derives heading levels from style definitions.
//
// A style qualifies through its display name ("Heading N", "标题 N") or
// through an outline level 0-5. When both apply, the name wins.
func NewStyleResolver(defs []doctree.StyleDef) *StyleResolver {
	r := &StyleResolver{levels: make(map[string]int)}
	for _, def := range defs {
		if def.ID == "" {
			continue
		}
		if lvl, ok := nameHeadingLevel(def.Name); ok {
			r.levels[def.ID] = lvl
			continue
		}
		if def.OutlineLevel >= 0 && def.OutlineLevel <= 5 {
			r.levels[def.ID] = def.OutlineLevel + 1
		}
	}
	return r
}

func nameHeadingLevel(name string) (int, bool) {
	m := headingName.FindStringSubmatch(strings.ToLower(name))
	if m == nil {
		return 0, false
	}
	lvl, err := strconv.Atoi(m[1])
	if err != nil || lvl < 1 || lvl > 6 {
		return 0, false
	}
	return lvl, true
}

// HeadingLevel returns the heading level of styleID, if it is a heading.
func (r *StyleResolver) HeadingLevel(styleID string) (int, bool) {
	if r == nil || styleID == "" {
		return 0, false
	}
	lvl, ok := r.levels[styleID]
	return lvl, ok
}
