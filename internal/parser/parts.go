package parser

import (
	"strconv"
	"strings"
	"time"

	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"

	"github.com/dgallion1/docxmd/internal/doctree"
)

var (
	commentExpr     = xpath.MustCompile(`//*[local-name()='comment']`)
	abstractNumExpr = xpath.MustCompile(`//*[local-name()='abstractNum']`)
	numExpr         = xpath.MustCompile(`//*[local-name()='num']`)
	styleExpr       = xpath.MustCompile(`//*[local-name()='style']`)
)

// readComments extracts the comment records of the comments part.
func readComments(root *xmlquery.Node) []doctree.Comment {
	if root == nil {
		return nil
	}
	var out []doctree.Comment
	for _, c := range xmlquery.QuerySelectorAll(root, commentExpr) {
		if !isWord(c) {
			continue
		}
		id, _ := attr(c, "id")
		if id == "" {
			continue
		}
		author, _ := attr(c, "author")
		date, _ := attr(c, "date")
		out = append(out, doctree.Comment{
			ID:     id,
			Author: strings.TrimSpace(author),
			Date:   normalizeDate(date),
			Text:   strings.Join(strings.Fields(plainText(c)), " "),
		})
	}
	return out
}

// readNumbering extracts abstract list definitions and the instance
// mapping from the numbering part.
func readNumbering(root *xmlquery.Node) doctree.Numbering {
	info := doctree.Numbering{
		Abstract:  map[string]doctree.NumberingDefinition{},
		Instances: map[string]string{},
	}
	if root == nil {
		return info
	}

	for _, an := range xmlquery.QuerySelectorAll(root, abstractNumExpr) {
		id, _ := attr(an, "abstractNumId")
		if !isWord(an) || id == "" {
			continue
		}
		def := doctree.NumberingDefinition{Levels: map[int]doctree.NumberingLevel{}}
		for lvl := an.FirstChild; lvl != nil; lvl = lvl.NextSibling {
			if !isWordElement(lvl, "lvl") {
				continue
			}
			raw, _ := attr(lvl, "ilvl")
			ilvl, err := strconv.Atoi(strings.TrimSpace(raw))
			if err != nil {
				continue
			}
			level := doctree.NumberingLevel{Format: doctree.FormatDecimal, Start: 1}
			if v, ok := childVal(lvl, "numFmt"); ok {
				level.Format = doctree.NumberFormat(v)
			}
			level.Template, _ = childVal(lvl, "lvlText")
			if v, ok := childVal(lvl, "start"); ok {
				if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
					level.Start = n
				}
			}
			def.Levels[ilvl] = level
		}
		info.Abstract[id] = def
	}

	for _, num := range xmlquery.QuerySelectorAll(root, numExpr) {
		id, _ := attr(num, "numId")
		if !isWord(num) || id == "" {
			continue
		}
		if ref, ok := childVal(num, "abstractNumId"); ok {
			info.Instances[id] = ref
		}
	}
	return info
}

// readStyles extracts style names and outline levels.
func readStyles(root *xmlquery.Node) []doctree.StyleDef {
	if root == nil {
		return nil
	}
	var out []doctree.StyleDef
	for _, s := range xmlquery.QuerySelectorAll(root, styleExpr) {
		id, _ := attr(s, "styleId")
		if !isWord(s) || id == "" {
			continue
		}
		def := doctree.StyleDef{ID: id, OutlineLevel: -1}
		def.Name, _ = childVal(s, "name")
		if pPr := firstChild(s, "pPr"); pPr != nil {
			if v, ok := childVal(pPr, "outlineLvl"); ok {
				if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
					def.OutlineLevel = n
				}
			}
		}
		out = append(out, def)
	}
	return out
}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// normalizeDate reduces a timestamp to its calendar date. Values that do
// not parse are kept as given.
func normalizeDate(raw string) string {
	v := strings.TrimSpace(raw)
	if v == "" {
		return ""
	}
	for _, layout := range dateLayouts {
		if ts, err := time.Parse(layout, v); err == nil {
			return ts.Format("2006-01-02")
		}
	}
	return v
}
