package parser

import (
	"strconv"
	"strings"

	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"

	"github.com/dgallion1/docxmd/internal/doctree"
)

// WordprocessingML namespaces (transitional and strict).
const (
	wordNS       = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
	wordStrictNS = "http://purl.oclc.org/ooxml/wordprocessingml/main"
)

var bodyExpr = xpath.MustCompile(`//*[local-name()='body']`)

var leafKinds = map[string]doctree.Kind{
	"tab":           doctree.KindTab,
	"br":            doctree.KindBreak,
	"cr":            doctree.KindBreak,
	"noBreakHyphen": doctree.KindNoBreakHyphen,
	"softHyphen":    doctree.KindSoftHyphen,
}

var containerKinds = map[string]doctree.Kind{
	"body": doctree.KindBody,
	"ins":  doctree.KindInsertion,
	"del":  doctree.KindDeletion,
	"tbl":  doctree.KindTable,
	"tr":   doctree.KindTableRow,
	"tc":   doctree.KindTableCell,
}

var commentKinds = map[string]doctree.Kind{
	"commentRangeStart": doctree.KindCommentRangeStart,
	"commentRangeEnd":   doctree.KindCommentRangeEnd,
	"commentReference":  doctree.KindCommentReference,
}

// isWord reports whether n is an element in the WordprocessingML namespace.
func isWord(n *xmlquery.Node) bool {
	if n == nil || n.Type != xmlquery.ElementNode {
		return false
	}
	switch n.NamespaceURI {
	case wordNS, wordStrictNS:
		return true
	case "":
		return n.Prefix == "" || n.Prefix == "w"
	}
	return false
}

func isWordElement(n *xmlquery.Node, local string) bool {
	return isWord(n) && n.Data == local
}

// firstChild returns the first direct WordprocessingML child named local.
func firstChild(n *xmlquery.Node, local string) *xmlquery.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if isWordElement(c, local) {
			return c
		}
	}
	return nil
}

// attr looks an attribute up by local name, whatever its prefix.
func attr(n *xmlquery.Node, local string) (string, bool) {
	if n == nil {
		return "", false
	}
	for _, a := range n.Attr {
		if a.Name.Local == local {
			return a.Value, true
		}
	}
	return "", false
}

// childVal returns the val attribute of the first child named local.
func childVal(n *xmlquery.Node, local string) (string, bool) {
	c := firstChild(n, local)
	if c == nil {
		return "", false
	}
	return attr(c, "val")
}

// buildTree converts an element and its descendants into content nodes.
func buildTree(n *xmlquery.Node) *doctree.Node {
	if !isWord(n) {
		return &doctree.Node{Kind: doctree.KindContainer, Name: n.Data, Children: buildChildren(n, "")}
	}

	switch n.Data {
	case "p":
		return &doctree.Node{
			Kind:      doctree.KindParagraph,
			Paragraph: paragraphProps(n),
			Children:  buildChildren(n, "pPr"),
		}
	case "r":
		return &doctree.Node{
			Kind:     doctree.KindRun,
			Run:      runProps(n),
			Children: buildChildren(n, "rPr"),
		}
	case "t":
		return &doctree.Node{Kind: doctree.KindText, Text: n.InnerText()}
	case "delText":
		return &doctree.Node{Kind: doctree.KindDeletedText, Text: n.InnerText()}
	}

	if k, ok := leafKinds[n.Data]; ok {
		return &doctree.Node{Kind: k}
	}
	if k, ok := commentKinds[n.Data]; ok {
		id, _ := attr(n, "id")
		return &doctree.Node{Kind: k, ID: id}
	}
	if k, ok := containerKinds[n.Data]; ok {
		return &doctree.Node{Kind: k, Children: buildChildren(n, "")}
	}
	return &doctree.Node{Kind: doctree.KindContainer, Name: n.Data, Children: buildChildren(n, "")}
}

// buildChildren converts the element children of n, dropping the
// properties element named skip.
func buildChildren(n *xmlquery.Node, skip string) []*doctree.Node {
	var out []*doctree.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != xmlquery.ElementNode {
			continue
		}
		if skip != "" && isWordElement(c, skip) {
			continue
		}
		out = append(out, buildTree(c))
	}
	return out
}

func paragraphProps(p *xmlquery.Node) doctree.ParagraphProps {
	var props doctree.ParagraphProps
	pPr := firstChild(p, "pPr")
	if pPr == nil {
		return props
	}

	props.StyleID, _ = childVal(pPr, "pStyle")

	numPr := firstChild(pPr, "numPr")
	if numPr == nil {
		return props
	}
	if v, ok := childVal(numPr, "ilvl"); ok {
		if d, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && d >= 0 {
			props.Depth = d
		}
	}
	// numId 0 removes numbering inherited from the style.
	if v, ok := childVal(numPr, "numId"); ok && v != "0" {
		props.ListID = v
	}
	return props
}

func runProps(r *xmlquery.Node) doctree.RunProps {
	var props doctree.RunProps
	rPr := firstChild(r, "rPr")
	if rPr == nil {
		return props
	}
	if v, ok := childVal(rPr, "highlight"); ok {
		v = strings.ToLower(strings.TrimSpace(v))
		props.Highlight = v != "" && v != "none"
	}
	props.Bold = toggleOn(firstChild(rPr, "b"))
	props.Italic = toggleOn(firstChild(rPr, "i"))
	return props
}

// toggleOn reads an on/off property: present without val, or with any val
// other than an explicit false, means on.
func toggleOn(el *xmlquery.Node) bool {
	if el == nil {
		return false
	}
	v, ok := attr(el, "val")
	if !ok {
		return true
	}
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "false", "0", "off":
		return false
	}
	return true
}

// plainText concatenates the visible text beneath n, without markup.
func plainText(n *xmlquery.Node) string {
	var sb strings.Builder
	var walk func(*xmlquery.Node)
	walk = func(n *xmlquery.Node) {
		if isWord(n) {
			switch n.Data {
			case "t", "delText":
				sb.WriteString(n.InnerText())
				return
			case "tab":
				sb.WriteString("\t")
				return
			case "br", "cr":
				sb.WriteString("\n")
				return
			case "noBreakHyphen":
				sb.WriteString("\u2011")
				return
			case "softHyphen":
				sb.WriteString("\u00ad")
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == xmlquery.ElementNode {
				walk(c)
			}
		}
	}
	walk(n)
	return sb.String()
}
