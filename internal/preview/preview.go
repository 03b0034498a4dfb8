// Package preview renders linearized Markdown as HTML for quick review in a
// browser.
package preview

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	gmhtml "github.com/yuin/goldmark/renderer/html"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const pageStyle = `body{font-family:sans-serif;max-width:50em;margin:2em auto;line-height:1.5}` +
	`table{border-collapse:collapse}td,th{border:1px solid #999;padding:.25em .5em}` +
	`blockquote{color:#555;border-left:3px solid #ccc;margin-left:0;padding-left:1em}`

var md = goldmark.New(
	goldmark.WithExtensions(extension.Table, extension.Strikethrough),
	goldmark.WithRendererOptions(gmhtml.WithHardWraps()),
)

// Fragment renders Markdown to an HTML fragment. Raw HTML in the input is
// not passed through.
func Fragment(markdown string) (string, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return buf.String(), nil
}

// Page renders Markdown into a complete, standalone HTML document.
func Page(title, markdown string) (string, error) {
	frag, err := Fragment(markdown)
	if err != nil {
		return "", err
	}

	article := element(atom.Article)
	nodes, err := html.ParseFragment(strings.NewReader(frag), article)
	if err != nil {
		return "", fmt.Errorf("parse fragment: %w", err)
	}
	for _, n := range nodes {
		article.AppendChild(n)
	}

	head := element(atom.Head)
	meta := element(atom.Meta)
	meta.Attr = []html.Attribute{{Key: "charset", Val: "utf-8"}}
	head.AppendChild(meta)
	titleEl := element(atom.Title)
	titleEl.AppendChild(&html.Node{Type: html.TextNode, Data: title})
	head.AppendChild(titleEl)
	style := element(atom.Style)
	style.AppendChild(&html.Node{Type: html.TextNode, Data: pageStyle})
	head.AppendChild(style)

	body := element(atom.Body)
	body.AppendChild(article)

	root := element(atom.Html)
	root.AppendChild(head)
	root.AppendChild(body)

	doc := &html.Node{Type: html.DocumentNode}
	doc.AppendChild(&html.Node{Type: html.DoctypeNode, Data: "html"})
	doc.AppendChild(root)

	var buf bytes.Buffer
	if err := html.Render(&buf, doc); err != nil {
		return "", fmt.Errorf("render page: %w", err)
	}
	return buf.String(), nil
}

func element(a atom.Atom) *html.Node {
	return &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String()}
}
