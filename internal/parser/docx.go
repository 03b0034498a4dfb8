package parser

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/antchfx/xmlquery"
	"github.com/fumiama/go-docx"

	"github.com/dgallion1/docxmd/internal/doctree"
)

// DOCXParser handles .docx files.
type DOCXParser struct {
	Log *slog.Logger
}

func (p *DOCXParser) Parse(r io.Reader, filename string) (*doctree.Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read docx: %w", err)
	}
	return p.ParseBytes(data, filename)
}

// ParseBytes builds the content tree from an in-memory container. Only a
// broken container or main part is fatal; unreadable comment, numbering or
// style parts are logged and treated as empty.
func (p *DOCXParser) ParseBytes(data []byte, filename string) (*doctree.Document, error) {
	pkg, err := openPackage(data)
	if err != nil {
		return nil, err
	}

	main, err := pkg.read(partDocument)
	if errors.Is(err, errPartMissing) {
		return nil, fmt.Errorf("%w: %s", ErrMissingMainContent, partDocument)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedContainer, err)
	}
	root, err := xmlquery.Parse(bytes.NewReader(main))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedMainMarkup, err)
	}

	doc := &doctree.Document{
		Title: strings.TrimSuffix(filename, ".docx"),
	}
	if body := xmlquery.QuerySelector(root, bodyExpr); body != nil {
		doc.Body = buildTree(body)
	}
	doc.Comments = readComments(p.loadPart(pkg, partComments))
	doc.Numbering = readNumbering(p.loadPart(pkg, partNumbering))
	doc.Styles = readStyles(p.loadPart(pkg, partStyles))
	return doc, nil
}

// loadPart parses an optional part. It returns nil when the part is absent
// or unreadable.
func (p *DOCXParser) loadPart(pkg *wordPackage, name string) *xmlquery.Node {
	data, err := pkg.read(name)
	if errors.Is(err, errPartMissing) {
		return nil
	}
	if err != nil {
		p.logger().Warn("skipping unreadable part", "part", name, "error", err)
		return nil
	}
	root, err := xmlquery.Parse(bytes.NewReader(data))
	if err != nil {
		p.logger().Warn("skipping malformed part", "part", name, "error", err)
		return nil
	}
	return root
}

func (p *DOCXParser) logger() *slog.Logger {
	if p.Log != nil {
		return p.Log
	}
	return slog.Default()
}

// Summary counts top-level blocks of a document.
type Summary struct {
	Paragraphs int `json:"paragraphs"`
	Headings   int `json:"headings"`
	Tables     int `json:"tables"`
}

// Summarize counts the body blocks of a .docx using the go-docx object
// model. It is independent of ParseBytes and used for job metadata.
func Summarize(data []byte) (Summary, error) {
	var s Summary
	doc, err := docx.Parse(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return s, fmt.Errorf("summarize docx: %w", err)
	}
	for _, item := range doc.Document.Body.Items {
		switch it := item.(type) {
		case *docx.Paragraph:
			s.Paragraphs++
			if docxHeadingStyle(it) {
				s.Headings++
			}
		case *docx.Table:
			s.Tables++
		}
	}
	return s, nil
}

func docxHeadingStyle(para *docx.Paragraph) bool {
	if para.Properties == nil || para.Properties.Style == nil {
		return false
	}
	style := strings.ToLower(strings.ReplaceAll(para.Properties.Style.Val, " ", ""))
	return strings.HasPrefix(style, "heading") || strings.HasPrefix(style, "标题")
}
