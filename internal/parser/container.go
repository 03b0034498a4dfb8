package parser

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
)

// Part names inside the .docx container.
const (
	partDocument  = "word/document.xml"
	partComments  = "word/comments.xml"
	partNumbering = "word/numbering.xml"
	partStyles    = "word/styles.xml"
)

var errPartMissing = errors.New("part not found")

// wordPackage gives access to the parts of an opened container.
type wordPackage struct {
	files map[string]*zip.File
}

func openPackage(data []byte) (*wordPackage, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedContainer, err)
	}
	pkg := &wordPackage{files: make(map[string]*zip.File, len(zr.File))}
	for _, f := range zr.File {
		pkg.files[f.Name] = f
	}
	return pkg, nil
}

// read returns the bytes of the named part, or errPartMissing.
func (p *wordPackage) read(name string) ([]byte, error) {
	f, ok := p.files[name]
	if !ok {
		return nil, fmt.Errorf("%s: %w", name, errPartMissing)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", name, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return data, nil
}
