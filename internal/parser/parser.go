package parser

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/dgallion1/docxmd/internal/doctree"
)

// Fatal conditions. Anything else found while reading a document degrades
// the affected feature instead of failing the conversion.
var (
	ErrMalformedContainer  = errors.New("not a valid .docx (zip) container")
	ErrMissingMainContent  = errors.New("missing main document part")
	ErrMalformedMainMarkup = errors.New("main document part is not well-formed XML")
)

// IsDocumentError reports whether err is one of the fatal document
// conditions, as opposed to an I/O or internal failure.
func IsDocumentError(err error) bool {
	return errors.Is(err, ErrMalformedContainer) ||
		errors.Is(err, ErrMissingMainContent) ||
		errors.Is(err, ErrMalformedMainMarkup)
}

// Parser converts raw document bytes into a content tree.
type Parser interface {
	Parse(r io.Reader, filename string) (*doctree.Document, error)
}

// SupportedExtensions lists file extensions this service can handle.
var SupportedExtensions = map[string]bool{
	".docx": true,
}

// ForFile returns the appropriate parser for a filename.
func ForFile(filename string, log *slog.Logger) (Parser, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".docx":
		return &DOCXParser{Log: log}, nil
	default:
		return nil, fmt.Errorf("unsupported file extension: %s", ext)
	}
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return SupportedExtensions[ext]
}
