// Package document models an uploaded note file before extraction.
package document

import (
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"notedeck/internal/fault"
)

// Format is the declared document format.
type Format string

const (
	FormatPDF  Format = "pdf"
	FormatDOCX Format = "docx"
)

// Document is an immutable uploaded note file. It is discarded after text
// extraction and never persisted.
type Document struct {
	Name    string
	Format  Format
	Content []byte
}

const (
	mimePDF  = "application/pdf"
	mimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

// Detect resolves the document format from the filename extension, falling
// back to content sniffing when the extension is missing or unknown.
func Detect(filename string, content []byte) (Format, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return FormatPDF, nil
	case ".docx":
		return FormatDOCX, nil
	}
	mt := mimetype.Detect(content)
	switch {
	case mt.Is(mimePDF):
		return FormatPDF, nil
	case mt.Is(mimeDOCX):
		return FormatDOCX, nil
	}
	return "", &fault.ExtractionError{
		Code: fault.CodeUnsupportedFormat,
		Msg:  "unsupported document format (only PDF and DOCX allowed)",
	}
}

// New detects the format of content and wraps it as a Document.
func New(filename string, content []byte) (Document, error) {
	format, err := Detect(filename, content)
	if err != nil {
		return Document{}, err
	}
	return Document{Name: filename, Format: format, Content: content}, nil
}
