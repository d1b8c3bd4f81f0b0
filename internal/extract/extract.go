// Package extract converts PDF and DOCX documents into normalized plain text.
package extract

import (
	"fmt"
	"regexp"
	"strings"

	"notedeck/internal/document"
	"notedeck/internal/fault"
)

// ExtractedText is the normalized plain-text form of a document.
type ExtractedText struct {
	Text         string
	SourceFormat document.Format
	CharCount    int
}

// Extract turns a document's bytes into normalized text. It is a pure
// transform: same bytes in, same text out.
func Extract(doc document.Document) (ExtractedText, error) {
	var (
		text string
		err  error
	)
	switch doc.Format {
	case document.FormatPDF:
		text, err = extractPDF(doc.Content)
	case document.FormatDOCX:
		text, err = extractDOCX(doc.Content)
	default:
		return ExtractedText{}, &fault.ExtractionError{
			Code: fault.CodeUnsupportedFormat,
			Msg:  fmt.Sprintf("unsupported document format %q", doc.Format),
		}
	}
	if err != nil {
		return ExtractedText{}, &fault.ExtractionError{
			Code: fault.CodeCorruptDocument,
			Msg:  fmt.Sprintf("cannot parse %s document", doc.Format),
			Err:  err,
		}
	}

	text = Normalize(text)
	if text == "" {
		return ExtractedText{}, &fault.ExtractionError{
			Code: fault.CodeEmptyDocument,
			Msg:  "document contains no extractable text",
		}
	}
	return ExtractedText{
		Text:         text,
		SourceFormat: doc.Format,
		CharCount:    len([]rune(text)),
	}, nil
}

var blankRuns = regexp.MustCompile(`\n{3,}`)

// Normalize unifies line endings, trims trailing whitespace per line, and
// collapses runs of blank lines.
func Normalize(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	text = strings.Join(lines, "\n")
	text = blankRuns.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}
