package document

import (
	"errors"
	"testing"

	"notedeck/internal/fault"
)

func TestDetectByExtension(t *testing.T) {
	tests := []struct {
		filename string
		want     Format
	}{
		{"notes.pdf", FormatPDF},
		{"NOTES.PDF", FormatPDF},
		{"lecture 3.docx", FormatDOCX},
		{"Thesis.Docx", FormatDOCX},
	}
	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			got, err := Detect(tt.filename, nil)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Detect() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDetectSniffsContent(t *testing.T) {
	// No usable extension; detection falls back to magic bytes.
	got, err := Detect("upload", []byte("%PDF-1.4\n%âãÏÓ\n1 0 obj\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != FormatPDF {
		t.Errorf("Detect() = %q, want %q", got, FormatPDF)
	}
}

func TestDetectUnsupported(t *testing.T) {
	_, err := Detect("notes.txt", []byte("just plain text"))
	if err == nil {
		t.Fatal("expected error for unsupported format")
	}
	var ee *fault.ExtractionError
	if !errors.As(err, &ee) {
		t.Fatalf("expected ExtractionError, got %T", err)
	}
	if ee.Code != fault.CodeUnsupportedFormat {
		t.Errorf("expected code %q, got %q", fault.CodeUnsupportedFormat, ee.Code)
	}
}

func TestNew(t *testing.T) {
	doc, err := New("slides.pdf", []byte("%PDF-1.7"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Format != FormatPDF || doc.Name != "slides.pdf" {
		t.Errorf("unexpected document: %+v", doc)
	}
}
