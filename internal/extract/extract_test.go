package extract

import (
	"archive/zip"
	"bytes"
	"errors"
	"strings"
	"testing"

	"notedeck/internal/document"
	"notedeck/internal/fault"
)

// buildDOCX assembles a minimal OOXML archive whose word/document.xml holds
// the given paragraphs, each as a single text run.
func buildDOCX(t *testing.T, paragraphs ...string) []byte {
	t.Helper()
	var body strings.Builder
	body.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>`)
	body.WriteString(`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`)
	for _, p := range paragraphs {
		body.WriteString(`<w:p><w:r><w:t>`)
		if err := xmlEscape(&body, p); err != nil {
			t.Fatalf("escape paragraph: %v", err)
		}
		body.WriteString(`</w:t></w:r></w:p>`)
	}
	body.WriteString(`</w:body></w:document>`)

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatalf("create zip entry: %v", err)
	}
	if _, err := w.Write([]byte(body.String())); err != nil {
		t.Fatalf("write zip entry: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return buf.Bytes()
}

func xmlEscape(sb *strings.Builder, s string) error {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	_, err := sb.WriteString(r.Replace(s))
	return err
}

func TestExtractDOCXSectionsInOrder(t *testing.T) {
	content := buildDOCX(t,
		"Photosynthesis",
		"Plants convert light energy into chemical energy.",
		"Cellular Respiration",
		"Cells break down glucose to release energy.",
	)
	doc := document.Document{Name: "bio.docx", Format: document.FormatDOCX, Content: content}

	got, err := Extract(doc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "Photosynthesis\nPlants convert light energy into chemical energy.\nCellular Respiration\nCells break down glucose to release energy."
	if got.Text != want {
		t.Errorf("text mismatch:\ngot:  %q\nwant: %q", got.Text, want)
	}
	if got.SourceFormat != document.FormatDOCX {
		t.Errorf("expected source format docx, got %q", got.SourceFormat)
	}
	if got.CharCount != len([]rune(want)) {
		t.Errorf("expected char count %d, got %d", len([]rune(want)), got.CharCount)
	}
	// Headings must appear in source order.
	if strings.Index(got.Text, "Photosynthesis") > strings.Index(got.Text, "Cellular Respiration") {
		t.Error("sections out of source order")
	}
}

func TestExtractDOCXDeterministic(t *testing.T) {
	content := buildDOCX(t, "Alpha", "Beta", "Gamma")
	doc := document.Document{Name: "abc.docx", Format: document.FormatDOCX, Content: content}

	first, err := Extract(doc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := Extract(doc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first != second {
		t.Errorf("extraction not deterministic: %+v vs %+v", first, second)
	}
}

func TestExtractDOCXEmpty(t *testing.T) {
	content := buildDOCX(t) // archive is valid but holds no text
	doc := document.Document{Name: "empty.docx", Format: document.FormatDOCX, Content: content}

	_, err := Extract(doc)
	assertExtractionCode(t, err, fault.CodeEmptyDocument)
}

func TestExtractDOCXCorrupt(t *testing.T) {
	doc := document.Document{Name: "broken.docx", Format: document.FormatDOCX, Content: []byte("not a zip archive")}

	_, err := Extract(doc)
	assertExtractionCode(t, err, fault.CodeCorruptDocument)
}

func TestExtractDOCXMissingDocumentXML(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, _ := zw.Create("word/styles.xml")
	_, _ = w.Write([]byte("<w:styles/>"))
	_ = zw.Close()

	doc := document.Document{Name: "odd.docx", Format: document.FormatDOCX, Content: buf.Bytes()}
	_, err := Extract(doc)
	assertExtractionCode(t, err, fault.CodeCorruptDocument)
}

func TestExtractPDFCorrupt(t *testing.T) {
	doc := document.Document{Name: "broken.pdf", Format: document.FormatPDF, Content: []byte("%PDF-1.4 truncated garbage")}

	_, err := Extract(doc)
	assertExtractionCode(t, err, fault.CodeCorruptDocument)
}

func TestExtractUnsupportedFormat(t *testing.T) {
	doc := document.Document{Name: "notes.txt", Format: document.Format("txt"), Content: []byte("plain text")}

	_, err := Extract(doc)
	assertExtractionCode(t, err, fault.CodeUnsupportedFormat)
}

func assertExtractionCode(t *testing.T, err error, want fault.Code) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error")
	}
	var ee *fault.ExtractionError
	if !errors.As(err, &ee) {
		t.Fatalf("expected ExtractionError, got %T: %v", err, err)
	}
	if ee.Code != want {
		t.Errorf("expected code %q, got %q", want, ee.Code)
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"crlf", "a\r\nb\r\nc", "a\nb\nc"},
		{"trailing spaces", "line one  \nline two\t\n", "line one\nline two"},
		{"blank run collapse", "a\n\n\n\n\nb", "a\n\nb"},
		{"surrounding whitespace", "\n\n  text  \n\n", "text"},
		{"empty", "   \n\t\n ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.in); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestWalkDocumentXMLTabsAndBreaks(t *testing.T) {
	xmlBody := `<w:document xmlns:w="x"><w:body>` +
		`<w:p><w:r><w:t>term</w:t></w:r><w:tab/><w:r><w:t>definition</w:t></w:r></w:p>` +
		`<w:p><w:r><w:t>first</w:t><w:br/><w:t>second</w:t></w:r></w:p>` +
		`</w:body></w:document>`
	got, err := walkDocumentXML(strings.NewReader(xmlBody))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "term\tdefinition\nfirst\nsecond\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
