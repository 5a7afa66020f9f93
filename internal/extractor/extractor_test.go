package extractor

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/ledongthuc/pdf"
)

// buildPDF assembles a minimal valid PDF with one text line per page.
func buildPDF(t *testing.T, pageTexts ...string) []byte {
	t.Helper()

	kids := make([]string, len(pageTexts))
	for i := range pageTexts {
		kids[i] = fmt.Sprintf("%d 0 R", 4+2*i)
	}

	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), len(pageTexts)),
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>",
	}
	for i, text := range pageTexts {
		objects = append(objects, fmt.Sprintf(
			"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 3 0 R >> >> /Contents %d 0 R >>",
			5+2*i))
		stream := fmt.Sprintf("BT /F1 12 Tf 1 0 0 1 72 720 Tm (%s) Tj ET", text)
		objects = append(objects, fmt.Sprintf(
			"<< /Length %d >>\nstream\n%s\nendstream", len(stream), stream))
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, body := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, body)
	}
	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(objects)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)
	return buf.Bytes()
}

func TestExtract_SinglePage(t *testing.T) {
	doc, err := Extract(buildPDF(t, "ACCOUNT SUMMARY"))
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	if doc.PageCount != 1 {
		t.Errorf("PageCount = %d, want 1", doc.PageCount)
	}
	want := "--- Page 1 ---\nACCOUNT SUMMARY"
	if doc.FullText != want {
		t.Errorf("FullText = %q, want %q", doc.FullText, want)
	}
}

func TestExtract_MultiPageMarkers(t *testing.T) {
	doc, err := Extract(buildPDF(t, "ACCOUNT SUMMARY", "TRANSACTION HISTORY"))
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	if doc.PageCount != 2 {
		t.Errorf("PageCount = %d, want 2", doc.PageCount)
	}
	want := "--- Page 1 ---\nACCOUNT SUMMARY\n\n--- Page 2 ---\nTRANSACTION HISTORY"
	if doc.FullText != want {
		t.Errorf("FullText = %q, want %q", doc.FullText, want)
	}
}

func TestExtract_RejectsNonPDF(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"empty input", nil},
		{"plain text", []byte("just some text, definitely not a pdf")},
		{"truncated header", []byte("%PDF-1.7")},
		{"binary garbage", []byte{0x00, 0xff, 0x13, 0x37, 0x00, 0xff}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := Extract(tt.data)
			if doc != nil {
				t.Errorf("doc = %v, want nil", doc)
			}
			var extractErr *ExtractionError
			if !errors.As(err, &extractErr) {
				t.Fatalf("error = %T, want *ExtractionError", err)
			}
			if !strings.HasPrefix(err.Error(), "error reading PDF:") {
				t.Errorf("message = %q, want the reading prefix", err.Error())
			}
		})
	}
}

func TestRenderPageText(t *testing.T) {
	rows := [][]pdf.Text{
		{word("ACCOUNT", 10), word("SUMMARY", 80)},
		{word("Balance:", 10), word("$1,250.00", 100)},
	}

	got := renderPageText(rows)
	want := "ACCOUNT SUMMARY\nBalance: $1,250.00"
	if got != want {
		t.Errorf("renderPageText() = %q, want %q", got, want)
	}
}

func TestRenderPageText_Empty(t *testing.T) {
	if got := renderPageText(nil); got != "" {
		t.Errorf("renderPageText(nil) = %q, want empty", got)
	}
}

// word builds a positioned word 8 points wide per character.
func word(s string, x float64) pdf.Text {
	return pdf.Text{S: s, X: x, W: float64(len(s)) * 8}
}
