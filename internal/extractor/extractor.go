package extractor

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// Table is one table found on a statement page. Rows is rectangular;
// cells that had no text are empty strings.
type Table struct {
	Page int        `json:"page"`
	Rows [][]string `json:"rows"`
}

// ExtractedDocument is the result of extracting a statement PDF.
// It is produced once per upload and never mutated afterwards.
type ExtractedDocument struct {
	FullText  string  `json:"full_text"`
	Tables    []Table `json:"tables"`
	PageCount int     `json:"page_count"`
}

// ExtractionError indicates the uploaded file could not be read as a PDF.
type ExtractionError struct {
	Err error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("error reading PDF: %v", e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// Extract pulls per-page text and tables out of a statement PDF.
// Pages are 1-indexed; each non-empty page text is prefixed with a
// "--- Page N ---" marker and pages are joined with blank lines.
func Extract(data []byte) (doc *ExtractedDocument, err error) {
	// The PDF library can panic on malformed files.
	defer func() {
		if r := recover(); r != nil {
			doc = nil
			err = &ExtractionError{Err: fmt.Errorf("pdf reader crashed: %v", r)}
		}
	}()

	// Validate structure and get an authoritative page count first;
	// pdfcpu rejects files that merely look like PDFs.
	pageCount, err := api.PageCount(bytes.NewReader(data), model.NewDefaultConfiguration())
	if err != nil {
		return nil, &ExtractionError{Err: err}
	}

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, &ExtractionError{Err: err}
	}

	doc = &ExtractedDocument{PageCount: pageCount}

	var pageTexts []string
	for pageNum := 1; pageNum <= r.NumPage(); pageNum++ {
		page := r.Page(pageNum)
		if page.V.IsNull() {
			continue
		}

		rows, err := page.GetTextByRow()
		if err != nil {
			continue
		}

		words := make([][]pdf.Text, 0, len(rows))
		for _, row := range rows {
			line := make([]pdf.Text, 0, len(row.Content))
			for _, word := range row.Content {
				if strings.TrimSpace(word.S) == "" {
					continue
				}
				line = append(line, word)
			}
			if len(line) > 0 {
				words = append(words, line)
			}
		}

		if text := renderPageText(words); text != "" {
			pageTexts = append(pageTexts, fmt.Sprintf("--- Page %d ---\n%s", pageNum, text))
		}
		doc.Tables = append(doc.Tables, detectTables(pageNum, words)...)
	}

	doc.FullText = strings.Join(pageTexts, "\n\n")
	return doc, nil
}

// renderPageText joins word rows into plain page text.
func renderPageText(rows [][]pdf.Text) string {
	var lines []string
	for _, row := range rows {
		parts := make([]string, 0, len(row))
		for _, word := range row {
			parts = append(parts, word.S)
		}
		line := strings.TrimSpace(strings.Join(parts, " "))
		if line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}
