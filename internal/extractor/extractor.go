package extractor

import (
	"context"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"pdfqa/internal/model"
)

// Extractor turns a document on disk into plain text.
type Extractor interface {
	// Extract returns the text of every page in page order. Failures wrap model.ErrExtraction.
	Extract(ctx context.Context, path string) (string, error)
}

type pdfExtractor struct{}

// NewPDF returns an Extractor for PDF files.
func NewPDF() Extractor {
	return pdfExtractor{}
}

func (pdfExtractor) Extract(ctx context.Context, path string) (text string, err error) {
	// The parser panics on some malformed inputs.
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = model.WrapError(model.ErrExtraction, "parse pdf", fmt.Errorf("%v", r))
		}
	}()

	f, r, err := pdf.Open(path)
	if err != nil {
		return "", model.WrapError(model.ErrExtraction, "open pdf", err)
	}
	defer f.Close()

	var b strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}

		// Font resource names are scoped to their page.
		fonts := make(map[string]*pdf.Font)
		for _, name := range page.Fonts() {
			font := page.Font(name)
			fonts[name] = &font
		}

		pageText, err := page.GetPlainText(fonts)
		if err != nil {
			return "", model.WrapError(model.ErrExtraction, fmt.Sprintf("read page %d", i), err)
		}
		if i > 1 {
			b.WriteByte('\n')
		}
		b.WriteString(pageText)
	}
	return sanitize(b.String()), nil
}

// sanitize makes decoded text storable as UTF-8 TEXT. Fonts with an encoding the parser
// does not know come back as raw bytes, which may hold NULs or invalid sequences.
func sanitize(text string) string {
	text = strings.ToValidUTF8(text, "\uFFFD")
	return strings.ReplaceAll(text, "\x00", " ")
}
