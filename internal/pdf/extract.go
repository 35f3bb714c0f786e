package pdf

import (
	"bytes"
	"io"
	"strings"

	"resumelens/internal/errors"

	"github.com/ledongthuc/pdf"
)

// ExtractText pulls the plain text out of a PDF, pages joined with
// newlines. A PDF that yields no text at all is reported as unreadable,
// since there is nothing to send for analysis.
func ExtractText(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", errors.NewValidationError(errors.ErrCodeUnreadablePDF,
			"Unable to read PDF content. The PDF may be image-based or corrupted", err)
	}

	text := extractWholeDocument(reader)
	if text == "" {
		// Fall back to page-by-page extraction; some documents fail the
		// combined reader but still yield per-page text.
		text = extractPageByPage(reader)
	}

	if text == "" {
		return "", errors.NewValidationError(errors.ErrCodeUnreadablePDF,
			"Unable to read PDF content. The PDF may be image-based or corrupted", nil)
	}

	return text, nil
}

func extractWholeDocument(reader *pdf.Reader) string {
	rs, err := reader.GetPlainText()
	if err != nil {
		return ""
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, rs); err != nil {
		return ""
	}
	return strings.TrimSpace(buf.String())
}

func extractPageByPage(reader *pdf.Reader) string {
	var pages []string
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		if text = strings.TrimSpace(text); text != "" {
			pages = append(pages, text)
		}
	}
	return strings.Join(pages, "\n")
}
