package extract

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/pkg/errors"
)

// ExtractionError reports an unreadable or corrupt PDF.
type ExtractionError struct {
	Source string
	Err    error
}

func (e *ExtractionError) Error() string {
	if e.Source != "" {
		return fmt.Sprintf("failed to extract text from %s: %v", e.Source, e.Err)
	}
	return fmt.Sprintf("failed to extract text from PDF: %v", e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// Cause supports github.com/pkg/errors.Cause.
func (e *ExtractionError) Cause() error {
	return e.Err
}

// Text returns the plain text of every page of a PDF, pages joined by newlines and the
// result trimmed of surrounding whitespace.
func Text(data []byte) (text string, err error) {
	text, err = extractPages(data)
	if err != nil {
		err = &ExtractionError{Err: err}
		return text, err
	}
	return text, err
}

// File reads a PDF from disk and returns its text.
func File(path string) (text string, err error) {
	var data []byte
	data, err = os.ReadFile(path)
	if err != nil {
		err = &ExtractionError{Source: path, Err: errors.Wrap(err, "failed to read file")}
		return text, err
	}

	text, err = extractPages(data)
	if err != nil {
		err = &ExtractionError{Source: path, Err: err}
		return text, err
	}

	return text, err
}

func extractPages(data []byte) (text string, err error) {
	// The parser panics on some malformed cross-reference tables.
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = errors.Errorf("malformed PDF: %v", r)
		}
	}()

	if len(data) == 0 {
		err = errors.New("empty PDF payload")
		return text, err
	}

	var reader *pdf.Reader
	reader, err = pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		err = errors.Wrap(err, "failed to open PDF")
		return text, err
	}

	var sb strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		var pageText string
		pageText, err = page.GetPlainText(nil)
		if err != nil {
			err = errors.Wrapf(err, "failed to read page %d", i)
			return text, err
		}

		sb.WriteString(pageText)
		sb.WriteString("\n")
	}

	text = strings.TrimSpace(sb.String())
	return text, err
}
