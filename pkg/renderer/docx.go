package renderer

import (
	"bytes"

	"github.com/gomutex/godocx"
	"github.com/pkg/errors"
)

// DOCXContentType is the MIME type of RenderDOCX output.
const DOCXContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

// RenderDOCX wraps text, unmodified, in a single-paragraph word processing document.
func RenderDOCX(text string) (data []byte, err error) {
	doc, err := godocx.NewDocument()
	if err != nil {
		err = &RenderError{Format: "docx", Err: errors.Wrap(err, "failed to create document")}
		return data, err
	}

	doc.AddParagraph(text)

	var buf bytes.Buffer
	err = doc.Write(&buf)
	if err != nil {
		err = &RenderError{Format: "docx", Err: errors.Wrap(err, "failed to write document")}
		return data, err
	}

	data = buf.Bytes()
	return data, err
}
