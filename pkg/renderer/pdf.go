package renderer

import (
	"bytes"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/nikogura/resume-studio/pkg/style"
	"github.com/pkg/errors"
)

// pageMargin is one inch on every side, in points.
const pageMargin = 72.0

// documentDate pins PDF metadata so identical input renders identical bytes.
//
//nolint:gochecknoglobals // constant time value
var documentDate = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

// RenderPDF lays out source with the styles of t and returns a PDF. It never fails on
// input content; an error means the layout engine itself could not produce output.
func RenderPDF(source string, t style.Template) (data []byte, err error) {
	blocks := Layout(source, t)
	data, err = RenderBlocks(blocks)
	return data, err
}

// RenderBlocks serializes an already laid out block sequence into a PDF.
func RenderBlocks(blocks []Block) (data []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			data = nil
			err = &RenderError{Format: "pdf", Err: errors.Errorf("layout engine panic: %v", r)}
		}
	}()

	pdf := gofpdf.New("P", "pt", "A4", "")
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(true, pageMargin)
	pdf.SetCreationDate(documentDate)
	pdf.SetModificationDate(documentDate)
	pdf.SetCatalogSort(true)
	pdf.SetCreator("resume-studio", false)
	pdf.AddPage()

	// Core fonts are cp1252; translate so accented names survive. Runes outside
	// cp1252 (CJK, emoji) come out as '.'.
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pageWidth, _ := pdf.GetPageSize()
	contentWidth := pageWidth - 2*pageMargin

	for _, block := range blocks {
		writeBlock(pdf, tr, block, contentWidth)
	}

	if pdf.Err() {
		err = &RenderError{Format: "pdf", Err: pdf.Error()}
		return data, err
	}

	var buf bytes.Buffer
	err = pdf.Output(&buf)
	if err != nil {
		err = &RenderError{Format: "pdf", Err: err}
		return data, err
	}

	data = buf.Bytes()
	return data, err
}

func writeBlock(pdf *gofpdf.Fpdf, tr func(string) string, block Block, contentWidth float64) {
	if block.Kind == Blank {
		pdf.Ln(SpacerHeight)
		return
	}

	s := block.Style
	_, top, _, _ := pdf.GetMargins()
	if s.SpaceBefore > 0 && pdf.GetY() > top {
		// Space before is dropped at the top of a page.
		pdf.Ln(s.SpaceBefore)
	}

	pdf.SetFont(s.FontFamily, fontStyle(s.FontStyle, block.Bold), s.FontSize)
	pdf.SetTextColor(s.Color.R, s.Color.G, s.Color.B)

	left, _, _, _ := pdf.GetMargins()
	text := tr(block.Text)
	width := contentWidth - s.LeftIndent

	if block.Kind == Bullet && s.LeftIndent > s.BulletIndent {
		// Hanging bullet: marker at the bullet indent, wrapped text at the left indent.
		marker, rest := splitMarker(text)
		pdf.SetX(left + s.BulletIndent)
		pdf.CellFormat(s.LeftIndent-s.BulletIndent, s.Leading(), marker, "", 0, "L", false, 0, "")
		if rest == "" {
			pdf.Ln(s.Leading())
		} else {
			pdf.MultiCell(width, s.Leading(), rest, "", "L", false)
		}
	} else {
		pdf.SetX(left + s.LeftIndent)
		pdf.MultiCell(width, s.Leading(), text, "", "L", false)
	}

	if s.SpaceAfter > 0 {
		pdf.Ln(s.SpaceAfter)
	}
}

// fontStyle merges block emphasis into the style's own font style.
func fontStyle(base string, bold bool) (result string) {
	result = base
	if bold && !strings.Contains(result, "B") {
		result = "B" + result
	}
	return result
}

// splitMarker separates the leading hyphen of a bullet line from its text.
func splitMarker(text string) (marker, rest string) {
	if !strings.HasPrefix(text, "-") {
		rest = text
		return marker, rest
	}
	marker = "-"
	rest = strings.TrimSpace(text[1:])
	return marker, rest
}
