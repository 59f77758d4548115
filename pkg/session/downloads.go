package session

import (
	"fmt"

	"github.com/nikogura/resume-studio/pkg/llm"
	"github.com/nikogura/resume-studio/pkg/renderer"
	"github.com/pkg/errors"
)

// Artifact names a downloadable session file.
type Artifact string

// Downloadable artifacts, named as they appear in download URLs.
const (
	CoverLetterText Artifact = "cover-letter.txt"
	CoverLetterDOCX Artifact = "cover-letter.docx"
	BulletsText     Artifact = "bullets.txt"
	ResumePDF       Artifact = "resume.pdf"
)

// ErrUnavailable is returned for an artifact the session does not have.
var ErrUnavailable = errors.New("artifact not available")

// Download is a rendered artifact ready to be served or saved.
type Download struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Artifacts lists every artifact name.
func Artifacts() (artifacts []Artifact) {
	artifacts = []Artifact{CoverLetterText, CoverLetterDOCX, BulletsText, ResumePDF}
	return artifacts
}

// ParseArtifact resolves an artifact name.
func ParseArtifact(name string) (artifact Artifact, ok bool) {
	for _, a := range Artifacts() {
		if string(a) == name {
			artifact = a
			ok = true
			return artifact, ok
		}
	}
	return artifact, ok
}

// Filename returns the download file name of an artifact for the session template.
func (s State) Filename(artifact Artifact) (name string) {
	tmpl := s.Template.Slug()
	switch artifact {
	case CoverLetterText:
		name = fmt.Sprintf("cover_letter_%s.txt", tmpl)
	case CoverLetterDOCX:
		name = fmt.Sprintf("cover_letter_%s.docx", tmpl)
	case BulletsText:
		name = fmt.Sprintf("resume_bullets_%s.txt", tmpl)
	case ResumePDF:
		name = fmt.Sprintf("enhanced_resume_%s.pdf", tmpl)
	}
	return name
}

// Download renders one artifact from the current session state.
func (s State) Download(artifact Artifact) (d Download, err error) {
	d.Filename = s.Filename(artifact)

	switch artifact {
	case CoverLetterText:
		d.ContentType = renderer.TextContentType
		d.Data = renderer.RenderText(s.CoverLetter)
	case CoverLetterDOCX:
		d.ContentType = renderer.DOCXContentType
		d.Data, err = renderer.RenderDOCX(s.CoverLetter)
	case BulletsText:
		d.ContentType = renderer.TextContentType
		d.Data = renderer.RenderText(llm.FormatBullets(s.Bullets))
	case ResumePDF:
		if !s.HasFullResume() {
			err = errors.Wrap(ErrUnavailable, "no full resume was generated")
			return d, err
		}
		d.ContentType = renderer.PDFContentType
		d.Data = s.PDF
	default:
		err = errors.Wrapf(ErrUnavailable, "unknown artifact %q", string(artifact))
	}

	return d, err
}
