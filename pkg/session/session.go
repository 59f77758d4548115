package session

import (
	"time"

	"github.com/google/uuid"
	"github.com/nikogura/resume-studio/pkg/pipeline"
	"github.com/nikogura/resume-studio/pkg/renderer"
	"github.com/nikogura/resume-studio/pkg/style"
	"github.com/pkg/errors"
)

// ErrNotFound is returned when a session does not exist or has expired.
var ErrNotFound = errors.New("session not found")

// State is everything a user has generated and edited in one session. It only changes
// through the transition functions below, each of which returns a new State.
type State struct {
	ID          string         `json:"id"`
	Template    style.Template `json:"template"`
	JobTitle    string         `json:"job_title"`
	ResumeText  string         `json:"resume_text"`
	CoverLetter string         `json:"cover_letter"`
	Bullets     []string       `json:"bullets"`
	FullResume  string         `json:"full_resume,omitempty"`
	PDF         []byte         `json:"pdf,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// New loads a pipeline result into a fresh session.
func New(jobTitle string, result pipeline.Result) (s State) {
	now := time.Now().UTC()
	s = State{
		ID:          uuid.NewString(),
		Template:    result.Template,
		JobTitle:    jobTitle,
		ResumeText:  result.ResumeText,
		CoverLetter: result.CoverLetter,
		Bullets:     append([]string(nil), result.Bullets...),
		FullResume:  result.FullResume,
		PDF:         result.PDF,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	return s
}

// EditCoverLetter replaces the cover letter text.
func EditCoverLetter(s State, text string) (next State) {
	next = s
	next.CoverLetter = text
	next.UpdatedAt = time.Now().UTC()
	return next
}

// EditFullResume replaces the full resume text and re-renders its PDF with the
// session template. On failure the original state is returned unchanged.
func EditFullResume(s State, text string) (next State, err error) {
	var pdf []byte
	pdf, err = renderer.RenderPDF(text, s.Template)
	if err != nil {
		next = s
		return next, err
	}

	next = s
	next.FullResume = text
	next.PDF = pdf
	next.UpdatedAt = time.Now().UTC()
	return next, err
}

// HasFullResume reports whether the session holds a rendered full resume.
func (s State) HasFullResume() (ok bool) {
	ok = len(s.PDF) > 0
	return ok
}
