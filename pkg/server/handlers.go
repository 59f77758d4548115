package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/nikogura/resume-studio/pkg/pipeline"
	"github.com/nikogura/resume-studio/pkg/renderer"
	"github.com/nikogura/resume-studio/pkg/session"
	"github.com/nikogura/resume-studio/pkg/style"
	"github.com/pkg/errors"
)

// SessionView is the JSON shape of a session.
type SessionView struct {
	ID          string            `json:"id"`
	Template    string            `json:"template"`
	JobTitle    string            `json:"job_title"`
	CoverLetter string            `json:"cover_letter"`
	Bullets     []string          `json:"bullets"`
	FullResume  string            `json:"full_resume,omitempty"`
	Downloads   map[string]string `json:"downloads"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// TextEdit is the body of the edit endpoints.
type TextEdit struct {
	Text string `json:"text"`
}

func newSessionView(s session.State) (view SessionView) {
	view = SessionView{
		ID:          s.ID,
		Template:    string(s.Template),
		JobTitle:    s.JobTitle,
		CoverLetter: s.CoverLetter,
		Bullets:     s.Bullets,
		FullResume:  s.FullResume,
		Downloads:   make(map[string]string),
		UpdatedAt:   s.UpdatedAt,
	}
	if view.Bullets == nil {
		view.Bullets = []string{}
	}

	for _, a := range session.Artifacts() {
		if a == session.ResumePDF && !s.HasFullResume() {
			continue
		}
		view.Downloads[string(a)] = fmt.Sprintf("/sessions/%s/downloads/%s", s.ID, a)
	}

	return view
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, pipeline.MaxResumeBytes+maxTextBody)

	err := r.ParseMultipartForm(pipeline.MaxResumeBytes + maxTextBody)
	if err != nil {
		s.errorResponse(w, r, &RequestError{Message: fmt.Sprintf("invalid multipart form: %v", err)})
		return
	}

	in, err := readGenerateInput(r)
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}

	result, err := s.runner.Run(r.Context(), in)
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}

	state := session.New(in.JobTitle, result)
	err = s.store.Put(r.Context(), state)
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}

	s.logger.Info("session created", "session", state.ID, "template", string(state.Template), "full", state.HasFullResume())
	s.jsonResponse(w, http.StatusCreated, newSessionView(state))
}

func readGenerateInput(r *http.Request) (in pipeline.Input, err error) {
	in = pipeline.Input{
		JobTitle:       strings.TrimSpace(r.FormValue("job_title")),
		JobDescription: strings.TrimSpace(r.FormValue("job_description")),
		Template:       r.FormValue("template"),
	}

	if raw := r.FormValue("generate_full"); raw != "" {
		in.GenerateFull, err = strconv.ParseBool(raw)
		if err != nil {
			err = &RequestError{Message: fmt.Sprintf("generate_full must be a boolean, got %q", raw)}
			return in, err
		}
	}

	file, _, err := r.FormFile("resume")
	if errors.Is(err, http.ErrMissingFile) {
		// Leave Resume empty so validation reports it with the other fields.
		err = nil
		return in, err
	}
	if err != nil {
		err = &RequestError{Message: fmt.Sprintf("invalid resume upload: %v", err)}
		return in, err
	}
	defer file.Close()

	// One byte past the limit is enough for validation to reject it.
	in.Resume, err = io.ReadAll(io.LimitReader(file, pipeline.MaxResumeBytes+1))
	if err != nil {
		err = errors.Wrap(err, "failed to read resume upload")
		return in, err
	}

	return in, err
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	state, err := s.store.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, newSessionView(state))
}

func (s *Server) handleEditCoverLetter(w http.ResponseWriter, r *http.Request) {
	state, edit, err := s.loadForEdit(w, r)
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}

	state = session.EditCoverLetter(state, edit.Text)
	s.persist(w, r, state)
}

func (s *Server) handleEditFullResume(w http.ResponseWriter, r *http.Request) {
	state, edit, err := s.loadForEdit(w, r)
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}

	state, err = session.EditFullResume(state, edit.Text)
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}
	s.persist(w, r, state)
}

// loadForEdit fetches the session named in the path and decodes a TextEdit body.
func (s *Server) loadForEdit(w http.ResponseWriter, r *http.Request) (state session.State, edit TextEdit, err error) {
	state, err = s.store.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		return state, edit, err
	}

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxTextBody))
	dec.DisallowUnknownFields()
	err = dec.Decode(&edit)
	if err != nil {
		err = &RequestError{Message: fmt.Sprintf("invalid edit body: %v", err)}
		return state, edit, err
	}

	return state, edit, err
}

func (s *Server) persist(w http.ResponseWriter, r *http.Request, state session.State) {
	err := s.store.Put(r.Context(), state)
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, newSessionView(state))
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	_, err := s.store.Get(r.Context(), id)
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}

	err = s.store.Delete(r.Context(), id)
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}

	s.logger.Info("session cleared", "session", id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	artifact, ok := session.ParseArtifact(r.PathValue("artifact"))
	if !ok {
		s.errorResponse(w, r, errors.Wrapf(session.ErrUnavailable, "unknown artifact %q", r.PathValue("artifact")))
		return
	}

	state, err := s.store.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}

	download, err := state.Download(artifact)
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}

	w.Header().Set("Content-Type", download.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", download.Filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(download.Data)))
	w.WriteHeader(http.StatusOK)
	_, err = w.Write(download.Data)
	if err != nil {
		s.logger.Error("failed to write download", "session", state.ID, "artifact", string(artifact), "error", err)
	}
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxTextBody))
	if err != nil {
		s.errorResponse(w, r, &RequestError{Message: fmt.Sprintf("invalid render body: %v", err)})
		return
	}

	tmpl := style.ParseTemplate(r.URL.Query().Get("template"))
	pdf, err := renderer.RenderPDF(string(body), tmpl)
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}

	w.Header().Set("Content-Type", renderer.PDFContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fmt.Sprintf("enhanced_resume_%s.pdf", tmpl.Slug())))
	w.WriteHeader(http.StatusOK)
	_, err = w.Write(pdf)
	if err != nil {
		s.logger.Error("failed to write rendered PDF", "error", err)
	}
}
