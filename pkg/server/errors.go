package server

import (
	"net/http"

	"github.com/nikogura/resume-studio/pkg/extract"
	"github.com/nikogura/resume-studio/pkg/llm"
	"github.com/nikogura/resume-studio/pkg/pipeline"
	"github.com/nikogura/resume-studio/pkg/renderer"
	"github.com/nikogura/resume-studio/pkg/session"
	"github.com/pkg/errors"
)

// RequestError reports a malformed request.
type RequestError struct {
	Message string
}

func (e *RequestError) Error() string {
	return e.Message
}

// HTTPStatus maps an error from any layer to the status code reported to clients.
func HTTPStatus(err error) (status int) {
	var (
		requestErr    *RequestError
		validationErr *pipeline.ValidationError
		extractionErr *extract.ExtractionError
		completionErr *llm.CompletionError
		renderErr     *renderer.RenderError
	)

	switch {
	case errors.As(err, &requestErr), errors.As(err, &validationErr):
		status = http.StatusBadRequest
	case errors.Is(err, session.ErrNotFound), errors.Is(err, session.ErrUnavailable):
		status = http.StatusNotFound
	case errors.As(err, &extractionErr):
		status = http.StatusUnprocessableEntity
	case errors.As(err, &completionErr):
		status = http.StatusBadGateway
	case errors.As(err, &renderErr):
		status = http.StatusInternalServerError
	default:
		status = http.StatusInternalServerError
	}
	return status
}
