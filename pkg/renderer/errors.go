package renderer

import (
	"fmt"
)

// RenderError reports a failure to serialize laid out blocks into a document.
type RenderError struct {
	Format string
	Err    error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("failed to render %s document: %v", e.Format, e.Err)
}

func (e *RenderError) Unwrap() error {
	return e.Err
}

// Cause supports github.com/pkg/errors.Cause.
func (e *RenderError) Cause() error {
	return e.Err
}
