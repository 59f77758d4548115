package llm

import (
	"context"
	"strings"

	"github.com/pkg/errors"
)

// Operation names used in CompletionError.
const (
	OpCoverLetter = "cover letter"
	OpBullets     = "resume bullets"
	OpFullResume  = "full resume"
)

// Generator produces the three application artifacts from prompts and a Completer.
type Generator struct {
	completer Completer
}

// NewGenerator creates a Generator backed by completer.
func NewGenerator(completer Completer) (generator *Generator) {
	generator = &Generator{completer: completer}
	return generator
}

// CoverLetter generates a cover letter tailored to the job.
func (g *Generator) CoverLetter(ctx context.Context, jobTitle, jobDescription, resumeText, template string) (letter string, err error) {
	prompt := BuildCoverLetterPrompt(jobTitle, jobDescription, resumeText, template)
	letter, err = g.complete(ctx, OpCoverLetter, prompt)
	return letter, err
}

// Bullets generates resume bullet points and returns them without list markers.
func (g *Generator) Bullets(ctx context.Context, jobTitle, jobDescription, resumeText, template string) (bullets []string, err error) {
	prompt := BuildBulletsPrompt(jobTitle, jobDescription, resumeText, template)

	var raw string
	raw, err = g.complete(ctx, OpBullets, prompt)
	if err != nil {
		return bullets, err
	}

	bullets = ParseBullets(raw)
	return bullets, err
}

// FullResume generates a complete resume as plain text.
func (g *Generator) FullResume(ctx context.Context, resumeText, jobTitle, jobDescription, template string) (resume string, err error) {
	prompt := BuildFullResumePrompt(resumeText, jobTitle, jobDescription, template)

	resume, err = g.complete(ctx, OpFullResume, prompt)
	if err != nil {
		return resume, err
	}

	resume = stripMarkdownCodeFences(resume)
	return resume, err
}

func (g *Generator) complete(ctx context.Context, operation, prompt string) (completion string, err error) {
	completion, err = g.completer.Complete(ctx, prompt)
	if err != nil {
		var completionErr *CompletionError
		if errors.As(err, &completionErr) {
			completionErr.Operation = operation
			return completion, completionErr
		}
		err = &CompletionError{Operation: operation, Err: err}
		return completion, err
	}

	completion = strings.TrimSpace(completion)
	return completion, err
}
