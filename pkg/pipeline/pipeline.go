package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/nikogura/resume-studio/pkg/extract"
	"github.com/nikogura/resume-studio/pkg/llm"
	"github.com/nikogura/resume-studio/pkg/renderer"
	"github.com/nikogura/resume-studio/pkg/style"
	"github.com/pkg/errors"
)

const (
	// MaxJobDescriptionChars bounds the job description length.
	MaxJobDescriptionChars = 5000
	// MaxResumeBytes bounds the uploaded resume size (5 MiB).
	MaxResumeBytes = 5 * 1024 * 1024
)

// Stage names a step of the generation pipeline.
type Stage string

// Stages in run order.
const (
	StageValidate    Stage = "validate"
	StageExtract     Stage = "extract"
	StageCoverLetter Stage = "cover_letter"
	StageBullets     Stage = "bullets"
	StageFullResume  Stage = "full_resume"
	StageRender      Stage = "render"
	StageDone        Stage = "done"
)

// Input is everything one generation needs.
type Input struct {
	JobTitle       string `validate:"required"`
	JobDescription string `validate:"required,max=5000"`
	Resume         []byte `validate:"required,min=1,max=5242880"`
	Template       string
	GenerateFull   bool
}

// Result holds the generated artifacts. FullResume and PDF are empty unless the
// input asked for a full resume.
type Result struct {
	Template    style.Template
	ResumeText  string
	CoverLetter string
	Bullets     []string
	FullResume  string
	PDF         []byte
}

// ProgressFunc is told when a stage starts and how far along the run is.
type ProgressFunc func(stage Stage, percent int)

// ValidationError lists the input fields that failed validation.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "invalid input: " + strings.Join(e.Fields, "; ")
}

// StageError reports which stage aborted the run.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s stage failed: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// Cause supports github.com/pkg/errors.Cause.
func (e *StageError) Cause() error {
	return e.Err
}

// Pipeline runs extraction, the three completions and rendering in order.
type Pipeline struct {
	generator *llm.Generator
	extractor func([]byte) (string, error)
	render    func(string, style.Template) ([]byte, error)
	validate  *validator.Validate
	progress  ProgressFunc
}

// Option customizes a Pipeline.
type Option func(*Pipeline)

// WithProgress registers a progress callback.
func WithProgress(fn ProgressFunc) (opt Option) {
	opt = func(p *Pipeline) {
		p.progress = fn
	}
	return opt
}

// WithExtractor replaces the PDF text extractor.
func WithExtractor(fn func([]byte) (string, error)) (opt Option) {
	opt = func(p *Pipeline) {
		p.extractor = fn
	}
	return opt
}

// New creates a Pipeline that generates text with completer.
func New(completer llm.Completer, opts ...Option) (p *Pipeline) {
	p = &Pipeline{
		generator: llm.NewGenerator(completer),
		extractor: extract.Text,
		render:    renderer.RenderPDF,
		validate:  validator.New(),
		progress:  func(Stage, int) {},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Validate checks input limits without running anything.
func (p *Pipeline) Validate(in Input) (err error) {
	err = p.validate.Struct(in)
	if err == nil {
		return err
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		err = errors.Wrap(err, "failed to validate input")
		return err
	}

	verr := &ValidationError{}
	for _, fe := range fieldErrs {
		verr.Fields = append(verr.Fields, describeFieldError(fe))
	}
	err = verr
	return err
}

func describeFieldError(fe validator.FieldError) (msg string) {
	switch {
	case fe.Tag() == "required" || fe.Tag() == "min":
		msg = fmt.Sprintf("%s is required", fe.Field())
	case fe.Tag() == "max" && fe.Field() == "Resume":
		msg = fmt.Sprintf("Resume exceeds %d MB", MaxResumeBytes/(1024*1024))
	case fe.Tag() == "max":
		msg = fmt.Sprintf("%s exceeds %s characters", fe.Field(), fe.Param())
	default:
		msg = fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag())
	}
	return msg
}

// Run executes every stage in order. The first failure aborts the run and no partial
// result is returned.
func (p *Pipeline) Run(ctx context.Context, in Input) (result Result, err error) {
	err = p.Validate(in)
	if err != nil {
		err = &StageError{Stage: StageValidate, Err: err}
		return result, err
	}

	tmpl := style.ParseTemplate(in.Template)
	name := string(tmpl)

	var out Result
	out.Template = tmpl

	p.progress(StageExtract, 20)
	out.ResumeText, err = p.extractor(in.Resume)
	if err != nil {
		err = &StageError{Stage: StageExtract, Err: err}
		return result, err
	}

	p.progress(StageCoverLetter, 40)
	out.CoverLetter, err = p.generator.CoverLetter(ctx, in.JobTitle, in.JobDescription, out.ResumeText, name)
	if err != nil {
		err = &StageError{Stage: StageCoverLetter, Err: err}
		return result, err
	}

	p.progress(StageBullets, 60)
	out.Bullets, err = p.generator.Bullets(ctx, in.JobTitle, in.JobDescription, out.ResumeText, name)
	if err != nil {
		err = &StageError{Stage: StageBullets, Err: err}
		return result, err
	}

	if in.GenerateFull {
		p.progress(StageFullResume, 80)
		out.FullResume, err = p.generator.FullResume(ctx, out.ResumeText, in.JobTitle, in.JobDescription, name)
		if err != nil {
			err = &StageError{Stage: StageFullResume, Err: err}
			return result, err
		}

		p.progress(StageRender, 90)
		out.PDF, err = p.render(out.FullResume, tmpl)
		if err != nil {
			err = &StageError{Stage: StageRender, Err: err}
			return result, err
		}
	}

	p.progress(StageDone, 100)
	result = out
	return result, err
}
