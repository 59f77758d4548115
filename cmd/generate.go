package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/nikogura/resume-studio/pkg/config"
	"github.com/nikogura/resume-studio/pkg/jd"
	"github.com/nikogura/resume-studio/pkg/llm"
	"github.com/nikogura/resume-studio/pkg/pipeline"
	"github.com/nikogura/resume-studio/pkg/renderer"
	"github.com/nikogura/resume-studio/pkg/session"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // Cobra boilerplate
var jobTitle string

//nolint:gochecknoglobals // Cobra boilerplate
var jdInput string

//nolint:gochecknoglobals // Cobra boilerplate
var templateName string

//nolint:gochecknoglobals // Cobra boilerplate
var generateFull bool

//nolint:gochecknoglobals // Cobra boilerplate
var outputDir string

//nolint:gochecknoglobals // Cobra boilerplate
var useBrowser bool

//nolint:gochecknoglobals // Cobra boilerplate
var generateCmd = &cobra.Command{
	Use:   "generate <resume.pdf>",
	Short: "Generate a cover letter, resume bullets and optionally a full resume",
	Long: `Generate a tailored cover letter and resume bullet points from your resume PDF
and a job description. With --full, also generate a complete resume and render it
to PDF in the selected template.

The job description can be provided as:
- A file path (e.g., jd.txt)
- A URL (e.g., https://example.com/jobs/123)

Files are written to <output-dir>/<job-title>/:
  cover_letter_<template>.txt and .docx
  resume_bullets_<template>.txt
  enhanced_resume_<template>.pdf (with --full)

Example:
  resume-studio generate resume.pdf --title "Staff Engineer" --jd jd.txt
  resume-studio generate resume.pdf --title "SRE" --jd https://example.com/jobs/123 --template Modern --full
  resume-studio generate resume.pdf --title "SRE" --jd https://boards.example.com/123 --browser`,
	Args: cobra.ExactArgs(1),
	RunE: runGenerate,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(generateCmd)
	generateCmd.Flags().StringVar(&jobTitle, "title", "", "Job title (required)")
	generateCmd.Flags().StringVar(&jdInput, "jd", "", "Job description file or URL (required)")
	generateCmd.Flags().StringVar(&templateName, "template", "", "Template: Professional, Modern or Creative (default from config)")
	generateCmd.Flags().BoolVar(&generateFull, "full", false, "Also generate a full resume and render it to PDF")
	generateCmd.Flags().StringVar(&outputDir, "output-dir", "", "Output directory (default from config)")
	generateCmd.Flags().BoolVar(&useBrowser, "browser", false, "Fetch the job description URL with headless Chrome")
	_ = generateCmd.MarkFlagRequired("title")
	_ = generateCmd.MarkFlagRequired("jd")
}

func runGenerate(cmd *cobra.Command, args []string) (err error) {
	ctx := context.Background()
	ctx, cancel := context.WithTimeout(ctx, 5*time.Minute)
	defer cancel()

	resumePath := args[0]

	var cfg config.Config
	cfg, err = config.Load(getConfigFile())
	if err != nil {
		err = errors.Wrap(err, "failed to load config")
		return err
	}

	var jobDescription string
	jobDescription, err = fetchAndLogJD(ctx, jdInput, useBrowser)
	if err != nil {
		return err
	}

	var resume []byte
	resume, err = os.ReadFile(resumePath)
	if err != nil {
		err = errors.Wrapf(err, "failed to read resume: %s", resumePath)
		return err
	}

	var completer llm.Completer
	completer, err = llm.NewCompleter(ctx, cfg.LLMConfig())
	if err != nil {
		err = errors.Wrap(err, "failed to create completion client")
		return err
	}
	if closer, ok := completer.(io.Closer); ok {
		defer closer.Close()
	}

	if getVerbose() {
		fmt.Printf("Using %s (%s)\n", cfg.Provider, cfg.GetModel())
	}

	tmpl := templateName
	if tmpl == "" {
		tmpl = cfg.Defaults.Template
	}

	progress := newProgressReporter()
	p := pipeline.New(completer, pipeline.WithProgress(progress.report))

	var result pipeline.Result
	result, err = p.Run(ctx, pipeline.Input{
		JobTitle:       jobTitle,
		JobDescription: jobDescription,
		Resume:         resume,
		Template:       tmpl,
		GenerateFull:   generateFull,
	})
	progress.finish()
	if err != nil {
		err = errors.Wrap(err, "generation failed")
		return err
	}

	var outDir string
	outDir, err = createJobOutputDir(getOutputDir(outputDir, cfg.Defaults.OutputDir), jobTitle)
	if err != nil {
		return err
	}

	state := session.New(jobTitle, result)
	var written []string
	written, err = writeArtifacts(state, outDir)
	if err != nil {
		return err
	}

	fmt.Println("\nFiles saved:")
	for _, path := range written {
		fmt.Printf("  %s\n", path)
	}

	fmt.Println("\nGeneration complete!")
	return err
}

// writeArtifacts saves every artifact the session holds into outDir. A failure removes
// the files already written so a run never leaves a partial set behind.
func writeArtifacts(state session.State, outDir string) (written []string, err error) {
	for _, artifact := range session.Artifacts() {
		if artifact == session.ResumePDF && !state.HasFullResume() {
			continue
		}

		var download session.Download
		download, err = state.Download(artifact)
		if err == nil {
			path := filepath.Join(outDir, download.Filename)
			err = renderer.WriteFile(download.Data, path)
			if err == nil {
				written = append(written, path)
				continue
			}
		}

		err = errors.Wrapf(err, "failed to write %s", artifact)
		cleanupErr := renderer.CleanupFiles(written...)
		if cleanupErr != nil {
			fmt.Printf("Warning: Failed to clean up partial output: %v\n", cleanupErr)
		}
		written = nil
		return written, err
	}

	return written, err
}

func getOutputDir(flagValue, configValue string) (outDir string) {
	outDir = flagValue
	if outDir == "" {
		outDir = configValue
	}
	return outDir
}

func fetchAndLogJD(ctx context.Context, input string, browser bool) (jobDescription string, err error) {
	if getVerbose() {
		fmt.Printf("Loading job description from: %s\n", input)
	}

	jobDescription, err = jd.FetchWithContext(ctx, input, jd.Options{Browser: browser})
	if err != nil {
		// If fetching failed, offer to accept manual input
		fmt.Printf("\nWarning: Failed to fetch job description: %v\n", err)
		if !browser {
			fmt.Println("JavaScript-rendered boards (Lever, Workable, etc.) often need --browser.")
		}
		fmt.Println("\nPlease paste the job description text below.")
		fmt.Println("When finished, press Ctrl+D (Unix/Mac) or Ctrl+Z then Enter (Windows):")
		fmt.Println()

		jobDescription, err = readStdin(os.Stdin)
		if err != nil {
			return jobDescription, err
		}

		fmt.Printf("\nJob description received (%d characters)\n", len(jobDescription))
	}

	clipped, truncated := jd.Clip(jobDescription, pipeline.MaxJobDescriptionChars)
	if truncated {
		fmt.Printf("Warning: job description truncated to %d characters\n", pipeline.MaxJobDescriptionChars)
		jobDescription = clipped
	}

	if getVerbose() {
		fmt.Printf("Job description loaded (%d characters)\n", len(jobDescription))
	}

	return jobDescription, err
}

func readStdin(r io.Reader) (text string, err error) {
	scanner := bufio.NewScanner(r)
	var lines []string
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}

	if scanner.Err() != nil {
		err = errors.Wrap(scanner.Err(), "failed to read job description from stdin")
		return text, err
	}

	text = strings.TrimSpace(strings.Join(lines, "\n"))
	if text == "" {
		err = errors.New("no job description provided")
		return text, err
	}

	return text, err
}

//nolint:gochecknoglobals // stage labels
var stageMessages = map[pipeline.Stage]string{
	pipeline.StageExtract:     "Extracting resume text...",
	pipeline.StageCoverLetter: "Generating cover letter...",
	pipeline.StageBullets:     "Generating resume bullets...",
	pipeline.StageFullResume:  "Generating full resume...",
	pipeline.StageRender:      "Rendering resume PDF...",
}

// progressReporter shows pipeline stages as a spinner, or as plain lines in verbose mode.
type progressReporter struct {
	current *spinner
}

func newProgressReporter() (p *progressReporter) {
	p = &progressReporter{}
	return p
}

func (p *progressReporter) report(stage pipeline.Stage, percent int) {
	p.finish()

	message, ok := stageMessages[stage]
	if !ok {
		return
	}

	message = fmt.Sprintf("[%3d%%] %s", percent, message)
	if getVerbose() {
		fmt.Println(message)
		return
	}

	p.current = newSpinner(message)
	p.current.start()
}

func (p *progressReporter) finish() {
	if p.current != nil {
		p.current.stopSpinner()
		p.current = nil
	}
}

// spinner provides a simple text-based progress indicator.
type spinner struct {
	message string
	stop    chan bool
	done    chan bool
	mu      sync.Mutex
	active  bool
}

func newSpinner(message string) (s *spinner) {
	s = &spinner{
		message: message,
		stop:    make(chan bool),
		done:    make(chan bool),
	}
	return s
}

func (s *spinner) start() {
	s.mu.Lock()
	if s.active {
		s.mu.Unlock()
		return
	}
	s.active = true
	s.mu.Unlock()

	go func() {
		chars := []string{"|", "/", "-", "\\"}
		i := 0
		ticker := time.NewTicker(100 * time.Millisecond)
		defer ticker.Stop()

		fmt.Printf("%s ", s.message)
		for {
			select {
			case <-s.stop:
				// Clear the line and ensure cursor is at start of new line
				fmt.Printf("\r%s\r", strings.Repeat(" ", len(s.message)+2))
				s.done <- true
				return
			case <-ticker.C:
				fmt.Printf("\r%s %s", s.message, chars[i%len(chars)])
				i++
			}
		}
	}()
}

func (s *spinner) stopSpinner() {
	s.mu.Lock()
	if !s.active {
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()

	s.stop <- true
	<-s.done

	s.mu.Lock()
	s.active = false
	s.mu.Unlock()
}

func createJobOutputDir(baseOutDir, title string) (outDir string, err error) {
	outDir = filepath.Join(baseOutDir, sanitizeFilename(title))
	err = os.MkdirAll(outDir, 0755)
	if err != nil {
		err = errors.Wrapf(err, "failed to create output directory: %s", outDir)
		return outDir, err
	}
	return outDir, err
}

func sanitizeFilename(name string) (sanitized string) {
	sanitized = strings.ToLower(strings.TrimSpace(name))

	// Replace spaces and special chars with hyphens
	sanitized = strings.Map(func(r rune) (result rune) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			result = r
			return result
		}
		result = '-'
		return result
	}, sanitized)

	// Remove consecutive hyphens
	for strings.Contains(sanitized, "--") {
		sanitized = strings.ReplaceAll(sanitized, "--", "-")
	}

	sanitized = strings.Trim(sanitized, "-")
	if sanitized == "" {
		sanitized = "application"
	}

	return sanitized
}
