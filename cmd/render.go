package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/nikogura/resume-studio/pkg/renderer"
	"github.com/nikogura/resume-studio/pkg/style"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // Cobra boilerplate
var renderTemplate string

//nolint:gochecknoglobals // Cobra boilerplate
var renderOutput string

//nolint:gochecknoglobals // Cobra boilerplate
var renderFormat string

//nolint:gochecknoglobals // Cobra boilerplate
var renderCmd = &cobra.Command{
	Use:   "render <text-file>",
	Short: "Render a plain-text resume without calling a model",
	Long: `Render a plain-text document to PDF using the template line rules:
blank lines become spacing, lines ending in ":" become bold headings, lines
starting with "-" become bullets, and everything else is body text.

--format docx or txt writes the text unmodified in that format instead.

Example:
  resume-studio render resume.txt --template Modern
  resume-studio render resume.txt --output ~/Documents/resume.pdf
  resume-studio render letter.txt --format docx`,
	Args: cobra.ExactArgs(1),
	RunE: runRender,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(renderCmd)
	renderCmd.Flags().StringVar(&renderTemplate, "template", string(style.Professional), "Template: Professional, Modern or Creative")
	renderCmd.Flags().StringVarP(&renderOutput, "output", "o", "", "Output file (default enhanced_resume_<Template>.<format> next to the input)")
	renderCmd.Flags().StringVar(&renderFormat, "format", "pdf", "Output format: pdf, docx or txt")
}

func runRender(cmd *cobra.Command, args []string) (err error) {
	inputPath := args[0]

	var source []byte
	source, err = os.ReadFile(inputPath)
	if err != nil {
		err = errors.Wrapf(err, "failed to read input: %s", inputPath)
		return err
	}

	tmpl := style.ParseTemplate(renderTemplate)
	if getVerbose() && renderTemplate != string(tmpl) {
		fmt.Printf("Unknown template %q, using %s\n", renderTemplate, tmpl)
	}

	format := strings.ToLower(renderFormat)

	var data []byte
	switch format {
	case "pdf":
		data, err = renderer.RenderPDF(string(source), tmpl)
	case "docx":
		data, err = renderer.RenderDOCX(string(source))
	case "txt":
		data = renderer.RenderText(string(source))
	default:
		err = errors.Errorf("unknown format %q (expected pdf, docx or txt)", renderFormat)
	}
	if err != nil {
		return err
	}

	outputPath := renderOutput
	if outputPath == "" {
		outputPath = filepath.Join(filepath.Dir(inputPath), fmt.Sprintf("enhanced_resume_%s.%s", tmpl.Slug(), format))
	}

	err = renderer.WriteFile(data, outputPath)
	if err != nil {
		return err
	}

	if getVerbose() {
		blocks := renderer.Layout(string(source), tmpl)
		fmt.Printf("Laid out %d lines with the %s template\n", len(blocks), tmpl)
	}

	fmt.Printf("Saved: %s\n", outputPath)
	return err
}
