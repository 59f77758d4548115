package cmd

import (
	"fmt"

	"github.com/nikogura/resume-studio/pkg/extract"
	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // Cobra boilerplate
var extractCmd = &cobra.Command{
	Use:   "extract <resume.pdf>",
	Short: "Print the plain text extracted from a resume PDF",
	Long: `Print the text that generation would send to the model for a resume PDF.
Useful for checking that a PDF is readable before generating.

Example:
  resume-studio extract resume.pdf`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, args []string) (err error) {
	var text string
	text, err = extract.File(args[0])
	if err != nil {
		return err
	}

	if getVerbose() {
		fmt.Printf("Extracted %d characters from %s\n\n", len(text), args[0])
	}

	fmt.Println(text)
	return err
}
