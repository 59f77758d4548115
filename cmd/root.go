package cmd

import (
	"os"

	"github.com/nikogura/resume-studio/pkg/config"
	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // Cobra boilerplate
var verbose bool

//nolint:gochecknoglobals // Cobra boilerplate
var configFile string

//nolint:gochecknoglobals // Cobra boilerplate
var envFile string

//nolint:gochecknoglobals // Cobra boilerplate
var rootCmd = &cobra.Command{
	Use:   "resume-studio",
	Short: "Generate cover letters, resume bullets and full resumes from a resume PDF",
	Long: `resume-studio reads your resume PDF and a job description and generates
a tailored cover letter, resume bullet points and, optionally, a complete resume
rendered to PDF in one of three templates (Professional, Modern, Creative).

Uses Claude or Gemini to write the text.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) (err error) {
		err = config.LoadEnvFile(envFile)
		return err
	},
}

// Execute runs the root command.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default is $HOME/.resume-studio/config.json)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "env file loaded before the config")
}

// getVerbose returns the verbose flag value.
func getVerbose() (result bool) {
	result = verbose
	return result
}

// getConfigFile returns the config file path.
func getConfigFile() (result string) {
	result = configFile
	return result
}
