package renderer

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// TextContentType is the MIME type of RenderText output.
const TextContentType = "text/plain; charset=utf-8"

// PDFContentType is the MIME type of RenderPDF output.
const PDFContentType = "application/pdf"

// RenderText returns text as an unmodified UTF-8 download.
func RenderText(text string) (data []byte) {
	data = []byte(text)
	return data
}

// WriteFile writes rendered content to outputPath, creating parent directories.
func WriteFile(content []byte, outputPath string) (err error) {
	// Ensure output directory exists
	outputDir := filepath.Dir(outputPath)
	err = os.MkdirAll(outputDir, 0750)
	if err != nil {
		err = errors.Wrapf(err, "failed to create output directory: %s", outputDir)
		return err
	}

	err = os.WriteFile(outputPath, content, 0600)
	if err != nil {
		err = errors.Wrapf(err, "failed to write file: %s", outputPath)
		return err
	}

	return err
}

// CleanupFiles removes previously written outputs.
func CleanupFiles(paths ...string) (err error) {
	for _, path := range paths {
		err = os.Remove(path)
		if err != nil {
			err = errors.Wrapf(err, "failed to remove file: %s", path)
			return err
		}
	}
	return err
}
