package gen

import (
	"bytes"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
)

// File permission constants.
const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// WriteFiles writes all generated files under the output directory,
// creating package directories as needed.
func WriteFiles(files []GeneratedFile, outputDir string) error {
	for _, file := range files {
		outputPath := filepath.Join(outputDir, filepath.FromSlash(file.Filename))

		err := os.MkdirAll(filepath.Dir(outputPath), dirPerm)
		if err != nil {
			return errors.Wrapf(err, "creating directory for %s", file.Filename)
		}

		err = os.WriteFile(outputPath, file.Content, filePerm)
		if err != nil {
			return errors.Wrapf(err, "writing file %s", file.Filename)
		}
	}

	return nil
}

// StaleFiles returns the names of the files whose content under outputDir
// is missing or differs from the generated content.
func StaleFiles(files []GeneratedFile, outputDir string) ([]string, error) {
	var stale []string

	for _, file := range files {
		existing, err := os.ReadFile(filepath.Join(outputDir, filepath.FromSlash(file.Filename)))
		if errors.Is(err, os.ErrNotExist) {
			stale = append(stale, file.Filename)
			continue
		}

		if err != nil {
			return nil, errors.Wrapf(err, "reading file %s", file.Filename)
		}

		if !bytes.Equal(existing, file.Content) {
			stale = append(stale, file.Filename)
		}
	}

	return stale, nil
}
