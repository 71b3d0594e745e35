package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func GetPathInfo(relPath string) (fullPath string, parentDir string, err error) {
	// Convert to absolute path (resolves ../../ and cleans the path)
	fullPath, err = filepath.Abs(relPath)
	if err != nil {
		return "", "", err
	}

	// Get the directory containing the file
	parentDir = filepath.Dir(fullPath)

	return fullPath, parentDir, nil
}

// SiblingPath maps a source file to a file of the same base name with
// extension ext in a sibling directory of its parent:
//
//	tests/input/hello.pas -> tests/<dir>/hello<ext>
func SiblingPath(source, dir, ext string) string {
	parent := filepath.Dir(filepath.Dir(source))
	base := strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))
	return filepath.Join(parent, dir, base+ext)
}

// ExpectedPath is where check mode looks for the golden output of source.
func ExpectedPath(source, ext string) string { return SiblingPath(source, "expected", ext) }

// OutputPath is where output is saved when no explicit file is given.
func OutputPath(source, ext string) string { return SiblingPath(source, "output", ext) }

// OutputPathIn places the output for source in dir instead of the sibling
// output directory.
func OutputPathIn(dir, source, ext string) string {
	base := strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))
	return filepath.Join(dir, base+ext)
}

// WriteFile writes data to path, creating parent directories.
func WriteFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}
