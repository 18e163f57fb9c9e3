// Package load parses a package's source files into dst trees.
package load

import (
	"errors"
	"fmt"
	"go/build"
	"go/token"
	"os"
	"path/filepath"
	"strings"

	"github.com/dave/dst"
	"github.com/dave/dst/decorator"
)

// ErrNoPackageFiles is returned when a package directory holds no parseable Go files.
var ErrNoPackageFiles = errors.New("no package files")

// PackageDST parses the package at importPath. "." is the working directory; test files are parsed only for it,
// since that is where go:generate runs.
func PackageDST(importPath string) ([]*dst.File, error) {
	dir, err := packageDir(importPath)
	if err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	includeTests := importPath == "."
	goFiles := make([]string, 0, len(entries))

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".go") {
			continue
		}

		if !includeTests && strings.HasSuffix(name, "_test.go") {
			continue
		}

		goFiles = append(goFiles, filepath.Join(dir, name))
	}

	return parseFiles(dir, goFiles)
}

// Source parses a single in-memory file. Tests use it to feed the detector without touching disk.
func Source(filename, src string) (*dst.File, error) {
	file, err := decorator.NewDecorator(token.NewFileSet()).ParseFile(filename, src, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filename, err)
	}

	return file, nil
}

func packageDir(importPath string) (string, error) {
	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get working directory: %w", err)
	}

	if importPath == "." {
		return wd, nil
	}

	pkg, err := build.Import(importPath, wd, build.FindOnly)
	if err != nil {
		return "", fmt.Errorf("failed to find package %q: %w", importPath, err)
	}

	return pkg.Dir, nil
}

func parseFiles(dir string, goFiles []string) ([]*dst.File, error) {
	if len(goFiles) == 0 {
		return nil, fmt.Errorf("%w: no .go files in %s", ErrNoPackageFiles, dir)
	}

	dec := decorator.NewDecorator(token.NewFileSet())
	files := make([]*dst.File, 0, len(goFiles))

	for _, goFile := range goFiles {
		file, err := dec.ParseFile(goFile, nil, 0)
		if err != nil {
			// A file that does not parse cannot declare the interface we want.
			continue
		}

		files = append(files, file)
	}

	if len(files) == 0 {
		return nil, fmt.Errorf("%w: failed to parse any .go files in %s", ErrNoPackageFiles, dir)
	}

	return files, nil
}
