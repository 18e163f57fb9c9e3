// impostergen generates imposter adapters for Go interfaces. Add a
// `//go:generate impostergen <Interface>` comment next to the interface (or in a test file of its package) and run
// go generate. The output, generated_<Name>.go, declares New<Name>, which returns an *imposter.Handle whose
// substitute implements the interface. Pass --name to rename it, --pkg to implement an interface from another
// package, --check to verify the file is current, or --config to generate several adapters from one file.
package main

import (
	"fmt"
	"os"

	"github.com/dave/dst"
	"github.com/toejough/imposter/impostergen/run"
	load "github.com/toejough/imposter/impostergen/run/2_load"
)

func main() {
	err := run.Run(os.Args, os.Getenv, &realFileSystem{}, &realPackageLoader{}, os.Stdout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// realFileSystem implements run.FileSystem using the os package.
type realFileSystem struct{}

// ReadFile reads the file named by name and returns the contents.
func (fs *realFileSystem) ReadFile(name string) ([]byte, error) {
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", name, err)
	}

	return data, nil
}

// WriteFile writes data to the file named by name.
func (fs *realFileSystem) WriteFile(name string, data []byte, perm os.FileMode) error {
	err := os.WriteFile(name, data, perm)
	if err != nil {
		return fmt.Errorf("failed to write file %s: %w", name, err)
	}

	return nil
}

// realPackageLoader implements run.PackageLoader by parsing source with dst.
type realPackageLoader struct{}

// Load parses the package at importPath.
func (pl *realPackageLoader) Load(importPath string) ([]*dst.File, error) {
	files, err := load.PackageDST(importPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load package %q: %w", importPath, err)
	}

	return files, nil
}
