// Package output writes generated adapter files, or checks them against what is on disk.
package output

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/akedrou/textdiff"
	"github.com/toejough/go-reorder"
)

// ErrStale is returned by Check when the file on disk differs from freshly generated code.
var ErrStale = errors.New("generated file is stale")

// FileSystem is the file access output needs.
type FileSystem interface {
	ReadFile(name string) ([]byte, error)
	WriteFile(name string, data []byte, perm os.FileMode) error
}

// Check compares freshly generated code with the file on disk. When they differ it writes a unified diff to out
// and returns ErrStale. A missing file counts as empty.
func Check(code, name, pkgName string, getEnv func(string) string, fileSys FileSystem, out io.Writer) error {
	filename := Filename(name, pkgName, getEnv)
	want := finish(code, filename, out)

	current, err := fileSys.ReadFile(filename)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("error reading %s: %w", filename, err)
	}

	if string(current) == want {
		_, _ = fmt.Fprintf(out, "%s is up to date.\n", filename)

		return nil
	}

	_, _ = fmt.Fprint(out, textdiff.Unified(filename+" (on disk)", filename+" (generated)", string(current), want))

	return fmt.Errorf("%w: %s", ErrStale, filename)
}

// Filename returns generated_<name>.go, or generated_<name>_test.go when generating for a test package or from a
// test file.
func Filename(name, pkgName string, getEnv func(string) string) string {
	isTestFile := strings.HasSuffix(pkgName, "_test") || strings.HasSuffix(getEnv("GOFILE"), "_test.go")
	if isTestFile {
		return "generated_" + name + "_test.go"
	}

	return "generated_" + name + ".go"
}

// Write writes the generated code to its file.
func Write(code, name, pkgName string, getEnv func(string) string, fileSys FileSystem, out io.Writer) error {
	const generatedFilePermissions = 0o600

	filename := Filename(name, pkgName, getEnv)

	err := fileSys.WriteFile(filename, []byte(finish(code, filename, out)), generatedFilePermissions)
	if err != nil {
		return fmt.Errorf("error writing %s: %w", filename, err)
	}

	_, _ = fmt.Fprintf(out, "%s written successfully.\n", filename)

	return nil
}

// finish orders declarations the way the rest of the module is ordered. Code that cannot be reordered is kept as
// generated.
func finish(code, filename string, out io.Writer) string {
	reordered, err := reorder.Source(code)
	if err != nil {
		_, _ = fmt.Fprintf(out, "Warning: failed to reorder %s: %v\n", filename, err)

		return code
	}

	return reordered
}
