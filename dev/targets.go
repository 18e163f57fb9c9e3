//go:build targ

package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/akedrou/textdiff"
	"github.com/toejough/go-reorder"
	"github.com/toejough/targ"
	"github.com/toejough/targ/sh"
)

// Build builds bin/impostergen, which Generate puts first on PATH.
func Build() error {
	fmt.Println("Building impostergen...")

	if err := os.MkdirAll("bin", 0o755); err != nil {
		return fmt.Errorf("failed to create bin directory: %w", err)
	}

	return sh.Run("go", "build", "-o", "bin/impostergen", "./impostergen")
}

// Check fixes what it can, then lints and tests.
func Check() error {
	fmt.Println("Checking...")

	return targ.Deps(Tidy, ReorderDecls, Generate, Lint, CheckCoverage)
}

// CheckCI is Check without rewriting any source file.
func CheckCI() error {
	fmt.Println("Checking without fixing...")

	return targ.Deps(ReorderDeclsCheck, GenerateCheck, Lint, CheckCoverage)
}

// CheckCoverage runs Test and fails if any covered function is under minCoverage percent.
func CheckCoverage() error {
	if err := targ.Deps(Test); err != nil {
		return err
	}

	fmt.Println("Checking coverage...")

	out, err := exec.Command("go", "tool", "cover", "-func="+coverageFile).Output()
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", coverageFile, err)
	}

	var thin []string

	scanner := bufio.NewScanner(strings.NewReader(string(out)))
	for scanner.Scan() {
		line := scanner.Text()

		fields := strings.Fields(line)
		if len(fields) < 3 || fields[0] == "total:" || strings.Contains(fields[0], "generated_") {
			continue
		}

		percent, err := strconv.ParseFloat(strings.TrimSuffix(fields[len(fields)-1], "%"), 64)
		if err != nil {
			return fmt.Errorf("unparseable coverage line %q: %w", line, err)
		}

		if percent < minCoverage {
			thin = append(thin, line)
		}
	}

	if len(thin) > 0 {
		return fmt.Errorf("%w (%.0f%%):\n  %s", errThinCoverage, minCoverage, strings.Join(thin, "\n  "))
	}

	return nil
}

// Clean removes build and coverage output.
func Clean() {
	fmt.Println("Cleaning...")

	_ = os.Remove(coverageFile)
	_ = os.RemoveAll("bin")
}

// Generate rewrites every adapter named by a go:generate line.
func Generate() error {
	fmt.Println("Generating...")

	return generate()
}

// GenerateCheck fails with a diff when any generated adapter is out of date.
func GenerateCheck() error {
	fmt.Println("Checking generated adapters...")

	return generate("IMPOSTERGEN_CHECK=true")
}

// Lint runs golangci-lint with its default linters.
func Lint() error {
	fmt.Println("Linting...")

	return sh.Run("golangci-lint", "run", "--allow-parallel-runners", "./...")
}

// Mutate runs the ooze mutation suite in dev/mutation_test.go.
func Mutate() error {
	fmt.Println("Running mutation tests...")

	return sh.Run("go", "test", "-timeout=6000s", "-tags=mutation", "-ooze.v", "./dev/...", "-run=TestMutation")
}

// ReorderDecls rewrites hand-written files into go-reorder's declaration order.
func ReorderDecls() error {
	fmt.Println("Reordering declarations...")

	return eachMisordered(func(path, _, reordered string) error {
		fmt.Printf("  reordered %s\n", path)

		return os.WriteFile(path, []byte(reordered), 0o600)
	})
}

// ReorderDeclsCheck prints a diff for every hand-written file go-reorder would change, and fails if there are any.
func ReorderDeclsCheck() error {
	fmt.Println("Checking declaration order...")

	var misordered []string

	err := eachMisordered(func(path, content, reordered string) error {
		misordered = append(misordered, path)

		fmt.Println(textdiff.Unified(path+" (current)", path+" (reordered)", content, reordered))

		return nil
	})
	if err != nil {
		return err
	}

	if len(misordered) > 0 {
		return fmt.Errorf("%w: %s", errMisordered, strings.Join(misordered, ", "))
	}

	return nil
}

// Test runs every test with the race detector and coverage.
func Test() error {
	fmt.Println("Running tests...")

	return sh.Run(
		"go", "test",
		"-timeout=2m",
		"-race",
		"-count=1",
		"-coverprofile="+coverageFile,
		"-coverpkg=./,./internal/...,./match/...,./impostergen/run/...",
		"./...",
	)
}

// Tidy tidies go.mod.
func Tidy() error {
	fmt.Println("Tidying go.mod...")

	return sh.Run("go", "mod", "tidy")
}

const (
	coverageFile = "coverage.out"
	minCoverage  = 80.0
)

var (
	errMisordered   = errors.New("declarations out of order; run 'targ reorder-decls'")
	errThinCoverage = errors.New("functions under the coverage minimum")
)

// eachMisordered calls fn for every hand-written Go file outside _-prefixed and hidden directories whose
// declarations go-reorder would move.
func eachMisordered(fn func(path, content, reordered string) error) error {
	return filepath.WalkDir(".", func(path string, entry os.DirEntry, err error) error {
		if err != nil {
			return err
		}

		name := entry.Name()
		if entry.IsDir() {
			if path != "." && (strings.HasPrefix(name, "_") || strings.HasPrefix(name, ".")) {
				return filepath.SkipDir
			}

			return nil
		}

		if filepath.Ext(name) != ".go" || strings.HasPrefix(name, "generated_") {
			return nil
		}

		content, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}

		reordered, err := reorder.Source(string(content))
		if err != nil {
			fmt.Printf("  skipping %s: %v\n", path, err)

			return nil
		}

		if reordered == string(content) {
			return nil
		}

		return fn(path, string(content), reordered)
	})
}

// generate runs go generate with bin/ first on PATH, so go:generate lines find the freshly built impostergen.
func generate(env ...string) error {
	if err := targ.Deps(Build); err != nil {
		return err
	}

	binDir, err := filepath.Abs("bin")
	if err != nil {
		return fmt.Errorf("failed to get absolute path for bin: %w", err)
	}

	cmd := exec.Command("go", "generate", "./...")
	cmd.Env = append(os.Environ(), "PATH="+binDir+string(filepath.ListSeparator)+os.Getenv("PATH"))
	cmd.Env = append(cmd.Env, env...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	return cmd.Run()
}
