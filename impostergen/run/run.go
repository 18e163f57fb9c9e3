// Package run implements the impostergen command in a testable way.
package run

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/alexflint/go-arg"
	"github.com/dave/dst"
	"github.com/spf13/viper"
	detect "github.com/toejough/imposter/impostergen/run/3_detect"
	generate "github.com/toejough/imposter/impostergen/run/5_generate"
	output "github.com/toejough/imposter/impostergen/run/6_output"
)

// Exported variables.
var (
	ErrMissingInterface = errors.New("an interface name or --config is required")
	ErrMissingPackage   = errors.New("GOPACKAGE is not set; run from go:generate or set package in the config file")
)

// FileSystem is the file access the generator needs.
type FileSystem interface {
	output.FileSystem
}

// PackageLoader parses the package at an import path. "." is the working directory.
type PackageLoader interface {
	Load(importPath string) ([]*dst.File, error)
}

// Target is one adapter to generate.
type Target struct {
	Interface string `mapstructure:"interface"`
	Name      string `mapstructure:"name"`
	Pkg       string `mapstructure:"pkg"`
}

// Run executes impostergen. args are the process arguments including the program name; getEnv reads the
// environment go:generate sets up. Progress and diffs are written to out.
func Run(args []string, getEnv func(string) string, fileSys FileSystem, loader PackageLoader, out io.Writer) error {
	parsed, err := parseArgs(args)
	if err != nil {
		return err
	}

	cfg, err := resolveConfig(parsed, getEnv, fileSys)
	if err != nil {
		return err
	}

	registry := generate.NewTemplateRegistry()

	var stale []error

	for _, target := range cfg.Targets {
		err = generateTarget(target, cfg, registry, getEnv, fileSys, loader, out)
		if errors.Is(err, output.ErrStale) {
			stale = append(stale, err)

			continue
		}

		if err != nil {
			return err
		}
	}

	return errors.Join(stale...)
}

// cliArgs defines the command-line arguments for the generator.
type cliArgs struct {
	Interface string `arg:"positional"        help:"interface to implement (e.g. Store)"`
	Name      string `arg:"--name"            help:"name for the constructor and adapter (defaults to the interface name)"`
	Pkg       string `arg:"--pkg"             help:"import path of the package declaring the interface (defaults to the current package)"`
	Check     bool   `arg:"--check"           help:"fail with a diff instead of writing when the generated file is stale"`
	Config    string `arg:"--config,-c"       help:"YAML, JSON or TOML file listing targets to generate"`
}

// config is what one run generates, after merging flags, the config file, and IMPOSTERGEN_* variables.
type config struct {
	Package string   `mapstructure:"package"`
	Check   bool     `mapstructure:"check"`
	Targets []Target `mapstructure:"targets"`
}

func generateTarget(
	target Target,
	cfg config,
	registry *generate.TemplateRegistry,
	getEnv func(string) string,
	fileSys FileSystem,
	loader PackageLoader,
	out io.Writer,
) error {
	importPath := target.Pkg
	if importPath == "" {
		importPath = "."
	}

	files, err := loader.Load(importPath)
	if err != nil {
		return fmt.Errorf("failed to load package %q: %w", importPath, err)
	}

	origin := detect.Origin{}
	if target.Pkg != "" {
		origin.PkgPath = target.Pkg
	}

	iface, err := detect.Find(files, target.Interface, origin)
	if err != nil {
		return err
	}

	name := target.Name
	if name == "" {
		name = target.Interface
	}

	code, err := generate.Adapter(registry, generate.Request{PkgName: cfg.Package, Name: name, Iface: iface})
	if err != nil {
		return err
	}

	if cfg.Check {
		return output.Check(code, name, cfg.Package, getEnv, fileSys, out)
	}

	return output.Write(code, name, cfg.Package, getEnv, fileSys, out)
}

// loadConfigFile reads path through fileSys, so tests need no real files. IMPOSTERGEN_PACKAGE and
// IMPOSTERGEN_CHECK, read through getEnv, override the file.
func loadConfigFile(path string, getEnv func(string) string, fileSys FileSystem) (config, error) {
	data, err := fileSys.ReadFile(path)
	if err != nil {
		return config{}, fmt.Errorf("failed to read config file: %w", err)
	}

	v := viper.New()
	v.SetConfigType(strings.TrimPrefix(filepath.Ext(path), "."))
	v.SetDefault("check", false)
	v.SetDefault("package", "")

	err = v.ReadConfig(bytes.NewReader(data))
	if err != nil {
		return config{}, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	for _, key := range []string{"check", "package"} {
		if val := getEnv(envKey(key)); val != "" {
			v.Set(key, val)
		}
	}

	var cfg config

	err = v.Unmarshal(&cfg)
	if err != nil {
		return config{}, fmt.Errorf("failed to unmarshal config file %s: %w", path, err)
	}

	return cfg, nil
}

// envKey names the variable that overrides a config key, e.g. IMPOSTERGEN_PACKAGE.
func envKey(key string) string {
	return "IMPOSTERGEN_" + strings.ToUpper(key)
}

// parseArgs parses command-line arguments into cliArgs.
func parseArgs(args []string) (cliArgs, error) {
	var parsed cliArgs

	parser, err := arg.NewParser(arg.Config{Program: "impostergen"}, &parsed)
	if err != nil {
		return cliArgs{}, fmt.Errorf("failed to create argument parser: %w", err)
	}

	var cmdArgs []string
	if len(args) > 1 {
		cmdArgs = args[1:]
	}

	err = parser.Parse(cmdArgs)
	if err != nil {
		return cliArgs{}, fmt.Errorf("failed to parse arguments: %w", err)
	}

	return parsed, nil
}

func resolveConfig(parsed cliArgs, getEnv func(string) string, fileSys FileSystem) (config, error) {
	var cfg config

	switch {
	case parsed.Config != "":
		loaded, err := loadConfigFile(parsed.Config, getEnv, fileSys)
		if err != nil {
			return config{}, err
		}

		cfg = loaded
		cfg.Check = cfg.Check || parsed.Check
	case parsed.Interface != "":
		cfg.Check = parsed.Check
		cfg.Package = getEnv(envKey("package"))
		cfg.Targets = []Target{{Interface: parsed.Interface, Name: parsed.Name, Pkg: parsed.Pkg}}
	default:
		return config{}, ErrMissingInterface
	}

	if check, err := strconv.ParseBool(getEnv(envKey("check"))); err == nil && check {
		cfg.Check = true
	}

	if pkg := getEnv("GOPACKAGE"); pkg != "" {
		cfg.Package = pkg
	}

	if cfg.Package == "" {
		return config{}, ErrMissingPackage
	}

	if len(cfg.Targets) == 0 {
		return config{}, fmt.Errorf("%w: %s lists no targets", ErrMissingInterface, parsed.Config)
	}

	return cfg, nil
}
