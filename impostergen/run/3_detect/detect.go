// Package detect finds an interface declaration in parsed source and flattens it into the method set an adapter
// has to implement.
package detect

import (
	"errors"
	"fmt"
	"path"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/dave/dst"
	astutil "github.com/toejough/imposter/impostergen/run/0_util"
)

// Exported variables.
var (
	ErrGenericInterface  = errors.New("generic interfaces are not supported")
	ErrInterfaceNotFound = errors.New("interface not found")
	ErrNotInterface      = errors.New("not an interface")
	ErrUnsupportedEmbed  = errors.New("unsupported embedded interface")
)

// Import is one import the generated file needs.
type Import struct {
	Alias string
	Path  string
}

// Ref returns the identifier generated code uses to refer to the import: its alias, or the package name implied
// by its path ("gopkg.in/yaml.v3" is "yaml").
func (i Import) Ref() string {
	if i.Alias != "" {
		return i.Alias
	}

	return importName(i.Path)
}

// Interface is the flattened method set of a named interface.
type Interface struct {
	// Name is the interface as generated code refers to it, qualified when it lives in another package.
	Name    string
	Methods []Method
	Imports []Import
}

// Method is one method of the interface.
type Method struct {
	Name    string
	Params  []Param
	Results []string
}

// Param is one parameter. Name is empty when the declaration leaves it unnamed.
type Param struct {
	Name     string
	Type     string
	Variadic bool
}

// Origin says where the interface is declared relative to the generated file.
type Origin struct {
	// PkgPath is the import path of the declaring package, or empty when it is the generated file's own package.
	PkgPath string
}

// Find looks up the interface called name in files and flattens it. Interfaces embedded from the same package are
// inlined; error is expanded to its Error method.
func Find(files []*dst.File, name string, origin Origin) (Interface, error) {
	finder := newFinder(files, origin)

	spec, ok := finder.specs[name]
	if !ok {
		return Interface{}, fmt.Errorf("%w: %s", ErrInterfaceNotFound, name)
	}

	if spec.TypeParams != nil && len(spec.TypeParams.List) > 0 {
		return Interface{}, fmt.Errorf("%w: %s", ErrGenericInterface, name)
	}

	methods, err := finder.collect(name, map[string]bool{})
	if err != nil {
		return Interface{}, err
	}

	slices.SortFunc(methods, func(a, b Method) int { return strings.Compare(a.Name, b.Name) })

	iface := Interface{Name: name, Methods: methods, Imports: finder.imports()}

	if origin.PkgPath != "" {
		iface.Name = finder.pkgName + "." + name
		iface.Imports = append(iface.Imports, Import{Path: origin.PkgPath})
	}

	return iface, nil
}

type finder struct {
	origin  Origin
	pkgName string
	printer *astutil.Printer
	specs   map[string]*dst.TypeSpec
	fileOf  map[string]*dst.File
	touched map[*dst.File]bool
}

// collect returns the methods of the interface called name, including those it embeds.
//
//nolint:cyclop // one case per kind of interface element
func (f *finder) collect(name string, visiting map[string]bool) ([]Method, error) {
	if visiting[name] {
		return nil, nil
	}

	visiting[name] = true

	spec := f.specs[name]

	iface, ok := spec.Type.(*dst.InterfaceType)
	if !ok {
		return nil, fmt.Errorf("%w: %s is %s", ErrNotInterface, name, f.printer.Expr(spec.Type))
	}

	f.touched[f.fileOf[name]] = true

	if iface.Methods == nil {
		return nil, nil
	}

	var methods []Method

	for _, field := range iface.Methods.List {
		if fn, ok := field.Type.(*dst.FuncType); ok && len(field.Names) > 0 {
			methods = appendMethod(methods, f.method(field.Names[0].Name, fn))

			continue
		}

		switch embedded := field.Type.(type) {
		case *dst.Ident:
			if embedded.Name == "error" {
				methods = appendMethod(methods, Method{Name: "Error", Results: []string{"string"}})

				continue
			}

			if _, ok := f.specs[embedded.Name]; !ok {
				return nil, fmt.Errorf("%w: %s embeds unknown %s", ErrUnsupportedEmbed, name, embedded.Name)
			}

			inner, err := f.collect(embedded.Name, visiting)
			if err != nil {
				return nil, err
			}

			for _, m := range inner {
				methods = appendMethod(methods, m)
			}
		case *dst.SelectorExpr:
			return nil, fmt.Errorf("%w: %s embeds %s from another package",
				ErrUnsupportedEmbed, name, f.printer.Expr(embedded))
		default:
			return nil, fmt.Errorf("%w: %s is a type constraint", ErrNotInterface, name)
		}
	}

	return methods, nil
}

// imports returns the imports of every file that contributed declarations, filtered to the ones referenced.
func (f *finder) imports() []Import {
	used := f.printer.Used()
	seen := map[string]bool{}

	var out []Import

	for file := range f.touched {
		for _, spec := range file.Imports {
			importPath, err := strconv.Unquote(spec.Path.Value)
			if err != nil {
				continue
			}

			name := importName(importPath)
			alias := ""

			if spec.Name != nil {
				alias = spec.Name.Name
				name = alias
			}

			if !used[name] || seen[name] {
				continue
			}

			if alias == importName(importPath) {
				alias = ""
			}

			seen[name] = true

			out = append(out, Import{Alias: alias, Path: importPath})
		}
	}

	slices.SortFunc(out, func(a, b Import) int { return strings.Compare(a.Path, b.Path) })

	return out
}

func (f *finder) method(name string, fn *dst.FuncType) Method {
	method := Method{Name: name, Results: f.printer.FieldTypes(fn.Results)}

	if fn.Params == nil {
		return method
	}

	for _, field := range fn.Params.List {
		_, variadic := field.Type.(*dst.Ellipsis)
		typeStr := f.printer.Expr(field.Type)

		if len(field.Names) == 0 {
			method.Params = append(method.Params, Param{Type: typeStr, Variadic: variadic})

			continue
		}

		for _, n := range field.Names {
			method.Params = append(method.Params, Param{Name: n.Name, Type: typeStr, Variadic: variadic})
		}
	}

	return method
}

func (f *finder) qualify(name string) string {
	if _, declared := f.specs[name]; declared && f.origin.PkgPath != "" {
		return f.pkgName + "." + name
	}

	return name
}

func appendMethod(methods []Method, m Method) []Method {
	if slices.ContainsFunc(methods, func(existing Method) bool { return existing.Name == m.Name }) {
		return methods
	}

	return append(methods, m)
}

// importName guesses the package name of an import path: its last element, without a major version suffix.
func importName(importPath string) string {
	base := path.Base(importPath)
	if majorVersion.MatchString(base) {
		base = path.Base(path.Dir(importPath))
	}

	base, _, _ = strings.Cut(base, ".")

	return strings.ReplaceAll(base, "-", "")
}

func newFinder(files []*dst.File, origin Origin) *finder {
	f := &finder{
		origin:  origin,
		specs:   map[string]*dst.TypeSpec{},
		fileOf:  map[string]*dst.File{},
		touched: map[*dst.File]bool{},
	}

	for _, file := range files {
		if f.pkgName == "" && !strings.HasSuffix(file.Name.Name, "_test") {
			f.pkgName = file.Name.Name
		}

		for _, decl := range file.Decls {
			gen, ok := decl.(*dst.GenDecl)
			if !ok {
				continue
			}

			for _, spec := range gen.Specs {
				typeSpec, ok := spec.(*dst.TypeSpec)
				if !ok {
					continue
				}

				f.specs[typeSpec.Name.Name] = typeSpec
				f.fileOf[typeSpec.Name.Name] = file
			}
		}
	}

	f.printer = astutil.NewPrinter(f.qualify)

	return f
}

//nolint:gochecknoglobals // compiled once
var majorVersion = regexp.MustCompile(`^v[0-9]+$`)
