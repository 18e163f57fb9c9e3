// Package generate renders the adapter file for a detected interface.
package generate

import (
	"bytes"
	"errors"
	"fmt"
	"go/format"
	"go/token"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	detect "github.com/toejough/imposter/impostergen/run/3_detect"
)

// ErrInvalidName is returned when the requested name is not a Go identifier.
var ErrInvalidName = errors.New("invalid name")

// ImposterPath is the import path of the runtime package generated code calls into.
const ImposterPath = "github.com/toejough/imposter"

// Request describes one adapter file.
type Request struct {
	PkgName string
	// Name names the constructor (New<Name>) and the adapter type.
	Name  string
	Iface detect.Interface
}

// Adapter renders and gofmts the adapter file for req.
func Adapter(registry *TemplateRegistry, req Request) (string, error) {
	if !token.IsIdentifier(req.Name) {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, req.Name)
	}

	data := newFileData(req)

	var buf bytes.Buffer

	registry.WriteHeader(&buf, data)
	registry.WriteConstructor(&buf, data)
	registry.WriteStruct(&buf, data)

	for i, m := range req.Iface.Methods {
		registry.WriteMethod(&buf, newMethodData(data, i, m))
	}

	formatted, err := format.Source(buf.Bytes())
	if err != nil {
		return "", fmt.Errorf("failed to format generated code for %s: %w", req.Iface.Name, err)
	}

	return string(formatted), nil
}

// ParamNames picks a name for every parameter: the declared one when it is usable, otherwise argN. Names never
// collide with each other or with reserved.
func ParamNames(params []detect.Param, reserved map[string]bool) []string {
	names := make([]string, len(params))
	taken := make(map[string]bool, len(params))
	keep := make([]bool, len(params))

	for i, p := range params {
		if p.Name != "" && p.Name != "_" && !reserved[p.Name] && !taken[p.Name] {
			taken[p.Name] = true
			keep[i] = true
		}
	}

	for i, p := range params {
		if keep[i] {
			names[i] = p.Name

			continue
		}

		name := "arg" + strconv.Itoa(i)
		for taken[name] || reserved[name] {
			name = "_" + name
		}

		taken[name] = true
		names[i] = name
	}

	return names
}

type fileData struct {
	PkgName   string
	Name      string
	Adapter   string
	Interface string
	Qual      string
	Imports   []detect.Import
	Methods   []detect.Method
}

type methodData struct {
	fileData

	Index      int
	Name       string
	Recv       string
	Out        string
	ParamList  string
	ArgList    string
	ResultList string
	Results    []string
}

func newFileData(req Request) fileData {
	imports := []detect.Import{{Path: ImposterPath}}
	qual := "imposter"

	for _, imp := range req.Iface.Imports {
		if imp.Path == ImposterPath {
			continue
		}

		imports = append(imports, imp)
	}

	return fileData{
		PkgName:   req.PkgName,
		Name:      req.Name,
		Adapter:   lowerFirst(req.Name) + "Imposter",
		Interface: req.Iface.Name,
		Qual:      qual,
		Imports:   imports,
		Methods:   req.Iface.Methods,
	}
}

func newMethodData(file fileData, index int, m detect.Method) methodData {
	const (
		recv = "imp"
		out  = "out"
	)

	reserved := map[string]bool{recv: true, out: true, file.Qual: true}
	for _, imp := range file.Imports {
		reserved[imp.Ref()] = true
	}

	if pkg, _, qualified := strings.Cut(file.Interface, "."); qualified {
		reserved[pkg] = true
	}

	names := ParamNames(m.Params, reserved)
	params := make([]string, len(m.Params))

	var args strings.Builder

	for i, p := range m.Params {
		params[i] = names[i] + " " + p.Type
		args.WriteString(", " + names[i])
	}

	return methodData{
		fileData:   file,
		Index:      index,
		Name:       m.Name,
		Recv:       recv,
		Out:        out,
		ParamList:  strings.Join(params, ", "),
		ArgList:    args.String(),
		ResultList: resultList(m.Results),
		Results:    m.Results,
	}
}

func lowerFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)

	return string(unicode.ToLower(r)) + s[size:]
}

func resultList(results []string) string {
	switch len(results) {
	case 0:
		return ""
	case 1:
		return " " + results[0]
	default:
		return " (" + strings.Join(results, ", ") + ")"
	}
}
