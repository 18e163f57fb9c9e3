// Package astutil renders dst type expressions back to Go source.
package astutil

import (
	"fmt"
	"strings"

	"github.com/dave/dst"
)

// Qualifier rewrites a bare identifier that names a type declared in the interface's package. It returns the
// identifier unchanged when no rewrite is needed.
type Qualifier func(name string) string

// Printer renders type expressions, recording which imported package names they reference.
type Printer struct {
	qualify Qualifier
	used    map[string]bool
}

// NewPrinter returns a printer that passes bare identifiers through qualify. A nil qualify leaves them as is.
func NewPrinter(qualify Qualifier) *Printer {
	return &Printer{qualify: qualify, used: make(map[string]bool)}
}

// IsPredeclared reports whether name is a predeclared Go type.
func IsPredeclared(name string) bool {
	return predeclared[name]
}

// Expr renders expr.
//
//nolint:cyclop,funlen // Type-switch dispatcher over dst expression kinds
func (p *Printer) Expr(expr dst.Expr) string {
	if expr == nil {
		return ""
	}

	switch typed := expr.(type) {
	case *dst.Ident:
		if p.qualify == nil || IsPredeclared(typed.Name) {
			return typed.Name
		}

		return p.qualify(typed.Name)
	case *dst.BasicLit:
		return typed.Value
	case *dst.SelectorExpr:
		if pkg, ok := typed.X.(*dst.Ident); ok {
			p.used[pkg.Name] = true

			return pkg.Name + "." + typed.Sel.Name
		}

		return p.Expr(typed.X) + "." + typed.Sel.Name
	case *dst.StarExpr:
		return "*" + p.Expr(typed.X)
	case *dst.ArrayType:
		if typed.Len != nil {
			return "[" + p.Expr(typed.Len) + "]" + p.Expr(typed.Elt)
		}

		return "[]" + p.Expr(typed.Elt)
	case *dst.MapType:
		return "map[" + p.Expr(typed.Key) + "]" + p.Expr(typed.Value)
	case *dst.ChanType:
		switch typed.Dir {
		case dst.SEND:
			return "chan<- " + p.Expr(typed.Value)
		case dst.RECV:
			return "<-chan " + p.Expr(typed.Value)
		default:
			return "chan " + p.Expr(typed.Value)
		}
	case *dst.InterfaceType:
		return p.interfaceType(typed)
	case *dst.StructType:
		return p.structType(typed)
	case *dst.FuncType:
		return "func" + p.signature(typed)
	case *dst.Ellipsis:
		return "..." + p.Expr(typed.Elt)
	case *dst.IndexExpr:
		return p.Expr(typed.X) + "[" + p.Expr(typed.Index) + "]"
	case *dst.IndexListExpr:
		indices := make([]string, len(typed.Indices))
		for i, idx := range typed.Indices {
			indices[i] = p.Expr(idx)
		}

		return p.Expr(typed.X) + "[" + strings.Join(indices, ", ") + "]"
	case *dst.ParenExpr:
		return "(" + p.Expr(typed.X) + ")"
	default:
		return fmt.Sprintf("%T", expr)
	}
}

// Used returns the imported package names referenced by everything rendered so far.
func (p *Printer) Used() map[string]bool {
	return p.used
}

// FieldTypes renders a field list into one type string per declared name. An unnamed field yields one entry.
func (p *Printer) FieldTypes(fields *dst.FieldList) []string {
	if fields == nil {
		return nil
	}

	var parts []string

	for _, f := range fields.List {
		typeStr := p.Expr(f.Type)

		count := max(len(f.Names), 1)
		for range count {
			parts = append(parts, typeStr)
		}
	}

	return parts
}

func (p *Printer) interfaceType(iface *dst.InterfaceType) string {
	if iface.Methods == nil || len(iface.Methods.List) == 0 {
		return "interface{}"
	}

	parts := make([]string, 0, len(iface.Methods.List))

	for _, m := range iface.Methods.List {
		if fn, ok := m.Type.(*dst.FuncType); ok && len(m.Names) > 0 {
			parts = append(parts, m.Names[0].Name+p.signature(fn))

			continue
		}

		parts = append(parts, p.Expr(m.Type))
	}

	return "interface{ " + strings.Join(parts, "; ") + " }"
}

func (p *Printer) signature(fn *dst.FuncType) string {
	var buf strings.Builder

	buf.WriteString("(")
	buf.WriteString(strings.Join(p.FieldTypes(fn.Params), ", "))
	buf.WriteString(")")

	results := p.FieldTypes(fn.Results)

	switch len(results) {
	case 0:
	case 1:
		buf.WriteString(" " + results[0])
	default:
		buf.WriteString(" (" + strings.Join(results, ", ") + ")")
	}

	return buf.String()
}

func (p *Printer) structType(st *dst.StructType) string {
	if st.Fields == nil || len(st.Fields.List) == 0 {
		return "struct{}"
	}

	parts := make([]string, 0, len(st.Fields.List))

	for _, f := range st.Fields.List {
		typeStr := p.Expr(f.Type)
		if len(f.Names) == 0 {
			parts = append(parts, typeStr)

			continue
		}

		names := make([]string, len(f.Names))
		for i, n := range f.Names {
			names[i] = n.Name
		}

		parts = append(parts, strings.Join(names, ", ")+" "+typeStr)
	}

	return "struct{ " + strings.Join(parts, "; ") + " }"
}

//nolint:gochecknoglobals // read-only lookup table
var predeclared = map[string]bool{
	"any": true, "bool": true, "byte": true, "comparable": true, "complex64": true, "complex128": true,
	"error": true, "float32": true, "float64": true, "int": true, "int8": true, "int16": true, "int32": true,
	"int64": true, "rune": true, "string": true, "uint": true, "uint8": true, "uint16": true, "uint32": true,
	"uint64": true, "uintptr": true,
}
