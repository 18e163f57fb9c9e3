package generate

import (
	"bytes"
	"fmt"
	"text/template"
)

// TemplateRegistry holds the parsed templates of an adapter file.
type TemplateRegistry struct {
	headerTmpl      *template.Template
	constructorTmpl *template.Template
	structTmpl      *template.Template
	methodTmpl      *template.Template
}

// NewTemplateRegistry parses every template. The templates are constants, so parsing cannot fail at runtime.
func NewTemplateRegistry() *TemplateRegistry {
	return &TemplateRegistry{
		headerTmpl:      template.Must(template.New("header").Parse(headerTemplate)),
		constructorTmpl: template.Must(template.New("constructor").Parse(constructorTemplate)),
		structTmpl:      template.Must(template.New("struct").Parse(structTemplate)),
		methodTmpl:      template.Must(template.New("method").Parse(methodTemplate)),
	}
}

// WriteConstructor writes the New<Name> function.
func (r *TemplateRegistry) WriteConstructor(buf *bytes.Buffer, data fileData) {
	execute(r.constructorTmpl, buf, data)
}

// WriteHeader writes the generated-code marker, package clause, and imports.
func (r *TemplateRegistry) WriteHeader(buf *bytes.Buffer, data fileData) {
	execute(r.headerTmpl, buf, data)
}

// WriteMethod writes one forwarding method.
func (r *TemplateRegistry) WriteMethod(buf *bytes.Buffer, data methodData) {
	execute(r.methodTmpl, buf, data)
}

// WriteStruct writes the adapter struct.
func (r *TemplateRegistry) WriteStruct(buf *bytes.Buffer, data fileData) {
	execute(r.structTmpl, buf, data)
}

func execute(tmpl *template.Template, buf *bytes.Buffer, data any) {
	err := tmpl.Execute(buf, data)
	if err != nil {
		panic(fmt.Sprintf("failed to execute %s template: %v", tmpl.Name(), err))
	}
}

const headerTemplate = `// Code generated by impostergen. DO NOT EDIT.

package {{.PkgName}}

import (
{{- range .Imports}}
	{{if .Alias}}{{.Alias}} {{end}}"{{.Path}}"
{{- end}}
)

`

const constructorTemplate = `// New{{.Name}} returns a handle whose substitute implements {{.Interface}}. Every method is unmocked until a stub
// is added to its slot.
func New{{.Name}}(opts ...{{.Qual}}.Option) (*{{.Qual}}.Handle[{{.Interface}}], error) {
	return {{.Qual}}.New(func(d {{.Qual}}.Dispatcher) {{.Interface}} {
		return &{{.Adapter}}{
			d:     d,
			slots: {{.Qual}}.Slots(d{{range .Methods}}, "{{.Name}}"{{end}}),
		}
	}, opts...)
}

`

const structTemplate = `// {{.Adapter}} forwards every method of {{.Interface}} to its dispatcher.
type {{.Adapter}} struct {
	d     {{.Qual}}.Dispatcher
	slots []int
}

`

const methodTemplate = `func ({{.Recv}} *{{.Adapter}}) {{.Name}}({{.ParamList}}){{.ResultList}} {
{{- if eq (len .Results) 0}}
	{{.Recv}}.d.Dispatch({{.Recv}}.slots[{{.Index}}]{{.ArgList}})
{{- else if eq (len .Results) 1}}
	return {{.Qual}}.Result[{{index .Results 0}}]({{.Recv}}.d.Dispatch({{.Recv}}.slots[{{.Index}}]{{.ArgList}}), 0)
{{- else}}
	{{.Out}} := {{.Recv}}.d.Dispatch({{.Recv}}.slots[{{.Index}}]{{.ArgList}})

	return {{range $i, $r := .Results}}{{if $i}}, {{end}}{{$.Qual}}.Result[{{$r}}]({{$.Out}}, {{$i}}){{end}}
{{- end}}
}

`
