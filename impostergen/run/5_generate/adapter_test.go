package generate_test

import (
	"go/parser"
	"go/token"
	"testing"

	. "github.com/onsi/gomega"
	detect "github.com/toejough/imposter/impostergen/run/3_detect"
	generate "github.com/toejough/imposter/impostergen/run/5_generate"
	"pgregory.net/rapid"
)

func storeInterface() detect.Interface {
	return detect.Interface{
		Name: "Store",
		Methods: []detect.Method{
			{Name: "Close", Results: []string{"error"}},
			{
				Name:    "Get",
				Params:  []detect.Param{{Name: "ctx", Type: "context.Context"}, {Name: "key", Type: "string"}},
				Results: []string{"[]byte", "error"},
			},
			{
				Name: "Tags",
				Params: []detect.Param{
					{Type: "string"},
					{Name: "imp", Type: "int"},
					{Name: "tags", Type: "...string", Variadic: true},
				},
			},
		},
		Imports: []detect.Import{{Path: "context"}},
	}
}

func TestAdapter_RendersCompilableShape(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	code, err := generate.Adapter(generate.NewTemplateRegistry(), generate.Request{
		PkgName: "store_test",
		Name:    "Store",
		Iface:   storeInterface(),
	})
	g.Expect(err).NotTo(HaveOccurred())

	_, err = parser.ParseFile(token.NewFileSet(), "generated_Store_test.go", code, parser.AllErrors)
	g.Expect(err).NotTo(HaveOccurred())

	for _, want := range []string{
		"// Code generated by impostergen. DO NOT EDIT.",
		"package store_test",
		`"context"`,
		`"github.com/toejough/imposter"`,
		"func NewStore(opts ...imposter.Option) (*imposter.Handle[Store], error) {",
		`slots: imposter.Slots(d, "Close", "Get", "Tags"),`,
		"type storeImposter struct {",
		"func (imp *storeImposter) Close() error {",
		"return imposter.Result[error](imp.d.Dispatch(imp.slots[0]), 0)",
		"func (imp *storeImposter) Get(ctx context.Context, key string) ([]byte, error) {",
		"out := imp.d.Dispatch(imp.slots[1], ctx, key)",
		"return imposter.Result[[]byte](out, 0), imposter.Result[error](out, 1)",
		"func (imp *storeImposter) Tags(arg0 string, arg1 int, tags ...string) {",
		"imp.d.Dispatch(imp.slots[2], arg0, arg1, tags)",
	} {
		g.Expect(code).To(ContainSubstring(want))
	}
}

func TestAdapter_CustomName(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	code, err := generate.Adapter(generate.NewTemplateRegistry(), generate.Request{
		PkgName: "app",
		Name:    "FakeStore",
		Iface:   detect.Interface{Name: "store.Store", Imports: []detect.Import{{Path: "example.com/store"}}},
	})
	g.Expect(err).NotTo(HaveOccurred())

	g.Expect(code).To(ContainSubstring(
		"func NewFakeStore(opts ...imposter.Option) (*imposter.Handle[store.Store], error) {"))
	g.Expect(code).To(ContainSubstring("type fakeStoreImposter struct {"))
	g.Expect(code).To(ContainSubstring(`"example.com/store"`))
}

func TestAdapter_RejectsInvalidName(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	_, err := generate.Adapter(generate.NewTemplateRegistry(), generate.Request{
		PkgName: "app",
		Name:    "not-a-name",
		Iface:   storeInterface(),
	})
	g.Expect(err).To(MatchError(generate.ErrInvalidName))
}

func TestParamNames_Property(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(rt *rapid.T) {
		g := NewWithT(rt)
		reserved := map[string]bool{"imp": true, "out": true, "imposter": true}
		pool := []string{"", "_", "imp", "out", "imposter", "a", "b", "arg0", "arg1", "_arg0", "ctx"}
		raw := rapid.SliceOfN(rapid.SampledFrom(pool), 0, 8).Draw(rt, "names")

		params := make([]detect.Param, len(raw))
		for i, name := range raw {
			params[i] = detect.Param{Name: name, Type: "int"}
		}

		names := generate.ParamNames(params, reserved)
		g.Expect(names).To(HaveLen(len(params)))

		seen := map[string]bool{}

		for i, name := range names {
			g.Expect(token.IsIdentifier(name)).To(BeTrue(), "name %q is not an identifier", name)
			g.Expect(name).NotTo(Equal("_"))
			g.Expect(reserved[name]).To(BeFalse(), "name %q is reserved", name)
			g.Expect(seen[name]).To(BeFalse(), "name %q is used twice", name)

			seen[name] = true

			if raw[i] != "" && raw[i] != "_" && !reserved[raw[i]] && countOf(raw, raw[i]) == 1 {
				g.Expect(name).To(Equal(raw[i]), "usable declared names are kept")
			}
		}
	})
}

func countOf(values []string, value string) int {
	n := 0

	for _, v := range values {
		if v == value {
			n++
		}
	}

	return n
}

// A parameter named like an imported package would shadow it inside the method.
func TestAdapter_ParamsDoNotShadowImports(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	code, err := generate.Adapter(generate.NewTemplateRegistry(), generate.Request{
		PkgName: "conf",
		Name:    "Decoder",
		Iface: detect.Interface{
			Name: "Decoder",
			Methods: []detect.Method{{
				Name:    "Decode",
				Params:  []detect.Param{{Name: "yaml", Type: "*yaml.Node"}, {Name: "v", Type: "any"}},
				Results: []string{"error"},
			}},
			Imports: []detect.Import{{Path: "gopkg.in/yaml.v3"}},
		},
	})
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(code).To(ContainSubstring("func (imp *decoderImposter) Decode(arg0 *yaml.Node, v any) error {"))
}
