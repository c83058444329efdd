package render

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmmoran/eloquentts/internal/model"
	"github.com/cmmoran/eloquentts/internal/parser"
	"github.com/cmmoran/eloquentts/internal/region"
)

func customer() *model.Class {
	c := model.NewClass("Customer")
	c.BaseTypeName = "Model"
	c.AddImport(&model.Import{Name: "uuid", Target: "uuidv4"})
	c.AddImport(&model.Import{Name: "Order", Target: "./Order"})
	c.SetMember(&model.Member{Name: "uuid", Type: model.TypeExpr{Name: "string"}, AccessModifiers: []string{"public"}, InitialValue: "uuid()"})
	c.SetMember(&model.Member{Name: "table", Type: model.TypeExpr{Name: "string"}, AccessModifiers: []string{"protected"}, InitialValue: "'customers'"})
	c.SetMember(&model.Member{Name: "id", Type: model.TypeExpr{Name: "number"}, AccessModifiers: []string{"public"}})
	c.SetMember(&model.Member{Name: "orders", Type: model.TypeExpr{Name: "Order", IsCollection: true}, AccessModifiers: []string{"public"}})
	c.SetMember(&model.Member{Name: "STATUS", Type: model.TypeExpr{Name: "string"}, AccessModifiers: []string{"public", "static", "readonly"}, InitialValue: `"it's"`, IsConst: true})
	return c
}

func TestRender_Class(t *testing.T) {
	want := `import { uuid } from "uuidv4";
import { Order } from "./Order";
// <non-auto-generated-import-declarations>
// </non-auto-generated-import-declarations>

export class Customer {
    public uuid: string = uuid();
    protected table: string = "customers";
    public id: number;
    public orders: Order[];
    public static readonly STATUS: string = "it's";

    // <non-auto-generated-class-declarations>
    // </non-auto-generated-class-declarations>
}
`
	got := Render(customer(), DefaultOptions())
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Render() mismatch (-want +got):\n%s", diff)
	}
}

func TestRender_Options(t *testing.T) {
	c := customer()
	c.PreservedImports = `import { Order } from "./models/Order"`
	c.PreservedDeclarations = "\tfoo();"

	want := "import { uuid } from 'uuidv4'\n" +
		"// <non-auto-generated-import-declarations>\n" +
		"import { Order } from \"./models/Order\"\n" +
		"// </non-auto-generated-import-declarations>\n" +
		"\n" +
		"export class Customer extends Model {\n" +
		"\tpublic uuid: string = uuid()\n" +
		"\tprotected table: string = 'customers'\n" +
		"\tpublic id: number\n" +
		"\tpublic orders: Order[]\n" +
		"\tpublic static readonly STATUS: string = 'it\\'s'\n" +
		"\n" +
		"\t// <non-auto-generated-class-declarations>\n" +
		"\tfoo();\n" +
		"\t// </non-auto-generated-class-declarations>\n" +
		"}\n"
	got := Render(c, Options{Indent: "tab", Quote: QuoteSingle, EmitBaseType: true})
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Render() mismatch (-want +got):\n%s", diff)
	}
}

func TestRender_Enum(t *testing.T) {
	c := model.NewClass("OrderState")
	c.Kind = model.KindEnum
	c.BaseTypeName = "Enum"
	c.SetMember(&model.Member{Name: "Draft", InitialValue: "0", IsConst: true})
	c.SetMember(&model.Member{Name: "Paid", InitialValue: "'paid'", IsConst: true})
	c.SetMember(&model.Member{Name: "Unset", IsConst: true})
	c.SetMember(&model.Member{Name: "cache", InitialValue: "[]"})
	c.Relations = []model.Relation{{Name: "orders", Kind: model.ToMany, TargetClassName: "Order"}}
	c.AddImport(&model.Import{Name: "Order", Target: "./Order"})

	want := `// <non-auto-generated-import-declarations>
// </non-auto-generated-import-declarations>

export enum OrderState {
  Draft = 0,
  Paid = "paid",
  Unset,

  // <non-auto-generated-class-declarations>
  // </non-auto-generated-class-declarations>
}
`
	got := Render(c, Options{Indent: "2", EmitBaseType: true})
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Render() mismatch (-want +got):\n%s", diff)
	}
}

// An enum-like class backed by a table keeps only its constants: no
// relation imports and no blank line for members that are not written.
func TestRender_EnumWithoutConstants(t *testing.T) {
	c := model.NewClass("Visibility")
	c.Kind = model.KindEnum
	c.SetMember(&model.Member{Name: "table", Type: model.TypeExpr{Name: "string"}, InitialValue: "'visibilities'"})
	c.SetMember(&model.Member{Name: "owner", Type: model.TypeExpr{Name: "User"}})
	c.AddImport(&model.Import{Name: "User", Target: "./User"})

	want := `// <non-auto-generated-import-declarations>
// </non-auto-generated-import-declarations>

export enum Visibility {
    // <non-auto-generated-class-declarations>
    // </non-auto-generated-class-declarations>
}
`
	got := Render(c, DefaultOptions())
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Render() mismatch (-want +got):\n%s", diff)
	}
}

func TestRender_PreservedRoundTrip(t *testing.T) {
	existing := "// <non-auto-generated-class-declarations>\nfoo();\n// </non-auto-generated-class-declarations>\n"
	c := customer()
	r := region.Parse(existing)
	c.PreservedImports, c.PreservedDeclarations = r.Imports, r.Declarations

	first := Render(c, DefaultOptions())
	assert.Contains(t, first, "// <non-auto-generated-class-declarations>\nfoo();\n    // </non-auto-generated-class-declarations>")

	// regenerating from our own output is byte-identical
	again := customer()
	r = region.Parse(first)
	again.PreservedImports, again.PreservedDeclarations = r.Imports, r.Declarations
	assert.Equal(t, first, Render(again, DefaultOptions()))
}

func TestRender_ParseRoundTrip(t *testing.T) {
	src := `<?php
class Invoice extends Model
{
    public int $number = 7;
    protected ?string $memo;
    public $lines = ['a' => 1, 'b' => [true, null]];
    const PREFIX = "INV-";
}`
	class, err := parser.Parse(src)
	require.NoError(t, err)

	out := Render(class, DefaultOptions())
	for _, line := range []string{
		"    public number: number = 7;",
		"    protected memo: string;",
		`    public lines: any = { a: 1, b: [true, null] };`,
		`    public static readonly PREFIX: string = "INV-";`,
	} {
		assert.Contains(t, out, line+"\n")
	}

	// every parsed member survives with its type
	for _, m := range class.Members.Values() {
		assert.Contains(t, out, " "+m.Name+": "+m.Type.String())
	}
}

func TestLiteral(t *testing.T) {
	q := quoter('"')
	tests := []struct {
		in   string
		want string
	}{
		{in: "", want: ""},
		{in: "TRUE", want: "true"},
		{in: "Null", want: "null"},
		{in: "42", want: "42"},
		{in: `'say "hi"'`, want: `"say \"hi\""`},
		{in: `"a\nb"`, want: `"a\nb"`},
		{in: "[]", want: "[]"},
		{in: "array(1, 2, 3,)", want: "[1, 2, 3]"},
		{in: "['x-y' => 'a', 'ok' => false]", want: `{ "x-y": "a", ok: false }`},
		{in: "[1 => 'a', 2 => 'b']", want: `{ 1: "a", 2: "b" }`},
		{in: "self::DEFAULT", want: "Thing.DEFAULT"},
		{in: "'a' . 'b'", want: "'a' . 'b'"},
		{in: "now()", want: "now()"},
		{in: "[1, 2] + [3]", want: "[1, 2] + [3]"},
		{in: "<<<EOT\nbody { color: red; }\nEOT", want: `"body { color: red; }"`},
		{in: "<<<'SQL'\n    select 1;\n    from t\n    SQL", want: `"select 1;\nfrom t"`},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, literal(tt.in, "Thing", q))
		})
	}
}

func TestImportedSymbols(t *testing.T) {
	got := importedSymbols(`import Default, { A, type B, C as D } from "./x"
import * as ns from './ns';
import type { T } from "./t"
import "./side-effect"`)
	assert.Equal(t, map[string]bool{"Default": true, "A": true, "B": true, "D": true, "ns": true, "T": true}, got)
}
