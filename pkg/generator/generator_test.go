package generator

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmmoran/eloquentts/internal/merge"
	"github.com/cmmoran/eloquentts/internal/model"
	"github.com/cmmoran/eloquentts/internal/schema"
)

var sources = map[string]string{
	"Customer.php": `<?php
namespace App\Models;

use Illuminate\Database\Eloquent\Model;

class Customer extends Model
{
    protected $table = 'customers';

    /** @var int */
    public $name;

    public function orders()
    {
        return $this->hasMany(Order::class);
    }
}
`,
	"Place.php": `<?php
class Place extends Model
{
    protected $table = 'places';
}
`,
	"OrderState.php": `<?php
class OrderState extends Enum
{
    const Draft = 0;
    const Paid = 1;
}
`,
	"Status.php": `<?php
enum Status: string
{
    case Active = 'active';
}
`,
	"helpers.php": "<?php\nfunction helper() { return 1; }\n",
	"notes.txt":   "class NotPhp {}\n",
}

var tables = schema.Tables{
	{Name: "customers", Columns: []schema.Column{{Name: "id", DBType: "bigint"}, {Name: "name", DBType: "varchar(255)"}}},
	{Name: "places", Columns: []schema.Column{{Name: "id", DBType: "int"}, {Name: "area", DBType: "geometry"}}},
}

const wantCustomer = `import { uuid } from "uuidv4";
import { Order } from "./Order";
// <non-auto-generated-import-declarations>
// </non-auto-generated-import-declarations>

export class Customer {
    protected table: string = "customers";
    public name: string;
    public uuid: string = uuid();
    public id: number;
    public orders: Order[];

    // <non-auto-generated-class-declarations>
    // </non-auto-generated-class-declarations>
}
`

const wantOrderState = `// <non-auto-generated-import-declarations>
// </non-auto-generated-import-declarations>

export enum OrderState {
    Draft = 0,
    Paid = 1,

    // <non-auto-generated-class-declarations>
    // </non-auto-generated-class-declarations>
}
`

func writeSources(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o755))
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
}

type fixture struct {
	src, classes, enums string
}

func newFixture(t *testing.T) fixture {
	root := t.TempDir()
	f := fixture{
		src:     filepath.Join(root, "app", "Models"),
		classes: filepath.Join(root, "out", "classes"),
		enums:   filepath.Join(root, "out", "enums"),
	}
	writeSources(t, f.src, sources)
	return f
}

func (f fixture) generator(t *testing.T, provider schema.Provider, opts ...Option) *Generator {
	t.Helper()
	opts = append([]Option{WithSources(f.src), WithClassesDir(f.classes), WithEnumsDir(f.enums)}, opts...)
	g, err := New(provider, opts...)
	require.NoError(t, err)
	return g
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(b)
}

func TestGenerate_Batch(t *testing.T) {
	f := newFixture(t)
	report, err := f.generator(t, tables).Generate(context.Background())
	require.NoError(t, err)

	var got []string
	for _, r := range report.Results {
		got = append(got, filepath.Base(r.Source)+":"+r.Status.String())
	}
	assert.Equal(t, []string{
		"Customer.php:generated",
		"OrderState.php:generated",
		"Place.php:failed",
		"Status.php:generated",
		"helpers.php:skipped",
	}, got)

	// the unsupported column fails only its own file
	failed := report.Failed()
	require.Len(t, failed, 1)
	assert.ErrorIs(t, failed[0].Err, merge.ErrUnsupportedColumnType)
	assert.ErrorIs(t, report.Err(), merge.ErrUnsupportedColumnType)
	assert.NoFileExists(t, filepath.Join(f.classes, "Place.ts"))

	if diff := cmp.Diff(wantCustomer, readFile(t, filepath.Join(f.classes, "Customer.ts"))); diff != "" {
		t.Errorf("Customer.ts mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(wantOrderState, readFile(t, filepath.Join(f.enums, "OrderState.ts"))); diff != "" {
		t.Errorf("OrderState.ts mismatch (-want +got):\n%s", diff)
	}
	assert.Contains(t, readFile(t, filepath.Join(f.enums, "Status.ts")), "export enum Status {\n    Active = \"active\",\n")

	customer := report.Generated()[0]
	assert.Equal(t, merge.OutcomeMerged, customer.Outcome)
	assert.Equal(t, model.KindClass, customer.Kind)
	assert.Equal(t, model.KindEnum, report.Generated()[1].Kind)
}

func TestGenerate_Idempotent(t *testing.T) {
	f := newFixture(t)
	_, err := f.generator(t, tables).Generate(context.Background())
	require.NoError(t, err)
	out := filepath.Join(f.classes, "Customer.ts")
	first := readFile(t, out)

	_, err = f.generator(t, tables).Generate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first, readFile(t, out))
}

func TestGenerate_PreservesUserRegions(t *testing.T) {
	f := newFixture(t)
	out := filepath.Join(f.classes, "Customer.ts")
	writeSources(t, f.classes, map[string]string{"Customer.ts": "// <non-auto-generated-import-declarations>\n" +
		"import { Order } from \"../legacy/Order\"\n" +
		"// </non-auto-generated-import-declarations>\n" +
		"// <non-auto-generated-class-declarations>\n" +
		"foo();\n" +
		"// </non-auto-generated-class-declarations>\n"})

	_, err := f.generator(t, tables).Generate(context.Background())
	require.NoError(t, err)
	got := readFile(t, out)
	assert.Contains(t, got, "\nfoo();\n")
	assert.Contains(t, got, "import { Order } from \"../legacy/Order\"\n")
	assert.NotContains(t, got, "from \"./Order\"", "generated import dropped in favour of the preserved one")

	_, err = f.generator(t, tables).Generate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, got, readFile(t, out))
}

func TestGenerate_Options(t *testing.T) {
	f := newFixture(t)
	g := f.generator(t, tables,
		WithoutUUID(),
		WithExcludeClasses("place"),
		WithTypeOverride("bigint", "bigint"),
	)
	report, err := g.Generate(context.Background())
	require.NoError(t, err)
	assert.Empty(t, report.Failed())

	got := readFile(t, filepath.Join(f.classes, "Customer.ts"))
	assert.NotContains(t, got, "uuid")
	assert.Contains(t, got, "    public id: bigint;\n")
}

func TestGenerate_DryRun(t *testing.T) {
	f := newFixture(t)
	mem := &MemoryWriter{}
	_, err := f.generator(t, tables).UseWriter(mem).Generate(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{
		filepath.Join(f.classes, "Customer.ts"),
		filepath.Join(f.enums, "OrderState.ts"),
		filepath.Join(f.enums, "Status.ts"),
	}, mem.Paths())
	assert.Equal(t, wantCustomer, string(mem.Files[filepath.Join(f.classes, "Customer.ts")]))
	assert.NoDirExists(t, f.classes)
}

type failingWriter struct{}

func (failingWriter) WriteFile(string, []byte) error { return errors.New("disk full") }

func TestGenerate_WriteErrorStopsRun(t *testing.T) {
	f := newFixture(t)
	report, err := f.generator(t, tables).UseWriter(failingWriter{}).Generate(context.Background())
	require.ErrorIs(t, err, ErrWrite)
	require.ErrorContains(t, err, "disk full")

	var werr *WriteError
	require.ErrorAs(t, err, &werr)
	assert.Equal(t, filepath.Join(f.classes, "Customer.ts"), werr.Path)
	assert.Len(t, report.Results, 1, "nothing after the failed write is processed")
}

type brokenProvider struct{}

func (brokenProvider) ListTables(context.Context) (schema.Tables, error) {
	return nil, errors.New("connection refused")
}

func TestGenerate_SchemaFailure(t *testing.T) {
	f := newFixture(t)
	report, err := f.generator(t, brokenProvider{}).Generate(context.Background())
	require.ErrorIs(t, err, ErrSchema)
	assert.Empty(t, report.Results)
	assert.NoDirExists(t, f.classes)
}

func TestGenerate_UnreadableOutputIsNotOverwritten(t *testing.T) {
	f := newFixture(t)
	// a directory where the output file should be cannot be read
	require.NoError(t, os.MkdirAll(filepath.Join(f.classes, "Customer.ts"), 0o755))

	report, err := f.generator(t, tables).Generate(context.Background())
	require.NoError(t, err)
	require.Len(t, report.Failed(), 2)
	assert.Equal(t, "Customer", report.Failed()[0].Class)
	assert.DirExists(t, filepath.Join(f.classes, "Customer.ts"))
}

func TestGenerate_SourceOrder(t *testing.T) {
	f := newFixture(t)
	second := filepath.Join(filepath.Dir(f.src), "Extra")
	writeSources(t, second, map[string]string{"Address.php": "<?php\nclass Address {}\n"})

	g := f.generator(t, nil, WithSources(second, f.src, filepath.Join(f.src, "missing")))
	report, err := g.Generate(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "Address.php", filepath.Base(report.Results[0].Source))
	last := report.Results[len(report.Results)-1]
	assert.Equal(t, StatusFailed, last.Status)
	assert.ErrorIs(t, last.Err, os.ErrNotExist)

	// without a schema every class is generated, none is database backed
	for _, r := range report.Generated() {
		assert.NotEqual(t, merge.OutcomeMerged, r.Outcome, r.Class)
	}
}

func TestNew_SameExtension(t *testing.T) {
	_, err := New(nil, WithOutputExt("PHP"))
	require.Error(t, err)
}

func TestOptions_Normalize(t *testing.T) {
	o := &Options{
		Sources:    []string{"app/Models, app/Enums/"},
		ClassesDir: "out/",
		SourceExt:  "PHP",
	}
	o.Normalize()
	assert.Equal(t, []string{"app/Models", "app/Enums"}, o.Sources)
	assert.Equal(t, "out", o.ClassesDir)
	assert.Equal(t, "out", o.EnumsDir)
	assert.Equal(t, ".PHP", o.SourceExt)
	assert.Equal(t, ".ts", o.OutputExt)
	assert.Equal(t, []string{"Enum"}, o.EnumBases)
	assert.Equal(t, "4", o.Render.Indent)
	assert.Equal(t, "double", o.Render.Quote)
}
