package region

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const generated = `import { Order } from "./Order"
// <non-auto-generated-import-declarations>

import { Money } from "../lib/money"

// </non-auto-generated-import-declarations>

export class Customer {
    public id: number
    // <non-auto-generated-class-declarations>
    foo();
      indented();
    // </non-auto-generated-class-declarations>
}
`

func TestParse(t *testing.T) {
	r := Parse(generated)
	assert.Equal(t, `import { Money } from "../lib/money"`, r.Imports)
	assert.Equal(t, "    foo();\n      indented();", r.Declarations)
	assert.Empty(t, r.Malformed)
}

func TestParse_CRLF(t *testing.T) {
	text := "// <non-auto-generated-class-declarations>\r\nfoo();\r\n\r\n// </non-auto-generated-class-declarations>\r\n"
	r := Parse(text)
	assert.Equal(t, "foo();", r.Declarations)
	assert.Empty(t, r.Imports)
	assert.Empty(t, r.Malformed)
}

func TestParse_Malformed(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "start without end",
			text: "// <non-auto-generated-class-declarations>\nfoo();\n",
			want: []string{DeclarationsTag},
		},
		{
			name: "end without start",
			text: "foo();\n// </non-auto-generated-import-declarations>\n",
			want: []string{ImportsTag},
		},
		{
			name: "inverted",
			text: "// </non-auto-generated-class-declarations>\nfoo();\n// <non-auto-generated-class-declarations>\n",
			want: []string{DeclarationsTag},
		},
		{
			name: "both broken",
			text: "// <non-auto-generated-import-declarations>\n// <non-auto-generated-class-declarations>\n",
			want: []string{ImportsTag, DeclarationsTag},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Parse(tt.text)
			assert.Empty(t, r.Imports)
			assert.Empty(t, r.Declarations)
			assert.Equal(t, tt.want, r.Malformed)
		})
	}
}

func TestParse_NoMarkers(t *testing.T) {
	r := Parse("export class Handwritten {}\n")
	assert.Equal(t, Regions{}, r)
}

func TestExtract(t *testing.T) {
	dir := t.TempDir()

	r, err := Extract(filepath.Join(dir, "Missing.ts"))
	require.NoError(t, err)
	assert.Equal(t, Regions{}, r)

	path := filepath.Join(dir, "Customer.ts")
	require.NoError(t, os.WriteFile(path, []byte(StartMarker(DeclarationsTag)+"\nfoo();\n"+EndMarker(DeclarationsTag)+"\n"), 0o644))
	r, err = Extract(path)
	require.NoError(t, err)
	assert.Equal(t, "foo();", r.Declarations)

	_, err = Extract(dir)
	require.Error(t, err, "a directory cannot be read as a file")
}
