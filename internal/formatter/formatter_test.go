package formatter

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/piprate/json-gold/ld"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcncl/json2rdf/internal/errors"
	"github.com/mcncl/json2rdf/internal/graph"
)

const testNS = "http://example.com/ns"

// sampleGraph holds a root with a string, a nested object and an integer.
func sampleGraph() *graph.Graph {
	g := graph.New()
	root := ld.NewBlankNode("_:b0")
	child := ld.NewBlankNode("_:b1")
	g.Add(graph.NewTriple(root, testNS+"/name", ld.NewLiteral("x", ld.XSDString, "")))
	g.Add(graph.NewTriple(root, testNS+"/child", child))
	g.Add(graph.NewTriple(child, testNS+"/n", ld.NewLiteral("1", ld.XSDInteger, "")))
	return g
}

func TestFormat_NTriples(t *testing.T) {
	formatter := NewFormatter(testNS)
	out, err := formatter.Format(sampleGraph(), FormatNTriples)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	assert.Len(t, lines, 3)
	assert.Contains(t, lines, `_:b0 <http://example.com/ns/name> "x" .`)
	assert.Contains(t, lines, `_:b0 <http://example.com/ns/child> _:b1 .`)
	assert.Contains(t, lines, `_:b1 <http://example.com/ns/n> "1"^^<http://www.w3.org/2001/XMLSchema#integer> .`)
}

func TestFormat_NTriplesEscaping(t *testing.T) {
	g := graph.New()
	g.Add(graph.NewTriple(ld.NewBlankNode("_:b0"), testNS+"/quote", ld.NewLiteral("say \"hi\"\nbye", ld.XSDString, "")))

	out, err := NewFormatter(testNS).Format(g, FormatNTriples)
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(out, "\n"), "escaped newlines keep one statement per line")
	assert.Contains(t, out, `"say \"hi\"\nbye"`)
}

func TestFormat_Turtle(t *testing.T) {
	formatter := NewFormatter(testNS)
	out, err := formatter.Format(sampleGraph(), FormatTurtle)
	require.NoError(t, err)

	expectedOutput := `@prefix ns: <http://example.com/ns/> .
@prefix xsd: <http://www.w3.org/2001/XMLSchema#> .

_:b0
    ns:name "x" ;
    ns:child _:b1 .

_:b1
    ns:n "1"^^xsd:integer .
`
	assert.Equal(t, expectedOutput, out)
}

func TestFormat_TurtleFullIRIs(t *testing.T) {
	g := graph.New()
	root := ld.NewBlankNode("_:b0")
	g.Add(graph.NewTriple(root, testNS+"/1st", ld.NewLiteral("a", ld.XSDString, "")))
	g.Add(graph.NewTriple(root, "http://other.example.com/p", ld.NewLiteral("b", ld.XSDString, "")))
	g.Add(graph.NewTriple(root, testNS+"/ok", ld.NewLiteral("c", "http://example.com/custom", "")))

	out, err := NewFormatter(testNS).Format(g, FormatTurtle)
	require.NoError(t, err)

	assert.Contains(t, out, `<http://example.com/ns/1st> "a"`)
	assert.Contains(t, out, `<http://other.example.com/p> "b"`)
	assert.Contains(t, out, `ns:ok "c"^^<http://example.com/custom>`)
}

func TestFormat_TurtleWithoutNamespace(t *testing.T) {
	out, err := NewFormatter("").Format(sampleGraph(), FormatTurtle)
	require.NoError(t, err)

	assert.NotContains(t, out, "@prefix ns:")
	assert.Contains(t, out, `<http://example.com/ns/name> "x"`)
}

func TestFormat_JSONLD(t *testing.T) {
	out, err := NewFormatter(testNS).Format(sampleGraph(), FormatJSONLD)
	require.NoError(t, err)

	assert.True(t, strings.HasSuffix(out, "\n"))
	assert.Contains(t, out, `"@id": "_:b0"`)
	assert.Contains(t, out, `"http://example.com/ns/name"`)
	assert.Contains(t, out, `"@id": "_:b1"`)
	assert.Contains(t, out, `"http://www.w3.org/2001/XMLSchema#integer"`)
}

func TestFormat_EmptyGraph(t *testing.T) {
	formatter := NewFormatter(testNS)

	out, err := formatter.Format(graph.New(), FormatNTriples)
	require.NoError(t, err)
	assert.Empty(t, out)

	out, err = formatter.Format(graph.New(), FormatTurtle)
	require.NoError(t, err)
	assert.NotContains(t, out, "_:")
}

func TestFormat_DoesNotModifyGraph(t *testing.T) {
	g := sampleGraph()
	formatter := NewFormatter(testNS)

	for _, format := range []Format{FormatNTriples, FormatTurtle, FormatJSONLD} {
		_, err := formatter.Format(g, format)
		require.NoError(t, err)
	}
	assert.Equal(t, 3, g.Len())
}

func TestFormat_Unsupported(t *testing.T) {
	_, err := NewFormatter(testNS).Format(sampleGraph(), Format("rdfxml"))
	assert.ErrorIs(t, err, errors.ErrUnsupportedFormat)
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input   string
		want    Format
		wantErr bool
	}{
		{input: "ntriples", want: FormatNTriples},
		{input: "N-Triples", want: FormatNTriples},
		{input: "nt", want: FormatNTriples},
		{input: "turtle", want: FormatTurtle},
		{input: "ttl", want: FormatTurtle},
		{input: "jsonld", want: FormatJSONLD},
		{input: " json-ld ", want: FormatJSONLD},
		{input: "rdfxml", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseFormat(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, errors.ErrUnsupportedFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path string
		want Format
		ok   bool
	}{
		{path: "out.nt", want: FormatNTriples, ok: true},
		{path: "dir/OUT.TTL", want: FormatTurtle, ok: true},
		{path: "graph.jsonld", want: FormatJSONLD, ok: true},
		{path: "graph.json", ok: false},
		{path: "noext", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, ok := FormatFromPath(tt.path)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatRegistry(t *testing.T) {
	for name, info := range FormatRegistry {
		assert.Equal(t, name, info.Name)
		assert.NotEmpty(t, info.MIMEType)
		assert.True(t, strings.HasPrefix(info.Extension, "."))
	}
}

func TestWriteFile_Appends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.nt")

	require.NoError(t, WriteFile(path, "first\n"))
	require.NoError(t, WriteFile(path, "second\n"))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "first\nsecond\n", string(content))
}

func TestWriteFile_Error(t *testing.T) {
	err := WriteFile("/non/existent/dir/out.nt", "x")
	require.Error(t, err)

	var appErr *errors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, errors.ErrorTypeOutput, appErr.Type)
}
