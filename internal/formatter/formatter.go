package formatter

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/piprate/json-gold/ld"

	"github.com/mcncl/json2rdf/internal/errors"
	"github.com/mcncl/json2rdf/internal/graph"
)

// Format specifies the output serialization format.
type Format string

const (
	// FormatNTriples produces N-Triples (.nt) output.
	FormatNTriples Format = "ntriples"

	// FormatTurtle produces Turtle (.ttl) output.
	FormatTurtle Format = "turtle"

	// FormatJSONLD produces JSON-LD (.jsonld) output.
	FormatJSONLD Format = "jsonld"
)

// FormatInfo provides metadata about an output format.
type FormatInfo struct {
	Name        Format
	MIMEType    string
	Extension   string
	Description string
}

// FormatRegistry contains metadata for all supported formats.
var FormatRegistry = map[Format]FormatInfo{
	FormatNTriples: {
		Name:        FormatNTriples,
		MIMEType:    "application/n-triples",
		Extension:   ".nt",
		Description: "N-Triples - Line-based RDF format",
	},
	FormatTurtle: {
		Name:        FormatTurtle,
		MIMEType:    "text/turtle",
		Extension:   ".ttl",
		Description: "Turtle - Terse RDF Triple Language",
	},
	FormatJSONLD: {
		Name:        FormatJSONLD,
		MIMEType:    "application/ld+json",
		Extension:   ".jsonld",
		Description: "JSON-LD - JSON for Linked Data",
	},
}

// ParseFormat resolves a format name. Common aliases are accepted.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "ntriples", "n-triples", "nt":
		return FormatNTriples, nil
	case "turtle", "ttl":
		return FormatTurtle, nil
	case "jsonld", "json-ld":
		return FormatJSONLD, nil
	}
	return "", fmt.Errorf("%w: %q", errors.ErrUnsupportedFormat, name)
}

// FormatFromPath infers the format from a file extension.
func FormatFromPath(path string) (Format, bool) {
	ext := strings.ToLower(filepath.Ext(path))
	for name, info := range FormatRegistry {
		if info.Extension == ext {
			return name, true
		}
	}
	return "", false
}

const xsdNamespace = "http://www.w3.org/2001/XMLSchema#"

// localNameRegex matches local names that can be written as prefixed names.
var localNameRegex = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_-]*$`)

// Formatter renders a graph as text. Rendering never modifies the graph.
type Formatter struct {
	namespace string
}

// NewFormatter creates a Formatter. namespace is abbreviated to the "ns"
// prefix in Turtle output; it may be empty.
func NewFormatter(namespace string) *Formatter {
	return &Formatter{namespace: namespace}
}

// Format renders g in the requested format.
func (f *Formatter) Format(g *graph.Graph, format Format) (string, error) {
	switch format {
	case FormatNTriples:
		return f.ntriples(g)
	case FormatTurtle:
		return f.turtle(g), nil
	case FormatJSONLD:
		return f.jsonld(g)
	default:
		return "", fmt.Errorf("%w: %q", errors.ErrUnsupportedFormat, format)
	}
}

// ntriples writes one statement per line.
func (f *Formatter) ntriples(g *graph.Graph) (string, error) {
	var buf bytes.Buffer
	serializer := ld.NQuadRDFSerializer{}
	if err := serializer.SerializeTo(&buf, g.Dataset()); err != nil {
		return "", fmt.Errorf("failed to serialize N-Triples: %w", err)
	}
	return buf.String(), nil
}

// jsonld converts the graph through json-gold's RDF to JSON-LD algorithm.
func (f *Formatter) jsonld(g *graph.Graph) (string, error) {
	nquads, err := f.ntriples(g)
	if err != nil {
		return "", err
	}

	proc := ld.NewJsonLdProcessor()
	options := ld.NewJsonLdOptions("")
	options.Format = "application/n-quads"

	doc, err := proc.FromRDF(nquads, options)
	if err != nil {
		return "", fmt.Errorf("failed to convert to JSON-LD: %w", err)
	}

	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal JSON-LD: %w", err)
	}
	return string(out) + "\n", nil
}

// turtle groups statements by subject in first-seen order.
func (f *Formatter) turtle(g *graph.Graph) string {
	var sb strings.Builder

	prefixes := map[string]string{"xsd": xsdNamespace}
	nsPrefix := ""
	if f.namespace != "" {
		nsPrefix = f.namespace
		if !strings.HasSuffix(nsPrefix, "/") && !strings.HasSuffix(nsPrefix, "#") {
			nsPrefix += "/"
		}
		prefixes["ns"] = nsPrefix
	}

	names := make([]string, 0, len(prefixes))
	for name := range prefixes {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		sb.WriteString(fmt.Sprintf("@prefix %s: <%s> .\n", name, prefixes[name]))
	}

	bySubject := make(map[string][]graph.Triple)
	for _, t := range g.Triples() {
		k := t.Subject.GetValue()
		bySubject[k] = append(bySubject[k], t)
	}

	for _, subject := range g.Subjects() {
		triples := bySubject[subject.GetValue()]
		sb.WriteString("\n")
		sb.WriteString(f.turtleTerm(subject, nsPrefix))
		sb.WriteString("\n")
		for i, t := range triples {
			sb.WriteString(fmt.Sprintf("    %s %s", f.turtleTerm(t.Predicate, nsPrefix), f.turtleTerm(t.Object, nsPrefix)))
			if i < len(triples)-1 {
				sb.WriteString(" ;\n")
			} else {
				sb.WriteString(" .\n")
			}
		}
	}

	return sb.String()
}

func (f *Formatter) turtleTerm(n ld.Node, nsPrefix string) string {
	switch v := n.(type) {
	case ld.BlankNode:
		return v.Attribute
	case ld.IRI:
		if nsPrefix != "" && strings.HasPrefix(v.Value, nsPrefix) {
			if local := strings.TrimPrefix(v.Value, nsPrefix); localNameRegex.MatchString(local) {
				return "ns:" + local
			}
		}
		return "<" + v.Value + ">"
	case ld.Literal:
		quoted := `"` + escapeString(v.Value) + `"`
		switch {
		case v.Language != "":
			return quoted + "@" + v.Language
		case v.Datatype == "" || v.Datatype == ld.XSDString:
			return quoted
		case strings.HasPrefix(v.Datatype, xsdNamespace):
			return quoted + "^^xsd:" + strings.TrimPrefix(v.Datatype, xsdNamespace)
		default:
			return quoted + "^^<" + v.Datatype + ">"
		}
	default:
		return n.GetValue()
	}
}

// escapeString escapes a literal body for Turtle and N-Triples.
func escapeString(s string) string {
	var sb strings.Builder
	for _, r := range s {
		switch r {
		case '\\':
			sb.WriteString(`\\`)
		case '"':
			sb.WriteString(`\"`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		default:
			if r < 0x20 || r == 0x7f {
				sb.WriteString(fmt.Sprintf(`\u%04X`, r))
			} else {
				sb.WriteRune(r)
			}
		}
	}
	return sb.String()
}

// WriteFile appends text to path, creating the file if needed. The whole
// text is written with a single call.
func WriteFile(path, text string) error {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return errors.NewOutputError(fmt.Sprintf("failed to open output file '%s'", path), err)
	}

	if _, err := file.Write([]byte(text)); err != nil {
		_ = file.Close()
		return errors.NewOutputError(fmt.Sprintf("failed to write to file '%s'", path), err)
	}
	if err := file.Close(); err != nil {
		return errors.NewOutputError(fmt.Sprintf("failed to close file '%s'", path), err)
	}
	return nil
}
