package e2e_test

import (
	"bytes"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/require"

	"github.com/mcncl/json2rdf/internal/converter"
	"github.com/mcncl/json2rdf/internal/formatter"
	"github.com/mcncl/json2rdf/internal/parser"
)

// generateNestedJSON creates a deeply nested JSON structure for benchmarking
func generateNestedJSON(rng *rand.Rand, depth int, width int) map[string]interface{} {
	if depth <= 0 {
		return map[string]interface{}{
			"leaf_value": "data",
			"count":      rng.Intn(100),
			"enabled":    rng.Intn(2) == 1,
		}
	}

	result := make(map[string]interface{})
	for i := 0; i < width; i++ {
		key := fmt.Sprintf("nested_%d_%d", depth, i)
		result[key] = generateNestedJSON(rng, depth-1, width)
	}
	return result
}

// generateWideJSON creates a JSON object with many fields at the same level
func generateWideJSON(fieldCount int) map[string]interface{} {
	result := make(map[string]interface{})

	for i := 0; i < fieldCount; i++ {
		// Mix different types of fields
		switch i % 5 {
		case 0:
			result[fmt.Sprintf("string_field_%d", i)] = fmt.Sprintf("value_%d", i)
		case 1:
			result[fmt.Sprintf("int_field_%d", i)] = i
		case 2:
			result[fmt.Sprintf("bool_field_%d", i)] = i%2 == 0
		case 3:
			result[fmt.Sprintf("float_field_%d", i)] = float64(i) + 0.5
		case 4:
			result[fmt.Sprintf("object_field_%d", i)] = map[string]interface{}{
				"id":    i,
				"name":  fmt.Sprintf("Object %d", i),
				"value": i * 10,
			}
		}
	}

	return result
}

// writeJSON marshals each value as one document of a stream
func writeJSON(b *testing.B, path string, values ...interface{}) {
	var buf bytes.Buffer
	for _, v := range values {
		data, err := json.Marshal(v)
		require.NoError(b, err)
		buf.Write(data)
		buf.WriteByte('\n')
	}
	require.NoError(b, os.WriteFile(path, buf.Bytes(), 0o644))
}

// benchmarkConvert converts path and renders it as N-Triples b.N times
func benchmarkConvert(b *testing.B, path string) {
	settings := converter.Settings{Parser: parser.DefaultOptions()}
	f := formatter.NewFormatter("")

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		result, err := converter.ConvertFiles([]string{path}, settings)
		require.NoError(b, err)
		_, err = f.Format(result.Graph, formatter.FormatNTriples)
		require.NoError(b, err)
	}
}

// BenchmarkDeepNesting benchmarks performance with deeply nested JSON structures
func BenchmarkDeepNesting(b *testing.B) {
	tempDir := b.TempDir()
	rng := rand.New(rand.NewSource(42))

	depths := []struct {
		name  string
		depth int
		width int
	}{
		{"Depth3Width3", 3, 3},   // Moderate nesting
		{"Depth5Width2", 5, 2},   // Deep nesting
		{"Depth2Width10", 2, 10}, // Wide but shallow
	}

	for _, depth := range depths {
		b.Run(depth.name, func(b *testing.B) {
			jsonFile := filepath.Join(tempDir, depth.name+".json")
			writeJSON(b, jsonFile, generateNestedJSON(rng, depth.depth, depth.width))
			benchmarkConvert(b, jsonFile)
		})
	}
}

// BenchmarkWideStructures benchmarks performance with wide JSON structures (many fields)
func BenchmarkWideStructures(b *testing.B) {
	tempDir := b.TempDir()

	for _, fields := range []int{10, 100, 1000} {
		b.Run(fmt.Sprintf("Fields%d", fields), func(b *testing.B) {
			jsonFile := filepath.Join(tempDir, fmt.Sprintf("wide_%d.json", fields))
			writeJSON(b, jsonFile, generateWideJSON(fields))
			benchmarkConvert(b, jsonFile)
		})
	}
}

// BenchmarkDocumentStream benchmarks many small concatenated documents
func BenchmarkDocumentStream(b *testing.B) {
	tempDir := b.TempDir()

	for _, count := range []int{100, 1000, 10000} {
		b.Run(fmt.Sprintf("Documents%d", count), func(b *testing.B) {
			docs := make([]interface{}, count)
			for i := range docs {
				docs[i] = map[string]interface{}{
					"id":     i,
					"name":   fmt.Sprintf("item %d", i),
					"tags":   []string{"a", "b"},
					"nested": map[string]interface{}{"score": float64(i) + 0.25},
				}
			}

			jsonFile := filepath.Join(tempDir, fmt.Sprintf("stream_%d.jsonl", count))
			writeJSON(b, jsonFile, docs...)
			benchmarkConvert(b, jsonFile)
		})
	}
}
