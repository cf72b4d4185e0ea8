package graph

import (
	"bytes"
	"strings"
	"testing"

	"github.com/piprate/json-gold/ld"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const ns = "http://example.com/ns/"

func TestGraph_AddDeduplicates(t *testing.T) {
	g := New()
	s := ld.NewBlankNode("_:b0")

	first := NewTriple(s, ns+"a", ld.NewLiteral("1", ld.XSDInteger, ""))
	same := NewTriple(ld.NewBlankNode("_:b0"), ns+"a", ld.NewLiteral("1", ld.XSDInteger, ""))
	otherType := NewTriple(s, ns+"a", ld.NewLiteral("1", ld.XSDString, ""))

	assert.True(t, g.Add(first))
	assert.False(t, g.Add(same), "structurally equal triple must not be added twice")
	assert.True(t, g.Add(otherType), "datatype is part of the literal identity")

	assert.Equal(t, 2, g.Len())
	assert.True(t, g.Contains(same))
	assert.Len(t, g.Dataset().Graphs["@default"], 2)
}

func TestGraph_PreservesInsertionOrder(t *testing.T) {
	g := New()
	s := ld.NewBlankNode("_:b0")
	for _, key := range []string{"z", "a", "m"} {
		g.Add(NewTriple(s, ns+key, ld.NewLiteral(key, ld.XSDString, "")))
	}

	var preds []string
	for _, tr := range g.Triples() {
		preds = append(preds, tr.Predicate.Value)
	}
	assert.Equal(t, []string{ns + "z", ns + "a", ns + "m"}, preds)
}

func TestGraph_Subjects(t *testing.T) {
	g := New()
	root := ld.NewBlankNode("_:b0")
	child := ld.NewBlankNode("_:b1")
	g.Add(NewTriple(root, ns+"a", child))
	g.Add(NewTriple(child, ns+"b", ld.NewLiteral("1", ld.XSDInteger, "")))
	g.Add(NewTriple(root, ns+"c", ld.NewLiteral("x", ld.XSDString, "")))

	subjects := g.Subjects()
	require.Len(t, subjects, 2)
	assert.Equal(t, "_:b0", subjects[0].GetValue())
	assert.Equal(t, "_:b1", subjects[1].GetValue())
}

func TestTriple_String(t *testing.T) {
	tr := NewTriple(ld.NewBlankNode("_:b3"), ns+"name", ld.NewLiteral("Concorde", ld.XSDString, ""))
	assert.Equal(t, `_:b3 <http://example.com/ns/name> "Concorde"^^<http://www.w3.org/2001/XMLSchema#string> .`, tr.String())
}

func TestGraph_DatasetSerializes(t *testing.T) {
	g := New()
	m := &CounterMinter{}
	root, child := m.Mint(), m.Mint()
	g.Add(NewTriple(root, ns+"child", child))
	g.Add(NewTriple(child, ns+"n", ld.NewLiteral("7", ld.XSDInteger, "")))

	var buf bytes.Buffer
	serializer := ld.NQuadRDFSerializer{}
	require.NotPanics(t, func() {
		require.NoError(t, serializer.SerializeTo(&buf, g.Dataset()))
	})

	out := buf.String()
	assert.Contains(t, out, "_:b0 <http://example.com/ns/child> _:b1 .\n")
	assert.Contains(t, out, `_:b1 <http://example.com/ns/n> "7"^^<http://www.w3.org/2001/XMLSchema#integer> .`)
}

func TestCounterMinter(t *testing.T) {
	m, err := NewMinter(StrategyCounter)
	require.NoError(t, err)

	assert.Equal(t, "_:b0", m.Mint().Attribute)
	assert.Equal(t, "_:b1", m.Mint().Attribute)
	assert.Equal(t, "_:b2", m.Mint().Attribute)

	fresh, err := NewMinter("")
	require.NoError(t, err)
	assert.Equal(t, "_:b0", fresh.Mint().Attribute, "each minter starts its own sequence")
}

func TestUUIDMinter(t *testing.T) {
	m, err := NewMinter(StrategyUUID)
	require.NoError(t, err)

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		label := m.Mint().Attribute
		require.True(t, strings.HasPrefix(label, "_:b"))
		assert.NotContains(t, label, "-")
		assert.False(t, seen[label], "label %s reused", label)
		seen[label] = true
	}
}

func TestNewMinter_Unknown(t *testing.T) {
	_, err := NewMinter("sequential")
	assert.Error(t, err)
}
