// Package graph accumulates RDF triples into a deduplicated set.
//
// Triples are stored in the default graph of a json-gold RDFDataset so the
// serializers in github.com/piprate/json-gold/ld can render them directly.
// Insertion order is preserved.
package graph

import (
	"fmt"

	"github.com/piprate/json-gold/ld"
)

const defaultGraph = "@default"

// Triple is a single RDF statement.
type Triple struct {
	Subject   ld.Node
	Predicate ld.IRI
	Object    ld.Node
}

// NewTriple builds a triple with predicate as an IRI.
func NewTriple(subject ld.Node, predicate string, object ld.Node) Triple {
	return Triple{Subject: subject, Predicate: ld.NewIRI(predicate), Object: object}
}

// String returns the triple as an N-Triples statement without the newline.
func (t Triple) String() string {
	return fmt.Sprintf("%s %s %s .", nodeKey(t.Subject), nodeKey(t.Predicate), nodeKey(t.Object))
}

func (t Triple) key() string {
	return nodeKey(t.Subject) + " " + nodeKey(t.Predicate) + " " + nodeKey(t.Object)
}

func nodeKey(n ld.Node) string {
	switch v := n.(type) {
	case ld.BlankNode:
		return v.Attribute
	case ld.IRI:
		return "<" + v.Value + ">"
	case ld.Literal:
		if v.Language != "" {
			return fmt.Sprintf("%q@%s", v.Value, v.Language)
		}
		return fmt.Sprintf("%q^^<%s>", v.Value, v.Datatype)
	default:
		return fmt.Sprintf("%v", n)
	}
}

// Graph is a set of triples. The zero value is not usable; call New.
type Graph struct {
	dataset *ld.RDFDataset
	triples []Triple
	index   map[string]struct{}
}

// New returns an empty graph.
func New() *Graph {
	return &Graph{
		dataset: ld.NewRDFDataset(),
		index:   make(map[string]struct{}),
	}
}

// Add inserts t and reports whether it was new. Adding a triple that is
// already present leaves the graph unchanged.
func (g *Graph) Add(t Triple) bool {
	k := t.key()
	if _, ok := g.index[k]; ok {
		return false
	}
	g.index[k] = struct{}{}
	g.triples = append(g.triples, t)
	g.dataset.Graphs[defaultGraph] = append(g.dataset.Graphs[defaultGraph],
		ld.NewQuad(t.Subject, t.Predicate, t.Object, ""))
	return true
}

// Contains reports whether t is in the graph.
func (g *Graph) Contains(t Triple) bool {
	_, ok := g.index[t.key()]
	return ok
}

// Len returns the number of distinct triples.
func (g *Graph) Len() int { return len(g.triples) }

// Triples returns the triples in insertion order. The slice must not be
// modified.
func (g *Graph) Triples() []Triple { return g.triples }

// Dataset exposes the graph as a json-gold dataset for serialization. The
// dataset must be treated as read-only.
func (g *Graph) Dataset() *ld.RDFDataset { return g.dataset }

// Subjects returns the distinct subjects in first-seen order.
func (g *Graph) Subjects() []ld.Node {
	seen := make(map[string]struct{})
	var out []ld.Node
	for _, t := range g.triples {
		k := nodeKey(t.Subject)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, t.Subject)
	}
	return out
}
