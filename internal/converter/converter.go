// Package converter turns JSON documents into RDF triples.
//
// Every JSON object becomes a blank node. A scalar under key k becomes a
// triple (object, namespace/k, literal) and a nested object under k becomes a
// triple (parent, namespace/k, child). Array elements attach to the enclosing
// object under the array's own key; array positions are not recorded. Nulls
// produce nothing.
package converter

import (
	"io"
	"log/slog"

	"github.com/mcncl/json2rdf/internal/graph"
	"github.com/mcncl/json2rdf/internal/literal"
	"github.com/mcncl/json2rdf/internal/metrics"
	"github.com/mcncl/json2rdf/internal/models"
	"github.com/mcncl/json2rdf/internal/property"
)

// Options configures a Converter. Nil fields get defaults.
type Options struct {
	Resolver *property.Resolver
	Minter   graph.Minter
	Recorder *metrics.Recorder
	Logger   *slog.Logger
	// CarryOverProperty makes a top-level array or scalar document inherit
	// the predicate of the last key of the previous top-level object.
	CarryOverProperty bool
}

// Converter walks JSON documents and adds their triples to a graph. A
// Converter keeps state between documents and is not safe for concurrent use.
type Converter struct {
	graph     *graph.Graph
	resolver  *property.Resolver
	minter    graph.Minter
	recorder  *metrics.Recorder
	logger    *slog.Logger
	carryOver bool

	stack    SubjectStack
	property string
	doc      models.Document
}

// New creates a Converter that writes into g.
func New(g *graph.Graph, opts Options) (*Converter, error) {
	c := &Converter{
		graph:     g,
		resolver:  opts.Resolver,
		minter:    opts.Minter,
		recorder:  opts.Recorder,
		logger:    opts.Logger,
		carryOver: opts.CarryOverProperty,
	}
	if c.resolver == nil {
		r, err := property.NewResolver(property.DefaultNamespace)
		if err != nil {
			return nil, err
		}
		c.resolver = r
	}
	if c.minter == nil {
		c.minter = &graph.CounterMinter{}
	}
	if c.recorder == nil {
		c.recorder = metrics.NewRecorder()
	}
	if c.logger == nil {
		c.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return c, nil
}

// Graph returns the graph being written to.
func (c *Converter) Graph() *graph.Graph { return c.graph }

// Recorder returns the metrics recorder.
func (c *Converter) Recorder() *metrics.Recorder { return c.recorder }

// ConvertDocument adds the triples of one top-level document.
func (c *Converter) ConvertDocument(doc models.Document) {
	c.doc = doc
	if !c.carryOver {
		c.property = ""
	}

	if doc.Root.Kind == models.Object {
		c.convertObject(doc.Root, "", true)
	} else {
		c.convert(doc.Root, c.property)
	}
	c.recorder.DocumentConverted()
}

// ConvertValue adds the triples of v as if it were a standalone document.
func (c *Converter) ConvertValue(v models.Value) {
	c.ConvertDocument(models.Document{Root: v})
}

func (c *Converter) convert(v models.Value, predicate string) {
	switch v.Kind {
	case models.Object:
		c.convertObject(v, predicate, false)
	case models.Array:
		for _, item := range v.Items {
			c.convert(item, predicate)
		}
	case models.Null:
	default:
		c.convertScalar(v, predicate)
	}
}

// convertObject mints a subject for v, links it to the enclosing subject if
// there is one, and converts its members. topLevel objects record each key's
// predicate as the carried property.
func (c *Converter) convertObject(v models.Value, predicate string, topLevel bool) {
	subject := c.minter.Mint()
	parent, hasParent := c.stack.Current()
	c.stack.Push(subject)
	defer c.stack.Pop()

	if hasParent && predicate != "" {
		c.emit(graph.NewTriple(parent, predicate, subject))
	}

	for _, member := range v.Fields {
		if c.resolver.Skipped(member.Key) {
			c.logger.Debug("Skipping configured key",
				slog.String("source", c.doc.Source),
				slog.Int("document", c.doc.Index),
				slog.String("key", member.Key))
			c.recorder.ValueSkipped(metrics.ReasonSkippedKey)
			continue
		}

		memberPredicate, err := c.resolver.Resolve(member.Key)
		if err != nil {
			c.logger.Warn("Skipping key that does not form a valid IRI",
				slog.String("source", c.doc.Source),
				slog.Int("document", c.doc.Index),
				slog.String("key", member.Key),
				slog.String("error", err.Error()))
			c.recorder.ValueSkipped(metrics.ReasonInvalidIRI)
			continue
		}

		if topLevel {
			c.property = memberPredicate
		}
		c.convert(member.Value, memberPredicate)
	}
}

func (c *Converter) convertScalar(v models.Value, predicate string) {
	subject, ok := c.stack.Current()
	if !ok || predicate == "" {
		c.recorder.ValueSkipped(metrics.ReasonUnrooted)
		return
	}

	lit, ok, err := literal.FromValue(v)
	if err != nil {
		c.logger.Warn("Skipping number that cannot be represented",
			slog.String("source", c.doc.Source),
			slog.Int("document", c.doc.Index),
			slog.String("predicate", predicate),
			slog.String("error", err.Error()))
		c.recorder.ValueSkipped(metrics.ReasonNumberRange)
		return
	}
	if !ok {
		return
	}
	c.emit(graph.NewTriple(subject, predicate, lit.Node()))
}

func (c *Converter) emit(t graph.Triple) {
	c.recorder.TripleEmitted(c.graph.Add(t))
}
