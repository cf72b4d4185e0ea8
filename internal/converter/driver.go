package converter

import (
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/mcncl/json2rdf/internal/config"
	"github.com/mcncl/json2rdf/internal/errors"
	"github.com/mcncl/json2rdf/internal/graph"
	"github.com/mcncl/json2rdf/internal/metrics"
	"github.com/mcncl/json2rdf/internal/models"
	"github.com/mcncl/json2rdf/internal/parser"
	"github.com/mcncl/json2rdf/internal/property"
)

// DocumentSource yields top-level documents. Next returns io.EOF at the end;
// a non-fatal error (see errors.IsFatal) affects one document only.
type DocumentSource interface {
	Next() (models.Document, error)
	Source() string
}

// Run converts every document of src. Malformed documents are logged,
// counted and skipped. Only fatal errors are returned.
func (c *Converter) Run(src DocumentSource) error {
	for {
		doc, err := src.Next()
		if stderrors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			if errors.IsFatal(err) {
				return err
			}
			c.logger.Warn("Skipping malformed document",
				slog.String("source", src.Source()),
				slog.String("error", err.Error()))
			c.recorder.DocumentFailed()
			continue
		}

		c.logger.Debug("Converting document",
			slog.String("source", doc.Source),
			slog.Int("document", doc.Index),
			slog.String("kind", doc.Root.Kind.String()))
		c.ConvertDocument(doc)
	}
}

// Result is the outcome of a conversion run.
type Result struct {
	Graph *graph.Graph
	Stats metrics.Stats
}

// Settings carries everything ConvertFiles needs besides the input paths.
type Settings struct {
	Options
	Parser parser.Options
}

// SettingsFromConfig builds run settings from a loaded configuration.
func SettingsFromConfig(cfg *config.Config, logger *slog.Logger) (Settings, error) {
	keyCase, err := property.ParseKeyCase(cfg.Naming.KeyCase)
	if err != nil {
		return Settings{}, errors.NewConfigError("invalid key case", err)
	}

	resolver, err := property.NewResolver(cfg.Namespace,
		property.WithKeyCase(keyCase),
		property.WithMappings(cfg.Naming.KeyMappings),
		property.WithSkip(cfg.ShouldSkipKey),
		property.WithValidation(cfg.Naming.ValidateIRIs),
	)
	if err != nil {
		return Settings{}, err
	}

	minter, err := graph.NewMinter(graph.Strategy(cfg.BlankNodes))
	if err != nil {
		return Settings{}, errors.NewConfigError("invalid blank node strategy", err)
	}

	return Settings{
		Options: Options{
			Resolver:          resolver,
			Minter:            minter,
			Recorder:          metrics.NewRecorder(),
			Logger:            logger,
			CarryOverProperty: cfg.CarryOverProperty,
		},
		Parser: parser.Options{MaxDepth: cfg.Parser.MaxDepth},
	}, nil
}

// ConvertFiles converts the documents of every file in paths, in order, into
// one graph. All files are opened before conversion starts, so a missing or
// unreadable file fails the run without converting anything.
func ConvertFiles(paths []string, settings Settings) (*Result, error) {
	if len(paths) == 0 {
		return nil, errors.NewInputError("no input files given", errors.ErrNoInput)
	}

	streams := make([]*parser.Stream, 0, len(paths))
	defer func() {
		for _, s := range streams {
			_ = s.Close()
		}
	}()
	for _, path := range paths {
		s, err := parser.OpenFile(path, settings.Parser)
		if err != nil {
			return nil, err
		}
		streams = append(streams, s)
	}

	g := graph.New()
	c, err := New(g, settings.Options)
	if err != nil {
		return nil, err
	}

	for _, s := range streams {
		if err := c.Run(s); err != nil {
			return nil, fmt.Errorf("converting '%s': %w", s.Source(), err)
		}
	}

	return &Result{Graph: g, Stats: c.recorder.Snapshot()}, nil
}
