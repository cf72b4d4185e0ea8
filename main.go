package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
	"github.com/mcncl/json2rdf/internal/config"
	"github.com/mcncl/json2rdf/internal/converter"
	"github.com/mcncl/json2rdf/internal/errors"
	"github.com/mcncl/json2rdf/internal/formatter"
)

// CLI defines the command-line interface
var CLI struct {
	Convert ConvertCmd `cmd:"" help:"Convert JSON documents to RDF triples."`
	Version VersionCmd `cmd:"" help:"Show version information."`
}

// ConvertCmd converts one or more JSON files into a single graph
type ConvertCmd struct {
	Namespace   string   `help:"Namespace IRI that JSON keys are appended to." short:"n"`
	JSONFiles   []string `help:"Comma separated JSON files to convert." short:"j" name:"json-files" sep:"," required:""`
	OutputFile  string   `help:"File to append the output to. If not specified, writes to stdout." short:"o" type:"path"`
	Format      string   `help:"Output format: ntriples, turtle or jsonld. Inferred from the output file extension when omitted." short:"f"`
	Config      string   `help:"Path to configuration file." short:"c" type:"path"`
	BlankNodes  string   `help:"Blank node labels: counter or uuid." name:"blank-nodes"`
	KeyCase     string   `help:"Key case applied before building predicates: none, camel, lower_camel, snake or kebab." name:"key-case"`
	MetricsFile string   `help:"Write run counters to this file in the Prometheus text format." name:"metrics-file" type:"path"`
	Debug       bool     `help:"Enable debug logging." short:"d"`
}

// VersionCmd prints the version
type VersionCmd struct{}

// Context holds the runtime context
type Context struct {
	Stdout io.Writer
	Stderr io.Writer
}

// Version information
const (
	Version = "0.1.0"
)

func main() {
	parser := kong.Must(&CLI,
		kong.Name("json2rdf"),
		kong.Description("A tool to convert JSON documents to RDF triples"),
		kong.UsageOnError(),
	)

	ctx, err := parser.Parse(os.Args[1:])
	if err != nil {
		// Usage has already been shown by kong.UsageOnError()
		fmt.Fprintf(os.Stderr, "%s\n", err)
		os.Exit(1)
	}

	err = ctx.Run(&Context{Stdout: os.Stdout, Stderr: os.Stderr})
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", errors.UserFriendlyError(err))
		fmt.Fprintf(os.Stderr, "\nFor help, run: json2rdf --help\n")
		os.Exit(1)
	}
}

// Run prints the version
func (v *VersionCmd) Run(ctx *Context) error {
	_, err := fmt.Fprintf(ctx.Stdout, "json2rdf version %s\n", Version)
	return err
}

// Run executes the conversion
func (c *ConvertCmd) Run(ctx *Context) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	return run(ctx, cfg, c.JSONFiles)
}

func (c *ConvertCmd) loadConfig() (*config.Config, error) {
	configPath := c.Config
	if configPath == "" {
		configPath = config.FindConfigFile()
	}

	cfg, err := config.LoadConfigWithCLI(configPath, config.Overrides{
		Namespace:   c.Namespace,
		Format:      c.Format,
		OutputFile:  c.OutputFile,
		BlankNodes:  c.BlankNodes,
		KeyCase:     c.KeyCase,
		MetricsFile: c.MetricsFile,
		Debug:       c.Debug,
	})
	if err != nil {
		return nil, errors.NewConfigError("failed to load configuration", err)
	}
	return cfg, nil
}

// newLogger builds the stderr text logger for the configured level
func newLogger(w io.Writer, level string) *slog.Logger {
	lvl, err := config.ParseLevel(level)
	if err != nil {
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl}))
}

// run converts paths and writes the rendered graph
func run(ctx *Context, cfg *config.Config, paths []string) error {
	logger := newLogger(ctx.Stderr, cfg.Log.Level)

	// 1. Build the converter settings
	settings, err := converter.SettingsFromConfig(cfg, logger)
	if err != nil {
		return err
	}

	format, err := cfg.OutputFormat()
	if err != nil {
		return errors.NewConfigError("invalid output format", err)
	}

	// 2. Convert every input document into one graph
	result, err := converter.ConvertFiles(paths, settings)
	if err != nil {
		return err
	}

	// 3. Render the graph
	text, err := formatter.NewFormatter(settings.Resolver.Namespace()).Format(result.Graph, format)
	if err != nil {
		return errors.NewOutputError(fmt.Sprintf("failed to render %s output", format), err)
	}

	// 4. Output the result
	if err := writeOutput(ctx, cfg.Output.File, text); err != nil {
		return err
	}

	if cfg.Metrics.File != "" {
		if err := settings.Recorder.WriteTextfile(cfg.Metrics.File); err != nil {
			return errors.NewOutputError(fmt.Sprintf("failed to write metrics to '%s'", cfg.Metrics.File), err)
		}
	}

	stats := result.Stats
	logger.Info("Conversion complete",
		slog.Int("files", len(paths)),
		slog.Int("documents", stats.Documents),
		slog.Int("document_errors", stats.DocumentErrors),
		slog.Int("triples", result.Graph.Len()),
		slog.Int("duplicates", stats.Duplicates),
		slog.Int("skipped", stats.SkippedTotal()),
		slog.String("format", string(format)))
	return nil
}

// writeOutput appends text to path, or writes it to stdout when path is empty
func writeOutput(ctx *Context, path, text string) error {
	if path != "" {
		return formatter.WriteFile(path, text)
	}

	if _, err := io.WriteString(ctx.Stdout, text); err != nil {
		return errors.NewOutputError("failed to write to stdout", err)
	}
	return nil
}
