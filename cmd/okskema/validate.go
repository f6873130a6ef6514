package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	json "github.com/goccy/go-json"
	okskema "github.com/reoring/okskema"
	"github.com/reoring/okskema/batch"
	"github.com/reoring/okskema/i18n"
	"github.com/reoring/okskema/internal/catalog"
	"github.com/reoring/okskema/source"
)

// docResult is the per-document report line.
type docResult struct {
	Source   string           `json:"source"`
	Index    int              `json:"index"`
	Valid    bool             `json:"valid"`
	Failures okskema.Failures `json:"failures,omitempty"`
}

func validateCmd(ctx context.Context, cfg config, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	flags := flag.NewFlagSet("validate", flag.ContinueOnError)
	flags.SetOutput(stderr)
	schemaName := flags.String("schema", "", "schema name as listed by the schemas subcommand")
	format := flags.String("format", cfg.Format, "input format: json or yaml (default: by file extension)")
	lang := flags.String("lang", cfg.Lang, "message language: en or ja")
	concurrency := flags.Int("concurrency", cfg.Concurrency, "max concurrent validations (0 = GOMAXPROCS)")
	asJSON := flags.Bool("json", false, "print results as JSON")
	if err := flags.Parse(args); err != nil {
		return exitUsage
	}
	if *schemaName == "" {
		flags.Usage()
		return exitUsage
	}
	logger := newLogger(stderr, cfg.LogLevel)

	entry, err := catalog.Lookup(*schemaName)
	if err != nil {
		logger.ErrorContext(ctx, "schema lookup failed", slog.Any("error", err))
		return exitUsage
	}
	tr := i18n.For(*lang)

	files := flags.Args()
	if len(files) == 0 {
		files = []string{"-"}
	}
	var (
		docs    []any
		results []docResult
	)
	for _, name := range files {
		values, err := readDocs(name, *format, stdin)
		if err != nil {
			logger.ErrorContext(ctx, "reading input failed", slog.String("file", name), slog.Any("error", err))
			return exitUsage
		}
		for i, v := range values {
			docs = append(docs, v)
			results = append(results, docResult{Source: name, Index: i})
		}
	}

	rep, err := batch.Validate(ctx, entry.Schema, docs, batch.WithConcurrency(*concurrency))
	if err != nil {
		logger.ErrorContext(ctx, "validation interrupted", slog.Any("error", err))
		return exitUsage
	}
	for i, o := range rep.Outcomes {
		results[i].Valid = o.IsValid()
		results[i].Failures = o.Failures().Localize(tr)
	}
	logger.DebugContext(ctx, "validation finished",
		slog.String("schema", entry.Name),
		slog.Int("documents", len(docs)),
		slog.Int("invalid", rep.Invalid),
	)

	if *asJSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(results); err != nil {
			logger.ErrorContext(ctx, "writing output failed", slog.Any("error", err))
			return exitUsage
		}
	} else {
		printText(stdout, results)
	}
	if rep.Invalid > 0 {
		return exitInvalid
	}
	return exitOK
}

func readDocs(name, format string, stdin io.Reader) ([]any, error) {
	f := source.FormatOf(name)
	if format != "" {
		var err error
		if f, err = source.ParseFormat(format); err != nil {
			return nil, err
		}
	}
	r := stdin
	if name != "-" {
		file, err := os.Open(name)
		if err != nil {
			return nil, err
		}
		defer file.Close()
		r = file
	}
	return source.DecodeAll(r, f, source.Options{RejectDuplicateKeys: true})
}

func printText(w io.Writer, results []docResult) {
	for _, r := range results {
		if r.Valid {
			fmt.Fprintf(w, "%s#%d: valid\n", r.Source, r.Index)
			continue
		}
		fmt.Fprintf(w, "%s#%d: %d failure(s)\n", r.Source, r.Index, len(r.Failures))
		for _, f := range r.Failures {
			msg := f.Message
			if f.Label != "" {
				msg = f.Label + ": " + msg
			}
			fmt.Fprintf(w, "  %s\t%s\t%s\n", f.Path.Pointer(), f.Code, strings.TrimSpace(msg))
		}
	}
}

func schemasCmd(stdout io.Writer) int {
	for _, name := range catalog.Names() {
		e, _ := catalog.Lookup(name)
		fmt.Fprintf(stdout, "%s\t%s\n", e.Name, e.Description)
	}
	return exitOK
}
