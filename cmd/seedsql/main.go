// Command seedsql parses SQL files and prints their syntax tree.
//
//	seedsql [-config seedsql.yaml] [-format json|yaml|sql] [-check] [file ...]
//
// With no files the source is read from stdin.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"

	"github.com/sourcegraph/conc/pool"

	"github.com/tuannm99/seedsql"
	"github.com/tuannm99/seedsql/internal"
	"github.com/tuannm99/seedsql/pkg/ast"
	"github.com/tuannm99/seedsql/pkg/util"
)

// formatSQL prints the canonical SQL rendering instead of a tree encoding.
const formatSQL = "sql"

type fileResult struct {
	name string
	doc  *ast.Document
	err  error
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("seedsql", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		cfgPath = fs.String("config", "", "config file (yaml)")
		format  = fs.String("format", "", "output format: json, yaml or sql (default from config)")
		check   = fs.Bool("check", false, "only report errors, print nothing on success")
		jobs    = fs.Int("j", runtime.GOMAXPROCS(0), "files parsed concurrently")
		verbose = fs.Bool("v", false, "debug logging")
	)
	if err := fs.Parse(args); err != nil {
		return 2
	}

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	cfg, err := internal.LoadConfig(*cfgPath)
	if err != nil {
		logger.Error("load config", "path", *cfgPath, "err", err)
		return 2
	}

	outFormat := *format
	if outFormat == "" {
		outFormat = string(cfg.OutputFormat())
	}
	if outFormat != formatSQL {
		if _, err := ast.ParseFormat(outFormat); err != nil {
			logger.Error("bad -format", "err", err)
			return 2
		}
	}

	var results []fileResult
	if fs.NArg() == 0 {
		results = []fileResult{parseReader("<stdin>", stdin, cfg)}
	} else {
		results, err = parseFiles(fs.Args(), *jobs, cfg, logger)
		if err != nil {
			logger.Error("read input", "err", err)
			return 1
		}
	}

	code := 0
	for _, r := range results {
		if r.err != nil {
			code = 1
			for _, e := range seedsql.Errors(r.err) {
				fmt.Fprintf(stderr, "%s: %v\n", r.name, e)
			}
			continue
		}
		logger.Debug("parsed", "file", r.name, "statements", len(r.doc.Statements))
		if *check {
			continue
		}
		if len(results) > 1 {
			fmt.Fprintf(stdout, "==> %s <==\n", r.name)
		}
		if err := printDocument(stdout, r.doc, outFormat); err != nil {
			logger.Error("write output", "file", r.name, "err", err)
			return 1
		}
	}
	return code
}

// parseFiles parses every file on a bounded pool. Results keep argument
// order; only read failures are returned as an error.
func parseFiles(names []string, jobs int, cfg *internal.SeedConfig, logger *slog.Logger) ([]fileResult, error) {
	if jobs < 1 {
		jobs = 1
	}
	results := make([]fileResult, len(names))

	p := pool.New().WithErrors().WithMaxGoroutines(jobs)
	for i, name := range names {
		p.Go(func() error {
			f, err := os.Open(name)
			if err != nil {
				return fmt.Errorf("open %s: %w", name, err)
			}
			defer util.CloseFunc(f, "file", name)

			logger.Debug("parsing", "file", name)
			results[i] = parseReader(name, f, cfg)
			if errors.Is(results[i].err, errRead) {
				return results[i].err
			}
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

var errRead = errors.New("read input")

func parseReader(name string, r io.Reader, cfg *internal.SeedConfig) fileResult {
	src, err := io.ReadAll(r)
	if err != nil {
		return fileResult{name: name, err: fmt.Errorf("%w %s: %w", errRead, name, err)}
	}
	doc, err := seedsql.Parse(string(src), cfg.ParseOptions()...)
	return fileResult{name: name, doc: doc, err: err}
}

func printDocument(w io.Writer, doc *ast.Document, format string) error {
	if format == formatSQL {
		_, err := fmt.Fprintln(w, doc.String())
		return err
	}
	f, err := ast.ParseFormat(format)
	if err != nil {
		return err
	}
	return ast.Encode(w, doc, f)
}
