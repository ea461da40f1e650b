// Command jdparse prints the structured record of each job posting given as
// a file argument, or of stdin when there are none.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/joho/godotenv"

	"jdparse-engine/internal/config"
	"jdparse-engine/internal/docfile"
	"jdparse-engine/internal/domain"
	"jdparse-engine/internal/extract"
	"jdparse-engine/internal/logging"
)

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "jdparse: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("jdparse", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		cfgPath    = fs.String("config", os.Getenv("JDPARSE_CONFIG"), "config file with vocabulary extensions (optional)")
		concurrent = fs.Bool("concurrent", false, "run field extractors in parallel")
		jobs       = fs.Int("jobs", 0, "postings parsed at once (0 uses parser.batch_limit)")
		pretty     = fs.Bool("pretty", false, "indent JSON output")
		validate   = fs.Bool("validate", false, "check every record against the JobPosting schema")
		schema     = fs.Bool("schema", false, "print the JobPosting JSON schema and exit")
		logLevel   = fs.String("log-level", "warn", "debug, info, warn or error")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *schema {
		_, err := stdout.Write(domain.Schema())
		return err
	}

	level, err := logging.ParseLevel(*logLevel)
	if err != nil {
		return err
	}
	log := logging.New(stderr, level, "text")

	cfg := config.Default()
	if *cfgPath != "" {
		loaded, err := config.Load(*cfgPath)
		if err != nil {
			return err
		}
		normalized, vr := config.NormalizeAndValidate(loaded)
		if err := vr.Err(); err != nil {
			return fmt.Errorf("%s: %w", *cfgPath, err)
		}
		for _, w := range vr.Warnings {
			log.Warn("config.warning", "path", *cfgPath, "msg", w)
		}
		cfg = normalized
	}
	if *concurrent {
		cfg.Parser.Concurrent = true
	}
	limit := cfg.Parser.BatchLimit
	if *jobs > 0 {
		limit = *jobs
	}

	p, err := extract.NewParser(extract.Options{
		Vocabulary: cfg.ParserVocabulary(),
		Concurrent: cfg.Parser.Concurrent,
		Logger:     log,
	})
	if err != nil {
		return err
	}

	files := fs.Args()
	var texts []string
	if len(files) == 0 {
		text, err := docfile.ReadAll(stdin, "")
		if err != nil {
			return fmt.Errorf("read stdin: %w", err)
		}
		texts = append(texts, text)
	}
	for _, f := range files {
		text, err := docfile.ReadFile(f)
		if err != nil {
			return err
		}
		texts = append(texts, text)
	}

	recs, err := p.ParseBatch(ctx, texts, limit)
	if err != nil {
		return err
	}
	log.Debug("jdparse.done", "postings", len(recs))
	if *validate {
		for i, rec := range recs {
			if err := rec.Validate(); err != nil {
				return fmt.Errorf("record %d: %w", i, err)
			}
		}
	}

	enc := json.NewEncoder(stdout)
	if *pretty {
		enc.SetIndent("", "  ")
	}
	if len(files) <= 1 {
		return enc.Encode(recs[0])
	}
	return enc.Encode(recs)
}
