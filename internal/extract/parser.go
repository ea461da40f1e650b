// Package extract turns free-text job postings into domain.JobPosting
// records. Parsing never fails: missing evidence yields the field default.
package extract

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"jdparse-engine/internal/domain"
)

type Options struct {
	// nil means DefaultVocabulary()
	Vocabulary *Vocabulary

	// run field extractors in parallel; output is identical either way
	Concurrent bool

	Logger *slog.Logger
}

// Parser is safe for concurrent use. Its compiled tables are never written
// after NewParser returns.
type Parser struct {
	c          *compiled
	concurrent bool
	log        *slog.Logger
}

func NewParser(opts Options) (*Parser, error) {
	v := opts.Vocabulary
	if v == nil {
		v = DefaultVocabulary()
	}
	c, err := compile(v)
	if err != nil {
		return nil, fmt.Errorf("compile vocabulary: %w", err)
	}
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Parser{c: c, concurrent: opts.Concurrent, log: log}, nil
}

// document is the immutable input every extractor reads.
type document struct {
	text     string
	lines    []string
	sections SectionMap
}

func (p *Parser) document(text string) *document {
	norm := Normalize(text)
	return &document{
		text:     norm,
		lines:    strings.Split(norm, "\n"),
		sections: p.c.segment(norm),
	}
}

// scope is the named section's text, or the whole text when it is absent.
func (d *document) scope(name SectionName) string {
	if t := d.sections.text(name); strings.TrimSpace(t) != "" {
		return t
	}
	return d.text
}

// Segment normalizes text and splits it into sections.
func (p *Parser) Segment(text string) SectionMap {
	return p.c.segment(Normalize(text))
}

// Parse runs normalize, segment and every field extractor. Empty input gives
// domain.NewJobPosting().
func (p *Parser) Parse(text string) domain.JobPosting {
	rec := domain.NewJobPosting()
	d := p.document(text)
	if d.text == "" {
		return rec
	}

	steps := p.steps(&rec)
	if p.concurrent {
		// each step writes a distinct field of rec
		var g errgroup.Group
		for _, step := range steps {
			step := step
			g.Go(func() error {
				step(d)
				return nil
			})
		}
		_ = g.Wait()
	} else {
		for _, step := range steps {
			step(d)
		}
	}

	p.log.Debug("extract.parse",
		"chars", len(d.text),
		"sections", d.sections.Names(),
		"defaulted", len(rec.DefaultedFields()),
	)
	return rec
}

// ParseValue parses loosely typed input; non-text values parse as "".
func (p *Parser) ParseValue(v any) domain.JobPosting {
	return p.Parse(ValueText(v))
}

// ParseBatch parses texts with at most limit in flight (limit < 1 means no
// bound). Results keep input order. A cancelled ctx aborts the batch.
func (p *Parser) ParseBatch(ctx context.Context, texts []string, limit int) ([]domain.JobPosting, error) {
	out := make([]domain.JobPosting, len(texts))
	g, gctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, t := range texts {
		i, t := i, t
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			out[i] = p.Parse(t)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (p *Parser) steps(r *domain.JobPosting) []func(*document) {
	return []func(*document){
		func(d *document) { r.Title = p.title(d) },
		func(d *document) { r.Company = p.company(d) },
		func(d *document) { r.Location = p.location(d) },
		func(d *document) { r.EmploymentType = p.employmentType(d) },
		func(d *document) { r.WorkMode = p.workMode(d) },
		func(d *document) { r.Description = p.description(d) },
		func(d *document) { r.Responsibilities = p.responsibilities(d) },
		func(d *document) { r.Requirements.Education = p.education(d) },
		func(d *document) { r.Requirements.Experience = p.experience(d) },
		func(d *document) { r.Requirements.Skills = p.skills(d) },
		func(d *document) { r.Requirements.Languages = p.languages(d) },
		func(d *document) { r.Requirements.Certifications = p.certifications(d) },
		func(d *document) { r.Benefits = p.benefits(d) },
		func(d *document) { r.Salary = p.salary(d) },
		func(d *document) { r.ApplicationDeadline = p.deadline(d) },
		func(d *document) { r.PostedDate = p.postedDate(d) },
		func(d *document) { r.Keywords = p.keywords(d) },
	}
}
