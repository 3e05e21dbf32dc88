package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/dustin/go-humanize"

	"carviz/internal/category"
	"carviz/internal/chart"
	"carviz/internal/config"
	"carviz/internal/datasource/file"
	"carviz/internal/exporter"
	"carviz/internal/metrics"
	"carviz/internal/parser"
	pcsv "carviz/internal/parser/csv"
	"carviz/internal/probe"
	"carviz/internal/storage"
	sqliteddl "carviz/internal/storage/sqlite/ddl"
	"carviz/internal/transformer"
	"carviz/internal/transformer/builtin"
	"carviz/pkg/records"

	// sqlite registers itself with the storage factory.
	_ "carviz/internal/storage/sqlite"
)

// sampleRows is how many rows the diagnostic dump shows.
const sampleRows = 5

// result summarizes one run.
type result struct {
	Rows        int
	Skipped     int
	CoercedNull int
	Generations []string
	Artifacts   []exporter.Artifact
	Snapshot    int64
}

// run executes load → clean → categories → charts → export, then the
// optional snapshot. Diagnostics go to diag. Nothing is written to the output
// directory unless loading, cleaning and rendering all succeed.
func run(ctx context.Context, p config.Pipeline, diag io.Writer) (result, error) {
	var res result
	job := p.Job

	var t *records.Table
	err := step(job, "load", func() error {
		var skipped int
		var err error
		t, skipped, err = loadTable(ctx, p)
		res.Skipped = skipped
		return err
	})
	if err != nil {
		return res, err
	}
	metrics.RecordRow(job, "skipped", int64(res.Skipped))

	err = step(job, "clean", func() error {
		chain, err := buildTransformers(p.Transform)
		if err != nil {
			return err
		}
		before := countNil(t)
		t.Rows = chain.Apply(t.Rows)
		res.CoercedNull = max(countNil(t)-before, 0)
		return nil
	})
	if err != nil {
		return res, err
	}
	res.Rows = len(t.Rows)
	metrics.RecordRow(job, "processed", int64(res.Rows))
	metrics.RecordRow(job, "coerced_null", int64(res.CoercedNull))

	if err := probe.Dump(diag, t, t.Columns, sampleRows); err != nil {
		return res, fmt.Errorf("write diagnostics: %w", err)
	}

	start := time.Now()
	category.Fill(t.Rows, p.Charts.FilterField, p.Charts.Unknown)
	res.Generations = category.Options(t.Rows, p.Charts.FilterField, p.Charts.All, p.Charts.Unknown)
	metrics.RecordStep(job, "categories", nil, time.Since(start))
	log.Printf("%s options: %v", p.Charts.FilterField, res.Generations)
	cols := probe.Describe(t)

	start = time.Now()
	charts := chart.Catalog(t, chart.Options{
		Generations: res.Generations,
		All:         p.Charts.All,
		Field:       p.Charts.FilterField,
		Unknown:     p.Charts.Unknown,
	})
	metrics.RecordStep(job, "charts", nil, time.Since(start))

	err = step(job, "export", func() error {
		var err error
		res.Artifacts, err = exporter.Export(p.Output.Dir, charts, exporter.Options{
			Title:  p.Output.Title,
			Logo:   p.Output.Logo,
			Credit: p.Output.Credit,
		})
		return err
	})
	if err != nil {
		return res, err
	}
	metrics.RecordArtifacts(job, int64(len(res.Artifacts)))

	if p.Storage.Kind != "" {
		err = step(job, "snapshot", func() error {
			var err error
			res.Snapshot, err = snapshot(ctx, p.Storage, t, cols)
			return err
		})
		if err != nil {
			return res, err
		}
	}
	return res, nil
}

// step times fn and records its outcome.
func step(job, name string, fn func() error) error {
	start := time.Now()
	err := fn()
	metrics.RecordStep(job, name, err, time.Since(start))
	return err
}

func loadTable(ctx context.Context, p config.Pipeline) (*records.Table, int, error) {
	switch p.Source.Kind {
	case "", "file":
	default:
		return nil, 0, fmt.Errorf("unsupported source.kind=%s", p.Source.Kind)
	}
	prs, err := newParser(p.Parser)
	if err != nil {
		return nil, 0, err
	}

	src := file.NewLocal(p.Source.File.Path)
	if n, err := src.Size(); err == nil {
		log.Printf("loading %s (%s)", src.Path(), humanize.Bytes(uint64(n)))
	}
	rc, err := src.Open(ctx)
	if err != nil {
		return nil, 0, err
	}
	defer rc.Close()

	t, skipped, err := prs.ParseTable(rc)
	if err != nil {
		return nil, skipped, fmt.Errorf("parse %s: %w", src.Path(), err)
	}
	required := append(append([]string(nil), chart.RequiredColumns...), p.Charts.FilterField)
	if err := pcsv.RequireColumns(t, required...); err != nil {
		return nil, skipped, err
	}
	log.Printf("loaded %s rows, %d columns (%d skipped)",
		humanize.Comma(int64(len(t.Rows))), len(t.Columns), skipped)
	return t, skipped, nil
}

func newParser(p config.Parser) (parser.TableParser, error) {
	switch p.Kind {
	case "", "csv":
		return pcsv.NewParser(parserOptions(p.Options)), nil
	default:
		return nil, fmt.Errorf("unsupported parser.kind=%s", p.Kind)
	}
}

func parserOptions(o config.Options) pcsv.Options {
	return pcsv.Options{
		Comma:            o.Rune("comma", ','),
		Encoding:         o.String("encoding", ""),
		TrimSpace:        o.Bool("trim_space", false),
		NormalizeHeaders: o.Bool("normalize_headers", false),
		HeaderMap:        o.StringMap("header_map"),
		InferNumbers:     o.Bool("infer_numbers", false),
		LazyQuotes:       o.Bool("lazy_quotes", false),
	}
}

func buildTransformers(ts []config.Transform) (transformer.Chain, error) {
	c := transformer.Chain{}
	for i, t := range ts {
		switch t.Kind {
		case "normalize":
			c = append(c, builtin.Normalize{})
		case "coerce":
			c = append(c, builtin.Coerce{
				Types:       t.Options.StringMap("types"),
				Layout:      t.Options.String("layout", "2006-01-02"),
				NullInvalid: t.Options.Bool("null_invalid", true),
			})
		case "require":
			c = append(c, builtin.Require{Fields: t.Options.StringSlice("fields")})
		case "dedup":
			c = append(c, builtin.DeDup{
				Keys:   t.Options.StringSlice("keys"),
				Policy: t.Options.String("policy", builtin.KeepLast),
			})
		default:
			return nil, fmt.Errorf("transform[%d]: unsupported kind=%s", i, t.Kind)
		}
	}
	return c, nil
}

// countNil counts missing cells across the table's columns.
func countNil(t *records.Table) int {
	n := 0
	for _, r := range t.Rows {
		for _, c := range t.Columns {
			if r[c] == nil {
				n++
			}
		}
	}
	return n
}

func snapshot(ctx context.Context, s config.Storage, t *records.Table, cols []probe.Column) (int64, error) {
	repo, err := storage.New(ctx, storage.Config{Kind: s.Kind, DSN: s.DB.DSN, Table: s.DB.Table})
	if err != nil {
		return 0, err
	}
	defer repo.Close()

	if s.DB.AutoCreateTable {
		if err := sqliteddl.EnsureTable(ctx, repo, sqliteddl.FromColumns(s.DB.Table, cols)); err != nil {
			return 0, fmt.Errorf("create %s: %w", s.DB.Table, err)
		}
	}
	fields := make([]string, len(cols))
	for i, c := range cols {
		fields[i] = c.Field
	}
	n, err := storage.Snapshot(ctx, repo, t, fields, storage.DefaultBatchSize)
	if err != nil {
		return n, err
	}
	log.Printf("snapshot: %s rows into %s", humanize.Comma(n), s.DB.Table)
	return n, nil
}
