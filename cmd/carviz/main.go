// Command carviz turns the BMW car specification CSV into five interactive
// Vega-Lite charts and a tabbed HTML page linking them.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/dustin/go-humanize"

	"carviz/internal/config"
	"carviz/internal/metrics"
	"carviz/internal/metrics/datadog"
	"carviz/internal/metrics/prompush"
)

func main() {
	os.Exit(cli(os.Args[1:], os.Stdout))
}

// cli runs the command and returns the process exit code. Failures print a
// single "Error: ..." line to stdout.
func cli(args []string, stdout io.Writer) int {
	fs := flag.NewFlagSet("carviz", flag.ContinueOnError)
	var (
		cfgPath        = fs.String("config", "", "pipeline config JSON path (built-in car pipeline when empty)")
		input          = fs.String("input", "", "input CSV path (overrides CARVIZ_INPUT and the config)")
		outDir         = fs.String("out", "", "output directory (overrides CARVIZ_OUTPUT_DIR and the config)")
		metricsBackend = fs.String("metrics-backend", "", "metrics backend: none, prometheus or datadog")
		pushGatewayURL = fs.String("pushgateway-url", "", "Pushgateway base URL")
		datadogAddr    = fs.String("datadog-addr", "", "DogStatsD address, e.g. 127.0.0.1:8125")
		snapshotDSN    = fs.String("snapshot", "", "SQLite DSN to snapshot the cleaned table into")
		validate       = fs.Bool("validate", false, "validate the configuration and exit")
		verbose        = fs.Bool("v", false, "enable verbose logs")
	)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	log.SetOutput(os.Stderr)

	p, err := loadPipeline(*cfgPath)
	if err != nil {
		fmt.Fprintf(stdout, "Error: %v\n", err)
		return 1
	}
	config.Env{
		Input:          *input,
		OutputDir:      *outDir,
		MetricsBackend: *metricsBackend,
		PushgatewayURL: *pushGatewayURL,
		DatadogAddr:    *datadogAddr,
		SnapshotDSN:    *snapshotDSN,
	}.Apply(&p)

	issues := config.ValidatePipeline(p)
	for _, iss := range issues {
		fmt.Fprintln(os.Stderr, iss.Error())
	}
	if config.HasErrors(issues) {
		fmt.Fprintf(stdout, "Error: invalid configuration\n")
		return 1
	}
	if *validate {
		fmt.Fprintln(stdout, "Configuration is valid")
		return 0
	}

	flush := setupMetrics(p)
	defer flush()

	start := time.Now()
	if *verbose {
		log.Printf("pipeline: input=%s out=%s storage=%q metrics=%q",
			p.Source.File.Path, p.Output.Dir, p.Storage.Kind, p.Metrics.Backend)
	}

	res, err := run(context.Background(), p, stdout)
	if err != nil {
		fmt.Fprintf(stdout, "Error: %v\n", err)
		return 1
	}

	var total uint64
	for _, a := range res.Artifacts {
		total += uint64(a.Bytes)
	}
	fmt.Fprintf(stdout, "Wrote %d files to %s\n", len(res.Artifacts), p.Output.Dir)
	if !*verbose {
		return 0
	}
	log.Printf("completed in %s: %s rows, %d coerced to missing, %d files (%s)",
		time.Since(start).Truncate(time.Millisecond), humanize.Comma(int64(res.Rows)),
		res.CoercedNull, len(res.Artifacts), humanize.Bytes(total))
	return 0
}

// loadPipeline resolves the config file, then the CARVIZ_* environment.
// Flags are applied by the caller on top.
func loadPipeline(path string) (config.Pipeline, error) {
	p := config.Default()
	if path != "" {
		var err error
		if p, err = config.Load(path); err != nil {
			return config.Pipeline{}, err
		}
	}
	if err := config.ApplyEnv(&p); err != nil {
		return config.Pipeline{}, err
	}
	return p, nil
}

// setupMetrics installs the configured backend and returns its flush func.
// A backend that fails to initialize leaves metrics disabled.
func setupMetrics(p config.Pipeline) func() {
	var (
		b   metrics.Backend
		err error
	)
	switch p.Metrics.Backend {
	case "", "none":
		return func() {}
	case "prometheus":
		b, err = prompush.NewBackend(p.Job, p.Metrics.PushgatewayURL)
	case "datadog":
		b, err = datadog.NewBackend(datadog.Config{Addr: p.Metrics.DatadogAddr})
	default:
		log.Printf("metrics: unknown backend %q; metrics disabled", p.Metrics.Backend)
		return func() {}
	}
	if err != nil {
		log.Printf("metrics: init %s backend: %v; using nop", p.Metrics.Backend, err)
		return func() {}
	}
	log.Printf("metrics: backend=%s job=%s", p.Metrics.Backend, p.Job)
	metrics.SetBackend(b)
	return func() {
		if err := metrics.Flush(); err != nil {
			log.Printf("metrics: flush error: %v", err)
		}
		metrics.Reset()
	}
}
