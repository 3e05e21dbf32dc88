package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestParse_FullPipeline(t *testing.T) {
	t.Parallel()

	const js = `{
	  "job": "nightly",
	  "source": { "kind": "file", "file": { "path": "data/bmw.csv" } },
	  "parser": {
	    "kind": "csv",
	    "options": { "comma": ";", "encoding": "windows-1252", "infer_numbers": true, "header_map": { "Preis": "Base price" } }
	  },
	  "transform": [
	    { "kind": "normalize" },
	    { "kind": "coerce", "options": { "null_invalid": true, "types": { "Base price": "decimal" } } },
	    { "kind": "dedup", "options": { "keys": ["Full car name"], "policy": "keep-first" } }
	  ],
	  "storage": { "kind": "sqlite", "db": { "dsn": "file:cars.db", "table": "cars", "auto_create_table": true } },
	  "charts": { "filter_field": "Model series", "all": "Összes" },
	  "output": { "dir": "public", "title": "Fleet" },
	  "metrics": { "backend": "prometheus", "pushgateway_url": "http://pgw:9091" }
	}`

	p, err := Parse([]byte(js))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if p.Job != "nightly" || p.Source.File.Path != "data/bmw.csv" {
		t.Fatalf("job/source = %q/%#v", p.Job, p.Source)
	}
	if got := p.Parser.Options.Rune("comma", ','); got != ';' {
		t.Fatalf("comma = %q, want ';'", got)
	}
	if hm := p.Parser.Options.StringMap("header_map"); hm["Preis"] != "Base price" {
		t.Fatalf("header_map = %#v", hm)
	}
	if len(p.Transform) != 3 || p.Transform[2].Kind != "dedup" {
		t.Fatalf("transform = %#v", p.Transform)
	}
	if keys := p.Transform[2].Options.StringSlice("keys"); !reflect.DeepEqual(keys, []string{"Full car name"}) {
		t.Fatalf("dedup keys = %#v", keys)
	}
	if p.Transform[0].Options != nil && len(p.Transform[0].Options) != 0 {
		t.Fatalf("normalize options = %#v, want empty", p.Transform[0].Options)
	}
	if p.Storage.Kind != "sqlite" || p.Storage.DB.Table != "cars" || !p.Storage.DB.AutoCreateTable {
		t.Fatalf("storage = %#v", p.Storage)
	}
	if p.Charts.FilterField != "Model series" || p.Charts.All != "Összes" {
		t.Fatalf("charts = %#v", p.Charts)
	}
	// Unset fields keep their defaults.
	if p.Charts.Unknown != "Unknown" {
		t.Fatalf("charts.unknown = %q, want default Unknown", p.Charts.Unknown)
	}
	if p.Output.Dir != "public" || p.Output.Title != "Fleet" {
		t.Fatalf("output = %#v", p.Output)
	}
	if p.Metrics.Backend != "prometheus" || p.Metrics.PushgatewayURL != "http://pgw:9091" {
		t.Fatalf("metrics = %#v", p.Metrics)
	}
}

func TestParse_EmptyObjectIsDefault(t *testing.T) {
	t.Parallel()

	p, err := Parse([]byte(`{}`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !reflect.DeepEqual(p, Default()) {
		t.Fatalf("Parse({}) = %#v\nwant %#v", p, Default())
	}
}

func TestParse_ExplicitEmptyTransformDisablesCleaning(t *testing.T) {
	t.Parallel()

	p, err := Parse([]byte(`{"transform": []}`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if p.Transform == nil || len(p.Transform) != 0 {
		t.Fatalf("transform = %#v, want empty", p.Transform)
	}
}

func TestParse_Malformed(t *testing.T) {
	t.Parallel()

	if _, err := Parse([]byte(`{"job": `)); err == nil {
		t.Fatalf("expected error for malformed JSON")
	}
}

func TestLoad(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "pipeline.json")
	if err := os.WriteFile(path, []byte(`{"output": {"dir": "site"}}`), 0o644); err != nil {
		t.Fatal(err)
	}
	p, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if p.Output.Dir != "site" || p.Source.File.Path != "bmw_cars.csv" {
		t.Fatalf("p = %#v", p)
	}

	if _, err := Load(filepath.Join(dir, "missing.json")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestLoad_SamplePipeline(t *testing.T) {
	p, err := Load(filepath.Join("..", "..", "configs", "pipelines", "bmw_cars.json"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if issues := ValidatePipeline(p); HasErrors(issues) {
		t.Fatalf("sample pipeline invalid: %v", issues)
	}
	if len(p.Transform) != 3 || p.Transform[2].Kind != "coerce" {
		t.Fatalf("transform=%+v", p.Transform)
	}
	for _, tr := range p.Transform {
		if tr.Kind == "dedup" || tr.Kind == "require" {
			t.Fatalf("sample pipeline must not drop rows, found %s", tr.Kind)
		}
	}
	if !p.Parser.Options.Bool("lazy_quotes", false) {
		t.Fatalf("sample pipeline should read bare quotes literally")
	}
	if p.Storage.Kind != "sqlite" || p.Output.Dir != "site" {
		t.Fatalf("storage=%+v output=%+v", p.Storage, p.Output)
	}
}

func TestDefault_IsValid(t *testing.T) {
	t.Parallel()

	if issues := ValidatePipeline(Default()); len(issues) != 0 {
		t.Fatalf("Default() has issues: %v", issues)
	}
	if !Default().Parser.Options.Bool("lazy_quotes", false) {
		t.Fatalf("default parser must read bare quotes literally")
	}
}

func TestEnv_Apply(t *testing.T) {
	t.Parallel()

	p := Default()
	Env{
		Input:          "other.csv",
		OutputDir:      "out",
		MetricsBackend: "datadog",
		DatadogAddr:    "127.0.0.1:8125",
		SnapshotDSN:    "file:snap.db",
	}.Apply(&p)

	if p.Source.File.Path != "other.csv" || p.Output.Dir != "out" {
		t.Fatalf("source/output not overridden: %#v %#v", p.Source, p.Output)
	}
	if p.Metrics.Backend != "datadog" || p.Metrics.DatadogAddr != "127.0.0.1:8125" {
		t.Fatalf("metrics = %#v", p.Metrics)
	}
	if p.Storage.Kind != "sqlite" || p.Storage.DB.DSN != "file:snap.db" || p.Storage.DB.Table != "cars" {
		t.Fatalf("storage = %#v", p.Storage)
	}

	q := Default()
	Env{}.Apply(&q)
	if !reflect.DeepEqual(q, Default()) {
		t.Fatalf("empty Env changed the pipeline")
	}
}

func TestApplyEnv_ReadsPrefixedVariables(t *testing.T) {
	t.Setenv("CARVIZ_INPUT", "env.csv")
	t.Setenv("CARVIZ_PUSHGATEWAY_URL", "http://pgw:9091")

	p := Default()
	if err := ApplyEnv(&p); err != nil {
		t.Fatalf("ApplyEnv: %v", err)
	}
	if p.Source.File.Path != "env.csv" {
		t.Fatalf("path = %q, want env.csv", p.Source.File.Path)
	}
	if p.Metrics.PushgatewayURL != "http://pgw:9091" {
		t.Fatalf("pushgateway = %q", p.Metrics.PushgatewayURL)
	}
}

func TestOptions_TypedAccessors(t *testing.T) {
	t.Parallel()

	o := Options{
		"s": "hello",
		"b": true,
		"i": float64(42),
		"r": "ő",
		"m": map[string]any{"A": "a", "X": 1},
		"l": []any{"alpha", 3, "beta"},
	}
	if got := o.String("s", "def"); got != "hello" {
		t.Errorf("String(s) = %q", got)
	}
	if got := o.String("b", "def"); got != "def" {
		t.Errorf("String(b) = %q, want default for wrong type", got)
	}
	if !o.Bool("b", false) || !o.Bool("missing", true) {
		t.Errorf("Bool accessor wrong")
	}
	if o.Int("i", 0) != 42 || o.Int("missing", 7) != 7 {
		t.Errorf("Int accessor wrong")
	}
	if got := o.Rune("r", 'x'); got != 'ő' {
		t.Errorf("Rune(r) = %q, want first rune", got)
	}
	if got := o.StringMap("m"); !reflect.DeepEqual(got, map[string]string{"A": "a"}) {
		t.Errorf("StringMap(m) = %#v", got)
	}
	if got := o.StringMap("missing"); got == nil || len(got) != 0 {
		t.Errorf("StringMap(missing) = %#v, want empty map", got)
	}
	if got := o.StringSlice("l"); !reflect.DeepEqual(got, []string{"alpha", "beta"}) {
		t.Errorf("StringSlice(l) = %#v", got)
	}
	if o.StringSlice("missing") != nil {
		t.Errorf("missing keys should be nil")
	}
}

func TestOptions_UnmarshalJSON_NullYieldsEmptyMap(t *testing.T) {
	t.Parallel()

	var w struct {
		Opts Options `json:"options"`
	}
	if err := json.Unmarshal([]byte(`{"options": null}`), &w); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if w.Opts == nil || len(w.Opts) != 0 {
		t.Fatalf("Opts = %#v, want non-nil empty map", w.Opts)
	}
}
