// Package config defines the JSON-serializable configuration model for a
// carviz run. A pipeline file describes where the CSV comes from, how it is
// parsed and cleaned, which categorical column drives the chart filters, where
// the HTML goes and, optionally, where metrics and a SQLite snapshot go.
//
// Example (trimmed):
//
//	{
//	  "job":      "carviz",
//	  "source":   { "kind": "file", "file": { "path": "bmw_cars.csv" } },
//	  "parser":   { "kind": "csv", "options": { "comma": ";", "encoding": "latin1" } },
//	  "transform":[
//	    { "kind": "normalize" },
//	    { "kind": "coerce", "options": { "null_invalid": true, "types": { "Base price": "decimal" } } }
//	  ],
//	  "charts":   { "filter_field": "Generation" },
//	  "output":   { "dir": "." }
//	}
package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/kelseyhightower/envconfig"
)

// Pipeline is the top-level object decoded from a pipeline file.
type Pipeline struct {
	// Job labels metrics and log lines.
	Job string `json:"job"`

	// Source describes where input data comes from (e.g., local file).
	Source Source `json:"source"`

	// Parser configures how raw bytes are turned into records (e.g., CSV).
	Parser Parser `json:"parser"`

	// Transform lists the ordered transformations applied to parsed records.
	// Each transform has a kind and an options bag. The options shape is defined
	// by the transform implementation.
	Transform []Transform `json:"transform"`

	// Storage optionally snapshots the cleaned table. Kind "" disables it.
	Storage Storage `json:"storage"`

	Charts  Charts  `json:"charts"`
	Output  Output  `json:"output"`
	Metrics Metrics `json:"metrics"`
}

// Source identifies the data source. Additional kinds can be added over time.
type Source struct {
	// Kind selects the source implementation. Current value: "file".
	Kind string `json:"kind"`

	// File carries options for the "file" source kind.
	File SourceFile `json:"file"`
}

// SourceFile holds configuration for the "file" source kind.
type SourceFile struct {
	// Path is the local filesystem path to the input file.
	Path string `json:"path"`
}

// Parser selects how to parse the raw source into logical rows/columns.
type Parser struct {
	// Kind selects the parser implementation. Current value: "csv".
	Kind string `json:"kind"`

	// Options is interpreted by the parser. For CSV:
	//   comma (string), encoding (string), trim_space (bool),
	//   infer_numbers (bool), lazy_quotes (bool), normalize_headers (bool),
	//   header_map (object)
	Options Options `json:"options"`
}

// Transform defines a single transformation step. The sequence of steps forms
// the cleaning chain.
type Transform struct {
	// Kind selects the transform implementation ("normalize", "coerce",
	// "require", "dedup").
	Kind string `json:"kind"`

	// Options is a free-form map interpreted by the selected transform.
	Options Options `json:"options"`
}

// Storage selects the optional snapshot sink.
type Storage struct {
	// Kind is "" (no snapshot) or "sqlite".
	Kind string   `json:"kind"`
	DB   DBConfig `json:"db"`
}

// DBConfig configures the snapshot database.
type DBConfig struct {
	// DSN is a modernc sqlite DSN, e.g. "file:cars.db" or ":memory:".
	DSN string `json:"dsn"`

	// Table receives the cleaned rows.
	Table string `json:"table"`

	// AutoCreateTable creates Table from the cleaned columns when missing.
	AutoCreateTable bool `json:"auto_create_table"`
}

// Charts configures the category extraction feeding the chart filters.
type Charts struct {
	// FilterField is the categorical column behind every dropdown.
	FilterField string `json:"filter_field"`
	// All is the dropdown sentinel that disables filtering.
	All string `json:"all"`
	// Unknown replaces missing filter values.
	Unknown string `json:"unknown"`
}

// Output configures where and how the HTML is written.
type Output struct {
	Dir    string `json:"dir"`
	Title  string `json:"title"`
	Logo   string `json:"logo"`
	Credit string `json:"credit"`
}

// Metrics selects a metrics backend: "" or "none", "prometheus", "datadog".
type Metrics struct {
	Backend        string `json:"backend"`
	PushgatewayURL string `json:"pushgateway_url"`
	DatadogAddr    string `json:"datadog_addr"`
}

// Env carries overrides read from CARVIZ_* environment variables. Empty
// values leave the pipeline untouched.
type Env struct {
	Input          string `envconfig:"INPUT"`
	OutputDir      string `envconfig:"OUTPUT_DIR"`
	MetricsBackend string `envconfig:"METRICS_BACKEND"`
	PushgatewayURL string `envconfig:"PUSHGATEWAY_URL"`
	DatadogAddr    string `envconfig:"DATADOG_ADDR"`
	SnapshotDSN    string `envconfig:"SNAPSHOT_DSN"`
}

// EnvPrefix is the prefix of every environment override.
const EnvPrefix = "CARVIZ"

// Default returns the built-in pipeline for the BMW car export, so the tool
// runs with no configuration at all.
func Default() Pipeline {
	return Pipeline{
		Job:    "carviz",
		Source: Source{Kind: "file", File: SourceFile{Path: "bmw_cars.csv"}},
		Parser: Parser{Kind: "csv", Options: Options{
			"comma":         ";",
			"encoding":      "latin1",
			"trim_space":    true,
			"infer_numbers": true,
			"lazy_quotes":   true,
		}},
		Transform: []Transform{
			{Kind: "normalize", Options: Options{}},
			{Kind: "coerce", Options: Options{
				"null_invalid": true,
				"types": map[string]any{
					"Base price":       "decimal",
					"Acceleration (s)": "decimal",
				},
			}},
			{Kind: "coerce", Options: Options{
				"null_invalid": true,
				"types": map[string]any{
					"Power (HP)":         "float",
					"Top speed (km/h)":   "float",
					"Displacement (ccm)": "float",
				},
			}},
		},
		Storage: Storage{DB: DBConfig{Table: "cars", AutoCreateTable: true}},
		Charts:  Charts{FilterField: "Generation", All: "All", Unknown: "Unknown"},
		Output:  Output{Dir: "."},
	}
}

// Load reads a pipeline file. Fields absent from the file keep the values
// of Default, so a file only needs to list what it changes. A present
// "transform" array or "options" object replaces the default as a whole.
func Load(path string) (Pipeline, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Pipeline{}, fmt.Errorf("read config: %w", err)
	}
	return Parse(b)
}

// Parse decodes a pipeline from JSON on top of Default.
func Parse(b []byte) (Pipeline, error) {
	p := Default()
	def := p.Transform
	p.Transform = nil
	if err := json.Unmarshal(b, &p); err != nil {
		return Pipeline{}, fmt.Errorf("parse config: %w", err)
	}
	if p.Transform == nil {
		p.Transform = def
	}
	return p, nil
}

// ApplyEnv overlays CARVIZ_* environment variables onto p. A snapshot DSN
// implies the sqlite storage kind.
func ApplyEnv(p *Pipeline) error {
	var e Env
	if err := envconfig.Process(EnvPrefix, &e); err != nil {
		return fmt.Errorf("read environment: %w", err)
	}
	e.Apply(p)
	return nil
}

// Apply overlays the non-empty fields of e onto p.
func (e Env) Apply(p *Pipeline) {
	if e.Input != "" {
		p.Source.Kind = "file"
		p.Source.File.Path = e.Input
	}
	if e.OutputDir != "" {
		p.Output.Dir = e.OutputDir
	}
	if e.MetricsBackend != "" {
		p.Metrics.Backend = e.MetricsBackend
	}
	if e.PushgatewayURL != "" {
		p.Metrics.PushgatewayURL = e.PushgatewayURL
	}
	if e.DatadogAddr != "" {
		p.Metrics.DatadogAddr = e.DatadogAddr
	}
	if e.SnapshotDSN != "" {
		p.Storage.Kind = "sqlite"
		p.Storage.DB.DSN = e.SnapshotDSN
	}
}

// Options fetches typed values from free-form JSON maps. It performs only
// minimal type coercion and returns the provided default when a key is absent
// or of an unexpected type.
type Options map[string]any

// String returns the string value for key or def if key is missing or not a string.
func (o Options) String(key, def string) string {
	if v, ok := o[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return def
}

// Bool returns the bool value for key or def if key is missing or not a bool.
func (o Options) Bool(key string, def bool) bool {
	if v, ok := o[key]; ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return def
}

// Int returns the int value for key or def. JSON numbers are decoded as
// float64 by encoding/json, so this method accepts float64 and casts to int.
// If the value is neither float64 nor int, def is returned.
func (o Options) Int(key string, def int) int {
	if v, ok := o[key]; ok {
		switch n := v.(type) {
		case float64:
			return int(n)
		case int:
			return n
		}
	}
	return def
}

// Rune returns the first rune of a string value for key, or def if key is
// missing or empty. This is useful for single-character parser settings such as
// a CSV delimiter.
func (o Options) Rune(key string, def rune) rune {
	if v, ok := o[key]; ok {
		if s, ok := v.(string); ok && len(s) > 0 {
			return []rune(s)[0]
		}
	}
	return def
}

// StringMap returns a map[string]string for key when the value is an object
// whose values are strings. Non-string values are ignored. Returns an empty map
// when the key is missing or the value is not an object.
func (o Options) StringMap(key string) map[string]string {
	res := map[string]string{}
	if v, ok := o[key]; ok {
		if m, ok := v.(map[string]any); ok {
			for k, vv := range m {
				if s, ok := vv.(string); ok {
					res[k] = s
				}
			}
		}
	}
	return res
}

// StringSlice returns a []string for key when the value is an array of strings
// (or an array of interface values containing strings). Returns nil when the
// key is missing or the value is not an array.
func (o Options) StringSlice(key string) []string {
	if v, ok := o[key]; ok {
		switch vv := v.(type) {
		case []any:
			out := make([]string, 0, len(vv))
			for _, x := range vv {
				if s, ok := x.(string); ok {
					out = append(out, s)
				}
			}
			return out
		case []string:
			return vv
		}
	}
	return nil
}

// UnmarshalJSON implements json.Unmarshaler so that a missing or null "options"
// object in JSON decodes to a non-nil, empty Options map. This simplifies call
// sites by removing the need to nil-check Options values.
func (o *Options) UnmarshalJSON(b []byte) error {
	var tmp map[string]any
	if len(b) == 0 || string(b) == "null" {
		*o = Options{}
		return nil
	}
	if err := json.Unmarshal(b, &tmp); err != nil {
		return err
	}
	*o = Options(tmp)
	return nil
}
