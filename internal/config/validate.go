package config

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// IssueSeverity represents the severity of a configuration issue.
type IssueSeverity string

const (
	// SeverityError blocks the run.
	SeverityError IssueSeverity = "error"
	// SeverityWarning is reported but does not block the run.
	SeverityWarning IssueSeverity = "warning"
)

// Issue describes a single validation finding for a Pipeline.
//
// Path is a dotted path into the config (e.g. "storage.db.dsn",
// "transform[1].options.types").
type Issue struct {
	Severity IssueSeverity
	Path     string
	Message  string
}

// Error implements the error interface so an Issue can be returned as an error.
func (i Issue) Error() string {
	return fmt.Sprintf("%s at %s: %s", i.Severity, i.Path, i.Message)
}

// HasErrors reports whether any issue has SeverityError.
func HasErrors(issues []Issue) bool {
	for _, iss := range issues {
		if iss.Severity == SeverityError {
			return true
		}
	}
	return false
}

// ValidatePipeline performs static validation of p. It does not mutate the
// pipeline; callers decide whether warnings are fatal.
func ValidatePipeline(p Pipeline) []Issue {
	var issues []Issue

	if strings.TrimSpace(p.Job) == "" {
		issues = append(issues, Issue{SeverityError, "job", "job must not be empty; it labels metrics and log lines"})
	}
	issues = append(issues, validateSource(p.Source)...)
	issues = append(issues, validateParser(p.Parser)...)
	issues = append(issues, validateTransforms(p.Transform)...)
	issues = append(issues, validateStorage(p.Storage)...)
	issues = append(issues, validateCharts(p.Charts)...)
	issues = append(issues, validateMetrics(p.Metrics)...)
	return issues
}

func validateSource(s Source) []Issue {
	switch strings.TrimSpace(s.Kind) {
	case "":
		return []Issue{{SeverityError, "source.kind", "source.kind must not be empty"}}
	case "file":
		if strings.TrimSpace(s.File.Path) == "" {
			return []Issue{{SeverityError, "source.file.path", "file source requires a non-empty path"}}
		}
		return nil
	default:
		return []Issue{{SeverityError, "source.kind", fmt.Sprintf("unsupported source kind %q", s.Kind)}}
	}
}

var knownEncodings = map[string]struct{}{
	"": {}, "utf-8": {}, "utf8": {},
	"latin1": {}, "latin-1": {}, "iso-8859-1": {}, "iso8859-1": {},
	"windows-1252": {}, "cp1252": {},
}

func validateParser(p Parser) []Issue {
	var issues []Issue
	switch strings.TrimSpace(p.Kind) {
	case "":
		return []Issue{{SeverityError, "parser.kind", "parser.kind must not be empty"}}
	case "csv":
	default:
		return []Issue{{SeverityError, "parser.kind", fmt.Sprintf("unsupported parser kind %q", p.Kind)}}
	}

	if comma := p.Options.String("comma", ","); utf8.RuneCountInString(comma) != 1 {
		issues = append(issues, Issue{SeverityError, "parser.options.comma", fmt.Sprintf("delimiter must be a single character, got %q", comma)})
	}
	enc := strings.ToLower(strings.TrimSpace(p.Options.String("encoding", "")))
	if _, ok := knownEncodings[enc]; !ok {
		issues = append(issues, Issue{SeverityError, "parser.options.encoding", fmt.Sprintf("unsupported encoding %q", enc)})
	}
	if !p.Options.Bool("infer_numbers", false) {
		issues = append(issues, Issue{SeverityWarning, "parser.options.infer_numbers", "numeric inference is off; integer columns stay text unless coerced"})
	}
	return issues
}

var coerceTypes = map[string]struct{}{
	"int": {}, "bool": {}, "date": {}, "string": {}, "float": {}, "decimal": {},
}

func validateTransforms(ts []Transform) []Issue {
	if len(ts) == 0 {
		return []Issue{{SeverityWarning, "transform", "no transforms configured; decimal-comma columns will not be numeric"}}
	}

	var issues []Issue
	for i, t := range ts {
		path := fmt.Sprintf("transform[%d]", i)
		switch t.Kind {
		case "":
			issues = append(issues, Issue{SeverityError, path + ".kind", "transform kind must not be empty"})
		case "normalize":
		case "coerce":
			types := t.Options.StringMap("types")
			if len(types) == 0 {
				issues = append(issues, Issue{SeverityWarning, path + ".options.types", "coerce has no types; it will not change anything"})
			}
			for field, typ := range types {
				if _, ok := coerceTypes[typ]; !ok {
					issues = append(issues, Issue{SeverityError, path + ".options.types", fmt.Sprintf("field %q: unknown type %q", field, typ)})
				}
			}
		case "require":
			if len(t.Options.StringSlice("fields")) == 0 {
				issues = append(issues, Issue{SeverityWarning, path + ".options.fields", "require has no fields; it will keep every row"})
			}
		case "dedup":
			if len(t.Options.StringSlice("keys")) == 0 {
				issues = append(issues, Issue{SeverityWarning, path + ".options.keys", "dedup has no keys; it will keep every row"})
			}
			switch t.Options.String("policy", "") {
			case "", "keep-first", "keep-last", "most-complete":
			default:
				issues = append(issues, Issue{SeverityError, path + ".options.policy", fmt.Sprintf("unknown dedup policy %q", t.Options.String("policy", ""))})
			}
		default:
			issues = append(issues, Issue{SeverityError, path + ".kind", fmt.Sprintf("unknown transform kind %q", t.Kind)})
		}
	}
	return issues
}

func validateStorage(s Storage) []Issue {
	switch s.Kind {
	case "":
		return nil
	case "sqlite":
	default:
		return []Issue{{SeverityError, "storage.kind", fmt.Sprintf("unsupported storage kind %q; only sqlite snapshots are available", s.Kind)}}
	}
	var issues []Issue
	if strings.TrimSpace(s.DB.DSN) == "" {
		issues = append(issues, Issue{SeverityError, "storage.db.dsn", "storage.db.dsn must not be empty"})
	}
	if strings.TrimSpace(s.DB.Table) == "" {
		issues = append(issues, Issue{SeverityError, "storage.db.table", "storage.db.table must not be empty"})
	}
	return issues
}

func validateCharts(c Charts) []Issue {
	var issues []Issue
	if strings.TrimSpace(c.FilterField) == "" {
		issues = append(issues, Issue{SeverityError, "charts.filter_field", "filter_field must name the categorical column"})
	}
	if c.All != "" && c.All == c.Unknown {
		issues = append(issues, Issue{SeverityError, "charts.all", "the All sentinel must differ from the Unknown label"})
	}
	return issues
}

func validateMetrics(m Metrics) []Issue {
	switch m.Backend {
	case "", "none":
	case "prometheus":
		if m.PushgatewayURL == "" {
			return []Issue{{SeverityError, "metrics.pushgateway_url", "prometheus backend requires a pushgateway URL"}}
		}
	case "datadog":
		if m.DatadogAddr == "" {
			return []Issue{{SeverityError, "metrics.datadog_addr", "datadog backend requires a DogStatsD address"}}
		}
	default:
		return []Issue{{SeverityError, "metrics.backend", fmt.Sprintf("unknown metrics backend %q", m.Backend)}}
	}
	return nil
}
