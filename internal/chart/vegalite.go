// Package chart builds declarative Vega-Lite v5 specifications for the car
// dataset. Specs are plain values: once built they are only serialized.
package chart

import (
	"strings"

	"carviz/pkg/records"
)

// SchemaURL is the Vega-Lite schema every spec declares.
const SchemaURL = "https://vega.github.io/schema/vega-lite/v5.json"

// FieldType is a Vega-Lite measurement type.
type FieldType string

const (
	Quantitative FieldType = "quantitative"
	Ordinal      FieldType = "ordinal"
	Nominal      FieldType = "nominal"
)

// Spec is a single-view Vega-Lite specification.
type Spec struct {
	Schema   string   `json:"$schema"`
	Title    string   `json:"title,omitempty"`
	Width    any      `json:"width,omitempty"`
	Height   int      `json:"height,omitempty"`
	Data     *Data    `json:"data,omitempty"`
	Mark     Mark     `json:"mark"`
	Encoding Encoding `json:"encoding"`
	Params   []Param  `json:"params,omitempty"`
	Config   *Config  `json:"config,omitempty"`
}

// Data holds inline rows. Missing cells serialize as null.
type Data struct {
	Values []records.Record `json:"values"`
}

// Mark is the graphical primitive.
type Mark struct {
	Type string  `json:"type"`
	Size float64 `json:"size,omitempty"`
}

// Encoding maps channels to fields.
type Encoding struct {
	X       *FieldDef  `json:"x,omitempty"`
	Y       *FieldDef  `json:"y,omitempty"`
	Color   *FieldDef  `json:"color,omitempty"`
	Detail  *FieldDef  `json:"detail,omitempty"`
	Tooltip []FieldDef `json:"tooltip,omitempty"`
}

// FieldDef is a channel definition. Value is only set on a conditional
// channel, where it is the fallback when Condition does not hold.
type FieldDef struct {
	Field     string     `json:"field,omitempty"`
	Type      FieldType  `json:"type,omitempty"`
	Aggregate string     `json:"aggregate,omitempty"`
	Bin       *Bin       `json:"bin,omitempty"`
	Title     string     `json:"title,omitempty"`
	Scale     *Scale     `json:"scale,omitempty"`
	Legend    *Legend    `json:"legend,omitempty"`
	Condition *Condition `json:"condition,omitempty"`
	Value     any        `json:"value,omitempty"`
}

// Condition applies its embedded field definition when Test is true.
type Condition struct {
	Test string `json:"test"`
	FieldDef
}

// Bin requests equal-width binning.
type Bin struct {
	MaxBins int `json:"maxbins"`
}

// Scale selects a color scheme.
type Scale struct {
	Scheme string `json:"scheme,omitempty"`
}

// Legend overrides the legend title.
type Legend struct {
	Title string `json:"title,omitempty"`
}

// Param is a named parameter: either a variable bound to an input widget or
// a selection bound to the scales for pan/zoom.
type Param struct {
	Name   string `json:"name"`
	Value  any    `json:"value,omitempty"`
	Bind   any    `json:"bind,omitempty"`
	Select any    `json:"select,omitempty"`
}

// Binding describes an HTML input widget.
type Binding struct {
	Input   string   `json:"input"`
	Options []string `json:"options,omitempty"`
	Name    string   `json:"name,omitempty"`
}

// IntervalSelect is an interval selection restricted to some channels.
type IntervalSelect struct {
	Type      string   `json:"type"`
	Encodings []string `json:"encodings,omitempty"`
}

// Config carries view-wide styling.
type Config struct {
	Axis *AxisConfig `json:"axis,omitempty"`
	View *ViewConfig `json:"view,omitempty"`
}

type AxisConfig struct {
	Grid        bool   `json:"grid"`
	LabelColor  string `json:"labelColor,omitempty"`
	TitleColor  string `json:"titleColor,omitempty"`
	TickColor   string `json:"tickColor,omitempty"`
	DomainColor string `json:"domainColor,omitempty"`
}

type ViewConfig struct {
	StrokeWidth int    `json:"strokeWidth"`
	Fill        string `json:"fill,omitempty"`
}

// Field returns a field definition for column with the given type and title.
// Vega-Lite treats '.', '[' and ']' in field names as path syntax, so those
// are escaped.
func Field(column string, typ FieldType, title string) *FieldDef {
	return &FieldDef{Field: EscapeField(column), Type: typ, Title: title}
}

// Count returns the row-count aggregate.
func Count(title string) *FieldDef {
	return &FieldDef{Aggregate: "count", Type: Quantitative, Title: title}
}

// Binned returns f with equal-width binning of at most maxBins buckets.
func (f *FieldDef) Binned(maxBins int) *FieldDef {
	cp := *f
	cp.Bin = &Bin{MaxBins: maxBins}
	return &cp
}

// WithScheme returns f with a color scheme.
func (f *FieldDef) WithScheme(scheme string) *FieldDef {
	cp := *f
	cp.Scale = &Scale{Scheme: scheme}
	return &cp
}

// WithLegend returns f with a legend title.
func (f *FieldDef) WithLegend(title string) *FieldDef {
	cp := *f
	cp.Legend = &Legend{Title: title}
	return &cp
}

// EscapeField escapes Vega-Lite path characters in a column name.
func EscapeField(column string) string {
	r := strings.NewReplacer(`\`, `\\`, ".", `\.`, "[", `\[`, "]", `\]`)
	return r.Replace(column)
}
