package chart

import "carviz/pkg/records"

// Builder assembles a Spec step by step. Each setter returns the builder so
// calls can be chained; Spec returns an independent copy.
type Builder struct {
	s Spec
}

// New starts a spec with the given mark, inline rows and title. Width follows
// the container; height is fixed in pixels.
func New(mark Mark, rows []records.Record, title string, height int) *Builder {
	return &Builder{s: Spec{
		Schema: SchemaURL,
		Title:  title,
		Width:  "container",
		Height: height,
		Data:   &Data{Values: rows},
		Mark:   mark,
		Config: defaultConfig(),
	}}
}

func (b *Builder) X(f *FieldDef) *Builder      { b.s.Encoding.X = f; return b }
func (b *Builder) Y(f *FieldDef) *Builder      { b.s.Encoding.Y = f; return b }
func (b *Builder) Color(f *FieldDef) *Builder  { b.s.Encoding.Color = f; return b }
func (b *Builder) Detail(f *FieldDef) *Builder { b.s.Encoding.Detail = f; return b }

// Tooltip sets the tooltip fields in display order.
func (b *Builder) Tooltip(fs ...*FieldDef) *Builder {
	b.s.Encoding.Tooltip = b.s.Encoding.Tooltip[:0]
	for _, f := range fs {
		b.s.Encoding.Tooltip = append(b.s.Encoding.Tooltip, *f)
	}
	return b
}

// Filter declares f's dropdown parameter and colors the color channel by
// category only where f's predicate holds; elsewhere the neutral color is
// used. Rows are never removed.
func (b *Builder) Filter(f Filter, category *FieldDef) *Builder {
	b.s.Params = append(b.s.Params, f.Param())
	b.s.Encoding.Color = &FieldDef{
		Condition: &Condition{Test: f.Expr(), FieldDef: *category},
		Value:     f.neutral(),
	}
	return b
}

// Interactive adds pan/zoom bound to the scales of every unbinned
// quantitative axis. When no axis qualifies the selection is declared on all
// positional channels, matching what a plain "interactive" chart emits.
func (b *Builder) Interactive() *Builder {
	var enc []string
	if zoomable(b.s.Encoding.X) {
		enc = append(enc, "x")
	}
	if zoomable(b.s.Encoding.Y) {
		enc = append(enc, "y")
	}
	if len(enc) == 0 {
		enc = []string{"x", "y"}
	}
	b.s.Params = append(b.s.Params, Param{
		Name:   "zoom",
		Select: IntervalSelect{Type: "interval", Encodings: enc},
		Bind:   "scales",
	})
	return b
}

// Spec returns a copy of the built specification.
func (b *Builder) Spec() Spec {
	s := b.s
	s.Params = append([]Param(nil), b.s.Params...)
	s.Encoding.Tooltip = append([]FieldDef(nil), b.s.Encoding.Tooltip...)
	return s
}

func zoomable(f *FieldDef) bool {
	return f != nil && f.Type == Quantitative && f.Bin == nil && f.Aggregate == ""
}

func defaultConfig() *Config {
	return &Config{
		Axis: &AxisConfig{
			Grid:        false,
			LabelColor:  "#000",
			TitleColor:  "#000",
			TickColor:   "#000",
			DomainColor: "#000",
		},
		View: &ViewConfig{StrokeWidth: 0, Fill: "#fff"},
	}
}
