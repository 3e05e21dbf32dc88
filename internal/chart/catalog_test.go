package chart

import (
	"encoding/json"
	"strings"
	"testing"

	"carviz/pkg/records"
)

func sampleTable() *records.Table {
	return &records.Table{
		Columns: RequiredColumns,
		Rows: []records.Record{
			{
				ColName: "320i", ColPrice: 35000.5, ColAcceleration: 7.2, ColPower: 184.0,
				ColTopSpeed: 235.0, ColDisplacement: 1995.0, ColCurbWeight: 1475.0,
				ColDoors: 4.0, ColBodyType: "Sedan", ColModelSeries: "3 Series", ColGeneration: "E90",
			},
			{
				ColName: "330d", ColPrice: nil, ColAcceleration: nil, ColPower: 231.0,
				ColTopSpeed: 250.0, ColDisplacement: 2993.0, ColCurbWeight: 1520.0,
				ColDoors: 4.0, ColBodyType: "Sedan", ColModelSeries: "3 Series", ColGeneration: "Unknown",
			},
		},
	}
}

// decode round-trips a spec through JSON into a generic map, which is what
// the browser sees.
func decode(t *testing.T, s Spec) map[string]any {
	t.Helper()
	b, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	return m
}

func TestCatalog_FilesAndTitles(t *testing.T) {
	charts := Catalog(sampleTable(), Options{Generations: []string{"All", "E90"}})
	want := []struct{ file, title string }{
		{"chart1.html", "BMW Adatok Vizualizációja - Ár és Teljesítmény"},
		{"chart2.html", "BMW Adatok Vizualizációja - Sebesség és Gyorsulás"},
		{"bar_chart.html", "Karosszéria típus és ajtók száma szerinti eloszlás"},
		{"disp_power_hex.html", "Lökettérfogat és Teljesítmény - Sűrűségtérkép"},
		{"curb_weight_hist.html", "Saját tömeg (kg) eloszlása modellek szerint"},
	}
	if len(charts) != len(want) {
		t.Fatalf("charts=%d want %d", len(charts), len(want))
	}
	for i, w := range want {
		c := charts[i]
		if c.File != w.file || c.Spec.Title != w.title {
			t.Errorf("chart %d = (%q,%q) want (%q,%q)", i, c.File, c.Spec.Title, w.file, w.title)
		}
		if c.Spec.Width != "container" || c.Spec.Height == 0 {
			t.Errorf("chart %d size = %v x %d", i, c.Spec.Width, c.Spec.Height)
		}
		if c.Tab == "" {
			t.Errorf("chart %d has no tab label", i)
		}
	}
}

func TestCatalog_IndependentFilters(t *testing.T) {
	charts := Catalog(sampleTable(), Options{Generations: []string{"All", "E90"}})
	wantParam := map[string]string{
		"chart1.html":           "Select1",
		"chart2.html":           "Select2",
		"bar_chart.html":        "",
		"disp_power_hex.html":   "",
		"curb_weight_hist.html": "Select3",
	}
	for _, c := range charts {
		var selects []string
		zoom := 0
		for _, p := range c.Spec.Params {
			if _, ok := p.Bind.(Binding); ok {
				selects = append(selects, p.Name)
				if p.Value != "All" {
					t.Errorf("%s: %s defaults to %v", c.File, p.Name, p.Value)
				}
			}
			if p.Bind == "scales" {
				zoom++
			}
		}
		if zoom != 1 {
			t.Errorf("%s: zoom params=%d want 1", c.File, zoom)
		}
		want := wantParam[c.File]
		switch {
		case want == "" && len(selects) != 0:
			t.Errorf("%s: unexpected dropdown %v", c.File, selects)
		case want != "" && (len(selects) != 1 || selects[0] != want):
			t.Errorf("%s: dropdowns=%v want [%s]", c.File, selects, want)
		}
	}
}

func TestCatalog_VisualFilterOnly(t *testing.T) {
	for _, c := range Catalog(sampleTable(), Options{Generations: []string{"All", "E90"}}) {
		m := decode(t, c.Spec)
		if _, ok := m["transform"]; ok {
			t.Errorf("%s: filtering must recolor, not drop rows", c.File)
		}
		vals := m["data"].(map[string]any)["values"].([]any)
		if len(vals) != 2 {
			t.Errorf("%s: values=%d want 2", c.File, len(vals))
		}
	}
}

func TestCatalog_ScatterEncoding(t *testing.T) {
	c := Catalog(sampleTable(), Options{Generations: []string{"All", "E90"}})[0]
	m := decode(t, c.Spec)

	mark := m["mark"].(map[string]any)
	if mark["type"] != "circle" || mark["size"] != 100.0 {
		t.Fatalf("mark=%v", mark)
	}
	enc := m["encoding"].(map[string]any)
	x := enc["x"].(map[string]any)
	if x["field"] != ColPower || x["type"] != "quantitative" {
		t.Fatalf("x=%v", x)
	}
	color := enc["color"].(map[string]any)
	if color["value"] != NeutralColor {
		t.Fatalf("color fallback=%v", color["value"])
	}
	cond := color["condition"].(map[string]any)
	if cond["field"] != ColGeneration || cond["type"] != "nominal" {
		t.Fatalf("condition=%v", cond)
	}
	if cond["scale"].(map[string]any)["scheme"] != "category20" {
		t.Fatalf("scheme=%v", cond["scale"])
	}
	want := "(Select1 == 'All' || datum['Generation'] == Select1) && datum['Generation'] != 'Unknown'"
	if cond["test"] != want {
		t.Fatalf("test=%v want %s", cond["test"], want)
	}
	if tips := enc["tooltip"].([]any); len(tips) != 4 {
		t.Fatalf("tooltip=%v", tips)
	}

	// Missing cells serialize as null.
	row := m["data"].(map[string]any)["values"].([]any)[1].(map[string]any)
	if v, ok := row[ColPrice]; !ok || v != nil {
		t.Fatalf("missing price = %#v (present=%v) want null", v, ok)
	}
}

func TestCatalog_AggregateCharts(t *testing.T) {
	charts := Catalog(sampleTable(), Options{})

	bar := charts[2].Spec
	if bar.Encoding.X.Type != Ordinal || bar.Encoding.Y.Aggregate != "count" {
		t.Fatalf("bar encoding = %+v", bar.Encoding)
	}
	if bar.Encoding.Color.Field != ColBodyType {
		t.Fatalf("bar color=%+v", bar.Encoding.Color)
	}

	heat := charts[3].Spec
	if heat.Mark.Type != "rect" || heat.Encoding.X.Bin == nil || heat.Encoding.Y.Bin == nil {
		t.Fatalf("heatmap = %+v", heat)
	}
	if heat.Encoding.X.Bin.MaxBins != 40 || heat.Encoding.Color.Scale.Scheme != "turbo" {
		t.Fatalf("heatmap bins/scheme = %+v %+v", heat.Encoding.X.Bin, heat.Encoding.Color.Scale)
	}

	hist := charts[4].Spec
	if hist.Encoding.X.Bin == nil || hist.Encoding.Y.Aggregate != "count" {
		t.Fatalf("hist = %+v", hist.Encoding)
	}
	if hist.Encoding.Color.Condition == nil || hist.Encoding.Color.Condition.Field != ColModelSeries {
		t.Fatalf("hist color=%+v", hist.Encoding.Color)
	}
	if hist.Encoding.Detail == nil || hist.Encoding.Detail.Field != ColGeneration {
		t.Fatalf("hist detail=%+v", hist.Encoding.Detail)
	}
}

func TestCatalog_DefaultsToAllOnly(t *testing.T) {
	c := Catalog(&records.Table{}, Options{})[0]
	for _, p := range c.Spec.Params {
		if b, ok := p.Bind.(Binding); ok {
			if len(b.Options) != 1 || b.Options[0] != "All" {
				t.Fatalf("options=%v want [All]", b.Options)
			}
		}
	}
}

func TestCatalog_CustomFilterField(t *testing.T) {
	charts := Catalog(sampleTable(), Options{Field: ColModelSeries})
	hist := charts[4].Spec
	if hist.Encoding.Detail == nil || hist.Encoding.Detail.Field != ColModelSeries {
		t.Fatalf("detail=%+v want %q", hist.Encoding.Detail, ColModelSeries)
	}
	b, err := json.Marshal(charts[0].Spec)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(b), `"field":"Model series"`) {
		t.Fatalf("scatter does not reference the custom field: %s", b)
	}
}

func TestInteractive_Channels(t *testing.T) {
	charts := Catalog(sampleTable(), Options{})
	want := map[string][]string{
		"chart1.html":           {"x", "y"},
		"bar_chart.html":        {"x", "y"},
		"disp_power_hex.html":   {"x", "y"},
		"curb_weight_hist.html": {"x", "y"},
	}
	for _, c := range charts {
		w, ok := want[c.File]
		if !ok {
			continue
		}
		for _, p := range c.Spec.Params {
			if p.Bind != "scales" {
				continue
			}
			sel := p.Select.(IntervalSelect)
			if strings.Join(sel.Encodings, ",") != strings.Join(w, ",") {
				t.Errorf("%s zoom encodings=%v want %v", c.File, sel.Encodings, w)
			}
		}
	}
}

func TestEscapeField(t *testing.T) {
	if got := EscapeField("a.b[0]"); got != `a\.b\[0\]` {
		t.Fatalf("got %q", got)
	}
	if got := EscapeField(ColTopSpeed); got != ColTopSpeed {
		t.Fatalf("got %q", got)
	}
}
