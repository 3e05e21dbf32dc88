package chart

import (
	"carviz/internal/category"
	"carviz/pkg/records"
)

// Column names in the car specification export.
const (
	ColName         = "Full car name"
	ColPrice        = "Base price"
	ColAcceleration = "Acceleration (s)"
	ColPower        = "Power (HP)"
	ColTopSpeed     = "Top speed (km/h)"
	ColDisplacement = "Displacement (ccm)"
	ColCurbWeight   = "Curb weight (kg)"
	ColDoors        = "Number of doors"
	ColBodyType     = "Body type"
	ColModelSeries  = "Model series"
	ColGeneration   = "Generation"
)

// RequiredColumns lists the columns the catalog reads.
var RequiredColumns = []string{
	ColName, ColPrice, ColAcceleration, ColPower, ColTopSpeed,
	ColDisplacement, ColCurbWeight, ColDoors, ColBodyType,
	ColModelSeries, ColGeneration,
}

const (
	maxBins       = 40
	scatterSize   = 100
	filterLabel   = "Generáció:"
	countTitle    = "Autók száma"
	schemeNominal = "category20"
	schemeDensity = "turbo"
)

// Chart is one exported visualization.
type Chart struct {
	Name string // stable identifier
	File string // output file name
	Tab  string // tab label in the shell page
	Spec Spec
}

// Options tunes the catalog.
type Options struct {
	// Generations are the dropdown entries, All first.
	Generations []string
	// All is the sentinel that disables filtering; category.All when empty.
	All string
	// Field is the categorical column behind the dropdowns; ColGeneration
	// when empty.
	Field string
	// Unknown marks rows without a category. They keep the neutral color
	// even under All. category.Unknown when empty.
	Unknown string
}

// Catalog builds the five car charts from the cleaned rows. The rows are
// shared read-only by all specs.
func Catalog(t *records.Table, opt Options) []Chart {
	all := opt.All
	if all == "" {
		all = category.All
	}
	field := opt.Field
	if field == "" {
		field = ColGeneration
	}
	unknown := opt.Unknown
	if unknown == "" {
		unknown = category.Unknown
	}
	gens := opt.Generations
	if len(gens) == 0 {
		gens = []string{all}
	}
	filter := func(name string) Filter {
		return Filter{Name: name, Field: field, All: all, Unknown: unknown, Options: gens, Label: filterLabel}
	}
	generation := Field(field, Nominal, "").WithScheme(schemeNominal)
	rows := t.Rows

	return []Chart{
		{
			Name: "price_power",
			File: "chart1.html",
			Tab:  "Ár és Teljesítmény",
			Spec: New(Mark{Type: "circle", Size: scatterSize}, rows,
				"BMW Adatok Vizualizációja - Ár és Teljesítmény", 500).
				X(Field(ColPower, Quantitative, "Teljesítmény (LE)")).
				Y(Field(ColPrice, Quantitative, "Alapár (€)")).
				Filter(filter("Select1"), generation).
				Tooltip(
					Field(ColName, Nominal, ""),
					Field(ColPower, Quantitative, ""),
					Field(ColPrice, Quantitative, ""),
					Field(field, Nominal, ""),
				).
				Interactive().
				Spec(),
		},
		{
			Name: "speed_acceleration",
			File: "chart2.html",
			Tab:  "Sebesség és Gyorsulás",
			Spec: New(Mark{Type: "circle", Size: scatterSize}, rows,
				"BMW Adatok Vizualizációja - Sebesség és Gyorsulás", 500).
				X(Field(ColAcceleration, Quantitative, "Gyorsulás (0-100 km/h, s)")).
				Y(Field(ColTopSpeed, Quantitative, "Végsebesség (km/h)")).
				Filter(filter("Select2"), generation).
				Tooltip(
					Field(ColName, Nominal, ""),
					Field(ColTopSpeed, Quantitative, ""),
					Field(ColAcceleration, Quantitative, ""),
					Field(field, Nominal, ""),
				).
				Interactive().
				Spec(),
		},
		{
			Name: "body_doors",
			File: "bar_chart.html",
			Tab:  "Karosszéria és Ajtók",
			Spec: New(Mark{Type: "bar"}, rows,
				"Karosszéria típus és ajtók száma szerinti eloszlás", 400).
				X(Field(ColDoors, Ordinal, "Ajtók száma")).
				Y(Count(countTitle)).
				Color(Field(ColBodyType, Nominal, "Karosszéria típus").WithScheme(schemeNominal)).
				Tooltip(
					Field(ColBodyType, Nominal, ""),
					Field(ColDoors, Ordinal, ""),
					Count(""),
				).
				Interactive().
				Spec(),
		},
		{
			Name: "displacement_power_density",
			File: "disp_power_hex.html",
			Tab:  "Lökettérfogat és Teljesítmény",
			Spec: New(Mark{Type: "rect"}, rows,
				"Lökettérfogat és Teljesítmény - Sűrűségtérkép", 500).
				X(Field(ColDisplacement, Quantitative, "Lökettérfogat (ccm)").Binned(maxBins)).
				Y(Field(ColPower, Quantitative, "Teljesítmény (LE)").Binned(maxBins)).
				Color(Count("").WithScheme(schemeDensity).WithLegend(countTitle)).
				Tooltip(Count("")).
				Interactive().
				Spec(),
		},
		{
			Name: "curb_weight_histogram",
			File: "curb_weight_hist.html",
			Tab:  "Saját tömeg eloszlás",
			Spec: New(Mark{Type: "bar"}, rows,
				"Saját tömeg (kg) eloszlása modellek szerint", 400).
				X(Field(ColCurbWeight, Quantitative, "Saját tömeg (kg)").Binned(maxBins)).
				Y(Count(countTitle)).
				Filter(filter("Select3"),
					Field(ColModelSeries, Nominal, "Modell").WithScheme(schemeNominal)).
				// Split each bar by generation so the predicate can test it.
				Detail(Field(field, Nominal, "")).
				Tooltip(
					Field(ColModelSeries, Nominal, ""),
					Count(""),
				).
				Interactive().
				Spec(),
		},
	}
}
