// Package exporter writes chart specifications as standalone interactive HTML
// pages plus a tabbed shell page that embeds them.
package exporter

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"log"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/zeebo/xxh3"

	"carviz/internal/chart"
)

// ShellFile is the name of the tabbed wrapper page.
const ShellFile = "visualization.html"

var (
	chartTmpl = template.Must(template.New("chart").Parse(chartHTML))
	shellTmpl = template.Must(template.New("shell").Parse(shellHTML))
)

// Options configures the rendered pages. Zero fields take the values from
// DefaultOptions.
type Options struct {
	Title  string // shell page title and heading
	Logo   string // relative image path shown in the header; not generated
	Credit string // footer text

	VegaVersion      string
	VegaLiteVersion  string
	VegaEmbedVersion string
}

// DefaultOptions returns the branding of the BMW dashboard.
func DefaultOptions() Options {
	return Options{
		Title:            "BMW Adatvizualizáció",
		Logo:             "BMW.svg.png",
		Credit:           "Credit: Orosz Daniel and Szabó Kevin",
		VegaVersion:      "5",
		VegaLiteVersion:  "5.20.1",
		VegaEmbedVersion: "6",
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.Title == "" {
		o.Title = d.Title
	}
	if o.Logo == "" {
		o.Logo = d.Logo
	}
	if o.Credit == "" {
		o.Credit = d.Credit
	}
	if o.VegaVersion == "" {
		o.VegaVersion = d.VegaVersion
	}
	if o.VegaLiteVersion == "" {
		o.VegaLiteVersion = d.VegaLiteVersion
	}
	if o.VegaEmbedVersion == "" {
		o.VegaEmbedVersion = d.VegaEmbedVersion
	}
	return o
}

// Artifact describes one written file.
type Artifact struct {
	Name  string
	Path  string
	Bytes int
	Hash  uint64 // xxh3 of the file content
}

// Tab is one entry of the shell page.
type Tab struct {
	Label string
	File  string
}

// Render returns the standalone HTML page for c.
func Render(c chart.Chart, opt Options) ([]byte, error) {
	opt = opt.withDefaults()
	// json.Marshal escapes <, > and & so the literal cannot close the script
	// element. Values the browser cannot represent (NaN, Inf) fail here.
	spec, err := json.Marshal(c.Spec)
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", c.File, err)
	}
	var buf bytes.Buffer
	err = chartTmpl.Execute(&buf, struct {
		Title            string
		Spec             template.JS
		VegaVersion      string
		VegaLiteVersion  string
		VegaEmbedVersion string
	}{
		Title:            c.Spec.Title,
		Spec:             template.JS(spec),
		VegaVersion:      opt.VegaVersion,
		VegaLiteVersion:  opt.VegaLiteVersion,
		VegaEmbedVersion: opt.VegaEmbedVersion,
	})
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", c.File, err)
	}
	return buf.Bytes(), nil
}

// RenderShell returns the tabbed wrapper page.
func RenderShell(tabs []Tab, opt Options) ([]byte, error) {
	opt = opt.withDefaults()
	var buf bytes.Buffer
	err := shellTmpl.Execute(&buf, struct {
		Title  string
		Logo   string
		Credit string
		Tabs   []Tab
	}{opt.Title, opt.Logo, opt.Credit, tabs})
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", ShellFile, err)
	}
	return buf.Bytes(), nil
}

// Export renders every chart page and the shell in memory and only then
// writes them into dir, overwriting existing files. A rendering failure
// therefore leaves dir untouched.
func Export(dir string, charts []chart.Chart, opt Options) ([]Artifact, error) {
	type page struct {
		name string
		data []byte
	}
	pages := make([]page, 0, len(charts)+1)
	tabs := make([]Tab, 0, len(charts))
	for _, c := range charts {
		b, err := Render(c, opt)
		if err != nil {
			return nil, err
		}
		pages = append(pages, page{name: c.File, data: b})
		tabs = append(tabs, Tab{Label: c.Tab, File: c.File})
	}
	shell, err := RenderShell(tabs, opt)
	if err != nil {
		return nil, err
	}
	pages = append(pages, page{name: ShellFile, data: shell})

	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	out := make([]Artifact, 0, len(pages))
	for _, p := range pages {
		path := filepath.Join(dir, p.name)
		if err := os.WriteFile(path, p.data, 0o644); err != nil {
			return out, fmt.Errorf("write %s: %w", path, err)
		}
		a := Artifact{Name: p.name, Path: path, Bytes: len(p.data), Hash: xxh3.Hash(p.data)}
		log.Printf("wrote %s (%s, xxh3=%016x)", a.Path, humanize.Bytes(uint64(a.Bytes)), a.Hash)
		out = append(out, a)
	}
	return out, nil
}
