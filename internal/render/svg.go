// Package render draws the chart as a standalone SVG document.
package render

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/nissyi-gh/gantt/internal/calendar"
	"github.com/nissyi-gh/gantt/internal/model"
	"github.com/nissyi-gh/gantt/internal/route"
	"github.com/nissyi-gh/gantt/internal/timeline"
	"gopkg.in/yaml.v3"
)

// Options controls the look of the rendered chart. Values missing from a
// YAML file keep their defaults.
type Options struct {
	Font struct {
		Family string `yaml:"family"` // Font family for all text
		Size   int    `yaml:"size"`   // Base font size in pixels
	} `yaml:"font"`
	Colors struct {
		Background string `yaml:"background"` // Canvas colour
		Header     string `yaml:"header"`     // Header band fill
		Grid       string `yaml:"grid"`       // Column and row lines
		Text       string `yaml:"text"`       // Labels and task names
		Weekend    string `yaml:"weekend"`    // Weekend column shading, month view only
		Today      string `yaml:"today"`      // Today column shading
		Arrow      string `yaml:"arrow"`      // Dependency arrows and arrowhead
	} `yaml:"colors"`
	Layout struct {
		HeaderHeight int `yaml:"header_height"` // Height of the two header rows together
		RowHeight    int `yaml:"row_height"`    // Height of one task row
		NameWidth    int `yaml:"name_width"`    // Width of the task name gutter
		BarPadding   int `yaml:"bar_padding"`   // Vertical gap between a bar and its row lines
	} `yaml:"layout"`
	ShowArrows bool `yaml:"show_arrows"` // Draw dependency arrows

	// Today is shaded when it falls inside the window. Zero disables it.
	Today time.Time `yaml:"-"`
}

// DefaultOptions returns the built-in look.
func DefaultOptions() Options {
	var o Options
	o.Font.Family = "Arial, sans-serif"
	o.Font.Size = 12
	o.Colors.Background = "#ffffff"
	o.Colors.Header = "#f8fafc"
	o.Colors.Grid = "#e2e8f0"
	o.Colors.Text = "#1e293b"
	o.Colors.Weekend = "#f1f5f9"
	o.Colors.Today = "#fef3c7"
	o.Colors.Arrow = "#64748b"
	o.Layout.HeaderHeight = 48
	o.Layout.RowHeight = timeline.DefaultRowHeight
	o.Layout.NameWidth = 200
	o.Layout.BarPadding = 10
	o.ShowArrows = true
	return o
}

// LoadOptions reads a YAML options file over the defaults. An empty path
// returns the defaults.
func LoadOptions(path string) (Options, error) {
	opts := DefaultOptions()
	if path == "" {
		return opts, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Options{}, fmt.Errorf("read render config: %w", err)
	}
	if err := yaml.Unmarshal(data, &opts); err != nil {
		return Options{}, fmt.Errorf("parse render config: %w", err)
	}
	if opts.Layout.RowHeight <= 0 {
		return Options{}, fmt.Errorf("parse render config: row_height must be positive, got %d", opts.Layout.RowHeight)
	}
	opts.Layout.BarPadding = max(0, min(opts.Layout.BarPadding, (opts.Layout.RowHeight-2)/2))
	return opts, nil
}

// SVG writes the chart of tasks in the window cfg. Rows follow list order.
func SVG(w io.Writer, tasks []model.Task, cfg timeline.Config, opts Options) error {
	var svg strings.Builder

	lay := opts.Layout
	width := lay.NameWidth + cfg.TotalWidth
	bodyHeight := len(tasks) * lay.RowHeight
	height := lay.HeaderHeight + bodyHeight

	svg.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg width="%d" height="%d" xmlns="http://www.w3.org/2000/svg">
<rect width="100%%" height="100%%" fill="%s"/>
<defs>
<style>
.title-text { font-family: %s; font-size: %dpx; font-weight: bold; fill: %s; }
.label-text { font-family: %s; font-size: %dpx; fill: %s; }
.bar-text { font-family: %s; font-size: %dpx; fill: %s; }
</style>
<marker id="%s" markerWidth="%d" markerHeight="%d" refX="%d" refY="%s" orient="auto">
<polygon points="0 0, %d %s, 0 %d" fill="%s"/>
</marker>
<clipPath id="chart-body"><rect x="0" y="0" width="%d" height="%d"/></clipPath>
</defs>
`, width, height, opts.Colors.Background,
		opts.Font.Family, opts.Font.Size+2, opts.Colors.Text,
		opts.Font.Family, opts.Font.Size-1, opts.Colors.Text,
		opts.Font.Family, opts.Font.Size-1, opts.Colors.Text,
		route.MarkerID, route.MarkerWidth, route.MarkerHeight, route.MarkerWidth, half(route.MarkerHeight),
		route.MarkerWidth, half(route.MarkerHeight), route.MarkerHeight, opts.Colors.Arrow,
		cfg.TotalWidth, bodyHeight))

	writeHeader(&svg, cfg, opts)

	svg.WriteString(fmt.Sprintf(`<g transform="translate(%d,%d)">`+"\n", lay.NameWidth, lay.HeaderHeight))
	writeGrid(&svg, cfg, len(tasks), opts)
	if opts.ShowArrows {
		svg.WriteString(`<g clip-path="url(#chart-body)">` + "\n")
		for _, a := range route.Arrows(tasks, cfg, route.DefaultOptions(lay.RowHeight)) {
			svg.WriteString(fmt.Sprintf(`<path id="dep-%s" d="%s" stroke="%s" stroke-width="1.5" fill="none" marker-end="url(#%s)"/>`+"\n",
				escapeXML(a.ID), a.Path, opts.Colors.Arrow, route.MarkerID))
		}
		svg.WriteString("</g>\n")
	}
	for i, t := range tasks {
		writeBar(&svg, t, cfg, i, opts)
	}
	svg.WriteString("</g>\n")

	for i, t := range tasks {
		y := lay.HeaderHeight + i*lay.RowHeight + lay.RowHeight/2
		svg.WriteString(fmt.Sprintf(`<text x="8" y="%d" dominant-baseline="middle" class="label-text">%s</text>`+"\n",
			y, escapeXML(t.Name)))
	}

	svg.WriteString("</svg>\n")

	if _, err := io.WriteString(w, svg.String()); err != nil {
		return fmt.Errorf("write svg: %w", err)
	}
	return nil
}

func writeHeader(svg *strings.Builder, cfg timeline.Config, opts Options) {
	lay := opts.Layout
	row := lay.HeaderHeight / 2

	svg.WriteString(fmt.Sprintf(`<rect x="0" y="0" width="%d" height="%d" fill="%s"/>`+"\n",
		lay.NameWidth+cfg.TotalWidth, lay.HeaderHeight, opts.Colors.Header))
	svg.WriteString(fmt.Sprintf(`<text x="%d" y="%d" dominant-baseline="middle" class="title-text">%s</text>`+"\n",
		lay.NameWidth+8, row/2, escapeXML(timeline.HeaderLabel(cfg.StartDate, cfg.Mode))))

	for _, col := range cfg.Columns {
		x := lay.NameWidth + col.Left
		if fill := columnFill(col, cfg.Mode, opts); fill != "" {
			svg.WriteString(fmt.Sprintf(`<rect x="%d" y="%d" width="%d" height="%d" fill="%s"/>`+"\n",
				x, row, col.Width, lay.HeaderHeight-row, fill))
		}
		svg.WriteString(fmt.Sprintf(`<text x="%d" y="%d" text-anchor="middle" dominant-baseline="middle" class="label-text">%s</text>`+"\n",
			x+col.Width/2, row+row/2, escapeXML(col.Label)))
	}
	svg.WriteString(fmt.Sprintf(`<line x1="0" y1="%d" x2="%d" y2="%d" stroke="%s" stroke-width="1"/>`+"\n",
		lay.HeaderHeight, lay.NameWidth+cfg.TotalWidth, lay.HeaderHeight, opts.Colors.Grid))
}

// columnFill returns the shading of a column, or "" for none.
func columnFill(col timeline.Column, mode timeline.ViewMode, opts Options) string {
	if !opts.Today.IsZero() && mode == timeline.ViewMonth && calendar.IsToday(col.Date, opts.Today) {
		return opts.Colors.Today
	}
	if mode == timeline.ViewMonth && calendar.IsWeekend(col.Date) {
		return opts.Colors.Weekend
	}
	return ""
}

func writeGrid(svg *strings.Builder, cfg timeline.Config, rows int, opts Options) {
	lay := opts.Layout
	height := rows * lay.RowHeight

	for _, col := range cfg.Columns {
		if fill := columnFill(col, cfg.Mode, opts); fill != "" {
			svg.WriteString(fmt.Sprintf(`<rect x="%d" y="0" width="%d" height="%d" fill="%s"/>`+"\n",
				col.Left, col.Width, height, fill))
		}
		svg.WriteString(fmt.Sprintf(`<line x1="%d" y1="0" x2="%d" y2="%d" stroke="%s" stroke-width="1"/>`+"\n",
			col.Left, col.Left, height, opts.Colors.Grid))
	}

	// year view marks today with a line since its columns are whole months
	if !opts.Today.IsZero() && cfg.Mode == timeline.ViewYear {
		if d := calendar.DaysBetween(cfg.StartDate, opts.Today); d >= 0 && d < cfg.Days() {
			x := cfg.OffsetOf(opts.Today) + cfg.PixelsPerDay/2
			svg.WriteString(fmt.Sprintf(`<line x1="%d" y1="0" x2="%d" y2="%d" stroke="%s" stroke-width="2"/>`+"\n",
				x, x, height, opts.Colors.Today))
		}
	}

	for r := 1; r <= rows; r++ {
		y := r * lay.RowHeight
		svg.WriteString(fmt.Sprintf(`<line x1="0" y1="%d" x2="%d" y2="%d" stroke="%s" stroke-width="1"/>`+"\n",
			y, cfg.TotalWidth, y, opts.Colors.Grid))
	}
}

func writeBar(svg *strings.Builder, t model.Task, cfg timeline.Config, row int, opts Options) {
	lay := opts.Layout
	pos := timeline.TaskPosition(t, cfg, row, lay.RowHeight)
	bar, ok := pos.Clip(cfg.TotalWidth)
	if !ok {
		return
	}

	fill := t.Fill()
	y := bar.Top + lay.BarPadding
	h := lay.RowHeight - 2*lay.BarPadding

	dash := ""
	if t.Blocked {
		dash = ` stroke-dasharray="4 2"`
	}
	svg.WriteString(fmt.Sprintf(`<g id="task-%s">`+"\n", escapeXML(t.ID)))
	svg.WriteString(fmt.Sprintf(`<rect x="%d" y="%d" width="%d" height="%d" rx="4" fill="%s" stroke="%s" stroke-width="1"%s/>`+"\n",
		bar.Left, y, bar.Width, h, fill.Background, fill.Border, dash))
	if pw := timeline.ProgressWidth(pos, bar, t.Progress()); pw > 0 {
		svg.WriteString(fmt.Sprintf(`<rect x="%d" y="%d" width="%d" height="%d" rx="4" fill="%s"/>`+"\n",
			bar.Left, y, pw, h, fill.Progress))
	}
	svg.WriteString(fmt.Sprintf(`<text x="%d" y="%d" dominant-baseline="middle" class="bar-text">%s</text>`+"\n",
		bar.Left+6, bar.Top+lay.RowHeight/2, escapeXML(barLabel(t))))
	svg.WriteString("</g>\n")
}

func barLabel(t model.Task) string {
	if len(t.Subtasks) == 0 {
		return t.Name
	}
	return fmt.Sprintf("%s (%d%%)", t.Name, t.Progress())
}

func half(n int) string {
	if n%2 == 0 {
		return fmt.Sprint(n / 2)
	}
	return fmt.Sprintf("%d.5", n/2)
}

func escapeXML(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	s = strings.ReplaceAll(s, "\"", "&quot;")
	s = strings.ReplaceAll(s, "'", "&apos;")
	return s
}
