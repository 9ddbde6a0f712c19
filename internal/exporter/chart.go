package exporter

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strconv"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/austinm2151/ECON-434-FinalProject/internal/poverty"
)

// ChartOptions sets the chart title and size
type ChartOptions struct {
	Title  string
	Width  vg.Length
	Height vg.Length
}

// DefaultChartOptions returns the standard rate chart layout
func DefaultChartOptions() ChartOptions {
	return ChartOptions{
		Title:  "Poverty rate by period",
		Width:  10 * vg.Inch,
		Height: 5 * vg.Inch,
	}
}

// WriteRateChart saves a line chart of rate by period. The format follows the
// file extension (png, svg, pdf).
func WriteRateChart(path string, rates []poverty.PovertyRateRow, opts ChartOptions) error {
	if len(rates) == 0 {
		return fmt.Errorf("write rate chart: no periods to plot")
	}

	p := plot.New()
	p.Title.Text = opts.Title
	p.Title.TextStyle.Font.Size = vg.Points(14)
	p.X.Label.Text = "Period"
	p.Y.Label.Text = "Share of households below the line"
	p.Y.Min = 0
	p.Y.Max = 1

	points := make(plotter.XYs, len(rates))
	ticks := make([]plot.Tick, len(rates))
	for i, r := range rates {
		points[i].X = float64(r.Period)
		points[i].Y = r.Rate
		ticks[i] = plot.Tick{Value: float64(r.Period), Label: strconv.Itoa(r.Period)}
	}
	p.X.Tick.Marker = plot.ConstantTicks(ticks)
	if len(rates) == 1 {
		p.X.Min = points[0].X - 1
		p.X.Max = points[0].X + 1
	}

	line, err := plotter.NewLine(points)
	if err != nil {
		return fmt.Errorf("write rate chart: %w", err)
	}
	line.Color = color.RGBA{R: 178, G: 34, B: 34, A: 255}
	line.Width = vg.Points(2)

	scatter, err := plotter.NewScatter(points)
	if err != nil {
		return fmt.Errorf("write rate chart: %w", err)
	}
	scatter.GlyphStyle.Radius = vg.Points(3)
	scatter.GlyphStyle.Color = line.Color

	p.Add(plotter.NewGrid(), line, scatter)

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := p.Save(opts.Width, opts.Height, path); err != nil {
		return fmt.Errorf("write rate chart: %w", err)
	}
	return nil
}
