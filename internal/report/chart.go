package report

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"os"
	"path/filepath"

	"bess-degradation/internal/analysis"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

const (
	chartWidth  = 10 * vg.Inch
	chartHeight = 6 * vg.Inch
)

// NewChart plots SOH (%) against operating year for every scenario, with
// a dashed line at eolThreshold (fraction).
func NewChart(title string, scenarios []analysis.Scenario, eolThreshold float64) (*plot.Plot, error) {
	if len(scenarios) == 0 {
		return nil, errors.New("no scenarios to plot")
	}
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Year"
	p.Y.Label.Text = "SOH (%)"
	p.Y.Min = 0
	p.Y.Max = 100
	p.Add(plotter.NewGrid())
	p.Legend.Top = true

	maxYear := 1
	for i, sc := range scenarios {
		if sc.Result == nil || len(sc.Result.Records) == 0 {
			return nil, fmt.Errorf("scenario %q has no trajectory", sc.Name)
		}
		pts := make(plotter.XYs, len(sc.Result.Records))
		for j, r := range sc.Result.Records {
			pts[j].X = float64(r.Year)
			pts[j].Y = r.SOH * 100
		}
		if n := len(pts) - 1; n > maxYear {
			maxYear = n
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return nil, err
		}
		line.Color = plotutil.Color(i)
		line.Width = vg.Points(2)
		p.Add(line)
		p.Legend.Add(sc.Name, line)
	}

	eol, err := plotter.NewLine(plotter.XYs{{X: 0, Y: eolThreshold * 100}, {X: float64(maxYear), Y: eolThreshold * 100}})
	if err != nil {
		return nil, err
	}
	eol.Color = color.RGBA{R: 200, A: 255}
	eol.Dashes = []vg.Length{vg.Points(6), vg.Points(4)}
	p.Add(eol)
	p.Legend.Add(fmt.Sprintf("EOL %.0f%%", eolThreshold*100), eol)
	return p, nil
}

// WriteChart renders the chart as PNG to w.
func WriteChart(w io.Writer, title string, scenarios []analysis.Scenario, eolThreshold float64) error {
	p, err := NewChart(title, scenarios, eolThreshold)
	if err != nil {
		return err
	}
	wt, err := p.WriterTo(chartWidth, chartHeight, "png")
	if err != nil {
		return err
	}
	_, err = wt.WriteTo(w)
	return err
}

// SaveChart writes a PNG chart to path, creating parent directories.
func SaveChart(path, title string, scenarios []analysis.Scenario, eolThreshold float64) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteChart(f, title, scenarios, eolThreshold); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
