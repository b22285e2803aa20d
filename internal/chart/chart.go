package chart

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/daryltucker/forest-bench/internal/model"
)

// File names written by WriteAll.
const (
	PrefillVsTPSFile = "prefill_vs_tps.png"
	TPSByModelFile   = "tps_by_model.png"
)

// ErrNoRows is returned when there is nothing to plot.
var ErrNoRows = errors.New("no performance rows to plot")

// WriteAll renders every chart into dir and returns the written paths.
func WriteAll(dir string, rows []model.FlattenedRunRow) ([]string, error) {
	if len(rows) == 0 {
		return nil, ErrNoRows
	}
	charts := []struct {
		file   string
		render func([]model.FlattenedRunRow) (*plot.Plot, vg.Length, error)
	}{
		{PrefillVsTPSFile, PrefillVsTPS},
		{TPSByModelFile, TPSByModel},
	}

	var paths []string
	for _, c := range charts {
		p, width, err := c.render(rows)
		if err != nil {
			return paths, fmt.Errorf("%s: %w", c.file, err)
		}
		path := filepath.Join(dir, c.file)
		if err := p.Save(width, 4*vg.Inch, path); err != nil {
			return paths, fmt.Errorf("failed to save %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// PrefillVsTPS scatters prefill speed against decode speed, one series per
// application.
func PrefillVsTPS(rows []model.FlattenedRunRow) (*plot.Plot, vg.Length, error) {
	p := plot.New()
	p.Title.Text = "Prefill vs Decode Throughput"
	p.X.Label.Text = "Prefill (tokens/s)"
	p.Y.Label.Text = "Decode (tokens/s)"

	apps, byApp := groupBy(rows, func(r model.FlattenedRunRow) string { return r.Application })
	for i, app := range apps {
		pts := make(plotter.XYs, len(byApp[app]))
		for j, r := range byApp[app] {
			pts[j].X = r.PrefillSpeed
			pts[j].Y = r.TPS
		}
		s, err := plotter.NewScatter(pts)
		if err != nil {
			return nil, 0, err
		}
		s.GlyphStyle.Color = plotutil.Color(i)
		s.GlyphStyle.Shape = plotutil.Shape(i)
		s.GlyphStyle.Radius = vg.Points(3)

		p.Add(s)
		p.Legend.Add(app, s)
	}
	p.Legend.Top = true
	p.Add(plotter.NewGrid())

	return p, 8 * vg.Inch, nil
}

// TPSByModel draws the mean decode speed of every canonical model.
func TPSByModel(rows []model.FlattenedRunRow) (*plot.Plot, vg.Length, error) {
	p := plot.New()
	p.Title.Text = "Mean Decode Throughput by Model"
	p.Y.Label.Text = "tokens/s"

	models, byModel := groupBy(rows, func(r model.FlattenedRunRow) string { return r.Model })
	values := make(plotter.Values, len(models))
	ticks := make([]plot.Tick, len(models))
	for i, m := range models {
		tps := make([]float64, len(byModel[m]))
		for j, r := range byModel[m] {
			tps[j] = r.TPS
		}
		mean, err := stats.Mean(tps)
		if err != nil {
			return nil, 0, fmt.Errorf("model %s: %w", m, err)
		}
		values[i] = mean
		ticks[i] = plot.Tick{Value: float64(i), Label: m}
	}

	bar, err := plotter.NewBarChart(values, vg.Points(40))
	if err != nil {
		return nil, 0, err
	}
	bar.Color = plotutil.Color(0)
	p.Add(bar)

	p.X.Min = -0.5
	p.X.Max = float64(len(values)) - 0.5
	p.X.Tick.Marker = plot.ConstantTicks(ticks)
	p.X.Tick.Label.Rotation = 0.6
	p.X.Tick.Label.XAlign = -1

	// Wide enough for long model labels.
	width := max(8*vg.Inch, vg.Length(len(models))*0.9*vg.Inch)
	return p, width, nil
}

// groupBy buckets rows by key, returning keys in first-seen order.
func groupBy(rows []model.FlattenedRunRow, key func(model.FlattenedRunRow) string) ([]string, map[string][]model.FlattenedRunRow) {
	var order []string
	groups := make(map[string][]model.FlattenedRunRow)
	for _, r := range rows {
		k := key(r)
		if _, ok := groups[k]; !ok {
			order = append(order, k)
		}
		groups[k] = append(groups[k], r)
	}
	return order, groups
}
