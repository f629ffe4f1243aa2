package report

import (
	"context"
	"fmt"
	"image/color"
	"math"
	"path/filepath"
	"sort"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"retailclean/internal/schema"
	"retailclean/pkg/records"
)

// Chart file names.
const (
	AgeChart        = "age_distribution.png"
	AmountChart     = "amount_spent_distribution.png"
	CityChart       = "customers_by_city.png"
	MembershipChart = "amount_spent_by_membership.png"
)

// kdePoints is the number of samples along the density curve.
const kdePoints = 200

var (
	blue  = color.RGBA{R: 31, G: 119, B: 180, A: 255}
	green = color.RGBA{R: 44, G: 160, B: 44, A: 255}
	gray  = color.RGBA{R: 90, G: 90, B: 90, A: 255}
)

type chartJob struct {
	file   string
	width  vg.Length
	height vg.Length
	build  func() (*plot.Plot, error)
}

// RenderCharts writes the four summary charts into dir concurrently and
// returns their paths in a fixed order. rows are only read.
func RenderCharts(ctx context.Context, dir string, rows []records.Record) ([]string, error) {
	jobs := []chartJob{
		{AgeChart, 8 * vg.Inch, 5 * vg.Inch, func() (*plot.Plot, error) {
			return histogramPlot(column(rows, schema.Age), "Age Distribution", "Age", "Count", blue)
		}},
		{AmountChart, 8 * vg.Inch, 5 * vg.Inch, func() (*plot.Plot, error) {
			return histogramPlot(column(rows, schema.AmountSpent), "Amount Spent Distribution", "Amount Spent", "Frequency", green)
		}},
		{CityChart, 10 * vg.Inch, 5 * vg.Inch, func() (*plot.Plot, error) {
			return cityPlot(rows)
		}},
		{MembershipChart, 10 * vg.Inch, 5 * vg.Inch, func() (*plot.Plot, error) {
			return membershipPlot(rows)
		}},
	}

	paths := make([]string, len(jobs))
	g, gctx := errgroup.WithContext(ctx)
	for i, j := range jobs {
		paths[i] = filepath.Join(dir, j.file)
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			p, err := j.build()
			if err != nil {
				return fmt.Errorf("chart %s: %w", j.file, err)
			}
			if err := p.Save(j.width, j.height, paths[i]); err != nil {
				return fmt.Errorf("chart %s: save: %w", j.file, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return paths, nil
}

// column collects the present float values of col.
func column(rows []records.Record, col string) []float64 {
	out := make([]float64, 0, len(rows))
	for _, r := range rows {
		if v, ok := r.Float(col); ok {
			out = append(out, v)
		}
	}
	return out
}

// histogramPlot draws a count histogram with a Gaussian KDE overlay scaled
// to counts.
func histogramPlot(xs []float64, title, xLabel, yLabel string, c color.Color) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xLabel
	p.Y.Label.Text = yLabel
	if len(xs) == 0 {
		return p, nil
	}

	bins := sturgesBins(len(xs))
	h, err := plotter.NewHist(plotter.Values(xs), bins)
	if err != nil {
		return nil, err
	}
	h.FillColor = c
	h.LineStyle.Color = color.White
	p.Add(h)

	if curve := kdeCurve(xs, h.Width); curve != nil {
		l, err := plotter.NewLine(curve)
		if err != nil {
			return nil, err
		}
		l.LineStyle.Color = c
		l.LineStyle.Width = vg.Points(2)
		p.Add(l)
	}
	return p, nil
}

// sturgesBins is ceil(log2(n)) + 1.
func sturgesBins(n int) int {
	if n <= 1 {
		return 1
	}
	return int(math.Ceil(math.Log2(float64(n)))) + 1
}

// kdeCurve evaluates a Gaussian kernel density estimate over the data range
// using Scott's bandwidth, scaled by len(xs)*binWidth so it overlays a count
// histogram. It returns nil when the spread is zero.
func kdeCurve(xs []float64, binWidth float64) plotter.XYs {
	if len(xs) < 2 || binWidth <= 0 {
		return nil
	}
	sd := stat.StdDev(xs, nil)
	bw := sd * math.Pow(float64(len(xs)), -0.2)
	if bw <= 0 || math.IsNaN(bw) {
		return nil
	}
	kernels := make([]distuv.Normal, len(xs))
	for i, x := range xs {
		kernels[i] = distuv.Normal{Mu: x, Sigma: bw}
	}

	lo, hi := xs[0], xs[0]
	for _, x := range xs {
		lo, hi = math.Min(lo, x), math.Max(hi, x)
	}
	pts := make(plotter.XYs, kdePoints)
	step := (hi - lo) / float64(kdePoints-1)
	for i := range pts {
		x := lo + float64(i)*step
		var d float64
		for _, k := range kernels {
			d += k.Prob(x)
		}
		pts[i].X = x
		pts[i].Y = d * binWidth
	}
	return pts
}

// cityPlot counts rows per city in first-seen order. Missing cities are not
// plotted.
func cityPlot(rows []records.Record) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = "Customers by City"
	p.X.Label.Text = "City"
	p.Y.Label.Text = "Count"
	p.X.Tick.Label.Rotation = math.Pi / 4

	var names []string
	counts := map[string]float64{}
	for _, r := range rows {
		city, ok := r.String(schema.City)
		if !ok {
			continue
		}
		if _, seen := counts[city]; !seen {
			names = append(names, city)
		}
		counts[city]++
	}
	if len(names) == 0 {
		return p, nil
	}

	vals := make(plotter.Values, len(names))
	for i, n := range names {
		vals[i] = counts[n]
	}
	bars, err := plotter.NewBarChart(vals, vg.Points(30))
	if err != nil {
		return nil, err
	}
	bars.Color = blue
	bars.LineStyle.Width = 0
	p.Add(bars)
	p.NominalX(names...)
	return p, nil
}

// membershipPlot draws one box of amount_spent per membership level, levels
// sorted by name.
func membershipPlot(rows []records.Record) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = "Amount Spent by Membership Level"
	p.X.Label.Text = "Membership Level"
	p.Y.Label.Text = "Amount Spent"

	groups := map[string]plotter.Values{}
	for _, r := range rows {
		level, ok := r.String(schema.MembershipLevel)
		if !ok {
			continue
		}
		amt, ok := r.Float(schema.AmountSpent)
		if !ok {
			continue
		}
		groups[level] = append(groups[level], amt)
	}
	if len(groups) == 0 {
		return p, nil
	}

	levels := make([]string, 0, len(groups))
	for l := range groups {
		levels = append(levels, l)
	}
	sort.Strings(levels)

	for i, l := range levels {
		box, err := plotter.NewBoxPlot(vg.Points(40), float64(i), groups[l])
		if err != nil {
			return nil, fmt.Errorf("box %s: %w", l, err)
		}
		box.FillColor = blue
		box.MedianStyle.Color = gray
		p.Add(box)
	}
	p.NominalX(levels...)
	return p, nil
}
