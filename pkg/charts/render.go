package charts

import (
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"
	chart "github.com/wcharczuk/go-chart/v2"
)

const echartsTheme = types.ThemeWalden

func initOpts(title string) []charts.GlobalOpts {
	return []charts.GlobalOpts{
		charts.WithInitializationOpts(opts.Initialization{
			Theme:  echartsTheme,
			Width:  "100%",
			Height: "640px",
		}),
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	}
}

// barHTML renders a bar chart. Horizontal charts flip the axes so long
// entity names stay readable.
func barHTML(title, seriesName string, labels []string, values []float64, horizontal bool) func(io.Writer) error {
	return func(w io.Writer) error {
		bar := charts.NewBar()
		bar.SetGlobalOptions(initOpts(title)...)

		data := make([]opts.BarData, 0, len(values))
		for _, v := range values {
			data = append(data, opts.BarData{Value: v})
		}
		bar.SetXAxis(labels).AddSeries(seriesName, data)
		if horizontal {
			bar.XYReversal()
		}
		return bar.Render(w)
	}
}

func lineHTML(title, seriesName string, labels []string, values []float64) func(io.Writer) error {
	return func(w io.Writer) error {
		line := charts.NewLine()
		line.SetGlobalOptions(initOpts(title)...)

		data := make([]opts.LineData, 0, len(values))
		for _, v := range values {
			data = append(data, opts.LineData{Value: v})
		}
		line.SetXAxis(labels).AddSeries(seriesName, data)
		return line.Render(w)
	}
}

func scatterHTML(title, seriesName string, labels []string, values []float64) func(io.Writer) error {
	return func(w io.Writer) error {
		scatter := charts.NewScatter()
		scatter.SetGlobalOptions(initOpts(title)...)

		data := make([]opts.ScatterData, 0, len(values))
		for _, v := range values {
			data = append(data, opts.ScatterData{Value: v, SymbolSize: 6})
		}
		scatter.SetXAxis(labels).AddSeries(seriesName, data)
		return scatter.Render(w)
	}
}

func pieHTML(title, seriesName string, labels []string, values []float64) func(io.Writer) error {
	return func(w io.Writer) error {
		pie := charts.NewPie()
		pie.SetGlobalOptions(initOpts(title)...)

		data := make([]opts.PieData, 0, len(values))
		for i, v := range values {
			data = append(data, opts.PieData{Name: labels[i], Value: v})
		}
		pie.AddSeries(seriesName, data)
		return pie.Render(w)
	}
}

// Thumbnail renderers draw a plain PNG with go-chart; the gallery
// resizes them down afterwards.

func barPNG(labels []string, values []float64) func(io.Writer) error {
	return func(w io.Writer) error {
		bars := make([]chart.Value, 0, len(values))
		for i, v := range values {
			bars = append(bars, chart.Value{Label: labels[i], Value: v})
		}
		bc := chart.BarChart{
			Width:    960,
			Height:   540,
			BarWidth: 40,
			Bars:     bars,
		}
		return bc.Render(chart.PNG, w)
	}
}

func linePNG(xs, ys []float64) func(io.Writer) error {
	return func(w io.Writer) error {
		c := chart.Chart{
			Width:  960,
			Height: 540,
			Series: []chart.Series{
				chart.ContinuousSeries{XValues: xs, YValues: ys},
			},
		}
		return c.Render(chart.PNG, w)
	}
}

func piePNG(labels []string, values []float64) func(io.Writer) error {
	return func(w io.Writer) error {
		slices := make([]chart.Value, 0, len(values))
		for i, v := range values {
			slices = append(slices, chart.Value{Label: labels[i], Value: v})
		}
		pc := chart.PieChart{
			Width:  720,
			Height: 540,
			Values: slices,
		}
		return pc.Render(chart.PNG, w)
	}
}
