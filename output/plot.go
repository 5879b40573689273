package output

import (
	"fmt"
	"io"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"
)

// PlotBench writes an interactive line chart of the measured comparisons per
// input size next to the optimal count and the information-theoretic bound.
func PlotBench(rows []BenchRow, filename string) error {
	return renderToFile(filename, "bench chart", func(w io.Writer) error {
		return RenderBench(rows, w)
	})
}

// RenderBench renders the bench chart page to w.
func RenderBench(rows []BenchRow, w io.Writer) error {
	sizes := make([]int, len(rows))
	worst := make([]opts.LineData, len(rows))
	mean := make([]opts.LineData, len(rows))
	optimal := make([]opts.LineData, len(rows))
	info := make([]opts.LineData, len(rows))
	for i, r := range rows {
		sizes[i] = r.N
		worst[i] = opts.LineData{Value: r.Worst}
		mean[i] = opts.LineData{Value: fmt.Sprintf("%.2f", r.Mean)}
		optimal[i] = opts.LineData{Value: r.Optimal}
		info[i] = opts.LineData{Value: r.InformationBound}
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle:       "Merge-insertion comparisons",
			Width:           "160vh",
			Height:          "90vh",
			Theme:           types.ThemeVintage,
			BackgroundColor: "transparent",
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Comparisons per input size",
			Subtitle: "measured worst and mean against F(n) and ⌈log2 n!⌉",
			Left:     "center",
		}),
		charts.WithLegendOpts(opts.Legend{
			Show: opts.Bool(true),
			Top:  "bottom",
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show:    opts.Bool(true),
			Trigger: "axis",
		}),
		charts.WithXAxisOpts(opts.XAxis{
			Name: "n",
			Type: "category",
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name: "comparisons",
			Type: "value",
		}),
	)

	line.SetXAxis(sizes).
		AddSeries("worst", worst).
		AddSeries("mean", mean).
		AddSeries("F(n)", optimal).
		AddSeries("⌈log2 n!⌉", info)

	return renderPage(w, line)
}

// PlotInsertions writes a bar chart of the comparisons every insertion of
// the outermost level used, next to the limit of its Jacobsthal block.
func PlotInsertions(stats []InsertionStat, filename string) error {
	return renderToFile(filename, "insertion chart", func(w io.Writer) error {
		return RenderInsertions(stats, w)
	})
}

// RenderInsertions renders the insertion chart page to w.
func RenderInsertions(stats []InsertionStat, w io.Writer) error {
	var labels []string
	var used, limit []opts.BarData
	for _, s := range stats {
		if s.Depth != 0 {
			continue
		}
		labels = append(labels, fmt.Sprintf("pend[%d]=%g", s.PendIndex, s.Value))
		used = append(used, opts.BarData{Value: s.Comparisons})
		limit = append(limit, opts.BarData{Value: s.Limit})
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle:       "Merge-insertion insertions",
			Width:           "160vh",
			Height:          "90vh",
			Theme:           types.ThemeVintage,
			BackgroundColor: "transparent",
		}),
		charts.WithTitleOpts(opts.Title{
			Title: "Binary search comparisons per insertion",
			Left:  "center",
		}),
		charts.WithLegendOpts(opts.Legend{
			Show: opts.Bool(true),
			Top:  "bottom",
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show:    opts.Bool(true),
			Trigger: "axis",
		}),
		charts.WithXAxisOpts(opts.XAxis{
			Name: "insertion order",
			Type: "category",
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name: "comparisons",
			Type: "value",
		}),
	)

	bar.SetXAxis(labels).
		AddSeries("used", used).
		AddSeries("block limit", limit)

	return renderPage(w, bar)
}

func renderPage(w io.Writer, chart components.Charter) error {
	page := components.NewPage()
	page.SetLayout(components.PageFlexLayout)
	page.AddCharts(chart)
	return page.Render(w)
}

func renderToFile(filename, what string, render func(io.Writer) error) error {
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("could not create %s file %s: %w", what, filename, err)
	}
	defer f.Close()

	if err := render(f); err != nil {
		return fmt.Errorf("rendering %s: %w", what, err)
	}
	return nil
}
