package report

import (
	"fmt"
	"io"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"network-quality/internal/analysis"
	"network-quality/internal/models"
)

var (
	gridColor = drawing.Color{R: 200, G: 200, B: 200, A: 255}

	metricColors = map[string]drawing.Color{
		analysis.Ping.Name:     {R: 214, G: 39, B: 40, A: 255},
		analysis.Download.Name: {R: 44, G: 160, B: 44, A: 255},
		analysis.Upload.Name:   {R: 31, G: 119, B: 180, A: 255},
	}

	statusColors = map[models.Status]drawing.Color{
		models.StatusSuccess: {R: 44, G: 160, B: 44, A: 255},
		models.StatusFailed:  {R: 214, G: 39, B: 40, A: 255},
		models.StatusTimeout: {R: 255, G: 127, B: 14, A: 255},
		models.StatusError:   {R: 148, G: 103, B: 189, A: 255},
	}
)

var padding = chart.Style{
	Padding: chart.Box{
		Top:    20,
		Left:   20,
		Right:  20,
		Bottom: 20,
	},
}

func periodLabel(days int) string {
	if days <= 0 {
		return "All Data"
	}
	return fmt.Sprintf("Last %d Days", days)
}

// RenderTimeSeries draws one metric of the successful records over time as a PNG
func RenderTimeSeries(w io.Writer, records []models.Record, metric analysis.Metric, days int) error {
	ok := analysis.Successful(records)
	if len(ok) < 2 {
		return ErrNotEnoughData
	}

	timestamps := make([]time.Time, len(ok))
	for i, r := range ok {
		timestamps[i] = r.Timestamp
	}
	values := metric.Values(ok)
	color := metricColors[metric.Name]

	graph := chart.Chart{
		Title: fmt.Sprintf("%s (%s) - %s", metric.Label, metric.Unit, periodLabel(days)),
		TitleStyle: chart.Style{
			FontSize: 16,
		},
		Background: padding,
		Width:      1200,
		Height:     400,
		XAxis: chart.XAxis{
			Name: "Time",
			NameStyle: chart.Style{
				FontSize: 12,
			},
			Style: chart.Style{
				StrokeColor: drawing.ColorBlack,
				FontSize:    10,
			},
			ValueFormatter: chart.TimeValueFormatterWithFormat("01/02 15:04"),
		},
		YAxis: chart.YAxis{
			Name: fmt.Sprintf("%s (%s)", metric.Label, metric.Unit),
			NameStyle: chart.Style{
				FontSize: 12,
			},
			Style: chart.Style{
				StrokeColor: drawing.ColorBlack,
				FontSize:    10,
			},
			Range: upperRange(values),
			GridMajorStyle: chart.Style{
				StrokeColor: gridColor,
				StrokeWidth: 1.0,
			},
		},
		Series: []chart.Series{
			chart.TimeSeries{
				Name: metric.Label,
				Style: chart.Style{
					StrokeColor: color,
					StrokeWidth: 1.5,
					DotColor:    color,
					DotWidth:    3,
				},
				XValues: timestamps,
				YValues: values,
			},
		},
	}

	// Add moving average
	if len(values) > 10 {
		ts := graph.Series[0].(chart.TimeSeries)
		graph.Series = append(graph.Series, chart.SMASeries{
			Name: "Moving Avg",
			Style: chart.Style{
				StrokeColor:     drawing.ColorBlack,
				StrokeWidth:     2,
				StrokeDashArray: []float64{5, 5},
			},
			InnerSeries: ts,
			Period:      10,
		})
		graph.Elements = []chart.Renderable{
			chart.Legend(&graph),
		}
	}

	return graph.Render(chart.PNG, w)
}

// RenderDistribution draws a histogram of one metric over the successful records
func RenderDistribution(w io.Writer, records []models.Record, metric analysis.Metric) error {
	ok := analysis.Successful(records)
	if len(ok) == 0 {
		return ErrNotEnoughData
	}

	bars := histogram(metric.Values(ok), histogramBins)
	counts := make([]float64, len(bars))
	for i := range bars {
		bars[i].Style = chart.Style{
			FillColor:   metricColors[metric.Name].WithAlpha(180),
			StrokeColor: drawing.ColorBlack,
			StrokeWidth: 1,
		}
		counts[i] = bars[i].Value
	}

	graph := chart.BarChart{
		Title: fmt.Sprintf("%s Distribution (%s)", metric.Label, metric.Unit),
		TitleStyle: chart.Style{
			FontSize: 16,
		},
		Background: padding,
		Width:      1200,
		Height:     400,
		BarWidth:   40,
		YAxis: chart.YAxis{
			Name:  "Frequency",
			Range: upperRange(counts),
		},
		Bars: bars,
	}

	return graph.Render(chart.PNG, w)
}

// RenderHourly draws the mean of one metric per hour of day
func RenderHourly(w io.Writer, records []models.Record, metric analysis.Metric) error {
	ok := analysis.Successful(records)
	if len(ok) == 0 {
		return ErrNotEnoughData
	}

	hours := analysis.Hourly(ok)
	bars := make([]chart.Value, len(hours))
	means := make([]float64, len(hours))
	for i, h := range hours {
		means[i] = metric.HourlyMean(h)
		bars[i] = chart.Value{
			Label: fmt.Sprintf("%02d", h.Hour),
			Value: means[i],
			Style: chart.Style{
				FillColor:   metricColors[metric.Name].WithAlpha(180),
				StrokeColor: metricColors[metric.Name],
				StrokeWidth: 1,
			},
		}
	}

	graph := chart.BarChart{
		Title: fmt.Sprintf("Average %s by Hour (%s)", metric.Label, metric.Unit),
		TitleStyle: chart.Style{
			FontSize: 16,
		},
		Background: padding,
		Width:      1200,
		Height:     400,
		BarWidth:   30,
		YAxis: chart.YAxis{
			Name:  fmt.Sprintf("%s (%s)", metric.Label, metric.Unit),
			Range: upperRange(means),
		},
		Bars: bars,
	}

	return graph.Render(chart.PNG, w)
}

// RenderStatus draws the number of records per status
func RenderStatus(w io.Writer, records []models.Record) error {
	counts := analysis.StatusCounts(records)
	if len(counts) == 0 {
		return ErrNotEnoughData
	}

	bars := make([]chart.Value, len(counts))
	values := make([]float64, len(counts))
	for i, c := range counts {
		values[i] = float64(c.Count)
		bars[i] = chart.Value{
			Label: string(c.Status),
			Value: values[i],
			Style: chart.Style{
				FillColor:   statusColors[c.Status],
				StrokeColor: statusColors[c.Status],
				StrokeWidth: 1,
			},
		}
	}

	graph := chart.BarChart{
		Title: "Network Status Summary",
		TitleStyle: chart.Style{
			FontSize: 16,
		},
		Background: padding,
		Width:      800,
		Height:     400,
		BarWidth:   80,
		YAxis: chart.YAxis{
			Name:  "Count",
			Range: upperRange(values),
		},
		Bars: bars,
	}

	return graph.Render(chart.PNG, w)
}
