// Package chart renders a price-history PNG for a stock quote.
package chart

import (
	"bytes"
	"fmt"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/emad-siddiq/sellscalehood/internal/domain"
)

// RenderHistory renders the quote's trailing daily closes as a PNG line
// chart and returns the raw bytes.
func RenderHistory(q *domain.StockQuote) ([]byte, error) {
	if len(q.Historical) < 2 {
		return nil, fmt.Errorf("need at least 2 history points, got %d", len(q.Historical))
	}

	xValues := make([]time.Time, 0, len(q.Historical))
	yValues := make([]float64, 0, len(q.Historical))
	for _, p := range q.Historical {
		day, err := time.Parse("2006-01-02", p.Date)
		if err != nil {
			return nil, fmt.Errorf("bad history date %q: %w", p.Date, err)
		}
		xValues = append(xValues, day)
		yValues = append(yValues, p.Close)
	}

	lineColor := drawing.ColorFromHex("16a34a") // green-600
	if !q.Up() {
		lineColor = drawing.ColorFromHex("dc2626") // red-600
	}

	series := chart.TimeSeries{
		Name: q.Symbol,
		Style: chart.Style{
			StrokeColor: lineColor,
			StrokeWidth: 2.0,
		},
		XValues: xValues,
		YValues: yValues,
	}

	graph := chart.Chart{
		Title:  fmt.Sprintf("%s - %s", q.Symbol, q.Name),
		Width:  900,
		Height: 400,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 10, Right: 20, Bottom: 10},
		},
		XAxis: chart.XAxis{
			TickPosition: chart.TickPositionBetweenTicks,
			ValueFormatter: func(v interface{}) string {
				if t, ok := v.(float64); ok {
					return chart.TimeFromFloat64(t).Format("Jan 02")
				}
				return ""
			},
		},
		YAxis: chart.YAxis{
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("$%.2f", f)
				}
				return ""
			},
		},
		Series: []chart.Series{series},
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("chart render failed: %w", err)
	}
	return buf.Bytes(), nil
}
