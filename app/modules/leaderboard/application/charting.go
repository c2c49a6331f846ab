package leaderboardservice

import (
	"bytes"
	"fmt"

	levelingdomain "github.com/Black-And-White-Club/senshi-bot/app/modules/leveling/domain"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

const maxLabelRunes = 12

// ChartPalette colors the rendered charts.
type ChartPalette struct {
	Background drawing.Color
	Primary    drawing.Color
	Accent     drawing.Color
	Text       drawing.Color
}

// DefaultPalette matches the bot's teal embed color.
var DefaultPalette = ChartPalette{
	Background: drawing.ColorFromHex("1E1F22"),
	Primary:    drawing.ColorFromHex("008080"),
	Accent:     drawing.ColorFromHex("FFD700"),
	Text:       drawing.ColorFromHex("DBDEE1"),
}

func shorten(label string) string {
	r := []rune(label)
	if len(r) <= maxLabelRunes {
		return label
	}
	return string(r[:maxLabelRunes-3]) + "..."
}

// renderStandingsChart draws one bar per member, height = total XP.
func renderStandingsChart(entries []Entry, palette ChartPalette) ([]byte, error) {
	bars := make([]chart.Value, 0, len(entries))
	var top int
	for _, e := range entries {
		top = max(top, e.TotalXP)
		style := chart.Style{FillColor: palette.Primary, StrokeColor: palette.Primary}
		if e.Rank == 1 {
			style = chart.Style{FillColor: palette.Accent, StrokeColor: palette.Accent}
		}
		bars = append(bars, chart.Value{
			Label: shorten(e.Label()),
			Value: float64(e.TotalXP),
			Style: style,
		})
	}
	if top == 0 {
		return renderNoDataPlaceholder("No XP earned yet", palette)
	}

	graph := chart.BarChart{
		Title:      "Leaderboard",
		TitleStyle: chart.Style{FontColor: palette.Text},
		Width:      max(400, 90*len(bars)),
		Height:     400,
		BarWidth:   50,
		Background: chart.Style{
			FillColor: palette.Background,
			Padding:   chart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20},
		},
		Canvas: chart.Style{FillColor: palette.Background},
		XAxis:  chart.Style{FontColor: palette.Text},
		YAxis: chart.YAxis{
			Name:  "Total XP",
			Style: chart.Style{FontColor: palette.Text},
			Range: &chart.ContinuousRange{Min: 0, Max: float64(top) * 1.1},
		},
		Bars: bars,
	}

	buffer := bytes.NewBuffer([]byte{})
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return nil, fmt.Errorf("failed to render leaderboard chart: %w", err)
	}
	return buffer.Bytes(), nil
}

// renderLevelCurve plots the cumulative XP needed to reach each level.
func renderLevelCurve(maxLevel int, palette ChartPalette) ([]byte, error) {
	xValues := make([]float64, 0, maxLevel+1)
	yValues := make([]float64, 0, maxLevel+1)
	for level := 0; level <= maxLevel; level++ {
		xValues = append(xValues, float64(level))
		yValues = append(yValues, float64(levelingdomain.ThresholdXP(level)))
	}

	curve := chart.ContinuousSeries{
		Name:    "XP threshold",
		XValues: xValues,
		YValues: yValues,
		Style: chart.Style{
			StrokeColor: palette.Primary,
			StrokeWidth: 2,
			DotWidth:    3,
			DotColor:    palette.Accent,
		},
	}

	graph := chart.Chart{
		Width:  800,
		Height: 400,
		Background: chart.Style{
			FillColor: palette.Background,
		},
		Canvas: chart.Style{
			FillColor: palette.Background,
		},
		XAxis: chart.XAxis{
			Name:           "Level",
			ValueFormatter: chart.IntValueFormatter,
			Style:          chart.Style{FontColor: palette.Text},
		},
		YAxis: chart.YAxis{
			Name:           "XP",
			ValueFormatter: chart.IntValueFormatter,
			Style:          chart.Style{FontColor: palette.Text},
		},
		Series: []chart.Series{curve},
	}

	buffer := bytes.NewBuffer([]byte{})
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return nil, fmt.Errorf("failed to render level curve: %w", err)
	}
	return buffer.Bytes(), nil
}

func renderNoDataPlaceholder(msg string, palette ChartPalette) ([]byte, error) {
	const (
		width  = 400
		height = 200
	)

	graph := chart.Chart{
		Width:  width,
		Height: height,
		Background: chart.Style{
			FillColor: palette.Background,
		},
		Canvas: chart.Style{
			FillColor: palette.Background,
		},
		Elements: []chart.Renderable{
			func(r chart.Renderer, cb chart.Box, _ chart.Style) {
				r.SetFontColor(palette.Text)
				r.SetFontSize(12.0)
				tb := r.MeasureText(msg)
				x := (cb.Width() - tb.Width()) / 2
				y := (cb.Height() + tb.Height()) / 2
				r.Text(msg, x, y)
			},
		},
	}
	buffer := bytes.NewBuffer([]byte{})
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}
