package plotpage

import (
	"fmt"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/Sumatoshi-tech/yearcal/pkg/calendar"
	"github.com/Sumatoshi-tech/yearcal/pkg/render"
)

const (
	heatMapHeight  = "240px"
	labelFontSize  = 9
	weekLabelEvery = "3"
)

// weekColumn returns the Monday-first week index of d counted from the week
// holding January 1st.
func weekColumn(d calendar.Date) int {
	jan1 := calendar.NewDate(d.Year, time.January, 1).Time()
	offset := (int(jan1.Weekday()) + calendar.DaysPerWeek - 1) % calendar.DaysPerWeek
	dayOfYear := d.Time().YearDay() - 1

	return (offset + dayOfYear) / calendar.DaysPerWeek
}

// buildHeatMapData returns one [week, weekday, count] point per day of the
// grids and the number of week columns.
func buildHeatMapData(months []calendar.MonthGrid) (data []opts.HeatMapData, weeks int) {
	for _, grid := range months {
		for _, cell := range grid.Days() {
			d := calendar.NewDate(grid.Year, grid.Month, cell.Day)
			col := weekColumn(d)
			row := (int(d.Time().Weekday()) + calendar.DaysPerWeek - 1) % calendar.DaysPerWeek

			data = append(data, opts.HeatMapData{
				Name:  d.String(),
				Value: []any{col, row, cell.Count},
			})

			weeks = max(weeks, col+1)
		}
	}

	return data, weeks
}

// NewDensityHeatMap builds a week-by-weekday heatmap of the daily event
// counts, coloured along the same ramp as the month grids.
func NewDensityHeatMap(months []calendar.MonthGrid, maxCount int, style Style, theme Theme) *charts.HeatMap {
	co := NewChartOpts(theme)
	data, weeks := buildHeatMapData(months)

	weekLabels := make([]string, weeks)
	for i := range weekLabels {
		weekLabels[i] = fmt.Sprintf("W%d", i+1)
	}

	hm := charts.NewHeatMap()
	hm.SetGlobalOptions(
		charts.WithTooltipOpts(co.Tooltip("item")),
		charts.WithInitializationOpts(co.Init(style.Width, heatMapHeight)),
		charts.WithXAxisOpts(opts.XAxis{
			Type: "category", Data: weekLabels,
			SplitArea: &opts.SplitArea{Show: opts.Bool(true)},
			AxisLabel: &opts.AxisLabel{Interval: weekLabelEvery, FontSize: labelFontSize, Color: co.TextMutedColor()},
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Type: "category", Data: calendar.WeekdayLabels[:],
			SplitArea: &opts.SplitArea{Show: opts.Bool(true)},
			AxisLabel: &opts.AxisLabel{FontSize: labelFontSize, Color: co.TextMutedColor()},
		}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Calculable: opts.Bool(true), Min: 0, Max: float32(max(maxCount, 1)),
			InRange: &opts.VisualMapInRange{Color: []string{
				render.Shade(calendar.MaxIntensity).Hex(),
				render.Shade(calendar.MinIntensity).Hex(),
			}},
			Orient: "horizontal", Left: "center", Bottom: "2%",
			TextStyle: &opts.TextStyle{Color: co.TextMutedColor()},
		}),
		charts.WithGridOpts(opts.Grid{
			Left: style.GridLeft, Right: style.GridRight, Top: style.GridTop, Bottom: style.GridBottom,
		}),
	)
	hm.AddSeries("Events", data)

	return hm
}
