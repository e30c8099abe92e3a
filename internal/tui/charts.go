package tui

import (
	"math"

	"github.com/NimbleMarkets/ntcharts/linechart/timeserieslinechart"
	"github.com/NimbleMarkets/ntcharts/sparkline"

	v1 "github.com/fyrsmithlabs/healthdash/pkg/api/v1"
)

const (
	chartWidth      = 48
	chartHeight     = 8
	sparklineWidth  = 30
	sparklineHeight = 3
)

// Sparkline renders the most recent values as a compact bar sparkline.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return EmptyState("no data")
	}
	spark := sparkline.New(sparklineWidth, sparklineHeight)
	spark.PushAll(values)
	spark.Draw()
	return chartStyle.Render(spark.View())
}

// timeChart sizes the y axis to values so small changes stay visible.
func timeChart(values ...float64) timeserieslinechart.Model {
	lo, hi := valueRange(values)
	return timeserieslinechart.New(chartWidth, chartHeight, timeserieslinechart.WithYRange(lo, hi))
}

// valueRange pads the span of values by a tenth on each side and rounds out
// to whole units. Series that never go negative keep a floor of zero.
func valueRange(values []float64) (lo, hi float64) {
	if len(values) == 0 {
		return 0, 1
	}
	lo, hi = values[0], values[0]
	for _, v := range values[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	pad := (hi - lo) / 10
	if pad == 0 {
		pad = 1
	}
	floor := lo
	lo, hi = math.Floor(lo-pad), math.Ceil(hi+pad)
	if floor >= 0 && lo < 0 {
		lo = 0
	}
	return lo, hi
}

// WeightChart plots weight over time.
func WeightChart(points []v1.WeightPoint) string {
	if len(points) == 0 {
		return EmptyState("no weight data yet")
	}
	chart := timeChart(WeightValues(points)...)
	for _, p := range points {
		chart.Push(timeserieslinechart.TimePoint{Time: p.Date, Value: p.Weight})
	}
	chart.DrawBraille()
	return chartStyle.Render(chart.View())
}

// BMIChart plots BMI over time.
func BMIChart(points []v1.BMIPoint) string {
	if len(points) == 0 {
		return EmptyState("no BMI data yet")
	}
	values := make([]float64, len(points))
	for i, p := range points {
		values[i] = p.BMI
	}
	chart := timeChart(values...)
	for _, p := range points {
		chart.Push(timeserieslinechart.TimePoint{Time: p.Date, Value: p.BMI})
	}
	chart.DrawBraille()
	return chartStyle.Render(chart.View())
}

const diastolicSet = "diastolic"

// BloodPressureChart plots systolic and diastolic readings as two series.
func BloodPressureChart(points []v1.BloodPressurePoint) string {
	if len(points) == 0 {
		return EmptyState("no blood pressure data yet")
	}
	values := make([]float64, 0, 2*len(points))
	for _, p := range points {
		values = append(values, p.Systolic, p.Diastolic)
	}
	chart := timeChart(values...)
	chart.SetDataSetStyle(diastolicSet, secondaryChartStyle)
	for _, p := range points {
		chart.Push(timeserieslinechart.TimePoint{Time: p.Date, Value: p.Systolic})
		chart.PushDataSet(diastolicSet, timeserieslinechart.TimePoint{Time: p.Date, Value: p.Diastolic})
	}
	chart.DrawBrailleAll()
	return chartStyle.Render(chart.View())
}

// WeightValues extracts the series values for a sparkline.
func WeightValues(points []v1.WeightPoint) []float64 {
	out := make([]float64, len(points))
	for i, p := range points {
		out[i] = p.Weight
	}
	return out
}
