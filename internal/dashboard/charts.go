package dashboard

import (
	"fmt"
	"html/template"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/render"

	"github.com/okian/ukestate/internal/domain/types"
)

// Band shades a date range of the monthly sales chart.
type Band struct {
	Name  string
	From  string
	To    string
	Color string
}

// Presentation constants for the historical events chart.
const (
	salesChartTitle = "Monthly Sales in UK Real Estate Market (1995-2023)"
	salesSeries     = "Number of Sales"
	salesYMax       = 200000
	chartHeight     = "560px"
)

// HistoricalBands are the overlays drawn on the monthly sales chart.
var HistoricalBands = []Band{
	{Name: "Financial Crisis", From: "2007-12-01", To: "2009-06-01", Color: "rgba(31, 119, 180, 0.25)"},
	{Name: "Brexit Pre-Referendum", From: "2016-01-01", To: "2016-06-01", Color: "rgba(255, 127, 14, 0.25)"},
	{Name: "COVID-19 Pandemic", From: "2020-03-01", To: "2021-11-01", Color: "rgba(44, 160, 44, 0.25)"},
}

// Chart is a rendered chart ready to be placed in a page.
type Chart struct {
	Element template.HTML
	Script  template.HTML
}

// SalesChart draws num_sales over date with the historical bands.
func SalesChart(points []types.MonthlySalesPoint) Chart {
	dates := make([]string, 0, len(points))
	values := make([]opts.LineData, 0, len(points))
	for _, p := range points {
		dates = append(dates, p.Date)
		values = append(values, opts.LineData{Value: p.NumSales})
	}

	bands := make([]opts.MarkAreaNameCoordItem, 0, len(HistoricalBands))
	for _, b := range HistoricalBands {
		bands = append(bands, opts.MarkAreaNameCoordItem{
			Name:        b.Name,
			Coordinate0: []interface{}{b.From, 0},
			Coordinate1: []interface{}{b.To, salesYMax},
			ItemStyle:   &opts.ItemStyle{Color: b.Color},
		})
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{ChartID: "monthly-sales", Width: "100%", Height: chartHeight}),
		charts.WithTitleOpts(opts.Title{Title: salesChartTitle}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Transaction Date", Type: "category"}),
		charts.WithYAxisOpts(opts.YAxis{Name: salesSeries, Min: 0, Max: salesYMax}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Left: "right"}),
	)
	line.SetXAxis(dates).AddSeries(salesSeries, values,
		charts.WithLineStyleOpts(opts.LineStyle{Color: "red"}),
		charts.WithMarkAreaNameCoordItemOpts(bands...),
	)
	return snippet(line.RenderSnippet())
}

// NeighborhoodsChart draws average price per "town - district".
func NeighborhoodsChart(year types.Year, rows []types.NeighborhoodPriceSummary) Chart {
	labels := make([]string, 0, len(rows))
	values := make([]opts.BarData, 0, len(rows))
	for _, r := range rows {
		labels = append(labels, r.Label())
		values = append(values, opts.BarData{Value: r.Price})
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{ChartID: "neighborhoods", Width: "100%", Height: chartHeight}),
		charts.WithTitleOpts(opts.Title{Title: NeighborhoodsTitle(year)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{AxisLabel: &opts.AxisLabel{Rotate: 45, Interval: "0"}}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Average Price (£)"}),
	)
	bar.SetXAxis(labels).AddSeries("Average Price", values,
		charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Position: "top"}),
	)
	return snippet(bar.RenderSnippet())
}

// NeighborhoodsTitle is the heading of the bar chart for year.
func NeighborhoodsTitle(year types.Year) string {
	return fmt.Sprintf("Most Expensive Neighborhoods in %s", year)
}

func snippet(s render.ChartSnippet) Chart {
	return Chart{
		Element: template.HTML(s.Element), //nolint:gosec // generated by go-echarts
		Script:  template.HTML(s.Script),  //nolint:gosec // generated by go-echarts
	}
}
