package report

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/banshee-data/pareto.report/internal/scalarize"
)

// FrontHTML renders an interactive two-chart page for a sweep front:
// decision space on the left, objective space on the right. Meant as a
// quick debug view next to the PNG panels.
func FrontHTML(w io.Writer, front *scalarize.Front) error {
	decision := charts.NewScatter()
	decision.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "600px", Height: "500px"}),
		charts.WithTitleOpts(opts.Title{
			Title:    fmt.Sprintf("%s - decision space", front.Problem),
			Subtitle: fmt.Sprintf("method=%s points=%d", front.Method, len(front.Points)),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "X", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Y", NameLocation: "middle", NameGap: 30}),
	)

	dData := make([]opts.ScatterData, 0, len(front.Points))
	for _, pt := range front.Points {
		if len(pt.X) < 2 {
			return fmt.Errorf("front %s/%s: need two decision variables, point has %d",
				front.Problem, front.Method, len(pt.X))
		}
		dData = append(dData, opts.ScatterData{Value: []interface{}{pt.X[0], pt.X[1]}})
	}
	decision.AddSeries("decisions", dData, charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 8}))

	objective := charts.NewScatter()
	objective.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "600px", Height: "500px"}),
		charts.WithTitleOpts(opts.Title{
			Title:    fmt.Sprintf("%s - objective space", front.Problem),
			Subtitle: fmt.Sprintf("method=%s", front.Method),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "F1", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Name: "F2", NameLocation: "middle", NameGap: 30}),
	)

	oData := make([]opts.ScatterData, 0, len(front.Points))
	for _, pt := range front.Points {
		oData = append(oData, opts.ScatterData{Value: []interface{}{pt.F1, pt.F2}})
	}
	objective.AddSeries("front", oData, charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 8}))

	page := components.NewPage()
	page.SetLayout(components.PageFlexLayout)
	page.AddCharts(decision, objective)
	return page.Render(w)
}
