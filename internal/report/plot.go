// Package report renders sweep fronts: PNG panels via gonum/plot, HTML
// scatter pages via go-echarts, and a small HTTP server over the store.
package report

import (
	"fmt"
	"image/color"
	"os"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/banshee-data/pareto.report/internal/scalarize"
)

var (
	decisionColor = color.RGBA{B: 255, A: 255}
	frontColor    = color.RGBA{R: 255, A: 255}
)

// RenderPanels writes one PNG with four tiled panels: decision space and
// objective front for each of the two sweeps, epsilon on the top row.
func RenderPanels(path string, eps, ws *scalarize.Front) error {
	epsDecision, err := decisionPlot(eps)
	if err != nil {
		return fmt.Errorf("epsilon decision panel: %w", err)
	}
	epsFront, err := frontPlot(eps)
	if err != nil {
		return fmt.Errorf("epsilon front panel: %w", err)
	}
	wsDecision, err := decisionPlot(ws)
	if err != nil {
		return fmt.Errorf("weighted-sum decision panel: %w", err)
	}
	wsFront, err := frontPlot(ws)
	if err != nil {
		return fmt.Errorf("weighted-sum front panel: %w", err)
	}

	panels := [][]*plot.Plot{
		{epsDecision, epsFront},
		{wsDecision, wsFront},
	}

	img := vgimg.New(vg.Points(1000), vg.Points(500))
	dc := draw.New(img)
	tiles := draw.Tiles{
		Rows: 2, Cols: 2,
		PadX: vg.Millimeter * 2, PadY: vg.Millimeter * 2,
		PadTop: vg.Millimeter, PadBottom: vg.Millimeter,
		PadLeft: vg.Millimeter, PadRight: vg.Millimeter,
	}
	canvases := plot.Align(panels, tiles, dc)
	for r := range panels {
		for c := range panels[r] {
			panels[r][c].Draw(canvases[r][c])
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	png := vgimg.PngCanvas{Canvas: img}
	if _, err := png.WriteTo(f); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

// decisionPlot scatters the first two decision variables across the
// sweep.
func decisionPlot(front *scalarize.Front) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s (%s) - decision space", front.Problem, front.Method)
	p.X.Label.Text = "X"
	p.Y.Label.Text = "Y"
	p.Add(plotter.NewGrid())

	pts := make(plotter.XYs, 0, len(front.Points))
	for _, pt := range front.Points {
		if len(pt.X) < 2 {
			return nil, fmt.Errorf("front %s/%s: need two decision variables, point has %d",
				front.Problem, front.Method, len(pt.X))
		}
		pts = append(pts, plotter.XY{X: pt.X[0], Y: pt.X[1]})
	}

	sc, err := plotter.NewScatter(pts)
	if err != nil {
		return nil, err
	}
	sc.GlyphStyle.Color = decisionColor
	sc.GlyphStyle.Radius = vg.Points(3)
	sc.GlyphStyle.Shape = draw.RingGlyph{}
	p.Add(sc)
	p.Legend.Add("decision/coordinate space", sc)
	p.Legend.Top = true
	return p, nil
}

// frontPlot draws the objective-space front as a connected line with
// point markers.
func frontPlot(front *scalarize.Front) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s (%s) - objective space", front.Problem, front.Method)
	p.X.Label.Text = "objective F1"
	p.Y.Label.Text = "objective F2"
	p.Add(plotter.NewGrid())

	pts := make(plotter.XYs, 0, len(front.Points))
	for _, pt := range front.Points {
		pts = append(pts, plotter.XY{X: pt.F1, Y: pt.F2})
	}

	line, sc, err := plotter.NewLinePoints(pts)
	if err != nil {
		return nil, err
	}
	line.Color = frontColor
	line.Width = vg.Points(1)
	sc.GlyphStyle.Color = frontColor
	sc.GlyphStyle.Radius = vg.Points(2.5)
	p.Add(line, sc)
	p.Legend.Add("Pareto optimal front", line, sc)
	p.Legend.Top = true
	return p, nil
}
