/*
 * lmpplot.go, part of golmp.
 *
 * Copyright 2026 The golmp authors.
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

// Package lmpplot draws thermo columns and MSD series with gonum/plot.
// The image format is taken from the extension of the output file name
// (png, svg, pdf, eps, jpg, tif).
package lmpplot

import (
	"fmt"
	"image/color"

	lmp "github.com/rmera/golmp"
	"github.com/rmera/golmp/analyze"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// Size is the width and height of the saved plots.
var Size = 4 * vg.Inch

func basicPlot(title, xlabel, ylabel string) *plot.Plot {
	p := plot.New()
	p.Title.Padding = 3 * vg.Millimeter
	p.Title.Text = title
	p.X.Label.Text = xlabel
	p.Y.Label.Text = ylabel
	p.Add(plotter.NewGrid())
	return p
}

func addLine(p *plot.Plot, pts plotter.XYs) error {
	l, s, err := plotter.NewLinePoints(pts)
	if err != nil {
		return err
	}
	l.LineStyle.Color = color.RGBA{B: 200, A: 255}
	s.GlyphStyle.Shape = draw.CircleGlyph{}
	s.GlyphStyle.Radius = vg.Points(2)
	s.GlyphStyle.Color = color.RGBA{R: 200, A: 255}
	p.Add(l, s)
	return nil
}

// MSD plots the mean square displacement against the timestep and saves it to filename.
func MSD(S *analyze.Series, title, filename string) error {
	if S.Len() == 0 {
		return lmp.NewError(lmp.EmptyColumnSet, filename, "no points to plot", "lmpplot.MSD")
	}
	pts := make(plotter.XYs, S.Len())
	for i, ts := range S.Timesteps {
		pts[i].X = float64(ts)
		pts[i].Y = S.Values[i]
	}
	p := basicPlot(title, "Timestep", "MSD")
	if err := addLine(p, pts); err != nil {
		return lmp.NewError(lmp.WrongFormat, filename, err.Error(), "lmpplot.MSD").Wrap(err)
	}
	return save(p, filename, "lmpplot.MSD")
}

// Thermo plots the column y of a thermo table against the column x, and saves
// the plot to filename.
func Thermo(T *lmp.Table, x, y, filename string) error {
	if T.Len() == 0 {
		return lmp.NewError(lmp.EmptyColumnSet, filename, "no rows to plot", "lmpplot.Thermo")
	}
	D, err := T.Dense(x, y)
	if err != nil {
		return lmp.Decorate(err, "lmpplot.Thermo")
	}
	pts := make(plotter.XYs, T.Len())
	for i := range pts {
		pts[i].X = D.At(i, 0)
		pts[i].Y = D.At(i, 1)
	}
	p := basicPlot(fmt.Sprintf("%s vs %s", y, x), x, y)
	//5% margin above and below the data.
	ys := mat.Col(nil, 1, D)
	lo, hi := floats.Min(ys), floats.Max(ys)
	pad := 0.05 * (hi - lo)
	p.Y.Min, p.Y.Max = lo-pad, hi+pad
	if err := addLine(p, pts); err != nil {
		return lmp.NewError(lmp.WrongFormat, filename, err.Error(), "lmpplot.Thermo").Wrap(err)
	}
	return save(p, filename, "lmpplot.Thermo")
}

func save(p *plot.Plot, filename, caller string) error {
	if err := p.Save(Size, Size, filename); err != nil {
		return lmp.NewError(lmp.WrongFormat, filename, "can't save plot", caller).Wrap(err)
	}
	return nil
}
