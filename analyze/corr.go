/*
 * corr.go, part of golmp.
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

package analyze

import (
	"fmt"
	"math"
	"math/cmplx"

	lmp "github.com/rmera/golmp"
	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// centered returns v minus its mean, zero-padded to twice its length.
func centered(v []float64) ([]complex128, float64) {
	mean := stat.Mean(v, nil)
	pad := make([]complex128, 2*len(v))
	var norm float64
	for i, x := range v {
		pad[i] = complex(x-mean, 0)
		norm += (x - mean) * (x - mean)
	}
	return pad, norm
}

// Correlation returns the normalized cross-correlation of c1 and c2 for lags
// 0 to len(c1)-1: the ith element is the sum over t of c1[t+i]*c2[t], with
// both series centered, divided by the product of their norms. The
// autocorrelation of a series (c1 and c2 equal) is 1 at lag 0.
func Correlation(c1, c2 []float64) ([]float64, error) {
	if len(c1) == 0 || len(c1) != len(c2) {
		return nil, lmp.NewError(lmp.WrongFormat, "", fmt.Sprintf("can't correlate series of lengths %d and %d", len(c1), len(c2)), "Correlation")
	}
	p1, n1 := centered(c1)
	p2, n2 := centered(c2)
	if n1 == 0 || n2 == 0 {
		return nil, lmp.NewError(lmp.WrongFormat, "", "can't correlate a constant series", "Correlation")
	}
	f := fourier.NewCmplxFFT(len(p1))
	f.Coefficients(p1, p1)
	f.Coefficients(p2, p2)
	for i, v := range p2 {
		p1[i] *= cmplx.Conj(v)
	}
	f.Sequence(p1, p1)
	ret := make([]float64, len(c1))
	for i := range ret {
		ret[i] = real(p1[i])
	}
	//Sequence is not normalized by the FFT length.
	floats.Scale(1/(float64(len(p1))*math.Sqrt(n1*n2)), ret)
	return ret, nil
}

// Autocorrelation returns a table with the columns lag and the given column
// name, holding the autocorrelation function of that column of T. Lags are
// in rows, not in timesteps.
func Autocorrelation(T *lmp.Table, column string) (*lmp.Table, error) {
	c, err := T.Column(column)
	if err != nil {
		return nil, lmp.Decorate(err, "Autocorrelation")
	}
	if !c.Numeric() {
		return nil, lmp.NewError(lmp.WrongFormat, "", fmt.Sprintf("column %s is not numeric", column), "Autocorrelation")
	}
	v := c.Floats()
	acf, err := Correlation(v, v)
	if err != nil {
		return nil, lmp.Decorate(err, "Autocorrelation")
	}
	lags := make([]int64, len(acf))
	for i := range lags {
		lags[i] = int64(i)
	}
	return lmp.NewTable(lmp.NewIntColumn("lag", lags), lmp.NewFloatColumn(column, acf))
}
