package classifier

import (
	"gonum.org/v1/gonum/stat"
)

// Scaler standardizes each column to zero mean and unit variance. Columns
// with zero variance are only centered.
type Scaler struct {
	mean  []float64
	scale []float64
}

// FitScaler learns column statistics from rows.
func FitScaler(rows [][]float64) *Scaler {
	if len(rows) == 0 {
		return &Scaler{}
	}
	width := len(rows[0])
	s := &Scaler{
		mean:  make([]float64, width),
		scale: make([]float64, width),
	}
	column := make([]float64, len(rows))
	for j := 0; j < width; j++ {
		for i, row := range rows {
			column[i] = row[j]
		}
		mean, std := stat.PopMeanStdDev(column, nil)
		s.mean[j] = mean
		if std == 0 {
			std = 1
		}
		s.scale[j] = std
	}
	return s
}

// Transform returns a standardized copy of v.
func (s *Scaler) Transform(v []float64) []float64 {
	out := make([]float64, len(v))
	for j, x := range v {
		if j >= len(s.mean) {
			out[j] = x
			continue
		}
		out[j] = (x - s.mean[j]) / s.scale[j]
	}
	return out
}

// TransformAll standardizes every row.
func (s *Scaler) TransformAll(rows [][]float64) [][]float64 {
	out := make([][]float64, len(rows))
	for i, row := range rows {
		out[i] = s.Transform(row)
	}
	return out
}
