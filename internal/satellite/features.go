package satellite

import (
	"sort"

	"gonum.org/v1/gonum/stat"
)

const (
	// feature columns per observation:
	// ndvi, bsi, ndvi_roll, bsi_roll, ndvi_diff, bsi_diff, ndvi_z
	numFeatures = 7

	rollWindow = 3
	stdFloor   = 1e-6
)

// prepareSeries orders observations ascending by date and drops duplicate
// dates, keeping the first occurrence. The input slice is not modified.
func prepareSeries(obs []Observation) []Observation {
	series := make([]Observation, len(obs))
	copy(series, obs)
	sort.SliceStable(series, func(i, j int) bool {
		return series[i].Date.Before(series[j].Date)
	})

	out := series[:0]
	for i, o := range series {
		if i > 0 && o.Date.Equal(out[len(out)-1].Date) {
			continue
		}
		out = append(out, o)
	}
	return out
}

// buildFeatures derives the per-observation feature vectors from a prepared
// series: raw indices, a trailing rolling mean (window 3, minimum 1), the
// first difference (first row 0) and a z-score of the vegetation index over
// the whole series.
func buildFeatures(series []Observation) [][]float64 {
	n := len(series)
	ndvi := make([]float64, n)
	bsi := make([]float64, n)
	for i, o := range series {
		ndvi[i] = o.NDVI
		bsi[i] = o.BSI
	}

	ndviMean, ndviStd := stat.MeanStdDev(ndvi, nil)
	if ndviStd < stdFloor {
		ndviStd = stdFloor
	}

	features := make([][]float64, n)
	for i := range series {
		row := make([]float64, numFeatures)
		row[0] = ndvi[i]
		row[1] = bsi[i]
		row[2] = trailingMean(ndvi, i)
		row[3] = trailingMean(bsi, i)
		if i > 0 {
			row[4] = ndvi[i] - ndvi[i-1]
			row[5] = bsi[i] - bsi[i-1]
		}
		row[6] = (ndvi[i] - ndviMean) / ndviStd
		features[i] = row
	}
	return features
}

// trailingMean is the mean of values[max(0,i-window+1)..i].
func trailingMean(values []float64, i int) float64 {
	start := i - rollWindow + 1
	if start < 0 {
		start = 0
	}
	return stat.Mean(values[start:i+1], nil)
}

// standardizeColumns rescales every feature column to zero mean and unit
// variance in place. Constant columns are left centered but unscaled.
func standardizeColumns(features [][]float64) {
	if len(features) == 0 {
		return
	}
	column := make([]float64, len(features))
	for j := 0; j < numFeatures; j++ {
		for i := range features {
			column[i] = features[i][j]
		}
		mean, std := stat.PopMeanStdDev(column, nil)
		if std == 0 {
			std = 1
		}
		for i := range features {
			features[i][j] = (features[i][j] - mean) / std
		}
	}
}
