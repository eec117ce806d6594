// Package stats summarises the image intensities under a voxel selection.
// It stands in for the intensity readouts a viewer would show next to a
// selection: how many voxels, how bright, how varied.
package stats

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"voxedit/pkg/volume"
	"voxedit/pkg/voxel"
)

// entropyBins is the histogram resolution used for the entropy estimate.
const entropyBins = 64

// Summary holds descriptive statistics of the image values at a set of
// selected voxels.
type Summary struct {
	// Count is the number of voxels summarised.
	Count int

	// Mean and StdDev describe the intensity distribution. StdDev is 0
	// for selections of fewer than two voxels.
	Mean   float64
	StdDev float64

	// Min and Max are the intensity extremes.
	Min float64
	Max float64

	// Entropy is the Shannon entropy (in nats) of a 64-bin histogram of
	// the intensities, a rough measure of how much structure the
	// selection covers. Zero for uniform or empty selections.
	Entropy float64
}

// Selection computes summary statistics for the image values at the given
// voxels. An empty coordinate list yields a zero Summary.
func Selection(img volume.Image, coords []voxel.Coord) Summary {
	if len(coords) == 0 {
		return Summary{}
	}

	vals := make([]float64, len(coords))
	lo, hi := math.Inf(1), math.Inf(-1)
	for i, c := range coords {
		v := img.ValueAt(c)
		vals[i] = v
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}

	s := Summary{
		Count: len(vals),
		Mean:  stat.Mean(vals, nil),
		Min:   lo,
		Max:   hi,
	}
	if len(vals) > 1 {
		s.StdDev = stat.StdDev(vals, nil)
	}
	s.Entropy = histogramEntropy(vals, lo, hi)
	return s
}

// histogramEntropy estimates the Shannon entropy of the values using a
// fixed-width histogram normalised to a probability distribution.
func histogramEntropy(vals []float64, lo, hi float64) float64 {
	if hi <= lo {
		return 0
	}

	counts := make([]float64, entropyBins)
	width := (hi - lo) / entropyBins
	for _, v := range vals {
		bin := int((v - lo) / width)
		if bin >= entropyBins {
			bin = entropyBins - 1
		}
		counts[bin]++
	}

	total := float64(len(vals))
	for i := range counts {
		counts[i] /= total
	}
	return stat.Entropy(counts)
}
