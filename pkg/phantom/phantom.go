// Package phantom generates synthetic timeseries and region layouts for
// exercising the roi package. The generators are deterministic for a given
// random source, which makes them usable as reproducible test fixtures.
package phantom

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/dsp/window"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/psadil/nilearn/pkg/masking"
	"github.com/psadil/nilearn/pkg/volume"
)

func defaultRand(rng *rand.Rand) *rand.Rand {
	if rng == nil {
		return rand.New(rand.NewSource(0))
	}
	return rng
}

// Timeseries returns a time-by-feature matrix of standard normal draws.
func Timeseries(nInstants, nFeatures int, rng *rand.Rand) *mat.Dense {
	rng = defaultRand(rng)
	dist := distuv.Normal{Mu: 0, Sigma: 1, Src: rng}
	out := mat.NewDense(nInstants, nFeatures, nil)
	for t := 0; t < nInstants; t++ {
		for f := 0; f < nFeatures; f++ {
			out.Set(t, f, dist.Rand())
		}
	}
	return out
}

// RegionWeights returns a feature-by-region weight matrix. The feature axis
// is partitioned into nRegions contiguous spans at random boundaries, and
// each region's weights follow the named window curve over its span,
// rescaled to unit mean. With overlap > 0, each span is widened by roughly
// overlap/2 features on either side, so neighbouring regions share voxels.
func RegionWeights(nFeatures, nRegions, overlap int, windowName string, rng *rand.Rand) (*mat.Dense, error) {
	if nRegions <= 0 || nFeatures <= nRegions {
		return nil, fmt.Errorf("need more features than regions, got %d features for %d regions", nFeatures, nRegions)
	}
	rng = defaultRand(rng)

	// Interior boundaries are drawn without replacement from 1..nFeatures-1
	// so no region is empty.
	boundaries := make([]int, nRegions+1)
	boundaries[nRegions] = nFeatures
	perm := rng.Perm(nFeatures - 1)
	for i := 0; i < nRegions-1; i++ {
		boundaries[i+1] = perm[i] + 1
	}
	sort.Ints(boundaries)

	overlapStart := overlap / 2
	overlapEnd := (overlap + 1) / 2

	out := mat.NewDense(nFeatures, nRegions, nil)
	for n := 0; n < nRegions; n++ {
		start := boundaries[n] - overlapStart
		if start < 0 {
			start = 0
		}
		end := boundaries[n+1] + overlapEnd
		if end > nFeatures {
			end = nFeatures
		}
		win, err := Window(windowName, end-start)
		if err != nil {
			return nil, err
		}
		floats.Scale(1/stat.Mean(win, nil), win)
		for i, w := range win {
			out.Set(start+i, n, w)
		}
	}
	return out, nil
}

// Window returns a weight curve of the given length for a named window
// shape. An empty name means boxcar.
func Window(name string, length int) ([]float64, error) {
	if length <= 0 {
		return nil, fmt.Errorf("window length must be positive, got %d", length)
	}
	seq := make([]float64, length)
	for i := range seq {
		seq[i] = 1
	}
	switch strings.ToLower(name) {
	case "", "boxcar", "rectangular":
		return window.Rectangular(seq), nil
	case "hamming":
		return window.Hamming(seq), nil
	case "hann":
		return window.Hann(seq), nil
	case "blackman":
		return window.Blackman(seq), nil
	case "blackmanharris":
		return window.BlackmanHarris(seq), nil
	case "nuttall":
		return window.Nuttall(seq), nil
	case "flattop":
		return window.FlatTop(seq), nil
	case "sine":
		return window.Sine(seq), nil
	default:
		return nil, fmt.Errorf("unknown window %q", name)
	}
}

// Binarize returns a copy of w with every nonzero positive entry replaced
// by 1 and everything else by 0, turning graded weights into indicator
// columns.
func Binarize(w *mat.Dense) *mat.Dense {
	rows, cols := w.Dims()
	out := mat.NewDense(rows, cols, nil)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			if w.At(i, j) > 0 {
				out.Set(i, j, 1)
			}
		}
	}
	return out
}

// LabeledRegions returns a labeled volume whose voxels are partitioned into
// nRegions regions labeled 1..nRegions. Every voxel belongs to exactly one
// region.
func LabeledRegions(shape volume.Shape, nRegions int, rng *rand.Rand) (*volume.Volume, error) {
	if !shape.Valid() {
		return nil, fmt.Errorf("invalid shape %+v", shape)
	}
	weights, err := RegionWeights(shape.Size(), nRegions, 0, "boxcar", rng)
	if err != nil {
		return nil, err
	}

	// Replace each region's weights with its 1-based label; the regions do
	// not overlap, so summing across regions yields the label per voxel.
	flat := make([]float64, shape.Size())
	for v := range flat {
		for r := 0; r < nRegions; r++ {
			if weights.At(v, r) > 0 {
				flat[v] += float64(r + 1)
			}
		}
	}

	ones := volume.New(shape)
	for i := range ones.Data {
		ones.Data[i] = 1
	}
	return masking.Unmask(flat, ones)
}
