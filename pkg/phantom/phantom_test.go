package phantom

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"

	"github.com/psadil/nilearn/pkg/volume"
)

func TestTimeseries(t *testing.T) {
	ts := Timeseries(20, 7, rand.New(rand.NewSource(0)))
	rows, cols := ts.Dims()
	assert.Equal(t, 20, rows)
	assert.Equal(t, 7, cols)

	t.Run("deterministic for a seed", func(t *testing.T) {
		a := Timeseries(10, 3, rand.New(rand.NewSource(42)))
		b := Timeseries(10, 3, rand.New(rand.NewSource(42)))
		assert.True(t, mat.Equal(a, b))

		c := Timeseries(10, 3, rand.New(rand.NewSource(43)))
		assert.False(t, mat.Equal(a, c))
	})
}

func TestRegionWeights(t *testing.T) {
	const (
		nFeatures = 54
		nRegions  = 11
	)
	weights, err := RegionWeights(nFeatures, nRegions, 0, "hamming", rand.New(rand.NewSource(0)))
	require.NoError(t, err)

	rows, cols := weights.Dims()
	assert.Equal(t, nFeatures, rows)
	assert.Equal(t, nRegions, cols)

	t.Run("partition covers every feature exactly once", func(t *testing.T) {
		for f := 0; f < nFeatures; f++ {
			claims := 0
			for r := 0; r < nRegions; r++ {
				if weights.At(f, r) > 0 {
					claims++
				}
			}
			assert.Equal(t, 1, claims, "feature %d", f)
		}
	})

	t.Run("unit mean per region", func(t *testing.T) {
		for r := 0; r < nRegions; r++ {
			sum := 0.0
			count := 0
			for f := 0; f < nFeatures; f++ {
				if w := weights.At(f, r); w > 0 {
					sum += w
					count++
				}
			}
			require.Positive(t, count)
			assert.InDelta(t, 1.0, sum/float64(count), 1e-12, "region %d", r)
		}
	})

	t.Run("overlap widens regions", func(t *testing.T) {
		overlapping, err := RegionWeights(nFeatures, nRegions, 4, "boxcar", rand.New(rand.NewSource(0)))
		require.NoError(t, err)

		shared := 0
		for f := 0; f < nFeatures; f++ {
			claims := 0
			for r := 0; r < nRegions; r++ {
				if overlapping.At(f, r) > 0 {
					claims++
				}
			}
			if claims > 1 {
				shared++
			}
		}
		assert.Positive(t, shared)
	})

	t.Run("too few features", func(t *testing.T) {
		_, err := RegionWeights(5, 11, 0, "boxcar", nil)
		assert.Error(t, err)
	})

	t.Run("unknown window", func(t *testing.T) {
		_, err := RegionWeights(nFeatures, nRegions, 0, "parzen", nil)
		assert.Error(t, err)
	})
}

func TestWindow(t *testing.T) {
	t.Run("boxcar is flat", func(t *testing.T) {
		win, err := Window("boxcar", 5)
		require.NoError(t, err)
		assert.Equal(t, []float64{1, 1, 1, 1, 1}, win)
	})

	t.Run("empty name means boxcar", func(t *testing.T) {
		win, err := Window("", 3)
		require.NoError(t, err)
		assert.Equal(t, []float64{1, 1, 1}, win)
	})

	t.Run("hamming is positive and tapered", func(t *testing.T) {
		win, err := Window("hamming", 7)
		require.NoError(t, err)
		require.Len(t, win, 7)
		for i := range win {
			assert.Positive(t, win[i])
		}
		assert.Less(t, win[0], win[3])
	})

	t.Run("bad inputs", func(t *testing.T) {
		_, err := Window("hamming", 0)
		assert.Error(t, err)
		_, err = Window("parzen", 8)
		assert.Error(t, err)
	})
}

func TestBinarize(t *testing.T) {
	w := mat.NewDense(2, 2, []float64{0.5, 0, 1.25, 0})
	b := Binarize(w)
	assert.Equal(t, 1.0, b.At(0, 0))
	assert.Equal(t, 0.0, b.At(0, 1))
	assert.Equal(t, 1.0, b.At(1, 0))
	assert.Equal(t, 0.0, b.At(1, 1))
}

func TestLabeledRegions(t *testing.T) {
	shape := volume.Shape{X: 4, Y: 5, Z: 6}
	const nRegions = 11

	vol, err := LabeledRegions(shape, nRegions, rand.New(rand.NewSource(0)))
	require.NoError(t, err)
	assert.Equal(t, shape, vol.Shape)

	seen := make(map[float64]int)
	for _, v := range vol.Data {
		seen[v]++
	}
	// Every voxel is labeled 1..nRegions and every region is non-empty.
	require.Len(t, seen, nRegions)
	for r := 1; r <= nRegions; r++ {
		assert.Positive(t, seen[float64(r)], "region %d", r)
	}

	t.Run("invalid shape", func(t *testing.T) {
		_, err := LabeledRegions(volume.Shape{}, 3, nil)
		assert.Error(t, err)
	})
}
