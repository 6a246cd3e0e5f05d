package roi_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"

	"github.com/psadil/nilearn/pkg/phantom"
	"github.com/psadil/nilearn/pkg/roi"
	"github.com/psadil/nilearn/pkg/volume"
)

func TestAreOverlappingWeightMatrix(t *testing.T) {
	rng := rand.New(rand.NewSource(0))
	weights, err := phantom.RegionWeights(testShape.Size(), testRegions, 0, "hamming", rng)
	require.NoError(t, err)

	overlapping, err := roi.AreOverlapping(weights)
	require.NoError(t, err)
	assert.False(t, overlapping)

	// Give the first voxel nonzero weight in two regions.
	weights.Set(0, 0, 1)
	weights.Set(0, 1, 1)
	overlapping, err = roi.AreOverlapping(weights)
	require.NoError(t, err)
	assert.True(t, overlapping)
}

func TestAreOverlappingVolumeForms(t *testing.T) {
	vol := labeledFixture(t, 8)

	t.Run("labeled volume never overlaps", func(t *testing.T) {
		overlapping, err := roi.AreOverlapping(vol)
		require.NoError(t, err)
		assert.False(t, overlapping)
	})

	t.Run("weight array", func(t *testing.T) {
		weights, _, err := roi.LabelsToArray(vol)
		require.NoError(t, err)

		overlapping, err := roi.AreOverlapping(weights)
		require.NoError(t, err)
		assert.False(t, overlapping)

		weights.Set(0, 0, 0, 0, 1)
		weights.Set(0, 0, 0, 1, 1)
		overlapping, err = roi.AreOverlapping(weights)
		require.NoError(t, err)
		assert.True(t, overlapping)

		t.Run("mask list inherits the overlap", func(t *testing.T) {
			list := roi.ArrayToList(weights, false)
			overlapping, err := roi.AreOverlapping(list)
			require.NoError(t, err)
			assert.True(t, overlapping)
		})
	})

	t.Run("fresh mask list does not overlap", func(t *testing.T) {
		weights, _, err := roi.LabelsToArray(vol)
		require.NoError(t, err)
		list := roi.ArrayToList(weights, false)

		overlapping, err := roi.AreOverlapping(list)
		require.NoError(t, err)
		assert.False(t, overlapping)
	})
}

func TestAreOverlappingBadInput(t *testing.T) {
	t.Run("nil", func(t *testing.T) {
		_, err := roi.AreOverlapping(nil)
		assert.ErrorIs(t, err, roi.ErrType)
	})

	t.Run("unsupported type", func(t *testing.T) {
		_, err := roi.AreOverlapping([]float64{1, 2, 3})
		assert.ErrorIs(t, err, roi.ErrType)

		_, err = roi.AreOverlapping("regions")
		assert.ErrorIs(t, err, roi.ErrType)
	})

	t.Run("nil typed pointers", func(t *testing.T) {
		_, err := roi.AreOverlapping((*volume.Volume)(nil))
		assert.ErrorIs(t, err, roi.ErrType)
		_, err = roi.AreOverlapping((*volume.Weights)(nil))
		assert.ErrorIs(t, err, roi.ErrType)
	})

	t.Run("nil first mask", func(t *testing.T) {
		list := volume.MaskList{nil, volume.New(volume.Shape{X: 2, Y: 2, Z: 2})}
		_, err := roi.AreOverlapping(list)
		assert.ErrorIs(t, err, roi.ErrArgument)
	})

	t.Run("nil later mask", func(t *testing.T) {
		list := volume.MaskList{volume.New(volume.Shape{X: 2, Y: 2, Z: 2}), nil}
		_, err := roi.AreOverlapping(list)
		assert.ErrorIs(t, err, roi.ErrArgument)
	})

	t.Run("mismatched mask shapes", func(t *testing.T) {
		list := volume.MaskList{
			volume.New(volume.Shape{X: 2, Y: 2, Z: 2}),
			volume.New(volume.Shape{X: 3, Y: 2, Z: 2}),
		}
		_, err := roi.AreOverlapping(list)
		assert.ErrorIs(t, err, roi.ErrShape)
	})

	t.Run("empty mask list", func(t *testing.T) {
		overlapping, err := roi.AreOverlapping(volume.MaskList{})
		require.NoError(t, err)
		assert.False(t, overlapping)
	})
}
