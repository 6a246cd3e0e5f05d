package masking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/psadil/nilearn/pkg/volume"
)

func checkerMask(shape volume.Shape) *volume.Volume {
	mask := volume.New(shape)
	for i := range mask.Data {
		if i%2 == 0 {
			mask.Data[i] = 1
		}
	}
	return mask
}

func TestCount(t *testing.T) {
	shape := volume.Shape{X: 2, Y: 3, Z: 2}
	assert.Equal(t, 6, Count(checkerMask(shape)))
	assert.Equal(t, 0, Count(volume.New(shape)))
}

func TestApplyUnmaskRoundTrip(t *testing.T) {
	shape := volume.Shape{X: 3, Y: 3, Z: 2}
	mask := checkerMask(shape)

	vol := volume.New(shape)
	for i := range vol.Data {
		vol.Data[i] = float64(i + 1)
	}

	flat, err := Apply(vol, mask)
	require.NoError(t, err)
	require.Len(t, flat, Count(mask))

	restored, err := Unmask(flat, mask)
	require.NoError(t, err)
	for i := range restored.Data {
		if mask.Data[i] != 0 {
			assert.Equal(t, vol.Data[i], restored.Data[i])
		} else {
			assert.Zero(t, restored.Data[i])
		}
	}
}

func TestUnmaskFullMask(t *testing.T) {
	shape := volume.Shape{X: 2, Y: 2, Z: 2}
	mask := volume.New(shape)
	for i := range mask.Data {
		mask.Data[i] = 1
	}

	data := []float64{1, 2, 3, 4, 5, 6, 7, 8}
	vol, err := Unmask(data, mask)
	require.NoError(t, err)
	assert.Equal(t, data, vol.Data)
}

func TestMaskingErrors(t *testing.T) {
	shape := volume.Shape{X: 2, Y: 2, Z: 2}
	mask := checkerMask(shape)

	t.Run("nil inputs", func(t *testing.T) {
		_, err := Apply(nil, mask)
		assert.Error(t, err)
		_, err = Unmask(nil, nil)
		assert.Error(t, err)
	})

	t.Run("shape mismatch", func(t *testing.T) {
		_, err := Apply(volume.New(volume.Shape{X: 3, Y: 2, Z: 2}), mask)
		assert.Error(t, err)
	})

	t.Run("value count mismatch", func(t *testing.T) {
		_, err := Unmask(make([]float64, Count(mask)+1), mask)
		assert.Error(t, err)
	})
}
