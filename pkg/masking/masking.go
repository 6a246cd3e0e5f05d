// Package masking moves voxel data between a full 3D volume and the flat
// vector of values inside a boolean spatial mask.
package masking

import (
	"errors"
	"fmt"

	"github.com/psadil/nilearn/pkg/volume"
)

var (
	errNilVolume = errors.New("volume and mask must not be nil")
	errShape     = errors.New("volume and mask shapes differ")
)

// Count returns the number of nonzero voxels in mask.
func Count(mask *volume.Volume) int {
	n := 0
	for _, v := range mask.Data {
		if v != 0 {
			n++
		}
	}
	return n
}

// Apply extracts the values of vol at every nonzero voxel of mask, in flat
// voxel order.
func Apply(vol, mask *volume.Volume) ([]float64, error) {
	if vol == nil || mask == nil {
		return nil, errNilVolume
	}
	if vol.Shape != mask.Shape {
		return nil, fmt.Errorf("%w: %+v vs %+v", errShape, vol.Shape, mask.Shape)
	}
	out := make([]float64, 0, Count(mask))
	for i, m := range mask.Data {
		if m != 0 {
			out = append(out, vol.Data[i])
		}
	}
	return out, nil
}

// Unmask reconstitutes a full volume from the flat vector of in-mask
// values. Voxels outside the mask are zero. The vector length must equal
// the number of nonzero mask voxels.
func Unmask(data []float64, mask *volume.Volume) (*volume.Volume, error) {
	if mask == nil {
		return nil, errNilVolume
	}
	if n := Count(mask); len(data) != n {
		return nil, fmt.Errorf("got %d values for a mask of %d voxels", len(data), n)
	}
	out := volume.New(mask.Shape)
	j := 0
	for i, m := range mask.Data {
		if m != 0 {
			out.Data[i] = data[j]
			j++
		}
	}
	return out, nil
}
