package roi

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/psadil/nilearn/pkg/volume"
)

// AreOverlapping reports whether any voxel belongs to more than one region
// with nonzero weight. The supported representations are a voxel-by-region
// weight matrix (*mat.Dense), a 4D weight array (*volume.Weights), a
// labeled volume (*volume.Volume, never overlapping by construction), and a
// mask list (volume.MaskList). Any other input, including nil, is a usage
// error reported as ErrType.
func AreOverlapping(regions any) (bool, error) {
	switch r := regions.(type) {
	case *mat.Dense:
		if r == nil {
			return false, fmt.Errorf("%w: nil weight matrix", ErrType)
		}
		return matrixOverlaps(r), nil

	case *volume.Weights:
		if r == nil {
			return false, fmt.Errorf("%w: nil weight array", ErrType)
		}
		return weightsOverlap(r), nil

	case *volume.Volume:
		if r == nil {
			return false, fmt.Errorf("%w: nil labeled volume", ErrType)
		}
		// One label per voxel: overlap is not representable.
		return false, nil

	case volume.MaskList:
		return maskListOverlaps(r)

	default:
		return false, fmt.Errorf("%w: %T", ErrType, regions)
	}
}

func matrixOverlaps(w *mat.Dense) bool {
	nVoxels, nRegions := w.Dims()
	for v := 0; v < nVoxels; v++ {
		claimed := false
		for r := 0; r < nRegions; r++ {
			if w.At(v, r) == 0 {
				continue
			}
			if claimed {
				return true
			}
			claimed = true
		}
	}
	return false
}

func weightsOverlap(w *volume.Weights) bool {
	n := w.Shape.Size()
	for v := 0; v < n; v++ {
		claimed := false
		for r := 0; r < w.Regions; r++ {
			if w.Data[r*n+v] == 0 {
				continue
			}
			if claimed {
				return true
			}
			claimed = true
		}
	}
	return false
}

func maskListOverlaps(list volume.MaskList) (bool, error) {
	if len(list) == 0 {
		return false, nil
	}
	for i, m := range list {
		if m == nil {
			return false, fmt.Errorf("%w: mask %d is nil", ErrArgument, i)
		}
		if m.Shape != list[0].Shape {
			return false, fmt.Errorf("%w: mask %d has shape %+v, want %+v", ErrShape, i, m.Shape, list[0].Shape)
		}
	}
	shape := list[0].Shape
	for v := 0; v < shape.Size(); v++ {
		claimed := false
		for _, m := range list {
			if m.Data[v] == 0 {
				continue
			}
			if claimed {
				return true, nil
			}
			claimed = true
		}
	}
	return false, nil
}
