package roi

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// ApplyROI reduces a per-voxel timeseries to a per-region timeseries. Given
// voxelTS with one row per time point and one column per voxel, and weights
// with one row per voxel and one column per region, the result has one row
// per time point and one column per region, where each entry is the
// weighted sum over voxels of that region's weights.
//
// With normalizeRegions true, each weight column is first rescaled to sum
// to 1, turning the weighted sum into a weighted mean. For non-overlapping
// 0/1 indicator weights this makes ApplyROI the exact left-inverse of
// UnapplyROI. A region whose weights sum to zero cannot be normalized.
func ApplyROI(voxelTS, weights *mat.Dense, normalizeRegions bool) (*mat.Dense, error) {
	if voxelTS == nil || weights == nil {
		return nil, fmt.Errorf("%w: nil timeseries or weights", ErrArgument)
	}
	nInstants, nVoxels := voxelTS.Dims()
	wVoxels, nRegions := weights.Dims()
	if nVoxels != wVoxels {
		return nil, fmt.Errorf("%w: timeseries has %d voxels, weights have %d", ErrShape, nVoxels, wVoxels)
	}

	w := weights
	if normalizeRegions {
		normalized, err := normalizeColumns(weights)
		if err != nil {
			return nil, err
		}
		w = normalized
	}

	out := mat.NewDense(nInstants, nRegions, nil)
	out.Mul(voxelTS, w)
	return out, nil
}

// UnapplyROI expands a per-region timeseries back to voxel space. Given
// regionTS with one row per time point and one column per region, and
// weights with one row per voxel and one column per region, each region's
// signal is broadcast onto every voxel of the region, scaled by the voxel's
// weight. When regions do not overlap, each voxel carries exactly the
// signal of the single region containing it.
func UnapplyROI(regionTS, weights *mat.Dense) (*mat.Dense, error) {
	if regionTS == nil || weights == nil {
		return nil, fmt.Errorf("%w: nil timeseries or weights", ErrArgument)
	}
	nInstants, nRegions := regionTS.Dims()
	nVoxels, wRegions := weights.Dims()
	if nRegions != wRegions {
		return nil, fmt.Errorf("%w: timeseries has %d regions, weights have %d", ErrShape, nRegions, wRegions)
	}

	out := mat.NewDense(nInstants, nVoxels, nil)
	out.Mul(regionTS, weights.T())
	return out, nil
}

// normalizeColumns returns a copy of w with every column rescaled to unit
// sum.
func normalizeColumns(w *mat.Dense) (*mat.Dense, error) {
	nVoxels, nRegions := w.Dims()
	out := mat.DenseCopyOf(w)
	for r := 0; r < nRegions; r++ {
		sum := 0.0
		for v := 0; v < nVoxels; v++ {
			sum += out.At(v, r)
		}
		if sum == 0 {
			return nil, fmt.Errorf("%w: region %d has zero total weight", ErrArgument, r)
		}
		for v := 0; v < nVoxels; v++ {
			out.Set(v, r, out.At(v, r)/sum)
		}
	}
	return out, nil
}
