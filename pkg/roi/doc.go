// Package roi manipulates regions of interest over a fixed voxel grid.
//
// A set of regions can be held in three interchangeable representations:
//
//   - a labeled volume (volume.Volume), one integer label per voxel, where
//     a voxel belongs to at most one region;
//   - a 4D weight array (volume.Weights) with a trailing region axis, where
//     overlapping regions are representable;
//   - an ordered list of per-region masks (volume.MaskList).
//
// The conversion functions translate losslessly between these forms as far
// as the target form allows; converting overlapping weights to labels keeps
// only the maximum-weight region per voxel. Region order is preserved by
// every conversion, and a region's position is its identity.
//
// ApplyROI and UnapplyROI move timeseries between per-voxel and per-region
// space using a voxel-by-region weight matrix, and AreOverlapping decides
// whether any two regions share a voxel, whatever the representation.
package roi
