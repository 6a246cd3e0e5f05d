// Package volume provides the in-memory array model for voxel data: 3D
// volumes, 4D region weight arrays, and ordered lists of region masks.
// All arrays are backed by flat float64 slices in the same row-major order
// used throughout the module (x fastest, then y, then z).
package volume

import (
	"gonum.org/v1/gonum/mat"
)

// Shape is the spatial extent of a voxel grid. All representations of one
// region set must share a single Shape.
type Shape struct {
	X, Y, Z int
}

// Size returns the number of voxels in the grid.
func (s Shape) Size() int {
	return s.X * s.Y * s.Z
}

// Valid reports whether every dimension is positive.
func (s Shape) Valid() bool {
	return s.X > 0 && s.Y > 0 && s.Z > 0
}

// Index returns the flat offset of voxel (x, y, z).
func (s Shape) Index(x, y, z int) int {
	return z*s.X*s.Y + y*s.X + x
}

// Volume is a 3D array of float64 values over a voxel grid. Depending on
// context it holds integer region labels, boolean masks (0/1), or real
// weights.
type Volume struct {
	Shape Shape

	// Data is the flat voxel data, indexed by Shape.Index.
	Data []float64
}

// New returns a zero-filled volume of the given shape.
func New(shape Shape) *Volume {
	return &Volume{
		Shape: shape,
		Data:  make([]float64, shape.Size()),
	}
}

// At returns the value at voxel (x, y, z).
func (v *Volume) At(x, y, z int) float64 {
	return v.Data[v.Shape.Index(x, y, z)]
}

// Set stores val at voxel (x, y, z).
func (v *Volume) Set(x, y, z int, val float64) {
	v.Data[v.Shape.Index(x, y, z)] = val
}

// Clone returns an independent copy of the volume.
func (v *Volume) Clone() *Volume {
	out := &Volume{
		Shape: v.Shape,
		Data:  make([]float64, len(v.Data)),
	}
	copy(out.Data, v.Data)
	return out
}

// Weights is a 4D array of region weights: a voxel grid plus a trailing
// region axis. A weight of 0 means the voxel is not part of the region;
// overlapping regions are representable.
//
// Storage is region-major, so each region occupies a contiguous block of
// Data. Region exploits this to hand out aliasing views.
type Weights struct {
	Shape   Shape
	Regions int

	// Data holds region r at Data[r*Shape.Size() : (r+1)*Shape.Size()].
	Data []float64
}

// NewWeights returns a zero-filled weight array for the given grid and
// region count.
func NewWeights(shape Shape, regions int) *Weights {
	return &Weights{
		Shape:   shape,
		Regions: regions,
		Data:    make([]float64, shape.Size()*regions),
	}
}

// At returns the weight of voxel (x, y, z) in region r.
func (w *Weights) At(x, y, z, r int) float64 {
	return w.Data[r*w.Shape.Size()+w.Shape.Index(x, y, z)]
}

// Set stores the weight of voxel (x, y, z) in region r.
func (w *Weights) Set(x, y, z, r int, val float64) {
	w.Data[r*w.Shape.Size()+w.Shape.Index(x, y, z)] = val
}

// Region returns region r as a volume sharing storage with w: mutating the
// returned volume mutates w and vice versa. Use RegionCopy for an
// independent snapshot.
func (w *Weights) Region(r int) *Volume {
	n := w.Shape.Size()
	return &Volume{
		Shape: w.Shape,
		Data:  w.Data[r*n : (r+1)*n : (r+1)*n],
	}
}

// RegionCopy returns region r as an independent volume.
func (w *Weights) RegionCopy(r int) *Volume {
	return w.Region(r).Clone()
}

// Clone returns an independent copy of the weight array.
func (w *Weights) Clone() *Weights {
	out := &Weights{
		Shape:   w.Shape,
		Regions: w.Regions,
		Data:    make([]float64, len(w.Data)),
	}
	copy(out.Data, w.Data)
	return out
}

// Matrix returns the weights as a dense voxel-by-region matrix. Row v is
// the flat voxel index (Shape.Index order), column r the region. The matrix
// is a copy and does not alias w. An array with no regions returns nil,
// since mat.Dense cannot hold zero columns.
func (w *Weights) Matrix() *mat.Dense {
	if w.Regions == 0 {
		return nil
	}
	n := w.Shape.Size()
	m := mat.NewDense(n, w.Regions, nil)
	for r := 0; r < w.Regions; r++ {
		block := w.Data[r*n : (r+1)*n]
		for v := 0; v < n; v++ {
			m.Set(v, r, block[v])
		}
	}
	return m
}

// MaskList is an ordered sequence of region masks, one volume per region.
// Elements may be views sharing storage with a Weights backing array or
// independent copies; see roi.ArrayToList.
type MaskList []*Volume
