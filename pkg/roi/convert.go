package roi

import (
	"fmt"
	"sort"

	"github.com/psadil/nilearn/pkg/volume"
)

type convOptions struct {
	labels         []float64
	haveLabels     bool
	background     float64
	haveBackground bool
}

// Option configures a conversion function.
type Option func(*convOptions)

// WithLabels supplies the external label value for each region, in region
// order. The length must equal the region count.
func WithLabels(labels []float64) Option {
	return func(o *convOptions) {
		o.labels = labels
		o.haveLabels = true
	}
}

// WithBackground sets the label value that marks voxels belonging to no
// region. For LabelsToList it excludes that value from becoming a region;
// for ArrayToLabels and ListToLabels it is the fill value for uncovered
// voxels (default 0).
func WithBackground(label float64) Option {
	return func(o *convOptions) {
		o.background = label
		o.haveBackground = true
	}
}

func applyOptions(opts []Option) convOptions {
	var o convOptions
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}

// distinctValues returns the distinct values present in data, ascending.
func distinctValues(data []float64) []float64 {
	seen := make(map[float64]struct{})
	for _, v := range data {
		seen[v] = struct{}{}
	}
	out := make([]float64, 0, len(seen))
	for v := range seen {
		out = append(out, v)
	}
	sort.Float64s(out)
	return out
}

// regionLabels resolves the per-region label values: the supplied labels if
// any, else 1..n in region order.
func regionLabels(o convOptions, n int) ([]float64, error) {
	if !o.haveLabels {
		labels := make([]float64, n)
		for i := range labels {
			labels[i] = float64(i + 1)
		}
		return labels, nil
	}
	if len(o.labels) != n {
		return nil, fmt.Errorf("%w: %d labels for %d regions", ErrArgument, len(o.labels), n)
	}
	return o.labels, nil
}

// LabelsToArray converts a labeled volume into a 4D weight array. The
// distinct nonzero values of vol, in ascending order, become the regions;
// slice r holds weight 1 where the volume equals the r-th label and 0
// elsewhere. The discovered label values are returned alongside the array.
// Label 0 is background and never becomes a region.
func LabelsToArray(vol *volume.Volume) (*volume.Weights, []float64, error) {
	if vol == nil || !vol.Shape.Valid() {
		return nil, nil, fmt.Errorf("%w: nil or empty labeled volume", ErrArgument)
	}

	var labels []float64
	for _, v := range distinctValues(vol.Data) {
		if v != 0 {
			labels = append(labels, v)
		}
	}

	w := volume.NewWeights(vol.Shape, len(labels))
	n := vol.Shape.Size()
	for r, label := range labels {
		block := w.Data[r*n : (r+1)*n]
		for i, v := range vol.Data {
			if v == label {
				block[i] = 1
			}
		}
	}
	return w, labels, nil
}

// ArrayToLabels converts a 4D weight array into a labeled volume. Each
// voxel receives the label of the region with the maximum weight among
// regions where its weight is nonzero; voxels with zero weight everywhere
// receive the background value (WithBackground, default 0). Labels come
// from WithLabels, which must match the region count, or default to 1..R
// in region order.
//
// The conversion is lossy when regions overlap: only the maximum-weight
// region survives per voxel.
func ArrayToLabels(w *volume.Weights, opts ...Option) (*volume.Volume, error) {
	if w == nil || !w.Shape.Valid() {
		return nil, fmt.Errorf("%w: nil or empty weight array", ErrArgument)
	}
	o := applyOptions(opts)
	labels, err := regionLabels(o, w.Regions)
	if err != nil {
		return nil, err
	}

	out := volume.New(w.Shape)
	n := w.Shape.Size()
	for i := 0; i < n; i++ {
		best := -1
		bestWeight := 0.0
		for r := 0; r < w.Regions; r++ {
			weight := w.Data[r*n+i]
			if weight != 0 && (best < 0 || weight > bestWeight) {
				best = r
				bestWeight = weight
			}
		}
		if best < 0 {
			out.Data[i] = o.background
		} else {
			out.Data[i] = labels[best]
		}
	}
	return out, nil
}

// ArrayToList splits the region axis of a weight array into a mask list.
// With copyData false the masks are views sharing storage with w, so
// mutating a mask mutates w at the matching voxel and vice versa; with
// copyData true the masks are independent.
func ArrayToList(w *volume.Weights, copyData bool) volume.MaskList {
	if w == nil {
		return nil
	}
	list := make(volume.MaskList, w.Regions)
	for r := range list {
		if copyData {
			list[r] = w.RegionCopy(r)
		} else {
			list[r] = w.Region(r)
		}
	}
	return list
}

// ListToArray stacks a mask list along a new trailing region axis. Every
// element must share one shape. The result copies the mask data.
func ListToArray(list volume.MaskList) (*volume.Weights, error) {
	if len(list) == 0 {
		return nil, fmt.Errorf("%w: empty mask list", ErrArgument)
	}
	for r, m := range list {
		if m == nil {
			return nil, fmt.Errorf("%w: mask %d is nil", ErrArgument, r)
		}
		if m.Shape != list[0].Shape {
			return nil, fmt.Errorf("%w: mask %d has shape %+v, want %+v", ErrShape, r, m.Shape, list[0].Shape)
		}
	}

	shape := list[0].Shape
	w := volume.NewWeights(shape, len(list))
	n := shape.Size()
	for r, m := range list {
		copy(w.Data[r*n:(r+1)*n], m.Data)
	}
	return w, nil
}

// LabelsToList converts a labeled volume into one 0/1 mask per distinct
// value, in ascending value order, plus the list of those values. With
// WithBackground(b) the value b is excluded; without it every distinct
// value present in the volume, including any would-be background, becomes
// its own region.
func LabelsToList(vol *volume.Volume, opts ...Option) (volume.MaskList, []float64, error) {
	if vol == nil || !vol.Shape.Valid() {
		return nil, nil, fmt.Errorf("%w: nil or empty labeled volume", ErrArgument)
	}
	o := applyOptions(opts)

	var labels []float64
	for _, v := range distinctValues(vol.Data) {
		if o.haveBackground && v == o.background {
			continue
		}
		labels = append(labels, v)
	}

	list := make(volume.MaskList, len(labels))
	for r, label := range labels {
		m := volume.New(vol.Shape)
		for i, v := range vol.Data {
			if v == label {
				m.Data[i] = 1
			}
		}
		list[r] = m
	}
	return list, labels, nil
}

// ListToLabels collapses a mask list into a labeled volume. Voxels covered
// by no mask receive the background value (WithBackground, default 0);
// covered voxels receive the mask's label from WithLabels, or its 1-based
// position in the list. A voxel covered by several masks takes the label of
// the last covering mask in list order; this deterministic tie-break is a
// footgun with genuinely overlapping masks, where the earlier memberships
// are silently lost.
func ListToLabels(list volume.MaskList, opts ...Option) (*volume.Volume, error) {
	if len(list) == 0 {
		return nil, fmt.Errorf("%w: empty mask list", ErrArgument)
	}
	o := applyOptions(opts)
	labels, err := regionLabels(o, len(list))
	if err != nil {
		return nil, err
	}
	for r, m := range list {
		if m == nil {
			return nil, fmt.Errorf("%w: mask %d is nil", ErrArgument, r)
		}
		if m.Shape != list[0].Shape {
			return nil, fmt.Errorf("%w: mask %d has shape %+v, want %+v", ErrShape, r, m.Shape, list[0].Shape)
		}
	}

	out := volume.New(list[0].Shape)
	for i := range out.Data {
		out.Data[i] = o.background
	}
	for r, m := range list {
		for i, v := range m.Data {
			if v != 0 {
				out.Data[i] = labels[r]
			}
		}
	}
	return out, nil
}
