// Package visualization renders 2D slices of labeled volumes and region
// masks as grayscale images, for quick visual inspection of an atlas.
package visualization

import (
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"os"
	"path/filepath"

	"github.com/psadil/nilearn/pkg/volume"
)

// Viewer extracts and saves 2D slices of a volume. Values are scaled so the
// largest value in the volume maps to white, which renders label volumes
// and weight masks alike.
type Viewer struct {
	vol *volume.Volume

	// maxVal caches the intensity that maps to full white.
	maxVal float64
}

// NewViewer creates a viewer over vol.
func NewViewer(vol *volume.Volume) *Viewer {
	maxVal := 0.0
	for _, v := range vol.Data {
		if v > maxVal {
			maxVal = v
		}
	}
	return &Viewer{vol: vol, maxVal: maxVal}
}

func (v *Viewer) gray(val float64) color.Gray16 {
	if v.maxVal <= 0 || val <= 0 {
		return color.Gray16{}
	}
	scaled := val / v.maxVal * 65535
	if scaled > 65535 {
		scaled = 65535
	}
	return color.Gray16{Y: uint16(scaled)}
}

// ExtractSlice extracts the 2D slice at the given position along the
// specified axis ("x", "y", or "z").
func (v *Viewer) ExtractSlice(axis string, position int) (image.Image, error) {
	if position < 0 {
		return nil, fmt.Errorf("position must be non-negative, got %d", position)
	}
	shape := v.vol.Shape

	switch axis {
	case "x", "X":
		if position >= shape.X {
			return nil, fmt.Errorf("position %d exceeds x extent %d", position, shape.X)
		}
		img := image.NewGray16(image.Rect(0, 0, shape.Z, shape.Y))
		for y := 0; y < shape.Y; y++ {
			for z := 0; z < shape.Z; z++ {
				img.SetGray16(z, y, v.gray(v.vol.At(position, y, z)))
			}
		}
		return img, nil

	case "y", "Y":
		if position >= shape.Y {
			return nil, fmt.Errorf("position %d exceeds y extent %d", position, shape.Y)
		}
		img := image.NewGray16(image.Rect(0, 0, shape.X, shape.Z))
		for z := 0; z < shape.Z; z++ {
			for x := 0; x < shape.X; x++ {
				img.SetGray16(x, z, v.gray(v.vol.At(x, position, z)))
			}
		}
		return img, nil

	case "z", "Z":
		if position >= shape.Z {
			return nil, fmt.Errorf("position %d exceeds z extent %d", position, shape.Z)
		}
		img := image.NewGray16(image.Rect(0, 0, shape.X, shape.Y))
		for y := 0; y < shape.Y; y++ {
			for x := 0; x < shape.X; x++ {
				img.SetGray16(x, y, v.gray(v.vol.At(x, y, position)))
			}
		}
		return img, nil

	default:
		return nil, fmt.Errorf("invalid axis: %s (must be x, y, or z)", axis)
	}
}

// SaveSlice saves an extracted slice as a JPEG image.
func (v *Viewer) SaveSlice(img image.Image, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	return jpeg.Encode(file, img, &jpeg.Options{Quality: 90})
}

// SaveSliceSequence extracts and saves every slice along the specified axis
// into outputDir, one JPEG per position.
func (v *Viewer) SaveSliceSequence(axis string, outputDir string) error {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return err
	}

	var maxPos int
	switch axis {
	case "x", "X":
		maxPos = v.vol.Shape.X
	case "y", "Y":
		maxPos = v.vol.Shape.Y
	case "z", "Z":
		maxPos = v.vol.Shape.Z
	default:
		return fmt.Errorf("invalid axis: %s (must be x, y, or z)", axis)
	}

	for pos := 0; pos < maxPos; pos++ {
		img, err := v.ExtractSlice(axis, pos)
		if err != nil {
			return err
		}
		filename := filepath.Join(outputDir, fmt.Sprintf("slice_%s_%03d.jpg", axis, pos))
		if err := v.SaveSlice(img, filename); err != nil {
			return err
		}
	}
	return nil
}
