package volume

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
)

// WriteBinary writes the volume data as consecutive little-endian float64
// values in flat voxel order. The shape is not stored; readers must know it.
func WriteBinary(w io.Writer, vol *Volume) error {
	if vol == nil {
		return fmt.Errorf("cannot write nil volume")
	}
	for _, val := range vol.Data {
		if err := binary.Write(w, binary.LittleEndian, val); err != nil {
			return fmt.Errorf("failed to write volume data: %w", err)
		}
	}
	return nil
}

// ReadBinary reads shape.Size() little-endian float64 values into a volume.
func ReadBinary(r io.Reader, shape Shape) (*Volume, error) {
	if !shape.Valid() {
		return nil, fmt.Errorf("invalid volume shape %+v", shape)
	}
	vol := New(shape)
	if err := binary.Read(r, binary.LittleEndian, vol.Data); err != nil {
		return nil, fmt.Errorf("failed to read volume data: %w", err)
	}
	return vol, nil
}

// SaveBinary writes a volume to path in the raw binary format.
func SaveBinary(path string, vol *Volume) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create volume file: %w", err)
	}
	defer f.Close()
	return WriteBinary(f, vol)
}

// LoadBinary reads a volume of the given shape from path.
func LoadBinary(path string, shape Shape) (*Volume, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open volume file: %w", err)
	}
	defer f.Close()
	return ReadBinary(f, shape)
}
