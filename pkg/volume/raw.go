package volume

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"

	"voxedit/pkg/voxel"
)

// ElementType identifies the on-disk scalar element type of a raw volume
// dump. Raw dumps are headerless little-endian arrays in row-major order
// (X fastest); dimensions and spacing travel out of band.
type ElementType string

const (
	Uint8   ElementType = "uint8"
	Uint16  ElementType = "uint16"
	Float32 ElementType = "float32"
)

// ParseElementType validates a user-supplied element type name.
func ParseElementType(name string) (ElementType, error) {
	switch ElementType(name) {
	case Uint8, Uint16, Float32:
		return ElementType(name), nil
	}
	return "", fmt.Errorf("unsupported element type %q (must be uint8, uint16 or float32)", name)
}

// ReadRaw reads a headerless little-endian volume dump with the given shape
// and element type, converting every element to float64.
func ReadRaw(r io.Reader, shape voxel.Shape, elem ElementType, spacing voxel.Spacing) (*Dense, error) {
	if !shape.Valid() {
		return nil, fmt.Errorf("volume shape %dx%dx%d must have positive dimensions",
			shape.X, shape.Y, shape.Z)
	}

	n := shape.Count()
	data := make([]float64, n)
	br := bufio.NewReader(r)

	switch elem {
	case Uint8:
		buf := make([]uint8, n)
		if _, err := io.ReadFull(br, buf); err != nil {
			return nil, fmt.Errorf("reading %d uint8 voxels: %w", n, err)
		}
		for i, v := range buf {
			data[i] = float64(v)
		}
	case Uint16:
		buf := make([]uint16, n)
		if err := binary.Read(br, binary.LittleEndian, buf); err != nil {
			return nil, fmt.Errorf("reading %d uint16 voxels: %w", n, err)
		}
		for i, v := range buf {
			data[i] = float64(v)
		}
	case Float32:
		buf := make([]float32, n)
		if err := binary.Read(br, binary.LittleEndian, buf); err != nil {
			return nil, fmt.Errorf("reading %d float32 voxels: %w", n, err)
		}
		for i, v := range buf {
			data[i] = float64(v)
		}
	default:
		return nil, fmt.Errorf("unsupported element type %q", elem)
	}

	return FromData(data, shape, spacing)
}

// WriteRaw writes the volume as a headerless little-endian float32 dump in
// row-major order.
func WriteRaw(w io.Writer, d *Dense) error {
	bw := bufio.NewWriter(w)
	buf := make([]float32, len(d.data))
	for i, v := range d.data {
		buf[i] = float32(v)
	}
	if err := binary.Write(bw, binary.LittleEndian, buf); err != nil {
		return fmt.Errorf("writing %d float32 voxels: %w", len(buf), err)
	}
	return bw.Flush()
}
