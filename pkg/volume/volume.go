// Package volume defines the read-only image interface consumed by the
// selection engine, plus a dense in-memory implementation. The engine never
// copies an image wholesale; it holds a reference and reads scalar values
// through the Image interface.
package volume

import (
	"fmt"

	"voxedit/pkg/voxel"
)

// Image is a read-only view of a 3D scalar volume.
//
// ValueAt is an unchecked hot-path accessor: callers must only pass
// coordinates inside Shape(). Validation happens at the engine's mutation
// entry points, before any voxel is addressed.
type Image interface {
	// Shape returns the volume dimensions in voxels.
	Shape() voxel.Shape

	// Spacing returns the physical voxel size along each axis.
	Spacing() voxel.Spacing

	// ValueAt returns the scalar value at the given coordinate.
	ValueAt(c voxel.Coord) float64
}

// Writable extends Image with mutable voxel access, needed only by editing
// operations that write values back into the image (selection fills).
type Writable interface {
	Image

	// SetValueAt overwrites the scalar value at the given coordinate.
	SetValueAt(c voxel.Coord, value float64)
}

// Dense is a dense row-major float64 volume. It is the only concrete
// implementation provided by this module; anything that can expose the
// Image interface can be edited just the same.
type Dense struct {
	shape   voxel.Shape
	spacing voxel.Spacing
	data    []float64
}

// NewDense allocates a zero-filled volume of the given shape.
func NewDense(shape voxel.Shape, spacing voxel.Spacing) (*Dense, error) {
	if !shape.Valid() {
		return nil, fmt.Errorf("volume shape %dx%dx%d must have positive dimensions",
			shape.X, shape.Y, shape.Z)
	}
	return &Dense{
		shape:   shape,
		spacing: normalizeSpacing(spacing),
		data:    make([]float64, shape.Count()),
	}, nil
}

// FromData wraps an existing row-major data slice as a volume. The slice is
// used directly, not copied, so the caller shares ownership.
func FromData(data []float64, shape voxel.Shape, spacing voxel.Spacing) (*Dense, error) {
	if !shape.Valid() {
		return nil, fmt.Errorf("volume shape %dx%dx%d must have positive dimensions",
			shape.X, shape.Y, shape.Z)
	}
	if len(data) != shape.Count() {
		return nil, fmt.Errorf("data length %d does not match shape %dx%dx%d (%d voxels)",
			len(data), shape.X, shape.Y, shape.Z, shape.Count())
	}
	return &Dense{
		shape:   shape,
		spacing: normalizeSpacing(spacing),
		data:    data,
	}, nil
}

// normalizeSpacing replaces non-positive axis spacings with 1.0 so that
// physical/voxel unit conversions stay well defined.
func normalizeSpacing(sp voxel.Spacing) voxel.Spacing {
	if sp.X <= 0 {
		sp.X = 1
	}
	if sp.Y <= 0 {
		sp.Y = 1
	}
	if sp.Z <= 0 {
		sp.Z = 1
	}
	return sp
}

// Shape returns the volume dimensions in voxels.
func (d *Dense) Shape() voxel.Shape {
	return d.shape
}

// Spacing returns the physical voxel size along each axis.
func (d *Dense) Spacing() voxel.Spacing {
	return d.spacing
}

// ValueAt returns the scalar value at the given coordinate.
func (d *Dense) ValueAt(c voxel.Coord) float64 {
	return d.data[d.shape.Index(c)]
}

// SetValueAt overwrites the scalar value at the given coordinate.
func (d *Dense) SetValueAt(c voxel.Coord, value float64) {
	d.data[d.shape.Index(c)] = value
}

// Data exposes the backing row-major slice. Mutating it mutates the volume.
func (d *Dense) Data() []float64 {
	return d.data
}
