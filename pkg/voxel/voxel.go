// Package voxel provides the basic geometry types shared by the selection
// and editing engine: integer voxel coordinates, volume shapes, physical
// voxel spacing, and rectangular sub-volume extents.
//
// A volume is addressed in row-major order with the X axis varying fastest,
// so the linear index of a coordinate (x, y, z) within a shape (W, H, D) is
// z*W*H + y*W + x. All packages in this module share that convention.
package voxel

import (
	"errors"
	"fmt"
)

// ErrOutOfBounds is returned (wrapped) whenever a coordinate outside the
// half-open range [0, shape) on any axis is passed to an operation that
// addresses voxels. Operations that report it never apply a partial change.
var ErrOutOfBounds = errors.New("voxel coordinate out of volume bounds")

// Axis identifiers used when restricting block operations to a subset of
// the volume axes (for example a 2D in-slice brush).
const (
	AxisX = 0
	AxisY = 1
	AxisZ = 2
)

// AllAxes lists the three volume axes in canonical order.
var AllAxes = []int{AxisX, AxisY, AxisZ}

// Coord is an integer voxel coordinate within a 3D volume.
type Coord struct {
	X, Y, Z int
}

// String returns the coordinate formatted as "(x, y, z)".
func (c Coord) String() string {
	return fmt.Sprintf("(%d, %d, %d)", c.X, c.Y, c.Z)
}

// Shape describes the dimensions of a 3D volume in voxels.
type Shape struct {
	X, Y, Z int
}

// Count returns the total number of voxels in the shape.
func (s Shape) Count() int {
	return s.X * s.Y * s.Z
}

// Valid reports whether all three dimensions are positive.
func (s Shape) Valid() bool {
	return s.X > 0 && s.Y > 0 && s.Z > 0
}

// Contains reports whether the coordinate lies inside the shape.
func (s Shape) Contains(c Coord) bool {
	return c.X >= 0 && c.X < s.X &&
		c.Y >= 0 && c.Y < s.Y &&
		c.Z >= 0 && c.Z < s.Z
}

// Index returns the row-major linear index of the coordinate. The caller
// must ensure the coordinate is inside the shape.
func (s Shape) Index(c Coord) int {
	return c.Z*s.X*s.Y + c.Y*s.X + c.X
}

// CoordAt returns the coordinate corresponding to a row-major linear index.
func (s Shape) CoordAt(idx int) Coord {
	plane := s.X * s.Y
	z := idx / plane
	rem := idx % plane
	return Coord{X: rem % s.X, Y: rem / s.X, Z: z}
}

// Check validates a set of coordinates against the shape. It returns a
// wrapped ErrOutOfBounds naming the first offending coordinate, or nil if
// every coordinate is inside the shape.
func (s Shape) Check(coords []Coord) error {
	for _, c := range coords {
		if !s.Contains(c) {
			return fmt.Errorf("%v outside volume %dx%dx%d: %w",
				c, s.X, s.Y, s.Z, ErrOutOfBounds)
		}
	}
	return nil
}

// Spacing holds the physical size of a voxel along each axis, typically in
// millimetres. It is used to convert physical search radii into per-axis
// voxel counts.
type Spacing struct {
	X, Y, Z float64
}

// Extent is a rectangular sub-volume: a block of dimensions Dim whose
// minimum corner sits at Offset in volume coordinates.
type Extent struct {
	Offset Coord
	Dim    Shape
}

// Count returns the number of voxels covered by the extent.
func (e Extent) Count() int {
	if !e.Dim.Valid() {
		return 0
	}
	return e.Dim.Count()
}

// Empty reports whether the extent covers no voxels.
func (e Extent) Empty() bool {
	return e.Count() == 0
}

// Contains reports whether the volume coordinate lies inside the extent.
func (e Extent) Contains(c Coord) bool {
	return e.Dim.Contains(Coord{
		X: c.X - e.Offset.X,
		Y: c.Y - e.Offset.Y,
		Z: c.Z - e.Offset.Z,
	})
}

// Index returns the row-major linear index of a volume coordinate relative
// to the extent. The caller must ensure the coordinate is inside the extent.
func (e Extent) Index(c Coord) int {
	return e.Dim.Index(Coord{
		X: c.X - e.Offset.X,
		Y: c.Y - e.Offset.Y,
		Z: c.Z - e.Offset.Z,
	})
}

// Each invokes fn for every voxel in the extent in row-major scan order
// (X fastest). This is the canonical enumeration order used throughout the
// module, which keeps derived results independent of traversal details.
func (e Extent) Each(fn func(Coord)) {
	for z := 0; z < e.Dim.Z; z++ {
		for y := 0; y < e.Dim.Y; y++ {
			for x := 0; x < e.Dim.X; x++ {
				fn(Coord{
					X: e.Offset.X + x,
					Y: e.Offset.Y + y,
					Z: e.Offset.Z + z,
				})
			}
		}
	}
}

// Coords returns every voxel in the extent in scan order.
func (e Extent) Coords() []Coord {
	out := make([]Coord, 0, e.Count())
	e.Each(func(c Coord) {
		out = append(out, c)
	})
	return out
}

// Union returns the smallest extent covering both e and o. An empty extent
// acts as the identity.
func (e Extent) Union(o Extent) Extent {
	if e.Empty() {
		return o
	}
	if o.Empty() {
		return e
	}
	lo := Coord{
		X: min(e.Offset.X, o.Offset.X),
		Y: min(e.Offset.Y, o.Offset.Y),
		Z: min(e.Offset.Z, o.Offset.Z),
	}
	hi := Coord{
		X: max(e.Offset.X+e.Dim.X, o.Offset.X+o.Dim.X),
		Y: max(e.Offset.Y+e.Dim.Y, o.Offset.Y+o.Dim.Y),
		Z: max(e.Offset.Z+e.Dim.Z, o.Offset.Z+o.Dim.Z),
	}
	return Extent{
		Offset: lo,
		Dim:    Shape{X: hi.X - lo.X, Y: hi.Y - lo.Y, Z: hi.Z - lo.Z},
	}
}

// Clip intersects the extent with the volume shape, so that the result
// addresses only voxels inside [0, shape).
func (e Extent) Clip(s Shape) Extent {
	lo := Coord{
		X: max(e.Offset.X, 0),
		Y: max(e.Offset.Y, 0),
		Z: max(e.Offset.Z, 0),
	}
	hi := Coord{
		X: min(e.Offset.X+e.Dim.X, s.X),
		Y: min(e.Offset.Y+e.Dim.Y, s.Y),
		Z: min(e.Offset.Z+e.Dim.Z, s.Z),
	}
	if hi.X <= lo.X || hi.Y <= lo.Y || hi.Z <= lo.Z {
		return Extent{}
	}
	return Extent{
		Offset: lo,
		Dim:    Shape{X: hi.X - lo.X, Y: hi.Y - lo.Y, Z: hi.Z - lo.Z},
	}
}

// BoundingExtent computes the minimal extent covering the given coordinates.
// It returns an empty extent when the coordinate list is empty.
func BoundingExtent(coords []Coord) Extent {
	if len(coords) == 0 {
		return Extent{}
	}
	lo, hi := coords[0], coords[0]
	for _, c := range coords[1:] {
		lo.X = min(lo.X, c.X)
		lo.Y = min(lo.Y, c.Y)
		lo.Z = min(lo.Z, c.Z)
		hi.X = max(hi.X, c.X)
		hi.Y = max(hi.Y, c.Y)
		hi.Z = max(hi.Z, c.Z)
	}
	return Extent{
		Offset: lo,
		Dim:    Shape{X: hi.X - lo.X + 1, Y: hi.Y - lo.Y + 1, Z: hi.Z - lo.Z + 1},
	}
}
