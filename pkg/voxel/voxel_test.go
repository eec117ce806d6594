package voxel

import (
	"errors"
	"testing"
)

// TestIndexRoundTrip verifies that linear indexing and CoordAt are inverses
// over the whole volume, in row-major X-fastest order.
func TestIndexRoundTrip(t *testing.T) {
	shape := Shape{X: 3, Y: 4, Z: 5}

	next := 0
	for z := 0; z < shape.Z; z++ {
		for y := 0; y < shape.Y; y++ {
			for x := 0; x < shape.X; x++ {
				c := Coord{X: x, Y: y, Z: z}
				idx := shape.Index(c)
				if idx != next {
					t.Fatalf("Index(%v) = %d, want %d (scan order)", c, idx, next)
				}
				if got := shape.CoordAt(idx); got != c {
					t.Fatalf("CoordAt(%d) = %v, want %v", idx, got, c)
				}
				next++
			}
		}
	}

	if next != shape.Count() {
		t.Errorf("visited %d voxels, Count() = %d", next, shape.Count())
	}
}

// TestShapeContains checks the boundary conditions of Contains on each axis.
func TestShapeContains(t *testing.T) {
	shape := Shape{X: 2, Y: 3, Z: 4}

	inside := []Coord{{0, 0, 0}, {1, 2, 3}, {1, 0, 0}}
	for _, c := range inside {
		if !shape.Contains(c) {
			t.Errorf("Contains(%v) = false, want true", c)
		}
	}

	outside := []Coord{{-1, 0, 0}, {2, 0, 0}, {0, 3, 0}, {0, 0, 4}, {0, -1, 0}}
	for _, c := range outside {
		if shape.Contains(c) {
			t.Errorf("Contains(%v) = true, want false", c)
		}
	}
}

// TestShapeCheck verifies that Check wraps ErrOutOfBounds and accepts valid
// coordinate sets.
func TestShapeCheck(t *testing.T) {
	shape := Shape{X: 2, Y: 2, Z: 2}

	if err := shape.Check([]Coord{{0, 0, 0}, {1, 1, 1}}); err != nil {
		t.Fatalf("Check of valid coords failed: %v", err)
	}

	err := shape.Check([]Coord{{0, 0, 0}, {2, 0, 0}})
	if err == nil {
		t.Fatal("Check accepted an out-of-bounds coordinate")
	}
	if !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("Check error = %v, want ErrOutOfBounds", err)
	}
}

// TestBoundingExtent verifies the minimal bounding block of coordinate sets.
func TestBoundingExtent(t *testing.T) {
	if e := BoundingExtent(nil); !e.Empty() {
		t.Errorf("BoundingExtent(nil) = %+v, want empty", e)
	}

	single := BoundingExtent([]Coord{{2, 3, 4}})
	if single.Offset != (Coord{2, 3, 4}) || single.Dim != (Shape{1, 1, 1}) {
		t.Errorf("single-voxel extent = %+v", single)
	}

	e := BoundingExtent([]Coord{{1, 5, 2}, {3, 0, 2}, {2, 2, 7}})
	if e.Offset != (Coord{1, 0, 2}) {
		t.Errorf("Offset = %v, want (1, 0, 2)", e.Offset)
	}
	if e.Dim != (Shape{3, 6, 6}) {
		t.Errorf("Dim = %v, want {3 6 6}", e.Dim)
	}
}

// TestExtentUnion checks that Union covers both operands and that the empty
// extent is the identity.
func TestExtentUnion(t *testing.T) {
	a := Extent{Offset: Coord{0, 0, 0}, Dim: Shape{2, 2, 2}}
	b := Extent{Offset: Coord{3, 1, 0}, Dim: Shape{1, 1, 1}}

	u := a.Union(b)
	if u.Offset != (Coord{0, 0, 0}) || u.Dim != (Shape{4, 2, 2}) {
		t.Errorf("Union = %+v", u)
	}

	if got := (Extent{}).Union(a); got != a {
		t.Errorf("empty.Union(a) = %+v, want a", got)
	}
	if got := a.Union(Extent{}); got != a {
		t.Errorf("a.Union(empty) = %+v, want a", got)
	}
}

// TestExtentClip verifies clipping against the volume shape, including a
// block entirely outside the volume.
func TestExtentClip(t *testing.T) {
	shape := Shape{X: 4, Y: 4, Z: 4}

	e := Extent{Offset: Coord{-2, 1, 3}, Dim: Shape{5, 2, 5}}
	clipped := e.Clip(shape)
	if clipped.Offset != (Coord{0, 1, 3}) {
		t.Errorf("clipped Offset = %v", clipped.Offset)
	}
	if clipped.Dim != (Shape{3, 2, 1}) {
		t.Errorf("clipped Dim = %v", clipped.Dim)
	}

	gone := Extent{Offset: Coord{10, 10, 10}, Dim: Shape{2, 2, 2}}.Clip(shape)
	if !gone.Empty() {
		t.Errorf("fully-outside clip = %+v, want empty", gone)
	}
}

// TestExtentEachOrder verifies scan-order enumeration and Coords.
func TestExtentEachOrder(t *testing.T) {
	e := Extent{Offset: Coord{1, 1, 1}, Dim: Shape{2, 2, 1}}

	want := []Coord{{1, 1, 1}, {2, 1, 1}, {1, 2, 1}, {2, 2, 1}}
	got := e.Coords()
	if len(got) != len(want) {
		t.Fatalf("Coords returned %d voxels, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Coords[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}
