// Package mask implements the boolean voxel selection mask at the heart of
// the editing engine. A Mask overlays exactly one volume: it has the same
// shape, marks each voxel as selected or not, and after every mutation
// records the minimal bounding block that changed so a display cache can
// patch itself incrementally instead of re-uploading the whole volume.
package mask

import (
	"bufio"
	"fmt"
	"io"
	"math/bits"

	"voxedit/pkg/voxel"
)

// Delta describes the most recent mask mutation as the minimal rectangular
// block covering every flipped voxel, together with before and after
// snapshots of that block in scan order. Consumers use it to update only
// the affected sub-region of a derived representation.
type Delta struct {
	// Bounds is the affected block; Bounds.Offset is its minimum corner
	// in volume coordinates.
	Bounds voxel.Extent

	// Old and New are scan-order snapshots of the block before and after
	// the mutation. Both have length Bounds.Count().
	Old []bool
	New []bool
}

// Mask is a dense boolean selection mask backed by a bitset. The shape is
// fixed at construction and always matches the overlaid image; the selected
// voxel count is maintained incrementally so Size is O(1).
//
// Mutations are all-or-nothing: any out-of-bounds coordinate is rejected
// before a single bit changes.
type Mask struct {
	shape voxel.Shape
	words []uint64
	count int

	// last holds the delta of the most recent mutation. nil means the
	// consumer must treat the whole mask as changed (initial state, or
	// after a full clear).
	last *Delta
}

// New creates an empty mask matching the given volume shape.
func New(shape voxel.Shape) (*Mask, error) {
	if !shape.Valid() {
		return nil, fmt.Errorf("mask shape %dx%dx%d must have positive dimensions",
			shape.X, shape.Y, shape.Z)
	}
	return &Mask{
		shape: shape,
		words: make([]uint64, (shape.Count()+63)/64),
	}, nil
}

// Shape returns the mask dimensions.
func (m *Mask) Shape() voxel.Shape {
	return m.shape
}

// Size returns the number of selected voxels.
func (m *Mask) Size() int {
	return m.count
}

// Has reports whether the coordinate is selected. Coordinates outside the
// volume are never selected.
func (m *Mask) Has(c voxel.Coord) bool {
	if !m.shape.Contains(c) {
		return false
	}
	return m.get(m.shape.Index(c))
}

func (m *Mask) get(idx int) bool {
	return m.words[idx>>6]&(1<<uint(idx&63)) != 0
}

func (m *Mask) set(idx int, on bool) {
	if on {
		m.words[idx>>6] |= 1 << uint(idx&63)
	} else {
		m.words[idx>>6] &^= 1 << uint(idx&63)
	}
}

// Add marks the given voxels as selected and returns the coordinates whose
// state actually flipped, in input order. Re-adding an already selected
// voxel is a no-op and contributes nothing to the result. If any coordinate
// is out of bounds the mask is left untouched and a wrapped
// voxel.ErrOutOfBounds is returned.
//
// When at least one voxel flips, the last-change delta is updated to cover
// exactly the bounding block of the flipped voxels.
func (m *Mask) Add(coords []voxel.Coord) ([]voxel.Coord, error) {
	return m.mutate(coords, true)
}

// Remove unmarks the given voxels, with semantics symmetric to Add.
func (m *Mask) Remove(coords []voxel.Coord) ([]voxel.Coord, error) {
	return m.mutate(coords, false)
}

func (m *Mask) mutate(coords []voxel.Coord, on bool) ([]voxel.Coord, error) {
	if err := m.shape.Check(coords); err != nil {
		return nil, err
	}

	// Work out which voxels will flip before touching any state, so the
	// before snapshot of the affected block is still available.
	var changed []voxel.Coord
	seen := make(map[int]struct{})
	for _, c := range coords {
		idx := m.shape.Index(c)
		if m.get(idx) == on {
			continue
		}
		if _, dup := seen[idx]; dup {
			continue
		}
		seen[idx] = struct{}{}
		changed = append(changed, c)
	}
	if len(changed) == 0 {
		return nil, nil
	}

	bounds := voxel.BoundingExtent(changed)
	old := m.Snapshot(bounds)

	for _, c := range changed {
		m.set(m.shape.Index(c), on)
	}
	if on {
		m.count += len(changed)
	} else {
		m.count -= len(changed)
	}

	m.last = &Delta{Bounds: bounds, Old: old, New: m.Snapshot(bounds)}
	return changed, nil
}

// Clear deselects every voxel and resets the last-change delta to nil,
// signalling a full invalidate to consumers.
func (m *Mask) Clear() {
	for i := range m.words {
		m.words[i] = 0
	}
	m.count = 0
	m.last = nil
}

// Contains returns the subset of the given coordinates that is currently
// selected, in input order. Coordinates outside the volume are simply not
// part of the result.
func (m *Mask) Contains(coords []voxel.Coord) []voxel.Coord {
	var out []voxel.Coord
	for _, c := range coords {
		if m.Has(c) {
			out = append(out, c)
		}
	}
	return out
}

// Coords returns every selected voxel in scan order (X fastest).
func (m *Mask) Coords() []voxel.Coord {
	out := make([]voxel.Coord, 0, m.count)
	for wi, w := range m.words {
		for w != 0 {
			bit := bits.TrailingZeros64(w)
			out = append(out, m.shape.CoordAt(wi*64+bit))
			w &= w - 1
		}
	}
	return out
}

// LastChange returns the delta of the most recent mutation, or nil when
// the whole mask must be treated as changed.
func (m *Mask) LastChange() *Delta {
	return m.last
}

// SetLastChange overrides the last-change delta. The editor uses this after
// replaying a multi-record change group so that consumers see one delta
// covering the union of the group's changes instead of only the final
// record's block.
func (m *Mask) SetLastChange(d *Delta) {
	m.last = d
}

// Snapshot copies the selection state of the given block in scan order.
// The block must lie fully inside the mask.
func (m *Mask) Snapshot(e voxel.Extent) []bool {
	out := make([]bool, 0, e.Count())
	e.Each(func(c voxel.Coord) {
		out = append(out, m.get(m.shape.Index(c)))
	})
	return out
}

// WriteRaw writes the mask as one byte per voxel (0 or 1) in scan order.
func (m *Mask) WriteRaw(w io.Writer) error {
	bw := bufio.NewWriter(w)
	n := m.shape.Count()
	for idx := 0; idx < n; idx++ {
		b := byte(0)
		if m.get(idx) {
			b = 1
		}
		if err := bw.WriteByte(b); err != nil {
			return fmt.Errorf("writing mask voxel %d: %w", idx, err)
		}
	}
	return bw.Flush()
}

// BlockAround computes a block of side 2*radius+1 centred on the given
// voxel, restricted to the listed axes and clipped to the volume shape.
// Axes not listed keep a thickness of one voxel at the centre, so passing
// two axes yields an in-slice square (a 2D brush) and all three axes a
// cube (a 3D brush). A centre outside the volume yields an empty extent.
func BlockAround(center voxel.Coord, radius int, shape voxel.Shape, axes []int) voxel.Extent {
	if !shape.Contains(center) || radius < 0 {
		return voxel.Extent{}
	}

	lo := center
	dim := voxel.Shape{X: 1, Y: 1, Z: 1}
	for _, axis := range axes {
		switch axis {
		case voxel.AxisX:
			lo.X = center.X - radius
			dim.X = 2*radius + 1
		case voxel.AxisY:
			lo.Y = center.Y - radius
			dim.Y = 2*radius + 1
		case voxel.AxisZ:
			lo.Z = center.Z - radius
			dim.Z = 2*radius + 1
		}
	}

	return voxel.Extent{Offset: lo, Dim: dim}.Clip(shape)
}
