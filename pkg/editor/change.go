package editor

import (
	"voxedit/pkg/mask"
	"voxedit/pkg/volume"
	"voxedit/pkg/voxel"
)

// record is one reversible mutation. Records are immutable once created:
// they capture exactly the voxels whose state flipped (or whose image value
// changed), which is sufficient both to reapply and to invert the change.
type record interface {
	// apply re-applies the change to the given mask.
	apply(m *mask.Mask) error

	// revert undoes the change on the given mask.
	revert(m *mask.Mask) error

	// extent returns the bounding block of the selection voxels the
	// record touches. ok is false for records that do not affect the
	// selection at all.
	extent() (e voxel.Extent, ok bool)
}

// selectionRecord captures a net selection change: the voxels that became
// selected and the voxels that became deselected. Both lists contain only
// voxels that actually flipped, so apply and revert are exact inverses.
type selectionRecord struct {
	added   []voxel.Coord
	removed []voxel.Coord
}

func (r *selectionRecord) apply(m *mask.Mask) error {
	if _, err := m.Remove(r.removed); err != nil {
		return err
	}
	_, err := m.Add(r.added)
	return err
}

func (r *selectionRecord) revert(m *mask.Mask) error {
	if _, err := m.Remove(r.added); err != nil {
		return err
	}
	_, err := m.Add(r.removed)
	return err
}

func (r *selectionRecord) extent() (voxel.Extent, bool) {
	e := voxel.BoundingExtent(r.added).Union(voxel.BoundingExtent(r.removed))
	return e, !e.Empty()
}

// fillRecord captures an image-value edit: the old and new scalar values of
// every voxel that was filled. It operates on the image, not the mask, but
// shares the change-group machinery so fills and the selections that
// produced them can be undone together or independently depending on how
// they were grouped.
type fillRecord struct {
	img      volume.Writable
	coords   []voxel.Coord
	oldVals  []float64
	newValue float64
}

func (r *fillRecord) apply(*mask.Mask) error {
	for _, c := range r.coords {
		r.img.SetValueAt(c, r.newValue)
	}
	return nil
}

func (r *fillRecord) revert(*mask.Mask) error {
	for i, c := range r.coords {
		r.img.SetValueAt(c, r.oldVals[i])
	}
	return nil
}

func (r *fillRecord) extent() (voxel.Extent, bool) {
	return voxel.Extent{}, false
}

// ChangeGroup is an ordered sequence of records treated as one atomic
// undo/redo unit: undo reverts its records in reverse order, redo reapplies
// them in forward order.
type ChangeGroup struct {
	records []record
}

// Len returns the number of records in the group.
func (g *ChangeGroup) Len() int {
	return len(g.records)
}

// extent returns the union bounding block of all selection changes in the
// group; ok is false when the group touches no selection voxels.
func (g *ChangeGroup) extent() (voxel.Extent, bool) {
	var union voxel.Extent
	any := false
	for _, r := range g.records {
		if e, ok := r.extent(); ok {
			union = union.Union(e)
			any = true
		}
	}
	return union, any
}
