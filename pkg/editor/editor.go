// Package editor provides transactional editing of a voxel selection mask
// over a scalar volume: individual and block (brush) selection, intensity
// region growing, value fills, and grouped undo/redo. Every mutation is
// captured as an invertible record; records accumulate into change groups
// that undo and redo replay atomically.
//
// The editor is a single logical actor: it has no internal concurrency and
// callers embedding it in a multi-threaded host must serialise access.
package editor

import (
	"errors"
	"fmt"

	"voxedit/pkg/grow"
	"voxedit/pkg/mask"
	"voxedit/pkg/volume"
	"voxedit/pkg/voxel"
)

// ErrIllegalState is returned when the change-group protocol is violated:
// starting a group while one is already open, or ending one while none is.
var ErrIllegalState = errors.New("editor: illegal change group state")

// ErrNoActiveImage is returned by every mutating operation while no image
// is bound to the editor.
var ErrNoActiveImage = errors.New("editor: no active image")

// Editor orchestrates all mutations of the selection mask bound to the
// active image. It owns exactly one mask at a time; binding a new image
// discards the old mask together with its entire undo history.
type Editor struct {
	img  volume.Image
	mask *mask.Mask
	gate *Gate

	// done and undone are the two change-group stacks. The top of done
	// is the most recently applied group, the top of undone the most
	// recently undone one. Any new mutation empties undone.
	done   []*ChangeGroup
	undone []*ChangeGroup

	// open is the currently accumulating change group, nil while idle.
	open *ChangeGroup
}

// New creates an editor bound to the given image. A nil image is allowed;
// the editor then rejects every mutation with ErrNoActiveImage until
// SetImage binds one.
func New(img volume.Image) (*Editor, error) {
	e := &Editor{gate: NewGate()}
	if img != nil {
		if err := e.SetImage(img); err != nil {
			return nil, err
		}
	}
	return e, nil
}

// SetImage binds a new active image, replacing the selection mask and
// discarding all undo/redo history. There is no cross-image undo. A nil
// image unbinds the editor. Listeners are notified with a nil last-change
// delta, the full-invalidate signal.
func (e *Editor) SetImage(img volume.Image) error {
	e.done = nil
	e.undone = nil
	e.open = nil

	if img == nil {
		e.img = nil
		e.mask = nil
		e.gate.Notify()
		return nil
	}

	m, err := mask.New(img.Shape())
	if err != nil {
		return fmt.Errorf("binding image: %w", err)
	}
	e.img = img
	e.mask = m
	e.gate.Notify()
	return nil
}

// Image returns the active image, or nil.
func (e *Editor) Image() volume.Image {
	return e.img
}

// Mask returns the active selection mask for read access, or nil while no
// image is bound. All mutations must go through the editor so they are
// recorded for undo.
func (e *Editor) Mask() *mask.Mask {
	return e.mask
}

// OnSelectionChanged registers a listener invoked whenever the selection
// changes. The notification carries no payload; consumers call LastChange
// to find out what to update, treating nil as a full invalidate.
func (e *Editor) OnSelectionChanged(fn func()) {
	e.gate.Subscribe(fn)
}

// SuspendNotifications disables selection-changed notifications and returns
// an idempotent release function that re-enables them, flushing at most one
// pending notification. Suspensions nest.
func (e *Editor) SuspendNotifications() (release func()) {
	return e.gate.Suspend()
}

// Selection returns every selected voxel in scan order.
func (e *Editor) Selection() []voxel.Coord {
	if e.mask == nil {
		return nil
	}
	return e.mask.Coords()
}

// SelectionSize returns the number of selected voxels.
func (e *Editor) SelectionSize() int {
	if e.mask == nil {
		return 0
	}
	return e.mask.Size()
}

// LastChange returns the most recent selection delta, or nil when the whole
// selection must be treated as changed.
func (e *Editor) LastChange() *mask.Delta {
	if e.mask == nil {
		return nil
	}
	return e.mask.LastChange()
}

func (e *Editor) requireImage() error {
	if e.img == nil {
		return ErrNoActiveImage
	}
	return nil
}

// commit stores a record for undo, either into the open change group or,
// while idle, as a single-record group of its own. Committing a mutation
// invalidates whatever could previously be redone.
func (e *Editor) commit(rec record) {
	e.undone = nil
	if e.open != nil {
		e.open.records = append(e.open.records, rec)
		return
	}
	e.done = append(e.done, &ChangeGroup{records: []record{rec}})
}

// Select marks the given voxels as selected. Voxels that are already
// selected contribute nothing; if every voxel is already selected the call
// is a no-op and produces no undo record. Out-of-bounds coordinates are
// rejected before any state changes.
func (e *Editor) Select(coords []voxel.Coord) error {
	if err := e.requireImage(); err != nil {
		return err
	}
	changed, err := e.mask.Add(coords)
	if err != nil {
		return err
	}
	if len(changed) == 0 {
		return nil
	}
	e.commit(&selectionRecord{added: changed})
	e.gate.Notify()
	return nil
}

// Deselect unmarks the given voxels, with semantics symmetric to Select.
func (e *Editor) Deselect(coords []voxel.Coord) error {
	if err := e.requireImage(); err != nil {
		return err
	}
	changed, err := e.mask.Remove(coords)
	if err != nil {
		return err
	}
	if len(changed) == 0 {
		return nil
	}
	e.commit(&selectionRecord{removed: changed})
	e.gate.Notify()
	return nil
}

// SelectBlock selects a brush block of side 2*radius+1 centred on the given
// voxel, restricted to the listed axes (two axes give an in-slice 2D brush,
// voxel.AllAxes a 3D one) and clipped to the volume.
func (e *Editor) SelectBlock(center voxel.Coord, radius int, axes []int) error {
	coords, err := e.blockCoords(center, radius, axes)
	if err != nil {
		return err
	}
	return e.Select(coords)
}

// DeselectBlock deselects a brush block, with semantics symmetric to
// SelectBlock.
func (e *Editor) DeselectBlock(center voxel.Coord, radius int, axes []int) error {
	coords, err := e.blockCoords(center, radius, axes)
	if err != nil {
		return err
	}
	return e.Deselect(coords)
}

func (e *Editor) blockCoords(center voxel.Coord, radius int, axes []int) ([]voxel.Coord, error) {
	if err := e.requireImage(); err != nil {
		return nil, err
	}
	shape := e.img.Shape()
	if !shape.Contains(center) {
		return nil, fmt.Errorf("block centre %v outside volume %dx%dx%d: %w",
			center, shape.X, shape.Y, shape.Z, voxel.ErrOutOfBounds)
	}
	if len(axes) == 0 {
		axes = voxel.AllAxes
	}
	return mask.BlockAround(center, radius, shape, axes).Coords(), nil
}

// ClearSelection deselects every voxel. The live mask reports a full
// invalidate (nil delta), while the undo record remembers exactly which
// voxels were selected so the clear can be reverted.
func (e *Editor) ClearSelection() error {
	if err := e.requireImage(); err != nil {
		return err
	}
	selected := e.mask.Coords()
	if len(selected) == 0 {
		return nil
	}
	e.mask.Clear()
	e.commit(&selectionRecord{removed: selected})
	e.gate.Notify()
	return nil
}

// GrowSelection runs intensity region growing from the seed and merges the
// result into the selection. With replaceExisting the grown region replaces
// the current selection entirely, which is how callers implement the
// "shrinking the search radius must not leave stale voxels" policy; without
// it the grown region is added to whatever is already selected. The net
// effect is captured as a single undo record and a single notification.
func (e *Editor) GrowSelection(seed voxel.Coord, p grow.Params, replaceExisting bool) error {
	if err := e.requireImage(); err != nil {
		return err
	}

	region, err := grow.Grow(e.img, seed, p)
	if err != nil {
		return err
	}

	var added []voxel.Coord
	for _, c := range region {
		if !e.mask.Has(c) {
			added = append(added, c)
		}
	}

	var removed []voxel.Coord
	if replaceExisting {
		shape := e.img.Shape()
		inRegion := make(map[int]struct{}, len(region))
		for _, c := range region {
			inRegion[shape.Index(c)] = struct{}{}
		}
		for _, c := range e.mask.Coords() {
			if _, ok := inRegion[shape.Index(c)]; !ok {
				removed = append(removed, c)
			}
		}
	}

	if len(added) == 0 && len(removed) == 0 {
		return nil
	}

	rec := &selectionRecord{added: added, removed: removed}
	e.commit(rec)
	// Replaying the fresh record applies removals and additions as one
	// net change: a single union delta and a single notification.
	return e.applyWithUnionDelta(&ChangeGroup{records: []record{rec}}, false)
}

// FillSelection writes the given value into the image at every selected
// voxel, recording the old values so the fill can be undone. It requires a
// writable image. Filling an empty selection is defined as a no-op, not an
// error. The selection itself does not change, so no selection-changed
// notification fires.
func (e *Editor) FillSelection(value float64) error {
	if err := e.requireImage(); err != nil {
		return err
	}
	w, ok := e.img.(volume.Writable)
	if !ok {
		return fmt.Errorf("fill: active image is read-only")
	}

	coords := e.mask.Coords()
	if len(coords) == 0 {
		return nil
	}

	oldVals := make([]float64, len(coords))
	for i, c := range coords {
		oldVals[i] = w.ValueAt(c)
		w.SetValueAt(c, value)
	}

	e.commit(&fillRecord{img: w, coords: coords, oldVals: oldVals, newValue: value})
	return nil
}

// CreateMaskFromSelection extracts the selection as a new binary volume of
// the same shape and spacing as the active image: 1 at selected voxels and
// 0 elsewhere.
func (e *Editor) CreateMaskFromSelection() (*volume.Dense, error) {
	if err := e.requireImage(); err != nil {
		return nil, err
	}
	out, err := volume.NewDense(e.img.Shape(), e.img.Spacing())
	if err != nil {
		return nil, err
	}
	for _, c := range e.mask.Coords() {
		out.SetValueAt(c, 1)
	}
	return out, nil
}

// CreateROIFromSelection extracts a region-of-interest volume: the image
// value at every selected voxel and 0 elsewhere.
func (e *Editor) CreateROIFromSelection() (*volume.Dense, error) {
	if err := e.requireImage(); err != nil {
		return nil, err
	}
	out, err := volume.NewDense(e.img.Shape(), e.img.Spacing())
	if err != nil {
		return nil, err
	}
	for _, c := range e.mask.Coords() {
		out.SetValueAt(c, e.img.ValueAt(c))
	}
	return out, nil
}

// StartChangeGroup opens a change group. Every mutation until the matching
// EndChangeGroup accumulates into it and the whole group undoes and redoes
// as one unit. Starting a group while one is open violates the contract and
// fails with ErrIllegalState.
func (e *Editor) StartChangeGroup() error {
	if err := e.requireImage(); err != nil {
		return err
	}
	if e.open != nil {
		return fmt.Errorf("%w: change group already open", ErrIllegalState)
	}
	e.open = &ChangeGroup{}
	return nil
}

// EndChangeGroup seals the open change group. A group that recorded nothing
// is discarded; otherwise it is pushed onto the done stack and the redo
// history is invalidated. Ending while no group is open fails with
// ErrIllegalState.
func (e *Editor) EndChangeGroup() error {
	if e.open == nil {
		return fmt.Errorf("%w: no change group open", ErrIllegalState)
	}
	g := e.open
	e.open = nil
	if g.Len() == 0 {
		return nil
	}
	e.done = append(e.done, g)
	e.undone = nil
	return nil
}

// CanUndo reports whether an undo step is available.
func (e *Editor) CanUndo() bool {
	return len(e.done) > 0
}

// CanRedo reports whether a redo step is available.
func (e *Editor) CanRedo() bool {
	return len(e.undone) > 0
}

// Undo reverts the most recently applied change group, record by record in
// reverse order, and moves it onto the redo stack. It reports whether
// anything was undone: with an empty done stack, or while a change group is
// open, it is a no-op. Consumers are expected to gate UI affordances behind
// CanUndo rather than probing.
//
// Per-record notifications are suppressed during replay; a single
// notification fires afterwards carrying the union bounding block of the
// group's selection changes.
func (e *Editor) Undo() bool {
	if e.open != nil || len(e.done) == 0 {
		return false
	}
	g := e.done[len(e.done)-1]
	e.done = e.done[:len(e.done)-1]

	if err := e.applyWithUnionDelta(g, true); err != nil {
		// Replay of a recorded group cannot fail on a mask of the
		// same shape; treat failure as corruption.
		panic(fmt.Sprintf("editor: undo replay failed: %v", err))
	}

	e.undone = append(e.undone, g)
	return true
}

// Redo reapplies the most recently undone change group, record by record in
// forward order, and moves it back onto the done stack. It is a no-op when
// nothing has been undone or while a change group is open.
func (e *Editor) Redo() bool {
	if e.open != nil || len(e.undone) == 0 {
		return false
	}
	g := e.undone[len(e.undone)-1]
	e.undone = e.undone[:len(e.undone)-1]

	if err := e.applyWithUnionDelta(g, false); err != nil {
		panic(fmt.Sprintf("editor: redo replay failed: %v", err))
	}

	e.done = append(e.done, g)
	return true
}

// applyWithUnionDelta replays a change group under a suspended notification
// gate, then publishes one delta covering the union bounding block of every
// selection change in the group, followed by at most one notification.
// With reverse set the records run backwards through their inverses (undo);
// otherwise forwards (redo).
func (e *Editor) applyWithUnionDelta(g *ChangeGroup, reverse bool) error {
	release := e.gate.Suspend()
	defer release()

	bounds, selChanged := g.extent()
	var before []bool
	if selChanged {
		before = e.mask.Snapshot(bounds)
	}

	if reverse {
		for i := len(g.records) - 1; i >= 0; i-- {
			if err := g.records[i].revert(e.mask); err != nil {
				return err
			}
			if _, ok := g.records[i].extent(); ok {
				e.gate.Notify()
			}
		}
	} else {
		for _, r := range g.records {
			if err := r.apply(e.mask); err != nil {
				return err
			}
			if _, ok := r.extent(); ok {
				e.gate.Notify()
			}
		}
	}

	if selChanged {
		e.mask.SetLastChange(&mask.Delta{
			Bounds: bounds,
			Old:    before,
			New:    e.mask.Snapshot(bounds),
		})
	}
	return nil
}
