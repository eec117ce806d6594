// Package script replays recorded editing scripts against an editor. It is
// the batch counterpart of the interactive mouse-driven workflow: the same
// operations, described in YAML and applied in order.
package script

import (
	"fmt"

	"voxedit/internal/models"
	"voxedit/pkg/editor"
	"voxedit/pkg/grow"
	"voxedit/pkg/voxel"
)

// Result summarises a replayed script.
type Result struct {
	// Steps is the number of top-level steps applied.
	Steps int

	// SelectionSize is the number of selected voxels after the run.
	SelectionSize int

	// CanUndo and CanRedo report the undo/redo availability after the
	// run.
	CanUndo bool
	CanRedo bool
}

// Run applies every step of the script to the editor. Steps inside a group
// step execute within one change group and undo as a unit. The first
// failing step aborts the run.
func Run(ed *editor.Editor, s *models.Script) (Result, error) {
	for i, step := range s.Steps {
		if err := apply(ed, step); err != nil {
			return Result{}, fmt.Errorf("step %d (%s): %w", i+1, step.Op, err)
		}
	}
	return Result{
		Steps:         len(s.Steps),
		SelectionSize: ed.SelectionSize(),
		CanUndo:       ed.CanUndo(),
		CanRedo:       ed.CanRedo(),
	}, nil
}

func apply(ed *editor.Editor, step models.Step) error {
	switch step.Op {
	case models.OpSelect:
		return ed.Select(coords(step.Coords))

	case models.OpDeselect:
		return ed.Deselect(coords(step.Coords))

	case models.OpSelectBlock:
		c, err := center(step)
		if err != nil {
			return err
		}
		return ed.SelectBlock(c, step.Radius, step.Axes)

	case models.OpDeselectBlock:
		c, err := center(step)
		if err != nil {
			return err
		}
		return ed.DeselectBlock(c, step.Radius, step.Axes)

	case models.OpGrow:
		if step.Seed == nil {
			return fmt.Errorf("grow step needs a seed")
		}
		seed := voxel.Coord{X: step.Seed[0], Y: step.Seed[1], Z: step.Seed[2]}
		return ed.GrowSelection(seed, grow.Params{
			Precision:    step.Precision,
			SearchRadius: step.SearchRadius,
			Local:        step.Local,
		}, step.Replace)

	case models.OpFill:
		return ed.FillSelection(step.Value)

	case models.OpClear:
		return ed.ClearSelection()

	case models.OpUndo:
		ed.Undo()
		return nil

	case models.OpRedo:
		ed.Redo()
		return nil

	case models.OpGroup:
		if err := ed.StartChangeGroup(); err != nil {
			return err
		}
		for i, sub := range step.Steps {
			if sub.Op == models.OpGroup {
				return fmt.Errorf("nested group at step %d", i+1)
			}
			if err := apply(ed, sub); err != nil {
				return fmt.Errorf("group step %d (%s): %w", i+1, sub.Op, err)
			}
		}
		return ed.EndChangeGroup()

	default:
		return fmt.Errorf("unknown operation %q", step.Op)
	}
}

func coords(raw [][3]int) []voxel.Coord {
	out := make([]voxel.Coord, len(raw))
	for i, c := range raw {
		out[i] = voxel.Coord{X: c[0], Y: c[1], Z: c[2]}
	}
	return out
}

func center(step models.Step) (voxel.Coord, error) {
	if step.Center == nil {
		return voxel.Coord{}, fmt.Errorf("%s step needs a center", step.Op)
	}
	return voxel.Coord{X: step.Center[0], Y: step.Center[1], Z: step.Center[2]}, nil
}
