// Package grow implements intensity-based region growing over a scalar
// volume: the "magic wand" selection. Growing is a pure function of the
// image data, a seed voxel and the growth parameters; it never mutates any
// state, so callers decide how the result is combined with an existing
// selection.
package grow

import (
	"fmt"
	"math"

	"voxedit/pkg/volume"
	"voxedit/pkg/voxel"
)

// Params controls a single growth operation.
type Params struct {
	// Precision is the intensity tolerance: a voxel v qualifies when
	// |image[v] - image[seed]| <= Precision. Zero selects only voxels
	// with exactly the seed's value. Must be non-negative.
	Precision float64

	// SearchRadius bounds the search to an axis-aligned box around the
	// seed, expressed as a physical distance and converted to per-axis
	// voxel counts through the image spacing. Zero or negative disables
	// the limit and the whole volume is searched.
	SearchRadius float64

	// Local restricts the result to voxels reachable from the seed
	// through a chain of face-adjacent qualifying voxels (a true flood
	// fill). When false every qualifying voxel in the search window is
	// selected regardless of connectivity.
	Local bool
}

// Grow selects voxels similar in intensity to the seed and returns them in
// scan order (X fastest). The ordering makes the result deterministic and,
// for the local case, independent of the flood traversal order: only
// reachability decides membership.
//
// A seed outside the volume fails with a wrapped voxel.ErrOutOfBounds. An
// empty eligible set yields an empty result, never an error.
func Grow(img volume.Image, seed voxel.Coord, p Params) ([]voxel.Coord, error) {
	shape := img.Shape()
	if !shape.Contains(seed) {
		return nil, fmt.Errorf("grow seed %v outside volume %dx%dx%d: %w",
			seed, shape.X, shape.Y, shape.Z, voxel.ErrOutOfBounds)
	}
	if p.Precision < 0 {
		return nil, fmt.Errorf("grow precision must be non-negative, got %g", p.Precision)
	}

	window := searchWindow(seed, p.SearchRadius, img.Spacing(), shape)
	seedValue := img.ValueAt(seed)
	qualifies := func(c voxel.Coord) bool {
		return math.Abs(img.ValueAt(c)-seedValue) <= p.Precision
	}

	if !p.Local {
		var out []voxel.Coord
		window.Each(func(c voxel.Coord) {
			if qualifies(c) {
				out = append(out, c)
			}
		})
		return out, nil
	}

	return flood(window, seed, qualifies), nil
}

// flood performs a 6-connected (face adjacency) breadth-first fill from the
// seed, bounded by the search window. Membership is collected in a bitmap
// and emitted in scan order afterwards, so the queue discipline cannot leak
// into the result.
func flood(window voxel.Extent, seed voxel.Coord, qualifies func(voxel.Coord) bool) []voxel.Coord {
	marked := make([]bool, window.Count())
	marked[window.Index(seed)] = true

	queue := []voxel.Coord{seed}
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]

		for _, n := range neighbours(c) {
			if !window.Contains(n) {
				continue
			}
			idx := window.Index(n)
			if marked[idx] || !qualifies(n) {
				continue
			}
			marked[idx] = true
			queue = append(queue, n)
		}
	}

	var out []voxel.Coord
	window.Each(func(c voxel.Coord) {
		if marked[window.Index(c)] {
			out = append(out, c)
		}
	})
	return out
}

func neighbours(c voxel.Coord) [6]voxel.Coord {
	return [6]voxel.Coord{
		{X: c.X - 1, Y: c.Y, Z: c.Z},
		{X: c.X + 1, Y: c.Y, Z: c.Z},
		{X: c.X, Y: c.Y - 1, Z: c.Z},
		{X: c.X, Y: c.Y + 1, Z: c.Z},
		{X: c.X, Y: c.Y, Z: c.Z - 1},
		{X: c.X, Y: c.Y, Z: c.Z + 1},
	}
}

// searchWindow converts a physical search radius into an axis-aligned voxel
// box around the seed, clipped to the volume. Each axis gets its own voxel
// radius because voxels are rarely isotropic.
func searchWindow(seed voxel.Coord, radius float64, sp voxel.Spacing, shape voxel.Shape) voxel.Extent {
	if radius <= 0 {
		return voxel.Extent{Dim: shape}
	}

	rx := axisRadius(radius, sp.X)
	ry := axisRadius(radius, sp.Y)
	rz := axisRadius(radius, sp.Z)

	return voxel.Extent{
		Offset: voxel.Coord{X: seed.X - rx, Y: seed.Y - ry, Z: seed.Z - rz},
		Dim:    voxel.Shape{X: 2*rx + 1, Y: 2*ry + 1, Z: 2*rz + 1},
	}.Clip(shape)
}

func axisRadius(radius, spacing float64) int {
	if spacing <= 0 {
		spacing = 1
	}
	return int(radius / spacing)
}
