package grow

import (
	"errors"
	"testing"

	"voxedit/pkg/volume"
	"voxedit/pkg/voxel"
)

// testVolume builds a dense volume from explicit data with unit spacing.
func testVolume(t *testing.T, shape voxel.Shape, data []float64) *volume.Dense {
	t.Helper()
	img, err := volume.FromData(data, shape, voxel.Spacing{X: 1, Y: 1, Z: 1})
	if err != nil {
		t.Fatalf("building test volume: %v", err)
	}
	return img
}

// centreSpike returns a 3x3x3 volume of zeros with value 5 at the centre.
func centreSpike(t *testing.T) *volume.Dense {
	t.Helper()
	shape := voxel.Shape{X: 3, Y: 3, Z: 3}
	data := make([]float64, shape.Count())
	data[shape.Index(voxel.Coord{X: 1, Y: 1, Z: 1})] = 5
	return testVolume(t, shape, data)
}

func asSet(coords []voxel.Coord) map[voxel.Coord]struct{} {
	set := make(map[voxel.Coord]struct{}, len(coords))
	for _, c := range coords {
		set[c] = struct{}{}
	}
	return set
}

// TestLocalGrowFromSpike verifies exact-value local growth from the centre
// of a 3x3x3 volume: only the spike itself is selected.
func TestLocalGrowFromSpike(t *testing.T) {
	img := centreSpike(t)

	got, err := Grow(img, voxel.Coord{X: 1, Y: 1, Z: 1}, Params{Precision: 0, Local: true})
	if err != nil {
		t.Fatalf("Grow failed: %v", err)
	}
	if len(got) != 1 || got[0] != (voxel.Coord{X: 1, Y: 1, Z: 1}) {
		t.Errorf("Grow = %v, want just the centre voxel", got)
	}
}

// TestLocalGrowAroundSpike verifies that local growth from a corner of the
// spiked volume selects the 26 zero voxels: all are face-reachable around
// the centre.
func TestLocalGrowAroundSpike(t *testing.T) {
	img := centreSpike(t)

	got, err := Grow(img, voxel.Coord{X: 0, Y: 0, Z: 0}, Params{Precision: 0, Local: true})
	if err != nil {
		t.Fatalf("Grow failed: %v", err)
	}
	if len(got) != 26 {
		t.Fatalf("Grow selected %d voxels, want 26", len(got))
	}
	if _, ok := asSet(got)[voxel.Coord{X: 1, Y: 1, Z: 1}]; ok {
		t.Error("the centre spike must not be selected")
	}
}

// TestLocalVsGlobal uses two regions of identical value separated by a
// barrier: local growth selects only the seed's region, global growth both.
func TestLocalVsGlobal(t *testing.T) {
	// 5x1x1 volume: [7, 7, 9, 7, 7]. The 9 separates two 7-regions.
	shape := voxel.Shape{X: 5, Y: 1, Z: 1}
	img := testVolume(t, shape, []float64{7, 7, 9, 7, 7})
	seed := voxel.Coord{X: 0, Y: 0, Z: 0}

	local, err := Grow(img, seed, Params{Precision: 0, Local: true})
	if err != nil {
		t.Fatalf("local Grow failed: %v", err)
	}
	wantLocal := []voxel.Coord{{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}}
	if len(local) != 2 || local[0] != wantLocal[0] || local[1] != wantLocal[1] {
		t.Errorf("local Grow = %v, want %v", local, wantLocal)
	}

	global, err := Grow(img, seed, Params{Precision: 0, Local: false})
	if err != nil {
		t.Fatalf("global Grow failed: %v", err)
	}
	if len(global) != 4 {
		t.Errorf("global Grow selected %d voxels, want 4 (both regions)", len(global))
	}
	if _, ok := asSet(global)[voxel.Coord{X: 2, Y: 0, Z: 0}]; ok {
		t.Error("barrier voxel must not be selected")
	}
}

// TestPrecisionMonotonic verifies that for a fixed seed and non-local
// growth, a larger precision never shrinks the result set.
func TestPrecisionMonotonic(t *testing.T) {
	shape := voxel.Shape{X: 4, Y: 4, Z: 4}
	data := make([]float64, shape.Count())
	for i := range data {
		data[i] = float64(i % 11)
	}
	img := testVolume(t, shape, data)
	seed := voxel.Coord{X: 2, Y: 2, Z: 2}

	prev := -1
	for _, precision := range []float64{0, 1, 2.5, 5, 10, 20} {
		got, err := Grow(img, seed, Params{Precision: precision})
		if err != nil {
			t.Fatalf("Grow(precision=%g) failed: %v", precision, err)
		}
		if len(got) < prev {
			t.Errorf("precision %g selected %d voxels, fewer than previous %d",
				precision, len(got), prev)
		}
		prev = len(got)
	}

	// At a tolerance covering the whole value range, everything matches.
	if prev != shape.Count() {
		t.Errorf("widest growth selected %d of %d voxels", prev, shape.Count())
	}
}

// TestSearchRadius verifies the physical radius limit, including its
// interaction with anisotropic spacing.
func TestSearchRadius(t *testing.T) {
	shape := voxel.Shape{X: 9, Y: 9, Z: 9}
	img, err := volume.FromData(make([]float64, shape.Count()), shape,
		voxel.Spacing{X: 1, Y: 2, Z: 4})
	if err != nil {
		t.Fatalf("building volume: %v", err)
	}
	seed := voxel.Coord{X: 4, Y: 4, Z: 4}

	// A 4mm radius is 4 voxels along x, 2 along y, 1 along z.
	got, err := Grow(img, seed, Params{Precision: 0, SearchRadius: 4})
	if err != nil {
		t.Fatalf("Grow failed: %v", err)
	}
	want := 9 * 5 * 3
	if len(got) != want {
		t.Errorf("Grow selected %d voxels, want %d (9x5x3 window)", len(got), want)
	}

	for _, c := range got {
		if c.Z < 3 || c.Z > 5 {
			t.Errorf("voxel %v outside the 1-voxel z radius", c)
			break
		}
	}
}

// TestDeterminism verifies that repeated calls with identical inputs return
// identical results in identical order.
func TestDeterminism(t *testing.T) {
	img := centreSpike(t)
	seed := voxel.Coord{X: 0, Y: 0, Z: 0}
	params := Params{Precision: 0, Local: true}

	first, err := Grow(img, seed, params)
	if err != nil {
		t.Fatalf("Grow failed: %v", err)
	}
	for i := 0; i < 5; i++ {
		again, err := Grow(img, seed, params)
		if err != nil {
			t.Fatalf("Grow failed: %v", err)
		}
		if len(again) != len(first) {
			t.Fatalf("run %d returned %d voxels, want %d", i, len(again), len(first))
		}
		for j := range first {
			if again[j] != first[j] {
				t.Fatalf("run %d differs at %d: %v vs %v", i, j, again[j], first[j])
			}
		}
	}
}

// TestGrowErrors covers the failure modes: out-of-bounds seed and negative
// precision.
func TestGrowErrors(t *testing.T) {
	img := centreSpike(t)

	_, err := Grow(img, voxel.Coord{X: 3, Y: 0, Z: 0}, Params{})
	if !errors.Is(err, voxel.ErrOutOfBounds) {
		t.Errorf("out-of-bounds seed error = %v, want ErrOutOfBounds", err)
	}

	_, err = Grow(img, voxel.Coord{X: 0, Y: 0, Z: 0}, Params{Precision: -1})
	if err == nil {
		t.Error("negative precision accepted")
	}
}

// TestEmptyEligibleSetIsNotAnError verifies that a seed whose neighbourhood
// contains no other qualifying voxel still yields the seed itself, and that
// a zero-voxel result is possible only via an empty window, never an error.
func TestEmptyEligibleSetIsNotAnError(t *testing.T) {
	img := centreSpike(t)

	got, err := Grow(img, voxel.Coord{X: 1, Y: 1, Z: 1}, Params{Precision: 0})
	if err != nil {
		t.Fatalf("Grow failed: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("Grow = %v, want just the seed", got)
	}
}
