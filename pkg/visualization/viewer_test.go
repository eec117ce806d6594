package visualization

import (
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"voxedit/pkg/mask"
	"voxedit/pkg/volume"
	"voxedit/pkg/voxel"
)

func gradientVolume(t *testing.T, shape voxel.Shape) *volume.Dense {
	t.Helper()
	data := make([]float64, shape.Count())
	for i := range data {
		data[i] = float64(i)
	}
	img, err := volume.FromData(data, shape, voxel.Spacing{})
	if err != nil {
		t.Fatalf("building test volume: %v", err)
	}
	return img
}

// TestExtractSliceDimensions verifies the in-plane dimensions for each axis.
func TestExtractSliceDimensions(t *testing.T) {
	shape := voxel.Shape{X: 4, Y: 3, Z: 2}
	v := NewViewer(gradientVolume(t, shape), nil)

	cases := []struct {
		axis          string
		width, height int
	}{
		{"x", shape.Z, shape.Y},
		{"y", shape.X, shape.Z},
		{"z", shape.X, shape.Y},
	}
	for _, tc := range cases {
		img, err := v.ExtractSlice(tc.axis, 0)
		if err != nil {
			t.Fatalf("ExtractSlice(%s) failed: %v", tc.axis, err)
		}
		b := img.Bounds()
		if b.Dx() != tc.width || b.Dy() != tc.height {
			t.Errorf("%s slice is %dx%d, want %dx%d",
				tc.axis, b.Dx(), b.Dy(), tc.width, tc.height)
		}
	}
}

// TestExtractSliceNormalisation verifies that the darkest and brightest
// voxels map to black and white.
func TestExtractSliceNormalisation(t *testing.T) {
	shape := voxel.Shape{X: 2, Y: 1, Z: 1}
	v := NewViewer(gradientVolume(t, shape), nil)

	img, err := v.ExtractSlice("z", 0)
	if err != nil {
		t.Fatalf("ExtractSlice failed: %v", err)
	}
	nrgba := img.(*image.NRGBA)

	if got := nrgba.NRGBAAt(0, 0); got != (color.NRGBA{R: 0, G: 0, B: 0, A: 255}) {
		t.Errorf("minimum voxel = %+v, want black", got)
	}
	if got := nrgba.NRGBAAt(1, 0); got != (color.NRGBA{R: 255, G: 255, B: 255, A: 255}) {
		t.Errorf("maximum voxel = %+v, want white", got)
	}
}

// TestSelectionOverlay verifies that selected voxels are tinted and the rest
// stay grey.
func TestSelectionOverlay(t *testing.T) {
	shape := voxel.Shape{X: 2, Y: 2, Z: 1}
	img := gradientVolume(t, shape)
	m, err := mask.New(shape)
	if err != nil {
		t.Fatalf("creating mask: %v", err)
	}
	if _, err := m.Add([]voxel.Coord{{X: 0, Y: 0, Z: 0}}); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	v := NewViewer(img, m)
	out, err := v.ExtractSlice("z", 0)
	if err != nil {
		t.Fatalf("ExtractSlice failed: %v", err)
	}
	nrgba := out.(*image.NRGBA)

	tinted := nrgba.NRGBAAt(0, 0)
	if tinted.R == tinted.G && tinted.G == tinted.B {
		t.Errorf("selected voxel not tinted: %+v", tinted)
	}
	plain := nrgba.NRGBAAt(1, 0)
	if plain.R != plain.G || plain.G != plain.B {
		t.Errorf("unselected voxel tinted: %+v", plain)
	}
}

// TestExtractSliceErrors covers the invalid axis and out-of-range position
// cases.
func TestExtractSliceErrors(t *testing.T) {
	shape := voxel.Shape{X: 2, Y: 2, Z: 2}
	v := NewViewer(gradientVolume(t, shape), nil)

	if _, err := v.ExtractSlice("w", 0); err == nil {
		t.Error("invalid axis accepted")
	}
	if _, err := v.ExtractSlice("z", shape.Z); err == nil {
		t.Error("out-of-range position accepted")
	}
	if _, err := v.ExtractSlice("z", -1); err == nil {
		t.Error("negative position accepted")
	}
}

// TestSaveSliceSequence verifies that every slice along the axis lands on
// disk under the expected name.
func TestSaveSliceSequence(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping file I/O test in short mode")
	}

	shape := voxel.Shape{X: 3, Y: 3, Z: 4}
	v := NewViewer(gradientVolume(t, shape), nil)
	outDir := filepath.Join(t.TempDir(), "slices")

	if err := v.SaveSliceSequence("z", outDir); err != nil {
		t.Fatalf("SaveSliceSequence failed: %v", err)
	}

	for z := 0; z < shape.Z; z++ {
		filename := filepath.Join(outDir, fmt.Sprintf("slice_z_%03d.png", z))
		if _, err := os.Stat(filename); err != nil {
			t.Errorf("missing slice file %s: %v", filename, err)
		}
	}

	if err := v.SaveSliceSequence("invalid", outDir); err == nil {
		t.Error("invalid axis accepted")
	}
}
