// Package visualization extracts axis-aligned slices of a volume as images,
// optionally tinting the voxels covered by a selection mask. It exists for
// offline inspection of editing results; interactive display is the job of
// whatever GUI embeds the engine.
package visualization

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"runtime"

	"golang.org/x/sync/errgroup"

	"voxedit/pkg/mask"
	"voxedit/pkg/volume"
	"voxedit/pkg/voxel"
)

// Viewer renders 2D slices of a volume with an optional selection overlay.
type Viewer struct {
	img volume.Image
	sel *mask.Mask

	// lo and hi are the intensity range used to normalise grey values,
	// computed once on first use.
	lo, hi     float64
	rangeKnown bool
}

// selectionTint is the overlay colour for selected voxels, blended over the
// grey intensity value.
var selectionTint = color.NRGBA{R: 255, G: 0, B: 255, A: 255}

// NewViewer creates a viewer over the given image. The selection mask may
// be nil, in which case plain intensity slices are produced.
func NewViewer(img volume.Image, sel *mask.Mask) *Viewer {
	return &Viewer{img: img, sel: sel}
}

// ExtractSlice extracts a 2D slice perpendicular to the given axis ("x",
// "y" or "z") at the given position. Intensities are normalised to the
// volume's full range; selected voxels are tinted.
func (v *Viewer) ExtractSlice(axis string, position int) (image.Image, error) {
	shape := v.img.Shape()

	var width, height int
	var at func(i, j int) voxel.Coord

	switch axis {
	case "x", "X":
		if position < 0 || position >= shape.X {
			return nil, fmt.Errorf("position %d outside x extent %d", position, shape.X)
		}
		width, height = shape.Z, shape.Y
		at = func(i, j int) voxel.Coord { return voxel.Coord{X: position, Y: j, Z: i} }
	case "y", "Y":
		if position < 0 || position >= shape.Y {
			return nil, fmt.Errorf("position %d outside y extent %d", position, shape.Y)
		}
		width, height = shape.X, shape.Z
		at = func(i, j int) voxel.Coord { return voxel.Coord{X: i, Y: position, Z: j} }
	case "z", "Z":
		if position < 0 || position >= shape.Z {
			return nil, fmt.Errorf("position %d outside z extent %d", position, shape.Z)
		}
		width, height = shape.X, shape.Y
		at = func(i, j int) voxel.Coord { return voxel.Coord{X: i, Y: j, Z: position} }
	default:
		return nil, fmt.Errorf("invalid axis: %s (must be x, y, or z)", axis)
	}

	lo, hi := v.intensityRange()
	out := image.NewNRGBA(image.Rect(0, 0, width, height))

	for j := 0; j < height; j++ {
		for i := 0; i < width; i++ {
			c := at(i, j)
			grey := normalise(v.img.ValueAt(c), lo, hi)
			px := color.NRGBA{R: grey, G: grey, B: grey, A: 255}
			if v.sel != nil && v.sel.Has(c) {
				px = blend(px, selectionTint)
			}
			out.SetNRGBA(i, j, px)
		}
	}

	return out, nil
}

// SaveSlice writes a slice image as a PNG file.
func (v *Viewer) SaveSlice(img image.Image, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	return png.Encode(file, img)
}

// SaveSliceSequence extracts and saves every slice along the given axis
// into outputDir, processing slices in parallel. Files are named
// slice_<axis>_<position>.png.
func (v *Viewer) SaveSliceSequence(axis string, outputDir string) error {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return err
	}

	shape := v.img.Shape()
	var maxPos int
	switch axis {
	case "x", "X":
		maxPos = shape.X
	case "y", "Y":
		maxPos = shape.Y
	case "z", "Z":
		maxPos = shape.Z
	default:
		return fmt.Errorf("invalid axis: %s (must be x, y, or z)", axis)
	}

	// Resolve the intensity range up front; the workers then only read.
	v.intensityRange()

	var g errgroup.Group
	g.SetLimit(runtime.NumCPU())

	for pos := 0; pos < maxPos; pos++ {
		pos := pos
		g.Go(func() error {
			img, err := v.ExtractSlice(axis, pos)
			if err != nil {
				return err
			}
			filename := filepath.Join(outputDir, fmt.Sprintf("slice_%s_%03d.png", axis, pos))
			return v.SaveSlice(img, filename)
		})
	}

	return g.Wait()
}

// intensityRange scans the volume once for its minimum and maximum values.
func (v *Viewer) intensityRange() (lo, hi float64) {
	if v.rangeKnown {
		return v.lo, v.hi
	}

	shape := v.img.Shape()
	lo, hi = math.Inf(1), math.Inf(-1)
	full := voxel.Extent{Dim: shape}
	full.Each(func(c voxel.Coord) {
		val := v.img.ValueAt(c)
		lo = math.Min(lo, val)
		hi = math.Max(hi, val)
	})

	v.lo, v.hi, v.rangeKnown = lo, hi, true
	return lo, hi
}

func normalise(val, lo, hi float64) uint8 {
	if hi <= lo {
		return 0
	}
	scaled := (val - lo) / (hi - lo) * 255
	return uint8(math.Max(0, math.Min(255, scaled)))
}

// blend mixes the tint over the base colour at 70% opacity.
func blend(base, tint color.NRGBA) color.NRGBA {
	mix := func(b, t uint8) uint8 {
		return uint8(0.3*float64(b) + 0.7*float64(t))
	}
	return color.NRGBA{
		R: mix(base.R, tint.R),
		G: mix(base.G, tint.G),
		B: mix(base.B, tint.B),
		A: 255,
	}
}
