package main

import (
	"fmt"
	"io"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"voxedit/pkg/stats"
	"voxedit/pkg/volume"
	"voxedit/pkg/voxel"
)

// volumeFlags are the shared flags describing a raw input volume.
type volumeFlags struct {
	input   string
	dims    string
	element string
	spacing string
}

func (f *volumeFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.input, "input", "i", "", "raw little-endian volume dump to edit")
	cmd.Flags().StringVarP(&f.dims, "dims", "d", "", "volume dimensions as X,Y,Z")
	cmd.Flags().StringVarP(&f.element, "element", "e", string(volume.Uint8), "raw element type: uint8, uint16 or float32")
	cmd.Flags().StringVarP(&f.spacing, "spacing", "s", "1,1,1", "physical voxel size as dx,dy,dz in mm")
}

// load reads the raw volume described by the flags.
func (f *volumeFlags) load() (*volume.Dense, error) {
	if f.input == "" {
		return nil, fmt.Errorf("an input volume is required (-i)")
	}

	shape, err := parseDims(f.dims)
	if err != nil {
		return nil, err
	}
	elem, err := volume.ParseElementType(f.element)
	if err != nil {
		return nil, err
	}
	spacing, err := parseSpacing(f.spacing)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(f.input)
	if err != nil {
		return nil, fmt.Errorf("opening volume: %w", err)
	}
	defer file.Close()

	img, err := volume.ReadRaw(file, shape, elem, spacing)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", f.input, err)
	}
	return img, nil
}

func parseDims(s string) (voxel.Shape, error) {
	var shape voxel.Shape
	if _, err := fmt.Sscanf(s, "%d,%d,%d", &shape.X, &shape.Y, &shape.Z); err != nil {
		return voxel.Shape{}, fmt.Errorf("dimensions must be given as X,Y,Z (got %q)", s)
	}
	if !shape.Valid() {
		return voxel.Shape{}, fmt.Errorf("dimensions must be positive (got %q)", s)
	}
	return shape, nil
}

func parseSpacing(s string) (voxel.Spacing, error) {
	var sp voxel.Spacing
	if _, err := fmt.Sscanf(s, "%g,%g,%g", &sp.X, &sp.Y, &sp.Z); err != nil {
		return voxel.Spacing{}, fmt.Errorf("spacing must be given as dx,dy,dz (got %q)", s)
	}
	return sp, nil
}

func parseCoord(s string) (voxel.Coord, error) {
	var c voxel.Coord
	if _, err := fmt.Sscanf(s, "%d,%d,%d", &c.X, &c.Y, &c.Z); err != nil {
		return voxel.Coord{}, fmt.Errorf("coordinate must be given as x,y,z (got %q)", s)
	}
	return c, nil
}

// printSelectionStats renders the selection intensity summary as a table.
func printSelectionStats(w io.Writer, img volume.Image, coords []voxel.Coord) {
	s := stats.Selection(img, coords)

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Metric", "Value"})
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_RIGHT})
	table.Append([]string{"Selected voxels", fmt.Sprintf("%d", s.Count)})
	table.Append([]string{"Mean intensity", fmt.Sprintf("%.3f", s.Mean)})
	table.Append([]string{"Std deviation", fmt.Sprintf("%.3f", s.StdDev)})
	table.Append([]string{"Min intensity", fmt.Sprintf("%.3f", s.Min)})
	table.Append([]string{"Max intensity", fmt.Sprintf("%.3f", s.Max)})
	table.Append([]string{"Entropy (nats)", fmt.Sprintf("%.3f", s.Entropy)})
	table.Render()
}

// writeMaskFile saves the mask as one byte per voxel.
func writeMaskFile(path string, write func(io.Writer) error) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer file.Close()

	if err := write(file); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
