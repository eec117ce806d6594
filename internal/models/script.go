package models

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Operation names accepted in a script step.
const (
	OpSelect        = "select"
	OpDeselect      = "deselect"
	OpSelectBlock   = "selectBlock"
	OpDeselectBlock = "deselectBlock"
	OpGrow          = "grow"
	OpFill          = "fill"
	OpClear         = "clear"
	OpUndo          = "undo"
	OpRedo          = "redo"
	OpGroup         = "group"
)

// VolumeSpec describes a raw volume dump on disk: where it lives and how to
// interpret its bytes.
type VolumeSpec struct {
	// Path is the location of the raw little-endian dump
	Path string `yaml:"path"`

	// Dims are the volume dimensions in voxels, X Y Z
	Dims [3]int `yaml:"dims"`

	// Element is the scalar element type: uint8, uint16 or float32
	Element string `yaml:"element"`

	// Spacing is the physical voxel size along each axis in mm
	Spacing [3]float64 `yaml:"spacing"`
}

// Step is one editing operation in a script. Which fields are meaningful
// depends on Op; unused fields are ignored.
type Step struct {
	// Op names the operation to perform
	Op string `yaml:"op"`

	// Coords lists voxel coordinates for select/deselect
	Coords [][3]int `yaml:"coords,omitempty"`

	// Center, Radius and Axes configure block (brush) operations
	Center *[3]int `yaml:"center,omitempty"`
	Radius int     `yaml:"radius,omitempty"`
	Axes   []int   `yaml:"axes,omitempty"`

	// Seed, Precision, SearchRadius, Local and Replace configure grow
	Seed         *[3]int `yaml:"seed,omitempty"`
	Precision    float64 `yaml:"precision,omitempty"`
	SearchRadius float64 `yaml:"searchRadius,omitempty"`
	Local        bool    `yaml:"local,omitempty"`
	Replace      bool    `yaml:"replace,omitempty"`

	// Value is the fill value for fill steps
	Value float64 `yaml:"value,omitempty"`

	// Steps holds the nested operations of a group step
	Steps []Step `yaml:"steps,omitempty"`
}

// Script is a recorded sequence of selection-editing operations that can be
// replayed against a volume.
type Script struct {
	// Name identifies the script in logs and reports
	Name string `yaml:"name"`

	// Volume optionally names the volume the script expects; command
	// line flags may override it
	Volume *VolumeSpec `yaml:"volume,omitempty"`

	// Steps are the operations, applied in order
	Steps []Step `yaml:"steps"`
}

// ParseScript decodes a YAML script document.
func ParseScript(data []byte) (*Script, error) {
	var s Script
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("error parsing script: %w", err)
	}
	if len(s.Steps) == 0 {
		return nil, fmt.Errorf("script %q has no steps", s.Name)
	}
	return &s, nil
}

// LoadScript reads and parses a YAML script file.
func LoadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading script file: %w", err)
	}
	return ParseScript(data)
}
