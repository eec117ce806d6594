package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"voxedit/internal/models"
	"voxedit/internal/script"
	"voxedit/pkg/editor"
	"voxedit/pkg/volume"
	"voxedit/pkg/voxel"
)

var scriptVolume volumeFlags

var (
	scriptMaskOutFlag string
	scriptOutFlag     string
	scriptNoStatsFlag bool
)

var scriptCmd = &cobra.Command{
	Use:   "script <script.yaml>",
	Short: "Replay a YAML editing script against a volume",
	Long: `Script replays a recorded sequence of editing operations (select,
deselect, block brushes, grow, fill, clear, undo, redo, and grouped steps)
against a volume. The volume may be named inside the script or given with
the usual volume flags, which take precedence.`,
	Args: cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		s, err := models.LoadScript(args[0])
		if err != nil {
			return err
		}

		img, err := loadScriptVolume(s)
		if err != nil {
			return err
		}

		ed, err := editor.New(img)
		if err != nil {
			return err
		}

		res, err := script.Run(ed, s)
		if err != nil {
			return fmt.Errorf("running script %s: %w", args[0], err)
		}
		slog.Info("script replayed", "script", args[0],
			"steps", res.Steps, "selected", res.SelectionSize)

		fmt.Printf("Applied %d steps; %d voxels selected (undo: %t, redo: %t)\n",
			res.Steps, res.SelectionSize, res.CanUndo, res.CanRedo)

		if !scriptNoStatsFlag {
			printSelectionStats(os.Stdout, img, ed.Selection())
		}

		if scriptMaskOutFlag != "" {
			if err := writeMaskFile(scriptMaskOutFlag, ed.Mask().WriteRaw); err != nil {
				return err
			}
			fmt.Printf("Selection mask saved to: %s\n", scriptMaskOutFlag)
		}

		if scriptOutFlag != "" {
			file, err := os.Create(scriptOutFlag)
			if err != nil {
				return fmt.Errorf("creating %s: %w", scriptOutFlag, err)
			}
			defer file.Close()
			if err := volume.WriteRaw(file, img); err != nil {
				return fmt.Errorf("writing %s: %w", scriptOutFlag, err)
			}
			fmt.Printf("Edited volume saved to: %s\n", scriptOutFlag)
		}

		return nil
	},
}

// loadScriptVolume resolves the input volume: explicit flags win over the
// volume block inside the script.
func loadScriptVolume(s *models.Script) (*volume.Dense, error) {
	if scriptVolume.input != "" {
		return scriptVolume.load()
	}

	if s.Volume == nil {
		return nil, fmt.Errorf("no input volume: give -i/--dims or add a volume block to the script")
	}

	spec := s.Volume
	elem, err := volume.ParseElementType(spec.Element)
	if err != nil {
		return nil, err
	}
	shape := voxel.Shape{X: spec.Dims[0], Y: spec.Dims[1], Z: spec.Dims[2]}
	spacing := voxel.Spacing{X: spec.Spacing[0], Y: spec.Spacing[1], Z: spec.Spacing[2]}

	file, err := os.Open(spec.Path)
	if err != nil {
		return nil, fmt.Errorf("opening volume: %w", err)
	}
	defer file.Close()

	img, err := volume.ReadRaw(file, shape, elem, spacing)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", spec.Path, err)
	}
	return img, nil
}

func init() {
	rootCmd.AddCommand(scriptCmd)
	scriptVolume.register(scriptCmd)

	scriptCmd.Flags().StringVar(&scriptMaskOutFlag, "mask-out", "", "write the final selection mask as a raw uint8 dump")
	scriptCmd.Flags().StringVarP(&scriptOutFlag, "output", "o", "", "write the edited volume as a raw float32 dump")
	scriptCmd.Flags().BoolVar(&scriptNoStatsFlag, "no-stats", false, "skip the selection statistics table")
}
