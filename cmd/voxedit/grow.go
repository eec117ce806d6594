package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"voxedit/pkg/editor"
	"voxedit/pkg/grow"
	"voxedit/pkg/volume"
)

var growVolume volumeFlags

var (
	growSeedFlag    string
	growMaskOutFlag string
	growROIOutFlag  string
	growNoStatsFlag bool
)

var (
	growPrecisionFlag float64
	growRadiusFlag    float64
	growLocalFlag     bool
	growReplaceFlag   bool
)

var growCmd = &cobra.Command{
	Use:   "grow",
	Short: "Grow a selection from a seed voxel by intensity similarity",
	Long: `Grow selects all voxels whose intensity is within --precision of the
seed voxel's value. With --local only voxels face-connected to the seed
through other qualifying voxels are selected; with --radius the search is
bounded to a physical distance around the seed.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		img, err := growVolume.load()
		if err != nil {
			return err
		}

		seed, err := parseCoord(growSeedFlag)
		if err != nil {
			return err
		}

		params := grow.Params{
			Precision:    cfg.Grow.Precision,
			SearchRadius: cfg.Grow.SearchRadius,
			Local:        cfg.Grow.Local,
		}
		replace := cfg.Grow.ReplaceExisting
		if cmd.Flags().Changed("precision") {
			params.Precision = growPrecisionFlag
		}
		if cmd.Flags().Changed("radius") {
			params.SearchRadius = growRadiusFlag
		}
		if cmd.Flags().Changed("local") {
			params.Local = growLocalFlag
		}
		if cmd.Flags().Changed("replace") {
			replace = growReplaceFlag
		}

		ed, err := editor.New(img)
		if err != nil {
			return err
		}

		start := time.Now()
		if err := ed.GrowSelection(seed, params, replace); err != nil {
			return fmt.Errorf("growing selection: %w", err)
		}
		slog.Info("selection grown",
			"seed", seed, "precision", params.Precision,
			"local", params.Local, "voxels", ed.SelectionSize(),
			"elapsed", time.Since(start))

		fmt.Printf("Selected %d of %d voxels from seed %v\n",
			ed.SelectionSize(), img.Shape().Count(), seed)

		if !growNoStatsFlag {
			printSelectionStats(os.Stdout, img, ed.Selection())
		}

		if growMaskOutFlag != "" {
			if err := writeMaskFile(growMaskOutFlag, ed.Mask().WriteRaw); err != nil {
				return err
			}
			fmt.Printf("Selection mask saved to: %s\n", growMaskOutFlag)
		}

		if growROIOutFlag != "" {
			roi, err := ed.CreateROIFromSelection()
			if err != nil {
				return err
			}
			err = writeMaskFile(growROIOutFlag, func(w io.Writer) error {
				return volume.WriteRaw(w, roi)
			})
			if err != nil {
				return err
			}
			fmt.Printf("ROI volume saved to: %s\n", growROIOutFlag)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(growCmd)
	growVolume.register(growCmd)

	growCmd.Flags().StringVar(&growSeedFlag, "seed", "", "seed voxel as x,y,z")
	growCmd.Flags().Float64VarP(&growPrecisionFlag, "precision", "p", 10, "intensity tolerance around the seed value")
	growCmd.Flags().Float64VarP(&growRadiusFlag, "radius", "r", 0, "physical search radius in mm (0 = unbounded)")
	growCmd.Flags().BoolVarP(&growLocalFlag, "local", "l", false, "select only voxels connected to the seed")
	growCmd.Flags().BoolVar(&growReplaceFlag, "replace", true, "replace the existing selection instead of adding to it")
	growCmd.Flags().StringVar(&growMaskOutFlag, "mask-out", "", "write the selection mask as a raw uint8 dump")
	growCmd.Flags().StringVar(&growROIOutFlag, "roi-out", "", "write the selected region of interest as a raw float32 dump")
	growCmd.Flags().BoolVar(&growNoStatsFlag, "no-stats", false, "skip the selection statistics table")

	cobra.CheckErr(growCmd.MarkFlagRequired("input"))
	cobra.CheckErr(growCmd.MarkFlagRequired("dims"))
	cobra.CheckErr(growCmd.MarkFlagRequired("seed"))
}
