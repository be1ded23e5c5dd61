package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/jsphweid/hummix/arrange"
	"github.com/jsphweid/hummix/constants"
	"github.com/jsphweid/hummix/model"
	"github.com/jsphweid/hummix/synth"
	"github.com/spf13/cobra"
)

var (
	arrangeBars int
	arrangeBPM  int
	arrangeOut  string
	arrangeSeed int64
)

func init() {
	arrangeCmd.Flags().IntVar(&arrangeBars, "bars", constants.DefaultBars, "number of bars")
	arrangeCmd.Flags().IntVar(&arrangeBPM, "bpm", 0, "tempo, 0 uses the style's own")
	arrangeCmd.Flags().StringVarP(&arrangeOut, "out", "o", "", "output file (.wav, .mid, .yaml or .json)")
	arrangeCmd.Flags().Int64Var(&arrangeSeed, "seed", synth.DefaultSeed, "seed for percussion noise")
	rootCmd.AddCommand(arrangeCmd)
}

var arrangeCmd = &cobra.Command{
	Use:   "arrange <style>",
	Short: "Generates a backing track in a style",
	Long:  fmt.Sprintf("Generates a backing track. Styles: %v", model.Styles),
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		style, ok := model.ParseStyle(args[0])
		if !ok {
			fmt.Printf("Unknown style %q, using %v\n", args[0], style)
		}
		if arrangeBars < 1 {
			return fmt.Errorf("%w: bars must be at least 1, got %v", model.ErrInvalidTrack, arrangeBars)
		}
		if err := checkBars(arrangeBars); err != nil {
			return err
		}
		s := arrange.FromStyle(style, arrangeBars)
		if arrangeBPM > 0 {
			s.BPM = arrangeBPM
		}
		out := arrangeOut
		if out == "" {
			out = filepath.Join(constants.GetOutDir(), string(style)+".wav")
		}
		if err := writeOutput(out, s, arrangeSeed); err != nil {
			return err
		}
		fmt.Printf("Arranged %v bars of %v at %v bpm to %v\n", s.Bars, style, s.BPM, out)
		return nil
	},
}
