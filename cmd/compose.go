package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/jsphweid/hummix/arrange"
	"github.com/jsphweid/hummix/constants"
	"github.com/jsphweid/hummix/synth"
	"github.com/spf13/cobra"
)

var (
	composeBPM  int
	composeBars int
	composeOut  string
	composeSeed int64
)

func init() {
	composeCmd.Flags().IntVar(&composeBPM, "bpm", constants.DefaultBPM, "tempo the recording was hummed at")
	composeCmd.Flags().IntVar(&composeBars, "bars", 0, "bars to arrange, 0 fits the melody")
	composeCmd.Flags().StringVarP(&composeOut, "out", "o", "", "output file, defaults to <out dir>/<name>.song.wav")
	composeCmd.Flags().Int64Var(&composeSeed, "seed", synth.DefaultSeed, "seed for percussion noise")
	rootCmd.AddCommand(composeCmd)
}

var composeCmd = &cobra.Command{
	Use:   "compose <recording.wav>",
	Short: "Turns a hummed recording into a song",
	Long: `Detects the melody of a recording, arranges an accompaniment in the
melody's key and renders both together.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := checkTempo(composeBPM); err != nil {
			return err
		}
		if err := checkBars(composeBars); err != nil {
			return err
		}
		samples, _, err := loadWav(args[0])
		if err != nil {
			return err
		}
		take := analyse(samples, composeBPM, composeBars, filepath.Base(args[0]))
		if len(take.Melody) == 0 {
			fmt.Printf("No melody found in %v, arranging in %v anyway\n", args[0], take.Key)
		}
		s := arrange.FromMelody(take.Melody, len(take.Progression), composeBPM)
		s.Title = stem(args[0])

		out := composeOut
		if out == "" {
			out = filepath.Join(constants.GetOutDir(), stem(args[0])+".song.wav")
		}
		if err := writeOutput(out, s, composeSeed); err != nil {
			return err
		}
		fmt.Printf("Composed %v notes in %v over %v to %v\n", len(take.Melody), take.Key, take.Progression, out)
		return nil
	},
}
