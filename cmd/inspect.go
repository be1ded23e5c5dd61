package cmd

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/jsphweid/hummix/constants"
	"github.com/jsphweid/hummix/util"
	"github.com/spf13/cobra"
	"golang.org/x/exp/maps"
)

var inspectBPM int

func init() {
	inspectCmd.Flags().IntVar(&inspectBPM, "bpm", constants.DefaultBPM, "tempo used for melody detection")
	rootCmd.AddCommand(inspectCmd)
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <file.wav>",
	Short: "Inspects a recording",
	Long:  `Prints the container header of a WAV file and the key of its melody.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return inspect(args[0], inspectBPM)
	},
}

func inspect(path string, bpm int) error {
	if err := checkTempo(bpm); err != nil {
		return err
	}
	samples, h, err := loadWav(path)
	if err != nil {
		return err
	}
	var seconds float64
	if h.SampleRate > 0 {
		seconds = float64(h.Frames()) / float64(h.SampleRate)
	}
	fmt.Printf("format: %v\n", h.Format)
	fmt.Printf("channels: %v\n", h.Channels)
	fmt.Printf("sample rate: %v\n", h.SampleRate)
	fmt.Printf("bit depth: %v\n", h.BitDepth)
	fmt.Printf("frames: %v\n", h.Frames())
	fmt.Printf("duration: %v\n", time.Duration(seconds*float64(time.Second)).Round(time.Millisecond))

	take := analyse(samples, bpm, 0, filepath.Base(path))
	beats := make(map[string]int)
	for _, n := range take.Melody {
		beats[n.Pitch] += n.Duration
	}
	fmt.Printf("notes: %v over %v beats\n", len(take.Melody), util.Sum(maps.Values(beats)))
	for _, p := range util.GetKeys(beats) {
		fmt.Printf("  %v: %v beats\n", p, beats[p])
	}
	fmt.Printf("key: %v\n", take.Key)
	fmt.Printf("progression: %v\n", take.Progression)
	return nil
}
