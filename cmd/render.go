package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/bep/debounce"
	"github.com/jsphweid/hummix/constants"
	"github.com/jsphweid/hummix/synth"
	"github.com/spf13/cobra"
)

var (
	renderOut   string
	renderSeed  int64
	renderWatch bool
)

const watchInterval = 250 * time.Millisecond

func init() {
	renderCmd.Flags().StringVarP(&renderOut, "out", "o", "", "output file, defaults to <out dir>/<name>.wav")
	renderCmd.Flags().Int64Var(&renderSeed, "seed", synth.DefaultSeed, "seed for percussion noise")
	renderCmd.Flags().BoolVarP(&renderWatch, "watch", "w", false, "re-render whenever the score changes")
	rootCmd.AddCommand(renderCmd)
}

var renderCmd = &cobra.Command{
	Use:   "render <score>",
	Short: "Renders a score file to audio",
	Long: `Renders a YAML, JSON or MIDI score. The output format follows the
extension of --out, so render can also convert between score formats.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := renderOut
		if out == "" {
			out = filepath.Join(constants.GetOutDir(), stem(args[0])+".wav")
		}
		if err := render(args[0], out, renderSeed); err != nil {
			return err
		}
		if !renderWatch {
			return nil
		}
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		return watch(ctx, args[0], func() {
			if err := render(args[0], out, renderSeed); err != nil {
				fmt.Printf("Could not render %v because: %v\n", args[0], err)
			}
		})
	},
}

func render(in, out string, seed int64) error {
	s, err := readInput(in)
	if err != nil {
		return err
	}
	start := time.Now()
	if err := writeOutput(out, s, seed); err != nil {
		return err
	}
	fmt.Printf("Rendered %v (%v bars at %v bpm) to %v in %v\n", in, s.Bars, s.BPM, out, time.Since(start).Round(time.Millisecond))
	return nil
}

// watch polls path and calls fn once writes to it settle.
func watch(ctx context.Context, path string, fn func()) error {
	debounced := debounce.New(watchInterval * 2)
	last := modTime(path)
	ticker := time.NewTicker(watchInterval)
	defer ticker.Stop()

	fmt.Printf("Watching %v\n", path)
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if t := modTime(path); !t.Equal(last) {
				last = t
				debounced(fn)
			}
		}
	}
}

func modTime(path string) time.Time {
	info, err := os.Stat(path)
	if err != nil {
		return time.Time{}
	}
	return info.ModTime()
}
