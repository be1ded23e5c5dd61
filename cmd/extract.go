package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jsphweid/hummix/arrange"
	"github.com/jsphweid/hummix/constants"
	"github.com/jsphweid/hummix/db"
	"github.com/jsphweid/hummix/score"
	"github.com/jsphweid/hummix/util"
	"github.com/spf13/cobra"
)

var (
	extractBPM  int
	extractBars int
	extractMax  int
)

func init() {
	extractCmd.Flags().IntVar(&extractBPM, "bpm", constants.DefaultBPM, "tempo the recording was hummed at")
	extractCmd.Flags().IntVar(&extractBars, "bars", 0, "bars to arrange, 0 fits the melody")
	extractCmd.Flags().IntVar(&extractMax, "max", 0, "stop after this many files, 0 for all")
	rootCmd.AddCommand(extractCmd)
}

var extractCmd = &cobra.Command{
	Use:   "extract <file or dir>",
	Short: "Extracts melodies from recordings",
	Long: `Extracts the melody from every WAV file under the given path and
writes an arranged score for each one to the output directory.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		takes, err := db.FromEnv()
		if err != nil {
			return err
		}
		return Extract(args[0], extractBPM, extractBars, extractMax, takes)
	},
}

// Extract writes <out dir>/<name>.yaml for every recording under path.
// Takes are also recorded when a table is given.
func Extract(path string, bpm, bars, maxNum int, takes *db.TakeTable) error {
	if err := checkTempo(bpm); err != nil {
		return err
	}
	if err := checkBars(bars); err != nil {
		return err
	}
	paths, err := util.GatherAllWavPaths(path, maxNum)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		fmt.Printf("No recordings found in %v\n", path)
		return nil
	}
	outDir := constants.GetOutDir()
	if err := util.EnsureDir(outDir); err != nil {
		return err
	}

	var failed int
	for i, p := range paths {
		fmt.Printf("Processing %v of %v: %v\n", i+1, len(paths), p)
		samples, _, err := loadWav(p)
		if err != nil {
			fmt.Printf("Skipping %v because: %v\n", p, err)
			failed++
			continue
		}
		take := analyse(samples, bpm, bars, filepath.Base(p))
		fmt.Printf("  %v notes in %v, progression %v\n", len(take.Melody), take.Key, take.Progression)

		s := arrange.FromMelody(take.Melody, len(take.Progression), bpm)
		s.Title = stem(p)
		if err := score.Save(filepath.Join(outDir, stem(p)+".yaml"), s); err != nil {
			return err
		}
		if takes != nil {
			if err := takes.Put(context.Background(), take); err != nil {
				return err
			}
		}
	}
	if failed > 0 {
		fmt.Fprintf(os.Stderr, "%v of %v recordings could not be read\n", failed, len(paths))
	}
	return nil
}
