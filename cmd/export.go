package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/jsphweid/hummix/constants"
	"github.com/spf13/cobra"
)

var exportOut string

func init() {
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "output file, defaults to <out dir>/<name>.mid")
	rootCmd.AddCommand(exportCmd)
}

var exportCmd = &cobra.Command{
	Use:   "export <score>",
	Short: "Converts between score files and MIDI",
	Long: `Exports a YAML or JSON score as a Standard MIDI File. Given a MIDI
file it goes the other way and writes a YAML score.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		in := args[0]
		s, err := readInput(in)
		if err != nil {
			return err
		}
		out := exportOut
		if out == "" {
			ext := ".mid"
			switch strings.ToLower(filepath.Ext(in)) {
			case ".mid", ".midi":
				ext = ".yaml"
			}
			out = filepath.Join(constants.GetOutDir(), stem(in)+ext)
		}
		if strings.EqualFold(filepath.Ext(out), ".wav") {
			return fmt.Errorf("use render to write audio")
		}
		if err := writeOutput(out, s, 0); err != nil {
			return err
		}
		fmt.Printf("Exported %v tracks from %v to %v\n", len(s.Tracks), in, out)
		return nil
	},
}
