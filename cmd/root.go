package cmd

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "hummix",
	Short: "Turns hummed melodies into songs",
	Long: `hummix detects the melody in a recording, arranges an accompaniment
for it and renders the result to a WAV file.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log dropped notes and other debug details")
}

func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}
