// Command lumac is the development driver for the luma animation
// engine: validate documents, compile artifacts, render frames, and
// inspect artifact headers.
package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/lumakit/luma"
)

var (
	flagVerbose    bool
	flagAssets     string
	flagBindingKey string
	flagFrameRate  float64
	flagWidth      int
	flagHeight     int
)

var rootCmd = &cobra.Command{
	Use:   "lumac",
	Short: "Compiler and playback driver for luma animation templates",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if flagVerbose {
			luma.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
				Level: slog.LevelDebug,
			})))
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&flagAssets, "assets", ".", "asset base directory")
	rootCmd.PersistentFlags().StringVar(&flagBindingKey, "binding", "", "user-content binding layer name")
	rootCmd.PersistentFlags().Float64Var(&flagFrameRate, "fps", 0, "expected frame rate (0 disables check)")
	rootCmd.PersistentFlags().IntVar(&flagWidth, "width", 0, "expected canvas width (0 disables check)")
	rootCmd.PersistentFlags().IntVar(&flagHeight, "height", 0, "expected canvas height (0 disables check)")

	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(compileCmd)
	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(infoCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
