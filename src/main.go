package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "lxbridge",
	Short: "lxbridge - open-with bridge and tag editor for a music player",
	Long: `lxbridge forwards "open with" audio file intents to the player as events
and reads or writes title, artist, quality and cover art of local audio files.`,
	SilenceUsage: true,
	RunE:         runServe,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "config.yaml", "config file")

	writeCmd.Flags().String("title", "", "track title")
	writeCmd.Flags().String("artist", "", "track artist")
	writeCmd.Flags().String("quality", "", "quality tag")
	writeCmd.Flags().String("pic", "", "cover art as an http(s) URL or data URI")
	writeCmd.Flags().String("pic-file", "", "cover art from a local image file")
	writeCmd.Flags().Bool("overwrite", false, "clear fields that are not given")

	picCmd.Flags().String("out", ".", "directory the picture is written to")

	openCmd.Flags().String("mime", "", "declared mime type of the intent")
	openCmd.Flags().String("action", "", "intent action (default is the view action)")

	rootCmd.AddCommand(serveCmd, readCmd, writeCmd, picCmd, openCmd, indexCmd)
}
