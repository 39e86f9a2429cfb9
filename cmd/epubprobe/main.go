package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "epubprobe",
	Short: "Inspect EPUB files: metadata, reading order, chapter previews",
	Long: `epubprobe extracts structured book metadata and an ordered chapter
list with readable previews from EPUB files, without rendering or
modifying them.`,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
