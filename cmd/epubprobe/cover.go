package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yuhara/epubprobe/internal/config"
	"github.com/yuhara/epubprobe/internal/epub"
)

var coverCmd = &cobra.Command{
	Use:   "cover <file>",
	Short: "Extract the cover image as a bounded JPEG thumbnail",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.New()

		width, _ := cmd.Flags().GetInt("width")
		if width <= 0 {
			width = cfg.Cover.MaxWidth
		}
		outputPath, _ := cmd.Flags().GetString("output")
		if outputPath == "" {
			base := strings.TrimSuffix(args[0], filepath.Ext(args[0]))
			outputPath = base + "-cover.jpg"
		}

		r, err := epub.Open(args[0])
		if err != nil {
			return err
		}
		defer r.Close()

		pkg, err := epub.ParsePackage(r)
		if err != nil {
			return err
		}

		thumb, err := epub.CoverThumbnail(r, pkg, width)
		if err != nil {
			return err
		}

		if err := os.WriteFile(outputPath, thumb, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", outputPath, err)
		}
		fmt.Println(outputPath)
		return nil
	},
}

func init() {
	coverCmd.Flags().StringP("output", "o", "", "Output file path (default: input with -cover.jpg suffix)")
	coverCmd.Flags().IntP("width", "w", 0, "Maximum thumbnail width in pixels (default from EPUBPROBE_COVER_MAX_WIDTH or 600)")
	rootCmd.AddCommand(coverCmd)
}
