package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yuhara/epubprobe/internal/config"
	"github.com/yuhara/epubprobe/internal/extract"
	"github.com/yuhara/epubprobe/internal/fetch"
)

var parseCmd = &cobra.Command{
	Use:   "parse <file|url>",
	Short: "Extract book metadata and chapter previews as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.New()

		previewLength, _ := cmd.Flags().GetInt("preview-length")
		if previewLength <= 0 {
			previewLength = cfg.Parse.PreviewLength
		}
		opts := extract.Options{PreviewLength: previewLength}

		input := args[0]
		var result *extract.Result
		if isURL(input) {
			client := fetch.NewClient(cfg.Fetch.Timeout, cfg.Fetch.RetryCount, cfg.Fetch.MaxBytes)
			data, err := client.Download(input)
			if err != nil {
				return err
			}
			result, err = extract.ParseBook(data, opts)
			if err != nil {
				return fmt.Errorf("parse %s: %w", input, err)
			}
		} else {
			var err error
			result, err = extract.ParseFile(input, opts)
			if err != nil {
				return fmt.Errorf("parse %s: %w", input, err)
			}
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	},
}

func isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

func init() {
	parseCmd.Flags().IntP("preview-length", "n", 0, "Preview length in characters (default from EPUBPROBE_PREVIEW_LENGTH or 200)")
	rootCmd.AddCommand(parseCmd)
}
