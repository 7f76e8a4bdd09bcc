package cmd

import (
	"encoding/json"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/disintegration/imaging"
	"github.com/spf13/cobra"
	_ "golang.org/x/image/bmp"

	"github.com/spinescan/spinescan/internal/pipeline"
)

// scanCmd represents the scan command.
var scanCmd = &cobra.Command{
	Use:   "scan [image]",
	Short: "Scan a book spine image and resolve its title",
	Long: `Scan a single book spine image: reconstruct the reading order of its
text regions, run OCR, correct the text and look the title up in online
catalogs.

The raw detector output is supplied either as an exported grids file
(--grids) or by a detector inference service (--detector-url).

Examples:
  spinescan scan spine.jpg --grids spine-grids.json
  spinescan scan spine.jpg --detector-url http://localhost:9000 --format text
  spinescan scan spine.jpg --grids g.json --overlay out.png`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()

		gridsFile, _ := cmd.Flags().GetString("grids")
		detectorURL, _ := cmd.Flags().GetString("detector-url")
		format, _ := cmd.Flags().GetString("format")
		overlayPath, _ := cmd.Flags().GetString("overlay")
		if noCatalog, _ := cmd.Flags().GetBool("no-catalog"); noCatalog {
			cfg.Catalog.Enabled = false
		}

		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("open image: %w", err)
		}
		img, _, err := image.Decode(f)
		_ = f.Close()
		if err != nil {
			return fmt.Errorf("decode image %s: %w", args[0], err)
		}

		p, err := buildPipeline(cfg, gridsFile, detectorURL)
		if err != nil {
			return err
		}
		defer func() { _ = p.Engine.Close() }()

		res, err := p.ProcessSpine(cmd.Context(), img)
		if err != nil {
			return fmt.Errorf("scan failed: %w", err)
		}

		if overlayPath != "" {
			if best := res.Best(); best != nil {
				ov := pipeline.VisualizeLayout(img, best.Layout, pipeline.DefaultVisualizeOptions())
				if err := imaging.Save(ov, overlayPath); err != nil {
					return fmt.Errorf("save overlay: %w", err)
				}
			}
		}

		switch format {
		case "text":
			if res.Title != "" {
				fmt.Fprintln(cmd.OutOrStdout(), res.Title)
			}
			return nil
		case "json":
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(res)
		default:
			return fmt.Errorf("unknown format %q (want json or text)", format)
		}
	},
}

func init() {
	rootCmd.AddCommand(scanCmd)
	scanCmd.Flags().String("grids", "", "exported detector grids file (JSON)")
	scanCmd.Flags().String("detector-url", "", "detector inference service base URL")
	scanCmd.Flags().StringP("format", "f", "json", "output format (json, text)")
	scanCmd.Flags().String("overlay", "", "write a layout overlay PNG to this path")
	scanCmd.Flags().Bool("no-catalog", false, "skip online catalog lookup")
}
