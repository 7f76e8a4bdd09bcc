package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/spinescan/spinescan/internal/geometry"
	"github.com/spinescan/spinescan/internal/layout"
)

// layoutCmd represents the layout command, a diagnostic tool for the
// reading-order reconstruction in isolation.
var layoutCmd = &cobra.Command{
	Use:   "layout [boxes.json]",
	Short: "Reconstruct reading order from region boxes",
	Long: `Reconstruct the column/row structure and reading order of a set of
text region boxes, without running detection or OCR.

Input is a JSON array of boxes ({"x1":..,"y1":..,"x2":..,"y2":..}),
read from the given file or stdin. Output is the layout result as JSON.

Examples:
  spinescan layout boxes.json
  cat boxes.json | spinescan layout`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()

		var in io.Reader = cmd.InOrStdin()
		if len(args) == 1 {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open boxes file: %w", err)
			}
			defer f.Close()
			in = f
		}

		var boxes []geometry.Box
		if err := json.NewDecoder(in).Decode(&boxes); err != nil {
			return fmt.Errorf("decode boxes: %w", err)
		}

		res := layout.Reconstruct(boxes, cfg.LayoutOptions())

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	},
}

func init() {
	rootCmd.AddCommand(layoutCmd)
}
