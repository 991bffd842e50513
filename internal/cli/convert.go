package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tsawler/polyorder/predictions"
	"github.com/tsawler/polyorder/yolo"
)

type convertOptions struct {
	output string
	width  float64
	height float64
}

func (c *CLI) convertCommand() *cobra.Command {
	opts := convertOptions{}

	cmd := &cobra.Command{
		Use:   "convert <predictions.json>",
		Short: "Convert predictions JSON to normalized coordinate text",
		Long: `Convert divides every point of a predictions JSON file by the image size and
writes one "class x1 y1 x2 y2 ..." line per polygon with six decimals.

By default page.json is written to page-yolo-formatted.txt.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runConvert(args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file")
	cmd.Flags().Float64Var(&opts.width, "width", 0, "image width in pixels")
	cmd.Flags().Float64Var(&opts.height, "height", 0, "image height in pixels")
	cmd.MarkFlagRequired("width")
	cmd.MarkFlagRequired("height")

	return cmd
}

func (c *CLI) runConvert(input string, opts convertOptions) error {
	polygons, err := predictions.ReadFile(input)
	if err != nil {
		return fmt.Errorf("read %s: %w", input, err)
	}

	normalized, err := yolo.Normalize(polygons, opts.width, opts.height)
	if err != nil {
		return err
	}

	output := opts.output
	if output == "" {
		output = convertOutputName(input)
	}
	if err := yolo.WriteFile(output, normalized, yolo.NormalizedWriteConfig()); err != nil {
		return fmt.Errorf("write %s: %w", output, err)
	}

	c.Logger.Debug("converted", "input", input, "polygons", len(normalized), "width", opts.width, "height", opts.height)
	c.printSuccess("%s %s %s", input, StyleDim.Render(iconArrow), output)
	return nil
}

// convertOutputName maps "dir/page.json" to "dir/page-yolo-formatted.txt".
func convertOutputName(input string) string {
	return strings.TrimSuffix(input, filepath.Ext(input)) + "-yolo-formatted.txt"
}
