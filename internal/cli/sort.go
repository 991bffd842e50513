package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/tsawler/polyorder"
	"github.com/tsawler/polyorder/classes"
	"github.com/tsawler/polyorder/layout"
)

type sortOptions struct {
	output         string
	classes        string
	direction      string
	thresholdRatio float64
	rows           bool
	jobs           int

	// readingDirection is direction parsed by sortSettings
	readingDirection layout.ReadingDirection
}

// sortJob is the outcome of sorting one input file.
type sortJob struct {
	input  string
	output string
	result *layout.ReadingOrderResult
}

func (c *CLI) sortCommand() *cobra.Command {
	opts := sortOptions{}

	cmd := &cobra.Command{
		Use:   "sort <file>...",
		Short: "Order the polygons of detection files",
		Long: `Sort reads coordinate-text (.txt) or predictions JSON (.json) files and
writes each one back with its polygons in reading order.

By default page.txt is written to page_output.txt and page.json to
page-sorted.json next to the input.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runSort(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single input only)")
	cmd.Flags().StringVar(&opts.classes, "classes", "", "class list file used to name polygons with --rows")
	cmd.Flags().StringVar(&opts.direction, "direction", "rtl", "within-row direction: rtl or ltr")
	cmd.Flags().Float64Var(&opts.thresholdRatio, "threshold-ratio", layout.DefaultRowConfig().ThresholdRatio, "row split threshold as a fraction of the average polygon height")
	cmd.Flags().BoolVar(&opts.rows, "rows", false, "print the detected rows")
	cmd.Flags().IntVarP(&opts.jobs, "jobs", "j", 4, "number of files sorted concurrently")

	return cmd
}

func (c *CLI) runSort(cmd *cobra.Command, inputs []string, opts sortOptions) error {
	if opts.output != "" && len(inputs) > 1 {
		return errors.New("--output requires a single input file")
	}

	settings, err := c.sortSettings(cmd, opts)
	if err != nil {
		return err
	}

	var names *classes.List
	if settings.classes != "" {
		names, err = classes.ReadFile(settings.classes)
		if err != nil {
			return fmt.Errorf("load classes: %w", err)
		}
		c.Logger.Debug("classes loaded", "file", settings.classes, "count", names.Len())
	}

	prog := newProgress(c.Logger)
	jobs, err := c.sortFiles(cmd.Context(), inputs, settings)
	if err != nil {
		return err
	}

	for _, job := range jobs {
		c.printSuccess("%s %s %s", job.input, StyleDim.Render(iconArrow), job.output)
		c.printDetail("%d polygons in %d rows (threshold %.4g)", len(job.result.Polygons), job.result.RowCount(), job.result.Threshold)
		if job.result.Degenerate > 0 {
			c.printDetail("%d degenerate polygons (no enclosed area)", job.result.Degenerate)
		}
		if settings.rows {
			c.printRows(job.input, job.result.Rows, names)
		}
	}
	prog.done(fmt.Sprintf("Sorted %d file(s)", len(jobs)))
	return nil
}

// sortFiles sorts inputs concurrently, at most settings.jobs at a time. The
// first failure cancels the remaining files. Results keep input order.
func (c *CLI) sortFiles(ctx context.Context, inputs []string, settings sortOptions) ([]sortJob, error) {
	jobs := make([]sortJob, len(inputs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(settings.jobs)
	for i, input := range inputs {
		i, input := i, input
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			job, err := c.sortFile(input, settings)
			if err != nil {
				return fmt.Errorf("%s: %w", input, err)
			}
			jobs[i] = job
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return jobs, nil
}

func (c *CLI) sortFile(input string, settings sortOptions) (sortJob, error) {
	s := polyorder.Open(input).
		Direction(settings.readingDirection).
		ThresholdRatio(settings.thresholdRatio)

	result, err := s.Result()
	if err != nil {
		return sortJob{}, err
	}

	output := settings.output
	if output == "" {
		output = polyorder.OutputName(input, s.InputFormat())
	}
	if err := polyorder.SaveFile(output, result.Polygons, s.InputFormat()); err != nil {
		return sortJob{}, err
	}

	c.Logger.Debug("sorted", "input", input, "output", output, "polygons", len(result.Polygons), "rows", result.RowCount())
	return sortJob{input: input, output: output, result: result}, nil
}

// sortSettings merges configuration with flags; flags given on the command
// line win.
func (c *CLI) sortSettings(cmd *cobra.Command, opts sortOptions) (sortOptions, error) {
	cfg := c.settings()
	out := opts
	flags := cmd.Flags()

	if !flags.Changed("direction") {
		out.direction = cfg.Direction
	}
	if !flags.Changed("threshold-ratio") {
		out.thresholdRatio = cfg.ThresholdRatio
	}
	if !flags.Changed("classes") {
		out.classes = cfg.Classes
	}
	if !flags.Changed("jobs") {
		out.jobs = cfg.Jobs
	}

	direction, err := layout.ParseReadingDirection(out.direction)
	if err != nil {
		return out, err
	}
	out.readingDirection = direction
	if out.jobs < 1 {
		return out, fmt.Errorf("--jobs must be at least 1, got %d", out.jobs)
	}
	return out, nil
}
