package main

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"gopress/internal/impose"
	"gopress/internal/pdfengine"
	"gopress/internal/progress"
)

func newImposeCommand(ctx *commandContext) *cobra.Command {
	var gutter []float64
	var bleed []float64
	var duplex bool
	var cropMarks bool

	cmd := &cobra.Command{
		Use:   "impose INPUT... OUTPUT_DIR ROWS COLUMNS WIDTH HEIGHT",
		Short: "Impose finished documents onto larger press sheets",
		Long: `Impose lays the pages of each INPUT document onto ROWS x COLUMNS grids
on sheets of WIDTH x HEIGHT inches, cut-and-stack ordered, and writes
one imposed file per input into OUTPUT_DIR.`,
		Args: cobra.MinimumNArgs(6),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			inputs, outputDir, opts, err := parseImposeArgs(args)
			if err != nil {
				return err
			}
			opts.Duplex = duplex
			opts.CropMarks = cropMarks
			if opts.GutterWidth, opts.GutterHeight, err = pairInches("gutter", gutter); err != nil {
				return err
			}
			if opts.BleedWidth, opts.BleedHeight, err = pairInches("bleed", bleed); err != nil {
				return err
			}

			factory, err := pdfengine.Lookup(ctx.engineName())
			if err != nil {
				return err
			}

			logger := ctx.ensureLogger()
			display := progress.NewView("Imposition", logger)
			controller, err := impose.NewController(inputs, outputDir, opts, factory, cfg.EngineSettings(), logger, display)
			if err != nil {
				return err
			}

			runCtx, stop := signalContext()
			defer stop()

			started := time.Now()
			result, runErr := controller.Run(runCtx)
			ctx.recordRun("impose", started, result.Outcome, runErr, len(result.OutputFiles), 0)

			if runErr != nil {
				return runErr
			}
			if result.Outcome == progress.OutcomeCancelled {
				return context.Canceled
			}
			return nil
		},
	}

	cmd.Flags().Float64SliceVarP(&gutter, "gutter", "g", nil, "Gutter between cells in inches, as W,H or a single value for both")
	cmd.Flags().Float64SliceVarP(&bleed, "bleed", "b", nil, "Bleed subtracted from the gutter in inches, as W,H or a single value")
	cmd.Flags().BoolVarP(&duplex, "duplex", "d", false, "Pair sheets front/back and mirror back placements")
	cmd.Flags().BoolVarP(&cropMarks, "crop-marks", "m", false, "Draw crop marks at every cell corner")

	return cmd
}

// parseImposeArgs splits the positional arguments: the grid and sheet
// dimensions come last, preceded by the output directory, preceded by one or
// more input files.
func parseImposeArgs(args []string) ([]string, string, impose.Options, error) {
	var opts impose.Options
	n := len(args)

	rows, err := strconv.Atoi(args[n-4])
	if err != nil {
		return nil, "", opts, fmt.Errorf("rows must be an integer, got %q", args[n-4])
	}
	columns, err := strconv.Atoi(args[n-3])
	if err != nil {
		return nil, "", opts, fmt.Errorf("columns must be an integer, got %q", args[n-3])
	}
	width, err := strconv.ParseFloat(args[n-2], 64)
	if err != nil {
		return nil, "", opts, fmt.Errorf("sheet width must be a number, got %q", args[n-2])
	}
	height, err := strconv.ParseFloat(args[n-1], 64)
	if err != nil {
		return nil, "", opts, fmt.Errorf("sheet height must be a number, got %q", args[n-1])
	}

	opts.Rows = rows
	opts.Columns = columns
	opts.SheetWidth = width
	opts.SheetHeight = height
	return args[:n-5], args[n-5], opts, nil
}

// pairInches interprets a repeatable dimension flag: absent means zero, one
// value applies to both axes, two values are width then height.
func pairInches(name string, values []float64) (float64, float64, error) {
	switch len(values) {
	case 0:
		return 0, 0, nil
	case 1:
		return values[0], values[0], nil
	case 2:
		return values[0], values[1], nil
	default:
		return 0, 0, fmt.Errorf("%s takes at most two values, got %d", name, len(values))
	}
}
