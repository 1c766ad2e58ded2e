package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"gopress/internal/merge"
	"gopress/internal/pdfengine"
	"gopress/internal/progress"
)

func newMergeCommand(ctx *commandContext) *cobra.Command {
	var variableColumn string
	var fileLimit int
	var proof bool
	var omrFlag int

	cmd := &cobra.Command{
		Use:   "merge INPUT OUTPUT TEMPLATE",
		Short: "Merge delimited row data into a document template",
		Long: `Merge reads delimited row data from INPUT and fills TEMPLATE once per
row, writing numbered output files next to OUTPUT. With --variable the
template argument names a directory and each row's column value selects
the template file inside it.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			omr, err := merge.ParseOMRMode(omrFlag)
			if err != nil {
				return err
			}
			factory, err := pdfengine.Lookup(ctx.engineName())
			if err != nil {
				return err
			}

			opts := merge.Options{
				InputPath:      args[0],
				OutputPath:     args[1],
				TemplatePath:   args[2],
				VariableColumn: variableColumn,
				FilePageLimit:  fileLimit,
				GenerateProof:  proof,
				DrawOMR:        omr,
			}

			logger := ctx.ensureLogger()
			display := progress.NewView("Merge", logger)
			controller, err := merge.NewController(opts, factory, cfg.EngineSettings(), logger, display)
			if err != nil {
				return err
			}

			runCtx, stop := signalContext()
			defer stop()

			started := time.Now()
			result, runErr := controller.Run(runCtx)
			ctx.recordRun("merge", started, result.Outcome, runErr, len(result.OutputFiles), result.Pages)

			if runErr != nil {
				return runErr
			}
			if result.Outcome == progress.OutcomeCancelled {
				return context.Canceled
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&variableColumn, "variable-column", "v", "", "Column whose value selects each row's template file")
	cmd.Flags().IntVarP(&fileLimit, "file-page-limit", "l", merge.DefaultFilePageLimit, "Maximum template pages per output file")
	cmd.Flags().BoolVarP(&proof, "generate-proof", "p", false, "Merge a small verification sample instead of the full run")
	cmd.Flags().IntVarP(&omrFlag, "draw-omr", "o", 0, "Draw inserter marks: 0 none, 1 simplex, 2 duplex")

	return cmd
}
