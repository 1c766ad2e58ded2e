package merge

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"gopress/internal/logging"
	"gopress/internal/pdfengine"
	"gopress/internal/progress"
	"gopress/internal/rowdata"
)

// Result summarizes a finished merge run.
type Result struct {
	Outcome progress.Outcome
	// Rows is the number of rows merged (after validation and sampling).
	Rows int
	// Pages is the total template page count across all rows.
	Pages int
	// OutputFiles lists the files the run wrote or started writing.
	OutputFiles []string
}

// Controller owns a merge run: loading and validating rows, resolving
// templates, partitioning, and driving the worker pool.
type Controller struct {
	opts     Options
	factory  pdfengine.Factory
	settings pdfengine.Settings
	logger   *slog.Logger
	display  progress.Display
}

// NewController validates the options once and builds a controller.
func NewController(opts Options, factory pdfengine.Factory, settings pdfengine.Settings, logger *slog.Logger, display progress.Display) (*Controller, error) {
	if err := opts.validate(); err != nil {
		return nil, fmt.Errorf("merge options: %w", err)
	}
	if factory == nil {
		return nil, fmt.Errorf("merge: document engine factory required")
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	if display == nil {
		display = progress.NopDisplay{}
	}
	logger = logger.With(logging.String("run", uuid.NewString()))
	return &Controller{opts: opts, factory: factory, settings: settings, logger: logger, display: display}, nil
}

// Run executes the merge. The returned error is the run's first fatal
// error; it is nil for both success and cancellation.
func (c *Controller) Run(ctx context.Context) (Result, error) {
	set, warnings, err := rowdata.Load(c.opts.InputPath)
	if err != nil {
		return Result{Outcome: progress.OutcomeError}, err
	}
	for _, warning := range warnings {
		c.logger.Warn(warning, logging.String("input", c.opts.InputPath))
	}

	if c.opts.GenerateProof {
		set = set.Proof(c.opts.VariableColumn, rand.New(rand.NewSource(time.Now().UnixNano())))
		c.logger.Info("proof mode sample selected", logging.Int("rows", set.Len()))
	}

	resolved, err := c.resolve(set)
	if err != nil {
		return Result{Outcome: progress.OutcomeError}, err
	}

	chunks := partition(resolved, c.opts.FilePageLimit)
	if len(chunks) == 0 {
		c.logger.Info("no rows to merge; no output produced")
		return Result{Outcome: progress.OutcomeSuccess}, nil
	}

	totalPages := 0
	for _, ch := range chunks {
		totalPages += ch.pages
	}
	outputs := make([]string, len(chunks))
	for i := range chunks {
		outputs[i] = c.outputFilePath(i + 1)
	}
	c.logger.Info("merge starting",
		logging.Int("rows", len(resolved)),
		logging.Int("pages", totalPages),
		logging.Int("files", len(chunks)),
	)

	c.display.Start(int64(totalPages))

	runCtx, state := progress.NewState(ctx)
	collector := progress.NewCollector(4*len(chunks)+16, c.display)
	collector.Start()

	jobs := make(chan int)
	poolSize := runtime.NumCPU()
	if poolSize > len(chunks) {
		poolSize = len(chunks)
	}

	var wg sync.WaitGroup
	for p := 0; p < poolSize; p++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				c.runChunk(runCtx, idx, chunks[idx], collector, state)
			}
		}()
	}
	for i := range chunks {
		jobs <- i
	}
	close(jobs)
	wg.Wait()
	collector.Close()

	outcome := state.Outcome(ctx)
	c.display.Finish(outcome)
	c.logger.Info("merge finished", logging.String("outcome", outcome.String()))

	return Result{
		Outcome:     outcome,
		Rows:        len(resolved),
		Pages:       totalPages,
		OutputFiles: outputs,
	}, state.FatalErr()
}

// resolve attaches template paths and page counts using a short-lived
// resolution session.
func (c *Controller) resolve(set *rowdata.Set) ([]resolvedRow, error) {
	session, err := c.factory.NewSession(c.settings)
	if err != nil {
		return nil, fmt.Errorf("open resolution session: %w", err)
	}
	defer func() { _ = session.Close() }()
	return resolveTemplates(session, set, c.opts)
}

func (c *Controller) runChunk(ctx context.Context, idx int, ch chunk, collector *progress.Collector, state *progress.State) {
	number := idx + 1
	reporter := collector.Reporter(number)

	session, err := c.factory.NewSession(c.settings)
	if err != nil {
		err = fmt.Errorf("open engine session: %w", err)
		reporter.Errorf("%v", err)
		state.Fail(err)
		return
	}
	defer func() { _ = session.Close() }()

	w := newWorker(number, session, ch.rows, c.outputFilePath(number), reporter, c.opts.DrawOMR)
	if err := w.run(ctx); err != nil {
		state.Fail(err)
	}
}

// outputFilePath names chunk n's output file <stem>_<n>.pdf.
func (c *Controller) outputFilePath(n int) string {
	stem := strings.TrimSuffix(c.opts.OutputPath, filepath.Ext(c.opts.OutputPath))
	return fmt.Sprintf("%s_%d.pdf", stem, n)
}
