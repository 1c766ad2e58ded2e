package impose

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/google/uuid"

	"gopress/internal/logging"
	"gopress/internal/pdfengine"
	"gopress/internal/progress"
)

// Result summarizes a finished imposition run.
type Result struct {
	Outcome progress.Outcome
	// OutputFiles lists the files the run wrote or started writing.
	OutputFiles []string
}

// Controller owns an imposition run across one or more input documents.
type Controller struct {
	inputFiles []string
	outputDir  string
	opts       Options
	factory    pdfengine.Factory
	settings   pdfengine.Settings
	logger     *slog.Logger
	display    progress.Display
}

// NewController validates the options once and builds a controller.
func NewController(inputFiles []string, outputDir string, opts Options, factory pdfengine.Factory, settings pdfengine.Settings, logger *slog.Logger, display progress.Display) (*Controller, error) {
	if len(inputFiles) == 0 {
		return nil, fmt.Errorf("impose: at least one input file required")
	}
	if strings.TrimSpace(outputDir) == "" {
		return nil, fmt.Errorf("impose: output directory required")
	}
	if err := opts.validate(); err != nil {
		return nil, fmt.Errorf("impose options: %w", err)
	}
	if factory == nil {
		return nil, fmt.Errorf("impose: document engine factory required")
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	if display == nil {
		display = progress.NopDisplay{}
	}
	logger = logger.With(logging.String("run", uuid.NewString()))
	return &Controller{
		inputFiles: inputFiles,
		outputDir:  outputDir,
		opts:       opts,
		factory:    factory,
		settings:   settings,
		logger:     logger,
		display:    display,
	}, nil
}

// Run imposes every input file. The returned error is the run's first
// fatal error; it is nil for both success and cancellation.
func (c *Controller) Run(ctx context.Context) (Result, error) {
	outputs := make([]string, len(c.inputFiles))
	for i, input := range c.inputFiles {
		outputs[i] = c.outputFilePath(input)
	}
	c.logger.Info("imposition starting",
		logging.Int("files", len(c.inputFiles)),
		logging.Int("up", c.opts.Up()),
	)

	c.display.Start(int64(len(c.inputFiles)))

	runCtx, state := progress.NewState(ctx)
	collector := progress.NewCollector(4*len(c.inputFiles)+16, c.display)
	collector.Start()

	jobs := make(chan int)
	poolSize := runtime.NumCPU()
	if poolSize > len(c.inputFiles) {
		poolSize = len(c.inputFiles)
	}

	var wg sync.WaitGroup
	for p := 0; p < poolSize; p++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				c.runFile(runCtx, idx, outputs[idx], collector, state)
			}
		}()
	}
	for i := range c.inputFiles {
		jobs <- i
	}
	close(jobs)
	wg.Wait()
	collector.Close()

	outcome := state.Outcome(ctx)
	c.display.Finish(outcome)
	c.logger.Info("imposition finished", logging.String("outcome", outcome.String()))

	return Result{Outcome: outcome, OutputFiles: outputs}, state.FatalErr()
}

func (c *Controller) runFile(ctx context.Context, idx int, outputPath string, collector *progress.Collector, state *progress.State) {
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

	w := &worker{
		id:         number,
		session:    session,
		inputPath:  c.inputFiles[idx],
		outputPath: outputPath,
		opts:       c.opts,
		reporter:   reporter,
	}
	if err := w.run(ctx); err != nil {
		state.Fail(err)
	}
}

// outputFilePath names the imposed output <input_stem>_<up>up.pdf inside
// the output directory.
func (c *Controller) outputFilePath(inputPath string) string {
	base := filepath.Base(inputPath)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(c.outputDir, fmt.Sprintf("%s_%dup.pdf", stem, c.opts.Up()))
}
