package progress

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/progress"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"

	"gopress/internal/logging"
)

// View renders run progress. On a terminal it drives a go-pretty progress
// bar with a message log above it; otherwise events go to the structured
// logger and the bar is skipped.
type View struct {
	description string
	logger      *slog.Logger
	out         io.Writer
	interactive bool

	pw      progress.Writer
	tracker *progress.Tracker
	started time.Time
}

// NewView builds a view writing to stdout.
func NewView(description string, logger *slog.Logger) *View {
	interactive := isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
	return newView(description, logger, os.Stdout, interactive)
}

func newView(description string, logger *slog.Logger, out io.Writer, interactive bool) *View {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &View{description: description, logger: logger, out: out, interactive: interactive}
}

// Start begins rendering with the given progress total in pages (merge) or
// files (imposition).
func (v *View) Start(total int64) {
	v.started = time.Now()

	title := text.Colors{text.FgMagenta, text.Bold}.Sprint("gopress")
	caption := text.Colors{text.FgHiBlack, text.Italic}.Sprint(v.description)
	fmt.Fprintf(v.out, "%s %s\n\n", title, caption)

	if !v.interactive {
		return
	}

	pw := progress.NewWriter()
	pw.SetOutputWriter(v.out)
	pw.SetAutoStop(false)
	pw.SetTrackerLength(25)
	pw.SetTrackerPosition(progress.PositionRight)
	pw.SetUpdateFrequency(100 * time.Millisecond)
	pw.SetStyle(progress.StyleDefault)
	pw.Style().Visibility.ETA = true
	pw.Style().Visibility.Time = true
	pw.Style().Visibility.Value = true
	pw.Style().Visibility.Percentage = true

	tracker := &progress.Tracker{Message: v.description, Total: total, Units: progress.UnitsDefault}
	pw.AppendTracker(tracker)

	v.pw = pw
	v.tracker = tracker
	go pw.Render()
}

// Handle implements Sink.
func (v *View) Handle(event Event) {
	switch event.Kind {
	case KindAdvance:
		if v.tracker != nil {
			v.tracker.Increment(int64(event.Pages))
		}
	case KindMessage:
		if v.interactive && v.pw != nil {
			v.pw.Log(text.Colors{text.FgHiBlack, text.Italic}.Sprintf("worker %d: %s", event.Worker, event.Text))
			return
		}
		v.logger.Info(event.Text, logging.Int("worker", event.Worker))
	case KindWarning:
		if v.interactive && v.pw != nil {
			v.pw.Log(text.Colors{text.FgYellow, text.Italic}.Sprintf("worker %d: %s", event.Worker, event.Text))
			return
		}
		v.logger.Warn(event.Text, logging.Int("worker", event.Worker))
	case KindError:
		if v.interactive && v.pw != nil {
			v.pw.Log(text.Colors{text.FgHiRed, text.Italic}.Sprintf("worker %d: %s", event.Worker, event.Text))
			return
		}
		v.logger.Error(event.Text, logging.Int("worker", event.Worker))
	}
}

// Finish stops the bar and prints the terminal message for the outcome.
func (v *View) Finish(outcome Outcome) {
	elapsed := time.Since(v.started)

	if v.pw != nil {
		if v.tracker != nil {
			switch outcome {
			case OutcomeSuccess:
				v.tracker.MarkAsDone()
			default:
				v.tracker.MarkAsErrored()
			}
		}
		v.pw.Stop()
		for v.pw.IsRenderInProgress() {
			time.Sleep(10 * time.Millisecond)
		}
	}

	switch outcome {
	case OutcomeSuccess:
		message := fmt.Sprintf("%s completed in %.2fs! 🚀", v.description, elapsed.Seconds())
		fmt.Fprintf(v.out, "\n%s\n", text.Colors{text.FgGreen, text.Bold}.Sprint(message))
	case OutcomeCancelled:
		fmt.Fprintf(v.out, "\n%s\n", text.Colors{text.FgYellow, text.Bold}.Sprintf("%s cancelled! 🚫", v.description))
	case OutcomeError:
		fmt.Fprintf(v.out, "\n%s\n", text.Colors{text.FgRed, text.Bold}.Sprintf("%s failed! 💥", v.description))
	}
}
