// Package progress carries worker events to the terminal.
//
// Workers publish messages and page-count advances into a single buffered
// channel through per-worker Reporters; one Collector goroutine consumes the
// channel and fans events out to sinks, so events from any one worker arrive
// in emission order. The package also owns the cooperative cancellation
// state shared by a run's workers and the interactive view that renders a
// progress bar (or plain log lines when stdout is not a terminal).
package progress
