package progress

import "fmt"

// Kind classifies an event.
type Kind int

const (
	// KindMessage is an informational note from a worker.
	KindMessage Kind = iota
	// KindWarning is a recoverable problem; the run continues.
	KindWarning
	// KindError is a fatal worker problem; the run will end in error.
	KindError
	// KindAdvance moves the progress bar by Event.Pages.
	KindAdvance
)

// Event is one unit published by a worker.
type Event struct {
	Worker int
	Kind   Kind
	Text   string
	Pages  int
}

// Reporter is a worker-side handle for publishing events. Each worker gets
// its own; Reporters must not be used after the collector is closed.
type Reporter struct {
	worker int
	events chan<- Event
}

// Messagef publishes an informational message.
func (r *Reporter) Messagef(format string, args ...any) {
	r.events <- Event{Worker: r.worker, Kind: KindMessage, Text: fmt.Sprintf(format, args...)}
}

// Warningf publishes a recoverable warning.
func (r *Reporter) Warningf(format string, args ...any) {
	r.events <- Event{Worker: r.worker, Kind: KindWarning, Text: fmt.Sprintf(format, args...)}
}

// Errorf publishes a fatal error description.
func (r *Reporter) Errorf(format string, args ...any) {
	r.events <- Event{Worker: r.worker, Kind: KindError, Text: fmt.Sprintf(format, args...)}
}

// Advance moves the run's progress by the given page count.
func (r *Reporter) Advance(pages int) {
	r.events <- Event{Worker: r.worker, Kind: KindAdvance, Pages: pages}
}
