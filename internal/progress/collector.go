package progress

// Sink receives collected events on the collector goroutine.
type Sink interface {
	Handle(Event)
}

// Collector drains the shared event channel on a single goroutine.
type Collector struct {
	events chan Event
	done   chan struct{}
	sinks  []Sink
}

// NewCollector builds a collector with the given channel capacity.
func NewCollector(buffer int, sinks ...Sink) *Collector {
	if buffer < 1 {
		buffer = 1
	}
	return &Collector{
		events: make(chan Event, buffer),
		done:   make(chan struct{}),
		sinks:  sinks,
	}
}

// Reporter returns the publishing handle for one worker.
func (c *Collector) Reporter(worker int) *Reporter {
	return &Reporter{worker: worker, events: c.events}
}

// Start launches the consumer goroutine. It runs until Close.
func (c *Collector) Start() {
	go func() {
		defer close(c.done)
		for event := range c.events {
			for _, sink := range c.sinks {
				sink.Handle(event)
			}
		}
	}()
}

// Close stops intake and blocks until every buffered event has been
// delivered. Call it only after all workers have returned.
func (c *Collector) Close() {
	close(c.events)
	<-c.done
}
