package progress

// Display is the run-facing surface of a terminal view: it receives events
// as a Sink and brackets the run with Start and Finish.
type Display interface {
	Sink
	Start(total int64)
	Finish(outcome Outcome)
}

// NopDisplay ignores everything. Controllers fall back to it when no view
// is supplied.
type NopDisplay struct{}

func (NopDisplay) Handle(Event)   {}
func (NopDisplay) Start(int64)    {}
func (NopDisplay) Finish(Outcome) {}
