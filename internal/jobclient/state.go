package jobclient

// State is the status a pipeline run reports through the status endpoint.
type State string

const (
	StateDone   State = "DONE"
	StateFailed State = "FAILED"
	StateError  State = "ERROR"
)

// Terminal reports whether no further transition follows s.
func (s State) Terminal() bool {
	return s == StateDone || s.Failed()
}

// Failed reports whether s is one of the terminal failure states.
func (s State) Failed() bool {
	return s == StateFailed || s == StateError
}

// RunStatus is the decoded body of a status request. RunID is the id that
// was polled, not a field of the body.
type RunStatus struct {
	RunID   string         `json:"-"`
	State   State          `json:"state"`
	Outputs map[string]any `json:"outputs"`
}

// RunResult describes a run that reached DONE.
type RunResult struct {
	RunID   string
	Outputs map[string]any
	Polls   int
}
