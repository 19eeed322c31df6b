package harness

// TraceEvent is the engine's panel after one scenario step.
type TraceEvent struct {
	Step          int    `json:"step"`
	Action        string `json:"action"`
	Type          string `json:"type"`
	Value         string `json:"value"`
	Status        string `json:"status"`
	AutoRemaining int    `json:"auto_remaining"`
	Seq           int64  `json:"seq"`
	Error         string `json:"error,omitempty"`
}

// Result is the outcome of a scenario run.
type Result struct {
	// Pass is true when every expect block and final check matched.
	Pass bool `json:"pass"`

	// Trace has one event per step, in order.
	Trace []TraceEvent `json:"trace"`

	// Errors describes every failed check.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// AddTrace appends a step's trace event.
func (r *Result) AddTrace(e TraceEvent) {
	r.Trace = append(r.Trace, e)
}
