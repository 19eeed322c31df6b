package journal

import "time"

// Source names what caused a mutation.
type Source string

const (
	SourceSet      Source = "set"
	SourceAdd      Source = "add"
	SourceSubtract Source = "subtract"
	SourceRandom   Source = "random"
	SourceBurst    Source = "burst"
	SourceAuto     Source = "auto"
)

// Session is one process run.
type Session struct {
	ID        string    `json:"id"`
	PID       int       `json:"pid"`
	StartedAt time.Time `json:"started_at"`
}

// Mutation is one applied store into a cell. Values are display text, the
// same strings the UI showed.
type Mutation struct {
	Session        string `json:"session"`
	Seq            int64  `json:"seq"`
	Source         Source `json:"source"`
	Representation string `json:"representation"`
	Address        string `json:"address"`
	Before         string `json:"before"`
	After          string `json:"after"`
	Delta          string `json:"delta,omitempty"`
}
