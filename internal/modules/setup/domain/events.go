package domain

import "time"

type Kind string

const (
	KindType         Kind = "type"
	KindProperty     Kind = "property"
	KindMenu         Kind = "menu"
	KindRelationship Kind = "relationship"
	KindRun          Kind = "run"
)

type Action string

const (
	ActionCreated   Action = "created"
	ActionSkipped   Action = "skipped"
	ActionFound     Action = "found"
	ActionFailed    Action = "failed"
	ActionCompleted Action = "completed"
)

// SetupEvent is published for every reconciliation step of a setup run.
type SetupEvent struct {
	RunID  string    `json:"runId"`
	Kind   Kind      `json:"kind"`
	Key    string    `json:"key"`
	Action Action    `json:"action"`
	ID     string    `json:"id,omitempty"`
	At     time.Time `json:"at"`
}

// PlanItem is one line of the setup plan.
type PlanItem struct {
	Kind   Kind
	Key    string
	Label  string
	Exists bool
}

// Report summarises a setup run.
type Report struct {
	RunID   string
	Created map[Kind]int
	Skipped map[Kind]int
}

func NewReport(runID string) *Report {
	return &Report{RunID: runID, Created: map[Kind]int{}, Skipped: map[Kind]int{}}
}

func (r *Report) TotalCreated() int {
	total := 0
	for _, n := range r.Created {
		total += n
	}
	return total
}
