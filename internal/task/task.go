// Package task provides the task model for the multi-agent workflow:
// units of planned work assigned to exactly one handler, with status
// lifecycle, priorities and dependencies. All operations are pure
// functions over task slices; mutation happens only through Complete
// and Fail.
package task

import (
	"fmt"
	"sync/atomic"
)

// Agent identifies the handler responsible for executing a task.
type Agent string

const (
	AgentOperator    Agent = "api_operator"
	AgentDebugger    Agent = "debugger"
	AgentKnowledge   Agent = "knowledge_assistant"
	AgentSynthesizer Agent = "response_synthesizer"
)

// Valid reports whether a is one of the four known handlers.
func (a Agent) Valid() bool {
	switch a {
	case AgentOperator, AgentDebugger, AgentKnowledge, AgentSynthesizer:
		return true
	}
	return false
}

// Status is the lifecycle state of a task. Pending is initial;
// completed and failed are terminal and never revert.
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Task is a unit of planned work.
type Task struct {
	ID           string            `json:"id"`
	Description  string            `json:"description"`
	Agent        Agent             `json:"agent"`
	Status       Status            `json:"status"`
	Priority     int               `json:"priority"` // lower = more urgent
	Dependencies []string          `json:"dependencies"`
	Parameters   map[string]string `json:"parameters"`
	Result       any               `json:"result,omitempty"`
	Error        string            `json:"error,omitempty"`
}

// Seq issues task ids unique within one workflow run. Each run gets its
// own Seq so parallel turns cannot interfere with each other's ids.
type Seq struct {
	n atomic.Int64
}

// NewSeq returns a fresh id sequence starting at task_001.
func NewSeq() *Seq {
	return &Seq{}
}

// Next returns the next id in the sequence.
func (s *Seq) Next() string {
	return fmt.Sprintf("task_%03d", s.n.Add(1))
}

// New creates a pending task with the given attributes. A nil
// dependencies slice or parameters map is normalized to empty.
func New(seq *Seq, description string, agent Agent, priority int, deps []string, params map[string]string) Task {
	if deps == nil {
		deps = []string{}
	}
	if params == nil {
		params = map[string]string{}
	}
	return Task{
		ID:           seq.Next(),
		Description:  description,
		Agent:        agent,
		Status:       StatusPending,
		Priority:     priority,
		Dependencies: deps,
		Parameters:   params,
	}
}

// Complete marks the task with the given id completed and stores its
// result. An unknown id is an idempotent no-op: the returned list is
// value-equal to the input. The input slice is never mutated.
func Complete(list []Task, id string, result any) []Task {
	out := make([]Task, len(list))
	copy(out, list)
	for i := range out {
		if out[i].ID == id {
			out[i].Status = StatusCompleted
			out[i].Result = result
			break
		}
	}
	return out
}

// Fail marks the task with the given id failed and stores the error
// string. Unknown ids are a no-op, same as Complete.
func Fail(list []Task, id, errMsg string) []Task {
	out := make([]Task, len(list))
	copy(out, list)
	for i := range out {
		if out[i].ID == id {
			out[i].Status = StatusFailed
			out[i].Error = errMsg
			break
		}
	}
	return out
}

// Pending returns the pending tasks in list order.
func Pending(list []Task) []Task {
	return filter(list, StatusPending)
}

// Completed returns the completed tasks in list order.
func Completed(list []Task) []Task {
	return filter(list, StatusCompleted)
}

// Failed returns the failed tasks in list order.
func Failed(list []Task) []Task {
	return filter(list, StatusFailed)
}

func filter(list []Task, status Status) []Task {
	var out []Task
	for _, t := range list {
		if t.Status == status {
			out = append(out, t)
		}
	}
	return out
}

// IsComplete reports whether every task is in a terminal state.
// Vacuously true for an empty list. Note that a list can be complete
// while containing failures; callers that care must check Failed too.
func IsComplete(list []Task) bool {
	for _, t := range list {
		if t.Status != StatusCompleted && t.Status != StatusFailed {
			return false
		}
	}
	return true
}
