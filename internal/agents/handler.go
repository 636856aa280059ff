// Package agents implements the four workflow handlers: the API
// operator, the debugger, the knowledge assistant and the response
// synthesizer. Handlers never fail the workflow; anything that goes
// wrong is recorded on the state (failed task, error info) and the
// turn continues toward synthesis.
package agents

import (
	"context"

	"agentops/internal/task"
	"agentops/internal/types"
)

// Handler processes one workflow step. Implementations clone the
// state on entry and return the clone, so a skip still yields a
// value-equal copy rather than the same object.
type Handler interface {
	// Name identifies the handler in routing and logs.
	Name() task.Agent

	// Handle runs the handler against the state and returns the
	// updated state with Route set to the next destination.
	Handle(ctx context.Context, st *types.State) *types.State
}

// nextFor selects the handler's next eligible task. A task assigned
// to a different handler does not count; the handler skips instead of
// stealing work.
func nextFor(list []task.Task, agent task.Agent) (task.Task, bool) {
	next, ok := task.NextEligible(list)
	if !ok || next.Agent != agent {
		return task.Task{}, false
	}
	return next, true
}
