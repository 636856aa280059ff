// Package decision houses the supervisor's three decisions: where to
// route next, what tasks to plan for a new goal, and which planned
// task to run next. Each is behind the Backend interface; the rule
// backend is fully deterministic, the LLM backend asks a model and
// falls back to the rules whenever the answer is unusable.
package decision

import (
	"context"

	"agentops/internal/task"
	"agentops/internal/types"
)

// Backend makes the supervisor's decisions. Implementations never
// fail: an unusable underlying answer degrades to a deterministic
// result instead.
type Backend interface {
	// Route picks the next workflow destination for the state.
	Route(ctx context.Context, st *types.State) types.Route

	// Plan builds the task list for the state's current goal. Task ids
	// are unique within the returned list.
	Plan(ctx context.Context, st *types.State) []task.Task

	// NextTask picks the task to execute from the list; false when
	// nothing is eligible.
	NextTask(ctx context.Context, list []task.Task) (task.Task, bool)
}
