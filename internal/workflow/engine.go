// Package workflow runs the multi-agent state machine: supervisor
// decisions route each turn through the operator, debugger, knowledge
// assistant and response synthesizer until a final response is set.
package workflow

import (
	"context"
	"fmt"
	"sync"

	"agentops/internal/agents"
	"agentops/internal/decision"
	"agentops/internal/logging"
	"agentops/internal/types"
)

// maxSteps bounds one turn. The synthesizer always terminates, so the
// cap only matters if routing ever cycles; hitting it forces a final
// synthesis instead of erroring out.
const maxSteps = 16

// Engine drives workflow turns. Safe for concurrent use; each thread
// id gets its own serialized session.
type Engine struct {
	backend  decision.Backend
	handlers map[types.Route]agents.Handler

	mu       sync.Mutex
	sessions map[string]*session
}

// session is the per-thread conversation. Its mutex serializes turns
// on the same thread; distinct threads run concurrently.
type session struct {
	mu       sync.Mutex
	messages []types.Message
}

// New builds an engine over a decision backend and the four handlers.
func New(backend decision.Backend, handlers ...agents.Handler) *Engine {
	m := make(map[types.Route]agents.Handler, len(handlers))
	for _, h := range handlers {
		m[types.RouteFor(h.Name())] = h
	}
	return &Engine{
		backend:  backend,
		handlers: m,
		sessions: make(map[string]*session),
	}
}

func (e *Engine) session(threadID string) *session {
	e.mu.Lock()
	defer e.mu.Unlock()
	s, ok := e.sessions[threadID]
	if !ok {
		s = &session{}
		e.sessions[threadID] = s
	}
	return s
}

// Turn runs one full workflow turn for the thread and returns the
// final state. Conversation history persists across turns; all other
// state fields are fresh each turn.
func (e *Engine) Turn(ctx context.Context, threadID, input string) (*types.State, error) {
	if e.backend == nil {
		return nil, fmt.Errorf("workflow engine has no decision backend")
	}

	sess := e.session(threadID)
	sess.mu.Lock()
	defer sess.mu.Unlock()

	st := &types.State{
		Messages: append([]types.Message(nil), sess.messages...),
		Goal:     input,
		Route:    types.RouteSupervisor,
	}
	st.AppendUser(input)

	logging.Workflow("Turn start (thread=%s): %q", threadID, truncate(input, 80))

	for step := 0; step < maxSteps; step++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		switch st.Route {
		case types.RouteDone:
			sess.messages = st.Messages
			logging.Workflow("Turn complete after %d steps", step)
			return st, nil

		case types.RouteSupervisor:
			st = e.supervise(ctx, st)

		default:
			h, ok := e.handlers[st.Route]
			if !ok {
				logging.Get(logging.CategoryWorkflow).Warn("No handler for route %s, forcing synthesis", st.Route)
				st.Route = types.RouteSynthesizer
				continue
			}
			st = h.Handle(ctx, st)
		}
	}

	// Step budget exhausted; force a final synthesis so the turn still
	// produces a response.
	logging.Get(logging.CategoryWorkflow).Warn("Step budget exhausted, forcing synthesis")
	if st.FinalResponse == "" {
		if h, ok := e.handlers[types.RouteSynthesizer]; ok {
			st = h.Handle(ctx, st)
		}
	}
	sess.messages = st.Messages
	return st, nil
}

// supervise plans the turn's tasks when nothing is in flight yet, then
// routes to the next destination with a narration message.
func (e *Engine) supervise(ctx context.Context, st *types.State) *types.State {
	out := st.Clone()

	if len(out.Todo) == 0 && len(out.Results) == 0 && out.RootCause == nil && out.FinalResponse == "" {
		out.Todo = e.backend.Plan(ctx, out)
	}

	route := e.backend.Route(ctx, out)
	out.Route = route

	if route == types.RouteDone {
		out.AppendAssistant("✅ Supervisor: Workflow completed")
		return out
	}

	instruction := fmt.Sprintf("Process request using %s", route)
	if next, ok := e.backend.NextTask(ctx, out.Todo); ok {
		instruction = fmt.Sprintf("Execute: %s", next.Description)
	}
	out.AppendAssistant(fmt.Sprintf("🎯 Supervisor: Routing to %s - %s", route, instruction))
	return out
}

// History returns a copy of the thread's conversation so far.
func (e *Engine) History(threadID string) []types.Message {
	sess := e.session(threadID)
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return append([]types.Message(nil), sess.messages...)
}

// Reset drops the thread's conversation history.
func (e *Engine) Reset(threadID string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.sessions, threadID)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
