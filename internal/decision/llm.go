package decision

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"agentops/internal/logging"
	"agentops/internal/task"
	"agentops/internal/types"
)

// LLMBackend asks a decision model and validates every answer against
// the closed vocabularies. Anything unusable, including transport
// errors, degrades to the rule backend so a flaky model can slow the
// workflow down but never wedge or misroute it.
type LLMBackend struct {
	client types.LLMClient
	rules  *RuleBackend
}

// NewLLMBackend wraps a model client with rule fallback.
func NewLLMBackend(client types.LLMClient) *LLMBackend {
	return &LLMBackend{client: client, rules: NewRuleBackend()}
}

// Route asks the model for the next destination. The answer may be a
// bare agent name or a JSON object with a next_agent field; anything
// outside the route vocabulary falls back to the rules.
func (b *LLMBackend) Route(ctx context.Context, st *types.State) types.Route {
	prompt := fmt.Sprintf(routePromptTemplate, stateContext(st))
	resp, err := b.client.CompleteWithSystem(ctx, supervisorSystemPrompt, prompt)
	if err != nil {
		logging.Get(logging.CategoryRouting).Warn("Model routing failed, using rules: %v", err)
		return b.rules.Route(ctx, st)
	}

	answer := strings.TrimSpace(resp)
	var obj struct {
		NextAgent string `json:"next_agent"`
	}
	if json.Unmarshal([]byte(answer), &obj) == nil && obj.NextAgent != "" {
		answer = obj.NextAgent
	}

	route, ok := types.ParseRoute(answer)
	if !ok {
		logging.Get(logging.CategoryRouting).Warn("Model returned invalid route %q, using rules", truncate(answer, 80))
		return b.rules.Route(ctx, st)
	}
	logging.Routing("Model route decision: %s", route)
	return route
}

// Plan asks the model for a JSON task array. Missing fields are
// back-filled with defaults; a response that is not a JSON array falls
// back to the rule planner.
func (b *LLMBackend) Plan(ctx context.Context, st *types.State) []task.Task {
	goal := st.Goal
	if goal == "" {
		goal = st.LastUserText()
	}
	prompt := fmt.Sprintf(planPromptTemplate, goal)
	resp, err := b.client.CompleteWithSystem(ctx, supervisorSystemPrompt, prompt)
	if err != nil {
		logging.Get(logging.CategoryPlanner).Warn("Model planning failed, using rules: %v", err)
		return b.rules.Plan(ctx, st)
	}

	raw := stripFences(resp)
	var parsed []plannedTask
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		logging.Get(logging.CategoryPlanner).Warn("Model plan was not a JSON array, using rules: %v", err)
		return b.rules.Plan(ctx, st)
	}

	seq := task.NewSeq()
	list := make([]task.Task, 0, len(parsed))
	for _, p := range parsed {
		list = append(list, p.toTask(seq))
	}
	if len(list) == 0 {
		return b.rules.Plan(ctx, st)
	}
	logging.Planner("Model planned %d tasks for goal %q", len(list), truncate(goal, 60))
	return list
}

// plannedTask tolerates the loose typing of model output; parameters
// may arrive as numbers or booleans and are coerced to strings.
type plannedTask struct {
	ID           string         `json:"id"`
	Description  string         `json:"description"`
	Agent        string         `json:"agent"`
	Status       string         `json:"status"`
	Priority     *int           `json:"priority"`
	Dependencies []string       `json:"dependencies"`
	Parameters   map[string]any `json:"parameters"`
}

func (p plannedTask) toTask(seq *task.Seq) task.Task {
	t := task.Task{
		ID:           p.ID,
		Description:  p.Description,
		Agent:        task.Agent(strings.ToLower(strings.TrimSpace(p.Agent))),
		Status:       task.StatusPending,
		Priority:     1,
		Dependencies: p.Dependencies,
		Parameters:   map[string]string{},
	}
	if t.ID == "" {
		t.ID = seq.Next()
	} else {
		seq.Next()
	}
	if !t.Agent.Valid() {
		t.Agent = task.AgentOperator
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if t.Dependencies == nil {
		t.Dependencies = []string{}
	}
	for k, v := range p.Parameters {
		t.Parameters[k] = fmt.Sprintf("%v", v)
	}
	return t
}

// NextTask asks the model to pick among the eligible tasks. An id
// outside the eligible set, or "none" with work still ready, falls
// back to priority selection.
func (b *LLMBackend) NextTask(ctx context.Context, list []task.Task) (task.Task, bool) {
	ready := task.Eligible(list)
	if len(ready) == 0 {
		return task.Task{}, false
	}

	readyJSON, err := json.MarshalIndent(ready, "", "  ")
	if err != nil {
		return b.rules.NextTask(ctx, list)
	}
	prompt := fmt.Sprintf(nextTaskPromptTemplate, string(readyJSON))
	resp, err := b.client.CompleteWithSystem(ctx, supervisorSystemPrompt, prompt)
	if err != nil {
		logging.Get(logging.CategoryScheduler).Warn("Model scheduling failed, using priority order: %v", err)
		return b.rules.NextTask(ctx, list)
	}

	answer := strings.ToLower(strings.TrimSpace(resp))
	if answer == "none" {
		// Work is still ready, so the refusal is overridden.
		logging.Get(logging.CategoryScheduler).Warn("Model declined to pick with %d tasks ready, using priority order", len(ready))
		return b.rules.NextTask(ctx, list)
	}
	for _, t := range ready {
		if t.ID == answer {
			logging.Scheduler("Model selected task %s (%s)", t.ID, t.Agent)
			return t, true
		}
	}
	logging.Get(logging.CategoryScheduler).Warn("Model selected unknown task %q, using priority order", truncate(answer, 40))
	return b.rules.NextTask(ctx, list)
}

// stripFences removes a surrounding markdown code fence if present.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
