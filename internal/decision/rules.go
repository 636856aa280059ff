package decision

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"agentops/internal/jobapi"
	"agentops/internal/logging"
	"agentops/internal/task"
	"agentops/internal/types"
)

// Pattern families used for content-based routing, checked in
// debug > knowledge > api order so "why did job_003 fail?" lands on
// the debugger rather than the knowledge assistant.
var (
	apiPatterns = compileAll(
		`\b(run|start|execute|submit)\s+(job|task)\b`,
		`\b(get|fetch|retrieve)\s+(job|result|status)\b`,
		`\b(list|show)\b.*\b(jobs|tasks)\b`,
		`\b(check|monitor)\s+(system|status)\b`,
		`\b(api|endpoint|call)\b`,
	)
	debugPatterns = compileAll(
		`\b(debug|analyze|investigate|troubleshoot)\b`,
		`\b(error|failed|failure|problem)\b`,
		`\b(why|what went wrong|root cause)\b`,
		`\b(logs|diagnose|fix)\b`,
	)
	knowledgePatterns = compileAll(
		`\b(what|how|when|where|why)\b.*\?`,
		`\b(explain|describe|tell me about)\b`,
		`\b(help|documentation|manual|guide)\b`,
		`\b(what is|what are|how does|how do)\b.*\b(api|jobs|authentication|templates)\b`,
	)

	jobIDPattern = regexp.MustCompile(`job_(\d{3})`)
)

func compileAll(patterns ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(patterns))
	for i, p := range patterns {
		out[i] = regexp.MustCompile(p)
	}
	return out
}

func matchesAny(text string, patterns []*regexp.Regexp) bool {
	for _, p := range patterns {
		if p.MatchString(text) {
			return true
		}
	}
	return false
}

// RuleBackend makes every decision deterministically from the state.
// It is the offline default and the fallback path of the LLM backend.
type RuleBackend struct{}

// NewRuleBackend returns the deterministic backend.
func NewRuleBackend() *RuleBackend {
	return &RuleBackend{}
}

// Route applies the fixed precedence: a final response terminates the
// turn; results or a root cause go to synthesis; pending eligible work
// goes to its assigned handler; an unanalyzed error goes to the
// debugger; otherwise the last message content is classified.
func (b *RuleBackend) Route(ctx context.Context, st *types.State) types.Route {
	route := b.route(st)
	logging.Routing("Route decision: %s", route)
	return route
}

func (b *RuleBackend) route(st *types.State) types.Route {
	if st.FinalResponse != "" {
		return types.RouteDone
	}
	if len(st.Results) > 0 || st.RootCause != nil {
		return types.RouteSynthesizer
	}
	if next, ok := task.NextEligible(st.Todo); ok {
		return types.RouteFor(next.Agent)
	}
	if st.ErrorInfo != nil && st.RootCause == nil {
		return types.RouteDebugger
	}

	text := strings.ToLower(st.LastText())
	switch {
	case strings.TrimSpace(text) == "":
		return types.RouteDone
	case matchesAny(text, debugPatterns):
		return types.RouteDebugger
	case matchesAny(text, knowledgePatterns):
		return types.RouteKnowledge
	case matchesAny(text, apiPatterns):
		return types.RouteOperator
	default:
		return types.RouteOperator
	}
}

// Plan derives the task list from the goal text. API operations are
// checked before knowledge questions and debugging; any branch that
// produces nothing falls back to a job listing so the user always
// gets something actionable back.
func (b *RuleBackend) Plan(ctx context.Context, st *types.State) []task.Task {
	text := st.Goal
	if text == "" {
		text = st.LastUserText()
	}
	list := planFromText(text)
	logging.Planner("Planned %d tasks for goal %q", len(list), truncate(text, 60))
	return list
}

func planFromText(text string) []task.Task {
	lower := strings.ToLower(text)
	seq := task.NewSeq()

	hasAny := func(words ...string) bool {
		for _, w := range words {
			if strings.Contains(lower, w) {
				return true
			}
		}
		return false
	}

	var list []task.Task
	switch {
	case hasAny("list", "show") && strings.Contains(lower, "job"):
		list = []task.Task{operatorTask(seq, "List all available jobs", jobapi.OpListJobs, nil)}

	case hasAny("run", "start", "execute") && strings.Contains(lower, "job"):
		name := extractJobName(lower)
		list = []task.Task{operatorTask(seq,
			fmt.Sprintf("Execute the %s job", name),
			jobapi.OpRunJob, map[string]string{"job_name": name})}

	case hasAny("check", "monitor") && strings.Contains(lower, "system"):
		list = []task.Task{operatorTask(seq, "Check overall system status", jobapi.OpSystemStatus, nil)}

	case hasAny("get", "fetch") && hasAny("result", "status"):
		if jobID := extractJobID(lower); jobID != "" {
			list = []task.Task{operatorTask(seq,
				fmt.Sprintf("Fetch results for %s", jobID),
				jobapi.OpJobResults, map[string]string{"job_id": jobID})}
		}

	case hasAny("what", "how", "explain", "help"):
		list = []task.Task{task.New(seq,
			"Answer the user's question",
			task.AgentKnowledge, 1, nil,
			map[string]string{"query": text})}

	case hasAny("debug", "analyze", "investigate") && strings.Contains(lower, "job"):
		if jobID := extractJobID(lower); jobID != "" {
			debug := task.New(seq,
				fmt.Sprintf("Analyze failure of %s", jobID),
				task.AgentDebugger, 1, nil,
				map[string]string{"job_id": jobID, "error_type": "template_not_found"})
			synth := task.New(seq,
				"Present the debugging analysis",
				task.AgentSynthesizer, 2, []string{debug.ID}, nil)
			list = []task.Task{debug, synth}
		}
	}

	// Every request yields at least one actionable task.
	if len(list) == 0 {
		list = []task.Task{operatorTask(seq, "List all available jobs", jobapi.OpListJobs, nil)}
	}
	return list
}

func operatorTask(seq *task.Seq, description, op string, params map[string]string) task.Task {
	if params == nil {
		params = map[string]string{}
	}
	params["operation"] = op
	return task.New(seq, description, task.AgentOperator, 1, nil, params)
}

// extractJobName maps goal text onto the known job vocabulary,
// defaulting to data_processing.
func extractJobName(lower string) string {
	switch {
	case strings.Contains(lower, "data") && strings.Contains(lower, "process"):
		return "data_processing"
	case strings.Contains(lower, "image") && strings.Contains(lower, "analysis"):
		return "image_analysis"
	case strings.Contains(lower, "report") && strings.Contains(lower, "generation"):
		return "report_generation"
	case strings.Contains(lower, "validation"):
		return "data_validation"
	default:
		return "data_processing"
	}
}

// extractJobID finds a job_NNN reference, or "" when absent.
func extractJobID(lower string) string {
	return jobIDPattern.FindString(lower)
}

// NextTask selects by eligibility and priority.
func (b *RuleBackend) NextTask(ctx context.Context, list []task.Task) (task.Task, bool) {
	next, ok := task.NextEligible(list)
	if ok {
		logging.Scheduler("Selected task %s (%s, priority %d)", next.ID, next.Agent, next.Priority)
	}
	return next, ok
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
