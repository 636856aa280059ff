package agents

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"agentops/internal/logging"
	"agentops/internal/memory"
	"agentops/internal/task"
	"agentops/internal/types"
)

// storeTimeout bounds the memory writes at the end of a turn so a
// slow store cannot hold the response hostage.
const storeTimeout = 5 * time.Second

// Synthesizer formats the final user-facing response from whatever
// the turn produced, then persists the turn to memory.
type Synthesizer struct {
	mem *memory.Service
}

// NewSynthesizer builds the synthesizer. mem may be nil.
func NewSynthesizer(mem *memory.Service) *Synthesizer {
	return &Synthesizer{mem: mem}
}

func (s *Synthesizer) Name() task.Agent {
	return task.AgentSynthesizer
}

// Handle always terminates the turn: it sets the final response, the
// knowledge summary, and RouteDone.
func (s *Synthesizer) Handle(ctx context.Context, st *types.State) *types.State {
	out := st.Clone()

	if len(out.Messages) == 0 {
		out.Route = types.RouteDone
		return out
	}

	if next, ok := nextFor(out.Todo, task.AgentSynthesizer); ok {
		out.AppendAssistant(fmt.Sprintf("📋 Task: %s", next.Description))
		out.Todo = task.Complete(out.Todo, next.ID, "Response synthesized")
	}

	final := synthesize(out)
	out.FinalResponse = final
	out.Summary = knowledgeSummary(out)
	out.AppendAssistant(final)
	out.Route = types.RouteDone

	if s.mem.Enabled() {
		storeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), storeTimeout)
		defer cancel()
		s.mem.StoreFromState(storeCtx, out)
	}

	logging.Workflow("Synthesized final response (%d chars)", len(final))
	return out
}

// synthesize picks the response template by precedence: a root cause
// beats raw error info, which beats results, which beats a knowledge
// answer; anything else gets the general template.
func synthesize(st *types.State) string {
	switch {
	case st.RootCause != nil:
		return formatDebugging(st)
	case st.ErrorInfo != nil:
		return formatAPIError(st)
	case len(st.Results) > 0:
		return formatAPISuccess(st)
	case knowledgeAnswer(st) != "":
		return formatKnowledge(st)
	default:
		return "🤖 System Response\n\nOperation completed successfully"
	}
}

func formatDebugging(st *types.State) string {
	a := st.RootCause
	summary := fmt.Sprintf("Analyzed error: %s with %s confidence", a.ErrorCode, a.ConfidenceLevel)

	rootCause := a.Hypothesis
	if rootCause == "" {
		rootCause = "No root cause identified"
	}
	actions := a.RecommendedActions
	if len(actions) == 0 {
		actions = []string{"No specific recommendations available"}
	}

	return fmt.Sprintf("🔍 Debugging Analysis Complete\n\n%s\n\nRoot Cause:\n%s\n\nRecommended Actions:\n%s",
		summary, rootCause, bulleted(actions))
}

func formatAPIError(st *types.State) string {
	summary := fmt.Sprintf("API operation(s) failed: %s", strings.Join(operationNames(st.Results), ", "))

	errDetails := fmt.Sprintf("Error: %s", st.ErrorInfo.Message)
	if st.ErrorInfo.Code != "" {
		errDetails += fmt.Sprintf("\nError Code: %s", st.ErrorInfo.Code)
	}
	nextSteps := []string{
		"Check the error details above",
		"Verify your request parameters",
		"Try again with corrected parameters",
		"Contact support if the issue persists",
	}

	return fmt.Sprintf("❌ API Operation Failed\n\n%s\n\nError Details:\n%s\n\nNext Steps:\n%s",
		summary, errDetails, bulleted(nextSteps))
}

func formatAPISuccess(st *types.State) string {
	ops := operationNames(st.Results)
	summary := fmt.Sprintf("Successfully executed %d API operation(s): %s", len(ops), strings.Join(ops, ", "))

	var details []string
	for _, op := range ops {
		result := st.Results[op]
		if _, failed := result["error"]; failed {
			continue
		}
		details = append(details, fmt.Sprintf("• %s: %s", op, keyInfo(result)))
	}
	detailText := strings.Join(details, "\n")
	if detailText == "" {
		detailText = "No details available"
	}

	return fmt.Sprintf("✅ API Operation Completed\n\n%s\n\nDetails:\n%s", summary, detailText)
}

func formatKnowledge(st *types.State) string {
	answer := knowledgeAnswer(st)
	return fmt.Sprintf("📚 Information Found\n\n%s\n\nSource: Knowledge Base", answer)
}

// knowledgeAnswer extracts the knowledge assistant's answer from the
// history, or "".
func knowledgeAnswer(st *types.State) string {
	for _, m := range st.Messages {
		text := m.Content.PlainText()
		if strings.Contains(text, knowledgePrefix) {
			_, after, _ := strings.Cut(text, knowledgePrefix)
			return strings.TrimSpace(after)
		}
	}
	return ""
}

// keyInfo condenses one operation result to its most telling field.
func keyInfo(result map[string]any) string {
	if v, ok := result["job_id"]; ok {
		return fmt.Sprintf("Job ID: %v", v)
	}
	if v, ok := result["status"]; ok {
		return fmt.Sprintf("Status: %v", v)
	}
	if v, ok := result["message"]; ok {
		return fmt.Sprintf("%v", v)
	}
	return fmt.Sprintf("%v", result)
}

// knowledgeSummary captures what the turn accomplished for memory
// storage and inspection.
func knowledgeSummary(st *types.State) []types.SummaryItem {
	now := time.Now().UTC().Format(time.RFC3339)
	var summary []types.SummaryItem

	if len(st.Results) > 0 {
		success := true
		for _, result := range st.Results {
			if strings.Contains(fmt.Sprintf("%v", result), "error") {
				success = false
				break
			}
		}
		summary = append(summary, types.SummaryItem{
			Type:       "api_operations",
			Operations: operationNames(st.Results),
			Success:    success,
			Timestamp:  now,
		})
	}
	if st.RootCause != nil {
		summary = append(summary, types.SummaryItem{
			Type:            "debugging_analysis",
			ErrorCode:       st.RootCause.ErrorCode,
			ConfidenceLevel: st.RootCause.ConfidenceLevel,
			Severity:        st.RootCause.Severity,
			Timestamp:       now,
		})
	}
	return summary
}

func operationNames(results map[string]map[string]any) []string {
	ops := make([]string, 0, len(results))
	for op := range results {
		ops = append(ops, op)
	}
	sort.Strings(ops)
	return ops
}

func bulleted(items []string) string {
	lines := make([]string, len(items))
	for i, item := range items {
		lines[i] = "• " + item
	}
	return strings.Join(lines, "\n")
}
