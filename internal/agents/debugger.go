package agents

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"agentops/internal/jobapi"
	"agentops/internal/logging"
	"agentops/internal/memory"
	"agentops/internal/task"
	"agentops/internal/types"
)

// ConfidenceThreshold is the minimum similarity a historical case must
// exceed (strictly) for it to confirm an analysis.
const ConfidenceThreshold = 0.8

// ConfirmedConfidence replaces the pattern confidence when history
// confirms the analysis.
const ConfirmedConfidence = "High (confirmed by historical cases)"

// Debugger resolves error info against the known pattern table and
// augments the analysis with similar historical cases from memory.
type Debugger struct {
	mem *memory.Service
}

// NewDebugger builds the debugger. mem may be nil.
func NewDebugger(mem *memory.Service) *Debugger {
	return &Debugger{mem: mem}
}

func (d *Debugger) Name() task.Agent {
	return task.AgentDebugger
}

// Handle analyzes the state's error info, synthesizing it from the
// task's error_type when the workflow carries none yet.
func (d *Debugger) Handle(ctx context.Context, st *types.State) *types.State {
	out := st.Clone()

	if len(out.Messages) == 0 {
		out.Route = types.RouteSynthesizer
		return out
	}
	next, ok := nextFor(out.Todo, task.AgentDebugger)
	if !ok {
		logging.Workflow("Debugger has no eligible task, skipping to synthesis")
		out.Route = types.RouteSynthesizer
		return out
	}

	info := out.ErrorInfo
	if info == nil {
		if next.Parameters["error_type"] == "template_not_found" {
			p := jobapi.Pattern(jobapi.ErrorCodeTemplateNotFound)
			info = &types.ErrorInfo{
				Code:        p.ErrorCode,
				Message:     p.ErrorMessage,
				Timestamp:   time.Now().UTC().Format(time.RFC3339),
				Suggestions: p.Suggestions,
			}
		} else {
			logging.Workflow("Debugger task %s has nothing to analyze", next.ID)
			out.Todo = task.Fail(out.Todo, next.ID, "No error information available")
			out.Route = types.RouteSynthesizer
			return out
		}
	}

	analysis := d.analyze(ctx, info)

	out.AppendAssistant("🐞 Debugger analyzing error...")
	out.AppendAssistant(fmt.Sprintf("📋 Task: %s", next.Description))

	out.ErrorInfo = info
	out.RootCause = &analysis
	out.Todo = task.Complete(out.Todo, next.ID, analysis)
	out.AppendAssistant(analysisSummary(analysis))

	out.Route = types.RouteSynthesizer
	return out
}

// analyze resolves the error code against the pattern table and folds
// in similar historical cases.
func (d *Debugger) analyze(ctx context.Context, info *types.ErrorInfo) types.RootCauseAnalysis {
	code := info.Code
	if code == "" {
		code = jobapi.UnknownErrorCode
	}
	analysis := jobapi.Pattern(code)

	similar := d.mem.SearchSimilarErrors(ctx, code, info.Message)
	cases := make([]types.HistoricalCase, 0, len(similar))
	for _, r := range similar {
		cases = append(cases, types.HistoricalCase{
			Confidence: r.Entry.ConfidenceLevel,
			Severity:   r.Entry.Severity,
			Similarity: math.Round(r.Similarity*100) / 100,
			Timestamp:  r.Entry.Timestamp,
		})
	}
	return AugmentWithHistory(analysis, cases)
}

// AugmentWithHistory attaches historical cases to an analysis. The
// confidence is upgraded only when some case is itself high-confidence
// and strictly more similar than the threshold; an exact-threshold
// match does not qualify.
func AugmentWithHistory(analysis types.RootCauseAnalysis, cases []types.HistoricalCase) types.RootCauseAnalysis {
	if len(cases) == 0 {
		return analysis
	}
	analysis.HistoricalCases = cases
	analysis.EnhancedWithLTM = true
	for _, c := range cases {
		if c.Confidence == "High" && c.Similarity > ConfidenceThreshold {
			analysis.ConfidenceLevel = ConfirmedConfidence
			break
		}
	}
	return analysis
}

func analysisSummary(a types.RootCauseAnalysis) string {
	var b strings.Builder
	b.WriteString("\n🔍 Root Cause Analysis\n\n")
	fmt.Fprintf(&b, "Error: %s - %s\n", a.ErrorCode, a.ErrorMessage)
	fmt.Fprintf(&b, "Hypothesis: %s\n", a.Hypothesis)
	fmt.Fprintf(&b, "Confidence: %s\n", a.ConfidenceLevel)
	fmt.Fprintf(&b, "Severity: %s\n\n", a.Severity)
	b.WriteString("Recommended Actions:\n")
	for _, action := range a.RecommendedActions {
		fmt.Fprintf(&b, "• %s\n", action)
	}
	fmt.Fprintf(&b, "\nRelated Components: %s\n", strings.Join(a.RelatedComponents, ", "))
	return b.String()
}
