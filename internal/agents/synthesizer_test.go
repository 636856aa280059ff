package agents

import (
	"context"
	"strings"
	"testing"

	"agentops/internal/task"
	"agentops/internal/types"
)

func TestSynthesizerTemplatePrecedence(t *testing.T) {
	s := NewSynthesizer(nil)
	ctx := context.Background()

	mk := func(mutate func(st *types.State)) *types.State {
		st := &types.State{Goal: "x"}
		st.AppendUser("x")
		mutate(st)
		return st
	}

	tests := []struct {
		name       string
		st         *types.State
		wantHeader string
	}{
		{
			name: "root cause beats error info and results",
			st: mk(func(st *types.State) {
				st.RootCause = &types.RootCauseAnalysis{ErrorCode: "TEMPLATE_NOT_FOUND", ConfidenceLevel: "High", Hypothesis: "missing file"}
				st.ErrorInfo = &types.ErrorInfo{Message: "boom"}
				st.Results = map[string]map[string]any{"op": {"status": "ok"}}
			}),
			wantHeader: "🔍 Debugging Analysis Complete",
		},
		{
			name: "error info beats results",
			st: mk(func(st *types.State) {
				st.ErrorInfo = &types.ErrorInfo{Code: "JOB_NOT_FOUND", Message: "No results found for job_777"}
				st.Results = map[string]map[string]any{"get_job_results": {"error": "No results found for job_777"}}
			}),
			wantHeader: "❌ API Operation Failed",
		},
		{
			name: "results alone",
			st: mk(func(st *types.State) {
				st.Results = map[string]map[string]any{"list_public_jobs": {"jobs": []any{}}}
			}),
			wantHeader: "✅ API Operation Completed",
		},
		{
			name: "knowledge answer",
			st: mk(func(st *types.State) {
				st.AppendAssistant(knowledgePrefix + "Templates: predefined job configurations.")
			}),
			wantHeader: "📚 Information Found",
		},
		{
			name:       "general fallback",
			st:         mk(func(st *types.State) {}),
			wantHeader: "🤖 System Response",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := s.Handle(ctx, tt.st)
			if !strings.HasPrefix(out.FinalResponse, tt.wantHeader) {
				t.Errorf("final response starts %q, want %q", firstLine(out.FinalResponse), tt.wantHeader)
			}
			if out.Route != types.RouteDone {
				t.Errorf("route = %s, want done", out.Route)
			}
			if out.LastText() != out.FinalResponse {
				t.Error("final response not appended to history")
			}
		})
	}
}

func TestSynthesizerCompletesOwnTask(t *testing.T) {
	s := NewSynthesizer(nil)
	seq := task.NewSeq()

	st := &types.State{Goal: "debug job_003"}
	st.AppendUser("debug job_003")
	st.RootCause = &types.RootCauseAnalysis{ErrorCode: "TEMPLATE_NOT_FOUND", ConfidenceLevel: "High"}
	st.Todo = []task.Task{task.New(seq, "Present the debugging analysis", task.AgentSynthesizer, 2, nil, nil)}

	out := s.Handle(context.Background(), st)
	if out.Todo[0].Status != task.StatusCompleted {
		t.Errorf("synthesis task status = %s", out.Todo[0].Status)
	}
	if out.Todo[0].Result != "Response synthesized" {
		t.Errorf("synthesis task result = %v", out.Todo[0].Result)
	}
}

func TestSynthesizerNoMessagesTerminates(t *testing.T) {
	s := NewSynthesizer(nil)
	out := s.Handle(context.Background(), &types.State{})

	if out.Route != types.RouteDone {
		t.Errorf("route = %s", out.Route)
	}
	if out.FinalResponse != "" {
		t.Errorf("final response = %q, want empty", out.FinalResponse)
	}
}

func TestKnowledgeSummary(t *testing.T) {
	st := &types.State{
		Results: map[string]map[string]any{
			"list_public_jobs": {"jobs": []any{}},
			"get_job_results":  {"error": "nope"},
		},
		RootCause: &types.RootCauseAnalysis{ErrorCode: "X", ConfidenceLevel: "High", Severity: "High"},
	}

	summary := knowledgeSummary(st)
	if len(summary) != 2 {
		t.Fatalf("summary = %+v", summary)
	}
	if summary[0].Type != "api_operations" || summary[0].Success {
		t.Errorf("api item = %+v", summary[0])
	}
	if len(summary[0].Operations) != 2 {
		t.Errorf("operations = %v", summary[0].Operations)
	}
	if summary[1].Type != "debugging_analysis" || summary[1].ErrorCode != "X" {
		t.Errorf("debug item = %+v", summary[1])
	}
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
