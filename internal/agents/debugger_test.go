package agents

import (
	"context"
	"strings"
	"testing"

	"agentops/internal/task"
	"agentops/internal/types"
)

func debugState(t *testing.T, withError bool) *types.State {
	t.Helper()
	seq := task.NewSeq()
	st := &types.State{Goal: "debug job_003"}
	st.AppendUser("debug job_003")

	params := map[string]string{"job_id": "job_003", "error_type": "template_not_found"}
	if !withError {
		params["error_type"] = "general"
	}
	st.Todo = []task.Task{task.New(seq, "Analyze failure of job_003", task.AgentDebugger, 1, nil, params)}
	return st
}

func TestDebuggerSynthesizesErrorInfo(t *testing.T) {
	d := NewDebugger(nil)
	st := debugState(t, true)

	out := d.Handle(context.Background(), st)

	if out.ErrorInfo == nil || out.ErrorInfo.Code != "TEMPLATE_NOT_FOUND" {
		t.Fatalf("error info = %+v", out.ErrorInfo)
	}
	if out.RootCause == nil || out.RootCause.ConfidenceLevel != "High" {
		t.Fatalf("root cause = %+v", out.RootCause)
	}
	if out.Route != types.RouteSynthesizer {
		t.Errorf("route = %s", out.Route)
	}
	if out.Todo[0].Status != task.StatusCompleted {
		t.Errorf("task status = %s", out.Todo[0].Status)
	}
	// Original state untouched.
	if st.RootCause != nil || st.Todo[0].Status != task.StatusPending {
		t.Error("handler mutated its input state")
	}
}

func TestDebuggerFailsWithoutErrorInfo(t *testing.T) {
	d := NewDebugger(nil)
	st := debugState(t, false)

	out := d.Handle(context.Background(), st)

	if out.RootCause != nil {
		t.Errorf("unexpected analysis: %+v", out.RootCause)
	}
	if out.Todo[0].Status != task.StatusFailed {
		t.Errorf("task status = %s", out.Todo[0].Status)
	}
	if out.Todo[0].Error != "No error information available" {
		t.Errorf("task error = %q", out.Todo[0].Error)
	}
	if out.Route != types.RouteSynthesizer {
		t.Errorf("route = %s", out.Route)
	}
}

func TestDebuggerUsesExistingErrorInfo(t *testing.T) {
	d := NewDebugger(nil)
	st := debugState(t, true)
	st.ErrorInfo = &types.ErrorInfo{Code: "TIMEOUT_ERROR", Message: "Job execution timeout exceeded"}

	out := d.Handle(context.Background(), st)

	if out.RootCause.ErrorCode != "TIMEOUT_ERROR" {
		t.Errorf("analysis code = %s", out.RootCause.ErrorCode)
	}
	if !strings.Contains(out.LastText(), "Root Cause Analysis") {
		t.Errorf("missing analysis summary message: %q", out.LastText())
	}
}

func TestDebuggerSkipsWithoutEligibleTask(t *testing.T) {
	d := NewDebugger(nil)
	st := &types.State{}
	st.AppendUser("hello")

	out := d.Handle(context.Background(), st)
	if out.Route != types.RouteSynthesizer {
		t.Errorf("route = %s", out.Route)
	}
}

func TestAugmentWithHistory(t *testing.T) {
	base := types.RootCauseAnalysis{ErrorCode: "TEMPLATE_NOT_FOUND", ConfidenceLevel: "Medium"}

	tests := []struct {
		name           string
		cases          []types.HistoricalCase
		wantConfidence string
		wantEnhanced   bool
	}{
		{
			name:           "no cases leaves analysis untouched",
			cases:          nil,
			wantConfidence: "Medium",
			wantEnhanced:   false,
		},
		{
			name: "high confidence above threshold upgrades",
			cases: []types.HistoricalCase{
				{Confidence: "High", Similarity: 0.85},
			},
			wantConfidence: ConfirmedConfidence,
			wantEnhanced:   true,
		},
		{
			name: "exactly at threshold does not upgrade",
			cases: []types.HistoricalCase{
				{Confidence: "High", Similarity: 0.8},
			},
			wantConfidence: "Medium",
			wantEnhanced:   true,
		},
		{
			name: "low confidence above threshold does not upgrade",
			cases: []types.HistoricalCase{
				{Confidence: "Low", Similarity: 0.95},
			},
			wantConfidence: "Medium",
			wantEnhanced:   true,
		},
		{
			name: "any qualifying case among several upgrades",
			cases: []types.HistoricalCase{
				{Confidence: "Low", Similarity: 0.99},
				{Confidence: "High", Similarity: 0.81},
			},
			wantConfidence: ConfirmedConfidence,
			wantEnhanced:   true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AugmentWithHistory(base, tt.cases)
			if got.ConfidenceLevel != tt.wantConfidence {
				t.Errorf("confidence = %q, want %q", got.ConfidenceLevel, tt.wantConfidence)
			}
			if got.EnhancedWithLTM != tt.wantEnhanced {
				t.Errorf("enhanced = %v, want %v", got.EnhancedWithLTM, tt.wantEnhanced)
			}
		})
	}
}
