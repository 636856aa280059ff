package task

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSeqIssuesSequentialIDs(t *testing.T) {
	seq := NewSeq()
	if got := seq.Next(); got != "task_001" {
		t.Errorf("first id = %q, want task_001", got)
	}
	if got := seq.Next(); got != "task_002" {
		t.Errorf("second id = %q, want task_002", got)
	}

	// A fresh sequence restarts; ids are per run, not global.
	if got := NewSeq().Next(); got != "task_001" {
		t.Errorf("fresh sequence id = %q, want task_001", got)
	}
}

func TestNewNormalizesNilContainers(t *testing.T) {
	got := New(NewSeq(), "list jobs", AgentOperator, 1, nil, nil)

	if got.Dependencies == nil || got.Parameters == nil {
		t.Fatalf("nil containers not normalized: %+v", got)
	}
	if got.Status != StatusPending {
		t.Errorf("status = %q, want pending", got.Status)
	}
}

func TestCompleteAndFail(t *testing.T) {
	seq := NewSeq()
	list := []Task{
		New(seq, "a", AgentOperator, 1, nil, nil),
		New(seq, "b", AgentDebugger, 1, nil, nil),
	}

	done := Complete(list, "task_001", "ok")
	if done[0].Status != StatusCompleted || done[0].Result != "ok" {
		t.Errorf("task_001 not completed: %+v", done[0])
	}
	if list[0].Status != StatusPending {
		t.Error("Complete mutated its input slice")
	}

	failed := Fail(done, "task_002", "boom")
	if failed[1].Status != StatusFailed || failed[1].Error != "boom" {
		t.Errorf("task_002 not failed: %+v", failed[1])
	}
}

func TestCompleteUnknownIDIsNoOp(t *testing.T) {
	seq := NewSeq()
	list := []Task{New(seq, "a", AgentOperator, 1, nil, nil)}

	got := Complete(list, "task_999", "ignored")
	if diff := cmp.Diff(list, got); diff != "" {
		t.Errorf("unknown id changed the list (-want +got):\n%s", diff)
	}

	got = Fail(list, "task_999", "ignored")
	if diff := cmp.Diff(list, got); diff != "" {
		t.Errorf("unknown id changed the list (-want +got):\n%s", diff)
	}
}

func TestStatusFilters(t *testing.T) {
	seq := NewSeq()
	list := []Task{
		New(seq, "a", AgentOperator, 1, nil, nil),
		New(seq, "b", AgentOperator, 1, nil, nil),
		New(seq, "c", AgentOperator, 1, nil, nil),
	}
	list = Complete(list, "task_001", nil)
	list = Fail(list, "task_002", "x")

	if got := Completed(list); len(got) != 1 || got[0].ID != "task_001" {
		t.Errorf("Completed = %+v", got)
	}
	if got := Failed(list); len(got) != 1 || got[0].ID != "task_002" {
		t.Errorf("Failed = %+v", got)
	}
	if got := Pending(list); len(got) != 1 || got[0].ID != "task_003" {
		t.Errorf("Pending = %+v", got)
	}
}

func TestIsComplete(t *testing.T) {
	if !IsComplete(nil) {
		t.Error("empty list should be complete")
	}

	seq := NewSeq()
	list := []Task{New(seq, "a", AgentOperator, 1, nil, nil)}
	if IsComplete(list) {
		t.Error("pending task should not be complete")
	}

	// Failed counts as terminal.
	if !IsComplete(Fail(list, "task_001", "x")) {
		t.Error("failed task should be terminal")
	}
}

func TestAgentValid(t *testing.T) {
	for _, a := range []Agent{AgentOperator, AgentDebugger, AgentKnowledge, AgentSynthesizer} {
		if !a.Valid() {
			t.Errorf("%q should be valid", a)
		}
	}
	if Agent("supervisor").Valid() {
		t.Error("supervisor is not a handler agent")
	}
}
