package agents

import (
	"context"
	"strings"
	"testing"

	"agentops/internal/kb"
	"agentops/internal/task"
	"agentops/internal/types"
)

func knowledgeState(query string) *types.State {
	seq := task.NewSeq()
	st := &types.State{Goal: query}
	st.AppendUser(query)
	st.Todo = []task.Task{task.New(seq, "Answer the user's question", task.AgentKnowledge, 1, nil,
		map[string]string{"query": query})}
	return st
}

func TestKnowledgeAnswersFromBase(t *testing.T) {
	k := NewKnowledge(kb.Default(), nil)
	st := knowledgeState("what are templates?")

	out := k.Handle(context.Background(), st)

	answer := knowledgeAnswer(out)
	if !strings.Contains(answer, "Templates") {
		t.Errorf("answer = %q", answer)
	}
	if !strings.Contains(answer, "Related topics:") {
		t.Errorf("answer missing related topics: %q", answer)
	}
	if out.Todo[0].Status != task.StatusCompleted {
		t.Errorf("task status = %s", out.Todo[0].Status)
	}
	if out.Route != types.RouteSynthesizer {
		t.Errorf("route = %s", out.Route)
	}
}

func TestKnowledgeNoInfoAnswer(t *testing.T) {
	k := NewKnowledge(kb.Default(), nil)
	st := knowledgeState("quantum blockchain synergy")

	out := k.Handle(context.Background(), st)

	answer := knowledgeAnswer(out)
	if answer != noInfoAnswer {
		t.Errorf("answer = %q", answer)
	}
}

func TestPreviewTruncatesOnRunes(t *testing.T) {
	long := strings.Repeat("é", 250)

	got := preview(long, 200)
	if got != strings.Repeat("é", 200)+"..." {
		t.Errorf("preview = %q", got)
	}
	if got := preview("short", 200); got != "short" {
		t.Errorf("preview = %q", got)
	}
}

func TestKnowledgeFallsBackToLastMessage(t *testing.T) {
	k := NewKnowledge(kb.Default(), nil)
	seq := task.NewSeq()

	st := &types.State{}
	st.AppendUser("what is authentication?")
	st.Todo = []task.Task{task.New(seq, "Answer the user's question", task.AgentKnowledge, 1, nil, nil)}

	out := k.Handle(context.Background(), st)
	if !strings.Contains(knowledgeAnswer(out), "token-based authentication") {
		t.Errorf("answer = %q", knowledgeAnswer(out))
	}
}
