package agents

import (
	"context"
	"testing"

	"agentops/internal/jobapi"
	"agentops/internal/task"
	"agentops/internal/types"
)

func operatorState(op string, params map[string]string) *types.State {
	seq := task.NewSeq()
	if params == nil {
		params = map[string]string{}
	}
	params["operation"] = op

	st := &types.State{Goal: "test"}
	st.AppendUser("test")
	st.Todo = []task.Task{task.New(seq, "run operation", task.AgentOperator, 1, nil, params)}
	return st
}

func TestOperatorSuccess(t *testing.T) {
	o := NewOperator(jobapi.NewMockClient())
	st := operatorState(jobapi.OpListJobs, nil)

	out := o.Handle(context.Background(), st)

	if out.Results[jobapi.OpListJobs] == nil {
		t.Fatalf("results = %+v", out.Results)
	}
	if out.Todo[0].Status != task.StatusCompleted {
		t.Errorf("task status = %s", out.Todo[0].Status)
	}
	if out.ErrorInfo != nil {
		t.Errorf("unexpected error info: %+v", out.ErrorInfo)
	}
	if out.Route != types.RouteSynthesizer {
		t.Errorf("route = %s", out.Route)
	}
}

func TestOperatorErrorPayload(t *testing.T) {
	o := NewOperator(jobapi.NewMockClient())
	st := operatorState(jobapi.OpJobResults, map[string]string{"job_id": "job_777"})

	out := o.Handle(context.Background(), st)

	if out.ErrorInfo == nil || out.ErrorInfo.Code != "JOB_NOT_FOUND" {
		t.Fatalf("error info = %+v", out.ErrorInfo)
	}
	if out.Todo[0].Status != task.StatusFailed {
		t.Errorf("task status = %s", out.Todo[0].Status)
	}
	// The error payload still lands in results for synthesis.
	if out.Results[jobapi.OpJobResults] == nil {
		t.Error("error result not recorded")
	}
}

func TestOperatorSkipsForeignTask(t *testing.T) {
	o := NewOperator(jobapi.NewMockClient())
	seq := task.NewSeq()

	st := &types.State{}
	st.AppendUser("debug job_003")
	st.Todo = []task.Task{task.New(seq, "analyze", task.AgentDebugger, 1, nil, nil)}

	out := o.Handle(context.Background(), st)
	if out.Route != types.RouteSynthesizer {
		t.Errorf("route = %s", out.Route)
	}
	if len(out.Results) != 0 {
		t.Errorf("skip should not execute anything: %+v", out.Results)
	}
	if out.Todo[0].Status != task.StatusPending {
		t.Errorf("foreign task touched: %s", out.Todo[0].Status)
	}
}
