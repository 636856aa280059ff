package agents

import (
	"context"
	"fmt"

	"agentops/internal/jobapi"
	"agentops/internal/logging"
	"agentops/internal/task"
	"agentops/internal/types"
)

// Operator executes job-API operations from planned tasks and records
// their results on the state.
type Operator struct {
	api jobapi.Client
}

// NewOperator builds the operator over a job-API client.
func NewOperator(api jobapi.Client) *Operator {
	return &Operator{api: api}
}

func (o *Operator) Name() task.Agent {
	return task.AgentOperator
}

// Handle executes the next eligible operator task. With no messages or
// no eligible operator task the handler skips straight to synthesis.
func (o *Operator) Handle(ctx context.Context, st *types.State) *types.State {
	out := st.Clone()

	if len(out.Messages) == 0 {
		out.Route = types.RouteSynthesizer
		return out
	}
	next, ok := nextFor(out.Todo, task.AgentOperator)
	if !ok {
		logging.Workflow("Operator has no eligible task, skipping to synthesis")
		out.Route = types.RouteSynthesizer
		return out
	}

	operation := next.Parameters["operation"]
	if operation == "" {
		operation = jobapi.OpListJobs
	}
	params := make(map[string]string, len(next.Parameters))
	for k, v := range next.Parameters {
		if k != "operation" {
			params[k] = v
		}
	}

	logging.API("Operator executing %s for task %s", operation, next.ID)
	result := o.api.Execute(operation, params)

	out.AppendAssistant(fmt.Sprintf("🔧 API Operator executing: %s", operation))
	out.AppendAssistant(fmt.Sprintf("📋 Task: %s", next.Description))

	if out.Results == nil {
		out.Results = map[string]map[string]any{}
	}
	out.Results[operation] = result

	if errMsg, failed := result["error"].(string); failed {
		info := &types.ErrorInfo{Message: errMsg}
		if code, ok := result["error_code"].(string); ok {
			info.Code = code
		}
		out.ErrorInfo = info
		out.AppendAssistant(fmt.Sprintf("❌ API Error: %s", errMsg))
		out.Todo = task.Fail(out.Todo, next.ID, errMsg)
	} else {
		out.AppendAssistant(fmt.Sprintf("✅ API Success: %v", result))
		out.Todo = task.Complete(out.Todo, next.ID, result)
	}

	out.Route = types.RouteSynthesizer
	return out
}
