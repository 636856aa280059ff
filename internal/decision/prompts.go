package decision

import (
	"encoding/json"
	"fmt"

	"agentops/internal/types"
)

const supervisorSystemPrompt = `You are a Supervisor agent coordinating a multi-agent debugging system for a job API. You route requests, plan task lists, and schedule tasks. Always answer in exactly the format the instruction asks for, with no extra commentary.`

const routePromptTemplate = `You are routing a request to the appropriate specialized agent.

Current state context:
%s

Available agents:
- api_operator: Handles API operations (run jobs, get results, list jobs, check system status)
- debugger: Analyzes errors, logs, and provides root cause analysis
- knowledge_assistant: Answers questions and provides information
- response_synthesizer: Formats and presents final responses to users

ROUTING RULES:
1. If there is a final_response, return "done"
2. If there are results or a root_cause_analysis to synthesize, route to "response_synthesizer"
3. If there are pending todo items, route to the task's agent
4. If there is error_info but no root_cause_analysis, route to "debugger"
5. Otherwise route by the last message content:
   - Questions (what, how, why, when, where, ?) -> "knowledge_assistant"
   - Debug/error requests (debug, error, fail, investigate) -> "debugger"
   - API operations (run, get, list, check) -> "api_operator"
   - Default -> "api_operator"

Respond with ONLY the agent name or "done".`

const planPromptTemplate = `You are creating a task list for a multi-agent workflow.

User request: %q

Available agents and their capabilities:
- api_operator: API operations (list_public_jobs, run_job, get_job_results, check_system_status)
- debugger: Error analysis and root cause hypotheses
- knowledge_assistant: Answers questions from the knowledge base
- response_synthesizer: Formats the final response

Task structure:
{"id": "task_001", "description": "...", "agent": "agent_name", "status": "pending", "priority": 1, "dependencies": [], "parameters": {"key": "value"}}

Break the request into specific tasks. Use dependencies when one task needs another's output, and lower priority numbers for more urgent tasks. Operator tasks carry an "operation" parameter; run_job takes "job_name", get_job_results takes "job_id".

Respond with ONLY a JSON array of task objects.`

const nextTaskPromptTemplate = `You are selecting the next task to execute.

Ready tasks (all dependencies completed):
%s

Selection criteria:
1. Priority (lower number = higher priority)
2. Logical workflow order

Respond with ONLY the task ID of the selected task, or "none".`

// stateContext summarizes the state for the routing prompt. Booleans
// only; raw results never leave the process through a prompt.
func stateContext(st *types.State) string {
	pendingTodo := false
	for _, t := range st.Todo {
		if t.Status == "pending" {
			pendingTodo = true
			break
		}
	}
	ctx := map[string]any{
		"has_final_response":      st.FinalResponse != "",
		"has_results":             len(st.Results) > 0,
		"has_root_cause_analysis": st.RootCause != nil,
		"has_pending_todo":        pendingTodo,
		"has_error_info":          st.ErrorInfo != nil,
		"message_count":           len(st.Messages),
		"last_message":            st.LastText(),
	}
	data, err := json.MarshalIndent(ctx, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", ctx)
	}
	return string(data)
}
