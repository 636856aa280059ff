// Package jobapi implements the job-API collaborator: four named
// operations over a background-job service, plus the error-pattern
// lookup the debugger resolves codes against. The bundled client
// serves static fixture data; the operator handler only depends on
// the Client interface.
package jobapi

import "fmt"

// Operation names accepted by Execute.
const (
	OpListJobs     = "list_public_jobs"
	OpRunJob       = "run_job"
	OpJobResults   = "get_job_results"
	OpSystemStatus = "check_system_status"
)

// Client is the narrow interface the operator handler uses. Every
// method returns a structured payload; failures are reported through
// an "error" key (optionally with "error_code"), never through a Go
// error, so the caller can treat the payload uniformly.
type Client interface {
	ListJobs() map[string]any
	RunJob(name string) map[string]any
	JobResults(id string) map[string]any
	SystemStatus() map[string]any

	// Execute dispatches by operation name; an unknown name yields an
	// error payload naming it.
	Execute(op string, params map[string]string) map[string]any
}

// MockClient serves the static job fixtures.
type MockClient struct{}

// NewMockClient returns a client over the static fixtures.
func NewMockClient() *MockClient {
	return &MockClient{}
}

// ListJobs lists all available jobs.
func (c *MockClient) ListJobs() map[string]any {
	jobs := make([]map[string]any, len(apiJobs))
	for i, j := range apiJobs {
		jobs[i] = map[string]any{
			"id":       j.ID,
			"name":     j.Name,
			"status":   j.Status,
			"template": j.Template,
		}
	}
	return map[string]any{"jobs": jobs}
}

// RunJob queues a job by name.
func (c *MockClient) RunJob(name string) map[string]any {
	jobID := fmt.Sprintf("job_%03d", len(apiJobs)+1)
	return map[string]any{
		"job_id":   jobID,
		"job_name": name,
		"status":   "queued",
		"message":  fmt.Sprintf("Job '%s' queued for execution", name),
	}
}

// JobResults fetches results for a job id.
func (c *MockClient) JobResults(id string) map[string]any {
	if res, ok := apiJobResults[id]; ok {
		out := make(map[string]any, len(res))
		for k, v := range res {
			out[k] = v
		}
		return out
	}
	return map[string]any{
		"error":      fmt.Sprintf("No results found for %s", id),
		"error_code": "JOB_NOT_FOUND",
	}
}

// SystemStatus reports overall system health.
func (c *MockClient) SystemStatus() map[string]any {
	out := make(map[string]any, len(apiSystemStatus))
	for k, v := range apiSystemStatus {
		out[k] = v
	}
	return out
}

// Execute dispatches a named operation.
func (c *MockClient) Execute(op string, params map[string]string) map[string]any {
	switch op {
	case OpListJobs:
		return c.ListJobs()
	case OpRunJob:
		name := params["job_name"]
		if name == "" {
			name = "unknown"
		}
		return c.RunJob(name)
	case OpJobResults:
		id := params["job_id"]
		if id == "" {
			id = "unknown"
		}
		return c.JobResults(id)
	case OpSystemStatus:
		return c.SystemStatus()
	default:
		return map[string]any{"error": fmt.Sprintf("Unknown operation: %s", op)}
	}
}
