package jobapi

import (
	"strings"
	"testing"
)

func TestListJobs(t *testing.T) {
	c := NewMockClient()
	out := c.ListJobs()

	jobs, ok := out["jobs"].([]map[string]any)
	if !ok {
		t.Fatalf("jobs payload has wrong shape: %T", out["jobs"])
	}
	if len(jobs) != 4 {
		t.Fatalf("len(jobs) = %d, want 4", len(jobs))
	}
	if jobs[2]["id"] != "job_003" || jobs[2]["status"] != "failed" {
		t.Errorf("job_003 fixture wrong: %+v", jobs[2])
	}
}

func TestJobResultsFailedJob(t *testing.T) {
	c := NewMockClient()
	out := c.JobResults("job_003")

	if out["error_code"] != "TEMPLATE_NOT_FOUND" {
		t.Errorf("error_code = %v", out["error_code"])
	}
	if msg, _ := out["error"].(string); !strings.Contains(msg, "Template 'standard' not found") {
		t.Errorf("error message = %v", out["error"])
	}
}

func TestJobResultsUnknownJob(t *testing.T) {
	c := NewMockClient()
	out := c.JobResults("job_777")

	if msg, _ := out["error"].(string); !strings.Contains(msg, "job_777") {
		t.Errorf("error should name the id, got %v", out["error"])
	}
}

func TestExecuteDispatch(t *testing.T) {
	c := NewMockClient()

	tests := []struct {
		op      string
		params  map[string]string
		wantKey string
	}{
		{OpListJobs, nil, "jobs"},
		{OpRunJob, map[string]string{"job_name": "image_analysis"}, "job_id"},
		{OpJobResults, map[string]string{"job_id": "job_001"}, "output"},
		{OpSystemStatus, nil, "system_load"},
	}
	for _, tt := range tests {
		out := c.Execute(tt.op, tt.params)
		if _, ok := out[tt.wantKey]; !ok {
			t.Errorf("Execute(%s) missing key %q: %v", tt.op, tt.wantKey, out)
		}
	}
}

func TestExecuteUnknownOperation(t *testing.T) {
	c := NewMockClient()
	out := c.Execute("drop_tables", nil)

	msg, _ := out["error"].(string)
	if !strings.Contains(msg, "drop_tables") {
		t.Errorf("unknown op error should name the operation, got %q", msg)
	}
}

func TestRunJobEchoesName(t *testing.T) {
	c := NewMockClient()
	out := c.RunJob("report_generation")

	if out["job_name"] != "report_generation" || out["status"] != "queued" {
		t.Errorf("RunJob = %+v", out)
	}
}

func TestPatternLookup(t *testing.T) {
	p := Pattern("TEMPLATE_NOT_FOUND")
	if p.ConfidenceLevel != "High" || p.Severity != "High" {
		t.Errorf("TEMPLATE_NOT_FOUND pattern = %s/%s", p.ConfidenceLevel, p.Severity)
	}
	if len(p.RecommendedActions) != 4 {
		t.Errorf("recommended actions = %d, want 4", len(p.RecommendedActions))
	}

	// Unknown codes fall back to the catch-all.
	if got := Pattern("NO_SUCH_CODE"); got.ErrorCode != UnknownErrorCode {
		t.Errorf("fallback pattern = %s", got.ErrorCode)
	}
}

func TestPatternReturnsCopy(t *testing.T) {
	p := Pattern("TIMEOUT_ERROR")
	p.RecommendedActions[0] = "mutated"

	if Pattern("TIMEOUT_ERROR").RecommendedActions[0] == "mutated" {
		t.Error("Pattern leaked shared slice")
	}
}
