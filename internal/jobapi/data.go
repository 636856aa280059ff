package jobapi

// Job is a single entry in the public job listing.
type Job struct {
	ID       string
	Name     string
	Status   string
	Template string
}

var apiJobs = []Job{
	{ID: "job_001", Name: "data_processing", Status: "completed", Template: "basic"},
	{ID: "job_002", Name: "image_analysis", Status: "running", Template: "premium"},
	{ID: "job_003", Name: "report_generation", Status: "failed", Template: "standard"},
	{ID: "job_004", Name: "data_validation", Status: "pending", Template: "basic"},
}

var apiJobResults = map[string]map[string]any{
	"job_001": {
		"job_id":  "job_001",
		"status":  "completed",
		"output":  "Data processing completed successfully",
		"metrics": map[string]any{"processed_records": 1000, "execution_time": "2.5s"},
	},
	"job_002": {
		"job_id":   "job_002",
		"status":   "running",
		"output":   "Image analysis in progress...",
		"progress": 65,
	},
	"job_003": {
		"job_id":     "job_003",
		"status":     "failed",
		"error":      "Template 'standard' not found in system",
		"error_code": "TEMPLATE_NOT_FOUND",
	},
	"job_004": {
		"job_id": "job_004",
		"status": "pending",
		"output": "Job queued for execution",
	},
}

var apiSystemStatus = map[string]any{
	"status":         "healthy",
	"active_jobs":    1,
	"queued_jobs":    1,
	"failed_jobs":    1,
	"completed_jobs": 1,
	"system_load":    0.65,
	"last_updated":   "2024-01-15T10:30:00Z",
}
