package jobapi

import "agentops/internal/types"

// UnknownErrorCode is the catch-all pattern used when a code has no
// dedicated entry.
const UnknownErrorCode = "UNKNOWN_ERROR"

// ErrorCodeTemplateNotFound is the code job_003 fails with; the
// debugger can synthesize its ErrorInfo from the pattern table when
// the workflow state carries none.
const ErrorCodeTemplateNotFound = "TEMPLATE_NOT_FOUND"

var errorPatterns = map[string]types.RootCauseAnalysis{
	"TEMPLATE_NOT_FOUND": {
		ErrorCode:       "TEMPLATE_NOT_FOUND",
		ErrorMessage:    "Template 'standard' not found in system",
		Hypothesis:      "The template file is missing from the expected location, likely due to deployment issues or incorrect path configuration.",
		ConfidenceLevel: "High",
		Severity:        "High",
		RecommendedActions: []string{
			"Verify template name spelling",
			"Check if template exists in template directory",
			"Re-deploy templates from source control",
			"Check file permissions on template directory",
		},
		RelatedComponents: []string{"Template Engine", "Deployment System", "File System"},
		Suggestions:       []string{"Use 'basic' template", "Check template availability"},
	},
	"MEMORY_LIMIT_EXCEEDED": {
		ErrorCode:       "MEMORY_LIMIT_EXCEEDED",
		ErrorMessage:    "Memory limit exceeded during job execution",
		Hypothesis:      "The job is consuming more memory than allocated, possibly due to large dataset processing or memory leaks.",
		ConfidenceLevel: "Medium",
		Severity:        "High",
		RecommendedActions: []string{
			"Increase memory limit for job",
			"Optimize data processing algorithm",
			"Check for memory leaks in job code",
			"Consider data chunking for large datasets",
		},
		RelatedComponents: []string{"Memory Manager", "Job Executor", "Data Processor"},
		Suggestions:       []string{"Increase memory allocation", "Optimize job parameters"},
	},
	"TIMEOUT_ERROR": {
		ErrorCode:       "TIMEOUT_ERROR",
		ErrorMessage:    "Job execution timeout exceeded",
		Hypothesis:      "The job is taking longer than expected to complete, possibly due to performance issues or resource constraints.",
		ConfidenceLevel: "Medium",
		Severity:        "Medium",
		RecommendedActions: []string{
			"Increase job timeout limit",
			"Profile job performance",
			"Check system resource availability",
			"Optimize job algorithm",
		},
		RelatedComponents: []string{"Job Scheduler", "Resource Manager", "Performance Monitor"},
		Suggestions:       []string{"Increase timeout limit", "Optimize job performance"},
	},
	"UNKNOWN_ERROR": {
		ErrorCode:       "UNKNOWN_ERROR",
		ErrorMessage:    "An unexpected error occurred",
		Hypothesis:      "An unexpected error occurred that doesn't match known patterns. Further investigation is needed.",
		ConfidenceLevel: "Low",
		Severity:        "Medium",
		RecommendedActions: []string{
			"Check system logs for more details",
			"Reproduce the error if possible",
			"Contact system administrator",
			"Review recent system changes",
		},
		RelatedComponents: []string{"Error Handler", "Logging System", "System Monitor"},
		Suggestions:       []string{"Check system logs", "Contact support"},
	},
}

// Pattern resolves an error code against the pattern table. Unmatched
// codes fall back to the UNKNOWN_ERROR pattern. The returned value is
// a copy; callers may mutate it freely.
func Pattern(code string) types.RootCauseAnalysis {
	p, ok := errorPatterns[code]
	if !ok {
		p = errorPatterns[UnknownErrorCode]
	}
	p.RecommendedActions = append([]string(nil), p.RecommendedActions...)
	p.RelatedComponents = append([]string(nil), p.RelatedComponents...)
	p.Suggestions = append([]string(nil), p.Suggestions...)
	return p
}
