package types

import "agentops/internal/task"

// ErrorInfo describes an error surfaced by the job API or synthesized
// for a debugging request.
type ErrorInfo struct {
	Code        string   `json:"error_code,omitempty"`
	Message     string   `json:"error_message"`
	Timestamp   string   `json:"timestamp,omitempty"`
	Suggestions []string `json:"suggestions,omitempty"`
}

// HistoricalCase is one similar past error retrieved from long-term
// memory, attached to a root-cause analysis.
type HistoricalCase struct {
	Confidence string  `json:"confidence"`
	Severity   string  `json:"severity"`
	Similarity float64 `json:"similarity_score"`
	Timestamp  string  `json:"timestamp"`
}

// RootCauseAnalysis is the debugger's structured output for one error
// code.
type RootCauseAnalysis struct {
	ErrorCode          string           `json:"error_code"`
	ErrorMessage       string           `json:"error_message"`
	Hypothesis         string           `json:"root_cause_hypothesis"`
	ConfidenceLevel    string           `json:"confidence_level"`
	Severity           string           `json:"severity"`
	RecommendedActions []string         `json:"recommended_actions"`
	RelatedComponents  []string         `json:"related_components"`
	Suggestions        []string         `json:"suggestions,omitempty"`
	HistoricalCases    []HistoricalCase `json:"historical_cases,omitempty"`
	EnhancedWithLTM    bool             `json:"enhanced_with_ltm,omitempty"`
}

// SummaryItem is one entry of the knowledge summary the synthesizer
// derives from a finished turn.
type SummaryItem struct {
	Type            string   `json:"type"`
	Operations      []string `json:"operations_performed,omitempty"`
	Success         bool     `json:"success,omitempty"`
	ErrorCode       string   `json:"error_code,omitempty"`
	ConfidenceLevel string   `json:"confidence_level,omitempty"`
	Severity        string   `json:"severity,omitempty"`
	Timestamp       string   `json:"timestamp,omitempty"`
}

// State is the single mutable record threading through one workflow
// turn. It is exclusively owned by the workflow engine for the turn's
// duration: handlers receive it and return a modified copy, keeping a
// single-writer discipline even though several handlers touch it.
type State struct {
	// Messages is the append-only conversation history; insertion
	// order is canonical.
	Messages []Message

	// Goal is the user utterance that opened the turn. Set once per
	// turn, never overwritten within it.
	Goal string

	// Todo is the turn's task list. Order matters for stable
	// iteration, not for selection.
	Todo []task.Task

	// Results maps operation name to its raw output. Unique per
	// operation name per turn; last write wins.
	Results map[string]map[string]any

	ErrorInfo *ErrorInfo
	RootCause *RootCauseAnalysis

	// FinalResponse being non-empty is the turn-completion signal.
	FinalResponse string

	// Route is the next destination; RouteDone terminates the turn.
	Route Route

	// Summary is the synthesizer's knowledge summary for the turn.
	Summary []SummaryItem
}

// Clone returns a copy that shares no mutable containers with the
// receiver. Handlers clone on entry so no-op branches still return a
// value-equal copy rather than the identical object.
func (s *State) Clone() *State {
	out := *s

	out.Messages = append([]Message(nil), s.Messages...)
	out.Todo = append([]task.Task(nil), s.Todo...)
	out.Summary = append([]SummaryItem(nil), s.Summary...)

	if s.Results != nil {
		out.Results = make(map[string]map[string]any, len(s.Results))
		for op, res := range s.Results {
			cp := make(map[string]any, len(res))
			for k, v := range res {
				cp[k] = v
			}
			out.Results[op] = cp
		}
	}
	if s.ErrorInfo != nil {
		ei := *s.ErrorInfo
		out.ErrorInfo = &ei
	}
	if s.RootCause != nil {
		rc := *s.RootCause
		rc.RecommendedActions = append([]string(nil), s.RootCause.RecommendedActions...)
		rc.RelatedComponents = append([]string(nil), s.RootCause.RelatedComponents...)
		rc.Suggestions = append([]string(nil), s.RootCause.Suggestions...)
		rc.HistoricalCases = append([]HistoricalCase(nil), s.RootCause.HistoricalCases...)
		out.RootCause = &rc
	}
	return &out
}

// LastText returns the plain text of the most recent message, or ""
// for an empty history.
func (s *State) LastText() string {
	if len(s.Messages) == 0 {
		return ""
	}
	return s.Messages[len(s.Messages)-1].Content.PlainText()
}

// LastUserText returns the plain text of the most recent user message.
func (s *State) LastUserText() string {
	for i := len(s.Messages) - 1; i >= 0; i-- {
		if s.Messages[i].Role == RoleUser {
			return s.Messages[i].Content.PlainText()
		}
	}
	return ""
}

// AppendUser appends a user message.
func (s *State) AppendUser(text string) {
	s.Messages = append(s.Messages, UserMessage(text))
}

// AppendAssistant appends an assistant message.
func (s *State) AppendAssistant(text string) {
	s.Messages = append(s.Messages, AssistantMessage(text))
}
