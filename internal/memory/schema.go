// Package memory implements the long-term memory layer: a SQLite
// vector store of past workflow sessions, searched by embedding
// similarity (or keyword overlap when no embedding engine is wired).
package memory

import (
	"fmt"
	"strings"
)

// Type classifies a memory entry by what part of a turn produced it.
type Type string

const (
	TypeQASession      Type = "qa_session"
	TypeDebugAnalysis  Type = "debug_analysis"
	TypeAPIOperation   Type = "api_operation"
	TypeKnowledgeQuery Type = "knowledge_query"
)

// Entry is one persisted memory record.
type Entry struct {
	ID        string `json:"id"`
	Type      Type   `json:"type"`
	Timestamp string `json:"timestamp"` // RFC3339

	UserQuery      string `json:"user_query,omitempty"`
	SystemResponse string `json:"system_response,omitempty"`

	// Debug-analysis fields.
	ErrorCode       string `json:"error_code,omitempty"`
	ConfidenceLevel string `json:"confidence_level,omitempty"`
	Severity        string `json:"severity,omitempty"`

	// API-operation fields.
	Operation string `json:"operation,omitempty"`
	Success   bool   `json:"success,omitempty"`

	// Knowledge-query fields.
	RelatedTopics []string `json:"related_topics,omitempty"`
}

// SearchableText is the text an entry is embedded and matched on.
func (e Entry) SearchableText() string {
	var parts []string
	add := func(s string) {
		if s != "" {
			parts = append(parts, s)
		}
	}
	add(e.UserQuery)
	add(e.SystemResponse)
	add(e.ErrorCode)
	add(e.Operation)
	if len(e.RelatedTopics) > 0 {
		add(strings.Join(e.RelatedTopics, " "))
	}
	if len(parts) == 0 {
		return fmt.Sprintf("%s entry %s", e.Type, e.ID)
	}
	return strings.Join(parts, "\n")
}

// SearchResult pairs an entry with its similarity to the query, in
// [0,1] where 1 means identical.
type SearchResult struct {
	Entry      Entry   `json:"entry"`
	Similarity float64 `json:"similarity_score"`
	Rank       int     `json:"rank"`
}
