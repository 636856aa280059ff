package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"agentops/internal/types"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	store, err := OpenVectorStore(t.TempDir(), nil)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return NewService(store)
}

func TestNilServiceIsSafe(t *testing.T) {
	var s *Service
	ctx := context.Background()

	require.False(t, s.Enabled())
	require.Equal(t, SentinelID, s.StoreQASession(ctx, "q", "a"))
	require.Empty(t, s.SearchKnowledge(ctx, "anything", 5))
	require.Empty(t, s.SearchSimilarErrors(ctx, "X", "y"))
	require.Zero(t, s.Count(ctx))
	require.NoError(t, s.Close())
}

func TestStoreAndRecent(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	id := s.StoreQASession(ctx, "what are templates?", "Templates are predefined job configurations.")
	require.NotEqual(t, SentinelID, id)
	require.Equal(t, 1, s.Count(ctx))

	entries := s.Recent(ctx, 1)
	require.Len(t, entries, 1)
	require.Equal(t, TypeQASession, entries[0].Type)
	require.Equal(t, "what are templates?", entries[0].UserQuery)
	require.NotEmpty(t, entries[0].Timestamp)
}

func TestSearchSimilarErrorsFiltersType(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	s.StoreDebugAnalysis(ctx, "debug job_003", types.RootCauseAnalysis{
		ErrorCode:       "TEMPLATE_NOT_FOUND",
		Hypothesis:      "template missing from deployment",
		ConfidenceLevel: "High",
		Severity:        "High",
	})
	// A QA session mentioning the same code must not show up in the
	// error search.
	s.StoreQASession(ctx, "TEMPLATE_NOT_FOUND help", "see docs")

	results := s.SearchSimilarErrors(ctx, "TEMPLATE_NOT_FOUND", "Template 'standard' not found in system")
	require.Len(t, results, 1)
	require.Equal(t, TypeDebugAnalysis, results[0].Entry.Type)
	require.Equal(t, "High", results[0].Entry.ConfidenceLevel)
	require.Greater(t, results[0].Similarity, 0.0)
}

func TestSearchKnowledgeMergesTypes(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	s.StoreQASession(ctx, "what are templates?", "Templates are job configurations.")
	s.StoreKnowledgeQuery(ctx, "explain templates", "basic, premium and standard templates exist", []string{"templates"})
	s.StoreAPIOperation(ctx, "list jobs", "list_public_jobs", true)

	results := s.SearchKnowledge(ctx, "templates", 5)
	require.Len(t, results, 2)
	for _, r := range results {
		require.Contains(t, []Type{TypeQASession, TypeKnowledgeQuery}, r.Entry.Type)
	}
	// Sorted by descending similarity.
	for i := 1; i < len(results); i++ {
		require.GreaterOrEqual(t, results[i-1].Similarity, results[i].Similarity)
	}
}

func TestStoreFromState(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	st := &types.State{
		Goal:          "debug job_003",
		FinalResponse: "analysis complete",
		Results: map[string]map[string]any{
			"get_job_results": {"error": "Template 'standard' not found in system"},
		},
		RootCause: &types.RootCauseAnalysis{
			ErrorCode:       "TEMPLATE_NOT_FOUND",
			ConfidenceLevel: "High",
			Severity:        "High",
		},
	}
	s.StoreFromState(ctx, st)

	// QA session + debug analysis + one API operation.
	require.Equal(t, 3, s.Count(ctx))

	var foundOp bool
	for _, e := range s.Recent(ctx, 10) {
		if e.Type == TypeAPIOperation {
			foundOp = true
			require.Equal(t, "get_job_results", e.Operation)
			require.False(t, e.Success)
		}
	}
	require.True(t, foundOp)
}

func TestStoreFromStateClassifiesCapitalizedErrors(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	st := &types.State{
		Goal:          "run the data processing job",
		FinalResponse: "done",
		Results: map[string]map[string]any{
			"run_job":          {"message": "ERROR: worker pool exhausted"},
			"list_public_jobs": {"total_count": 4},
		},
	}
	s.StoreFromState(ctx, st)

	byOp := map[string]bool{}
	for _, e := range s.Recent(ctx, 10) {
		if e.Type == TypeAPIOperation {
			byOp[e.Operation] = e.Success
		}
	}
	require.False(t, byOp["run_job"])
	require.True(t, byOp["list_public_jobs"])
}

func TestStoreFromStateKnowledgeOnlyTurn(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	st := &types.State{
		Goal:          "what are templates?",
		FinalResponse: "templates are job configurations",
		Summary:       []types.SummaryItem{{Type: "knowledge"}},
	}
	s.StoreFromState(ctx, st)

	// QA session plus the knowledge-query record.
	require.Equal(t, 2, s.Count(ctx))
}

func TestKeywordSimilarity(t *testing.T) {
	tests := []struct {
		query string
		text  string
		want  float64
	}{
		{"template missing", "the template is missing from deploy", 1.0},
		{"template missing", "nothing relevant here", 0.0},
		{"template missing", "template found", 0.5},
		{"", "anything", 0.0},
	}
	for _, tt := range tests {
		if got := keywordSimilarity(tt.query, tt.text); got != tt.want {
			t.Errorf("keywordSimilarity(%q, %q) = %v, want %v", tt.query, tt.text, got, tt.want)
		}
	}
}
