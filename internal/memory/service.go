package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"agentops/internal/logging"
	"agentops/internal/types"
)

// SentinelID is returned by store operations that could not persist.
// Memory failures never surface as errors to the workflow; callers
// that care can compare against the sentinel.
const SentinelID = "error-id"

// Service is the long-term-memory facade the handlers use. A nil
// Service (memory disabled) is fully usable: stores return the
// sentinel id and searches return nothing.
type Service struct {
	store *VectorStore
}

// NewService wraps a vector store. store may be nil.
func NewService(store *VectorStore) *Service {
	return &Service{store: store}
}

// Enabled reports whether a backing store is wired.
func (s *Service) Enabled() bool {
	return s != nil && s.store != nil
}

// Close releases the backing store.
func (s *Service) Close() error {
	if !s.Enabled() {
		return nil
	}
	return s.store.Close()
}

func (s *Service) persist(ctx context.Context, e Entry) string {
	if !s.Enabled() {
		return SentinelID
	}
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.Timestamp == "" {
		e.Timestamp = time.Now().UTC().Format(time.RFC3339)
	}
	if err := s.store.Store(ctx, e); err != nil {
		logging.Get(logging.CategoryMemory).Warn("Failed to store %s entry: %v", e.Type, err)
		return SentinelID
	}
	logging.MemoryDebug("Stored %s entry %s", e.Type, e.ID)
	return e.ID
}

// StoreQASession records a completed question/answer exchange.
func (s *Service) StoreQASession(ctx context.Context, userQuery, systemResponse string) string {
	return s.persist(ctx, Entry{
		Type:           TypeQASession,
		UserQuery:      userQuery,
		SystemResponse: systemResponse,
	})
}

// StoreDebugAnalysis records a finished root-cause analysis.
func (s *Service) StoreDebugAnalysis(ctx context.Context, userQuery string, rc types.RootCauseAnalysis) string {
	return s.persist(ctx, Entry{
		Type:            TypeDebugAnalysis,
		UserQuery:       userQuery,
		SystemResponse:  rc.Hypothesis,
		ErrorCode:       rc.ErrorCode,
		ConfidenceLevel: rc.ConfidenceLevel,
		Severity:        rc.Severity,
	})
}

// StoreAPIOperation records one executed job-API operation.
func (s *Service) StoreAPIOperation(ctx context.Context, userQuery, operation string, success bool) string {
	return s.persist(ctx, Entry{
		Type:      TypeAPIOperation,
		UserQuery: userQuery,
		Operation: operation,
		Success:   success,
	})
}

// StoreKnowledgeQuery records an answered knowledge lookup.
func (s *Service) StoreKnowledgeQuery(ctx context.Context, userQuery, systemResponse string, topics []string) string {
	return s.persist(ctx, Entry{
		Type:           TypeKnowledgeQuery,
		UserQuery:      userQuery,
		SystemResponse: systemResponse,
		RelatedTopics:  topics,
	})
}

// SearchSimilarErrors finds up to three past debug analyses similar to
// the given error. Never fails; a broken store yields no results.
func (s *Service) SearchSimilarErrors(ctx context.Context, errorCode, errorMessage string) []SearchResult {
	if !s.Enabled() {
		return nil
	}
	query := strings.TrimSpace(errorCode + " " + errorMessage)
	results, err := s.store.Search(ctx, query, []Type{TypeDebugAnalysis}, 3)
	if err != nil {
		logging.Get(logging.CategoryMemory).Warn("Similar-error search failed: %v", err)
		return nil
	}
	logging.Memory("Found %d similar errors for %s", len(results), errorCode)
	return results
}

// SearchKnowledge finds past QA sessions and knowledge queries similar
// to the query, merged and sorted by descending similarity.
func (s *Service) SearchKnowledge(ctx context.Context, query string, limit int) []SearchResult {
	if !s.Enabled() {
		return nil
	}
	results, err := s.store.Search(ctx, query, []Type{TypeQASession, TypeKnowledgeQuery}, limit)
	if err != nil {
		logging.Get(logging.CategoryMemory).Warn("Knowledge search failed: %v", err)
		return nil
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Similarity > results[j].Similarity
	})
	return results
}

// Recent returns the newest entries.
func (s *Service) Recent(ctx context.Context, limit int) []Entry {
	if !s.Enabled() {
		return nil
	}
	entries, err := s.store.Recent(ctx, limit)
	if err != nil {
		logging.Get(logging.CategoryMemory).Warn("Recent lookup failed: %v", err)
		return nil
	}
	return entries
}

// Count reports the number of stored entries.
func (s *Service) Count(ctx context.Context) int {
	if !s.Enabled() {
		return 0
	}
	n, err := s.store.Count(ctx)
	if err != nil {
		logging.Get(logging.CategoryMemory).Warn("Count failed: %v", err)
		return 0
	}
	return n
}

// StoreFromState records everything a finished turn produced: always
// the QA exchange, plus a debug analysis when a root cause was found,
// one API-operation record per executed operation, and a knowledge
// record for pure knowledge turns. Inserts run concurrently; failures
// are logged, never returned.
func (s *Service) StoreFromState(ctx context.Context, st *types.State) {
	if !s.Enabled() || st == nil {
		return
	}

	userQuery := st.Goal
	if userQuery == "" {
		userQuery = st.LastUserText()
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.StoreQASession(gctx, userQuery, st.FinalResponse)
		return nil
	})

	if st.RootCause != nil {
		rc := *st.RootCause
		g.Go(func() error {
			s.StoreDebugAnalysis(gctx, userQuery, rc)
			return nil
		})
	}

	for op, res := range st.Results {
		op, res := op, res
		g.Go(func() error {
			success := !strings.Contains(strings.ToLower(fmt.Sprintf("%v", res)), "error")
			s.StoreAPIOperation(gctx, userQuery, op, success)
			return nil
		})
	}

	if st.RootCause == nil && len(st.Results) == 0 {
		g.Go(func() error {
			var topics []string
			for _, item := range st.Summary {
				if item.Type != "" {
					topics = append(topics, item.Type)
				}
			}
			s.StoreKnowledgeQuery(gctx, userQuery, st.FinalResponse, topics)
			return nil
		})
	}

	g.Wait()
	logging.Memory("Stored session memories for turn (goal=%q)", truncate(userQuery, 60))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
