package memory

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"agentops/internal/embedding"
	"agentops/internal/logging"
)

// VectorStore persists memory entries in SQLite with one embedding per
// row. When no embedding engine is configured it falls back to keyword
// overlap scoring, so search always works.
type VectorStore struct {
	mu     sync.RWMutex
	db     *sql.DB
	engine embedding.Engine
}

const schema = `
CREATE TABLE IF NOT EXISTS memories (
	id         TEXT PRIMARY KEY,
	type       TEXT NOT NULL,
	timestamp  TEXT NOT NULL,
	entry      TEXT NOT NULL,
	searchable TEXT NOT NULL,
	embedding  TEXT
);
CREATE INDEX IF NOT EXISTS idx_memories_type ON memories(type);
CREATE INDEX IF NOT EXISTS idx_memories_timestamp ON memories(timestamp);
`

// OpenVectorStore opens (creating if needed) the store at dir/ltm.db.
// engine may be nil for keyword-only operation.
func OpenVectorStore(dir string, engine embedding.Engine) (*VectorStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create memory dir: %w", err)
	}

	path := filepath.Join(dir, "ltm.db")
	db, err := sql.Open(driverName, path)
	if err != nil {
		return nil, fmt.Errorf("failed to open memory store: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to init memory schema: %w", err)
	}

	logging.Store("Opened vector store at %s (driver=%s, semantic=%v)", path, driverName, engine != nil)
	return &VectorStore{db: db, engine: engine}, nil
}

// Close closes the underlying database.
func (s *VectorStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}

// Store persists one entry, embedding its searchable text when an
// engine is available.
func (s *VectorStore) Store(ctx context.Context, e Entry) error {
	searchable := e.SearchableText()

	var embJSON sql.NullString
	if s.engine != nil {
		vec, err := s.engine.Embed(ctx, searchable)
		if err != nil {
			// Keep the record; it stays reachable via keyword search.
			logging.Get(logging.CategoryStore).Warn("Embedding failed for %s, storing without vector: %v", e.ID, err)
		} else if data, err := json.Marshal(vec); err == nil {
			embJSON = sql.NullString{String: string(data), Valid: true}
		}
	}

	entryJSON, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("failed to encode entry: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	_, err = s.db.ExecContext(ctx,
		"INSERT OR REPLACE INTO memories (id, type, timestamp, entry, searchable, embedding) VALUES (?, ?, ?, ?, ?, ?)",
		e.ID, string(e.Type), e.Timestamp, string(entryJSON), searchable, embJSON,
	)
	if err != nil {
		return fmt.Errorf("failed to store entry %s: %w", e.ID, err)
	}
	logging.StoreDebug("Stored %s entry %s (embedded=%v)", e.Type, e.ID, embJSON.Valid)
	return nil
}

// Search returns up to limit entries most similar to query, filtered
// to the given types (empty means all types). Results are sorted by
// descending similarity; similarity is in [0,1].
func (s *VectorStore) Search(ctx context.Context, query string, types []Type, limit int) ([]SearchResult, error) {
	if limit <= 0 {
		limit = 5
	}

	var queryVec []float32
	if s.engine != nil {
		vec, err := s.engine.Embed(ctx, query)
		if err != nil {
			logging.Get(logging.CategoryStore).Warn("Query embedding failed, falling back to keywords: %v", err)
		} else {
			queryVec = vec
		}
	}

	rows, err := s.queryRows(ctx, types)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []SearchResult
	for rows.Next() {
		var entryJSON, searchable string
		var embJSON sql.NullString
		if err := rows.Scan(&entryJSON, &searchable, &embJSON); err != nil {
			continue
		}

		var e Entry
		if err := json.Unmarshal([]byte(entryJSON), &e); err != nil {
			continue
		}

		sim := s.score(query, queryVec, searchable, embJSON)
		if sim <= 0 {
			continue
		}
		results = append(results, SearchResult{Entry: e, Similarity: sim})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan memories: %w", err)
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Similarity > results[j].Similarity
	})
	if len(results) > limit {
		results = results[:limit]
	}
	for i := range results {
		results[i].Rank = i + 1
	}
	logging.StoreDebug("Search %q returned %d results", query, len(results))
	return results, nil
}

func (s *VectorStore) queryRows(ctx context.Context, types []Type) (*sql.Rows, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(types) == 0 {
		return s.db.QueryContext(ctx, "SELECT entry, searchable, embedding FROM memories")
	}
	placeholders := make([]string, len(types))
	args := make([]any, len(types))
	for i, t := range types {
		placeholders[i] = "?"
		args[i] = string(t)
	}
	q := fmt.Sprintf("SELECT entry, searchable, embedding FROM memories WHERE type IN (%s)",
		strings.Join(placeholders, ","))
	return s.db.QueryContext(ctx, q, args...)
}

// score computes a similarity in [0,1]. Semantic when both query and
// row carry vectors; keyword overlap otherwise.
func (s *VectorStore) score(query string, queryVec []float32, searchable string, embJSON sql.NullString) float64 {
	if queryVec != nil && embJSON.Valid {
		var rowVec []float32
		if err := json.Unmarshal([]byte(embJSON.String), &rowVec); err == nil {
			if cos, err := embedding.CosineSimilarity(queryVec, rowVec); err == nil {
				// Map cosine [-1,1] onto [0,1].
				return (1 + cos) / 2
			}
		}
	}
	return keywordSimilarity(query, searchable)
}

// keywordSimilarity is the fraction of query words present in the
// candidate text.
func keywordSimilarity(query, text string) float64 {
	words := strings.Fields(strings.ToLower(query))
	if len(words) == 0 {
		return 0
	}
	textLower := strings.ToLower(text)
	matched := 0
	for _, w := range words {
		if strings.Contains(textLower, w) {
			matched++
		}
	}
	return float64(matched) / float64(len(words))
}

// Recent returns the newest entries, most recent first.
func (s *VectorStore) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 10
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	rows, err := s.db.QueryContext(ctx,
		"SELECT entry FROM memories ORDER BY timestamp DESC LIMIT ?", limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent memories: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var entryJSON string
		if err := rows.Scan(&entryJSON); err != nil {
			continue
		}
		var e Entry
		if err := json.Unmarshal([]byte(entryJSON), &e); err != nil {
			continue
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Count reports the number of stored entries.
func (s *VectorStore) Count(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM memories").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count memories: %w", err)
	}
	return n, nil
}
