// Package kb holds the static knowledge base the knowledge assistant
// searches. Entries ship builtin and can be overridden from a YAML
// file, optionally hot-reloaded when the file changes on disk.
package kb

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"unicode"

	"gopkg.in/yaml.v3"

	"agentops/internal/logging"
)

// Entry is one knowledge base article.
type Entry struct {
	Term          string   `yaml:"term" json:"term"`
	Content       string   `yaml:"content" json:"content"`
	RelatedTopics []string `yaml:"related_topics" json:"related_topics"`
}

// Base is a searchable set of entries. Safe for concurrent use.
type Base struct {
	mu      sync.RWMutex
	entries []Entry
}

// Default returns a base populated with the builtin entries.
func Default() *Base {
	return &Base{entries: builtinEntries()}
}

func builtinEntries() []Entry {
	return []Entry{
		{
			Term:          "API",
			Content:       "RESTful API for job management and execution. Provides endpoints for creating, monitoring, and retrieving job results.",
			RelatedTopics: []string{"endpoints", "authentication", "jobs"},
		},
		{
			Term:          "jobs",
			Content:       "Background processing tasks that can be executed asynchronously. Jobs support different templates and can be monitored for status and results.",
			RelatedTopics: []string{"templates", "status", "execution"},
		},
		{
			Term:          "authentication",
			Content:       "API uses token-based authentication. Include your API token in the Authorization header for all requests.",
			RelatedTopics: []string{"tokens", "security", "headers"},
		},
		{
			Term:          "templates",
			Content:       "Predefined job configurations that determine execution environment and parameters. Available templates: basic, premium, standard.",
			RelatedTopics: []string{"configuration", "environment", "parameters"},
		},
		{
			Term:          "debugging",
			Content:       "Process of analyzing job failures to identify root causes and provide solutions. Includes error analysis and troubleshooting steps.",
			RelatedTopics: []string{"errors", "troubleshooting", "analysis"},
		},
		{
			Term:          "status",
			Content:       "Current state of a job: pending, running, completed, or failed. Use status endpoints to monitor job progress.",
			RelatedTopics: []string{"monitoring", "progress", "states"},
		},
	}
}

// Load reads entries from a YAML file and replaces the current set.
// The file holds a top-level `entries:` list.
func (b *Base) Load(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read knowledge base: %w", err)
	}

	var doc struct {
		Entries []Entry `yaml:"entries"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("failed to parse knowledge base: %w", err)
	}
	if len(doc.Entries) == 0 {
		return fmt.Errorf("knowledge base %s contains no entries", path)
	}

	b.mu.Lock()
	b.entries = doc.Entries
	b.mu.Unlock()

	logging.KB("Loaded %d knowledge base entries from %s", len(doc.Entries), path)
	return nil
}

// Entries returns a copy of the current entry set.
func (b *Base) Entries() []Entry {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]Entry(nil), b.entries...)
}

// Len reports the number of entries.
func (b *Base) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.entries)
}

// stopWords are question and filler words stripped from queries before
// term matching.
var stopWords = map[string]bool{
	"what": true, "are": true, "is": true, "how": true,
	"do": true, "does": true, "can": true, "could": true,
	"would": true, "should": true, "the": true, "a": true, "an": true,
}

// queryTerms lowercases the query, strips punctuation, and drops stop
// words.
func queryTerms(query string) []string {
	clean := strings.Map(func(r rune) rune {
		if unicode.IsPunct(r) {
			return -1
		}
		return r
	}, strings.ToLower(query))

	var terms []string
	for _, w := range strings.Fields(clean) {
		if !stopWords[w] {
			terms = append(terms, w)
		}
	}
	return terms
}

// Search returns every entry whose term, content, or related topics
// contain any significant query term. The full lowercased query
// matching term or content also counts, so multi-word phrases still
// hit.
func (b *Base) Search(query string) []Entry {
	terms := queryTerms(query)
	queryLower := strings.ToLower(query)

	b.mu.RLock()
	defer b.mu.RUnlock()

	var results []Entry
	for _, e := range b.entries {
		if entryMatches(e, terms, queryLower) {
			results = append(results, e)
		}
	}
	logging.KB("Search %q matched %d entries", query, len(results))
	return results
}

func entryMatches(e Entry, terms []string, queryLower string) bool {
	termLower := strings.ToLower(e.Term)
	contentLower := strings.ToLower(e.Content)

	for _, t := range terms {
		if strings.Contains(termLower, t) || strings.Contains(contentLower, t) {
			return true
		}
		for _, topic := range e.RelatedTopics {
			if strings.Contains(strings.ToLower(topic), t) {
				return true
			}
		}
	}
	return strings.Contains(termLower, queryLower) || strings.Contains(contentLower, queryLower)
}
