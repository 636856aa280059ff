package agents

import (
	"context"
	"fmt"
	"math"
	"strings"

	"agentops/internal/kb"
	"agentops/internal/logging"
	"agentops/internal/memory"
	"agentops/internal/task"
	"agentops/internal/types"
)

// knowledgePrefix tags the assistant's answer in the history; the
// synthesizer keys off it when formatting a knowledge turn.
const knowledgePrefix = "📚 Knowledge Assistant: "

const noInfoAnswer = "I don't have information about that topic in my knowledge base or previous interactions. Please try rephrasing your question or ask about API, jobs, authentication, templates, or debugging."

// Knowledge answers questions, blending similar past interactions from
// memory with the static knowledge base.
type Knowledge struct {
	base *kb.Base
	mem  *memory.Service
}

// NewKnowledge builds the assistant. mem may be nil.
func NewKnowledge(base *kb.Base, mem *memory.Service) *Knowledge {
	return &Knowledge{base: base, mem: mem}
}

func (k *Knowledge) Name() task.Agent {
	return task.AgentKnowledge
}

// Handle answers the next eligible knowledge task, taking the query
// from task parameters or the latest message.
func (k *Knowledge) Handle(ctx context.Context, st *types.State) *types.State {
	out := st.Clone()

	if len(out.Messages) == 0 {
		out.Route = types.RouteSynthesizer
		return out
	}
	next, ok := nextFor(out.Todo, task.AgentKnowledge)
	if !ok {
		logging.Workflow("Knowledge assistant has no eligible task, skipping to synthesis")
		out.Route = types.RouteSynthesizer
		return out
	}

	query := next.Parameters["query"]
	if query == "" {
		query = out.LastText()
	}

	answer := k.answer(ctx, query)
	out.AppendAssistant(knowledgePrefix + answer)
	out.AppendAssistant(fmt.Sprintf("📋 Task: %s", next.Description))
	out.Todo = task.Complete(out.Todo, next.ID, answer)

	out.Route = types.RouteSynthesizer
	return out
}

// answer composes memory hits first, then static knowledge base
// matches, and a pointer to known topics when neither has anything.
func (k *Knowledge) answer(ctx context.Context, query string) string {
	var parts []string

	ltm := k.mem.SearchKnowledge(ctx, query, 2)
	if len(ltm) > 0 {
		parts = append(parts, "📚 Based on previous interactions:")
		for i, r := range ltm {
			sim := math.Round(r.Similarity*100) / 100
			parts = append(parts, fmt.Sprintf("%d. (Similarity: %.2f) %s", i+1, sim,
				preview(r.Entry.SystemResponse, 200)))
		}
		parts = append(parts, "")
	}

	hits := k.base.Search(query)
	if len(hits) > 0 {
		if len(ltm) > 0 {
			parts = append(parts, "📖 Additional information from knowledge base:")
		}
		for i, e := range hits {
			parts = append(parts, fmt.Sprintf("%s: %s", titleCase(e.Term), e.Content))
			if len(e.RelatedTopics) > 0 {
				parts = append(parts, fmt.Sprintf("Related topics: %s", strings.Join(e.RelatedTopics, ", ")))
			}
			if i < len(hits)-1 {
				parts = append(parts, "")
			}
		}
	} else if len(ltm) == 0 {
		return noInfoAnswer
	}

	return strings.Join(parts, "\n")
}

// preview shortens a memory hit for inline display, truncating on
// runes so a multibyte character is never split.
func preview(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}

// titleCase uppercases the first letter of each word.
func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
