// Package types provides shared type definitions used across agentops
// packages: conversation messages, the per-turn workflow state, and the
// route vocabulary. This package exists to break import cycles between
// the decision, agents and workflow packages; types here are
// foundational data structures with no complex dependencies.
package types

import (
	"strings"

	"agentops/internal/task"
)

// Role tags a message author.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ContentKind discriminates the message content union.
type ContentKind int

const (
	// ContentText is plain text content.
	ContentText ContentKind = iota
	// ContentFragments is a sequence of text fragments, as some model
	// backends return content split into parts.
	ContentFragments
)

// Content is a tagged union of plain text or a fragment list.
// PlainText is the single extraction point; nothing else should
// inspect the union.
type Content struct {
	Kind      ContentKind
	Text      string
	Fragments []string
}

// TextContent wraps a plain string.
func TextContent(s string) Content {
	return Content{Kind: ContentText, Text: s}
}

// FragmentContent wraps a fragment sequence.
func FragmentContent(frags ...string) Content {
	return Content{Kind: ContentFragments, Fragments: frags}
}

// PlainText extracts the textual content: the text itself, or the
// first non-empty fragment.
func (c Content) PlainText() string {
	switch c.Kind {
	case ContentFragments:
		for _, f := range c.Fragments {
			if f != "" {
				return f
			}
		}
		return ""
	default:
		return c.Text
	}
}

// Message is one role-tagged entry in the conversation history.
type Message struct {
	Role    Role
	Content Content
}

// UserMessage builds a user message from plain text.
func UserMessage(text string) Message {
	return Message{Role: RoleUser, Content: TextContent(text)}
}

// AssistantMessage builds an assistant message from plain text.
func AssistantMessage(text string) Message {
	return Message{Role: RoleAssistant, Content: TextContent(text)}
}

// Route names the next destination in the workflow. The vocabulary is
// closed: the four handlers, the supervisor, and the terminal "done".
type Route string

const (
	RouteSupervisor  Route = "supervisor"
	RouteOperator    Route = Route(task.AgentOperator)
	RouteDebugger    Route = Route(task.AgentDebugger)
	RouteKnowledge   Route = Route(task.AgentKnowledge)
	RouteSynthesizer Route = Route(task.AgentSynthesizer)
	RouteDone        Route = "done"
)

// ParseRoute validates s against the closed set of destinations a
// decision model may name: the four handlers plus "done". The
// supervisor is not a legal model answer.
func ParseRoute(s string) (Route, bool) {
	switch r := Route(strings.ToLower(strings.TrimSpace(s))); r {
	case RouteOperator, RouteDebugger, RouteKnowledge, RouteSynthesizer, RouteDone:
		return r, true
	}
	return "", false
}

// RouteFor maps a handler to its route name.
func RouteFor(a task.Agent) Route {
	return Route(a)
}
