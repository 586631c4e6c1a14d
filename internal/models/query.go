package models

import (
	"strings"
	"time"
)

// Role identifies the author of a conversation message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one turn of prior conversation.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Personality selects the tone directive added to rich prompts.
type Personality string

const (
	PersonalityBalanced       Personality = "balanced"
	PersonalityStrictBusiness Personality = "strict_business"
	PersonalityQuantumExpert  Personality = "quantum_expert"
)

// SystemSelector is the UI's preferred answering system. It is advisory only.
type SystemSelector string

const (
	SystemOllama   SystemSelector = "ollama"
	SystemAGI      SystemSelector = "agi"
	SystemBusiness SystemSelector = "business"
)

// Query is a single request to the orchestrator. History is ordered most-recent-last.
type Query struct {
	Text           string         `json:"query"`
	History        []Message      `json:"history,omitempty"`
	Personality    Personality    `json:"personality,omitempty"`
	SelectedSystem SystemSelector `json:"selectedSystem,omitempty"`
	Model          string         `json:"model,omitempty"`
}

// RecentHistory returns at most n trailing messages.
func (q Query) RecentHistory(n int) []Message {
	if n <= 0 || len(q.History) <= n {
		return q.History
	}
	return q.History[len(q.History)-n:]
}

// RoutingDecision is computed once per query.
type RoutingDecision string

const (
	DecisionGenerative RoutingDecision = "generative"
	DecisionRuleBased  RoutingDecision = "rule_based"
)

// ResponseSource records which path produced the final text.
type ResponseSource string

const (
	SourceGenerative ResponseSource = "generative"
	SourceRuleBased  ResponseSource = "rule_based"
	SourceDegraded   ResponseSource = "degraded"
)

// SyntheticMetrics are decorative values attached to non-generative answers.
type SyntheticMetrics struct {
	ConfidenceLike float64 `json:"confidenceLike"`
	SpeedFactor    string  `json:"speedFactor"`
	StateTag       string  `json:"stateTag"`
}

// QueryResult is the answer returned for every query.
type QueryResult struct {
	RequestID        string            `json:"requestId"`
	Content          string            `json:"content"`
	Source           ResponseSource    `json:"source"`
	Decision         RoutingDecision   `json:"decision"`
	Model            string            `json:"model,omitempty"`
	SyntheticMetrics *SyntheticMetrics `json:"syntheticMetrics,omitempty"`
	Elapsed          time.Duration     `json:"-"`
	ElapsedMs        int64             `json:"elapsedMs"`
	Timestamp        time.Time         `json:"timestamp"`
}

// ValidatedResponse is a model output after content policy checks.
type ValidatedResponse struct {
	Text     string `json:"text"`
	Accepted bool   `json:"accepted"`
	Model    string `json:"model,omitempty"`
}

// ModelCandidate is a model name in try order; rank 0 is tried first.
type ModelCandidate struct {
	Name string `json:"name"`
	Rank int    `json:"rank"`
}

// NormalizeQuery lowercases and trims text for keyword matching.
func NormalizeQuery(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}
