package classifier

import (
	"strings"

	"luuno-orchestrator/internal/models"
)

// GenericKeywords mark arithmetic, general-knowledge and small-talk queries.
var GenericKeywords = []string{
	"*", "+", "-", "/",
	"calculate", "math", "equation", "solve",
	"what is", "who is", "when did", "where is", "how do", "why do",
	"tell me about", "explain", "define", "meaning of",
	"hello", "hi", "hey", "how are you", "what's up", "good morning",
}

// DomainKeywords mark queries about the platform's own business services.
var DomainKeywords = []string{
	"luuno", "business", "automat", "workflow", "crm", "sales", "marketing",
	"quantum", "agent", "ai agent", "optimization", "predictive", "analytics",
	"platform", "system", "infrastructure", "revenue", "client",
}

// DefaultShortQueryWords is the word count below which a neutral query goes generative.
const DefaultShortQueryWords = 8

// Rule is one row of the routing table. Rows are evaluated in order; the first match wins.
type Rule struct {
	Name     string
	Decision models.RoutingDecision
	Match    func(normalized string) (matched string, ok bool)
}

// DefaultRules builds the routing table. Domain terms precede generic ones so
// "what is quantum optimization" stays on the rule-based path.
func DefaultRules(shortQueryWords int) []Rule {
	if shortQueryWords <= 0 {
		shortQueryWords = DefaultShortQueryWords
	}
	return []Rule{
		{
			Name:     "domain_keyword",
			Decision: models.DecisionRuleBased,
			Match:    containsAny(DomainKeywords),
		},
		{
			Name:     "generic_keyword",
			Decision: models.DecisionGenerative,
			Match:    containsAny(GenericKeywords),
		},
		{
			Name:     "short_query",
			Decision: models.DecisionGenerative,
			Match: func(normalized string) (string, bool) {
				return "", wordCount(normalized) < shortQueryWords
			},
		},
		{
			Name:     "default",
			Decision: models.DecisionRuleBased,
			Match:    func(string) (string, bool) { return "", true },
		},
	}
}

func containsAny(keywords []string) func(string) (string, bool) {
	return func(normalized string) (string, bool) {
		for _, kw := range keywords {
			if strings.Contains(normalized, kw) {
				return kw, true
			}
		}
		return "", false
	}
}

// wordCount splits on single spaces, so repeated spaces count as extra words.
func wordCount(s string) int {
	return len(strings.Split(s, " "))
}
