// Package classifier decides whether a query is answered by the generative
// backend or by the rule-based responder.
package classifier

import (
	"strings"

	"luuno-orchestrator/internal/models"
)

// Explanation records which routing rule fired.
type Explanation struct {
	Decision models.RoutingDecision `json:"decision"`
	Rule     string                 `json:"rule"`
	Keyword  string                 `json:"keyword,omitempty"`
}

type Classifier struct {
	rules []Rule
}

// New returns a classifier over the default routing table.
func New() *Classifier {
	return NewWithRules(DefaultRules(DefaultShortQueryWords))
}

// NewWithRules returns a classifier over a custom table. An empty table
// routes everything to the rule-based path.
func NewWithRules(rules []Rule) *Classifier {
	return &Classifier{rules: rules}
}

// Classify is pure and total.
func (c *Classifier) Classify(query string) models.RoutingDecision {
	return c.Explain(query).Decision
}

func (c *Classifier) Explain(query string) Explanation {
	normalized := strings.ToLower(query)
	for _, rule := range c.rules {
		if kw, ok := rule.Match(normalized); ok {
			return Explanation{Decision: rule.Decision, Rule: rule.Name, Keyword: kw}
		}
	}
	return Explanation{Decision: models.DecisionRuleBased, Rule: "none"}
}
