// Package responder produces deterministic canned answers when the
// generative backend is not used or not usable.
package responder

import (
	"fmt"
	"strings"

	"luuno-orchestrator/internal/models"
)

// Kind names the branch that produced a response.
type Kind string

const (
	KindGreeting          Kind = "greeting"
	KindDecline           Kind = "decline"
	KindAffirm            Kind = "affirm"
	KindServiceOverview   Kind = "service_overview"
	KindRecommendInvite   Kind = "recommendation_invite"
	KindCapabilitySummary Kind = "capability_summary"
	KindDefault           Kind = "default"
)

type Responder struct{}

func New() *Responder {
	return &Responder{}
}

// Respond never fails and never returns an empty string.
func (r *Responder) Respond(query string) string {
	text, _ := r.RespondWithKind(query)
	return text
}

// RespondWithKind is Respond plus the branch taken. Branches are checked in
// order and the first match wins.
func (r *Responder) RespondWithKind(query string) (string, Kind) {
	normalized := models.NormalizeQuery(query)

	switch {
	case isOneOf(normalized, greetingWords) || strings.HasPrefix(normalized, "hello"):
		return greetingResponse, KindGreeting
	case isOneOf(normalized, shortReplyWords):
		if normalized == "no" {
			return declineResponse, KindDecline
		}
		return affirmResponse, KindAffirm
	case containsAny(normalized, businessKeywords):
		return serviceOverviewResponse, KindServiceOverview
	case containsAny(normalized, recommendKeywords):
		return recommendationInviteResponse, KindRecommendInvite
	case containsAny(normalized, capabilityKeywords):
		return fmt.Sprintf(capabilitySummaryFormat, query), KindCapabilitySummary
	default:
		return defaultResponse, KindDefault
	}
}

func isOneOf(s string, words []string) bool {
	for _, w := range words {
		if s == w {
			return true
		}
	}
	return false
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
