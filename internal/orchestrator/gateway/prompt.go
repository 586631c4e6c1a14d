package gateway

import (
	"fmt"
	"strings"

	"luuno-orchestrator/internal/models"
)

const identityPreamble = "You are the LUUNO AI - quantum-enhanced business automation platform.\n\n" +
	"IDENTITY: Invisible infrastructure for modern businesses. Building toward billion-dollar platform.\n" +
	"STYLE: Minimal, high-class, future-focused. Never call yourself \"Llama\".\n\n" +
	"Model: %s"

const assistantPrefix = "Assistant:"

// BuildPrompt uses the caller's context verbatim when it is a full identity
// block, otherwise it wraps the query in the short identity preamble.
func (g *Gateway) BuildPrompt(query, contextPrompt, model string) string {
	if g.richContext(contextPrompt) {
		return fmt.Sprintf("%s\n\nUser Question: %s\n\nLuuno AI Response:", contextPrompt, query)
	}
	return fmt.Sprintf(identityPreamble, model) + fmt.Sprintf("\n\nUser: %s\n\nResponse:", query)
}

func (g *Gateway) richContext(contextPrompt string) bool {
	return strings.Contains(contextPrompt, g.config.IdentityMarker) &&
		len(contextPrompt) > g.config.MinContextLength
}

// Candidates lists models to try: the requested one, then every preferred
// name matched by an available model, capped at MaxCandidates.
func (g *Gateway) Candidates(requested string, available []string) []models.ModelCandidate {
	seen := make(map[string]bool)
	var names []string
	add := func(name string) {
		if name == "" || seen[name] {
			return
		}
		seen[name] = true
		names = append(names, name)
	}

	add(strings.TrimSpace(requested))
	for _, preferred := range g.config.PreferredModels {
		for _, m := range available {
			if strings.Contains(m, preferred) {
				add(preferred)
				break
			}
		}
	}
	if len(names) == 0 {
		names = append(names, g.config.FallbackModel)
	}
	if len(names) > g.config.MaxCandidates {
		names = names[:g.config.MaxCandidates]
	}

	out := make([]models.ModelCandidate, len(names))
	for i, n := range names {
		out[i] = models.ModelCandidate{Name: n, Rank: i}
	}
	return out
}

// Validate cleans raw model output and applies the content policy.
// The returned reason is empty for accepted text.
func (g *Gateway) Validate(model, raw string) (*models.ValidatedResponse, string) {
	text := strings.TrimSpace(raw)
	if strings.HasPrefix(text, assistantPrefix) {
		text = strings.TrimSpace(text[len(assistantPrefix):])
	}

	resp := &models.ValidatedResponse{Text: text, Model: model}
	if text == "" {
		return resp, "empty response"
	}

	lower := strings.ToLower(text)
	for _, phrase := range g.config.BannedPhrases {
		p := strings.ToLower(phrase)
		if p != "" && strings.Contains(lower, p) {
			return resp, fmt.Sprintf("banned phrase %q", phrase)
		}
	}

	resp.Accepted = true
	return resp, ""
}
