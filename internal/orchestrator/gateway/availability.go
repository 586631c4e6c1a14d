package gateway

import (
	"context"

	"luuno-orchestrator/internal/common/errors"
	"luuno-orchestrator/internal/models"
)

// CheckAvailability probes the model service. With a bridge configured the
// bridge decides availability and the tag listing, when reachable, supplies
// the model names. Without one the tag listing alone is authoritative.
func (g *Gateway) CheckAvailability(ctx context.Context) (*models.Availability, error) {
	if g.config.CheckTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.config.CheckTimeout)
		defer cancel()
	}

	if g.config.BridgeURL == "" {
		names, err := g.ListModels(ctx)
		if err != nil {
			return nil, errors.NewStatusCheckFailedError(err)
		}
		return &models.Availability{Available: true, Models: names}, nil
	}

	var status bridgeStatus
	if err := g.client.GetJSON(ctx, g.config.BridgeURL+"/api/status", &status); err != nil {
		return nil, errors.NewStatusCheckFailedError(err)
	}

	if !status.OllamaAvailable {
		return &models.Availability{Available: false, Models: []string{}}, nil
	}

	avail := &models.Availability{Available: true, Models: status.AvailableModels}
	if avail.Models == nil {
		avail.Models = []string{}
	}

	names, err := g.ListModels(ctx)
	if err != nil {
		g.logger.Warn("model listing failed, keeping bridge model list", map[string]interface{}{
			"error": err,
		})
		return avail, nil
	}
	avail.Models = names
	return avail, nil
}

// ListModels returns the names reported by the model service's tag listing.
func (g *Gateway) ListModels(ctx context.Context) ([]string, error) {
	var tags tagsResponse
	if err := g.client.GetJSON(ctx, g.config.BaseURL+"/api/tags", &tags); err != nil {
		return nil, err
	}

	names := make([]string, 0, len(tags.Models))
	for _, m := range tags.Models {
		if m.Name != "" {
			names = append(names, m.Name)
		}
	}
	return names, nil
}
