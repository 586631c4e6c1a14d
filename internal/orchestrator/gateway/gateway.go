// Package gateway talks to the local model service: it picks candidate
// models, sends prompts and filters what comes back.
package gateway

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"golang.org/x/sync/semaphore"

	"luuno-orchestrator/internal/common/errors"
	httpclient "luuno-orchestrator/internal/common/http"
	"luuno-orchestrator/internal/common/logger"
	"luuno-orchestrator/internal/common/metrics"
	"luuno-orchestrator/internal/models"
)

type Gateway struct {
	config *Config
	client *httpclient.Client
	sem    *semaphore.Weighted
	logger logger.Logger
}

func NewGateway(config *Config, log logger.Logger) *Gateway {
	cfg := config.withDefaults()
	return &Gateway{
		config: cfg,
		// no client timeout; attempts are bounded by context
		client: httpclient.NewClient(0),
		sem:    semaphore.NewWeighted(cfg.MaxConcurrent),
		logger: log.With(map[string]interface{}{
			"component": "model-gateway",
		}),
	}
}

// Generate tries candidates in order and returns the first accepted answer.
// When nothing is accepted the result has Accepted=false and a nil error.
// An error is returned only when ctx ends before an answer is found.
func (g *Gateway) Generate(ctx context.Context, req GenerateRequest) (*models.ValidatedResponse, error) {
	if !req.Availability.Available {
		return &models.ValidatedResponse{}, nil
	}

	if err := g.sem.Acquire(ctx, 1); err != nil {
		return nil, fmt.Errorf("acquire generation slot: %w", err)
	}
	defer g.sem.Release(1)

	metrics.ModelRequestsInFlight.Inc()
	defer metrics.ModelRequestsInFlight.Dec()

	candidates := g.Candidates(req.Model, req.Availability.Models)

	for i, candidate := range candidates {
		if i > 0 && g.config.AttemptBackoff > 0 {
			backoff := g.config.AttemptBackoff * time.Duration(1<<(i-1))
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, fmt.Errorf("generation aborted: %w", ctx.Err())
			}
		}

		prompt := g.BuildPrompt(req.Query, req.ContextPrompt, candidate.Name)
		raw, err := g.attempt(ctx, candidate.Name, prompt)
		if err != nil {
			if ctx.Err() != nil {
				metrics.ModelAttempts.WithLabelValues(candidate.Name, metrics.OutcomeFailed).Inc()
				return nil, fmt.Errorf("generation aborted: %w", ctx.Err())
			}

			outcome := metrics.OutcomeFailed
			if errors.HasCode(err, errors.ErrCodeModelTimeout) {
				outcome = metrics.OutcomeTimeout
			}
			metrics.ModelAttempts.WithLabelValues(candidate.Name, outcome).Inc()
			g.logger.Warn("model attempt failed", map[string]interface{}{
				"model": candidate.Name,
				"rank":  candidate.Rank,
				"error": err,
			})
			continue
		}

		resp, reason := g.Validate(candidate.Name, raw)
		if resp.Accepted {
			metrics.ModelAttempts.WithLabelValues(candidate.Name, metrics.OutcomeAccepted).Inc()
			g.logger.Debug("model response accepted", map[string]interface{}{
				"model": candidate.Name,
				"rank":  candidate.Rank,
			})
			return resp, nil
		}

		outcome := metrics.OutcomeRejected
		if resp.Text == "" {
			outcome = metrics.OutcomeEmpty
		}
		metrics.ModelAttempts.WithLabelValues(candidate.Name, outcome).Inc()
		g.logger.Warn("model response rejected", map[string]interface{}{
			"model": candidate.Name,
			"error": errors.NewResponseRejectedError(candidate.Name, reason),
		})
	}

	return &models.ValidatedResponse{}, nil
}

func (g *Gateway) attempt(ctx context.Context, model, prompt string) (string, error) {
	attemptCtx := ctx
	if g.config.Timeout > 0 {
		var cancel context.CancelFunc
		attemptCtx, cancel = context.WithTimeout(ctx, g.config.Timeout)
		defer cancel()
	}

	body := generateRequest{
		Model:   model,
		Prompt:  prompt,
		Stream:  false,
		Options: g.config.Options,
	}

	var out generateResponse
	err := g.client.PostJSON(attemptCtx, g.config.BaseURL+"/api/generate", body, &out)
	if err != nil {
		var decodeErr *httpclient.DecodeError
		switch {
		case stderrors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil:
			return "", errors.NewModelTimeoutError(model, g.config.Timeout)
		case stderrors.As(err, &decodeErr):
			return "", errors.NewModelResponseInvalidError(model, err)
		default:
			return "", errors.NewModelRequestFailedError(model, err)
		}
	}

	return out.Response, nil
}
