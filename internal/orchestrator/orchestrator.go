// Package orchestrator answers queries by routing between the local model
// service and the rule-based responder, and fronts the growth report engine.
package orchestrator

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"luuno-orchestrator/internal/common/errors"
	"luuno-orchestrator/internal/common/logger"
	"luuno-orchestrator/internal/common/metrics"
	"luuno-orchestrator/internal/common/observability"
	"luuno-orchestrator/internal/models"
	"luuno-orchestrator/internal/orchestrator/classifier"
	"luuno-orchestrator/internal/orchestrator/gateway"
	"luuno-orchestrator/internal/orchestrator/responder"
	"luuno-orchestrator/internal/orchestrator/synthetic"
)

// ModelGateway generates validated answers from the model service.
type ModelGateway interface {
	Generate(ctx context.Context, req gateway.GenerateRequest) (*models.ValidatedResponse, error)
}

// StatusMonitor owns backend availability.
type StatusMonitor interface {
	Refresh(ctx context.Context) models.SystemStatus
	Current() models.SystemStatus
	Start(ctx context.Context)
	Stop()
}

// ReportEngine produces growth reports.
type ReportEngine interface {
	Analyze(businessType string, rawData map[string]interface{}) *models.RecommendationReport
}

type Config struct {
	HistoryLimit int
}

// Dependencies wires the orchestrator. Classifier, Responder, Synthetic and
// Telemetry are optional.
type Dependencies struct {
	Gateway    ModelGateway
	Status     StatusMonitor
	Reports    ReportEngine
	Classifier *classifier.Classifier
	Responder  *responder.Responder
	Synthetic  synthetic.Generator
	Telemetry  *observability.Observability
}

type Orchestrator struct {
	config     *Config
	gateway    ModelGateway
	status     StatusMonitor
	reports    ReportEngine
	classifier *classifier.Classifier
	responder  *responder.Responder
	gen        synthetic.Generator
	telemetry  *observability.Observability
	now        func() time.Time
	logger     logger.Logger
}

func New(config *Config, deps Dependencies, log logger.Logger) *Orchestrator {
	if config == nil {
		config = &Config{}
	}
	if config.HistoryLimit <= 0 {
		config.HistoryLimit = DefaultHistoryLimit
	}

	o := &Orchestrator{
		config:     config,
		gateway:    deps.Gateway,
		status:     deps.Status,
		reports:    deps.Reports,
		classifier: deps.Classifier,
		responder:  deps.Responder,
		gen:        deps.Synthetic,
		telemetry:  deps.Telemetry,
		now:        time.Now,
		logger:     log.With(map[string]interface{}{"component": "orchestrator"}),
	}
	if o.classifier == nil {
		o.classifier = classifier.New()
	}
	if o.responder == nil {
		o.responder = responder.New()
	}
	if o.gen == nil {
		o.gen = synthetic.NewTimeSeeded()
	}
	return o
}

// ProcessQuery always returns a result. Generative queries go to the model
// service when it is available; everything else, and every generative miss,
// is answered by the responder.
func (o *Orchestrator) ProcessQuery(ctx context.Context, query models.Query) *models.QueryResult {
	start := o.now()
	requestID := uuid.New().String()

	ctx, span := o.telemetry.StartSpan(ctx, "orchestrator.ProcessQuery",
		attribute.String("request.id", requestID),
	)
	defer span.End()

	decision := o.classifier.Classify(query.Text)
	result := &models.QueryResult{
		RequestID: requestID,
		Decision:  decision,
	}

	if query.SelectedSystem != "" {
		o.logger.Debug("system preference received", map[string]interface{}{
			"requestId":      requestID,
			"selectedSystem": query.SelectedSystem,
		})
	}

	if decision == models.DecisionGenerative {
		status := o.status.Current()
		if status.BackendAvailable {
			resp, err := o.generate(ctx, query, status)
			switch {
			case err != nil:
				result.Source = models.SourceDegraded
				span.RecordError(err)
				span.SetStatus(codes.Error, "generative path failed")
				o.logger.Warn("generative path failed, degrading", map[string]interface{}{
					"requestId": requestID,
					"error":     err,
				})
			case resp != nil && resp.Accepted:
				result.Source = models.SourceGenerative
				result.Content = resp.Text
				result.Model = resp.Model
			}
		}
	}

	if result.Source != models.SourceGenerative {
		if result.Source == "" {
			result.Source = models.SourceRuleBased
		}
		result.Content = o.responder.Respond(query.Text)
		result.SyntheticMetrics = synthetic.QueryMetrics(o.gen)
	}

	result.Timestamp = o.now().UTC()
	result.Elapsed = o.now().Sub(start)
	result.ElapsedMs = result.Elapsed.Milliseconds()

	source, dec := string(result.Source), string(result.Decision)
	metrics.QueriesProcessed.WithLabelValues(source, dec).Inc()
	metrics.QueryDuration.WithLabelValues(source).Observe(result.Elapsed.Seconds())
	o.telemetry.RecordQuery(ctx, source, dec)
	o.telemetry.RecordQueryDuration(ctx, result.Elapsed, source)
	span.SetAttributes(
		attribute.String("query.decision", dec),
		attribute.String("query.source", source),
	)

	o.logger.Info("query processed", map[string]interface{}{
		"requestId": requestID,
		"decision":  dec,
		"source":    source,
		"model":     result.Model,
		"elapsedMs": result.ElapsedMs,
	})

	return result
}

func (o *Orchestrator) generate(ctx context.Context, query models.Query, status models.SystemStatus) (resp *models.ValidatedResponse, err error) {
	defer func() {
		if r := recover(); r != nil {
			resp = nil
			err = errors.NewInternalError(fmt.Errorf("generative path panicked: %v", r))
		}
	}()

	req := gateway.GenerateRequest{
		Query:        query.Text,
		Model:        query.Model,
		Availability: status.Availability(),
	}
	if history := query.RecentHistory(o.config.HistoryLimit); len(history) > 0 {
		req.ContextPrompt = BuildDomainContext(query.Personality, history)
	}

	return o.gateway.Generate(ctx, req)
}

// GetSystemStatus refreshes backend availability before answering.
func (o *Orchestrator) GetSystemStatus(ctx context.Context) models.SystemStatus {
	return o.status.Refresh(ctx)
}

// CurrentStatus returns the cached status without probing.
func (o *Orchestrator) CurrentStatus() models.SystemStatus {
	return o.status.Current()
}

// AnalyzeBusiness builds a growth report. Unknown business types get the
// generic template.
func (o *Orchestrator) AnalyzeBusiness(ctx context.Context, businessType string, rawData map[string]interface{}) *models.RecommendationReport {
	ctx, span := o.telemetry.StartSpan(ctx, "orchestrator.AnalyzeBusiness",
		attribute.String("business.type", businessType),
	)
	defer span.End()

	report := o.reports.Analyze(businessType, rawData)

	metrics.ReportsGenerated.WithLabelValues(report.Analysis.Template).Inc()
	o.telemetry.RecordReport(ctx, report.Analysis.Template)
	span.SetAttributes(attribute.String("report.template", report.Analysis.Template))

	o.logger.Info("growth report generated", map[string]interface{}{
		"businessType": businessType,
		"template":     report.Analysis.Template,
		"confidence":   report.Analysis.ConfidenceScore,
	})

	return report
}

// Start launches background status polling.
func (o *Orchestrator) Start(ctx context.Context) {
	o.status.Start(ctx)
}

// Stop ends background status polling and waits for it to finish.
func (o *Orchestrator) Stop() {
	o.status.Stop()
}
