package models

import "time"

// GrowthAction is one of the seven numbered recommendations of a report.
type GrowthAction struct {
	Number               int    `json:"number"`
	Category             string `json:"category"`
	Action               string `json:"action"`
	ImpactLevel          string `json:"impactLevel"`
	ImplementationWindow string `json:"implementationWindow"`
	ProjectedROI         string `json:"projectedRoi"`
}

// Phase groups action numbers that share an implementation window.
type Phase struct {
	Timeline string `json:"timeline"`
	Focus    string `json:"focus"`
	Actions  []int  `json:"actions"`
}

type PhasedPlan struct {
	QuickWins             Phase  `json:"quickWins"`
	MediumTerm            Phase  `json:"mediumTerm"`
	LongTerm              Phase  `json:"longTerm"`
	TotalTimeline         string `json:"totalTimeline"`
	RecommendedStartOrder []int  `json:"recommendedStartOrder"`
}

type ProjectedOutcomes struct {
	RevenueIncrease      string `json:"revenueIncrease"`
	TimeSavings          string `json:"timeSavings"`
	CustomerGrowth       string `json:"customerGrowth"`
	AutomationLevel      string `json:"automationLevel"`
	ROITimeline          string `json:"roiTimeline"`
	CompetitiveAdvantage string `json:"competitiveAdvantage"`
	ScalabilityFactor    string `json:"scalabilityFactor"`
}

type AnalysisMetadata struct {
	BusinessType      string    `json:"businessType"`
	Template          string    `json:"template"`
	Timestamp         time.Time `json:"timestamp"`
	QuantumProcessing bool      `json:"quantumProcessing"`
	ConfidenceScore   float64   `json:"confidenceScore"`
}

// RecommendationReport is the structured growth plan for a business.
type RecommendationReport struct {
	Analysis          AnalysisMetadata  `json:"analysis"`
	Actions           []GrowthAction    `json:"actions"`
	PhasedPlan        PhasedPlan        `json:"phasedPlan"`
	ProjectedOutcomes ProjectedOutcomes `json:"projectedOutcomes"`
}

// BusinessProfile is the caller-supplied input for a report.
type BusinessProfile struct {
	BusinessType string                 `json:"businessType"`
	RawData      map[string]interface{} `json:"data,omitempty"`
}
