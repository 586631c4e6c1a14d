package models

import "time"

// Availability is the raw result of probing the model backend.
type Availability struct {
	Available bool     `json:"available"`
	Models    []string `json:"models"`
}

// SystemStatus is the cached view of backend health served to callers.
type SystemStatus struct {
	BackendAvailable          bool      `json:"backendAvailable"`
	AvailableModels           []string  `json:"availableModels"`
	RuleEngineActive          bool      `json:"ruleEngineActive"`
	HistoryActive             bool      `json:"historyActive"`
	GenerativeRemoteAvailable bool      `json:"generativeRemoteAvailable"`
	LastRefreshed             time.Time `json:"lastRefreshed,omitempty"`
	LastError                 string    `json:"lastError,omitempty"`
}

// UnavailableStatus is the status reported before any refresh and after a failed one.
func UnavailableStatus() SystemStatus {
	return SystemStatus{
		BackendAvailable: false,
		AvailableModels:  []string{},
		RuleEngineActive: true,
		HistoryActive:    true,
	}
}

// Availability returns the gateway's view of this status.
func (s SystemStatus) Availability() Availability {
	models := make([]string, len(s.AvailableModels))
	copy(models, s.AvailableModels)
	return Availability{Available: s.BackendAvailable, Models: models}
}
