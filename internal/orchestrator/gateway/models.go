package gateway

import "luuno-orchestrator/internal/models"

// GenerateRequest is one generative attempt on behalf of a query.
type GenerateRequest struct {
	Query         string
	ContextPrompt string
	Model         string
	Availability  models.Availability
}

// GenerationOptions is sent with every generate call.
type GenerationOptions struct {
	Temperature float64 `json:"temperature"`
	TopP        float64 `json:"top_p"`
	TopK        int     `json:"top_k"`
	NumPredict  int     `json:"num_predict"`
}

type generateRequest struct {
	Model   string            `json:"model"`
	Prompt  string            `json:"prompt"`
	Stream  bool              `json:"stream"`
	Options GenerationOptions `json:"options"`
}

type generateResponse struct {
	Model    string `json:"model"`
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

type tagsResponse struct {
	Models []struct {
		Name string `json:"name"`
	} `json:"models"`
}

type bridgeStatus struct {
	OllamaAvailable bool     `json:"ollamaAvailable"`
	AvailableModels []string `json:"availableModels"`
}
