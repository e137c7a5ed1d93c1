package models

// Component states reported by the health check.
const (
	WhisperLoaded    = "loaded"
	WhisperNotLoaded = "not_loaded"
	LLMConnected     = "connected"
	LLMDisconnected  = "disconnected"
	StatusHealthy    = "healthy"
	StatusUnhealthy  = "unhealthy"
	HealthMessage    = "AI services are running"
)

// HealthResponse is the body returned by GET /health.
type HealthResponse struct {
	Status  string            `json:"status"`
	Models  map[string]string `json:"models"`
	Message string            `json:"message"`
}

// Healthy reports whether the overall status is healthy.
func (h HealthResponse) Healthy() bool {
	return h.Status == StatusHealthy
}

// LLMTestResponse is the body returned by POST /test-llm.
type LLMTestResponse struct {
	Status   string `json:"status"`
	Response string `json:"response,omitempty"`
	Error    string `json:"error,omitempty"`
}
