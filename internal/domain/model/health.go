package model

// Health is the liveness report served by GET /api/health.
type Health struct {
	Status    string  `json:"status"`
	Uptime    float64 `json:"uptime"`
	Version   string  `json:"version"`
	Timestamp string  `json:"timestamp"`
}
