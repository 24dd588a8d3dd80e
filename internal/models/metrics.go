package models

import "time"

// SystemMetrics is a point-in-time view of process counters.
type SystemMetrics struct {
	RequestsTotal            uint64    `json:"requestsTotal"`
	AverageRequestDurationMs float64   `json:"averageRequestDurationMs"`
	WorkflowEvents           uint64    `json:"workflowEvents"`
	Recomputes               uint64    `json:"recomputes"`
	RecomputeRetries         uint64    `json:"recomputeRetries"`
	Goroutines               int       `json:"goroutines"`
	GeneratedAt              time.Time `json:"generatedAt"`
}
