package models

import "time"

// SystemMetrics is the counter summary served by the health endpoint.
type SystemMetrics struct {
	RequestsTotal uint64    `json:"requests_total"`
	DBQueryCount  uint64    `json:"db_query_count"`
	CacheHitRatio float64   `json:"cache_hit_ratio"`
	Goroutines    int       `json:"goroutines"`
	GeneratedAt   time.Time `json:"generated_at"`
}
