package ports

import "context"

// HealthChecker is an optional dependency reported by GET /health.
// A nil error from Ping means the dependency can serve its feature.
type HealthChecker interface {
	Ping(ctx context.Context) error
	Name() string
}
