package postgres

import (
	"context"
	"errors"
	"fmt"
)

const auditTableQuery = `SELECT to_regclass('public.audit_logs') IS NOT NULL`

var errAuditTableMissing = errors.New("audit_logs table missing, migrations not applied")

// HealthCheck reports the audit sink healthy once the pool answers and the
// audit_logs table exists.
type HealthCheck struct {
	pool Pool
}

func NewHealthCheck(pool Pool) *HealthCheck {
	return &HealthCheck{pool: pool}
}

func (h *HealthCheck) Ping(ctx context.Context) error {
	if err := h.pool.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	var exists bool
	if err := h.pool.QueryRow(ctx, auditTableQuery).Scan(&exists); err != nil {
		return fmt.Errorf("lookup audit table: %w", err)
	}
	if !exists {
		return errAuditTableMissing
	}
	return nil
}

func (h *HealthCheck) Name() string {
	return "postgresql"
}
