package service

import (
	"context"
	"fmt"

	"donation-platform/internal/core/domain"
	"donation-platform/internal/core/ports"
	"donation-platform/pkg/apperror"
	"donation-platform/pkg/money"
)

// StatsServiceImpl implements ports.StatsService as a read-only aggregation.
type StatsServiceImpl struct {
	ledger   ports.LedgerService
	accounts ports.AccountService
	users    ports.UserRepository
}

// NewStatsService creates a new StatsServiceImpl.
func NewStatsService(ledger ports.LedgerService, accounts ports.AccountService, users ports.UserRepository) *StatsServiceImpl {
	return &StatsServiceImpl{ledger: ledger, accounts: accounts, users: users}
}

// GetStats aggregates user counts, request counts and money totals.
// PlatformEfficiency is donated / requested * 100, or 0 when nothing was requested.
func (s *StatsServiceImpl) GetStats(ctx context.Context) (*ports.PlatformStats, error) {
	byRole, err := s.users.CountByRole(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("count users: %w", err))
	}

	requests, err := s.ledger.Snapshot(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("snapshot ledger: %w", err))
	}

	donated, err := s.accounts.TotalDonated(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("total donated: %w", err))
	}

	stats := &ports.PlatformStats{
		TotalDonors:     byRole[domain.RoleDonor] + byRole[domain.RoleStaff],
		TotalRecipients: byRole[domain.RoleRecipient],
		TotalRequests:   int64(len(requests)),
		TotalDonated:    donated,
	}
	for _, n := range byRole {
		stats.TotalUsers += n
	}

	for _, r := range requests {
		total, ok := money.Add(stats.TotalRequestsAmount, r.TotalAmount)
		if !ok {
			return nil, apperror.InternalError(fmt.Errorf("total requested overflows at request %s", r.ID))
		}
		stats.TotalRequestsAmount = total
		switch r.Status {
		case domain.RequestStatusPending:
			stats.PendingRequests++
		case domain.RequestStatusApproved:
			stats.ApprovedRequests++
		case domain.RequestStatusFulfilled:
			stats.FulfilledRequests++
		case domain.RequestStatusDeclined:
			stats.DeclinedRequests++
		}
	}

	stats.PlatformEfficiency = money.Percent(stats.TotalDonated, stats.TotalRequestsAmount)
	return stats, nil
}
