package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"donation-platform/internal/core/domain"
	"donation-platform/internal/core/ports"
	"donation-platform/pkg/apperror"
	"donation-platform/pkg/metrics"

	"github.com/rs/zerolog"
)

const (
	idempotencyTTL     = 24 * time.Hour
	idempotencyLockTTL = 30 * time.Second
)

// DonationServiceImpl implements ports.DonationService on top of the ledger.
type DonationServiceImpl struct {
	ledger     ports.LedgerService
	idempCache ports.IdempotencyCache // nil = idempotency keys are ignored
	metrics    *metrics.DonationMetrics
	log        zerolog.Logger
}

// NewDonationService creates a new DonationServiceImpl.
func NewDonationService(
	ledger ports.LedgerService,
	idempCache ports.IdempotencyCache,
	m *metrics.DonationMetrics,
	log zerolog.Logger,
) *DonationServiceImpl {
	return &DonationServiceImpl{
		ledger:     ledger,
		idempCache: idempCache,
		metrics:    m,
		log:        log,
	}
}

// Donate applies a payment. When the caller supplies an idempotency key, a
// replay returns the first result instead of paying twice.
func (s *DonationServiceImpl) Donate(ctx context.Context, req ports.DonateRequest) (*ports.PaymentResult, error) {
	if req.IdempotencyKey == "" || s.idempCache == nil {
		return s.apply(ctx, req.PaymentInput)
	}

	idempKey := domain.BuildDonationIdempotencyKey(req.DonorID, req.IdempotencyKey)

	cached, err := s.idempCache.Get(ctx, idempKey)
	if err != nil {
		s.log.Warn().Err(err).Str("key", idempKey).Msg("redis idempotency check failed, processing without it")
		return s.apply(ctx, req.PaymentInput)
	}
	if cached != nil {
		return s.unmarshalCachedResult(cached)
	}

	claimed, err := s.idempCache.Claim(ctx, idempKey, idempotencyLockTTL)
	if err != nil {
		s.log.Warn().Err(err).Str("key", idempKey).Msg("redis idempotency claim failed, processing without it")
		return s.apply(ctx, req.PaymentInput)
	}
	if !claimed {
		return nil, apperror.ErrDuplicateRequest()
	}
	defer func() {
		if err := s.idempCache.Release(ctx, idempKey); err != nil {
			s.log.Warn().Err(err).Str("key", idempKey).Msg("failed to release idempotency claim")
		}
	}()

	// The first holder may have finished between our Get and Claim.
	if cached, err := s.idempCache.Get(ctx, idempKey); err == nil && cached != nil {
		return s.unmarshalCachedResult(cached)
	}

	result, err := s.apply(ctx, req.PaymentInput)
	if err != nil {
		return nil, err
	}

	respJSON, err := json.Marshal(result)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("marshal payment result: %w", err))
	}
	// Post-process: cache in Redis (best-effort)
	if err := s.idempCache.Set(ctx, idempKey, respJSON, idempotencyTTL); err != nil {
		s.log.Warn().Err(err).Str("key", idempKey).Msg("failed to cache idempotency in redis")
	}

	return result, nil
}

func (s *DonationServiceImpl) apply(ctx context.Context, in ports.PaymentInput) (*ports.PaymentResult, error) {
	result, err := s.ledger.ApplyPayment(ctx, in)
	if err != nil {
		code := "internal"
		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			code = appErr.Code
		}
		s.metrics.PaymentRejected(code)
		return nil, err
	}
	s.metrics.PaymentSucceeded(result.Amount, result.Fulfilled)
	return result, nil
}

// unmarshalCachedResult deserializes a cached payment result.
func (s *DonationServiceImpl) unmarshalCachedResult(data []byte) (*ports.PaymentResult, error) {
	result := &ports.PaymentResult{}
	if err := json.Unmarshal(data, result); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("unmarshal cached payment result: %w", err))
	}
	return result, nil
}
