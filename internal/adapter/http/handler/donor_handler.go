package handler

import (
	"strings"

	"donation-platform/internal/adapter/http/dto"
	"donation-platform/internal/core/ports"
	"donation-platform/pkg/apperror"
	"donation-platform/pkg/money"
	"donation-platform/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// HeaderIdempotencyKey lets clients retry a donation safely.
const HeaderIdempotencyKey = "Idempotency-Key"

const maxIdempotencyKeyLen = 128

// DonorHandler handles donor account and donation endpoints.
type DonorHandler struct {
	accounts  ports.AccountService
	donations ports.DonationService
}

// NewDonorHandler creates a new DonorHandler.
func NewDonorHandler(accounts ports.AccountService, donations ports.DonationService) *DonorHandler {
	return &DonorHandler{accounts: accounts, donations: donations}
}

// Deposit handles POST /api/v1/donor/balance.
func (h *DonorHandler) Deposit(c *gin.Context) {
	donorID, ok := sessionUser(c)
	if !ok {
		return
	}

	var req dto.DepositRequest
	if !bindJSON(c, &req) {
		return
	}

	txn, balance, err := h.accounts.Deposit(c.Request.Context(), ports.DepositInput{
		DonorID:    donorID,
		Amount:     req.Amount.Int64(),
		CardNumber: req.CardNumber,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, dto.DepositResponse{
		TransactionID: txn.ID.String(),
		Amount:        money.Amount(txn.Amount),
		NewBalance:    money.Amount(balance),
	})
}

// Balance handles GET /api/v1/donor/balance.
func (h *DonorHandler) Balance(c *gin.Context) {
	donorID, ok := sessionUser(c)
	if !ok {
		return
	}

	acc, err := h.accounts.Get(c.Request.Context(), donorID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.NewBalanceResponse(acc))
}

// Transactions handles GET /api/v1/donor/transactions.
func (h *DonorHandler) Transactions(c *gin.Context) {
	donorID, ok := sessionUser(c)
	if !ok {
		return
	}

	txns, err := h.accounts.Transactions(c.Request.Context(), donorID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.NewTransactionResponses(txns))
}

// Donate handles POST /api/v1/donor/donate.
func (h *DonorHandler) Donate(c *gin.Context) {
	donorID, ok := sessionUser(c)
	if !ok {
		return
	}

	idempKey := strings.TrimSpace(c.GetHeader(HeaderIdempotencyKey))
	if len(idempKey) > maxIdempotencyKeyLen {
		response.Error(c, apperror.Validation("Idempotency-Key must be at most 128 characters"))
		return
	}

	var req dto.DonateRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.donations.Donate(c.Request.Context(), ports.DonateRequest{
		PaymentInput: ports.PaymentInput{
			RequestID:    uuid.MustParse(req.RequestID),
			DonorID:      donorID,
			Amount:       req.Amount.Int64(),
			PayRemaining: req.FullPayment,
		},
		IdempotencyKey: idempKey,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.NewDonateResponse(result))
}
