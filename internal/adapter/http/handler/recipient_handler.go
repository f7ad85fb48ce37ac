package handler

import (
	"strings"

	"donation-platform/internal/adapter/http/dto"
	"donation-platform/internal/adapter/http/middleware"
	"donation-platform/internal/core/ports"
	"donation-platform/pkg/response"

	"github.com/gin-gonic/gin"
)

// RecipientHandler handles a recipient's own donation requests.
type RecipientHandler struct {
	ledger ports.LedgerService
}

// NewRecipientHandler creates a new RecipientHandler.
func NewRecipientHandler(ledger ports.LedgerService) *RecipientHandler {
	return &RecipientHandler{ledger: ledger}
}

// Create handles POST /api/v1/recipient/requests.
func (h *RecipientHandler) Create(c *gin.Context) {
	recipientID, ok := sessionUser(c)
	if !ok {
		return
	}

	var req dto.CreateRequestRequest
	if !bindJSON(c, &req) {
		return
	}

	var username string
	if claims, ok := middleware.Claims(c); ok {
		username = claims.Username
	}

	created, err := h.ledger.Create(c.Request.Context(), ports.CreateRequestInput{
		RecipientID:       recipientID,
		RecipientUsername: username,
		Amount:            req.Amount.Int64(),
		Priority:          req.PriorityLevel,
		Reason:            strings.TrimSpace(req.Reason),
		Details:           strings.TrimSpace(req.CaseDetails),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, dto.NewRequestResponse(created))
}

// ListMine handles GET /api/v1/recipient/requests.
func (h *RecipientHandler) ListMine(c *gin.Context) {
	recipientID, ok := sessionUser(c)
	if !ok {
		return
	}

	reqs, err := h.ledger.ListByRecipient(c.Request.Context(), recipientID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.NewRequestResponses(reqs))
}
