package handler

import (
	"donation-platform/internal/adapter/http/dto"
	"donation-platform/internal/core/ports"
	"donation-platform/pkg/response"

	"github.com/gin-gonic/gin"
)

// AdminHandler handles request review endpoints.
type AdminHandler struct {
	ledger ports.LedgerService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(ledger ports.LedgerService) *AdminHandler {
	return &AdminHandler{ledger: ledger}
}

// Pending handles GET /api/v1/admin/requests/pending.
func (h *AdminHandler) Pending(c *gin.Context) {
	reqs, err := h.ledger.ListPending(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.NewRequestResponses(reqs))
}

// Approve handles POST /api/v1/admin/requests/:id/approve.
func (h *AdminHandler) Approve(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req dto.ApproveRequest
	if !bindJSON(c, &req) {
		return
	}

	approved, err := h.ledger.Approve(c.Request.Context(), id, req.PriorityLevel)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.NewRequestResponse(approved))
}

// Decline handles POST /api/v1/admin/requests/:id/decline.
func (h *AdminHandler) Decline(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	declined, err := h.ledger.Decline(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.NewRequestResponse(declined))
}
