package handler

import (
	"donation-platform/internal/adapter/http/dto"
	"donation-platform/internal/adapter/http/middleware"
	"donation-platform/internal/core/ports"
	"donation-platform/pkg/apperror"
	"donation-platform/pkg/response"

	"github.com/gin-gonic/gin"
)

// RequestHandler serves the public request listings and platform statistics.
type RequestHandler struct {
	ledger ports.LedgerService
	stats  ports.StatsService
}

// NewRequestHandler creates a new RequestHandler.
func NewRequestHandler(ledger ports.LedgerService, stats ports.StatsService) *RequestHandler {
	return &RequestHandler{ledger: ledger, stats: stats}
}

// Approved handles GET /api/v1/requests/approved.
func (h *RequestHandler) Approved(c *gin.Context) {
	reqs, err := h.ledger.ListApproved(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.NewRequestResponses(reqs))
}

// Get handles GET /api/v1/requests/:id. Pending and declined requests are
// reported as not found unless the caller is a reviewer or the owner.
func (h *RequestHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	req, err := h.ledger.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	userID, _ := middleware.UserID(c)
	role, _ := middleware.Role(c)
	if !req.VisibleTo(userID, role) {
		response.Error(c, apperror.ErrNotFound("Donation request"))
		return
	}
	response.OK(c, dto.NewRequestResponse(req))
}

// Stats handles GET /api/v1/stats.
func (h *RequestHandler) Stats(c *gin.Context) {
	stats, err := h.stats.GetStats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.NewStatsResponse(stats))
}
