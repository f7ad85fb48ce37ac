package middleware

import (
	"encoding/json"
	"net/http"
	"time"

	"donation-platform/internal/core/domain"
	"donation-platform/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AuditLog records successful write operations once the handler has run.
func AuditLog(auditSvc ports.AuditService) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		status := c.Writer.Status()
		if status < 200 || status >= 300 {
			return
		}
		if c.Request.Method == http.MethodGet || c.Request.Method == http.MethodHead || c.Request.Method == http.MethodOptions {
			return
		}

		action, resourceType := mapRouteToAction(c.FullPath(), c.Request.Method)
		if action == "" {
			return
		}

		var userID *uuid.UUID
		if id, ok := UserID(c); ok {
			userID = &id
		}

		details, _ := json.Marshal(map[string]interface{}{
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     status,
			"request_id": c.GetString(CtxRequestID),
		})

		auditSvc.Log(c.Request.Context(), &domain.AuditLog{
			ID:           uuid.New(),
			UserID:       userID,
			Action:       action,
			ResourceType: resourceType,
			ResourceID:   c.Param("id"),
			IPAddress:    c.ClientIP(),
			Details:      string(details),
			CreatedAt:    time.Now().UTC(),
		})
	}
}

// mapRouteToAction maps a route template (gin FullPath) to an audit action.
func mapRouteToAction(route, method string) (domain.AuditAction, string) {
	if method != http.MethodPost {
		return "", ""
	}
	switch route {
	case "/api/v1/auth/register":
		return domain.AuditActionRegister, "user"
	case "/api/v1/auth/login":
		return domain.AuditActionLogin, "session"
	case "/api/v1/auth/logout":
		return domain.AuditActionLogout, "session"
	case "/api/v1/donor/balance":
		return domain.AuditActionDeposit, "donor_account"
	case "/api/v1/donor/donate":
		return domain.AuditActionDonate, "donation_request"
	case "/api/v1/recipient/requests":
		return domain.AuditActionCreateRequest, "donation_request"
	case "/api/v1/admin/requests/:id/approve":
		return domain.AuditActionApproveRequest, "donation_request"
	case "/api/v1/admin/requests/:id/decline":
		return domain.AuditActionDeclineRequest, "donation_request"
	}
	return "", ""
}
