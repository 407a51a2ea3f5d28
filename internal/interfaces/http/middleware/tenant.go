package middleware

import (
	"net/http"

	"github.com/facilityos/backend/internal/infrastructure/logger"
	"github.com/facilityos/backend/internal/infrastructure/persistence/tenant"
	"github.com/facilityos/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Tenant context keys and headers
const (
	TenantIDKey     = "tenant_id"
	TenantHeaderKey = "X-Tenant-ID"
)

// Tenant seeds the request context with the tenant every downstream data
// operation is scoped to. The tenant always comes from the authenticated
// principal; callers never pick their own tenant.
//
// Platform administrators may act on another tenant by sending X-Tenant-ID.
// The override is recorded explicitly in the context and still scopes every
// query to exactly the named tenant. Non-admins sending the header for a
// tenant other than their own are rejected.
func Tenant() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			// Unauthenticated paths carry no tenant; the interceptor
			// fails any scoped operation they attempt
			c.Next()
			return
		}

		tenantID := user.TenantID

		if header := c.GetHeader(TenantHeaderKey); header != "" {
			requested, err := uuid.Parse(header)
			if err != nil {
				c.AbortWithStatusJSON(http.StatusBadRequest,
					dto.NewErrorResponseWithRequestID(dto.ErrCodeBadRequest, "Invalid tenant ID format", c.GetString("request_id")))
				return
			}

			if requested != user.TenantID {
				if !user.IsAdmin() {
					c.AbortWithStatusJSON(http.StatusForbidden,
						dto.NewErrorResponseWithRequestID(dto.ErrCodeForbidden, "Cannot act on another tenant", c.GetString("request_id")))
					return
				}

				// Supervised override: recorded, never implicit
				ctx := tenant.WithOverride(c.Request.Context(), requested)
				log := logger.FromContext(ctx)
				log.Info("Tenant override applied",
					zap.String("admin_id", user.ID.String()),
					zap.String("tenant_id", requested.String()),
				)
				c.Set(TenantIDKey, requested.String())
				c.Request = c.Request.WithContext(ctx)
				c.Next()
				return
			}
		}

		c.Set(TenantIDKey, tenantID.String())

		ctx := c.Request.Context()
		ctx, _ = logger.WithTenantID(ctx, logger.FromContext(ctx), tenantID.String())
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}
