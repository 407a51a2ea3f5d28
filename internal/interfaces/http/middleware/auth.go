package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	identityapp "github.com/facilityos/backend/internal/application/identity"
	"github.com/facilityos/backend/internal/domain/identity"
	"github.com/facilityos/backend/internal/domain/shared"
	"github.com/facilityos/backend/internal/infrastructure/auth"
	"github.com/facilityos/backend/internal/infrastructure/logger"
	"github.com/facilityos/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Principal context keys
const (
	PrincipalKey      = "principal"
	SessionIDKey      = "session_id"
	AuthHeaderKey     = "Authorization"
	BearerPrefix      = "Bearer "
	DefaultCookieName = "fos_session"
)

// AuthConfig holds configuration for the authentication middleware
type AuthConfig struct {
	// Sessions resolves browser session cookies to principals
	Sessions *identityapp.SessionService
	// Users loads principals for service-token requests
	Users identity.UserRepository
	// Tokens validates service-account bearer tokens; nil disables the
	// bearer path entirely
	Tokens *auth.ServiceTokenService
	// CookieName is the session cookie name
	CookieName string
	// SkipPaths are paths that don't require authentication
	SkipPaths []string
	// Logger for middleware logging
	Logger *zap.Logger
}

// Auth authenticates every request from either a session cookie or a
// service-account bearer token and stores the resolved principal in the
// request context. Cookie sessions also get a throttled activity touch
// that never delays or fails the request.
func Auth(cfg AuthConfig) gin.HandlerFunc {
	if cfg.CookieName == "" {
		cfg.CookieName = DefaultCookieName
	}

	return func(c *gin.Context) {
		path := c.Request.URL.Path
		for _, skipPath := range cfg.SkipPaths {
			if path == skipPath {
				c.Next()
				return
			}
		}

		if header := c.GetHeader(AuthHeaderKey); header != "" && cfg.Tokens != nil {
			authenticateToken(c, cfg, header)
			return
		}

		authenticateCookie(c, cfg)
	}
}

// authenticateCookie resolves the session cookie to a live session and an
// active principal
func authenticateCookie(c *gin.Context, cfg AuthConfig) {
	raw, err := c.Cookie(cfg.CookieName)
	if err != nil || raw == "" {
		abortAuth(c, dto.ErrCodeSessionRequired, "Authentication required", nil)
		return
	}

	sessionID, err := uuid.Parse(raw)
	if err != nil {
		abortAuth(c, dto.ErrCodeSessionInvalid, "Session is not valid", nil)
		return
	}

	sess, user, err := cfg.Sessions.Resolve(c.Request.Context(), sessionID)
	if err != nil {
		var invalidated *shared.SessionInvalidatedError
		if errors.As(err, &invalidated) {
			abortAuth(c, dto.ErrCodeSessionInvalidated, "Session is no longer valid",
				map[string]interface{}{"reason": string(invalidated.Reason)})
			return
		}
		if shared.IsDomainError(err, "UNAUTHORIZED") || shared.IsDomainError(err, "FORBIDDEN") {
			abortAuth(c, dto.ErrCodeSessionInvalid, "Session is not valid", nil)
			return
		}
		if cfg.Logger != nil {
			cfg.Logger.Error("Session resolution failed", zap.Error(err))
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError,
			dto.NewErrorResponseWithRequestID(dto.ErrCodeInternal, "An unexpected error occurred", c.GetString("request_id")))
		return
	}

	setPrincipal(c, user, sess.ID)

	// Activity touch is fire and forget; the request context may be gone
	// by the time the write lands
	go cfg.Sessions.Touch(context.WithoutCancel(c.Request.Context()), sess.ID)

	c.Next()
}

// authenticateToken resolves a service-account bearer token to a principal
func authenticateToken(c *gin.Context, cfg AuthConfig, header string) {
	if !strings.HasPrefix(header, BearerPrefix) {
		abortAuth(c, dto.ErrCodeTokenInvalid, "Invalid authorization header format", nil)
		return
	}
	tokenString := strings.TrimPrefix(header, BearerPrefix)
	if tokenString == "" {
		abortAuth(c, dto.ErrCodeTokenInvalid, "Missing token", nil)
		return
	}

	claims, err := cfg.Tokens.Validate(tokenString)
	if err != nil {
		code := dto.ErrCodeTokenInvalid
		if errors.Is(err, auth.ErrExpiredToken) {
			code = dto.ErrCodeTokenExpired
		}
		abortAuth(c, code, "Token validation failed", nil)
		return
	}

	userID, _, err := claims.Subject()
	if err != nil {
		abortAuth(c, dto.ErrCodeTokenInvalid, "Token subject is not valid", nil)
		return
	}

	user, err := cfg.Users.FindByID(c.Request.Context(), userID)
	if err != nil || !user.IsActive {
		abortAuth(c, dto.ErrCodeTokenInvalid, "Token principal is not valid", nil)
		return
	}

	setPrincipal(c, user, uuid.Nil)
	c.Next()
}

// setPrincipal stores the principal in gin and seeds the request-scoped
// logging context with the identities every downstream log line should carry
func setPrincipal(c *gin.Context, user *identity.User, sessionID uuid.UUID) {
	c.Set(PrincipalKey, user)

	ctx := c.Request.Context()
	log := logger.FromContext(ctx)
	ctx, log = logger.WithUserID(ctx, log, user.ID.String())
	if sessionID != uuid.Nil {
		c.Set(SessionIDKey, sessionID)
		ctx, _ = logger.WithSessionID(ctx, log, sessionID.String())
	}
	c.Request = c.Request.WithContext(ctx)
}

// abortAuth rejects the request with a 401 and the given error code
func abortAuth(c *gin.Context, code, message string, details map[string]interface{}) {
	requestID := c.GetString("request_id")
	if details != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized,
			dto.NewErrorResponseWithDetails(code, message, requestID, details))
		return
	}
	c.AbortWithStatusJSON(http.StatusUnauthorized,
		dto.NewErrorResponseWithRequestID(code, message, requestID))
}

// CurrentUser returns the authenticated principal for this request
func CurrentUser(c *gin.Context) (*identity.User, bool) {
	v, ok := c.Get(PrincipalKey)
	if !ok {
		return nil, false
	}
	user, ok := v.(*identity.User)
	return user, ok
}

// CurrentSessionID returns the session backing this request, if any.
// Service-token requests have no session.
func CurrentSessionID(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get(SessionIDKey)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}
