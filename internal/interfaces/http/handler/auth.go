package handler

import (
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"time"

	identityapp "github.com/facilityos/backend/internal/application/identity"
	"github.com/facilityos/backend/internal/infrastructure/config"
	"github.com/facilityos/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// DeviceFingerprintHeader lets clients present a stable device identifier.
// Requests without it fall back to a digest of the user agent and client IP.
const DeviceFingerprintHeader = "X-Device-Fingerprint"

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	BaseHandler
	auth    *identityapp.AuthService
	cookies config.CookieConfig
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(auth *identityapp.AuthService, cookies config.CookieConfig) *AuthHandler {
	return &AuthHandler{
		auth:    auth,
		cookies: cookies,
	}
}

// LoginRequest represents a login request
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login verifies credentials, establishes a session, and sets the session
// cookie. Unknown accounts and wrong passwords produce the same response.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	result, err := h.auth.Login(c.Request.Context(), identityapp.LoginInput{
		Email:             req.Email,
		Password:          req.Password,
		DeviceFingerprint: deviceFingerprint(c),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.setSessionCookie(c, result.SessionID.String(), time.Until(result.ExpiresAt))
	h.Success(c, result)
}

// Logout retires the current session and clears the cookie. Logging out an
// already-retired session succeeds.
func (h *AuthHandler) Logout(c *gin.Context) {
	sessionID, ok := middleware.CurrentSessionID(c)
	if !ok {
		h.BadRequest(c, "No session to log out")
		return
	}

	if err := h.auth.Logout(c.Request.Context(), sessionID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.setSessionCookie(c, "", -time.Hour)
	h.NoContent(c)
}

// Me returns the authenticated principal
func (h *AuthHandler) Me(c *gin.Context) {
	user, ok := h.principal(c)
	if !ok {
		return
	}
	h.Success(c, identityapp.Summarize(user))
}

func (h *AuthHandler) setSessionCookie(c *gin.Context, value string, ttl time.Duration) {
	switch h.cookies.SameSite {
	case "strict":
		c.SetSameSite(http.SameSiteStrictMode)
	case "none":
		c.SetSameSite(http.SameSiteNoneMode)
	default:
		c.SetSameSite(http.SameSiteLaxMode)
	}
	path := h.cookies.Path
	if path == "" {
		path = "/"
	}
	c.SetCookie(h.cookies.Name, value, int(ttl.Seconds()), path, h.cookies.Domain, h.cookies.Secure, true)
}

// deviceFingerprint identifies the device presenting credentials. The
// client-presented header wins; otherwise the fingerprint is derived from
// what the transport reveals about the device.
func deviceFingerprint(c *gin.Context) string {
	if fp := c.GetHeader(DeviceFingerprintHeader); fp != "" {
		return fp
	}
	sum := sha256.Sum256([]byte(c.Request.UserAgent() + "|" + c.ClientIP()))
	return hex.EncodeToString(sum[:16])
}
