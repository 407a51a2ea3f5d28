package identity

import (
	"context"

	"github.com/facilityos/backend/internal/domain/identity"
	"github.com/facilityos/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AuthService handles credential verification and ties logins to the
// session registry
type AuthService struct {
	users    identity.UserRepository
	tenants  identity.TenantRepository
	sessions *SessionService
	logger   *zap.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(
	users identity.UserRepository,
	tenants identity.TenantRepository,
	sessions *SessionService,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		users:    users,
		tenants:  tenants,
		sessions: sessions,
		logger:   logger,
	}
}

// Login verifies credentials and establishes a session. Credential
// failures are indistinguishable from unknown accounts.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	user, err := s.users.FindByEmail(ctx, input.Email)
	if err != nil {
		s.logger.Warn("Login for unknown account", zap.String("email", input.Email))
		return nil, shared.NewDomainError("INVALID_CREDENTIALS", "Invalid email or password")
	}
	if !user.CheckPassword(input.Password) {
		s.logger.Warn("Login with wrong password", zap.String("user_id", user.ID.String()))
		return nil, shared.NewDomainError("INVALID_CREDENTIALS", "Invalid email or password")
	}
	if !user.IsActive {
		return nil, shared.NewDomainError("ACCOUNT_DEACTIVATED", "Account has been deactivated")
	}

	tenant, err := s.tenants.FindByID(ctx, user.TenantID)
	if err != nil {
		return nil, err
	}
	if !tenant.IsActive {
		return nil, shared.NewDomainError("TENANT_SUSPENDED", "Tenant is not active")
	}

	sess, reused, err := s.sessions.Establish(ctx, user, input.DeviceFingerprint)
	if err != nil {
		return nil, err
	}

	return &LoginResult{
		SessionID: sess.ID,
		ExpiresAt: sess.ExpiresAt,
		Reused:    reused,
		User:      Summarize(user),
	}, nil
}

// Logout retires the presented session. Logging out twice is not an error.
func (s *AuthService) Logout(ctx context.Context, sessionID uuid.UUID) error {
	err := s.sessions.Invalidate(ctx, sessionID, shared.SessionReasonRevoked)
	if err != nil && !shared.IsDomainError(err, "NOT_FOUND") {
		return err
	}
	return nil
}

// Summarize builds the principal view returned to clients
func Summarize(user *identity.User) UserSummary {
	roles := make([]string, 0, len(user.Roles))
	for _, r := range user.Roles {
		roles = append(roles, r.Name)
	}
	return UserSummary{
		ID:          user.ID,
		TenantID:    user.TenantID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		IsAdmin:     user.IsAdmin(),
		Roles:       roles,
	}
}
