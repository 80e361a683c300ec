// internal/service/auth_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/gurkanbulca/workdesk/internal/models"
	"github.com/gurkanbulca/workdesk/internal/repository"
	"github.com/gurkanbulca/workdesk/pkg/auth"
)

// Session is what a successful login or refresh hands back. The refresh token
// travels in a cookie, never in a JSON body.
type Session struct {
	AccessToken      string          `json:"accessToken"`
	RefreshToken     string          `json:"-"`
	ExpiresIn        int64           `json:"expiresIn"`
	RefreshExpiresAt time.Time       `json:"-"`
	Profile          *models.Profile `json:"user,omitempty"`
}

// RegisterInput holds the fields of a registration.
type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthService struct {
	accounts        *repository.AccountRepository
	tokenManager    *auth.TokenManager
	passwordManager *auth.PasswordManager
	securityLogger  *SecurityLogger
}

// NewAuthService creates a new authentication service
func NewAuthService(
	accounts *repository.AccountRepository,
	tokenManager *auth.TokenManager,
	passwordManager *auth.PasswordManager,
	securityLogger *SecurityLogger,
) *AuthService {
	return &AuthService{
		accounts:        accounts,
		tokenManager:    tokenManager,
		passwordManager: passwordManager,
		securityLogger:  securityLogger,
	}
}

// Register creates a new account and returns its id
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (uuid.UUID, error) {
	name := strings.TrimSpace(in.Name)
	email := normalizeEmail(in.Email)

	if name == "" {
		return uuid.Nil, invalid("name", "is required")
	}
	if email == "" {
		return uuid.Nil, invalid("email", "is required")
	}
	if err := auth.ValidateEmail(email); err != nil {
		return uuid.Nil, invalid("email", err.Error())
	}
	if err := s.passwordManager.ValidatePassword(in.Password); err != nil {
		return uuid.Nil, invalid("password", err.Error())
	}

	exists, err := s.accounts.ExistsByEmail(ctx, email)
	if err != nil {
		return uuid.Nil, fmt.Errorf("check account existence: %w", err)
	}
	if exists {
		return uuid.Nil, ErrDuplicateEmail
	}

	hash, err := s.passwordManager.HashPassword(in.Password)
	if err != nil {
		return uuid.Nil, err
	}

	account, err := s.accounts.Create(ctx, name, email, hash)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return uuid.Nil, ErrDuplicateEmail
		}
		return uuid.Nil, fmt.Errorf("create account: %w", err)
	}

	s.securityLogger.LogRegistered(ctx, account.ID)
	return account.ID, nil
}

// Login authenticates an account and issues a new session
func (s *AuthService) Login(ctx context.Context, email, password string) (*Session, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	account, err := s.accounts.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.passwordManager.BurnComparison(password)
			s.securityLogger.LogLoginFailed(ctx, uuid.Nil, email, "unknown email")
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("find account: %w", err)
	}

	if err := s.passwordManager.ComparePassword(account.PasswordHash, password); err != nil {
		s.securityLogger.LogLoginFailed(ctx, account.ID, email, "wrong password")
		return nil, ErrInvalidCredentials
	}

	session, err := s.issueSession(account)
	if err != nil {
		return nil, err
	}

	s.securityLogger.LogLoginSuccess(ctx, account.ID)
	return session, nil
}

// Refresh exchanges a refresh token for a new session. The refresh token is
// rotated on every call; the old one stays valid until it expires.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*Session, error) {
	if refreshToken == "" {
		return nil, ErrUnauthenticated
	}

	subject, err := s.tokenManager.Decode(refreshToken, auth.RefreshToken)
	if err != nil {
		s.securityLogger.LogRefreshRejected(ctx, uuid.Nil, err.Error())
		return nil, fmt.Errorf("%w: %v", ErrForbidden, err)
	}

	accountID, err := uuid.Parse(subject)
	if err != nil {
		s.securityLogger.LogRefreshRejected(ctx, uuid.Nil, "invalid subject")
		return nil, fmt.Errorf("%w: invalid subject", ErrForbidden)
	}

	account, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.securityLogger.LogRefreshRejected(ctx, uuid.Nil, "account no longer exists")
			return nil, fmt.Errorf("%w: account no longer exists", ErrForbidden)
		}
		return nil, fmt.Errorf("find account: %w", err)
	}

	session, err := s.issueSession(account)
	if err != nil {
		return nil, err
	}

	s.securityLogger.LogTokenRefreshed(ctx, account.ID)
	return session, nil
}

// Logout is idempotent. There is nothing to revoke server side; a decodable
// token only adds an audit record.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	subject, err := s.tokenManager.Decode(refreshToken, auth.RefreshToken)
	if err != nil {
		return nil
	}
	if accountID, err := uuid.Parse(subject); err == nil {
		s.securityLogger.LogLogout(ctx, accountID)
	}
	return nil
}

// WhoAmI resolves an access token to the caller's profile
func (s *AuthService) WhoAmI(ctx context.Context, accessToken string) (*models.Profile, error) {
	if accessToken == "" {
		return nil, ErrUnauthenticated
	}

	subject, err := s.tokenManager.Decode(accessToken, auth.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnauthenticated, err)
	}

	accountID, err := uuid.Parse(subject)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid subject", ErrUnauthenticated)
	}

	account, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	profile := account.Profile()
	return &profile, nil
}

func (s *AuthService) issueSession(account *models.Account) (*Session, error) {
	subject := account.ID.String()

	accessToken, _, err := s.tokenManager.Encode(subject, auth.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("issue access token: %w", err)
	}

	refreshToken, refreshExpiresAt, err := s.tokenManager.Encode(subject, auth.RefreshToken)
	if err != nil {
		return nil, fmt.Errorf("issue refresh token: %w", err)
	}

	profile := account.Profile()
	return &Session{
		AccessToken:      accessToken,
		RefreshToken:     refreshToken,
		ExpiresIn:        int64(s.tokenManager.Duration(auth.AccessToken).Seconds()),
		RefreshExpiresAt: refreshExpiresAt,
		Profile:          &profile,
	}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
