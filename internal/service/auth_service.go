package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"time"

	"alcyxob/fitness-tracker/internal/auth"
	"alcyxob/fitness-tracker/internal/domain"

	"github.com/rs/zerolog/log"
)

// AdminCredentials is the fixed admin pair accepted before stored users are consulted.
type AdminCredentials struct {
	Enabled  bool
	Username string
	Password string
}

func (a AdminCredentials) matches(username, password string) bool {
	if !a.Enabled || a.Username == "" {
		return false
	}
	userOK := subtle.ConstantTimeCompare([]byte(a.Username), []byte(username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(a.Password), []byte(password)) == 1
	return userOK && passOK
}

// RegisterInput is the public self-registration payload. The role is always "user".
type RegisterInput struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// AuthService turns credentials into bearer tokens.
type AuthService interface {
	// Login checks the fixed admin pair first, then stored users.
	Login(ctx context.Context, username, password string) (string, error)
	// AdminLogin accepts only the fixed admin pair.
	AdminLogin(ctx context.Context, username, password string) (string, error)
	Register(ctx context.Context, in RegisterInput) (*domain.User, error)
}

// authService implements the AuthService interface.
type authService struct {
	users       UserService
	credentials CredentialPolicy
	codec       *auth.TokenCodec
	admin       AdminCredentials
	tokenTTL    time.Duration
}

// NewAuthService creates a new instance of authService.
func NewAuthService(users UserService, credentials CredentialPolicy, codec *auth.TokenCodec, admin AdminCredentials, tokenTTL time.Duration) AuthService {
	if tokenTTL <= 0 {
		tokenTTL = auth.DefaultTokenTTL
	}
	return &authService{
		users:       users,
		credentials: credentials,
		codec:       codec,
		admin:       admin,
		tokenTTL:    tokenTTL,
	}
}

func (s *authService) Login(ctx context.Context, username, password string) (string, error) {
	if username == "" || password == "" {
		return "", ErrAuthenticationFailed
	}
	if s.admin.matches(username, password) {
		return s.issue(username, domain.RoleAdmin)
	}

	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", ErrAuthenticationFailed
		}
		return "", err
	}
	if !s.credentials.Matches(user.PasswordHash, password) {
		return "", ErrAuthenticationFailed
	}

	role := user.Role
	if role == "" {
		role = domain.RoleUser
	}
	return s.issue(user.Username, role)
}

func (s *authService) AdminLogin(ctx context.Context, username, password string) (string, error) {
	if !s.admin.matches(username, password) {
		return "", ErrAuthenticationFailed
	}
	return s.issue(username, domain.RoleAdmin)
}

func (s *authService) issue(subject string, role domain.Role) (string, error) {
	token, err := s.codec.Issue(subject, string(role), s.tokenTTL)
	if err != nil {
		log.Error().Err(err).Str("subject", subject).Msg("failed to sign token")
		return "", ErrTokenGeneration
	}
	return token, nil
}

func (s *authService) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	return s.users.CreateUser(ctx, CreateUserInput{
		Username:  in.Username,
		Email:     in.Email,
		Password:  in.Password,
		Role:      domain.RoleUser,
		FirstName: in.FirstName,
		LastName:  in.LastName,
	})
}
