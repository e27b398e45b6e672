package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"bookstore-web/clients"
	"bookstore-web/models"
	aws_pkg "bookstore-web/pkg/aws"

	"github.com/golang-jwt/jwt/v4"
	"go.uber.org/zap"
)

// DefaultTokenLifetime applies when the backend token carries no expiry.
const DefaultTokenLifetime = 24 * time.Hour

type AuthBackend interface {
	Login(ctx context.Context, usernameOrEmail, password string) (*clients.LoginResult, error)
	Register(ctx context.Context, in clients.RegisterInput) error
	Me(ctx context.Context, token string) (*models.User, error)
}

// SignedIn is what the web layer stores in the session after a login.
type SignedIn struct {
	Token     string
	User      models.User
	ExpiresAt time.Time
}

type AuthService interface {
	Login(ctx context.Context, form models.LoginForm) (*SignedIn, *ServiceError)
	Register(ctx context.Context, form models.RegisterForm) *ServiceError
	Refresh(ctx context.Context, token string) (*models.User, *ServiceError)
}

type authServiceImpl struct {
	backend   AuthBackend
	jwtSecret []byte
	metrics   Counter
	logger    *zap.Logger
	now       func() time.Time
}

// NewAuthService creates an AuthService. With an empty jwtSecret backend
// tokens are parsed without verifying their signature.
func NewAuthService(backend AuthBackend, jwtSecret string, metrics Counter, logger *zap.Logger) AuthService {
	return &authServiceImpl{
		backend:   backend,
		jwtSecret: []byte(jwtSecret),
		metrics:   metrics,
		logger:    logger,
		now:       time.Now,
	}
}

func (s *authServiceImpl) Login(ctx context.Context, form models.LoginForm) (*SignedIn, *ServiceError) {
	form.Login = strings.TrimSpace(form.Login)
	if serr := validateForm(form); serr != nil {
		return nil, serr
	}

	res, err := s.backend.Login(ctx, form.Login, form.Password)
	if err != nil {
		count(s.metrics, aws_pkg.MetricLoginFailures)
		var apiErr *clients.APIError
		if errors.As(err, &apiErr) && (apiErr.IsUnauthorized() || apiErr.Status == http.StatusBadRequest) {
			return nil, &ServiceError{StatusCode: http.StatusUnauthorized, Message: "Invalid email or password"}
		}
		s.logger.Warn("Login failed", zap.Error(err))
		return nil, fromBackend(err, "Failed to sign in")
	}
	if res.Token == "" {
		s.logger.Error("Backend login returned no token", zap.Int64("user_id", res.User.ID))
		return nil, &ServiceError{StatusCode: http.StatusBadGateway, Message: "Failed to sign in"}
	}

	expiresAt, err := s.tokenExpiry(res.Token)
	if err != nil {
		s.logger.Warn("Rejected backend token", zap.Error(err))
		return nil, &ServiceError{StatusCode: http.StatusUnauthorized, Message: "Invalid session token"}
	}

	s.logger.Info("User signed in", zap.Int64("user_id", res.User.ID), zap.String("role", string(res.User.Role)))
	return &SignedIn{Token: res.Token, User: res.User, ExpiresAt: expiresAt}, nil
}

func (s *authServiceImpl) Register(ctx context.Context, form models.RegisterForm) *ServiceError {
	form.Name = strings.TrimSpace(form.Name)
	form.Email = strings.TrimSpace(form.Email)
	if serr := validateForm(form); serr != nil {
		return serr
	}

	err := s.backend.Register(ctx, clients.RegisterInput{Name: form.Name, Email: form.Email, Password: form.Password})
	if err != nil {
		s.logger.Warn("Registration failed", zap.String("email", form.Email), zap.Error(err))
		return fromBackend(err, "Failed to create your account")
	}

	s.logger.Info("User registered", zap.String("email", form.Email))
	return nil
}

// Refresh reloads the signed-in user. A rejected token ends the session.
func (s *authServiceImpl) Refresh(ctx context.Context, token string) (*models.User, *ServiceError) {
	user, err := s.backend.Me(ctx, token)
	if err != nil {
		return nil, fromBackend(err, "Failed to load your account")
	}
	return user, nil
}

// tokenExpiry reads the exp claim of a backend JWT. Opaque tokens and tokens
// without exp get DefaultTokenLifetime.
func (s *authServiceImpl) tokenExpiry(token string) (time.Time, error) {
	claims := &jwt.RegisteredClaims{}

	if len(s.jwtSecret) > 0 {
		_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return s.jwtSecret, nil
		})
		if err != nil {
			return time.Time{}, err
		}
	} else if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return s.now().Add(DefaultTokenLifetime), nil
	}

	if claims.ExpiresAt == nil {
		return s.now().Add(DefaultTokenLifetime), nil
	}
	return claims.ExpiresAt.Time, nil
}
