package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sharikirostov/balloon-store/app/helpers"
	"github.com/sharikirostov/balloon-store/app/models"
	"github.com/sharikirostov/balloon-store/app/repositories"
	"github.com/sharikirostov/balloon-store/app/utils/logger"
	"github.com/sharikirostov/balloon-store/app/utils/metrics"
	"go.uber.org/zap"
)

const AdminTokenTTL = 7 * 24 * time.Hour

// AdminClaims is the payload of an admin bearer token.
type AdminClaims struct {
	AdminID string `json:"adminId"`
	Email   string `json:"email"`
	jwt.RegisteredClaims
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RegisterInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Name     string `json:"name" validate:"max=100"`
}

type AdminView struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

type LoginResult struct {
	Token string    `json:"token"`
	Admin AdminView `json:"admin"`
}

func viewOf(admin *models.Admin) AdminView {
	return AdminView{ID: admin.ID, Email: admin.Email, Name: admin.Name}
}

type AuthService struct {
	adminRepo repositories.AdminRepositoryImpl
	secret    []byte
	ttl       time.Duration
	now       func() time.Time
	log       *zap.Logger
}

func NewAuthService(adminRepo repositories.AdminRepositoryImpl, secret string) *AuthService {
	return &AuthService{
		adminRepo: adminRepo,
		secret:    []byte(secret),
		ttl:       AdminTokenTTL,
		now:       time.Now,
		log:       logger.GetLogger(),
	}
}

func (s *AuthService) Login(ctx context.Context, in LoginInput) (*LoginResult, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	admin, err := s.adminRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to find admin: %w", err)
	}
	if admin == nil || !helpers.PasswordCompare(admin.Password, []byte(in.Password)) {
		metrics.RecordAuthAttempt("rejected")
		s.log.Warn("admin login rejected", zap.String("email", email))
		return nil, ErrUnauthorized
	}

	token, err := s.IssueToken(admin)
	if err != nil {
		return nil, err
	}
	metrics.RecordAuthAttempt("success")
	s.log.Info("admin logged in", zap.String("admin_id", admin.ID))
	return &LoginResult{Token: token, Admin: viewOf(admin)}, nil
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*AdminView, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	existing, err := s.adminRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to find admin: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("admin %s already exists: %w", email, ErrValidation)
	}

	hash, err := helpers.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	admin := &models.Admin{Email: email, Password: hash, Name: strings.TrimSpace(in.Name)}
	if err := s.adminRepo.Create(ctx, admin); err != nil {
		return nil, fmt.Errorf("failed to create admin: %w", err)
	}
	s.log.Info("admin registered", zap.String("admin_id", admin.ID))
	view := viewOf(admin)
	return &view, nil
}

// ResetAdmin deletes any admin with the email and creates it again with the
// given password.
func (s *AuthService) ResetAdmin(ctx context.Context, in RegisterInput) (*AdminView, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if err := s.adminRepo.DeleteByEmail(ctx, email); err != nil {
		return nil, fmt.Errorf("failed to delete admin %s: %w", email, err)
	}
	return s.Register(ctx, RegisterInput{Email: email, Password: in.Password, Name: in.Name})
}

func (s *AuthService) IssueToken(admin *models.Admin) (string, error) {
	if len(s.secret) == 0 {
		return "", errors.New("admin token secret is not configured")
	}
	now := s.now()
	claims := &AdminClaims{
		AdminID: admin.ID,
		Email:   admin.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   admin.ID,
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign admin token: %w", err)
	}
	return signed, nil
}

// ValidateToken verifies signature and expiry of an admin token.
func (s *AuthService) ValidateToken(tokenString string) (*AdminClaims, error) {
	if len(s.secret) == 0 || tokenString == "" {
		return nil, ErrUnauthorized
	}
	token, err := jwt.ParseWithClaims(
		tokenString,
		&AdminClaims{},
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return s.secret, nil
		},
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}
	claims, ok := token.Claims.(*AdminClaims)
	if !ok || !token.Valid || claims.AdminID == "" {
		return nil, ErrUnauthorized
	}
	return claims, nil
}
