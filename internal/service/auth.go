package service

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"payswiftly/internal/config"
	"payswiftly/internal/domain"
	"payswiftly/internal/repository"
)

// AuthService handles driver password hashing and dashboard session tokens.
type AuthService struct {
	driverRepo repository.DriverRepository
	secret     []byte
	tokenTTL   time.Duration
}

// NewAuthService creates a new AuthService.
func NewAuthService(driverRepo repository.DriverRepository, cfg config.AuthConfig) *AuthService {
	return &AuthService{
		driverRepo: driverRepo,
		secret:     []byte(cfg.JWTSecret),
		tokenTTL:   cfg.TokenTTL,
	}
}

// Login verifies a driver's credentials and returns a signed token.
func (s *AuthService) Login(ctx context.Context, phone, password string) (string, *domain.Driver, error) {
	if phone == "" || password == "" {
		return "", nil, ErrInvalidCredentials
	}

	driver, err := s.driverRepo.GetByPhone(ctx, phone)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(driver.PasswordHash), truncatePassword(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.GenerateToken(driver.ID)
	if err != nil {
		return "", nil, err
	}

	return token, driver, nil
}

// GenerateToken issues a signed session token for a driver.
func (s *AuthService) GenerateToken(driverID string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   driverID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// ParseToken validates a session token and returns the driver ID it was
// issued for.
func (s *AuthService) ParseToken(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.secret, nil
	})
	if err != nil {
		return "", err
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return "", jwt.ErrTokenInvalidClaims
	}

	return claims.Subject, nil
}

// HashPassword hashes a password with bcrypt.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword(truncatePassword(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// truncatePassword keeps passwords under bcrypt's 72-byte input limit.
func truncatePassword(password string) []byte {
	b := []byte(password)
	if len(b) > 71 {
		b = b[:71]
	}
	return b
}
