package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	internalErrors "github.com/ByteCrister/bd-travel-spirit-support-system-sub000/internal"
	"github.com/ByteCrister/bd-travel-spirit-support-system-sub000/internal/core/events"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// UserRepository loads and updates operator accounts.
type UserRepository interface {
	GetByEmail(email string) (*Operator, string, error)
	GetByID(id int64) (*Operator, error)
	UpdatePassword(id int64, passwordHash string) error
}

// Service is the main auth service with dependencies
type Service struct {
	userRepo       UserRepository
	tokenGenerator TokenGenerator
	bus            *events.EventBus
	bcryptCost     int
	logger         *slog.Logger
}

// NewService creates a new auth service
func NewService(userRepo UserRepository, tokenGen TokenGenerator, bus *events.EventBus, bcryptCost int, logger *slog.Logger) *Service {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Service{
		userRepo:       userRepo,
		tokenGenerator: tokenGen,
		bus:            bus,
		bcryptCost:     bcryptCost,
		logger:         logger,
	}
}

// Authenticate validates credentials and returns tokens
func (s *Service) Authenticate(dto LoginDTO) (AuthTokens, error) {
	if err := dto.Validate(); err != nil {
		return AuthTokens{}, err
	}

	operator, storedHash, err := s.userRepo.GetByEmail(dto.Email)
	if err != nil {
		return AuthTokens{}, internalErrors.ErrInvalidCredentials
	}
	if !operator.IsActive {
		return AuthTokens{}, internalErrors.ErrUserInactive
	}

	if err := bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(dto.Password)); err != nil {
		return AuthTokens{}, internalErrors.ErrInvalidCredentials
	}

	return s.issueTokens(operator)
}

// RefreshTokens validates refresh token and returns new tokens
func (s *Service) RefreshTokens(refreshToken string) (AuthTokens, error) {
	claims, err := s.tokenGenerator.ValidateToken(refreshToken)
	if err != nil {
		return AuthTokens{}, err
	}

	id, err := strconv.ParseInt(claims.UserID, 10, 64)
	if err != nil {
		return AuthTokens{}, internalErrors.ErrInvalidToken
	}
	operator, err := s.userRepo.GetByID(id)
	if err != nil {
		return AuthTokens{}, internalErrors.ErrInvalidToken
	}
	if !operator.IsActive {
		return AuthTokens{}, internalErrors.ErrUserInactive
	}

	return s.issueTokens(operator)
}

// ValidateAccessToken validates access token and returns claims
func (s *Service) ValidateAccessToken(tokenString string) (*Claims, error) {
	return s.tokenGenerator.ValidateToken(tokenString)
}

// GetOperator loads the operator behind a validated token.
func (s *Service) GetOperator(id int64) (*Operator, error) {
	return s.userRepo.GetByID(id)
}

// ChangePassword rotates an operator's credentials and notifies them.
func (s *Service) ChangePassword(id int64, dto ChangePasswordDTO) error {
	if err := dto.Validate(); err != nil {
		return err
	}

	operator, err := s.userRepo.GetByID(id)
	if err != nil {
		return internalErrors.ErrInvalidCredentials
	}
	_, storedHash, err := s.userRepo.GetByEmail(operator.Email)
	if err != nil {
		return internalErrors.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(dto.CurrentPassword)); err != nil {
		return internalErrors.ErrInvalidCredentials
	}

	newHash, err := s.HashPassword(dto.NewPassword)
	if err != nil {
		return err
	}
	if err := s.userRepo.UpdatePassword(id, newHash); err != nil {
		return err
	}

	if s.bus != nil {
		_ = s.bus.Publish(context.Background(), events.NewCredentialsChangedEvent(operator.Email))
	}

	s.logger.Info("operator password changed", "operator_id", id)
	return nil
}

// HashPassword creates a bcrypt hash of the password
func (s *Service) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (s *Service) issueTokens(operator *Operator) (AuthTokens, error) {
	id := strconv.FormatInt(operator.ID, 10)

	accessToken, err := s.tokenGenerator.GenerateAccessToken(id, operator.Email)
	if err != nil {
		return AuthTokens{}, err
	}
	refreshToken, err := s.tokenGenerator.GenerateRefreshToken(id, operator.Email)
	if err != nil {
		return AuthTokens{}, err
	}

	return AuthTokens{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// GenerateAccessToken creates a new access token
func (j *JWTTokenGenerator) GenerateAccessToken(userID, email string) (string, error) {
	return j.sign(userID, email, j.AccessTokenTTL)
}

// GenerateRefreshToken creates a new refresh token
func (j *JWTTokenGenerator) GenerateRefreshToken(userID, email string) (string, error) {
	return j.sign(userID, email, j.RefreshTokenTTL)
}

func (j *JWTTokenGenerator) sign(userID, email string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Subject:   userID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	return token.SignedString(j.PrivateKey)
}

// ValidateToken validates a JWT token and returns claims
func (j *JWTTokenGenerator) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return j.PublicKey, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, internalErrors.ErrTokenExpired
		}
		return nil, internalErrors.ErrInvalidToken
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, internalErrors.ErrInvalidToken
}
