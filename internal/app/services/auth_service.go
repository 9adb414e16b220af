package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/dojolink/dojolink/internal/app/models"
	"github.com/dojolink/dojolink/internal/app/models/dto"
	"github.com/dojolink/dojolink/internal/pkg/apperrors"
	"github.com/dojolink/dojolink/internal/pkg/auth"
)

// AuthUserStore is the user persistence surface for registration and login.
type AuthUserStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
}

// AuthService defines authentication operations
type AuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error)
}

type authServiceImpl struct {
	users      AuthUserStore
	jwtService *auth.JWTService
	logger     zerolog.Logger
}

// NewAuthService creates a new auth service instance
func NewAuthService(users AuthUserStore, jwtService *auth.JWTService, logger zerolog.Logger) AuthService {
	return &authServiceImpl{
		users:      users,
		jwtService: jwtService,
		logger:     logger,
	}
}

// Register creates a new user account and returns a signed token
func (s *authServiceImpl) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	if !req.Role.Valid() {
		return nil, fmt.Errorf("%w: role must be instructor or student", apperrors.ErrValidationFailed)
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	exists, err := s.users.EmailExists(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("error checking email: %w", err)
	}
	if exists {
		return nil, apperrors.ErrEmailAlreadyExists
	}

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user := &models.User{
		Email:     email,
		Password:  hashed,
		Role:      req.Role,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("userId", user.ID).Str("role", string(user.Role)).Msg("User registered")

	return s.tokenResponse(user)
}

// Login authenticates a user by email and password
func (s *authServiceImpl) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		// Do not reveal whether the email exists.
		return nil, apperrors.ErrInvalidCredentials
	}

	if !auth.CheckPassword(user.Password, req.Password) {
		return nil, apperrors.ErrInvalidCredentials
	}

	return s.tokenResponse(user)
}

func (s *authServiceImpl) tokenResponse(user *models.User) (*dto.AuthResponse, error) {
	token, expiresIn, err := s.jwtService.GenerateToken(user)
	if err != nil {
		return nil, fmt.Errorf("error generating token: %w", err)
	}

	return &dto.AuthResponse{
		Success:   true,
		Token:     token,
		ExpiresIn: expiresIn,
		User: dto.UserSummary{
			ID:        user.ID,
			Email:     user.Email,
			Role:      user.Role,
			FirstName: user.FirstName,
			LastName:  user.LastName,
		},
	}, nil
}
