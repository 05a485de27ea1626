package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"boutique/internal/auth"
	"boutique/internal/config"
	"boutique/internal/model"
	"boutique/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// userService implements UserService.
type userService struct {
	userRepo repository.UserRepository
	cfg      config.AuthConfig
	logger   zerolog.Logger
}

// NewUserService creates a new user service.
func NewUserService(userRepo repository.UserRepository, cfg config.AuthConfig, logger zerolog.Logger) UserService {
	return &userService{
		userRepo: userRepo,
		cfg:      cfg,
		logger:   logger.With().Str("service", "user").Logger(),
	}
}

// Register creates a new CLIENT account and returns a signed token.
func (s *userService) Register(ctx context.Context, req *model.RegisterRequest) (*model.AuthResponse, error) {
	if err := validateRegister(req); err != nil {
		return nil, err
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to register user: %w", err)
	}
	if existing != nil {
		return nil, model.ErrEmailTaken
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to register user: %w", err)
	}

	now := time.Now()
	user := &model.User{
		ID:           uuid.New(),
		Name:         req.Name,
		Email:        email,
		Phone:        req.Phone,
		PasswordHash: hash,
		Role:         model.RoleClient,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to register user: %w", err)
	}

	s.logger.Info().Str("user_id", user.ID.String()).Msg("user registered")

	return s.issueToken(user)
}

// Login verifies credentials and returns a signed token. Unknown email and
// wrong password produce the same error so the response does not leak which
// accounts exist.
func (s *userService) Login(ctx context.Context, req *model.LoginRequest) (*model.AuthResponse, error) {
	if req.Email == "" || req.Password == "" {
		return nil, model.ErrInvalidCredentials
	}

	user, err := s.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		return nil, fmt.Errorf("failed to log in: %w", err)
	}
	if user == nil {
		return nil, model.ErrInvalidCredentials
	}

	ok, err := auth.VerifyPassword(user.PasswordHash, req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to log in: %w", err)
	}
	if !ok {
		s.logger.Warn().Str("user_id", user.ID.String()).Msg("failed login attempt")
		return nil, model.ErrInvalidCredentials
	}

	return s.issueToken(user)
}

func (s *userService) issueToken(user *model.User) (*model.AuthResponse, error) {
	token, err := auth.SignToken(user, s.cfg.JWTSecret, s.cfg.TokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}
	return &model.AuthResponse{Token: token, User: *user}, nil
}

func validateRegister(req *model.RegisterRequest) error {
	if strings.TrimSpace(req.Name) == "" {
		return model.NewDomainError(model.ErrCodeValidation, "Name is required")
	}
	if !strings.Contains(req.Email, "@") {
		return model.NewDomainError(model.ErrCodeValidation, "A valid email is required")
	}
	if len(req.Password) < 8 {
		return model.NewDomainError(model.ErrCodeValidation, "Password must be at least 8 characters")
	}
	return nil
}
