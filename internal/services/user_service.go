package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"foodapp/internal/db"
	"foodapp/internal/models"
	"foodapp/internal/validation"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrEmailTaken         = errors.New("user with this email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found")
)

type UserService struct {
	store  db.UserStore
	logger zerolog.Logger
}

func NewUserService(store db.UserStore, logger zerolog.Logger) *UserService {
	return &UserService{
		store:  store,
		logger: logger,
	}
}

func (s *UserService) Register(ctx context.Context, req *models.SignupRequest) (*models.User, error) {
	if err := validation.ValidateSignup(req); err != nil {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error().Err(err).Msg("Error hashing password")
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now().UTC()
	account := &models.Account{
		User: models.User{
			ID:    uuid.NewString(),
			Email: strings.TrimSpace(req.Email),
			Name:  strings.TrimSpace(req.Name),
			Role:  models.UserRole(req.Role),
		},
		PasswordHash: string(hashedPassword),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.store.CreateUser(ctx, account); err != nil {
		if errors.Is(err, db.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		s.logger.Error().Err(err).Msg("Error creating user")
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info().Str("user_id", account.ID).Str("email", account.Email).Msg("User registered successfully")
	return &account.User, nil
}

func (s *UserService) Authenticate(ctx context.Context, req *models.LoginRequest) (*models.User, error) {
	if err := validation.ValidateLogin(*req); err != nil {
		return nil, err
	}

	account, err := s.store.GetUserByEmail(ctx, req.Email)
	if errors.Is(err, db.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		s.logger.Error().Err(err).Msg("Error querying user")
		return nil, fmt.Errorf("database error: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(req.Password)); err != nil {
		s.logger.Warn().Str("email", req.Email).Msg("Failed authentication attempt")
		return nil, ErrInvalidCredentials
	}

	s.logger.Info().Str("user_id", account.ID).Str("email", account.Email).Msg("User authenticated successfully")
	return &account.User, nil
}

func (s *UserService) GetUserByID(ctx context.Context, userID string) (*models.User, error) {
	account, err := s.store.GetUserByID(ctx, userID)
	if errors.Is(err, db.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("Error fetching user")
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &account.User, nil
}

// UpdateProfile changes the caller's name and email. Roles are fixed at
// signup, so a role in the patch is rejected.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, patch models.UserPatch) (*models.User, error) {
	patch.Name = strings.TrimSpace(patch.Name)
	patch.Email = strings.TrimSpace(patch.Email)
	if err := validation.ValidateProfile(patch); err != nil {
		return nil, err
	}

	account, err := s.store.GetUserByID(ctx, userID)
	if errors.Is(err, db.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("Error fetching user")
		return nil, fmt.Errorf("database error: %w", err)
	}

	account.User = patch.Apply(account.User)
	account.UpdatedAt = time.Now().UTC()
	if err := s.store.UpdateUser(ctx, account); err != nil {
		if errors.Is(err, db.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		s.logger.Error().Err(err).Str("user_id", userID).Msg("Error updating user")
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	s.logger.Info().Str("user_id", userID).Msg("Profile updated")
	return &account.User, nil
}
