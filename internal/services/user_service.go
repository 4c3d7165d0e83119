package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"rental-booking/internal/models"
	"rental-booking/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

type UserService struct {
	store  *repository.Store
	logger zerolog.Logger
}

func NewUserService(store *repository.Store, logger zerolog.Logger) *UserService {
	return &UserService{
		store:  store,
		logger: logger,
	}
}

// Register creates a user account. New accounts always get the user role.
func (s *UserService) Register(ctx context.Context, req *models.RegisterRequest) (*models.User, error) {
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	return s.create(ctx, req.Username, req.Email, req.Password, models.RoleUser)
}

func (s *UserService) create(ctx context.Context, username, email, password string, role models.UserRole) (*models.User, error) {
	exists, err := s.store.Users.ExistsByEmailOrUsername(ctx, email, username)
	if err != nil {
		s.logger.Error().Err(err).Msg("Error checking existing user")
		return nil, fmt.Errorf("%w: database error", ErrInternal)
	}
	if exists {
		return nil, fmt.Errorf("%w: user with this email or username already exists", ErrConflict)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error().Err(err).Msg("Error hashing password")
		return nil, fmt.Errorf("%w: failed to hash password", ErrInternal)
	}

	now := time.Now().UTC()
	user := &models.User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        email,
		PasswordHash: string(hashedPassword),
		Role:         string(role),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	err = s.store.Users.Create(ctx, user)
	if errors.Is(err, repository.ErrDuplicate) {
		// Lost a race with a concurrent registration for the same identity.
		return nil, fmt.Errorf("%w: user with this email or username already exists", ErrConflict)
	}
	if err != nil {
		s.logger.Error().Err(err).Msg("Error creating user")
		return nil, fmt.Errorf("%w: failed to create user", ErrInternal)
	}

	s.logger.Info().Str("user_id", user.ID).Str("email", user.Email).Str("role", user.Role).Msg("User registered")
	return user, nil
}

// Authenticate checks an email and password pair. Unknown email and wrong
// password fail the same way.
func (s *UserService) Authenticate(ctx context.Context, req *models.LoginRequest) (*models.User, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := s.store.Users.GetByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("%w: invalid credentials", ErrUnauthorized)
	}
	if err != nil {
		s.logger.Error().Err(err).Msg("Error querying user")
		return nil, fmt.Errorf("%w: database error", ErrInternal)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		s.logger.Warn().Str("email", email).Msg("Failed authentication attempt")
		return nil, fmt.Errorf("%w: invalid credentials", ErrUnauthorized)
	}

	s.logger.Info().Str("user_id", user.ID).Msg("User authenticated")
	return user, nil
}

func (s *UserService) GetUserByID(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.store.Users.GetByID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("%w: user not found", ErrNotFound)
	}
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("Error fetching user")
		return nil, fmt.Errorf("%w: database error", ErrInternal)
	}
	return user, nil
}

// EnsureAdmin seeds an admin account if no user with that email exists yet.
// There is no endpoint that elevates a role, so this is the only way in.
func (s *UserService) EnsureAdmin(ctx context.Context, username, email, password string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	existing, err := s.store.Users.GetByEmail(ctx, email)
	if err == nil {
		if existing.Role != string(models.RoleAdmin) {
			s.logger.Warn().Str("email", email).Msg("Seed admin email belongs to a non-admin account")
		}
		return existing, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		s.logger.Error().Err(err).Msg("Error looking up seed admin")
		return nil, fmt.Errorf("%w: database error", ErrInternal)
	}

	req := &models.RegisterRequest{Username: username, Email: email, Password: password}
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	return s.create(ctx, req.Username, req.Email, req.Password, models.RoleAdmin)
}
