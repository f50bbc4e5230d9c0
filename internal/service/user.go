package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/Shivanand-hulikatti/autolease/internal/model"
	"go.uber.org/zap"
)

const minPasswordLength = 8

// PasswordHasher hashes and verifies passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) bool
}

// TokenIssuer signs access tokens for users.
type TokenIssuer interface {
	Generate(u *model.User, now time.Time) (string, time.Time, error)
}

// UserService registers and authenticates users.
type UserService struct {
	users  UserStore
	hasher PasswordHasher
	tokens TokenIssuer
	clock  model.Clock
	log    *zap.Logger
}

// NewUserService constructs a UserService with its dependencies.
func NewUserService(users UserStore, hasher PasswordHasher, tokens TokenIssuer, clock model.Clock, log *zap.Logger) *UserService {
	return &UserService{users: users, hasher: hasher, tokens: tokens, clock: clock, log: log.Named("users")}
}

// Register creates an account and signs the caller in.
func (s *UserService) Register(ctx context.Context, req model.RegisterRequest) (*model.AuthResponse, error) {
	if utf8.RuneCountInString(req.Password) < minPasswordLength {
		return nil, &model.ValidationError{Field: "password", Message: fmt.Sprintf("must be at least %d characters", minPasswordLength)}
	}
	role, err := model.ParseRole(req.Role)
	if err != nil {
		return nil, err
	}
	now := s.clock.Now()
	// Reject a bad profile before hashing.
	probe, err := model.NewUser(req.Email, req.FirstName, req.LastName, role, "", now)
	if err != nil {
		return nil, err
	}
	taken, err := s.users.EmailExists(ctx, probe.Email())
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, model.ErrEmailTaken
	}
	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, err
	}
	user, err := model.NewUser(req.Email, req.FirstName, req.LastName, role, hash, now)
	if err != nil {
		return nil, err
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	s.log.Info("user registered", zap.String("user_id", user.ID()), zap.String("role", string(role)))
	return s.issue(user, now)
}

// Login verifies credentials. Unknown emails and wrong passwords fail alike.
func (s *UserService) Login(ctx context.Context, req model.LoginRequest) (*model.AuthResponse, error) {
	user, err := s.users.GetByEmail(ctx, strings.TrimSpace(req.Email))
	if errors.Is(err, model.ErrNotFound) {
		return nil, model.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !s.hasher.Compare(user.PasswordHash(), req.Password) {
		return nil, model.ErrInvalidCredentials
	}
	return s.issue(user, s.clock.Now())
}

// GetUser returns a single user by ID.
func (s *UserService) GetUser(ctx context.Context, id string) (*model.User, error) {
	return s.users.GetByID(ctx, id)
}

// ListUsers returns all users, or only those with role when it is non-empty.
func (s *UserService) ListUsers(ctx context.Context, role string) ([]*model.User, error) {
	if role == "" {
		return s.users.List(ctx)
	}
	r, err := model.ParseRole(role)
	if err != nil {
		return nil, err
	}
	return s.users.ListByRole(ctx, r)
}

// UpdateProfile renames a user.
func (s *UserService) UpdateProfile(ctx context.Context, id string, req model.ProfileRequest) (*model.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := user.UpdateProfile(req.FirstName, req.LastName, s.clock.Now()); err != nil {
		return nil, err
	}
	if err := s.users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	return user, nil
}

func (s *UserService) issue(u *model.User, now time.Time) (*model.AuthResponse, error) {
	token, expires, err := s.tokens.Generate(u, now)
	if err != nil {
		return nil, err
	}
	return &model.AuthResponse{Token: token, ExpiresAt: expires, User: u.Snapshot()}, nil
}
