package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/authgate/authgate/internal/domain"
	"github.com/authgate/authgate/internal/store"
	"github.com/authgate/authgate/pkg/cryptox"
	"github.com/authgate/authgate/pkg/idx"
	"github.com/authgate/authgate/pkg/jwtx"
	"github.com/authgate/authgate/pkg/slogx"
	"golang.org/x/sync/semaphore"
)

var (
	ErrInvalidCredentials = errors.New("invalid_credentials")
	ErrDuplicateEmail     = errors.New("duplicate_email")
	ErrNotFound           = errors.New("not_found")
	ErrInvalidInput       = errors.New("invalid_input")
)

const (
	// DefaultHashWorkers bounds concurrent Argon2id computations so expensive
	// hashing cannot starve cheap token verification.
	DefaultHashWorkers = 4

	// directoryTimeout caps every directory round-trip; lookups are the only
	// I/O-suspending points in the flow.
	directoryTimeout = 5 * time.Second
)

// AuthService orchestrates registration, login, lookup, and removal against
// the user directory.
type AuthService struct {
	Store  store.Store
	Signer *jwtx.HS256Signer

	hashSlots *semaphore.Weighted
}

// NewAuthService wires an AuthService with a hashing pool of the given size.
// A non-positive size falls back to DefaultHashWorkers.
func NewAuthService(st store.Store, signer *jwtx.HS256Signer, hashWorkers int64) *AuthService {
	if hashWorkers <= 0 {
		hashWorkers = DefaultHashWorkers
	}
	return &AuthService{
		Store:     st,
		Signer:    signer,
		hashSlots: semaphore.NewWeighted(hashWorkers),
	}
}

// Register creates a new user and immediately logs them in, returning the
// sanitized identity and a fresh session token. A taken email yields
// ErrDuplicateEmail; the existing record is untouched.
func (s *AuthService) Register(ctx context.Context, email, password, name string) (domain.User, string, error) {
	l := slogx.FromContext(ctx)

	if email == "" || password == "" {
		return domain.User{}, "", ErrInvalidInput
	}

	// 1. Hash the password inside the bounded pool.
	hash, err := s.hashPassword(ctx, password)
	if err != nil {
		return domain.User{}, "", fmt.Errorf("hash password: %w", err)
	}

	// 2. Insert; the directory's unique index on email is the atomic
	// uniqueness check.
	user := domain.User{
		ID:           idx.New().String(),
		Email:        email,
		Name:         name,
		PasswordHash: hash,
	}

	dctx, cancel := context.WithTimeout(ctx, directoryTimeout)
	defer cancel()
	if err := s.Store.Users().CreateUser(dctx, user); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			l.Info("registration rejected, email taken", slog.String("email", email))
			return domain.User{}, "", ErrDuplicateEmail
		}
		return domain.User{}, "", fmt.Errorf("create user: %w", err)
	}

	l.Info("user registered", slog.String("user_id", user.ID))

	// 3. Registration implies auto-login with the same credentials.
	return s.Login(ctx, email, password)
}

// Login authenticates email/password credentials and issues a session token.
// Unknown email and wrong password both return ErrInvalidCredentials so
// callers cannot probe which emails exist.
func (s *AuthService) Login(ctx context.Context, email, password string) (domain.User, string, error) {
	l := slogx.FromContext(ctx)

	if email == "" || password == "" {
		return domain.User{}, "", ErrInvalidCredentials
	}

	dctx, cancel := context.WithTimeout(ctx, directoryTimeout)
	defer cancel()
	user, err := s.Store.Users().GetUserByEmail(dctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, "", ErrInvalidCredentials
		}
		return domain.User{}, "", fmt.Errorf("lookup user: %w", err)
	}

	if err := s.verifyPassword(ctx, password, user.PasswordHash); err != nil {
		l.Info("login rejected", slog.String("user_id", user.ID))
		return domain.User{}, "", ErrInvalidCredentials
	}

	token, err := s.Signer.Sign(user.ID, time.Now())
	if err != nil {
		return domain.User{}, "", fmt.Errorf("sign token: %w", err)
	}

	return user.Sanitize(), token, nil
}

// FindByEmail returns the sanitized user with the given email.
func (s *AuthService) FindByEmail(ctx context.Context, email string) (domain.User, error) {
	dctx, cancel := context.WithTimeout(ctx, directoryTimeout)
	defer cancel()

	user, err := s.Store.Users().GetUserByEmail(dctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, ErrNotFound
		}
		return domain.User{}, fmt.Errorf("lookup user: %w", err)
	}
	return user.Sanitize(), nil
}

// FindByID returns the sanitized user with the given id. The guard uses this
// to resolve token subjects.
func (s *AuthService) FindByID(ctx context.Context, id string) (domain.User, error) {
	dctx, cancel := context.WithTimeout(ctx, directoryTimeout)
	defer cancel()

	user, err := s.Store.Users().GetUserByID(dctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, ErrNotFound
		}
		return domain.User{}, fmt.Errorf("lookup user: %w", err)
	}
	return user.Sanitize(), nil
}

// Remove deletes the user with the given email. Zero matched rows yield
// ErrNotFound, so a second removal of the same email fails.
func (s *AuthService) Remove(ctx context.Context, email string) error {
	l := slogx.FromContext(ctx)

	dctx, cancel := context.WithTimeout(ctx, directoryTimeout)
	defer cancel()
	if err := s.Store.Users().DeleteUserByEmail(dctx, email); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("delete user: %w", err)
	}

	l.Info("user removed", slog.String("email", email))
	return nil
}

// List returns all users, sanitized.
func (s *AuthService) List(ctx context.Context) ([]domain.User, error) {
	dctx, cancel := context.WithTimeout(ctx, directoryTimeout)
	defer cancel()

	users, err := s.Store.Users().ListUsers(dctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	out := make([]domain.User, 0, len(users))
	for _, u := range users {
		out = append(out, u.Sanitize())
	}
	return out, nil
}

// hashPassword runs Argon2id inside the bounded pool so a burst of
// registrations cannot monopolize CPU.
func (s *AuthService) hashPassword(ctx context.Context, password string) (string, error) {
	if err := s.hashSlots.Acquire(ctx, 1); err != nil {
		return "", err
	}
	defer s.hashSlots.Release(1)

	return cryptox.HashPassword(password)
}

func (s *AuthService) verifyPassword(ctx context.Context, password, hash string) error {
	if err := s.hashSlots.Acquire(ctx, 1); err != nil {
		return err
	}
	defer s.hashSlots.Release(1)

	return cryptox.VerifyPassword(password, hash)
}
