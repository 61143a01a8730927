package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"

	"fitchat-backend/internal/middleware"
	"fitchat-backend/internal/models"
	"fitchat-backend/internal/repository"
)

// bcryptCost is the work factor applied to new password hashes.
const bcryptCost = 10

// userRepository is the slice of the credential store the auth flow needs.
type userRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

type AuthService struct {
	userRepo userRepository
	jwt      *middleware.JWTAuth
}

func NewAuthService(userRepo userRepository, jwt *middleware.JWTAuth) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		jwt:      jwt,
	}
}

// Signup registers a new account and signs the caller in.
//
// The existence check before the insert is a fast path only; two concurrent
// signups can both pass it. The users.email unique constraint is the
// authoritative conflict signal, so a unique violation on insert is mapped
// to the same conflict error as the fast path.
func (s *AuthService) Signup(ctx context.Context, req models.SignupRequest) (*models.AuthResponse, error) {
	if req.Email == "" || req.Password == "" {
		return nil, &ValidationError{Message: "Email and password required"}
	}

	_, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err == nil {
		return nil, &ConflictError{Message: "Email already registered"}
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Email:        req.Email,
		PasswordHash: string(hash),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, &ConflictError{Message: "Email already registered"}
		}
		return nil, err
	}

	return s.issueToken(user)
}

// Login verifies the credentials and signs the caller in. Unknown email and
// wrong password return the same error so account existence never leaks.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	if req.Email == "" || req.Password == "" {
		return nil, &ValidationError{Message: "Email and password required"}
	}

	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &UnauthorizedError{Message: "Invalid credentials"}
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, &UnauthorizedError{Message: "Invalid credentials"}
	}

	return s.issueToken(user)
}

// Logout is a stateless no-op on the server. Tokens carry their own expiry
// and there is no revocation list; the caller discards its local token.
func (s *AuthService) Logout() {}

func (s *AuthService) issueToken(user *models.User) (*models.AuthResponse, error) {
	token, err := s.jwt.GenerateToken(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	return &models.AuthResponse{
		Token: token,
		User:  user.Public(),
	}, nil
}

// Custom errors
type ValidationError struct{ Message string }

func (e *ValidationError) Error() string { return e.Message }

type ConflictError struct{ Message string }

func (e *ConflictError) Error() string { return e.Message }

type UnauthorizedError struct{ Message string }

func (e *UnauthorizedError) Error() string { return e.Message }
