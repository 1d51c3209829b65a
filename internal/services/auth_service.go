package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ahmetcoskunkizilkaya/travel-story-backend/internal/apperror"
	"github.com/ahmetcoskunkizilkaya/travel-story-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/travel-story-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/travel-story-backend/internal/repository"
	"github.com/ahmetcoskunkizilkaya/travel-story-backend/internal/tokens"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	MsgAllFieldsRequired   = "All fields are required"
	MsgUserExists          = "User already exists"
	MsgCredentialsRequired = "Email and Password are required"
	MsgInvalidCredentials  = "Invalid credentials"
)

type AuthService struct {
	users  repository.UserRepository
	tokens *tokens.Service
	cost   int
}

func NewAuthService(users repository.UserRepository, tokenSvc *tokens.Service) *AuthService {
	return &AuthService{
		users:  users,
		tokens: tokenSvc,
		cost:   bcrypt.DefaultCost,
	}
}

// WithHashCost returns a copy using the given bcrypt cost. Tests use
// bcrypt.MinCost to keep hashing fast.
func (s *AuthService) WithHashCost(cost int) *AuthService {
	c := *s
	c.cost = cost
	return &c
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *AuthService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	fullName := strings.TrimSpace(req.FullName)
	email := normalizeEmail(req.Email)
	if fullName == "" || email == "" || req.Password == "" {
		return nil, apperror.Validation(MsgAllFieldsRequired)
	}

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, apperror.Validation(MsgUserExists)
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, apperror.Storage(err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cost)
	if err != nil {
		return nil, apperror.Storage(fmt.Errorf("failed to hash password: %w", err))
	}

	user := models.User{
		ID:       uuid.New(),
		FullName: fullName,
		Email:    email,
		Password: string(hash),
	}
	if err := s.users.Create(ctx, &user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperror.Validation(MsgUserExists)
		}
		return nil, apperror.Storage(err)
	}

	return s.authResponse(&user)
}

func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	email := normalizeEmail(req.Email)
	if email == "" || req.Password == "" {
		return nil, apperror.Validation(MsgCredentialsRequired)
	}

	user, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperror.Credentials(MsgInvalidCredentials)
	}
	if err != nil {
		return nil, apperror.Storage(err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, apperror.Credentials(MsgInvalidCredentials)
	}

	return s.authResponse(user)
}

// CurrentUser resolves the account behind an already verified token. A
// token that outlives its account is treated as unauthorized.
func (s *AuthService) CurrentUser(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperror.Unauthorized()
	}
	if err != nil {
		return nil, apperror.Storage(err)
	}
	return user, nil
}

func (s *AuthService) authResponse(user *models.User) (*dto.AuthResponse, error) {
	accessToken, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, apperror.Storage(err)
	}
	return &dto.AuthResponse{
		Error: false,
		User: dto.UserResponse{
			FullName: user.FullName,
			Email:    user.Email,
		},
		AccessToken: accessToken,
	}, nil
}
