// Package service implements signup and login for the identity gateway.
package service

import (
	"context"
	"errors"
	"time"

	"github.com/asaskevich/govalidator"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"catalog/internal/identity/models"
	"catalog/internal/identity/store"
	"catalog/internal/jwttoken"
	dErrors "catalog/pkg/domain-errors"
	"catalog/pkg/platform/sentinel"
)

// Service orchestrates account creation and credential resolution.
type Service struct {
	users  store.UserStore
	tokens *jwttoken.Service
}

func New(users store.UserStore, tokens *jwttoken.Service) *Service {
	return &Service{users: users, tokens: tokens}
}

// Signup creates a user after checking phone uniqueness, then issues a token.
// The uniqueness guard lives in the store's atomic create, not a prior read.
func (s *Service) Signup(ctx context.Context, req models.SignupRequest) (*models.AuthResponse, error) {
	if err := validateSignup(req); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "could not hash password")
	}

	now := time.Now().UTC()
	user := &models.User{
		ID:             uuid.NewString(),
		Name:           req.Name,
		LastName:       req.LastName,
		SecondLastName: req.SecondLastName,
		Birthdate:      req.Birthdate,
		Phone:          req.Phone,
		PasswordHash:   string(hash),
		Status:         models.UserStatusActive,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, sentinel.ErrAlreadyUsed) {
			return nil, dErrors.New(dErrors.CodeConflict, "this user already exists")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create user")
	}

	return s.authResponse(user)
}

// Login resolves credentials against active, non-deleted users only. A
// missing user and a wrong password are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	if req.Username == "" || req.Password == "" {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid credentials")
	}

	user, err := s.users.FindActiveByPhone(ctx, req.Username)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid credentials")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to resolve user")
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid credentials")
	}

	return s.authResponse(user)
}

func (s *Service) authResponse(user *models.User) (*models.AuthResponse, error) {
	token, err := s.tokens.GenerateToken(user.ID, jwttoken.Profile{
		Name:     user.Name,
		LastName: user.LastName,
		Phone:    user.Phone,
	})
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to issue token")
	}
	return &models.AuthResponse{User: user.Public(), Token: token}, nil
}

func validateSignup(req models.SignupRequest) error {
	required := []struct {
		value string
		field string
	}{
		{req.Name, "name"},
		{req.LastName, "lastName"},
		{req.SecondLastName, "secondLastName"},
		{req.Phone, "phone"},
		{req.Password, "password"},
	}
	for _, f := range required {
		if !govalidator.StringLength(f.value, "1", "255") {
			return dErrors.New(dErrors.CodeBadRequest, f.field+" must not be empty")
		}
	}
	return nil
}
