package services

import (
	"context"
	"errors"

	"github.com/sanjaybaskaran1/New-gen-Churn-Prediction/shared/models"
	"github.com/sanjaybaskaran1/New-gen-Churn-Prediction/shared/utils"
)

var (
	ErrPasswordMismatch   = errors.New("passwords do not match")
	ErrUsernameTaken      = errors.New("username already exists")
	ErrInvalidCredentials = errors.New("invalid username or password")
)

// CredentialStore is the username/password table.
type CredentialStore interface {
	AddUser(ctx context.Context, username, password string) (bool, error)
	LoginUser(ctx context.Context, username, password string) (*models.User, error)
}

type AuthenticationService interface {
	SignUp(ctx context.Context, req *models.SignupRequest) (*models.SignupResponse, error)
	Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error)
}

type authenticationService struct {
	users  CredentialStore
	tokens *utils.TokenIssuer
}

func NewAuthenticationService(users CredentialStore, tokens *utils.TokenIssuer) AuthenticationService {
	return &authenticationService{users: users, tokens: tokens}
}

// ======
// SignUp
// ======
func (s *authenticationService) SignUp(ctx context.Context, req *models.SignupRequest) (*models.SignupResponse, error) {
	if req.Password != req.ConfirmPassword {
		return nil, ErrPasswordMismatch
	}

	ok, err := s.users.AddUser(ctx, req.Username, req.Password)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrUsernameTaken
	}

	user, err := s.users.LoginUser(ctx, req.Username, req.Password)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errors.New("user was not stored")
	}

	return &models.SignupResponse{
		UserID:   user.ID,
		Username: user.Username,
	}, nil
}

// =====
// Login
// =====
func (s *authenticationService) Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error) {
	user, err := s.users.LoginUser(ctx, req.Username, req.Password)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.GenerateJWT(utils.JWTUser{
		UserID:   user.ID,
		Username: user.Username,
	})
	if err != nil {
		return nil, errors.New("failed to generate access token")
	}

	return &models.LoginResponse{
		AccessToken: token,
		UserID:      user.ID,
		Username:    user.Username,
	}, nil
}
