// internal/domain/user/service.go
package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/maboutique/maboutique-api/internal/config"
	"github.com/maboutique/maboutique-api/internal/infrastructure/database"
	"github.com/maboutique/maboutique-api/internal/pkg/apperror"
	"github.com/maboutique/maboutique-api/internal/pkg/auth"
	"gorm.io/gorm"
)

// Service handles account business logic
type Service struct {
	db              *gorm.DB
	passwordManager *auth.PasswordManager
	jwtManager      *auth.JWTManager
}

// NewService creates a new user service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:              db,
		passwordManager: auth.NewPasswordManager(cfg),
		jwtManager:      auth.NewJWTManager(cfg),
	}
}

// SignupRequest represents user registration data
type SignupRequest struct {
	Username string  `json:"username" binding:"required,min=3,max=50"`
	Email    string  `json:"email" binding:"required,email,max=255"`
	Password string  `json:"password" binding:"required,max=72"`
	FullName *string `json:"full_name" binding:"omitempty,max=100"`
	Phone    *string `json:"phone" binding:"omitempty,max=20"`
}

// LoginRequest represents user login data, sent as JSON or as an OAuth2 password form
type LoginRequest struct {
	Username string `json:"username" form:"username" binding:"required"`
	Password string `json:"password" form:"password" binding:"required"`
}

// TokenResponse is returned by signup and login
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	User        *User  `json:"user"`
}

// Signup creates a new account and issues its first token
func (s *Service) Signup(ctx context.Context, req *SignupRequest) (*TokenResponse, error) {
	db := database.FromContext(ctx, s.db)

	username := strings.TrimSpace(req.Username)
	email := strings.ToLower(strings.TrimSpace(req.Email))

	var count int64
	if err := db.Model(&User{}).
		Where("username = ? OR email = ?", username, email).
		Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed to check existing users: %w", err)
	}
	if count > 0 {
		return nil, apperror.NewConflict("Email or username already registered")
	}

	hashedPassword, err := s.passwordManager.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := User{
		Username: username,
		Email:    email,
		Password: hashedPassword,
		FullName: req.FullName,
		Phone:    req.Phone,
		IsActive: true,
	}

	if err := db.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperror.NewConflict("Email or username already registered")
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return s.issueToken(&user)
}

// Login verifies credentials and issues a token
func (s *Service) Login(ctx context.Context, req *LoginRequest) (*TokenResponse, error) {
	var user User
	err := database.FromContext(ctx, s.db).
		Where("username = ?", strings.TrimSpace(req.Username)).
		First(&user).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if err != nil || !s.passwordManager.VerifyPassword(req.Password, user.Password) {
		return nil, apperror.NewUnauthenticated("Incorrect username or password", nil)
	}

	if !user.IsActive {
		return nil, apperror.NewBadRequest("Inactive user")
	}

	return s.issueToken(&user)
}

// GetByUsername returns the account a token subject refers to
func (s *Service) GetByUsername(ctx context.Context, username string) (*User, error) {
	var user User
	err := database.FromContext(ctx, s.db).Where("username = ?", username).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NewNotFound("User not found")
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return &user, nil
}

// Authenticate resolves a bearer token to its user
func (s *Service) Authenticate(ctx context.Context, token string) (*User, error) {
	username, err := s.jwtManager.VerifyToken(token)
	if err != nil {
		return nil, err
	}
	return s.GetByUsername(ctx, username)
}

func (s *Service) issueToken(user *User) (*TokenResponse, error) {
	accessToken, err := s.jwtManager.GenerateAccessToken(user.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	return &TokenResponse{
		AccessToken: accessToken,
		TokenType:   auth.TokenType,
		User:        user,
	}, nil
}
