// internal/pkg/auth/password.go
package auth

import (
	"fmt"

	"github.com/maboutique/maboutique-api/internal/config"
	"github.com/maboutique/maboutique-api/internal/pkg/apperror"
	"golang.org/x/crypto/bcrypt"
)

// bcrypt ignores everything past 72 bytes
const maxPasswordBytes = 72

// PasswordManager handles password operations
type PasswordManager struct {
	config *config.Config
}

// NewPasswordManager creates a new password manager
func NewPasswordManager(cfg *config.Config) *PasswordManager {
	return &PasswordManager{
		config: cfg,
	}
}

// HashPassword hashes a password using bcrypt
func (p *PasswordManager) HashPassword(password string) (string, error) {
	if err := p.ValidatePassword(password); err != nil {
		return "", err
	}

	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), p.cost())
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	return string(hashedBytes), nil
}

// VerifyPassword reports whether password matches the stored hash
func (p *PasswordManager) VerifyPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// ValidatePassword checks the limits bcrypt can honour
func (p *PasswordManager) ValidatePassword(password string) error {
	if password == "" {
		return apperror.NewValidation("Invalid password", map[string]string{"password": "password is required"})
	}
	if len(password) > maxPasswordBytes {
		return apperror.NewValidation("Invalid password", map[string]string{
			"password": fmt.Sprintf("password must be at most %d bytes", maxPasswordBytes),
		})
	}
	return nil
}

func (p *PasswordManager) cost() int {
	cost := p.config.Security.BcryptCost
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return bcrypt.DefaultCost
	}
	return cost
}
