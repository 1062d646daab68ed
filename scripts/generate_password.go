package main

import (
	"fmt"
	"os"

	"github.com/maboutique/maboutique-api/internal/config"
	"github.com/maboutique/maboutique-api/internal/pkg/auth"
	"github.com/sirupsen/logrus"
)

// Prints a password digest with the configured bcrypt cost, for seeding accounts by hand.
func main() {
	if len(os.Args) < 2 {
		logrus.Fatal("Usage: go run scripts/generate_password.go <password>")
	}

	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}

	passwords := auth.NewPasswordManager(cfg)
	password := os.Args[1]

	hash, err := passwords.HashPassword(password)
	if err != nil {
		logrus.WithError(err).Fatal("Error generating hash")
	}

	if !passwords.VerifyPassword(password, hash) {
		logrus.Fatal("Hash verification failed")
	}

	fmt.Println(hash)
}
