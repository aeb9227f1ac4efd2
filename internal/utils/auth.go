package utils

import (
  "fmt"

  "golang.org/x/crypto/bcrypt"

  "github.com/skillswap-org/skillswap-backend/internal/logger"
)

func HashPassword(log *logger.Logger, password string) (string, error) {
  hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
  if err != nil {
    if log != nil {
      log.Warn("Failure to hash password. Returning error", "error", err)
    }
    return "", fmt.Errorf("Failed to hash password.")
  }
  return string(hashed), nil
}

func CheckPassword(hash, password string) error {
  return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}
