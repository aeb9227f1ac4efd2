package utils

import (
  "strings"
)

func ParseInputString(s string) string {
  return strings.TrimSpace(s)
}

func ParseInputStringPtr(s *string) *string {
  if s == nil {
    return nil
  }
  trimmed := strings.TrimSpace(*s)
  return &trimmed
}

// NormalizeEmail trims and lowercases so lookups and unique indexes agree on
// one canonical form.
func NormalizeEmail(email string) string {
  return strings.ToLower(strings.TrimSpace(email))
}
