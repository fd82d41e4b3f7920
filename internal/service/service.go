// Package service implements the domain operations behind the HTTP API.
// Each operation validates its input, runs against the repository.Store and,
// where it creates a notification, does so in the same transaction.
package service

import (
	"context"
	"strings"
	"unicode/utf8"

	"zestyy/internal/models"
)

// Publisher pushes realtime events to a user's live connections.
type Publisher interface {
	PublishEvent(ctx context.Context, userID, eventType string, data interface{}) error
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// validateText trims s and checks it is non-empty and at most max characters.
func validateText(field, s string, max int) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", models.NewValidationError(field + " is required")
	}
	if max > 0 && utf8.RuneCountInString(s) > max {
		return "", models.NewValidationError(field + " is too long")
	}
	return s, nil
}

func nonEmpty(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
