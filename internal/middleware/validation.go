package middleware

import (
	"errors"
	"unicode/utf8"

	"github.com/google/uuid"
)

// MaxMessageBytes caps inbound message size; larger payloads are
// rejected before the engine runs.
const MaxMessageBytes = 8192

// ValidateMessage validates inbound message text.
func ValidateMessage(content string) error {
	if len(content) == 0 {
		return errors.New("message cannot be empty")
	}
	if len(content) > MaxMessageBytes {
		return errors.New("message exceeds maximum length")
	}
	if !utf8.ValidString(content) {
		return errors.New("message must be valid UTF-8")
	}
	return nil
}

// ValidateSessionID validates a session identifier.
func ValidateSessionID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return errors.New("invalid session ID format")
	}
	return nil
}

// ValidateLanguageHint validates an optional BCP-47-ish language tag.
func ValidateLanguageHint(tag string) error {
	if tag == "" {
		return nil
	}
	if len(tag) > 16 {
		return errors.New("language hint exceeds maximum length")
	}
	for _, r := range tag {
		if !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r == '-') {
			return errors.New("invalid language hint")
		}
	}
	return nil
}
