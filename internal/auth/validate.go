package auth

import (
	"crypto/rand"
	"encoding/hex"
	"regexp"
	"strings"
)

var (
	emailRe      = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phoneRe      = regexp.MustCompile(`^\+?[1-9]\d{0,15}$`)
	phoneStripRe = regexp.MustCompile(`[\s\-().]`)
	jsProtoRe    = regexp.MustCompile(`(?i)javascript:`)
	eventAttrRe  = regexp.MustCompile(`(?i)on\w+=`)
)

// SanitizeInput strips characters commonly used in injection attempts
// and trims whitespace. It is a defense for free-text fields headed to
// templates; structured fields get real validation instead.
func SanitizeInput(input string) string {
	s := strings.NewReplacer("<", "", ">", "").Replace(input)
	s = jsProtoRe.ReplaceAllString(s, "")
	s = eventAttrRe.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

// ValidEmail reports whether the string looks like an email address.
func ValidEmail(email string) bool {
	return emailRe.MatchString(email)
}

// ValidPhone reports whether the string looks like a phone number,
// ignoring separators.
func ValidPhone(phone string) bool {
	return phoneRe.MatchString(phoneStripRe.ReplaceAllString(phone, ""))
}

// GenerateToken returns a random hex token for the embedded UI session.
func GenerateToken() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}
