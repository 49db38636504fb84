package http

import (
	"crypto/subtle"
	"fmt"
	"net/http"

	"gigbook/internal/auth"
)

// handleCreateSession exchanges credentials for an API token. Repeated
// failures from one address trip the lockout.
func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	clientIP := s.detector.ExtractClientIP(r)

	if !s.attempts.Allow(clientIP) {
		retry := s.attempts.RemainingLockout(clientIP)
		w.Header().Set("Retry-After", fmt.Sprintf("%d", int(retry.Seconds())))
		writeError(w, http.StatusTooManyRequests, "too many failed attempts, try again later")
		return
	}

	p := NewRequestBodyParser(r)
	if err := p.Parse(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	email := p.Get("email")
	secret := p.Get("secret")

	if !auth.ValidEmail(email) {
		writeError(w, http.StatusBadRequest, "invalid email address")
		return
	}

	if s.sessionSecret == "" ||
		subtle.ConstantTimeCompare([]byte(secret), []byte(s.sessionSecret)) != 1 {
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	token, err := auth.GenerateToken()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	s.attempts.Reset(clientIP)
	writeJSON(w, http.StatusCreated, map[string]string{"token": token})
}
