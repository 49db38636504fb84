// Package http provides the HTTP server and handler implementations.
//
// This file implements utilities for parsing and validating HTTP request
// data. Bodies arrive as JSON from the API clients or form-encoded from
// the dashboard page; both feed the same accessors.
package http

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"gigbook/internal/auth"
	"gigbook/internal/core"
)

const maxBodySize = 1 << 20 // 1 MiB

// RequestBodyParser reads the body once and answers typed lookups.
type RequestBodyParser struct {
	body     []byte
	jsonData map[string]interface{}
	formData url.Values
	parsed   bool
	err      error
}

func NewRequestBodyParser(r *http.Request) *RequestBodyParser {
	p := &RequestBodyParser{}
	p.body, p.err = io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	return p
}

// Parse attempts to parse the body as JSON or form data.
func (p *RequestBodyParser) Parse() error {
	if p.parsed {
		return p.err
	}
	p.parsed = true

	if p.err != nil {
		return p.err
	}

	if len(p.body) == 0 {
		p.formData = url.Values{}
		return nil
	}

	// Try JSON first if content looks like JSON
	if p.body[0] == '{' {
		p.jsonData = make(map[string]interface{})
		if err := json.Unmarshal(p.body, &p.jsonData); err != nil {
			p.err = err
			return err
		}
		return nil
	}

	// Fall back to form parsing
	p.formData, p.err = url.ParseQuery(string(p.body))
	return p.err
}

// Get returns a sanitized string value from the parsed data.
func (p *RequestBodyParser) Get(key string) string {
	if p.jsonData != nil {
		if val, ok := p.jsonData[key]; ok {
			return strings.TrimSpace(auth.SanitizeInput(stringValue(val)))
		}
	}
	if p.formData != nil {
		return strings.TrimSpace(auth.SanitizeInput(p.formData.Get(key)))
	}
	return ""
}

// GetOr returns the value for key, or fallback when absent.
func (p *RequestBodyParser) GetOr(key, fallback string) string {
	if v := p.Get(key); v != "" {
		return v
	}
	return fallback
}

// GetMoney parses a decimal amount ("450.00" or "450,00") into cents.
func (p *RequestBodyParser) GetMoney(key string) (core.Money, error) {
	raw := p.Get(key)
	if raw == "" {
		return core.Money{}, nil
	}
	cents, err := core.ParseDecimalToCents(raw)
	if err != nil {
		return core.Money{}, fmt.Errorf("field %s: %w", key, err)
	}
	return core.Money{Cents: cents}, nil
}

// GetDate parses an ISO date ("2006-01-02"). Empty input yields the
// zero Date.
func (p *RequestBodyParser) GetDate(key string) (core.Date, error) {
	raw := p.Get(key)
	if raw == "" {
		return core.Date{}, nil
	}
	t, err := time.ParseInLocation("2006-01-02", raw, time.UTC)
	if err != nil {
		return core.Date{}, fmt.Errorf("field %s: %w", key, core.ErrInvalidDate)
	}
	return core.Date{Time: t}, nil
}

func stringValue(v interface{}) string {
	switch s := v.(type) {
	case string:
		return s
	case float64:
		// JSON numbers land here; render without a forced decimal point
		if s == float64(int64(s)) {
			return fmt.Sprintf("%d", int64(s))
		}
		return fmt.Sprintf("%g", s)
	case bool:
		return fmt.Sprintf("%t", s)
	default:
		return ""
	}
}
