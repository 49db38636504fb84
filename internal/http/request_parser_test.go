package http

import (
	"errors"
	"net/http/httptest"
	"strings"
	"testing"

	"gigbook/internal/core"
)

func parserFor(t *testing.T, contentType, body string) *RequestBodyParser {
	t.Helper()
	req := httptest.NewRequest("POST", "/", strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	p := NewRequestBodyParser(req)
	if err := p.Parse(); err != nil {
		t.Fatalf("parse: %v", err)
	}
	return p
}

func TestParseJSONBody(t *testing.T) {
	p := parserFor(t, "application/json",
		`{"name":"Acme","total":"450.00","count":3}`)

	if got := p.Get("name"); got != "Acme" {
		t.Errorf("name = %q", got)
	}
	if got := p.Get("count"); got != "3" {
		t.Errorf("count = %q, want rendered number", got)
	}
	if got := p.Get("missing"); got != "" {
		t.Errorf("missing = %q, want empty", got)
	}
	if got := p.GetOr("missing", "fallback"); got != "fallback" {
		t.Errorf("GetOr = %q", got)
	}
}

func TestParseFormBody(t *testing.T) {
	p := parserFor(t, "application/x-www-form-urlencoded",
		"name=Acme+Studio&total=450.00")

	if got := p.Get("name"); got != "Acme Studio" {
		t.Errorf("name = %q", got)
	}
	m, err := p.GetMoney("total")
	if err != nil {
		t.Fatalf("GetMoney: %v", err)
	}
	if m.Cents != 45000 {
		t.Errorf("cents = %d, want 45000", m.Cents)
	}
}

func TestParseEmptyBody(t *testing.T) {
	p := parserFor(t, "", "")
	if got := p.Get("anything"); got != "" {
		t.Errorf("got %q from empty body", got)
	}
}

func TestGetMoney(t *testing.T) {
	tests := []struct {
		raw     string
		cents   int64
		wantErr bool
	}{
		{"450.00", 45000, false},
		{"450,00", 45000, false},
		{"0.01", 1, false},
		{"", 0, false},
		{"abc", 0, true},
	}
	for _, tt := range tests {
		p := parserFor(t, "application/x-www-form-urlencoded", "amount="+tt.raw)
		m, err := p.GetMoney("amount")
		if tt.wantErr {
			if err == nil {
				t.Errorf("GetMoney(%q): expected error", tt.raw)
			}
			continue
		}
		if err != nil {
			t.Errorf("GetMoney(%q): %v", tt.raw, err)
			continue
		}
		if m.Cents != tt.cents {
			t.Errorf("GetMoney(%q) = %d, want %d", tt.raw, m.Cents, tt.cents)
		}
	}
}

func TestGetDate(t *testing.T) {
	p := parserFor(t, "application/x-www-form-urlencoded", "due=2026-09-15")
	d, err := p.GetDate("due")
	if err != nil {
		t.Fatalf("GetDate: %v", err)
	}
	if d.Format("2006-01-02") != "2026-09-15" {
		t.Errorf("date = %s", d.Format("2006-01-02"))
	}

	p = parserFor(t, "application/x-www-form-urlencoded", "due=15%2F09%2F2026")
	if _, err := p.GetDate("due"); !errors.Is(err, core.ErrInvalidDate) {
		t.Errorf("expected ErrInvalidDate, got %v", err)
	}

	p = parserFor(t, "application/x-www-form-urlencoded", "other=x")
	d, err = p.GetDate("due")
	if err != nil {
		t.Fatalf("GetDate empty: %v", err)
	}
	if !d.IsZero() {
		t.Errorf("expected zero date for missing field")
	}
}

func TestSanitizesControlCharacters(t *testing.T) {
	p := parserFor(t, "application/x-www-form-urlencoded", "name=Acme%00Studio%0D")
	if got := p.Get("name"); strings.ContainsAny(got, "\x00\r") {
		t.Errorf("unsanitized value %q", got)
	}
}
