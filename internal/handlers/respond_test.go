package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestReadLimitedBody(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		limit   int64
		wantErr error
	}{
		{name: "within limit", body: `{"ok":true}`, limit: 64},
		{name: "exactly at limit", body: strings.Repeat("a", 16), limit: 16},
		{name: "over limit", body: strings.Repeat("a", 17), limit: 16, wantErr: errBodyTooLarge},
		{name: "empty body", body: "", limit: 64, wantErr: errEmptyBody},
		{name: "whitespace only", body: "  \n\t ", limit: 64, wantErr: errEmptyBody},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tc.body))
			data, err := readLimitedBody(req, tc.limit)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("expected %v, got %v", tc.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if string(data) != tc.body {
				t.Fatalf("expected body %q, got %q", tc.body, string(data))
			}
		})
	}
}

func TestDecodeStrict(t *testing.T) {
	type payload struct {
		Name string `json:"name"`
	}

	tests := []struct {
		name    string
		data    string
		wantErr bool
	}{
		{name: "valid", data: `{"name":"ok"}`},
		{name: "unknown field", data: `{"name":"ok","extra":1}`, wantErr: true},
		{name: "trailing data", data: `{"name":"ok"}{"again":true}`, wantErr: true},
		{name: "malformed", data: `{"name":`, wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var dst payload
			err := decodeStrict([]byte(tc.data), &dst)
			if tc.wantErr && err == nil {
				t.Fatal("expected an error")
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestRequireSessionWithoutMiddleware(t *testing.T) {
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	if _, ok := requireSession(req.Context(), rr); ok {
		t.Fatal("expected requireSession to fail without a session")
	}
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rr.Code)
	}
	env := decodeErrorEnvelope(t, rr)
	if env.Error != "session_required" {
		t.Fatalf("expected session_required code, got %q", env.Error)
	}
}
