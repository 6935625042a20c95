package client

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"nested error object", `{"error":{"message":"Email already registered"}}`, "Email already registered"},
		{"top-level message", `{"message":"Invalid credentials"}`, "Invalid credentials"},
		{"error string", `{"error":"boom"}`, "boom"},
		{"nested wins over message", `{"error":{"message":"a"},"message":"b"}`, "a"},
		{"empty object", `{}`, ""},
		{"not json", `<html>Bad Gateway</html>`, ""},
		{"error object without message", `{"error":{"code":7}}`, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := errorMessage([]byte(tt.body)); got != tt.want {
				t.Errorf("errorMessage(%s) = %q, want %q", tt.body, got, tt.want)
			}
		})
	}
}

func TestUserMessage(t *testing.T) {
	withMsg := fmt.Errorf("client.Login: %w", &HTTPError{StatusCode: 401, Message: "Invalid credentials"})
	if got := UserMessage(withMsg, "Login failed"); got != "Invalid credentials" {
		t.Errorf("UserMessage = %q, want backend message", got)
	}
	noMsg := &HTTPError{StatusCode: 502, Body: "<html>"}
	if got := UserMessage(noMsg, "Login failed"); got != "Login failed" {
		t.Errorf("UserMessage = %q, want fallback", got)
	}
	if got := UserMessage(errors.New("dial tcp: refused"), "Login failed"); got != "Login failed" {
		t.Errorf("UserMessage = %q, want fallback for transport errors", got)
	}
}

func TestIsStatus(t *testing.T) {
	err := fmt.Errorf("wrap: %w", &HTTPError{StatusCode: 403})
	if !IsStatus(err, 403) {
		t.Error("IsStatus(403) = false, want true")
	}
	if IsStatus(err, 401) {
		t.Error("IsStatus(401) = true, want false")
	}
	if IsStatus(errors.New("plain"), 403) {
		t.Error("IsStatus on plain error = true, want false")
	}
}
