package client

import (
	"io"
	"net/http"
	"strings"
	"testing"
)

// recordingTransport captures the request it is asked to send.
type recordingTransport struct {
	got *http.Request
}

func (rt *recordingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	rt.got = req
	return &http.Response{StatusCode: http.StatusOK, Body: io.NopCloser(strings.NewReader("{}")), Request: req}, nil
}

func newTestRequest(t *testing.T) *http.Request {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, "https://api.example.com/claims?x=1", strings.NewReader(`{"amount":5}`))
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Trace", "abc123")
	return req
}

func TestAuthorizerAddsBearer(t *testing.T) {
	rt := &recordingTransport{}
	a := &Authorizer{Tokens: StaticToken("abc"), Next: rt}
	req := newTestRequest(t)

	if _, err := a.RoundTrip(req); err != nil {
		t.Fatalf("RoundTrip() error: %v", err)
	}
	got := rt.got
	if h := got.Header.Get("Authorization"); h != "Bearer abc" {
		t.Errorf("Authorization = %q, want %q", h, "Bearer abc")
	}
	if got.Method != http.MethodPost {
		t.Errorf("Method = %q, want POST", got.Method)
	}
	if got.URL.String() != "https://api.example.com/claims?x=1" {
		t.Errorf("URL = %q, unchanged URL expected", got.URL.String())
	}
	if got.Header.Get("X-Trace") != "abc123" || got.Header.Get("Content-Type") != "application/json" {
		t.Errorf("other headers not preserved: %v", got.Header)
	}
	body, err := io.ReadAll(got.Body)
	if err != nil {
		t.Fatal(err)
	}
	if string(body) != `{"amount":5}` {
		t.Errorf("body = %q, want unchanged", body)
	}
	if req.Header.Get("Authorization") != "" {
		t.Error("caller's request must not be mutated")
	}
}

func TestAuthorizerWithoutToken(t *testing.T) {
	for _, tokens := range []TokenSource{nil, StaticToken("")} {
		rt := &recordingTransport{}
		a := &Authorizer{Tokens: tokens, Next: rt}
		req := newTestRequest(t)

		if _, err := a.RoundTrip(req); err != nil {
			t.Fatalf("RoundTrip() error: %v", err)
		}
		if rt.got != req {
			t.Error("expected the request to be forwarded unmodified")
		}
		if _, ok := rt.got.Header["Authorization"]; ok {
			t.Error("Authorization header should be absent")
		}
	}
}

// switchingTokens returns whatever token is current at call time.
type switchingTokens struct{ tok string }

func (s *switchingTokens) Token() string { return s.tok }

func TestAuthorizerReadsTokenPerRequest(t *testing.T) {
	rt := &recordingTransport{}
	src := &switchingTokens{}
	a := &Authorizer{Tokens: src, Next: rt}

	src.tok = "first"
	a.RoundTrip(newTestRequest(t)) //nolint:errcheck
	if h := rt.got.Header.Get("Authorization"); h != "Bearer first" {
		t.Errorf("Authorization = %q, want Bearer first", h)
	}

	src.tok = ""
	a.RoundTrip(newTestRequest(t)) //nolint:errcheck
	if h := rt.got.Header.Get("Authorization"); h != "" {
		t.Errorf("Authorization = %q after logout, want empty", h)
	}
}

func TestAuthorizeRequestOverridesStaleHeader(t *testing.T) {
	req := newTestRequest(t)
	req.Header.Set("Authorization", "Bearer stale")
	out := AuthorizeRequest(req, "fresh")
	if h := out.Header.Get("Authorization"); h != "Bearer fresh" {
		t.Errorf("Authorization = %q, want Bearer fresh", h)
	}
}
