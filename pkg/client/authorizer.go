package client

import "net/http"

// TokenSource supplies the bearer credential for outgoing requests.
// An empty string means no credential is held.
type TokenSource interface {
	Token() string
}

// StaticToken is a TokenSource that always returns the same token.
type StaticToken string

// Token returns the token.
func (s StaticToken) Token() string { return string(s) }

// AuthorizeRequest returns req with an "Authorization: Bearer <token>" header
// when token is non-empty. The returned request is a clone; req itself is
// never modified. With an empty token req is returned as is.
func AuthorizeRequest(req *http.Request, token string) *http.Request {
	if token == "" {
		return req
	}
	out := req.Clone(req.Context())
	out.Header.Set("Authorization", "Bearer "+token)
	return out
}

// Authorizer is an http.RoundTripper that attaches the current token from
// Tokens to every request before handing it to Next. It does not retry,
// refresh, or look at responses.
type Authorizer struct {
	Tokens TokenSource
	Next   http.RoundTripper
}

// RoundTrip implements http.RoundTripper.
func (a *Authorizer) RoundTrip(req *http.Request) (*http.Response, error) {
	next := a.Next
	if next == nil {
		next = http.DefaultTransport
	}
	var token string
	if a.Tokens != nil {
		token = a.Tokens.Token()
	}
	return next.RoundTrip(AuthorizeRequest(req, token))
}
