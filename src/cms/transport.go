package cms

import (
	"net/http"
	"strings"
	"tourbook/src/config"
)

// TokenSource supplies the bearer credential of the current session.
// An empty token means none is attached.
type TokenSource interface {
	Token() string
}

type StaticToken string

func (s StaticToken) Token() string { return string(s) }

// BearerTransport attaches the session token to every outgoing request
// except the login call, which must never carry a stale credential.
type BearerTransport struct {
	Base   http.RoundTripper
	Source TokenSource
}

func (t *BearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}
	if isLoginRequest(req) {
		if req.Header.Get("Authorization") == "" {
			return base.RoundTrip(req)
		}
		req = req.Clone(req.Context())
		req.Header.Del("Authorization")
		return base.RoundTrip(req)
	}
	if t.Source == nil {
		return base.RoundTrip(req)
	}
	token := t.Source.Token()
	if token == "" {
		return base.RoundTrip(req)
	}
	req = req.Clone(req.Context())
	req.Header.Set("Authorization", "Bearer "+token)
	return base.RoundTrip(req)
}

func isLoginRequest(req *http.Request) bool {
	return strings.HasSuffix(strings.TrimRight(req.URL.Path, "/"), config.LoginEndpoint)
}
