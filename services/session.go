package services

import (
	"os"
	"sync"

	"golang.org/x/oauth2"
)

// Session holds the bearer/refresh token pair for the current user. It
// lives only in process memory; persisting tokens is out of scope.
type Session struct {
	mu    sync.Mutex
	token *oauth2.Token
}

// BearerToken implements carenote.TokenSource. Empty when logged out.
func (s *Session) BearerToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.token == nil {
		return ""
	}
	return s.token.AccessToken
}

func (s *Session) SetToken(token *oauth2.Token) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
}

// Clear drops the held credentials. Called on logout and on expired-session
// responses, regardless of whether the server-side logout succeeded.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = nil
}

func (s *Session) LoggedIn() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token != nil && s.token.AccessToken != ""
}

// DefaultSession returns the shared session, seeded from
// CARENOTE_ACCESS_TOKEN when the operator provides a long-lived token
// instead of logging in through the tool.
var DefaultSession = sync.OnceValue(func() *Session {
	s := &Session{}
	if token := os.Getenv("CARENOTE_ACCESS_TOKEN"); token != "" {
		s.token = &oauth2.Token{AccessToken: token}
	}
	return s
})
