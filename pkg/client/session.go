package client

import (
	"sync"

	"concierge/pkg/model"
)

// Session holds the bearer token and the identity it belongs to. It is safe
// for concurrent use: login and logout write, every call reads.
type Session struct {
	mu      sync.RWMutex
	token   string
	kind    string
	profile *model.Profile
}

func NewSession() *Session {
	return &Session{}
}

func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Kind is model.IdentityUser or model.IdentityMember, "" when logged out.
func (s *Session) Kind() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.kind
}

func (s *Session) Profile() *model.Profile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.profile == nil {
		return nil
	}
	p := *s.profile
	return &p
}

func (s *Session) Authenticated() bool {
	return s.Token() != ""
}

func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token, s.kind, s.profile = "", "", nil
}

func (s *Session) set(token, kind string, profile *model.Profile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token, s.kind, s.profile = token, kind, profile
}

func (s *Session) setProfile(profile *model.Profile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profile = profile
}
