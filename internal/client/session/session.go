// Package session holds the authenticated identity for the lifetime of a
// client run. The auth flow service is the only writer; views read.
package session

import (
	"sync"

	"github.com/brokergate/client/internal/client/api"
)

// State is the explicit authentication state. It replaces the needOTP /
// success flag pair with a union that admits no invalid combination.
type State int

const (
	LoggedOut State = iota
	AwaitingOTP
	LoggedIn
)

func (s State) String() string {
	switch s {
	case AwaitingOTP:
		return "awaiting-otp"
	case LoggedIn:
		return "logged-in"
	default:
		return "logged-out"
	}
}

// Session is the identity snapshot protected views render from.
type Session struct {
	ClientID      string
	Profile       *api.ClientRecord
	Authenticated bool
}

// Store owns the current Session and state. Writes come sequentially from
// the auth flow; reads can come from anywhere.
type Store struct {
	mu      sync.RWMutex
	state   State
	session Session

	// pendingID is only meaningful in AwaitingOTP.
	pendingID string
}

func NewStore() *Store {
	return &Store{}
}

func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Current returns a copy of the session snapshot.
func (s *Store) Current() Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session
}

func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state == LoggedIn && s.session.Authenticated
}

// PendingClientID returns the identifier awaiting OTP verification, "" in
// any other state.
func (s *Store) PendingClientID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state != AwaitingOTP {
		return ""
	}
	return s.pendingID
}

// SetAwaitingOTP records that clientID passed the password step and an OTP
// is outstanding. No session is established yet.
func (s *Store) SetAwaitingOTP(clientID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = AwaitingOTP
	s.pendingID = clientID
	s.session = Session{}
}

// SetLoggedIn establishes the session from profile.
func (s *Store) SetLoggedIn(profile *api.ClientRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = LoggedIn
	s.pendingID = ""
	s.session = Session{
		ClientID:      profile.ClientID,
		Profile:       profile,
		Authenticated: true,
	}
}

// SetProfile refreshes the profile of an established session. Ignored when
// not logged in.
func (s *Store) SetProfile(profile *api.ClientRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != LoggedIn {
		return
	}
	s.session.Profile = profile
	s.session.ClientID = profile.ClientID
}

// Clear drops everything and returns to LoggedOut.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = LoggedOut
	s.pendingID = ""
	s.session = Session{}
}
