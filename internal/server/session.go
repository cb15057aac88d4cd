package server

import (
	"crypto/rand"
	"encoding/base64"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/pkg/errors"
)

const sessionCookieName = "session_token"

// SessionStore keeps the cookie-variant sessions in process memory. A
// session maps an opaque token to the authenticated client id and
// expires on its own.
type SessionStore struct {
	sessions *gocache.Cache
}

func NewSessionStore(ttlMinutes int64) *SessionStore {
	ttl := time.Duration(ttlMinutes) * time.Minute
	return &SessionStore{
		sessions: gocache.New(ttl, 2*ttl),
	}
}

func (s *SessionStore) Create(clientID int64) (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", errors.Wrap(err, "create session")
	}
	token := base64.RawURLEncoding.EncodeToString(b)

	s.sessions.Set(token, clientID, gocache.DefaultExpiration)
	return token, nil
}

func (s *SessionStore) Get(token string) (int64, bool) {
	v, ok := s.sessions.Get(token)
	if !ok {
		return 0, false
	}
	return v.(int64), true
}

func (s *SessionStore) Delete(token string) {
	s.sessions.Delete(token)
}
