package session

import (
	"context"
	"log"
	"sync"
	"time"
	"tourbook/src/config"
	"tourbook/src/domain"
	"tourbook/src/lib"
	"tourbook/src/models"
	"tourbook/src/types"

	"github.com/golang-jwt/jwt/v5"
)

// Authenticator is the part of the CMS the session needs.
type Authenticator interface {
	Login(ctx context.Context, identifier, password string) (string, *models.UserRecord, error)
	Me(ctx context.Context, token string) (*models.UserRecord, error)
}

// Store owns the credential of one browser session. Operations that touch
// the network are serialised; readers never block on them.
type Store struct {
	id   string
	slot lib.Slot
	auth Authenticator

	op sync.Mutex

	// closed once the registry finished Init; initErr is its outcome
	ready   chan struct{}
	initErr error

	mu       sync.RWMutex
	state    types.SessionState
	token    *string
	user     *models.UserRecord
	err      error
	lastSeen time.Time
}

func NewStore(id string, slot lib.Slot, auth Authenticator) *Store {
	return &Store{
		id:       id,
		slot:     slot,
		auth:     auth,
		state:    types.SESSION_ANONYMOUS,
		lastSeen: time.Now(),
		ready:    make(chan struct{}),
	}
}

func (s *Store) ID() string {
	return s.id
}

func (s *Store) key() string {
	return lib.SlotKey(s.id, config.TokenSlotKey)
}

// Init restores a persisted token. It is Resolving while /users/me is in
// flight and ends Authenticated, or Anonymous with the slot cleared.
func (s *Store) Init(ctx context.Context) error {
	s.op.Lock()
	defer s.op.Unlock()

	token, ok, err := s.slot.Get(ctx, s.key())
	if err != nil {
		return err
	}
	if !ok || token == "" {
		s.set(types.SESSION_ANONYMOUS, nil, nil, nil)
		return nil
	}

	s.set(types.SESSION_RESOLVING, &token, nil, nil)
	if expired(token) {
		return s.failResolve(ctx, domain.CredentialError{})
	}
	user, err := s.auth.Me(ctx, token)
	if err != nil {
		return s.failResolve(ctx, err)
	}
	if user == nil || user.ID == 0 {
		return s.failResolve(ctx, domain.CredentialError{})
	}
	s.set(types.SESSION_AUTHENTICATED, &token, user, nil)
	return nil
}

func (s *Store) failResolve(ctx context.Context, cause error) error {
	log.Printf("[session] %s: could not resolve persisted token: %s\n", s.id, cause.Error())
	s.set(types.SESSION_ERROR, nil, nil, cause)
	if err := s.slot.Delete(ctx, s.key()); err != nil {
		log.Printf("[session] %s: failed to clear token slot: %s\n", s.id, err.Error())
	}
	s.set(types.SESSION_ANONYMOUS, nil, nil, nil)
	return nil
}

// Login exchanges credentials for a token and persists it. On failure the
// state is Error and the previous token is kept.
func (s *Store) Login(ctx context.Context, identifier, password string) (*models.UserRecord, error) {
	s.op.Lock()
	defer s.op.Unlock()

	s.mu.Lock()
	prevToken, prevUser := s.token, s.user
	s.mu.Unlock()

	token, user, err := s.auth.Login(ctx, identifier, password)
	if err == nil && (token == "" || user == nil || user.ID == 0) {
		err = domain.CredentialError{}
	}
	if err != nil {
		if !domain.IsCredential(err) {
			err = domain.CredentialError{Err: err}
		}
		s.set(types.SESSION_ERROR, prevToken, prevUser, err)
		return nil, err
	}
	if err := s.slot.Set(ctx, s.key(), token); err != nil {
		s.set(types.SESSION_ERROR, prevToken, prevUser, err)
		return nil, err
	}
	s.set(types.SESSION_AUTHENTICATED, &token, user, nil)
	log.Printf("[session] %s: logged in as %s\n", s.id, user.Username)
	return user, nil
}

// Logout waits for an in-flight login or resolve, then drops the
// credential and clears the slot.
func (s *Store) Logout(ctx context.Context) error {
	s.op.Lock()
	defer s.op.Unlock()
	s.set(types.SESSION_ANONYMOUS, nil, nil, nil)
	return s.slot.Delete(ctx, s.key())
}

// Token implements cms.TokenSource.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.token == nil {
		return ""
	}
	return *s.token
}

func (s *Store) User() *models.UserRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

func (s *Store) IsLoggedIn() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token != nil && s.user != nil
}

func (s *Store) State() types.SessionState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

func (s *Store) Snapshot() models.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := models.Session{
		Token:      s.token,
		User:       s.user,
		IsLoggedIn: s.token != nil && s.user != nil,
		Pending:    s.state == types.SESSION_RESOLVING,
		State:      string(s.state),
	}
	if s.err != nil {
		snap.Error = s.err.Error()
	}
	return snap
}

func (s *Store) touch() {
	s.mu.Lock()
	s.lastSeen = time.Now()
	s.mu.Unlock()
}

func (s *Store) idleSince() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastSeen
}

func (s *Store) set(state types.SessionState, token *string, user *models.UserRecord, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = state
	s.token = token
	s.user = user
	s.err = err
}

// expired reads the exp claim without verifying the signature; the CMS
// remains the authority. Tokens that are not JWTs are never expired here.
func expired(token string) bool {
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return false
	}
	return claims.ExpiresAt != nil && claims.ExpiresAt.Before(time.Now())
}
