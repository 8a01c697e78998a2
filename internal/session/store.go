package session

import (
	"context"
	"sync"

	"hotelbot/internal/models"

	"github.com/rs/zerolog"
)

// Vault persists the token pair across restarts. Implemented by the SQLite
// credential store; only tokens are durable, the profile stays in memory.
type Vault interface {
	SaveTokens(ctx context.Context, access, refresh string) error
	SaveAccessToken(ctx context.Context, access string) error
	LoadTokens(ctx context.Context) (access, refresh string, err error)
	ClearTokens(ctx context.Context) error
}

// Session is the current authentication state. Zero value means anonymous.
type Session struct {
	AccessToken  string
	RefreshToken string
	Profile      *models.UserProfile
}

// Authenticated reports whether an access token is present.
func (s Session) Authenticated() bool {
	return s.AccessToken != ""
}

// Store owns the session exclusively. Views read it via Get and react to
// changes via Subscribe; only the auth layer mutates it.
type Store struct {
	mu     sync.RWMutex
	sess   Session
	subs   []func(Session)
	vault  Vault
	logger zerolog.Logger
}

// NewStore builds a store mirroring token changes into vault.
// A nil vault keeps the session purely in-memory.
func NewStore(vault Vault, logger *zerolog.Logger) *Store {
	l := zerolog.Nop()
	if logger != nil {
		l = logger.With().Str("component", "session").Logger()
	}
	return &Store{vault: vault, logger: l}
}

// Get returns a copy of the current session.
func (s *Store) Get() Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sess
}

// SetTokens replaces the token pair, e.g. after login.
func (s *Store) SetTokens(ctx context.Context, access, refresh string) {
	s.mu.Lock()
	s.sess.AccessToken = access
	s.sess.RefreshToken = refresh
	snapshot := s.sess
	s.mu.Unlock()

	if s.vault != nil {
		if err := s.vault.SaveTokens(ctx, access, refresh); err != nil {
			s.logger.Error().Err(err).Msg("persist tokens")
		}
	}
	s.notify(snapshot)
}

// SetAccessToken replaces only the access token, e.g. after a refresh.
// The refresh token is kept as is.
func (s *Store) SetAccessToken(ctx context.Context, access string) {
	s.mu.Lock()
	s.sess.AccessToken = access
	snapshot := s.sess
	s.mu.Unlock()

	if s.vault != nil {
		if err := s.vault.SaveAccessToken(ctx, access); err != nil {
			s.logger.Error().Err(err).Msg("persist access token")
		}
	}
	s.notify(snapshot)
}

// SetProfile caches the fetched user profile.
func (s *Store) SetProfile(profile *models.UserProfile) {
	s.mu.Lock()
	s.sess.Profile = profile
	snapshot := s.sess
	s.mu.Unlock()
	s.notify(snapshot)
}

// Clear wipes the session and the durable token copy. Used on logout and on
// an irrecoverable refresh failure.
func (s *Store) Clear(ctx context.Context) {
	s.mu.Lock()
	s.sess = Session{}
	snapshot := s.sess
	s.mu.Unlock()

	if s.vault != nil {
		if err := s.vault.ClearTokens(ctx); err != nil {
			s.logger.Error().Err(err).Msg("clear persisted tokens")
		}
	}
	s.notify(snapshot)
}

// Restore loads the persisted token pair, so a restart does not force
// re-authentication. Missing tokens leave the session anonymous.
func (s *Store) Restore(ctx context.Context) error {
	if s.vault == nil {
		return nil
	}

	access, refresh, err := s.vault.LoadTokens(ctx)
	if err != nil {
		return err
	}
	if access == "" && refresh == "" {
		return nil
	}

	s.mu.Lock()
	s.sess.AccessToken = access
	s.sess.RefreshToken = refresh
	snapshot := s.sess
	s.mu.Unlock()

	s.logger.Info().Msg("session restored from vault")
	s.notify(snapshot)
	return nil
}

// Subscribe registers an observer called after every session change.
// Observers run outside the store lock.
func (s *Store) Subscribe(fn func(Session)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, fn)
}

func (s *Store) notify(snapshot Session) {
	s.mu.RLock()
	subs := append(([]func(Session))(nil), s.subs...)
	s.mu.RUnlock()

	for _, fn := range subs {
		fn(snapshot)
	}
}
