package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dgraph-io/badger/v4"

	"github.com/bookdenapp/bookden-server/internal/domain"
)

const (
	sessionPrefix        = "session:"
	sessionByTokenPrefix = "idx:sessions:token:"
	sessionByUserPrefix  = "idx:sessions:user:"
)

// ErrSessionExpired is returned when a session exists but is past its expiry.
var ErrSessionExpired = errors.New("session expired")

// CreateSession creates a new user session.
func (s *Store) CreateSession(_ context.Context, session *domain.Session) error {
	key := []byte(sessionPrefix + session.ID)

	exists, err := s.exists(key)
	if err != nil {
		return fmt.Errorf("check session exists: %w", err)
	}
	if exists {
		return ErrAlreadyExists
	}

	tokenKey := []byte(sessionByTokenPrefix + session.RefreshTokenHash)
	userIndexKey := []byte(sessionByUserPrefix + session.UserID + ":" + session.ID)

	return s.db.Update(func(txn *badger.Txn) error {
		data, err := marshalValue(session)
		if err != nil {
			return err
		}
		if err := txn.Set(key, data); err != nil {
			return err
		}

		// Refresh token index for the refresh flow
		if err := txn.Set(tokenKey, []byte(session.ID)); err != nil {
			return err
		}

		// User index for listing a user's sessions
		return txn.Set(userIndexKey, []byte{})
	})
}

// GetSession retrieves a session by ID. Expired sessions are reported
// as ErrSessionExpired without being returned.
func (s *Store) GetSession(_ context.Context, id string) (*domain.Session, error) {
	key := []byte(sessionPrefix + id)

	var session domain.Session
	if err := s.get(key, &session); err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("get session: %w", err)
	}

	if session.IsExpired() {
		return nil, ErrSessionExpired
	}

	return &session, nil
}

// GetSessionByRefreshToken retrieves a session by its refresh token hash.
func (s *Store) GetSessionByRefreshToken(ctx context.Context, tokenHash string) (*domain.Session, error) {
	tokenKey := []byte(sessionByTokenPrefix + tokenHash)

	var sessionID string
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(tokenKey)
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			sessionID = string(val)
			return nil
		})
	})
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("lookup session by token: %w", err)
	}

	return s.GetSession(ctx, sessionID)
}

// UpdateSession updates an existing session, used for token rotation
// and last-seen bookkeeping.
func (s *Store) UpdateSession(ctx context.Context, session *domain.Session) error {
	key := []byte(sessionPrefix + session.ID)

	oldSession, err := s.GetSession(ctx, session.ID)
	if err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		data, err := marshalValue(session)
		if err != nil {
			return err
		}
		if err := txn.Set(key, data); err != nil {
			return err
		}

		// Move the token index when the refresh token rotated
		if oldSession.RefreshTokenHash != session.RefreshTokenHash {
			oldTokenKey := []byte(sessionByTokenPrefix + oldSession.RefreshTokenHash)
			if err := txn.Delete(oldTokenKey); err != nil {
				return err
			}
			newTokenKey := []byte(sessionByTokenPrefix + session.RefreshTokenHash)
			if err := txn.Set(newTokenKey, []byte(session.ID)); err != nil {
				return err
			}
		}
		return nil
	})
}

// DeleteSession deletes a session and its index entries.
// Idempotent for sessions that are already gone.
func (s *Store) DeleteSession(_ context.Context, sessionID string) error {
	key := []byte(sessionPrefix + sessionID)

	var session domain.Session
	if err := s.get(key, &session); err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		return fmt.Errorf("get session for delete: %w", err)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Delete(key); err != nil {
			return err
		}
		tokenKey := []byte(sessionByTokenPrefix + session.RefreshTokenHash)
		if err := txn.Delete(tokenKey); err != nil {
			return err
		}
		userIndexKey := []byte(sessionByUserPrefix + session.UserID + ":" + session.ID)
		return txn.Delete(userIndexKey)
	})
}

// ListUserSessions returns the user's sessions, expired ones included
// so clients can show stale devices.
func (s *Store) ListUserSessions(ctx context.Context, userID string) ([]*domain.Session, error) {
	var ids []string

	prefix := []byte(sessionByUserPrefix + userID + ":")
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		opts.PrefetchValues = false

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			key := string(it.Item().Key())
			ids = append(ids, strings.TrimPrefix(key, string(prefix)))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list user sessions: %w", err)
	}

	sessions := make([]*domain.Session, 0, len(ids))
	for _, id := range ids {
		var session domain.Session
		if err := s.get([]byte(sessionPrefix+id), &session); err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				continue // Stale index entry
			}
			return nil, fmt.Errorf("get session %s: %w", id, err)
		}
		sessions = append(sessions, &session)
	}
	return sessions, nil
}

// DeleteAllUserSessions removes every session belonging to the user.
func (s *Store) DeleteAllUserSessions(ctx context.Context, userID string) error {
	sessions, err := s.ListUserSessions(ctx, userID)
	if err != nil {
		return err
	}
	for _, session := range sessions {
		if err := s.DeleteSession(ctx, session.ID); err != nil {
			return err
		}
	}
	return nil
}

// DeleteExpiredSessions removes sessions past expiry, returning how many
// were deleted. Called periodically by the session janitor.
func (s *Store) DeleteExpiredSessions(ctx context.Context) (int, error) {
	var expired []string

	prefix := []byte(sessionPrefix)
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}

			var session domain.Session
			err := it.Item().Value(func(val []byte) error {
				return unmarshalValue(val, &session)
			})
			if err != nil {
				return err
			}
			if session.IsExpired() {
				expired = append(expired, session.ID)
			}
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("scan sessions: %w", err)
	}

	for _, id := range expired {
		if err := s.DeleteSession(ctx, id); err != nil {
			return 0, err
		}
	}

	if len(expired) > 0 && s.logger != nil {
		s.logger.Info("deleted expired sessions", "count", len(expired))
	}
	return len(expired), nil
}
