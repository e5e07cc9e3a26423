package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"github.com/bookdenapp/bookden-server/internal/domain"
	"github.com/bookdenapp/bookden-server/internal/normalize"
)

const (
	userPrefix        = "user:"
	userByEmailPrefix = "idx:users:email:"
)

// User Operations

// CreateUser creates a new user with a unique email index entry.
func (s *Store) CreateUser(ctx context.Context, user *domain.User) error {
	key := []byte(userPrefix + user.ID)
	emailKey := []byte(userByEmailPrefix + normalize.Email(user.Email))

	err := s.db.Update(func(txn *badger.Txn) error {
		// Reject duplicate emails before writing anything
		_, err := txn.Get(emailKey)
		if err == nil {
			return ErrEmailExists
		}
		if !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("check email index: %w", err)
		}

		data, err := marshalValue(user)
		if err != nil {
			return err
		}
		if err := txn.Set(key, data); err != nil {
			return err
		}
		return txn.Set(emailKey, []byte(user.ID))
	})
	if err != nil {
		if errors.Is(err, ErrEmailExists) {
			return err
		}
		return fmt.Errorf("create user: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("user created", "id", user.ID, "email", user.Email, "role", user.Role)
	}
	return nil
}

// GetUser retrieves a user by ID.
func (s *Store) GetUser(ctx context.Context, id string) (*domain.User, error) {
	var user domain.User
	err := s.get([]byte(userPrefix+id), &user)
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &user, nil
}

// GetUserByEmail retrieves a user through the email index.
// Lookup is case-insensitive.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	emailKey := []byte(userByEmailPrefix + normalize.Email(email))

	var id string
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(emailKey)
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			id = string(val)
			return nil
		})
	})
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return s.GetUser(ctx, id)
}

// UpdateUser updates an existing user, moving the email index if needed.
func (s *Store) UpdateUser(ctx context.Context, user *domain.User) error {
	oldUser, err := s.GetUser(ctx, user.ID)
	if err != nil {
		return err
	}

	key := []byte(userPrefix + user.ID)
	oldEmail := normalize.Email(oldUser.Email)
	newEmail := normalize.Email(user.Email)

	err = s.db.Update(func(txn *badger.Txn) error {
		user.Touch()

		if oldEmail != newEmail {
			newEmailKey := []byte(userByEmailPrefix + newEmail)
			_, err := txn.Get(newEmailKey)
			if err == nil {
				return ErrEmailExists
			}
			if !errors.Is(err, badger.ErrKeyNotFound) {
				return fmt.Errorf("check email index: %w", err)
			}

			if err := txn.Delete([]byte(userByEmailPrefix + oldEmail)); err != nil {
				return err
			}
			if err := txn.Set(newEmailKey, []byte(user.ID)); err != nil {
				return err
			}
		}

		data, err := marshalValue(user)
		if err != nil {
			return err
		}
		return txn.Set(key, data)
	})
	if err != nil {
		if errors.Is(err, ErrEmailExists) {
			return err
		}
		return fmt.Errorf("update user: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("user updated", "id", user.ID)
	}
	return nil
}

// DeleteUser deletes a user and its email index entry.
func (s *Store) DeleteUser(ctx context.Context, id string) error {
	user, err := s.GetUser(ctx, id)
	if err != nil {
		return err
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Delete([]byte(userPrefix + id)); err != nil {
			return err
		}
		return txn.Delete([]byte(userByEmailPrefix + normalize.Email(user.Email)))
	})
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("user deleted", "id", id)
	}
	return nil
}

// ListUsers returns every user in the store.
func (s *Store) ListUsers(ctx context.Context) ([]*domain.User, error) {
	var users []*domain.User

	prefix := []byte(userPrefix)
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}

			var user domain.User
			err := it.Item().Value(func(val []byte) error {
				return unmarshalValue(val, &user)
			})
			if err != nil {
				return err
			}
			users = append(users, &user)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// CountUsers returns the number of registered users.
func (s *Store) CountUsers(ctx context.Context) (int, error) {
	count := 0

	prefix := []byte(userPrefix)
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		opts.PrefetchValues = false

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			count++
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return count, nil
}
