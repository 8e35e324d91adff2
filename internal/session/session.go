// Package session keeps the operator's bearer token and last visited path in a
// local bolt database, the console's equivalent of browser local storage.
package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/boltdb/bolt"
)

const (
	bucketName  = "session"
	keyToken    = "token"
	keyLastPath = "last_path"

	openTimeout = time.Second
)

// ErrClosed is returned by operations on a closed Store.
var ErrClosed = errors.New("session store closed")

// Store is a small key-value store for session state.
type Store struct {
	db *bolt.DB
}

// Open opens or creates the session database at path.
func Open(path string) (*Store, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return nil, fmt.Errorf("session path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(trimmed), 0o700); err != nil {
		return nil, fmt.Errorf("create session dir: %w", err)
	}
	db, err := bolt.Open(trimmed, 0o600, &bolt.Options{Timeout: openTimeout})
	if err != nil {
		return nil, fmt.Errorf("open session db: %w", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketName))
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create session bucket: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the database file lock.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// Token returns the stored bearer token, or "" when signed out.
func (s *Store) Token() (string, error) {
	return s.get(keyToken)
}

// SetToken stores the bearer token.
func (s *Store) SetToken(token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return fmt.Errorf("token is empty")
	}
	return s.put(keyToken, token)
}

// ClearToken removes the bearer token.
func (s *Store) ClearToken() error {
	return s.delete(keyToken)
}

// LastPath returns the last path the operator viewed.
func (s *Store) LastPath() (string, error) {
	return s.get(keyLastPath)
}

// SetLastPath records the current path.
func (s *Store) SetLastPath(path string) error {
	return s.put(keyLastPath, path)
}

func (s *Store) get(key string) (string, error) {
	if s == nil || s.db == nil {
		return "", ErrClosed
	}
	var value string
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketName))
		if b == nil {
			return nil
		}
		// Bytes are only valid inside the transaction.
		value = string(b.Get([]byte(key)))
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("read %s: %w", key, err)
	}
	return value, nil
}

func (s *Store) put(key, value string) error {
	if s == nil || s.db == nil {
		return ErrClosed
	}
	err := s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketName)).Put([]byte(key), []byte(value))
	})
	if err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

func (s *Store) delete(key string) error {
	if s == nil || s.db == nil {
		return ErrClosed
	}
	err := s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketName)).Delete([]byte(key))
	})
	if err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}
