// Package blob keeps rendered images in memory and addresses them with
// session-local URIs of the form blob:<origin>/<id>.
package blob

import (
	"errors"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// ErrNotFound is returned for ids that were never created or were revoked.
var ErrNotFound = errors.New("blob: not found")

// Blob is an in-memory binary resource.
type Blob struct {
	ID          string
	URI         string
	ContentType string
	Data        []byte
}

// Store owns the blobs of one session.
type Store struct {
	origin string

	mu    sync.RWMutex
	blobs map[string]*Blob
}

// NewStore creates an empty store. origin is embedded in every URI.
func NewStore(origin string) *Store {
	return &Store{
		origin: strings.TrimRight(origin, "/"),
		blobs:  make(map[string]*Blob),
	}
}

// Create materializes data and returns its blob. The caller owns the blob
// until it calls Revoke.
func (s *Store) Create(data []byte, contentType string) *Blob {
	id := uuid.NewString()
	b := &Blob{
		ID:          id,
		URI:         "blob:" + s.origin + "/" + id,
		ContentType: contentType,
		Data:        data,
	}

	s.mu.Lock()
	s.blobs[id] = b
	s.mu.Unlock()
	return b
}

// Get looks up a live blob by id.
func (s *Store) Get(id string) (*Blob, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.blobs[id]
	if !ok {
		return nil, ErrNotFound
	}
	return b, nil
}

// Revoke releases a blob. Revoking an unknown id is a no-op.
func (s *Store) Revoke(id string) {
	s.mu.Lock()
	delete(s.blobs, id)
	s.mu.Unlock()
}

// RevokeAll releases every blob in the store.
func (s *Store) RevokeAll() {
	s.mu.Lock()
	clear(s.blobs)
	s.mu.Unlock()
}

// Len returns the number of live blobs.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.blobs)
}
