package inmemorystore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"reflect"
	"sync"
)

// ErrNotFound is returned by Lookup when nothing was published under a key.
var ErrNotFound = errors.New("instance not found")

// Store is an in-memory keyed instance store.
type Store struct {
	instances sync.Map // Key: class identifier, Value: instance

	mu    sync.Mutex
	order []string // first-publication order of keys
}

// New creates a new, empty in-memory store.
func New() *Store {
	return &Store{}
}

// Publish records instance under key, replacing any earlier instance. A
// replaced instance that implements io.Closer is closed, since the store
// owned it and nothing can look it up any more.
func (s *Store) Publish(ctx context.Context, key string, instance any) error {
	if key == "" {
		return errors.New("publish: key must not be empty")
	}
	previous, loaded := s.instances.Swap(key, instance)
	if !loaded {
		s.mu.Lock()
		s.order = append(s.order, key)
		s.mu.Unlock()
		return nil
	}
	if sameInstance(previous, instance) {
		return nil
	}
	if c, ok := previous.(io.Closer); ok {
		if err := c.Close(); err != nil {
			return fmt.Errorf("close replaced %s: %w", key, err)
		}
	}
	return nil
}

// sameInstance reports whether a and b are the same comparable value.
func sameInstance(a, b any) bool {
	if a == nil || b == nil {
		return a == b
	}
	if !reflect.TypeOf(a).Comparable() || reflect.TypeOf(a) != reflect.TypeOf(b) {
		return false
	}
	return a == b
}

// Lookup returns the instance published under key.
func (s *Store) Lookup(ctx context.Context, key string) (any, error) {
	v, ok := s.instances.Load(key)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	return v, nil
}

// Keys returns published keys in the order they were first published.
func (s *Store) Keys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.order...)
}

// Close closes every published instance that implements io.Closer and
// returns the joined errors.
func (s *Store) Close() error {
	var errs []error
	for _, key := range s.Keys() {
		v, ok := s.instances.Load(key)
		if !ok {
			continue
		}
		if c, ok := v.(io.Closer); ok {
			if err := c.Close(); err != nil {
				errs = append(errs, fmt.Errorf("close %s: %w", key, err))
			}
		}
	}
	return errors.Join(errs...)
}
