// Package kv defines the flat key-value store the order service persists to.
package kv

import (
	"context"
	"errors"
	"time"
)

// Store holds UTF-8 text values under flat string keys.
type Store interface {
	// Get returns ErrNotFound when the key has never been set or was deleted.
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	// Delete removes key. Deleting an absent key is not an error. The order
	// service never deletes; Delete is for administrative cleanup.
	Delete(ctx context.Context, key string) error
}

var (
	// ErrNotFound indicates the key holds no value.
	ErrNotFound = errors.New("kv: key not found")
	// ErrUnavailable indicates the backend could not be read or written.
	ErrUnavailable = errors.New("kv: store unavailable")
)

// Observer receives the outcome of every store operation.
type Observer interface {
	ObserveKV(op string, err error, took time.Duration)
}

type instrumented struct {
	next Store
	obs  Observer
}

// Instrument reports each operation on next to obs.
func Instrument(next Store, obs Observer) Store {
	if obs == nil {
		return next
	}
	return &instrumented{next: next, obs: obs}
}

func (s *instrumented) Get(ctx context.Context, key string) (string, error) {
	start := time.Now()
	v, err := s.next.Get(ctx, key)
	s.obs.ObserveKV("get", err, time.Since(start))
	return v, err
}

func (s *instrumented) Set(ctx context.Context, key, value string) error {
	start := time.Now()
	err := s.next.Set(ctx, key, value)
	s.obs.ObserveKV("set", err, time.Since(start))
	return err
}

func (s *instrumented) Delete(ctx context.Context, key string) error {
	start := time.Now()
	err := s.next.Delete(ctx, key)
	s.obs.ObserveKV("delete", err, time.Since(start))
	return err
}
