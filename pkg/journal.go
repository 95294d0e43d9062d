// Package pkg provides reusable utilities for mordant.
package pkg

import (
	"encoding/gob"
	"fmt"
	"os"
	"sync"
)

// Journal is a generic append-only record log spilled to a temporary file,
// so large mutation sessions never hold every record in memory. Appends
// are safe for concurrent use; Replay takes the same lock and must not be
// interleaved with appends from the callback.
type Journal[T any] struct {
	path    string
	file    *os.File
	encoder *gob.Encoder
	mu      sync.Mutex
	length  uint64
}

// NewJournal creates a Journal backed by a fresh temp file.
func NewJournal[T any]() (*Journal[T], error) {
	file, err := os.CreateTemp("", "mordant-journal-*.gob")
	if err != nil {
		return nil, fmt.Errorf("create journal file: %w", err)
	}

	return &Journal[T]{
		path:    file.Name(),
		file:    file,
		encoder: gob.NewEncoder(file),
	}, nil
}

// Path returns the location of the backing file.
func (j *Journal[T]) Path() string {
	return j.path
}

// Len returns the number of records appended so far.
func (j *Journal[T]) Len() uint64 {
	j.mu.Lock()
	defer j.mu.Unlock()

	return j.length
}

// Append writes one record to the journal.
func (j *Journal[T]) Append(record T) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if err := j.encoder.Encode(record); err != nil {
		return fmt.Errorf("encode journal record: %w", err)
	}

	j.length++

	return nil
}

// Replay invokes fn for every record in append order. Replay opens its own
// read handle, so the journal remains appendable afterwards.
func (j *Journal[T]) Replay(fn func(index uint64, record T) error) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	file, err := os.Open(j.path)
	if err != nil {
		return fmt.Errorf("open journal: %w", err)
	}

	defer func() { _ = file.Close() }()

	decoder := gob.NewDecoder(file)

	for i := uint64(0); i < j.length; i++ {
		var record T
		if err := decoder.Decode(&record); err != nil {
			return fmt.Errorf("decode journal record %d: %w", i, err)
		}

		if err := fn(i, record); err != nil {
			return err
		}
	}

	return nil
}

// Close closes and removes the backing file.
func (j *Journal[T]) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.file == nil {
		return nil
	}

	if err := j.file.Close(); err != nil {
		return err
	}

	j.file = nil

	return os.Remove(j.path)
}
