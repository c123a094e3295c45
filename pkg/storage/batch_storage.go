// Package storage keeps named batches of game headers in pebble.
package storage

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/cockroachdb/pebble"
	"github.com/rs/zerolog"
	"github.com/segmentio/ksuid"
	"github.com/ssargent/gamehdr/pkg/codec"
)

var batchPrefix = []byte("batch/")

// ErrNotFound is returned when no batch exists for an id
var ErrNotFound = errors.New("batch not found")

// BatchStorage stores header batches keyed by KSUID. Each value is the
// packed byte sequence of the batch, one byte per header.
type BatchStorage struct {
	db     *pebble.DB
	codec  *codec.HeaderCodec
	logger zerolog.Logger
}

// NewBatchStorage opens (or creates) a pebble database at path
func NewBatchStorage(path string, logger *zerolog.Logger) (*BatchStorage, error) {
	db, err := pebble.Open(path, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("failed to open batch storage: %w", err)
	}

	l := zerolog.Nop()
	if logger != nil {
		l = logger.With().Str("component", "batch_storage").Logger()
	}

	return &BatchStorage{db: db, codec: codec.NewHeaderCodec(), logger: l}, nil
}

func batchKey(id ksuid.KSUID) []byte {
	key := make([]byte, 0, len(batchPrefix)+len(ksuid.Nil))
	key = append(key, batchPrefix...)
	return append(key, id.Bytes()...)
}

// Create stores a new batch and returns its id
func (s *BatchStorage) Create(headers []codec.Header) (ksuid.KSUID, error) {
	data, err := s.codec.EncodeBatch(headers)
	if err != nil {
		return ksuid.Nil, err
	}

	id := ksuid.New()
	if err := s.db.Set(batchKey(id), data, pebble.Sync); err != nil {
		return ksuid.Nil, err
	}

	s.logger.Debug().Stringer("id", id).Int("headers", len(headers)).Msg("batch created")
	return id, nil
}

// Read returns the headers of a batch
func (s *BatchStorage) Read(id ksuid.KSUID) ([]codec.Header, error) {
	data, closer, err := s.db.Get(batchKey(id))
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	defer closer.Close()

	// data is only valid until closer is closed
	return s.codec.DecodeBatch(data)
}

// Update replaces the headers of an existing batch
func (s *BatchStorage) Update(id ksuid.KSUID, headers []codec.Header) error {
	data, err := s.codec.EncodeBatch(headers)
	if err != nil {
		return err
	}

	key := batchKey(id)
	_, closer, err := s.db.Get(key)
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	if err := closer.Close(); err != nil {
		return err
	}

	return s.db.Set(key, data, pebble.Sync)
}

// Delete removes a batch. Deleting an unknown id is not an error.
func (s *BatchStorage) Delete(id ksuid.KSUID) error {
	return s.db.Delete(batchKey(id), pebble.Sync)
}

// List returns the ids of all stored batches, oldest first
func (s *BatchStorage) List() ([]ksuid.KSUID, error) {
	upper := append(bytes.Clone(batchPrefix[:len(batchPrefix)-1]), batchPrefix[len(batchPrefix)-1]+1)

	iter, err := s.db.NewIter(&pebble.IterOptions{
		LowerBound: batchPrefix,
		UpperBound: upper,
	})
	if err != nil {
		return nil, err
	}

	ids := []ksuid.KSUID{}
	for valid := iter.First(); valid; valid = iter.Next() {
		key := bytes.Clone(iter.Key())
		id, err := ksuid.FromBytes(key[len(batchPrefix):])
		if err != nil {
			_ = iter.Close()
			return nil, fmt.Errorf("malformed batch key %x: %w", key, err)
		}
		ids = append(ids, id)
	}

	if err := iter.Error(); err != nil {
		_ = iter.Close()
		return nil, err
	}
	return ids, iter.Close()
}

// Close closes the underlying database
func (s *BatchStorage) Close() error {
	return s.db.Close()
}
