package model

import (
	"fmt"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/gcbaptista/go-fuzzy-search/internal/errors"
)

// Snapshot is an ordered sequence of self-describing values written by Save and
// read back, in the same order, by Load. It is meant for handing a built index to
// another goroutine, process or machine; there is no compatibility guarantee
// between versions of this module.
type Snapshot struct {
	items  []msgpack.RawMessage
	cursor int
}

// NewSnapshot creates an empty snapshot.
func NewSnapshot() *Snapshot {
	return &Snapshot{}
}

// Add encodes value and appends it.
func (s *Snapshot) Add(value interface{}) error {
	data, err := msgpack.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot item %d: %w", len(s.items), err)
	}
	s.items = append(s.items, data)
	return nil
}

// Next decodes the next unread item into target, which must be a pointer.
func (s *Snapshot) Next(target interface{}) error {
	if s.cursor >= len(s.items) {
		return fmt.Errorf("snapshot has no item at position %d: %w", s.cursor, errors.ErrSnapshotMismatch)
	}
	if err := msgpack.Unmarshal(s.items[s.cursor], target); err != nil {
		return fmt.Errorf("failed to decode snapshot item %d: %w", s.cursor, err)
	}
	s.cursor++
	return nil
}

// Len returns the number of items.
func (s *Snapshot) Len() int {
	return len(s.items)
}

// Remaining returns the number of items not read yet.
func (s *Snapshot) Remaining() int {
	return len(s.items) - s.cursor
}

// MarshalBinary encodes all items as one msgpack array.
func (s *Snapshot) MarshalBinary() ([]byte, error) {
	items := s.items
	if items == nil {
		items = []msgpack.RawMessage{}
	}
	return msgpack.Marshal(items)
}

// UnmarshalBinary replaces the content with data produced by MarshalBinary and rewinds.
func (s *Snapshot) UnmarshalBinary(data []byte) error {
	var items []msgpack.RawMessage
	if err := msgpack.Unmarshal(data, &items); err != nil {
		return fmt.Errorf("failed to decode snapshot: %w", err)
	}
	s.items = items
	s.cursor = 0
	return nil
}

// GobEncode implements the gob.GobEncoder interface for Snapshot.
func (s *Snapshot) GobEncode() ([]byte, error) {
	return s.MarshalBinary()
}

// GobDecode implements the gob.GobDecoder interface for Snapshot.
func (s *Snapshot) GobDecode(data []byte) error {
	return s.UnmarshalBinary(data)
}
