package model

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/gcbaptista/go-fuzzy-search/internal/errors"
)

// MetaEntry is a single key/value pair of a Meta bag.
type MetaEntry struct {
	Key   string
	Value interface{}
}

// Meta is an ordered bag of diagnostics (durations in milliseconds, counts, ...).
// Keys are unique; insertion order is preserved.
type Meta struct {
	keys   []string
	values map[string]interface{}
}

// NewMeta creates an empty Meta.
func NewMeta() *Meta {
	return &Meta{values: make(map[string]interface{})}
}

// NewMetaFromEntries creates a Meta from entries, failing on duplicate keys.
func NewMetaFromEntries(entries ...MetaEntry) (*Meta, error) {
	m := NewMeta()
	for _, entry := range entries {
		if err := m.Add(entry.Key, entry.Value); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Add appends a key. Adding a key that is already present is a usage error.
func (m *Meta) Add(key string, value interface{}) error {
	if m.values == nil {
		m.values = make(map[string]interface{})
	}
	if _, exists := m.values[key]; exists {
		return errors.NewDuplicateMetaKeyError(key)
	}
	m.keys = append(m.keys, key)
	m.values[key] = value
	return nil
}

// AddAll appends every entry of other, failing on the first duplicate key.
func (m *Meta) AddAll(other *Meta) error {
	if other == nil {
		return nil
	}
	for _, entry := range other.Entries() {
		if err := m.Add(entry.Key, entry.Value); err != nil {
			return err
		}
	}
	return nil
}

// Get returns the value stored under key.
func (m *Meta) Get(key string) (interface{}, bool) {
	if m == nil {
		return nil, false
	}
	v, ok := m.values[key]
	return v, ok
}

// Keys returns the keys in insertion order.
func (m *Meta) Keys() []string {
	if m == nil {
		return nil
	}
	keys := make([]string, len(m.keys))
	copy(keys, m.keys)
	return keys
}

// Len returns the number of entries.
func (m *Meta) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// Entries returns all entries in insertion order.
func (m *Meta) Entries() []MetaEntry {
	if m == nil {
		return nil
	}
	entries := make([]MetaEntry, len(m.keys))
	for i, key := range m.keys {
		entries[i] = MetaEntry{Key: key, Value: m.values[key]}
	}
	return entries
}

// MarshalJSON renders the bag as a JSON object keeping insertion order.
func (m *Meta) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, entry := range m.Entries() {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(entry.Key)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(entry.Value)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal meta value for key '%s': %w", entry.Key, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MergeMeta combines several bags into one. With no bags the result is empty and a
// single bag is returned unchanged. Otherwise values are grouped by key (keys in order
// of first appearance): a key seen once keeps its value, numeric values are summed,
// and anything else is spread over key_0, key_1, ...
func MergeMeta(bags ...*Meta) *Meta {
	switch len(bags) {
	case 0:
		return NewMeta()
	case 1:
		if bags[0] == nil {
			return NewMeta()
		}
		return bags[0]
	}

	var order []string
	grouped := make(map[string][]interface{})
	for _, bag := range bags {
		for _, entry := range bag.Entries() {
			if _, seen := grouped[entry.Key]; !seen {
				order = append(order, entry.Key)
			}
			grouped[entry.Key] = append(grouped[entry.Key], entry.Value)
		}
	}

	merged := NewMeta()
	for _, key := range order {
		values := grouped[key]
		if len(values) == 1 {
			merged.put(key, values[0])
			continue
		}
		if sum, ok := sumNumbers(values); ok {
			merged.put(key, sum)
			continue
		}
		for i, value := range values {
			merged.put(fmt.Sprintf("%s_%d", key, i), value)
		}
	}
	return merged
}

// put overwrites or appends; only used while merging where suffixed keys cannot collide
// with the keys of the merged bags in practice.
func (m *Meta) put(key string, value interface{}) {
	if _, exists := m.values[key]; !exists {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
}

// sumNumbers adds the values if all of them are numeric. Integers stay integers.
func sumNumbers(values []interface{}) (interface{}, bool) {
	var intSum int64
	var floatSum float64
	allInts := true
	for _, value := range values {
		switch v := value.(type) {
		case int:
			intSum += int64(v)
			floatSum += float64(v)
		case int32:
			intSum += int64(v)
			floatSum += float64(v)
		case int64:
			intSum += v
			floatSum += float64(v)
		case float32:
			allInts = false
			floatSum += float64(v)
		case float64:
			allInts = false
			floatSum += v
		default:
			return nil, false
		}
	}
	if allInts {
		return intSum, true
	}
	return floatSum, true
}
