package model

import (
	"bytes"
	"encoding/gob"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	searcherrors "github.com/gcbaptista/go-fuzzy-search/internal/errors"
)

func TestSnapshot_ReadsItemsInOrder(t *testing.T) {
	s := NewSnapshot()
	require.NoError(t, s.Add("$alice$bob$"))
	require.NoError(t, s.Add([]int32{6, 5, 3, 1}))
	require.NoError(t, s.Add(3))

	var str string
	var ints []int32
	var n int
	require.NoError(t, s.Next(&str))
	require.NoError(t, s.Next(&ints))
	require.NoError(t, s.Next(&n))

	assert.Equal(t, "$alice$bob$", str)
	assert.Equal(t, []int32{6, 5, 3, 1}, ints)
	assert.Equal(t, 3, n)
	assert.Equal(t, 0, s.Remaining())

	err := s.Next(&n)
	if !errors.Is(err, searcherrors.ErrSnapshotMismatch) {
		t.Errorf("Expected ErrSnapshotMismatch when reading past the end, got %v", err)
	}
}

func TestSnapshot_GobTransport(t *testing.T) {
	original := NewSnapshot()
	require.NoError(t, original.Add([]string{"Alice", "Bob"}))
	require.NoError(t, original.Add(map[string]int32{"ali": 2}))

	var buf bytes.Buffer
	require.NoError(t, gob.NewEncoder(&buf).Encode(original))

	decoded := NewSnapshot()
	require.NoError(t, gob.NewDecoder(&buf).Decode(decoded))
	assert.Equal(t, 2, decoded.Len())

	var terms []string
	var postings map[string]int32
	require.NoError(t, decoded.Next(&terms))
	require.NoError(t, decoded.Next(&postings))
	assert.Equal(t, []string{"Alice", "Bob"}, terms)
	assert.Equal(t, map[string]int32{"ali": 2}, postings)
}
