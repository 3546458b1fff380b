package model

import (
	"fmt"
	"math"
	"strconv"

	"github.com/vmihailenco/msgpack/v5"
)

// DocumentIDField is the key under which a document carries its id.
const DocumentIDField = "id"

// Document is a flexible map representing a JSON document stored in a collection.
// The id is the only required field. Other fields are indexed when the collection
// lists them as indexed fields.
// Example: doc["first_name"], doc["last_name"]
type Document map[string]interface{}

// GetID returns the document id. Numeric ids are rendered without a fraction so
// that {"id": 42} and {"id": "42"} address the same document.
func (d Document) GetID() (string, bool) {
	raw, ok := d[DocumentIDField]
	if !ok || raw == nil {
		return "", false
	}
	switch id := raw.(type) {
	case string:
		if id != "" {
			return id, true
		}
	case float64:
		return strconv.FormatFloat(id, 'f', -1, 64), true
	case int:
		return strconv.Itoa(id), true
	case int64:
		return strconv.FormatInt(id, 10), true
	case uint64:
		return strconv.FormatUint(id, 10), true
	case int8, int16, int32, uint, uint8, uint16, uint32:
		return fmt.Sprintf("%d", id), true
	}
	return "", false
}

// Terms collects the searchable strings of the given fields, in field order.
// String fields contribute one term, string arrays contribute one term per element,
// and "first_name+last_name" style keys join several fields with a space.
func (d Document) Terms(fields []string) []string {
	terms := make([]string, 0, len(fields))
	for _, field := range fields {
		terms = append(terms, d.fieldTerms(field)...)
	}
	return terms
}

func (d Document) fieldTerms(field string) []string {
	if parts := splitCompositeField(field); len(parts) > 1 {
		joined := ""
		for _, part := range parts {
			value, ok := d[part].(string)
			if !ok || value == "" {
				continue
			}
			if joined != "" {
				joined += " "
			}
			joined += value
		}
		if joined == "" {
			return nil
		}
		return []string{joined}
	}

	switch value := d[field].(type) {
	case string:
		return []string{value}
	case []string:
		return value
	case []interface{}:
		terms := make([]string, 0, len(value))
		for _, item := range value {
			if s, ok := item.(string); ok {
				terms = append(terms, s)
			}
		}
		return terms
	}
	return nil
}

func splitCompositeField(field string) []string {
	var parts []string
	start := 0
	for i := 0; i < len(field); i++ {
		if field[i] == '+' {
			parts = append(parts, field[start:i])
			start = i + 1
		}
	}
	return append(parts, field[start:])
}

// DecodeMsgpack restores a document saved in a snapshot. msgpack stores integers
// in their smallest encoding, so every integer is read back as int (uint64 values
// above math.MaxInt stay uint64) and float32 as float64, in nested values too.
func (d *Document) DecodeMsgpack(dec *msgpack.Decoder) error {
	var raw map[string]interface{}
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	if raw == nil {
		*d = nil
		return nil
	}
	for key, value := range raw {
		raw[key] = canonicalValue(value)
	}
	*d = raw
	return nil
}

func canonicalValue(value interface{}) interface{} {
	switch v := value.(type) {
	case int:
		return v
	case int8:
		return int(v)
	case int16:
		return int(v)
	case int32:
		return int(v)
	case int64:
		return int(v)
	case uint8:
		return int(v)
	case uint16:
		return int(v)
	case uint32:
		return int(v)
	case uint:
		if uint64(v) <= math.MaxInt {
			return int(v)
		}
		return v
	case uint64:
		if v <= math.MaxInt {
			return int(v)
		}
		return v
	case float32:
		return float64(v)
	case []interface{}:
		for i := range v {
			v[i] = canonicalValue(v[i])
		}
		return v
	case map[string]interface{}:
		for key, nested := range v {
			v[key] = canonicalValue(nested)
		}
		return v
	case map[interface{}]interface{}:
		converted := make(map[string]interface{}, len(v))
		for key, nested := range v {
			name, ok := key.(string)
			if !ok {
				return v
			}
			converted[name] = canonicalValue(nested)
		}
		return converted
	}
	return value
}
