package telemetry

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Entry is one key/value pair of a Counts mapping.
type Entry struct {
	Key   string
	Value float64
}

// Counts is a string to number mapping that remembers the order keys were
// first seen in the source document.
type Counts struct {
	entries []Entry
	index   map[string]int
}

// NewCounts builds a Counts from entries in the given order.
func NewCounts(entries ...Entry) Counts {
	var c Counts
	for _, e := range entries {
		c.Set(e.Key, e.Value)
	}
	return c
}

// Set stores value under key. A new key is appended; an existing key keeps
// its position.
func (c *Counts) Set(key string, value float64) {
	if c.index == nil {
		c.index = make(map[string]int)
	}
	if i, ok := c.index[key]; ok {
		c.entries[i].Value = value
		return
	}
	c.index[key] = len(c.entries)
	c.entries = append(c.entries, Entry{Key: key, Value: value})
}

// Get returns the value for key.
func (c Counts) Get(key string) (float64, bool) {
	i, ok := c.index[key]
	if !ok {
		return 0, false
	}
	return c.entries[i].Value, true
}

// Len returns the number of keys.
func (c Counts) Len() int { return len(c.entries) }

// Entries returns a copy of all entries in encounter order.
func (c Counts) Entries() []Entry {
	return c.Head(len(c.entries))
}

// Head returns a copy of the first n entries in encounter order.
func (c Counts) Head(n int) []Entry {
	if n > len(c.entries) {
		n = len(c.entries)
	}
	if n <= 0 {
		return nil
	}
	out := make([]Entry, n)
	copy(out, c.entries[:n])
	return out
}

// UnmarshalJSON decodes a JSON object, keeping key order. null decodes to
// an empty Counts.
func (c *Counts) UnmarshalJSON(data []byte) error {
	*c = Counts{}
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("counts: expected object, got %v", tok)
	}

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("counts: expected key, got %v", tok)
		}

		var num json.Number
		if err := dec.Decode(&num); err != nil {
			return fmt.Errorf("counts: value for %q: %w", key, err)
		}
		v, err := num.Float64()
		if err != nil {
			return fmt.Errorf("counts: value for %q: %w", key, err)
		}
		c.Set(key, v)
	}

	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}

// MarshalJSON encodes the mapping as a JSON object in encounter order.
func (c Counts) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range c.entries {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(e.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		v, err := json.Marshal(e.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
