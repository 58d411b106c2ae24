package record

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Entry is one key/value pair of a submitted payload.
type Entry struct {
	Key   string
	Value any
}

// Payload is a submitted record in key order. Order matters: when a legacy
// alias and its canonical key are both present, the later one wins.
type Payload []Entry

// UnmarshalJSON decodes a JSON object keeping its key order. Numbers decode
// as json.Number.
func (p *Payload) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("decode payload: %w", err)
	}
	if tok == nil {
		*p = nil
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return errors.New("decode payload: record must be a JSON object")
	}

	var out Payload
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("decode payload: %w", err)
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("decode payload: unexpected token %v", tok)
		}
		var v any
		if err := dec.Decode(&v); err != nil {
			return fmt.Errorf("decode payload key %q: %w", key, err)
		}
		out = append(out, Entry{Key: key, Value: v})
	}
	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("decode payload: %w", err)
	}

	*p = out
	return nil
}

// MarshalJSON encodes the payload as an object in key order.
func (p Payload) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range p {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(e.Key)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(e.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Get returns the value of the last entry whose key matches key exactly.
func (p Payload) Get(key string) (any, bool) {
	for i := len(p) - 1; i >= 0; i-- {
		if p[i].Key == key {
			return p[i].Value, true
		}
	}
	return nil, false
}

// ParseID converts a loosely typed record identifier. nil, "" and 0 mean no
// identifier (insert).
func ParseID(v any) (*int64, error) {
	var id int64
	switch x := v.(type) {
	case nil:
		return nil, nil
	case string:
		x = strings.TrimSpace(x)
		if x == "" {
			return nil, nil
		}
		n, err := strconv.ParseInt(x, 10, 64)
		if err != nil {
			return nil, malformedID(x)
		}
		id = n
	case json.Number:
		n, err := x.Int64()
		if err != nil {
			return nil, malformedID(x.String())
		}
		id = n
	case float64:
		if x != math.Trunc(x) || x < math.MinInt64 || x >= math.MaxInt64 {
			return nil, malformedID(strconv.FormatFloat(x, 'f', -1, 64))
		}
		id = int64(x)
	case int:
		id = int64(x)
	case int64:
		id = x
	default:
		return nil, malformedID(fmt.Sprint(x))
	}
	if id == 0 {
		return nil, nil
	}
	if id < 0 {
		return nil, malformedID(strconv.FormatInt(id, 10))
	}
	return &id, nil
}

func malformedID(raw string) error {
	return &ValidationError{Field: "recordId", Value: raw, Message: "malformed identifier, expected a positive integer"}
}
