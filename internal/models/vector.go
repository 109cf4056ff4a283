// ABOUTME: Vector column type storing embeddings as a JSON array on the entry row.
// ABOUTME: A nil vector is persisted as SQL NULL, meaning "not yet indexed".
package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Vector is an embedding stored inline on its entry.
type Vector []float32

// Value implements driver.Valuer.
func (v Vector) Value() (driver.Value, error) {
	if len(v) == 0 {
		return nil, nil
	}
	data, err := json.Marshal([]float32(v))
	if err != nil {
		return nil, fmt.Errorf("marshal vector: %w", err)
	}
	return string(data), nil
}

// Scan implements sql.Scanner.
func (v *Vector) Scan(src interface{}) error {
	var raw []byte
	switch s := src.(type) {
	case nil:
		*v = nil
		return nil
	case []byte:
		raw = s
	case string:
		raw = []byte(s)
	default:
		return fmt.Errorf("cannot scan %T into Vector", src)
	}
	if len(raw) == 0 || string(raw) == "null" {
		*v = nil
		return nil
	}
	var out []float32
	if err := json.Unmarshal(raw, &out); err != nil {
		return fmt.Errorf("unmarshal vector: %w", err)
	}
	*v = out
	return nil
}
