// Package models - FormData JSONB type for PostgreSQL
package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
)

// FormData is the per-invoice map of field keys to entered values,
// keyed by "sectionID_fieldID". Checkbox fields store []string, every
// other field type stores a single string.
type FormData map[string]interface{}

// Value implements the driver.Valuer interface
func (f FormData) Value() (driver.Value, error) {
	if f == nil {
		return nil, nil
	}
	return json.Marshal(f)
}

// Scan implements the sql.Scanner interface
func (f *FormData) Scan(value interface{}) error {
	if value == nil {
		*f = nil
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("type assertion to []byte failed")
	}

	if len(bytes) == 0 {
		*f = make(FormData)
		return nil
	}

	result := make(FormData)
	if err := json.Unmarshal(bytes, &result); err != nil {
		return err
	}
	*f = result
	return nil
}

// StringValue returns the value for key as a string, if present
func (f FormData) StringValue(key string) (string, bool) {
	v, ok := f[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// StringSlice returns the value for key as a string slice, if present.
// JSON decoding yields []interface{}, so both shapes are accepted.
func (f FormData) StringSlice(key string) ([]string, bool) {
	v, ok := f[key]
	if !ok {
		return nil, false
	}
	switch vals := v.(type) {
	case []string:
		return vals, true
	case []interface{}:
		out := make([]string, 0, len(vals))
		for _, item := range vals {
			s, ok := item.(string)
			if !ok {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	}
	return nil, false
}
