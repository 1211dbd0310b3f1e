package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// scanJSON decodes a JSON column into dest. Postgres returns jsonb as []byte
// while SQLite returns TEXT as string, so both are accepted.
func scanJSON(value interface{}, dest interface{}, name string) error {
	var data []byte
	switch v := value.(type) {
	case nil:
		return nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("failed to scan %s: expected []byte or string, got %T", name, value)
	}

	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("failed to unmarshal %s: %w", name, err)
	}
	return nil
}

// jsonValue encodes v as a JSON string for a json/jsonb/TEXT column.
func jsonValue(v interface{}, name string) (driver.Value, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s: %w", name, err)
	}
	return string(data), nil
}

// StringList is a list of strings persisted as a JSON array.
type StringList []string

// Scan implements sql.Scanner.
func (l *StringList) Scan(value interface{}) error {
	var out []string
	if err := scanJSON(value, &out, "string list"); err != nil {
		return err
	}
	*l = out
	return nil
}

// Value implements driver.Valuer. A nil list is stored as an empty array.
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	return jsonValue([]string(l), "string list")
}
