package database

import (
	"database/sql"
	"encoding/json"
)

// nullInt64ToPtr converts a sql.NullInt64 to a pointer (nil if not valid)
func nullInt64ToPtr(n sql.NullInt64) *int64 {
	if n.Valid {
		return &n.Int64
	}
	return nil
}

// nullStringToPtr converts a sql.NullString to a pointer (nil if not valid)
func nullStringToPtr(n sql.NullString) *string {
	if n.Valid {
		return &n.String
	}
	return nil
}

// marshalToString marshals a value to a JSON string
// Useful when the column is NOT NULL and requires a string value
func marshalToString(v any) (string, error) {
	if v == nil {
		return "null", nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// unmarshalFromString unmarshal JSON from a string into a value
// Useful when the column is NOT NULL
func unmarshalFromString(data string, v any) error {
	if data == "" {
		return nil
	}
	return json.Unmarshal([]byte(data), v)
}
