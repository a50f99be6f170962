package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// JSONB is a custom type for handling JSONB object fields
type JSONB map[string]interface{}

// Value implements the driver.Valuer interface
// Returns JSON as string for compatibility with pgx simple protocol mode
func (j JSONB) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	bytes, err := json.Marshal(j)
	if err != nil {
		return nil, err
	}
	return string(bytes), nil
}

// Scan implements the sql.Scanner interface
func (j *JSONB) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}
	var raw []byte
	switch v := value.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("unsupported JSONB source type %T", value)
	}
	return json.Unmarshal(raw, j)
}

// Amenities is a JSON array of amenity names stored on a bus.
// Malformed stored values scan as an empty list.
type Amenities []string

// Value implements the driver.Valuer interface
func (a Amenities) Value() (driver.Value, error) {
	if a == nil {
		return "[]", nil
	}
	bytes, err := json.Marshal([]string(a))
	if err != nil {
		return nil, err
	}
	return string(bytes), nil
}

// Scan implements the sql.Scanner interface
func (a *Amenities) Scan(value interface{}) error {
	*a = ParseAmenities(value)
	return nil
}

// ParseAmenities decodes a JSON array, returning an empty list on any error
func ParseAmenities(value interface{}) Amenities {
	var raw []byte
	switch v := value.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return Amenities{}
	}

	var list []string
	if err := json.Unmarshal(raw, &list); err != nil || list == nil {
		return Amenities{}
	}
	return Amenities(list)
}
