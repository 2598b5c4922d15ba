package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"strconv"
)

// JSONMap is an open key/value map stored as a JSON column.
//
// Recognized keys by entity:
//   - Donation.NutritionalInfo: calories, protein, carbs, fats, fiber, notes
//   - Notification.Metadata:    donation_id, requirement_id, pickup_request_id, distance_km
//   - Payment.Metadata:         gateway-specific passthrough fields
//
// Unrecognized keys are preserved as-is.
type JSONMap map[string]interface{}

// Value implements driver.Valuer so GORM can persist the map as JSON text.
func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		return "{}", nil
	}
	data, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// Scan implements sql.Scanner.
func (m *JSONMap) Scan(value interface{}) error {
	if value == nil {
		*m = JSONMap{}
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return errors.New("unsupported type for JSONMap")
	}

	if len(data) == 0 {
		*m = JSONMap{}
		return nil
	}
	return json.Unmarshal(data, m)
}

// FloatValue reads a numeric entry, tolerating both numbers and numeric
// strings (form submissions often store the latter). Returns 0 when missing
// or unparsable.
func (m JSONMap) FloatValue(key string) float64 {
	switch v := m[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case string:
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	case json.Number:
		if f, err := v.Float64(); err == nil {
			return f
		}
	}
	return 0
}
