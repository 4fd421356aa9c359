package validate

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"stockroom/internal/domain"
)

// itemInput keeps each field raw so a bad value in one field never aborts
// the decode: every violation gets reported, not just the first.
type itemInput struct {
	Name        json.RawMessage `json:"name"`
	Description json.RawMessage `json:"description"`
	Category    json.RawMessage `json:"category"`
	Price       json.RawMessage `json:"price"`
	Quantity    json.RawMessage `json:"quantity"`
}

// ItemBody parses a JSON request body into a typed change set plus the list
// of field-level violations. requireName enforces the create contract; on
// update name is optional but must still be a non-blank string if present.
// Unrecognized body fields are ignored. The returned error means the body
// was not a JSON object at all.
func ItemBody(body []byte, requireName bool) (domain.ItemChange, []string, error) {
	var in itemInput
	if err := json.Unmarshal(body, &in); err != nil {
		return domain.ItemChange{}, nil, err
	}

	var c domain.ItemChange
	var details []string

	switch {
	case in.Name == nil:
		if requireName {
			details = append(details, "'name' is required")
		}
	case isNull(in.Name):
		details = append(details, "'name' is required")
	default:
		var s string
		if err := json.Unmarshal(in.Name, &s); err != nil {
			details = append(details, "'name' must be a string")
		} else if strings.TrimSpace(s) == "" {
			details = append(details, "'name' is required")
		} else {
			c.Name = domain.OptString{Set: true, Value: s}
		}
	}

	c.Description = parseText(in.Description, "description", &details)
	c.Category = parseText(in.Category, "category", &details)
	c.Price = parseNumber(in.Price, &details)
	c.Quantity = parseInteger(in.Quantity, &details)

	return c, details, nil
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

func parseText(raw json.RawMessage, field string, details *[]string) domain.OptString {
	if raw == nil {
		return domain.OptString{}
	}
	if isNull(raw) {
		return domain.OptString{Set: true, Null: true}
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		*details = append(*details, "'"+field+"' must be a string")
		return domain.OptString{}
	}
	return domain.OptString{Set: true, Value: s}
}

// parseNumber accepts a JSON number or a numeric string, either way it must
// come out finite.
func parseNumber(raw json.RawMessage, details *[]string) domain.OptFloat {
	if raw == nil {
		return domain.OptFloat{}
	}
	if isNull(raw) {
		return domain.OptFloat{Set: true, Null: true}
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return domain.OptFloat{Set: true, Value: f}
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err == nil && !math.IsInf(f, 0) && !math.IsNaN(f) {
			return domain.OptFloat{Set: true, Value: f}
		}
	}
	*details = append(*details, "'price' must be a valid number")
	return domain.OptFloat{}
}

// parseInteger accepts a JSON integer, an integral float (5.0), or an
// integer string. Anything fractional is rejected.
func parseInteger(raw json.RawMessage, details *[]string) domain.OptInt {
	if raw == nil {
		return domain.OptInt{}
	}
	if isNull(raw) {
		return domain.OptInt{Set: true, Null: true}
	}
	var n int64
	if err := json.Unmarshal(raw, &n); err == nil {
		return domain.OptInt{Set: true, Value: n}
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil && f == math.Trunc(f) {
		return domain.OptInt{Set: true, Value: int64(f)}
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
		if err == nil {
			return domain.OptInt{Set: true, Value: n}
		}
	}
	*details = append(*details, "'quantity' must be a valid integer")
	return domain.OptInt{}
}
