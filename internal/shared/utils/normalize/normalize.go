// Package normalize provides field-level sanitizers for values read from
// the source panel before they are written to the target schema. All
// functions return nil instead of failing: a single dirty field must never
// abort the row it belongs to.
package normalize

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// ALPN converts the legacy "none"/"null"/"" ALPN encodings to nil. Any other
// non-empty value is returned as a trimmed string.
//
// Example:
//
//	"none"         -> nil
//	" NULL "       -> nil
//	"h2,http/1.1"  -> "h2,http/1.1"
func ALPN(value any) any {
	if value == nil {
		return nil
	}
	s := strings.TrimSpace(asString(value))
	switch strings.ToLower(s) {
	case "", "none", "null":
		return nil
	}
	return s
}

// JSONField validates or serializes a value destined for a JSON/TEXT column.
// Strings (and []byte) must parse as JSON, any other value is marshalled.
// Empty input or any parse/marshal failure yields nil, never an error.
//
// Example:
//
//	`{"a":1}`            -> `{"a":1}`
//	map[string]any{}     -> "{}"
//	"not json"           -> nil
//	nil                  -> nil
func JSONField(value any) any {
	if value == nil {
		return nil
	}
	switch v := value.(type) {
	case string:
		return validateJSON(v)
	case []byte:
		return validateJSON(string(v))
	case json.RawMessage:
		return validateJSON(string(v))
	default:
		raw, err := json.Marshal(v)
		if err != nil {
			return nil
		}
		return string(raw)
	}
}

func validateJSON(s string) any {
	if s == "" {
		return nil
	}
	if !json.Valid([]byte(s)) {
		return nil
	}
	return s
}

// ExpiryTime converts the source's expiry representation (Unix epoch stored
// as integer, float or numeric string, or an already-formatted timestamp)
// to a UTC time.Time. Zero, empty and unparseable values yield nil.
func ExpiryTime(value any) any {
	switch v := value.(type) {
	case nil:
		return nil
	case time.Time:
		if v.IsZero() {
			return nil
		}
		return v.UTC()
	case int64:
		return epochTime(v)
	case int:
		return epochTime(int64(v))
	case uint64:
		return epochTime(int64(v))
	case float64:
		return epochTime(int64(v))
	case []byte:
		return parseExpiryString(string(v))
	case string:
		return parseExpiryString(v)
	default:
		return nil
	}
}

func epochTime(sec int64) any {
	if sec == 0 {
		return nil
	}
	return time.Unix(sec, 0).UTC()
}

func parseExpiryString(s string) any {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if sec, err := strconv.ParseInt(s, 10, 64); err == nil {
		return epochTime(sec)
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return epochTime(int64(f))
	}
	for _, layout := range []string{time.RFC3339, time.DateTime, time.DateOnly} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}
	return nil
}

func asString(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case []byte:
		return string(v)
	default:
		raw, err := json.Marshal(v)
		if err != nil {
			return ""
		}
		return string(raw)
	}
}
