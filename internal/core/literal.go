package core

import (
	"encoding/json"
	"strconv"
	"strings"
)

// ParseLiteral derives a typed reading of a raw (unquoted) token the way
// spec.md §3.2 describes: JSON first (covers numbers, true/false/null,
// and quoted strings that happen to already look like JSON), then the
// bareword keywords true/false/null case-insensitively, then numeric
// coercion, else the raw string itself.
func ParseLiteral(raw string) interface{} {
	var v interface{}
	if err := json.Unmarshal([]byte(raw), &v); err == nil {
		return v
	}
	switch strings.ToLower(raw) {
	case "true":
		return true
	case "false":
		return false
	case "null":
		return nil
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return f
	}
	return raw
}
