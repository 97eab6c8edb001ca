package common

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/teemow/ticktick-mcp/internal/ticktick"
)

// MCP clients deliver tool parameters loosely typed: integers and
// booleans frequently arrive as strings. The helpers here coerce them
// to the declared type or return an error the handler turns into a
// validation response. They never panic.

// RequiredString extracts a required string argument.
func RequiredString(args map[string]interface{}, name string) (string, error) {
	value, ok := args[name].(string)
	if !ok || value == "" {
		return "", fmt.Errorf("%s is required", name)
	}
	return value, nil
}

// OptionalString extracts an optional string argument, returning "" when
// absent.
func OptionalString(args map[string]interface{}, name string) string {
	value, _ := args[name].(string)
	return value
}

// OptionalBool extracts an optional boolean argument. Accepts native
// booleans and the usual string spellings ("true", "1", "false", ...).
func OptionalBool(args map[string]interface{}, name string, defaultValue bool) (bool, error) {
	raw, ok := args[name]
	if !ok || raw == nil {
		return defaultValue, nil
	}

	switch v := raw.(type) {
	case bool:
		return v, nil
	case string:
		if v == "" {
			return defaultValue, nil
		}
		parsed, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return false, fmt.Errorf("%s must be a boolean, got %q", name, v)
		}
		return parsed, nil
	default:
		return false, fmt.Errorf("%s must be a boolean, got %T", name, raw)
	}
}

// OptionalInt extracts an optional integer argument. Accepts JSON
// numbers and numeric strings.
func OptionalInt(args map[string]interface{}, name string, defaultValue int) (int, error) {
	raw, ok := args[name]
	if !ok || raw == nil {
		return defaultValue, nil
	}

	switch v := raw.(type) {
	case float64:
		return int(v), nil
	case int:
		return v, nil
	case string:
		if v == "" {
			return defaultValue, nil
		}
		parsed, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0, fmt.Errorf("%s must be an integer, got %q", name, v)
		}
		return parsed, nil
	default:
		return 0, fmt.Errorf("%s must be an integer, got %T", name, raw)
	}
}

// PriorityArg extracts a priority argument and validates it against the
// closed set {0, 1, 3, 5}.
func PriorityArg(args map[string]interface{}, name string, defaultValue int) (int, error) {
	priority, err := OptionalInt(args, name, defaultValue)
	if err != nil {
		return 0, err
	}
	if priority != defaultValue && !ticktick.ValidPriority(priority) {
		return 0, fmt.Errorf("%s must be one of 0 (None), 1 (Low), 3 (Medium), 5 (High)", name)
	}
	return priority, nil
}

// DateArg extracts an optional date argument and parses it. Returns the
// zero time when the argument is absent.
func DateArg(args map[string]interface{}, name string) (time.Time, error) {
	value := OptionalString(args, name)
	if value == "" {
		return time.Time{}, nil
	}
	parsed, err := ticktick.ParseTime(value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid %s: %v", name, err)
	}
	return parsed, nil
}
