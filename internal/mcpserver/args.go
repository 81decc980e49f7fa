package mcpserver

import (
	"fmt"
	"math"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

const maxListLimit = 1000

// optionalNumber returns nil when key is absent or null.
func optionalNumber(req mcp.CallToolRequest, key string) (*float64, error) {
	raw, ok := req.GetArguments()[key]
	if !ok || raw == nil {
		return nil, nil
	}
	switch v := raw.(type) {
	case float64:
		return &v, nil
	case int:
		f := float64(v)
		return &f, nil
	case int64:
		f := float64(v)
		return &f, nil
	default:
		return nil, fmt.Errorf("%s must be a number", key)
	}
}

// optionalInt reads an integer in [lo, hi].
func optionalInt(req mcp.CallToolRequest, key string, lo, hi int) (*int, error) {
	f, err := optionalNumber(req, key)
	if err != nil || f == nil {
		return nil, err
	}
	if math.IsNaN(*f) || *f != math.Trunc(*f) {
		return nil, fmt.Errorf("%s must be an integer", key)
	}
	if *f < float64(lo) || *f > float64(hi) {
		if hi == math.MaxInt32 {
			return nil, fmt.Errorf("%s must be at least %d", key, lo)
		}
		return nil, fmt.Errorf("%s must be between %d and %d", key, lo, hi)
	}
	n := int(*f)
	return &n, nil
}

// linesArgument accepts a string or an array of strings and splits every entry on
// newlines.
func linesArgument(req mcp.CallToolRequest) ([]string, error) {
	raw, ok := req.GetArguments()["lines"]
	if !ok || raw == nil {
		return nil, fmt.Errorf("required argument \"lines\" not found")
	}

	var entries []string
	switch v := raw.(type) {
	case string:
		entries = []string{v}
	case []string:
		entries = v
	case []any:
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("lines must be a string or an array of strings")
			}
			entries = append(entries, s)
		}
	default:
		return nil, fmt.Errorf("lines must be a string or an array of strings")
	}

	var out []string
	for _, e := range entries {
		if e == "" {
			return nil, fmt.Errorf("lines must not contain empty strings")
		}
		out = append(out, strings.Split(e, "\n")...)
	}
	return out, nil
}
