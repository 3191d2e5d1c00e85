package tools

// StringArg extracts a string argument, returning "" when absent or not a
// string.
func StringArg(args map[string]any, key string) string {
	if v, ok := args[key].(string); ok {
		return v
	}
	return ""
}

// IntArg extracts an integer argument, accepting the float64 values JSON
// decoding produces. Returns def when the argument is absent or malformed.
func IntArg(args map[string]any, key string, def int) int {
	switch v := args[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	case int64:
		return int(v)
	default:
		return def
	}
}
