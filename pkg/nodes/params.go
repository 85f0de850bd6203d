package nodes

// Params carries variant-specific settings from a pipeline manifest to a
// node constructor. Values arrive as TOML primitives (string, int64, float64,
// bool); the accessors below normalize the numeric encodings.
type Params map[string]any

// Float returns the named parameter as a float64, or def when absent or of
// the wrong type. TOML integers are accepted.
func (p Params) Float(key string, def float64) float64 {
	switch v := p[key].(type) {
	case float64:
		return v
	case int64:
		return float64(v)
	case int:
		return float64(v)
	}
	return def
}

// Int returns the named parameter as an int, or def when absent or of the
// wrong type.
func (p Params) Int(key string, def int) int {
	switch v := p[key].(type) {
	case int64:
		return int(v)
	case int:
		return v
	case float64:
		return int(v)
	}
	return def
}

// String returns the named parameter as a string, or def when absent.
func (p Params) String(key, def string) string {
	if v, ok := p[key].(string); ok {
		return v
	}
	return def
}
