package validation

// Helpers for pulling typed values out of a decoded JSON object. They check
// only the primitive kind; range and length rules stay with the entities.

// StringValue returns value as a string.
func StringValue(value any, field string) (string, error) {
	s, ok := value.(string)
	if !ok {
		return "", Fail(field, KindType, "%s must be a string", field)
	}
	return s, nil
}

// IntValue returns value as an int.
func IntValue(value any, field string) (int, error) {
	n, ok := asInt(value)
	if !ok {
		return 0, Fail(field, KindType, "%s must be an integer", field)
	}
	return n, nil
}

// StringList accepts a JSON array of strings.
func StringList(value any, field string) ([]string, error) {
	switch v := value.(type) {
	case []string:
		return v, nil
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, Fail(field, KindType, "%s must contain only strings", field)
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, Fail(field, KindType, "%s must be a list", field)
	}
}

// Optional runs conv on data[key] when the key is present.
func Optional[T any](data map[string]any, key string, conv func(any, string) (T, error)) (*T, error) {
	raw, ok := data[key]
	if !ok {
		return nil, nil
	}
	v, err := conv(raw, key)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
