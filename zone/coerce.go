package zone

import "strings"

// The value transforms below run before a field is checked. They never fail:
// a value of the wrong shape passes through unchanged and is rejected by the
// check that follows.

func toUpper(v interface{}) interface{} {
	if s, ok := v.(string); ok {
		return strings.ToUpper(s)
	}
	return v
}

func toLower(v interface{}) interface{} {
	if s, ok := v.(string); ok {
		return strings.ToLower(s)
	}
	return v
}

// toList wraps anything that is not already a list.
func toList(v interface{}) []interface{} {
	if l, ok := v.([]interface{}); ok {
		return l
	}
	return []interface{}{v}
}

func emptyToNil(v interface{}) interface{} {
	if s, ok := v.(string); ok && s == "" {
		return nil
	}
	return v
}

func translateAuthorisation(v interface{}) interface{} {
	if s, ok := v.(string); ok {
		return strings.Replace(s, "AUTHORISATION", "AUTHORIZATION", -1)
	}
	return v
}

// listDepth counts how many times the first element of v can be unwrapped
// before reaching something that is not a list. An empty list stops the walk.
func listDepth(v interface{}) int {
	depth := 0
	for {
		l, ok := v.([]interface{})
		if !ok {
			return depth
		}
		depth++
		if len(l) == 0 {
			return depth
		}
		v = l[0]
	}
}
