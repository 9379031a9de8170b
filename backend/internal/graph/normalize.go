package graph

import (
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// Record values arrive as driver-native types: int64 for Cypher integers,
// float64 for floats, nil for absent properties. The getters below normalize
// them at the store/engine boundary so strategy code never branches on the
// wire representation.
//
// Two policies, deliberately distinct: descriptive attributes (difficulty,
// similarity) normalize to nil when unknown, count attributes (votes,
// friend counts) normalize to 0. Consumers rely on the difference between
// "no data" and "zero occurrences".

// OptionalInt returns the value as *int, or nil when absent.
func OptionalInt(record *neo4j.Record, key string) *int {
	val, ok := record.Get(key)
	if !ok || val == nil {
		return nil
	}
	switch v := val.(type) {
	case int64:
		n := int(v)
		return &n
	case int:
		return &v
	case float64:
		n := int(v)
		return &n
	}
	return nil
}

// OptionalFloat returns the value as *float64, or nil when absent.
func OptionalFloat(record *neo4j.Record, key string) *float64 {
	val, ok := record.Get(key)
	if !ok || val == nil {
		return nil
	}
	switch v := val.(type) {
	case float64:
		return &v
	case int64:
		f := float64(v)
		return &f
	case int:
		f := float64(v)
		return &f
	}
	return nil
}

// CountInt returns the value as int, defaulting to 0 when absent.
func CountInt(record *neo4j.Record, key string) int {
	val, ok := record.Get(key)
	if !ok || val == nil {
		return 0
	}
	switch v := val.(type) {
	case int64:
		return int(v)
	case int:
		return v
	case float64:
		return int(v)
	}
	return 0
}

// StringValue returns the value as string, defaulting to "" when absent.
func StringValue(record *neo4j.Record, key string) string {
	val, ok := record.Get(key)
	if !ok || val == nil {
		return ""
	}
	if str, ok := val.(string); ok {
		return str
	}
	return ""
}

// StringSlice returns the value as a string slice, empty when absent.
func StringSlice(record *neo4j.Record, key string) []string {
	val, ok := record.Get(key)
	if !ok || val == nil {
		return []string{}
	}
	if slice, ok := val.([]any); ok {
		result := make([]string, 0, len(slice))
		for _, v := range slice {
			if str, ok := v.(string); ok && str != "" {
				result = append(result, str)
			}
		}
		return result
	}
	return []string{}
}

// Node property getters, same normalization rules applied to node property maps.

// PropString returns a node property as string, defaulting to "".
func PropString(props map[string]any, key string) string {
	if val, ok := props[key]; ok {
		if str, ok := val.(string); ok {
			return str
		}
	}
	return ""
}

// PropInt returns a node property as int, defaulting to 0.
func PropInt(props map[string]any, key string) int {
	val, ok := props[key]
	if !ok || val == nil {
		return 0
	}
	switch v := val.(type) {
	case int64:
		return int(v)
	case int:
		return v
	case float64:
		return int(v)
	}
	return 0
}
