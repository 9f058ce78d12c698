package block

import (
	"fmt"
	"sort"
	"strings"
)

// DocumentMetadata holds the key/value pairs read from front matter.
// A nil map is a valid empty metadata set.
type DocumentMetadata map[string]any

// String returns the value for key formatted as a string.
// Missing keys and nil values yield "".
func (m DocumentMetadata) String(key string) string {
	v, ok := m[key]
	if !ok || v == nil {
		return ""
	}
	switch val := v.(type) {
	case string:
		return val
	case []any:
		parts := make([]string, 0, len(val))
		for _, item := range val {
			parts = append(parts, fmt.Sprint(item))
		}
		return strings.Join(parts, ", ")
	default:
		return fmt.Sprint(val)
	}
}

// Keys returns the metadata keys in sorted order.
func (m DocumentMetadata) Keys() []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
