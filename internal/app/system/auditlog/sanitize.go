// internal/app/system/auditlog/sanitize.go
package auditlog

import "strings"

// maxDepth is the deepest nesting level copied into a snapshot.
const maxDepth = 3

// truncated replaces containers nested deeper than maxDepth.
const truncated = "[truncated]"

var sensitiveKeys = map[string]bool{
	"pass":          true,
	"password":      true,
	"senha":         true,
	"token":         true,
	"authorization": true,
	"auth":          true,
	"secret":        true,
	"jwt":           true,
}

// Sanitize returns a copy of m without credential-like keys, matched
// case-insensitively at every level.
func Sanitize(m map[string]any) map[string]any {
	out, _ := sanitizeValue(m, 0).(map[string]any)
	if out == nil {
		out = map[string]any{}
	}
	return out
}

func sanitizeValue(v any, depth int) any {
	switch t := v.(type) {
	case map[string]any:
		if depth > maxDepth {
			return truncated
		}
		out := make(map[string]any, len(t))
		for k, val := range t {
			if sensitiveKeys[strings.ToLower(k)] {
				continue
			}
			out[k] = sanitizeValue(val, depth+1)
		}
		return out
	case []any:
		if depth > maxDepth {
			return truncated
		}
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = sanitizeValue(val, depth+1)
		}
		return out
	default:
		return v
	}
}
