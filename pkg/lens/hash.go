package lens

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sort"
)

// contentHash returns a stable SHA-256 hex digest of raw, independent of key
// order in the source YAML. json.Marshal on a map[string]any sorts keys, so
// round-tripping through it canonicalizes ordering before hashing.
func contentHash(raw []byte) (string, error) {
	var generic any
	if err := yamlToGeneric(raw, &generic); err != nil {
		return "", err
	}
	canonical, err := json.Marshal(sortedAny(generic))
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(canonical)
	return hex.EncodeToString(sum[:]), nil
}

// sortedAny recursively normalizes map[string]any and []any so that
// json.Marshal (which already sorts map keys) produces a byte-identical
// encoding regardless of the original document's key or slice ordering
// where that ordering is not semantically meaningful (maps only; slices
// are left as declared since lens rule order is significant).
func sortedAny(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			out[k] = sortedAny(t[k])
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = sortedAny(e)
		}
		return out
	default:
		return t
	}
}
