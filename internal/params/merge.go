// Package params manages Pioneer parameter documents: the deep merge of
// persisted overrides onto defaults, the per-mode persisted files under the
// user config directory, and default documents fetched from the binary with
// embedded fallbacks.
package params

// DeepMerge merges override onto base, object-wise. Two JSON objects merge
// key by key (override keys not in base are added); any other pairing
// resolves to override. Both inputs are left untouched; the result shares
// no mutable structure with either.
func DeepMerge(base, override interface{}) interface{} {
	baseObj, baseOK := base.(map[string]interface{})
	overrideObj, overrideOK := override.(map[string]interface{})
	if !baseOK || !overrideOK {
		return clone(override)
	}

	merged := make(map[string]interface{}, len(baseObj)+len(overrideObj))
	for k, v := range baseObj {
		merged[k] = clone(v)
	}
	for k, v := range overrideObj {
		if existing, ok := merged[k]; ok {
			merged[k] = DeepMerge(existing, v)
		} else {
			merged[k] = clone(v)
		}
	}
	return merged
}

func clone(v interface{}) interface{} {
	switch val := v.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(val))
		for k, child := range val {
			out[k] = clone(child)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(val))
		for i, child := range val {
			out[i] = clone(child)
		}
		return out
	default:
		// Scalars (string, float64, bool, nil) are immutable as decoded
		// by encoding/json.
		return val
	}
}
