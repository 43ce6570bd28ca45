// Package merge combines configuration fragments contributed by feature
// modules with each other and with files already on disk.
package merge

import "github.com/magic-gear/calcifer/internal/value"

// Merge combines incoming into existing and returns the result. Neither
// operand is modified.
//
//   - two arrays: existing elements then incoming ones, with structurally
//     equal duplicates dropped; the first occurrence keeps its position
//   - two objects: deep merge where nested arrays follow the array rule and
//     incoming scalars overwrite
//   - anything else: incoming replaces existing
func Merge(incoming, existing any) any {
	incoming = value.Normalize(incoming)
	existing = value.Normalize(existing)

	switch in := incoming.(type) {
	case []any:
		if ex, ok := existing.([]any); ok {
			return mergeArrays(ex, in)
		}
	case *value.Object:
		if ex, ok := existing.(*value.Object); ok {
			return mergeObjects(in, ex)
		}
	}
	return value.Clone(incoming)
}

func mergeArrays(existing, incoming []any) []any {
	out := make([]any, 0, len(existing)+len(incoming))
	for _, list := range [][]any{existing, incoming} {
		for _, item := range list {
			if !value.Contains(out, item) {
				out = append(out, value.Clone(item))
			}
		}
	}
	return out
}

func mergeObjects(incoming, existing *value.Object) *value.Object {
	out := existing.Clone()
	for _, k := range incoming.Keys() {
		in, _ := incoming.Get(k)
		ex, ok := out.Get(k)
		if !ok {
			out.Set(k, value.Clone(in))
			continue
		}
		out.Set(k, Merge(in, ex))
	}
	return out
}
