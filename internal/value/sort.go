package value

import "sort"

// Reorder returns a copy whose preferred keys come first, in the order
// given, followed by the remaining keys in their existing relative order.
// Preferred keys that are absent are skipped.
func (o *Object) Reorder(preferred []string) *Object {
	if o == nil {
		return nil
	}
	out := NewObject()
	for _, k := range preferred {
		if v, ok := o.values[k]; ok {
			out.Set(k, v)
		}
	}
	for _, k := range o.keys {
		if !out.Has(k) {
			out.Set(k, o.values[k])
		}
	}
	return out
}

// Sorted returns a copy with keys in lexicographic order.
func (o *Object) Sorted() *Object {
	if o == nil {
		return nil
	}
	keys := o.Keys()
	sort.Strings(keys)
	return o.Reorder(keys)
}
