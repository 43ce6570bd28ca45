// Package value models the JSON-shaped data that manifests and config
// blocks are built from.
//
// A value is one of: nil, bool, string, a number (int, int64, float64),
// []any, or *Object. Objects keep insertion order so serialized output is
// deterministic.
package value

import (
	"fmt"
	"math"
	"reflect"
	"sort"
)

// Object is a string-keyed map that remembers insertion order.
type Object struct {
	keys   []string
	values map[string]any
}

// NewObject returns an empty object.
func NewObject() *Object {
	return &Object{values: make(map[string]any)}
}

// Of builds an object from alternating keys and values:
//
//	value.Of("name", "app", "private", true)
//
// It panics on an odd argument count or a non-string key, which are
// programming errors in a literal.
func Of(kv ...any) *Object {
	if len(kv)%2 != 0 {
		panic("value.Of: odd number of arguments")
	}
	o := NewObject()
	for i := 0; i < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			panic(fmt.Sprintf("value.Of: key %v is %T, not string", kv[i], kv[i]))
		}
		o.Set(key, kv[i+1])
	}
	return o
}

// Len returns the number of entries.
func (o *Object) Len() int {
	if o == nil {
		return 0
	}
	return len(o.keys)
}

// Keys returns the keys in insertion order.
func (o *Object) Keys() []string {
	if o == nil {
		return nil
	}
	keys := make([]string, len(o.keys))
	copy(keys, o.keys)
	return keys
}

// Get returns the value stored under key.
func (o *Object) Get(key string) (any, bool) {
	if o == nil {
		return nil, false
	}
	v, ok := o.values[key]
	return v, ok
}

// Has reports whether key is present.
func (o *Object) Has(key string) bool {
	_, ok := o.Get(key)
	return ok
}

// Set stores v under key. A new key goes last; an existing key keeps its
// position.
func (o *Object) Set(key string, v any) {
	if o.values == nil {
		o.values = make(map[string]any)
	}
	if _, ok := o.values[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.values[key] = Normalize(v)
}

// Delete removes key if present.
func (o *Object) Delete(key string) {
	if _, ok := o.values[key]; !ok {
		return
	}
	delete(o.values, key)
	for i, k := range o.keys {
		if k == key {
			o.keys = append(o.keys[:i], o.keys[i+1:]...)
			break
		}
	}
}

// Object returns the nested object under key, or nil when the key is absent
// or holds another kind of value.
func (o *Object) Object(key string) *Object {
	v, _ := o.Get(key)
	obj, _ := v.(*Object)
	return obj
}

// String returns the string under key, or "".
func (o *Object) String(key string) string {
	v, _ := o.Get(key)
	s, _ := v.(string)
	return s
}

// Ensure returns the nested object under key, creating it when missing.
func (o *Object) Ensure(key string) *Object {
	if obj := o.Object(key); obj != nil {
		return obj
	}
	obj := NewObject()
	o.Set(key, obj)
	return obj
}

// Append adds items to the array under key, creating the array when missing.
func (o *Object) Append(key string, items ...any) {
	v, _ := o.Get(key)
	arr, _ := v.([]any)
	if o.values == nil {
		o.values = make(map[string]any)
	}
	for _, item := range items {
		arr = append(arr, Normalize(item))
	}
	o.values[key] = arr
	if !contains(o.keys, key) {
		o.keys = append(o.keys, key)
	}
}

// Clone returns a deep copy.
func (o *Object) Clone() *Object {
	if o == nil {
		return nil
	}
	c := &Object{
		keys:   make([]string, len(o.keys)),
		values: make(map[string]any, len(o.values)),
	}
	copy(c.keys, o.keys)
	for k, v := range o.values {
		c.values[k] = Clone(v)
	}
	return c
}

// Clone deep-copies v.
func Clone(v any) any {
	switch t := v.(type) {
	case *Object:
		return t.Clone()
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = Clone(item)
		}
		return out
	default:
		return Normalize(v)
	}
}

// Normalize converts convenience Go shapes into the value model: string
// slices become []any and plain maps become objects with sorted keys.
func Normalize(v any) any {
	switch t := v.(type) {
	case []string:
		out := make([]any, len(t))
		for i, s := range t {
			out[i] = s
		}
		return out
	case []any:
		for i, item := range t {
			t[i] = Normalize(item)
		}
		return t
	case map[string]string:
		o := NewObject()
		for _, k := range sortedKeys(t) {
			o.Set(k, t[k])
		}
		return o
	case map[string]any:
		o := NewObject()
		for _, k := range sortedKeys(t) {
			o.Set(k, t[k])
		}
		return o
	default:
		return v
	}
}

// Equal reports structural equality. Object key order is ignored and
// numbers compare by value regardless of Go type.
func Equal(a, b any) bool {
	switch x := a.(type) {
	case *Object:
		y, ok := b.(*Object)
		if !ok {
			return false
		}
		if x.Len() != y.Len() {
			return false
		}
		for _, k := range x.keys {
			yv, ok := y.values[k]
			if !ok || !Equal(x.values[k], yv) {
				return false
			}
		}
		return true
	case []any:
		y, ok := b.([]any)
		if !ok || len(x) != len(y) {
			return false
		}
		for i := range x {
			if !Equal(x[i], y[i]) {
				return false
			}
		}
		return true
	}

	if fa, ok := number(a); ok {
		fb, ok := number(b)
		return ok && fa == fb
	}
	return reflect.DeepEqual(a, b)
}

// Contains reports whether items holds an element equal to v.
func Contains(items []any, v any) bool {
	for _, item := range items {
		if Equal(item, v) {
			return true
		}
	}
	return false
}

func number(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, !math.IsNaN(n)
	case uint64:
		return float64(n), true
	}
	return 0, false
}

func contains(keys []string, key string) bool {
	for _, k := range keys {
		if k == key {
			return true
		}
	}
	return false
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
