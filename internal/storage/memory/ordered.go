package memory

import "slices"

// ordered is a keyed collection that remembers insertion order.
type ordered[K comparable, V any] struct {
	keys  []K
	items map[K]V
}

func newOrdered[K comparable, V any]() *ordered[K, V] {
	return &ordered[K, V]{items: make(map[K]V)}
}

func (o *ordered[K, V]) get(key K) (V, bool) {
	v, ok := o.items[key]

	return v, ok
}

// put replaces an existing value in place or appends a new one.
func (o *ordered[K, V]) put(key K, v V) {
	if _, ok := o.items[key]; !ok {
		o.keys = append(o.keys, key)
	}

	o.items[key] = v
}

func (o *ordered[K, V]) delete(key K) {
	if _, ok := o.items[key]; !ok {
		return
	}

	delete(o.items, key)

	o.keys = slices.DeleteFunc(o.keys, func(k K) bool { return k == key })
}

func (o *ordered[K, V]) values(clone func(V) V) []V {
	res := make([]V, 0, len(o.keys))

	for _, k := range o.keys {
		res = append(res, clone(o.items[k]))
	}

	return res
}
