package vmf

import (
	"vmfkit/internal/kv"
)

// fields reads typed values out of one block. The first failure sticks and
// later reads return zero values, so extractors can read every field and
// check err once.
type fields struct {
	node *kv.Node
	err  *Error
}

func readFields(n *kv.Node) *fields {
	return &fields{node: n}
}

// lookup returns the last pair named key; later duplicates override earlier
// ones for typed fields.
func (f *fields) lookup(key string, required bool) (kv.Value, bool) {
	if f.err != nil {
		return kv.Value{}, false
	}
	for i := len(f.node.Entries) - 1; i >= 0; i-- {
		e := &f.node.Entries[i]
		if e.Kind == kv.EntryPair && e.Key == key {
			return e.Value, true
		}
	}
	if required {
		f.err = missingField(f.node, key)
	}
	return kv.Value{}, false
}

func (f *fields) fail(key string, v kv.Value, err error) {
	if f.err == nil {
		f.err = invalidValue(f.node.Name, key, v, err.Error())
	}
}

// result returns the sticky error as a plain error (nil when none).
func (f *fields) result() error {
	if f.err == nil {
		return nil
	}
	return f.err
}

func (f *fields) str(key string, required bool) string {
	v, ok := f.lookup(key, required)
	if !ok {
		return ""
	}
	return v.String()
}

func (f *fields) uint32(key string, required bool) uint32 {
	v, ok := f.lookup(key, required)
	if !ok {
		return 0
	}
	n, err := parseUint32(v.Raw)
	if err != nil {
		f.fail(key, v, err)
	}
	return n
}

func (f *fields) int32(key string, required bool, def int32) int32 {
	v, ok := f.lookup(key, required)
	if !ok {
		return def
	}
	n, err := parseInt32(v.Raw)
	if err != nil {
		f.fail(key, v, err)
	}
	return n
}

func (f *fields) float(key string, required bool) float64 {
	v, ok := f.lookup(key, required)
	if !ok {
		return 0
	}
	n, err := parseFloat(v.Raw)
	if err != nil {
		f.fail(key, v, err)
	}
	return n
}

func (f *fields) bool(key string, required bool) bool {
	v, ok := f.lookup(key, required)
	if !ok {
		return false
	}
	b, err := parseBool(v.Raw)
	if err != nil {
		f.fail(key, v, err)
	}
	return b
}

func (f *fields) vec3(key string, required bool) Vec3 {
	v, ok := f.lookup(key, required)
	if !ok {
		return Vec3{}
	}
	p, err := parseVec3(v.Raw)
	if err != nil {
		f.fail(key, v, err)
	}
	return p
}

// optVec3 returns nil when key is absent.
func (f *fields) optVec3(key string) *Vec3 {
	return optional(f, key, parseVec3)
}

// optional parses key with parse; nil when the key is absent or malformed.
func optional[T any](f *fields, key string, parse func(string) (T, error)) *T {
	v, ok := f.lookup(key, false)
	if !ok {
		return nil
	}
	x, err := parse(v.Raw)
	if err != nil {
		f.fail(key, v, err)
		return nil
	}
	return &x
}

func (f *fields) plane(key string, required bool) Plane {
	v, ok := f.lookup(key, required)
	if !ok {
		return Plane{}
	}
	p, err := parsePlane(v.Raw)
	if err != nil {
		f.fail(key, v, err)
	}
	return p
}

func (f *fields) axis(key string, required bool) TextureAxis {
	v, ok := f.lookup(key, required)
	if !ok {
		return TextureAxis{}
	}
	a, err := parseTextureAxis(v.Raw)
	if err != nil {
		f.fail(key, v, err)
	}
	return a
}

func (f *fields) color(key string, required bool) Color {
	v, ok := f.lookup(key, required)
	if !ok {
		return Color{}
	}
	c, err := parseColor(v.Raw)
	if err != nil {
		f.fail(key, v, err)
	}
	return c
}

// rest collects pairs whose keys are not in known, in source order.
func (f *fields) rest(known map[string]struct{}) KeyValues {
	var out KeyValues
	for _, e := range f.node.Entries {
		if e.Kind != kv.EntryPair {
			continue
		}
		if _, ok := known[e.Key]; ok {
			continue
		}
		out = append(out, KeyValue{Key: e.Key, Value: e.Value})
	}
	return out
}

func keySet(keys ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		m[k] = struct{}{}
	}
	return m
}
