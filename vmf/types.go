package vmf

import (
	"fmt"

	"vmfkit/internal/kv"
)

// Vec3 is a point or direction.
type Vec3 struct {
	X, Y, Z float64
}

func (v Vec3) String() string {
	return fmt.Sprintf("(%g %g %g)", v.X, v.Y, v.Z)
}

// Plane is the three points that define a side, in the order written.
type Plane [3]Vec3

// TextureAxis is a texture projection axis: "[x y z shift] scale".
type TextureAxis struct {
	Dir   Vec3
	Shift float64
	Scale float64
}

// Color is an editor color written as "r g b".
type Color struct {
	R, G, B uint8
}

// Grid is a square, row-major grid of displacement samples.
// A zero Grid means the block was absent.
type Grid[T any] struct {
	Size  int
	Cells []T
}

// At returns the sample at row, col.
func (g Grid[T]) At(row, col int) T {
	return g.Cells[row*g.Size+col]
}

// Empty reports whether the grid was absent from the source.
func (g Grid[T]) Empty() bool {
	return len(g.Cells) == 0
}

// KeyValue is one key/value pair kept as it appears in the source.
type KeyValue struct {
	Key   string
	Value kv.Value
}

// KeyValues is an ordered multimap of pairs not mapped to typed fields.
type KeyValues []KeyValue

// Get returns the last value for key, matching how typed fields resolve
// duplicates. All returns every occurrence.
func (kvs KeyValues) Get(key string) (string, bool) {
	for i := len(kvs) - 1; i >= 0; i-- {
		if kvs[i].Key == key {
			return kvs[i].Value.String(), true
		}
	}
	return "", false
}

// All returns every value for key in order.
func (kvs KeyValues) All(key string) []string {
	var out []string
	for i := range kvs {
		if kvs[i].Key == key {
			out = append(out, kvs[i].Value.String())
		}
	}
	return out
}

func (kvs KeyValues) Len() int { return len(kvs) }
