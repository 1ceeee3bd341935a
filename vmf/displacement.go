package vmf

import (
	"fmt"
	"strconv"

	"vmfkit/internal/kv"
)

const (
	minDispPower = 2
	maxDispPower = 4
)

// rowKeys covers the largest grid, 2^4+1 rows.
var rowKeys = func() []string {
	keys := make([]string, 1<<maxDispPower+1)
	for i := range keys {
		keys[i] = "row" + strconv.Itoa(i)
	}
	return keys
}()

// Displacement is the terrain grid attached to a side.
//
// Every grid present in the source has Size rows of Size samples, where
// Size = 2^Power + 1. Grids whose block is absent stay empty.
type Displacement struct {
	Power         uint32
	StartPosition Vec3
	Elevation     float64
	Subdiv        bool
	Flags         uint32

	Normals       Grid[Vec3]
	Distances     Grid[float64]
	Offsets       Grid[Vec3]
	OffsetNormals Grid[Vec3]
	Alphas        Grid[float64]

	TriangleTags []uint32
	AllowedVerts []int32
}

// Size returns the number of samples per grid row.
func (d *Displacement) Size() int {
	return 1<<d.Power + 1
}

func extractDisplacement(n *kv.Node) (*Displacement, error) {
	f := readFields(n)
	d := &Displacement{
		Power:         f.uint32("power", true),
		StartPosition: f.vec3("startposition", true),
		Elevation:     f.float("elevation", false),
		Subdiv:        f.bool("subdiv", false),
		Flags:         f.uint32("flags", false),
	}
	if err := f.result(); err != nil {
		return nil, err
	}
	if d.Power < minDispPower || d.Power > maxDispPower {
		v, _ := f.lookup("power", false)
		return nil, invalidValue(n.Name, "power", v,
			fmt.Sprintf("power must be between %d and %d", minDispPower, maxDispPower))
	}

	size := d.Size()
	var err error
	if d.Normals, err = vecGrid(n, "normals", size); err != nil {
		return nil, err
	}
	if d.Distances, err = floatGrid(n, "distances", size); err != nil {
		return nil, err
	}
	if d.Offsets, err = vecGrid(n, "offsets", size); err != nil {
		return nil, err
	}
	if d.OffsetNormals, err = vecGrid(n, "offset_normals", size); err != nil {
		return nil, err
	}
	if d.Alphas, err = floatGrid(n, "alphas", size); err != nil {
		return nil, err
	}
	if d.TriangleTags, err = uintRows(n.Child("triangle_tags")); err != nil {
		return nil, err
	}
	if d.AllowedVerts, err = intRows(n.Child("allowed_verts")); err != nil {
		return nil, err
	}
	return d, nil
}

// gridRows parses rows row0..row{size-1} of the named block, each holding
// exactly size*width numbers, and hands every row to fn. Rows past size are
// ignored.
func gridRows(parent *kv.Node, name string, size, width int, fn func(nums []float64)) (bool, error) {
	block := parent.Child(name)
	if block == nil {
		return false, nil
	}
	nums := make([]float64, size*width)
	for r := 0; r < size; r++ {
		key := rowKeys[r]
		v, ok := block.Get(key)
		if !ok {
			return false, &Error{
				Kind:    ErrInvalidValue,
				Field:   name,
				Block:   parent.Name,
				Message: "missing " + key,
				span:    block.NameSpan,
			}
		}
		if err := parseFloats(v.Raw, nums); err != nil {
			return false, invalidValue(parent.Name, name+"."+key, v,
				fmt.Sprintf("row needs %d values of %d numbers: %v", size, width, err))
		}
		fn(nums)
	}
	return true, nil
}

func vecGrid(parent *kv.Node, name string, size int) (Grid[Vec3], error) {
	cells := make([]Vec3, 0, size*size)
	ok, err := gridRows(parent, name, size, 3, func(nums []float64) {
		for i := 0; i < len(nums); i += 3 {
			cells = append(cells, Vec3{nums[i], nums[i+1], nums[i+2]})
		}
	})
	if !ok || err != nil {
		return Grid[Vec3]{}, err
	}
	return Grid[Vec3]{Size: size, Cells: cells}, nil
}

func floatGrid(parent *kv.Node, name string, size int) (Grid[float64], error) {
	cells := make([]float64, 0, size*size)
	ok, err := gridRows(parent, name, size, 1, func(nums []float64) {
		cells = append(cells, nums...)
	})
	if !ok || err != nil {
		return Grid[float64]{}, err
	}
	return Grid[float64]{Size: size, Cells: cells}, nil
}

// uintRows flattens all pair values of block into one slice, in source order.
// triangle_tags uses rowN keys; the row count is not checked.
func uintRows(block *kv.Node) ([]uint32, error) {
	if block == nil {
		return nil, nil
	}
	var out []uint32
	for _, e := range block.Entries {
		if e.Kind != kv.EntryPair {
			continue
		}
		var err error
		out, err = parseUint32List(e.Value.Raw, out)
		if err != nil {
			return nil, invalidValue(block.Name, e.Key, e.Value, err.Error())
		}
	}
	return out, nil
}

// intRows is uintRows for allowed_verts, which keeps a single "10" key.
func intRows(block *kv.Node) ([]int32, error) {
	if block == nil {
		return nil, nil
	}
	var out []int32
	for _, e := range block.Entries {
		if e.Kind != kv.EntryPair {
			continue
		}
		var err error
		out, err = parseInt32List(e.Value.Raw, out)
		if err != nil {
			return nil, invalidValue(block.Name, e.Key, e.Value, err.Error())
		}
	}
	return out, nil
}
