package vmf

import "vmfkit/internal/kv"

// Cordons is the cordon list. Both the "cordons" block and the older single
// "cordon" block produce it.
type Cordons struct {
	Active  bool
	Cordons []Cordon
}

func (*Cordons) Kind() ValueKind { return KindCordons }
func (*Cordons) isValue()        {}

type Cordon struct {
	Name   string
	Active bool
	Boxes  []Box
}

// Box is an axis-aligned bound.
type Box struct {
	Mins Vec3
	Maxs Vec3
}

// Contains reports whether p lies inside the box, bounds included.
func (b Box) Contains(p Vec3) bool {
	return p.X >= b.Mins.X && p.X <= b.Maxs.X &&
		p.Y >= b.Mins.Y && p.Y <= b.Maxs.Y &&
		p.Z >= b.Mins.Z && p.Z <= b.Maxs.Z
}

func extractCordons(n *kv.Node) (*Cordons, error) {
	f := readFields(n)
	cs := &Cordons{Active: f.bool("active", false)}
	if err := f.result(); err != nil {
		return nil, err
	}
	for _, b := range n.Blocks("cordon") {
		c, err := extractCordon(b)
		if err != nil {
			return nil, err
		}
		cs.Cordons = append(cs.Cordons, c)
	}
	return cs, nil
}

func extractCordon(n *kv.Node) (Cordon, error) {
	f := readFields(n)
	c := Cordon{
		Name:   f.str("name", false),
		Active: f.bool("active", false),
	}
	if err := f.result(); err != nil {
		return Cordon{}, err
	}
	for _, b := range n.Blocks("box") {
		box, err := extractBox(b)
		if err != nil {
			return Cordon{}, err
		}
		c.Boxes = append(c.Boxes, box)
	}
	return c, nil
}

func extractBox(n *kv.Node) (Box, error) {
	f := readFields(n)
	b := Box{
		Mins: f.vec3("mins", true),
		Maxs: f.vec3("maxs", true),
	}
	if err := f.result(); err != nil {
		return Box{}, err
	}
	return b, nil
}

// extractLegacyCordon reads a top-level "cordon" block with mins, maxs and
// active at block level.
func extractLegacyCordon(n *kv.Node) (*Cordons, error) {
	box, err := extractBox(n)
	if err != nil {
		return nil, err
	}
	f := readFields(n)
	active := f.bool("active", false)
	if err := f.result(); err != nil {
		return nil, err
	}
	return &Cordons{
		Active:  active,
		Cordons: []Cordon{{Active: active, Boxes: []Box{box}}},
	}, nil
}
