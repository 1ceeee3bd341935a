package vmf

import "vmfkit/internal/kv"

// Solid is a convex brush.
type Solid struct {
	ID     uint32
	Sides  []Side
	Editor *Editor
}

// Side is one face of a solid. Unknown keys and blocks are dropped.
type Side struct {
	ID              uint32
	Plane           Plane
	Material        string
	UAxis           TextureAxis
	VAxis           TextureAxis
	Rotation        float64
	LightmapScale   uint32
	SmoothingGroups uint32
	Displacement    *Displacement
}

func extractSolid(n *kv.Node) (Solid, error) {
	f := readFields(n)
	s := Solid{ID: f.uint32("id", true)}
	if err := f.result(); err != nil {
		return Solid{}, err
	}
	for _, e := range n.Entries {
		if e.Kind != kv.EntryBlock {
			continue
		}
		switch e.Key {
		case "side":
			side, err := extractSide(e.Block)
			if err != nil {
				return Solid{}, err
			}
			s.Sides = append(s.Sides, side)
		case "editor":
			if s.Editor != nil {
				continue
			}
			ed, err := extractEditor(e.Block)
			if err != nil {
				return Solid{}, err
			}
			s.Editor = ed
		}
	}
	return s, nil
}

func extractSide(n *kv.Node) (Side, error) {
	f := readFields(n)
	s := Side{
		ID:              f.uint32("id", true),
		Plane:           f.plane("plane", true),
		Material:        f.str("material", true),
		UAxis:           f.axis("uaxis", true),
		VAxis:           f.axis("vaxis", true),
		Rotation:        f.float("rotation", false),
		LightmapScale:   f.uint32("lightmapscale", false),
		SmoothingGroups: f.uint32("smoothing_groups", false),
	}
	if err := f.result(); err != nil {
		return Side{}, err
	}
	if child := n.Child("dispinfo"); child != nil {
		d, err := extractDisplacement(child)
		if err != nil {
			return Side{}, err
		}
		s.Displacement = d
	}
	return s, nil
}

// solidsOf collects solid blocks and solids nested in hidden blocks.
func solidsOf(n *kv.Node) (solids, hidden []Solid, err error) {
	for _, e := range n.Entries {
		if e.Kind != kv.EntryBlock {
			continue
		}
		switch e.Key {
		case "solid":
			s, err := extractSolid(e.Block)
			if err != nil {
				return nil, nil, err
			}
			solids = append(solids, s)
		case "hidden":
			for _, b := range e.Block.Blocks("solid") {
				s, err := extractSolid(b)
				if err != nil {
					return nil, nil, err
				}
				hidden = append(hidden, s)
			}
		}
	}
	return solids, hidden, nil
}
