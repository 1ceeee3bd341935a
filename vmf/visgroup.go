package vmf

import "vmfkit/internal/kv"

// Visgroups is the top-level visgroup tree.
type Visgroups struct {
	Groups []Visgroup
}

func (*Visgroups) Kind() ValueKind { return KindVisgroups }
func (*Visgroups) isValue()        {}

// Visgroup is a named editor visibility group; groups nest.
type Visgroup struct {
	Name     string
	ID       uint32
	Color    Color
	Children []Visgroup
}

func extractVisgroups(n *kv.Node) (*Visgroups, error) {
	vs := &Visgroups{}
	for _, b := range n.Blocks("visgroup") {
		g, err := extractVisgroup(b)
		if err != nil {
			return nil, err
		}
		vs.Groups = append(vs.Groups, g)
	}
	return vs, nil
}

// extractVisgroup recurses over nested groups; depth is bounded by the tree
// builder's nesting limit.
func extractVisgroup(n *kv.Node) (Visgroup, error) {
	f := readFields(n)
	g := Visgroup{
		Name:  f.str("name", true),
		ID:    f.uint32("visgroupid", true),
		Color: f.color("color", false),
	}
	if err := f.result(); err != nil {
		return Visgroup{}, err
	}
	for _, b := range n.Blocks("visgroup") {
		child, err := extractVisgroup(b)
		if err != nil {
			return Visgroup{}, err
		}
		g.Children = append(g.Children, child)
	}
	return g, nil
}

// Walk visits g and its descendants depth-first.
func (g *Visgroup) Walk(fn func(*Visgroup)) {
	fn(g)
	for i := range g.Children {
		g.Children[i].Walk(fn)
	}
}
