package vmf

import "vmfkit/internal/kv"

// Editor is the per-object editor state block.
type Editor struct {
	Color             Color
	VisgroupIDs       []uint32
	GroupID           uint32
	VisgroupShown     bool
	VisgroupAutoShown bool
	Comments          string
	LogicalPos        string
}

// Group is a world-level object group.
type Group struct {
	ID     uint32
	Editor *Editor
}

func extractEditor(n *kv.Node) (*Editor, error) {
	f := readFields(n)
	ed := &Editor{
		Color:             f.color("color", false),
		GroupID:           f.uint32("groupid", false),
		VisgroupShown:     f.bool("visgroupshown", false),
		VisgroupAutoShown: f.bool("visgroupautoshown", false),
		Comments:          f.str("comments", false),
		LogicalPos:        f.str("logicalpos", false),
	}
	if err := f.result(); err != nil {
		return nil, err
	}
	for _, v := range n.All("visgroupid") {
		id, err := parseUint32(v.Raw)
		if err != nil {
			return nil, invalidValue(n.Name, "visgroupid", v, err.Error())
		}
		ed.VisgroupIDs = append(ed.VisgroupIDs, id)
	}
	return ed, nil
}

// optEditor extracts the first editor child, if any.
func optEditor(n *kv.Node) (*Editor, error) {
	child := n.Child("editor")
	if child == nil {
		return nil, nil
	}
	return extractEditor(child)
}

func extractGroup(n *kv.Node) (Group, error) {
	f := readFields(n)
	g := Group{ID: f.uint32("id", true)}
	if err := f.result(); err != nil {
		return Group{}, err
	}
	ed, err := optEditor(n)
	if err != nil {
		return Group{}, err
	}
	g.Editor = ed
	return g, nil
}
