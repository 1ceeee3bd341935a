package vmf

import "vmfkit/internal/kv"

// VersionInfo is the editor and format version header.
type VersionInfo struct {
	EditorVersion uint32
	EditorBuild   uint32
	MapVersion    uint32
	FormatVersion uint32
	Prefab        uint32
}

func (*VersionInfo) Kind() ValueKind { return KindVersionInfo }
func (*VersionInfo) isValue()        {}

func extractVersionInfo(n *kv.Node) (*VersionInfo, error) {
	f := readFields(n)
	vi := &VersionInfo{
		EditorVersion: f.uint32("editorversion", true),
		EditorBuild:   f.uint32("editorbuild", true),
		MapVersion:    f.uint32("mapversion", true),
		FormatVersion: f.uint32("formatversion", true),
		Prefab:        f.uint32("prefab", true),
	}
	if err := f.result(); err != nil {
		return nil, err
	}
	return vi, nil
}
