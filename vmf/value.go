package vmf

import "vmfkit/internal/kv"

// ValueKind tags the variants of Value.
type ValueKind uint8

const (
	KindUnknown ValueKind = iota
	KindVersionInfo
	KindWorld
	KindEntity
	KindVisgroups
	KindViewSettings
	KindCameras
	KindCordons
)

func (k ValueKind) String() string {
	switch k {
	case KindVersionInfo:
		return "versioninfo"
	case KindWorld:
		return "world"
	case KindEntity:
		return "entity"
	case KindVisgroups:
		return "visgroups"
	case KindViewSettings:
		return "viewsettings"
	case KindCameras:
		return "cameras"
	case KindCordons:
		return "cordons"
	}
	return "unknown"
}

// Value is one classified top-level block. The set of implementations is
// closed: *VersionInfo, *World, *Entity, *Visgroups, *ViewSettings,
// *Cameras, *Cordons and *Unknown.
type Value interface {
	Kind() ValueKind
	isValue()
}

// Unknown carries a top-level block whose name is not recognized.
type Unknown struct {
	Node *kv.Node
}

func (*Unknown) Kind() ValueKind { return KindUnknown }
func (*Unknown) isValue()        {}

// extract classifies a top-level node and runs the matching extractor.
// Extractors return a nil pointer with every error, so err is checked before
// the pointer is stored in the interface.
func extract(n *kv.Node) (Value, error) {
	var (
		v   Value
		err error
	)
	switch n.Name {
	case "versioninfo":
		var vi *VersionInfo
		vi, err = extractVersionInfo(n)
		v = vi
	case "world":
		var w *World
		w, err = extractWorld(n)
		v = w
	case "entity":
		var e *Entity
		e, err = extractEntity(n)
		v = e
	case "visgroups":
		var vg *Visgroups
		vg, err = extractVisgroups(n)
		v = vg
	case "viewsettings":
		var vs *ViewSettings
		vs, err = extractViewSettings(n)
		v = vs
	case "cameras":
		var c *Cameras
		c, err = extractCameras(n)
		v = c
	case "cordons":
		var c *Cordons
		c, err = extractCordons(n)
		v = c
	case "cordon":
		var c *Cordons
		c, err = extractLegacyCordon(n)
		v = c
	default:
		return &Unknown{Node: n}, nil
	}
	if err != nil {
		return nil, err
	}
	return v, nil
}
