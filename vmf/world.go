package vmf

import "vmfkit/internal/kv"

// World is the worldspawn block. Pairs without a typed field are kept in
// Properties; unknown child blocks in Blocks.
type World struct {
	ID             uint32
	ClassName      string
	MapVersion     uint32
	SkyName        string
	DetailMaterial string
	DetailVBSP     string

	// Компилятор карт читает эти ключи как числа; nil — ключа нет.
	MaxPropScreenWidth  *int32
	Sounds              *uint32
	MaxRange            *float64
	MaxOccludeeArea     *float64
	MinOccluderArea     *float64
	MaxOccludeeAreaCSGO *float64
	MinOccluderAreaCSGO *float64
	DifficultyLevel     *uint32
	HDRLevel            *uint32

	Properties KeyValues
	Solids     []Solid
	Hidden     []Solid
	Groups     []Group
	Editor     *Editor
	Blocks     []*kv.Node
}

func (*World) Kind() ValueKind { return KindWorld }
func (*World) isValue()        {}

var worldKnown = keySet("id", "classname", "mapversion", "skyname", "detailmaterial", "detailvbsp",
	"maxpropscreenwidth", "sounds", "maxrange",
	"maxoccludeearea", "minoccluderarea", "maxoccludeearea_csgo", "minoccluderarea_csgo",
	"difficulty_level", "hdr_level")

func extractWorld(n *kv.Node) (*World, error) {
	f := readFields(n)
	w := &World{
		ID:             f.uint32("id", true),
		ClassName:      f.str("classname", true),
		MapVersion:     f.uint32("mapversion", false),
		SkyName:        f.str("skyname", false),
		DetailMaterial: f.str("detailmaterial", false),
		DetailVBSP:     f.str("detailvbsp", false),

		MaxPropScreenWidth:  optional(f, "maxpropscreenwidth", parseInt32),
		Sounds:              optional(f, "sounds", parseUint32),
		MaxRange:            optional(f, "maxrange", parseFloat),
		MaxOccludeeArea:     optional(f, "maxoccludeearea", parseFloat),
		MinOccluderArea:     optional(f, "minoccluderarea", parseFloat),
		MaxOccludeeAreaCSGO: optional(f, "maxoccludeearea_csgo", parseFloat),
		MinOccluderAreaCSGO: optional(f, "minoccluderarea_csgo", parseFloat),
		DifficultyLevel:     optional(f, "difficulty_level", parseUint32),
		HDRLevel:            optional(f, "hdr_level", parseUint32),
	}
	if err := f.result(); err != nil {
		return nil, err
	}
	w.Properties = f.rest(worldKnown)

	var err error
	if w.Solids, w.Hidden, err = solidsOf(n); err != nil {
		return nil, err
	}
	for _, e := range n.Entries {
		if e.Kind != kv.EntryBlock {
			continue
		}
		switch e.Key {
		case "solid", "hidden":
		case "group":
			g, err := extractGroup(e.Block)
			if err != nil {
				return nil, err
			}
			w.Groups = append(w.Groups, g)
		case "editor":
			if w.Editor != nil {
				continue
			}
			if w.Editor, err = extractEditor(e.Block); err != nil {
				return nil, err
			}
		default:
			w.Blocks = append(w.Blocks, e.Block)
		}
	}
	return w, nil
}
