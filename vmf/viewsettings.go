package vmf

import "vmfkit/internal/kv"

// ViewSettings holds editor view toggles. Unrecognized pairs are kept in
// Properties.
type ViewSettings struct {
	SnapToGrid          bool
	ShowGrid            bool
	ShowLogicalGrid     bool
	GridSpacing         uint32
	Show3DGrid          bool
	HideObjects         bool
	HideWalls           bool
	HideStripes         bool
	HideNeighbors       bool
	HideDetail          bool
	ShowBrushes         bool
	ShowEntities        bool
	ShowLightRadius     bool
	ShowLightingPreview bool
	ShowWireframe       bool
	Properties          KeyValues
}

func (*ViewSettings) Kind() ValueKind { return KindViewSettings }
func (*ViewSettings) isValue()        {}

var viewSettingsKnown = keySet(
	"bSnapToGrid", "bShowGrid", "bShowLogicalGrid", "nGridSpacing", "bShow3DGrid",
	"bHideObjects", "bHideWalls", "bHideStripes", "bHideNeighbors", "bHideDetail",
	"bShowBrushes", "bShowEntities", "bShowLightRadius", "bShowLightingPreview",
	"bShowWireframe",
)

func extractViewSettings(n *kv.Node) (*ViewSettings, error) {
	f := readFields(n)
	vs := &ViewSettings{
		SnapToGrid:          f.bool("bSnapToGrid", false),
		ShowGrid:            f.bool("bShowGrid", false),
		ShowLogicalGrid:     f.bool("bShowLogicalGrid", false),
		GridSpacing:         f.uint32("nGridSpacing", false),
		Show3DGrid:          f.bool("bShow3DGrid", false),
		HideObjects:         f.bool("bHideObjects", false),
		HideWalls:           f.bool("bHideWalls", false),
		HideStripes:         f.bool("bHideStripes", false),
		HideNeighbors:       f.bool("bHideNeighbors", false),
		HideDetail:          f.bool("bHideDetail", false),
		ShowBrushes:         f.bool("bShowBrushes", false),
		ShowEntities:        f.bool("bShowEntities", false),
		ShowLightRadius:     f.bool("bShowLightRadius", false),
		ShowLightingPreview: f.bool("bShowLightingPreview", false),
		ShowWireframe:       f.bool("bShowWireframe", false),
	}
	if err := f.result(); err != nil {
		return nil, err
	}
	vs.Properties = f.rest(viewSettingsKnown)
	return vs, nil
}
