package vmf

import (
	"errors"
	"strings"

	"vmfkit/internal/kv"
)

// Entity is a point or brush entity. Common keys get typed fields, nil or
// empty when absent; other pairs are kept in Properties and unknown child
// blocks in Blocks.
type Entity struct {
	ID        uint32
	ClassName string
	Origin    *Vec3
	Angles    *Vec3

	TargetName            string
	ParentName            string
	Target                string
	Model                 string
	Skin                  *uint32
	SpawnFlags            *uint32
	RenderMode            *uint32
	RenderAmt             *uint32
	RenderColor           *Color
	DisableShadows        *bool
	DisableReceiveShadows *bool
	StartDisabled         *bool

	Properties  KeyValues
	Connections []Output
	Solids      []Solid
	Hidden      []Solid
	Editor      *Editor
	Blocks      []*kv.Node
}

func (*Entity) Kind() ValueKind { return KindEntity }
func (*Entity) isValue()        {}

// Output is one entity I/O connection:
// "OnTrigger" "target,input,parameter,delay,times". Newer editors separate the
// fields with ESC (0x1b) instead of commas.
type Output struct {
	Name        string
	Target      string
	Input       string
	Parameter   string
	Delay       float64
	TimesToFire int32
	Raw         string
}

var entityKnown = keySet("id", "classname", "origin", "angles",
	"targetname", "parentname", "target", "model", "skin", "spawnflags",
	"rendermode", "renderamt", "rendercolor",
	"disableshadows", "disablereceiveshadows", "startdisabled")

func extractEntity(n *kv.Node) (*Entity, error) {
	f := readFields(n)
	ent := &Entity{
		ID:        f.uint32("id", true),
		ClassName: f.str("classname", true),
		Origin:    f.optVec3("origin"),
		Angles:    f.optVec3("angles"),

		TargetName:            f.str("targetname", false),
		ParentName:            f.str("parentname", false),
		Target:                f.str("target", false),
		Model:                 f.str("model", false),
		Skin:                  optional(f, "skin", parseUint32),
		SpawnFlags:            optional(f, "spawnflags", parseUint32),
		RenderMode:            optional(f, "rendermode", parseUint32),
		RenderAmt:             optional(f, "renderamt", parseUint32),
		RenderColor:           optional(f, "rendercolor", parseColor),
		DisableShadows:        optional(f, "disableshadows", parseBool),
		DisableReceiveShadows: optional(f, "disablereceiveshadows", parseBool),
		StartDisabled:         optional(f, "startdisabled", parseBool),
	}
	if err := f.result(); err != nil {
		return nil, err
	}
	ent.Properties = f.rest(entityKnown)

	var err error
	if ent.Solids, ent.Hidden, err = solidsOf(n); err != nil {
		return nil, err
	}
	for _, e := range n.Entries {
		if e.Kind != kv.EntryBlock {
			continue
		}
		switch e.Key {
		case "solid", "hidden":
		case "connections":
			outs, err := extractConnections(e.Block)
			if err != nil {
				return nil, err
			}
			ent.Connections = append(ent.Connections, outs...)
		case "editor":
			if ent.Editor != nil {
				continue
			}
			if ent.Editor, err = extractEditor(e.Block); err != nil {
				return nil, err
			}
		default:
			ent.Blocks = append(ent.Blocks, e.Block)
		}
	}
	return ent, nil
}

func extractConnections(n *kv.Node) ([]Output, error) {
	outs := make([]Output, 0, n.Len())
	for _, e := range n.Entries {
		if e.Kind != kv.EntryPair {
			continue
		}
		out, err := parseOutput(e.Key, e.Value.String())
		if err != nil {
			return nil, invalidValue(n.Name, e.Key, e.Value, err.Error())
		}
		outs = append(outs, out)
	}
	return outs, nil
}

var errOutputShape = errors.New("expected target,input,parameter,delay,times")

// parseOutput splits on the first two and the last two separators, so a
// parameter may itself contain the separator.
func parseOutput(name, raw string) (Output, error) {
	sep := byte(',')
	if strings.IndexByte(raw, 0x1b) >= 0 {
		sep = 0x1b
	}
	i1 := strings.IndexByte(raw, sep)
	if i1 < 0 {
		return Output{}, errOutputShape
	}
	i2 := strings.IndexByte(raw[i1+1:], sep)
	if i2 < 0 {
		return Output{}, errOutputShape
	}
	i2 += i1 + 1
	j2 := strings.LastIndexByte(raw, sep)
	j1 := strings.LastIndexByte(raw[:j2], sep)
	if j1 <= i2 {
		return Output{}, errOutputShape
	}

	delay, err := parseFloat(raw[j1+1 : j2])
	if err != nil {
		return Output{}, err
	}
	times, err := parseInt32(raw[j2+1:])
	if err != nil {
		return Output{}, err
	}
	return Output{
		Name:        name,
		Target:      raw[:i1],
		Input:       raw[i1+1 : i2],
		Parameter:   raw[i2+1 : j1],
		Delay:       delay,
		TimesToFire: times,
		Raw:         raw,
	}, nil
}
