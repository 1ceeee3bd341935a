package vmf

import "vmfkit/internal/kv"

// Cameras lists editor cameras. ActiveCamera is -1 when none is active or
// the key is absent.
type Cameras struct {
	ActiveCamera int32
	Cameras      []Camera
}

func (*Cameras) Kind() ValueKind { return KindCameras }
func (*Cameras) isValue()        {}

// Active returns the active camera, if the index is in range.
func (c *Cameras) Active() (Camera, bool) {
	if c.ActiveCamera < 0 || int(c.ActiveCamera) >= len(c.Cameras) {
		return Camera{}, false
	}
	return c.Cameras[c.ActiveCamera], true
}

type Camera struct {
	Position Vec3
	Look     Vec3
}

func extractCameras(n *kv.Node) (*Cameras, error) {
	f := readFields(n)
	cs := &Cameras{ActiveCamera: f.int32("activecamera", false, -1)}
	if err := f.result(); err != nil {
		return nil, err
	}
	for _, b := range n.Blocks("camera") {
		c, err := extractCamera(b)
		if err != nil {
			return nil, err
		}
		cs.Cameras = append(cs.Cameras, c)
	}
	return cs, nil
}

func extractCamera(n *kv.Node) (Camera, error) {
	f := readFields(n)
	c := Camera{
		Position: f.vec3("position", true),
		Look:     f.vec3("look", true),
	}
	if err := f.result(); err != nil {
		return Camera{}, err
	}
	return c, nil
}
