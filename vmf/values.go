package vmf

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"fortio.org/safecast"
)

var (
	errNotBool = errors.New("expected 0 or 1")
	errEmpty   = errors.New("empty value")
)

// nextField returns the first whitespace-separated field of s and the rest.
func nextField(s string) (field, rest string) {
	i := 0
	for i < len(s) && isBlank(s[i]) {
		i++
	}
	j := i
	for j < len(s) && !isBlank(s[j]) {
		j++
	}
	return s[i:j], s[j:]
}

func isBlank(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}

// parseFloats fills dst with exactly len(dst) numbers from s.
func parseFloats(s string, dst []float64) error {
	rest := s
	for i := range dst {
		var f string
		f, rest = nextField(rest)
		if f == "" {
			return fmt.Errorf("expected %d numbers, got %d", len(dst), i)
		}
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return fmt.Errorf("%q is not a number", f)
		}
		dst[i] = v
	}
	if extra, _ := nextField(rest); extra != "" {
		return fmt.Errorf("expected %d numbers, got more", len(dst))
	}
	return nil
}

func parseFloat(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errEmpty
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%q is not a number", s)
	}
	return v, nil
}

func parseUint32(s string) (uint32, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errEmpty
	}
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%q is not an unsigned integer", s)
	}
	out, err := safecast.Conv[uint32](v)
	if err != nil {
		return 0, fmt.Errorf("%q is out of range", s)
	}
	return out, nil
}

func parseInt32(s string) (int32, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errEmpty
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%q is not an integer", s)
	}
	out, err := safecast.Conv[int32](v)
	if err != nil {
		return 0, fmt.Errorf("%q is out of range", s)
	}
	return out, nil
}

func parseBool(s string) (bool, error) {
	switch strings.TrimSpace(s) {
	case "0":
		return false, nil
	case "1":
		return true, nil
	}
	return false, errNotBool
}

// parseVec3 accepts "(x y z)", "[x y z]" or bare "x y z".
func parseVec3(s string) (Vec3, error) {
	inner, err := unwrap(strings.TrimSpace(s))
	if err != nil {
		return Vec3{}, err
	}
	var n [3]float64
	if err := parseFloats(inner, n[:]); err != nil {
		return Vec3{}, err
	}
	return Vec3{n[0], n[1], n[2]}, nil
}

// unwrap strips one matching pair of () or [] if present.
func unwrap(s string) (string, error) {
	if s == "" {
		return "", errEmpty
	}
	var closing byte
	switch s[0] {
	case '(':
		closing = ')'
	case '[':
		closing = ']'
	default:
		return s, nil
	}
	if s[len(s)-1] != closing {
		return "", fmt.Errorf("missing closing %q", closing)
	}
	return s[1 : len(s)-1], nil
}

// parsePlane parses exactly three parenthesized points.
func parsePlane(s string) (Plane, error) {
	var p Plane
	rest := strings.TrimSpace(s)
	count := 0
	for rest != "" {
		if rest[0] != '(' {
			return Plane{}, fmt.Errorf("expected '(' at %q", rest)
		}
		end := strings.IndexByte(rest, ')')
		if end < 0 {
			return Plane{}, errors.New("missing closing ')'")
		}
		if count == len(p) {
			return Plane{}, fmt.Errorf("expected 3 points, got more")
		}
		v, err := parseVec3(rest[:end+1])
		if err != nil {
			return Plane{}, fmt.Errorf("point %d: %w", count+1, err)
		}
		p[count] = v
		count++
		rest = strings.TrimSpace(rest[end+1:])
	}
	if count != len(p) {
		return Plane{}, fmt.Errorf("expected 3 points, got %d", count)
	}
	return p, nil
}

// parseTextureAxis parses "[x y z shift] scale".
func parseTextureAxis(s string) (TextureAxis, error) {
	s = strings.TrimSpace(s)
	if s == "" || s[0] != '[' {
		return TextureAxis{}, errors.New("expected '[x y z shift] scale'")
	}
	end := strings.IndexByte(s, ']')
	if end < 0 {
		return TextureAxis{}, errors.New("missing closing ']'")
	}
	var n [4]float64
	if err := parseFloats(s[1:end], n[:]); err != nil {
		return TextureAxis{}, err
	}
	scale, err := parseFloat(s[end+1:])
	if err != nil {
		return TextureAxis{}, fmt.Errorf("scale: %w", err)
	}
	return TextureAxis{Dir: Vec3{n[0], n[1], n[2]}, Shift: n[3], Scale: scale}, nil
}

// parseColor parses "r g b" with components in 0..255.
func parseColor(s string) (Color, error) {
	var c [3]uint8
	rest := s
	for i := range c {
		var f string
		f, rest = nextField(rest)
		if f == "" {
			return Color{}, fmt.Errorf("expected 3 components, got %d", i)
		}
		v, err := strconv.ParseUint(f, 10, 64)
		if err != nil {
			return Color{}, fmt.Errorf("%q is not a color component", f)
		}
		c[i], err = safecast.Conv[uint8](v)
		if err != nil {
			return Color{}, fmt.Errorf("%q is out of range", f)
		}
	}
	if extra, _ := nextField(rest); extra != "" {
		return Color{}, errors.New("expected 3 components, got more")
	}
	return Color{c[0], c[1], c[2]}, nil
}

// parseUint32List parses whitespace-separated unsigned integers and appends
// them to dst.
func parseUint32List(s string, dst []uint32) ([]uint32, error) {
	rest := s
	for {
		var f string
		f, rest = nextField(rest)
		if f == "" {
			return dst, nil
		}
		v, err := parseUint32(f)
		if err != nil {
			return dst, err
		}
		dst = append(dst, v)
	}
}

// parseInt32List is parseUint32List for signed values; allowed_verts stores
// its bitmasks as signed words, usually -1.
func parseInt32List(s string, dst []int32) ([]int32, error) {
	rest := s
	for {
		var f string
		f, rest = nextField(rest)
		if f == "" {
			return dst, nil
		}
		v, err := parseInt32(f)
		if err != nil {
			return dst, err
		}
		dst = append(dst, v)
	}
}
