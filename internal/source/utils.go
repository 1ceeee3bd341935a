package source

import (
	"fmt"
	"path/filepath"
	"unicode/utf8"

	"fortio.org/safecast"
	"golang.org/x/text/encoding/charmap"
)

func removeBOM(content []byte) ([]byte, bool) {
	if len(content) >= 3 && content[0] == 0xEF && content[1] == 0xBB && content[2] == 0xBF {
		return content[3:], true
	}
	return content, false
}

// decode applies enc to content. Older editor builds write maps in the
// system ANSI code page, which is Windows-1252 for most installs.
func decode(content []byte, enc Encoding) ([]byte, bool, error) {
	switch enc {
	case EncodingUTF8:
		return content, false, nil
	case EncodingAuto:
		if utf8.Valid(content) {
			return content, false, nil
		}
	case EncodingWindows1252:
	default:
		return nil, false, fmt.Errorf("unknown encoding %d", enc)
	}
	out, err := charmap.Windows1252.NewDecoder().Bytes(content)
	if err != nil {
		return nil, false, fmt.Errorf("windows-1252 decode: %w", err)
	}
	return out, true, nil
}

// ParseEncoding converts a user-facing name into an Encoding.
func ParseEncoding(s string) (Encoding, error) {
	switch s {
	case "", "auto":
		return EncodingAuto, nil
	case "utf8", "utf-8":
		return EncodingUTF8, nil
	case "windows-1252", "cp1252", "latin1":
		return EncodingWindows1252, nil
	default:
		return EncodingAuto, fmt.Errorf("invalid encoding %q (expected auto|utf8|windows-1252)", s)
	}
}

func buildLineIndex(content []byte) []uint32 {
	out := make([]uint32, 0, len(content)/32)
	for i, b := range content {
		if b == '\n' {
			off, err := safecast.Conv[uint32](i)
			if err != nil {
				panic(fmt.Errorf("line offset overflow: %w", err))
			}
			out = append(out, off)
		}
	}
	return out
}

func toLineCol(lineIdx []uint32, off uint32) LineCol {
	// бинпоиск: находим количество переводов строки строго до off
	lo, hi := 0, len(lineIdx)
	for lo < hi {
		mid := (lo + hi) >> 1
		if lineIdx[mid] < off {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	if lo == 0 {
		return LineCol{Line: 1, Col: off + 1}
	}
	startOff := lineIdx[lo-1] + 1
	line, err := safecast.Conv[uint32](lo + 1)
	if err != nil {
		panic(fmt.Errorf("line number overflow: %w", err))
	}
	return LineCol{Line: line, Col: off - startOff + 1}
}

func normalizePath(p string) string {
	// единый вид в кроссплатформенных дифах
	return filepath.ToSlash(filepath.Clean(p))
}
