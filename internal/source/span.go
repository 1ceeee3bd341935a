package source

import (
	"fmt"
)

type Span struct {
	File  FileID
	Start uint32 // в байтах включительно
	End   uint32 // в байтах не включительно
}

func (s Span) Empty() bool {
	return s.Start == s.End
}

func (s Span) Len() uint32 {
	return s.End - s.Start
}

func (s Span) String() string {
	return fmt.Sprintf("%d:%d-%d", s.File, s.Start, s.End)
}

// Cover returns the smallest span containing both s and other.
// Spans from different files are not merged.
func (s Span) Cover(other Span) Span {
	if s.File != other.File {
		return s
	}
	if other.Start < s.Start {
		s.Start = other.Start
	}
	if other.End > s.End {
		s.End = other.End
	}
	return s
}

// Inner shrinks the span by n bytes on both sides, e.g. to drop quotes.
func (s Span) Inner(n uint32) Span {
	if s.Len() < 2*n {
		return Span{File: s.File, Start: s.Start, End: s.Start}
	}
	return Span{File: s.File, Start: s.Start + n, End: s.End - n}
}

// At returns an empty span at the given offset.
func At(file FileID, off uint32) Span {
	return Span{File: file, Start: off, End: off}
}
