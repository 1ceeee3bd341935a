package source

type (
	// FileID uniquely identifies a source file within a FileSet.
	FileID uint32
	// FileFlags encodes metadata about a source file.
	FileFlags uint8
)

// NoFile marks spans that point into no file (I/O failures, timings).
const NoFile FileID = ^FileID(0)

const (
	// FileVirtual indicates the file was added from memory (test, stdin, fragment).
	FileVirtual FileFlags = 1 << iota // добавлен не с диска
	FileHadBOM
	// FileTranscoded marks content decoded from Windows-1252 into UTF-8.
	FileTranscoded
)

// Encoding selects how raw file bytes are interpreted on Load.
type Encoding uint8

const (
	// EncodingAuto keeps valid UTF-8 as is and decodes anything else as Windows-1252.
	EncodingAuto Encoding = iota
	// EncodingUTF8 never transcodes.
	EncodingUTF8
	// EncodingWindows1252 always decodes from Windows-1252.
	EncodingWindows1252
)

// File captures metadata and content for a single source buffer.
//
// Text is a string view over Content that shares its memory. Content must not
// be modified while the File, or anything derived from Text, is in use.
type File struct {
	ID      FileID
	Path    string
	Content []byte
	Text    string
	LineIdx []uint32
	Hash    [32]byte
	Flags   FileFlags
}

// LineCol represents a human-readable position in a source file.
type LineCol struct {
	Line uint32 // 1-based
	Col  uint32 // 1-based
}
