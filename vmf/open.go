package vmf

import (
	"vmfkit/internal/source"
)

// Handle is an opened VMF file. The file buffer lives as long as the Handle
// and every value parsed from it.
type Handle struct {
	fs   *source.FileSet
	file *source.File
	opts []Option
}

// Open reads path into memory. A UTF-8 BOM is stripped; non UTF-8 content is
// decoded as Windows-1252 unless WithEncoding says otherwise. Read failures
// are returned as *Error with Kind ErrIO.
func Open(path string, opts ...Option) (*Handle, error) {
	cfg := newConfig(opts)
	fs := source.NewFileSet()
	fs.SetEncoding(cfg.encoding)
	id, err := fs.Load(path)
	if err != nil {
		return nil, &Error{Kind: ErrIO, Path: path, Err: err}
	}
	return &Handle{fs: fs, file: fs.Get(id), opts: opts}, nil
}

// Parse parses the whole file with the options given to Open.
func (h *Handle) Parse() ([]Value, error) {
	return ParseFile(h.file, h.opts...)
}

// Bytes returns the file contents after BOM removal and decoding.
func (h *Handle) Bytes() []byte { return h.file.Content }

// File returns the loaded source file.
func (h *Handle) File() *source.File { return h.file }

// FileSet returns the set holding the file, for diagnostic rendering.
func (h *Handle) FileSet() *source.FileSet { return h.fs }

// Path returns the path the file was loaded from.
func (h *Handle) Path() string { return h.file.Path }
