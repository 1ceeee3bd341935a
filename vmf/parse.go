package vmf

import (
	"bytes"
	"errors"

	"golang.org/x/sync/errgroup"

	"vmfkit/internal/kv"
	"vmfkit/internal/source"
)

// Parse parses a whole VMF buffer into its top-level values, in source order.
//
// Strings in the result share memory with buf unless WithCopy(true) is given;
// buf must then stay alive and unmodified while the result is in use.
// Unrecognized top-level blocks become *Unknown. The first lexical,
// structural or extraction error aborts the call and is returned as *Error.
func Parse(buf []byte, opts ...Option) ([]Value, error) {
	cfg := newConfig(opts)
	return parseFile(cfg.virtual(buf), cfg)
}

// ParseFile parses a file already loaded into a source.FileSet. With
// WithCopy(true) the file is cloned first; spans stay valid for the FileSet.
func ParseFile(file *source.File, opts ...Option) ([]Value, error) {
	cfg := newConfig(opts)
	return parseFile(cfg.detach(file), cfg)
}

// Tree builds only the block tree of file.
func Tree(file *source.File, opts ...Option) (*kv.Document, error) {
	cfg := newConfig(opts)
	return buildTree(cfg.detach(file), cfg)
}

// Extract classifies and extracts every top-level block of doc.
func Extract(doc *kv.Document, opts ...Option) ([]Value, error) {
	return extractAll(doc, newConfig(opts))
}

func (c *config) virtual(buf []byte) *source.File {
	if c.copy {
		buf = bytes.Clone(buf)
	}
	fs := source.NewFileSet()
	return fs.Get(fs.AddVirtual(c.name, buf))
}

func (c *config) detach(file *source.File) *source.File {
	if c.copy {
		return file.Clone()
	}
	return file
}

func parseFile(file *source.File, cfg config) ([]Value, error) {
	doc, err := buildTree(file, cfg)
	if err != nil {
		return nil, err
	}
	return extractAll(doc, cfg)
}

func buildTree(file *source.File, cfg config) (*kv.Document, error) {
	doc, err := kv.Build(file, kv.Options{MaxDepth: cfg.maxDepth, Reporter: cfg.reporter})
	if err != nil {
		var se *kv.SyntaxError
		if errors.As(err, &se) {
			return nil, fromSyntax(se).locate(file)
		}
		return nil, err
	}
	return doc, nil
}

// extractAll runs extractors over top-level blocks. With more than one job
// every block is extracted and the error of the lowest-index block wins, so
// the result does not depend on scheduling.
func extractAll(doc *kv.Document, cfg config) ([]Value, error) {
	out := make([]Value, len(doc.Blocks))
	if cfg.jobs <= 1 || len(doc.Blocks) < 2 {
		for i, n := range doc.Blocks {
			v, err := extract(n)
			if err != nil {
				return nil, locate(err, doc.File)
			}
			out[i] = v
		}
		return out, nil
	}

	errs := make([]error, len(doc.Blocks))
	var g errgroup.Group
	g.SetLimit(cfg.jobs)
	for i, n := range doc.Blocks {
		g.Go(func() error {
			out[i], errs[i] = extract(n)
			return nil
		})
	}
	_ = g.Wait()
	for _, err := range errs {
		if err != nil {
			return nil, locate(err, doc.File)
		}
	}
	return out, nil
}

// parseFragment runs the full pipeline over a buffer that must hold exactly
// one block, then hands that block to fn.
func parseFragment[T any](fragment []byte, opts []Option, fn func(*kv.Node) (T, error)) (T, error) {
	var zero T
	cfg := newConfig(opts)
	file := cfg.virtual(fragment)
	doc, err := buildTree(file, cfg)
	if err != nil {
		return zero, err
	}
	switch len(doc.Blocks) {
	case 1:
	case 0:
		return zero, (&Error{
			Kind:    ErrUnexpectedToken,
			Message: "fragment contains no block",
			span:    source.At(file.ID, uint32(len(file.Text))), // #nosec G115 -- FileSet.Add checked the length
		}).locate(file)
	default:
		return zero, (&Error{
			Kind:    ErrUnexpectedToken,
			Message: "fragment contains more than one block",
			span:    doc.Blocks[1].NameSpan,
		}).locate(file)
	}
	v, err := fn(doc.Blocks[0])
	if err != nil {
		return zero, locate(err, file)
	}
	return v, nil
}

// ParseVersionInfo parses a single versioninfo block.
func ParseVersionInfo(fragment []byte, opts ...Option) (*VersionInfo, error) {
	return parseFragment(fragment, opts, extractVersionInfo)
}

// ParseWorld parses a single world block.
func ParseWorld(fragment []byte, opts ...Option) (*World, error) {
	return parseFragment(fragment, opts, extractWorld)
}

// ParseEntity parses a single entity block.
func ParseEntity(fragment []byte, opts ...Option) (*Entity, error) {
	return parseFragment(fragment, opts, extractEntity)
}

// ParseSolid parses a single solid block.
func ParseSolid(fragment []byte, opts ...Option) (Solid, error) {
	return parseFragment(fragment, opts, extractSolid)
}

// ParseSide parses a single side block.
func ParseSide(fragment []byte, opts ...Option) (Side, error) {
	return parseFragment(fragment, opts, extractSide)
}

// ParseDisplacement parses a single dispinfo block.
func ParseDisplacement(fragment []byte, opts ...Option) (*Displacement, error) {
	return parseFragment(fragment, opts, extractDisplacement)
}

// ParseVisgroups parses a visgroups block.
func ParseVisgroups(fragment []byte, opts ...Option) (*Visgroups, error) {
	return parseFragment(fragment, opts, extractVisgroups)
}

// ParseVisgroup parses one visgroup block and its children.
func ParseVisgroup(fragment []byte, opts ...Option) (Visgroup, error) {
	return parseFragment(fragment, opts, extractVisgroup)
}

// ParseViewSettings parses a viewsettings block.
func ParseViewSettings(fragment []byte, opts ...Option) (*ViewSettings, error) {
	return parseFragment(fragment, opts, extractViewSettings)
}

// ParseCameras parses a cameras block.
func ParseCameras(fragment []byte, opts ...Option) (*Cameras, error) {
	return parseFragment(fragment, opts, extractCameras)
}

// ParseCamera parses one camera block.
func ParseCamera(fragment []byte, opts ...Option) (Camera, error) {
	return parseFragment(fragment, opts, extractCamera)
}

// ParseCordons parses a cordons block, or a legacy top-level cordon block.
func ParseCordons(fragment []byte, opts ...Option) (*Cordons, error) {
	return parseFragment(fragment, opts, func(n *kv.Node) (*Cordons, error) {
		if n.Name == "cordon" {
			return extractLegacyCordon(n)
		}
		return extractCordons(n)
	})
}

// ParseEditor parses an editor block.
func ParseEditor(fragment []byte, opts ...Option) (*Editor, error) {
	return parseFragment(fragment, opts, extractEditor)
}

// ParseGroup parses a group block.
func ParseGroup(fragment []byte, opts ...Option) (Group, error) {
	return parseFragment(fragment, opts, extractGroup)
}
