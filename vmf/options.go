package vmf

import (
	"runtime"

	"vmfkit/internal/diag"
	"vmfkit/internal/kv"
	"vmfkit/internal/source"
)

type config struct {
	jobs     int
	copy     bool
	maxDepth int
	name     string
	encoding source.Encoding
	reporter diag.Reporter
}

// Option configures Parse, ParseFile and the fragment parsers.
type Option func(*config)

func newConfig(opts []Option) config {
	cfg := config{
		jobs:     1,
		maxDepth: kv.DefaultMaxDepth,
		name:     "<buffer>",
	}
	for _, o := range opts {
		o(&cfg)
	}
	return cfg
}

// WithJobs extracts top-level blocks on up to n goroutines. Output order is
// unchanged. n <= 0 means GOMAXPROCS.
func WithJobs(n int) Option {
	return func(c *config) {
		if n <= 0 {
			n = runtime.GOMAXPROCS(0)
		}
		c.jobs = n
	}
}

// WithCopy copies the input once so results do not alias the caller's
// buffer.
func WithCopy(on bool) Option {
	return func(c *config) { c.copy = on }
}

// WithMaxDepth bounds block nesting.
func WithMaxDepth(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.maxDepth = n
		}
	}
}

// WithName sets the name used for the buffer in errors.
func WithName(name string) Option {
	return func(c *config) {
		if name != "" {
			c.name = name
		}
	}
}

// WithEncoding selects how Open decodes file bytes.
func WithEncoding(enc source.Encoding) Option {
	return func(c *config) { c.encoding = enc }
}

// WithReporter also emits lexical and structural errors as diagnostics.
func WithReporter(r diag.Reporter) Option {
	return func(c *config) { c.reporter = r }
}
