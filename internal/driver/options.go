package driver

import (
	"vmfkit/internal/observ"
	"vmfkit/internal/pipeline"
	"vmfkit/internal/source"
	"vmfkit/vmf"
)

// Options configures a driver run. Zero values select defaults.
type Options struct {
	MaxDiagnostics int
	MaxDepth       int // 0 = kv.DefaultMaxDepth
	Encoding       source.Encoding
	// Jobs ограничивает параллелизм: файлы в ParseDir, блоки верхнего
	// уровня в Parse. <= 0 означает GOMAXPROCS.
	Jobs int
	Copy bool

	Timer    *observ.Timer // может быть nil
	Progress pipeline.ProgressSink
}

func (o Options) vmfOptions(name string) []vmf.Option {
	return []vmf.Option{
		vmf.WithName(name),
		vmf.WithMaxDepth(o.MaxDepth),
		vmf.WithCopy(o.Copy),
	}
}
