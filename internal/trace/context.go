package trace

import "context"

// Контекст несёт трассировщик от команды CLI через driver до горутин,
// разбирающих отдельные файлы, и текущий спан, чтобы спаны load/tree/extract
// вкладывались в спан своего файла.

type tracerKey struct{}

type spanKey struct{}

// FromContext returns the tracer set by the CLI, or Nop when the context
// carries none (library callers, tests).
func FromContext(ctx context.Context) Tracer {
	if ctx == nil {
		return Nop
	}
	if t, ok := ctx.Value(tracerKey{}).(Tracer); ok {
		return t
	}
	return Nop
}

// WithTracer attaches t; a nil t is stored as Nop.
func WithTracer(ctx context.Context, t Tracer) context.Context {
	if t == nil {
		t = Nop
	}
	return context.WithValue(ctx, tracerKey{}, t)
}

// SpanContext identifies the innermost open span. Start reads it to fill
// ParentID of the next span.
type SpanContext struct {
	SpanID uint64
	GID    uint64
}

// CurrentSpan returns the innermost span, zero outside any span.
func CurrentSpan(ctx context.Context) SpanContext {
	if ctx == nil {
		return SpanContext{}
	}
	sc, _ := ctx.Value(spanKey{}).(SpanContext)
	return sc
}

func WithSpanContext(ctx context.Context, sc SpanContext) context.Context {
	return context.WithValue(ctx, spanKey{}, sc)
}
