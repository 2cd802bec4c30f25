// Package telemetry provides the OpenTelemetry span helpers shared by the
// orchestrator and the match runner. It never decides whether tracing is
// configured; that is the caller's global otel.SetTracerProvider, not this
// package's concern.
package telemetry

import (
	"context"
	"crypto/sha256"
	"encoding/hex"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// tracerName identifies this module's spans in a trace backend.
const tracerName = "llm-qualitative-sort"

// StartSpan starts a span named name under the shared tracer, attaching
// attrs. Callers are responsible for `defer span.End()`.
func StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	tracer := otel.Tracer(tracerName)
	ctx, span := tracer.Start(ctx, name)
	if len(attrs) > 0 {
		span.SetAttributes(attrs...)
	}
	return ctx, span
}

// EndWithError sets span's status from err and ends it. err may be nil.
func EndWithError(span trace.Span, err error) {
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

// ItemHash returns a short, stable, non-reversible identifier for an item's
// text, suitable as a span attribute: it lets a trace correlate repeated
// appearances of the same item without putting potentially large or
// sensitive item content into the trace backend.
func ItemHash(item string) string {
	sum := sha256.Sum256([]byte(item))
	return hex.EncodeToString(sum[:8])
}
