package domain

import "context"

// Diagnostic describes an upstream failure that degraded a record's
// enrichment without failing it.
type Diagnostic struct {
	Provider string
	RecordID string
	Cause    error
}

// DiagnosticSink receives diagnostics. Implementations must be safe for
// concurrent use and must not block.
type DiagnosticSink interface {
	Report(ctx context.Context, d Diagnostic)
}

// DiagnosticSinkFunc adapts a function to DiagnosticSink.
type DiagnosticSinkFunc func(ctx context.Context, d Diagnostic)

func (f DiagnosticSinkFunc) Report(ctx context.Context, d Diagnostic) { f(ctx, d) }

// DiscardDiagnostics drops every diagnostic.
var DiscardDiagnostics DiagnosticSink = DiagnosticSinkFunc(func(context.Context, Diagnostic) {})
