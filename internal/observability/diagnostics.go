package observability

import (
	"context"
	"log/slog"

	"github.com/enderates/fishub/internal/domain"
)

// DiagnosticLogger records upstream diagnostics as warnings and counts them.
type DiagnosticLogger struct {
	logger  *slog.Logger
	metrics *Metrics
}

// NewDiagnosticLogger creates a diagnostic sink backed by logger and metrics.
func NewDiagnosticLogger(logger *slog.Logger, metrics *Metrics) *DiagnosticLogger {
	return &DiagnosticLogger{logger: logger, metrics: metrics}
}

func (d *DiagnosticLogger) Report(ctx context.Context, diag domain.Diagnostic) {
	d.metrics.Diagnostics.WithLabelValues(diag.Provider).Inc()
	d.logger.WarnContext(ctx, "provider data unavailable",
		"provider", diag.Provider,
		"record_id", diag.RecordID,
		"error", diag.Cause,
	)
}
