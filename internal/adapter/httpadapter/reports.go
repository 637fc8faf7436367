package httpadapter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"

	"github.com/enderates/fishub/internal/domain"
	"github.com/enderates/fishub/internal/report"
)

// maxReportBody caps the request body of POST /v1/reports.
const maxReportBody = 4 << 20

// Enricher enriches a batch of catch records.
type Enricher interface {
	EnrichAll(ctx context.Context, records []domain.CatchRecord) ([]domain.EnrichedRecord, error)
}

// ReportHandler serves POST /v1/reports. The body is a JSON array of catch
// documents; the query selects the grouping (group=region|species) and an
// optional inclusive day range (from, to as YYYY-MM-DD in the service zone).
type ReportHandler struct {
	enricher Enricher
	location *time.Location
	logger   *slog.Logger
}

// NewReportHandler creates the report endpoint handler.
func NewReportHandler(enricher Enricher, loc *time.Location, logger *slog.Logger) *ReportHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &ReportHandler{enricher: enricher, location: loc, logger: logger}
}

func (h *ReportHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	mode, err := report.ParseMode(q.Get("group"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	dateRange, err := report.ParseDayRange(q.Get("from"), q.Get("to"), h.location)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	var docs []json.RawMessage
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxReportBody)).Decode(&docs); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, err)
			return
		}
		writeError(w, http.StatusBadRequest, fmt.Errorf("request body must be a JSON array of catch records: %w", err))
		return
	}

	records := make([]domain.CatchRecord, 0, len(docs))
	for i, doc := range docs {
		rec, err := domain.ParseCatchRecordIn(doc, h.location)
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Errorf("record %d: %w", i, err))
			return
		}
		records = append(records, rec)
	}

	enriched, err := h.enricher.EnrichAll(r.Context(), records)
	if err != nil {
		h.logger.Warn("report built from partially enriched records", "error", err, "records", len(records))
	}

	rep, err := report.Build(enriched, mode, dateRange)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	h.writeReport(w, rep)
}

// writeReport encodes before writing the status so a report that cannot be
// serialized turns into a 500 rather than an empty 200.
func (h *ReportHandler) writeReport(w http.ResponseWriter, rep report.Report) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(rep); err != nil {
		h.logger.Error("encode report failed", "error", err, "total", rep.Total)
		writeError(w, http.StatusInternalServerError, fmt.Errorf("encode report: %w", err))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes()) //nolint:errcheck // client gone
}

func writeError(w http.ResponseWriter, status int, err error) {
	sharedobs.WriteJSON(w, status, map[string]string{"error": err.Error()})
}
