package pipeline

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/enderates/fishub/internal/domain"
)

// Header keys set on every enriched message.
const (
	HeaderRegion     = "region"
	HeaderLunarPhase = "lunar_phase"
	HeaderEnrichedAt = "enriched_at"
	HeaderBatchID    = "batch_id"
)

// DecodeRecord parses a raw message into a catch record. Zone-less capture
// times are read in loc. A document without an id takes the message key.
func DecodeRecord(raw domain.RawEvent, loc *time.Location) (domain.CatchRecord, error) {
	rec, err := domain.ParseCatchRecordIn(raw.Value, loc)
	if err != nil {
		return domain.CatchRecord{}, err
	}
	if rec.ID == "" {
		rec.ID = string(raw.Key)
	}
	return rec, nil
}

// EncodeRecord serializes an enriched record for the sink topic.
func EncodeRecord(rec domain.EnrichedRecord, batchID string) (domain.OutputEvent, error) {
	data, err := json.Marshal(rec)
	if err != nil {
		return domain.OutputEvent{}, fmt.Errorf("serialize enriched record %q: %w", rec.ID, err)
	}

	headers := map[string]string{
		HeaderRegion:     rec.Region,
		HeaderEnrichedAt: rec.EnrichedAt.UTC().Format(time.RFC3339),
	}
	if phase, ok := rec.Environment.LunarPhase.Get(); ok {
		headers[HeaderLunarPhase] = phase.String()
	}
	if batchID != "" {
		headers[HeaderBatchID] = batchID
	}

	return domain.OutputEvent{
		Key:     []byte(rec.ID),
		Value:   data,
		Headers: headers,
	}, nil
}
