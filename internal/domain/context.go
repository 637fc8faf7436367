package domain

import "context"

type recordIDKey struct{}

// WithRecordID returns a copy of ctx carrying the id of the record being enriched.
func WithRecordID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, recordIDKey{}, id)
}

// RecordIDFromContext returns the record id stored by WithRecordID, or "".
func RecordIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(recordIDKey{}).(string)
	return id
}
