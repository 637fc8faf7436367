// Package report groups enriched catch records for the analysis views: by
// region or species, within a date range, with map bounds per group.
package report

import (
	"fmt"
	"time"

	"github.com/enderates/fishub/internal/domain"
)

// Mode selects how records are grouped.
type Mode string

const (
	ByRegion  Mode = "region"
	BySpecies Mode = "species"
)

// ParseMode accepts "region" and "species". Empty selects ByRegion.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case "", ByRegion:
		return ByRegion, nil
	case BySpecies:
		return BySpecies, nil
	default:
		return "", &domain.InvalidInputError{Field: "group", Value: s, Reason: `expected "region" or "species"`}
	}
}

// Group is a labeled partition of records with its own map bounds.
type Group struct {
	Label   string                  `json:"label"`
	Count   int                     `json:"count"`
	Bounds  *domain.BoundingBox     `json:"bounds"`
	Records []domain.EnrichedRecord `json:"records"`
}

// Report is the result of Build.
type Report struct {
	Mode   Mode                `json:"mode"`
	From   *time.Time          `json:"from,omitempty"`
	To     *time.Time          `json:"to,omitempty"`
	Total  int                 `json:"total"`
	Bounds *domain.BoundingBox `json:"bounds"`
	Groups []Group             `json:"groups"`
}

// Build filters records to r and groups the rest by mode.
func Build(records []domain.EnrichedRecord, mode Mode, r DateRange) (Report, error) {
	var group func([]domain.EnrichedRecord) []Group
	switch mode {
	case ByRegion:
		group = GroupByRegion
	case BySpecies:
		group = GroupBySpecies
	default:
		return Report{}, fmt.Errorf("build report: %w", &domain.InvalidInputError{Field: "mode", Value: string(mode), Reason: "unsupported"})
	}

	filtered := FilterByDateRange(records, r)
	rep := Report{
		Mode:   mode,
		Total:  len(filtered),
		Bounds: BoundingBoxOf(filtered),
		Groups: group(filtered),
	}
	if !r.Start.IsZero() {
		rep.From = &r.Start
	}
	if !r.End.IsZero() {
		rep.To = &r.End
	}
	return rep, nil
}

// GroupByRegion partitions records by exact region label. Groups appear in
// order of first occurrence and keep their members in input order.
func GroupByRegion(records []domain.EnrichedRecord) []Group {
	return groupBy(records, func(r domain.EnrichedRecord) string { return r.Region })
}

// GroupBySpecies partitions records by species label, falling back to the
// species key and then to Unknown.
func GroupBySpecies(records []domain.EnrichedRecord) []Group {
	return groupBy(records, speciesKey)
}

func speciesKey(r domain.EnrichedRecord) string {
	switch {
	case r.SpeciesLabel != "":
		return r.SpeciesLabel
	case r.Species != "":
		return r.Species
	default:
		return domain.UnknownRegion
	}
}

func groupBy(records []domain.EnrichedRecord, key func(domain.EnrichedRecord) string) []Group {
	index := make(map[string]int)
	groups := []Group{}
	for _, rec := range records {
		k := key(rec)
		i, ok := index[k]
		if !ok {
			i = len(groups)
			index[k] = i
			groups = append(groups, Group{Label: k})
		}
		groups[i].Records = append(groups[i].Records, rec)
	}
	for i := range groups {
		groups[i].Count = len(groups[i].Records)
		groups[i].Bounds = BoundingBoxOf(groups[i].Records)
	}
	return groups
}

// BoundingBoxOf returns the box around every record with valid coordinates,
// or nil when there are none.
func BoundingBoxOf(records []domain.EnrichedRecord) *domain.BoundingBox {
	var box *domain.BoundingBox
	for _, rec := range records {
		if domain.ValidatePoint(rec.Coordinates) != nil {
			continue
		}
		if box == nil {
			b := domain.BoxAround(*rec.Coordinates)
			box = &b
			continue
		}
		*box = box.Extend(*rec.Coordinates)
	}
	return box
}

// Focus returns the bounds for a selected group, computed from its own
// members only.
func Focus(g Group) *domain.BoundingBox {
	return BoundingBoxOf(g.Records)
}
