package domain

import "fmt"

// UnknownRegion labels records that cannot be classified.
const UnknownRegion = "Unknown"

// DefaultFallbackThreshold is the distance in degrees beyond which a point
// inside a sea box is labeled with the sea instead of the nearest city.
const DefaultFallbackThreshold = 0.5

// Region is a named gazetteer center. RadiusDegrees is the nominal extent of
// the region; classification uses the nearest center only.
type Region struct {
	Name          string   `yaml:"name"`
	Center        GeoPoint `yaml:"center"`
	RadiusDegrees float64  `yaml:"radius_degrees"`
}

// SeaArea is an open-water fallback box.
type SeaArea struct {
	Name   string      `yaml:"name"`
	Bounds BoundingBox `yaml:"bounds"`
}

// Gazetteer is the static, versioned list of region centers and sea boxes.
type Gazetteer struct {
	Version                  string    `yaml:"version"`
	Country                  string    `yaml:"country"`
	FallbackThresholdDegrees float64   `yaml:"fallback_threshold_degrees"`
	Regions                  []Region  `yaml:"regions"`
	Seas                     []SeaArea `yaml:"seas"`
}

// Classifier resolves points to region labels. It is immutable and safe for
// concurrent use.
type Classifier struct {
	country   string
	threshold float64
	regions   []Region
	seas      []SeaArea
}

// NewClassifier copies g so later changes to the caller's slices cannot
// affect classification.
func NewClassifier(g Gazetteer) *Classifier {
	threshold := g.FallbackThresholdDegrees
	if threshold <= 0 {
		threshold = DefaultFallbackThreshold
	}
	return &Classifier{
		country:   g.Country,
		threshold: threshold,
		regions:   append([]Region(nil), g.Regions...),
		seas:      append([]SeaArea(nil), g.Seas...),
	}
}

// Classify returns the region label for p. It fails only when p is invalid.
//
// The nearest center by planar distance wins; among equidistant centers the
// first in gazetteer order is kept. If that center is farther than the
// fallback threshold and p lies inside a sea box, the first matching sea's name
// is returned instead.
func (c *Classifier) Classify(p GeoPoint) (string, error) {
	if err := p.Validate(); err != nil {
		return "", err
	}
	if len(c.regions) == 0 {
		return UnknownRegion, nil
	}

	nearest := 0
	minDistance := planarDistance(p, c.regions[0].Center)
	for i := 1; i < len(c.regions); i++ {
		if d := planarDistance(p, c.regions[i].Center); d < minDistance {
			nearest, minDistance = i, d
		}
	}

	if minDistance > c.threshold {
		if sea, ok := c.seaAt(p); ok {
			return sea, nil
		}
	}
	return c.cityLabel(c.regions[nearest].Name), nil
}

// ClassifyOrUnknown is the total form used during enrichment: missing or
// invalid coordinates yield UnknownRegion.
func (c *Classifier) ClassifyOrUnknown(p *GeoPoint) string {
	if p == nil {
		return UnknownRegion
	}
	label, err := c.Classify(*p)
	if err != nil {
		return UnknownRegion
	}
	return label
}

// IsSea reports whether label names one of the configured sea areas.
func (c *Classifier) IsSea(label string) bool {
	for _, s := range c.seas {
		if s.Name == label {
			return true
		}
	}
	return false
}

func (c *Classifier) seaAt(p GeoPoint) (string, bool) {
	for _, s := range c.seas {
		if s.Bounds.Contains(p) {
			return s.Name, true
		}
	}
	return "", false
}

func (c *Classifier) cityLabel(city string) string {
	if c.country == "" {
		return city
	}
	return fmt.Sprintf("%s - %s", c.country, city)
}
