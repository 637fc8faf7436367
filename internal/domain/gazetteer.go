package domain

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed gazetteer.yaml
var defaultGazetteerYAML []byte

// DefaultGazetteer returns the gazetteer compiled into the binary.
func DefaultGazetteer() (Gazetteer, error) {
	return LoadGazetteer(bytes.NewReader(defaultGazetteerYAML))
}

// LoadGazetteerFile reads a gazetteer from a YAML file.
func LoadGazetteerFile(path string) (Gazetteer, error) {
	f, err := os.Open(path)
	if err != nil {
		return Gazetteer{}, fmt.Errorf("open gazetteer: %w", err)
	}
	defer f.Close()
	return LoadGazetteer(f)
}

// LoadGazetteer decodes and validates a YAML gazetteer.
func LoadGazetteer(r io.Reader) (Gazetteer, error) {
	var g Gazetteer
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&g); err != nil {
		return Gazetteer{}, fmt.Errorf("decode gazetteer: %w", err)
	}
	if g.FallbackThresholdDegrees == 0 {
		g.FallbackThresholdDegrees = DefaultFallbackThreshold
	}
	if err := g.validate(); err != nil {
		return Gazetteer{}, fmt.Errorf("gazetteer %s: %w", g.Version, err)
	}
	return g, nil
}

func (g Gazetteer) validate() error {
	if g.FallbackThresholdDegrees < 0 {
		return errors.New("fallback_threshold_degrees must not be negative")
	}
	for i, r := range g.Regions {
		if r.Name == "" {
			return fmt.Errorf("region %d: name is required", i)
		}
		if err := r.Center.Validate(); err != nil {
			return fmt.Errorf("region %q: %w", r.Name, err)
		}
	}
	for i, s := range g.Seas {
		if s.Name == "" {
			return fmt.Errorf("sea %d: name is required", i)
		}
		b := s.Bounds
		if b.MinLat > b.MaxLat || b.MinLon > b.MaxLon {
			return fmt.Errorf("sea %q: min bounds exceed max bounds", s.Name)
		}
	}
	return nil
}
