package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/enderates/fishub/internal/domain"
	"github.com/enderates/fishub/internal/enrich"
	"github.com/enderates/fishub/internal/observability"
)

func init() {
	color.NoColor = true
}

func offlineOrchestrator(t *testing.T) *enrich.Orchestrator {
	t.Helper()
	gaz, err := domain.DefaultGazetteer()
	require.NoError(t, err)
	return enrich.New(domain.NewClassifier(gaz), offlineEnv{}, slog.New(slog.NewTextHandler(io.Discard, nil)), observability.NewMetricsForTesting())
}

const export = `[
	{"id":"c1","species":"Levrek","locationLatitude":41.01,"locationLongitude":28.97,"timestamp":"2024-03-15T06:30:00Z"},
	{"id":"c2","species":"Lüfer","location":"42.5, 34.0","timestamp":"2024-03-16T06:30:00Z"},
	{"id":"c3","species":"Levrek","locationLatitude":41.02,"locationLongitude":28.96,"timestamp":"2024-05-01T06:30:00Z"},
	{"id":"bad","timestamp":"soon"}
]`

func TestRunBuild_Text(t *testing.T) {
	var out bytes.Buffer
	err := runBuild(context.Background(), strings.NewReader(export), &out, offlineOrchestrator(t), time.UTC,
		buildOptions{group: "region", from: "2024-03-01", to: "2024-03-31"})
	require.NoError(t, err)

	text := out.String()
	assert.Contains(t, text, "skipping record 3")
	assert.Contains(t, text, "2 catch(es) grouped by region")
	assert.Contains(t, text, "İstanbul (1)")
	assert.Contains(t, text, "Black Sea (1)")
	assert.Contains(t, text, "Waxing Crescent")
	assert.NotContains(t, text, "c3")
	assert.Contains(t, text, "1 record(s) skipped")
}

func TestRunBuild_JSONBySpecies(t *testing.T) {
	var out bytes.Buffer
	err := runBuild(context.Background(), strings.NewReader(export), &out, offlineOrchestrator(t), time.UTC,
		buildOptions{group: "species", asJSON: true})
	require.NoError(t, err)

	// The skip warning precedes the JSON document.
	text := out.String()
	doc := text[strings.Index(text, "{\n"):]

	var rep struct {
		Total  int `json:"total"`
		Groups []struct {
			Label string `json:"label"`
			Count int    `json:"count"`
		} `json:"groups"`
	}
	require.NoError(t, json.Unmarshal([]byte(doc), &rep))
	assert.Equal(t, 3, rep.Total)
	require.Len(t, rep.Groups, 2)
	assert.Equal(t, "Levrek", rep.Groups[0].Label)
	assert.Equal(t, 2, rep.Groups[0].Count)
}

func TestRunBuild_InvalidOptions(t *testing.T) {
	orch := offlineOrchestrator(t)
	err := runBuild(context.Background(), strings.NewReader(export), io.Discard, orch, time.UTC, buildOptions{group: "bait"})
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	err = runBuild(context.Background(), strings.NewReader(export), io.Discard, orch, time.UTC, buildOptions{group: "region", from: "yesterday"})
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	err = runBuild(context.Background(), strings.NewReader(`{"not":"an array"}`), io.Discard, orch, time.UTC, buildOptions{group: "region"})
	require.Error(t, err)
}

func TestRunClassify(t *testing.T) {
	gaz, err := domain.DefaultGazetteer()
	require.NoError(t, err)
	c := domain.NewClassifier(gaz)

	var out bytes.Buffer
	require.NoError(t, runClassify(&out, c, "40.70", "28.20"))
	assert.Equal(t, "Marmara Sea\n", out.String())

	assert.Error(t, runClassify(io.Discard, c, "north", "28.20"))
	assert.ErrorIs(t, runClassify(io.Discard, c, "91", "28.20"), domain.ErrInvalidInput)
}

func TestRunMoon(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, runMoon(&out, "2024-01-25"))
	assert.Equal(t, "2024-01-25  Full Moon\n", out.String())

	assert.Error(t, runMoon(io.Discard, "25.01.2024"))
}
