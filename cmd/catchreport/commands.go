package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/enderates/fishub/internal/config"
	"github.com/enderates/fishub/internal/domain"
	"github.com/enderates/fishub/internal/enrich"
	"github.com/enderates/fishub/internal/observability"
	"github.com/enderates/fishub/internal/report"
	"github.com/enderates/fishub/internal/wire"
)

var (
	labelColor = color.New(color.FgCyan, color.Bold)
	dimColor   = color.New(color.FgHiBlack)
	warnColor  = color.New(color.FgYellow)
)

type buildOptions struct {
	group   string
	from    string
	to      string
	asJSON  bool
	offline bool
}

func buildCmd() *cobra.Command {
	var opts buildOptions

	cmd := &cobra.Command{
		Use:   "build FILE",
		Short: "Enrich a catch export and print a grouped report",
		Long: `Reads FILE (or - for stdin) as a JSON array of catch records, enriches every
record and prints the report. Upstream services are configured with the same
environment variables as the enricher service; --offline skips them.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			logger := observability.NewLogger(cfg.LogLevel, "text")
			metrics := observability.NewMetrics()

			var orch *enrich.Orchestrator
			if opts.offline {
				gaz, err := wire.Gazetteer(cfg)
				if err != nil {
					return err
				}
				orch = enrich.New(domain.NewClassifier(gaz), offlineEnv{}, logger, metrics, enrich.WithLocation(cfg.Location))
			} else if orch, err = wire.Orchestrator(cmd.Context(), cfg, logger, metrics); err != nil {
				return err
			}

			in, err := openInput(args[0], cmd.InOrStdin())
			if err != nil {
				return err
			}
			defer in.Close()

			return runBuild(cmd.Context(), in, cmd.OutOrStdout(), orch, cfg.Location, opts)
		},
	}

	cmd.Flags().StringVar(&opts.group, "group", "region", "grouping: region or species")
	cmd.Flags().StringVar(&opts.from, "from", "", "first day to include (YYYY-MM-DD)")
	cmd.Flags().StringVar(&opts.to, "to", "", "last day to include (YYYY-MM-DD)")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "print the report as JSON")
	cmd.Flags().BoolVar(&opts.offline, "offline", false, "skip weather, geocoding and species lookups")
	return cmd
}

func openInput(path string, stdin io.Reader) (io.ReadCloser, error) {
	if path == "-" {
		return io.NopCloser(stdin), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catch export: %w", err)
	}
	return f, nil
}

func runBuild(ctx context.Context, in io.Reader, out io.Writer, en *enrich.Orchestrator, loc *time.Location, opts buildOptions) error {
	mode, err := report.ParseMode(opts.group)
	if err != nil {
		return err
	}
	dateRange, err := report.ParseDayRange(opts.from, opts.to, loc)
	if err != nil {
		return err
	}

	var docs []json.RawMessage
	if err := json.NewDecoder(in).Decode(&docs); err != nil {
		return fmt.Errorf("read catch export: %w", err)
	}
	records := make([]domain.CatchRecord, 0, len(docs))
	skipped := 0
	for i, doc := range docs {
		rec, err := domain.ParseCatchRecordIn(doc, loc)
		if err != nil {
			warnColor.Fprintf(out, "skipping record %d: %v\n", i, err)
			skipped++
			continue
		}
		records = append(records, rec)
	}

	enriched, err := en.EnrichAll(ctx, records)
	if err != nil {
		warnColor.Fprintln(out, "some records could not be fully enriched")
	}

	rep, err := report.Build(enriched, mode, dateRange)
	if err != nil {
		return err
	}

	if opts.asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(rep)
	}
	printReport(out, rep, loc)
	if skipped > 0 {
		dimColor.Fprintf(out, "%d record(s) skipped\n", skipped)
	}
	return nil
}

func printReport(out io.Writer, rep report.Report, loc *time.Location) {
	fmt.Fprintf(out, "%d catch(es) grouped by %s\n", rep.Total, rep.Mode)
	if rep.Bounds != nil {
		dimColor.Fprintf(out, "bounds %.4f,%.4f to %.4f,%.4f\n", rep.Bounds.MinLat, rep.Bounds.MinLon, rep.Bounds.MaxLat, rep.Bounds.MaxLon)
	}
	for _, g := range rep.Groups {
		fmt.Fprintln(out)
		fmt.Fprintf(out, "%s (%d)\n", labelColor.Sprint(g.Label), g.Count)
		for _, r := range g.Records {
			fmt.Fprintf(out, "  %-12s %-18s %s\n", r.ID, speciesOf(r), describe(r, loc))
		}
	}
}

func speciesOf(r domain.EnrichedRecord) string {
	if r.SpeciesLabel != "" {
		return r.SpeciesLabel
	}
	if r.Species != "" {
		return r.Species
	}
	return "-"
}

func describe(r domain.EnrichedRecord, loc *time.Location) string {
	when := "-"
	if !r.CapturedAt.IsZero() {
		when = r.CapturedAt.In(loc).Format("2006-01-02 15:04")
	}
	env := r.Environment
	parts := when
	if phase, ok := env.LunarPhase.Get(); ok {
		parts += "  " + phase.String()
	}
	if cond, ok := env.Condition.Get(); ok {
		parts += "  " + cond
	}
	if t, ok := env.AirTemperature.Get(); ok {
		parts += fmt.Sprintf("  %.1f°C", t)
	}
	if wave, ok := env.WaveHeightMeters.Get(); ok {
		parts += fmt.Sprintf("  waves %.1fm", wave)
	}
	return parts
}

func classifyCmd() *cobra.Command {
	var gazetteerPath string

	cmd := &cobra.Command{
		Use:   "classify LAT LON",
		Short: "Print the region label for a point",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			gaz, err := wire.Gazetteer(&config.Config{GazetteerPath: gazetteerPath})
			if err != nil {
				return err
			}
			return runClassify(cmd.OutOrStdout(), domain.NewClassifier(gaz), args[0], args[1])
		},
	}
	cmd.Flags().StringVar(&gazetteerPath, "gazetteer", "", "gazetteer YAML file (default: embedded)")
	return cmd
}

func runClassify(out io.Writer, c *domain.Classifier, latArg, lonArg string) error {
	lat, err := strconv.ParseFloat(latArg, 64)
	if err != nil {
		return fmt.Errorf("latitude: %w", err)
	}
	lon, err := strconv.ParseFloat(lonArg, 64)
	if err != nil {
		return fmt.Errorf("longitude: %w", err)
	}
	label, err := c.Classify(domain.GeoPoint{Lat: lat, Lon: lon})
	if err != nil {
		return err
	}
	fmt.Fprintln(out, label)
	return nil
}

func moonCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "moon [DATE]",
		Short: "Print the lunar phase for a date (default: today)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			day := time.Now().Format(time.DateOnly)
			if len(args) == 1 {
				day = args[0]
			}
			return runMoon(cmd.OutOrStdout(), day)
		},
	}
}

func runMoon(out io.Writer, day string) error {
	t, err := time.Parse(time.DateOnly, day)
	if err != nil {
		return fmt.Errorf("date must be YYYY-MM-DD: %w", err)
	}
	phase, err := domain.PhaseFor(t.Year(), t.Month(), t.Day())
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "%s  %s\n", day, labelColor.Sprint(phase))
	return nil
}

// offlineEnv reports every environmental field as unavailable.
type offlineEnv struct{}

func (offlineEnv) Fetch(context.Context, domain.GeoPoint, time.Time) (domain.EnvironmentalSnapshot, error) {
	return domain.UnavailableSnapshot(), nil
}

