// Command seed generates synthetic catch records around the gazetteer's
// coastal regions and writes them as a JSON array or publishes them to the
// enricher's source topic.
//
// Usage:
//
//	go run ./cmd/seed -n 200 -out data/catches.json
//	go run ./cmd/seed -n 50 -publish
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"math/rand/v2"
	"os"
	"time"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"

	"github.com/enderates/fishub/internal/config"
	"github.com/enderates/fishub/internal/domain"
)

var species = []string{"Levrek", "Çipura", "Lüfer", "Palamut", "İstavrit", "Kefal", "Mercan", "Sinarit", "Hamsi", "Barbunya"}

var baits = []string{"silikon", "kaşık", "canlı yem", "karides", "rapala"}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	n := flag.Int("n", 100, "number of records")
	out := flag.String("out", "-", "output file, - for stdout")
	publish := flag.Bool("publish", false, "publish to KAFKA_SOURCE_TOPIC instead of writing a file")
	seed := flag.Uint64("seed", 1, "random seed")
	days := flag.Int("days", 90, "spread capture times over this many days before -end")
	end := flag.String("end", "2024-06-30", "last capture day (YYYY-MM-DD)")
	flag.Parse()

	endDay, err := time.Parse(time.DateOnly, *end)
	if err != nil {
		return fmt.Errorf("invalid -end: %w", err)
	}
	gaz, err := domain.DefaultGazetteer()
	if err != nil {
		return err
	}

	docs := generate(rand.New(rand.NewPCG(*seed, *seed)), gaz, *n, endDay, *days)

	if *publish {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		return publishDocs(context.Background(), cfg, docs)
	}
	return writeDocs(*out, docs)
}

// generate returns n catch documents in the catch log's wire shape. Roughly
// one in ten has no coordinates, and most of the rest sit near a region center.
func generate(r *rand.Rand, gaz domain.Gazetteer, n int, endDay time.Time, days int) []map[string]any {
	docs := make([]map[string]any, 0, n)
	span := time.Duration(days) * 24 * time.Hour
	for range n {
		at := endDay.Add(-time.Duration(r.Int64N(int64(span))))
		doc := map[string]any{
			"id":        uuid.NewString(),
			"species":   species[r.IntN(len(species))],
			"timestamp": at.UTC().Format(time.RFC3339),
			"bait":      baits[r.IntN(len(baits))],
			"weight":    fmt.Sprintf("%.2f", 0.2+r.Float64()*4),
		}
		if r.IntN(10) > 0 {
			center := gaz.Regions[r.IntN(len(gaz.Regions))].Center
			doc["locationLatitude"] = round4(center.Lat + (r.Float64()-0.5)*0.8)
			doc["locationLongitude"] = round4(center.Lon + (r.Float64()-0.5)*0.8)
		}
		docs = append(docs, doc)
	}
	return docs
}

func round4(v float64) float64 {
	return float64(int64(v*1e4)) / 1e4
}

func writeDocs(path string, docs []map[string]any) error {
	var w io.Writer = os.Stdout
	if path != "-" {
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(docs)
}

func publishDocs(ctx context.Context, cfg *config.Config, docs []map[string]any) error {
	w := &kafkago.Writer{
		Addr:                   kafkago.TCP(cfg.KafkaBrokers...),
		Topic:                  cfg.KafkaSourceTopic,
		AllowAutoTopicCreation: true,
	}
	defer w.Close()

	msgs := make([]kafkago.Message, 0, len(docs))
	for _, doc := range docs {
		payload, err := json.Marshal(doc)
		if err != nil {
			return err
		}
		msgs = append(msgs, kafkago.Message{Key: []byte(doc["id"].(string)), Value: payload})
	}
	if err := w.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("publish to %s: %w", cfg.KafkaSourceTopic, err)
	}
	log.Printf("published %d records to %s", len(msgs), cfg.KafkaSourceTopic)
	return nil
}
