// cmd/forwarder/main.go
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Bets-Dmytro/Lab3-IoT/internal/adapter"
	"github.com/Bets-Dmytro/Lab3-IoT/internal/classifier"
	"github.com/Bets-Dmytro/Lab3-IoT/internal/config"
	"github.com/Bets-Dmytro/Lab3-IoT/internal/data"
)

// rawReadingJSON mirrors data.RawAgentReading with a string timestamp so
// agent logs with zone-less timestamps are accepted.
type rawReadingJSON struct {
	Accelerometer data.AccelerometerData `json:"accelerometer"`
	GPS           data.GpsData           `json:"gps"`
	Timestamp     string                 `json:"timestamp"`
}

// forwardReadings drains newline-delimited readings from in, classifies
// them and pushes them through the batcher, flushing the remainder at the
// end. It returns how many readings were read and classified and how many
// batches the store did not accept; a reading only reaches the store if
// its batch was accepted.
func forwardReadings(ctx context.Context, in io.Reader, cls *classifier.Classifier, batcher *adapter.Batcher) (readings, failedBatches int, err error) {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var wire rawReadingJSON
		if err := json.Unmarshal(line, &wire); err != nil {
			log.Warn().Err(err).Msg("skipping malformed reading")
			continue
		}
		ts, err := data.ParseTimestamp(wire.Timestamp)
		if err != nil {
			log.Warn().Err(err).Msg("skipping reading with bad timestamp")
			continue
		}

		reading := data.RawAgentReading{
			Accelerometer: wire.Accelerometer,
			GPS:           wire.GPS,
			Timestamp:     ts,
		}

		readings++
		if !batcher.Add(ctx, cls.Classify(reading)) {
			failedBatches++
			log.Warn().Msg("batch not accepted by store")
		}
	}
	if err := scanner.Err(); err != nil {
		return readings, failedBatches, err
	}

	if !batcher.Flush(ctx) {
		failedBatches++
		log.Warn().Msg("final batch not accepted by store")
	}
	return readings, failedBatches, nil
}

func main() {
	configPath := flag.String("config", ".", "Path to the configuration file directory")
	input := flag.String("input", "-", "File of newline-delimited agent readings, or - for stdin")
	flag.Parse()

	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("error loading config")
	}

	var in io.Reader = os.Stdin
	if *input != "-" {
		f, err := os.Open(*input)
		if err != nil {
			log.Fatal().Err(err).Str("input", *input).Msg("error opening input")
		}
		defer f.Close()
		in = f
	}

	cls := classifier.NewClassifier(cfg)
	gateway := adapter.NewStoreAdapter(cfg.Forwarder.StoreURL)
	batcher := adapter.NewBatcher(gateway, cfg.Forwarder.BatchSize)

	readings, failedBatches, err := forwardReadings(context.Background(), in, cls, batcher)
	if err != nil {
		log.Fatal().Err(err).Msg("error reading input")
	}

	log.Info().Int("readings", readings).Int("failed_batches", failedBatches).Msg("forwarding finished")
}
