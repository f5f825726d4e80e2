// internal/classifier/classifier.go
package classifier

import (
	"math"

	"github.com/Bets-Dmytro/Lab3-IoT/internal/config"
	"github.com/Bets-Dmytro/Lab3-IoT/internal/data"
)

// Road state labels produced from accelerometer readings.
const (
	StateNormal  = "normal"
	StateBumpy   = "bumpy"
	StatePothole = "pothole"
)

// Classifier assigns a road state to raw agent readings based on how far
// the vertical acceleration deviates from configured thresholds.
type Classifier struct {
	config *config.Config
}

func NewClassifier(cfg *config.Config) *Classifier {
	return &Classifier{config: cfg}
}

// Classify turns one raw reading into a processed record. The vertical (Z)
// axis carries the road surface signal: small deviations are normal road,
// larger ones a bumpy stretch, and the largest a pothole.
func (c *Classifier) Classify(reading data.RawAgentReading) data.ProcessedAgentData {
	z := math.Abs(reading.Accelerometer.Z)

	state := StateNormal
	switch {
	case z >= c.config.Classifier.PotholeThreshold:
		state = StatePothole
	case z >= c.config.Classifier.BumpyThreshold:
		state = StateBumpy
	}

	return data.ProcessedAgentData{
		RoadState: state,
		AgentData: data.AgentData{
			Accelerometer: reading.Accelerometer,
			GPS:           reading.GPS,
			Timestamp:     reading.Timestamp,
		},
	}
}

// ClassifyBatch maps Classify over a slice of readings.
func (c *Classifier) ClassifyBatch(readings []data.RawAgentReading) []data.ProcessedAgentData {
	records := make([]data.ProcessedAgentData, 0, len(readings))
	for _, reading := range readings {
		records = append(records, c.Classify(reading))
	}
	return records
}
