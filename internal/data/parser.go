// internal/data/parser.go
package data

import (
	"encoding/json"
	"fmt"
	"time"
)

// Accepted timestamp layouts: ISO 8601 with or without fractional seconds
// and with or without a zone offset.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
}

// Wire shapes. The timestamp comes in as a string so that a malformed value
// produces a ValidationError instead of a json.UnmarshalTypeError from deep
// inside the decoder.
type agentDataJSON struct {
	Accelerometer *AccelerometerData `json:"accelerometer"`
	GPS           *GpsData           `json:"gps"`
	Timestamp     *string            `json:"timestamp"`
}

type processedAgentDataJSON struct {
	RoadState string         `json:"road_state"`
	AgentData *agentDataJSON `json:"agent_data"`
}

// ParseTimestamp parses an ISO 8601 date-time string.
func ParseTimestamp(s string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, &ValidationError{
		Field:  "timestamp",
		Reason: fmt.Sprintf("%q is not an ISO 8601 date-time (expected YYYY-MM-DDTHH:MM:SS)", s),
	}
}

func (w processedAgentDataJSON) validate() (ProcessedAgentData, error) {
	var out ProcessedAgentData

	if w.RoadState == "" {
		return out, &ValidationError{Field: "road_state", Reason: "missing or empty"}
	}
	if w.AgentData == nil {
		return out, &ValidationError{Field: "agent_data", Reason: "missing"}
	}
	if w.AgentData.Accelerometer == nil {
		return out, &ValidationError{Field: "agent_data.accelerometer", Reason: "missing"}
	}
	if w.AgentData.GPS == nil {
		return out, &ValidationError{Field: "agent_data.gps", Reason: "missing"}
	}
	if w.AgentData.Timestamp == nil {
		return out, &ValidationError{Field: "agent_data.timestamp", Reason: "missing"}
	}

	ts, err := ParseTimestamp(*w.AgentData.Timestamp)
	if err != nil {
		return out, err
	}

	out = ProcessedAgentData{
		RoadState: w.RoadState,
		AgentData: AgentData{
			Accelerometer: *w.AgentData.Accelerometer,
			GPS:           *w.AgentData.GPS,
			Timestamp:     ts,
		},
	}
	return out, nil
}

// ParseRecord validates a single JSON-encoded processed record.
func ParseRecord(raw []byte) (ProcessedAgentData, error) {
	var wire processedAgentDataJSON
	if err := json.Unmarshal(raw, &wire); err != nil {
		return ProcessedAgentData{}, &ValidationError{Field: "body", Reason: "malformed JSON"}
	}
	return wire.validate()
}

// ParseBatch validates a JSON array of processed records. The whole batch is
// rejected on the first invalid record; nothing is persisted for a batch
// that fails here.
func ParseBatch(raw []byte) ([]ProcessedAgentData, error) {
	var wires []processedAgentDataJSON
	if err := json.Unmarshal(raw, &wires); err != nil {
		return nil, &ValidationError{Field: "body", Reason: "malformed JSON, expected an array of records"}
	}

	records := make([]ProcessedAgentData, 0, len(wires))
	for i, wire := range wires {
		record, err := wire.validate()
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		records = append(records, record)
	}
	return records, nil
}
