// internal/data/models.go
package data

import "time"

// AccelerometerData - a single three-axis accelerometer sample
type AccelerometerData struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// GpsData - a single GPS fix
type GpsData struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// AgentData - one reading from an agent: accelerometer + GPS + when it was taken
type AgentData struct {
	Accelerometer AccelerometerData `json:"accelerometer"`
	GPS           GpsData           `json:"gps"`
	Timestamp     time.Time         `json:"timestamp"`
}

// RawAgentReading - an agent reading before the road state has been classified.
// This is what the forwarder consumes.
type RawAgentReading struct {
	Accelerometer AccelerometerData `json:"accelerometer"`
	GPS           GpsData           `json:"gps"`
	Timestamp     time.Time         `json:"timestamp"`
}

// ProcessedAgentData - a classified reading, not yet persisted (no id)
type ProcessedAgentData struct {
	RoadState string    `json:"road_state"`
	AgentData AgentData `json:"agent_data"`
}

// StoredAgentData - one persisted row, flattened, with the store-assigned id
type StoredAgentData struct {
	ID        int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	RoadState string    `json:"road_state"`
	X         float64   `json:"x"`
	Y         float64   `json:"y"`
	Z         float64   `json:"z"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Timestamp time.Time `json:"timestamp" gorm:"not null"`
}

// TableName keeps the table name the agents' tooling expects
func (StoredAgentData) TableName() string {
	return "processed_agent_data"
}

// Row flattens a processed record into its stored form. The id is left to
// the database.
func (p ProcessedAgentData) Row() StoredAgentData {
	return StoredAgentData{
		RoadState: p.RoadState,
		X:         p.AgentData.Accelerometer.X,
		Y:         p.AgentData.Accelerometer.Y,
		Z:         p.AgentData.Accelerometer.Z,
		Latitude:  p.AgentData.GPS.Latitude,
		Longitude: p.AgentData.GPS.Longitude,
		Timestamp: p.AgentData.Timestamp,
	}
}
