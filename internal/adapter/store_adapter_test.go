package adapter

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Bets-Dmytro/Lab3-IoT/internal/data"
)

func sampleBatch() []data.ProcessedAgentData {
	return []data.ProcessedAgentData{{
		RoadState: "good",
		AgentData: data.AgentData{
			Accelerometer: data.AccelerometerData{X: 1, Y: 2, Z: 3},
			GPS:           data.GpsData{Latitude: 10, Longitude: 20},
			Timestamp:     time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		},
	}}
}

func TestSaveDataPostsJSONArray(t *testing.T) {
	var gotPath string
	var gotBody []data.ProcessedAgentData

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	ok := NewStoreAdapter(server.URL).SaveData(context.Background(), sampleBatch())

	assert.True(t, ok)
	assert.Equal(t, "/processed_agent_data/", gotPath)
	require.Len(t, gotBody, 1)
	assert.Equal(t, "good", gotBody[0].RoadState)
	assert.Equal(t, 3.0, gotBody[0].AgentData.Accelerometer.Z)
}

func TestSaveDataFalseOnNonSuccessStatus(t *testing.T) {
	for _, status := range []int{http.StatusBadRequest, http.StatusNotFound, http.StatusInternalServerError} {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
		}))

		ok := NewStoreAdapter(server.URL).SaveData(context.Background(), sampleBatch())
		assert.False(t, ok, "status %d must report failure", status)
		server.Close()
	}
}

func TestSaveDataFalseWhenStoreUnreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // Shut it down before use.

	ok := NewStoreAdapter(server.URL).SaveData(context.Background(), sampleBatch())
	assert.False(t, ok)
}

// countingGateway records each delivered batch.
type countingGateway struct {
	batches [][]data.ProcessedAgentData
	fail    bool
}

func (g *countingGateway) SaveData(_ context.Context, batch []data.ProcessedAgentData) bool {
	g.batches = append(g.batches, batch)
	return !g.fail
}

func TestBatcherFlushesAtBatchSize(t *testing.T) {
	gateway := &countingGateway{}
	batcher := NewBatcher(gateway, 2)
	ctx := context.Background()

	record := sampleBatch()[0]
	assert.True(t, batcher.Add(ctx, record))
	assert.Empty(t, gateway.batches)

	assert.True(t, batcher.Add(ctx, record))
	require.Len(t, gateway.batches, 1)
	assert.Len(t, gateway.batches[0], 2)
}

func TestBatcherFlushSendsRemainder(t *testing.T) {
	gateway := &countingGateway{}
	batcher := NewBatcher(gateway, 10)
	ctx := context.Background()

	batcher.Add(ctx, sampleBatch()[0])
	assert.True(t, batcher.Flush(ctx))
	require.Len(t, gateway.batches, 1)
	assert.Len(t, gateway.batches[0], 1)

	// Nothing buffered: flush is a no-op success.
	assert.True(t, batcher.Flush(ctx))
	assert.Len(t, gateway.batches, 1)
}

func TestBatcherReportsGatewayFailure(t *testing.T) {
	gateway := &countingGateway{fail: true}
	batcher := NewBatcher(gateway, 1)

	assert.False(t, batcher.Add(context.Background(), sampleBatch()[0]))
}
