package websocket

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Bets-Dmytro/Lab3-IoT/internal/data"
)

// testClient builds a client without a real connection; the hub only ever
// touches the Send channel.
func testClient(hub *Hub, buffer int) *Client {
	return &Client{ID: uuid.New(), Hub: hub, Send: make(chan []byte, buffer)}
}

func runningHub(t *testing.T) *Hub {
	t.Helper()
	hub := NewHub()
	go hub.Run()
	t.Cleanup(hub.Shutdown)
	return hub
}

func receive(t *testing.T, client *Client) []byte {
	t.Helper()
	select {
	case message := <-client.Send:
		return message
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for broadcast")
		return nil
	}
}

func TestHubBroadcastReachesAllSubscribers(t *testing.T) {
	hub := runningHub(t)

	first := testClient(hub, 16)
	second := testClient(hub, 16)
	hub.RegisterClient(first)
	hub.RegisterClient(second)

	records := []data.StoredAgentData{{ID: 1, RoadState: "good"}}
	hub.BroadcastBatch(records)

	for _, client := range []*Client{first, second} {
		var envelope struct {
			Type    string                 `json:"type"`
			Payload []data.StoredAgentData `json:"payload"`
		}
		require.NoError(t, json.Unmarshal(receive(t, client), &envelope))
		assert.Equal(t, "data", envelope.Type)
		require.Len(t, envelope.Payload, 1)
		assert.Equal(t, int64(1), envelope.Payload[0].ID)
		assert.Equal(t, "good", envelope.Payload[0].RoadState)
	}
}

func TestHubPerSubscriberOrdering(t *testing.T) {
	hub := runningHub(t)

	client := testClient(hub, 16)
	hub.RegisterClient(client)

	hub.BroadcastBatch([]data.StoredAgentData{{ID: 1}})
	hub.BroadcastBatch([]data.StoredAgentData{{ID: 2}})
	hub.BroadcastBatch([]data.StoredAgentData{{ID: 3}})

	for want := int64(1); want <= 3; want++ {
		var envelope struct {
			Payload []data.StoredAgentData `json:"payload"`
		}
		require.NoError(t, json.Unmarshal(receive(t, client), &envelope))
		require.Len(t, envelope.Payload, 1)
		assert.Equal(t, want, envelope.Payload[0].ID)
	}
}

func TestHubUnregisteredSubscriberStopsReceiving(t *testing.T) {
	hub := runningHub(t)

	leaving := testClient(hub, 16)
	staying := testClient(hub, 16)
	hub.RegisterClient(leaving)
	hub.RegisterClient(staying)

	hub.UnregisterClient(leaving)
	hub.BroadcastBatch([]data.StoredAgentData{{ID: 1}})

	receive(t, staying)

	// The leaving client's channel was closed without a delivery.
	message, open := <-leaving.Send
	assert.Nil(t, message)
	assert.False(t, open)

	require.Eventually(t, func() bool { return hub.ClientCount() == 1 },
		time.Second, 10*time.Millisecond)
}

func TestHubUnregisterIsIdempotent(t *testing.T) {
	hub := runningHub(t)

	client := testClient(hub, 16)
	hub.RegisterClient(client)
	hub.UnregisterClient(client)
	// A concurrent disconnect and failed-send removal both resolve to one
	// close; a second unregister must not panic on the closed channel.
	hub.UnregisterClient(client)

	require.Eventually(t, func() bool { return hub.ClientCount() == 0 },
		time.Second, 10*time.Millisecond)
}

func TestHubSlowSubscriberIsDroppedOthersStillReceive(t *testing.T) {
	hub := runningHub(t)

	stalled := testClient(hub, 1)
	healthy := testClient(hub, 16)
	hub.RegisterClient(stalled)
	hub.RegisterClient(healthy)

	// Fill the stalled subscriber's buffer so the next delivery cannot
	// be handed over.
	stalled.Send <- []byte("backlog")

	hub.BroadcastBatch([]data.StoredAgentData{{ID: 7}})

	receive(t, healthy)
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 },
		time.Second, 10*time.Millisecond)
}

func TestHubShutdownDropsEverySubscriber(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	client := testClient(hub, 16)
	hub.RegisterClient(client)

	hub.Shutdown()

	select {
	case _, open := <-client.Send:
		assert.False(t, open)
	case <-time.After(time.Second):
		t.Fatal("send channel not closed on shutdown")
	}
	assert.Equal(t, 0, hub.ClientCount())

	// Calls after shutdown must not block.
	hub.BroadcastBatch([]data.StoredAgentData{{ID: 1}})
	hub.RegisterClient(testClient(hub, 1))
	hub.Shutdown()
}
