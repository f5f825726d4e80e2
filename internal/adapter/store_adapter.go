// internal/adapter/store_adapter.go
package adapter

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Bets-Dmytro/Lab3-IoT/internal/data"
)

// StoreGateway is the outbound side of the forwarder: something that can
// persist a batch of processed records and say whether it succeeded.
type StoreGateway interface {
	SaveData(ctx context.Context, batch []data.ProcessedAgentData) bool
}

// StoreAdapter forwards batches to the store's HTTP API. It reports success
// purely from the response status: no retries, no body inspection, and any
// non-success status counts the same as a transport failure.
type StoreAdapter struct {
	apiBaseURL string
	httpClient *http.Client
}

func NewStoreAdapter(apiBaseURL string) *StoreAdapter {
	return &StoreAdapter{
		apiBaseURL: apiBaseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// SaveData POSTs the batch as a JSON array to the create endpoint.
func (a *StoreAdapter) SaveData(ctx context.Context, batch []data.ProcessedAgentData) bool {
	body, err := json.Marshal(batch)
	if err != nil {
		log.Error().Err(err).Msg("error marshalling batch")
		return false
	}

	url := a.apiBaseURL + "/processed_agent_data/"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		log.Error().Err(err).Msg("error building store request")
		return false
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		log.Warn().Err(err).Msg("error posting batch to store")
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Warn().Int("status", resp.StatusCode).Msg("store rejected batch")
		return false
	}
	return true
}
