package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	gwebsocket "github.com/gorilla/websocket" // Alias to avoid name conflict
	"github.com/rs/zerolog/log"

	"github.com/Bets-Dmytro/Lab3-IoT/internal/data"
	"github.com/Bets-Dmytro/Lab3-IoT/internal/storage"
	"github.com/Bets-Dmytro/Lab3-IoT/internal/websocket"
)

var upgrader = gwebsocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true }, // Allow all origins for simplicity
}

type APIHandler struct {
	store storage.Store
	hub   *websocket.Hub
}

func NewAPIHandler(store storage.Store, hub *websocket.Hub) *APIHandler {
	return &APIHandler{
		store: store,
		hub:   hub,
	}
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			log.Error().Err(err).Msg("error encoding response")
		}
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"detail": message})
}

func recordID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

// HandleCreate ingests a batch of processed records. The batch is validated
// first, committed in one transaction, and only then broadcast to the
// websocket subscribers. A broadcast problem never fails the request.
func (h *APIHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		respondError(w, http.StatusBadRequest, "cannot read request body")
		return
	}
	defer r.Body.Close()

	records, err := data.ParseBatch(body)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	inserted, err := h.store.InsertBatch(r.Context(), records)
	if err != nil {
		log.Error().Err(err).Msg("error inserting batch")
		respondError(w, http.StatusInternalServerError, "failed to store records")
		return
	}

	if len(inserted) > 0 {
		h.hub.BroadcastBatch(inserted)
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "received"})
}

// HandleGet returns a single stored record by id.
func (h *APIHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := recordID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid record id")
		return
	}

	row, err := h.store.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Requested unit not found")
			return
		}
		log.Error().Err(err).Int64("id", id).Msg("error reading record")
		respondError(w, http.StatusInternalServerError, "failed to read record")
		return
	}

	respondJSON(w, http.StatusOK, row)
}

// HandleList returns every stored record.
func (h *APIHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	rows, err := h.store.List(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("error listing records")
		respondError(w, http.StatusInternalServerError, "failed to list records")
		return
	}

	respondJSON(w, http.StatusOK, rows)
}

// HandleUpdate replaces the data fields of one stored record.
func (h *APIHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := recordID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid record id")
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		respondError(w, http.StatusBadRequest, "cannot read request body")
		return
	}
	defer r.Body.Close()

	record, err := data.ParseRecord(body)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	row, err := h.store.Update(r.Context(), id, record)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Requested unit not found")
			return
		}
		log.Error().Err(err).Int64("id", id).Msg("error updating record")
		respondError(w, http.StatusInternalServerError, "failed to update record")
		return
	}

	respondJSON(w, http.StatusOK, row)
}

// HandleDelete removes one stored record and returns it.
func (h *APIHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := recordID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid record id")
		return
	}

	row, err := h.store.Delete(r.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Requested unit not found")
			return
		}
		log.Error().Err(err).Int64("id", id).Msg("error deleting record")
		respondError(w, http.StatusInternalServerError, "failed to delete record")
		return
	}

	respondJSON(w, http.StatusOK, row)
}

// HandleWebSocket upgrades connections and registers subscribers with the hub
func (h *APIHandler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Msg("websocket upgrade error")
		return
	}

	client := websocket.NewClient(h.hub, conn)
	h.hub.RegisterClient(client)

	// Start read/write pumps in separate goroutines
	go client.WritePump()
	go client.ReadPump() // Must run ReadPump to handle control messages (close, pong)

	log.Info().Str("client", client.ID.String()).Str("remote", conn.RemoteAddr().String()).Msg("websocket connection established")
}
