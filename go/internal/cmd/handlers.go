package main

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/google/uuid"
	"github.com/mcdev12/gridiron/go/internal/entries"
	"github.com/mcdev12/gridiron/go/internal/games"
	"github.com/mcdev12/gridiron/go/internal/pools"
	"github.com/mcdev12/gridiron/go/internal/reconcile"
	"github.com/mcdev12/gridiron/go/internal/validate"
)

type handlers struct {
	services *Services
}

func newHandlers(services *Services) *handlers {
	return &handlers{services: services}
}

func (h *handlers) createGame(w http.ResponseWriter, r *http.Request) {
	var req games.CreateGameRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	game, err := h.services.Games.CreateGame(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, game)
}

func (h *handlers) getGame(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	game, err := h.services.Games.GetGame(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, game)
}

// updateGame takes a free-form attribute map so result updates flow through
// the reconciliation updater, which rejects unknown and frozen attributes and
// fans changed results out to entries.
func (h *handlers) updateGame(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var attrs map[string]any
	if !decodeJSON(w, r, &attrs) {
		return
	}
	game, err := h.services.Games.GetGame(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	updated, err := h.services.Updater.UpdateGame(r.Context(), game, attrs)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *handlers) attachPoolsToGame(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	game, err := h.services.Games.GetGame(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	if _, err := h.services.Games.AttachPools(r.Context(), game); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, game)
}

func (h *handlers) createPool(w http.ResponseWriter, r *http.Request) {
	var req pools.CreatePoolRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	pool, err := h.services.Pools.CreatePool(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, pool)
}

func (h *handlers) getPool(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	pool, err := h.services.Pools.GetPool(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pool)
}

func (h *handlers) listPoolGames(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	list, err := h.services.Pools.Games(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *handlers) attachGamesToPool(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	pool, err := h.services.Pools.GetPool(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	if _, err := h.services.Pools.AttachGames(r.Context(), pool); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pool)
}

func (h *handlers) listPoolEntries(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	list, err := h.services.Entries.FindEntriesByPool(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	views := make([]entries.EntryView, len(list))
	for i := range list {
		views[i] = entries.View(&list[i])
	}
	writeJSON(w, http.StatusOK, views)
}

func (h *handlers) createEntry(w http.ResponseWriter, r *http.Request) {
	var req entries.CreateEntryRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	entry, err := h.services.Entries.CreateEntry(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, entries.View(entry))
}

func (h *handlers) getEntry(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	entry, err := h.services.Entries.GetEntry(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entries.View(entry))
}

func (h *handlers) updateEntry(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req entries.UpdateEntryRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	entry, err := h.services.Entries.UpdateEntry(r.Context(), id, req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entries.View(entry))
}

func (h *handlers) deleteEntry(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.services.Entries.DeleteEntry(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return uuid.Nil, false
	}
	return id, true
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return false
	}
	return true
}

// writeError maps domain failures onto status codes: validation failures are
// 422 with the field map, caller contract violations 400, missing records 404.
func writeError(w http.ResponseWriter, err error) {
	var verr *validate.Error
	if errors.As(err, &verr) {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"errors": verr.Fields})
		return
	}

	var poolAdder *games.PoolAdderError
	var gameAdder *pools.GameAdderError
	var updater *reconcile.GameUpdaterError
	if errors.As(err, &poolAdder) || errors.As(err, &gameAdder) || errors.As(err, &updater) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	if errors.Is(err, games.ErrGameNotFound) ||
		errors.Is(err, pools.ErrPoolNotFound) ||
		errors.Is(err, entries.ErrEntryNotFound) ||
		errors.Is(err, entries.ErrPoolNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
		return
	}

	log.Printf("request failed: %v", err)
	writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("Failed to write response: %v", err)
	}
}
