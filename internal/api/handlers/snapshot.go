package handlers

import (
	"commuter-destination-service/internal/adapters/world"
	"commuter-destination-service/internal/api/dto"
	"log"
	"net/http"
)

type SnapshotHandler struct {
	Store *world.Store
}

// Reload replaces the world snapshot with the current repository contents.
func (h *SnapshotHandler) Reload(w http.ResponseWriter, r *http.Request) {
	snap, err := h.Store.Reload(r.Context())
	if err != nil {
		log.Printf("reload world failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusOK, dto.ReloadResponse{
		Stops:    len(snap.Stops()),
		Citizens: snap.CitizenCount(),
	})
}
