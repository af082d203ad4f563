package api

import (
	"commuter-destination-service/internal/adapters/world"
	"commuter-destination-service/internal/api/handlers"
	"commuter-destination-service/internal/services"
	"net/http"

	"github.com/gorilla/mux"
)

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(store *world.Store, opts ...services.GraphBuilderOption) http.Handler {
	r := mux.NewRouter()

	stopHandler := &handlers.StopHandler{Store: store, BuilderOpts: opts}
	snapshotHandler := &handlers.SnapshotHandler{Store: store}

	r.HandleFunc("/health", handlers.Health).Methods(http.MethodGet)
	r.HandleFunc("/stops", stopHandler.List).Methods(http.MethodGet)
	r.HandleFunc("/stops/{stopID}/destinations", stopHandler.Destinations).Methods(http.MethodGet)
	r.HandleFunc("/snapshot/reload", snapshotHandler.Reload).Methods(http.MethodPost)

	return loggingMiddleware(r)
}
