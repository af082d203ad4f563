package handlers

import (
	"commuter-destination-service/internal/adapters/world"
	"commuter-destination-service/internal/api/dto"
	"commuter-destination-service/internal/domain"
	"commuter-destination-service/internal/services"
	"errors"
	"log"
	"net/http"
	"slices"
	"strconv"

	"github.com/gorilla/mux"
)

// StopHandler exposes read-only stop and destination graph endpoints.
type StopHandler struct {
	Store       *world.Store
	BuilderOpts []services.GraphBuilderOption
}

func (h *StopHandler) List(w http.ResponseWriter, r *http.Request) {
	snap := h.Store.Current()
	if snap == nil {
		writeError(w, r, http.StatusServiceUnavailable, "world snapshot not loaded")
		return
	}

	stops := snap.Stops()
	res := dto.ListStopsResponse{Stops: make([]dto.StopResponse, 0, len(stops))}
	for _, s := range stops {
		res.Stops = append(res.Stops, dto.StopResponse{
			StopID: uint16(s.ID),
			LineID: uint16(s.LineID),
			Mode:   s.Mode.String(),
			Position: dto.PositionResponse{
				X: s.Position.X,
				Y: s.Position.Y,
				Z: s.Position.Z,
			},
		})
	}

	writeJSON(w, r, http.StatusOK, res)
}

// Destinations builds the destination graph of the citizens waiting at a stop.
func (h *StopHandler) Destinations(w http.ResponseWriter, r *http.Request) {
	raw := mux.Vars(r)["stopID"]
	id, err := strconv.ParseUint(raw, 10, 16)
	if err != nil || id == 0 {
		writeError(w, r, http.StatusBadRequest, "stop_id must be an integer between 1 and 65535")
		return
	}

	snap := h.Store.Current()
	if snap == nil {
		writeError(w, r, http.StatusServiceUnavailable, "world snapshot not loaded")
		return
	}

	builder, err := services.NewGraphBuilder(snap, h.BuilderOpts...)
	if err != nil {
		log.Printf("new graph builder failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	stopID := domain.StopID(id)
	g, err := builder.GenerateGraph(r.Context(), stopID)
	if errors.Is(err, domain.ErrInvalidStop) {
		writeError(w, r, http.StatusNotFound, "stop not found")
		return
	}
	if err != nil {
		log.Printf("generate graph failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusOK, graphResponse(stopID, g))
}

// Responses list destinations and buildings by ascending id so clients get
// stable output; the graph itself keeps discovery order.
func graphResponse(stopID domain.StopID, g *domain.DestinationGraph) dto.DestinationGraphResponse {
	stops := g.Stops()
	slices.SortFunc(stops, func(a, b *domain.DestinationGraphStop) int { return int(a.StopID) - int(b.StopID) })

	res := dto.DestinationGraphResponse{
		StopID:        uint16(stopID),
		TotalJourneys: g.TotalJourneys(),
		Destinations:  make([]dto.DestinationStopResponse, 0, len(stops)),
	}
	for _, s := range stops {
		buildings := make([]dto.BuildingJourneysResponse, 0)
		for _, b := range s.Buildings() {
			buildings = append(buildings, dto.BuildingJourneysResponse{
				BuildingID: uint16(b),
				Journeys:   s.JourneyCount(b),
			})
		}
		res.Destinations = append(res.Destinations, dto.DestinationStopResponse{
			StopID:        uint16(s.StopID),
			TotalJourneys: s.TotalJourneys(),
			Buildings:     buildings,
		})
	}
	return res
}
