package api

import (
	"commuter-destination-service/internal/adapters/world"
	"commuter-destination-service/internal/api/dto"
	"commuter-destination-service/internal/domain"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryRepo struct {
	data *domain.WorldData
}

func (m *memoryRepo) LoadWorld(ctx context.Context) (*domain.WorldData, error) {
	return m.data, nil
}

func tramWorld() *domain.WorldData {
	next := domain.Position{X: 400, Z: 0}
	citizen := func(id domain.CitizenInstanceID, dest domain.StopID, b domain.BuildingID) domain.CitizenInstance {
		return domain.CitizenInstance{
			ID:             id,
			Position:       domain.Position{X: float64(id), Z: 1},
			Flags:          domain.FlagWaitingTransport,
			Mode:           domain.ModeTram,
			TargetBuilding: b,
			WaitTarget:     next,
			Path:           []domain.StopID{1, dest},
		}
	}

	return &domain.WorldData{
		Stops: []domain.Stop{
			{ID: 1, Position: domain.Position{}, Mode: domain.ModeTram, LineID: 1},
			{ID: 2, Position: next, Mode: domain.ModeTram, LineID: 1},
			{ID: 3, Position: domain.Position{X: 800}, Mode: domain.ModeTram, LineID: 1},
		},
		Lines: []domain.TransitLine{{ID: 1, Mode: domain.ModeTram, Stops: []domain.StopID{1, 2, 3}}},
		Citizens: []domain.CitizenInstance{
			citizen(1, 3, 30),
			citizen(2, 2, 21),
			citizen(3, 2, 20),
			citizen(4, 2, 20),
		},
	}
}

func newTestRouter(t *testing.T) (http.Handler, *world.Store) {
	t.Helper()
	store, err := world.NewStore(&memoryRepo{data: tramWorld()})
	require.NoError(t, err)
	return NewRouter(store), store
}

func do(h http.Handler, method, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, path, nil))
	return rec
}

func TestDestinationsEndpoint(t *testing.T) {
	h, _ := newTestRouter(t)

	rec := do(h, http.MethodGet, "/stops/1/destinations")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = do(h, http.MethodPost, "/snapshot/reload")
	require.Equal(t, http.StatusOK, rec.Code)
	var reload dto.ReloadResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &reload))
	assert.Equal(t, dto.ReloadResponse{Stops: 3, Citizens: 4}, reload)

	rec = do(h, http.MethodGet, "/stops/1/destinations")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(requestIDHeader))

	var res dto.DestinationGraphResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))

	want := dto.DestinationGraphResponse{
		StopID:        1,
		TotalJourneys: 4,
		Destinations: []dto.DestinationStopResponse{
			{StopID: 2, TotalJourneys: 3, Buildings: []dto.BuildingJourneysResponse{
				{BuildingID: 20, Journeys: 2},
				{BuildingID: 21, Journeys: 1},
			}},
			{StopID: 3, TotalJourneys: 1, Buildings: []dto.BuildingJourneysResponse{
				{BuildingID: 30, Journeys: 1},
			}},
		},
	}
	assert.Equal(t, want, res)
}

func TestDestinationsEndpointErrors(t *testing.T) {
	h, store := newTestRouter(t)
	_, err := store.Reload(context.Background())
	require.NoError(t, err)

	cases := []struct {
		name   string
		method string
		path   string
		status int
	}{
		{"UnknownStop", http.MethodGet, "/stops/77/destinations", http.StatusNotFound},
		{"ZeroStop", http.MethodGet, "/stops/0/destinations", http.StatusBadRequest},
		{"NotANumber", http.MethodGet, "/stops/abc/destinations", http.StatusBadRequest},
		{"TooLarge", http.MethodGet, "/stops/70000/destinations", http.StatusBadRequest},
		{"WrongMethod", http.MethodPost, "/stops/1/destinations", http.StatusMethodNotAllowed},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := do(h, tc.method, tc.path)
			assert.Equal(t, tc.status, rec.Code)
		})
	}
}

func TestListStopsAndHealth(t *testing.T) {
	h, store := newTestRouter(t)

	rec := do(h, http.MethodGet, "/health")
	assert.Equal(t, http.StatusOK, rec.Code)

	_, err := store.Reload(context.Background())
	require.NoError(t, err)

	rec = do(h, http.MethodGet, "/stops")
	require.Equal(t, http.StatusOK, rec.Code)

	var res dto.ListStopsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	require.Len(t, res.Stops, 3)
	assert.Equal(t, dto.StopResponse{StopID: 2, LineID: 1, Mode: "tram", Position: dto.PositionResponse{X: 400}}, res.Stops[1])
}

func TestRequestIDIsPropagated(t *testing.T) {
	h, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(requestIDHeader, "fixed-id")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, "fixed-id", rec.Header().Get(requestIDHeader))
}
