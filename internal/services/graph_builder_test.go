package services

import (
	"commuter-destination-service/internal/adapters/world"
	"commuter-destination-service/internal/domain"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	stopS  domain.StopID = 1
	stopD1 domain.StopID = 2
	stopD2 domain.StopID = 3

	buildingB1 domain.BuildingID = 101
	buildingB2 domain.BuildingID = 102
)

var nextStopPos = domain.Position{X: 500, Z: 0}

// Train line S -> D1 -> D2 with S at the world origin.
func trainWorld(citizens ...domain.CitizenInstance) *domain.WorldData {
	return &domain.WorldData{
		Stops: []domain.Stop{
			{ID: stopS, Position: domain.Position{X: 0, Z: 0}, Mode: domain.ModeTrain, LineID: 1},
			{ID: stopD1, Position: nextStopPos, Mode: domain.ModeTrain, LineID: 1},
			{ID: stopD2, Position: domain.Position{X: 1000, Z: 0}, Mode: domain.ModeTrain, LineID: 1},
		},
		Lines: []domain.TransitLine{
			{ID: 1, Mode: domain.ModeTrain, Stops: []domain.StopID{stopS, stopD1, stopD2}},
		},
		Citizens: citizens,
	}
}

// A train passenger waiting near S, ready to board toward the next stop.
func waitingCitizen(id domain.CitizenInstanceID, x, z float64, dest domain.StopID, b domain.BuildingID) domain.CitizenInstance {
	return domain.CitizenInstance{
		ID:             id,
		Position:       domain.Position{X: x, Z: z},
		Flags:          domain.FlagCreated | domain.FlagWaitingTransport,
		Mode:           domain.ModeTrain,
		TargetBuilding: b,
		WaitTarget:     nextStopPos,
		Path:           []domain.StopID{stopS, dest},
	}
}

func newBuilder(t *testing.T, data *domain.WorldData, opts ...GraphBuilderOption) *GraphBuilder {
	t.Helper()
	snap, err := world.NewSnapshot(data)
	require.NoError(t, err)
	b, err := NewGraphBuilder(snap, opts...)
	require.NoError(t, err)
	return b
}

// Flatten a graph into destination -> building -> count for comparisons.
func counts(g *domain.DestinationGraph) map[domain.StopID]map[domain.BuildingID]int {
	out := make(map[domain.StopID]map[domain.BuildingID]int, g.Len())
	for _, s := range g.Stops() {
		out[s.StopID] = s.Journeys()
	}
	return out
}

func TestGenerateGraphGroupsByDestinationAndBuilding(t *testing.T) {
	notReady := waitingCitizen(4, 5, 5, stopD2, buildingB2)
	notReady.WaitTarget = domain.Position{X: -300, Z: 400}

	b := newBuilder(t, trainWorld(
		waitingCitizen(1, 2, 3, stopD1, buildingB1),
		waitingCitizen(2, 30, -20, stopD1, buildingB1),
		waitingCitizen(3, -40, 10, stopD2, buildingB2),
		notReady,
	))

	g, err := b.GenerateGraph(context.Background(), stopS)
	require.NoError(t, err)

	want := map[domain.StopID]map[domain.BuildingID]int{
		stopD1: {buildingB1: 2},
		stopD2: {buildingB2: 1},
	}
	assert.Equal(t, want, counts(g))
	assert.Equal(t, 3, g.TotalJourneys())
}

func TestGenerateGraphEmptyWhenNobodyWaits(t *testing.T) {
	b := newBuilder(t, trainWorld())

	g, err := b.GenerateGraph(context.Background(), stopS)
	require.NoError(t, err)
	assert.Equal(t, 0, g.Len())
	assert.Empty(t, g.Stops())
}

func TestGenerateGraphInvalidStop(t *testing.T) {
	b := newBuilder(t, trainWorld(waitingCitizen(1, 0, 0, stopD1, buildingB1)))

	g, err := b.GenerateGraph(context.Background(), 99)
	require.Error(t, err)
	assert.Nil(t, g)
	assert.True(t, errors.Is(err, domain.ErrInvalidStop))

	var ise *domain.InvalidStopError
	require.True(t, errors.As(err, &ise))
	assert.Equal(t, domain.StopID(99), ise.StopID)
}

func TestGenerateGraphPredicates(t *testing.T) {
	notWaiting := waitingCitizen(1, 1, 1, stopD1, buildingB1)
	notWaiting.Flags = domain.FlagCreated

	notReady := waitingCitizen(2, 1, 1, stopD1, buildingB1)
	notReady.WaitTarget = domain.Position{X: 0, Z: 800}

	wrongMode := waitingCitizen(3, 1, 1, stopD1, buildingB1)
	wrongMode.Mode = domain.ModeUnknown

	noDestination := waitingCitizen(4, 1, 1, stopD1, buildingB1)
	noDestination.Path = []domain.StopID{stopD1, stopD2}

	noBuilding := waitingCitizen(5, 1, 1, stopD1, 0)

	cases := []struct {
		name    string
		citizen domain.CitizenInstance
	}{
		{"NotWaiting", notWaiting},
		{"NotReady", notReady},
		{"UnknownMode", wrongMode},
		{"NoDestination", noDestination},
		{"NoTargetBuilding", noBuilding},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b := newBuilder(t, trainWorld(tc.citizen, waitingCitizen(9, 2, 2, stopD2, buildingB2)))

			g, err := b.GenerateGraph(context.Background(), stopS)
			require.NoError(t, err)

			// The excluded citizen never stops the scan of its cell.
			assert.Equal(t, map[domain.StopID]map[domain.BuildingID]int{
				stopD2: {buildingB2: 1},
			}, counts(g))
		})
	}
}

func TestGenerateGraphBoundingBoxEdge(t *testing.T) {
	// (64, 0) sits in the last column of the box and exactly at range.
	// (64.5, 0) shares that column but is out of range.
	// (60, 60) is inside the box's corner cell but ~84.9 units away.
	b := newBuilder(t, trainWorld(
		waitingCitizen(1, 64, 0, stopD1, buildingB1),
		waitingCitizen(2, 64.5, 0, stopD1, buildingB2),
		waitingCitizen(3, 60, 60, stopD1, buildingB2),
		waitingCitizen(4, -64, 0, stopD2, buildingB2),
	))

	g, err := b.GenerateGraph(context.Background(), stopS)
	require.NoError(t, err)
	assert.Equal(t, map[domain.StopID]map[domain.BuildingID]int{
		stopD1: {buildingB1: 1},
		stopD2: {buildingB2: 1},
	}, counts(g))
}

func TestGenerateGraphAtGridCorners(t *testing.T) {
	low := domain.Position{X: -8636, Z: -8636}
	high := domain.Position{X: 8636, Z: 8636}

	data := &domain.WorldData{
		Stops: []domain.Stop{
			{ID: 1, Position: low, Mode: domain.ModePlane, LineID: 1},
			{ID: 2, Position: high, Mode: domain.ModePlane, LineID: 1},
		},
		Lines: []domain.TransitLine{
			{ID: 1, Mode: domain.ModePlane, Stops: []domain.StopID{1, 2}},
		},
		Citizens: []domain.CitizenInstance{
			{
				ID: 1, Position: domain.Position{X: low.X + 2, Z: low.Z}, Flags: domain.FlagWaitingTransport,
				Mode: domain.ModePlane, TargetBuilding: 7, WaitTarget: high, Path: []domain.StopID{1, 2},
			},
			{
				ID: 2, Position: domain.Position{X: high.X - 2, Z: high.Z + 2}, Flags: domain.FlagWaitingTransport,
				Mode: domain.ModePlane, TargetBuilding: 8, WaitTarget: low, Path: []domain.StopID{2, 1},
			},
		},
	}
	b := newBuilder(t, data)

	g, err := b.GenerateGraph(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, map[domain.StopID]map[domain.BuildingID]int{2: {7: 1}}, counts(g))

	g, err = b.GenerateGraph(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, map[domain.StopID]map[domain.BuildingID]int{1: {8: 1}}, counts(g))
}

func TestGenerateGraphIsIdempotent(t *testing.T) {
	b := newBuilder(t, trainWorld(
		waitingCitizen(1, 2, 3, stopD1, buildingB1),
		waitingCitizen(2, 9, -20, stopD2, buildingB2),
		waitingCitizen(3, -40, 10, stopD2, buildingB1),
	))

	first, err := b.GenerateGraph(context.Background(), stopS)
	require.NoError(t, err)
	second, err := b.GenerateGraph(context.Background(), stopS)
	require.NoError(t, err)

	assert.Equal(t, counts(first), counts(second))
}

func TestGenerateGraphWithoutNextStopSkipsEveryone(t *testing.T) {
	data := trainWorld(waitingCitizen(1, 2, 3, stopD1, buildingB1))
	data.Stops = append(data.Stops, domain.Stop{ID: 4, Position: domain.Position{X: 0, Z: 5}, Mode: domain.ModeTrain})
	data.Citizens[0].Path = []domain.StopID{4, stopD1}
	b := newBuilder(t, data)

	g, err := b.GenerateGraph(context.Background(), 4)
	require.NoError(t, err)
	assert.Equal(t, 0, g.Len())
}

func TestGenerateGraphTransitRangeByMode(t *testing.T) {
	data := &domain.WorldData{
		Stops: []domain.Stop{
			{ID: 1, Position: domain.Position{}, Mode: domain.ModeBus, LineID: 1},
			{ID: 2, Position: domain.Position{X: 300}, Mode: domain.ModeBus, LineID: 1},
		},
		Lines: []domain.TransitLine{{ID: 1, Mode: domain.ModeBus, Stops: []domain.StopID{1, 2}}},
		Citizens: []domain.CitizenInstance{
			{
				ID: 1, Position: domain.Position{X: -50}, Flags: domain.FlagWaitingTransport,
				Mode: domain.ModeBus, TargetBuilding: 5, WaitTarget: domain.Position{X: 301}, Path: []domain.StopID{1, 2},
			},
		},
	}

	g, err := newBuilder(t, data).GenerateGraph(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 0, g.Len(), "bus stops only reach 32 units")

	g, err = newBuilder(t, data, WithUniformTransitRange(LongTransitRange)).GenerateGraph(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, map[domain.StopID]map[domain.BuildingID]int{2: {5: 1}}, counts(g))
}

func TestGenerateGraphCustomReadinessTable(t *testing.T) {
	reject := func(domain.CitizenInstance, domain.Position, domain.Position) bool { return false }
	b := newBuilder(t,
		trainWorld(waitingCitizen(1, 2, 3, stopD1, buildingB1)),
		WithReadinessTable(ReadinessTable{domain.ModeTrain: reject}),
	)

	g, err := b.GenerateGraph(context.Background(), stopS)
	require.NoError(t, err)
	assert.Equal(t, 0, g.Len())
}

// relinkingWorld clears a citizen's next-in-cell link as soon as its proximity
// is checked, the way host logic may relink the grid while predicates run.
type relinkingWorld struct {
	*world.Snapshot
	next map[domain.CitizenInstanceID]domain.CitizenInstanceID
}

func (w *relinkingWorld) GetNextInCell(id domain.CitizenInstanceID) domain.CitizenInstanceID {
	if n, ok := w.next[id]; ok {
		return n
	}
	return w.Snapshot.GetNextInCell(id)
}

func (w *relinkingWorld) IsCitizenInRangeOfStop(id domain.CitizenInstanceID, stopID domain.StopID, rng float64) bool {
	w.next[id] = 0
	return w.Snapshot.IsCitizenInRangeOfStop(id, stopID, rng)
}

func TestGenerateGraphReadsNextLinkBeforePredicates(t *testing.T) {
	snap, err := world.NewSnapshot(trainWorld(
		waitingCitizen(1, 1, 1, stopD1, buildingB1),
		waitingCitizen(2, 2, 2, stopD1, buildingB1),
		waitingCitizen(3, 3, 3, stopD1, buildingB1),
	))
	require.NoError(t, err)

	w := &relinkingWorld{Snapshot: snap, next: map[domain.CitizenInstanceID]domain.CitizenInstanceID{}}
	b, err := NewGraphBuilder(w)
	require.NoError(t, err)

	g, err := b.GenerateGraph(context.Background(), stopS)
	require.NoError(t, err)
	assert.Equal(t, map[domain.StopID]map[domain.BuildingID]int{stopD1: {buildingB1: 3}}, counts(g))
}

func TestNewGraphBuilderRequiresWorld(t *testing.T) {
	_, err := NewGraphBuilder(nil)
	assert.Error(t, err)
}
