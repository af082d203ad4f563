package services

import (
	"commuter-destination-service/internal/domain"
	"commuter-destination-service/internal/platform/obs"
	"commuter-destination-service/internal/ports"
	"context"
	"errors"
	"fmt"
	"log"
)

// Counters of a single graph generation run.
type ScanStats struct {
	Cells      int
	Candidates int
	Qualified  int
	Skipped    int
}

type GraphBuilderOption func(*GraphBuilder)

// Use one radius for every stop instead of the per-mode range table.
func WithUniformTransitRange(rng float64) GraphBuilderOption {
	return func(b *GraphBuilder) {
		b.rangeFor = func(domain.TransportMode) float64 { return rng }
	}
}

func WithReadinessTable(t ReadinessTable) GraphBuilderOption {
	return func(b *GraphBuilder) { b.readiness = t }
}

// GraphBuilder computes destination graphs for the citizens waiting at a stop.
// It holds no state between calls; the world accessor is only read.
type GraphBuilder struct {
	world     ports.WorldState
	rangeFor  func(domain.TransportMode) float64
	readiness ReadinessTable
}

func NewGraphBuilder(world ports.WorldState, opts ...GraphBuilderOption) (*GraphBuilder, error) {
	if world == nil {
		return nil, errors.New("new graph builder: world must be non-nil")
	}

	b := &GraphBuilder{
		world:     world,
		rangeFor:  TransitRange,
		readiness: DefaultReadinessTable(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b, nil
}

// GenerateGraph scans the citizen grid around stopID and groups every citizen
// waiting there by destination stop and target building.
//
// The scan runs to completion synchronously; ctx only carries logging values.
// A stop without a position yields *domain.InvalidStopError. Citizens whose
// lookups fail are skipped without failing the scan.
func (b *GraphBuilder) GenerateGraph(ctx context.Context, stopID domain.StopID) (_ *domain.DestinationGraph, err error) {
	defer obs.Time(ctx, "graph.generate")(&err)

	stopPos, ok := b.world.GetStopPosition(stopID)
	if !ok {
		return nil, fmt.Errorf("generate graph: %w", &domain.InvalidStopError{StopID: stopID})
	}

	// Stops without mode metadata fall back to the long range.
	mode, _ := b.world.GetStopMode(stopID)
	transitRange := b.rangeFor(mode)

	box := domain.CellBounds(stopPos, transitRange)

	q := atStopQuery{
		world:        b.world,
		readiness:    b.readiness,
		stopID:       stopID,
		stopPos:      stopPos,
		transitRange: transitRange,
	}
	q.resolveNextStop()

	// Index by destination stop for uniqueness; order keeps first discovery.
	byStop := make(map[domain.StopID]*domain.DestinationGraphStop)
	order := make([]*domain.DestinationGraphStop, 0)
	var stats ScanStats

	for z := box.MinZ; z <= box.MaxZ; z++ {
		for x := box.MinX; x <= box.MaxX; x++ {
			stats.Cells++

			id := b.world.GetCellHead(domain.CellIndex(x, z))
			for id != 0 {
				stats.Candidates++

				// Read the link before evaluating predicates on this citizen.
				next := b.world.GetNextInCell(id)

				if dest, building, ok := q.journey(id); ok {
					acc, seen := byStop[dest]
					if !seen {
						acc = domain.NewDestinationGraphStop(dest)
						byStop[dest] = acc
						order = append(order, acc)
					}
					acc.AddJourney(building)
					stats.Qualified++
				} else {
					stats.Skipped++
				}

				id = next
			}
		}
	}

	log.Printf(
		"req_id=%s op=graph.generate stop_id=%d mode=%s range=%.0f cells=%d candidates=%d qualified=%d skipped=%d destinations=%d",
		obs.RequestID(ctx), stopID, mode, transitRange, stats.Cells, stats.Candidates, stats.Qualified, stats.Skipped, len(order),
	)

	return domain.NewDestinationGraph(order), nil
}

// Per-call evaluation of the at-stop predicate for one origin stop.
type atStopQuery struct {
	world        ports.WorldState
	readiness    ReadinessTable
	stopID       domain.StopID
	stopPos      domain.Position
	transitRange float64

	nextStopPos domain.Position
	hasNextStop bool
}

// The next stop only depends on the origin, so it is resolved once per scan.
func (q *atStopQuery) resolveNextStop() {
	next, ok := q.world.GetNextStopID(q.stopID)
	if !ok {
		return
	}
	pos, ok := q.world.GetStopPosition(next)
	if !ok {
		return
	}
	q.nextStopPos = pos
	q.hasNextStop = true
}

// Report whether a citizen waits at the stop and, if so, where it travels.
func (q *atStopQuery) journey(id domain.CitizenInstanceID) (domain.StopID, domain.BuildingID, bool) {
	citizen, ok := q.isAtStop(id)
	if !ok {
		return 0, 0, false
	}

	dest, ok := q.world.GetDestinationStopID(q.stopID, citizen)
	if !ok {
		return 0, 0, false
	}
	building, ok := q.world.GetTargetBuildingID(citizen)
	if !ok {
		return 0, 0, false
	}
	return dest, building, true
}

// Checks run cheapest first: proximity, waiting flag, then the mode policy.
func (q *atStopQuery) isAtStop(id domain.CitizenInstanceID) (domain.CitizenInstance, bool) {
	if !q.world.IsCitizenInRangeOfStop(id, q.stopID, q.transitRange) {
		return domain.CitizenInstance{}, false
	}

	citizen, ok := q.world.GetCitizenInstance(id)
	if !ok || !citizen.Flags.Has(domain.FlagWaitingTransport) {
		return domain.CitizenInstance{}, false
	}

	if !q.hasNextStop {
		return domain.CitizenInstance{}, false
	}
	ready, ok := q.readiness[citizen.Mode]
	if !ok || ready == nil {
		return domain.CitizenInstance{}, false
	}
	if !ready(citizen, q.stopPos, q.nextStopPos) {
		return domain.CitizenInstance{}, false
	}

	return citizen, true
}
