package domain

import "slices"

// Accumulates journeys of waiting citizens toward one destination stop,
// counted per target building.
type DestinationGraphStop struct {
	StopID   StopID
	journeys map[BuildingID]int
}

func NewDestinationGraphStop(stopID StopID) *DestinationGraphStop {
	return &DestinationGraphStop{
		StopID:   stopID,
		journeys: make(map[BuildingID]int),
	}
}

// Record one more citizen travelling to building through this stop.
func (s *DestinationGraphStop) AddJourney(building BuildingID) {
	s.journeys[building]++
}

// Number of journeys toward building.
func (s *DestinationGraphStop) JourneyCount(building BuildingID) int {
	return s.journeys[building]
}

// Copy of the building -> journey count mapping.
func (s *DestinationGraphStop) Journeys() map[BuildingID]int {
	out := make(map[BuildingID]int, len(s.journeys))
	for b, n := range s.journeys {
		out[b] = n
	}
	return out
}

// Target buildings in ascending id order.
func (s *DestinationGraphStop) Buildings() []BuildingID {
	out := make([]BuildingID, 0, len(s.journeys))
	for b := range s.journeys {
		out = append(out, b)
	}
	slices.Sort(out)
	return out
}

func (s *DestinationGraphStop) TotalJourneys() int {
	total := 0
	for _, n := range s.journeys {
		total += n
	}
	return total
}

// Immutable snapshot of where the citizens waiting at a stop are going.
// Stops keep the order in which they were first discovered; that order carries
// no meaning for callers.
type DestinationGraph struct {
	stops []*DestinationGraphStop
	index map[StopID]int
}

// Build a graph from accumulated stops. Stops without journeys are dropped,
// so every stop in the graph has at least one journey.
func NewDestinationGraph(stops []*DestinationGraphStop) *DestinationGraph {
	g := &DestinationGraph{
		stops: make([]*DestinationGraphStop, 0, len(stops)),
		index: make(map[StopID]int, len(stops)),
	}
	for _, s := range stops {
		if s == nil || len(s.journeys) == 0 {
			continue
		}
		if _, dup := g.index[s.StopID]; dup {
			continue
		}
		// Detach from the caller's accumulator.
		c := &DestinationGraphStop{StopID: s.StopID, journeys: s.Journeys()}
		g.index[c.StopID] = len(g.stops)
		g.stops = append(g.stops, c)
	}
	return g
}

// Copy of the destination stops in discovery order.
func (g *DestinationGraph) Stops() []*DestinationGraphStop {
	out := make([]*DestinationGraphStop, 0, len(g.stops))
	for _, s := range g.stops {
		out = append(out, &DestinationGraphStop{StopID: s.StopID, journeys: s.Journeys()})
	}
	return out
}

// Look up the entry for a destination stop.
func (g *DestinationGraph) Stop(stopID StopID) (*DestinationGraphStop, bool) {
	i, ok := g.index[stopID]
	if !ok {
		return nil, false
	}
	s := g.stops[i]
	return &DestinationGraphStop{StopID: s.StopID, journeys: s.Journeys()}, true
}

func (g *DestinationGraph) Len() int { return len(g.stops) }

func (g *DestinationGraph) TotalJourneys() int {
	total := 0
	for _, s := range g.stops {
		total += s.TotalJourneys()
	}
	return total
}
