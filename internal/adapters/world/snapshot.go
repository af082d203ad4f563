package world

import (
	"commuter-destination-service/internal/domain"
	"errors"
	"fmt"
	"math"
	"slices"
)

// In-memory, immutable world snapshot implementing ports.WorldState.
//
// Citizen instances live in an arena indexed by id (slot 0 is never used) and
// the grid stores only the head id of each cell's chain. The chain itself runs
// through CitizenInstance.NextGridInstance.
type Snapshot struct {
	stops     map[domain.StopID]domain.Stop
	lines     map[domain.LineID]domain.TransitLine
	instances []domain.CitizenInstance
	grid      []domain.CitizenInstanceID
}

// Build a snapshot from world records.
func NewSnapshot(data *domain.WorldData) (*Snapshot, error) {
	if data == nil {
		return nil, errors.New("new snapshot: world data is nil")
	}

	s := &Snapshot{
		stops: make(map[domain.StopID]domain.Stop, len(data.Stops)),
		lines: make(map[domain.LineID]domain.TransitLine, len(data.Lines)),
		grid:  make([]domain.CitizenInstanceID, domain.GridSize*domain.GridSize),
	}

	for _, st := range data.Stops {
		if st.ID == 0 {
			return nil, errors.New("new snapshot: stop id 0 is reserved")
		}
		if _, dup := s.stops[st.ID]; dup {
			return nil, fmt.Errorf("new snapshot: duplicate stop_id=%d", st.ID)
		}
		s.stops[st.ID] = st
	}

	for _, l := range data.Lines {
		if err := s.addLine(l); err != nil {
			return nil, fmt.Errorf("new snapshot: %w", err)
		}
	}

	var maxID domain.CitizenInstanceID
	for _, c := range data.Citizens {
		maxID = max(maxID, c.ID)
	}
	s.instances = make([]domain.CitizenInstance, int(maxID)+1)

	for _, c := range data.Citizens {
		if err := s.addCitizen(c); err != nil {
			return nil, fmt.Errorf("new snapshot: %w", err)
		}
	}

	return s, nil
}

func (s *Snapshot) addLine(l domain.TransitLine) error {
	if l.ID == 0 {
		return errors.New("add line: line id 0 is reserved")
	}
	if _, dup := s.lines[l.ID]; dup {
		return fmt.Errorf("add line: duplicate line_id=%d", l.ID)
	}
	if len(l.Stops) < 2 {
		return fmt.Errorf("add line: line_id=%d needs at least 2 stops, got %d", l.ID, len(l.Stops))
	}

	for _, id := range l.Stops {
		st, ok := s.stops[id]
		if !ok {
			return fmt.Errorf("add line: line_id=%d references unknown stop_id=%d", l.ID, id)
		}
		if st.LineID != l.ID {
			return fmt.Errorf("add line: stop_id=%d belongs to line_id=%d, not %d", id, st.LineID, l.ID)
		}
	}

	l.Stops = slices.Clone(l.Stops)
	s.lines[l.ID] = l
	return nil
}

// Insert a citizen at the head of its grid cell chain.
func (s *Snapshot) addCitizen(c domain.CitizenInstance) error {
	if c.ID == 0 {
		return errors.New("add citizen: instance id 0 is reserved")
	}
	if s.instances[c.ID].ID != 0 {
		return fmt.Errorf("add citizen: duplicate instance_id=%d", c.ID)
	}
	for _, id := range c.Path {
		if _, ok := s.stops[id]; !ok {
			return fmt.Errorf("add citizen: instance_id=%d path references unknown stop_id=%d", c.ID, id)
		}
	}

	cell := domain.CellIndex(domain.ClampedGridCoord(c.Position.X), domain.ClampedGridCoord(c.Position.Z))

	c.Path = slices.Clone(c.Path)
	c.NextGridInstance = s.grid[cell]
	s.instances[c.ID] = c
	s.grid[cell] = c.ID
	return nil
}

// Stops in ascending id order.
func (s *Snapshot) Stops() []domain.Stop {
	out := make([]domain.Stop, 0, len(s.stops))
	for _, st := range s.stops {
		out = append(out, st)
	}
	slices.SortFunc(out, func(a, b domain.Stop) int { return int(a.ID) - int(b.ID) })
	return out
}

func (s *Snapshot) CitizenCount() int {
	n := 0
	for _, c := range s.instances {
		if c.ID != 0 {
			n++
		}
	}
	return n
}

func (s *Snapshot) GetStopPosition(stopID domain.StopID) (domain.Position, bool) {
	st, ok := s.stops[stopID]
	if !ok {
		return domain.Position{}, false
	}
	return st.Position, true
}

func (s *Snapshot) GetStopMode(stopID domain.StopID) (domain.TransportMode, bool) {
	st, ok := s.stops[stopID]
	if !ok {
		return domain.ModeUnknown, false
	}
	return st.Mode, true
}

func (s *Snapshot) GetNextStopID(stopID domain.StopID) (domain.StopID, bool) {
	st, ok := s.stops[stopID]
	if !ok {
		return 0, false
	}
	l, ok := s.lines[st.LineID]
	if !ok {
		return 0, false
	}
	return l.NextStop(stopID)
}

func (s *Snapshot) GetCellHead(cellIndex int) domain.CitizenInstanceID {
	if cellIndex < 0 || cellIndex >= len(s.grid) {
		return 0
	}
	return s.grid[cellIndex]
}

func (s *Snapshot) GetNextInCell(id domain.CitizenInstanceID) domain.CitizenInstanceID {
	if int(id) >= len(s.instances) {
		return 0
	}
	return s.instances[id].NextGridInstance
}

func (s *Snapshot) GetCitizenInstance(id domain.CitizenInstanceID) (domain.CitizenInstance, bool) {
	if id == 0 || int(id) >= len(s.instances) || s.instances[id].ID == 0 {
		return domain.CitizenInstance{}, false
	}
	c := s.instances[id]
	c.Path = slices.Clone(c.Path)
	return c, true
}

// A citizen is in range when its XZ distance to the stop is at most rng.
func (s *Snapshot) IsCitizenInRangeOfStop(id domain.CitizenInstanceID, stopID domain.StopID, rng float64) bool {
	if id == 0 || int(id) >= len(s.instances) || s.instances[id].ID == 0 {
		return false
	}
	st, ok := s.stops[stopID]
	if !ok || rng < 0 || math.IsNaN(rng) {
		return false
	}
	return s.instances[id].Position.DistanceSqrXZ(st.Position) <= rng*rng
}

// The destination is the stop that follows origin on the citizen's path.
func (s *Snapshot) GetDestinationStopID(origin domain.StopID, citizen domain.CitizenInstance) (domain.StopID, bool) {
	i := slices.Index(citizen.Path, origin)
	if i < 0 || i+1 >= len(citizen.Path) {
		return 0, false
	}
	return citizen.Path[i+1], true
}

func (s *Snapshot) GetTargetBuildingID(citizen domain.CitizenInstance) (domain.BuildingID, bool) {
	if citizen.TargetBuilding == 0 {
		return 0, false
	}
	return citizen.TargetBuilding, true
}
