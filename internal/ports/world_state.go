package ports

import "commuter-destination-service/internal/domain"

// Read-only access to transit stops and lines.
type TransitNetwork interface {
	// Return the world position of a stop.
	GetStopPosition(stopID domain.StopID) (domain.Position, bool)
	// Return the transport mode of the line that owns a stop.
	GetStopMode(stopID domain.StopID) (domain.TransportMode, bool)
	// Return the next stop along the line that owns a stop.
	GetNextStopID(stopID domain.StopID) (domain.StopID, bool)
}

// Read-only access to the citizen grid and citizen instances.
//
// The grid holds only the head of each cell's chain; the link to the next
// citizen in the same cell lives on the citizen instance itself.
type CitizenGrid interface {
	GetCellHead(cellIndex int) domain.CitizenInstanceID
	GetNextInCell(id domain.CitizenInstanceID) domain.CitizenInstanceID
	GetCitizenInstance(id domain.CitizenInstanceID) (domain.CitizenInstance, bool)
	// Report whether a citizen stands within rng world units of a stop.
	IsCitizenInRangeOfStop(id domain.CitizenInstanceID, stopID domain.StopID, rng float64) bool
	// Return the stop where a citizen boarding at origin intends to leave the line.
	GetDestinationStopID(origin domain.StopID, citizen domain.CitizenInstance) (domain.StopID, bool)
	GetTargetBuildingID(citizen domain.CitizenInstance) (domain.BuildingID, bool)
}

// Port: the world-state accessor consumed by the destination graph builder.
// Implementations must give every call a consistent read snapshot.
type WorldState interface {
	TransitNetwork
	CitizenGrid
}
