package domain

// Stable handles into world state. The zero value of each means "none";
// for CitizenInstanceID it also terminates a grid cell chain.
type (
	StopID            uint16
	BuildingID        uint16
	CitizenInstanceID uint16
	LineID            uint16
)
