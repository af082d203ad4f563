package services

import "commuter-destination-service/internal/domain"

// Boarding radii used when vehicles load passengers at a stop.
const (
	ShortTransitRange = 32.0
	LongTransitRange  = 64.0
)

// TransitRange returns the radius around a stop in which waiting citizens can
// board a vehicle of the given mode.
//
// Buses and cable cars load from a short curb; every other mode, including
// modes the table does not know, uses the long range.
func TransitRange(mode domain.TransportMode) float64 {
	switch mode {
	case domain.ModeBus, domain.ModeCableCar:
		return ShortTransitRange
	default:
		return LongTransitRange
	}
}
