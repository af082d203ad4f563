package services

import (
	"commuter-destination-service/internal/domain"
	"math"
)

// ReadinessFunc reports whether a citizen waiting at a stop would board a
// vehicle arriving at stopPos and heading for nextStopPos.
type ReadinessFunc func(citizen domain.CitizenInstance, stopPos, nextStopPos domain.Position) bool

// Maps the transport mode a citizen waits for to its arrival readiness check.
// Modes missing from the table never qualify.
type ReadinessTable map[domain.TransportMode]ReadinessFunc

const (
	roadsideTolerance = 4.0
	platformTolerance = 8.0
	terminalMaxAngle  = math.Pi / 6
)

// DefaultReadinessTable returns the readiness checks for every known mode.
func DefaultReadinessTable() ReadinessTable {
	return ReadinessTable{
		domain.ModeBus:        roadsideReady,
		domain.ModeTrolleybus: roadsideReady,
		domain.ModeTram:       roadsideReady,
		domain.ModeCableCar:   platformReady,
		domain.ModeMetro:      platformReady,
		domain.ModeMonorail:   platformReady,
		domain.ModeTrain:      platformReady,
		domain.ModeShip:       terminalReady,
		domain.ModeFerry:      terminalReady,
		domain.ModeBlimp:      terminalReady,
		domain.ModeHelicopter: terminalReady,
		domain.ModePlane:      terminalReady,
	}
}

// Curbside vehicles stop for anyone expecting the next stop, unless the
// citizen was already turned away.
func roadsideReady(c domain.CitizenInstance, _, nextStopPos domain.Position) bool {
	if c.Flags.Has(domain.FlagBoardingDenied) {
		return false
	}
	return c.WaitTarget.DistanceSqrXZ(nextStopPos) <= roadsideTolerance*roadsideTolerance
}

func platformReady(c domain.CitizenInstance, _, nextStopPos domain.Position) bool {
	return c.WaitTarget.DistanceSqrXZ(nextStopPos) <= platformTolerance*platformTolerance
}

// Terminals serve departures in many directions; a citizen boards when the
// vehicle heads roughly the way the citizen wants to go.
func terminalReady(c domain.CitizenInstance, stopPos, nextStopPos domain.Position) bool {
	wx, wz := c.WaitTarget.X-stopPos.X, c.WaitTarget.Z-stopPos.Z
	nx, nz := nextStopPos.X-stopPos.X, nextStopPos.Z-stopPos.Z

	wl := math.Hypot(wx, wz)
	nl := math.Hypot(nx, nz)
	if wl == 0 || nl == 0 {
		return false
	}

	cos := (wx*nx + wz*nz) / (wl * nl)
	return cos >= math.Cos(terminalMaxAngle)
}
