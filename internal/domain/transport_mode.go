package domain

import (
	"fmt"
	"strings"
)

// Public transport mode a stop belongs to and a waiting citizen intends to board.
type TransportMode int

const (
	ModeUnknown TransportMode = iota
	ModeBus
	ModeCableCar
	ModeTrolleybus
	ModeTram
	ModeMetro
	ModeMonorail
	ModeTrain
	ModeShip
	ModeFerry
	ModeBlimp
	ModeHelicopter
	ModePlane
)

var modeNames = map[TransportMode]string{
	ModeBus:        "bus",
	ModeCableCar:   "cable_car",
	ModeTrolleybus: "trolleybus",
	ModeTram:       "tram",
	ModeMetro:      "metro",
	ModeMonorail:   "monorail",
	ModeTrain:      "train",
	ModeShip:       "ship",
	ModeFerry:      "ferry",
	ModeBlimp:      "blimp",
	ModeHelicopter: "helicopter",
	ModePlane:      "plane",
}

func (m TransportMode) String() string {
	if name, ok := modeNames[m]; ok {
		return name
	}
	return "unknown"
}

// Parse a lower-case mode name as stored in seeds and the database.
func ParseTransportMode(s string) (TransportMode, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "unknown" {
		return ModeUnknown, nil
	}
	for m, name := range modeNames {
		if name == s {
			return m, nil
		}
	}
	return ModeUnknown, fmt.Errorf("parse transport mode: unknown mode %q", s)
}
