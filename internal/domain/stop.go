package domain

// A public transport stop on a single line.
type Stop struct {
	ID       StopID
	Position Position
	Mode     TransportMode
	LineID   LineID
}

// An ordered, circular sequence of stops served by one line.
// The stop following the last one is the first one.
type TransitLine struct {
	ID    LineID
	Mode  TransportMode
	Stops []StopID
}

// Return the stop after stopID on the line, or false if the line does not serve it.
func (l TransitLine) NextStop(stopID StopID) (StopID, bool) {
	for i, s := range l.Stops {
		if s == stopID {
			return l.Stops[(i+1)%len(l.Stops)], true
		}
	}
	return 0, false
}
