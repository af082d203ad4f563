package domain

// Plain world records loaded from storage, used to build a queryable snapshot.
type WorldData struct {
	Stops    []Stop
	Lines    []TransitLine
	Citizens []CitizenInstance
}
