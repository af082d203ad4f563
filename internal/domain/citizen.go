package domain

// Status bits of a citizen instance.
type CitizenFlags uint32

const (
	FlagNone             CitizenFlags = 0
	FlagCreated          CitizenFlags = 1 << 0
	FlagWaitingTransport CitizenFlags = 1 << 1
	FlagBoardingDenied   CitizenFlags = 1 << 2
)

func (f CitizenFlags) Has(flag CitizenFlags) bool { return f&flag != 0 }

// A citizen walking around the world, as tracked by the citizen grid.
//
// WaitTarget is where the citizen expects the boarded vehicle to head next; the
// per-mode readiness policies compare it against the line's next stop. Path is
// the sequence of transit stops the citizen plans to pass through.
// NextGridInstance links to the next citizen in the same grid cell.
type CitizenInstance struct {
	ID               CitizenInstanceID
	Position         Position
	Flags            CitizenFlags
	Mode             TransportMode
	TargetBuilding   BuildingID
	WaitTarget       Position
	Path             []StopID
	NextGridInstance CitizenInstanceID
}
