package domain

// Immutable world-space position. Y is height; grid queries only use X and Z.
type Position struct {
	X float64
	Y float64
	Z float64
}

// Squared distance between two positions projected onto the XZ plane.
func (p Position) DistanceSqrXZ(o Position) float64 {
	dx := p.X - o.X
	dz := p.Z - o.Z
	return dx*dx + dz*dz
}
