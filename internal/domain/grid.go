package domain

import "math"

// Citizen grid geometry: a square of GridSize cells per side, each covering
// GridCellSize world units, with the world origin at cell GridOffset.
const (
	GridSize     = 2160
	GridCellSize = 8.0
	GridOffset   = 1080.0
)

// Inclusive range of grid cells, already clamped to [0, GridSize-1].
// A box with MaxX < MinX or MaxZ < MinZ contains no cells.
type CellBox struct {
	MinX, MinZ int
	MaxX, MaxZ int
}

// Number of cells inside the box.
func (b CellBox) Cells() int {
	if b.MaxX < b.MinX || b.MaxZ < b.MinZ {
		return 0
	}
	return (b.MaxX - b.MinX + 1) * (b.MaxZ - b.MinZ + 1)
}

// Grid coordinate of a world coordinate, unclamped.
func GridCoord(world float64) int {
	return int(math.Floor(world/GridCellSize + GridOffset))
}

// Grid coordinate of a world coordinate, clamped into the grid.
func ClampedGridCoord(world float64) int {
	return clampCell(GridCoord(world))
}

// Flat index of cell (x, z) in the grid head array.
func CellIndex(x, z int) int {
	return z*GridSize + x
}

// Cell box covering every cell within rng world units of pos on the X and Z axes.
func CellBounds(pos Position, rng float64) CellBox {
	return CellBox{
		MinX: max(GridCoord(pos.X-rng), 0),
		MinZ: max(GridCoord(pos.Z-rng), 0),
		MaxX: min(GridCoord(pos.X+rng), GridSize-1),
		MaxZ: min(GridCoord(pos.Z+rng), GridSize-1),
	}
}

func clampCell(c int) int {
	return min(max(c, 0), GridSize-1)
}
