package particle

import "math"

// cellKey addresses one cell of the spatial hash.
type cellKey struct {
	X, Y int32
}

// spatialGrid buckets particle indices into uniform cells sized to the
// maximum interaction radius, so a neighbor query only has to examine the
// 3x3 block of cells around a particle. The grid is transient: rebuilt
// from scratch every frame, never carried across frames.
type spatialGrid struct {
	cellSize float64
	cells    map[cellKey][]int
}

func newSpatialGrid(cellSize float64) *spatialGrid {
	return &spatialGrid{
		cellSize: cellSize,
		cells:    make(map[cellKey][]int),
	}
}

func (g *spatialGrid) key(x, y float64) cellKey {
	return cellKey{
		X: int32(math.Floor(x / g.cellSize)),
		Y: int32(math.Floor(y / g.cellSize)),
	}
}

// rebuild repopulates the grid from current particle positions.
// Existing buckets are reused to keep per-frame allocation low.
func (g *spatialGrid) rebuild(particles []Particle) {
	for k, bucket := range g.cells {
		g.cells[k] = bucket[:0]
	}
	for i := range particles {
		k := g.key(particles[i].X, particles[i].Y)
		g.cells[k] = append(g.cells[k], i)
	}
}

// forEachInRange calls fn for every particle index whose position lies
// within radius of (x, y), excluding the index self. Only the 3x3 cell
// neighborhood is examined, which is exhaustive as long as radius does
// not exceed the cell size.
func (g *spatialGrid) forEachInRange(particles []Particle, x, y, radius float64, self int, fn func(j int)) {
	center := g.key(x, y)
	r2 := radius * radius

	for dy := int32(-1); dy <= 1; dy++ {
		for dx := int32(-1); dx <= 1; dx++ {
			bucket, ok := g.cells[cellKey{X: center.X + dx, Y: center.Y + dy}]
			if !ok {
				continue
			}
			for _, j := range bucket {
				if j == self {
					continue
				}
				ddx := particles[j].X - x
				ddy := particles[j].Y - y
				if ddx*ddx+ddy*ddy <= r2 {
					fn(j)
				}
			}
		}
	}
}
