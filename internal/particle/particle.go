// Package particle implements the instrument's particle simulation:
// time-based emission from fingertip sources, gravity/drag/curl-noise
// integration, and spatial-hash neighbor forces.
package particle

import (
	"math"
	"math/rand"
	"time"
)

// Particle is one simulated particle. Positions and velocities are in
// display units and display units per second.
type Particle struct {
	X, Y     float64
	VX, VY   float64
	Birth    time.Time
	Size     float64
	ColorTag uint8
}

// Config holds configuration options for the particle engine.
// A zero Turbulence disables the curl-noise pass; a zero NeighborRadius
// disables neighbor forces and grid construction entirely.
type Config struct {
	// MaxParticles caps the total population. Emission beyond the cap is
	// silently dropped, never queued.
	MaxParticles int

	// Lifetime is how long a particle lives before it is culled.
	Lifetime time.Duration

	// EmitRate is particles per second per source.
	EmitRate float64

	// Gravity is downward acceleration in display units per second².
	Gravity float64

	// Drag is the per-second multiplicative velocity decay factor.
	Drag float64

	// InheritVelocity is the fraction of the source's velocity a new
	// particle starts with.
	InheritVelocity float64

	// JitterSpeed randomizes initial velocity, display units per second.
	JitterSpeed float64

	// Turbulence scales the curl-noise perturbation; 0 disables it.
	Turbulence float64

	// TurbulenceScale is the spatial frequency of the noise field,
	// in noise periods per display unit.
	TurbulenceScale float64

	// TurbulenceOctaves is the fbm octave count.
	TurbulenceOctaves int

	// NeighborRadius is the maximum interaction distance for neighbor
	// forces; 0 disables them.
	NeighborRadius float64

	// AttractStrength pulls particles toward neighbors within
	// NeighborRadius.
	AttractStrength float64

	// RepelStrength pushes particles apart inside RepelRadius.
	RepelStrength float64

	// RepelRadius is the inner distance below which repulsion dominates.
	RepelRadius float64

	// MinSize and MaxSize bound the randomized particle size.
	MinSize, MaxSize float64
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() Config {
	return Config{
		MaxParticles:      600,
		Lifetime:          2500 * time.Millisecond,
		EmitRate:          30,
		Gravity:           40,
		Drag:              1.2,
		InheritVelocity:   0.35,
		JitterSpeed:       60,
		Turbulence:        120,
		TurbulenceScale:   1.0 / 180.0,
		TurbulenceOctaves: 3,
		NeighborRadius:    48,
		AttractStrength:   14,
		RepelStrength:     60,
		RepelRadius:       14,
		MinSize:           2,
		MaxSize:           6,
	}
}

// Engine owns the particle population and the per-source emission budgets.
// Not safe for concurrent use; the engine tick drives it from one goroutine.
type Engine struct {
	config    Config
	particles []Particle
	sources   map[string]time.Time
	grid      *spatialGrid
	noise     *noiseField
	rng       *rand.Rand
	origin    time.Time
	dropped   uint64
}

// NewEngine creates a particle engine. The seed makes jitter and the
// turbulence field deterministic for tests.
func NewEngine(config Config, seed int64) *Engine {
	if config.MaxParticles <= 0 {
		config.MaxParticles = DefaultConfig().MaxParticles
	}
	if config.Lifetime <= 0 {
		config.Lifetime = DefaultConfig().Lifetime
	}

	e := &Engine{
		config:    config,
		particles: make([]Particle, 0, config.MaxParticles),
		sources:   make(map[string]time.Time),
		noise:     newNoiseField(uint32(seed)),
		rng:       rand.New(rand.NewSource(seed)),
	}
	if config.NeighborRadius > 0 {
		e.grid = newSpatialGrid(config.NeighborRadius)
	}
	return e
}

// EmitFrom spends the accumulated emission budget of the given source and
// returns how many particles were actually spawned. The budget is
// rate * elapsed since the source last emitted; whole particles are
// emitted and the fractional remainder stays in the elapsed-time
// computation, so emission counts are frame-rate independent. The first
// call for a source only establishes its baseline.
func (e *Engine) EmitFrom(sourceID string, x, y, vx, vy float64, colorTag uint8, now time.Time) int {
	last, ok := e.sources[sourceID]
	if !ok {
		e.sources[sourceID] = now
		return 0
	}

	elapsed := now.Sub(last).Seconds()
	if elapsed <= 0 || e.config.EmitRate <= 0 {
		return 0
	}

	n := int(elapsed * e.config.EmitRate)
	if n == 0 {
		return 0
	}

	// Advance the baseline by exactly the time the emitted particles
	// account for, carrying the fractional remainder.
	consumed := time.Duration(float64(n) / e.config.EmitRate * float64(time.Second))
	e.sources[sourceID] = last.Add(consumed)

	emitted := 0
	for i := 0; i < n; i++ {
		if len(e.particles) >= e.config.MaxParticles {
			e.dropped += uint64(n - i)
			break
		}
		e.particles = append(e.particles, e.spawn(x, y, vx, vy, colorTag, now))
		emitted++
	}
	return emitted
}

// ForgetSource drops a source's emission baseline, e.g. when its hand
// disappears. Re-appearing starts from a fresh baseline instead of
// emitting a burst for the gap.
func (e *Engine) ForgetSource(sourceID string) {
	delete(e.sources, sourceID)
}

func (e *Engine) spawn(x, y, vx, vy float64, colorTag uint8, now time.Time) Particle {
	jitter := e.config.JitterSpeed
	size := e.config.MinSize
	if e.config.MaxSize > e.config.MinSize {
		size += e.rng.Float64() * (e.config.MaxSize - e.config.MinSize)
	}
	return Particle{
		X:        x,
		Y:        y,
		VX:       vx*e.config.InheritVelocity + (e.rng.Float64()*2-1)*jitter,
		VY:       vy*e.config.InheritVelocity + (e.rng.Float64()*2-1)*jitter,
		Birth:    now,
		Size:     size,
		ColorTag: colorTag,
	}
}

// Step advances the simulation by dt seconds. Per particle: gravity,
// drag, curl-noise turbulence, neighbor forces, then position
// integration; finally particles past their lifetime are culled.
func (e *Engine) Step(now time.Time, dt float64) {
	if dt <= 0 || len(e.particles) == 0 {
		e.cull(now)
		return
	}

	if e.origin.IsZero() {
		e.origin = now
	}
	t := now.Sub(e.origin).Seconds()

	useNeighbors := e.grid != nil && (e.config.AttractStrength != 0 || e.config.RepelStrength != 0)
	if useNeighbors {
		e.grid.rebuild(e.particles)
	}

	for i := range e.particles {
		p := &e.particles[i]

		// Gravity
		p.VY += e.config.Gravity * dt

		// Drag: multiplicative decay, clamped so a large dt cannot
		// reverse the velocity
		decay := 1 - e.config.Drag*dt
		if decay < 0 {
			decay = 0
		}
		p.VX *= decay
		p.VY *= decay

		// Curl-noise turbulence
		if e.config.Turbulence != 0 {
			cx, cy := e.noise.Curl(p.X*e.config.TurbulenceScale, p.Y*e.config.TurbulenceScale, t*0.25, e.config.TurbulenceOctaves)
			p.VX += cx * e.config.Turbulence * dt
			p.VY += cy * e.config.Turbulence * dt
		}

		// Neighbor attraction/repulsion
		if useNeighbors {
			fx, fy := e.neighborForce(i)
			p.VX += fx * dt
			p.VY += fy * dt
		}
	}

	// Integrate positions after all forces so neighbor forces this frame
	// see consistent positions
	for i := range e.particles {
		p := &e.particles[i]
		p.X += p.VX * dt
		p.Y += p.VY * dt
	}

	e.cull(now)
}

// neighborForce accumulates attraction/repulsion from all particles within
// NeighborRadius of particle i, found through the spatial grid.
func (e *Engine) neighborForce(i int) (fx, fy float64) {
	p := &e.particles[i]
	e.grid.forEachInRange(e.particles, p.X, p.Y, e.config.NeighborRadius, i, func(j int) {
		dfx, dfy := e.pairForce(p.X, p.Y, e.particles[j].X, e.particles[j].Y)
		fx += dfx
		fy += dfy
	})
	return fx, fy
}

// pairForce is the interaction kernel between a particle at (x, y) and a
// neighbor at (nx, ny): gentle attraction across the interaction radius,
// overridden by a stronger short-range repulsion inside RepelRadius.
func (e *Engine) pairForce(x, y, nx, ny float64) (fx, fy float64) {
	dx := nx - x
	dy := ny - y
	d := math.Sqrt(dx*dx + dy*dy)
	if d <= 1e-9 {
		return 0, 0
	}
	ux := dx / d
	uy := dy / d

	f := e.config.AttractStrength * (1 - d/e.config.NeighborRadius)
	if d < e.config.RepelRadius {
		f -= e.config.RepelStrength * (1 - d/e.config.RepelRadius)
	}
	return ux * f, uy * f
}

// cull removes particles older than the configured lifetime, preserving
// order of the survivors.
func (e *Engine) cull(now time.Time) {
	alive := e.particles[:0]
	for _, p := range e.particles {
		if now.Sub(p.Birth) <= e.config.Lifetime {
			alive = append(alive, p)
		}
	}
	e.particles = alive
}

// Count returns the current particle population.
func (e *Engine) Count() int {
	return len(e.particles)
}

// Dropped returns how many emissions were refused at the population cap.
func (e *Engine) Dropped() uint64 {
	return e.dropped
}

// Particles returns a copy of the current population for rendering.
func (e *Engine) Particles() []Particle {
	out := make([]Particle, len(e.particles))
	copy(out, e.particles)
	return out
}
