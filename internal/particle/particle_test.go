package particle

import (
	"testing"
	"time"
)

func quietConfig() Config {
	config := DefaultConfig()
	// Forces off so emission and lifetime tests see pure counts.
	config.Gravity = 0
	config.Drag = 0
	config.Turbulence = 0
	config.NeighborRadius = 0
	config.JitterSpeed = 0
	config.InheritVelocity = 1
	return config
}

func TestEmitFrom_FirstCallOnlyEstablishesBaseline(t *testing.T) {
	e := NewEngine(quietConfig(), 1)
	now := time.Now()

	if n := e.EmitFrom("s", 0, 0, 0, 0, 0, now); n != 0 {
		t.Fatalf("first call must only set the baseline, emitted %d", n)
	}
	if e.Count() != 0 {
		t.Fatalf("expected no particles yet, got %d", e.Count())
	}
}

func TestEmitFrom_RateIsFrameIndependent(t *testing.T) {
	// Emit for one simulated second in two different frame patterns; the
	// total count must be the same.
	config := quietConfig()
	config.EmitRate = 30
	config.MaxParticles = 1000

	emit := func(steps int) int {
		e := NewEngine(config, 1)
		base := time.Now()
		e.EmitFrom("s", 0, 0, 0, 0, 0, base)
		total := 0
		for i := 1; i <= steps; i++ {
			now := base.Add(time.Duration(float64(i) / float64(steps) * float64(time.Second)))
			total += e.EmitFrom("s", 0, 0, 0, 0, 0, now)
		}
		return total
	}

	at60 := emit(60)
	at7 := emit(7)

	if at60 != 30 {
		t.Errorf("60 even steps over 1s at rate 30: expected 30, got %d", at60)
	}
	// Uneven frame boundaries may leave at most one particle still in
	// the fractional budget.
	if at7 < 29 || at7 > 30 {
		t.Errorf("7 uneven steps over 1s at rate 30: expected 29..30, got %d", at7)
	}
}

func TestEmitFrom_CapDropsSilently(t *testing.T) {
	config := quietConfig()
	config.MaxParticles = 10
	config.EmitRate = 1000
	e := NewEngine(config, 1)
	base := time.Now()

	e.EmitFrom("s", 0, 0, 0, 0, 0, base)
	n := e.EmitFrom("s", 0, 0, 0, 0, 0, base.Add(time.Second))

	if n != 10 {
		t.Errorf("expected emission clamped to the cap, got %d", n)
	}
	if e.Count() != 10 {
		t.Errorf("expected population at the cap, got %d", e.Count())
	}
	if e.Dropped() == 0 {
		t.Error("drops at the cap should be counted")
	}
}

func TestForgetSource_NoBurstAfterGap(t *testing.T) {
	config := quietConfig()
	config.EmitRate = 30
	e := NewEngine(config, 1)
	base := time.Now()

	e.EmitFrom("s", 0, 0, 0, 0, 0, base)
	e.ForgetSource("s")

	// Ten seconds later the source reappears. Without the forget this
	// would instantly emit rate*10 particles.
	later := base.Add(10 * time.Second)
	if n := e.EmitFrom("s", 0, 0, 0, 0, 0, later); n != 0 {
		t.Fatalf("reappearing source burst %d particles", n)
	}
	if n := e.EmitFrom("s", 0, 0, 0, 0, 0, later.Add(100*time.Millisecond)); n != 3 {
		t.Errorf("expected 3 particles in the next 100ms, got %d", n)
	}
}

func TestStep_CullsExpiredParticles(t *testing.T) {
	config := quietConfig()
	config.Lifetime = time.Second
	config.EmitRate = 10
	e := NewEngine(config, 1)
	base := time.Now()

	e.EmitFrom("s", 0, 0, 0, 0, 0, base)
	e.EmitFrom("s", 0, 0, 0, 0, 0, base.Add(500*time.Millisecond))
	if e.Count() != 5 {
		t.Fatalf("expected 5 particles, got %d", e.Count())
	}

	// Just before expiry: all alive.
	e.Step(base.Add(1400*time.Millisecond), 0.016)
	if e.Count() != 5 {
		t.Errorf("expected all particles alive at 1.4s, got %d", e.Count())
	}

	// Past expiry (birth at 0.5s + lifetime 1s = 1.5s).
	e.Step(base.Add(1600*time.Millisecond), 0.016)
	if e.Count() != 0 {
		t.Errorf("expected all particles culled, got %d", e.Count())
	}
}

func TestStep_GravityAndDrag(t *testing.T) {
	config := quietConfig()
	config.Gravity = 100
	e := NewEngine(config, 1)
	base := time.Now()

	e.EmitFrom("s", 0, 0, 0, 0, 0, base)
	e.EmitFrom("s", 100, 200, 0, 0, 0, base.Add(time.Second))

	e.Step(base.Add(1100*time.Millisecond), 0.5)

	p := e.Particles()[0]
	if p.VY != 50 {
		t.Errorf("expected VY=50 after gravity 100 * dt 0.5, got %v", p.VY)
	}
	if p.Y <= 200 {
		t.Errorf("particle should have fallen below its spawn point, got %v", p.Y)
	}

	// Strong drag cannot reverse the velocity, only zero it.
	config.Gravity = 0
	config.Drag = 10
	e2 := NewEngine(config, 1)
	e2.EmitFrom("s", 0, 0, 100, 0, 0, base)
	e2.EmitFrom("s", 0, 0, 100, 0, 0, base.Add(time.Second))
	e2.Step(base.Add(1100*time.Millisecond), 0.5) // drag*dt = 5 > 1

	if v := e2.Particles()[0].VX; v != 0 {
		t.Errorf("overdamped drag should clamp velocity to zero, got %v", v)
	}
}

func TestStep_DeterministicWithSeed(t *testing.T) {
	config := DefaultConfig()
	run := func() []Particle {
		e := NewEngine(config, 42)
		base := time.Unix(1000, 0)
		e.EmitFrom("s", 100, 100, 50, 0, 0, base)
		for i := 1; i <= 30; i++ {
			now := base.Add(time.Duration(i) * 33 * time.Millisecond)
			e.EmitFrom("s", 100, 100, 50, 0, 0, now)
			e.Step(now, 0.033)
		}
		return e.Particles()
	}

	a := run()
	b := run()
	if len(a) == 0 {
		t.Fatal("expected particles to exist")
	}
	if len(a) != len(b) {
		t.Fatalf("runs diverged in population: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("particle %d diverged between identical seeded runs", i)
		}
	}
}

func TestParticles_ReturnsCopy(t *testing.T) {
	e := NewEngine(quietConfig(), 1)
	base := time.Now()
	e.EmitFrom("s", 0, 0, 0, 0, 0, base)
	e.EmitFrom("s", 0, 0, 0, 0, 0, base.Add(time.Second))

	out := e.Particles()
	if len(out) == 0 {
		t.Fatal("expected particles")
	}
	out[0].X = 12345

	if e.Particles()[0].X == 12345 {
		t.Error("mutating the returned slice should not affect the engine")
	}
}
