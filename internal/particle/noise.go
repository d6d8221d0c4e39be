package particle

import "math"

// noiseField is a deterministic hash-based value noise field. The curl of
// the scalar field supplies divergence-free turbulence, so perturbed
// particles swirl instead of converging into or escaping from a point.
type noiseField struct {
	seed uint32
}

func newNoiseField(seed uint32) *noiseField {
	return &noiseField{seed: seed}
}

// hash3 maps integer lattice coordinates to a deterministic value in [0,1).
func (n *noiseField) hash3(x, y, z int32) float64 {
	h := uint32(x)*374761393 + uint32(y)*668265263 + uint32(z)*2147483647 + n.seed*982451653
	h = (h ^ (h >> 13)) * 1274126177
	h ^= h >> 16
	return float64(h) / float64(math.MaxUint32)
}

func smoothstep(t float64) float64 {
	return t * t * (3 - 2*t)
}

// value3 samples trilinearly interpolated value noise at (x, y, z).
// The z axis is used as time so the field evolves continuously.
func (n *noiseField) value3(x, y, z float64) float64 {
	ix := int32(math.Floor(x))
	iy := int32(math.Floor(y))
	iz := int32(math.Floor(z))

	fx := x - math.Floor(x)
	fy := y - math.Floor(y)
	fz := z - math.Floor(z)

	// 8 corners of the surrounding lattice cube
	n000 := n.hash3(ix, iy, iz)
	n100 := n.hash3(ix+1, iy, iz)
	n010 := n.hash3(ix, iy+1, iz)
	n110 := n.hash3(ix+1, iy+1, iz)
	n001 := n.hash3(ix, iy, iz+1)
	n101 := n.hash3(ix+1, iy, iz+1)
	n011 := n.hash3(ix, iy+1, iz+1)
	n111 := n.hash3(ix+1, iy+1, iz+1)

	ux := smoothstep(fx)
	uy := smoothstep(fy)
	uz := smoothstep(fz)

	n00 := n000 + (n100-n000)*ux
	n01 := n001 + (n101-n001)*ux
	n10 := n010 + (n110-n010)*ux
	n11 := n011 + (n111-n011)*ux

	n0 := n00 + (n10-n00)*uy
	n1 := n01 + (n11-n01)*uy

	return n0 + (n1-n0)*uz
}

// fbm3 layers octaves of value noise with halving amplitude and doubling
// frequency, normalized back to [0,1].
func (n *noiseField) fbm3(x, y, z float64, octaves int) float64 {
	var sum, amp, norm float64
	amp = 1
	freq := 1.0
	for o := 0; o < octaves; o++ {
		sum += n.value3(x*freq, y*freq, z*freq) * amp
		norm += amp
		amp *= 0.5
		freq *= 2
	}
	if norm == 0 {
		return 0
	}
	return sum / norm
}

// curlEps is the finite-difference step for the curl estimate.
const curlEps = 0.01

// Curl returns the 2D curl of the fbm potential at (x, y, t):
// (dψ/dy, -dψ/dx). The result is divergence-free by construction.
func (n *noiseField) Curl(x, y, t float64, octaves int) (float64, float64) {
	psi0 := n.fbm3(x, y, t, octaves)
	psiDx := n.fbm3(x+curlEps, y, t, octaves)
	psiDy := n.fbm3(x, y+curlEps, t, octaves)

	cx := (psiDy - psi0) / curlEps
	cy := -(psiDx - psi0) / curlEps
	return cx, cy
}
