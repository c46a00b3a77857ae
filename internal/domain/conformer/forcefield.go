package conformer

import (
	"gonum.org/v1/gonum/spatial/r3"
)

// Force-field weights and descent controls.  Energy units are
// arbitrary; only the relative weighting of the terms matters.
const (
	bondForce  = 300.0
	angleForce = 60.0
	repelForce = 50.0

	// vdwContact scales summed van-der-Waals radii down to the
	// closest nonbonded approach the field tolerates before pushing
	// atoms apart.
	vdwContact = 0.8

	initialStep = 1e-3
	maxStep     = 1e-2
	minStep     = 1e-9
	stepGrow    = 1.2
	stepShrink  = 0.5

	gradientTol    = 1e-3
	convergenceTol = 1e-6
)

// spring is a pairwise harmonic restraint toward distance d0 with
// force constant k.  Bond stretches and angle bends (expressed as 1-3
// distance restraints) both take this form.
type spring struct {
	a, b int
	d0   float64
	k    float64
}

// contact is a nonbonded pair repelled below its minimum approach.
type contact struct {
	a, b int
	rmin float64
}

// field is the assembled restraint set for one structure.
type field struct {
	springs  []spring
	contacts []contact
}

// buildField derives the restraints from the expanded structure: one
// bond spring per link, one angle spring per geminal pair, and one
// repulsive contact for every remaining pair.
func buildField(s *structure) *field {
	f := &field{}
	n := len(s.sites)

	excluded := make(map[[2]int]bool, len(s.links)*3)
	pairKey := func(i, j int) [2]int {
		if i > j {
			i, j = j, i
		}
		return [2]int{i, j}
	}

	for _, l := range s.links {
		f.springs = append(f.springs, spring{
			a:  l.a,
			b:  l.b,
			d0: s.idealLength(l.a, l.b, l.order),
			k:  bondForce,
		})
		excluded[pairKey(l.a, l.b)] = true
	}

	for center := range s.adj {
		nbs := s.adj[center]
		for x := 0; x < len(nbs); x++ {
			for y := x + 1; y < len(nbs); y++ {
				i, k := nbs[x].to, nbs[y].to
				key := pairKey(i, k)
				if excluded[key] {
					continue
				}
				excluded[key] = true
				f.springs = append(f.springs, spring{
					a:  i,
					b:  k,
					d0: s.geminalDistance(i, center, k),
					k:  angleForce,
				})
			}
		}
	}

	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if excluded[[2]int{i, j}] {
				continue
			}
			f.contacts = append(f.contacts, contact{
				a:    i,
				b:    j,
				rmin: vdwContact * (s.sites[i].vdw + s.sites[j].vdw),
			})
		}
	}
	return f
}

// energyAndGradient evaluates the field at pos, writing the analytic
// gradient into grad.
func (f *field) energyAndGradient(pos, grad []r3.Vec) float64 {
	for i := range grad {
		grad[i] = r3.Vec{}
	}
	var energy float64

	for _, sp := range f.springs {
		delta := r3.Sub(pos[sp.a], pos[sp.b])
		d := r3.Norm(delta)
		if d < 1e-9 {
			// Coincident sites have no defined direction.
			delta = r3.Vec{X: 1e-9}
			d = 1e-9
		}
		diff := d - sp.d0
		energy += sp.k * diff * diff
		g := r3.Scale(2*sp.k*diff/d, delta)
		grad[sp.a] = r3.Add(grad[sp.a], g)
		grad[sp.b] = r3.Sub(grad[sp.b], g)
	}

	for _, c := range f.contacts {
		delta := r3.Sub(pos[c.a], pos[c.b])
		d := r3.Norm(delta)
		if d >= c.rmin {
			continue
		}
		if d < 1e-9 {
			delta = r3.Vec{X: 1e-9}
			d = 1e-9
		}
		diff := c.rmin - d
		energy += repelForce * diff * diff
		g := r3.Scale(-2*repelForce*diff/d, delta)
		grad[c.a] = r3.Add(grad[c.a], g)
		grad[c.b] = r3.Sub(grad[c.b], g)
	}
	return energy
}

// minimize relaxes pos in place by adaptive steepest descent and
// reports whether the relaxation converged within maxIter steps.
// Convergence means the largest per-atom force or the relative energy
// improvement fell under tolerance, or no step size still descends.
func (f *field) minimize(pos []r3.Vec, maxIter int) bool {
	n := len(pos)
	grad := make([]r3.Vec, n)
	trialGrad := make([]r3.Vec, n)
	trial := make([]r3.Vec, n)

	energy := f.energyAndGradient(pos, grad)
	step := initialStep

	for iter := 0; iter < maxIter; iter++ {
		if maxForce(grad) < gradientTol {
			return true
		}
		for i := range pos {
			trial[i] = r3.Sub(pos[i], r3.Scale(step, grad[i]))
		}
		trialEnergy := f.energyAndGradient(trial, trialGrad)
		if trialEnergy < energy {
			copy(pos, trial)
			grad, trialGrad = trialGrad, grad
			improved := energy - trialEnergy
			energy = trialEnergy
			if improved < convergenceTol*(1+energy) {
				return true
			}
			step *= stepGrow
			if step > maxStep {
				step = maxStep
			}
		} else {
			step *= stepShrink
			if step < minStep {
				return true
			}
		}
	}
	return false
}

func maxForce(grad []r3.Vec) float64 {
	var max float64
	for _, g := range grad {
		if n := r3.Norm(g); n > max {
			max = n
		}
	}
	return max
}
