// Package conformer generates approximate 3D geometries for validated
// molecular graphs.  A distance-geometry embedding (classical
// multidimensional scaling of estimated interatomic distances) provides
// the starting coordinates, a small harmonic force field relaxes them,
// and the result serializes as a V2000 connection-table block that
// standard chemical viewers can render.
package conformer

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/moleculab/chemalyzer/internal/domain/molecule"
)

// Geometry constants.  Bond lengths derive from summed covalent radii
// shortened by a per-order factor; the factors reproduce tabulated
// lengths to within a few hundredths of an ångström (C-C 1.52, C=C
// 1.32, aromatic C:C 1.38).
const (
	doubleBondFactor   = 0.87
	tripleBondFactor   = 0.78
	aromaticBondFactor = 0.91

	tetrahedralAngle = 109.47 * math.Pi / 180
	trigonalAngle    = 120.0 * math.Pi / 180
	linearAngle      = math.Pi

	// fragmentSeparation is the target distance between atoms of
	// disconnected fragments, keeping salt counterions apart.
	fragmentSeparation = 10.0

	// jitterScale bounds the per-axis random offset added after the
	// embedding.  The offset breaks exact planar and linear
	// degeneracies so out-of-plane gradients are nonzero.
	jitterScale = 0.2
)

// site is one atom of the hydrogen-expanded structure.
type site struct {
	symbol   string
	charge   int
	aromatic bool
	covalent float64
	vdw      float64
}

// neighbor is one adjacency entry with its bond order.
type neighbor struct {
	to    int
	order molecule.BondOrder
}

// link is one bond of the hydrogen-expanded structure.
type link struct {
	a, b  int
	order molecule.BondOrder
}

// structure is a molecular graph with implicit hydrogens promoted to
// explicit sites, the form the embedding and the serializer work on.
// Heavy atoms keep their molecule indices; hydrogens append after them
// in parent order.
type structure struct {
	sites []site
	links []link
	adj   [][]neighbor

	// aromaticRings lists perceived rings whose atoms are all
	// aromatic, in cyclic order, indexed against sites.
	aromaticRings [][]int
}

// expand converts a parsed molecule into its hydrogen-complete form.
func expand(m *molecule.Molecule) *structure {
	s := &structure{}
	for _, a := range m.Atoms {
		e, _ := molecule.ElementBySymbol(a.Symbol)
		s.sites = append(s.sites, site{
			symbol:   a.Symbol,
			charge:   a.Charge,
			aromatic: a.Aromatic,
			covalent: e.Covalent,
			vdw:      e.VanDerWaals,
		})
	}
	for _, b := range m.Bonds {
		s.links = append(s.links, link{a: b.From, b: b.To, order: b.Order})
	}

	hydrogen, _ := molecule.ElementBySymbol("H")
	for i, a := range m.Atoms {
		for h := 0; h < a.Hydrogens; h++ {
			idx := len(s.sites)
			s.sites = append(s.sites, site{
				symbol:   "H",
				covalent: hydrogen.Covalent,
				vdw:      hydrogen.VanDerWaals,
			})
			s.links = append(s.links, link{a: i, b: idx, order: molecule.BondSingle})
		}
	}

	s.adj = make([][]neighbor, len(s.sites))
	for _, l := range s.links {
		s.adj[l.a] = append(s.adj[l.a], neighbor{to: l.b, order: l.order})
		s.adj[l.b] = append(s.adj[l.b], neighbor{to: l.a, order: l.order})
	}

	for _, ring := range m.Rings {
		allAromatic := true
		for _, a := range ring {
			if !m.Atoms[a].Aromatic {
				allAromatic = false
				break
			}
		}
		if allAromatic {
			s.aromaticRings = append(s.aromaticRings, ring)
		}
	}
	return s
}

// idealLength is the target length for one bond.
func (s *structure) idealLength(a, b int, order molecule.BondOrder) float64 {
	sum := s.sites[a].covalent + s.sites[b].covalent
	switch order {
	case molecule.BondDouble:
		return doubleBondFactor * sum
	case molecule.BondTriple:
		return tripleBondFactor * sum
	case molecule.BondAromatic:
		return aromaticBondFactor * sum
	default:
		return sum
	}
}

// angleAt returns the preferred bond angle at a center site: linear for
// triple-bonded or cumulated centers, trigonal for aromatic or
// double-bonded centers, tetrahedral otherwise.
func (s *structure) angleAt(center int) float64 {
	doubles := 0
	for _, nb := range s.adj[center] {
		switch nb.order {
		case molecule.BondTriple:
			return linearAngle
		case molecule.BondDouble:
			doubles++
		}
	}
	if doubles >= 2 && len(s.adj[center]) == 2 {
		return linearAngle
	}
	if s.sites[center].aromatic || doubles > 0 {
		return trigonalAngle
	}
	return tetrahedralAngle
}

// geminalDistance is the 1-3 target distance across a center, by the
// law of cosines over the two ideal bond lengths.
func (s *structure) geminalDistance(i, center, k int) float64 {
	var ri, rk float64
	for _, nb := range s.adj[center] {
		if nb.to == i {
			ri = s.idealLength(center, i, nb.order)
		}
		if nb.to == k {
			rk = s.idealLength(center, k, nb.order)
		}
	}
	theta := s.angleAt(center)
	return math.Sqrt(ri*ri + rk*rk - 2*ri*rk*math.Cos(theta))
}

// targetDistances estimates every pairwise distance the embedding
// should aim for: exact ideal lengths for bonded pairs, law-of-cosines
// values for 1-3 pairs, regular-polygon chords inside aromatic rings,
// and shortest bonded-path sums beyond that.  Atoms in different
// fragments get a fixed separation.
func (s *structure) targetDistances() *mat.SymDense {
	n := len(s.sites)
	dist := make([][]float64, n)
	for i := range dist {
		dist[i] = make([]float64, n)
		for j := range dist[i] {
			if i != j {
				dist[i][j] = math.Inf(1)
			}
		}
	}
	for _, l := range s.links {
		d := s.idealLength(l.a, l.b, l.order)
		dist[l.a][l.b] = d
		dist[l.b][l.a] = d
	}

	// Floyd-Warshall over bond lengths.
	for k := 0; k < n; k++ {
		for i := 0; i < n; i++ {
			dik := dist[i][k]
			if math.IsInf(dik, 1) {
				continue
			}
			for j := 0; j < n; j++ {
				if via := dik + dist[k][j]; via < dist[i][j] {
					dist[i][j] = via
					dist[j][i] = via
				}
			}
		}
	}

	target := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			d := dist[i][j]
			if math.IsInf(d, 1) {
				d = fragmentSeparation
			}
			target.SetSym(i, j, d)
		}
	}

	// 1-3 refinement: path sums overestimate geminal distances.
	for center := range s.adj {
		nbs := s.adj[center]
		for x := 0; x < len(nbs); x++ {
			for y := x + 1; y < len(nbs); y++ {
				i, k := nbs[x].to, nbs[y].to
				if s.bonded(i, k) {
					continue
				}
				target.SetSym(i, k, s.geminalDistance(i, center, k))
			}
		}
	}

	// Aromatic rings embed as regular polygons.
	for _, ring := range s.aromaticRings {
		k := len(ring)
		var side float64
		for p := 0; p < k; p++ {
			side += target.At(ring[p], ring[(p+1)%k])
		}
		side /= float64(k)
		for p := 0; p < k; p++ {
			for q := p + 1; q < k; q++ {
				steps := q - p
				if k-steps < steps {
					steps = k - steps
				}
				chord := side * math.Sin(float64(steps)*math.Pi/float64(k)) / math.Sin(math.Pi/float64(k))
				target.SetSym(ring[p], ring[q], chord)
			}
		}
	}
	return target
}

func (s *structure) bonded(i, j int) bool {
	for _, nb := range s.adj[i] {
		if nb.to == j {
			return true
		}
	}
	return false
}

// embed produces initial coordinates by classical multidimensional
// scaling (Torgerson double centering plus a top-three eigendecomposition)
// of the target distances, then adds seeded jitter.
func (s *structure) embed(seed int64) []r3.Vec {
	n := len(s.sites)
	coords := make([]r3.Vec, n)
	rng := rand.New(rand.NewSource(seed))
	if n > 1 {
		target := s.targetDistances()

		sq := func(i, j int) float64 {
			v := target.At(i, j)
			return v * v
		}
		rowMean := make([]float64, n)
		var grandMean float64
		for i := 0; i < n; i++ {
			for j := 0; j < n; j++ {
				rowMean[i] += sq(i, j)
			}
			rowMean[i] /= float64(n)
			grandMean += rowMean[i]
		}
		grandMean /= float64(n)

		gram := mat.NewSymDense(n, nil)
		for i := 0; i < n; i++ {
			for j := i; j < n; j++ {
				gram.SetSym(i, j, -0.5*(sq(i, j)-rowMean[i]-rowMean[j]+grandMean))
			}
		}

		var eig mat.EigenSym
		if eig.Factorize(gram, true) {
			vals := eig.Values(nil)
			var vecs mat.Dense
			eig.VectorsTo(&vecs)
			// Eigenvalues ascend, so the principal axes are the
			// last three columns.
			for axis := 0; axis < 3 && axis < n; axis++ {
				col := n - 1 - axis
				if vals[col] <= 0 {
					continue
				}
				scale := math.Sqrt(vals[col])
				for i := 0; i < n; i++ {
					v := scale * vecs.At(i, col)
					switch axis {
					case 0:
						coords[i].X = v
					case 1:
						coords[i].Y = v
					case 2:
						coords[i].Z = v
					}
				}
			}
		} else {
			// Degenerate distance set.  Start from a random cloud
			// sized to the atom count and let minimization sort it out.
			radius := 1.5 * math.Cbrt(float64(n))
			for i := range coords {
				coords[i] = r3.Vec{
					X: (rng.Float64() - 0.5) * radius,
					Y: (rng.Float64() - 0.5) * radius,
					Z: (rng.Float64() - 0.5) * radius,
				}
			}
		}
	}

	for i := range coords {
		coords[i] = r3.Add(coords[i], r3.Vec{
			X: (rng.Float64() - 0.5) * jitterScale,
			Y: (rng.Float64() - 0.5) * jitterScale,
			Z: (rng.Float64() - 0.5) * jitterScale,
		})
	}
	return coords
}
