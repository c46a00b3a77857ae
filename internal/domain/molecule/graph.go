// Package molecule implements the molecular graph model of the analysis
// engine: SMILES parsing, ring perception, aromaticity, implicit hydrogen
// assignment, canonicalization, molecular formula derivation, and functional
// group detection.
//
// A Molecule is immutable once returned from ParseSMILES.  All derived values
// (rings, aromatic flags, hydrogen counts) are computed during parsing, so
// downstream packages can read the graph concurrently without locking.
package molecule

import "sort"

// ─────────────────────────────────────────────────────────────
// Bond orders
// ─────────────────────────────────────────────────────────────

// BondOrder enumerates the bond types representable in SMILES.
type BondOrder int

const (
	BondSingle   BondOrder = 1
	BondDouble   BondOrder = 2
	BondTriple   BondOrder = 3
	BondAromatic BondOrder = 4
)

// Multiplicity returns the bond-order contribution used in valence sums.
// Aromatic bonds contribute 1.5.
func (o BondOrder) Multiplicity() float64 {
	if o == BondAromatic {
		return 1.5
	}
	return float64(o)
}

// Symbol returns the SMILES bond symbol, with the empty string for single
// and aromatic bonds which are written implicitly.
func (o BondOrder) Symbol() string {
	switch o {
	case BondDouble:
		return "="
	case BondTriple:
		return "#"
	default:
		return ""
	}
}

// ─────────────────────────────────────────────────────────────
// Graph elements
// ─────────────────────────────────────────────────────────────

// Atom is a node in the molecular graph.  Hydrogens carries the number of
// attached hydrogens that are not explicit graph nodes; for bracket atoms it
// is exactly the written count, for organic-subset atoms it is derived from
// the element's default valence.
type Atom struct {
	Index     int
	Symbol    string
	Number    int // atomic number
	Charge    int
	Isotope   int // 0 means natural abundance
	Aromatic  bool
	Hydrogens int
	InRing    bool

	// hFixed marks bracket atoms, whose hydrogen count is taken verbatim
	// rather than completed from valence rules.
	hFixed bool
}

// IsHeavy reports whether the atom is a non-hydrogen atom.
func (a Atom) IsHeavy() bool { return a.Number > 1 }

// IsHeteroatom reports whether the atom is a heavy atom other than carbon.
func (a Atom) IsHeteroatom() bool { return a.Number > 1 && a.Number != 6 }

// Bond is an edge between two atoms, stored once with From < To ordering
// not guaranteed; use the Molecule accessors for neighbor queries.
type Bond struct {
	From   int
	To     int
	Order  BondOrder
	InRing bool
}

// Other returns the bond endpoint that is not the given atom index.
func (b Bond) Other(idx int) int {
	if b.From == idx {
		return b.To
	}
	return b.From
}

// ─────────────────────────────────────────────────────────────
// Molecule
// ─────────────────────────────────────────────────────────────

// Molecule is a parsed, validated molecular graph.
type Molecule struct {
	// SMILES is the input string the molecule was parsed from.
	SMILES string

	Atoms []Atom
	Bonds []Bond

	// Rings holds the perceived smallest rings as atom index cycles.
	Rings [][]int

	// adjacency[i] lists the bond indices incident to atom i.
	adjacency [][]int

	// ringCount is the independent cycle count, bonds - atoms + components.
	ringCount int

	// canonical caches the canonical SMILES, computed on first use.
	canonical string
}

// finalizeAdjacency rebuilds the incidence lists from Bonds.  Called once at
// the end of parsing; the graph is read-only afterwards.
func (m *Molecule) finalizeAdjacency() {
	m.adjacency = make([][]int, len(m.Atoms))
	for bi, b := range m.Bonds {
		m.adjacency[b.From] = append(m.adjacency[b.From], bi)
		m.adjacency[b.To] = append(m.adjacency[b.To], bi)
	}
}

// AtomCount returns the number of explicit graph atoms.
func (m *Molecule) AtomCount() int { return len(m.Atoms) }

// BondCount returns the number of explicit graph bonds.
func (m *Molecule) BondCount() int { return len(m.Bonds) }

// HeavyAtomCount returns the number of non-hydrogen atoms.
func (m *Molecule) HeavyAtomCount() int {
	n := 0
	for _, a := range m.Atoms {
		if a.IsHeavy() {
			n++
		}
	}
	return n
}

// HeteroatomCount returns the number of heavy atoms that are not carbon.
func (m *Molecule) HeteroatomCount() int {
	n := 0
	for _, a := range m.Atoms {
		if a.IsHeteroatom() {
			n++
		}
	}
	return n
}

// TotalHydrogens returns the hydrogen count over the whole molecule,
// combining implicit hydrogens with explicit [H] nodes.
func (m *Molecule) TotalHydrogens() int {
	n := 0
	for _, a := range m.Atoms {
		if a.Number == 1 {
			n++
		}
		n += a.Hydrogens
	}
	return n
}

// RingCount returns the independent cycle count of the graph, which matches
// the intuitive ring count for fused and spiro systems.
func (m *Molecule) RingCount() int { return m.ringCount }

// AromaticRingCount returns the number of perceived rings whose atoms are
// all aromatic.
func (m *Molecule) AromaticRingCount() int {
	n := 0
	for _, ring := range m.Rings {
		aromatic := true
		for _, ai := range ring {
			if !m.Atoms[ai].Aromatic {
				aromatic = false
				break
			}
		}
		if aromatic {
			n++
		}
	}
	return n
}

// Degree returns the number of explicit neighbors of atom i.
func (m *Molecule) Degree(i int) int { return len(m.adjacency[i]) }

// HeavyDegree returns the number of heavy-atom neighbors of atom i.
func (m *Molecule) HeavyDegree(i int) int {
	n := 0
	for _, bi := range m.adjacency[i] {
		if m.Atoms[m.Bonds[bi].Other(i)].IsHeavy() {
			n++
		}
	}
	return n
}

// Neighbors returns the atom indices adjacent to atom i in ascending order.
func (m *Molecule) Neighbors(i int) []int {
	out := make([]int, 0, len(m.adjacency[i]))
	for _, bi := range m.adjacency[i] {
		out = append(out, m.Bonds[bi].Other(i))
	}
	sort.Ints(out)
	return out
}

// IncidentBonds returns the indices into Bonds of the bonds touching atom i.
func (m *Molecule) IncidentBonds(i int) []int {
	out := make([]int, len(m.adjacency[i]))
	copy(out, m.adjacency[i])
	return out
}

// BondBetween returns the bond joining atoms i and j, if one exists.
func (m *Molecule) BondBetween(i, j int) (Bond, bool) {
	for _, bi := range m.adjacency[i] {
		if m.Bonds[bi].Other(i) == j {
			return m.Bonds[bi], true
		}
	}
	return Bond{}, false
}

// bondOrderSum returns the valence sum for atom i: explicit bond orders with
// aromatic bonds counted as 1.5, plus attached hydrogens.
func (m *Molecule) bondOrderSum(i int) float64 {
	sum := float64(m.Atoms[i].Hydrogens)
	for _, bi := range m.adjacency[i] {
		sum += m.Bonds[bi].Order.Multiplicity()
	}
	return sum
}
