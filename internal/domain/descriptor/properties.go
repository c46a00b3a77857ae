// Package descriptor computes the physicochemical property set from a
// validated molecular graph.  Every function is pure: identical graphs yield
// identical values, with no randomness and no external calls.
package descriptor

import "github.com/moleculab/chemalyzer/internal/domain/molecule"

// Properties is the fixed descriptor set computed for every analysis.
type Properties struct {
	MolecularWeight  float64
	LogP             float64
	HBondDonors      int
	HBondAcceptors   int
	RotatableBonds   int
	PolarSurfaceArea float64
	HeavyAtomCount   int
	RingCount        int
	AromaticRings    int
	Heteroatoms      int
}

// Calculate derives the full descriptor set from the graph.
func Calculate(m *molecule.Molecule) Properties {
	return Properties{
		MolecularWeight:  m.MolecularWeight(),
		LogP:             LogP(m),
		HBondDonors:      HBondDonors(m),
		HBondAcceptors:   HBondAcceptors(m),
		RotatableBonds:   RotatableBonds(m),
		PolarSurfaceArea: PolarSurfaceArea(m),
		HeavyAtomCount:   m.HeavyAtomCount(),
		RingCount:        m.RingCount(),
		AromaticRings:    m.AromaticRingCount(),
		Heteroatoms:      m.HeteroatomCount(),
	}
}

// HBondDonors counts nitrogen and oxygen atoms carrying at least one
// hydrogen.  An atom with several hydrogens still counts once.
func HBondDonors(m *molecule.Molecule) int {
	n := 0
	for _, a := range m.Atoms {
		if (a.Symbol == "N" || a.Symbol == "O") && a.Hydrogens > 0 {
			n++
		}
	}
	return n
}

// HBondAcceptors counts nitrogen and oxygen atoms that are not positively
// charged.  This is Lipinski's N-plus-O count; hydroxyl and amine atoms
// count as both donor and acceptor under it.
func HBondAcceptors(m *molecule.Molecule) int {
	n := 0
	for _, a := range m.Atoms {
		if (a.Symbol == "N" || a.Symbol == "O") && a.Charge <= 0 {
			n++
		}
	}
	return n
}

// RotatableBonds counts non-ring single bonds between two heavy atoms of
// heavy degree two or more, excluding amide C-N bonds.
func RotatableBonds(m *molecule.Molecule) int {
	n := 0
	for _, b := range m.Bonds {
		if b.Order != molecule.BondSingle || b.InRing {
			continue
		}
		if !m.Atoms[b.From].IsHeavy() || !m.Atoms[b.To].IsHeavy() {
			continue
		}
		if m.HeavyDegree(b.From) < 2 || m.HeavyDegree(b.To) < 2 {
			continue
		}
		if m.IsAmideBond(b.From, b.To) {
			continue
		}
		n++
	}
	return n
}
