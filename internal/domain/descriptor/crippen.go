package descriptor

import "github.com/moleculab/chemalyzer/internal/domain/molecule"

// logP estimation
//
// Additive atomic contributions condensed from the Wildman-Crippen scheme
// (J. Chem. Inf. Comput. Sci. 39 (1999) 868).  Each heavy atom is classified
// by element and bonding context and contributes a fixed hydrophobicity
// increment; attached hydrogens contribute per the element they sit on.  The
// condensed table trades the full 68-class resolution for a compact,
// reproducible estimate.

const (
	logPAliphaticC    = 0.1441
	logPHetAliphaticC = -0.2035
	logPCarbonylC     = -0.2783
	logPAromaticCH    = 0.1581
	logPAromaticCSub  = 0.1360
	logPAmineN        = -1.0190
	logPAmideN        = -0.6027
	logPAromaticN     = -0.3239
	logPHydroxylO     = -0.2893
	logPCarbonylO     = -0.1526
	logPEtherO        = -0.0684
	logPAromaticO     = 0.1552
	logPSulfur        = 0.6482
	logPPhosphorus    = 0.8612
	logPFluorine      = 0.4202
	logPChlorine      = 0.6895
	logPBromine       = 0.8456
	logPIodine        = 0.8857

	logPHydrogenOnC = 0.1230
	logPHydrogenOnN = 0.2142
	logPHydrogenOnO = -0.2677
)

// LogP returns the additive octanol/water partition coefficient estimate.
func LogP(m *molecule.Molecule) float64 {
	total := 0.0
	for i := range m.Atoms {
		total += atomLogP(m, i)
		total += hydrogenLogP(m.Atoms[i])
	}
	return total
}

func atomLogP(m *molecule.Molecule, i int) float64 {
	a := m.Atoms[i]
	switch a.Symbol {
	case "C":
		if a.Aromatic {
			if a.Hydrogens > 0 {
				return logPAromaticCH
			}
			return logPAromaticCSub
		}
		if hasDoubleBondedHeteroatom(m, i) {
			return logPCarbonylC
		}
		if hasHeteroatomNeighbor(m, i) {
			return logPHetAliphaticC
		}
		return logPAliphaticC
	case "N":
		if a.Aromatic {
			return logPAromaticN
		}
		if adjacentToCarbonyl(m, i) {
			return logPAmideN
		}
		return logPAmineN
	case "O":
		if a.Aromatic {
			return logPAromaticO
		}
		if hasDoubleBond(m, i) {
			return logPCarbonylO
		}
		if a.Hydrogens > 0 {
			return logPHydroxylO
		}
		return logPEtherO
	case "S":
		return logPSulfur
	case "P":
		return logPPhosphorus
	case "F":
		return logPFluorine
	case "Cl":
		return logPChlorine
	case "Br":
		return logPBromine
	case "I":
		return logPIodine
	default:
		return 0
	}
}

func hydrogenLogP(a molecule.Atom) float64 {
	if a.Hydrogens == 0 {
		return 0
	}
	h := float64(a.Hydrogens)
	switch a.Symbol {
	case "N", "P":
		return h * logPHydrogenOnN
	case "O", "S":
		return h * logPHydrogenOnO
	default:
		return h * logPHydrogenOnC
	}
}

// ─────────────────────────────────────────────────────────────
// Bonding context helpers
// ─────────────────────────────────────────────────────────────

func hasHeteroatomNeighbor(m *molecule.Molecule, i int) bool {
	for _, v := range m.Neighbors(i) {
		if m.Atoms[v].IsHeteroatom() {
			return true
		}
	}
	return false
}

func hasDoubleBond(m *molecule.Molecule, i int) bool {
	for _, bi := range m.IncidentBonds(i) {
		if m.Bonds[bi].Order == molecule.BondDouble {
			return true
		}
	}
	return false
}

func hasDoubleBondedHeteroatom(m *molecule.Molecule, i int) bool {
	for _, bi := range m.IncidentBonds(i) {
		b := m.Bonds[bi]
		if b.Order == molecule.BondDouble && m.Atoms[b.Other(i)].IsHeteroatom() {
			return true
		}
	}
	return false
}

func adjacentToCarbonyl(m *molecule.Molecule, i int) bool {
	for _, bi := range m.IncidentBonds(i) {
		b := m.Bonds[bi]
		if b.Order != molecule.BondSingle {
			continue
		}
		v := b.Other(i)
		if m.Atoms[v].Symbol == "C" && !m.Atoms[v].Aromatic && hasDoubleBondedHeteroatom(m, v) {
			return true
		}
	}
	return false
}
