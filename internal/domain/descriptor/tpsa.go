package descriptor

import "github.com/moleculab/chemalyzer/internal/domain/molecule"

// topological polar surface area
//
// Fragment contributions for nitrogen and oxygen environments after Ertl,
// Rohde and Selzer (J. Med. Chem. 43 (2000) 3714).  Sulfur and phosphorus
// are not counted, matching the original publication's fragment set.
// Contributions are in Å².

// PolarSurfaceArea returns the topological polar surface area of the graph.
func PolarSurfaceArea(m *molecule.Molecule) float64 {
	total := 0.0
	for i := range m.Atoms {
		total += polarContribution(m, i)
	}
	return total
}

func polarContribution(m *molecule.Molecule, i int) float64 {
	a := m.Atoms[i]
	switch a.Symbol {
	case "N":
		return nitrogenContribution(m, i)
	case "O":
		return oxygenContribution(m, i)
	default:
		return 0
	}
}

func nitrogenContribution(m *molecule.Molecule, i int) float64 {
	a := m.Atoms[i]
	_, doubles, triples := bondProfile(m, i)

	if a.Aromatic {
		switch {
		case a.Hydrogens > 0:
			return 15.79
		case m.Degree(i) == 3:
			return 4.93
		default:
			return 12.89
		}
	}

	if a.Charge > 0 {
		switch a.Hydrogens {
		case 0:
			return 0.00
		case 1:
			return 4.44
		case 2:
			return 16.61
		default:
			return 27.64
		}
	}

	switch {
	case triples > 0:
		return 23.79
	case doubles > 0:
		return 12.36
	}
	switch a.Hydrogens {
	case 0:
		return 3.24
	case 1:
		return 12.03
	default:
		return 26.02
	}
}

func oxygenContribution(m *molecule.Molecule, i int) float64 {
	a := m.Atoms[i]
	_, doubles, _ := bondProfile(m, i)

	switch {
	case a.Aromatic:
		return 13.14
	case a.Charge < 0:
		return 23.06
	case doubles > 0:
		return 17.07
	case a.Hydrogens > 0:
		return 20.23
	default:
		return 9.23
	}
}

// bondProfile counts single, double and triple bonds at atom i.  Aromatic
// bonds are not counted in any bucket; aromatic atoms are classified by flag
// and degree instead.
func bondProfile(m *molecule.Molecule, i int) (singles, doubles, triples int) {
	for _, bi := range m.IncidentBonds(i) {
		switch m.Bonds[bi].Order {
		case molecule.BondSingle:
			singles++
		case molecule.BondDouble:
			doubles++
		case molecule.BondTriple:
			triples++
		}
	}
	return singles, doubles, triples
}
