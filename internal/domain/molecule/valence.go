package molecule

import (
	"fmt"

	apperrors "github.com/moleculab/chemalyzer/pkg/errors"
)

// validateAromaticity rejects graphs whose aromatic flags cannot describe a
// real aromatic system: lowercase atoms outside any all-aromatic ring, and
// aromatic bonds touching non-aromatic atoms.
func (m *Molecule) validateAromaticity() error {
	inAromaticRing := make([]bool, len(m.Atoms))
	for _, ring := range m.Rings {
		all := true
		for _, ai := range ring {
			if !m.Atoms[ai].Aromatic {
				all = false
				break
			}
		}
		if all {
			for _, ai := range ring {
				inAromaticRing[ai] = true
			}
		}
	}

	for i, a := range m.Atoms {
		if a.Aromatic && !inAromaticRing[i] {
			return apperrors.Valence(fmt.Sprintf(
				"aromatic atom %s (index %d) is not part of an aromatic ring", a.Symbol, i))
		}
	}
	for _, b := range m.Bonds {
		if b.Order == BondAromatic && (!m.Atoms[b.From].Aromatic || !m.Atoms[b.To].Aromatic) {
			return apperrors.Valence(fmt.Sprintf(
				"aromatic bond between non-aromatic atoms %d and %d", b.From, b.To))
		}
	}
	return nil
}

// assignHydrogens completes implicit hydrogen counts for organic-subset atoms
// and validates every atom against its element's valence model.  Bracket
// atoms keep their written hydrogen count and are checked as-is.
func (m *Molecule) assignHydrogens() error {
	for i := range m.Atoms {
		a := &m.Atoms[i]

		aromaticUnits, orderSum := 0, 0
		for _, bi := range m.adjacency[i] {
			if m.Bonds[bi].Order == BondAromatic {
				aromaticUnits++
			} else {
				orderSum += int(m.Bonds[bi].Order)
			}
		}

		if a.Aromatic {
			// Aromatic bonds count one unit each plus one pi increment for
			// atoms that contribute a double bond to the ring, following the
			// Daylight valence convention.
			total := aromaticUnits + orderSum + m.piIncrement(i)
			if a.hFixed {
				if max := maxAllowedValence(a.Symbol, a.Charge); max >= 0 && total+a.Hydrogens > max {
					return valenceExceeded(a, total+a.Hydrogens, max)
				}
				continue
			}
			allowed := allowedValences(a.Symbol, a.Charge)
			if len(allowed) == 0 {
				continue
			}
			h := allowed[0] - total
			if h < 0 {
				if max := allowed[len(allowed)-1]; total > max {
					return valenceExceeded(a, total, max)
				}
				h = 0
			}
			a.Hydrogens = h
			continue
		}

		if a.hFixed {
			total := orderSum + a.Hydrogens
			if max := maxAllowedValence(a.Symbol, a.Charge); max >= 0 && total > max {
				return valenceExceeded(a, total, max)
			}
			continue
		}

		allowed := allowedValences(a.Symbol, a.Charge)
		if len(allowed) == 0 {
			continue
		}
		assigned := false
		for _, v := range allowed {
			if orderSum <= v {
				a.Hydrogens = v - orderSum
				assigned = true
				break
			}
		}
		if !assigned {
			return valenceExceeded(a, orderSum, allowed[len(allowed)-1])
		}
	}
	return nil
}

// piIncrement returns 1 when an aromatic atom supplies a ring double bond in
// every Kekulé structure: aromatic carbon and boron, positively charged
// heteroatoms, and bare pyridine-type nitrogen.
func (m *Molecule) piIncrement(i int) int {
	return m.piIncrementWith(i, m.Atoms[i].Hydrogens)
}

// piIncrementWith evaluates the increment for a hypothetical hydrogen count,
// which canonical output needs to decide between bare and bracket form.
func (m *Molecule) piIncrementWith(i, hydrogens int) int {
	a := m.Atoms[i]
	switch a.Symbol {
	case "C", "B":
		if a.Charge < 0 {
			return 0
		}
		return 1
	case "N", "P":
		switch {
		case a.Charge > 0:
			return 1
		case a.Charge < 0:
			return 0
		case hydrogens == 0 && m.Degree(i) == 2:
			return 1
		default:
			return 0
		}
	case "O", "S", "Se":
		if a.Charge > 0 {
			return 1
		}
		return 0
	default:
		return 0
	}
}

func valenceExceeded(a *Atom, total, max int) error {
	return apperrors.Valence(fmt.Sprintf(
		"explicit valence %d on atom %s (index %d) exceeds maximum %d", total, a.Symbol, a.Index, max))
}
