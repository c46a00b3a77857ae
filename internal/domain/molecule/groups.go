package molecule

// functional group detection
//
// Each named pattern is a predicate over the molecular graph.  Detection
// reports each group at most once, in table order, so downstream consumers
// see a stable, duplicate-free list.

type groupPattern struct {
	name  string
	match func(*Molecule) bool
}

var functionalGroupTable = []groupPattern{
	{"hydroxyl", hasHydroxyl},
	{"carboxyl", hasCarboxyl},
	{"carbonyl", hasCarbonyl},
	{"amine", hasAmine},
	{"amide", hasAmide},
	{"ester", hasEster},
	{"ether", hasEther},
	{"phenyl", hasAromaticRing},
	{"methyl", hasMethyl},
	{"nitro", hasNitro},
	{"sulfonate", hasSulfonyl},
	{"phosphate", hasPhosphoryl},
}

// DetectFunctionalGroups returns the names of all functional groups present
// in the molecule, in fixed table order.
func DetectFunctionalGroups(m *Molecule) []string {
	var out []string
	for _, g := range functionalGroupTable {
		if g.match(m) {
			out = append(out, g.name)
		}
	}
	return out
}

// ─────────────────────────────────────────────────────────────
// Pattern predicates
// ─────────────────────────────────────────────────────────────

// isCarbonylCarbon reports whether atom i is a carbon with a double-bonded
// oxygen neighbor.
func (m *Molecule) isCarbonylCarbon(i int) bool {
	if m.Atoms[i].Symbol != "C" || m.Atoms[i].Aromatic {
		return false
	}
	for _, bi := range m.adjacency[i] {
		b := m.Bonds[bi]
		if b.Order == BondDouble && m.Atoms[b.Other(i)].Symbol == "O" {
			return true
		}
	}
	return false
}

func hasHydroxyl(m *Molecule) bool {
	for i, a := range m.Atoms {
		if a.Symbol == "O" && !a.Aromatic && a.Hydrogens >= 1 && m.Degree(i) >= 1 {
			return true
		}
	}
	return false
}

func hasCarboxyl(m *Molecule) bool {
	for i, a := range m.Atoms {
		if a.Symbol != "C" || a.Aromatic {
			continue
		}
		double, terminal := false, false
		for _, bi := range m.adjacency[i] {
			b := m.Bonds[bi]
			o := b.Other(i)
			if m.Atoms[o].Symbol != "O" {
				continue
			}
			switch {
			case b.Order == BondDouble:
				double = true
			case b.Order == BondSingle && m.Degree(o) == 1:
				terminal = true
			}
		}
		if double && terminal {
			return true
		}
	}
	return false
}

func hasCarbonyl(m *Molecule) bool {
	for i := range m.Atoms {
		if m.isCarbonylCarbon(i) {
			return true
		}
	}
	return false
}

// hasAmine matches nitrogen with only single bonds that is neither aromatic,
// part of an amide, nor part of a nitro group.
func hasAmine(m *Molecule) bool {
	for i, a := range m.Atoms {
		if a.Symbol != "N" || a.Aromatic {
			continue
		}
		plain := true
		for _, bi := range m.adjacency[i] {
			b := m.Bonds[bi]
			if b.Order != BondSingle {
				plain = false
				break
			}
			if m.isCarbonylCarbon(b.Other(i)) {
				plain = false
				break
			}
		}
		if plain {
			return true
		}
	}
	return false
}

func hasAmide(m *Molecule) bool {
	for i, a := range m.Atoms {
		if a.Symbol != "N" {
			continue
		}
		for _, bi := range m.adjacency[i] {
			b := m.Bonds[bi]
			if b.Order == BondSingle && m.isCarbonylCarbon(b.Other(i)) {
				return true
			}
		}
	}
	return false
}

func hasEster(m *Molecule) bool {
	for i, a := range m.Atoms {
		if a.Symbol != "C" || a.Aromatic || !m.isCarbonylCarbon(i) {
			continue
		}
		for _, bi := range m.adjacency[i] {
			b := m.Bonds[bi]
			o := b.Other(i)
			if b.Order == BondSingle && m.Atoms[o].Symbol == "O" && m.Degree(o) == 2 {
				return true
			}
		}
	}
	return false
}

// hasEther matches a non-aromatic oxygen bridging two heavy atoms with no
// carbonyl on either side, so ester and carboxyl oxygens do not double-count.
func hasEther(m *Molecule) bool {
	for i, a := range m.Atoms {
		if a.Symbol != "O" || a.Aromatic || a.Hydrogens != 0 || m.Degree(i) != 2 {
			continue
		}
		clean := true
		for _, v := range m.Neighbors(i) {
			if !m.Atoms[v].IsHeavy() || m.isCarbonylCarbon(v) {
				clean = false
				break
			}
		}
		if clean {
			return true
		}
	}
	return false
}

func hasAromaticRing(m *Molecule) bool {
	return m.AromaticRingCount() > 0
}

func hasMethyl(m *Molecule) bool {
	for i, a := range m.Atoms {
		if a.Symbol == "C" && !a.Aromatic && a.Hydrogens == 3 && m.Degree(i) == 1 {
			return true
		}
	}
	return false
}

// hasNitro matches nitrogen carrying two terminal oxygens, covering both the
// charge-separated and the pentavalent written forms.
func hasNitro(m *Molecule) bool {
	for i, a := range m.Atoms {
		if a.Symbol != "N" {
			continue
		}
		terminalO := 0
		for _, v := range m.Neighbors(i) {
			if m.Atoms[v].Symbol == "O" && m.Degree(v) == 1 {
				terminalO++
			}
		}
		if terminalO >= 2 {
			return true
		}
	}
	return false
}

func hasSulfonyl(m *Molecule) bool {
	for i, a := range m.Atoms {
		if a.Symbol != "S" {
			continue
		}
		doubles := 0
		for _, bi := range m.adjacency[i] {
			b := m.Bonds[bi]
			if b.Order == BondDouble && m.Atoms[b.Other(i)].Symbol == "O" {
				doubles++
			}
		}
		if doubles >= 2 {
			return true
		}
	}
	return false
}

func hasPhosphoryl(m *Molecule) bool {
	for i, a := range m.Atoms {
		if a.Symbol != "P" {
			continue
		}
		for _, bi := range m.adjacency[i] {
			b := m.Bonds[bi]
			if b.Order == BondDouble && m.Atoms[b.Other(i)].Symbol == "O" {
				return true
			}
		}
	}
	return false
}

// IsAmideBond reports whether the bond between atoms i and j is the C-N
// single bond of an amide.
func (m *Molecule) IsAmideBond(i, j int) bool {
	b, ok := m.BondBetween(i, j)
	if !ok || b.Order != BondSingle {
		return false
	}
	if m.Atoms[i].Symbol == "N" && m.isCarbonylCarbon(j) {
		return true
	}
	if m.Atoms[j].Symbol == "N" && m.isCarbonylCarbon(i) {
		return true
	}
	return false
}

// HasNitroGroup reports whether the molecule carries a nitro substituent
// in either written form, N(=O)=O or [N+](=O)[O-].
func HasNitroGroup(m *Molecule) bool {
	return hasNitro(m)
}

// HasUnsubstitutedAromaticAmine reports an NH2 attached directly to an
// aromatic ring atom, the aniline motif used by the metabolism heuristics.
func HasUnsubstitutedAromaticAmine(m *Molecule) bool {
	for i, a := range m.Atoms {
		if a.Symbol != "N" || a.Aromatic || a.Hydrogens < 2 {
			continue
		}
		for _, v := range m.Neighbors(i) {
			if m.Atoms[v].Aromatic {
				return true
			}
		}
	}
	return false
}
