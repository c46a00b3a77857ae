package molecule

import (
	"sort"
	"strconv"
	"strings"
)

// CanonicalSMILES returns the canonical SMILES form of the molecule.  The
// string is computed during parsing, so equal graphs written in different
// atom orders produce equal output, and re-parsing the canonical form yields
// it back unchanged.
func (m *Molecule) CanonicalSMILES() string { return m.canonical }

// computeCanonical runs Morgan-style rank refinement and emits the graph by
// depth-first traversal in rank order.  Disconnected fragments are emitted
// separately and joined with '.' in sorted order.
func (m *Molecule) computeCanonical() string {
	if len(m.Atoms) == 0 {
		return ""
	}

	w := &canonWriter{
		m:        m,
		ranks:    m.canonicalRanks(),
		visited:  make([]bool, len(m.Atoms)),
		treeKids: make([][]int, len(m.Atoms)),
		closures: make(map[int][]closure),
	}

	var fragments []string
	for {
		root := w.nextRoot()
		if root < 0 {
			break
		}
		w.discover(root, -1)
		fragments = append(fragments, w.emit(root, -1))
	}
	sort.Strings(fragments)
	return strings.Join(fragments, ".")
}

// ─────────────────────────────────────────────────────────────
// Canonical ranks
// ─────────────────────────────────────────────────────────────

// canonicalRanks assigns each atom a rank by iterative neighborhood
// refinement over an invariant of heavy degree, element, charge, isotope,
// hydrogen count and aromaticity.  Atoms left tied are graph-symmetric for
// all practical inputs, so ties are harmless for string emission.
func (m *Molecule) canonicalRanks() []int {
	n := len(m.Atoms)
	keys := make([]string, n)
	for i, a := range m.Atoms {
		var sb strings.Builder
		sb.WriteString(strconv.Itoa(m.HeavyDegree(i)))
		sb.WriteByte('|')
		sb.WriteString(strconv.Itoa(a.Number))
		sb.WriteByte('|')
		sb.WriteString(strconv.Itoa(a.Charge))
		sb.WriteByte('|')
		sb.WriteString(strconv.Itoa(a.Isotope))
		sb.WriteByte('|')
		sb.WriteString(strconv.Itoa(a.Hydrogens))
		sb.WriteByte('|')
		if a.Aromatic {
			sb.WriteByte('a')
		}
		keys[i] = sb.String()
	}

	ranks := ranksFromKeys(keys)
	distinct := countDistinct(ranks)

	for iter := 0; iter < n; iter++ {
		for i := range keys {
			neighborRanks := make([]int, 0, 4)
			for _, v := range m.Neighbors(i) {
				neighborRanks = append(neighborRanks, ranks[v])
			}
			sort.Ints(neighborRanks)

			var sb strings.Builder
			sb.WriteString(strconv.Itoa(ranks[i]))
			for _, r := range neighborRanks {
				sb.WriteByte(',')
				sb.WriteString(strconv.Itoa(r))
			}
			keys[i] = sb.String()
		}
		ranks = ranksFromKeys(keys)
		next := countDistinct(ranks)
		if next == distinct {
			break
		}
		distinct = next
	}
	return ranks
}

func ranksFromKeys(keys []string) []int {
	sorted := make([]string, len(keys))
	copy(sorted, keys)
	sort.Strings(sorted)

	rankOf := make(map[string]int, len(keys))
	for _, k := range sorted {
		if _, ok := rankOf[k]; !ok {
			rankOf[k] = len(rankOf)
		}
	}

	ranks := make([]int, len(keys))
	for i, k := range keys {
		ranks[i] = rankOf[k]
	}
	return ranks
}

func countDistinct(ranks []int) int {
	seen := make(map[int]bool, len(ranks))
	for _, r := range ranks {
		seen[r] = true
	}
	return len(seen)
}

// ─────────────────────────────────────────────────────────────
// Emission
// ─────────────────────────────────────────────────────────────

type closure struct {
	digit int
	bond  int
}

type canonWriter struct {
	m        *Molecule
	ranks    []int
	visited  []bool
	treeKids [][]int
	closures map[int][]closure
	digit    int
}

// nextRoot picks the lowest-ranked unvisited atom as the next fragment root.
func (w *canonWriter) nextRoot() int {
	best := -1
	for i := range w.m.Atoms {
		if w.visited[i] {
			continue
		}
		if best < 0 || w.ranks[i] < w.ranks[best] {
			best = i
		}
	}
	return best
}

// discover walks the component depth-first in rank order, recording tree
// edges and assigning ring-closure digits to back edges.  Emission repeats
// the same traversal, so digits appear at both endpoints in the right order.
func (w *canonWriter) discover(u, parentBond int) {
	w.visited[u] = true
	for _, bi := range w.orderedBonds(u) {
		if bi == parentBond {
			continue
		}
		v := w.m.Bonds[bi].Other(u)
		if !w.visited[v] {
			w.treeKids[u] = append(w.treeKids[u], bi)
			w.discover(v, bi)
			continue
		}
		if w.closureAssigned(bi) {
			continue
		}
		w.digit++
		w.closures[u] = append(w.closures[u], closure{digit: w.digit, bond: bi})
		w.closures[v] = append(w.closures[v], closure{digit: w.digit, bond: bi})
	}
}

func (w *canonWriter) closureAssigned(bi int) bool {
	b := w.m.Bonds[bi]
	for _, c := range w.closures[b.From] {
		if c.bond == bi {
			return true
		}
	}
	return false
}

// orderedBonds returns the incident bonds of u sorted by the rank, then
// index, of the opposite atom.
func (w *canonWriter) orderedBonds(u int) []int {
	bonds := w.m.IncidentBonds(u)
	sort.Slice(bonds, func(a, b int) bool {
		va := w.m.Bonds[bonds[a]].Other(u)
		vb := w.m.Bonds[bonds[b]].Other(u)
		if w.ranks[va] != w.ranks[vb] {
			return w.ranks[va] < w.ranks[vb]
		}
		return va < vb
	})
	return bonds
}

func (w *canonWriter) emit(u, parentBond int) string {
	var sb strings.Builder
	sb.WriteString(w.atomToken(u))

	for _, c := range w.closures[u] {
		sb.WriteString(w.bondSymbol(c.bond))
		if c.digit > 9 {
			sb.WriteByte('%')
		}
		sb.WriteString(strconv.Itoa(c.digit))
	}

	kids := w.treeKids[u]
	for i, bi := range kids {
		v := w.m.Bonds[bi].Other(u)
		sub := w.bondSymbol(bi) + w.emit(v, bi)
		if i < len(kids)-1 {
			sb.WriteByte('(')
			sb.WriteString(sub)
			sb.WriteByte(')')
		} else {
			sb.WriteString(sub)
		}
	}
	return sb.String()
}

// bondSymbol writes the explicit bond token.  Single bonds between two
// aromatic atoms, as at a biphenyl junction, must be written '-' or they
// would re-parse as aromatic.
func (w *canonWriter) bondSymbol(bi int) string {
	b := w.m.Bonds[bi]
	switch b.Order {
	case BondDouble:
		return "="
	case BondTriple:
		return "#"
	case BondSingle:
		if w.m.Atoms[b.From].Aromatic && w.m.Atoms[b.To].Aromatic {
			return "-"
		}
		return ""
	default:
		return ""
	}
}

// atomToken emits the bare organic-subset symbol when re-parsing it would
// reproduce the atom exactly, and the full bracket form otherwise.
func (w *canonWriter) atomToken(i int) string {
	a := w.m.Atoms[i]
	elem, _ := ElementBySymbol(a.Symbol)

	bare := elem.Organic && a.Charge == 0 && a.Isotope == 0 &&
		a.Hydrogens == w.impliedHydrogens(i)
	if bare {
		if a.Aromatic {
			return strings.ToLower(a.Symbol)
		}
		return a.Symbol
	}

	var sb strings.Builder
	sb.WriteByte('[')
	if a.Isotope != 0 {
		sb.WriteString(strconv.Itoa(a.Isotope))
	}
	if a.Aromatic {
		sb.WriteString(strings.ToLower(a.Symbol))
	} else {
		sb.WriteString(a.Symbol)
	}
	switch {
	case a.Hydrogens == 1:
		sb.WriteByte('H')
	case a.Hydrogens > 1:
		sb.WriteByte('H')
		sb.WriteString(strconv.Itoa(a.Hydrogens))
	}
	switch {
	case a.Charge == 1:
		sb.WriteByte('+')
	case a.Charge == -1:
		sb.WriteByte('-')
	case a.Charge > 1:
		sb.WriteByte('+')
		sb.WriteString(strconv.Itoa(a.Charge))
	case a.Charge < -1:
		sb.WriteByte('-')
		sb.WriteString(strconv.Itoa(-a.Charge))
	}
	sb.WriteByte(']')
	return sb.String()
}

// impliedHydrogens computes the hydrogen count a bare symbol would receive
// on re-parse, mirroring assignHydrogens for a neutral organic-subset atom.
func (w *canonWriter) impliedHydrogens(i int) int {
	m := w.m
	a := m.Atoms[i]

	aromaticUnits, orderSum := 0, 0
	for _, bi := range m.adjacency[i] {
		if m.Bonds[bi].Order == BondAromatic {
			aromaticUnits++
		} else {
			orderSum += int(m.Bonds[bi].Order)
		}
	}

	allowed := allowedValences(a.Symbol, 0)
	if len(allowed) == 0 {
		return 0
	}

	if a.Aromatic {
		h := allowed[0] - aromaticUnits - orderSum - m.piIncrementWith(i, 0)
		if h < 0 {
			return 0
		}
		return h
	}
	for _, v := range allowed {
		if orderSum <= v {
			return v - orderSum
		}
	}
	return 0
}
