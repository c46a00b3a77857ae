package molecule

import (
	"sort"
	"strconv"
	"strings"
)

// finalize derives everything beyond raw connectivity: incidence lists, ring
// perception, aromatic promotion of alternating Kekulé rings, hydrogen
// completion and valence validation.  Parsing calls it exactly once; the
// graph is immutable afterwards.
func (m *Molecule) finalize() error {
	m.finalizeAdjacency()
	m.perceiveRings()
	m.demoteNonRingAromaticBonds()
	m.aromatize()
	if err := m.validateAromaticity(); err != nil {
		return err
	}
	if err := m.assignHydrogens(); err != nil {
		return err
	}
	m.canonical = m.computeCanonical()
	return nil
}

// ─────────────────────────────────────────────────────────────
// Ring perception
// ─────────────────────────────────────────────────────────────

// perceiveRings finds, for every bond that lies on a cycle, the smallest ring
// through that bond, and stores the deduplicated set in Rings.  It also marks
// ring membership on atoms and bonds and fixes the independent cycle count
// (bonds - atoms + components).
func (m *Molecule) perceiveRings() {
	seen := make(map[string]bool)
	for bi := range m.Bonds {
		ring := m.smallestRingThrough(bi)
		if ring == nil {
			continue
		}
		m.Bonds[bi].InRing = true
		key := ringKey(ring)
		if seen[key] {
			continue
		}
		seen[key] = true
		m.Rings = append(m.Rings, ring)
	}

	for _, ring := range m.Rings {
		for _, ai := range ring {
			m.Atoms[ai].InRing = true
		}
	}

	m.ringCount = len(m.Bonds) - len(m.Atoms) + m.componentCount()
	if m.ringCount < 0 {
		m.ringCount = 0
	}
}

// smallestRingThrough returns the shortest cycle containing bond bi as an
// ordered atom sequence, or nil when the bond is a bridge.
func (m *Molecule) smallestRingThrough(bi int) []int {
	b := m.Bonds[bi]
	parent := make([]int, len(m.Atoms))
	for i := range parent {
		parent[i] = -1
	}
	parent[b.From] = b.From

	queue := []int{b.From}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, nbi := range m.adjacency[cur] {
			if nbi == bi {
				continue
			}
			next := m.Bonds[nbi].Other(cur)
			if parent[next] >= 0 {
				continue
			}
			parent[next] = cur
			if next == b.To {
				var path []int
				for at := b.To; at != b.From; at = parent[at] {
					path = append(path, at)
				}
				path = append(path, b.From)
				return path
			}
			queue = append(queue, next)
		}
	}
	return nil
}

func (m *Molecule) componentCount() int {
	visited := make([]bool, len(m.Atoms))
	count := 0
	for start := range m.Atoms {
		if visited[start] {
			continue
		}
		count++
		queue := []int{start}
		visited[start] = true
		for len(queue) > 0 {
			cur := queue[0]
			queue = queue[1:]
			for _, bi := range m.adjacency[cur] {
				next := m.Bonds[bi].Other(cur)
				if !visited[next] {
					visited[next] = true
					queue = append(queue, next)
				}
			}
		}
	}
	return count
}

func ringKey(ring []int) string {
	sorted := make([]int, len(ring))
	copy(sorted, ring)
	sort.Ints(sorted)
	var sb strings.Builder
	for i, ai := range sorted {
		if i > 0 {
			sb.WriteByte('-')
		}
		sb.WriteString(strconv.Itoa(ai))
	}
	return sb.String()
}

// ─────────────────────────────────────────────────────────────
// Aromaticity
// ─────────────────────────────────────────────────────────────

// demoteNonRingAromaticBonds rewrites aromatic bonds outside rings as single
// bonds.  The implicit bond between two lowercase atoms of different rings,
// as in the biphenyl junction of c1ccccc1c1ccccc1, defaults to aromatic and
// must become the single bond it really is.
func (m *Molecule) demoteNonRingAromaticBonds() {
	for i := range m.Bonds {
		if m.Bonds[i].Order == BondAromatic && !m.Bonds[i].InRing {
			m.Bonds[i].Order = BondSingle
		}
	}
}

// aromatize promotes Kekulé rings that satisfy the Hückel electron count to
// aromatic form, repeating until no further ring qualifies so that fused
// systems written as alternating double bonds aromatize completely.
func (m *Molecule) aromatize() {
	for changed := true; changed; {
		changed = false
		for _, ring := range m.Rings {
			if m.ringAllAromaticBonds(ring) {
				continue
			}
			if m.ringQualifiesAromatic(ring) {
				m.setRingAromatic(ring)
				changed = true
			}
		}
	}
}

func (m *Molecule) ringAllAromaticBonds(ring []int) bool {
	for _, bi := range m.ringBondIndices(ring) {
		if m.Bonds[bi].Order != BondAromatic {
			return false
		}
	}
	return true
}

// ringQualifiesAromatic applies a per-atom pi electron count around the ring:
// one electron for an atom holding a ring double or already-aromatic bond,
// two for a lone-pair donor with no multiple bond, and failure for anything
// else.  The ring is aromatic when the total satisfies 4n+2 with n >= 1.
func (m *Molecule) ringQualifiesAromatic(ring []int) bool {
	ringBonds := make(map[int]bool)
	for _, bi := range m.ringBondIndices(ring) {
		ringBonds[bi] = true
	}

	pi := 0
	for _, ai := range ring {
		inDouble, inAromatic := 0, 0
		exoMultiple := false
		for _, bi := range m.adjacency[ai] {
			order := m.Bonds[bi].Order
			if order == BondTriple {
				return false
			}
			switch {
			case ringBonds[bi] && order == BondDouble:
				inDouble++
			case ringBonds[bi] && order == BondAromatic:
				inAromatic++
			case !ringBonds[bi] && order == BondDouble:
				exoMultiple = true
			}
		}

		switch {
		case inAromatic > 0:
			pi++
		case inDouble == 1:
			pi++
		case inDouble == 0 && !exoMultiple:
			if !m.lonePairDonor(ai) {
				return false
			}
			pi += 2
		default:
			return false
		}
	}
	return pi >= 6 && (pi-2)%4 == 0
}

// lonePairDonor reports whether the atom can contribute a lone pair to an
// aromatic system when it has no ring double bond: furan-type O, S and Se,
// pyrrole-type N and P, and carbanions.
func (m *Molecule) lonePairDonor(ai int) bool {
	a := m.Atoms[ai]
	switch a.Symbol {
	case "O", "S", "Se":
		return a.Charge <= 0
	case "N", "P":
		return a.Charge <= 0
	case "C", "B":
		return a.Charge < 0
	default:
		return false
	}
}

func (m *Molecule) setRingAromatic(ring []int) {
	for _, ai := range ring {
		m.Atoms[ai].Aromatic = true
	}
	for _, bi := range m.ringBondIndices(ring) {
		m.Bonds[bi].Order = BondAromatic
	}
}

// ringBondIndices returns the bond indices along the ring cycle, including
// the closing edge between the last and first atoms.
func (m *Molecule) ringBondIndices(ring []int) []int {
	out := make([]int, 0, len(ring))
	for i, ai := range ring {
		next := ring[(i+1)%len(ring)]
		for _, bi := range m.adjacency[ai] {
			if m.Bonds[bi].Other(ai) == next {
				out = append(out, bi)
				break
			}
		}
	}
	return out
}
