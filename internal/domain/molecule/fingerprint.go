package molecule

import (
	"fmt"
	"hash/fnv"
	"sort"
)

// ─────────────────────────────────────────────────────────────────────────────
// Fingerprint Structure
// ─────────────────────────────────────────────────────────────────────────────

// FingerprintBits is the fixed fingerprint width.  Both the environment
// and the path features hash into the same vector.
const FingerprintBits = 1024

const (
	// environmentRadius bounds the Morgan-style neighborhood growth.
	environmentRadius = 2

	// maxPathBonds bounds the linear path enumeration.
	maxPathBonds = 7
)

// Fingerprint is a structural bit vector.  Bit i lives in byte i/8 at
// position i%8.
type Fingerprint struct {
	Bits      []byte
	Length    int
	NumOnBits int
}

// Bit reports whether bit index is set.
func (fp *Fingerprint) Bit(index int) bool {
	if index < 0 || index >= fp.Length {
		return false
	}
	return fp.Bits[index/8]&(1<<uint(index%8)) != 0
}

func (fp *Fingerprint) setBit(index int) {
	byteIdx := index / 8
	mask := byte(1) << uint(index%8)
	if fp.Bits[byteIdx]&mask == 0 {
		fp.Bits[byteIdx] |= mask
		fp.NumOnBits++
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Computation
// ─────────────────────────────────────────────────────────────────────────────

// ComputeFingerprint derives the structural fingerprint of a molecule.
// Two feature families contribute bits: iterated atom environments
// (each atom's neighborhood hashed at radii 0 through 2) and linear
// atom-bond paths of up to seven bonds.  The result depends only on
// the graph, so equal canonical SMILES yield equal fingerprints.
func ComputeFingerprint(m *Molecule) *Fingerprint {
	fp := &Fingerprint{
		Bits:   make([]byte, FingerprintBits/8),
		Length: FingerprintBits,
	}
	hashEnvironments(m, fp)
	hashPaths(m, fp)
	return fp
}

// hashEnvironments folds each atom's widening neighborhood into the
// fingerprint, in the manner of circular fingerprints.  The invariant
// at radius zero covers element, aromaticity, charge, heavy degree and
// hydrogen count; each iteration absorbs the sorted neighbor
// invariants together with the connecting bond orders.
func hashEnvironments(m *Molecule, fp *Fingerprint) {
	inv := make([]uint64, len(m.Atoms))
	for i, a := range m.Atoms {
		inv[i] = hash64(fmt.Sprintf("%s|%t|%d|%d|%d",
			a.Symbol, a.Aromatic, a.Charge, m.HeavyDegree(i), a.Hydrogens))
		fp.setBit(int(inv[i] % FingerprintBits))
	}

	next := make([]uint64, len(inv))
	for r := 1; r <= environmentRadius; r++ {
		for i := range m.Atoms {
			parts := make([]string, 0, len(m.adjacency[i]))
			for _, bi := range m.adjacency[i] {
				b := m.Bonds[bi]
				parts = append(parts, fmt.Sprintf("%d*%d", int(b.Order), inv[b.Other(i)]))
			}
			sort.Strings(parts)
			seed := fmt.Sprintf("%d", inv[i])
			for _, p := range parts {
				seed += "," + p
			}
			next[i] = hash64(seed)
			fp.setBit(int(next[i] % FingerprintBits))
		}
		inv, next = next, inv
	}
}

// hashPaths enumerates simple linear paths through the graph and sets
// one bit per distinct path.  Each path is read in both directions and
// the lexicographically smaller rendering is hashed, so a path and its
// reverse land on the same bit.
func hashPaths(m *Molecule, fp *Fingerprint) {
	visited := make([]bool, len(m.Atoms))
	for start := range m.Atoms {
		walkPaths(m, start, visited, atomToken(m.Atoms[start]), "", 0, fp)
	}
}

func walkPaths(m *Molecule, at int, visited []bool, forward, reverse string, depth int, fp *Fingerprint) {
	if depth > 0 {
		h := forward
		if reverse < forward {
			h = reverse
		}
		fp.setBit(int(hash64(h) % FingerprintBits))
	}
	if depth == maxPathBonds {
		return
	}
	visited[at] = true
	for _, bi := range m.adjacency[at] {
		b := m.Bonds[bi]
		n := b.Other(at)
		if visited[n] {
			continue
		}
		bc := pathBondToken(b)
		tok := atomToken(m.Atoms[n])
		walkPaths(m, n, visited, forward+bc+tok, tok+bc+reverse, depth+1, fp)
	}
	visited[at] = false
}

func atomToken(a Atom) string {
	if a.Aromatic {
		return "a" + a.Symbol
	}
	return a.Symbol
}

func pathBondToken(b Bond) string {
	switch b.Order {
	case BondAromatic:
		return ":"
	case BondDouble:
		return "="
	case BondTriple:
		return "#"
	default:
		return "-"
	}
}

func hash64(s string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return h.Sum64()
}
