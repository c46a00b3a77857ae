package molecule

import (
	"sort"
	"strconv"
	"strings"
)

// Formula returns the molecular formula in Hill order: carbon first, then
// hydrogen, then the remaining elements alphabetically.  Carbon-free
// formulas are fully alphabetical.  A non-zero net charge is appended in
// ion notation.
func (m *Molecule) Formula() string {
	counts := make(map[string]int)
	charge := 0
	for _, a := range m.Atoms {
		counts[a.Symbol]++
		if a.Hydrogens > 0 {
			counts["H"] += a.Hydrogens
		}
		charge += a.Charge
	}

	symbols := make([]string, 0, len(counts))
	for sym := range counts {
		symbols = append(symbols, sym)
	}
	sort.Strings(symbols)

	var sb strings.Builder
	write := func(sym string) {
		n, ok := counts[sym]
		if !ok {
			return
		}
		sb.WriteString(sym)
		if n > 1 {
			sb.WriteString(strconv.Itoa(n))
		}
		delete(counts, sym)
	}

	if counts["C"] > 0 {
		write("C")
		write("H")
	}
	for _, sym := range symbols {
		write(sym)
	}

	switch {
	case charge == 1:
		sb.WriteByte('+')
	case charge == -1:
		sb.WriteByte('-')
	case charge > 1:
		sb.WriteByte('+')
		sb.WriteString(strconv.Itoa(charge))
	case charge < -1:
		sb.WriteByte('-')
		sb.WriteString(strconv.Itoa(-charge))
	}
	return sb.String()
}

// MolecularWeight returns the average molecular weight in g/mol, summing
// standard atomic weights over all atoms and their implicit hydrogens.
func (m *Molecule) MolecularWeight() float64 {
	hydrogen := elementTable["H"]
	total := 0.0
	for _, a := range m.Atoms {
		if e, ok := ElementBySymbol(a.Symbol); ok {
			total += e.Mass
		}
		total += float64(a.Hydrogens) * hydrogen.Mass
	}
	return total
}
