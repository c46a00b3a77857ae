package conformer

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/moleculab/chemalyzer/internal/domain/molecule"
)

// molBlock serializes the structure and its coordinates as a V2000
// connection table: title, program, and comment lines, a counts line,
// fixed-field atom and bond blocks, charge property lines, and the
// "M  END" terminator.  Atom and bond indices are 1-based per the
// format.
func molBlock(title string, s *structure, pos []r3.Vec) string {
	var b strings.Builder
	b.WriteString(title)
	b.WriteByte('\n')
	b.WriteString("  Chemalyzer          3D\n")
	b.WriteByte('\n')

	fmt.Fprintf(&b, "%3d%3d  0  0  0  0  0  0  0  0999 V2000\n", len(s.sites), len(s.links))
	for i, st := range s.sites {
		p := pos[i]
		fmt.Fprintf(&b, "%10.4f%10.4f%10.4f %-3s 0  0  0  0  0  0  0  0  0  0  0  0\n",
			p.X, p.Y, p.Z, st.symbol)
	}
	for _, l := range s.links {
		fmt.Fprintf(&b, "%3d%3d%3d  0\n", l.a+1, l.b+1, molBondCode(l.order))
	}
	writeCharges(&b, s)
	b.WriteString("M  END\n")
	return b.String()
}

// molBondCode maps bond orders to V2000 codes; aromatic bonds use the
// dedicated code 4 rather than an arbitrary Kekulé assignment.
func molBondCode(o molecule.BondOrder) int {
	switch o {
	case molecule.BondDouble:
		return 2
	case molecule.BondTriple:
		return 3
	case molecule.BondAromatic:
		return 4
	default:
		return 1
	}
}

// writeCharges emits M  CHG property lines for charged atoms, at most
// eight entries per line per the format.
func writeCharges(b *strings.Builder, s *structure) {
	var charged []int
	for i, st := range s.sites {
		if st.charge != 0 {
			charged = append(charged, i)
		}
	}
	for len(charged) > 0 {
		n := len(charged)
		if n > 8 {
			n = 8
		}
		fmt.Fprintf(b, "M  CHG%3d", n)
		for _, i := range charged[:n] {
			fmt.Fprintf(b, "%4d%4d", i+1, s.sites[i].charge)
		}
		b.WriteByte('\n')
		charged = charged[n:]
	}
}
