package molecule

// Element carries the per-element constants used by parsing, descriptor
// calculation, and 3D embedding.  Radii are in ångströms, masses in g/mol
// (standard atomic weights, CIAAW 2021 abridged values).
type Element struct {
	Symbol      string
	Number      int
	Mass        float64
	Covalent    float64
	VanDerWaals float64

	// Organic marks membership in the SMILES organic subset, writable
	// outside brackets with implicit hydrogen completion.
	Organic bool

	// Aromatic marks elements that may carry the lowercase aromatic flag.
	Aromatic bool
}

// elementTable indexes every element the engine understands by symbol.
var elementTable = map[string]Element{
	"H":  {Symbol: "H", Number: 1, Mass: 1.008, Covalent: 0.31, VanDerWaals: 1.20},
	"Li": {Symbol: "Li", Number: 3, Mass: 6.94, Covalent: 1.28, VanDerWaals: 1.82},
	"B":  {Symbol: "B", Number: 5, Mass: 10.811, Covalent: 0.84, VanDerWaals: 1.92, Organic: true, Aromatic: true},
	"C":  {Symbol: "C", Number: 6, Mass: 12.011, Covalent: 0.76, VanDerWaals: 1.70, Organic: true, Aromatic: true},
	"N":  {Symbol: "N", Number: 7, Mass: 14.007, Covalent: 0.71, VanDerWaals: 1.55, Organic: true, Aromatic: true},
	"O":  {Symbol: "O", Number: 8, Mass: 15.999, Covalent: 0.66, VanDerWaals: 1.52, Organic: true, Aromatic: true},
	"F":  {Symbol: "F", Number: 9, Mass: 18.998, Covalent: 0.57, VanDerWaals: 1.47, Organic: true},
	"Na": {Symbol: "Na", Number: 11, Mass: 22.990, Covalent: 1.66, VanDerWaals: 2.27},
	"Mg": {Symbol: "Mg", Number: 12, Mass: 24.305, Covalent: 1.41, VanDerWaals: 1.73},
	"Al": {Symbol: "Al", Number: 13, Mass: 26.982, Covalent: 1.21, VanDerWaals: 1.84},
	"Si": {Symbol: "Si", Number: 14, Mass: 28.085, Covalent: 1.11, VanDerWaals: 2.10},
	"P":  {Symbol: "P", Number: 15, Mass: 30.974, Covalent: 1.07, VanDerWaals: 1.80, Organic: true, Aromatic: true},
	"S":  {Symbol: "S", Number: 16, Mass: 32.06, Covalent: 1.05, VanDerWaals: 1.80, Organic: true, Aromatic: true},
	"Cl": {Symbol: "Cl", Number: 17, Mass: 35.45, Covalent: 1.02, VanDerWaals: 1.75, Organic: true},
	"K":  {Symbol: "K", Number: 19, Mass: 39.098, Covalent: 2.03, VanDerWaals: 2.75},
	"Ca": {Symbol: "Ca", Number: 20, Mass: 40.078, Covalent: 1.76, VanDerWaals: 2.31},
	"Fe": {Symbol: "Fe", Number: 26, Mass: 55.845, Covalent: 1.32, VanDerWaals: 2.04},
	"Zn": {Symbol: "Zn", Number: 30, Mass: 65.38, Covalent: 1.22, VanDerWaals: 2.01},
	"As": {Symbol: "As", Number: 33, Mass: 74.922, Covalent: 1.19, VanDerWaals: 1.85, Aromatic: true},
	"Se": {Symbol: "Se", Number: 34, Mass: 78.971, Covalent: 1.20, VanDerWaals: 1.90, Aromatic: true},
	"Br": {Symbol: "Br", Number: 35, Mass: 79.904, Covalent: 1.20, VanDerWaals: 1.85, Organic: true},
	"I":  {Symbol: "I", Number: 53, Mass: 126.904, Covalent: 1.39, VanDerWaals: 1.98, Organic: true},
}

// ElementBySymbol returns the element record for a symbol, with ok=false for
// symbols the engine does not understand.
func ElementBySymbol(symbol string) (Element, bool) {
	e, ok := elementTable[symbol]
	return e, ok
}

// allowedValences returns the set of acceptable bond-order sums for a neutral
// or charged atom of the given element, lowest first.  A nil return means the
// element has no enforced valence model (bare metal ions and exotic species
// pass through unchecked).
func allowedValences(symbol string, charge int) []int {
	switch symbol {
	case "H":
		return []int{1}
	case "B":
		if charge < 0 {
			return []int{4}
		}
		return []int{3}
	case "C":
		if charge != 0 {
			return []int{3}
		}
		return []int{4}
	case "N":
		switch {
		case charge > 0:
			return []int{4}
		case charge < 0:
			return []int{2}
		default:
			// Neutral pentavalent nitrogen is tolerated so that nitro
			// groups written N(=O)=O parse as well as the
			// charge-separated [N+](=O)[O-] form.
			return []int{3, 5}
		}
	case "O":
		switch {
		case charge > 0:
			return []int{3}
		case charge < 0:
			return []int{1}
		default:
			return []int{2}
		}
	case "P":
		if charge > 0 {
			return []int{4}
		}
		return []int{3, 5}
	case "S":
		switch {
		case charge > 0:
			return []int{3, 5}
		case charge < 0:
			return []int{1}
		default:
			return []int{2, 4, 6}
		}
	case "F", "Cl", "Br", "I":
		if charge < 0 {
			return []int{0}
		}
		return []int{1}
	default:
		return nil
	}
}

// maxAllowedValence returns the largest acceptable bond-order sum for the
// element/charge pair, or -1 when unconstrained.
func maxAllowedValence(symbol string, charge int) int {
	vs := allowedValences(symbol, charge)
	if len(vs) == 0 {
		return -1
	}
	return vs[len(vs)-1]
}
