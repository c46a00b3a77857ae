package molecule

import (
	"fmt"
	"strings"
	"unicode"

	apperrors "github.com/moleculab/chemalyzer/pkg/errors"
)

// ParseSMILES parses a SMILES string into a validated molecular graph.
//
// The parser covers the organic subset (B, C, N, O, P, S, F, Cl, Br, I and
// their aromatic lowercase forms), bracket atoms with isotope, charge and
// explicit hydrogen counts, branches, ring closures including the %nn form,
// and dot-separated fragments.  Stereo markers (@, @@, /, \) are accepted
// and ignored.
//
// Structural failures return an error with code CHEM_001; graphs that parse
// but violate the valence model return CHEM_002.
func ParseSMILES(smiles string) (*Molecule, error) {
	trimmed := strings.TrimSpace(smiles)
	if trimmed == "" {
		return nil, apperrors.SMILESSyntax("empty SMILES string")
	}

	p := &smilesParser{
		input: trimmed,
		runes: []rune(trimmed),
		mol:   &Molecule{SMILES: trimmed},
		prev:  -1,
		open:  make(map[int]ringOpening),
	}
	if err := p.run(); err != nil {
		return nil, err
	}
	if err := p.mol.finalize(); err != nil {
		return nil, err
	}
	return p.mol, nil
}

// ─────────────────────────────────────────────────────────────
// Parser state
// ─────────────────────────────────────────────────────────────

// ringOpening records the first occurrence of a ring-closure digit and the
// bond symbol, if any, written in front of it.
type ringOpening struct {
	atom     int
	order    BondOrder
	orderSet bool
	pos      int
}

// branchFrame records the attachment atom and the graph size at the moment a
// branch was opened, so empty branches can be rejected on close.
type branchFrame struct {
	atom      int
	atomCount int
	bondCount int
}

type smilesParser struct {
	input string
	runes []rune
	pos   int
	mol   *Molecule

	prev     int
	stack    []branchFrame
	open     map[int]ringOpening
	bond     BondOrder
	bondSet  bool
	bondPos  int
}

func (p *smilesParser) syntaxf(format string, args ...interface{}) error {
	return apperrors.SMILESSyntax(fmt.Sprintf(format, args...))
}

// run executes the main tokenizer loop over the input runes.
func (p *smilesParser) run() error {
	for p.pos < len(p.runes) {
		r := p.runes[p.pos]
		switch {
		case unicode.IsSpace(r):
			return p.syntaxf("unexpected whitespace at position %d", p.pos)

		case r == '(':
			if p.prev < 0 {
				return p.syntaxf("branch opened before any atom at position %d", p.pos)
			}
			if p.bondSet {
				return p.syntaxf("bond symbol before '(' at position %d", p.pos)
			}
			p.stack = append(p.stack, branchFrame{
				atom:      p.prev,
				atomCount: len(p.mol.Atoms),
				bondCount: len(p.mol.Bonds),
			})
			p.pos++

		case r == ')':
			if len(p.stack) == 0 {
				return p.syntaxf("unbalanced parentheses: unexpected ')' at position %d", p.pos)
			}
			if p.bondSet {
				return p.syntaxf("dangling bond symbol before ')' at position %d", p.pos)
			}
			frame := p.stack[len(p.stack)-1]
			if len(p.mol.Atoms) == frame.atomCount && len(p.mol.Bonds) == frame.bondCount {
				return p.syntaxf("empty branch closed at position %d", p.pos)
			}
			p.stack = p.stack[:len(p.stack)-1]
			p.prev = frame.atom
			p.pos++

		case r == '-' || r == '=' || r == '#' || r == ':' || r == '/' || r == '\\':
			if p.bondSet {
				return p.syntaxf("two consecutive bond symbols at position %d", p.pos)
			}
			if p.prev < 0 {
				return p.syntaxf("bond symbol %q with no preceding atom at position %d", r, p.pos)
			}
			p.bond = bondOrderForSymbol(r)
			p.bondSet = true
			p.bondPos = p.pos
			p.pos++

		case r == '.':
			if p.bondSet {
				return p.syntaxf("bond symbol before '.' at position %d", p.pos)
			}
			if len(p.stack) > 0 {
				return p.syntaxf("fragment separator '.' inside branch at position %d", p.pos)
			}
			p.prev = -1
			p.pos++

		case r >= '0' && r <= '9':
			if err := p.ringClosure(int(r - '0')); err != nil {
				return err
			}
			p.pos++

		case r == '%':
			if p.pos+2 >= len(p.runes) || !isDigit(p.runes[p.pos+1]) || !isDigit(p.runes[p.pos+2]) {
				return p.syntaxf("ring closure '%%' requires two digits at position %d", p.pos)
			}
			num := int(p.runes[p.pos+1]-'0')*10 + int(p.runes[p.pos+2]-'0')
			if err := p.ringClosure(num); err != nil {
				return err
			}
			p.pos += 3

		case r == '[':
			if err := p.parseBracketAtom(); err != nil {
				return err
			}

		case unicode.IsUpper(r):
			if err := p.parseOrganicAtom(); err != nil {
				return err
			}

		case unicode.IsLower(r):
			if err := p.parseAromaticOrganicAtom(); err != nil {
				return err
			}

		default:
			return p.syntaxf("unexpected character %q at position %d", r, p.pos)
		}
	}

	if len(p.stack) > 0 {
		return p.syntaxf("unbalanced parentheses: %d unclosed '('", len(p.stack))
	}
	if p.bondSet {
		return p.syntaxf("dangling bond symbol at position %d", p.bondPos)
	}
	if len(p.open) > 0 {
		for num, o := range p.open {
			return p.syntaxf("unclosed ring bond %d opened at position %d", num, o.pos)
		}
	}
	if len(p.mol.Atoms) == 0 {
		return apperrors.SMILESSyntax("SMILES contains no atoms")
	}
	return nil
}

// ─────────────────────────────────────────────────────────────
// Atom tokens
// ─────────────────────────────────────────────────────────────

// parseOrganicAtom handles an unbracketed uppercase element, preferring the
// two-letter symbols Cl and Br over the single-letter reading.
func (p *smilesParser) parseOrganicAtom() error {
	start := p.pos
	symbol := string(p.runes[p.pos])
	if p.pos+1 < len(p.runes) && unicode.IsLower(p.runes[p.pos+1]) {
		two := symbol + string(p.runes[p.pos+1])
		if e, ok := ElementBySymbol(two); ok && e.Organic {
			symbol = two
		}
	}

	elem, ok := ElementBySymbol(symbol)
	if !ok || !elem.Organic {
		return p.syntaxf("invalid atom symbol %q at position %d", symbol, start)
	}

	p.pos += len(symbol)
	return p.addAtom(Atom{Symbol: elem.Symbol, Number: elem.Number})
}

// parseAromaticOrganicAtom handles the lowercase aromatic organic subset.
func (p *smilesParser) parseAromaticOrganicAtom() error {
	r := p.runes[p.pos]
	symbol := strings.ToUpper(string(r))
	elem, ok := ElementBySymbol(symbol)
	if !ok || !elem.Organic || !elem.Aromatic {
		return p.syntaxf("invalid aromatic atom symbol %q at position %d", r, p.pos)
	}
	p.pos++
	return p.addAtom(Atom{Symbol: elem.Symbol, Number: elem.Number, Aromatic: true})
}

// parseBracketAtom handles the full bracket form
// [isotope? symbol chirality? Hcount? charge? :class?].
func (p *smilesParser) parseBracketAtom() error {
	start := p.pos
	end := -1
	for i := p.pos + 1; i < len(p.runes); i++ {
		if p.runes[i] == ']' {
			end = i
			break
		}
		if p.runes[i] == '[' {
			return p.syntaxf("nested '[' at position %d", i)
		}
	}
	if end < 0 {
		return p.syntaxf("unclosed bracket atom at position %d", start)
	}
	content := p.runes[p.pos+1 : end]
	if len(content) == 0 {
		return p.syntaxf("empty bracket atom at position %d", start)
	}

	i := 0
	atom := Atom{}

	// Isotope.
	for i < len(content) && isDigit(content[i]) {
		atom.Isotope = atom.Isotope*10 + int(content[i]-'0')
		i++
	}

	// Element symbol, possibly lowercase aromatic, possibly two letters.
	if i >= len(content) {
		return p.syntaxf("bracket atom at position %d has no element symbol", start)
	}
	var symbol string
	switch {
	case unicode.IsUpper(content[i]):
		symbol = string(content[i])
		i++
		if i < len(content) && unicode.IsLower(content[i]) {
			two := symbol + string(content[i])
			if _, ok := ElementBySymbol(two); ok {
				symbol = two
				i++
			} else {
				return p.syntaxf("unknown element %q in bracket atom at position %d", two, start)
			}
		}
	case unicode.IsLower(content[i]):
		symbol = string(content[i])
		i++
		if i < len(content) && unicode.IsLower(content[i]) {
			two := symbol + string(content[i])
			if e, ok := ElementBySymbol(capitalize(two)); ok && e.Aromatic {
				symbol = two
				i++
			}
		}
		symbol = capitalize(symbol)
		atom.Aromatic = true
	default:
		return p.syntaxf("unexpected %q in bracket atom at position %d", content[i], start)
	}

	elem, ok := ElementBySymbol(symbol)
	if !ok {
		return p.syntaxf("unknown element %q in bracket atom at position %d", symbol, start)
	}
	if atom.Aromatic && !elem.Aromatic {
		return p.syntaxf("element %s cannot be aromatic at position %d", elem.Symbol, start)
	}
	atom.Symbol = elem.Symbol
	atom.Number = elem.Number

	// Chirality markers are accepted and discarded.
	for i < len(content) && content[i] == '@' {
		i++
	}

	// Explicit hydrogen count.
	if i < len(content) && content[i] == 'H' {
		i++
		atom.Hydrogens = 1
		if i < len(content) && isDigit(content[i]) {
			atom.Hydrogens = 0
			for i < len(content) && isDigit(content[i]) {
				atom.Hydrogens = atom.Hydrogens*10 + int(content[i]-'0')
				i++
			}
		}
	}

	// Charge, written as repeated signs or sign plus magnitude.
	if i < len(content) && (content[i] == '+' || content[i] == '-') {
		sign := 1
		if content[i] == '-' {
			sign = -1
		}
		count := 1
		i++
		if i < len(content) && isDigit(content[i]) {
			count = 0
			for i < len(content) && isDigit(content[i]) {
				count = count*10 + int(content[i]-'0')
				i++
			}
		} else {
			for i < len(content) && ((sign > 0 && content[i] == '+') || (sign < 0 && content[i] == '-')) {
				count++
				i++
			}
		}
		atom.Charge = sign * count
	}

	// Atom class, accepted and discarded.
	if i < len(content) && content[i] == ':' {
		i++
		if i >= len(content) || !isDigit(content[i]) {
			return p.syntaxf("atom class ':' without digits in bracket atom at position %d", start)
		}
		for i < len(content) && isDigit(content[i]) {
			i++
		}
	}

	if i != len(content) {
		return p.syntaxf("unexpected %q in bracket atom at position %d", content[i], start)
	}

	atom.hFixed = true
	p.pos = end + 1
	return p.addAtom(atom)
}

// addAtom appends the atom and bonds it to the previous atom, honoring any
// pending explicit bond symbol.
func (p *smilesParser) addAtom(a Atom) error {
	a.Index = len(p.mol.Atoms)
	p.mol.Atoms = append(p.mol.Atoms, a)

	if p.prev >= 0 {
		order := p.defaultBond(p.prev, a.Index)
		if p.bondSet {
			order = p.bond
		}
		p.mol.Bonds = append(p.mol.Bonds, Bond{From: p.prev, To: a.Index, Order: order})
	}
	p.bondSet = false
	p.prev = a.Index
	return nil
}

// ringClosure opens or closes a numbered ring bond at the previous atom.
func (p *smilesParser) ringClosure(num int) error {
	if p.prev < 0 {
		return p.syntaxf("ring closure digit %d before any atom at position %d", num, p.pos)
	}

	opening, isOpen := p.open[num]
	if !isOpen {
		p.open[num] = ringOpening{atom: p.prev, order: p.bond, orderSet: p.bondSet, pos: p.pos}
		p.bondSet = false
		return nil
	}
	delete(p.open, num)

	if opening.atom == p.prev {
		return p.syntaxf("ring bond %d closes on its own atom at position %d", num, p.pos)
	}
	if _, exists := p.mol.bondBetweenSlow(opening.atom, p.prev); exists {
		return p.syntaxf("duplicate bond between atoms %d and %d via ring closure %d", opening.atom, p.prev, num)
	}

	order := p.defaultBond(opening.atom, p.prev)
	switch {
	case opening.orderSet && p.bondSet:
		if opening.order != p.bond {
			return p.syntaxf("conflicting bond orders on ring closure %d at position %d", num, p.pos)
		}
		order = p.bond
	case opening.orderSet:
		order = opening.order
	case p.bondSet:
		order = p.bond
	}

	p.mol.Bonds = append(p.mol.Bonds, Bond{From: opening.atom, To: p.prev, Order: order})
	p.bondSet = false
	return nil
}

// defaultBond returns the implicit bond order between two atoms: aromatic
// when both carry the aromatic flag, single otherwise.
func (p *smilesParser) defaultBond(i, j int) BondOrder {
	if p.mol.Atoms[i].Aromatic && p.mol.Atoms[j].Aromatic {
		return BondAromatic
	}
	return BondSingle
}

// bondBetweenSlow is a linear scan usable before adjacency lists exist.
func (m *Molecule) bondBetweenSlow(i, j int) (Bond, bool) {
	for _, b := range m.Bonds {
		if (b.From == i && b.To == j) || (b.From == j && b.To == i) {
			return b, true
		}
	}
	return Bond{}, false
}

func bondOrderForSymbol(r rune) BondOrder {
	switch r {
	case '=':
		return BondDouble
	case '#':
		return BondTriple
	case ':':
		return BondAromatic
	default:
		// '-' and the ignored stereo markers '/' and '\'.
		return BondSingle
	}
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
