package compound

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/moleculab/chemalyzer/internal/domain/molecule"
	"github.com/moleculab/chemalyzer/internal/infrastructure/monitoring/logging"
	apperrors "github.com/moleculab/chemalyzer/pkg/errors"
)

// Method identifies how a query resolved.
type Method string

const (
	// MethodDirectSMILES means the query itself was taken as SMILES.
	MethodDirectSMILES Method = "direct_smiles"

	// MethodDatabaseLookup means a library name matched the query
	// exactly, as a substring, or through a sentence pattern.
	MethodDatabaseLookup Method = "database_lookup"

	// MethodWordMatch means a single word of the query matched a
	// library name after punctuation stripping.
	MethodWordMatch Method = "word_match"
)

// unknownCompoundName labels direct-SMILES resolutions that have no
// library entry behind them.
const unknownCompoundName = "Unknown Compound"

// Resolution is the outcome of resolving one query.
type Resolution struct {
	SMILES string
	Name   string
	IUPAC  string
	Method Method
}

// sentencePatterns extract a candidate compound word from common
// natural-language phrasings.  They run against the lowercased query.
var sentencePatterns = []*regexp.Regexp{
	regexp.MustCompile(`structure of (\w+)`),
	regexp.MustCompile(`analyze (\w+)`),
	regexp.MustCompile(`properties of (\w+)`),
	regexp.MustCompile(`show me (\w+)`),
	regexp.MustCompile(`what is (\w+)`),
	regexp.MustCompile(`compound (\w+)`),
	regexp.MustCompile(`drug (\w+)`),
	regexp.MustCompile(`molecule (\w+)`),
}

var punctuation = regexp.MustCompile(`[^\w\s]`)

// Resolver turns raw user text into a SMILES string plus naming
// metadata.  Resolution never parses chemistry beyond the literal
// SMILES heuristic; structural validation is the parser's job.
type Resolver struct {
	lib *Library
	log logging.Logger
}

// NewResolver builds a resolver over the given library.
func NewResolver(lib *Library, log logging.Logger) *Resolver {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &Resolver{lib: lib, log: log.Named("resolver")}
}

// Resolve maps a query to a Resolution, checking in order: the literal
// SMILES heuristic, an exact name match, a substring match (longest
// name first), a sentence-pattern extraction, and a per-word match.
// Resolution failure returns an unknown-compound error; it is reported
// to the caller, never retried.
func (r *Resolver) Resolve(query string) (Resolution, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		return Resolution{}, apperrors.New(apperrors.CodeEmptyQuery, "query must not be empty")
	}

	if LooksLikeSMILES(q) {
		return Resolution{
			SMILES: q,
			Name:   unknownCompoundName,
			Method: MethodDirectSMILES,
		}, nil
	}

	lower := strings.ToLower(q)
	view := r.lib.view()

	if e, ok := view.entries[lower]; ok {
		return fromEntry(e, MethodDatabaseLookup), nil
	}

	for _, name := range view.namesByLength {
		if strings.Contains(lower, name) {
			return fromEntry(view.entries[name], MethodDatabaseLookup), nil
		}
	}

	for _, p := range sentencePatterns {
		m := p.FindStringSubmatch(lower)
		if m == nil {
			continue
		}
		if e, ok := view.entries[m[1]]; ok {
			return fromEntry(e, MethodDatabaseLookup), nil
		}
	}

	for _, word := range strings.Fields(punctuation.ReplaceAllString(lower, "")) {
		if e, ok := view.entries[word]; ok {
			return fromEntry(e, MethodWordMatch), nil
		}
	}

	r.log.Debug("query did not resolve", logging.String("query", q))
	return Resolution{}, apperrors.UnknownCompound(fmt.Sprintf(
		"could not identify a compound from query %q; try a known compound name or a SMILES string", q))
}

// Suggest returns up to five library names related to the query: names
// contained in the query first, then names sharing a word with it.
// With no related names at all it falls back to the first ten library
// entries so the caller always has something to offer.
func (r *Resolver) Suggest(query string) []string {
	lower := strings.ToLower(strings.TrimSpace(query))
	view := r.lib.view()

	var suggestions []string
	seen := make(map[string]bool)
	add := func(name string) {
		if !seen[name] && len(suggestions) < 5 {
			seen[name] = true
			suggestions = append(suggestions, name)
		}
	}

	for _, name := range view.names {
		if strings.Contains(lower, name) {
			add(name)
		}
	}
	words := strings.Fields(lower)
	for _, name := range view.names {
		for _, w := range words {
			if w != "" && strings.Contains(name, w) {
				add(name)
				break
			}
		}
	}

	if len(suggestions) == 0 {
		n := len(view.names)
		if n > 10 {
			n = 10
		}
		suggestions = append(suggestions, view.names[:n]...)
	}
	return suggestions
}

// LooksLikeSMILES reports whether text should be handed to the SMILES
// parser rather than the name lookup.  The test is a cheap heuristic,
// not a parse: the string must be longer than three characters, use
// only the SMILES alphabet (no whitespace), contain a carbon symbol,
// show structural evidence (a digit, a bond or branch character, or an
// uppercase element), and read as element symbols letter by letter.
// Misspelled SMILES that pass here surface as parse errors downstream,
// which keeps inputs like "C(((" reporting their real problem.
func LooksLikeSMILES(text string) bool {
	if len(text) <= 3 {
		return false
	}
	hasCarbon := false
	hasStructure := false
	for _, r := range text {
		switch {
		case r >= 'a' && r <= 'z':
			if r == 'c' {
				hasCarbon = true
			}
		case r >= 'A' && r <= 'Z':
			if r == 'C' {
				hasCarbon = true
			}
			hasStructure = true
		case r >= '0' && r <= '9':
			hasStructure = true
		case strings.ContainsRune(`@+-[]()=#:/.\%`, r):
			hasStructure = true
		default:
			return false
		}
	}
	return hasCarbon && hasStructure && readsAsElements(text)
}

// readsAsElements scans the letters of a candidate SMILES: uppercase
// runs must form known element symbols (two-letter symbols preferred)
// and lowercase letters outside a two-letter symbol must be aromatic
// organic atoms.  This keeps capitalized prose like "Chloroform" on
// the name path while admitting "CCCC" or "Clc1ccccc1".
func readsAsElements(text string) bool {
	rs := []rune(text)
	for i := 0; i < len(rs); i++ {
		r := rs[i]
		if !unicode.IsLetter(r) {
			continue
		}
		if unicode.IsUpper(r) {
			if i+1 < len(rs) && unicode.IsLower(rs[i+1]) {
				if _, ok := molecule.ElementBySymbol(string(r) + string(rs[i+1])); ok {
					i++
					continue
				}
			}
			if _, ok := molecule.ElementBySymbol(string(r)); ok {
				continue
			}
			return false
		}
		switch r {
		case 'b', 'c', 'n', 'o', 'p', 's':
		default:
			return false
		}
	}
	return true
}

func fromEntry(e Entry, method Method) Resolution {
	return Resolution{
		SMILES: e.SMILES,
		Name:   titleCase(e.Name),
		IUPAC:  e.IUPAC,
		Method: method,
	}
}

// titleCase uppercases the first letter of each space-separated word,
// matching the display style of the library ("penicillin g" becomes
// "Penicillin G").
func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		rs := []rune(w)
		rs[0] = unicode.ToUpper(rs[0])
		words[i] = string(rs)
	}
	return strings.Join(words, " ")
}
