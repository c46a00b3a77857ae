// Package compound resolves user queries to analyzable structures: an
// embedded name → SMILES library with IUPAC annotations, an optional
// YAML overlay for site-specific entries, and a resolver that accepts
// compound names, aliases, natural-language sentences, and literal
// SMILES strings.
package compound

import (
	"sort"
	"strings"
	"sync/atomic"

	"github.com/spf13/viper"

	"github.com/moleculab/chemalyzer/internal/domain/molecule"
	"github.com/moleculab/chemalyzer/internal/infrastructure/monitoring/logging"
	apperrors "github.com/moleculab/chemalyzer/pkg/errors"
)

// Entry is one named compound.  Name is the lowercase lookup key;
// aliases are stored as separate entries sharing the same SMILES.
type Entry struct {
	Name   string
	SMILES string
	IUPAC  string
}

// builtinEntries is the embedded library.  Alias spellings (such as
// paracetamol and acetaminophen) appear as independent entries so that
// either resolves directly.
var builtinEntries = []Entry{
	// Pain relievers and anti-inflammatories.
	{Name: "aspirin", SMILES: "CC(=O)OC1=CC=CC=C1C(=O)O", IUPAC: "2-acetoxybenzoic acid"},
	{Name: "ibuprofen", SMILES: "CC(C)CC1=CC=C(C=C1)C(C)C(=O)O", IUPAC: "2-(4-isobutylphenyl)propionic acid"},
	{Name: "paracetamol", SMILES: "CC(=O)NC1=CC=C(C=C1)O", IUPAC: "N-(4-hydroxyphenyl)acetamide"},
	{Name: "acetaminophen", SMILES: "CC(=O)NC1=CC=C(C=C1)O", IUPAC: "N-(4-hydroxyphenyl)acetamide"},
	{Name: "naproxen", SMILES: "COC1=CC2=C(C=C1)C=C(C=C2)C(C)C(=O)O", IUPAC: "2-(6-methoxynaphthalen-2-yl)propionic acid"},

	// Stimulants and psychoactives.
	{Name: "caffeine", SMILES: "CN1C=NC2=C1C(=O)N(C(=O)N2C)C", IUPAC: "1,3,7-trimethylpurine-2,6-dione"},
	{Name: "nicotine", SMILES: "CN1CCCC1C2=CN=CC=C2", IUPAC: "3-(1-methylpyrrolidin-2-yl)pyridine"},
	{Name: "methamphetamine", SMILES: "CC(CC1=CC=CC=C1)NC"},
	{Name: "cocaine", SMILES: "COC(=O)C1C(CC2CCC(C1N2C)OC(=O)C3=CC=CC=C3)C"},
	{Name: "lsd", SMILES: "CCN(CC)C(=O)C1CN(C2CC3=CNC4=CC=CC(=C34)C2=C1)C"},
	{Name: "thc", SMILES: "CCCCCC1=CC(=C2C3C=C(CCC3C(OC2=C1)(C)C)C)O"},
	{Name: "tetrahydrocannabinol", SMILES: "CCCCCC1=CC(=C2C3C=C(CCC3C(OC2=C1)(C)C)C)O"},

	// Opioids and analgesics.
	{Name: "morphine", SMILES: "CN1CC[C@]23C4=C5C=CC(O)=C4O[C@H]2[C@@H](O)C=C[C@H]3[C@H]1C5", IUPAC: "(5α,6α)-7,8-didehydro-4,5-epoxy-17-methylmorphinan-3,6-diol"},
	{Name: "codeine", SMILES: "COC1=CC2=C3[C@H]4[C@H]5CC[C@@H](N4C)C[C@@H]3OC6=C2C1=CC=C6O5", IUPAC: "(5α,6α)-7,8-didehydro-4,5-epoxy-3-methoxy-17-methylmorphinan-6-ol"},

	// Antibiotics.
	{Name: "penicillin", SMILES: "CC1([C@@H](N2[C@H](S1)[C@@H](C2=O)NC(=O)CC3=CC=CC=C3)C(=O)O)C"},
	{Name: "amoxicillin", SMILES: "CC1([C@@H](N2[C@H](S1)[C@@H](C2=O)NC(=O)[C@@H](C3=CC=C(C=C3)O)N)C(=O)O)C", IUPAC: "(2S,5R,6R)-6-[[(2R)-2-amino-2-(4-hydroxyphenyl)acetyl]amino]-3,3-dimethyl-7-oxo-4-thia-1-azabicyclo[3.2.0]heptane-2-carboxylic acid"},
	{Name: "penicillin g", SMILES: "CC1([C@@H](N2[C@H](S1)[C@@H](C2=O)NC(=O)CC3=CC=CC=C3)C(=O)O)C"},

	// Hormones and neurotransmitters.
	{Name: "adrenaline", SMILES: "CNC[C@@H](C1=CC(=C(C=C1)O)O)O", IUPAC: "(R)-4-(1-hydroxy-2-(methylamino)ethyl)benzene-1,2-diol"},
	{Name: "epinephrine", SMILES: "CNC[C@@H](C1=CC(=C(C=C1)O)O)O", IUPAC: "(R)-4-(1-hydroxy-2-(methylamino)ethyl)benzene-1,2-diol"},

	// Diabetes medication.
	{Name: "metformin", SMILES: "CN(C)C(=N)N=C(N)N", IUPAC: "N,N-dimethylimidodicarbonimidic diamide"},

	// Common chemicals.
	{Name: "ethanol", SMILES: "CCO", IUPAC: "ethyl alcohol"},
	{Name: "methanol", SMILES: "CO", IUPAC: "methyl alcohol"},
	{Name: "acetone", SMILES: "CC(=O)C"},
	{Name: "chloroform", SMILES: "C(Cl)(Cl)Cl"},
	{Name: "citric acid", SMILES: "C(C(=O)O)C(CC(=O)O)(C(=O)O)O"},
	{Name: "sulfuric acid", SMILES: "OS(=O)(=O)O"},

	// Aromatics and simple organics.
	{Name: "benzene", SMILES: "c1ccccc1", IUPAC: "benzene"},
	{Name: "toluene", SMILES: "CC1=CC=CC=C1"},
	{Name: "phenol", SMILES: "C1=CC=C(C=C1)O"},
	{Name: "aniline", SMILES: "C1=CC=C(C=C1)N"},

	// Nucleobases and biomolecules.
	{Name: "adenine", SMILES: "C1=NC2=C(N1)C(=NC=N2)N"},
	{Name: "guanine", SMILES: "C1=NC2=C(N1)C(=O)NC(=N2)N"},
	{Name: "cytosine", SMILES: "C1=CN(C(=O)N=C1N)C2C(C(C(O2)CO)O)O"},
	{Name: "thymine", SMILES: "CC1=CN(C(=O)NC1=O)C2C(C(C(O2)CO)O)O"},
	{Name: "glucose", SMILES: "C([C@@H]1[C@H]([C@@H]([C@H]([C@H](O1)O)O)O)O)O", IUPAC: "D-glucose"},
}

// snapshot is one immutable view of the library.  Readers hold the
// whole snapshot, so a concurrent reload never mutates anything a
// lookup can observe.
type snapshot struct {
	entries map[string]Entry

	// names holds the keys sorted alphabetically, for listings.
	names []string

	// namesByLength holds the keys longest first (ties alphabetical),
	// so substring scans prefer the most specific match.
	namesByLength []string
}

func buildSnapshot(entries []Entry) *snapshot {
	s := &snapshot{entries: make(map[string]Entry, len(entries))}
	for _, e := range entries {
		key := strings.ToLower(strings.TrimSpace(e.Name))
		if key == "" {
			continue
		}
		e.Name = key
		s.entries[key] = e
	}
	s.names = make([]string, 0, len(s.entries))
	for key := range s.entries {
		s.names = append(s.names, key)
	}
	sort.Strings(s.names)
	s.namesByLength = append([]string(nil), s.names...)
	sort.SliceStable(s.namesByLength, func(i, j int) bool {
		return len(s.namesByLength[i]) > len(s.namesByLength[j])
	})
	return s
}

// Library is the process-wide compound lookup.  The embedded entries
// load at construction; LoadOverlay merges a YAML file over them and
// atomically swaps the active snapshot.
type Library struct {
	current atomic.Pointer[snapshot]
	log     logging.Logger
}

// NewLibrary builds a library over the embedded entries.  A nil logger
// falls back to the no-op logger.
func NewLibrary(log logging.Logger) *Library {
	if log == nil {
		log = logging.NewNopLogger()
	}
	l := &Library{log: log.Named("compound")}
	l.current.Store(buildSnapshot(builtinEntries))
	return l
}

// overlayEntry is the YAML shape of one overlay compound.
type overlayEntry struct {
	Name    string   `mapstructure:"name"`
	SMILES  string   `mapstructure:"smiles"`
	IUPAC   string   `mapstructure:"iupac"`
	Aliases []string `mapstructure:"aliases"`
}

// LoadOverlay merges the compounds listed in a YAML file over the
// embedded entries and swaps the result in.  Entries whose SMILES do
// not parse are skipped with a warning rather than poisoning the
// library; overlay entries win on name collision.
func (l *Library) LoadOverlay(path string) error {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return apperrors.Wrap(err, apperrors.CodeValidation, "read compound overlay")
	}
	var overlay []overlayEntry
	if err := v.UnmarshalKey("compounds", &overlay); err != nil {
		return apperrors.Wrap(err, apperrors.CodeValidation, "decode compound overlay")
	}

	merged := append([]Entry(nil), builtinEntries...)
	loaded := 0
	for _, oe := range overlay {
		name := strings.ToLower(strings.TrimSpace(oe.Name))
		smiles := strings.TrimSpace(oe.SMILES)
		if name == "" || smiles == "" {
			l.log.Warn("overlay entry missing name or smiles, skipping",
				logging.String("name", oe.Name))
			continue
		}
		if _, err := molecule.ParseSMILES(smiles); err != nil {
			l.log.Warn("overlay entry has unparseable smiles, skipping",
				logging.String("name", name),
				logging.Err(err))
			continue
		}
		merged = append(merged, Entry{Name: name, SMILES: smiles, IUPAC: oe.IUPAC})
		loaded++
		for _, alias := range oe.Aliases {
			alias = strings.ToLower(strings.TrimSpace(alias))
			if alias == "" {
				continue
			}
			merged = append(merged, Entry{Name: alias, SMILES: smiles, IUPAC: oe.IUPAC})
			loaded++
		}
	}

	l.current.Store(buildSnapshot(merged))
	l.log.Info("compound overlay loaded",
		logging.String("path", path),
		logging.Int("entries", loaded))
	return nil
}

// Lookup returns the entry for a name, matched case-insensitively.
func (l *Library) Lookup(name string) (Entry, bool) {
	e, ok := l.current.Load().entries[strings.ToLower(strings.TrimSpace(name))]
	return e, ok
}

// Names returns all library keys in alphabetical order.
func (l *Library) Names() []string {
	return append([]string(nil), l.current.Load().names...)
}

// Len reports the number of entries, alias spellings included.
func (l *Library) Len() int {
	return len(l.current.Load().entries)
}

func (l *Library) view() *snapshot {
	return l.current.Load()
}
