package screening

import (
	"github.com/moleculab/chemalyzer/internal/domain/descriptor"
	"github.com/moleculab/chemalyzer/internal/domain/molecule"
)

// Categorical labels produced by the ADMET heuristics.
const (
	PermeabilityLikely   = "Likely"
	PermeabilityUnlikely = "Unlikely"

	AbsorptionHigh = "High"
	AbsorptionLow  = "Low"

	ToxicityLow      = "Low"
	ToxicityModerate = "Moderate"
	ToxicityHigh     = "High"
)

// Blood-brain-barrier permeability window.
const (
	bbbMaxWeight    = 450.0
	bbbMaxPolarArea = 90.0
	bbbMinLogP      = -0.5
	bbbMaxLogP      = 4.5
)

// Human intestinal absorption limits.
const (
	hiaMaxPolarArea = 140.0
	hiaMaxRotatable = 10
)

// Toxicity thresholds.
const (
	toxHighLogP       = 5.0
	toxHighWeight     = 600.0
	toxModerateHetero = 8
)

// ADMET holds the four categorical predictions. The heuristics are fixed
// threshold rules: reproducible and cheap, meant to rank compounds rather
// than predict clinical outcomes.
type ADMET struct {
	BloodBrainBarrier         string
	HumanIntestinalAbsorption string
	CYP450Inhibition          []string
	Toxicity                  string
}

// cypRule flags CYP450 isoforms when its predicate holds. The rules run in
// table order and flagged isoforms are appended in that same order, so the
// inhibition list is deterministic for a given molecule.
type cypRule struct {
	isoforms []string
	match    func(*molecule.Molecule, descriptor.Properties) bool
}

var cypRules = []cypRule{
	{
		// Unsubstituted aromatic amines are classic CYP1A2 substrates.
		isoforms: []string{"CYP1A2"},
		match: func(m *molecule.Molecule, _ descriptor.Properties) bool {
			return molecule.HasUnsubstitutedAromaticAmine(m)
		},
	},
	{
		// Large lipophilic compounds tend to occupy the broad-spectrum
		// isoforms.
		isoforms: []string{"CYP3A4", "CYP2D6"},
		match: func(_ *molecule.Molecule, p descriptor.Properties) bool {
			return p.MolecularWeight > 300 && p.LogP > 2
		},
	},
	{
		// Heteroatom-rich scaffolds flag the polar-substrate isoform.
		isoforms: []string{"CYP2C9"},
		match: func(_ *molecule.Molecule, p descriptor.Properties) bool {
			return p.Heteroatoms > 5
		},
	},
}

// PredictADMET derives the four ADMET categories from the molecular graph
// and its computed properties.
func PredictADMET(m *molecule.Molecule, p descriptor.Properties) ADMET {
	a := ADMET{
		BloodBrainBarrier:         PermeabilityUnlikely,
		HumanIntestinalAbsorption: AbsorptionLow,
		CYP450Inhibition:          []string{},
		Toxicity:                  toxicityCategory(m, p),
	}

	if p.MolecularWeight < bbbMaxWeight && p.PolarSurfaceArea < bbbMaxPolarArea &&
		p.LogP >= bbbMinLogP && p.LogP <= bbbMaxLogP {
		a.BloodBrainBarrier = PermeabilityLikely
	}
	if p.PolarSurfaceArea < hiaMaxPolarArea && p.RotatableBonds <= hiaMaxRotatable {
		a.HumanIntestinalAbsorption = AbsorptionHigh
	}
	for _, r := range cypRules {
		if r.match(m, p) {
			a.CYP450Inhibition = append(a.CYP450Inhibition, r.isoforms...)
		}
	}

	return a
}

func toxicityCategory(m *molecule.Molecule, p descriptor.Properties) string {
	switch {
	case p.LogP > toxHighLogP || p.MolecularWeight > toxHighWeight:
		return ToxicityHigh
	case molecule.HasNitroGroup(m) || p.Heteroatoms > toxModerateHetero:
		return ToxicityModerate
	default:
		return ToxicityLow
	}
}
