// Package screening evaluates medicinal-chemistry filters over computed
// molecular properties: Lipinski and Veber rule compliance, lead-likeness,
// and the heuristic ADMET categories. Every evaluation is a pure function
// of its inputs with fixed, documented thresholds.
package screening

import (
	"github.com/moleculab/chemalyzer/internal/domain/descriptor"
)

// ─────────────────────────────────────────────────────────────────────────────
// Rule thresholds
// ─────────────────────────────────────────────────────────────────────────────

// Lipinski Rule of Five limits. Each exceeded limit counts one violation;
// a compound remains drug-like with at most one violation.
const (
	LipinskiMaxWeight    = 500.0
	LipinskiMaxLogP      = 5.0
	LipinskiMaxDonors    = 5
	LipinskiMaxAcceptors = 10
)

// Veber oral-bioavailability limits.
const (
	VeberMaxRotatable = 10
	VeberMaxPolarArea = 140.0
)

// Lead-likeness window. Tighter than Lipinski so that flagged compounds
// leave headroom for later optimization.
const (
	LeadMaxWeight    = 450.0
	LeadMinLogP      = -1.0
	LeadMaxLogP      = 4.5
	LeadMaxRotatable = 7
)

// DrugLikeness is the outcome of the rule evaluation.
type DrugLikeness struct {
	LipinskiViolations int
	VeberViolations    int
	LeadLikeness       bool
	DrugLikeness       bool
}

// EvaluateDrugLikeness applies the Lipinski, Veber, and lead-likeness rules
// to a computed property set.
func EvaluateDrugLikeness(p descriptor.Properties) DrugLikeness {
	var d DrugLikeness

	if p.MolecularWeight > LipinskiMaxWeight {
		d.LipinskiViolations++
	}
	if p.LogP > LipinskiMaxLogP {
		d.LipinskiViolations++
	}
	if p.HBondDonors > LipinskiMaxDonors {
		d.LipinskiViolations++
	}
	if p.HBondAcceptors > LipinskiMaxAcceptors {
		d.LipinskiViolations++
	}

	if p.RotatableBonds > VeberMaxRotatable {
		d.VeberViolations++
	}
	if p.PolarSurfaceArea > VeberMaxPolarArea {
		d.VeberViolations++
	}

	d.DrugLikeness = d.LipinskiViolations <= 1
	d.LeadLikeness = p.MolecularWeight <= LeadMaxWeight &&
		p.LogP >= LeadMinLogP && p.LogP <= LeadMaxLogP &&
		p.RotatableBonds <= LeadMaxRotatable

	return d
}
