// Package analysis defines the wire-level data transfer objects for the
// Chemalyzer molecular analysis API.  No domain logic lives here — only plain
// data types shared by the HTTP handlers, the client SDK, and the CLI, safe
// to import from any layer without creating circular dependencies.
//
// The JSON tags are the published contract consumed by dashboards and
// third-party viewers; renaming any of them is a breaking API change.
package analysis

import "fmt"

// ─────────────────────────────────────────────────────────────────────────────
// Request DTOs
// ─────────────────────────────────────────────────────────────────────────────

// AnalyzeRequest carries the raw user query: a compound name, a SMILES
// string, or a natural-language sentence containing either.
type AnalyzeRequest struct {
	Query string `json:"query"`
}

// Validate reports whether the request can be processed at all.  Whitespace
// trimming and classification happen later in the resolver.
func (r AnalyzeRequest) Validate() error {
	if r.Query == "" {
		return fmt.Errorf("query is required")
	}
	return nil
}

// ValidateSMILESRequest carries a raw SMILES string for structural
// pre-validation without running the full analysis pipeline.
type ValidateSMILESRequest struct {
	SMILES string `json:"smiles"`
}

// Validate reports whether the request carries a SMILES value.
func (r ValidateSMILESRequest) Validate() error {
	if r.SMILES == "" {
		return fmt.Errorf("smiles is required")
	}
	return nil
}

// CompareRequest names two compounds, each as a query in AnalyzeRequest
// form, for structural similarity scoring.
type CompareRequest struct {
	Query1 string `json:"query1"`
	Query2 string `json:"query2"`
}

// Validate reports whether both queries are present.
func (r CompareRequest) Validate() error {
	if r.Query1 == "" || r.Query2 == "" {
		return fmt.Errorf("query1 and query2 are required")
	}
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// CompoundAnalysis — the aggregate analysis record
// ─────────────────────────────────────────────────────────────────────────────

// MolecularProperties holds the ten physicochemical descriptors computed from
// the molecular graph.  All values are pure functions of the graph; equal
// structures always report equal properties.
type MolecularProperties struct {
	// MolecularWeight is the sum of standard atomic masses over every atom,
	// implicit hydrogens included, in g/mol.
	MolecularWeight float64 `json:"molecularWeight"`

	// LogP is the additive Crippen-style octanol-water partition estimate.
	LogP float64 `json:"logP"`

	// HBondDonors counts N and O atoms bearing at least one hydrogen, each
	// counted once regardless of how many hydrogens it carries.
	HBondDonors int `json:"hbondDonors"`

	// HBondAcceptors counts N and O atoms that are not positively charged.
	HBondAcceptors int `json:"hbondAcceptors"`

	// RotatableBonds counts acyclic single bonds between two non-terminal
	// heavy atoms, amide C-N bonds excluded.  The all-lowercase tag is part
	// of the published contract.
	RotatableBonds int `json:"rotatablebonds"`

	// PolarSurfaceArea is the Ertl topological polar surface area in Å².
	PolarSurfaceArea float64 `json:"polarSurfaceArea"`

	// HeavyAtomCount is the number of non-hydrogen atoms.
	HeavyAtomCount int `json:"heavyAtomCount"`

	// RingCount is the number of smallest rings in the graph.
	RingCount int `json:"ringCount"`

	// AromaticRings is the number of rings perceived as aromatic.
	AromaticRings int `json:"aromaticRings"`

	// HeteroAtoms is the number of atoms that are neither carbon nor hydrogen.
	HeteroAtoms int `json:"heteroAtoms"`
}

// DrugLikeness reports the fixed-threshold medicinal-chemistry rule results
// derived from MolecularProperties.
type DrugLikeness struct {
	// LipinskiViolations is the number of Rule-of-Five thresholds exceeded,
	// always in [0, 4].
	LipinskiViolations int `json:"lipinskiViolations"`

	// VeberViolations is the number of Veber thresholds exceeded, in [0, 2].
	VeberViolations int `json:"veberViolations"`

	// LeadLikeness flags compounds small and lipophilic enough to serve as
	// optimization starting points.
	LeadLikeness bool `json:"leadLikeness"`

	// DrugLikeness is true when LipinskiViolations <= 1.
	DrugLikeness bool `json:"drugLikeness"`
}

// ADMETPrediction holds the qualitative absorption, distribution, metabolism,
// excretion, and toxicity categories.  These are documented heuristics over
// descriptor thresholds and functional groups, not statistical models.
type ADMETPrediction struct {
	// BloodBrainBarrier is "Likely" or "Unlikely".
	BloodBrainBarrier string `json:"bloodBrainBarrier"`

	// HumanIntestinalAbsorption is "High" or "Low".
	HumanIntestinalAbsorption string `json:"humanIntestinalAbsorption"`

	// CYP450Inhibition lists flagged isoform names in detection order.
	// Always present; an empty array when no pattern matched.
	CYP450Inhibition []string `json:"cyp450Inhibition"`

	// Toxicity is "Low", "Moderate", or "High".
	Toxicity string `json:"toxicity"`
}

// CompoundAnalysis is the immutable aggregate record for one analyzed
// compound.  It is created once per request and owned exclusively by the
// caller afterwards; nothing in the service mutates a returned record.
type CompoundAnalysis struct {
	// SMILES is the resolved structure notation the analysis ran on.
	SMILES string `json:"smiles"`

	// Name is the display name, title-cased for known compounds and
	// "Unknown Compound" for literal SMILES input.
	Name string `json:"name"`

	// Formula is the Hill-system molecular formula, e.g. "C9H8O4".
	Formula string `json:"formula"`

	// IUPACName is the systematic name when the compound table knows one;
	// absent otherwise.
	IUPACName string `json:"iupacName,omitempty"`

	// Properties holds the ten computed descriptors.
	Properties MolecularProperties `json:"properties"`

	// DrugLikeness holds the Lipinski/Veber/lead-likeness rule results.
	DrugLikeness DrugLikeness `json:"drugLikeness"`

	// ADMET holds the heuristic pharmacokinetic categories.
	ADMET ADMETPrediction `json:"admet"`

	// FunctionalGroups lists detected group names in fixed table order,
	// without duplicates; absent when nothing matched.
	FunctionalGroups []string `json:"functionalGroups,omitempty"`

	// Structure3D is a MOL V2000 block with embedded 3D coordinates, ready
	// for third-party molecular viewers.  Empty when conformer generation
	// failed; the rest of the record is still valid.
	Structure3D string `json:"structure3D"`
}

// ─────────────────────────────────────────────────────────────────────────────
// SMILES pre-validation report
// ─────────────────────────────────────────────────────────────────────────────

// SMILESValidation reports the first structural defect found by the cheap
// pre-parse checks, with hints on how to fix the input.
type SMILESValidation struct {
	Valid       bool     `json:"valid"`
	Error       string   `json:"error,omitempty"`
	Suggestions []string `json:"suggestions,omitempty"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Structural similarity report
// ─────────────────────────────────────────────────────────────────────────────

// ComparedCompound identifies one side of a similarity comparison.
type ComparedCompound struct {
	SMILES  string `json:"smiles"`
	Name    string `json:"name"`
	Formula string `json:"formula"`
}

// SimilarityReport scores the structural overlap of two compounds by hashed
// fingerprint comparison.  Tanimoto and Dice are in [0, 1]; Similarity is a
// qualitative label derived from the Tanimoto score.
type SimilarityReport struct {
	Query1     ComparedCompound `json:"query1"`
	Query2     ComparedCompound `json:"query2"`
	Tanimoto   float64          `json:"tanimoto"`
	Dice       float64          `json:"dice"`
	Similarity string           `json:"similarity"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Response envelopes
// ─────────────────────────────────────────────────────────────────────────────

// ErrorResponse is the uniform failure envelope.  Error is a human-readable
// message; Suggestions lists up to five candidate compound names when a name
// lookup failed.
type ErrorResponse struct {
	Success     bool     `json:"success"`
	Error       string   `json:"error"`
	Suggestions []string `json:"suggestions,omitempty"`
}

// NewErrorResponse builds the standard failure envelope for a message.
func NewErrorResponse(message string) ErrorResponse {
	return ErrorResponse{Success: false, Error: message}
}

// WithSuggestions attaches candidate compound names to a failure envelope.
func (e ErrorResponse) WithSuggestions(names []string) ErrorResponse {
	e.Suggestions = names
	return e
}

// AnalyzeResponse is the envelope for POST /api/analyze.  On success Data is
// set and the error fields are absent; on failure the shape matches
// ErrorResponse.  Clients decode this superset and branch on Success.
type AnalyzeResponse struct {
	Success     bool              `json:"success"`
	Data        *CompoundAnalysis `json:"data,omitempty"`
	Error       string            `json:"error,omitempty"`
	Suggestions []string          `json:"suggestions,omitempty"`
}

// ValidateSMILESResponse is the envelope for POST /api/validate-smiles.
type ValidateSMILESResponse struct {
	Success    bool              `json:"success"`
	Valid      bool              `json:"valid"`
	SMILES     string            `json:"smiles"`
	Validation *SMILESValidation `json:"validation,omitempty"`
	Error      string            `json:"error,omitempty"`
}

// CompoundsResponse is the envelope for GET /api/compounds.
type CompoundsResponse struct {
	Success   bool     `json:"success"`
	Compounds []string `json:"compounds"`
	Count     int      `json:"count"`
	Error     string   `json:"error,omitempty"`
}

// CompareResponse is the envelope for POST /api/compare.
type CompareResponse struct {
	Success     bool              `json:"success"`
	Data        *SimilarityReport `json:"data,omitempty"`
	Error       string            `json:"error,omitempty"`
	Suggestions []string          `json:"suggestions,omitempty"`
}

// HealthResponse is the liveness payload for GET /api/health.  It is always
// served with HTTP 200 while the process is up; EngineReady distinguishes a
// fully initialized engine from one still loading.
type HealthResponse struct {
	Status             string `json:"status"`
	Message            string `json:"message"`
	EngineReady        bool   `json:"engineReady"`
	CompoundsAvailable int    `json:"compoundsAvailable"`
	Version            string `json:"version"`
}
