package analysis

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moleculab/chemalyzer/internal/config"
	"github.com/moleculab/chemalyzer/internal/domain/conformer"
	"github.com/moleculab/chemalyzer/internal/domain/molecule"
	"github.com/moleculab/chemalyzer/internal/infrastructure/cache"
	apperrors "github.com/moleculab/chemalyzer/pkg/errors"
	types "github.com/moleculab/chemalyzer/pkg/types/analysis"
)

const aspirinSMILES = "CC(=O)OC1=CC=CC=C1C(=O)O"

// fastEngineConfig skips 3D generation so pipeline tests stay in the
// millisecond range.
func fastEngineConfig() config.EngineConfig {
	return config.EngineConfig{MaxSMILESLength: 500, Disable3D: true}
}

func newTestService(deps Dependencies) Service {
	return NewService(fastEngineConfig(), deps)
}

// ─────────────────────────────────────────────────────────────────────────────
// Analyze
// ─────────────────────────────────────────────────────────────────────────────

func TestService_AnalyzeAspirinByName(t *testing.T) {
	svc := newTestService(Dependencies{})

	rec, err := svc.Analyze(context.Background(), "aspirin")
	require.NoError(t, err)

	assert.Equal(t, aspirinSMILES, rec.SMILES)
	assert.Equal(t, "Aspirin", rec.Name)
	assert.Equal(t, "C9H8O4", rec.Formula)
	assert.Equal(t, "2-acetoxybenzoic acid", rec.IUPACName)

	assert.InDelta(t, 180.16, rec.Properties.MolecularWeight, 0.001)
	assert.InDelta(t, 63.60, rec.Properties.PolarSurfaceArea, 0.001)
	assert.Equal(t, 1, rec.Properties.HBondDonors)
	assert.Equal(t, 4, rec.Properties.HBondAcceptors)
	assert.Equal(t, 3, rec.Properties.RotatableBonds)
	assert.Equal(t, 13, rec.Properties.HeavyAtomCount)
	assert.Equal(t, 1, rec.Properties.RingCount)
	assert.Equal(t, 1, rec.Properties.AromaticRings)
	assert.Equal(t, 4, rec.Properties.HeteroAtoms)

	assert.Equal(t, 0, rec.DrugLikeness.LipinskiViolations)
	assert.Equal(t, 0, rec.DrugLikeness.VeberViolations)
	assert.True(t, rec.DrugLikeness.DrugLikeness)

	assert.Equal(t, "Likely", rec.ADMET.BloodBrainBarrier)
	assert.Equal(t, "High", rec.ADMET.HumanIntestinalAbsorption)
	assert.NotNil(t, rec.ADMET.CYP450Inhibition)
	assert.Empty(t, rec.ADMET.CYP450Inhibition)
	assert.Equal(t, "Low", rec.ADMET.Toxicity)

	assert.Equal(t,
		[]string{"hydroxyl", "carboxyl", "carbonyl", "ester", "phenyl", "methyl"},
		rec.FunctionalGroups)

	assert.Empty(t, rec.Structure3D, "3D generation is disabled in this configuration")
}

func TestService_AnalyzeBenzeneFixedPoint(t *testing.T) {
	svc := newTestService(Dependencies{})

	rec, err := svc.Analyze(context.Background(), "benzene")
	require.NoError(t, err)

	assert.Equal(t, "c1ccccc1", rec.SMILES)
	assert.Equal(t, "Benzene", rec.Name)
	assert.Equal(t, 1, rec.Properties.RingCount)
	assert.Equal(t, 1, rec.Properties.AromaticRings)
	assert.Equal(t, 6, rec.Properties.HeavyAtomCount)
}

func TestService_AnalyzeLiteralSMILESReportsUnknownName(t *testing.T) {
	svc := newTestService(Dependencies{})

	rec, err := svc.Analyze(context.Background(), "CCCO")
	require.NoError(t, err)

	assert.Equal(t, "CCCO", rec.SMILES)
	assert.Equal(t, "Unknown Compound", rec.Name)
	assert.Empty(t, rec.IUPACName)
	assert.Equal(t, "C3H8O", rec.Formula)
}

func TestService_AnalyzeUnbalancedParentheses(t *testing.T) {
	svc := newTestService(Dependencies{})

	rec, err := svc.Analyze(context.Background(), "C(((")
	assert.Nil(t, rec)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeSMILESSyntax))
	assert.Contains(t, err.Error(), "parenthes")
}

func TestService_AnalyzeEmptyQuery(t *testing.T) {
	svc := newTestService(Dependencies{})

	_, err := svc.Analyze(context.Background(), "   ")
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeEmptyQuery))
}

func TestService_AnalyzeUnknownCompound(t *testing.T) {
	svc := newTestService(Dependencies{})

	_, err := svc.Analyze(context.Background(), "xyzzy")
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeUnknownCompound))
}

func TestService_AnalyzeEnforcesSMILESLengthLimit(t *testing.T) {
	svc := NewService(config.EngineConfig{MaxSMILESLength: 10, Disable3D: true}, Dependencies{})

	_, err := svc.Analyze(context.Background(), aspirinSMILES)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeInvalidParam))
	assert.Contains(t, err.Error(), "limit is 10")
}

func TestService_AnalyzeWith3DProducesMolBlock(t *testing.T) {
	svc := NewService(config.EngineConfig{MaxSMILESLength: 500}, Dependencies{})

	rec, err := svc.Analyze(context.Background(), "benzene")
	require.NoError(t, err)

	assert.Contains(t, rec.Structure3D, "V2000")
	assert.Contains(t, rec.Structure3D, "M  END")
}

func TestService_AnalyzePartialRecordOnConformerFailure(t *testing.T) {
	// An atom budget of one rejects every real molecule, so the conformer
	// stage fails deterministically.
	svc := NewService(config.EngineConfig{MaxSMILESLength: 500}, Dependencies{
		Conformer: conformer.NewGenerator(conformer.Options{MaxAtoms: 1}, nil),
	})

	rec, err := svc.Analyze(context.Background(), "aspirin")
	require.NoError(t, err, "a conformer failure must not fail the analysis")

	assert.Empty(t, rec.Structure3D)
	assert.Equal(t, "C9H8O4", rec.Formula)
	assert.Equal(t, 0, rec.DrugLikeness.LipinskiViolations)
}

func TestService_AnalyzeDeterministicUnderConcurrency(t *testing.T) {
	svc := NewService(config.EngineConfig{MaxSMILESLength: 500}, Dependencies{})

	const callers = 4
	records := make([]*types.CompoundAnalysis, callers)
	errs := make([]error, callers)

	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			records[i], errs[i] = svc.Analyze(context.Background(), "aspirin")
		}(i)
	}
	wg.Wait()

	require.NoError(t, errs[0])
	want, err := json.Marshal(records[0])
	require.NoError(t, err)
	for i := 1; i < callers; i++ {
		require.NoError(t, errs[i])
		got, err := json.Marshal(records[i])
		require.NoError(t, err)
		assert.Equal(t, string(want), string(got), "caller %d received a different record", i)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Caching
// ─────────────────────────────────────────────────────────────────────────────

func TestService_AnalyzeStoresRecordInCache(t *testing.T) {
	store := cache.NewMemory(16, time.Minute)
	svc := newTestService(Dependencies{Cache: store})

	rec, err := svc.Analyze(context.Background(), "CCCO")
	require.NoError(t, err)

	m, err := molecule.ParseSMILES("CCCO")
	require.NoError(t, err)

	var cached types.CompoundAnalysis
	require.NoError(t, store.Get(context.Background(), m.CanonicalSMILES(), &cached))
	assert.Equal(t, rec.Formula, cached.Formula)
	assert.Equal(t, rec.Properties, cached.Properties)
}

func TestService_AnalyzeEquivalentSpellingsShareComputation(t *testing.T) {
	store := cache.NewMemory(16, time.Minute)
	svc := newTestService(Dependencies{Cache: store})

	first, err := svc.Analyze(context.Background(), "CCCO")
	require.NoError(t, err)
	second, err := svc.Analyze(context.Background(), "OCCC")
	require.NoError(t, err)

	// The second spelling hits the cache entry of the first; the identity
	// fields still reflect the request as written.
	assert.Equal(t, "OCCC", second.SMILES)
	assert.Equal(t, first.Formula, second.Formula)
	assert.Equal(t, first.Properties, second.Properties)
	assert.Equal(t, first.DrugLikeness, second.DrugLikeness)
}

func TestService_AnalyzeSurvivesNopCache(t *testing.T) {
	svc := newTestService(Dependencies{Cache: cache.NewNop()})

	for i := 0; i < 2; i++ {
		rec, err := svc.Analyze(context.Background(), "aspirin")
		require.NoError(t, err)
		assert.Equal(t, "C9H8O4", rec.Formula)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// ValidateSMILES
// ─────────────────────────────────────────────────────────────────────────────

func TestService_ValidateSMILES(t *testing.T) {
	svc := newTestService(Dependencies{})

	tests := []struct {
		name      string
		smiles    string
		valid     bool
		wantError string
	}{
		{"aspirin", aspirinSMILES, true, ""},
		{"trimmed input", "  CCO  ", true, ""},
		{"too short", "C", false, "SMILES string too short"},
		{"unbalanced parentheses", "C(((", false, "Unbalanced parentheses in SMILES"},
		{"unbalanced brackets", "[CH4(C)", false, "Unbalanced brackets in SMILES"},
		{"no atoms", "1234", false, "No recognizable atom symbols found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			valid, details := svc.ValidateSMILES(context.Background(), tt.smiles)
			assert.Equal(t, tt.valid, valid)
			require.NotNil(t, details)
			assert.Equal(t, tt.valid, details.Valid)
			if tt.wantError != "" {
				assert.Equal(t, tt.wantError, details.Error)
				assert.NotEmpty(t, details.Suggestions)
			}
		})
	}
}

func TestService_ValidateSMILESValenceFailure(t *testing.T) {
	svc := newTestService(Dependencies{})

	// Five substituents on one carbon pass the cheap format screen but fail
	// chemical validation.
	valid, details := svc.ValidateSMILES(context.Background(), "C(C)(C)(C)(C)C")
	assert.False(t, valid)
	require.NotNil(t, details)
	assert.False(t, details.Valid)
	assert.NotEmpty(t, details.Error)
	assert.Contains(t, details.Suggestions, "Check bond orders and formal charges")
}

// ─────────────────────────────────────────────────────────────────────────────
// Compare
// ─────────────────────────────────────────────────────────────────────────────

func TestService_CompareIdenticalStructuresScoreOne(t *testing.T) {
	svc := newTestService(Dependencies{})

	report, err := svc.Compare(context.Background(), "aspirin", aspirinSMILES)
	require.NoError(t, err)

	assert.Equal(t, 1.0, report.Tanimoto)
	assert.Equal(t, 1.0, report.Dice)
	assert.Equal(t, "identical", report.Similarity)
	assert.Equal(t, "Aspirin", report.Query1.Name)
	assert.Equal(t, "Unknown Compound", report.Query2.Name)
	assert.Equal(t, "C9H8O4", report.Query1.Formula)
	assert.Equal(t, report.Query1.Formula, report.Query2.Formula)
}

func TestService_CompareRelatedStructures(t *testing.T) {
	svc := newTestService(Dependencies{})

	report, err := svc.Compare(context.Background(), "c1ccccc1", "Cc1ccccc1")
	require.NoError(t, err)

	assert.Greater(t, report.Tanimoto, 0.0)
	assert.Less(t, report.Tanimoto, 1.0)
	assert.GreaterOrEqual(t, report.Dice, report.Tanimoto)
	assert.NotEmpty(t, report.Similarity)
}

func TestService_CompareUnknownCompoundFails(t *testing.T) {
	svc := newTestService(Dependencies{})

	_, err := svc.Compare(context.Background(), "xyzzy", "benzene")
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeUnknownCompound))
}

// ─────────────────────────────────────────────────────────────────────────────
// Library access
// ─────────────────────────────────────────────────────────────────────────────

func TestService_CompoundsAndReadiness(t *testing.T) {
	svc := newTestService(Dependencies{})

	names := svc.Compounds()
	assert.GreaterOrEqual(t, len(names), 35)
	assert.Equal(t, len(names), svc.CompoundCount())
	assert.True(t, svc.Ready())
	assert.Contains(t, names, "aspirin")
}

func TestService_SuggestForMisspelledQuery(t *testing.T) {
	svc := newTestService(Dependencies{})

	hints := svc.Suggest("aspir")
	assert.Contains(t, hints, "aspirin")
	assert.LessOrEqual(t, len(hints), 5)
}
