// Package analysis provides the application-level service for compound
// analysis operations.  It orchestrates the domain pipeline — query
// resolution, graph parsing, descriptor computation, screening, conformer
// generation — and assembles the immutable result record handed to the
// HTTP and CLI layers.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/moleculab/chemalyzer/internal/config"
	"github.com/moleculab/chemalyzer/internal/domain/compound"
	"github.com/moleculab/chemalyzer/internal/domain/conformer"
	"github.com/moleculab/chemalyzer/internal/domain/descriptor"
	"github.com/moleculab/chemalyzer/internal/domain/molecule"
	"github.com/moleculab/chemalyzer/internal/domain/screening"
	"github.com/moleculab/chemalyzer/internal/infrastructure/cache"
	"github.com/moleculab/chemalyzer/internal/infrastructure/monitoring/logging"
	"github.com/moleculab/chemalyzer/internal/infrastructure/monitoring/prometheus"
	apperrors "github.com/moleculab/chemalyzer/pkg/errors"
	types "github.com/moleculab/chemalyzer/pkg/types/analysis"
)

// Metric label values and component names used by the service.
const (
	cacheName = "analysis"

	outcomeOK      = "ok"
	outcomePartial = "partial"
	outcomeError   = "error"

	conformerOK      = "ok"
	conformerTimeout = "timeout"
	conformerFailed  = "failed"

	componentResolver  = "resolver"
	componentParser    = "parser"
	componentConformer = "conformer"
	componentEngine    = "engine"
)

// Service defines the interface for compound analysis application operations.
type Service interface {
	// Analyze resolves a query to a structure and runs the full analysis
	// pipeline over it.  Conformer failures degrade the record to an empty
	// Structure3D instead of failing the request.
	Analyze(ctx context.Context, query string) (*types.CompoundAnalysis, error)

	// ValidateSMILES reports whether a SMILES string parses into a
	// chemically valid structure, along with the first structural defect
	// found by the cheap pre-parse checks.
	ValidateSMILES(ctx context.Context, smiles string) (bool, *types.SMILESValidation)

	// Compare resolves two queries and scores their structural similarity
	// by hashed fingerprint comparison.
	Compare(ctx context.Context, query1, query2 string) (*types.SimilarityReport, error)

	// Compounds returns the sorted names of every known compound.
	Compounds() []string

	// CompoundCount returns the size of the compound library.
	CompoundCount() int

	// Ready reports whether the engine can serve analyses.
	Ready() bool

	// Suggest returns up to five candidate compound names for a query that
	// failed to resolve.
	Suggest(query string) []string
}

// Dependencies collects the collaborators a Service needs.  Nil fields fall
// back to no-op or default implementations, which keeps construction in
// tests to one line.
type Dependencies struct {
	Library   *compound.Library
	Resolver  *compound.Resolver
	Conformer *conformer.Generator
	Cache     cache.Store
	Metrics   *prometheus.EngineMetrics
	Logger    logging.Logger
}

// serviceImpl implements the Service interface.
type serviceImpl struct {
	cfg       config.EngineConfig
	library   *compound.Library
	resolver  *compound.Resolver
	conformer *conformer.Generator
	cache     cache.Store
	metrics   *prometheus.EngineMetrics
	log       logging.Logger

	// flight collapses concurrent computations for the same canonical
	// SMILES into one; every waiter shares the winner's record.
	flight singleflight.Group
}

// NewService creates a new analysis application service.
func NewService(cfg config.EngineConfig, deps Dependencies) Service {
	log := deps.Logger
	if log == nil {
		log = logging.NewNopLogger()
	}
	log = log.Named("analysis")

	lib := deps.Library
	if lib == nil {
		lib = compound.NewLibrary(log)
	}
	res := deps.Resolver
	if res == nil {
		res = compound.NewResolver(lib, log)
	}
	gen := deps.Conformer
	if gen == nil {
		gen = conformer.NewGenerator(conformer.Options{
			MaxAtoms:      cfg.Conformer.MaxAtoms,
			MaxIterations: cfg.Conformer.MaxIterations,
			Workers:       cfg.Conformer.Workers,
			Timeout:       cfg.Conformer.Timeout,
		}, log)
	}
	store := deps.Cache
	if store == nil {
		store = cache.NewNop()
	}
	metrics := deps.Metrics
	if metrics == nil {
		metrics = prometheus.NewNopEngineMetrics()
	}

	return &serviceImpl{
		cfg:       cfg,
		library:   lib,
		resolver:  res,
		conformer: gen,
		cache:     store,
		metrics:   metrics,
		log:       log,
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Analyze
// ─────────────────────────────────────────────────────────────────────────────

func (s *serviceImpl) Analyze(ctx context.Context, query string) (*types.CompoundAnalysis, error) {
	start := time.Now()
	s.metrics.AnalysesInFlight.WithLabelValues().Inc()
	defer s.metrics.AnalysesInFlight.WithLabelValues().Dec()

	res, m, err := s.resolveAndParse(query)
	if err != nil {
		s.metrics.RecordAnalysis(outcomeError, false, time.Since(start))
		return nil, err
	}

	canonical := m.CanonicalSMILES()
	if rec, ok := s.fromCache(ctx, canonical); ok {
		applyIdentity(rec, res)
		s.metrics.RecordAnalysis(s.outcome(rec), true, time.Since(start))
		return rec, nil
	}

	v, err, _ := s.flight.Do(canonical, func() (interface{}, error) {
		return s.compute(ctx, m, canonical)
	})
	if err != nil {
		s.metrics.RecordError(componentEngine, apperrors.GetCode(err).String())
		s.metrics.RecordAnalysis(outcomeError, false, time.Since(start))
		return nil, err
	}

	// Waiters share the winner's record; each caller receives its own copy
	// so the identity overlay cannot race.
	rec := *(v.(*types.CompoundAnalysis))
	applyIdentity(&rec, res)
	s.metrics.RecordAnalysis(s.outcome(&rec), false, time.Since(start))
	return &rec, nil
}

// resolveAndParse turns a raw query into a validated molecular graph.
func (s *serviceImpl) resolveAndParse(query string) (compound.Resolution, *molecule.Molecule, error) {
	res, err := s.resolver.Resolve(query)
	if err != nil {
		s.metrics.RecordError(componentResolver, apperrors.GetCode(err).String())
		return compound.Resolution{}, nil, err
	}
	s.metrics.RecordResolution(string(res.Method))

	if s.cfg.MaxSMILESLength > 0 && len(res.SMILES) > s.cfg.MaxSMILESLength {
		err := apperrors.InvalidParam(fmt.Sprintf(
			"SMILES is %d characters long, the limit is %d", len(res.SMILES), s.cfg.MaxSMILESLength))
		s.metrics.RecordError(componentResolver, err.Code.String())
		return compound.Resolution{}, nil, err
	}

	m, err := molecule.ParseSMILES(res.SMILES)
	if err != nil {
		s.metrics.RecordError(componentParser, apperrors.GetCode(err).String())
		return compound.Resolution{}, nil, err
	}
	return res, m, nil
}

// compute runs the descriptor, screening, group-detection, and conformer
// stages and assembles the shared analysis record.  Identity fields (smiles,
// name, iupacName) are overlaid per caller afterwards, so equivalent inputs
// can share one computation.
func (s *serviceImpl) compute(ctx context.Context, m *molecule.Molecule, canonical string) (*types.CompoundAnalysis, error) {
	props := descriptor.Calculate(m)
	rules := screening.EvaluateDrugLikeness(props)
	admet := screening.PredictADMET(m, props)
	groups := molecule.DetectFunctionalGroups(m)

	rec := &types.CompoundAnalysis{
		SMILES:  m.SMILES,
		Formula: m.Formula(),
		Properties: types.MolecularProperties{
			MolecularWeight:  round2(props.MolecularWeight),
			LogP:             round2(props.LogP),
			HBondDonors:      props.HBondDonors,
			HBondAcceptors:   props.HBondAcceptors,
			RotatableBonds:   props.RotatableBonds,
			PolarSurfaceArea: round2(props.PolarSurfaceArea),
			HeavyAtomCount:   props.HeavyAtomCount,
			RingCount:        props.RingCount,
			AromaticRings:    props.AromaticRings,
			HeteroAtoms:      props.Heteroatoms,
		},
		DrugLikeness: types.DrugLikeness{
			LipinskiViolations: rules.LipinskiViolations,
			VeberViolations:    rules.VeberViolations,
			LeadLikeness:       rules.LeadLikeness,
			DrugLikeness:       rules.DrugLikeness,
		},
		ADMET: types.ADMETPrediction{
			BloodBrainBarrier:         admet.BloodBrainBarrier,
			HumanIntestinalAbsorption: admet.HumanIntestinalAbsorption,
			CYP450Inhibition:          admet.CYP450Inhibition,
			Toxicity:                  admet.Toxicity,
		},
		FunctionalGroups: groups,
	}

	cacheable := true
	if !s.cfg.Disable3D {
		block, err := s.generate3D(ctx, m, canonical)
		if err != nil {
			// Timeouts depend on load, not chemistry; only deterministic
			// failures are worth remembering until the TTL expires.
			if errors.Is(err, context.DeadlineExceeded) {
				cacheable = false
			}
		} else {
			rec.Structure3D = block
		}
	}

	if cacheable {
		if err := s.cache.Set(ctx, canonical, rec); err != nil {
			s.log.Warn("caching analysis failed",
				logging.String("key", canonical), logging.Err(err))
		}
	}
	return rec, nil
}

// generate3D runs the conformer stage.  A failure is logged and recorded,
// never surfaced: the analysis is returned without a 3D block.
func (s *serviceImpl) generate3D(ctx context.Context, m *molecule.Molecule, canonical string) (string, error) {
	start := time.Now()
	s.metrics.ConformerActive.WithLabelValues().Inc()
	block, err := s.conformer.Generate(ctx, m)
	s.metrics.ConformerActive.WithLabelValues().Dec()

	if err != nil {
		outcome := conformerFailed
		if errors.Is(err, context.DeadlineExceeded) {
			outcome = conformerTimeout
		}
		s.metrics.RecordConformer(outcome, time.Since(start))
		s.metrics.RecordError(componentConformer, apperrors.GetCode(err).String())
		s.log.Warn("conformer generation failed, returning analysis without 3D structure",
			logging.String("smiles", canonical), logging.Err(err))
		return "", err
	}
	s.metrics.RecordConformer(conformerOK, time.Since(start))
	return block, nil
}

// fromCache fetches a previously computed record.  Backend failures count as
// misses so that a broken cache degrades throughput, not availability.
func (s *serviceImpl) fromCache(ctx context.Context, key string) (*types.CompoundAnalysis, bool) {
	var rec types.CompoundAnalysis
	err := s.cache.Get(ctx, key, &rec)
	switch {
	case err == nil:
		s.metrics.RecordCacheAccess(cacheName, true)
		return &rec, true
	case errors.Is(err, cache.ErrCacheMiss):
		s.metrics.RecordCacheAccess(cacheName, false)
	default:
		s.metrics.RecordCacheAccess(cacheName, false)
		s.log.Warn("analysis cache lookup failed",
			logging.String("key", key), logging.Err(err))
	}
	return nil, false
}

// applyIdentity overlays the per-request identity on a shared record.  The
// computed science is identical for every spelling of the same structure;
// the display fields are not.
func applyIdentity(rec *types.CompoundAnalysis, res compound.Resolution) {
	rec.SMILES = res.SMILES
	rec.Name = res.Name
	rec.IUPACName = res.IUPAC
}

// outcome classifies a finished record for the analyses_total metric.
func (s *serviceImpl) outcome(rec *types.CompoundAnalysis) string {
	if rec.Structure3D == "" && !s.cfg.Disable3D {
		return outcomePartial
	}
	return outcomeOK
}

// ─────────────────────────────────────────────────────────────────────────────
// ValidateSMILES
// ─────────────────────────────────────────────────────────────────────────────

func (s *serviceImpl) ValidateSMILES(_ context.Context, smiles string) (bool, *types.SMILESValidation) {
	smiles = strings.TrimSpace(smiles)

	details := checkSMILESFormat(smiles)
	if !details.Valid {
		return false, details
	}
	if _, err := molecule.ParseSMILES(smiles); err != nil {
		return false, parseFailureValidation(err)
	}
	return true, details
}

// checkSMILESFormat runs the cheap structural screening applied before a full
// parse and reports the first defect found, with hints on fixing the input.
func checkSMILESFormat(smiles string) *types.SMILESValidation {
	switch {
	case len(smiles) < 2:
		return &types.SMILESValidation{
			Valid:       false,
			Error:       "SMILES string too short",
			Suggestions: []string{"Try a longer SMILES string", "Use a compound name instead"},
		}
	case strings.Count(smiles, "(") != strings.Count(smiles, ")"):
		return &types.SMILESValidation{
			Valid:       false,
			Error:       "Unbalanced parentheses in SMILES",
			Suggestions: []string{"Check parentheses are properly closed"},
		}
	case strings.Count(smiles, "[") != strings.Count(smiles, "]"):
		return &types.SMILESValidation{
			Valid:       false,
			Error:       "Unbalanced brackets in SMILES",
			Suggestions: []string{"Check brackets are properly closed"},
		}
	case !strings.ContainsAny(smiles, "BCNOPSFIbcnops"):
		return &types.SMILESValidation{
			Valid:       false,
			Error:       "No recognizable atom symbols found",
			Suggestions: []string{"Include common atoms like C, N, O, S"},
		}
	}
	return &types.SMILESValidation{Valid: true}
}

// parseFailureValidation turns a parse error into validation feedback.
func parseFailureValidation(err error) *types.SMILESValidation {
	v := &types.SMILESValidation{Valid: false, Error: userMessage(err)}
	switch apperrors.GetCode(err) {
	case apperrors.CodeSMILESSyntax:
		v.Suggestions = []string{"Check ring closure digits and branch parentheses"}
	case apperrors.CodeValence:
		v.Suggestions = []string{"Check bond orders and formal charges"}
	}
	return v
}

// ─────────────────────────────────────────────────────────────────────────────
// Compare
// ─────────────────────────────────────────────────────────────────────────────

func (s *serviceImpl) Compare(ctx context.Context, query1, query2 string) (*types.SimilarityReport, error) {
	left, lm, err := s.resolveAndParse(query1)
	if err != nil {
		return nil, err
	}
	right, rm, err := s.resolveAndParse(query2)
	if err != nil {
		return nil, err
	}

	lfp := molecule.ComputeFingerprint(lm)
	rfp := molecule.ComputeFingerprint(rm)
	tanimoto, err := molecule.Tanimoto(lfp, rfp)
	if err != nil {
		s.metrics.RecordError(componentEngine, apperrors.GetCode(err).String())
		return nil, err
	}
	dice, err := molecule.Dice(lfp, rfp)
	if err != nil {
		s.metrics.RecordError(componentEngine, apperrors.GetCode(err).String())
		return nil, err
	}

	return &types.SimilarityReport{
		Query1: types.ComparedCompound{
			SMILES:  left.SMILES,
			Name:    left.Name,
			Formula: lm.Formula(),
		},
		Query2: types.ComparedCompound{
			SMILES:  right.SMILES,
			Name:    right.Name,
			Formula: rm.Formula(),
		},
		Tanimoto:   round4(tanimoto),
		Dice:       round4(dice),
		Similarity: molecule.ClassifySimilarity(tanimoto),
	}, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Library access
// ─────────────────────────────────────────────────────────────────────────────

func (s *serviceImpl) Compounds() []string { return s.library.Names() }

func (s *serviceImpl) CompoundCount() int { return s.library.Len() }

func (s *serviceImpl) Ready() bool { return s.library.Len() > 0 }

func (s *serviceImpl) Suggest(query string) []string { return s.resolver.Suggest(query) }

// ─────────────────────────────────────────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────────────────────────────────────────

func round2(v float64) float64 { return math.Round(v*100) / 100 }

func round4(v float64) float64 { return math.Round(v*10000) / 10000 }

// userMessage strips the error-code prefix from an AppError for display.
func userMessage(err error) string {
	var ae *apperrors.AppError
	if errors.As(err, &ae) {
		return ae.Message
	}
	return err.Error()
}
