package conformer

import (
	"context"
	"fmt"
	"hash/fnv"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/moleculab/chemalyzer/internal/domain/molecule"
	"github.com/moleculab/chemalyzer/internal/infrastructure/monitoring/logging"
	apperrors "github.com/moleculab/chemalyzer/pkg/errors"
)

// Defaults applied when Options fields are left zero.
const (
	DefaultMaxAtoms      = 200
	DefaultMaxIterations = 500
	DefaultWorkers       = 4
	DefaultTimeout       = 10 * time.Second
)

// Options bound the work a single conformer request may consume.
type Options struct {
	// MaxAtoms caps the hydrogen-expanded atom count.  Larger
	// structures are rejected before any embedding work starts.
	MaxAtoms int

	// MaxIterations bounds each minimization pass.
	MaxIterations int

	// Workers caps concurrent embeddings process-wide.
	Workers int

	// Timeout bounds one generation end to end, including time spent
	// waiting for a worker slot.
	Timeout time.Duration
}

func (o Options) withDefaults() Options {
	if o.MaxAtoms <= 0 {
		o.MaxAtoms = DefaultMaxAtoms
	}
	if o.MaxIterations <= 0 {
		o.MaxIterations = DefaultMaxIterations
	}
	if o.Workers <= 0 {
		o.Workers = DefaultWorkers
	}
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	return o
}

// Generator produces 3D structure blocks.  Embedding is the only
// expensive stage of an analysis, so a weighted semaphore admits at
// most Workers embeddings at once; callers beyond that wait in Acquire
// until a slot frees or their deadline passes.
type Generator struct {
	opts  Options
	slots *semaphore.Weighted
	log   logging.Logger
}

// NewGenerator builds a Generator with the given bounds.  A nil logger
// falls back to the no-op logger.
func NewGenerator(opts Options, log logging.Logger) *Generator {
	opts = opts.withDefaults()
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &Generator{
		opts:  opts,
		slots: semaphore.NewWeighted(int64(opts.Workers)),
		log:   log.Named("conformer"),
	}
}

// Generate builds one conformer for the molecule and returns it as a
// V2000 block.  The embedding seed derives from the canonical SMILES,
// so identical structures always produce identical geometry; a
// non-converging minimization is retried once from the successor seed
// before the generator gives up.
func (g *Generator) Generate(ctx context.Context, m *molecule.Molecule) (string, error) {
	s := expand(m)
	if n := len(s.sites); n > g.opts.MaxAtoms {
		return "", apperrors.ConformerFailed(
			fmt.Sprintf("structure has %d atoms after hydrogen expansion, limit is %d", n, g.opts.MaxAtoms))
	}

	ctx, cancel := context.WithTimeout(ctx, g.opts.Timeout)
	defer cancel()
	if err := g.slots.Acquire(ctx, 1); err != nil {
		return "", apperrors.ConformerFailed("no embedding slot became available").WithCause(err)
	}
	defer g.slots.Release(1)

	seed := structureSeed(m.CanonicalSMILES())
	f := buildField(s)
	for attempt := 0; attempt < 2; attempt++ {
		if err := ctx.Err(); err != nil {
			return "", apperrors.ConformerFailed("conformer generation timed out").WithCause(err)
		}
		pos := s.embed(seed + int64(attempt))
		if f.minimize(pos, g.opts.MaxIterations) {
			return molBlock(m.Formula(), s, pos), nil
		}
		if attempt == 0 {
			g.log.Warn("minimization did not converge, retrying from successor seed",
				logging.String("smiles", m.CanonicalSMILES()),
				logging.Int64("seed", seed))
		}
	}
	return "", apperrors.ConformerFailed("minimization failed to converge after retry")
}

// structureSeed derives the deterministic embedding seed for a
// canonical SMILES string.
func structureSeed(canonical string) int64 {
	h := fnv.New64a()
	h.Write([]byte(canonical))
	return int64(h.Sum64())
}
