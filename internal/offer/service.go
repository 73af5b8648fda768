package offer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fbts/job-offer/internal/salary"
	"github.com/fbts/job-offer/internal/structure"
	"github.com/fbts/job-offer/pkg/constants"
	"github.com/fbts/job-offer/pkg/words"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ErrNoProvider is returned when an offer needs a salary structure but the
// service was built without a provider.
var ErrNoProvider = errors.New("no salary structure provider configured")

// Options controls Prepare.
type Options struct {
	// Mode overrides the offer's own structure mode when set.
	Mode Mode
	// Concurrency bounds PrepareAll; non-positive uses the default.
	Concurrency int
}

// Prepared is an offer after structure application and recomputation.
// CTCInWords is empty when the annual CTC is beyond what can be spelled.
type Prepared struct {
	Offer      JobOffer      `json:"offer"`
	Recompute  salary.Result `json:"recompute"`
	Summary    Summary       `json:"summary"`
	CTCInWords string        `json:"ctc_in_words"`
}

// Service prepares offers against a structure provider.
type Service struct {
	logger     *zap.Logger
	structures structure.Provider
	engine     *salary.Engine
}

// NewService creates a Service. structures may be nil when offers never
// reference a structure.
func NewService(logger *zap.Logger, structures structure.Provider) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		logger:     logger,
		structures: structures,
		engine:     salary.NewEngine(logger),
	}
}

func (s *Service) mode(o *JobOffer, opts Options) (Mode, error) {
	if opts.Mode != "" {
		return ParseMode(string(opts.Mode))
	}
	return ParseMode(o.StructureMode)
}

// Prepare applies the offer's salary structure according to the mode, fills
// blank amounts and summarises the result. The input offer is not modified.
// Overwriting with no structure name clears both tables.
func (s *Service) Prepare(ctx context.Context, in JobOffer, opts Options) (*Prepared, error) {
	o := in.Clone()
	mode, err := s.mode(&o, opts)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(o.SalaryStructure)
	switch {
	case mode == ModeNone:
	case name == "" && mode == ModeOverwrite:
		ClearStructure(&o)
	case name == "":
	case s.structures == nil:
		return nil, fmt.Errorf("offer %s: %w", o.Title(), ErrNoProvider)
	default:
		st, err := s.structures.Lookup(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("offer %s: %w", o.Title(), err)
		}
		ApplyStructure(&o, st, mode)
	}

	start := time.Now()
	result := s.engine.RecomputeAllBlankAmounts(&o.Document)
	summary := Summarize(&o)

	s.logger.Debug("prepared job offer",
		zap.String("op", "offer.Service.Prepare"),
		zap.String("offer", o.Title()),
		zap.String("mode", string(mode)),
		zap.Int("passes", result.Passes),
		zap.Int("computed", result.Computed),
		zap.Int("warnings", len(result.Warnings)),
		zap.Duration("duration", time.Since(start)),
	)

	ctcWords, err := words.Money(summary.Totals.CTC.Annual, words.OptionsFor(o.Currency))
	if err != nil {
		s.logger.Warn("annual CTC cannot be spelled out",
			zap.String("op", "offer.Service.Prepare"),
			zap.String("offer", o.Title()),
			zap.Error(err),
		)
	}

	return &Prepared{
		Offer:      o,
		Recompute:  result,
		Summary:    summary,
		CTCInWords: ctcWords,
	}, nil
}

// PrepareAll prepares offers concurrently and returns them in input order.
// The first failure cancels the remaining work.
func (s *Service) PrepareAll(ctx context.Context, offers []JobOffer, opts Options) ([]*Prepared, error) {
	limit := opts.Concurrency
	if limit <= 0 {
		limit = constants.DefaultBatchConcurrency
	}

	results := make([]*Prepared, len(offers))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i := range offers {
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			p, err := s.Prepare(gctx, offers[i], opts)
			if err != nil {
				return err
			}
			results[i] = p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
