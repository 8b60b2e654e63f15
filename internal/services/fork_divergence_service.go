package services

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/thomas-vilte/forkdiff/internal/dedup"
	domainErrors "github.com/thomas-vilte/forkdiff/internal/errors"
	"github.com/thomas-vilte/forkdiff/internal/logger"
	"github.com/thomas-vilte/forkdiff/internal/marker"
	"github.com/thomas-vilte/forkdiff/internal/metrics"
	"github.com/thomas-vilte/forkdiff/internal/models"
	"github.com/thomas-vilte/forkdiff/internal/vcs"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultMaxRecords = 100
	DefaultPageSize   = 100
	maxPageSize       = 100

	// DefaultComparisonTimeout bounds one pair of comparisons, which keeps
	// running after a cancellation.
	DefaultComparisonTimeout = 2 * time.Minute
)

// ProgressReporter receives the progress of a run. Finish is called exactly
// once per run, on every exit path, after the final quota refresh.
type ProgressReporter interface {
	Start(total int)
	Update(processed, total int, quota models.QuotaSnapshot)
	Finish(quota models.QuotaSnapshot)
}

type noopProgress struct{}

func (noopProgress) Start(int) {}
func (noopProgress) Update(int, int, models.QuotaSnapshot) {}
func (noopProgress) Finish(models.QuotaSnapshot) {}

// RunOptions configures a single divergence run.
type RunOptions struct {
	Repository models.RepositoryRef
	// MaxRecords is the ceiling on the number of forks collected.
	MaxRecords int
	PageSize   int
	Dedup      dedup.Attributes
}

func (o RunOptions) withDefaults() RunOptions {
	if o.MaxRecords <= 0 {
		o.MaxRecords = DefaultMaxRecords
	}
	if o.PageSize <= 0 || o.PageSize > maxPageSize {
		o.PageSize = DefaultPageSize
	}
	return o
}

// ForkDivergenceService measures how far each fork of a repository has moved
// away from it, in both directions.
type ForkDivergenceService struct {
	source   vcs.ForkSource
	progress ProgressReporter
	recorder metrics.Recorder
	timeout  time.Duration
	now      func() time.Time
}

type DivergenceOption func(*ForkDivergenceService)

func WithProgressReporter(p ProgressReporter) DivergenceOption {
	return func(s *ForkDivergenceService) {
		if p != nil {
			s.progress = p
		}
	}
}

func WithDivergenceRecorder(r metrics.Recorder) DivergenceOption {
	return func(s *ForkDivergenceService) {
		if r != nil {
			s.recorder = r
		}
	}
}

func WithComparisonTimeout(d time.Duration) DivergenceOption {
	return func(s *ForkDivergenceService) {
		if d > 0 {
			s.timeout = d
		}
	}
}

func NewForkDivergenceService(source vcs.ForkSource, opts ...DivergenceOption) *ForkDivergenceService {
	s := &ForkDivergenceService{
		source:   source,
		progress: noopProgress{},
		recorder: metrics.NoopRecorder{},
		timeout:  DefaultComparisonTimeout,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run fetches the original repository, collects up to MaxRecords forks and
// computes the divergence markers of each one. Cancelling ctx stops the run
// between forks; the pair of comparisons in flight always completes, and the
// returned report is marked Cancelled. Failures fetching the original or a
// page of forks abort the run.
func (s *ForkDivergenceService) Run(ctx context.Context, opts RunOptions) (_ *models.DivergenceReport, runErr error) {
	opts = opts.withDefaults()
	ctx = logger.With(ctx, "run_id", uuid.NewString(), "repository", opts.Repository.String())
	log := logger.FromContext(ctx)

	// Requests already issued are never aborted by a cancellation.
	netCtx := context.WithoutCancel(ctx)

	report := &models.DivergenceReport{}
	started := s.now()
	defer func() {
		s.finish(netCtx, report, started)
		if runErr != nil {
			logger.Error(ctx, "divergence run failed", runErr)
		}
	}()

	log.Info("starting divergence run",
		"max_records", opts.MaxRecords,
		"page_size", opts.PageSize,
		"dedup_by_size", opts.Dedup.BySize,
		"dedup_by_push_date", opts.Dedup.ByPushDate)

	original, err := s.source.GetRepository(netCtx, opts.Repository)
	if err != nil {
		return nil, err
	}
	if !original.IsValid() {
		return nil, domainErrors.ErrRepositoryNotFound.
			WithContext("repository", opts.Repository.String())
	}
	original.DiffFromOriginal = marker.Zero()
	original.DiffToOriginal = marker.Zero()
	report.Original = *original

	forks, cancelled, err := s.collectForks(ctx, netCtx, opts)
	if err != nil {
		return nil, err
	}
	report.Forks = forks
	if cancelled {
		report.Cancelled = true
		return report, nil
	}

	s.compareAll(ctx, netCtx, report, opts)
	return report, nil
}

// collectForks pages through the fork collection until a page comes back
// empty or MaxRecords forks were collected. Records without a repository shape
// are dropped.
func (s *ForkDivergenceService) collectForks(ctx, netCtx context.Context, opts RunOptions) ([]models.ForkRecord, bool, error) {
	log := logger.FromContext(ctx)
	forks := make([]models.ForkRecord, 0, opts.MaxRecords)

	for page := 1; len(forks) < opts.MaxRecords; page++ {
		if ctx.Err() != nil {
			log.Info("run cancelled while paginating", "page", page, "collected", len(forks))
			return forks, true, nil
		}

		batch, err := s.source.ListForks(netCtx, opts.Repository, page, opts.PageSize)
		if err != nil {
			return nil, false, err
		}
		if len(batch) == 0 {
			break
		}

		for _, fork := range batch {
			if fork.IsValid() {
				forks = append(forks, fork)
			}
		}
		log.Debug("fetched forks page", "page", page, "count", len(batch), "total", len(forks))
	}

	if len(forks) > opts.MaxRecords {
		forks = forks[:opts.MaxRecords]
	}
	return forks, false, nil
}

func (s *ForkDivergenceService) compareAll(ctx, netCtx context.Context, report *models.DivergenceReport, opts RunOptions) {
	log := logger.FromContext(ctx)
	deduplicator := dedup.New(opts.Dedup)
	total := len(report.Forks)
	if !opts.Dedup.Enabled() {
		log.Debug("deduplication disabled, every fork is compared")
	}

	s.progress.Start(total)

	for i := range report.Forks {
		if ctx.Err() != nil {
			report.Cancelled = true
			log.Info("run cancelled", "processed", report.Processed, "remaining", total-i)
			for range report.Forks[i:] {
				s.recorder.IncFork(metrics.ForkSkipped)
			}
			break
		}

		fork := &report.Forks[i]
		if deduplicator.Lookup(fork) {
			report.DedupHits++
			s.recorder.IncFork(metrics.ForkDeduplicated)
			log.Debug("reusing divergence of an equivalent fork", "fork", fork.FullName)
		} else if s.comparePair(netCtx, &report.Original, fork) {
			// Zero markers of an exhausted quota must not be reused.
			report.RateLimited++
			s.recorder.IncFork(metrics.ForkRateLimited)
		} else {
			deduplicator.Record(fork)
			s.recorder.IncFork(metrics.ForkCompared)
		}

		report.Processed++
		s.progress.Update(report.Processed, total, s.source.Quota())
	}
	log.Debug("comparisons finished", "equivalence_classes", deduplicator.Len())
}

// comparePair fetches both directions concurrently. Neither direction can fail
// the other: every error becomes a terminal marker. It reports whether either
// direction was refused because the API quota ran out.
func (s *ForkDivergenceService) comparePair(ctx context.Context, original, fork *models.ForkRecord) bool {
	ref := models.RepositoryRef{Owner: original.Owner.Login, Name: original.Name}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var (
		g                           errgroup.Group
		behindLimited, aheadLimited bool
	)
	g.Go(func() error {
		fork.DiffFromOriginal, behindLimited = s.compare(ctx, ref, models.Behind, fork.BranchRef(), original.DefaultBranch, fork)
		return nil
	})
	g.Go(func() error {
		fork.DiffToOriginal, aheadLimited = s.compare(ctx, ref, models.Ahead, original.DefaultBranch, fork.BranchRef(), fork)
		return nil
	})
	_ = g.Wait()
	return behindLimited || aheadLimited
}

func (s *ForkDivergenceService) compare(ctx context.Context, ref models.RepositoryRef, direction models.Direction, base, head string, fork *models.ForkRecord) (models.DivergenceMarker, bool) {
	comparison, err := s.source.CompareBranches(ctx, ref, base, head)
	if err != nil {
		logger.Warn(ctx, "comparison failed",
			"fork", fork.FullName,
			"direction", direction,
			"error", err)
		if domainErrors.IsNoCommonAncestor(err) || domainErrors.StatusCode(err) == http.StatusNotFound {
			return marker.NoCommonHistory(), false
		}
		return marker.Zero(), domainErrors.IsRateLimit(err)
	}
	if comparison == nil {
		return marker.NoCommonHistory(), false
	}
	return marker.Render(direction, comparison, fork), false
}

func (s *ForkDivergenceService) finish(ctx context.Context, report *models.DivergenceReport, started time.Time) {
	if err := s.source.RefreshRateLimit(ctx); err != nil {
		logger.Warn(ctx, "failed to refresh rate limit", "error", err)
	}

	report.Quota = s.source.Quota()
	s.progress.Finish(report.Quota)

	duration := s.now().Sub(started)
	s.recorder.ObserveRunDuration(duration, report.Cancelled)
	logger.Info(ctx, "divergence run finished",
		"processed", report.Processed,
		"total", len(report.Forks),
		"dedup_hits", report.DedupHits,
		"rate_limited", report.RateLimited,
		"cancelled", report.Cancelled,
		"duration", duration)
}
