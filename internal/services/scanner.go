package services

import (
	"context"
	"net/url"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	"github.com/samber/lo"
	log "github.com/sirupsen/logrus"

	"github.com/careerscout/careerscout/internal/clients/browser"
	"github.com/careerscout/careerscout/internal/domain/models"
	"github.com/careerscout/careerscout/internal/logger"
	"github.com/careerscout/careerscout/internal/metrics"
)

type planRepository interface {
	Get(ctx context.Context, source string) (*models.ExtractionPlan, error)
	Save(ctx context.Context, plan models.ExtractionPlan) error
	MarkUnlearned(ctx context.Context, source string) error
}

type interestRepository interface {
	GetActive(ctx context.Context) ([]models.Interest, error)
}

type seenLedger interface {
	GetAll(ctx context.Context) (map[string]struct{}, error)
	Add(ctx context.Context, identities []string) error
}

type pageFetcher interface {
	FetchHTML(ctx context.Context, url string) (string, error)
	ExtractPostings(ctx context.Context, plan models.ExtractionPlan) ([]browser.RawPosting, error)
}

type planLearner interface {
	LearnSelectors(ctx context.Context, source, sourceURL, html string) (models.PlanSelectors, error)
}

type batchDispatcher interface {
	Dispatch(ctx context.Context, records []models.Record, interests []models.Interest) error
}

const (
	CycleStatusSuccess = "success"
	CycleStatusError   = "error"
)

type CycleSummary struct {
	Status           string
	NewRecords       int
	SourcesProcessed int
}

type ScannerOptions struct {
	SourceTimeout        time.Duration
	MaxConcurrentSources int
}

// CareerScanner drives the per-cycle control flow: which sources to scan,
// whether each one's plan must be (re)learned, extraction, deduplication
// against the seen ledger, and the cycle-wide dispatch + ledger commit.
type CareerScanner struct {
	plans      planRepository
	interests  interestRepository
	ledger     seenLedger
	fetcher    pageFetcher
	learner    planLearner
	dispatcher batchDispatcher
	opts       ScannerOptions
	cron       *cron.Cron
}

func NewCareerScanner(plans planRepository, interests interestRepository, ledger seenLedger,
	fetcher pageFetcher, learner planLearner, dispatcher batchDispatcher, opts ScannerOptions) (*CareerScanner, error) {

	if opts.SourceTimeout <= 0 {
		return nil, errors.New("source timeout must be greater than zero")
	}
	if opts.MaxConcurrentSources <= 0 {
		return nil, errors.New("max concurrent sources must be greater than zero")
	}

	return &CareerScanner{
		plans:      plans,
		interests:  interests,
		ledger:     ledger,
		fetcher:    fetcher,
		learner:    learner,
		dispatcher: dispatcher,
		opts:       opts,
	}, nil
}

// Start schedules scan cycles on the given cron spec. Each cycle runs under
// its own deadline; sources still queued when it expires wait for the next
// cycle.
func (s *CareerScanner) Start(cronSpec string, cycleTimeout time.Duration) error {

	s.cron = cron.New()

	_, err := s.cron.AddFunc(cronSpec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), cycleTimeout)
		defer cancel()

		summary := s.RunCycle(ctx)
		log.Infof("scan cycle finished: status=%v newRecords=%v sourcesProcessed=%v",
			summary.Status, summary.NewRecords, summary.SourcesProcessed)
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	log.Infof("career scanner started, cron: %v", cronSpec)
	return nil
}

func (s *CareerScanner) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}

// RunCycle performs one full scan across all monitored sources. It never
// panics out to the caller; the summary status carries the outcome.
func (s *CareerScanner) RunCycle(ctx context.Context) (summary CycleSummary) {

	defer func() {
		if r := recover(); r != nil {
			log.Errorf("scan cycle panicked: %v", r)
			summary = CycleSummary{Status: CycleStatusError}
		}
	}()

	startTime := time.Now()
	defer func() {
		metrics.CycleDuration.Observe(time.Since(startTime).Seconds())
	}()

	interests, err := s.interests.GetActive(ctx)
	if err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeDb).Errorf("failed to get interests: %v", err)
		return CycleSummary{Status: CycleStatusError}
	}

	if len(interests) == 0 {
		log.Info("no active interests, skipping scan")
		return CycleSummary{Status: CycleStatusSuccess}
	}

	sources := collectSources(interests)
	if len(sources) == 0 {
		log.Info("active interests name no companies, nothing to scan")
		return CycleSummary{Status: CycleStatusSuccess}
	}

	// one snapshot per cycle: dedup decisions never read live ledger state
	seen, err := s.ledger.GetAll(ctx)
	if err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeLedger).Errorf("failed to load seen records: %v", err)
		return CycleSummary{Status: CycleStatusError}
	}

	log.Infof("scanning %v sources against %v seen records", len(sources), len(seen))

	batch := s.collectNewRecords(ctx, sources, seen)

	summary = CycleSummary{
		Status:           CycleStatusSuccess,
		NewRecords:       len(batch),
		SourcesProcessed: len(sources),
	}

	if len(batch) == 0 {
		log.Info("no new records detected")
		return summary
	}

	log.Infof("detected %v new records", len(batch))
	metrics.NewRecordsCounter.Add(float64(len(batch)))

	if err = s.dispatcher.Dispatch(ctx, batch, interests); err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypePush).
			Errorf("failed to dispatch notifications: %v", err)
	}

	identities := lo.Map(batch, func(record models.Record, _ int) string {
		return record.ID
	})

	if err = s.ledger.Add(ctx, identities); err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeLedger).
			Errorf("failed to commit seen records, next cycle may notify twice: %v", err)
		summary.Status = CycleStatusError
		return summary
	}

	return summary
}

type sourceResult struct {
	source  string
	records []models.Record
	err     error
}

// collectNewRecords fans out across sources and merges results on this
// goroutine, deduplicating against the ledger snapshot and within the batch
// itself so one identity is queued at most once per cycle.
func (s *CareerScanner) collectNewRecords(ctx context.Context, sources []string,
	seen map[string]struct{}) []models.Record {

	resultCh := make(chan sourceResult, len(sources))
	sem := make(chan struct{}, s.opts.MaxConcurrentSources)

	var wg sync.WaitGroup
	for _, source := range sources {
		wg.Add(1)
		go func(source string) {
			defer wg.Done()

			sem <- struct{}{}
			defer func() { <-sem }()

			sourceCtx, cancel := context.WithTimeout(ctx, s.opts.SourceTimeout)
			defer cancel()

			records, err := s.processSource(sourceCtx, source)
			resultCh <- sourceResult{source: source, records: records, err: err}
		}(source)
	}

	wg.Wait()
	close(resultCh)

	var batch []models.Record
	inBatch := map[string]struct{}{}

	for result := range resultCh {
		if result.err != nil {
			log.WithField(logger.ErrorTypeField, errorLogType(result.err)).
				Errorf("skipping %v for this cycle: %v", result.source, result.err)
			continue
		}

		for _, record := range result.records {
			if _, ok := seen[record.ID]; ok {
				continue
			}
			if _, ok := inBatch[record.ID]; ok {
				continue
			}
			inBatch[record.ID] = struct{}{}
			batch = append(batch, record)
		}
	}

	return batch
}

func (s *CareerScanner) processSource(ctx context.Context, source string) ([]models.Record, error) {

	plan, err := s.plans.Get(ctx, source)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load plan for %v", source)
	}

	if models.StateOf(plan) == models.PlanMissing {
		log.Infof("skipping %v: no plan recorded, career url unknown", source)
		return nil, nil
	}

	if !plan.Learned {
		if plan.SourceURL == "" {
			log.Infof("skipping %v: plan has no career url to learn from", source)
			return nil, nil
		}

		plan, err = s.learnPlan(ctx, source, plan.SourceURL)
		if err != nil {
			return nil, err
		}
	}

	start := time.Now()
	postings, err := s.fetcher.ExtractPostings(ctx, *plan)
	metrics.SourceStepDuration.WithLabelValues("extraction").Observe(time.Since(start).Seconds())

	if err != nil {
		// the demote must land even when the source context already expired
		if markErr := s.plans.MarkUnlearned(context.Background(), source); markErr != nil {
			log.WithField(logger.ErrorTypeField, logger.ErrorTypeDb).
				Errorf("failed to demote plan for %v: %v", source, markErr)
		}
		return nil, &ExtractionError{Source: source, Err: err}
	}

	records := make([]models.Record, 0, len(postings))
	for _, posting := range postings {
		link := resolveLink(plan.SourceURL, posting.Link)
		records = append(records, models.NewRecord(source, posting.Title, posting.Location, link, plan.SourceURL))
	}

	log.Infof("extracted %v postings from %v", len(records), source)
	return records, nil
}

func (s *CareerScanner) learnPlan(ctx context.Context, source string, sourceURL string) (*models.ExtractionPlan, error) {

	start := time.Now()
	html, err := s.fetcher.FetchHTML(ctx, sourceURL)
	metrics.SourceStepDuration.WithLabelValues("learn_fetch").Observe(time.Since(start).Seconds())

	if err != nil {
		return nil, &FetchError{Source: source, Err: err}
	}

	start = time.Now()
	selectors, err := s.learner.LearnSelectors(ctx, source, sourceURL, html)
	metrics.SourceStepDuration.WithLabelValues("oracle").Observe(time.Since(start).Seconds())

	if err != nil {
		return nil, &OracleError{Source: source, Err: err}
	}

	plan := models.NewLearnedPlan(source, sourceURL, selectors)
	if err = s.plans.Save(ctx, plan); err != nil {
		return nil, errors.Wrapf(err, "failed to persist learned plan for %v", source)
	}

	metrics.PlansLearnedCounter.Inc()
	log.Infof("learned new extraction plan for %v", source)
	return &plan, nil
}

// collectSources derives the cycle's source set from explicitly named
// companies only: an open (match-all) filter subscribes to whatever other
// interests are watching, it does not widen the scrape.
func collectSources(interests []models.Interest) []string {

	var sources []string
	for _, interest := range interests {
		sources = append(sources, interest.CompaniesAsArray()...)
	}
	return lo.Uniq(sources)
}

func resolveLink(base string, href string) string {

	if href == "" {
		return ""
	}

	baseURL, err := url.Parse(base)
	if err != nil {
		return href
	}

	hrefURL, err := url.Parse(href)
	if err != nil {
		return href
	}

	return baseURL.ResolveReference(hrefURL).String()
}
