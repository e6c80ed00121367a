package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/asaskevich/EventBus"
	log "github.com/sirupsen/logrus"

	"github.com/careerscout/careerscout/internal/clients/browser"
	"github.com/careerscout/careerscout/internal/clients/expo"
	"github.com/careerscout/careerscout/internal/clients/gemini"
	"github.com/careerscout/careerscout/internal/config"
	"github.com/careerscout/careerscout/internal/domain/events"
	"github.com/careerscout/careerscout/internal/logger"
	"github.com/careerscout/careerscout/internal/metrics"
	"github.com/careerscout/careerscout/internal/repositories"
	"github.com/careerscout/careerscout/internal/services"
)

func runScanner(ctx context.Context, cfg *config.Config, plans *repositories.Plans,
	interests *repositories.Interests, ledger *repositories.SeenRecords, bus EventBus.Bus) *services.CareerScanner {

	aiClient, err := gemini.NewClient(ctx, cfg.AI.Key, gemini.Model(cfg.AI.Model))
	if err != nil {
		log.Fatalf("can't create AI client: %v", err)
	}
	if cfg.AI.MaxRequestsPerMinute > 0 {
		aiClient.SetMinuteRateLimit(cfg.AI.MaxRequestsPerMinute)
	}
	if cfg.AI.MaxRequestsPerDay > 0 {
		aiClient.SetDayRateLimit(cfg.AI.MaxRequestsPerDay)
	}
	aiClient.SetJSONOutput()

	learner := services.NewSelectorLearner(aiClient, cfg.AI.MaxHTMLLength)

	fetcher := browser.NewFetcher(browser.Config{
		Timeout:   cfg.Fetcher.Timeout,
		UserAgent: cfg.Fetcher.UserAgent,
		Headless:  cfg.Fetcher.Headless,
	})

	pushClient := expo.NewClient(cfg.Push.AccessToken)
	if cfg.Push.MaxRequestsPerSecond > 0 {
		pushClient.SetRateLimit(cfg.Push.MaxRequestsPerSecond)
	}
	dispatcher := services.NewDispatcher(pushClient, bus)

	scanner, err := services.NewCareerScanner(plans, interests, ledger, fetcher, learner, dispatcher,
		services.ScannerOptions{
			SourceTimeout:        cfg.Scanner.SourceTimeout,
			MaxConcurrentSources: cfg.Scanner.MaxConcurrentSources,
		})
	if err != nil {
		log.Fatalf("can't create scanner: %v", err)
	}

	if err = scanner.Start(cfg.Scanner.CronSpec, cfg.Scanner.CycleTimeout); err != nil {
		log.Fatalf("can't start scanner: %v", err)
	}

	return scanner
}

func onPushTokenInvalid(event events.PushTokenInvalid) {
	log.WithField(logger.ErrorTypeField, logger.ErrorTypePush).
		Errorf("push token %v reported unregistered: %v", event.PushToken, event.Reason)
}

func main() {

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.Get()

	logger.Setup(cfg.Logger)
	defer logger.Cleanup()

	metrics.StartMetricsServer()

	dbContext, err := repositories.NewDbContext(cfg.DB.ConnectionString)
	if err != nil {
		log.Fatalf("can't create db context: %v", err)
	}
	defer dbContext.Close()

	err = dbContext.Migrate()
	if err != nil {
		log.Fatalf("can't migrate db context: %v", err)
	}

	plans := repositories.NewPlansRepository(dbContext.DB)
	interests := repositories.NewInterestsRepository(dbContext.DB)

	rdb := repositories.NewRedisClient(cfg.Ledger)
	ledger := repositories.NewSeenRecordsRepository(rdb)
	if err = ledger.Ping(ctx); err != nil {
		log.Fatalf("can't reach seen-records store: %v", err)
	}

	bus := EventBus.New()
	if err = bus.Subscribe(events.PushTokenInvalidTopic, onPushTokenInvalid); err != nil {
		log.Fatalf("can't subscribe to bus: %v", err)
	}

	scanner := runScanner(ctx, cfg, plans, interests, ledger, bus)

	<-ctx.Done()

	log.Info("Shutting down services...")
	scanner.Stop()
	log.Info("Services stopped.")
}
