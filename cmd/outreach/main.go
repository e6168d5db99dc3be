package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"customer_outreach_bot/internal/app"
	"customer_outreach_bot/internal/infra/config"
	idb "customer_outreach_bot/internal/infra/database"
	"customer_outreach_bot/internal/infra/ingest"
	"customer_outreach_bot/internal/infra/logger"
	"customer_outreach_bot/internal/infra/openai"
	"customer_outreach_bot/internal/infra/scheduler"
	osmtp "customer_outreach_bot/internal/infra/smtp"
	"customer_outreach_bot/internal/infra/titlescrape"
)

// cycleTimeout bounds one pipeline run; generation and per-message pacing can
// make a large outreach batch slow, so it is generous.
const cycleTimeout = 25 * time.Minute

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Log.Fatalf("FATAL: Could not load application configuration: %v", err)
	}

	logger.Init(cfg)
	log := logger.Get()
	log.Infof("Configuration loaded. LogLevel: %s, Environment: %s, Senders: %d",
		cfg.LogLevel, cfg.Environment, len(cfg.SenderPool))

	// Initialize Database Connection
	db, err := idb.NewPostgresConnection(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("FATAL: Could not connect to database: %v", err)
	}
	defer db.Close()
	log.Info("Database connection established successfully.")

	// Repositories and external collaborators
	customerRepo := idb.NewPostgresCustomerRepository(db)
	fetcher := ingest.NewFetcher()
	scraper := titlescrape.NewScraper(10 * time.Second)
	generator := openai.NewClient(cfg.OpenAIAPIKey, cfg.OpenAIModel, cfg.OpenAITemperature)
	mailer := osmtp.NewMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.CCAddress)

	// Pipeline services
	ingestService := app.NewIngestService(fetcher, customerRepo, cfg.CustomerDataURL, cfg.ExcludedEmailDomains, log)
	contentService := app.NewContentService(generator, scraper, cfg.ExcludedURLPrefixes, log)
	outreachService := app.NewOutreachService(customerRepo, contentService, mailer, cfg.SenderPool, cfg.SendDelay, log)

	// Scheduler
	sched := scheduler.NewOutreachScheduler(log)
	if err := sched.AddPipeline("ingestion", cfg.IngestInterval, cycleTimeout, ingestService); err != nil {
		log.Fatalf("FATAL: %v", err)
	}
	if err := sched.AddPipeline("outreach", cfg.OutreachInterval, cycleTimeout, outreachService); err != nil {
		log.Fatalf("FATAL: %v", err)
	}
	if cfg.CustomerDataIndexURL != "" {
		sourceCheck := app.NewSourceCheckService(scraper, cfg.CustomerDataIndexURL, log)
		if err := sched.AddPipeline("source-check", cfg.SourceCheckInterval, time.Minute, sourceCheck); err != nil {
			log.Fatalf("FATAL: %v", err)
		}
	}
	sched.Start()

	// The first pass runs immediately; subsequent passes come from the
	// scheduler. Sequential so the two pipelines never overlap on startup.
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), cycleTimeout)
		defer cancel()
		if err := ingestService.RunCycle(ctx); err != nil {
			log.Errorf("Initial ingestion cycle failed: %v", err)
		}
		if err := outreachService.RunCycle(ctx); err != nil {
			log.Errorf("Initial outreach cycle failed: %v", err)
		}
	}()

	log.Info("Application setup complete. Scheduler is running.")

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down application...")
	sched.Stop()
	log.Info("Application shut down gracefully.")
}
