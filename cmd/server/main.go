package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"dekontrol/internal/analysis"
	"dekontrol/internal/assess"
	"dekontrol/internal/assess/claude"
	"dekontrol/internal/assess/openai"
	"dekontrol/internal/config"
	"dekontrol/internal/email/noop"
	"dekontrol/internal/email/ses"
	"dekontrol/internal/handler"
	ocrremote "dekontrol/internal/ocr/remote"
	"dekontrol/internal/port"
	"dekontrol/internal/repository/postgres"
	"dekontrol/internal/router"
	"dekontrol/internal/service"
	s3storage "dekontrol/internal/storage/s3"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	// Initialize repositories
	userRepo := postgres.NewUserRepo(db)
	studentRepo := postgres.NewStudentRepo(db)
	companyRepo := postgres.NewCompanyRepo(db)
	receiptRepo := postgres.NewReceiptRepo(db)

	// Initialize storage
	s3Client, err := s3storage.NewS3Client(&cfg.S3)
	if err != nil {
		return fmt.Errorf("failed to initialize S3 client: %w", err)
	}

	// Initialize email sender
	emailSender, err := newEmailSender(&cfg.Email)
	if err != nil {
		return fmt.Errorf("failed to initialize email sender: %w", err)
	}

	// Initialize analysis collaborators
	if cfg.OCR.Endpoint == "" {
		return fmt.Errorf("OCR endpoint is not configured")
	}
	ocrEngine := ocrremote.NewClient(&cfg.OCR)

	assessor, err := newAssessor(&cfg.Assess)
	if err != nil {
		return fmt.Errorf("failed to initialize AI assessor: %w", err)
	}
	if assessor == nil {
		log.Printf("no AI assessment provider configured, scoring degrades to OCR confidence")
	}

	analyzer := analysis.NewAnalyzer(ocrEngine, assessor, "dekontrol-"+analysis.Version)

	// Initialize services
	authSvc := service.NewAuthService(userRepo, cfg.JWT)
	rosterSvc := service.NewRosterService(studentRepo, companyRepo)
	receiptSvc := service.NewReceiptService(receiptRepo, studentRepo, companyRepo,
		s3Client, analyzer, emailSender, &cfg.S3, &cfg.Email)
	reportSvc := service.NewReportService(receiptRepo, studentRepo, companyRepo)

	// Initialize handlers
	authH := handler.NewAuthHandler(authSvc)
	receiptH := handler.NewReceiptHandler(receiptSvc)
	rosterH := handler.NewRosterHandler(rosterSvc)
	reportH := handler.NewReportHandler(reportSvc)
	healthH := handler.NewHealthHandler(db)

	// Setup router
	r := router.Setup(authSvc, cfg.CORS.AllowedOrigins, authH, receiptH, rosterH, reportH, healthH)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start analysis queue worker
	worker := service.NewAnalysisQueueWorker(receiptRepo, receiptSvc, service.AnalysisQueueConfig{
		PollInterval: time.Duration(cfg.Queue.PollIntervalSecs) * time.Second,
		MaxRetries:   cfg.Queue.MaxRetries,
		Concurrency:  cfg.Queue.Concurrency,
	})
	workerDone := make(chan struct{})
	go func() {
		defer close(workerDone)
		worker.Start(ctx)
	}()

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Printf("Server starting on %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		stop()
		<-workerDone
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	log.Printf("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("server shutdown: %v", err)
	}
	<-workerDone

	return nil
}

// newAssessor builds the AI assessor from config: nil when no provider is
// configured, a single provider, or a primary/secondary fallback chain.
func newAssessor(cfg *config.AssessConfig) (analysis.AIAssessor, error) {
	assess.RegisterProvider("openai", func(c *config.AssessProviderConfig) (analysis.AIAssessor, error) {
		return openai.NewAssessor(c), nil
	})
	assess.RegisterProvider("claude", func(c *config.AssessProviderConfig) (analysis.AIAssessor, error) {
		return claude.NewAssessor(c), nil
	})

	primaryCfg := cfg.PrimaryConfig()
	if primaryCfg == nil {
		return nil, nil
	}
	primary, err := assess.NewAssessor(primaryCfg)
	if err != nil {
		return nil, err
	}

	secondaryCfg := cfg.SecondaryConfig()
	if secondaryCfg == nil {
		return primary, nil
	}
	secondary, err := assess.NewAssessor(secondaryCfg)
	if err != nil {
		return nil, err
	}

	return assess.NewFallbackAssessor(
		[]analysis.AIAssessor{primary, secondary},
		[]string{primaryCfg.Provider, secondaryCfg.Provider},
	), nil
}

func newEmailSender(cfg *config.EmailConfig) (port.EmailSender, error) {
	switch cfg.Provider {
	case "ses":
		return ses.NewSESSender(cfg.Region, cfg.FromAddress, cfg.FromName)
	default:
		return noop.NewNoopSender(), nil
	}
}
