package service

import (
	"context"
	"log"
	"sync"
	"time"

	"dekontrol/internal/port"
)

// AnalysisQueueConfig holds settings for the analysis queue worker.
type AnalysisQueueConfig struct {
	PollInterval time.Duration
	MaxRetries   int
	Concurrency  int
}

// AnalysisQueueWorker polls for queued receipts and dispatches them for analysis.
type AnalysisQueueWorker struct {
	receiptRepo    port.ReceiptRepository
	receiptService ReceiptService
	cfg            AnalysisQueueConfig
	wg             sync.WaitGroup
}

// NewAnalysisQueueWorker creates a new AnalysisQueueWorker.
func NewAnalysisQueueWorker(receiptRepo port.ReceiptRepository, receiptService ReceiptService, cfg AnalysisQueueConfig) *AnalysisQueueWorker {
	return &AnalysisQueueWorker{
		receiptRepo:    receiptRepo,
		receiptService: receiptService,
		cfg:            cfg,
	}
}

// Start runs the polling loop until ctx is canceled. It blocks until all
// in-flight analysis goroutines have finished.
func (w *AnalysisQueueWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.cfg.PollInterval)
	defer ticker.Stop()

	sem := make(chan struct{}, w.cfg.Concurrency)

	log.Printf("analysisQueueWorker: started (poll=%s, concurrency=%d, maxRetries=%d)",
		w.cfg.PollInterval, w.cfg.Concurrency, w.cfg.MaxRetries)

	for {
		select {
		case <-ctx.Done():
			log.Printf("analysisQueueWorker: shutting down, waiting for in-flight analyses...")
			w.wg.Wait()
			log.Printf("analysisQueueWorker: shutdown complete")
			return
		case <-ticker.C:
			available := w.cfg.Concurrency - len(sem)
			if available <= 0 {
				continue
			}

			receipts, err := w.receiptRepo.ClaimQueued(ctx, available)
			if err != nil {
				if ctx.Err() != nil {
					// Context canceled during poll — exit gracefully
					continue
				}
				log.Printf("analysisQueueWorker: ClaimQueued error: %v", err)
				continue
			}

			for i := range receipts {
				receipt := receipts[i] // copy for goroutine
				receipt.AnalysisAttempts++

				sem <- struct{}{} // acquire
				w.wg.Add(1)
				go func() {
					defer w.wg.Done()
					defer func() { <-sem }() // release

					// Use a fresh context independent of the poll context
					// so in-flight analyses complete even during shutdown.
					analyzeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
					defer cancel()

					log.Printf("analysisQueueWorker: dispatching receipt %s (attempt %d)", receipt.ID, receipt.AnalysisAttempts)
					w.receiptService.AnalyzeReceipt(analyzeCtx, &receipt, w.cfg.MaxRetries)
				}()
			}
		}
	}
}
