package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"dekontrol/internal/domain"
	"dekontrol/internal/service"
	"dekontrol/mocks"
)

func TestAnalysisQueueWorker_PollsAndDispatches(t *testing.T) {
	receiptRepo := new(mocks.MockReceiptRepo)
	receiptSvc := new(mocks.MockReceiptService)

	receipt := domain.Receipt{
		ID:               uuid.New(),
		StudentID:        uuid.New(),
		CompanyID:        uuid.New(),
		PeriodMonth:      6,
		PeriodYear:       2025,
		Status:           domain.AnalysisStatusRunning,
		AnalysisAttempts: 0,
	}

	// First poll returns one receipt, subsequent polls return empty
	receiptRepo.On("ClaimQueued", mock.Anything, mock.AnythingOfType("int")).
		Return([]domain.Receipt{receipt}, nil).Once()
	receiptRepo.On("ClaimQueued", mock.Anything, mock.AnythingOfType("int")).
		Return([]domain.Receipt{}, nil).Maybe()

	receiptSvc.On("AnalyzeReceipt", mock.Anything, mock.AnythingOfType("*domain.Receipt"), 3).
		Return().Maybe()

	cfg := service.AnalysisQueueConfig{
		PollInterval: 50 * time.Millisecond,
		MaxRetries:   3,
		Concurrency:  2,
	}
	worker := service.NewAnalysisQueueWorker(receiptRepo, receiptSvc, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		worker.Start(ctx)
		close(done)
	}()

	// Wait for at least one poll cycle
	time.Sleep(200 * time.Millisecond)
	cancel()
	<-done

	receiptRepo.AssertCalled(t, "ClaimQueued", mock.Anything, mock.AnythingOfType("int"))
	receiptSvc.AssertCalled(t, "AnalyzeReceipt", mock.Anything, mock.AnythingOfType("*domain.Receipt"), 3)
}

func TestAnalysisQueueWorker_IncrementsAttemptBeforeDispatch(t *testing.T) {
	receiptRepo := new(mocks.MockReceiptRepo)
	receiptSvc := new(mocks.MockReceiptService)

	receipt := domain.Receipt{
		ID:               uuid.New(),
		Status:           domain.AnalysisStatusRunning,
		AnalysisAttempts: 1,
	}

	receiptRepo.On("ClaimQueued", mock.Anything, mock.AnythingOfType("int")).
		Return([]domain.Receipt{receipt}, nil).Once()
	receiptRepo.On("ClaimQueued", mock.Anything, mock.AnythingOfType("int")).
		Return([]domain.Receipt{}, nil).Maybe()

	receiptSvc.On("AnalyzeReceipt", mock.Anything, mock.MatchedBy(func(r *domain.Receipt) bool {
		return r.ID == receipt.ID && r.AnalysisAttempts == 2
	}), 3).Return().Maybe()

	cfg := service.AnalysisQueueConfig{
		PollInterval: 50 * time.Millisecond,
		MaxRetries:   3,
		Concurrency:  2,
	}
	worker := service.NewAnalysisQueueWorker(receiptRepo, receiptSvc, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		worker.Start(ctx)
		close(done)
	}()

	time.Sleep(200 * time.Millisecond)
	cancel()
	<-done

	receiptSvc.AssertCalled(t, "AnalyzeReceipt", mock.Anything, mock.MatchedBy(func(r *domain.Receipt) bool {
		return r.AnalysisAttempts == 2
	}), 3)
}

func TestAnalysisQueueWorker_RespectsConcurrencyCap(t *testing.T) {
	receiptRepo := new(mocks.MockReceiptRepo)
	receiptSvc := new(mocks.MockReceiptService)

	cfg := service.AnalysisQueueConfig{
		PollInterval: 50 * time.Millisecond,
		MaxRetries:   3,
		Concurrency:  2,
	}

	receiptRepo.On("ClaimQueued", mock.Anything, mock.AnythingOfType("int")).
		Return([]domain.Receipt{}, nil).Maybe()

	worker := service.NewAnalysisQueueWorker(receiptRepo, receiptSvc, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		worker.Start(ctx)
		close(done)
	}()

	time.Sleep(150 * time.Millisecond)
	cancel()
	<-done

	// Verify ClaimQueued was called with limit <= concurrency
	for _, call := range receiptRepo.Calls {
		if call.Method == "ClaimQueued" {
			limit := call.Arguments.Get(1).(int)
			assert.LessOrEqual(t, limit, cfg.Concurrency)
		}
	}
}

func TestAnalysisQueueWorker_CleanShutdown(t *testing.T) {
	receiptRepo := new(mocks.MockReceiptRepo)
	receiptSvc := new(mocks.MockReceiptService)

	receiptRepo.On("ClaimQueued", mock.Anything, mock.AnythingOfType("int")).
		Return([]domain.Receipt{}, nil).Maybe()

	cfg := service.AnalysisQueueConfig{
		PollInterval: 50 * time.Millisecond,
		MaxRetries:   3,
		Concurrency:  5,
	}
	worker := service.NewAnalysisQueueWorker(receiptRepo, receiptSvc, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		worker.Start(ctx)
		close(done)
	}()

	// Cancel immediately
	cancel()

	select {
	case <-done:
		// Start returned promptly
	case <-time.After(2 * time.Second):
		t.Fatal("Start did not return after context cancellation")
	}
}

func TestAnalysisQueueWorker_ClaimQueuedErrorKeepsPolling(t *testing.T) {
	receiptRepo := new(mocks.MockReceiptRepo)
	receiptSvc := new(mocks.MockReceiptService)

	receiptRepo.On("ClaimQueued", mock.Anything, mock.AnythingOfType("int")).
		Return(nil, errors.New("connection refused")).Maybe()

	cfg := service.AnalysisQueueConfig{
		PollInterval: 50 * time.Millisecond,
		MaxRetries:   3,
		Concurrency:  2,
	}
	worker := service.NewAnalysisQueueWorker(receiptRepo, receiptSvc, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		worker.Start(ctx)
		close(done)
	}()

	time.Sleep(200 * time.Millisecond)
	cancel()
	<-done

	// Errors are logged and the loop keeps going; nothing gets dispatched.
	receiptSvc.AssertNotCalled(t, "AnalyzeReceipt", mock.Anything, mock.Anything, mock.Anything)
	assert.GreaterOrEqual(t, len(receiptRepo.Calls), 2)
}
