package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"dekontrol/internal/analysis"
	"dekontrol/internal/assess"
	"dekontrol/internal/config"
	"dekontrol/internal/domain"
	"dekontrol/internal/port"
)

// UploadReceiptInput is the DTO for receipt upload requests.
type UploadReceiptInput struct {
	StudentID      uuid.UUID
	CompanyID      uuid.UUID
	PeriodMonth    int
	PeriodYear     int
	ExpectedAmount *decimal.Decimal
	UploadedBy     uuid.UUID
	File           multipart.File
	Header         *multipart.FileHeader
}

// ReviewInput is the DTO for a reviewer's approve/reject decision.
type ReviewInput struct {
	Approve    bool   `json:"approve"`
	Notes      string `json:"notes"`
	ReviewedBy uuid.UUID
}

// ReceiptService defines the receipt lifecycle contract: upload, analysis,
// review and retrieval.
type ReceiptService interface {
	Upload(ctx context.Context, input UploadReceiptInput) (*domain.Receipt, error)
	GetByID(ctx context.Context, receiptID uuid.UUID) (*domain.Receipt, error)
	List(ctx context.Context, offset, limit int) ([]domain.Receipt, int, error)
	ListByStudent(ctx context.Context, studentID uuid.UUID, offset, limit int) ([]domain.Receipt, int, error)
	ListByPeriod(ctx context.Context, month, year, offset, limit int) ([]domain.Receipt, int, error)
	GetDownloadURL(ctx context.Context, receiptID uuid.UUID) (string, error)
	Delete(ctx context.Context, receiptID uuid.UUID) error

	// AnalyzeReceipt runs the full analysis pipeline for a claimed receipt.
	// Called by the queue worker; the receipt must already be marked running
	// with AnalysisAttempts incremented.
	AnalyzeReceipt(ctx context.Context, receipt *domain.Receipt, maxAttempts int)
	Reanalyze(ctx context.Context, receiptID uuid.UUID) error
	Review(ctx context.Context, receiptID uuid.UUID, input ReviewInput) (*domain.Receipt, error)
}

type receiptService struct {
	receiptRepo port.ReceiptRepository
	studentRepo port.StudentRepository
	companyRepo port.CompanyRepository
	storage     port.ObjectStorage
	analyzer    *analysis.Analyzer
	email       port.EmailSender
	s3Cfg       *config.S3Config
	emailCfg    *config.EmailConfig
}

// NewReceiptService creates a new ReceiptService implementation.
func NewReceiptService(
	receiptRepo port.ReceiptRepository,
	studentRepo port.StudentRepository,
	companyRepo port.CompanyRepository,
	storage port.ObjectStorage,
	analyzer *analysis.Analyzer,
	email port.EmailSender,
	s3Cfg *config.S3Config,
	emailCfg *config.EmailConfig,
) ReceiptService {
	return &receiptService{
		receiptRepo: receiptRepo,
		studentRepo: studentRepo,
		companyRepo: companyRepo,
		storage:     storage,
		analyzer:    analyzer,
		email:       email,
		s3Cfg:       s3Cfg,
		emailCfg:    emailCfg,
	}
}

func (s *receiptService) Upload(ctx context.Context, input UploadReceiptInput) (*domain.Receipt, error) {
	if input.PeriodMonth < 1 || input.PeriodMonth > 12 || input.PeriodYear < 2000 || input.PeriodYear > 2100 {
		return nil, domain.ErrInvalidPeriod
	}

	student, err := s.studentRepo.GetByID(ctx, input.StudentID)
	if err != nil {
		return nil, err
	}
	if _, err := s.companyRepo.GetByID(ctx, input.CompanyID); err != nil {
		return nil, err
	}

	// Validate file extension
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(input.Header.Filename), "."))
	fileType, ok := domain.AllowedExtensions[ext]
	if !ok {
		return nil, domain.ErrUnsupportedFileType
	}

	// Validate file size
	maxBytes := s.s3Cfg.MaxFileSizeMB * 1024 * 1024
	if input.Header.Size > maxBytes {
		return nil, domain.ErrFileTooLarge
	}

	// Read first 512 bytes for magic-byte content type detection
	buf := make([]byte, 512)
	n, err := input.File.Read(buf)
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("reading file header: %w", err)
	}
	detectedType := http.DetectContentType(buf[:n])
	if _, validContent := domain.AllowedContentTypes[detectedType]; !validContent {
		return nil, domain.ErrUnsupportedFileType
	}

	// Seek back to beginning for upload
	if _, err := input.File.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("seeking file: %w", err)
	}

	receiptID := uuid.New()
	s3Key := fmt.Sprintf("students/%s/receipts/%d-%02d/%s.%s",
		student.ID, input.PeriodYear, input.PeriodMonth, receiptID, ext)
	contentType := domain.AllowedFileTypes[fileType]

	receipt := &domain.Receipt{
		ID:             receiptID,
		StudentID:      input.StudentID,
		CompanyID:      input.CompanyID,
		PeriodMonth:    input.PeriodMonth,
		PeriodYear:     input.PeriodYear,
		ExpectedAmount: input.ExpectedAmount,
		FileName:       receiptID.String() + "." + ext,
		OriginalName:   input.Header.Filename,
		FileType:       fileType,
		FileSize:       input.Header.Size,
		S3Bucket:       s.s3Cfg.Bucket,
		S3Key:          s3Key,
		ContentType:    contentType,
		Status:         domain.AnalysisStatusQueued,
		ReviewStatus:   domain.ReviewStatusPending,
		UploadedBy:     input.UploadedBy,
	}

	log.Printf("receiptService.Upload: uploading receipt %s (%s, %d bytes) for student %s period %02d/%d",
		input.Header.Filename, contentType, input.Header.Size, student.ID, input.PeriodMonth, input.PeriodYear)

	if err := s.receiptRepo.Create(ctx, receipt); err != nil {
		return nil, err
	}

	_, err = s.storage.Upload(ctx, port.UploadInput{
		Bucket:      s.s3Cfg.Bucket,
		Key:         s3Key,
		Body:        input.File,
		ContentType: contentType,
		Size:        input.Header.Size,
	})
	if err != nil {
		log.Printf("receiptService.Upload: S3 upload failed for receipt %s: %v", receipt.ID, err)
		_ = s.receiptRepo.Delete(ctx, receipt.ID)
		return nil, domain.ErrUploadFailed
	}

	return receipt, nil
}

func (s *receiptService) GetByID(ctx context.Context, receiptID uuid.UUID) (*domain.Receipt, error) {
	return s.receiptRepo.GetByID(ctx, receiptID)
}

func (s *receiptService) List(ctx context.Context, offset, limit int) ([]domain.Receipt, int, error) {
	return s.receiptRepo.List(ctx, offset, limit)
}

func (s *receiptService) ListByStudent(ctx context.Context, studentID uuid.UUID, offset, limit int) ([]domain.Receipt, int, error) {
	return s.receiptRepo.ListByStudent(ctx, studentID, offset, limit)
}

func (s *receiptService) ListByPeriod(ctx context.Context, month, year, offset, limit int) ([]domain.Receipt, int, error) {
	return s.receiptRepo.ListByPeriod(ctx, month, year, offset, limit)
}

func (s *receiptService) GetDownloadURL(ctx context.Context, receiptID uuid.UUID) (string, error) {
	receipt, err := s.receiptRepo.GetByID(ctx, receiptID)
	if err != nil {
		return "", err
	}
	return s.storage.GetPresignedURL(ctx, receipt.S3Bucket, receipt.S3Key, s.s3Cfg.PresignExpiry)
}

func (s *receiptService) Delete(ctx context.Context, receiptID uuid.UUID) error {
	receipt, err := s.receiptRepo.GetByID(ctx, receiptID)
	if err != nil {
		return err
	}
	if err := s.storage.Delete(ctx, receipt.S3Bucket, receipt.S3Key); err != nil {
		log.Printf("receiptService.Delete: failed to delete from S3: %v", err)
		return fmt.Errorf("deleting from storage: %w", err)
	}
	return s.receiptRepo.Delete(ctx, receiptID)
}

// AnalyzeReceipt downloads the receipt, runs the analyzer against the
// internship record and persists both the analysis result and the
// validation outcome.
func (s *receiptService) AnalyzeReceipt(ctx context.Context, receipt *domain.Receipt, maxAttempts int) {
	student, err := s.studentRepo.GetByID(ctx, receipt.StudentID)
	if err != nil {
		s.failAnalysis(ctx, receipt, fmt.Sprintf("loading student: %v", err))
		return
	}
	company, err := s.companyRepo.GetByID(ctx, receipt.CompanyID)
	if err != nil {
		s.failAnalysis(ctx, receipt, fmt.Sprintf("loading company: %v", err))
		return
	}

	fileBytes, err := s.storage.Download(ctx, receipt.S3Bucket, receipt.S3Key)
	if err != nil {
		s.failAnalysis(ctx, receipt, fmt.Sprintf("downloading receipt: %v", err))
		return
	}

	expected := analysis.ExpectedRecord{
		StudentName:    student.FirstName,
		StudentSurname: student.LastName,
		CompanyName:    company.Name,
		PeriodMonth:    receipt.PeriodMonth,
		PeriodYear:     receipt.PeriodYear,
		ExpectedAmount: receipt.ExpectedAmount,
	}

	result, err := s.analyzer.Analyze(ctx, fileBytes, receipt.OriginalName, expected)
	if err != nil {
		s.handleAnalysisError(ctx, receipt, err, maxAttempts)
		return
	}

	outcome := analysis.Validate(&analysis.RawScanResult{
		Text:       result.RawScan.Text,
		Confidence: result.RawScan.Confidence,
	}, expected)

	resultJSON, err := json.Marshal(result)
	if err != nil {
		s.failAnalysis(ctx, receipt, fmt.Sprintf("marshaling analysis result: %v", err))
		return
	}
	outcomeJSON, err := json.Marshal(outcome)
	if err != nil {
		s.failAnalysis(ctx, receipt, fmt.Sprintf("marshaling validation outcome: %v", err))
		return
	}

	now := time.Now().UTC()
	receipt.Status = domain.AnalysisStatusCompleted
	receipt.AnalysisError = ""
	receipt.AnalysisResult = resultJSON
	receipt.ValidationResult = outcomeJSON
	receipt.AnalyzedAt = &now

	if err := s.receiptRepo.UpdateAnalysis(ctx, receipt); err != nil {
		log.Printf("receiptService.AnalyzeReceipt: failed to save results for %s: %v", receipt.ID, err)
		return
	}

	log.Printf("receiptService.AnalyzeReceipt: receipt %s analyzed (reliability=%.2f, flags=%d, valid=%t)",
		receipt.ID, result.OverallReliability, len(result.SecurityFlags), outcome.IsValid)

	s.notifyReviewer(ctx, receipt, student, result)
}

// handleAnalysisError requeues the receipt when a provider rate limit hit and
// attempts remain, and fails it permanently otherwise.
func (s *receiptService) handleAnalysisError(ctx context.Context, receipt *domain.Receipt, analysisErr error, maxAttempts int) {
	var rlErr *assess.RateLimitError
	if errors.As(analysisErr, &rlErr) && receipt.AnalysisAttempts < maxAttempts {
		receipt.Status = domain.AnalysisStatusQueued
		receipt.AnalysisError = fmt.Sprintf("rate limited by %s, queued for retry", rlErr.Provider)
		if err := s.receiptRepo.UpdateAnalysis(ctx, receipt); err != nil {
			log.Printf("receiptService.handleAnalysisError: failed to requeue receipt %s: %v", receipt.ID, err)
		} else {
			log.Printf("receiptService.handleAnalysisError: receipt %s requeued (attempt %d)", receipt.ID, receipt.AnalysisAttempts)
		}
		return
	}
	s.failAnalysis(ctx, receipt, fmt.Sprintf("analyzing receipt: %v", analysisErr))
}

func (s *receiptService) failAnalysis(ctx context.Context, receipt *domain.Receipt, errMsg string) {
	log.Printf("receiptService.failAnalysis: receipt %s failed: %s", receipt.ID, errMsg)
	receipt.Status = domain.AnalysisStatusFailed
	receipt.AnalysisError = errMsg
	if err := s.receiptRepo.UpdateAnalysis(ctx, receipt); err != nil {
		log.Printf("receiptService.failAnalysis: failed to update status for %s: %v", receipt.ID, err)
	}
}

// notifyReviewer emails the coordinating teacher when the analysis raised
// ERROR-severity flags. Notification failures are logged, never propagated.
func (s *receiptService) notifyReviewer(ctx context.Context, receipt *domain.Receipt, student *domain.Student, result *analysis.AnalysisResult) {
	if s.email == nil || s.emailCfg.ReviewerTo == "" {
		return
	}

	hasErrors := false
	for _, f := range result.SecurityFlags {
		if f.Severity == analysis.SeverityError {
			hasErrors = true
			break
		}
	}
	if !hasErrors {
		return
	}

	n := port.AnalysisNotification{
		To:          s.emailCfg.ReviewerTo,
		StudentName: student.FirstName + " " + student.LastName,
		PeriodLabel: fmt.Sprintf("%02d/%d", receipt.PeriodMonth, receipt.PeriodYear),
		Reliability: result.OverallReliability,
		FlagCount:   len(result.SecurityFlags),
		HasErrors:   true,
	}
	if err := s.email.SendAnalysisComplete(ctx, n); err != nil {
		log.Printf("receiptService.notifyReviewer: failed to send notification for %s: %v", receipt.ID, err)
	}
}

func (s *receiptService) Reanalyze(ctx context.Context, receiptID uuid.UUID) error {
	receipt, err := s.receiptRepo.GetByID(ctx, receiptID)
	if err != nil {
		return err
	}
	if receipt.Status == domain.AnalysisStatusRunning {
		return fmt.Errorf("receipt %s is being analyzed", receiptID)
	}
	log.Printf("receiptService.Reanalyze: requeueing receipt %s", receiptID)
	return s.receiptRepo.Requeue(ctx, receiptID)
}

func (s *receiptService) Review(ctx context.Context, receiptID uuid.UUID, input ReviewInput) (*domain.Receipt, error) {
	receipt, err := s.receiptRepo.GetByID(ctx, receiptID)
	if err != nil {
		return nil, err
	}
	if receipt.Status != domain.AnalysisStatusCompleted {
		return nil, domain.ErrReceiptNotAnalyzed
	}
	if receipt.ReviewStatus != domain.ReviewStatusPending {
		return nil, domain.ErrAlreadyReviewed
	}

	now := time.Now().UTC()
	if input.Approve {
		receipt.ReviewStatus = domain.ReviewStatusApproved
	} else {
		receipt.ReviewStatus = domain.ReviewStatusRejected
	}
	receipt.ReviewedBy = &input.ReviewedBy
	receipt.ReviewedAt = &now
	receipt.ReviewerNotes = input.Notes

	if err := s.receiptRepo.UpdateReview(ctx, receipt); err != nil {
		return nil, err
	}
	return receipt, nil
}
