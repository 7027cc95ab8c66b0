package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/xuri/excelize/v2"

	"dekontrol/internal/analysis"
	"dekontrol/internal/domain"
	"dekontrol/internal/port"
)

// reportPageSize bounds how many receipts are pulled per repository call
// while building a report.
const reportPageSize = 200

// ReportService produces reviewer-facing exports of analyzed receipts.
type ReportService interface {
	// MonthlyReport builds an XLSX workbook listing every receipt for the
	// given period with its analysis outcome.
	MonthlyReport(ctx context.Context, month, year int) ([]byte, error)
}

type reportService struct {
	receiptRepo port.ReceiptRepository
	studentRepo port.StudentRepository
	companyRepo port.CompanyRepository
}

// NewReportService creates a new ReportService implementation.
func NewReportService(
	receiptRepo port.ReceiptRepository,
	studentRepo port.StudentRepository,
	companyRepo port.CompanyRepository,
) ReportService {
	return &reportService{
		receiptRepo: receiptRepo,
		studentRepo: studentRepo,
		companyRepo: companyRepo,
	}
}

var reportHeaders = []string{
	"Student", "Student No", "Company", "Period",
	"Expected Amount", "Extracted Amount", "Reliability", "Flags",
	"Analysis Status", "Review Status", "Uploaded At",
}

func (s *reportService) MonthlyReport(ctx context.Context, month, year int) ([]byte, error) {
	if month < 1 || month > 12 {
		return nil, domain.ErrInvalidPeriod
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := fmt.Sprintf("%04d-%02d", year, month)
	idx, err := f.NewSheet(sheet)
	if err != nil {
		return nil, fmt.Errorf("creating sheet: %w", err)
	}
	f.SetActiveSheet(idx)
	_ = f.DeleteSheet("Sheet1")

	for col, h := range reportHeaders {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, fmt.Errorf("writing header: %w", err)
		}
	}

	row := 2
	offset := 0
	for {
		receipts, total, err := s.receiptRepo.ListByPeriod(ctx, month, year, offset, reportPageSize)
		if err != nil {
			return nil, fmt.Errorf("listing receipts: %w", err)
		}

		for i := range receipts {
			if err := s.writeReceiptRow(ctx, f, sheet, row, &receipts[i]); err != nil {
				return nil, err
			}
			row++
		}

		offset += len(receipts)
		if offset >= total || len(receipts) == 0 {
			break
		}
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		return nil, fmt.Errorf("writing workbook: %w", err)
	}

	log.Printf("reportService.MonthlyReport: period %02d/%d, %d receipts", month, year, row-2)
	return buf.Bytes(), nil
}

func (s *reportService) writeReceiptRow(ctx context.Context, f *excelize.File, sheet string, row int, receipt *domain.Receipt) error {
	studentName, studentNumber := "", ""
	if student, err := s.studentRepo.GetByID(ctx, receipt.StudentID); err == nil {
		studentName = student.FirstName + " " + student.LastName
		studentNumber = student.StudentNumber
	}
	companyName := ""
	if company, err := s.companyRepo.GetByID(ctx, receipt.CompanyID); err == nil {
		companyName = company.Name
	}

	expectedAmount := ""
	if receipt.ExpectedAmount != nil {
		expectedAmount = receipt.ExpectedAmount.StringFixed(2)
	}

	extractedAmount, reliability, flags := "", "", ""
	if len(receipt.AnalysisResult) > 0 {
		var result analysis.AnalysisResult
		if err := json.Unmarshal(receipt.AnalysisResult, &result); err == nil {
			if result.ExtractedFields.Amount != nil {
				extractedAmount = result.ExtractedFields.Amount.StringFixed(2)
			}
			reliability = fmt.Sprintf("%.0f%%", result.OverallReliability*100)
			for i, flag := range result.SecurityFlags {
				if i > 0 {
					flags += ", "
				}
				flags += flag.Type
			}
		}
	}

	values := []interface{}{
		studentName, studentNumber, companyName,
		fmt.Sprintf("%02d/%d", receipt.PeriodMonth, receipt.PeriodYear),
		expectedAmount, extractedAmount, reliability, flags,
		string(receipt.Status), string(receipt.ReviewStatus),
		receipt.CreatedAt.Format("2006-01-02 15:04"),
	}
	for col, v := range values {
		cell, _ := excelize.CoordinatesToCellName(col+1, row)
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return fmt.Errorf("writing row %d: %w", row, err)
		}
	}
	return nil
}
