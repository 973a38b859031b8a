package services

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"github.com/course-platform/catalog-service/internal/repositories"
)

type reportingService struct {
	repo   repositories.Repository
	db     *gorm.DB
	logger *slog.Logger
}

func NewReportingService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger) ReportingService {
	return &reportingService{
		repo:   repo,
		db:     db,
		logger: logger,
	}
}

func (s *reportingService) UserPurchaseHistory(ctx context.Context, userID string, filters repositories.PurchaseFilters) (*PurchaseHistoryResponse, error) {
	purchases, total, err := s.repo.Purchase().ListByUser(ctx, nil, userID, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list purchases: %w", err)
	}
	return &PurchaseHistoryResponse{
		Purchases: purchases,
		Total:     total,
	}, nil
}

func (s *reportingService) TotalSpent(ctx context.Context, userID string) (float64, error) {
	total, err := s.repo.Purchase().TotalSpent(ctx, nil, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to sum purchases: %w", err)
	}
	return total, nil
}

func (s *reportingService) GetPurchaseSummary(ctx context.Context, userID string) (*repositories.PurchaseSummary, error) {
	summary, err := s.repo.Purchase().GetSummary(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get purchase summary: %w", err)
	}
	return summary, nil
}

func (s *reportingService) GetCourseEngagement(ctx context.Context, courseID uint) (*repositories.CourseEngagementStats, error) {
	if _, err := s.repo.Course().GetByID(ctx, nil, courseID); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("failed to get course: %w", err)
	}

	stats, err := s.repo.Course().GetEngagementStats(ctx, nil, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to get engagement stats: %w", err)
	}
	return stats, nil
}

func (s *reportingService) ExportPurchaseHistory(ctx context.Context, userID string) ([]byte, error) {
	s.logger.Info("Exporting purchase history", "user_id", userID)

	purchases, _, err := s.repo.Purchase().ListByUser(ctx, nil, userID, repositories.PurchaseFilters{})
	if err != nil {
		return nil, fmt.Errorf("failed to list purchases: %w", err)
	}
	summary, err := s.repo.Purchase().GetSummary(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get purchase summary: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Purchases"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"Purchase ID", "Document", "Amount", "Currency", "Status", "Purchase Date"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, fmt.Errorf("failed to write header: %w", err)
		}
	}

	for row, p := range purchases {
		title := p.Document.Title
		if title == "" {
			title = fmt.Sprintf("document %d", p.DocumentID)
		}
		values := []interface{}{
			p.ID,
			title,
			p.Amount,
			p.Currency,
			string(p.Status),
			p.PurchaseDate.Format("2006-01-02 15:04:05"),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, fmt.Errorf("failed to write row: %w", err)
			}
		}
	}

	summaryRow := len(purchases) + 3
	cell, _ := excelize.CoordinatesToCellName(1, summaryRow)
	if err := f.SetCellValue(sheet, cell, "Total spent (completed)"); err != nil {
		return nil, fmt.Errorf("failed to write summary: %w", err)
	}
	cell, _ = excelize.CoordinatesToCellName(3, summaryRow)
	if err := f.SetCellValue(sheet, cell, summary.TotalSpent); err != nil {
		return nil, fmt.Errorf("failed to write summary: %w", err)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to serialize workbook: %w", err)
	}

	s.logger.Info("Purchase history exported", "user_id", userID, "rows", len(purchases))
	return buf.Bytes(), nil
}
