package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sakif/forum-backend/internal/apperror"
	"github.com/sakif/forum-backend/internal/model"
	"github.com/sakif/forum-backend/internal/repository"
)

// ReportService records user reports for moderators.
type ReportService struct {
	repo   repository.ReportRepository
	logger *slog.Logger
}

func NewReportService(repo repository.ReportRepository, logger *slog.Logger) *ReportService {
	return &ReportService{repo: repo, logger: logger}
}

// Create files a report by authorID against reportedUserID. Reporting
// yourself is rejected.
func (s *ReportService) Create(ctx context.Context, authorID, reportedUserID int64, reason string) (int64, error) {
	if err := requireID("reported_user_id", reportedUserID); err != nil {
		return 0, err
	}
	if reportedUserID == authorID {
		return 0, apperror.ValidationFailed("reported_user_id", "you cannot report yourself")
	}
	reason, err := cleanText("reason", reason, MaxReportReasonLength)
	if err != nil {
		return 0, err
	}

	id, err := s.repo.CreateReport(ctx, authorID, reportedUserID, reason)
	if err != nil {
		return 0, fmt.Errorf("creating report: %w", err)
	}

	// Warn, not Info: moderators tail the log for these.
	s.logger.Warn("user reported",
		slog.Int64("report_id", id),
		slog.Int64("author_id", authorID),
		slog.Int64("reported_user_id", reportedUserID),
	)
	return id, nil
}

func (s *ReportService) Get(ctx context.Context, id int64) (*model.Report, error) {
	if err := requireID("id", id); err != nil {
		return nil, err
	}
	return s.repo.GetReport(ctx, id)
}

func (s *ReportService) List(ctx context.Context, limit, offset int) ([]model.Report, error) {
	reports, err := s.repo.ListReports(ctx, repository.NewListOptions(limit, offset))
	if err != nil {
		return nil, fmt.Errorf("listing reports: %w", err)
	}
	return reports, nil
}
