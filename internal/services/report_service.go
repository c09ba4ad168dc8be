package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SAP-F-2025/lab-reservation-service/internal/models"
	"github.com/SAP-F-2025/lab-reservation-service/internal/reports"
	"github.com/SAP-F-2025/lab-reservation-service/internal/repositories"
)

type reportService struct {
	repo     repositories.Repository
	archiver reports.Archiver
	logger   *slog.Logger
	location *time.Location
	now      func() time.Time
}

func NewReportService(repo repositories.Repository, archiver reports.Archiver, logger *slog.Logger, location *time.Location) ReportService {
	if archiver == nil {
		archiver = reports.NoopArchiver{}
	}
	if location == nil {
		location = time.Local
	}
	return &reportService{
		repo:     repo,
		archiver: archiver,
		logger:   logger,
		location: location,
		now:      time.Now,
	}
}

func (s *reportService) Summary(ctx context.Context, actor *models.User) (*repositories.ReportSummary, error) {
	if err := requireStaff(actor, "report", 0, "read"); err != nil {
		return nil, err
	}

	var out *repositories.ReportSummary
	err := s.repo.ReadOnly(ctx, func(tx repositories.Repository) error {
		var err error
		out, err = tx.Dashboard().ReportSummary(ctx)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to compute report summary: %w", err)
	}
	return out, nil
}

func (s *reportService) Period(ctx context.Context, actor *models.User, kind reports.Kind) (*PeriodReport, error) {
	if err := requireStaff(actor, "report", 0, "read"); err != nil {
		return nil, err
	}
	if _, ok := reports.ParseKind(string(kind)); !ok {
		return nil, NewAppError(CodeInvalidRequest, fmt.Sprintf("unknown report type %q", kind))
	}

	start := kind.SummaryStart(s.now(), s.location)
	count, err := s.repo.Dashboard().CountReservationsSince(ctx, start)
	if err != nil {
		return nil, fmt.Errorf("failed to count reservations: %w", err)
	}

	return &PeriodReport{Type: kind, StartTime: start, TotalReservations: count}, nil
}

// Excel renders reservations created in the current week, month or year.
// Archival is best effort; a failed upload still returns the workbook.
func (s *reportService) Excel(ctx context.Context, actor *models.User, kind reports.Kind) (*ExcelReport, error) {
	if err := requireStaff(actor, "report", 0, "export"); err != nil {
		return nil, err
	}
	if _, ok := reports.ParseKind(string(kind)); !ok {
		return nil, NewAppError(CodeInvalidRequest, fmt.Sprintf("unknown report type %q", kind))
	}

	now := s.now().In(s.location)
	from, to := kind.Window(now, s.location)

	rows, err := s.repo.Reservation().ListCreatedIn(ctx, repositories.Period{From: from, To: to})
	if err != nil {
		return nil, fmt.Errorf("failed to load reservations for report: %w", err)
	}

	buf, err := reports.Render(kind, rows, s.location)
	if err != nil {
		return nil, fmt.Errorf("failed to render %s report: %w", kind, err)
	}

	report := &ExcelReport{
		Kind:        kind,
		FileName:    kind.FileName(now),
		DisplayName: kind.DisplayName(now),
		Content:     buf.Bytes(),
	}

	key, err := s.archiver.Archive(ctx, reports.ArchiveKey(kind, now), report.Content)
	if err != nil {
		s.logger.Warn("Failed to archive report", "kind", kind, "error", err)
	} else {
		report.ArchiveKey = key
	}

	s.logger.Info("Report exported", "kind", kind, "rows", len(rows), "actor_id", actor.ID, "archive_key", report.ArchiveKey)
	return report, nil
}
