package social

import (
	"context"
	"errors"

	"github.com/campusmarket/backend/internal/domain/shared"
	"github.com/campusmarket/backend/internal/domain/social"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ReportService handles moderation complaints
type ReportService struct {
	reportRepo social.ReportRepository
	convRepo   social.ConversationRepository
	logger     *zap.Logger
}

// NewReportService creates a new report service
func NewReportService(
	reportRepo social.ReportRepository,
	convRepo social.ConversationRepository,
	logger *zap.Logger,
) *ReportService {
	return &ReportService{
		reportRepo: reportRepo,
		convRepo:   convRepo,
		logger:     logger,
	}
}

// FileReportInput carries the data to file a report
type FileReportInput struct {
	ReportedID     uuid.UUID  `json:"reported_id" validate:"required"`
	ProductID      *uuid.UUID `json:"product_id,omitempty"`
	ConversationID *uuid.UUID `json:"conversation_id,omitempty"`
	Reason         string     `json:"reason" validate:"required"`
	Description    string     `json:"description" validate:"required,min=1,max=4000"`
}

// File records a pending report. Reporting a conversation also flags
// the thread for moderation; only its participants may do that.
func (s *ReportService) File(ctx context.Context, reporterID uuid.UUID, input FileReportInput) (*ReportDTO, error) {
	report, err := social.NewReport(reporterID, input.ReportedID, input.ProductID, input.ConversationID,
		social.ReportReason(input.Reason), input.Description)
	if err != nil {
		return nil, err
	}

	if input.ConversationID != nil {
		conversation, err := s.convRepo.FindByID(ctx, *input.ConversationID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return nil, shared.WrapDomainError("CONVERSATION_NOT_FOUND", "Conversation not found", err)
			}
			s.logger.Error("failed to load conversation", zap.String("conversation_id", input.ConversationID.String()), zap.Error(err))
			return nil, shared.WrapDomainError("INTERNAL_ERROR", "Failed to load conversation", err)
		}
		if !conversation.IsParticipant(reporterID) {
			return nil, shared.WrapDomainError("FORBIDDEN", "User is not part of this conversation", shared.ErrForbidden)
		}

		if err := s.reportRepo.Save(ctx, report); err != nil {
			s.logger.Error("failed to save report", zap.Error(err))
			return nil, shared.WrapDomainError("INTERNAL_ERROR", "Failed to save report", err)
		}

		conversation.MarkReported()
		if err := s.convRepo.Update(ctx, conversation); err != nil {
			s.logger.Warn("failed to flag conversation", zap.String("conversation_id", conversation.ID.String()), zap.Error(err))
		}
	} else {
		if err := s.reportRepo.Save(ctx, report); err != nil {
			s.logger.Error("failed to save report", zap.Error(err))
			return nil, shared.WrapDomainError("INTERNAL_ERROR", "Failed to save report", err)
		}
	}

	s.logger.Info("report filed",
		zap.String("report_id", report.ID.String()),
		zap.String("reported_id", report.ReportedID.String()),
		zap.String("reason", string(report.Reason)))

	dto := toReportDTO(report)
	return &dto, nil
}

// Resolve closes a pending report with action taken
func (s *ReportService) Resolve(ctx context.Context, reportID uuid.UUID) (*ReportDTO, error) {
	return s.review(ctx, reportID, (*social.Report).Resolve, "report resolved")
}

// Dismiss closes a pending report without action
func (s *ReportService) Dismiss(ctx context.Context, reportID uuid.UUID) (*ReportDTO, error) {
	return s.review(ctx, reportID, (*social.Report).Dismiss, "report dismissed")
}

func (s *ReportService) review(ctx context.Context, reportID uuid.UUID, close func(*social.Report) error, msg string) (*ReportDTO, error) {
	report, err := s.reportRepo.FindByID(ctx, reportID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.WrapDomainError("REPORT_NOT_FOUND", "Report not found", err)
		}
		s.logger.Error("failed to load report", zap.String("report_id", reportID.String()), zap.Error(err))
		return nil, shared.WrapDomainError("INTERNAL_ERROR", "Failed to load report", err)
	}

	if err := close(report); err != nil {
		return nil, err
	}
	if err := s.reportRepo.Update(ctx, report); err != nil {
		s.logger.Error("failed to update report", zap.String("report_id", reportID.String()), zap.Error(err))
		return nil, shared.WrapDomainError("INTERNAL_ERROR", "Failed to update report", err)
	}

	s.logger.Info(msg, zap.String("report_id", reportID.String()))
	dto := toReportDTO(report)
	return &dto, nil
}

// ListByStatus returns reports in a given moderation state
func (s *ReportService) ListByStatus(ctx context.Context, status string, page, pageSize int) (*ReportListResult, error) {
	reportStatus := social.ReportStatus(status)
	if !reportStatus.IsValid() {
		return nil, shared.NewDomainError("INVALID_STATUS", "Invalid report status: "+status)
	}

	filter := listFilter(page, pageSize)
	result, err := s.reportRepo.FindByStatus(ctx, reportStatus, filter)
	if err != nil {
		s.logger.Error("failed to list reports", zap.String("status", status), zap.Error(err))
		return nil, shared.WrapDomainError("INTERNAL_ERROR", "Failed to list reports", err)
	}
	return toReportListResult(result), nil
}

// ListByReported returns the reports filed against a user
func (s *ReportService) ListByReported(ctx context.Context, reportedID uuid.UUID, page, pageSize int) (*ReportListResult, error) {
	filter := listFilter(page, pageSize)
	result, err := s.reportRepo.FindByReported(ctx, reportedID, filter)
	if err != nil {
		s.logger.Error("failed to list reports", zap.String("reported_id", reportedID.String()), zap.Error(err))
		return nil, shared.WrapDomainError("INTERNAL_ERROR", "Failed to list reports", err)
	}
	return toReportListResult(result), nil
}

func toReportListResult(result *shared.Paginated[social.Report]) *ReportListResult {
	items := make([]ReportDTO, 0, len(result.Items))
	for i := range result.Items {
		items = append(items, toReportDTO(&result.Items[i]))
	}
	return &ReportListResult{
		Items:      items,
		Total:      result.Total,
		Page:       result.Page,
		PageSize:   result.PageSize,
		TotalPages: result.TotalPages,
	}
}
