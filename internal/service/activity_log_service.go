package service

import (
	"context"

	"github.com/rs/zerolog"
	"gorm.io/datatypes"

	"github.com/noah-isme/tcms-go-api/internal/dto"
	"github.com/noah-isme/tcms-go-api/internal/models"
	"github.com/noah-isme/tcms-go-api/internal/repository"
)

// ActivityActor identifies who performed an audited action.
type ActivityActor struct {
	ID   uint
	Role string
}

// ActivityLogService records and lists the audit trail. Recording is
// best-effort: a failed write is logged, never surfaced to the caller.
type ActivityLogService interface {
	Record(ctx context.Context, actor ActivityActor, action, entityType string, entityID *uint, metadata map[string]interface{})
	List(ctx context.Context, filter repository.ActivityLogFilter) (dto.ActivityLogListResponse, error)
}

type activityLogService struct {
	repo   repository.ActivityLogRepository
	logger zerolog.Logger
}

// NewActivityLogService constructs the audit trail service.
func NewActivityLogService(repo repository.ActivityLogRepository, logger zerolog.Logger) ActivityLogService {
	return &activityLogService{
		repo:   repo,
		logger: logger.With().Str("component", "activity_log_service").Logger(),
	}
}

func (s *activityLogService) Record(ctx context.Context, actor ActivityActor, action, entityType string, entityID *uint, metadata map[string]interface{}) {
	entry := models.ActivityLog{
		ActorID:    actor.ID,
		ActorRole:  actor.Role,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Metadata:   datatypes.JSONMap(metadata),
	}

	if err := s.repo.Create(ctx, &entry); err != nil {
		s.logger.Warn().
			Err(err).
			Str("action", action).
			Str("entity_type", entityType).
			Msg("failed to record activity log entry")
	}
}

func (s *activityLogService) List(ctx context.Context, filter repository.ActivityLogFilter) (dto.ActivityLogListResponse, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 || filter.PageSize > 100 {
		filter.PageSize = 20
	}

	entries, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return dto.ActivityLogListResponse{}, err
	}

	responses := make([]dto.ActivityLogResponse, 0, len(entries))
	for _, entry := range entries {
		responses = append(responses, dto.NewActivityLogResponse(entry))
	}

	return dto.ActivityLogListResponse{
		Entries:  responses,
		Total:    total,
		Page:     filter.Page,
		PageSize: filter.PageSize,
	}, nil
}
