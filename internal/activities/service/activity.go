package service

import (
	"context"
	"errors"
	"time"

	activitieserrors "farmbook/internal/activities/errors"
	"farmbook/internal/activities/repository"
	activityvalidator "farmbook/internal/activities/validator"
	"farmbook/internal/occurrence"
	"farmbook/pkg/config"
	apperrors "farmbook/pkg/errors"
	"farmbook/pkg/model"
)

type ActivityService interface {
	GetByID(ctx context.Context, id string) (*model.Activity, error)
	GetAll(ctx context.Context, limit int, offset int64) ([]*model.Activity, int64, error)
	GetOccurrences(ctx context.Context, id string, from, to time.Time) ([]model.Occurrence, error)
	ValidateConfig(activity *model.Activity) error
}

type activityService struct {
	repo      repository.ActivityRepository
	validator *activityvalidator.ActivityValidator
	cfg       *config.Config
}

func NewActivityService(repo repository.ActivityRepository, validator *activityvalidator.ActivityValidator, cfg *config.Config) ActivityService {
	return &activityService{
		repo:      repo,
		validator: validator,
		cfg:       cfg,
	}
}

// ValidateConfig dry-runs an activity configuration against the schedule
// rules without persisting anything, so a broken recurrence never reaches
// the store.
func (s *activityService) ValidateConfig(activity *model.Activity) error {
	if activity == nil {
		return apperrors.InvalidInput("Activity payload is required")
	}

	if err := s.validator.Validate(activity); err != nil {
		s.cfg.Log.Warn("Activity validation failed", "error", err)
		return apperrors.Validation("Activity validation failed", map[string]any{
			"error": err.Error(),
		})
	}

	return nil
}

func (s *activityService) GetByID(ctx context.Context, id string) (*model.Activity, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Activity ID cannot be empty")
	}

	activity, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, activitieserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Activity", id)
		}
		if errors.Is(err, activitieserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid activity ID format")
		}
		s.cfg.Log.Error("Failed to get activity", "id", id, "error", err)
		return nil, apperrors.Internal("Failed to retrieve activity", err)
	}

	return activity, nil
}

func (s *activityService) GetAll(ctx context.Context, limit int, offset int64) ([]*model.Activity, int64, error) {
	limit = config.NormalizePaginationLimit(limit)
	offset = config.NormalizeOffset(offset)

	activities, err := s.repo.FindAll(ctx, limit, offset)
	if err != nil {
		s.cfg.Log.Error("Failed to list activities", "error", err)
		return nil, 0, apperrors.Internal("Failed to list activities", err)
	}

	total, err := s.repo.Count(ctx)
	if err != nil {
		s.cfg.Log.Error("Failed to count activities", "error", err)
		return nil, 0, apperrors.Internal("Failed to count activities", err)
	}

	return activities, total, nil
}

// GetOccurrences expands one activity into its dated occurrences inside
// [from, to), each annotated with a derived status.
func (s *activityService) GetOccurrences(ctx context.Context, id string, from, to time.Time) ([]model.Occurrence, error) {
	if !from.Before(to) {
		return nil, apperrors.InvalidInput("Query window start must be before its end")
	}

	maxWindow := time.Duration(s.cfg.QueryWindowDays) * 24 * time.Hour
	if to.Sub(from) > maxWindow {
		return nil, apperrors.InvalidInput("Query window exceeds the configured maximum")
	}

	activity, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	occurrences := occurrence.Expand(activity, from, to, occurrence.Options{
		DefaultDurationMinutes: s.cfg.DefaultDurationMin,
		MaxOccurrences:         s.cfg.MaxOccurrencesPerQuery,
	})

	now := time.Now().UTC()
	for i := range occurrences {
		occurrences[i].Status = occurrence.DeriveStatus(occurrences[i], now, activity.StatusOverride)
	}

	return occurrences, nil
}
