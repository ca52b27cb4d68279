package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	activitieserrors "farmbook/internal/activities/errors"
	activityvalidator "farmbook/internal/activities/validator"
	"farmbook/pkg/config"
	apperrors "farmbook/pkg/errors"
	"farmbook/pkg/logger"
	"farmbook/pkg/model"
)

type mockActivityRepository struct {
	findByIDFunc               func(ctx context.Context, id string) (*model.Activity, error)
	findAllFunc                func(ctx context.Context, limit int, offset int64) ([]*model.Activity, error)
	findIntersectingWindowFunc func(ctx context.Context, from, to time.Time) ([]*model.Activity, error)
	countFunc                  func(ctx context.Context) (int64, error)
}

func (m *mockActivityRepository) FindByID(ctx context.Context, id string) (*model.Activity, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, activitieserrors.ErrNotFound
}

func (m *mockActivityRepository) FindAll(ctx context.Context, limit int, offset int64) ([]*model.Activity, error) {
	if m.findAllFunc != nil {
		return m.findAllFunc(ctx, limit, offset)
	}
	return []*model.Activity{}, nil
}

func (m *mockActivityRepository) FindIntersectingWindow(ctx context.Context, from, to time.Time) ([]*model.Activity, error) {
	if m.findIntersectingWindowFunc != nil {
		return m.findIntersectingWindowFunc(ctx, from, to)
	}
	return []*model.Activity{}, nil
}

func (m *mockActivityRepository) Count(ctx context.Context) (int64, error) {
	if m.countFunc != nil {
		return m.countFunc(ctx)
	}
	return 0, nil
}

func testConfig() *config.Config {
	return &config.Config{
		Log: logger.New(logger.Config{
			Level:   "error",
			Format:  logger.JSON,
			Service: "test",
		}),
		QueryWindowDays:        31,
		DefaultDurationMin:     60,
		MaxOccurrencesPerQuery: 500,
	}
}

func TestGetByID(t *testing.T) {
	stored := &model.Activity{
		ID:        "65f000000000000000000001",
		Title:     map[string]string{"en": "Goat feeding"},
		StartTime: time.Date(2024, time.March, 10, 9, 0, 0, 0, time.UTC),
		Capacity:  12,
	}

	tests := []struct {
		name     string
		id       string
		repoErr  error
		wantCode string
	}{
		{
			name: "found",
			id:   stored.ID,
		},
		{
			name:     "empty id",
			id:       "",
			wantCode: apperrors.CodeInvalidInput,
		},
		{
			name:     "not found",
			id:       "65f000000000000000000099",
			repoErr:  activitieserrors.ErrNotFound,
			wantCode: apperrors.CodeNotFound,
		},
		{
			name:     "invalid id format",
			id:       "not-hex",
			repoErr:  activitieserrors.ErrInvalidID,
			wantCode: apperrors.CodeInvalidInput,
		},
		{
			name:     "repository failure",
			id:       stored.ID,
			repoErr:  fmt.Errorf("connection reset"),
			wantCode: apperrors.CodeInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockActivityRepository{
				findByIDFunc: func(ctx context.Context, id string) (*model.Activity, error) {
					if tt.repoErr != nil {
						return nil, fmt.Errorf("wrapped: %w", tt.repoErr)
					}
					return stored, nil
				},
			}
			svc := NewActivityService(repo, activityvalidator.NewActivityValidator(), testConfig())

			got, err := svc.GetByID(context.Background(), tt.id)
			if tt.wantCode == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if got.ID != stored.ID {
					t.Errorf("expected activity %s, got %s", stored.ID, got.ID)
				}
				return
			}

			if err == nil {
				t.Fatal("expected error, got nil")
			}
			appErr := apperrors.AsAppError(err)
			if appErr.Code != tt.wantCode {
				t.Errorf("expected code %s, got %s", tt.wantCode, appErr.Code)
			}
		})
	}
}

func TestGetAll(t *testing.T) {
	repo := &mockActivityRepository{
		findAllFunc: func(ctx context.Context, limit int, offset int64) ([]*model.Activity, error) {
			return []*model.Activity{
				{ID: "a"}, {ID: "b"},
			}, nil
		},
		countFunc: func(ctx context.Context) (int64, error) {
			return 7, nil
		},
	}
	svc := NewActivityService(repo, activityvalidator.NewActivityValidator(), testConfig())

	activities, total, err := svc.GetAll(context.Background(), 2, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(activities) != 2 {
		t.Errorf("expected 2 activities, got %d", len(activities))
	}
	if total != 7 {
		t.Errorf("expected total 7, got %d", total)
	}
}

func TestGetOccurrences(t *testing.T) {
	endDate := time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC)
	stored := &model.Activity{
		ID:        "65f000000000000000000001",
		StartTime: time.Date(2024, time.January, 1, 10, 0, 0, 0, time.UTC),
		Recurrence: &model.RecurrenceRule{
			Kind:    model.RecurrenceDaily,
			EndDate: &endDate,
		},
	}
	repo := &mockActivityRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Activity, error) {
			return stored, nil
		},
	}
	svc := NewActivityService(repo, activityvalidator.NewActivityValidator(), testConfig())

	t.Run("expands within window", func(t *testing.T) {
		got, err := svc.GetOccurrences(context.Background(),
			stored.ID,
			time.Date(2024, time.January, 10, 0, 0, 0, 0, time.UTC),
			time.Date(2024, time.January, 13, 0, 0, 0, 0, time.UTC),
		)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(got) != 3 {
			t.Errorf("expected 3 occurrences, got %d", len(got))
		}
		for _, occ := range got {
			if occ.Status == "" {
				t.Errorf("occurrence %v missing derived status", occ.Start)
			}
		}
	})

	t.Run("rejects inverted window", func(t *testing.T) {
		_, err := svc.GetOccurrences(context.Background(),
			stored.ID,
			time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
		)
		if err == nil || apperrors.AsAppError(err).Code != apperrors.CodeInvalidInput {
			t.Errorf("expected invalid input error, got %v", err)
		}
	})

	t.Run("rejects oversized window", func(t *testing.T) {
		_, err := svc.GetOccurrences(context.Background(),
			stored.ID,
			time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC),
		)
		if err == nil || apperrors.AsAppError(err).Code != apperrors.CodeInvalidInput {
			t.Errorf("expected invalid input error, got %v", err)
		}
	})
}

func TestValidateConfig(t *testing.T) {
	svc := NewActivityService(&mockActivityRepository{}, activityvalidator.NewActivityValidator(), testConfig())

	valid := &model.Activity{
		ID:        "65f000000000000000000001",
		Title:     map[string]string{"en": "Farm visit"},
		StartTime: time.Date(2024, time.May, 1, 10, 0, 0, 0, time.UTC),
		Capacity:  20,
		Category:  model.CategoryVisit,
	}
	if err := svc.ValidateConfig(valid); err != nil {
		t.Errorf("unexpected error for valid activity: %v", err)
	}

	t.Run("nil payload", func(t *testing.T) {
		err := svc.ValidateConfig(nil)
		if err == nil || apperrors.AsAppError(err).Code != apperrors.CodeInvalidInput {
			t.Errorf("expected invalid input error, got %v", err)
		}
	})

	t.Run("broken recurrence surfaces as validation error", func(t *testing.T) {
		broken := *valid
		broken.Recurrence = &model.RecurrenceRule{Kind: model.RecurrenceWeekly}

		err := svc.ValidateConfig(&broken)
		if err == nil {
			t.Fatal("expected validation error, got nil")
		}
		if apperrors.AsAppError(err).Code != apperrors.CodeValidation {
			t.Errorf("expected validation error code, got %v", err)
		}
	})
}
