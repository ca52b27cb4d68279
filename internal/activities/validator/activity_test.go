package validator

import (
	"testing"
	"time"

	"farmbook/pkg/model"
)

func validActivity() *model.Activity {
	return &model.Activity{
		ID:        "65f000000000000000000001",
		Title:     map[string]string{"es": "Visita a la granja", "en": "Farm visit"},
		StartTime: time.Date(2024, time.May, 1, 10, 0, 0, 0, time.UTC),
		Capacity:  20,
		Category:  model.CategoryVisit,
	}
}

func TestValidateActivity(t *testing.T) {
	v := NewActivityValidator()

	endDate := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)
	pastEndDate := time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		mutate  func(a *model.Activity)
		wantErr bool
	}{
		{
			name:   "valid one-off activity",
			mutate: func(a *model.Activity) {},
		},
		{
			name: "valid weekly recurrence",
			mutate: func(a *model.Activity) {
				a.Recurrence = &model.RecurrenceRule{
					Kind:     model.RecurrenceWeekly,
					EndDate:  &endDate,
					Weekdays: []time.Weekday{time.Saturday},
				}
			},
		},
		{
			name: "empty title payload",
			mutate: func(a *model.Activity) {
				a.Title = map[string]string{"es": "", "en": ""}
			},
			wantErr: true,
		},
		{
			name: "zero capacity",
			mutate: func(a *model.Activity) {
				a.Capacity = 0
			},
			wantErr: true,
		},
		{
			name: "capacity over maximum",
			mutate: func(a *model.Activity) {
				a.Capacity = 1000
			},
			wantErr: true,
		},
		{
			name: "end before start",
			mutate: func(a *model.Activity) {
				end := a.StartTime.Add(-time.Hour)
				a.EndTime = &end
			},
			wantErr: true,
		},
		{
			name: "recurring without end date",
			mutate: func(a *model.Activity) {
				a.Recurrence = &model.RecurrenceRule{Kind: model.RecurrenceDaily}
			},
			wantErr: true,
		},
		{
			name: "recurrence ends before start",
			mutate: func(a *model.Activity) {
				a.Recurrence = &model.RecurrenceRule{
					Kind:    model.RecurrenceDaily,
					EndDate: &pastEndDate,
				}
			},
			wantErr: true,
		},
		{
			name: "weekly without weekdays",
			mutate: func(a *model.Activity) {
				a.Recurrence = &model.RecurrenceRule{
					Kind:    model.RecurrenceWeekly,
					EndDate: &endDate,
				}
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			activity := validActivity()
			tt.mutate(activity)

			err := v.Validate(activity)
			if tt.wantErr && err == nil {
				t.Error("expected validation error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected validation error: %v", err)
			}
		})
	}
}
