package model

import (
	"time"
)

type ActivityStatus string

const (
	StatusUpcoming  ActivityStatus = "upcoming"
	StatusActive    ActivityStatus = "active"
	StatusCompleted ActivityStatus = "completed"
	StatusCancelled ActivityStatus = "cancelled"
)

type RecurrenceKind string

const (
	RecurrenceNone    RecurrenceKind = "none"
	RecurrenceDaily   RecurrenceKind = "daily"
	RecurrenceWeekly  RecurrenceKind = "weekly"
	RecurrenceMonthly RecurrenceKind = "monthly"
)

// Activity categories drive calendar coloring and filtering only.
const (
	CategoryVisit    = "visit"
	CategoryWorkshop = "workshop"
	CategoryTasting  = "tasting"
	CategoryMarket   = "market"
	CategoryCourse   = "course"
)

// RecurrenceRule describes how an activity repeats. The end date is an
// exclusive cutoff: no occurrence starts at or after it.
type RecurrenceRule struct {
	Kind     RecurrenceKind `json:"kind" bson:"kind" validate:"required,oneof=none daily weekly monthly"`
	EndDate  *time.Time     `json:"end_date,omitempty" bson:"end_date,omitempty" validate:"required_unless=Kind none"`
	Weekdays []time.Weekday `json:"weekdays,omitempty" bson:"weekdays,omitempty" validate:"required_if=Kind weekly,omitempty,min=1,max=7,unique,dive,min=0,max=6"`
}

func (r *RecurrenceRule) IsRecurring() bool {
	return r != nil && r.Kind != "" && r.Kind != RecurrenceNone
}

// Activity is a schedulable offering. Title and description are bilingual
// display payload, opaque to the engine.
type Activity struct {
	ID              string            `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Title           map[string]string `json:"title" bson:"title" validate:"required,display_payload"`
	Description     map[string]string `json:"description,omitempty" bson:"description,omitempty" validate:"omitempty,display_payload"`
	StartTime       time.Time         `json:"start_time" bson:"start_time" validate:"required"`
	EndTime         *time.Time        `json:"end_time,omitempty" bson:"end_time,omitempty" validate:"omitempty,gtfield=StartTime"`
	Location        string            `json:"location,omitempty" bson:"location,omitempty" validate:"omitempty,max=200"`
	Capacity        int               `json:"capacity" bson:"capacity" validate:"required,min=1,max=500"`
	Category        string            `json:"category" bson:"category" validate:"required,min=2,max=50"`
	DurationMinutes int               `json:"duration_minutes,omitempty" bson:"duration_minutes,omitempty" validate:"omitempty,min=5,max=1440"`
	Featured        bool              `json:"featured" bson:"featured"`
	StatusOverride  ActivityStatus    `json:"status_override,omitempty" bson:"status_override,omitempty" validate:"omitempty,oneof=upcoming active completed cancelled"`
	Internal        bool              `json:"internal" bson:"internal"`
	Recurrence      *RecurrenceRule   `json:"recurrence,omitempty" bson:"recurrence,omitempty"`
	CreatedAt       time.Time         `json:"created_at" bson:"created_at" validate:"omitempty"`
}

// Duration resolves the length of one occurrence. Falls back to the explicit
// end time, then to the supplied default.
func (a *Activity) Duration(defaultMinutes int) time.Duration {
	if a.DurationMinutes > 0 {
		return time.Duration(a.DurationMinutes) * time.Minute
	}
	if a.EndTime != nil && a.EndTime.After(a.StartTime) {
		return a.EndTime.Sub(a.StartTime)
	}
	return time.Duration(defaultMinutes) * time.Minute
}
