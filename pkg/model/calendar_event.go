package model

import (
	"time"
)

// CalendarEvent is a freestanding calendar entry with no booking capacity,
// e.g. an informational marker. An optional activity reference is display
// only and never capacity-relevant.
type CalendarEvent struct {
	ID         string            `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Title      map[string]string `json:"title" bson:"title" validate:"required,display_payload"`
	StartTime  time.Time         `json:"start_time" bson:"start_time" validate:"required"`
	EndTime    *time.Time        `json:"end_time,omitempty" bson:"end_time,omitempty" validate:"omitempty,gtfield=StartTime"`
	Category   string            `json:"category" bson:"category" validate:"required,min=2,max=50"`
	Internal   bool              `json:"internal" bson:"internal"`
	ActivityID string            `json:"activity_id,omitempty" bson:"activity_id,omitempty" validate:"omitempty,mongodb"`
	CreatedAt  time.Time         `json:"created_at" bson:"created_at" validate:"omitempty"`
}

type EntryKind string

const (
	EntryActivity EntryKind = "activity"
	EntryEvent    EntryKind = "event"
	EntryBooking  EntryKind = "booking"
)

// SortRank fixes the tie-break order between entry kinds sharing a start time.
func (k EntryKind) SortRank() int {
	switch k {
	case EntryActivity:
		return 0
	case EntryEvent:
		return 1
	case EntryBooking:
		return 2
	default:
		return 3
	}
}

// CalendarEntry is one annotated item of the unified calendar.
type CalendarEntry struct {
	Kind       EntryKind         `json:"kind"`
	ID         string            `json:"id"`
	ActivityID string            `json:"activity_id,omitempty"`
	Title      map[string]string `json:"title,omitempty"`
	Start      time.Time         `json:"start"`
	End        time.Time         `json:"end"`
	Category   string            `json:"category,omitempty"`
	Color      string            `json:"color"`
	Status     ActivityStatus    `json:"status"`
	Capacity   int               `json:"capacity,omitempty"`
	Load       int               `json:"load"`
	Available  int               `json:"available"`
	Full       bool              `json:"full"`
	Featured   bool              `json:"featured,omitempty"`
}

// CalendarFilters narrows an aggregator query. Zero values mean "no filter";
// Limit and Offset page the merged result and are normalized by the service.
type CalendarFilters struct {
	Category        string
	Status          ActivityStatus
	From            *time.Time
	To              *time.Time
	PublicOnly      bool
	IncludeBookings bool
	Limit           int
	Offset          int64
}
