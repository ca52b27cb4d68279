package model

import "time"

// Occurrence is one concrete dated instance of an activity. Occurrences are
// ephemeral: recomputed from the activity and its recurrence rule at query
// time, never persisted.
type Occurrence struct {
	ActivityID string         `json:"activity_id"`
	Start      time.Time      `json:"start"`
	End        time.Time      `json:"end"`
	Status     ActivityStatus `json:"status,omitempty"`
}
