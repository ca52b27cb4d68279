package occurrence

import (
	"time"

	"farmbook/pkg/model"
)

// DeriveStatus computes the display status of an occurrence at the given
// instant. An explicit cancelled override wins regardless of time.
func DeriveStatus(occ model.Occurrence, now time.Time, override model.ActivityStatus) model.ActivityStatus {
	if override == model.StatusCancelled {
		return model.StatusCancelled
	}
	if now.Before(occ.Start) {
		return model.StatusUpcoming
	}
	if !now.After(occ.End) {
		return model.StatusActive
	}
	return model.StatusCompleted
}
