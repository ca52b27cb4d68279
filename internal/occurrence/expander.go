package occurrence

import (
	"time"

	"farmbook/pkg/model"

	"github.com/teambition/rrule-go"
)

// Options controls expansion behavior.
type Options struct {
	// DefaultDurationMinutes is used when an activity carries neither an
	// explicit duration nor an end time.
	DefaultDurationMinutes int

	// MaxOccurrences caps the number of occurrences returned for a single
	// activity. Zero means no cap.
	MaxOccurrences int
}

// weekday order follows time.Weekday (Sunday first).
var rruleWeekdays = []rrule.Weekday{
	rrule.SU, rrule.MO, rrule.TU, rrule.WE, rrule.TH, rrule.FR, rrule.SA,
}

// Expand materializes the concrete occurrences of an activity that intersect
// the window [windowStart, windowEnd). The recurrence end date is an
// exclusive cutoff: an occurrence starting at or after it is not produced.
func Expand(activity *model.Activity, windowStart, windowEnd time.Time, opts Options) []model.Occurrence {
	if activity == nil || !windowStart.Before(windowEnd) {
		return nil
	}

	duration := activity.Duration(opts.DefaultDurationMinutes)

	if activity.Recurrence == nil || !activity.Recurrence.IsRecurring() {
		occ := makeOccurrence(activity, activity.StartTime, duration)
		if intersects(occ, windowStart, windowEnd) {
			return []model.Occurrence{occ}
		}
		return nil
	}

	rule := activity.Recurrence
	if rule.EndDate != nil && !activity.StartTime.Before(*rule.EndDate) {
		return nil
	}

	var starts []time.Time
	switch rule.Kind {
	case model.RecurrenceDaily:
		starts = expandRRule(activity, rrule.DAILY, nil, windowStart, windowEnd, duration)
	case model.RecurrenceWeekly:
		byweekday := make([]rrule.Weekday, 0, len(rule.Weekdays))
		for _, wd := range rule.Weekdays {
			if wd >= time.Sunday && wd <= time.Saturday {
				byweekday = append(byweekday, rruleWeekdays[wd])
			}
		}
		if len(byweekday) == 0 {
			return nil
		}
		starts = expandRRule(activity, rrule.WEEKLY, byweekday, windowStart, windowEnd, duration)
	case model.RecurrenceMonthly:
		starts = expandMonthly(activity, windowStart, windowEnd, duration)
	default:
		return nil
	}

	occurrences := make([]model.Occurrence, 0, len(starts))
	for _, start := range starts {
		if start.Before(activity.StartTime) {
			continue
		}
		if rule.EndDate != nil && !start.Before(*rule.EndDate) {
			continue
		}
		occ := makeOccurrence(activity, start, duration)
		if !intersects(occ, windowStart, windowEnd) {
			continue
		}
		occurrences = append(occurrences, occ)
		if opts.MaxOccurrences > 0 && len(occurrences) >= opts.MaxOccurrences {
			break
		}
	}

	return occurrences
}

func expandRRule(activity *model.Activity, freq rrule.Frequency, byweekday []rrule.Weekday, windowStart, windowEnd time.Time, duration time.Duration) []time.Time {
	opt := rrule.ROption{
		Freq:    freq,
		Dtstart: activity.StartTime,
	}
	if len(byweekday) > 0 {
		opt.Byweekday = byweekday
	}
	if activity.Recurrence.EndDate != nil {
		opt.Until = *activity.Recurrence.EndDate
	}

	rule, err := rrule.NewRRule(opt)
	if err != nil {
		return nil
	}

	// Widen the lower bound so occurrences that begin before the window but
	// overlap into it are still produced.
	return rule.Between(windowStart.Add(-duration), windowEnd, true)
}

// expandMonthly walks month by month from the activity anchor, clamping the
// day-of-month to the last day of short months. RRULE monthly semantics skip
// months without the anchor day, which is not what a "31st of every month"
// activity wants.
func expandMonthly(activity *model.Activity, windowStart, windowEnd time.Time, duration time.Duration) []time.Time {
	anchor := activity.StartTime
	rule := activity.Recurrence

	var starts []time.Time
	for i := 0; ; i++ {
		start := addMonthsClamped(anchor, i)
		if rule.EndDate != nil && !start.Before(*rule.EndDate) {
			break
		}
		if !start.Before(windowEnd) {
			break
		}
		if start.Add(duration).After(windowStart) {
			starts = append(starts, start)
		}
	}

	return starts
}

// addMonthsClamped adds n months to t, clamping the day to the target
// month's last day instead of letting time.AddDate roll over.
func addMonthsClamped(t time.Time, n int) time.Time {
	year, month, day := t.Date()
	first := time.Date(year, month+time.Month(n), 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	lastDay := first.AddDate(0, 1, -1).Day()
	if day > lastDay {
		day = lastDay
	}
	return time.Date(first.Year(), first.Month(), day, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

func makeOccurrence(activity *model.Activity, start time.Time, duration time.Duration) model.Occurrence {
	return model.Occurrence{
		ActivityID: activity.ID,
		Start:      start,
		End:        start.Add(duration),
	}
}

func intersects(occ model.Occurrence, windowStart, windowEnd time.Time) bool {
	return occ.Start.Before(windowEnd) && occ.End.After(windowStart)
}
