package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	activitiesrepo "farmbook/internal/activities/repository"
	bookingsrepo "farmbook/internal/bookings/repository"
	"farmbook/internal/calendar/repository"
	"farmbook/internal/occurrence"
	"farmbook/pkg/config"
	apperrors "farmbook/pkg/errors"
	"farmbook/pkg/model"
)

// CalendarService merges activities, expanded recurring occurrences,
// freestanding events, and optionally bookings into one time-ordered view
// with derived availability and status.
type CalendarService interface {
	Query(ctx context.Context, from, to time.Time, filters model.CalendarFilters) ([]model.CalendarEntry, int64, error)
}

type calendarService struct {
	activities activitiesrepo.ActivityRepository
	events     repository.EventRepository
	bookings   bookingsrepo.BookingRepository
	cfg        *config.Config
}

func NewCalendarService(
	activities activitiesrepo.ActivityRepository,
	events repository.EventRepository,
	bookings bookingsrepo.BookingRepository,
	cfg *config.Config,
) CalendarService {
	return &calendarService{
		activities: activities,
		events:     events,
		bookings:   bookings,
		cfg:        cfg,
	}
}

// Query runs the underlying reads in parallel but merges only after every
// read completes: a failed or timed-out read fails the whole query, never a
// partial calendar. The returned count is the total over the full merged
// window, not the page.
func (s *calendarService) Query(ctx context.Context, from, to time.Time, filters model.CalendarFilters) ([]model.CalendarEntry, int64, error) {
	if !from.Before(to) {
		return nil, 0, apperrors.InvalidInput("Query window start must be before its end")
	}
	maxWindow := time.Duration(s.cfg.QueryWindowDays) * 24 * time.Hour
	if to.Sub(from) > maxWindow {
		return nil, 0, apperrors.InvalidInput("Query window exceeds the configured maximum")
	}

	ctx, cancel := context.WithTimeout(ctx, s.cfg.AggregateTimeout)
	defer cancel()

	var (
		wg             sync.WaitGroup
		activitiesList []*model.Activity
		eventsList     []*model.CalendarEvent
		loads          []bookingsrepo.OccurrenceLoad
		bookingsList   []*model.Booking

		activitiesErr, eventsErr, loadsErr, bookingsErr error
	)

	wg.Add(3)
	go func() {
		defer wg.Done()
		activitiesList, activitiesErr = s.activities.FindIntersectingWindow(ctx, from, to)
	}()
	go func() {
		defer wg.Done()
		eventsList, eventsErr = s.events.FindByWindow(ctx, from, to)
	}()
	go func() {
		defer wg.Done()
		loads, loadsErr = s.bookings.LoadsForWindow(ctx, from, to)
	}()
	if filters.IncludeBookings {
		wg.Add(1)
		go func() {
			defer wg.Done()
			bookingsList, bookingsErr = s.bookings.FindForWindow(ctx, from, to)
		}()
	}
	wg.Wait()

	if err := errors.Join(activitiesErr, eventsErr, loadsErr, bookingsErr); err != nil {
		if ctx.Err() != nil {
			s.cfg.Log.Warn("Calendar aggregation timed out", "from", from, "to", to)
			return nil, 0, apperrors.Timeout("Calendar aggregation exceeded its time budget")
		}
		s.cfg.Log.Error("Calendar aggregation failed", "from", from, "to", to, "error", err)
		return nil, 0, apperrors.Internal("Failed to aggregate calendar", err)
	}

	loadIndex := indexLoads(loads)
	now := time.Now().UTC()

	var entries []model.CalendarEntry
	for _, activity := range activitiesList {
		entries = append(entries, s.activityEntries(activity, from, to, loadIndex, now, filters)...)
	}
	for _, event := range eventsList {
		if entry, ok := s.eventEntry(event, now, filters); ok {
			entries = append(entries, entry)
		}
	}
	for _, booking := range bookingsList {
		if entry, ok := s.bookingEntry(booking, now, filters); ok {
			entries = append(entries, entry)
		}
	}

	sortEntries(entries)

	totalCount := int64(len(entries))
	limit := config.NormalizePaginationLimit(filters.Limit)
	offset := config.NormalizeOffset(filters.Offset)
	return pageOf(entries, limit, offset), totalCount, nil
}

// pageOf slices one page out of the sorted entries. An offset past the end
// yields an empty page, not an error.
func pageOf(entries []model.CalendarEntry, limit int, offset int64) []model.CalendarEntry {
	if offset >= int64(len(entries)) {
		return []model.CalendarEntry{}
	}
	end := min(offset+int64(limit), int64(len(entries)))
	return entries[offset:end]
}

func loadKey(activityID string, occurrenceDate time.Time) string {
	return fmt.Sprintf("%s:%d", activityID, occurrenceDate.UTC().Unix())
}

func indexLoads(loads []bookingsrepo.OccurrenceLoad) map[string]int {
	index := make(map[string]int, len(loads))
	for _, load := range loads {
		index[loadKey(load.ActivityID, load.OccurrenceDate)] = load.Seats
	}
	return index
}

func (s *calendarService) activityEntries(activity *model.Activity, from, to time.Time, loadIndex map[string]int, now time.Time, filters model.CalendarFilters) []model.CalendarEntry {
	if filters.PublicOnly && activity.Internal {
		return nil
	}
	if filters.Category != "" && activity.Category != filters.Category {
		return nil
	}

	occurrences := occurrence.Expand(activity, from, to, occurrence.Options{
		DefaultDurationMinutes: s.cfg.DefaultDurationMin,
		MaxOccurrences:         s.cfg.MaxOccurrencesPerQuery,
	})

	entries := make([]model.CalendarEntry, 0, len(occurrences))
	for _, occ := range occurrences {
		status := occurrence.DeriveStatus(occ, now, activity.StatusOverride)
		if filters.Status != "" && status != filters.Status {
			continue
		}
		if !inSubRange(occ.Start, filters) {
			continue
		}

		load := loadIndex[loadKey(activity.ID, occ.Start)]
		available := activity.Capacity - load

		entries = append(entries, model.CalendarEntry{
			Kind:       model.EntryActivity,
			ID:         fmt.Sprintf("%s:%d", activity.ID, occ.Start.UTC().Unix()),
			ActivityID: activity.ID,
			Title:      activity.Title,
			Start:      occ.Start,
			End:        occ.End,
			Category:   activity.Category,
			Color:      ColorForCategory(activity.Category),
			Status:     status,
			Capacity:   activity.Capacity,
			Load:       load,
			Available:  available,
			Full:       available <= 0,
			Featured:   activity.Featured,
		})
	}

	return entries
}

func (s *calendarService) eventEntry(event *model.CalendarEvent, now time.Time, filters model.CalendarFilters) (model.CalendarEntry, bool) {
	if filters.PublicOnly && event.Internal {
		return model.CalendarEntry{}, false
	}
	if filters.Category != "" && event.Category != filters.Category {
		return model.CalendarEntry{}, false
	}
	if !inSubRange(event.StartTime, filters) {
		return model.CalendarEntry{}, false
	}

	end := event.StartTime
	if event.EndTime != nil {
		end = *event.EndTime
	}

	entry := model.CalendarEntry{
		Kind:       model.EntryEvent,
		ID:         event.ID,
		ActivityID: event.ActivityID,
		Title:      event.Title,
		Start:      event.StartTime,
		End:        end,
		Category:   event.Category,
		Color:      ColorForCategory(event.Category),
		Status:     occurrence.DeriveStatus(model.Occurrence{Start: event.StartTime, End: end}, now, ""),
	}
	if filters.Status != "" && entry.Status != filters.Status {
		return model.CalendarEntry{}, false
	}

	return entry, true
}

// bookingEntry maps a seat-holding booking onto the calendar. Cancelled and
// completed bookings are omitted; they carry no load.
func (s *calendarService) bookingEntry(booking *model.Booking, now time.Time, filters model.CalendarFilters) (model.CalendarEntry, bool) {
	if !booking.Status.CountsTowardLoad() {
		return model.CalendarEntry{}, false
	}
	if !inSubRange(booking.OccurrenceDate, filters) {
		return model.CalendarEntry{}, false
	}

	end := booking.OccurrenceDate.Add(time.Duration(s.cfg.DefaultDurationMin) * time.Minute)
	entry := model.CalendarEntry{
		Kind:       model.EntryBooking,
		ID:         booking.ID,
		ActivityID: booking.ActivityID,
		Start:      booking.OccurrenceDate,
		End:        end,
		Color:      defaultColor,
		Status:     occurrence.DeriveStatus(model.Occurrence{Start: booking.OccurrenceDate, End: end}, now, ""),
		Load:       booking.NumPeople,
	}
	if filters.Status != "" && entry.Status != filters.Status {
		return model.CalendarEntry{}, false
	}

	return entry, true
}

func inSubRange(start time.Time, filters model.CalendarFilters) bool {
	if filters.From != nil && start.Before(*filters.From) {
		return false
	}
	if filters.To != nil && !start.Before(*filters.To) {
		return false
	}
	return true
}

// sortEntries orders by start time, then entry kind, then ID, so identical
// inputs always produce byte-identical output.
func sortEntries(entries []model.CalendarEntry) {
	sort.Slice(entries, func(i, j int) bool {
		if !entries[i].Start.Equal(entries[j].Start) {
			return entries[i].Start.Before(entries[j].Start)
		}
		if entries[i].Kind != entries[j].Kind {
			return entries[i].Kind.SortRank() < entries[j].Kind.SortRank()
		}
		return entries[i].ID < entries[j].ID
	})
}
