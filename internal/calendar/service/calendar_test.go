package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	bookingsrepo "farmbook/internal/bookings/repository"
	"farmbook/pkg/config"
	mongotx "farmbook/pkg/db/mongo"
	apperrors "farmbook/pkg/errors"
	"farmbook/pkg/logger"
	"farmbook/pkg/model"
)

type mockActivityRepository struct {
	activities []*model.Activity
	err        error
}

func (m *mockActivityRepository) FindByID(ctx context.Context, id string) (*model.Activity, error) {
	return nil, fmt.Errorf("not implemented")
}

func (m *mockActivityRepository) FindAll(ctx context.Context, limit int, offset int64) ([]*model.Activity, error) {
	return m.activities, m.err
}

func (m *mockActivityRepository) FindIntersectingWindow(ctx context.Context, from, to time.Time) ([]*model.Activity, error) {
	return m.activities, m.err
}

func (m *mockActivityRepository) Count(ctx context.Context) (int64, error) {
	return int64(len(m.activities)), nil
}

type mockEventRepository struct {
	events []*model.CalendarEvent
	err    error
}

func (m *mockEventRepository) FindByWindow(ctx context.Context, from, to time.Time) ([]*model.CalendarEvent, error) {
	return m.events, m.err
}

func (m *mockEventRepository) Count(ctx context.Context) (int64, error) {
	return int64(len(m.events)), nil
}

type mockBookingRepository struct {
	loads    []bookingsrepo.OccurrenceLoad
	bookings []*model.Booking
	loadsErr error
}

func (m *mockBookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	return nil
}

func (m *mockBookingRepository) FindByID(ctx context.Context, id string) (*model.Booking, error) {
	return nil, nil
}

func (m *mockBookingRepository) FindByCode(ctx context.Context, code string) (*model.Booking, error) {
	return nil, nil
}

func (m *mockBookingRepository) FindAll(ctx context.Context, limit int, offset int64) ([]*model.Booking, error) {
	return m.bookings, nil
}

func (m *mockBookingRepository) FindForWindow(ctx context.Context, from, to time.Time) ([]*model.Booking, error) {
	return m.bookings, nil
}

func (m *mockBookingRepository) UpdateStatus(ctx context.Context, id string, status model.BookingStatus) error {
	return nil
}

func (m *mockBookingRepository) Count(ctx context.Context) (int64, error) {
	return int64(len(m.bookings)), nil
}

func (m *mockBookingRepository) LoadForOccurrence(ctx context.Context, activityID string, occurrenceDate time.Time) (int, error) {
	return 0, nil
}

func (m *mockBookingRepository) LoadsForWindow(ctx context.Context, from, to time.Time) ([]bookingsrepo.OccurrenceLoad, error) {
	return m.loads, m.loadsErr
}

func (m *mockBookingRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return fn(ctx)
}

func testConfig() *config.Config {
	return &config.Config{
		Log: logger.New(logger.Config{
			Level:   "error",
			Format:  logger.JSON,
			Service: "test",
		}),
		AggregateTimeout:       5 * time.Second,
		QueryWindowDays:        31,
		DefaultDurationMin:     60,
		MaxOccurrencesPerQuery: 500,
	}
}

func TestQueryMergesAndAnnotates(t *testing.T) {
	base := time.Now().UTC().AddDate(0, 0, 7).Truncate(time.Hour)
	from := base.AddDate(0, 0, -1)
	to := base.AddDate(0, 0, 7)

	activity := &model.Activity{
		ID:        "65f000000000000000000001",
		Title:     map[string]string{"en": "Farm visit"},
		StartTime: base,
		Capacity:  10,
		Category:  model.CategoryVisit,
	}
	eventEnd := base.Add(2 * time.Hour)
	event := &model.CalendarEvent{
		ID:        "65f000000000000000000002",
		Title:     map[string]string{"en": "Harvest festival"},
		StartTime: base,
		EndTime:   &eventEnd,
		Category:  "unrecognized",
	}

	svc := NewCalendarService(
		&mockActivityRepository{activities: []*model.Activity{activity}},
		&mockEventRepository{events: []*model.CalendarEvent{event}},
		&mockBookingRepository{loads: []bookingsrepo.OccurrenceLoad{
			{ActivityID: activity.ID, OccurrenceDate: base, Seats: 4},
		}},
		testConfig(),
	)

	entries, totalCount, err := svc.Query(context.Background(), from, to, model.CalendarFilters{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 2 || totalCount != 2 {
		t.Fatalf("expected 2 entries with total 2, got %d entries, total %d", len(entries), totalCount)
	}

	// Same start time: activity sorts before event.
	if entries[0].Kind != model.EntryActivity || entries[1].Kind != model.EntryEvent {
		t.Errorf("unexpected kind order: %s, %s", entries[0].Kind, entries[1].Kind)
	}

	act := entries[0]
	if act.Load != 4 || act.Available != 6 || act.Full {
		t.Errorf("unexpected availability: load=%d available=%d full=%v", act.Load, act.Available, act.Full)
	}
	if act.Color != "green" {
		t.Errorf("expected green for visit category, got %s", act.Color)
	}
	if act.Status != model.StatusUpcoming {
		t.Errorf("expected upcoming status, got %s", act.Status)
	}

	if entries[1].Color != "gray" {
		t.Errorf("expected gray for unrecognized category, got %s", entries[1].Color)
	}
}

func TestQueryMarksFullOccurrences(t *testing.T) {
	base := time.Now().UTC().AddDate(0, 0, 7).Truncate(time.Hour)

	activity := &model.Activity{
		ID:        "65f000000000000000000001",
		Title:     map[string]string{"en": "Cheese tasting"},
		StartTime: base,
		Capacity:  5,
		Category:  model.CategoryTasting,
	}

	svc := NewCalendarService(
		&mockActivityRepository{activities: []*model.Activity{activity}},
		&mockEventRepository{},
		&mockBookingRepository{loads: []bookingsrepo.OccurrenceLoad{
			{ActivityID: activity.ID, OccurrenceDate: base, Seats: 5},
		}},
		testConfig(),
	)

	entries, _, err := svc.Query(context.Background(), base.AddDate(0, 0, -1), base.AddDate(0, 0, 1), model.CalendarFilters{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if !entries[0].Full || entries[0].Available != 0 {
		t.Errorf("expected full occurrence, got available=%d full=%v", entries[0].Available, entries[0].Full)
	}
}

func TestQueryExpandsRecurringActivities(t *testing.T) {
	base := time.Now().UTC().AddDate(0, 0, 7).Truncate(time.Hour)
	endDate := base.AddDate(0, 2, 0)

	activity := &model.Activity{
		ID:        "65f000000000000000000001",
		Title:     map[string]string{"en": "Morning milking"},
		StartTime: base,
		Capacity:  8,
		Category:  model.CategoryVisit,
		Recurrence: &model.RecurrenceRule{
			Kind:    model.RecurrenceDaily,
			EndDate: &endDate,
		},
	}

	svc := NewCalendarService(
		&mockActivityRepository{activities: []*model.Activity{activity}},
		&mockEventRepository{},
		&mockBookingRepository{},
		testConfig(),
	)

	entries, _, err := svc.Query(context.Background(), base, base.AddDate(0, 0, 5), model.CalendarFilters{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 5 {
		t.Fatalf("expected 5 daily entries, got %d", len(entries))
	}
	for i := 1; i < len(entries); i++ {
		if !entries[i].Start.After(entries[i-1].Start) {
			t.Errorf("entries out of order at %d: %v !> %v", i, entries[i].Start, entries[i-1].Start)
		}
	}
}

func TestQueryPaginatesSortedEntries(t *testing.T) {
	base := time.Now().UTC().AddDate(0, 0, 7).Truncate(time.Hour)
	endDate := base.AddDate(0, 1, 0)

	activity := &model.Activity{
		ID:        "65f000000000000000000001",
		Title:     map[string]string{"en": "Morning milking"},
		StartTime: base,
		Capacity:  8,
		Category:  model.CategoryVisit,
		Recurrence: &model.RecurrenceRule{
			Kind:    model.RecurrenceDaily,
			EndDate: &endDate,
		},
	}

	svc := NewCalendarService(
		&mockActivityRepository{activities: []*model.Activity{activity}},
		&mockEventRepository{},
		&mockBookingRepository{},
		testConfig(),
	)
	from, to := base, base.AddDate(0, 0, 5)

	firstPage, totalCount, err := svc.Query(context.Background(), from, to, model.CalendarFilters{Limit: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if totalCount != 5 {
		t.Fatalf("expected total of 5 daily entries, got %d", totalCount)
	}
	if len(firstPage) != 2 {
		t.Fatalf("expected a page of 2, got %d", len(firstPage))
	}
	if int64(len(firstPage)) >= totalCount {
		t.Error("first page should leave more entries to fetch")
	}

	secondPage, totalCount, err := svc.Query(context.Background(), from, to, model.CalendarFilters{Limit: 2, Offset: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if totalCount != 5 || len(secondPage) != 2 {
		t.Fatalf("expected second page of 2 with total 5, got %d entries, total %d", len(secondPage), totalCount)
	}
	if !secondPage[0].Start.After(firstPage[1].Start) {
		t.Errorf("pages overlap: %v !> %v", secondPage[0].Start, firstPage[1].Start)
	}

	lastPage, totalCount, err := svc.Query(context.Background(), from, to, model.CalendarFilters{Limit: 2, Offset: 4})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(lastPage) != 1 {
		t.Fatalf("expected a final page of 1, got %d", len(lastPage))
	}
	// offset+limit reaches past the total: the has-more flag must clear.
	if 4+2 < totalCount {
		t.Error("final page should not report more entries")
	}

	pastEnd, totalCount, err := svc.Query(context.Background(), from, to, model.CalendarFilters{Limit: 2, Offset: 10})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pastEnd) != 0 || totalCount != 5 {
		t.Errorf("expected empty page past the end with total 5, got %d entries, total %d", len(pastEnd), totalCount)
	}
}

func TestQueryFilters(t *testing.T) {
	base := time.Now().UTC().AddDate(0, 0, 7).Truncate(time.Hour)

	visit := &model.Activity{
		ID:        "65f000000000000000000001",
		Title:     map[string]string{"en": "Farm visit"},
		StartTime: base,
		Capacity:  10,
		Category:  model.CategoryVisit,
	}
	workshop := &model.Activity{
		ID:        "65f000000000000000000002",
		Title:     map[string]string{"en": "Bread workshop"},
		StartTime: base.Add(time.Hour),
		Capacity:  6,
		Category:  model.CategoryWorkshop,
	}
	internalEvent := &model.CalendarEvent{
		ID:        "65f000000000000000000003",
		Title:     map[string]string{"en": "Vet inspection"},
		StartTime: base,
		Category:  model.CategoryVisit,
		Internal:  true,
	}

	svc := NewCalendarService(
		&mockActivityRepository{activities: []*model.Activity{visit, workshop}},
		&mockEventRepository{events: []*model.CalendarEvent{internalEvent}},
		&mockBookingRepository{},
		testConfig(),
	)
	window := func() (time.Time, time.Time) { return base.AddDate(0, 0, -1), base.AddDate(0, 0, 1) }

	t.Run("category filter", func(t *testing.T) {
		from, to := window()
		entries, _, err := svc.Query(context.Background(), from, to, model.CalendarFilters{Category: model.CategoryWorkshop})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(entries) != 1 || entries[0].ActivityID != workshop.ID {
			t.Errorf("expected only the workshop, got %d entries", len(entries))
		}
	})

	t.Run("public only excludes internal events", func(t *testing.T) {
		from, to := window()
		entries, _, err := svc.Query(context.Background(), from, to, model.CalendarFilters{PublicOnly: true})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for _, entry := range entries {
			if entry.Kind == model.EntryEvent {
				t.Errorf("internal event leaked into public view: %s", entry.ID)
			}
		}
	})

	t.Run("status filter", func(t *testing.T) {
		from, to := window()
		entries, _, err := svc.Query(context.Background(), from, to, model.CalendarFilters{Status: model.StatusCompleted})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(entries) != 0 {
			t.Errorf("expected no completed entries in a future window, got %d", len(entries))
		}
	})

	t.Run("date sub-range", func(t *testing.T) {
		from, to := window()
		subTo := base.Add(30 * time.Minute)
		entries, _, err := svc.Query(context.Background(), from, to, model.CalendarFilters{To: &subTo})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(entries) != 2 {
			t.Errorf("expected 2 entries before the sub-range cutoff, got %d", len(entries))
		}
	})
}

func TestQueryIncludesBookings(t *testing.T) {
	base := time.Now().UTC().AddDate(0, 0, 7).Truncate(time.Hour)

	booking := &model.Booking{
		ID:             "65f000000000000000000009",
		Code:           "LX2B4W-ABCD",
		ActivityID:     "65f000000000000000000001",
		OccurrenceDate: base,
		NumPeople:      3,
		Status:         model.BookingConfirmed,
	}
	cancelled := &model.Booking{
		ID:             "65f000000000000000000010",
		Code:           "LX2B4W-EFGH",
		ActivityID:     "65f000000000000000000001",
		OccurrenceDate: base,
		NumPeople:      2,
		Status:         model.BookingCancelled,
	}

	svc := NewCalendarService(
		&mockActivityRepository{},
		&mockEventRepository{},
		&mockBookingRepository{bookings: []*model.Booking{booking, cancelled}},
		testConfig(),
	)

	entries, _, err := svc.Query(context.Background(), base.AddDate(0, 0, -1), base.AddDate(0, 0, 1), model.CalendarFilters{IncludeBookings: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected only the seat-holding booking, got %d entries", len(entries))
	}
	if entries[0].Kind != model.EntryBooking || entries[0].Load != 3 {
		t.Errorf("unexpected booking entry: %+v", entries[0])
	}
}

func TestQueryDeterministicOutput(t *testing.T) {
	base := time.Now().UTC().AddDate(0, 0, 7).Truncate(time.Hour)

	activities := []*model.Activity{
		{
			ID:        "65f000000000000000000002",
			Title:     map[string]string{"en": "B"},
			StartTime: base,
			Capacity:  5,
			Category:  model.CategoryVisit,
		},
		{
			ID:        "65f000000000000000000001",
			Title:     map[string]string{"en": "A"},
			StartTime: base,
			Capacity:  5,
			Category:  model.CategoryVisit,
		},
	}

	svc := NewCalendarService(
		&mockActivityRepository{activities: activities},
		&mockEventRepository{},
		&mockBookingRepository{},
		testConfig(),
	)

	from, to := base.AddDate(0, 0, -1), base.AddDate(0, 0, 1)
	first, _, err := svc.Query(context.Background(), from, to, model.CalendarFilters{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, _, err := svc.Query(context.Background(), from, to, model.CalendarFilters{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("identical queries diverged (-first +second):\n%s", diff)
	}

	// Equal starts break ties by ID.
	if first[0].ActivityID != "65f000000000000000000001" {
		t.Errorf("expected lowest ID first, got %s", first[0].ActivityID)
	}
}

func TestQueryFailsWholeOnStoreError(t *testing.T) {
	base := time.Now().UTC().AddDate(0, 0, 7).Truncate(time.Hour)

	svc := NewCalendarService(
		&mockActivityRepository{activities: []*model.Activity{{
			ID:        "65f000000000000000000001",
			Title:     map[string]string{"en": "Farm visit"},
			StartTime: base,
			Capacity:  10,
			Category:  model.CategoryVisit,
		}}},
		&mockEventRepository{err: fmt.Errorf("store unavailable")},
		&mockBookingRepository{},
		testConfig(),
	)

	entries, _, err := svc.Query(context.Background(), base.AddDate(0, 0, -1), base.AddDate(0, 0, 1), model.CalendarFilters{})
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if entries != nil {
		t.Errorf("expected no partial results, got %d entries", len(entries))
	}
	if apperrors.AsAppError(err).Code != apperrors.CodeInternal {
		t.Errorf("expected internal error, got %v", err)
	}
}

func TestQueryRejectsInvalidWindows(t *testing.T) {
	svc := NewCalendarService(
		&mockActivityRepository{},
		&mockEventRepository{},
		&mockBookingRepository{},
		testConfig(),
	)
	now := time.Now().UTC()

	t.Run("inverted", func(t *testing.T) {
		_, _, err := svc.Query(context.Background(), now, now.AddDate(0, 0, -1), model.CalendarFilters{})
		if err == nil || apperrors.AsAppError(err).Code != apperrors.CodeInvalidInput {
			t.Errorf("expected invalid input error, got %v", err)
		}
	})

	t.Run("oversized", func(t *testing.T) {
		_, _, err := svc.Query(context.Background(), now, now.AddDate(0, 3, 0), model.CalendarFilters{})
		if err == nil || apperrors.AsAppError(err).Code != apperrors.CodeInvalidInput {
			t.Errorf("expected invalid input error, got %v", err)
		}
	})
}
