package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	activitieserrors "farmbook/internal/activities/errors"
	activitiesrepo "farmbook/internal/activities/repository"
	bookingserrors "farmbook/internal/bookings/errors"
	"farmbook/internal/bookings/repository"
	"farmbook/internal/bookings/validator"
	"farmbook/internal/occurrence"
	"farmbook/pkg/bookingcode"
	"farmbook/pkg/config"
	apperrors "farmbook/pkg/errors"
	"farmbook/pkg/kafka"
	"farmbook/pkg/model"
	"farmbook/pkg/sanitizer"
)

// EventPublisher is the slice of the Kafka producer the service needs.
type EventPublisher interface {
	Publish(ctx context.Context, msg kafka.Message) error
}

type BookingService interface {
	// Reserve is the sole invariant-preserving entry point: it admits a
	// reservation only when the occurrence has enough remaining seats.
	Reserve(ctx context.Context, req *model.ReservationRequest, remoteAddr string) (*model.Booking, error)

	Confirm(ctx context.Context, id string) (*model.Booking, error)
	Cancel(ctx context.Context, id string) (*model.Booking, error)

	GetByID(ctx context.Context, id string) (*model.Booking, error)
	GetByCode(ctx context.Context, code string) (*model.Booking, error)
	GetAll(ctx context.Context, limit int, offset int64) ([]*model.Booking, int64, error)

	CurrentLoad(ctx context.Context, activityID string, occurrenceDate time.Time) (int, error)
}

type bookingService struct {
	repo         repository.BookingRepository
	slotLocks    repository.SlotLockRepository
	fingerprints repository.FingerprintRepository
	activities   activitiesrepo.ActivityRepository
	validator    *validator.BookingValidator
	producer     EventPublisher
	cfg          *config.Config
}

func NewBookingService(
	repo repository.BookingRepository,
	slotLocks repository.SlotLockRepository,
	fingerprints repository.FingerprintRepository,
	activities activitiesrepo.ActivityRepository,
	validator *validator.BookingValidator,
	producer EventPublisher,
	cfg *config.Config,
) BookingService {
	return &bookingService{
		repo:         repo,
		slotLocks:    slotLocks,
		fingerprints: fingerprints,
		activities:   activities,
		validator:    validator,
		producer:     producer,
		cfg:          cfg,
	}
}

func (s *bookingService) Reserve(ctx context.Context, req *model.ReservationRequest, remoteAddr string) (*model.Booking, error) {
	s.sanitize(req)

	if err := s.validator.ValidateReservation(req); err != nil {
		s.cfg.Log.Warn("Reservation validation failed",
			"activity_id", req.ActivityID,
			"error", err,
		)
		return nil, apperrors.Validation("Reservation validation failed", map[string]any{
			"error": err.Error(),
		})
	}

	activity, err := s.verifyOccurrence(ctx, req)
	if err != nil {
		return nil, err
	}

	fingerprint := sanitizer.Fingerprint(req.Contact.Email, remoteAddr)
	if err := s.checkDuplicate(ctx, fingerprint); err != nil {
		return nil, err
	}

	lockKey := repository.LockKey(req.ActivityID, req.OccurrenceDate)
	if err := s.acquireSlotLock(ctx, lockKey); err != nil {
		return nil, err
	}
	defer func() {
		if err := s.slotLocks.Release(context.WithoutCancel(ctx), lockKey); err != nil {
			s.cfg.Log.Error("Failed to release slot lock", "key", lockKey, "error", err)
		}
	}()

	booking := &model.Booking{
		ActivityID:     req.ActivityID,
		OccurrenceDate: req.OccurrenceDate,
		Contact:        req.Contact,
		NumPeople:      req.NumPeople,
		Status:         model.BookingPending,
		Fingerprint:    fingerprint,
	}

	err = s.repo.ExecuteTransaction(ctx, func(txCtx context.Context) error {
		load, err := s.repo.LoadForOccurrence(txCtx, req.ActivityID, req.OccurrenceDate)
		if err != nil {
			return fmt.Errorf("failed to read occurrence load: %w", err)
		}

		if load+req.NumPeople > activity.Capacity {
			return apperrors.CapacityExceeded("Not enough seats remaining for this occurrence", map[string]any{
				"capacity":     activity.Capacity,
				"current_load": load,
				"requested":    req.NumPeople,
				"available":    activity.Capacity - load,
			})
		}

		if err := s.insertWithFreshCode(txCtx, booking); err != nil {
			return err
		}

		if err := s.fingerprints.Record(txCtx, fingerprint); err != nil {
			return fmt.Errorf("failed to record submission fingerprint: %w", err)
		}

		return nil
	})

	if err != nil {
		if apperrors.IsAppError(err) {
			return nil, err
		}
		s.cfg.Log.Error("Failed to reserve booking",
			"activity_id", req.ActivityID,
			"occurrence_date", req.OccurrenceDate,
			"error", err,
		)
		return nil, apperrors.Internal("Failed to create reservation", err)
	}

	s.cfg.Log.Info("Booking reserved",
		"id", booking.ID,
		"code", booking.Code,
		"activity_id", booking.ActivityID,
		"occurrence_date", booking.OccurrenceDate,
		"num_people", booking.NumPeople,
	)

	s.publishEvent(ctx, kafka.EventBookingCreated, booking)

	return booking, nil
}

func (s *bookingService) sanitize(req *model.ReservationRequest) {
	req.Contact.Name = sanitizer.NormalizeName(req.Contact.Name)
	req.Contact.Email = sanitizer.NormalizeEmail(req.Contact.Email)
	if req.Contact.Phone != "" {
		req.Contact.Phone = sanitizer.NormalizePhone(req.Contact.Phone)
	}
	req.OccurrenceDate = req.OccurrenceDate.UTC()
}

// verifyOccurrence confirms the requested date matches an occurrence the
// activity actually produces, so bookings cannot attach to dates the
// recurrence rule never generates.
func (s *bookingService) verifyOccurrence(ctx context.Context, req *model.ReservationRequest) (*model.Activity, error) {
	activity, err := s.activities.FindByID(ctx, req.ActivityID)
	if err != nil {
		if errors.Is(err, activitieserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Activity", req.ActivityID)
		}
		if errors.Is(err, activitieserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid activity ID format")
		}
		s.cfg.Log.Error("Failed to load activity for reservation", "activity_id", req.ActivityID, "error", err)
		return nil, apperrors.Internal("Failed to verify activity", err)
	}

	if activity.StatusOverride == model.StatusCancelled {
		return nil, apperrors.Conflict("Activity has been cancelled")
	}

	occurrences := occurrence.Expand(activity,
		req.OccurrenceDate,
		req.OccurrenceDate.Add(time.Minute),
		occurrence.Options{
			DefaultDurationMinutes: s.cfg.DefaultDurationMin,
			MaxOccurrences:         s.cfg.MaxOccurrencesPerQuery,
		},
	)
	for _, occ := range occurrences {
		if occ.Start.Equal(req.OccurrenceDate) {
			return activity, nil
		}
	}

	return nil, apperrors.Validation("Requested date does not match a scheduled occurrence", map[string]any{
		"activity_id":     req.ActivityID,
		"occurrence_date": req.OccurrenceDate,
	})
}

func (s *bookingService) checkDuplicate(ctx context.Context, fingerprint string) error {
	since := time.Now().UTC().Add(-s.cfg.DedupWindow)
	previous, err := s.fingerprints.FindLatest(ctx, fingerprint, since)
	if err != nil {
		s.cfg.Log.Error("Failed to check submission fingerprint", "error", err)
		return apperrors.Internal("Failed to check for duplicate submission", err)
	}
	if previous == nil {
		return nil
	}

	retryAfter := time.Until(previous.CreatedAt.Add(s.cfg.DedupWindow))
	return apperrors.DuplicateSubmission(retryAfter)
}

// acquireSlotLock serializes admission per occurrence. Waiters retry with a
// short delay; a loser that eventually acquires the lock sees the updated
// load inside its transaction.
func (s *bookingService) acquireSlotLock(ctx context.Context, key string) error {
	var lastErr error
	for attempt := 0; attempt <= s.cfg.SlotLockRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return apperrors.Timeout("Reservation was cancelled while waiting for admission")
			case <-time.After(s.cfg.SlotLockRetryDelay):
			}
		}

		err := s.slotLocks.Acquire(ctx, key, s.cfg.SlotLockTTL)
		if err == nil {
			return nil
		}
		if !errors.Is(err, bookingserrors.ErrSlotLocked) {
			s.cfg.Log.Error("Failed to acquire slot lock", "key", key, "error", err)
			return apperrors.Internal("Failed to acquire reservation lock", err)
		}
		lastErr = err
	}

	s.cfg.Log.Warn("Slot lock contention exhausted retries", "key", key, "error", lastErr)
	return apperrors.Conflict("Another reservation for this occurrence is in progress, please retry")
}

// insertWithFreshCode retries on booking code collisions. The unique index
// on code makes a collision an insert error rather than a silent overwrite.
func (s *bookingService) insertWithFreshCode(ctx context.Context, booking *model.Booking) error {
	for attempt := 0; attempt < s.cfg.BookingCodeAttempts; attempt++ {
		booking.Code = bookingcode.New()
		err := s.repo.Create(ctx, booking)
		if err == nil {
			return nil
		}
		if !errors.Is(err, bookingserrors.ErrDuplicateCode) {
			return err
		}
	}

	return fmt.Errorf("exhausted %d booking code attempts: %w", s.cfg.BookingCodeAttempts, bookingserrors.ErrDuplicateCode)
}

func (s *bookingService) Confirm(ctx context.Context, id string) (*model.Booking, error) {
	return s.transition(ctx, id, model.BookingConfirmed, kafka.EventBookingConfirmed)
}

// Cancel frees the booking's seats from future load calculations. The
// record is kept for audit; only its status changes.
func (s *bookingService) Cancel(ctx context.Context, id string) (*model.Booking, error) {
	return s.transition(ctx, id, model.BookingCancelled, kafka.EventBookingCancelled)
}

func (s *bookingService) transition(ctx context.Context, id string, status model.BookingStatus, eventType string) (*model.Booking, error) {
	booking, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if booking.Status == status {
		return booking, nil
	}
	if booking.Status == model.BookingCancelled && status == model.BookingConfirmed {
		return nil, apperrors.Conflict("Cannot confirm a cancelled booking")
	}

	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Booking", id)
		}
		s.cfg.Log.Error("Failed to transition booking", "id", id, "status", status, "error", err)
		return nil, apperrors.Internal("Failed to update booking status", err)
	}

	booking.Status = status
	s.cfg.Log.Info("Booking status changed", "id", id, "code", booking.Code, "status", status)
	s.publishEvent(ctx, eventType, booking)

	return booking, nil
}

func (s *bookingService) GetByID(ctx context.Context, id string) (*model.Booking, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Booking", id)
		}
		if errors.Is(err, bookingserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid booking ID format")
		}
		s.cfg.Log.Error("Failed to get booking", "id", id, "error", err)
		return nil, apperrors.Internal("Failed to retrieve booking", err)
	}

	return booking, nil
}

func (s *bookingService) GetByCode(ctx context.Context, code string) (*model.Booking, error) {
	if code == "" {
		return nil, apperrors.InvalidInput("Booking code cannot be empty")
	}

	booking, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return nil, apperrors.NotFound("Booking")
		}
		s.cfg.Log.Error("Failed to get booking by code", "code", code, "error", err)
		return nil, apperrors.Internal("Failed to retrieve booking", err)
	}

	return booking, nil
}

func (s *bookingService) GetAll(ctx context.Context, limit int, offset int64) ([]*model.Booking, int64, error) {
	limit = config.NormalizePaginationLimit(limit)
	offset = config.NormalizeOffset(offset)

	bookings, err := s.repo.FindAll(ctx, limit, offset)
	if err != nil {
		s.cfg.Log.Error("Failed to list bookings", "error", err)
		return nil, 0, apperrors.Internal("Failed to list bookings", err)
	}

	total, err := s.repo.Count(ctx)
	if err != nil {
		s.cfg.Log.Error("Failed to count bookings", "error", err)
		return nil, 0, apperrors.Internal("Failed to count bookings", err)
	}

	return bookings, total, nil
}

func (s *bookingService) CurrentLoad(ctx context.Context, activityID string, occurrenceDate time.Time) (int, error) {
	if activityID == "" {
		return 0, apperrors.InvalidInput("Activity ID cannot be empty")
	}

	load, err := s.repo.LoadForOccurrence(ctx, activityID, occurrenceDate.UTC())
	if err != nil {
		s.cfg.Log.Error("Failed to read occurrence load", "activity_id", activityID, "error", err)
		return 0, apperrors.Internal("Failed to read occurrence load", err)
	}

	return load, nil
}

// publishEvent is best effort: the reservation is already durable, so a
// broker outage must not fail the request.
func (s *bookingService) publishEvent(ctx context.Context, eventType string, booking *model.Booking) {
	if s.producer == nil {
		return
	}

	msg := kafka.NewMessage().
		WithKey(booking.Code).
		WithValue(booking).
		WithEventType(eventType).
		WithSource("farmbook-bookings").
		Build()

	if err := s.producer.Publish(ctx, msg); err != nil {
		s.cfg.Log.Error("Failed to publish booking event",
			"event_type", eventType,
			"booking_code", booking.Code,
			"error", err,
		)
	}
}
