package model

import (
	"time"
)

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
	BookingCompleted BookingStatus = "completed"
)

// CountsTowardLoad reports whether a booking in this status holds seats.
// Pending bookings hold seats so capacity cannot be overcommitted before
// confirmation.
func (s BookingStatus) CountsTowardLoad() bool {
	return s == BookingPending || s == BookingConfirmed
}

type Contact struct {
	Name  string `json:"name" bson:"name" validate:"required,min=2,max=100"`
	Email string `json:"email" bson:"email" validate:"required,email,max=200"`
	Phone string `json:"phone,omitempty" bson:"phone,omitempty" validate:"omitempty,e164"`
}

// Booking is a seat reservation against one occurrence of an activity.
// Bookings are never deleted; cancellation is a status transition.
type Booking struct {
	ID             string        `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Code           string        `json:"code" bson:"code" validate:"omitempty,min=8,max=24,uppercase"`
	ActivityID     string        `json:"activity_id" bson:"activity_id" validate:"required,mongodb"`
	OccurrenceDate time.Time     `json:"occurrence_date" bson:"occurrence_date" validate:"required"`
	Contact        Contact       `json:"contact" bson:"contact" validate:"required"`
	NumPeople      int           `json:"num_people" bson:"num_people" validate:"required,min=1"`
	Status         BookingStatus `json:"status" bson:"status" validate:"required,oneof=pending confirmed cancelled completed"`
	Paid           bool          `json:"paid" bson:"paid"`
	Fingerprint    string        `json:"-" bson:"fingerprint" validate:"omitempty,len=64"`
	CreatedAt      time.Time     `json:"created_at" bson:"created_at" validate:"omitempty"`
}

// ReservationRequest is the public booking submission payload.
type ReservationRequest struct {
	ActivityID     string    `json:"activity_id" validate:"required,mongodb"`
	OccurrenceDate time.Time `json:"occurrence_date" validate:"required"`
	Contact        Contact   `json:"contact" validate:"required"`
	NumPeople      int       `json:"num_people" validate:"required,min=1"`
}
