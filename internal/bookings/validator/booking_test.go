package validator

import (
	"testing"
	"time"

	"farmbook/pkg/model"
)

func validRequest() *model.ReservationRequest {
	return &model.ReservationRequest{
		ActivityID:     "65f000000000000000000001",
		OccurrenceDate: time.Now().UTC().AddDate(0, 0, 3),
		Contact: model.Contact{
			Name:  "Ana Torres",
			Email: "ana@example.com",
			Phone: "+34612345678",
		},
		NumPeople: 2,
	}
}

func TestValidateReservation(t *testing.T) {
	v := NewBookingValidator(50)

	tests := []struct {
		name    string
		mutate  func(r *model.ReservationRequest)
		wantErr bool
	}{
		{
			name:   "valid request",
			mutate: func(r *model.ReservationRequest) {},
		},
		{
			name: "valid without phone",
			mutate: func(r *model.ReservationRequest) {
				r.Contact.Phone = ""
			},
		},
		{
			name: "missing activity id",
			mutate: func(r *model.ReservationRequest) {
				r.ActivityID = ""
			},
			wantErr: true,
		},
		{
			name: "malformed activity id",
			mutate: func(r *model.ReservationRequest) {
				r.ActivityID = "not-an-object-id"
			},
			wantErr: true,
		},
		{
			name: "zero party size",
			mutate: func(r *model.ReservationRequest) {
				r.NumPeople = 0
			},
			wantErr: true,
		},
		{
			name: "party size over configured maximum",
			mutate: func(r *model.ReservationRequest) {
				r.NumPeople = 51
			},
			wantErr: true,
		},
		{
			name: "missing contact name",
			mutate: func(r *model.ReservationRequest) {
				r.Contact.Name = ""
			},
			wantErr: true,
		},
		{
			name: "malformed email",
			mutate: func(r *model.ReservationRequest) {
				r.Contact.Email = "not-an-email"
			},
			wantErr: true,
		},
		{
			name: "phone not E.164",
			mutate: func(r *model.ReservationRequest) {
				r.Contact.Phone = "612 345 678"
			},
			wantErr: true,
		},
		{
			name: "occurrence date in the past",
			mutate: func(r *model.ReservationRequest) {
				r.OccurrenceDate = time.Now().UTC().AddDate(0, 0, -2)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(req)

			err := v.ValidateReservation(req)
			if tt.wantErr && err == nil {
				t.Error("expected validation error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected validation error: %v", err)
			}
		})
	}
}
