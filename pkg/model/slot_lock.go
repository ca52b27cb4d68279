package model

import "time"

// SlotLock is an advisory lock serializing reservation admission per
// (activity, occurrence date). The unique _id insert is the lock acquisition;
// a TTL index on expires_at reclaims locks from crashed holders.
type SlotLock struct {
	ID        string    `bson:"_id" json:"id"`
	ExpiresAt time.Time `bson:"expires_at" json:"expires_at"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

// SubmissionFingerprint records an accepted submission for duplicate
// detection. Rows expire with the dedup window via a TTL index.
type SubmissionFingerprint struct {
	ID          string    `bson:"_id,omitempty" json:"id,omitempty"`
	Fingerprint string    `bson:"fingerprint" json:"fingerprint"`
	CreatedAt   time.Time `bson:"created_at" json:"created_at"`
}
