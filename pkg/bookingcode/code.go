// Package bookingcode generates the human-shareable codes that identify
// bookings. A code combines a base-36 timestamp with a short random suffix.
// Codes are not guaranteed collision-free; callers must retry on the store's
// unique-index violation.
package bookingcode

import (
	"crypto/rand"
	"strconv"
	"strings"
	"time"
)

const (
	suffixLength   = 4
	suffixAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
)

// New returns an uppercase booking code such as "MB3QZ8K1-7TQX".
func New() string {
	ts := strings.ToUpper(strconv.FormatInt(time.Now().UnixMilli(), 36))
	return ts + "-" + randomSuffix()
}

func randomSuffix() string {
	buf := make([]byte, suffixLength)
	// crypto/rand.Read only fails when the platform RNG is broken; the
	// zero-filled fallback still yields a valid (if predictable) suffix.
	_, _ = rand.Read(buf)

	out := make([]byte, suffixLength)
	for i, b := range buf {
		out[i] = suffixAlphabet[int(b)%len(suffixAlphabet)]
	}
	return string(out)
}
