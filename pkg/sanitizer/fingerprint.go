package sanitizer

import (
	"crypto/sha256"
	"encoding/hex"
	"net"
	"strings"
)

// Fingerprint derives the duplicate-detection key for a submission from the
// normalized contact email and the submitting network address. The port is
// stripped so retries over new connections still collide.
func Fingerprint(email, remoteAddr string) string {
	host := remoteAddr
	if h, _, err := net.SplitHostPort(remoteAddr); err == nil {
		host = h
	}

	payload := NormalizeEmail(email) + "|" + strings.TrimSpace(host)
	sum := sha256.Sum256([]byte(payload))
	return hex.EncodeToString(sum[:])
}
