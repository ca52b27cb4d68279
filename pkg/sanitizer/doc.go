// Package sanitizer provides input normalization for contact data submitted
// through public forms.
//
// All normalization functions are idempotent - applying them multiple times
// produces the same result. Functions handle invalid input gracefully,
// typically by returning empty strings rather than errors.
//
// Normalization includes:
//   - Names: collapse whitespace, trim leading/trailing spaces
//   - Emails: trim and lowercase (the address part is treated opaquely)
//   - Phone numbers: convert to E.164 format (+[country][number])
//   - Fingerprints: stable digest of normalized email + submitting address,
//     used by the booking deduplicator
package sanitizer
