// Package sanitizer normalizes guest-supplied input before validation and
// storage.
//
// All functions are idempotent and never fail: invalid input yields an empty
// string rather than an error.
//
// Normalization includes:
//   - Names and locations: collapse whitespace, trim
//   - Emails: trim, lowercase
//   - Phone numbers: E.164 (+[country][number]) resolved against pkg/locale regions
package sanitizer
