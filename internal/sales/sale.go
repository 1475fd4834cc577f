// Package sales owns the user-reported sell events and license plates.
//
// The Store keeps the canonical order (newest first) and is the only writer
// of the sales and plates keys. The rules engine and the notification
// scheduler receive read-only snapshots via List.
package sales

import (
	"errors"
	"time"
)

var (
	ErrNotFound        = errors.New("sale not found")
	ErrFutureTimestamp = errors.New("sale timestamp is in the future")
	ErrPlateNotFound   = errors.New("plate not found")
	ErrDuplicatePlate  = errors.New("plate already exists")
)

// ValidationError represents a field-level validation failure.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// Sale is one sell event. Timestamp is Unix milliseconds and is the only
// field window math depends on; Date and Time are display strings.
type Sale struct {
	ID        string `json:"id"`
	Date      string `json:"date"`  // YYYY-MM-DD
	Time      string `json:"time"`  // HH:mm
	Plate     string `json:"plate"` // optional license tag
	Timestamp int64  `json:"timestamp"`
}

// At returns the sale instant.
func (s Sale) At() time.Time {
	return time.UnixMilli(s.Timestamp)
}

// Input carries the user-editable fields of a sale.
type Input struct {
	At    time.Time
	Plate string `validate:"omitempty,max=8,alphanum"`
}

// Plate is a saved license plate used to tag sales.
type Plate struct {
	ID      string `json:"id"`
	License string `json:"license"`
}
