// Package kvstore is the persistence surface shared by the app process and
// the delivery worker: keyed get/set of opaque JSON values.
//
// Key ownership:
//
//	KeySales, KeyPlates, KeySettings, KeyScheduled  written by the app process only
//	KeyShown                                        written by the worker only
//
// Clearing all data is the one exception: the app may reset every key,
// including KeyShown.
package kvstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// Contractual key names. They match the original browser storage keys so
// exported data and peers stay compatible.
const (
	KeySales     = "dupepanel_sales"
	KeyPlates    = "dupepanel_plates"
	KeySettings  = "dupepanel_settings"
	KeyScheduled = "dupepanel_scheduled_notifications"
	KeyShown     = "dupepanel_shown_notifications"
)

var ErrUnknownDriver = errors.New("unknown store driver")

// Store is a keyed byte store. Get returns (nil, nil) for a missing key.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) (map[string][]byte, error)
	Clear(ctx context.Context) error
}

// GetJSON loads key into dst and reports whether it decoded. A missing key
// leaves dst untouched; a value that fails to decode may leave dst partly
// filled, so callers discard dst when ok is false. Only storage failures
// are errors.
func GetJSON(ctx context.Context, s Store, key string, dst any) (bool, error) {
	raw, err := s.Get(ctx, key)
	if err != nil {
		return false, err
	}
	if len(raw) == 0 {
		return false, nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return false, nil
	}
	return true, nil
}

// SetJSON marshals v and stores it under key.
func SetJSON(ctx context.Context, s Store, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return s.Set(ctx, key, raw)
}
