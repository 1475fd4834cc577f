package notifications

import (
	"context"
	"fmt"

	"github.com/albapepper/dupepanel/internal/kvstore"
)

// LoadQueue returns the persisted queue. Missing or malformed data is an
// empty queue.
func LoadQueue(ctx context.Context, kv kvstore.Store) ([]Scheduled, error) {
	var queue []Scheduled
	ok, err := kvstore.GetJSON(ctx, kv, kvstore.KeyScheduled, &queue)
	if err != nil {
		return nil, fmt.Errorf("load queue: %w", err)
	}
	if !ok {
		return nil, nil
	}
	return queue, nil
}

// SaveQueue replaces the persisted queue.
func SaveQueue(ctx context.Context, kv kvstore.Store, queue []Scheduled) error {
	if queue == nil {
		queue = []Scheduled{}
	}
	if err := kvstore.SetJSON(ctx, kv, kvstore.KeyScheduled, queue); err != nil {
		return fmt.Errorf("save queue: %w", err)
	}
	return nil
}

// LoadShown returns the persisted shown record.
func LoadShown(ctx context.Context, kv kvstore.Store) (*ShownRecord, error) {
	var ids []string
	ok, err := kvstore.GetJSON(ctx, kv, kvstore.KeyShown, &ids)
	if err != nil {
		return nil, fmt.Errorf("load shown: %w", err)
	}
	if !ok {
		ids = nil
	}
	return NewShownRecord(ids), nil
}

// SaveShown persists the shown record.
func SaveShown(ctx context.Context, kv kvstore.Store, r *ShownRecord) error {
	if err := kvstore.SetJSON(ctx, kv, kvstore.KeyShown, r.IDs()); err != nil {
		return fmt.Errorf("save shown: %w", err)
	}
	return nil
}

// ClearAll drops both the queue and the shown record. Only a full data
// reset writes the shown record from the app side.
func ClearAll(ctx context.Context, kv kvstore.Store) error {
	if err := SaveQueue(ctx, kv, nil); err != nil {
		return err
	}
	return SaveShown(ctx, kv, NewShownRecord(nil))
}
