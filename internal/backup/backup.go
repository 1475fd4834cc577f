// Package backup exports and imports the user's data as a single JSON
// document, and wipes everything on request.
package backup

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/albapepper/dupepanel/internal/kvstore"
	"github.com/albapepper/dupepanel/internal/notifications"
	"github.com/albapepper/dupepanel/internal/sales"
	"github.com/albapepper/dupepanel/internal/settings"
)

const FormatVersion = "1.0.0"

var ErrInvalidFormat = errors.New("invalid backup file format")

// isoMillis matches the timestamps browsers write for exports.
const isoMillis = "2006-01-02T15:04:05.000Z07:00"

// Sale is an exported sale. Ids are not exported; import assigns new ones.
type Sale struct {
	Date      string `json:"date"`
	Time      string `json:"time"`
	Plate     string `json:"plate"`
	Timestamp int64  `json:"timestamp"`
}

type Plate struct {
	License string `json:"license"`
}

// Envelope is the backup document.
type Envelope struct {
	Version    string             `json:"version"`
	ExportedAt string             `json:"exportedAt"`
	Sales      []Sale             `json:"sales"`
	Plates     []Plate            `json:"plates"`
	Settings   json.RawMessage    `json:"settings,omitempty"`
}

// Service ties the stores together. kv is the store holding the
// notification queue and shown record.
type Service struct {
	sales    *sales.Store
	plates   *sales.PlateStore
	settings *settings.Store
	kv       kvstore.Store
	now      func() time.Time
}

func NewService(s *sales.Store, p *sales.PlateStore, st *settings.Store, kv kvstore.Store) *Service {
	return &Service{sales: s, plates: p, settings: st, kv: kv, now: time.Now}
}

func (s *Service) SetClock(now func() time.Time) { s.now = now }

// Export snapshots sales, plates and settings.
func (s *Service) Export(ctx context.Context) (Envelope, error) {
	list, err := s.sales.List(ctx)
	if err != nil {
		return Envelope{}, fmt.Errorf("export sales: %w", err)
	}
	plates, err := s.plates.List(ctx)
	if err != nil {
		return Envelope{}, fmt.Errorf("export plates: %w", err)
	}
	cfg, err := s.settings.Get(ctx)
	if err != nil {
		return Envelope{}, fmt.Errorf("export settings: %w", err)
	}
	rawCfg, err := json.Marshal(cfg)
	if err != nil {
		return Envelope{}, fmt.Errorf("encode settings: %w", err)
	}

	env := Envelope{
		Version:    FormatVersion,
		ExportedAt: s.now().UTC().Format(isoMillis),
		Sales:      make([]Sale, 0, len(list)),
		Plates:     make([]Plate, 0, len(plates)),
		Settings:   rawCfg,
	}
	for _, sale := range list {
		env.Sales = append(env.Sales, Sale{
			Date: sale.Date, Time: sale.Time, Plate: sale.Plate, Timestamp: sale.Timestamp,
		})
	}
	for _, p := range plates {
		env.Plates = append(env.Plates, Plate{License: p.License})
	}
	return env, nil
}

// WriteExport writes the export as indented JSON.
func (s *Service) WriteExport(ctx context.Context, w io.Writer) error {
	env, err := s.Export(ctx)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(env)
}

// FileName is the suggested download name for an export made at t.
func FileName(t time.Time) string {
	return "dupepanel-backup-" + t.UTC().Format(time.DateOnly) + ".json"
}

// Decode parses and validates a backup document. A version and both arrays
// are required. Settings are optional and may be partial; a null settings
// value counts as absent.
func Decode(r io.Reader) (Envelope, error) {
	var raw struct {
		Version  string          `json:"version"`
		Sales    *[]Sale         `json:"sales"`
		Plates   *[]Plate        `json:"plates"`
		Settings json.RawMessage `json:"settings"`
		Exported string          `json:"exportedAt"`
	}
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return Envelope{}, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	if raw.Version == "" || raw.Sales == nil || raw.Plates == nil {
		return Envelope{}, ErrInvalidFormat
	}
	if string(raw.Settings) == "null" {
		raw.Settings = nil
	}
	if _, err := settings.Default().Overlay(raw.Settings); err != nil {
		return Envelope{}, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	return Envelope{
		Version:    raw.Version,
		ExportedAt: raw.Exported,
		Sales:      *raw.Sales,
		Plates:     *raw.Plates,
		Settings:   raw.Settings,
	}, nil
}

// Import replaces sales and plates. Settings present in the backup are
// laid over the current ones, so fields an older backup lacks keep their
// values. Each store fires its own change hooks, which reschedule
// notifications.
func (s *Service) Import(ctx context.Context, env Envelope) error {
	list := make([]sales.Sale, 0, len(env.Sales))
	for _, sale := range env.Sales {
		list = append(list, sales.Sale{
			Date: sale.Date, Time: sale.Time, Plate: sale.Plate, Timestamp: sale.Timestamp,
		})
	}
	if err := s.sales.Import(ctx, list); err != nil {
		return fmt.Errorf("import sales: %w", err)
	}

	plates := make([]sales.Plate, 0, len(env.Plates))
	for _, p := range env.Plates {
		plates = append(plates, sales.Plate{License: p.License})
	}
	if err := s.plates.Import(ctx, plates); err != nil {
		return fmt.Errorf("import plates: %w", err)
	}

	if len(env.Settings) > 0 {
		cur, err := s.settings.Get(ctx)
		if err != nil {
			return fmt.Errorf("import settings: %w", err)
		}
		merged, err := cur.Overlay(env.Settings)
		if err != nil {
			return fmt.Errorf("import settings: %w", err)
		}
		if err := s.settings.Save(ctx, merged); err != nil {
			return fmt.Errorf("import settings: %w", err)
		}
	}
	return nil
}

// ClearAll wipes sales and plates, restores default settings and drops the
// notification queue and shown record. It is the one app-side writer of the
// shown record.
func (s *Service) ClearAll(ctx context.Context) error {
	if err := s.sales.Clear(ctx); err != nil {
		return fmt.Errorf("clear sales: %w", err)
	}
	if err := s.plates.Clear(ctx); err != nil {
		return fmt.Errorf("clear plates: %w", err)
	}
	if err := s.settings.Reset(ctx); err != nil {
		return fmt.Errorf("reset settings: %w", err)
	}
	if err := notifications.ClearAll(ctx, s.kv); err != nil {
		return fmt.Errorf("clear notifications: %w", err)
	}
	return nil
}
