// Package settings holds the user's notification toggles and theme. The app
// process is the only writer; the scheduler and the worker read it.
package settings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/albapepper/dupepanel/internal/kvstore"
)

var ErrUnknownTheme = errors.New("unknown theme")

type Theme string

const (
	ThemeLight  Theme = "light"
	ThemeDark   Theme = "dark"
	ThemeSystem Theme = "system"
)

type Settings struct {
	Theme                Theme `json:"theme"`
	NotificationsEnabled bool  `json:"notificationsEnabled"`
	NotifyOneSlot        bool  `json:"notifyOneSlot"`
	NotifyTwoSlots       bool  `json:"notifyTwoSlots"`
	NotifyPriceReset     bool  `json:"notifyPriceReset"`
}

// Default returns the settings used when nothing (or garbage) is stored.
func Default() Settings {
	return Settings{
		Theme:                ThemeSystem,
		NotificationsEnabled: true,
		NotifyOneSlot:        true,
		NotifyTwoSlots:       true,
		NotifyPriceReset:     true,
	}
}

// Load reads settings from kv. Missing or malformed data yields Default;
// fields absent from the stored object keep their defaults.
func Load(ctx context.Context, kv kvstore.Store) (Settings, error) {
	stored := Default()
	ok, err := kvstore.GetJSON(ctx, kv, kvstore.KeySettings, &stored)
	if err != nil {
		return Default(), fmt.Errorf("load settings: %w", err)
	}
	if !ok {
		return Default(), nil
	}
	return stored.normalized(), nil
}

// Overlay decodes a possibly partial settings object over s. A null or
// empty document returns s unchanged.
func (s Settings) Overlay(raw []byte) (Settings, error) {
	out := s
	if len(raw) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return s, fmt.Errorf("decode settings: %w", err)
	}
	return out.normalized(), nil
}

func (s Settings) normalized() Settings {
	switch s.Theme {
	case ThemeLight, ThemeDark, ThemeSystem:
	default:
		s.Theme = ThemeSystem
	}
	return s
}

// Store wraps Load/Save with change subscriptions.
type Store struct {
	kv    kvstore.Store
	mu    sync.Mutex
	hooks []func(ctx context.Context)
}

func NewStore(kv kvstore.Store) *Store {
	return &Store{kv: kv}
}

func (s *Store) OnChange(fn func(ctx context.Context)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hooks = append(s.hooks, fn)
}

func (s *Store) Get(ctx context.Context) (Settings, error) {
	return Load(ctx, s.kv)
}

// Save persists v and notifies subscribers.
func (s *Store) Save(ctx context.Context, v Settings) error {
	switch v.Theme {
	case ThemeLight, ThemeDark, ThemeSystem:
	case "":
		v.Theme = ThemeSystem
	default:
		return fmt.Errorf("%w %q", ErrUnknownTheme, v.Theme)
	}

	s.mu.Lock()
	if err := kvstore.SetJSON(ctx, s.kv, kvstore.KeySettings, v); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("save settings: %w", err)
	}
	hooks := slices.Clone(s.hooks)
	s.mu.Unlock()

	for _, h := range hooks {
		h(ctx)
	}
	return nil
}

// Reset restores Default.
func (s *Store) Reset(ctx context.Context) error {
	return s.Save(ctx, Default())
}
