package sales

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/albapepper/dupepanel/internal/kvstore"
)

// Store is the Event Store. Every mutation rewrites the whole list under
// kvstore.KeySales, sorted newest first, then notifies subscribers.
type Store struct {
	kv       kvstore.Store
	loc      *time.Location
	now      func() time.Time
	validate *validator.Validate

	mu    sync.Mutex
	hooks []func(ctx context.Context)
}

// NewStore creates a Store. loc controls the derived Date/Time strings.
func NewStore(kv kvstore.Store, loc *time.Location) *Store {
	if loc == nil {
		loc = time.Local
	}
	return &Store{
		kv:       kv,
		loc:      loc,
		now:      time.Now,
		validate: validator.New(),
	}
}

// SetClock replaces the time source used for the future-timestamp check.
func (s *Store) SetClock(now func() time.Time) {
	s.now = now
}

// OnChange registers fn to run after every successful mutation.
func (s *Store) OnChange(fn func(ctx context.Context)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hooks = append(s.hooks, fn)
}

// List returns all sales ordered by timestamp, newest first. Corrupt data
// reads as an empty list.
func (s *Store) List(ctx context.Context) ([]Sale, error) {
	var list []Sale
	ok, err := kvstore.GetJSON(ctx, s.kv, kvstore.KeySales, &list)
	if err != nil {
		return nil, fmt.Errorf("load sales: %w", err)
	}
	if !ok {
		list = nil
	}
	sortNewestFirst(list)
	return list, nil
}

// Get returns the sale with id.
func (s *Store) Get(ctx context.Context, id string) (Sale, error) {
	list, err := s.List(ctx)
	if err != nil {
		return Sale{}, err
	}
	for _, sale := range list {
		if sale.ID == id {
			return sale, nil
		}
	}
	return Sale{}, ErrNotFound
}

// Create records a new sale with a fresh id.
func (s *Store) Create(ctx context.Context, in Input) (Sale, error) {
	if err := s.check(&in); err != nil {
		return Sale{}, err
	}
	sale := s.build(uuid.NewString(), in)

	err := s.mutate(ctx, func(list []Sale) ([]Sale, error) {
		return append(list, sale), nil
	})
	if err != nil {
		return Sale{}, err
	}
	return sale, nil
}

// Update replaces the sale with id in place; the id is stable.
func (s *Store) Update(ctx context.Context, id string, in Input) (Sale, error) {
	if err := s.check(&in); err != nil {
		return Sale{}, err
	}
	sale := s.build(id, in)

	err := s.mutate(ctx, func(list []Sale) ([]Sale, error) {
		i := slices.IndexFunc(list, func(x Sale) bool { return x.ID == id })
		if i < 0 {
			return nil, ErrNotFound
		}
		list[i] = sale
		return list, nil
	})
	if err != nil {
		return Sale{}, err
	}
	return sale, nil
}

// Delete removes the sale with id.
func (s *Store) Delete(ctx context.Context, id string) error {
	return s.mutate(ctx, func(list []Sale) ([]Sale, error) {
		i := slices.IndexFunc(list, func(x Sale) bool { return x.ID == id })
		if i < 0 {
			return nil, ErrNotFound
		}
		return slices.Delete(list, i, i+1), nil
	})
}

// Import replaces every sale. Missing ids and display strings are filled in.
func (s *Store) Import(ctx context.Context, imported []Sale) error {
	list := make([]Sale, 0, len(imported))
	for _, sale := range imported {
		if sale.ID == "" {
			sale.ID = uuid.NewString()
		}
		if sale.Date == "" || sale.Time == "" {
			t := sale.At().In(s.loc)
			sale.Date, sale.Time = t.Format(time.DateOnly), t.Format("15:04")
		}
		list = append(list, sale)
	}
	return s.mutate(ctx, func([]Sale) ([]Sale, error) { return list, nil })
}

// Clear removes every sale.
func (s *Store) Clear(ctx context.Context) error {
	return s.mutate(ctx, func([]Sale) ([]Sale, error) { return []Sale{}, nil })
}

func (s *Store) mutate(ctx context.Context, fn func([]Sale) ([]Sale, error)) error {
	s.mu.Lock()
	list, err := s.List(ctx)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	list, err = fn(list)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	sortNewestFirst(list)
	if err := kvstore.SetJSON(ctx, s.kv, kvstore.KeySales, list); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("save sales: %w", err)
	}
	hooks := slices.Clone(s.hooks)
	s.mu.Unlock()

	for _, h := range hooks {
		h(ctx)
	}
	return nil
}

func (s *Store) check(in *Input) error {
	in.Plate = strings.ToUpper(strings.TrimSpace(in.Plate))
	if in.At.IsZero() {
		return &ValidationError{Field: "at", Message: "is required"}
	}
	if err := validateStruct(s.validate, in); err != nil {
		return err
	}
	if in.At.After(s.now()) {
		return ErrFutureTimestamp
	}
	return nil
}

func (s *Store) build(id string, in Input) Sale {
	t := in.At.In(s.loc)
	return Sale{
		ID:        id,
		Date:      t.Format(time.DateOnly),
		Time:      t.Format("15:04"),
		Plate:     in.Plate,
		Timestamp: in.At.UnixMilli(),
	}
}

func sortNewestFirst(list []Sale) {
	slices.SortStableFunc(list, func(a, b Sale) int {
		switch {
		case a.Timestamp > b.Timestamp:
			return -1
		case a.Timestamp < b.Timestamp:
			return 1
		}
		return 0
	})
}

// validateStruct runs go-playground/validator and reports the first failing
// field as a ValidationError.
func validateStruct(v *validator.Validate, i any) error {
	if err := v.Struct(i); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
			fe := verrs[0]
			return &ValidationError{
				Field:   strings.ToLower(fe.Field()),
				Message: fmt.Sprintf("failed on '%s' validation", fe.Tag()),
			}
		}
		return err
	}
	return nil
}
