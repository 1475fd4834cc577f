package sales

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/albapepper/dupepanel/internal/kvstore"
)

type plateInput struct {
	License string `validate:"required,max=8,alphanum"`
}

// PlateStore manages saved license plates under kvstore.KeyPlates.
type PlateStore struct {
	kv       kvstore.Store
	validate *validator.Validate
	mu       sync.Mutex
}

func NewPlateStore(kv kvstore.Store) *PlateStore {
	return &PlateStore{kv: kv, validate: validator.New()}
}

// NormalizeLicense upper-cases and trims a license plate.
func NormalizeLicense(license string) string {
	return strings.ToUpper(strings.TrimSpace(license))
}

func (p *PlateStore) List(ctx context.Context) ([]Plate, error) {
	var plates []Plate
	ok, err := kvstore.GetJSON(ctx, p.kv, kvstore.KeyPlates, &plates)
	if err != nil {
		return nil, fmt.Errorf("load plates: %w", err)
	}
	if !ok {
		plates = nil
	}
	return plates, nil
}

// Add saves a new plate. Licenses are unique after normalization.
func (p *PlateStore) Add(ctx context.Context, license string) (Plate, error) {
	in := plateInput{License: NormalizeLicense(license)}
	if err := validateStruct(p.validate, in); err != nil {
		return Plate{}, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	plates, err := p.List(ctx)
	if err != nil {
		return Plate{}, err
	}
	if slices.ContainsFunc(plates, func(x Plate) bool { return x.License == in.License }) {
		return Plate{}, ErrDuplicatePlate
	}
	plate := Plate{ID: uuid.NewString(), License: in.License}
	if err := p.save(ctx, append(plates, plate)); err != nil {
		return Plate{}, err
	}
	return plate, nil
}

func (p *PlateStore) Remove(ctx context.Context, id string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	plates, err := p.List(ctx)
	if err != nil {
		return err
	}
	i := slices.IndexFunc(plates, func(x Plate) bool { return x.ID == id })
	if i < 0 {
		return ErrPlateNotFound
	}
	return p.save(ctx, slices.Delete(plates, i, i+1))
}

// Import replaces all plates, assigning fresh ids.
func (p *PlateStore) Import(ctx context.Context, plates []Plate) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make([]Plate, 0, len(plates))
	for _, pl := range plates {
		out = append(out, Plate{ID: uuid.NewString(), License: NormalizeLicense(pl.License)})
	}
	return p.save(ctx, out)
}

func (p *PlateStore) Clear(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.save(ctx, []Plate{})
}

func (p *PlateStore) save(ctx context.Context, plates []Plate) error {
	if err := kvstore.SetJSON(ctx, p.kv, kvstore.KeyPlates, plates); err != nil {
		return fmt.Errorf("save plates: %w", err)
	}
	return nil
}

// UsageCounts counts sales per plate license.
func UsageCounts(list []Sale) map[string]int {
	counts := make(map[string]int)
	for _, s := range list {
		if s.Plate != "" {
			counts[s.Plate]++
		}
	}
	return counts
}
