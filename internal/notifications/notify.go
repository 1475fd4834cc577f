// Package notifications predicts when sell slots free up and delivers alerts
// for them.
//
// Pipeline: sales + toggles → Compute → persisted queue → Worker poll →
// alert + shown record. The app process owns the queue; the worker owns the
// shown record. Both are plain keys in a kvstore.Store.
package notifications

import (
	"time"

	"github.com/albapepper/dupepanel/internal/settings"
)

// --------------------------------------------------------------------------
// Constants
// --------------------------------------------------------------------------

const (
	DefaultPollInterval = 60 * time.Second
	ShownLimit          = 100
	DefaultClickTarget  = "/dupepanel/"
)

// --------------------------------------------------------------------------
// Types
// --------------------------------------------------------------------------

// Kind selects alert content and the toggle that gates it.
type Kind string

const (
	KindOneSlot    Kind = "one-slot"
	KindTwoSlots   Kind = "two-slots"
	KindPriceReset Kind = "price-reset"
)

// Scheduled is a predicted instant at which quota changes.
type Scheduled struct {
	ID           string `json:"id"`
	Time         int64  `json:"time"` // unix ms
	Kind         Kind   `json:"kind"`
	Slots        int    `json:"slots,omitempty"`
	SourceSaleID string `json:"saleId,omitempty"`
}

// Due reports whether the entry should fire at now.
func (s Scheduled) Due(now time.Time) bool {
	return s.Time <= now.UnixMilli()
}

// Toggles are the per-kind switches read from settings.
type Toggles struct {
	OneSlot    bool
	TwoSlots   bool
	PriceReset bool
}

// TogglesFrom extracts the per-kind switches.
func TogglesFrom(s settings.Settings) Toggles {
	return Toggles{
		OneSlot:    s.NotifyOneSlot,
		TwoSlots:   s.NotifyTwoSlots,
		PriceReset: s.NotifyPriceReset,
	}
}

// Allows reports whether alerts of kind k are switched on.
func (t Toggles) Allows(k Kind) bool {
	switch k {
	case KindOneSlot:
		return t.OneSlot
	case KindTwoSlots:
		return t.TwoSlots
	case KindPriceReset:
		return t.PriceReset
	}
	return false
}

func slotKind(slots int) Kind {
	if slots == 2 {
		return KindTwoSlots
	}
	return KindOneSlot
}
