package notifications

import (
	"fmt"
	"slices"
	"time"

	"github.com/albapepper/dupepanel/internal/rules"
	"github.com/albapepper/dupepanel/internal/sales"
)

// Compute returns the full notification queue for list at now. It is a pure
// recomputation: calling it twice with the same input yields the same ids
// and times, so persisting its result replaces rather than accumulates.
//
// For every sale inside the 2-hour window, the entry fires when that sale
// expires and reports how many slots are free at that instant, which
// depends on how many newer sales are still inside the window then.
func Compute(list []sales.Sale, t Toggles, now time.Time) []Scheduled {
	windowMs := rules.TwoHourWindow.Milliseconds()
	nowMs := now.UnixMilli()

	recent := make([]sales.Sale, 0, len(list))
	for _, s := range list {
		if nowMs-s.Timestamp < windowMs {
			recent = append(recent, s)
		}
	}
	slices.SortStableFunc(recent, byTimestamp)

	var out []Scheduled
	for _, s := range recent {
		expiry := s.Timestamp + windowMs
		if expiry <= nowMs {
			continue
		}

		remainingAfter := 0
		for _, other := range recent {
			if other.Timestamp > s.Timestamp && expiry-other.Timestamp < windowMs {
				remainingAfter++
			}
		}

		slots := rules.TwoHourLimit - remainingAfter
		if slots < 1 || slots > 2 {
			continue
		}
		kind := slotKind(slots)
		if !t.Allows(kind) {
			continue
		}
		out = append(out, Scheduled{
			ID:           fmt.Sprintf("%s-%d", s.ID, slots),
			Time:         expiry,
			Kind:         kind,
			Slots:        slots,
			SourceSaleID: s.ID,
		})
	}

	if t.PriceReset {
		if reset, ok := rules.PriceResetInstant(list, now); ok {
			out = append(out, priceResetEntry(list, reset))
		}
	}
	return out
}

// The reset entry id embeds the instant so that editing the newest sale
// produces a fresh entry instead of one already marked shown.
func priceResetEntry(list []sales.Sale, reset time.Time) Scheduled {
	latest := slices.MaxFunc(list, byTimestamp)
	return Scheduled{
		ID:   fmt.Sprintf("%s-reset-%d", latest.ID, reset.UnixMilli()),
		Time: reset.UnixMilli(),
		Kind: KindPriceReset,
	}
}

func byTimestamp(a, b sales.Sale) int {
	switch {
	case a.Timestamp < b.Timestamp:
		return -1
	case a.Timestamp > b.Timestamp:
		return 1
	}
	return 0
}
