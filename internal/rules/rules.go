// Package rules is the temporal rules engine. Every function is pure: it
// maps a sale list plus a reference "now" to quota counts, cooldowns and
// price degradation. No I/O, no hidden state; safe to call on every tick.
//
// Window membership uses strict less-than on age, so a sale exactly one
// window old is outside and a sale at "now" is inside every window.
package rules

import (
	"slices"
	"time"

	"github.com/albapepper/dupepanel/internal/sales"
)

// --------------------------------------------------------------------------
// Constants
// --------------------------------------------------------------------------

const (
	TwoHourWindow      = 2 * time.Hour
	EighteenHourWindow = 18 * time.Hour
	ThirtyHourWindow   = 30 * time.Hour

	TwoHourLimit    = 2
	ThirtyHourLimit = 7
)

// Next-sale price in percent, indexed by chain count 0, 1, 2, 3+.
var priceLadder = [...]int{100, 50, 20, 5}

// Status is the visual indicator for a quota window.
type Status string

const (
	StatusSafe    Status = "safe"
	StatusWarning Status = "warning"
	StatusDanger  Status = "danger"
)

// --------------------------------------------------------------------------
// Quota windows
// --------------------------------------------------------------------------

// age is how long ago s happened relative to now, in milliseconds.
func age(s sales.Sale, now time.Time) int64 {
	return now.UnixMilli() - s.Timestamp
}

// CountInWindow counts sales with now - timestamp < window.
func CountInWindow(list []sales.Sale, now time.Time, window time.Duration) int {
	limit := window.Milliseconds()
	n := 0
	for _, s := range list {
		if age(s, now) < limit {
			n++
		}
	}
	return n
}

// TwoHourCount is CountInWindow over the 2-hour quota window.
func TwoHourCount(list []sales.Sale, now time.Time) int {
	return CountInWindow(list, now, TwoHourWindow)
}

// ThirtyHourCount is CountInWindow over the 30-hour quota window.
func ThirtyHourCount(list []sales.Sale, now time.Time) int {
	return CountInWindow(list, now, ThirtyHourWindow)
}

// LimitStatus is danger at or above the cap, warning exactly one below it,
// safe otherwise.
func LimitStatus(count, limit int) Status {
	switch {
	case count >= limit:
		return StatusDanger
	case count == limit-1:
		return StatusWarning
	default:
		return StatusSafe
	}
}

// --------------------------------------------------------------------------
// 30-hour cooldowns
// --------------------------------------------------------------------------

// Cooldown is the time left until a sale leaves the 30-hour window.
type Cooldown struct {
	Sale        sales.Sale `json:"sale"`
	RemainingMs int64      `json:"remainingMs"`
	Progress    float64    `json:"progress"` // 0..1 of the window elapsed
}

// Remaining returns RemainingMs as a duration.
func (c Cooldown) Remaining() time.Duration {
	return time.Duration(c.RemainingMs) * time.Millisecond
}

// CooldownTimeline lists the sales inside the 30-hour window oldest first,
// which is the order in which their slots free up.
func CooldownTimeline(list []sales.Sale, now time.Time) []Cooldown {
	windowMs := ThirtyHourWindow.Milliseconds()

	active := make([]sales.Sale, 0, len(list))
	for _, s := range list {
		if age(s, now) < windowMs {
			active = append(active, s)
		}
	}
	slices.SortStableFunc(active, oldestFirst)

	out := make([]Cooldown, 0, len(active))
	for _, s := range active {
		elapsed := age(s, now)
		out = append(out, Cooldown{
			Sale:        s,
			RemainingMs: max(0, windowMs-elapsed),
			Progress:    min(1, float64(elapsed)/float64(windowMs)),
		})
	}
	return out
}

// IsInCooldown reports whether s still occupies a 30-hour slot.
func IsInCooldown(s sales.Sale, now time.Time) bool {
	return age(s, now) < ThirtyHourWindow.Milliseconds()
}

// RemainingCooldown is the time until s leaves the 30-hour window, or 0.
func RemainingCooldown(s sales.Sale, now time.Time) time.Duration {
	ms := max(0, ThirtyHourWindow.Milliseconds()-age(s, now))
	return time.Duration(ms) * time.Millisecond
}

// --------------------------------------------------------------------------
// 18-hour price degradation
// --------------------------------------------------------------------------

// EighteenHourChainCount walks back from the newest sale. Each counted sale
// must lie within 18h of the previously counted one (the first within 18h
// of now); the walk stops at the first gap of 18h or more.
func EighteenHourChainCount(list []sales.Sale, now time.Time) int {
	if len(list) == 0 {
		return 0
	}
	windowMs := EighteenHourWindow.Milliseconds()

	sorted := slices.Clone(list)
	slices.SortStableFunc(sorted, newestFirst)

	if age(sorted[0], now) >= windowMs {
		return 0
	}

	count := 0
	windowStart := now.UnixMilli()
	for _, s := range sorted {
		if windowStart-s.Timestamp >= windowMs {
			break
		}
		count++
		windowStart = s.Timestamp
	}
	return count
}

// NextSellPricePercentage is the price of the next sale in percent.
func NextSellPricePercentage(list []sales.Sale, now time.Time) int {
	n := EighteenHourChainCount(list, now)
	return priceLadder[min(n, len(priceLadder)-1)]
}

// PriceResetInstant returns when the price returns to 100%: 18h after the
// newest sale, regardless of chain depth. ok is false when there are no
// sales or that instant has already passed.
func PriceResetInstant(list []sales.Sale, now time.Time) (reset time.Time, ok bool) {
	last, found := newest(list)
	if !found {
		return time.Time{}, false
	}
	resetMs := last.Timestamp + EighteenHourWindow.Milliseconds()
	if now.UnixMilli() >= resetMs {
		return time.Time{}, false
	}
	return time.UnixMilli(resetMs), true
}

// --------------------------------------------------------------------------
// Helpers
// --------------------------------------------------------------------------

func newest(list []sales.Sale) (sales.Sale, bool) {
	if len(list) == 0 {
		return sales.Sale{}, false
	}
	return slices.MaxFunc(list, oldestFirst), true
}

func oldestFirst(a, b sales.Sale) int {
	switch {
	case a.Timestamp < b.Timestamp:
		return -1
	case a.Timestamp > b.Timestamp:
		return 1
	}
	return 0
}

func newestFirst(a, b sales.Sale) int {
	return oldestFirst(b, a)
}
