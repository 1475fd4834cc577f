package rules

import (
	"fmt"
	"time"

	"github.com/albapepper/dupepanel/internal/sales"
)

// DailySales is one bar of the weekly chart.
type DailySales struct {
	Date  string `json:"date"` // YYYY-MM-DD in the display location
	Day   string `json:"day"`  // two-letter weekday
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// WeeklySales returns seven entries, today last, counting sales per
// calendar day in loc.
func WeeklySales(list []sales.Sale, now time.Time, loc *time.Location) []DailySales {
	if loc == nil {
		loc = time.Local
	}
	local := now.In(loc)
	today := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)

	counts := make(map[string]int, len(list))
	for _, s := range list {
		counts[s.At().In(loc).Format(time.DateOnly)]++
	}

	out := make([]DailySales, 0, 7)
	for i := 6; i >= 0; i-- {
		day := today.AddDate(0, 0, -i)
		key := day.Format(time.DateOnly)
		out = append(out, DailySales{
			Date:  key,
			Day:   day.Weekday().String()[:2],
			Name:  day.Weekday().String(),
			Count: counts[key],
		})
	}
	return out
}

// FormatRemaining renders d as "Xh Ym", "Xh", "Ym" or "0m".
func FormatRemaining(d time.Duration) string {
	if d <= 0 {
		return "0m"
	}
	total := int64(d / time.Minute)
	h, m := total/60, total%60
	switch {
	case h > 0 && m > 0:
		return fmt.Sprintf("%dh %dm", h, m)
	case h > 0:
		return fmt.Sprintf("%dh", h)
	default:
		return fmt.Sprintf("%dm", m)
	}
}

// --------------------------------------------------------------------------
// Dashboard
// --------------------------------------------------------------------------

// Quota is the state of one rolling window.
type Quota struct {
	Count  int    `json:"count"`
	Limit  int    `json:"limit"`
	Status Status `json:"status"`
}

// Price is the next-sale price and when it recovers.
type Price struct {
	Percentage int    `json:"percentage"`
	ChainCount int    `json:"chainCount"`
	ResetAt    *int64 `json:"resetAt,omitempty"` // unix ms
	ResetIn    string `json:"resetIn,omitempty"`
}

// Summary is everything the dashboard shows, computed at one instant.
type Summary struct {
	GeneratedAt int64        `json:"generatedAt"`
	TwoHour     Quota        `json:"twoHour"`
	ThirtyHour  Quota        `json:"thirtyHour"`
	Cooldowns   []Cooldown   `json:"cooldowns"`
	Price       Price        `json:"price"`
	Weekly      []DailySales `json:"weekly"`
	TotalSales  int          `json:"totalSales"`
}

// Summarize computes the dashboard view at now.
func Summarize(list []sales.Sale, now time.Time, loc *time.Location) Summary {
	two := TwoHourCount(list, now)
	thirty := ThirtyHourCount(list, now)
	chain := EighteenHourChainCount(list, now)

	price := Price{
		Percentage: NextSellPricePercentage(list, now),
		ChainCount: chain,
	}
	if reset, ok := PriceResetInstant(list, now); ok {
		ms := reset.UnixMilli()
		price.ResetAt = &ms
		price.ResetIn = FormatRemaining(reset.Sub(now))
	}

	return Summary{
		GeneratedAt: now.UnixMilli(),
		TwoHour:     Quota{Count: two, Limit: TwoHourLimit, Status: LimitStatus(two, TwoHourLimit)},
		ThirtyHour:  Quota{Count: thirty, Limit: ThirtyHourLimit, Status: LimitStatus(thirty, ThirtyHourLimit)},
		Cooldowns:   CooldownTimeline(list, now),
		Price:       price,
		Weekly:      WeeklySales(list, now, loc),
		TotalSales:  len(list),
	}
}
