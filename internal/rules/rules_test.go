package rules

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/albapepper/dupepanel/internal/sales"
)

var t0 = time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)

func saleAt(id string, at time.Time) sales.Sale {
	return sales.Sale{ID: id, Timestamp: at.UnixMilli()}
}

func TestCountInWindow_StrictBoundary(t *testing.T) {
	now := t0.Add(5 * time.Hour)
	list := []sales.Sale{
		saleAt("edge", now.Add(-2*time.Hour)),                   // exactly 2h old: outside
		saleAt("inside", now.Add(-2*time.Hour+time.Millisecond)), // just inside
		saleAt("now", now),
	}
	assert.Equal(t, 2, TwoHourCount(list, now))
	assert.Equal(t, 3, ThirtyHourCount(list, now))
}

func TestLimitStatus(t *testing.T) {
	cases := []struct {
		count, limit int
		want         Status
	}{
		{0, 2, StatusSafe},
		{1, 2, StatusWarning},
		{2, 2, StatusDanger},
		{3, 2, StatusDanger},
		{5, 7, StatusSafe},
		{6, 7, StatusWarning},
		{7, 7, StatusDanger},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, LimitStatus(c.count, c.limit), "count=%d limit=%d", c.count, c.limit)
	}
}

func TestEmptyHistory(t *testing.T) {
	now := t0
	assert.Equal(t, 0, TwoHourCount(nil, now))
	assert.Equal(t, 0, EighteenHourChainCount(nil, now))
	assert.Equal(t, 100, NextSellPricePercentage(nil, now))
	assert.Equal(t, StatusSafe, LimitStatus(ThirtyHourCount(nil, now), ThirtyHourLimit))
	_, ok := PriceResetInstant(nil, now)
	assert.False(t, ok)
	assert.Empty(t, CooldownTimeline(nil, now))
}

func TestEighteenHourChain(t *testing.T) {
	t.Run("three linked sales give 5 percent", func(t *testing.T) {
		list := []sales.Sale{
			saleAt("a", t0),
			saleAt("b", t0.Add(10*time.Hour)),
			saleAt("c", t0.Add(25*time.Hour)),
		}
		now := t0.Add(25*time.Hour + time.Minute)
		assert.Equal(t, 3, EighteenHourChainCount(list, now))
		assert.Equal(t, 5, NextSellPricePercentage(list, now))
	})

	t.Run("gap of 20h breaks the chain", func(t *testing.T) {
		list := []sales.Sale{
			saleAt("a", t0),
			saleAt("b", t0.Add(20*time.Hour)),
		}
		now := t0.Add(20*time.Hour + time.Minute)
		assert.Equal(t, 1, EighteenHourChainCount(list, now))
		assert.Equal(t, 50, NextSellPricePercentage(list, now))
	})

	t.Run("two linked sales give 20 percent", func(t *testing.T) {
		list := []sales.Sale{saleAt("a", t0), saleAt("b", t0.Add(time.Hour))}
		assert.Equal(t, 20, NextSellPricePercentage(list, t0.Add(2*time.Hour)))
	})

	t.Run("newest sale exactly 18h old resets", func(t *testing.T) {
		list := []sales.Sale{saleAt("a", t0)}
		assert.Equal(t, 0, EighteenHourChainCount(list, t0.Add(18*time.Hour)))
		assert.Equal(t, 100, NextSellPricePercentage(list, t0.Add(18*time.Hour)))
	})

	t.Run("input order does not matter", func(t *testing.T) {
		list := []sales.Sale{
			saleAt("c", t0.Add(25*time.Hour)),
			saleAt("a", t0),
			saleAt("b", t0.Add(10*time.Hour)),
		}
		assert.Equal(t, 3, EighteenHourChainCount(list, t0.Add(26*time.Hour)))
	})
}

func TestPriceResetInstant_UsesNewestSale(t *testing.T) {
	list := []sales.Sale{saleAt("a", t0), saleAt("b", t0.Add(4*time.Hour))}

	reset, ok := PriceResetInstant(list, t0.Add(5*time.Hour))
	require.True(t, ok)
	assert.Equal(t, t0.Add(22*time.Hour).UnixMilli(), reset.UnixMilli())

	_, ok = PriceResetInstant(list, t0.Add(22*time.Hour))
	assert.False(t, ok)
}

func TestCooldownTimeline(t *testing.T) {
	now := t0.Add(30 * time.Hour)
	list := []sales.Sale{
		saleAt("new", now.Add(-15*time.Hour)),
		saleAt("expired", t0),
		saleAt("old", now.Add(-27*time.Hour)),
	}

	cds := CooldownTimeline(list, now)
	require.Len(t, cds, 2)
	assert.Equal(t, "old", cds[0].Sale.ID)
	assert.Equal(t, 3*time.Hour, cds[0].Remaining())
	assert.InDelta(t, 0.9, cds[0].Progress, 1e-9)
	assert.Equal(t, "new", cds[1].Sale.ID)
	assert.InDelta(t, 0.5, cds[1].Progress, 1e-9)

	assert.True(t, IsInCooldown(list[0], now))
	assert.False(t, IsInCooldown(list[1], now))
	assert.Equal(t, time.Duration(0), RemainingCooldown(list[1], now))
	assert.Equal(t, 15*time.Hour, RemainingCooldown(list[0], now))
}

func TestFormatRemaining(t *testing.T) {
	assert.Equal(t, "0m", FormatRemaining(0))
	assert.Equal(t, "0m", FormatRemaining(-time.Minute))
	assert.Equal(t, "0m", FormatRemaining(30*time.Second))
	assert.Equal(t, "45m", FormatRemaining(45*time.Minute))
	assert.Equal(t, "3h", FormatRemaining(3*time.Hour))
	assert.Equal(t, "2h 5m", FormatRemaining(2*time.Hour+5*time.Minute+59*time.Second))
}

func TestWeeklySales(t *testing.T) {
	now := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC) // Saturday
	list := []sales.Sale{
		saleAt("a", now.Add(-time.Hour)),
		saleAt("b", now.Add(-2*time.Hour)),
		saleAt("c", now.AddDate(0, 0, -6)),
		saleAt("d", now.AddDate(0, 0, -7)),
	}

	week := WeeklySales(list, now, time.UTC)
	require.Len(t, week, 7)
	assert.Equal(t, "2026-03-08", week[0].Date)
	assert.Equal(t, "Su", week[0].Day)
	assert.Equal(t, 1, week[0].Count)
	assert.Equal(t, "2026-03-14", week[6].Date)
	assert.Equal(t, "Sa", week[6].Day)
	assert.Equal(t, "Saturday", week[6].Name)
	assert.Equal(t, 2, week[6].Count)

	total := 0
	for _, d := range week {
		total += d.Count
	}
	assert.Equal(t, 3, total)
}

func TestSummarize(t *testing.T) {
	now := t0.Add(10 * time.Hour)
	list := []sales.Sale{
		saleAt("a", now.Add(-30*time.Minute)),
		saleAt("b", now.Add(-5*time.Hour)),
	}

	s := Summarize(list, now, time.UTC)
	assert.Equal(t, now.UnixMilli(), s.GeneratedAt)
	assert.Equal(t, Quota{Count: 1, Limit: 2, Status: StatusWarning}, s.TwoHour)
	assert.Equal(t, Quota{Count: 2, Limit: 7, Status: StatusSafe}, s.ThirtyHour)
	assert.Equal(t, 20, s.Price.Percentage)
	assert.Equal(t, 2, s.Price.ChainCount)
	require.NotNil(t, s.Price.ResetAt)
	assert.Equal(t, now.Add(17*time.Hour+30*time.Minute).UnixMilli(), *s.Price.ResetAt)
	assert.Equal(t, "17h 30m", s.Price.ResetIn)
	assert.Len(t, s.Cooldowns, 2)
	assert.Len(t, s.Weekly, 7)
	assert.Equal(t, 2, s.TotalSales)
}

func TestCountInWindow_NeverGrowsWithoutNewSales(t *testing.T) {
	list := []sales.Sale{
		saleAt("a", t0),
		saleAt("b", t0.Add(90*time.Minute)),
		saleAt("c", t0.Add(3*time.Hour)),
		saleAt("d", t0.Add(20*time.Hour)),
	}
	start := t0.Add(20 * time.Hour)
	prevTwo, prevThirty := TwoHourCount(list, start), ThirtyHourCount(list, start)
	assert.Equal(t, 1, prevTwo)
	assert.Equal(t, 4, prevThirty)

	for now := start; now.Before(t0.Add(52 * time.Hour)); now = now.Add(7 * time.Minute) {
		two, thirty := TwoHourCount(list, now), ThirtyHourCount(list, now)
		assert.LessOrEqual(t, two, prevTwo, "2h count grew at %s", now)
		assert.LessOrEqual(t, thirty, prevThirty, "30h count grew at %s", now)
		prevTwo, prevThirty = two, thirty
	}
	assert.Equal(t, 0, prevTwo)
	assert.Equal(t, 0, prevThirty)
}
