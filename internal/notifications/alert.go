package notifications

import (
	"context"
	"fmt"
	"strings"
)

// Alert is what the platform surface displays. Tag de-duplicates: a new
// alert with the same tag replaces the visible one instead of stacking.
type Alert struct {
	Title    string `json:"title"`
	Body     string `json:"body"`
	Tag      string `json:"tag"`
	URL      string `json:"url"`
	Renotify bool   `json:"renotify"`
}

// AlertFor builds the alert for n. target is the click destination.
func AlertFor(n Scheduled, target string) Alert {
	if target == "" {
		target = DefaultClickTarget
	}
	a := Alert{URL: target, Renotify: true}

	switch n.Kind {
	case KindPriceReset:
		a.Title = "Sell Price Reset!"
		a.Body = "18 hours have passed since your last sale. Your next sale is back to 100%."
		a.Tag = "dupepanel-price-reset"
	case KindTwoSlots:
		a.Title = "2 Sell Slots Available!"
		a.Body = "Your 2-hour cooldown has fully reset. You can sell 2 vehicles."
		a.Tag = "dupepanel-slot-2"
	default:
		a.Title = "1 Sell Slot Available!"
		a.Body = "1 slot is now available in your 2-hour window."
		a.Tag = "dupepanel-slot-1"
	}
	return a
}

// TestAlert is the alert sent on request to check delivery end to end.
func TestAlert(target string) Alert {
	a := AlertFor(Scheduled{Kind: KindTwoSlots, Slots: 2}, target)
	a.Body = "This is a test notification from Dupepanel."
	return a
}

// --------------------------------------------------------------------------
// Click handling
// --------------------------------------------------------------------------

// Window is an open application window.
type Window interface {
	URL() string
	Focus(ctx context.Context) error
}

// WindowManager lists open windows and opens new ones.
type WindowManager interface {
	Windows(ctx context.Context) ([]Window, error)
	Open(ctx context.Context, url string) error
}

// HandleClick focuses the first window already showing the app, or opens
// one at the alert's target.
func HandleClick(ctx context.Context, wm WindowManager, a Alert) error {
	target := a.URL
	if target == "" {
		target = DefaultClickTarget
	}
	match := strings.TrimSuffix(target, "/")

	windows, err := wm.Windows(ctx)
	if err != nil {
		return fmt.Errorf("list windows: %w", err)
	}
	for _, w := range windows {
		if strings.Contains(w.URL(), match) {
			return w.Focus(ctx)
		}
	}
	if err := wm.Open(ctx, target); err != nil {
		return fmt.Errorf("open window: %w", err)
	}
	return nil
}
