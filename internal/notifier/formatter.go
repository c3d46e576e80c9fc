package notifier

import (
	"fmt"
	"strings"
	"time"

	"MarketPulse/internal/model"
)

// FormatBreakerAlert formats a provider circuit breaker transition.
func FormatBreakerAlert(provider, from, to string, at time.Time) string {
	var b strings.Builder
	switch to {
	case "open":
		b.WriteString("🔴 <b>MarketPulse provider outage</b>\n\n")
		b.WriteString(fmt.Sprintf("Provider %s is failing; refreshes are paused and cached data is served.\n", provider))
	case "closed":
		b.WriteString("🟢 <b>MarketPulse provider recovered</b>\n\n")
		b.WriteString(fmt.Sprintf("Provider %s is answering again.\n", provider))
	default:
		b.WriteString(fmt.Sprintf("🟡 <b>MarketPulse provider %s</b>\n\n", to))
	}
	b.WriteString(fmt.Sprintf("Breaker: %s → %s\n", from, to))
	b.WriteString(fmt.Sprintf("Time: %s", at.Format("2006-01-02 15:04:05")))
	return b.String()
}

// FormatWatchlist formats the committed watchlist snapshot.
func FormatWatchlist(snap model.WatchlistSnapshot) string {
	if snap.Empty() {
		return "No quotes yet."
	}
	var b strings.Builder
	b.WriteString(fmt.Sprintf("📊 <b>Watchlist</b> | %s\n\n", snap.AsOf.Format(model.ClockLayout)))
	for _, q := range snap.Quotes {
		b.WriteString(fmt.Sprintf("%-6s %10.2f  %+.2f (%+.2f%%)\n", q.Symbol, q.Price, q.Change, q.ChangePercent))
	}
	return b.String()
}

// FormatStatus formats a short service health summary.
func FormatStatus(snap model.WatchlistSnapshot, focus string, breaker string) string {
	var b strings.Builder
	b.WriteString("📦 <b>MarketPulse status</b>\n\n")
	if snap.AsOf.IsZero() {
		b.WriteString("Watchlist: not refreshed yet\n")
	} else {
		b.WriteString(fmt.Sprintf("Watchlist: %d quotes as of %s\n", len(snap.Quotes), snap.AsOf.Format(model.ClockLayout)))
	}
	if focus == "" {
		focus = "none"
	}
	b.WriteString(fmt.Sprintf("Chart focus: %s\n", focus))
	b.WriteString(fmt.Sprintf("Provider breaker: %s", breaker))
	return b.String()
}
