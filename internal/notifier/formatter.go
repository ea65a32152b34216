package notifier

import (
	"fmt"
	"html"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"

	"StealthRadar/internal/model"
)

// FormatScanReport formats a scan result into a Telegram HTML message.
func FormatScanReport(res *model.ScanResult) string {
	var b strings.Builder

	b.WriteString("🕵️ <b>Stealth Accumulation Radar</b>")
	if n := len(res.SessionDates); n > 0 {
		b.WriteString(fmt.Sprintf(" | %s → %s", res.SessionDates[0], res.SessionDates[n-1]))
	}
	b.WriteString(fmt.Sprintf("\nSessions analyzed: %d\n\n", res.DaysAnalyzed))

	if len(res.TopStocks) == 0 {
		b.WriteString("No symbol met the session coverage floor.")
		return b.String()
	}

	b.WriteString("<pre>")
	b.WriteString(fmt.Sprintf("%-3s %-12s %7s %8s %5s\n", "#", "SYMBOL", "CMF", "Δ%", "DAYS"))
	for i, r := range res.TopStocks {
		b.WriteString(fmt.Sprintf("%-3d %-12s %7.3f %+8.2f %5d\n",
			i+1, html.EscapeString(r.Symbol), r.CMF, r.PriceChange5dPercent, r.Days))
	}
	b.WriteString("</pre>\n")

	top := res.TopStocks[0]
	b.WriteString(fmt.Sprintf("Top pick <b>%s</b>: value ₹%s, volume %s",
		html.EscapeString(top.Symbol), FormatThousands(top.TotalTradedValue), FormatThousands(decimal.NewFromFloat(top.TotalVolume))))
	return b.String()
}

// FormatScanError formats a failed run.
func FormatScanError(err error) string {
	return fmt.Sprintf("❌ <b>Scan failed</b>\n\n%s", html.EscapeString(err.Error()))
}

// FormatThousands renders an amount rounded to whole units with comma separators.
func FormatThousands(d decimal.Decimal) string {
	return humanize.Comma(d.Round(0).IntPart())
}
