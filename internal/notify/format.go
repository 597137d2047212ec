package notify

import (
	"strings"
	"time"

	"github.com/miradorstack/enginewatch/internal/models"
	"github.com/miradorstack/enginewatch/internal/utils"
)

// Recommendation is appended whenever an alert carries any diagnosis.
const Recommendation = "Verify system immediately"

// FormatMessage renders the Markdown payload for alert as of now in loc.
func FormatMessage(now time.Time, loc *time.Location, alert models.Alert) string {
	date, clock := utils.AlertStamp(now, loc)

	var b strings.Builder
	b.WriteString("🕒 ")
	b.WriteString(date)
	b.WriteString("\n⏰ Time: ")
	b.WriteString(clock)
	b.WriteString("\n\n")
	b.WriteString(alert.Message)

	if len(alert.Irregularities) > 0 {
		b.WriteString("\n\n🔍 *Irregularities detected:*")
		for _, flag := range alert.Irregularities {
			b.WriteString("\n• ")
			b.WriteString(flag.Description)
		}
	}

	if !alert.Principal.IsNone() {
		b.WriteString("\n\n⚠️ *Most likely fault:* ")
		b.WriteString(alert.Principal.String())
	}

	if len(alert.Irregularities) > 0 || !alert.Principal.IsNone() {
		b.WriteString("\n\n🔧 *Recommendation:* ")
		b.WriteString(Recommendation)
	}
	return b.String()
}
