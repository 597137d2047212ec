package monitor

import (
	"fmt"

	"github.com/miradorstack/enginewatch/internal/models"
	"github.com/miradorstack/enginewatch/internal/utils"
)

// buildAlerts returns the threshold alerts a sample triggers, in
// models.AlertCategories order.
func buildAlerts(t models.Thresholds, s models.Sample) []models.Alert {
	hour := utils.SimulatedHour(s.TimeIndex)
	var alerts []models.Alert

	for _, category := range models.AlertCategories {
		var message string
		switch category {
		case models.AlertTemperatureHigh:
			if s.Temperature <= t.TempMax {
				continue
			}
			message = fmt.Sprintf("🚨 ALERT: Critical temperature detected\n\n• Current value: %.1f°C\n• Maximum threshold: %g°C\n• Simulated hour: %d:00\n• RPM: %.0f",
				s.Temperature, t.TempMax, hour, s.RPM)
		case models.AlertRPMHigh:
			if s.RPM <= t.RPMMax {
				continue
			}
			message = fmt.Sprintf("🚨 ALERT: Critical RPM detected\n\n• Current value: %.0f RPM\n• Maximum threshold: %g RPM\n• Simulated hour: %d:00\n• Temperature: %.1f°C",
				s.RPM, t.RPMMax, hour, s.Temperature)
		case models.AlertRPMLow:
			if s.RPM >= t.RPMMin {
				continue
			}
			message = fmt.Sprintf("⚠️ WARNING: Low RPM detected\n\n• Current value: %.0f RPM\n• Minimum threshold: %g RPM\n• Simulated hour: %d:00\n• Temperature: %.1f°C",
				s.RPM, t.RPMMin, hour, s.Temperature)
		default:
			continue
		}
		alerts = append(alerts, models.Alert{Category: category, Message: message})
	}
	return alerts
}
