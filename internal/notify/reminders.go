// Package notify decides which maintenance reminders are due and emails
// them to an account's subscribers. The selection logic is pure so the
// run-once notifier binary stays a thin shell around it.
package notify

import (
	"fmt"
	"strings"
	"time"

	"garagelog/internal/db"
	"garagelog/internal/models"
)

// DueReminder pairs a reminder with the human-readable reasons it fired.
type DueReminder struct {
	db.ReminderContext
	Reasons []string
}

// FilterDue keeps the reminders that are inside their reminder window.
// A reminder with neither target set can never fire.
func FilterDue(reminders []db.ReminderContext, now time.Time) []DueReminder {
	today := now.UTC().Truncate(24 * time.Hour)
	due := make([]DueReminder, 0)

	for _, rc := range reminders {
		r := rc.Reminder
		var reasons []string

		if r.TargetMileage != nil {
			remaining := *r.TargetMileage - rc.CurrentMileage
			if remaining <= r.MileageReminder {
				if remaining <= 0 {
					reasons = append(reasons, fmt.Sprintf("overdue by %d miles", -remaining))
				} else {
					reasons = append(reasons, fmt.Sprintf("due in %d miles", remaining))
				}
			}
		}

		if r.TargetDate != nil {
			days := int(r.TargetDate.Sub(today).Hours() / 24)
			if days <= r.DateReminderDays {
				if days <= 0 {
					reasons = append(reasons, fmt.Sprintf("overdue by %d days", -days))
				} else {
					reasons = append(reasons, fmt.Sprintf("due in %d days", days))
				}
			}
		}

		if len(reasons) > 0 {
			due = append(due, DueReminder{ReminderContext: rc, Reasons: reasons})
		}
	}
	return due
}

// Advance moves a notified reminder forward: recurring ones get their
// targets bumped by the recurrence interval from the current position,
// one-shot ones are deactivated. Reports whether the reminder changed.
func Advance(r *models.FutureMaintenance, currentMileage int, now time.Time) bool {
	if !r.IsRecurring {
		if !r.IsActive {
			return false
		}
		r.IsActive = false
		return true
	}

	changed := false
	if r.TargetMileage != nil && r.RecurrenceIntervalMiles != nil {
		next := currentMileage + *r.RecurrenceIntervalMiles
		r.TargetMileage = &next
		changed = true
	}
	if r.TargetDate != nil && r.RecurrenceIntervalMonths != nil {
		next := now.UTC().AddDate(0, *r.RecurrenceIntervalMonths, 0)
		r.TargetDate = &next
		changed = true
	}
	return changed
}

// BuildEmail formats one account's due reminders into a plain-text email.
func BuildEmail(due []DueReminder) (subject, body string) {
	subject = fmt.Sprintf("Maintenance reminder: %d item(s) due", len(due))

	var b strings.Builder
	b.WriteString("The following maintenance is coming up:\n\n")
	for _, d := range due {
		fmt.Fprintf(&b, "- %s: %s (%s)\n", d.VehicleName, d.Reminder.MaintenanceType, strings.Join(d.Reasons, ", "))
		if d.Reminder.TargetMileage != nil {
			fmt.Fprintf(&b, "    target mileage %d, currently at %d\n", *d.Reminder.TargetMileage, d.CurrentMileage)
		}
		if d.Reminder.TargetDate != nil {
			fmt.Fprintf(&b, "    target date %s\n", d.Reminder.TargetDate.Format("2006-01-02"))
		}
		if d.Reminder.Notes != nil && *d.Reminder.Notes != "" {
			fmt.Fprintf(&b, "    notes: %s\n", *d.Reminder.Notes)
		}
	}
	b.WriteString("\nLogged by garagelog.\n")
	return subject, b.String()
}

// GroupByAccount buckets due reminders for per-account emails.
func GroupByAccount(due []DueReminder) map[string][]DueReminder {
	grouped := make(map[string][]DueReminder)
	for _, d := range due {
		grouped[d.AccountID] = append(grouped[d.AccountID], d)
	}
	return grouped
}
