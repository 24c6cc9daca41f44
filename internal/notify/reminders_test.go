package notify

import (
	"net/smtp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"garagelog/internal/config"
	"garagelog/internal/db"
	"garagelog/internal/models"
)

func intPtr(n int) *int              { return &n }
func datePtr(t time.Time) *time.Time { return &t }

func reminderCtx(r models.FutureMaintenance, mileage int) db.ReminderContext {
	return db.ReminderContext{
		Reminder:       r,
		VehicleName:    "Daily Driver",
		AccountID:      "acct-1",
		CurrentMileage: mileage,
	}
}

func TestFilterDueMileageWindow(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	reminders := []db.ReminderContext{
		reminderCtx(models.FutureMaintenance{
			MaintenanceType: "Oil Change",
			TargetMileage:   intPtr(105000),
			MileageReminder: 100,
		}, 104950),
		reminderCtx(models.FutureMaintenance{
			MaintenanceType: "Brake Service",
			TargetMileage:   intPtr(120000),
			MileageReminder: 100,
		}, 104950),
	}

	due := FilterDue(reminders, now)
	require.Len(t, due, 1)
	assert.Equal(t, "Oil Change", due[0].Reminder.MaintenanceType)
	assert.Equal(t, []string{"due in 50 miles"}, due[0].Reasons)
}

func TestFilterDueOverdueMileage(t *testing.T) {
	now := time.Now()
	reminders := []db.ReminderContext{
		reminderCtx(models.FutureMaintenance{
			MaintenanceType: "Oil Change",
			TargetMileage:   intPtr(100000),
			MileageReminder: 100,
		}, 100250),
	}

	due := FilterDue(reminders, now)
	require.Len(t, due, 1)
	assert.Equal(t, []string{"overdue by 250 miles"}, due[0].Reasons)
}

func TestFilterDueDateWindow(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	reminders := []db.ReminderContext{
		reminderCtx(models.FutureMaintenance{
			MaintenanceType:  "Registration",
			TargetDate:       datePtr(time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)),
			DateReminderDays: 30,
		}, 0),
		reminderCtx(models.FutureMaintenance{
			MaintenanceType:  "Inspection",
			TargetDate:       datePtr(time.Date(2027, 3, 1, 0, 0, 0, 0, time.UTC)),
			DateReminderDays: 30,
		}, 0),
	}

	due := FilterDue(reminders, now)
	require.Len(t, due, 1)
	assert.Equal(t, "Registration", due[0].Reminder.MaintenanceType)
	assert.Equal(t, []string{"due in 11 days"}, due[0].Reasons)
}

func TestFilterDueBothTargetsBothReasons(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	reminders := []db.ReminderContext{
		reminderCtx(models.FutureMaintenance{
			MaintenanceType:  "Oil Change",
			TargetMileage:    intPtr(105000),
			MileageReminder:  100,
			TargetDate:       datePtr(time.Date(2026, 9, 5, 0, 0, 0, 0, time.UTC)),
			DateReminderDays: 30,
		}, 104990),
	}

	due := FilterDue(reminders, now)
	require.Len(t, due, 1)
	assert.Len(t, due[0].Reasons, 2)
}

func TestFilterDueNoTargetsNeverFires(t *testing.T) {
	due := FilterDue([]db.ReminderContext{
		reminderCtx(models.FutureMaintenance{MaintenanceType: "Someday"}, 50000),
	}, time.Now())
	assert.Empty(t, due)
}

func TestAdvanceOneShotDeactivates(t *testing.T) {
	r := models.FutureMaintenance{IsActive: true}
	assert.True(t, Advance(&r, 100000, time.Now()))
	assert.False(t, r.IsActive)
	// A second pass is a no-op.
	assert.False(t, Advance(&r, 100000, time.Now()))
}

func TestAdvanceRecurringBumpsTargets(t *testing.T) {
	now := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)
	r := models.FutureMaintenance{
		IsActive:                 true,
		IsRecurring:              true,
		TargetMileage:            intPtr(100000),
		RecurrenceIntervalMiles:  intPtr(5000),
		TargetDate:               datePtr(time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC)),
		RecurrenceIntervalMonths: intPtr(6),
	}

	require.True(t, Advance(&r, 100250, now))
	assert.True(t, r.IsActive)
	assert.Equal(t, 105250, *r.TargetMileage)
	// Next target is six months out from the run, not from the old target.
	assert.Equal(t, now.AddDate(0, 6, 0), *r.TargetDate)
}

func TestBuildEmailListsEveryReminder(t *testing.T) {
	due := []DueReminder{
		{
			ReminderContext: reminderCtx(models.FutureMaintenance{
				MaintenanceType: "Oil Change",
				TargetMileage:   intPtr(105000),
			}, 104950),
			Reasons: []string{"due in 50 miles"},
		},
	}

	subject, body := BuildEmail(due)
	assert.Contains(t, subject, "1 item(s)")
	assert.Contains(t, body, "Daily Driver")
	assert.Contains(t, body, "Oil Change")
	assert.Contains(t, body, "due in 50 miles")
	assert.Contains(t, body, "target mileage 105000")
}

func TestGroupByAccount(t *testing.T) {
	a := DueReminder{ReminderContext: db.ReminderContext{AccountID: "a"}}
	b := DueReminder{ReminderContext: db.ReminderContext{AccountID: "b"}}
	grouped := GroupByAccount([]DueReminder{a, b, a})
	assert.Len(t, grouped["a"], 2)
	assert.Len(t, grouped["b"], 1)
}

func TestMailerDryRunSendsNothing(t *testing.T) {
	m := NewMailer(config.Config{DryRun: true}, zap.NewNop().Sugar())
	called := false
	m.send = func(string, smtp.Auth, string, []string, []byte) error {
		called = true
		return nil
	}

	require.NoError(t, m.Send([]string{"a@example.com"}, "subject", "body"))
	assert.False(t, called)
}

func TestMailerBuildsRFCMessage(t *testing.T) {
	m := NewMailer(config.Config{SMTPHost: "mail.example.com", SMTPPort: 587, FromAddress: "garage@example.com"}, zap.NewNop().Sugar())

	var gotAddr, gotFrom string
	var gotTo []string
	var gotMsg []byte
	m.send = func(addr string, _ smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotFrom, gotTo, gotMsg = addr, from, to, msg
		return nil
	}

	require.NoError(t, m.Send([]string{"a@example.com"}, "Hello", "World"))
	assert.Equal(t, "mail.example.com:587", gotAddr)
	assert.Equal(t, "garage@example.com", gotFrom)
	assert.Equal(t, []string{"a@example.com"}, gotTo)
	assert.Contains(t, string(gotMsg), "Subject: Hello\r\n")
	assert.Contains(t, string(gotMsg), "\r\n\r\nWorld")
}

func TestMailerNoRecipientsIsNoop(t *testing.T) {
	m := NewMailer(config.Config{}, zap.NewNop().Sugar())
	require.NoError(t, m.Send(nil, "s", "b"))
}
