package jobs

import (
	"context"

	"wotro-backend/internal/logger"
)

// ExpireStalePending rejects Pending requests whose start date is already
// behind today's date in the booking time zone.
func (jr *JobRunner) ExpireStalePending() {
	jr.runWithRecovery("ExpireStalePending", func(ctx context.Context) error {
		today := jr.today()
		n, err := jr.services.Booking.ExpireStalePending(ctx, today)
		if err != nil {
			return err
		}
		logger.InfoContext(ctx, "Expired stale pending bookings", "count", n, "today", today)
		return nil
	})
}

// SendPendingReminders emails every host who still has requests waiting.
func (jr *JobRunner) SendPendingReminders() {
	jr.runWithRecovery("SendPendingReminders", func(ctx context.Context) error {
		n, err := jr.services.Notification.SendPendingReminders(ctx)
		if err != nil {
			return err
		}
		logger.InfoContext(ctx, "Sent pending reminders", "hosts", n)
		return nil
	})
}

// ReconcileLedger credits Confirmed bookings that have no earning entry yet.
func (jr *JobRunner) ReconcileLedger() {
	jr.runWithRecovery("ReconcileLedger", func(ctx context.Context) error {
		n, err := jr.services.Earnings.ReconcileLedger(ctx)
		if err != nil {
			return err
		}
		logger.InfoContext(ctx, "Reconciled earnings ledger", "credited", n)
		return nil
	})
}
