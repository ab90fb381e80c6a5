package workers

import (
	"fmt"
	"time"

	"github.com/jhansigoday/bookbridge/logger"
	"github.com/jhansigoday/bookbridge/models"
)

type ReminderStore interface {
	GetStalePendingRequests(cutoff time.Time) ([]models.BookRequest, error)
	NotificationExists(userID, ntype, message string) (bool, error)
	CreateNotification(userID, ntype, title, message string) error
}

// Reminder periodically nudges donors who have left a request pending for
// longer than PendingAge.
type Reminder struct {
	Store      ReminderStore
	Interval   time.Duration
	PendingAge time.Duration
}

func NewReminder(st ReminderStore, interval, pendingAge time.Duration) *Reminder {
	return &Reminder{Store: st, Interval: interval, PendingAge: pendingAge}
}

func (r *Reminder) Start() {
	ticker := time.NewTicker(r.Interval)
	go func() {
		r.Sweep()
		for range ticker.C {
			r.Sweep()
		}
	}()
}

func (r *Reminder) Sweep() {
	logger.Log.Debug("reminder worker: checking for stale pending requests")

	cutoff := time.Now().Add(-r.PendingAge)
	stale, err := r.Store.GetStalePendingRequests(cutoff)
	if err != nil {
		logger.Log.WithError(err).Error("reminder worker: listing stale requests")
		return
	}

	for _, req := range stale {
		title := "your book"
		if req.Book != nil {
			title = fmt.Sprintf("%q", req.Book.Title)
		}
		msg := fmt.Sprintf("You have a pending request for %s waiting for your decision.", title)

		// One reminder per request, not one per sweep.
		exists, err := r.Store.NotificationExists(req.DonorID, models.NotifRequestReminder, msg)
		if err != nil {
			logger.Log.WithError(err).Error("reminder worker: dedup check")
			continue
		}
		if exists {
			continue
		}
		if err := r.Store.CreateNotification(req.DonorID, models.NotifRequestReminder, "Pending Book Request", msg); err != nil {
			logger.Log.WithError(err).Error("reminder worker: creating notification")
		}
	}
}
