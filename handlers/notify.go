package handlers

import (
	"github.com/jhansigoday/bookbridge/logger"
	"github.com/jhansigoday/bookbridge/utils"
)

// NotificationWriter is the slice of the store the workflow side effects use.
type NotificationWriter interface {
	CreateNotification(userID, ntype, title, message string) error
}

// notify records a workflow notification for a user and pushes a change
// event to their subscription. Failures are logged and swallowed so the
// primary transition is never rolled back.
func notify(st NotificationWriter, hub *utils.Hub, userID, ntype, title, message string) {
	if err := st.CreateNotification(userID, ntype, title, message); err != nil {
		logger.Log.WithError(err).WithField("type", ntype).Warn("notification create failed")
		return
	}
	if hub != nil {
		hub.Publish(userID, utils.Event{Table: "notifications", Action: "insert"})
	}
}
