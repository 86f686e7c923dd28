package api

import (
	"encoding/json"

	"github.com/google/uuid"

	"github.com/mlazaro/bahay/internal/logger"
	"github.com/mlazaro/bahay/internal/models"
	"github.com/mlazaro/bahay/internal/store"
)

var log = logger.New("api")

// RealtimePusher pushes payloads to connected websocket clients.
// Implemented by the websocket manager.
type RealtimePusher interface {
	SendToUser(userID uuid.UUID, payload []byte)
}

// WSManager is set by main at startup. Nil in tests that don't care
// about realtime pushes.
var WSManager RealtimePusher

// notifyUser records a workflow notification for a user and, when they
// are connected, pushes it over their websocket. Notification failures
// never fail the triggering workflow action; they are logged and the
// dashboard catches up on its next fetch.
func notifyUser(st store.Store, userID uuid.UUID, typ models.NotificationType, title, message, link string) {
	n, err := st.CreateNotification(userID, typ, title, message, link)
	if err != nil {
		log.Warn("Failed to create %s notification for %s: %v", typ, userID, err)
		return
	}

	if WSManager != nil {
		payload, err := json.Marshal(map[string]interface{}{
			"type":         "notification",
			"notification": n,
		})
		if err != nil {
			return
		}
		WSManager.SendToUser(userID, payload)
	}
}
