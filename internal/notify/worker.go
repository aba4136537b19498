package notify

import (
	"log"
	"net/http"

	"github.com/gorilla/websocket"
)

const maxMessageSize = 4 * 1024

// Worker is the receiving end of the notification channel: it upgrades
// incoming connections and dispatches SHOW_NOTIFICATION messages to the
// display callback. When to fire a notification is the sender's decision,
// not the worker's.
type Worker struct {
	upgrader websocket.Upgrader
	display  func(title, body string)
}

func NewWorker(display func(title, body string)) *Worker {
	return &Worker{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		display: display,
	}
}

func (w *Worker) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	conn, err := w.upgrader.Upgrade(rw, r, nil)
	if err != nil {
		log.Printf("ERROR [notify.Worker] upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	conn.SetReadLimit(maxMessageSize)
	for {
		var msg Message
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Printf("ERROR [notify.Worker] read failed: %v", err)
			}
			return
		}
		if msg.Type != TypeShowNotification {
			continue
		}
		w.display(msg.Title, msg.Body)
	}
}
