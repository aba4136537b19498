// Package notify delivers system-notification requests to a background
// worker as structured messages over a websocket.
package notify

import (
	"context"
	"fmt"

	"github.com/gorilla/websocket"
)

const TypeShowNotification = "SHOW_NOTIFICATION"

// Message asks the worker to display a system notification.
type Message struct {
	Type  string `json:"type"`
	Title string `json:"title"`
	Body  string `json:"body"`
}

// Notifier sends messages to the worker endpoint. Reminders are rare
// (daily), so each Show dials a fresh connection rather than holding one
// open.
type Notifier struct {
	url    string
	dialer *websocket.Dialer
}

func NewNotifier(workerURL string) *Notifier {
	return &Notifier{
		url:    workerURL,
		dialer: websocket.DefaultDialer,
	}
}

func (n *Notifier) Show(ctx context.Context, title, body string) error {
	conn, _, err := n.dialer.DialContext(ctx, n.url, nil)
	if err != nil {
		return fmt.Errorf("dial notification worker: %w", err)
	}
	defer conn.Close()

	msg := Message{Type: TypeShowNotification, Title: title, Body: body}
	if err := conn.WriteJSON(msg); err != nil {
		return fmt.Errorf("send notification: %w", err)
	}

	return conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}
