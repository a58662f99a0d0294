package stream

import (
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const writeWait = time.Second

// SafeWriter serializes writes to one websocket connection.
type SafeWriter struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func NewSafeWriter(conn *websocket.Conn) *SafeWriter {
	return &SafeWriter{conn: conn}
}

func (w *SafeWriter) WriteJSON(v any) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return w.conn.WriteJSON(v)
}

// Close sends a close frame and closes the connection. A close frame that
// was already sent is not reported.
func (w *SafeWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	err := w.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
	if errors.Is(err, websocket.ErrCloseSent) {
		err = nil
	}
	return errors.Join(err, w.conn.Close())
}
