package stream

import (
	"context"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/san-kum/teatro/internal/dynamo"
)

const (
	MessageTypeHello   = "hello"
	MessageTypeFrame   = "frame"
	MessageTypePause   = "pause"
	MessageTypeResume  = "resume"
	MessageTypeKick    = "kick"
	MessageTypeUnknown = "error"

	DefaultInterval = time.Second / 60
)

// Message is the envelope for everything sent in either direction.
type Message struct {
	Type   string        `json:"type"`
	Scene  string        `json:"scene,omitempty"`
	Frame  *dynamo.Frame `json:"frame,omitempty"`
	Value  float64       `json:"value,omitempty"`
	Paused bool          `json:"paused,omitempty"`
	Error  string        `json:"error,omitempty"`
}

// Server steps one scene on a ticker and broadcasts every frame to all
// connected clients. Only Run touches the scene.
type Server struct {
	upgrader websocket.Upgrader
	scene    dynamo.Scene
	dt       float64
	interval time.Duration
	logger   *log.Logger
	commands chan Message

	mu      sync.RWMutex
	clients map[*SafeWriter]struct{}
	last    dynamo.Frame
	paused  bool
}

func NewServer(scene dynamo.Scene, dt float64, interval time.Duration, logger *log.Logger) *Server {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Server{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		scene:    scene,
		dt:       dt,
		interval: interval,
		logger:   logger,
		commands: make(chan Message, 16),
		clients:  make(map[*SafeWriter]struct{}),
		last:     scene.Frame(),
	}
}

func (s *Server) Clients() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}

// ServeHTTP upgrades the request, greets the client with the latest frame
// and forwards its commands to Run until it disconnects.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Printf("upgrade failed: %v", err)
		return
	}
	client := NewSafeWriter(conn)

	// Hold the writer until the greeting is out so no frame overtakes it.
	client.mu.Lock()
	s.mu.Lock()
	frame := s.last
	hello := Message{Type: MessageTypeHello, Scene: s.scene.Name(), Frame: &frame, Paused: s.paused}
	s.clients[client] = struct{}{}
	n := len(s.clients)
	s.mu.Unlock()
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	err = conn.WriteJSON(hello)
	client.mu.Unlock()

	if err != nil {
		s.drop(client)
		return
	}
	s.logger.Printf("client %s connected (%d total)", r.RemoteAddr, n)

	defer s.drop(client)
	for {
		var msg Message
		if err := conn.ReadJSON(&msg); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.logger.Printf("client %s: %v", r.RemoteAddr, err)
			}
			return
		}
		switch msg.Type {
		case MessageTypePause, MessageTypeResume, MessageTypeKick:
			select {
			case s.commands <- msg:
			default:
				s.logger.Printf("command queue full, dropping %s", msg.Type)
			}
		default:
			if !s.reply(client, r.RemoteAddr, Message{Type: MessageTypeUnknown, Error: "unknown message type: " + msg.Type}) {
				return
			}
		}
	}
}

func (s *Server) drop(client *SafeWriter) {
	s.mu.Lock()
	_, ok := s.clients[client]
	delete(s.clients, client)
	s.mu.Unlock()
	if ok {
		if err := client.Close(); err != nil {
			s.logger.Printf("close: %v", err)
		}
	}
}

// reply answers one client directly and reports whether the write worked.
func (s *Server) reply(client *SafeWriter, addr string, msg Message) bool {
	if err := client.WriteJSON(msg); err != nil {
		s.logger.Printf("client %s: reply %s failed: %v", addr, msg.Type, err)
		return false
	}
	return true
}

// Run steps the scene until ctx is done, then disconnects every client.
func (s *Server) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	defer s.closeAll()

	for {
		select {
		case <-ctx.Done():
			return nil
		case cmd := <-s.commands:
			s.apply(cmd)
		case <-ticker.C:
			if s.isPaused() {
				continue
			}
			s.scene.Step(s.dt)
			frame := s.scene.Frame()
			if !frame.IsValid() {
				s.logger.Printf("scene %s went invalid at t=%.3f, pausing", s.scene.Name(), frame.Time)
				s.setPaused(true)
				continue
			}
			s.publish(frame)
		}
	}
}

func (s *Server) apply(cmd Message) {
	switch cmd.Type {
	case MessageTypePause:
		s.setPaused(true)
	case MessageTypeResume:
		s.setPaused(false)
	case MessageTypeKick:
		k, ok := s.scene.(dynamo.Kickable)
		if !ok {
			s.logger.Printf("scene %s cannot be kicked", s.scene.Name())
			return
		}
		k.SetHorizontalSpeed(cmd.Value)
	}
}

func (s *Server) isPaused() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.paused
}

func (s *Server) setPaused(p bool) {
	s.mu.Lock()
	s.paused = p
	s.mu.Unlock()
}

// publish records frame as the latest and sends it to every client that
// did not already receive it in its greeting.
func (s *Server) publish(frame dynamo.Frame) {
	s.mu.Lock()
	s.last = frame
	clients := make([]*SafeWriter, 0, len(s.clients))
	for c := range s.clients {
		clients = append(clients, c)
	}
	s.mu.Unlock()

	msg := Message{Type: MessageTypeFrame, Frame: &frame}
	for _, c := range clients {
		if err := c.WriteJSON(msg); err != nil {
			s.logger.Printf("write failed, dropping client: %v", err)
			s.drop(c)
		}
	}
}

func (s *Server) closeAll() {
	s.mu.Lock()
	clients := s.clients
	s.clients = make(map[*SafeWriter]struct{})
	s.mu.Unlock()

	for c := range clients {
		if err := c.Close(); err != nil {
			s.logger.Printf("close: %v", err)
		}
	}
}
