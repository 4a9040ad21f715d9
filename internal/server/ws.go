package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

type subscriber struct {
	id   string
	conn *websocket.Conn
	mu   sync.Mutex
}

// send writes one message with a deadline. Writes to one connection never
// overlap.
func (sub *subscriber) send(msg serverMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", msg.Type, err)
	}

	sub.mu.Lock()
	defer sub.mu.Unlock()

	_ = sub.conn.SetWriteDeadline(time.Now().Add(writeWait))

	return sub.conn.WriteMessage(websocket.TextMessage, data)
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Printf("upgrade failed: %v", err)

		return
	}

	sub := &subscriber{id: uuid.NewString(), conn: conn}

	// Register and send the first state under the event lock so no broadcast
	// can reach the client before its initial snapshot.
	s.mu.Lock()
	s.subscribe(sub)
	st := s.state()
	err = sub.send(serverMessage{Type: TypeState, State: &st})
	s.mu.Unlock()

	if err != nil {
		s.disconnect(sub, err)

		return
	}

	s.logger.Printf("client %s connected from %s", sub.id, r.RemoteAddr)

	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			s.disconnect(sub, nil)

			return
		}

		var msg clientMessage

		err = json.Unmarshal(payload, &msg)
		if err != nil {
			s.logger.Printf("discarding malformed message from %s: %v", sub.id, err)
			s.reply(sub, serverMessage{Type: TypeError, Error: "malformed message"})

			continue
		}

		s.dispatch(r, sub, msg)
	}
}

// dispatch applies one client message. The resulting state reaches the sender
// through the broadcast; only drop outcomes and errors are sent to it alone.
func (s *Server) dispatch(r *http.Request, sub *subscriber, msg clientMessage) {
	ctx := r.Context()

	switch msg.Type {
	case TypeDragStart:
		s.dragStart(msg.Active)
	case TypeDragEnd:
		out, _, err := s.dragEnd(ctx, msg.Active, msg.Over)
		if err != nil {
			s.reply(sub, serverMessage{Type: TypeError, Error: err.Error()})

			return
		}

		s.reply(sub, serverMessage{Type: TypeOutcome, Outcome: &out})
	case TypeFilter:
		_, err := s.setFilter(ctx, msg.Category, msg.Rarity)
		if err != nil {
			s.reply(sub, serverMessage{Type: TypeError, Error: err.Error()})
		}
	case TypeReset:
		_, err := s.reset(ctx)
		if err != nil {
			s.reply(sub, serverMessage{Type: TypeError, Error: err.Error()})
		}
	default:
		s.reply(sub, serverMessage{Type: TypeError, Error: "unknown message type " + msg.Type})
	}
}

func (s *Server) reply(sub *subscriber, msg serverMessage) {
	err := sub.send(msg)
	if err != nil {
		s.disconnect(sub, err)
	}
}

func (s *Server) subscribe(sub *subscriber) {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()

	s.subs[sub.id] = sub
}

// disconnect drops sub and closes its connection. It is safe to call twice.
func (s *Server) disconnect(sub *subscriber, cause error) {
	s.subsMu.Lock()
	_, ok := s.subs[sub.id]
	delete(s.subs, sub.id)
	s.subsMu.Unlock()

	if !ok {
		return
	}

	if cause != nil {
		s.logger.Printf("client %s dropped: %v", sub.id, cause)
	} else {
		s.logger.Printf("client %s disconnected", sub.id)
	}

	_ = sub.conn.Close()
}

// broadcast pushes st to every connection. Callers hold s.mu.
func (s *Server) broadcast(st State) {
	s.subsMu.Lock()
	subs := make([]*subscriber, 0, len(s.subs))

	for _, sub := range s.subs {
		subs = append(subs, sub)
	}
	s.subsMu.Unlock()

	msg := serverMessage{Type: TypeState, State: &st}

	for _, sub := range subs {
		err := sub.send(msg)
		if err != nil {
			s.disconnect(sub, err)
		}
	}
}

func (s *Server) closeAll() {
	s.subsMu.Lock()
	subs := make([]*subscriber, 0, len(s.subs))

	for _, sub := range s.subs {
		subs = append(subs, sub)
	}
	s.subsMu.Unlock()

	for _, sub := range subs {
		sub.mu.Lock()
		_ = sub.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
			time.Now().Add(time.Second))
		sub.mu.Unlock()

		s.disconnect(sub, nil)
	}
}

// Clients returns the number of connected websocket clients.
func (s *Server) Clients() int {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()

	return len(s.subs)
}
