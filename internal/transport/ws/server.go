package ws

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"craftsim.dev/internal/protocol"
	"craftsim.dev/internal/sim/world"
)

// Server terminates player and observer websocket sessions and
// converts between the wire protocol and the world's action surface.
type Server struct {
	world   *world.World
	welcome protocol.WelcomeMsg
	log     *log.Logger

	upgrader websocket.Upgrader

	// StatePeriod is how often an observer session receives a STATE
	// message. Zero means the default of 250ms.
	StatePeriod time.Duration
}

func NewServer(w *world.World, welcome protocol.WelcomeMsg, logger *log.Logger) *Server {
	return &Server{
		world:   w,
		welcome: welcome,
		log:     logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  64 * 1024,
			WriteBufferSize: 64 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true }, // dev default
		},
	}
}

func (s *Server) Handler() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		conn, err := s.upgrader.Upgrade(rw, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		hello, ok := s.readHello(conn)
		if !ok {
			return
		}
		if hello.Observer {
			s.serveObserver(conn)
			return
		}
		s.servePlayer(conn, hello)
	}
}

func (s *Server) readHello(conn *websocket.Conn) (protocol.HelloMsg, bool) {
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		return protocol.HelloMsg{}, false
	}

	base, err := protocol.DecodeBase(msg)
	if err != nil || base.Type != protocol.TypeHello {
		s.closePolicy(conn, "expected HELLO")
		return protocol.HelloMsg{}, false
	}

	var hello protocol.HelloMsg
	if err := json.Unmarshal(msg, &hello); err != nil {
		s.closePolicy(conn, "bad HELLO")
		return protocol.HelloMsg{}, false
	}
	if hello.ProtocolVersion != protocol.Version {
		_ = writeJSON(conn, protocol.ErrorMsg{
			Type:    protocol.TypeError,
			Code:    protocol.ErrProtoVersion,
			Message: "unsupported protocol_version",
		})
		s.closePolicy(conn, "bad protocol_version")
		return protocol.HelloMsg{}, false
	}
	return hello, true
}

func (s *Server) servePlayer(conn *websocket.Conn, hello protocol.HelloMsg) {
	name := hello.PlayerName
	if name == "" {
		name = "player"
	}

	var join world.JoinResponse
	select {
	case join = <-s.world.Join(name):
	case <-time.After(5 * time.Second):
		s.closePolicy(conn, "join timeout")
		return
	}

	welcome := s.welcome
	welcome.PlayerID = join.PlayerID
	welcome.WorldParams.Spawn = join.Spawn
	if err := writeJSON(conn, welcome); err != nil {
		s.world.Leave(join.PlayerID)
		return
	}

	for {
		_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		_, msg, err := conn.ReadMessage()
		if err != nil {
			break
		}
		base, err := protocol.DecodeBase(msg)
		if err != nil || base.Type != protocol.TypeAct {
			continue
		}
		var act protocol.ActMsg
		if err := json.Unmarshal(msg, &act); err != nil {
			_ = writeJSON(conn, protocol.ErrorMsg{Type: protocol.TypeError, Code: protocol.ErrBadRequest, Message: "bad ACT"})
			continue
		}
		s.world.Enqueue(world.ActionEnvelope{PlayerID: join.PlayerID, Act: fromWire(act.Act)})
	}

	s.world.Leave(join.PlayerID)
}

func (s *Server) serveObserver(conn *websocket.Conn) {
	if err := writeJSON(conn, s.welcome); err != nil {
		return
	}

	period := s.StatePeriod
	if period <= 0 {
		period = 250 * time.Millisecond
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(period)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			state := s.world.RequestState()
			if err := writeJSON(conn, state); err != nil {
				return
			}
		}
	}
}

func (s *Server) closePolicy(conn *websocket.Conn, reason string) {
	_ = conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.ClosePolicyViolation, reason),
		time.Now().Add(time.Second))
}

func writeJSON(conn *websocket.Conn, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	return conn.WriteMessage(websocket.TextMessage, b)
}

// fromWire converts the protocol action body into the world's action
// type. The two structs mirror each other field for field; the copy
// keeps the simulation package free of wire types.
func fromWire(a protocol.Action) world.Action {
	return world.Action{
		Type:   a.Type,
		Slot:   a.Slot,
		To:     a.To,
		Count:  a.Count,
		Index:  a.Index,
		All:    a.All,
		Pos:    a.Pos,
		Kind:   a.Kind,
		Facing: a.Facing,
		Line:   a.Line,
		Text:   a.Text,
		Amount: a.Amount,
		Cause:  a.Cause,
		Killer: a.Killer,
		Rule:   a.Rule,
		Value:  a.Value,
		X:      a.X,
		Y:      a.Y,
		Z:      a.Z,
	}
}
