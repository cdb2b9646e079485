package main

import (
	"encoding/json"
	"flag"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/gorilla/websocket"

	"craftsim.dev/internal/protocol"
)

// bot is a smoke-test client. In player mode it joins and runs a small
// scripted loop against its own inventory and a furnace it places near
// spawn. In observer mode it subscribes to the state feed and prints
// one summary line per message.
func main() {
	var (
		url     = flag.String("url", "ws://localhost:8080/v1/ws", "ws url")
		name    = flag.String("name", "bot", "player name")
		observe = flag.Bool("observe", false, "connect as observer and print state summaries")
	)
	flag.Parse()

	logger := log.New(os.Stdout, "[bot] ", log.LstdFlags|log.Lmicroseconds)
	conn, _, err := websocket.DefaultDialer.Dial(*url, nil)
	if err != nil {
		logger.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	hello := protocol.HelloMsg{
		Type:            protocol.TypeHello,
		ProtocolVersion: protocol.Version,
		PlayerName:      *name,
		Observer:        *observe,
	}
	if err := conn.WriteJSON(hello); err != nil {
		logger.Fatalf("send HELLO: %v", err)
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)

	if *observe {
		runObserver(conn, logger, stop)
		return
	}
	runPlayer(conn, logger, stop)
}

func runObserver(conn *websocket.Conn, logger *log.Logger, stop chan os.Signal) {
	for {
		select {
		case <-stop:
			return
		default:
		}

		_, msg, err := conn.ReadMessage()
		if err != nil {
			return
		}
		base, err := protocol.DecodeBase(msg)
		if err != nil {
			continue
		}
		switch base.Type {
		case protocol.TypeWelcome:
			var w protocol.WelcomeMsg
			if err := json.Unmarshal(msg, &w); err != nil {
				continue
			}
			logger.Printf("WELCOME world=%s tick_rate=%d seed=%d", w.WorldID, w.WorldParams.TickRateHz, w.WorldParams.Seed)

		case protocol.TypeState:
			var st protocol.StateMsg
			if err := json.Unmarshal(msg, &st); err != nil {
				continue
			}
			logger.Printf("STATE tick=%d players=%d tiles=%d dropped=%d", st.Tick, len(st.Players), len(st.Tiles), len(st.Dropped))
		}
	}
}

func runPlayer(conn *websocket.Conn, logger *log.Logger, stop chan os.Signal) {
	_, msg, err := conn.ReadMessage()
	if err != nil {
		logger.Fatalf("read WELCOME: %v", err)
	}
	var welcome protocol.WelcomeMsg
	if err := json.Unmarshal(msg, &welcome); err != nil {
		logger.Fatalf("decode WELCOME: %v", err)
	}
	logger.Printf("WELCOME player_id=%s world=%s spawn=%v", welcome.PlayerID, welcome.WorldID, welcome.WorldParams.Spawn)

	spawn := welcome.WorldParams.Spawn
	tilePos := [3]int{int(spawn[0]) + 2, int(spawn[1]), int(spawn[2])}

	// One action per second: enough to watch the audit stream move.
	script := []protocol.Action{
		{Type: "place_tile", Kind: "furnace", Pos: tilePos},
		{Type: "select_hotbar", Index: 3},
		{Type: "set_rule", Rule: "showDeathMessages", Value: true},
		{Type: "break_tile", Pos: tilePos},
	}

	// Drain server messages so the connection stays healthy.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	var seq uint64
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			act := protocol.ActMsg{
				Type: protocol.TypeAct,
				Seq:  seq,
				Act:  script[seq%uint64(len(script))],
			}
			seq++
			if err := conn.WriteJSON(act); err != nil {
				logger.Printf("send ACT: %v", err)
				return
			}
		}
	}
}
