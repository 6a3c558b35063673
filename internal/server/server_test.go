package server

import (
	"encoding/json"
	"math/rand"
	"net"
	"testing"
	"time"

	"roguedeck/internal/cards"
	"roguedeck/internal/game"
	"roguedeck/internal/protocol"
)

func testSession(marketCopies int) *game.Session {
	catalog := &cards.Catalog{Definitions: []cards.Definition{
		{CardIndex: 0, Name: "Apprentice", Power: 1, Count: 5, IsStart: true},
		{CardIndex: 1, Name: "Mercenary", Power: 3, Cost: 2, WinPoints: 1, Count: marketCopies},
	}}
	return game.NewSession(catalog, rand.New(rand.NewSource(5)))
}

// wire is a test client talking the framed protocol over one end of a pipe.
type wire struct {
	conn net.Conn
	fr   *protocol.FrameReader
}

func attachWire(srv *Server) *wire {
	clientSide, serverSide := net.Pipe()
	srv.Attach(newTCPConn(serverSide))
	return &wire{conn: clientSide, fr: protocol.NewFrameReader(clientSide)}
}

func (w *wire) send(t *testing.T, msg any) {
	t.Helper()
	payload, err := protocol.Encode(msg)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	_ = w.conn.SetWriteDeadline(time.Now().Add(2 * time.Second))
	if err := protocol.WriteFrame(w.conn, payload); err != nil {
		t.Fatalf("write frame: %v", err)
	}
}

func (w *wire) next(t *testing.T) map[string]any {
	t.Helper()
	_ = w.conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	frame, err := w.fr.ReadFrame()
	if err != nil {
		t.Fatalf("read frame: %v", err)
	}
	var msg map[string]any
	if err := json.Unmarshal(frame, &msg); err != nil {
		t.Fatalf("decode frame %s: %v", frame, err)
	}
	return msg
}

// await skips messages until one of the wanted type arrives.
func (w *wire) await(t *testing.T, msgType string) map[string]any {
	t.Helper()
	for i := 0; i < 20; i++ {
		msg := w.next(t)
		if msg["type"] == msgType {
			return msg
		}
	}
	t.Fatalf("message %q never arrived", msgType)
	return nil
}

func startServer(t *testing.T, marketCopies int) *Server {
	t.Helper()
	srv := New(testSession(marketCopies), 50*time.Millisecond, 20*time.Millisecond)
	t.Cleanup(srv.Shutdown)
	return srv
}

func TestJoinAndStartOverWire(t *testing.T) {
	srv := startServer(t, 12)

	w0 := attachWire(srv)
	w0.send(t, protocol.JoinRequest{Type: protocol.MsgJoin, Name: "alice"})
	ok := w0.await(t, protocol.MsgJoinSuccess)
	if ok["player_index"].(float64) != 0 || ok["player_name"] != "alice" {
		t.Fatalf("join_success = %v", ok)
	}

	w1 := attachWire(srv)
	w1.send(t, protocol.JoinRequest{Type: protocol.MsgJoin, Name: "bob"})
	w1.await(t, protocol.MsgJoinSuccess)

	start := w0.await(t, protocol.MsgGameStart)
	players := start["players"].([]any)
	if len(players) != 2 || players[0] != "alice" || players[1] != "bob" {
		t.Fatalf("game_start players = %v", players)
	}

	// the authoritative snapshot follows the event, personalized per side
	st0 := w0.await(t, protocol.MsgGameState)
	st1 := w1.await(t, protocol.MsgGameState)

	own0 := st0["player"].(map[string]any)
	opp1 := st1["opponent"].(map[string]any)
	if own0["name"] != "alice" || opp1["name"] != "alice" {
		t.Fatalf("snapshot perspectives wrong: own0=%v opp1=%v", own0["name"], opp1["name"])
	}
	if _, leaked := st0["opponent"].(map[string]any)["hand"]; leaked {
		t.Fatal("opponent hand contents leaked into snapshot")
	}
}

func TestWrongTurnGetsErrorOnly(t *testing.T) {
	srv := startServer(t, 12)

	w0 := attachWire(srv)
	w0.send(t, protocol.JoinRequest{Type: protocol.MsgJoin, Name: "alice"})
	w0.await(t, protocol.MsgJoinSuccess)

	w1 := attachWire(srv)
	w1.send(t, protocol.JoinRequest{Type: protocol.MsgJoin, Name: "bob"})
	w1.await(t, protocol.MsgJoinSuccess)

	st := w0.await(t, protocol.MsgGameState)
	current := int(st["current_player"].(float64))

	wires := []*wire{w0, w1}
	idle := wires[1-current]

	idle.send(t, protocol.FinishTurnRequest{Type: protocol.MsgFinishTurn})
	errMsg := idle.await(t, protocol.MsgError)
	if errMsg["message"] == "" {
		t.Fatalf("empty error message: %v", errMsg)
	}
}

func TestMalformedFrameKeepsConnection(t *testing.T) {
	srv := startServer(t, 12)

	w := attachWire(srv)
	_ = w.conn.SetWriteDeadline(time.Now().Add(2 * time.Second))
	if err := protocol.WriteFrame(w.conn, []byte("not json at all")); err != nil {
		t.Fatalf("write garbage: %v", err)
	}

	// connection must survive; a status request still answers
	w.send(t, protocol.GetStatusRequest{Type: protocol.MsgGetStatus})
	w.await(t, protocol.MsgGameState)
}

func TestThirdConnectionRefused(t *testing.T) {
	srv := startServer(t, 12)

	attachWire(srv)
	attachWire(srv)

	// pipe writes rendezvous with the reader, so the refusal must be
	// written from another goroutine while this one reads it
	clientSide, serverSide := net.Pipe()
	go srv.Attach(newTCPConn(serverSide))
	w2 := &wire{conn: clientSide, fr: protocol.NewFrameReader(clientSide)}

	errMsg := w2.await(t, protocol.MsgError)
	if errMsg["message"] != "game is full" {
		t.Fatalf("refusal = %v", errMsg)
	}

	_ = w2.conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, err := w2.fr.ReadFrame(); err == nil {
		t.Fatal("refused connection left open")
	}
}

func TestGameEndTriggersShutdown(t *testing.T) {
	// five market copies fill the showcase and leave the pile empty, so the
	// first finished turn exhausts the market
	srv := startServer(t, 5)

	w0 := attachWire(srv)
	w0.send(t, protocol.JoinRequest{Type: protocol.MsgJoin, Name: "alice"})
	w0.await(t, protocol.MsgJoinSuccess)

	w1 := attachWire(srv)
	w1.send(t, protocol.JoinRequest{Type: protocol.MsgJoin, Name: "bob"})
	w1.await(t, protocol.MsgJoinSuccess)

	st := w0.await(t, protocol.MsgGameState)
	current := int(st["current_player"].(float64))
	wires := []*wire{w0, w1}

	wires[current].send(t, protocol.FinishTurnRequest{Type: protocol.MsgFinishTurn})

	end := wires[1-current].await(t, protocol.MsgGameEnd)
	scores := end["scores"].([]any)
	if len(scores) != 2 {
		t.Fatalf("game_end scores = %v", scores)
	}
	wires[current].await(t, protocol.MsgGameEnd)

	select {
	case <-srv.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("server did not shut down after the game ended")
	}
}
