package server

import (
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"roguedeck/internal/game"
	"roguedeck/internal/logger"
	"roguedeck/internal/protocol"
)

// maxConnections is the session capacity. A third connection attempt is
// refused outright with an error message; the two live slots are never
// disturbed.
const maxConnections = 2

// Server is the connection manager: it accepts up to two transport
// connections, runs one reader per connection, and funnels every request
// through a single serialized dispatch path. An action is atomic end to
// end (validate, mutate, broadcast) with no other action interleaved.
type Server struct {
	session     *game.Session
	readTimeout time.Duration
	grace       time.Duration

	mu       sync.Mutex // serializes dispatch, guards conns and listener
	conns    map[*client]struct{}
	listener net.Listener

	done     chan struct{}
	stopOnce sync.Once
}

func New(session *game.Session, readTimeout, shutdownGrace time.Duration) *Server {
	return &Server{
		session:     session,
		readTimeout: readTimeout,
		grace:       shutdownGrace,
		conns:       make(map[*client]struct{}),
		done:        make(chan struct{}),
	}
}

// ListenAndServe binds the game listener and accepts connections until
// shutdown. A bind failure is returned to the caller; it is the only
// startup-fatal condition.
func (s *Server) ListenAndServe(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("binding game listener on %s: %w", addr, err)
	}

	s.mu.Lock()
	s.listener = ln
	s.mu.Unlock()

	logger.Info("game server listening", "addr", ln.Addr().String())

	for {
		conn, err := ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			return fmt.Errorf("accepting connection: %w", err)
		}
		s.Attach(newTCPConn(conn))
	}
}

// Attach registers a connection from any transport. Beyond capacity, or
// after shutdown began, the connection is told the game is full and closed.
func (s *Server) Attach(conn MessageConn) {
	s.mu.Lock()
	if len(s.conns) >= maxConnections || s.stopping() {
		s.mu.Unlock()
		refuse(conn)
		return
	}

	c := newClient(s, conn)
	s.conns[c] = struct{}{}
	ConnectionsActive.Inc()
	s.mu.Unlock()

	logger.Info("player connected", "addr", conn.RemoteAddr())

	go c.writePump()
	go c.readPump()
}

func refuse(conn MessageConn) {
	logger.Warn("refusing connection, game is full", "addr", conn.RemoteAddr())
	if payload, err := protocol.Encode(protocol.NewError("game is full")); err == nil {
		_ = conn.WriteMessage(payload)
	}
	_ = conn.Close()
}

// Done is closed once the server has begun shutting down.
func (s *Server) Done() <-chan struct{} {
	return s.done
}

// Shutdown closes the listener and every connection. Safe to call more than
// once.
func (s *Server) Shutdown() {
	s.stopOnce.Do(func() {
		close(s.done)

		s.mu.Lock()
		if s.listener != nil {
			_ = s.listener.Close()
		}
		conns := make([]*client, 0, len(s.conns))
		for c := range s.conns {
			conns = append(conns, c)
		}
		s.mu.Unlock()

		for _, c := range conns {
			c.shutdownSend()
		}
		logger.Info("game server stopped")
	})
}

func (s *Server) stopping() bool {
	select {
	case <-s.done:
		return true
	default:
		return false
	}
}

// dispatch decodes one frame and applies it. Malformed frames are logged
// and dropped without costing the connection. Everything past decoding runs
// under the server mutex, so broadcasts from different actions never
// interleave.
func (s *Server) dispatch(c *client, frame []byte) {
	req, err := protocol.DecodeRequest(frame)
	if err != nil {
		logger.Warn("dropping bad frame", "addr", c.conn.RemoteAddr(), "err", err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	switch req := req.(type) {
	case *protocol.JoinRequest:
		s.handleJoin(c, req.Name)
	case *protocol.PlayCardRequest:
		s.handlePlayCard(c, req.CardIndex)
	case *protocol.BuyCardRequest:
		s.handleBuyCard(c, req.CardIndex)
	case *protocol.FinishTurnRequest:
		s.handleFinishTurn(c)
	case *protocol.DrawHandRequest:
		s.handleDrawHand(c, req.HandSize)
	case *protocol.GetStatusRequest:
		s.sendTo(c, protocol.NewGameState(s.session.Snapshot(c.slot)))
	}
}

func (s *Server) handleJoin(c *client, name string) {
	if c.slot >= 0 {
		s.sendError(c, "already joined")
		return
	}

	res, err := s.session.Join(name)
	if err != nil {
		s.reject(c, protocol.MsgJoin, err)
		return
	}

	c.slot = res.Slot
	ActionsTotal.WithLabelValues(protocol.MsgJoin).Inc()

	s.sendTo(c, protocol.JoinSuccess{
		Type:        protocol.MsgJoinSuccess,
		PlayerIndex: res.Slot,
		PlayerName:  res.Name,
	})
	logger.Info("player joined", "name", res.Name, "slot", res.Slot)

	if res.Started {
		s.broadcast(protocol.GameStart{
			Type:            protocol.MsgGameStart,
			FirstPlayer:     res.First,
			FirstPlayerName: res.Names[res.First],
			Players:         res.Names[:],
		})
		s.broadcastState()
		logger.Info("game started", "first_player", res.Names[res.First])
	}
}

func (s *Server) handlePlayCard(c *client, idx int) {
	res, err := s.session.PlayCard(c.slot, idx)
	if err != nil {
		s.reject(c, protocol.MsgPlayCard, err)
		return
	}

	ActionsTotal.WithLabelValues(protocol.MsgPlayCard).Inc()
	s.broadcast(protocol.CardPlayed{
		Type:        protocol.MsgCardPlayed,
		PlayerIndex: res.Slot,
		PlayerName:  res.Name,
	})
	s.broadcastState()
}

func (s *Server) handleBuyCard(c *client, idx int) {
	res, err := s.session.BuyCard(c.slot, idx)
	if err != nil {
		s.reject(c, protocol.MsgBuyCard, err)
		return
	}

	ActionsTotal.WithLabelValues(protocol.MsgBuyCard).Inc()
	s.broadcast(protocol.CardBought{
		Type:        protocol.MsgCardBought,
		PlayerIndex: res.Slot,
		PlayerName:  res.Name,
		CardName:    res.CardName,
	})
	s.broadcastState()
}

func (s *Server) handleFinishTurn(c *client) {
	res, err := s.session.FinishTurn(c.slot)
	if err != nil {
		s.reject(c, protocol.MsgFinishTurn, err)
		return
	}

	ActionsTotal.WithLabelValues(protocol.MsgFinishTurn).Inc()

	if res.Ended {
		s.broadcast(protocol.GameEnd{
			Type:   protocol.MsgGameEnd,
			Scores: res.Scores,
			Winner: res.Winner,
		})
		logger.Info("game over", "winner", res.Winner.PlayerName, "wp", res.Winner.FinalWP)
		time.AfterFunc(s.grace, s.Shutdown)
		return
	}

	s.broadcast(protocol.TurnFinished{
		Type:           protocol.MsgTurnFinished,
		FinishedPlayer: res.Finished,
		NextPlayer:     res.Next,
		NextPlayerName: res.NextName,
	})
	s.broadcastState()
}

func (s *Server) handleDrawHand(c *client, n int) {
	res, err := s.session.DrawHand(c.slot, n)
	if err != nil {
		s.reject(c, protocol.MsgDrawHand, err)
		return
	}

	ActionsTotal.WithLabelValues(protocol.MsgDrawHand).Inc()
	s.broadcast(protocol.CardsDrawn{
		Type:        protocol.MsgCardsDrawn,
		PlayerIndex: res.Slot,
		HandSize:    res.HandSize,
	})
	s.broadcastState()
}

// reject answers a validation failure: error to the sender only, no
// mutation happened, nothing is broadcast.
func (s *Server) reject(c *client, action string, err error) {
	ActionsRejected.WithLabelValues(action).Inc()
	s.sendError(c, err.Error())
}

func (s *Server) sendError(c *client, msg string) {
	s.sendTo(c, protocol.NewError(msg))
}

func (s *Server) sendTo(c *client, msg any) {
	payload, err := protocol.Encode(msg)
	if err != nil {
		logger.Error("encoding message", "err", err)
		return
	}
	c.trySend(payload)
}

// broadcast sends one message to every attached connection.
func (s *Server) broadcast(msg any) {
	payload, err := protocol.Encode(msg)
	if err != nil {
		logger.Error("encoding broadcast", "err", err)
		return
	}
	BroadcastsTotal.Inc()
	for c := range s.conns {
		c.trySend(payload)
	}
}

// broadcastState pushes each connection its own personalized snapshot. The
// preceding semantic event is a hint; this snapshot is authoritative.
func (s *Server) broadcastState() {
	for c := range s.conns {
		s.sendTo(c, protocol.NewGameState(s.session.Snapshot(c.slot)))
	}
}

// removeClient drops a connection from the broadcast set. The game is not
// paused and the slot is not reusable; a mid-game disconnect is an
// unrecovered failure.
func (s *Server) removeClient(c *client) {
	s.mu.Lock()
	if _, ok := s.conns[c]; ok {
		delete(s.conns, c)
		ConnectionsActive.Dec()
		logger.Info("player disconnected", "addr", c.conn.RemoteAddr(), "slot", c.slot)
	}
	s.mu.Unlock()

	c.shutdownSend()
}
