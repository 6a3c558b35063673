package protocol

import "roguedeck/internal/game"

// Message type discriminators. Every frame on the wire is a JSON object
// whose "type" field is one of these.
const (
	// client -> server
	MsgJoin       = "join"
	MsgPlayCard   = "play_card"
	MsgBuyCard    = "buy_card"
	MsgFinishTurn = "finish_turn"
	MsgDrawHand   = "draw_hand"
	MsgGetStatus  = "get_status"

	// server -> client
	MsgJoinSuccess  = "join_success"
	MsgGameStart    = "game_start"
	MsgGameState    = "game_state"
	MsgCardPlayed   = "card_played"
	MsgCardBought   = "card_bought"
	MsgTurnFinished = "turn_finished"
	MsgCardsDrawn   = "cards_drawn"
	MsgGameEnd      = "game_end"
	MsgError        = "error"
)

// client -> server

type JoinRequest struct {
	Type string `json:"type"`
	Name string `json:"name"`
}

type PlayCardRequest struct {
	Type      string `json:"type"`
	CardIndex int    `json:"card_index"`
}

type BuyCardRequest struct {
	Type      string `json:"type"`
	CardIndex int    `json:"card_index"`
}

type FinishTurnRequest struct {
	Type string `json:"type"`
}

type DrawHandRequest struct {
	Type     string `json:"type"`
	HandSize int    `json:"hand_size"`
}

type GetStatusRequest struct {
	Type string `json:"type"`
}

// server -> client

type JoinSuccess struct {
	Type        string `json:"type"`
	PlayerIndex int    `json:"player_index"`
	PlayerName  string `json:"player_name"`
}

type GameStart struct {
	Type            string   `json:"type"`
	FirstPlayer     int      `json:"first_player"`
	FirstPlayerName string   `json:"first_player_name"`
	Players         []string `json:"players"`
}

// GameState carries one connection's personalized snapshot.
type GameState struct {
	Type string `json:"type"`
	game.Snapshot
}

type CardPlayed struct {
	Type        string `json:"type"`
	PlayerIndex int    `json:"player_index"`
	PlayerName  string `json:"player_name"`
}

type CardBought struct {
	Type        string `json:"type"`
	PlayerIndex int    `json:"player_index"`
	PlayerName  string `json:"player_name"`
	CardName    string `json:"card_name"`
}

type TurnFinished struct {
	Type           string `json:"type"`
	FinishedPlayer int    `json:"finished_player"`
	NextPlayer     int    `json:"next_player"`
	NextPlayerName string `json:"next_player_name"`
}

type CardsDrawn struct {
	Type        string `json:"type"`
	PlayerIndex int    `json:"player_index"`
	HandSize    int    `json:"hand_size"`
}

type GameEnd struct {
	Type   string             `json:"type"`
	Scores []game.PlayerScore `json:"scores"`
	Winner game.PlayerScore   `json:"winner"`
}

type ErrorMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

func NewGameState(snap game.Snapshot) GameState {
	return GameState{Type: MsgGameState, Snapshot: snap}
}

func NewError(msg string) ErrorMessage {
	return ErrorMessage{Type: MsgError, Message: msg}
}
