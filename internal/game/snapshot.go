package game

import "roguedeck/internal/cards"

// CardView is the detailed card shape shown to a client, for its own hand
// and for the market showcase.
type CardView struct {
	Name      string `json:"name"`
	Power     int    `json:"power"`
	Cost      int    `json:"cost"`
	WinPoints int    `json:"wp"`
	Ability   string `json:"ability"`
}

// OwnView is the full picture a player gets of itself.
type OwnView struct {
	Name            string     `json:"name"`
	Hand            []CardView `json:"hand"`
	HandSize        int        `json:"hand_size"`
	DrawPileSize    int        `json:"draw_pile_size"`
	DiscardPileSize int        `json:"discard_pile_size"`
	TurnPower       int        `json:"turn_power"`
	TotalWP         int        `json:"total_wp"`
}

// OpponentView is aggregate-only: hand contents and draw-pile composition
// are never disclosed.
type OpponentView struct {
	Name            string `json:"name"`
	HandSize        int    `json:"hand_size"`
	DrawPileSize    int    `json:"draw_pile_size"`
	DiscardPileSize int    `json:"discard_pile_size"`
	TurnPower       int    `json:"turn_power"`
	TotalWP         int    `json:"total_wp"`
}

// MarketView is shared by both players.
type MarketView struct {
	AvailableCards     []CardView `json:"available_cards"`
	MarketDrawPileSize int        `json:"market_draw_pile_size"`
}

// Snapshot is one player's personalized view of the session.
type Snapshot struct {
	CurrentPlayer int          `json:"current_player"`
	IsYourTurn    bool         `json:"is_your_turn"`
	Player        OwnView      `json:"player"`
	Opponent      OpponentView `json:"opponent"`
	Market        MarketView   `json:"market"`
}

func cardViews(zone []*cards.Card) []CardView {
	out := make([]CardView, 0, len(zone))
	for _, c := range zone {
		out = append(out, CardView{
			Name:      c.Name,
			Power:     c.Power,
			Cost:      c.Cost,
			WinPoints: c.WinPoints,
			Ability:   c.Ability,
		})
	}
	return out
}
