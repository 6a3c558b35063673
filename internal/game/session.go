package game

import (
	"fmt"
	"math/rand"
	"sync"

	"github.com/google/uuid"

	"roguedeck/internal/cards"
)

type Phase string

const (
	PhaseNotStarted Phase = "not_started"
	PhaseInProgress Phase = "in_progress"
	PhaseEnded      Phase = "ended"
)

// Session is the shared game state: two players, one market, the turn
// pointer and the lifecycle phase. Every mutation goes through one of its
// methods, all of which hold the session lock end to end; networking code
// never touches players or the market directly.
type Session struct {
	mu sync.Mutex

	ID      string
	rng     *rand.Rand
	catalog *cards.Catalog

	players [2]*Player
	joined  int
	market  *Market
	current int
	phase   Phase
}

// NewSession builds a session over the loaded catalog. The market pile is
// dealt immediately; players appear as they join. The rand source is the
// only shuffle source the session ever uses.
func NewSession(catalog *cards.Catalog, rng *rand.Rand) *Session {
	return &Session{
		ID:      uuid.NewString(),
		rng:     rng,
		catalog: catalog,
		market:  NewMarket(catalog.MarketPile(rng)),
		phase:   PhaseNotStarted,
	}
}

// JoinResult reports a registered player and, on the second join, the game
// start.
type JoinResult struct {
	Slot    int
	Name    string
	Started bool
	First   int
	Names   [2]string
}

// Join registers a player into the next free slot. An empty name gets a
// default numbered by the assigned slot. The second join starts the game
// with a randomly chosen first mover.
func (s *Session) Join(name string) (JoinResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase == PhaseEnded {
		return JoinResult{}, ErrGameOver
	}
	if s.joined >= 2 {
		return JoinResult{}, ErrGameFull
	}

	slot := s.joined
	if name == "" {
		name = fmt.Sprintf("Player%d", slot+1)
	}
	s.players[slot] = NewPlayer(name, s.catalog.StartingDeck(s.rng))
	s.joined++

	res := JoinResult{Slot: slot, Name: name}
	if s.joined == 2 {
		s.current = s.rng.Intn(2)
		s.phase = PhaseInProgress
		res.Started = true
		res.First = s.current
		res.Names = [2]string{s.players[0].Name, s.players[1].Name}
	}
	return res, nil
}

// ActionResult identifies the acting player for event broadcasts.
type ActionResult struct {
	Slot int
	Name string
}

// PlayCard moves a hand card to the discard pile and banks its power.
// Playing a card never ends the turn.
func (s *Session) PlayCard(slot, idx int) (ActionResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.turnOf(slot); err != nil {
		return ActionResult{}, err
	}
	if _, err := s.players[slot].PlayCard(idx); err != nil {
		return ActionResult{}, err
	}
	return ActionResult{Slot: slot, Name: s.players[slot].Name}, nil
}

// BuyResult reports a completed purchase.
type BuyResult struct {
	Slot     int
	Name     string
	CardName string
}

// BuyCard spends turn power on a showcase card, which goes to the buyer's
// discard pile. The vacated slot is refilled only at end of turn, so several
// purchases per turn are fine as long as power holds out.
func (s *Session) BuyCard(slot, idx int) (BuyResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.turnOf(slot); err != nil {
		return BuyResult{}, err
	}

	player := s.players[slot]
	card, err := s.market.Buy(idx, player.TurnPower)
	if err != nil {
		return BuyResult{}, err
	}

	player.TurnPower -= card.Cost
	player.Gain(card)

	return BuyResult{Slot: slot, Name: player.Name, CardName: card.Name}, nil
}

// PlayerScore is one player's final tally.
type PlayerScore struct {
	PlayerIndex int    `json:"player_index"`
	PlayerName  string `json:"player_name"`
	FinalWP     int    `json:"final_wp"`
}

// FinishResult reports either a turn handover or, when the market exhausted
// during replenishment, the end of the game.
type FinishResult struct {
	Finished int
	Ended    bool

	// turn handover
	Next     int
	NextName string

	// game end
	Scores []PlayerScore
	Winner PlayerScore
}

// FinishTurn closes the current player's turn. The hand must be empty.
// Replenishes the market, resets turn power, and either hands the turn to
// the other player or ends the game if the market pile just ran dry.
func (s *Session) FinishTurn(slot int) (FinishResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.turnOf(slot); err != nil {
		return FinishResult{}, err
	}

	player := s.players[slot]
	if len(player.Hand) > 0 {
		return FinishResult{}, ErrHandNotEmpty
	}

	s.market.Replenish()
	player.EndTurn()

	if s.market.Exhausted() {
		s.phase = PhaseEnded
		scores := s.finalScores()
		return FinishResult{
			Finished: slot,
			Ended:    true,
			Scores:   scores,
			Winner:   winnerOf(scores),
		}, nil
	}

	s.current = 1 - s.current
	return FinishResult{
		Finished: slot,
		Next:     s.current,
		NextName: s.players[s.current].Name,
	}, nil
}

// DrawResult reports the hand size after a draw.
type DrawResult struct {
	Slot     int
	Name     string
	HandSize int
}

// DrawHand performs up to n draws for the acting player. Running out of
// cards is not an error; the hand just ends up short.
func (s *Session) DrawHand(slot, n int) (DrawResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.turnOf(slot); err != nil {
		return DrawResult{}, err
	}

	player := s.players[slot]
	player.DrawHand(s.rng, n)

	return DrawResult{Slot: slot, Name: player.Name, HandSize: len(player.Hand)}, nil
}

// Snapshot builds the personalized view for one slot: own hand in full,
// opponent aggregate-only, market shared.
func (s *Session) Snapshot(slot int) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		CurrentPlayer: s.current,
		IsYourTurn:    slot == s.current && s.phase == PhaseInProgress,
		Market: MarketView{
			AvailableCards:     cardViews(s.market.Showcase),
			MarketDrawPileSize: len(s.market.DrawPile),
		},
	}

	if slot >= 0 && slot < s.joined {
		p := s.players[slot]
		snap.Player = OwnView{
			Name:            p.Name,
			Hand:            cardViews(p.Hand),
			HandSize:        len(p.Hand),
			DrawPileSize:    len(p.DrawPile),
			DiscardPileSize: len(p.DiscardPile),
			TurnPower:       p.TurnPower,
			TotalWP:         p.TotalWinPoints(),
		}
	}

	if other := 1 - slot; other >= 0 && other < s.joined {
		o := s.players[other]
		snap.Opponent = OpponentView{
			Name:            o.Name,
			HandSize:        len(o.Hand),
			DrawPileSize:    len(o.DrawPile),
			DiscardPileSize: len(o.DiscardPile),
			TurnPower:       o.TurnPower,
			TotalWP:         o.TotalWinPoints(),
		}
	} else {
		snap.Opponent = OpponentView{Name: "Waiting..."}
	}

	return snap
}

// Phase returns the lifecycle phase.
func (s *Session) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// Players returns the joined player names in slot order.
func (s *Session) Players() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	names := make([]string, 0, s.joined)
	for i := 0; i < s.joined; i++ {
		names = append(names, s.players[i].Name)
	}
	return names
}

// CurrentPlayer returns the slot whose turn it is.
func (s *Session) CurrentPlayer() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

func (s *Session) turnOf(slot int) error {
	switch s.phase {
	case PhaseNotStarted:
		return ErrGameNotStarted
	case PhaseEnded:
		return ErrGameOver
	}
	if slot != s.current {
		return ErrNotYourTurn
	}
	return nil
}

func (s *Session) finalScores() []PlayerScore {
	scores := make([]PlayerScore, 0, s.joined)
	for i := 0; i < s.joined; i++ {
		scores = append(scores, PlayerScore{
			PlayerIndex: i,
			PlayerName:  s.players[i].Name,
			FinalWP:     s.players[i].TotalWinPoints(),
		})
	}
	return scores
}

// winnerOf picks the highest total; on a tie the lower slot wins.
func winnerOf(scores []PlayerScore) PlayerScore {
	best := scores[0]
	for _, sc := range scores[1:] {
		if sc.FinalWP > best.FinalWP {
			best = sc
		}
	}
	return best
}
