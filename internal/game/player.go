package game

import (
	"math/rand"

	"roguedeck/internal/cards"
)

// Player owns three card zones and the per-turn power counter. Cards only
// ever move between the zones; the union of the three stays the set the
// player was created with.
type Player struct {
	Name        string
	Hand        []*cards.Card
	DrawPile    []*cards.Card // front is the next draw
	DiscardPile []*cards.Card
	TurnPower   int
}

// NewPlayer creates a player whose draw pile is the given starting deck.
func NewPlayer(name string, deck []*cards.Card) *Player {
	return &Player{
		Name:     name,
		DrawPile: deck,
	}
}

// PlayCard moves the hand card at idx to the discard pile and adds its power
// to the turn counter.
func (p *Player) PlayCard(idx int) (*cards.Card, error) {
	if idx < 0 || idx >= len(p.Hand) {
		return nil, ErrInvalidCardIndex
	}

	card := p.Hand[idx]
	p.Hand = append(p.Hand[:idx], p.Hand[idx+1:]...)
	p.DiscardPile = append(p.DiscardPile, card)
	p.TurnPower += card.Power

	return card, nil
}

// Gain puts a card the player acquired into the discard pile.
func (p *Player) Gain(card *cards.Card) {
	p.DiscardPile = append(p.DiscardPile, card)
}

// Draw moves one card from the draw pile to the hand. When the draw pile is
// empty the discard pile is reshuffled into it first. Returns false when
// both piles are empty.
func (p *Player) Draw(rng *rand.Rand) bool {
	if len(p.DrawPile) == 0 {
		if len(p.DiscardPile) == 0 {
			return false
		}
		p.DrawPile = p.DiscardPile
		p.DiscardPile = nil
		rng.Shuffle(len(p.DrawPile), func(i, j int) {
			p.DrawPile[i], p.DrawPile[j] = p.DrawPile[j], p.DrawPile[i]
		})
	}

	card := p.DrawPile[0]
	p.DrawPile = p.DrawPile[1:]
	p.Hand = append(p.Hand, card)
	return true
}

// DrawHand performs up to n draws, stopping early when both piles run dry.
// There is no cap on hand size. Returns the number of cards drawn.
func (p *Player) DrawHand(rng *rand.Rand, n int) int {
	drawn := 0
	for i := 0; i < n; i++ {
		if !p.Draw(rng) {
			break
		}
		drawn++
	}
	return drawn
}

// EndTurn resets the per-turn state.
func (p *Player) EndTurn() {
	p.TurnPower = 0
}

// TotalWinPoints sums win points across all three zones.
func (p *Player) TotalWinPoints() int {
	total := 0
	for _, zone := range [][]*cards.Card{p.Hand, p.DrawPile, p.DiscardPile} {
		for _, c := range zone {
			total += c.WinPoints
		}
	}
	return total
}
