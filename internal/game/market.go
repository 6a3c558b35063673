package game

import "roguedeck/internal/cards"

// ShowcaseSize is the number of purchasable slots the market tries to keep
// filled.
const ShowcaseSize = 5

// Market owns the shared draw pile and the showcase window. Purchases leave
// holes that are only refilled at end of turn by Replenish, so the showcase
// can shrink below five slots mid-turn.
type Market struct {
	DrawPile []*cards.Card // front is the next card dealt
	Showcase []*cards.Card
	pending  map[int]struct{} // showcase slots vacated this turn
}

// NewMarket deals the initial showcase from an already-shuffled pile.
func NewMarket(pile []*cards.Card) *Market {
	m := &Market{
		DrawPile: pile,
		pending:  make(map[int]struct{}),
	}
	for len(m.Showcase) < ShowcaseSize && len(m.DrawPile) > 0 {
		m.Showcase = append(m.Showcase, m.DrawPile[0])
		m.DrawPile = m.DrawPile[1:]
	}
	return m
}

// Buy removes the showcase card at idx if power covers its cost, and marks
// the slot for end-of-turn replacement. The market itself is not refilled
// here.
func (m *Market) Buy(idx, power int) (*cards.Card, error) {
	if idx < 0 || idx >= len(m.Showcase) {
		return nil, ErrInvalidCardIndex
	}

	card := m.Showcase[idx]
	if card.Cost > power {
		return nil, ErrNotEnoughPower
	}

	m.Showcase = append(m.Showcase[:idx], m.Showcase[idx+1:]...)
	m.pending[idx] = struct{}{}

	return card, nil
}

// Replenish refills the slots vacated this turn, highest index first, so
// each replacement lands at the position its card was bought from. When the
// pile runs out, whatever remains is appended at the end and the showcase
// stays short for good. The pending set is cleared either way. Returns the
// number of cards dealt.
func (m *Market) Replenish() int {
	dealt := 0

	for _, idx := range m.pendingDescending() {
		if len(m.DrawPile) == 0 {
			break
		}
		if idx > len(m.Showcase) {
			continue
		}
		card := m.DrawPile[0]
		m.DrawPile = m.DrawPile[1:]
		m.Showcase = append(m.Showcase[:idx], append([]*cards.Card{card}, m.Showcase[idx:]...)...)
		dealt++
	}

	for len(m.Showcase) < ShowcaseSize && len(m.DrawPile) > 0 {
		m.Showcase = append(m.Showcase, m.DrawPile[0])
		m.DrawPile = m.DrawPile[1:]
		dealt++
	}

	m.pending = make(map[int]struct{})
	return dealt
}

// Exhausted reports whether the draw pile is empty. This is the sole
// game-termination trigger; leftover showcase cards do not matter.
func (m *Market) Exhausted() bool {
	return len(m.DrawPile) == 0
}

// PendingSlots returns the showcase slots awaiting replacement, in no
// particular order.
func (m *Market) PendingSlots() []int {
	out := make([]int, 0, len(m.pending))
	for idx := range m.pending {
		out = append(out, idx)
	}
	return out
}

func (m *Market) pendingDescending() []int {
	out := m.PendingSlots()
	// insertion sort, descending; the set holds at most five entries
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j] > out[j-1]; j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}
