package game

import (
	"math/rand"
	"testing"

	"roguedeck/internal/cards"
)

func testCatalog(marketCopies int) *cards.Catalog {
	return &cards.Catalog{Definitions: []cards.Definition{
		{CardIndex: 0, Name: "Apprentice", Power: 1, Count: 5, IsStart: true},
		{CardIndex: 1, Name: "Mercenary", Power: 3, Cost: 2, WinPoints: 1, Count: marketCopies},
	}}
}

func startedSession(t *testing.T, marketCopies int) *Session {
	t.Helper()
	s := NewSession(testCatalog(marketCopies), rand.New(rand.NewSource(3)))

	if _, err := s.Join("alice"); err != nil {
		t.Fatalf("first join: %v", err)
	}
	res, err := s.Join("bob")
	if err != nil {
		t.Fatalf("second join: %v", err)
	}
	if !res.Started {
		t.Fatal("second join must start the game")
	}
	return s
}

func TestJoinLifecycle(t *testing.T) {
	s := NewSession(testCatalog(12), rand.New(rand.NewSource(1)))

	if s.Phase() != PhaseNotStarted {
		t.Fatalf("phase = %s before joins", s.Phase())
	}

	res, err := s.Join("alice")
	if err != nil {
		t.Fatalf("Join: %v", err)
	}
	if res.Slot != 0 || res.Started {
		t.Fatalf("first join = %+v, want slot 0, not started", res)
	}

	// no actions before the game starts
	if _, err := s.PlayCard(0, 0); err != ErrGameNotStarted {
		t.Errorf("PlayCard before start err = %v, want ErrGameNotStarted", err)
	}

	res, err = s.Join("bob")
	if err != nil {
		t.Fatalf("Join: %v", err)
	}
	if res.Slot != 1 || !res.Started {
		t.Fatalf("second join = %+v, want slot 1, started", res)
	}
	if res.First != 0 && res.First != 1 {
		t.Fatalf("first mover = %d, want 0 or 1", res.First)
	}
	if s.Phase() != PhaseInProgress {
		t.Fatalf("phase = %s after both joins", s.Phase())
	}

	if _, err := s.Join("carol"); err != ErrGameFull {
		t.Errorf("third join err = %v, want ErrGameFull", err)
	}
}

func TestJoinDefaultNamesBySlot(t *testing.T) {
	s := NewSession(testCatalog(12), rand.New(rand.NewSource(1)))

	res, err := s.Join("")
	if err != nil {
		t.Fatalf("Join: %v", err)
	}
	if res.Name != "Player1" {
		t.Fatalf("first default name = %q, want %q", res.Name, "Player1")
	}

	res, err = s.Join("")
	if err != nil {
		t.Fatalf("Join: %v", err)
	}
	if res.Name != "Player2" {
		t.Fatalf("second default name = %q, want %q", res.Name, "Player2")
	}
	if names := s.Players(); names[0] != "Player1" || names[1] != "Player2" {
		t.Fatalf("registered names = %v", names)
	}
}

func TestWrongTurnRejected(t *testing.T) {
	s := startedSession(t, 12)
	idle := 1 - s.CurrentPlayer()

	if _, err := s.PlayCard(idle, 0); err != ErrNotYourTurn {
		t.Errorf("PlayCard err = %v, want ErrNotYourTurn", err)
	}
	if _, err := s.BuyCard(idle, 0); err != ErrNotYourTurn {
		t.Errorf("BuyCard err = %v, want ErrNotYourTurn", err)
	}
	if _, err := s.FinishTurn(idle); err != ErrNotYourTurn {
		t.Errorf("FinishTurn err = %v, want ErrNotYourTurn", err)
	}
	if _, err := s.DrawHand(idle, 5); err != ErrNotYourTurn {
		t.Errorf("DrawHand err = %v, want ErrNotYourTurn", err)
	}
}

func TestFinishTurnRequiresEmptyHand(t *testing.T) {
	s := startedSession(t, 12)
	cur := s.CurrentPlayer()

	for _, draws := range []int{1, 3} {
		if _, err := s.DrawHand(cur, draws); err != nil {
			t.Fatalf("DrawHand: %v", err)
		}
		if _, err := s.FinishTurn(cur); err != ErrHandNotEmpty {
			t.Fatalf("FinishTurn with %d-card hand err = %v, want ErrHandNotEmpty", draws, err)
		}
		if s.CurrentPlayer() != cur {
			t.Fatal("failed finish must not advance the turn")
		}
		// empty the hand again
		for s.Snapshot(cur).Player.HandSize > 0 {
			if _, err := s.PlayCard(cur, 0); err != nil {
				t.Fatalf("PlayCard: %v", err)
			}
		}
	}
}

func TestPlayingNeverEndsTurn(t *testing.T) {
	s := startedSession(t, 12)
	cur := s.CurrentPlayer()

	s.DrawHand(cur, 3)
	for i := 0; i < 3; i++ {
		if _, err := s.PlayCard(cur, 0); err != nil {
			t.Fatalf("PlayCard: %v", err)
		}
		if s.CurrentPlayer() != cur {
			t.Fatal("playing a card must not hand over the turn")
		}
	}
}

func TestBuyCardSpendsPower(t *testing.T) {
	s := startedSession(t, 12)
	cur := s.CurrentPlayer()

	s.DrawHand(cur, 5)
	for s.Snapshot(cur).Player.HandSize > 0 {
		s.PlayCard(cur, 0)
	}

	snap := s.Snapshot(cur)
	power := snap.Player.TurnPower
	cost := snap.Market.AvailableCards[0].Cost
	if power < cost {
		t.Fatalf("fixture broken: power %d below cost %d", power, cost)
	}

	res, err := s.BuyCard(cur, 0)
	if err != nil {
		t.Fatalf("BuyCard: %v", err)
	}
	if res.CardName != "Mercenary" {
		t.Errorf("bought %s, want Mercenary", res.CardName)
	}

	snap = s.Snapshot(cur)
	if snap.Player.TurnPower != power-cost {
		t.Errorf("turn power = %d, want %d", snap.Player.TurnPower, power-cost)
	}
	if len(snap.Market.AvailableCards) != ShowcaseSize-1 {
		t.Errorf("showcase = %d slots, want %d until end of turn", len(snap.Market.AvailableCards), ShowcaseSize-1)
	}
}

func TestBuyCardInsufficientPower(t *testing.T) {
	s := startedSession(t, 12)
	cur := s.CurrentPlayer()

	// hand empty, power 0, every market card costs 2
	if _, err := s.BuyCard(cur, 0); err != ErrNotEnoughPower {
		t.Fatalf("BuyCard err = %v, want ErrNotEnoughPower", err)
	}

	snap := s.Snapshot(cur)
	if snap.Player.TurnPower != 0 {
		t.Errorf("turn power changed to %d on failed buy", snap.Player.TurnPower)
	}
	if len(snap.Market.AvailableCards) != ShowcaseSize {
		t.Errorf("showcase changed on failed buy: %d slots", len(snap.Market.AvailableCards))
	}
}

func TestTurnAlternation(t *testing.T) {
	s := startedSession(t, 12) // pile 12 - 5 showcase = 7 spare, no buys so it never drains
	prev := s.CurrentPlayer()

	for i := 0; i < 6; i++ {
		res, err := s.FinishTurn(prev)
		if err != nil {
			t.Fatalf("FinishTurn %d: %v", i, err)
		}
		if res.Ended {
			t.Fatalf("game ended unexpectedly on turn %d", i)
		}
		if res.Next != 1-prev {
			t.Fatalf("turn %d: next = %d, want %d", i, res.Next, 1-prev)
		}
		prev = res.Next
	}
}

func TestGameEndsOnExhaustion(t *testing.T) {
	// 5 market copies all land in the showcase; the pile starts empty, so
	// the first finished turn replenishes nothing and ends the game.
	s := startedSession(t, 5)
	cur := s.CurrentPlayer()

	res, err := s.FinishTurn(cur)
	if err != nil {
		t.Fatalf("FinishTurn: %v", err)
	}
	if !res.Ended {
		t.Fatal("expected the game to end on an exhausted market")
	}
	if s.Phase() != PhaseEnded {
		t.Fatalf("phase = %s, want %s", s.Phase(), PhaseEnded)
	}
	if len(res.Scores) != 2 {
		t.Fatalf("scores = %v, want both players", res.Scores)
	}

	// equal totals: the tie goes to slot 0
	if res.Scores[0].FinalWP != res.Scores[1].FinalWP {
		t.Fatalf("fixture should tie, got %+v", res.Scores)
	}
	if res.Winner.PlayerIndex != 0 {
		t.Errorf("tie winner = %d, want slot 0", res.Winner.PlayerIndex)
	}

	// terminal state accepts nothing
	if _, err := s.FinishTurn(res.Winner.PlayerIndex); err != ErrGameOver {
		t.Errorf("action after end err = %v, want ErrGameOver", err)
	}
	if _, err := s.Join("late"); err != ErrGameOver {
		t.Errorf("join after end err = %v, want ErrGameOver", err)
	}
}

func TestSnapshotHidesOpponentHand(t *testing.T) {
	s := startedSession(t, 12)
	cur := s.CurrentPlayer()
	s.DrawHand(cur, 5)

	own := s.Snapshot(cur)
	if len(own.Player.Hand) != 5 {
		t.Fatalf("own hand detail = %d cards, want 5", len(own.Player.Hand))
	}

	theirs := s.Snapshot(1 - cur)
	if theirs.Opponent.HandSize != 5 {
		t.Errorf("opponent hand size = %d, want 5", theirs.Opponent.HandSize)
	}
	if theirs.IsYourTurn {
		t.Error("idle player sees is_your_turn = true")
	}
	// the snapshot type carries no opponent hand field at all; check the
	// shared market is identical for both
	if len(own.Market.AvailableCards) != len(theirs.Market.AvailableCards) {
		t.Error("market view differs between players")
	}
}

// Full deterministic playthrough: both players draw, play everything, buy
// when they can afford it, and finish, until the market pile drains.
func TestFullGameToCompletion(t *testing.T) {
	s := startedSession(t, 8)

	for turn := 0; turn < 200; turn++ {
		cur := s.CurrentPlayer()

		if _, err := s.DrawHand(cur, 5); err != nil {
			t.Fatalf("DrawHand: %v", err)
		}
		for s.Snapshot(cur).Player.HandSize > 0 {
			if _, err := s.PlayCard(cur, 0); err != nil {
				t.Fatalf("PlayCard: %v", err)
			}
		}
		for {
			snap := s.Snapshot(cur)
			if len(snap.Market.AvailableCards) == 0 ||
				snap.Market.AvailableCards[0].Cost > snap.Player.TurnPower {
				break
			}
			if _, err := s.BuyCard(cur, 0); err != nil {
				t.Fatalf("BuyCard: %v", err)
			}
		}

		res, err := s.FinishTurn(cur)
		if err != nil {
			t.Fatalf("FinishTurn: %v", err)
		}
		if res.Ended {
			// only purchased Mercenaries (1 WP each) can score; cards
			// stranded in the showcase count for nobody
			total := 0
			for _, sc := range res.Scores {
				total += sc.FinalWP
				if sc.FinalWP > res.Winner.FinalWP {
					t.Errorf("winner %+v outscored by %+v", res.Winner, sc)
				}
			}
			if total == 0 || total > 8 {
				t.Errorf("combined WP = %d, want 1..8", total)
			}
			return
		}
	}
	t.Fatal("game did not end within 200 turns")
}
