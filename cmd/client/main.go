package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"sync"

	"roguedeck/internal/game"
	"roguedeck/internal/protocol"
)

// Interactive terminal client for the game server. Commands are typed on
// stdin while a reader goroutine renders server events as they land.

type client struct {
	conn net.Conn

	mu          sync.Mutex
	playerIndex int
	playerName  string
	state       *protocol.GameState
}

func main() {
	addr := flag.String("addr", "localhost:8888", "game server address")
	name := flag.String("name", "", "player name (prompted when empty)")
	flag.Parse()

	playerName := *name
	stdin := bufio.NewScanner(os.Stdin)
	for playerName == "" {
		fmt.Print("Enter your player name: ")
		if !stdin.Scan() {
			return
		}
		playerName = strings.TrimSpace(stdin.Text())
	}

	conn, err := net.Dial("tcp", *addr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "connecting to %s: %v\n", *addr, err)
		os.Exit(1)
	}
	defer conn.Close()
	fmt.Printf("Connected to %s\n", *addr)

	c := &client{conn: conn, playerIndex: -1}

	done := make(chan struct{})
	go func() {
		defer close(done)
		c.listen()
	}()

	c.send(protocol.JoinRequest{Type: protocol.MsgJoin, Name: playerName})

	printHelp()
	for stdin.Scan() {
		select {
		case <-done:
			fmt.Println("Server closed the connection.")
			return
		default:
		}
		if quit := c.handleCommand(strings.Fields(strings.TrimSpace(stdin.Text()))); quit {
			return
		}
	}
	<-done
}

func (c *client) handleCommand(args []string) bool {
	if len(args) == 0 {
		return false
	}

	switch args[0] {
	case "play":
		if idx, ok := parseIndex(args); ok {
			c.send(protocol.PlayCardRequest{Type: protocol.MsgPlayCard, CardIndex: idx})
		}
	case "buy":
		if idx, ok := parseIndex(args); ok {
			c.send(protocol.BuyCardRequest{Type: protocol.MsgBuyCard, CardIndex: idx})
		}
	case "draw":
		n := 5
		if len(args) > 1 {
			if v, err := strconv.Atoi(args[1]); err == nil {
				n = v
			}
		}
		c.send(protocol.DrawHandRequest{Type: protocol.MsgDrawHand, HandSize: n})
	case "finish":
		c.send(protocol.FinishTurnRequest{Type: protocol.MsgFinishTurn})
	case "status":
		c.send(protocol.GetStatusRequest{Type: protocol.MsgGetStatus})
	case "hand":
		c.showHand()
	case "market":
		c.showMarket()
	case "help":
		printHelp()
	case "quit", "exit":
		fmt.Println("Bye!")
		return true
	default:
		fmt.Printf("Unknown command %q (try 'help')\n", args[0])
	}
	return false
}

func parseIndex(args []string) (int, bool) {
	if len(args) < 2 {
		fmt.Printf("Usage: %s <index>\n", args[0])
		return 0, false
	}
	idx, err := strconv.Atoi(args[1])
	if err != nil {
		fmt.Printf("Not a number: %s\n", args[1])
		return 0, false
	}
	return idx, true
}

func (c *client) send(msg any) {
	payload, err := protocol.Encode(msg)
	if err != nil {
		fmt.Printf("encoding request: %v\n", err)
		return
	}
	if err := protocol.WriteFrame(c.conn, payload); err != nil {
		fmt.Printf("sending request: %v\n", err)
	}
}

func (c *client) listen() {
	fr := protocol.NewFrameReader(c.conn)
	for {
		frame, err := fr.ReadFrame()
		if err != nil {
			return
		}
		c.render(frame)
	}
}

func (c *client) render(frame []byte) {
	var probe struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(frame, &probe); err != nil {
		return
	}

	switch probe.Type {
	case protocol.MsgJoinSuccess:
		var msg protocol.JoinSuccess
		if json.Unmarshal(frame, &msg) == nil {
			c.mu.Lock()
			c.playerIndex = msg.PlayerIndex
			c.playerName = msg.PlayerName
			c.mu.Unlock()
			fmt.Printf("Joined as %s (player %d)\n", msg.PlayerName, msg.PlayerIndex+1)
		}

	case protocol.MsgGameStart:
		var msg protocol.GameStart
		if json.Unmarshal(frame, &msg) == nil {
			fmt.Printf("\n=== GAME STARTED ===\nPlayers: %s\n%s goes first!\n",
				strings.Join(msg.Players, ", "), msg.FirstPlayerName)
		}

	case protocol.MsgGameState:
		var msg protocol.GameState
		if json.Unmarshal(frame, &msg) == nil {
			c.mu.Lock()
			c.state = &msg
			c.mu.Unlock()
			c.displayState(&msg)
		}

	case protocol.MsgCardPlayed:
		var msg protocol.CardPlayed
		if json.Unmarshal(frame, &msg) == nil && msg.PlayerIndex != c.index() {
			fmt.Printf("%s played a card\n", msg.PlayerName)
		}

	case protocol.MsgCardBought:
		var msg protocol.CardBought
		if json.Unmarshal(frame, &msg) == nil && msg.PlayerIndex != c.index() {
			fmt.Printf("%s bought %s\n", msg.PlayerName, msg.CardName)
		}

	case protocol.MsgTurnFinished:
		var msg protocol.TurnFinished
		if json.Unmarshal(frame, &msg) == nil {
			if msg.FinishedPlayer == c.index() {
				fmt.Println("Your turn has ended.")
			} else {
				fmt.Printf("It's now %s's turn!\n", msg.NextPlayerName)
			}
		}

	case protocol.MsgCardsDrawn:
		var msg protocol.CardsDrawn
		if json.Unmarshal(frame, &msg) == nil && msg.PlayerIndex != c.index() {
			fmt.Printf("Opponent drew cards (hand: %d)\n", msg.HandSize)
		}

	case protocol.MsgGameEnd:
		var msg protocol.GameEnd
		if json.Unmarshal(frame, &msg) == nil {
			fmt.Println("\n=== GAME OVER ===")
			for _, sc := range msg.Scores {
				fmt.Printf("  %s: %d WP\n", sc.PlayerName, sc.FinalWP)
			}
			if msg.Winner.PlayerIndex == c.index() {
				fmt.Println("You win!")
			} else {
				fmt.Printf("%s wins!\n", msg.Winner.PlayerName)
			}
		}

	case protocol.MsgError:
		var msg protocol.ErrorMessage
		if json.Unmarshal(frame, &msg) == nil {
			fmt.Printf("Error: %s\n", msg.Message)
		}
	}
}

func (c *client) index() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.playerIndex
}

func (c *client) displayState(st *protocol.GameState) {
	fmt.Println("\n------------------------------------------------------------")
	if st.IsYourTurn {
		fmt.Println(">>> IT'S YOUR TURN <<<")
	} else {
		fmt.Printf("Waiting for %s...\n", st.Opponent.Name)
	}
	fmt.Printf("You (%s): hand %d | draw %d | discard %d | power %d | WP %d\n",
		st.Player.Name, st.Player.HandSize, st.Player.DrawPileSize,
		st.Player.DiscardPileSize, st.Player.TurnPower, st.Player.TotalWP)
	fmt.Printf("Opponent (%s): hand %d | draw %d | discard %d | power %d | WP %d\n",
		st.Opponent.Name, st.Opponent.HandSize, st.Opponent.DrawPileSize,
		st.Opponent.DiscardPileSize, st.Opponent.TurnPower, st.Opponent.TotalWP)
	fmt.Printf("Market: %d cards in showcase, %d in pile\n",
		len(st.Market.AvailableCards), st.Market.MarketDrawPileSize)
	fmt.Println("------------------------------------------------------------")
}

func (c *client) showHand() {
	st := c.snapshot()
	if st == nil {
		fmt.Println("No game state yet, try 'status'")
		return
	}
	if len(st.Player.Hand) == 0 {
		fmt.Println("Your hand is empty.")
		return
	}
	fmt.Println("\n=== YOUR HAND ===")
	printCards(st.Player.Hand)
}

func (c *client) showMarket() {
	st := c.snapshot()
	if st == nil {
		fmt.Println("No game state yet, try 'status'")
		return
	}
	fmt.Println("\n=== MARKET ===")
	printCards(st.Market.AvailableCards)
	fmt.Printf("Market draw pile remaining: %d cards\n", st.Market.MarketDrawPileSize)
}

func printCards(cards []game.CardView) {
	for i, card := range cards {
		fmt.Printf("%d: %s - Cost: %d | Power: %d | WP: %d\n",
			i, card.Name, card.Cost, card.Power, card.WinPoints)
		if card.Ability != "" {
			fmt.Printf("   Ability: %s\n", card.Ability)
		}
	}
}

func (c *client) snapshot() *protocol.GameState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func printHelp() {
	fmt.Println(`
Commands:
  draw [n]    draw cards (default 5)
  hand        show your hand
  market      show the market showcase
  play <i>    play hand card i
  buy <i>     buy showcase card i
  finish      finish your turn (hand must be empty)
  status      request a fresh game state
  help        this text
  quit        leave`)
}
