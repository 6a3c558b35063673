package cards

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/rand"
	"os"

	"roguedeck/internal/logger"
)

// Catalog is the full loaded card set.
type Catalog struct {
	Definitions []Definition
}

// Load reads a card configuration file. The file is either a bare JSON array
// of definitions or an object wrapping that array under a "cards" key.
// Definitions that fail to parse or validate are skipped with a log entry;
// the catalog keeps whatever loaded successfully. The returned catalog is
// always usable, possibly empty: a broken config is not fatal.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return &Catalog{}, fmt.Errorf("reading card config %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes card configuration bytes. See Load for the accepted shapes.
func Parse(data []byte) (*Catalog, error) {
	raw, err := rawDefinitions(data)
	if err != nil {
		return &Catalog{}, err
	}

	cat := &Catalog{}
	for i, entry := range raw {
		var def Definition
		if err := json.Unmarshal(entry, &def); err != nil {
			logger.Warn("skipping malformed card definition", "index", i, "err", err)
			continue
		}
		if err := validate(def); err != nil {
			logger.Warn("skipping invalid card definition", "index", i, "name", def.Name, "err", err)
			continue
		}
		cat.Definitions = append(cat.Definitions, def)
	}

	if len(cat.Definitions) == 0 {
		return cat, fmt.Errorf("no usable card definitions")
	}
	return cat, nil
}

func rawDefinitions(data []byte) ([]json.RawMessage, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("empty card config")
	}

	if trimmed[0] == '[' {
		var arr []json.RawMessage
		if err := json.Unmarshal(trimmed, &arr); err != nil {
			return nil, fmt.Errorf("parsing card array: %w", err)
		}
		return arr, nil
	}

	var wrapper struct {
		Cards []json.RawMessage `json:"cards"`
	}
	if err := json.Unmarshal(trimmed, &wrapper); err != nil {
		return nil, fmt.Errorf("parsing card config: %w", err)
	}
	if wrapper.Cards == nil {
		return nil, fmt.Errorf("card config object has no \"cards\" key")
	}
	return wrapper.Cards, nil
}

func validate(d Definition) error {
	if d.Name == "" {
		return fmt.Errorf("missing name")
	}
	if d.Power < 0 || d.Cost < 0 || d.WinPoints < 0 {
		return fmt.Errorf("negative power, cost or WP")
	}
	return nil
}

// StartingDeck expands every starting definition into physical copies and
// shuffles them with the given source. Each player gets its own expansion.
func (c *Catalog) StartingDeck(rng *rand.Rand) []*Card {
	var deck []*Card
	for _, def := range c.Definitions {
		if !def.IsStart {
			continue
		}
		deck = append(deck, def.Instances()...)
	}
	shuffle(rng, deck)
	return deck
}

// MarketPile expands every non-starting definition into physical copies and
// shuffles them with the given source.
func (c *Catalog) MarketPile(rng *rand.Rand) []*Card {
	var pile []*Card
	for _, def := range c.Definitions {
		if def.IsStart {
			continue
		}
		pile = append(pile, def.Instances()...)
	}
	shuffle(rng, pile)
	return pile
}

func shuffle(rng *rand.Rand, cards []*Card) {
	rng.Shuffle(len(cards), func(i, j int) {
		cards[i], cards[j] = cards[j], cards[i]
	})
}
