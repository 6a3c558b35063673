package cards

import "github.com/google/uuid"

// Definition is one entry in the card configuration file. The same definition
// can yield several physical copies (Count).
//
// Config files in the wild spell the ability field both "ability" and
// "Ability"; encoding/json matches keys case-insensitively, so one field
// covers both.
type Definition struct {
	CardIndex   int    `json:"card_index"`
	Name        string `json:"name"`
	Power       int    `json:"power"`
	Cost        int    `json:"cost"`
	WinPoints   int    `json:"WP"`
	Count       int    `json:"count"`
	CardType    string `json:"card_type"`
	IsLegendary bool   `json:"isLegendary"`
	IsStart     bool   `json:"isStart"`
	Ability     string `json:"ability"`
}

// Card is a single physical copy of a definition. Copies of the same
// definition are distinct instances; ID tells them apart. A Card is never
// mutated after creation, it only moves between zones.
type Card struct {
	ID          string `json:"-"`
	Index       int    `json:"card_index"`
	Name        string `json:"name"`
	Power       int    `json:"power"`
	Cost        int    `json:"cost"`
	WinPoints   int    `json:"wp"`
	CopiesInSet int    `json:"-"`
	Type        string `json:"card_type,omitempty"`
	Legendary   bool   `json:"-"`
	Starting    bool   `json:"-"`
	Ability     string `json:"ability"`
}

// Instances expands the definition into its physical copies.
func (d Definition) Instances() []*Card {
	count := d.Count
	if count < 1 {
		count = 1
	}

	out := make([]*Card, 0, count)
	for i := 0; i < count; i++ {
		out = append(out, &Card{
			ID:          uuid.NewString(),
			Index:       d.CardIndex,
			Name:        d.Name,
			Power:       d.Power,
			Cost:        d.Cost,
			WinPoints:   d.WinPoints,
			CopiesInSet: count,
			Type:        d.CardType,
			Legendary:   d.IsLegendary,
			Starting:    d.IsStart,
			Ability:     d.Ability,
		})
	}
	return out
}
