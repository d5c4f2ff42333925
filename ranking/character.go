package ranking

import (
	"encoding/json"
	"math"

	"github.com/samber/lo"
)

type Stats struct {
	Hp      float64 `json:"hp"`
	Attack  float64 `json:"attack"`
	Defense float64 `json:"defense"`
	Speed   float64 `json:"speed"`
}

func (s Stats) add(o Stats) Stats {
	return Stats{
		Hp:      s.Hp + o.Hp,
		Attack:  s.Attack + o.Attack,
		Defense: s.Defense + o.Defense,
		Speed:   s.Speed + o.Speed,
	}
}

type equipment struct {
	Stats *Stats `json:"stats"`
}

// Character is a pet stored inside a game save
type Character struct {
	Id        string                `json:"id"`
	Name      string                `json:"name"`
	Image     *string               `json:"image"`
	Hp        float64               `json:"hp"`
	Attack    float64               `json:"attack"`
	Defense   float64               `json:"defense"`
	Speed     float64               `json:"speed"`
	Level     float64               `json:"level"`
	ClassName *string               `json:"className"`
	Element   *string               `json:"element"`
	Equipment map[string]*equipment `json:"equipment"`
}

func (c Character) equipmentTotals() Stats {
	total := Stats{}
	for _, e := range c.Equipment {
		if e == nil || e.Stats == nil {
			continue
		}
		total = total.add(*e.Stats)
	}
	return total
}

// TotalStats returns the base stats plus everything the character has equipped
func (c Character) TotalStats() Stats {
	return Stats{Hp: c.Hp, Attack: c.Attack, Defense: c.Defense, Speed: c.Speed}.add(c.equipmentTotals())
}

// Score is attack, defense and speed including equipment, floored at zero
func (c Character) Score() int64 {
	s := c.TotalStats()
	score := s.Attack + s.Defense + s.Speed
	if math.IsNaN(score) || math.IsInf(score, 0) {
		return 0
	}
	return int64(math.Max(0, math.Floor(score)))
}

// ParseCharacters decodes the characters of a save. The save data is a JSON
// object whose characters field is itself a JSON encoded array.
func ParseCharacters(data []byte) []Character {
	var save struct {
		Characters string `json:"characters"`
	}
	if err := json.Unmarshal(data, &save); err != nil || save.Characters == "" {
		return nil
	}

	var characters []Character
	if err := json.Unmarshal([]byte(save.Characters), &characters); err != nil {
		return nil
	}
	return characters
}

// BestCharacter returns the ranked character of a save: the one named by
// rankCharacterId when present, otherwise the highest scoring one
func BestCharacter(characters []Character, rankCharacterId *string) (Character, int64, bool) {
	if len(characters) == 0 {
		return Character{}, 0, false
	}

	if rankCharacterId != nil && *rankCharacterId != "" {
		if match, ok := lo.Find(characters, func(c Character) bool {
			return c.Id == *rankCharacterId
		}); ok {
			return match, match.Score(), true
		}
	}

	best := characters[0]
	bestScore := best.Score()
	for _, c := range characters[1:] {
		if score := c.Score(); score > bestScore {
			best = c
			bestScore = score
		}
	}
	return best, bestScore, true
}
