package model

import (
	"encoding/json"
	"time"
)

// Locations is the fixed set of cities a player can travel between.
var Locations = []string{"Compton", "Long Beach", "Inglewood", "South Central", "Watts", "East LA"}

// ValidLocation reports whether name is one of the known cities.
func ValidLocation(name string) bool {
	for _, l := range Locations {
		if l == name {
			return true
		}
	}
	return false
}

// Rank is the staking milestone ladder. Ordering is significant: a run's rank
// only ever moves toward RankWhale.
type Rank int

const (
	RankNone Rank = iota
	RankStreetRat
	RankHustler
	RankKingpin
	RankGodfather
	RankWhale
)

var rankNames = map[Rank]string{
	RankNone:      "NONE",
	RankStreetRat: "STREET_RAT",
	RankHustler:   "HUSTLER",
	RankKingpin:   "KINGPIN",
	RankGodfather: "GODFATHER",
	RankWhale:     "WHALE",
}

func (r Rank) String() string {
	if name, ok := rankNames[r]; ok {
		return name
	}
	return "NONE"
}

// MarshalJSON encodes the rank as its symbolic name.
func (r Rank) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.String())
}

// UnmarshalJSON decodes a symbolic rank name. Unknown or missing names decode
// to RankNone so saves from before the rank system still load.
func (r *Rank) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	for rank, n := range rankNames {
		if n == name {
			*r = rank
			return nil
		}
	}
	*r = RankNone
	return nil
}

// RunState is the full state of one player's 30-day run.
type RunState struct {
	Day          int              `json:"day"`
	Location     string           `json:"location"`
	Cash         int64            `json:"cash"`
	Inventory    map[string]int64 `json:"inventory"`
	CoatSpace    int64            `json:"coat_space"`
	Prices       map[string]int64 `json:"prices"`
	Rank         Rank             `json:"rank"`
	StakedAmount int64            `json:"staked_amount"`
	GameOver     bool             `json:"game_over"`
	FinalScore   int64            `json:"final_score"`
	EndedEarly   bool             `json:"ended_early"`
	StartedAt    time.Time        `json:"started_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

// InventoryTotal returns the number of units currently carried.
func (s *RunState) InventoryTotal() int64 {
	var total int64
	for _, qty := range s.Inventory {
		total += qty
	}
	return total
}

// Clone returns a deep copy, so snapshots handed to callers can't alias the
// live maps.
func (s *RunState) Clone() *RunState {
	c := *s
	c.Inventory = make(map[string]int64, len(s.Inventory))
	for k, v := range s.Inventory {
		c.Inventory[k] = v
	}
	c.Prices = make(map[string]int64, len(s.Prices))
	for k, v := range s.Prices {
		c.Prices[k] = v
	}
	return &c
}
