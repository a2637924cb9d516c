package rank

import (
	"fmt"

	"github.com/dustin/go-humanize"

	"TrapWars/internal/model"
)

// Tier describes one milestone of the staking ladder.
type Tier struct {
	Rank           model.Rank
	Name           string
	Threshold      int64   // cumulative staked amount required
	SellMultiplier float64 // applied to sell earnings, >= 1.0
	Protected      []string
}

// Tiers is the full ladder, lowest first. Protection grows one city at a time;
// Whale is protected everywhere.
var Tiers = []Tier{
	{Rank: model.RankNone, Name: "Street Hustler", Threshold: 0, SellMultiplier: 1.0, Protected: nil},
	{Rank: model.RankStreetRat, Name: "Street Rat", Threshold: 10000, SellMultiplier: 1.1, Protected: []string{"Compton"}},
	{Rank: model.RankHustler, Name: "Hustler", Threshold: 50000, SellMultiplier: 1.2, Protected: []string{"Compton", "Watts"}},
	{Rank: model.RankKingpin, Name: "Kingpin", Threshold: 100000, SellMultiplier: 1.35, Protected: []string{"Compton", "Watts", "Inglewood"}},
	{Rank: model.RankGodfather, Name: "Godfather", Threshold: 500000, SellMultiplier: 1.5, Protected: []string{"Compton", "Watts", "Inglewood", "Long Beach"}},
	{Rank: model.RankWhale, Name: "Whale", Threshold: 1000000, SellMultiplier: 2.0, Protected: model.Locations},
}

// TierFor returns the tier data for a rank. Unknown ranks map to the base tier.
func TierFor(r model.Rank) Tier {
	for _, t := range Tiers {
		if t.Rank == r {
			return t
		}
	}
	return Tiers[0]
}

// Protected reports whether r shields the player from punitive events at
// location.
func Protected(r model.Rank, location string) bool {
	for _, loc := range TierFor(r).Protected {
		if loc == location {
			return true
		}
	}
	return false
}

// SellMultiplier returns the earnings multiplier for a rank.
func SellMultiplier(r model.Rank) float64 {
	return TierFor(r).SellMultiplier
}

// Promotion is the result of a successful milestone evaluation. The caller
// must apply Contribution, RemainingCash and NewRank atomically with the
// trade that triggered it.
type Promotion struct {
	NewRank       model.Rank
	Contribution  int64
	RemainingCash int64
	Message       string
}

// Evaluate checks whether forcing a 10% contribution of cash would push the
// cumulative staked amount over a higher tier's threshold. The highest
// qualifying tier above current wins; if none qualifies, no contribution is
// taken and nil is returned. Rank never regresses.
func Evaluate(cash, staked int64, current model.Rank) *Promotion {
	contribution := cash / 10 // floor(cash * 0.10)
	candidate := staked + contribution

	for i := len(Tiers) - 1; i >= 0; i-- {
		t := Tiers[i]
		if t.Rank <= current {
			break
		}
		if candidate >= t.Threshold {
			return &Promotion{
				NewRank:       t.Rank,
				Contribution:  contribution,
				RemainingCash: cash - contribution,
				Message: fmt.Sprintf("%s status unlocked! %.2fx sell multiplier, protected in %d cities. $%s auto-staked to the vault.",
					t.Name, t.SellMultiplier, len(t.Protected), humanize.Comma(contribution)),
			}
		}
	}
	return nil
}
