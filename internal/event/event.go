package event

import (
	"fmt"
	"math/rand"

	"github.com/dustin/go-humanize"

	"TrapWars/internal/model"
	"TrapWars/internal/pricing"
	"TrapWars/internal/rank"
)

// Kind identifies one entry of the turn event table.
type Kind string

const (
	KindPoliceRaid  Kind = "police_raid"
	KindFoundStash  Kind = "found_stash"
	KindMugging     Kind = "mugging"
	KindFireSale    Kind = "fire_sale"
	KindDemandSpike Kind = "demand_spike"
)

// Kinds is the event table an unlucky roll selects from.
var Kinds = []Kind{KindPoliceRaid, KindFoundStash, KindMugging, KindFireSale, KindDemandSpike}

// eventChance is the probability that any event fires on a turn.
const eventChance = 0.35

// Punitive reports whether a kind is nullified in protected territory.
// Beneficial and neutral kinds always go through.
func Punitive(k Kind) bool {
	return k == KindPoliceRaid || k == KindMugging
}

// Result is the outcome of one turn roll.
type Result struct {
	Kind        Kind
	Description string
	Suppressed  bool
}

// Roll draws the per-turn event and applies its effect to state in place.
// Returns nil when no event fires. If the player's rank protects the current
// location, punitive kinds are suppressed: state is untouched and the result
// carries no description.
func Roll(state *model.RunState, rng *rand.Rand) *Result {
	if rng.Float64() >= eventChance {
		return nil
	}
	kind := Kinds[rng.Intn(len(Kinds))]

	if Punitive(kind) && rank.Protected(state.Rank, state.Location) {
		return &Result{Kind: kind, Suppressed: true}
	}

	return &Result{Kind: kind, Description: apply(kind, state, rng)}
}

// Apply runs a specific kind against state, honoring protection. Split out
// from Roll so the suppression policy is testable without steering the rng.
func Apply(kind Kind, state *model.RunState, rng *rand.Rand) *Result {
	if Punitive(kind) && rank.Protected(state.Rank, state.Location) {
		return &Result{Kind: kind, Suppressed: true}
	}
	return &Result{Kind: kind, Description: apply(kind, state, rng)}
}

func apply(kind Kind, state *model.RunState, rng *rand.Rand) string {
	switch kind {
	case KindFoundStash:
		product := pricing.Catalog[rng.Intn(len(pricing.Catalog))]
		qty := rng.Int63n(5) + 2
		if state.InventoryTotal()+qty > state.CoatSpace {
			return "You found a stash, but your coat is full!"
		}
		state.Inventory[product.Name] += qty
		return fmt.Sprintf("You found a stash of %s! (+%d units)", product.Name, qty)

	case KindPoliceRaid:
		held := heldProducts(state)
		if len(held) == 0 {
			return "POLICE RAID! They didn't find anything on you."
		}
		product := held[rng.Intn(len(held))]
		lost := rng.Int63n(5) + 2
		if lost > state.Inventory[product] {
			lost = state.Inventory[product]
		}
		state.Inventory[product] -= lost
		return fmt.Sprintf("POLICE RAID! You lost %d units of %s!", lost, product)

	case KindMugging:
		lost := int64(float64(state.Cash) * 0.15)
		state.Cash -= lost
		if state.Cash < 0 {
			state.Cash = 0
		}
		return fmt.Sprintf("MUGGER! You got jumped and lost $%s!", humanize.Comma(lost))

	case KindFireSale:
		product := pricing.Catalog[rng.Intn(len(pricing.Catalog))]
		state.Prices[product.Name] = state.Prices[product.Name] / 2
		return fmt.Sprintf("FIRE SALE! %s is 50%% off!", product.Name)

	case KindDemandSpike:
		product := pricing.Catalog[rng.Intn(len(pricing.Catalog))]
		state.Prices[product.Name] = state.Prices[product.Name] * 2
		return fmt.Sprintf("HIGH DEMAND! %s prices doubled!", product.Name)
	}
	return ""
}

// heldProducts lists products with a positive quantity, in catalog order so
// selection is stable for a seeded rng.
func heldProducts(state *model.RunState) []string {
	var held []string
	for _, p := range pricing.Catalog {
		if state.Inventory[p.Name] > 0 {
			held = append(held, p.Name)
		}
	}
	return held
}
