package pricing

import (
	"math"
	"math/rand"
)

// Product is one entry of the fixed trading catalog with its base price band.
type Product struct {
	Name     string
	MinPrice int64
	MaxPrice int64
}

// Catalog is the fixed set of tradeable products.
var Catalog = []Product{
	{Name: "Weed", MinPrice: 800, MaxPrice: 2000},
	{Name: "Cocaine", MinPrice: 24000, MaxPrice: 35000},
	{Name: "Heroin", MinPrice: 35000, MaxPrice: 55000},
	{Name: "Acid", MinPrice: 1500, MaxPrice: 3500},
	{Name: "Shrooms", MinPrice: 600, MaxPrice: 1200},
	{Name: "Fentanyl", MinPrice: 2500, MaxPrice: 6000},
}

// ByName looks up a catalog product.
func ByName(name string) (Product, bool) {
	for _, p := range Catalog {
		if p.Name == name {
			return p, true
		}
	}
	return Product{}, false
}

// Generate draws a fresh price for every product in the catalog. Each base
// price is uniform in [MinPrice, MaxPrice), scaled by multiplier and floored,
// so the result stays within [floor(min*mult), floor(max*mult)].
func Generate(rng *rand.Rand, multiplier float64) map[string]int64 {
	prices := make(map[string]int64, len(Catalog))
	for _, p := range Catalog {
		base := rng.Int63n(p.MaxPrice-p.MinPrice) + p.MinPrice
		prices[p.Name] = int64(math.Floor(float64(base) * multiplier))
	}
	return prices
}
