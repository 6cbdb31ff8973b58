package mtgban

import (
	"math"
)

// Aggregate computes the lowest retail and highest buylist prices for each
// finish, and the spread between them. On equal prices the vendor that
// comes first in the table is kept.
func Aggregate(retail, buylist CardPriceTable) AggregatedSummary {
	result := AggregatedSummary{
		LowestRetail:   map[Finish]PricePoint{},
		HighestBuylist: map[Finish]PricePoint{},
		Spread:         map[Finish]float64{},
	}

	for _, vendor := range retail.Vendors {
		for _, finish := range AllFinishes {
			fp, found := vendor.Prices[finish]
			if !found {
				continue
			}
			best, found := result.LowestRetail[finish]
			if !found || fp.Price < best.Price {
				result.LowestRetail[finish] = PricePoint{
					Price:    fp.Price,
					Vendor:   vendor.Name,
					VendorId: vendor.VendorId,
				}
			}
		}
	}

	for _, vendor := range buylist.Vendors {
		for _, finish := range AllFinishes {
			fp, found := vendor.Prices[finish]
			if !found {
				continue
			}
			best, found := result.HighestBuylist[finish]
			if !found || fp.Price > best.Price {
				result.HighestBuylist[finish] = PricePoint{
					Price:    fp.Price,
					Vendor:   vendor.Name,
					VendorId: vendor.VendorId,
				}
			}
		}
	}

	for _, finish := range AllFinishes {
		low, found := result.LowestRetail[finish]
		if !found {
			continue
		}
		high, found := result.HighestBuylist[finish]
		if !found {
			continue
		}
		spread, ok := percentage(high.Price, low.Price)
		if !ok {
			continue
		}
		result.Spread[finish] = roundPrice(spread)
	}

	return result
}

// percentage returns value/base*100, unless the result is not a finite number
func percentage(value, base float64) (float64, bool) {
	if base <= 0 {
		return 0, false
	}
	out := value / base * 100
	if math.IsNaN(out) || math.IsInf(out, 0) {
		return 0, false
	}
	return out, true
}
