package mtgban

import (
	"sort"

	"github.com/montanaflynn/stats"
	"github.com/samber/lo"
)

// VendorRow is a flattened view of a vendor quote
type VendorRow struct {
	VendorId   string             `json:"vendor_id"`
	VendorName string             `json:"vendor_name"`
	Prices     map[Finish]float64 `json:"prices"`
	Quantities map[Finish]int     `json:"quantities,omitempty"`
}

// Price returns the price of the given finish, if quoted
func (row VendorRow) Price(finish Finish) (float64, bool) {
	price, found := row.Prices[finish]
	return price, found
}

// MarketStats describes the distribution of the prices of a finish
type MarketStats struct {
	Count  int     `json:"count"`
	Median float64 `json:"median"`
	StdDev float64 `json:"std_dev"`
}

// Comparison lays out the prices of a card across all vendors
type Comparison struct {
	Retailers      []VendorRow `json:"retailers"`
	BuylistVendors []VendorRow `json:"buylist_vendors"`

	// Retail rows by ascending price, buylist rows by descending price
	SortedRetail  map[Finish][]VendorRow `json:"sorted_retail"`
	SortedBuylist map[Finish][]VendorRow `json:"sorted_buylist"`

	BestDeal       map[Finish]float64    `json:"best_deal"`
	LowestRetail   map[Finish]PricePoint `json:"lowest_retail"`
	HighestBuylist map[Finish]PricePoint `json:"highest_buylist"`

	RetailStats  map[Finish]MarketStats `json:"retail_stats"`
	BuylistStats map[Finish]MarketStats `json:"buylist_stats"`
}

func newVendorRow(quote VendorQuote, _ int) VendorRow {
	row := VendorRow{
		VendorId:   quote.VendorId,
		VendorName: quote.Name,
		Prices:     map[Finish]float64{},
		Quantities: map[Finish]int{},
	}
	for finish, fp := range quote.Prices {
		row.Prices[finish] = fp.Price
		if fp.Quantity != nil {
			row.Quantities[finish] = *fp.Quantity
		}
	}
	return row
}

// Compare builds the comparison view of a card
func Compare(card CardWithPrices) Comparison {
	retailers := lo.Map(card.Retail.Vendors, newVendorRow)
	buylisters := lo.Map(card.Buylist.Vendors, newVendorRow)

	out := Comparison{
		Retailers:      retailers,
		BuylistVendors: buylisters,
		SortedRetail:   map[Finish][]VendorRow{},
		SortedBuylist:  map[Finish][]VendorRow{},
		BestDeal:       card.Aggregated.Spread,
		LowestRetail:   card.Aggregated.LowestRetail,
		HighestBuylist: card.Aggregated.HighestBuylist,
		RetailStats:    map[Finish]MarketStats{},
		BuylistStats:   map[Finish]MarketStats{},
	}
	if out.BestDeal == nil {
		out.BestDeal = map[Finish]float64{}
	}

	for _, finish := range AllFinishes {
		out.SortedRetail[finish] = sortRows(retailers, finish, false)
		out.SortedBuylist[finish] = sortRows(buylisters, finish, true)

		st, ok := marketStats(out.SortedRetail[finish], finish)
		if ok {
			out.RetailStats[finish] = st
		}
		st, ok = marketStats(out.SortedBuylist[finish], finish)
		if ok {
			out.BuylistStats[finish] = st
		}
	}

	return out
}

// Keep only the rows quoting the finish, sorted by price
func sortRows(rows []VendorRow, finish Finish, descending bool) []VendorRow {
	filtered := lo.Filter(rows, func(row VendorRow, _ int) bool {
		_, found := row.Price(finish)
		return found
	})
	sort.SliceStable(filtered, func(i, j int) bool {
		if descending {
			return filtered[i].Prices[finish] > filtered[j].Prices[finish]
		}
		return filtered[i].Prices[finish] < filtered[j].Prices[finish]
	})
	return filtered
}

func marketStats(rows []VendorRow, finish Finish) (MarketStats, bool) {
	if len(rows) == 0 {
		return MarketStats{}, false
	}
	values := lo.Map(rows, func(row VendorRow, _ int) float64 {
		return row.Prices[finish]
	})

	median, err := stats.Median(values)
	if err != nil {
		return MarketStats{}, false
	}
	stdDev, err := stats.StandardDeviation(values)
	if err != nil {
		return MarketStats{}, false
	}

	return MarketStats{
		Count:  len(values),
		Median: roundPrice(median),
		StdDev: roundPrice(stdDev),
	}, true
}
