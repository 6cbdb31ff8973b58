package mtgban

import (
	"fmt"
	"math"
	"sort"

	"github.com/samber/lo"
)

const DefaultArbitMinDiff = 0.2
const DefaultArbitMinSpread = 125.0

// Dampens the profitability of cheap cards
const ProfitabilityConstant = 2.0

// Multipliers applied to the NM buylist price when a vendor does not
// report a price for a lower grade
var DefaultGrading = map[Condition]float64{
	ConditionNM: 1.0,
	ConditionSP: 0.8,
	ConditionMP: 0.6,
	ConditionHP: 0.4,
	ConditionPO: 0.2,
}

type ArbitOpts struct {
	// Multiplier applied to the selling prices (ie currency conversion)
	Rate float64

	MinDiff   float64
	MinSpread float64

	// Skip MinDiff and MinSpread checks entirely
	NoFilter bool

	// Use the store credit value instead of cash for buylist prices
	UseTrades bool

	// Percentage multiplier for the store credit of the buylist vendor
	CreditMultiplier float64

	// Grade multipliers, DefaultGrading if nil
	Grading map[Condition]float64

	// Cards with unreliable reference prices
	SussyList SussyList

	// Generates the links for each vendor and card
	Links func(vendorId, cardId string) string
}

type ArbitEntry struct {
	CardId string `json:"card_id"`
	Finish Finish `json:"finish"`

	InventoryEntry InventoryEntry `json:"inventory"`
	BuylistEntry   BuylistEntry   `json:"buylist"`
	ReferenceEntry ReferenceEntry `json:"reference"`

	// Value of the buylist price as store credit
	TradePrice float64 `json:"trade_price"`

	Difference float64 `json:"difference"`

	// Effective buy price as a percentage of the selling price, nil when
	// the selling price is not positive
	Spread *float64 `json:"spread,omitempty"`

	// Only set when Spread is positive
	Profitability *float64 `json:"profitability,omitempty"`

	// The effective buy price comes from the reference entry
	UsedReference bool `json:"used_reference,omitempty"`

	// The card is present in the SussyList
	Sussy bool `json:"sussy,omitempty"`
}

// EffectiveBuyPrice returns the buylist price, or the reference price when
// the vendor does not offer anything
func EffectiveBuyPrice(bl BuylistEntry, ref ReferenceEntry) float64 {
	if bl.BuyPrice == 0.0 {
		return ref.Price
	}
	return bl.BuyPrice
}

// NewArbitEntry computes the arbitrage metrics for a single card
func NewArbitEntry(cardId string, inv InventoryEntry, bl BuylistEntry, ref ReferenceEntry, sussy SussyList) ArbitEntry {
	entry := ArbitEntry{
		CardId:         cardId,
		InventoryEntry: inv,
		BuylistEntry:   bl,
		ReferenceEntry: ref,
		TradePrice:     bl.BuyPrice,
		UsedReference:  bl.BuyPrice == 0.0,
		Sussy:          sussy.Has(cardId),
	}

	buyPrice := EffectiveBuyPrice(bl, ref)
	entry.Difference = buyPrice - inv.Price

	spread, ok := percentage(buyPrice, inv.Price)
	if !ok {
		return entry
	}
	entry.Spread = lo.ToPtr(spread)

	if spread > 0.0 {
		entry.Profitability = lo.ToPtr(profitability(entry.Difference, inv.Price, spread, inv.Quantity))
	}

	return entry
}

// Profitability grows with the absolute gain and the spread, and slowly
// with the quantity available
func profitability(difference, price, spread float64, quantity int) float64 {
	if quantity < 1 {
		quantity = 1
	}
	return difference / (price + ProfitabilityConstant) * math.Log(1+spread/100) * math.Sqrt(float64(quantity))
}

// Caution reports whether the entry should be displayed with a warning,
// that is when an unreliable reference price was used
func (ae ArbitEntry) Caution() bool {
	return ae.Sussy && ae.UsedReference
}

// ProfitabilityString formats the profitability, or "n/a" when unavailable
func (ae ArbitEntry) ProfitabilityString() string {
	if ae.Spread == nil || *ae.Spread <= 0.0 || ae.Profitability == nil {
		return "n/a"
	}
	return fmt.Sprintf("%0.2f", *ae.Profitability)
}

// SpreadString formats the spread, or "n/a" when unavailable
func (ae ArbitEntry) SpreadString() string {
	if ae.Spread == nil {
		return "n/a"
	}
	return fmt.Sprintf("%0.2f %%", *ae.Spread)
}

// Arbit compares what a seller offers with what a vendor is buying, card
// by card and grade by grade. When the vendor does not buy a card, the
// reference price is used instead, if available.
func Arbit(opts *ArbitOpts, seller, vendor string, retail, buylist map[string]CardPriceTable, reference ReferenceSource) []ArbitEntry {
	minDiff := DefaultArbitMinDiff
	minSpread := DefaultArbitMinSpread
	rate := 1.0
	credit := 1.0
	grading := DefaultGrading
	useTrades := false
	noFilter := false
	var sussy SussyList
	links := func(string, string) string { return "" }
	if opts != nil {
		if opts.MinDiff != 0 {
			minDiff = opts.MinDiff
		}
		if opts.MinSpread != 0 {
			minSpread = opts.MinSpread
		}
		if opts.Rate != 0 {
			rate = opts.Rate
		}
		if opts.CreditMultiplier != 0 {
			credit = opts.CreditMultiplier
		}
		if opts.Grading != nil {
			grading = opts.Grading
		}
		if opts.Links != nil {
			links = opts.Links
		}
		useTrades = opts.UseTrades
		noFilter = opts.NoFilter
		sussy = opts.SussyList
	}

	cardIds := lo.Keys(retail)
	sort.Strings(cardIds)

	var result []ArbitEntry
	for _, cardId := range cardIds {
		sellerQuote, found := retail[cardId].Quote(seller)
		if !found {
			continue
		}
		buyQuote, hasBuy := buylist[cardId].Quote(vendor)
		vendorRetail, hasRetail := retail[cardId].Quote(vendor)

		for _, finish := range AllFinishes {
			invPrice, found := sellerQuote.Prices[finish]
			if !found {
				continue
			}

			var blPrice FinishPrice
			var blFound bool
			if hasBuy {
				blPrice, blFound = buyQuote.Prices[finish]
			}

			var priceRatio float64
			if blFound && hasRetail {
				ratio, ok := percentage(blPrice.Price, vendorRetail.Prices[finish].Price)
				if ok {
					priceRatio = roundPrice(ratio)
				}
			}

			var ref ReferenceEntry
			if reference != nil {
				ref, _ = reference.Reference(cardId, finish)
			}

			grades := invPrice.SortedConditions()
			prices := invPrice.Conditions
			if len(grades) == 0 {
				grades = []Condition{ConditionNM}
				prices = map[Condition]float64{ConditionNM: invPrice.Price}
			}

			for _, grade := range grades {
				buyPrice := 0.0
				if blFound {
					buyPrice = gradedPrice(blPrice, grade, grading)
				}
				tradePrice := buyPrice * credit
				if useTrades {
					buyPrice = tradePrice
				}
				if buyPrice == 0 && ref.Price == 0 {
					continue
				}

				inv := InventoryEntry{
					Quantity:   lo.FromPtr(invPrice.Quantity),
					Conditions: string(grade),
					Price:      prices[grade] * rate,
					URL:        links(seller, cardId),
				}
				bl := BuylistEntry{
					Conditions: string(grade),
					BuyPrice:   buyPrice,
					PriceRatio: priceRatio,
				}
				if blFound {
					bl.Quantity = lo.FromPtr(blPrice.Quantity)
					bl.URL = links(vendor, cardId)
				}

				entry := NewArbitEntry(cardId, inv, bl, ref, sussy)
				entry.Finish = finish
				entry.TradePrice = tradePrice

				if !noFilter {
					if entry.Spread == nil || entry.Difference <= minDiff || *entry.Spread <= minSpread {
						continue
					}
				}

				result = append(result, entry)
			}
		}
	}

	sortArbit(result)

	return result
}

// Use the price reported for the grade, or scale the NM one
func gradedPrice(fp FinishPrice, grade Condition, grading map[Condition]float64) float64 {
	price, found := fp.Conditions[grade]
	if found {
		return price
	}
	if grade == ConditionNM {
		return fp.Price
	}
	return fp.Price * grading[grade]
}

// Most profitable first, entries without profitability last
func sortArbit(entries []ArbitEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		pi, pj := entries[i].Profitability, entries[j].Profitability
		if (pi == nil) != (pj == nil) {
			return pi != nil
		}
		if pi != nil && *pi != *pj {
			return *pi > *pj
		}
		if entries[i].CardId != entries[j].CardId {
			return entries[i].CardId < entries[j].CardId
		}
		if entries[i].Finish != entries[j].Finish {
			return finishIndex(entries[i].Finish) < finishIndex(entries[j].Finish)
		}
		return gradeIndex(Condition(entries[i].InventoryEntry.Conditions)) < gradeIndex(Condition(entries[j].InventoryEntry.Conditions))
	})
}

func finishIndex(finish Finish) int {
	for i, f := range AllFinishes {
		if f == finish {
			return i
		}
	}
	return len(AllFinishes)
}
