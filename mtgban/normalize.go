package mtgban

import (
	"sort"
)

// Normalize extracts the quote for the given finish from a raw entry.
// The second return value is false when the entry has no price for the
// finish, or when the price is negative.
func Normalize(entry PriceEntry, finish Finish) (FinishPrice, bool) {
	var price *float64
	var qty *int
	switch finish {
	case FinishRegular:
		price, qty = entry.Regular, entry.Qty
	case FinishFoil:
		price, qty = entry.Foil, entry.QtyFoil
	case FinishEtched:
		price, qty = entry.Etched, entry.QtyEtched
	default:
		return FinishPrice{}, false
	}
	if price == nil || *price < 0 {
		return FinishPrice{}, false
	}

	out := FinishPrice{
		Price:      *price,
		Conditions: extractConditions(entry.Conditions, finish),
	}
	if qty != nil {
		quantity := *qty
		out.Quantity = &quantity
	}
	return out, true
}

// Only keep the grades of the requested finish, keyed by bare grade
func extractConditions(conditions map[string]float64, finish Finish) map[Condition]float64 {
	var out map[Condition]float64
	for key, price := range conditions {
		ck, err := ParseConditionKey(key)
		if err != nil || ck.Finish != finish {
			continue
		}
		if out == nil {
			out = map[Condition]float64{}
		}
		out[ck.Condition] = price
	}
	return out
}

// SortedConditions returns the grades present in the quote, known grades
// first in FullGradeTags order, the others alphabetically
func (fp FinishPrice) SortedConditions() []Condition {
	conds := make([]Condition, 0, len(fp.Conditions))
	for cond := range fp.Conditions {
		conds = append(conds, cond)
	}
	sort.Slice(conds, func(i, j int) bool {
		gi, gj := gradeIndex(conds[i]), gradeIndex(conds[j])
		if gi != gj {
			return gi < gj
		}
		return conds[i] < conds[j]
	})
	return conds
}
