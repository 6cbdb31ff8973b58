package mtgban

import (
	"math"
	"testing"

	"github.com/samber/lo"
)

func TestAggregate(t *testing.T) {
	retail := DefaultVendorNames.BuildTable("x", VendorEntries{
		{VendorId: "CK", Entry: PriceEntry{Regular: lo.ToPtr(10.0)}},
		{VendorId: "TCG", Entry: PriceEntry{Regular: lo.ToPtr(8.0), Foil: lo.ToPtr(20.0)}},
	})
	buylist := DefaultVendorNames.BuildTable("x", VendorEntries{
		{VendorId: "CK", Entry: PriceEntry{Regular: lo.ToPtr(6.0)}},
		{VendorId: "SCG", Entry: PriceEntry{Regular: lo.ToPtr(5.0)}},
	})

	summary := Aggregate(retail, buylist)

	low, found := summary.LowestRetail[FinishRegular]
	if !found || low.Price != 8.0 || low.Vendor != "TCGPlayer" || low.VendorId != "TCG" {
		t.Errorf("FAIL: unexpected lowest retail %+v", low)
		return
	}
	high, found := summary.HighestBuylist[FinishRegular]
	if !found || high.Price != 6.0 || high.Vendor != "Card Kingdom" {
		t.Errorf("FAIL: unexpected highest buylist %+v", high)
		return
	}
	spread, found := summary.Spread[FinishRegular]
	if !found || spread != 75.0 {
		t.Errorf("FAIL: expected 75.00 spread, got %v", spread)
		return
	}

	// Foil is only on the retail side
	_, found = summary.LowestRetail[FinishFoil]
	if !found {
		t.Errorf("FAIL: missing foil lowest retail")
		return
	}
	_, found = summary.Spread[FinishFoil]
	if found {
		t.Errorf("FAIL: foil spread should be absent")
		return
	}
	_, found = summary.LowestRetail[FinishEtched]
	if found {
		t.Errorf("FAIL: etched should be absent")
		return
	}

	t.Log("PASS: Aggregate")
}

func TestAggregateOrderIndependent(t *testing.T) {
	entries := VendorEntries{
		{VendorId: "CK", Entry: PriceEntry{Regular: lo.ToPtr(3.0)}},
		{VendorId: "TCG", Entry: PriceEntry{Regular: lo.ToPtr(1.5)}},
		{VendorId: "SCG", Entry: PriceEntry{Regular: lo.ToPtr(2.25)}},
	}
	reversed := VendorEntries{entries[2], entries[1], entries[0]}

	a := Aggregate(DefaultVendorNames.BuildTable("x", entries), DefaultVendorNames.BuildTable("x", entries))
	b := Aggregate(DefaultVendorNames.BuildTable("x", reversed), DefaultVendorNames.BuildTable("x", reversed))

	if a.LowestRetail[FinishRegular] != b.LowestRetail[FinishRegular] {
		t.Errorf("FAIL: lowest retail depends on order: %v %v", a.LowestRetail, b.LowestRetail)
		return
	}
	if a.HighestBuylist[FinishRegular] != b.HighestBuylist[FinishRegular] {
		t.Errorf("FAIL: highest buylist depends on order: %v %v", a.HighestBuylist, b.HighestBuylist)
		return
	}
	if a.HighestBuylist[FinishRegular].VendorId != "CK" || a.LowestRetail[FinishRegular].VendorId != "TCG" {
		t.Errorf("FAIL: wrong vendors selected")
		return
	}

	t.Log("PASS: AggregateOrderIndependent")
}

func TestAggregateTie(t *testing.T) {
	retail := DefaultVendorNames.BuildTable("x", VendorEntries{
		{VendorId: "SCG", Entry: PriceEntry{Regular: lo.ToPtr(4.0)}},
		{VendorId: "CK", Entry: PriceEntry{Regular: lo.ToPtr(4.0)}},
	})

	summary := Aggregate(retail, EmptyTable("x"))
	if summary.LowestRetail[FinishRegular].VendorId != "SCG" {
		t.Errorf("FAIL: tie should keep the first vendor, got %s", summary.LowestRetail[FinishRegular].VendorId)
		return
	}

	t.Log("PASS: AggregateTie")
}

func TestAggregateZeroRetail(t *testing.T) {
	retail := DefaultVendorNames.BuildTable("x", VendorEntries{
		{VendorId: "TCG", Entry: PriceEntry{Regular: lo.ToPtr(0.0)}},
	})
	buylist := DefaultVendorNames.BuildTable("x", VendorEntries{
		{VendorId: "CK", Entry: PriceEntry{Regular: lo.ToPtr(1.0)}},
	})

	summary := Aggregate(retail, buylist)
	if summary.LowestRetail[FinishRegular].Price != 0 {
		t.Errorf("FAIL: zero retail price should still be the lowest")
		return
	}
	spread, found := summary.Spread[FinishRegular]
	if found {
		t.Errorf("FAIL: spread should be absent on zero retail, got %v", spread)
		return
	}
	for _, value := range summary.Spread {
		if math.IsNaN(value) || math.IsInf(value, 0) {
			t.Errorf("FAIL: spread is not finite")
			return
		}
	}

	t.Log("PASS: AggregateZeroRetail")
}

func TestAggregateEmpty(t *testing.T) {
	summary := Aggregate(EmptyTable("x"), EmptyTable("x"))
	if len(summary.LowestRetail) != 0 || len(summary.HighestBuylist) != 0 || len(summary.Spread) != 0 {
		t.Errorf("FAIL: expected empty summary, got %+v", summary)
		return
	}

	t.Log("PASS: AggregateEmpty")
}
