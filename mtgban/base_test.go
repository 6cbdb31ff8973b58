package mtgban

import (
	"testing"

	"github.com/samber/lo"
)

func TestLookup(t *testing.T) {
	if DefaultVendorNames.Lookup("CK") != "Card Kingdom" {
		t.Errorf("FAIL: CK not resolved")
		return
	}
	if DefaultVendorNames.Lookup("ZZZ") != "ZZZ" {
		t.Errorf("FAIL: unknown vendor should pass through, got %q", DefaultVendorNames.Lookup("ZZZ"))
		return
	}

	names := DefaultVendorNames.With(map[string]string{"ZZZ": "Zed Games"})
	if names.Lookup("ZZZ") != "Zed Games" {
		t.Errorf("FAIL: extra vendor not resolved")
		return
	}
	if names.Lookup("TCG") != "TCGPlayer" {
		t.Errorf("FAIL: default vendor lost in copy")
		return
	}
	if DefaultVendorNames.Lookup("ZZZ") != "ZZZ" {
		t.Errorf("FAIL: defaults were modified")
		return
	}

	t.Log("PASS: Lookup")
}

func TestBuildQuoteEmpty(t *testing.T) {
	quote := DefaultVendorNames.BuildQuote("SCG", PriceEntry{})
	if quote.Name != "Star City Games" {
		t.Errorf("FAIL: wrong name %q", quote.Name)
		return
	}
	if quote.Prices == nil || len(quote.Prices) != 0 {
		t.Errorf("FAIL: expected empty prices, got %v", quote.Prices)
		return
	}

	t.Log("PASS: BuildQuoteEmpty")
}

func TestBuildTableOrder(t *testing.T) {
	entries := VendorEntries{
		{VendorId: "TCG", Entry: PriceEntry{Regular: lo.ToPtr(8.0)}},
		{VendorId: "CK", Entry: PriceEntry{Regular: lo.ToPtr(10.0)}},
		{VendorId: "ZZZ", Entry: PriceEntry{}},
		{VendorId: "TCG", Entry: PriceEntry{Regular: lo.ToPtr(7.0)}},
	}

	table := DefaultVendorNames.BuildTable("abc", entries)
	if table.CardId != "abc" {
		t.Errorf("FAIL: wrong card id %q", table.CardId)
		return
	}
	if len(table.Vendors) != 3 {
		t.Errorf("FAIL: expected 3 vendors, got %d", len(table.Vendors))
		return
	}
	order := []string{"TCG", "CK", "ZZZ"}
	for i, vendorId := range order {
		if table.Vendors[i].VendorId != vendorId {
			t.Errorf("FAIL: position %d: expected %s, got %s", i, vendorId, table.Vendors[i].VendorId)
			return
		}
	}
	if table.Vendors[0].Prices[FinishRegular].Price != 7.0 {
		t.Errorf("FAIL: duplicate vendor did not replace the previous entry")
		return
	}
	if table.Vendors[2].Name != "ZZZ" {
		t.Errorf("FAIL: unknown vendor name should be its code")
		return
	}

	t.Log("PASS: BuildTableOrder")
}

func TestTableFor(t *testing.T) {
	tables := BuildTables(RawPrices{
		"a": VendorEntries{{VendorId: "CK", Entry: PriceEntry{Regular: lo.ToPtr(1.0)}}},
	})

	table := TableFor(tables, "a")
	if len(table.Vendors) != 1 {
		t.Errorf("FAIL: expected one vendor for a")
		return
	}

	table = TableFor(tables, "b")
	if table.CardId != "b" || table.Vendors == nil || len(table.Vendors) != 0 {
		t.Errorf("FAIL: missing card should give an empty table, got %+v", table)
		return
	}

	t.Log("PASS: TableFor")
}

func TestVendorEntriesGet(t *testing.T) {
	entries := VendorEntries{
		{VendorId: "CK", Entry: PriceEntry{Regular: lo.ToPtr(1.0)}},
	}
	entry, found := entries.Get("CK")
	if !found || *entry.Regular != 1.0 {
		t.Errorf("FAIL: CK entry not found")
		return
	}
	_, found = entries.Get("TCG")
	if found {
		t.Errorf("FAIL: TCG entry should not exist")
		return
	}

	t.Log("PASS: VendorEntriesGet")
}
