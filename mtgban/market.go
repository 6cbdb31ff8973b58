package mtgban

// ReferenceMap is a static set of reference prices, card id to finish
type ReferenceMap map[string]map[Finish]ReferenceEntry

func (rm ReferenceMap) Reference(cardId string, finish Finish) (ReferenceEntry, bool) {
	entry, found := rm[cardId][finish]
	return entry, found
}

// Add a reference price for a card
func (rm ReferenceMap) Add(cardId string, finish Finish, entry ReferenceEntry) {
	if rm[cardId] == nil {
		rm[cardId] = map[Finish]ReferenceEntry{}
	}
	rm[cardId][finish] = entry
}

// TableReference uses the retail prices of one of the vendors present in
// the tables as reference (ie a market index listed by the API)
type TableReference struct {
	VendorId string
	Tables   map[string]CardPriceTable

	// Generates the link for the vendor and card, optional
	Links func(vendorId, cardId string) string
}

func (tr *TableReference) Reference(cardId string, finish Finish) (ReferenceEntry, bool) {
	quote, found := tr.Tables[cardId].Quote(tr.VendorId)
	if !found {
		return ReferenceEntry{}, false
	}
	fp, found := quote.Prices[finish]
	if !found || fp.Price == 0 {
		return ReferenceEntry{}, false
	}

	entry := ReferenceEntry{
		Price: fp.Price,
	}
	if tr.Links != nil {
		entry.URL = tr.Links(tr.VendorId, cardId)
	}
	return entry, true
}
