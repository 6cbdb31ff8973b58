package mtgban

// VendorNames maps vendor short codes to their display names
type VendorNames map[string]string

// Known vendor names, copy and extend as needed
var DefaultVendorNames = VendorNames{
	"CK":  "Card Kingdom",
	"TCG": "TCGPlayer",
	"SCG": "Star City Games",
	"CFB": "Channel Fireball",
	"CBA": "Cool Stuff Inc",
	"MKM": "Cardmarket",
}

// Lookup returns the display name of a vendor, or the code itself if unknown
func (vn VendorNames) Lookup(vendorId string) string {
	name, found := vn[vendorId]
	if !found {
		return vendorId
	}
	return name
}

// With returns a copy of the names with the extra entries added
func (vn VendorNames) With(extra map[string]string) VendorNames {
	out := make(VendorNames, len(vn)+len(extra))
	for code, name := range vn {
		out[code] = name
	}
	for code, name := range extra {
		out[code] = name
	}
	return out
}

// BuildQuote normalizes all the finishes of a vendor entry. Vendors without
// any price are still returned, with an empty set of prices.
func (vn VendorNames) BuildQuote(vendorId string, entry PriceEntry) VendorQuote {
	quote := VendorQuote{
		VendorId: vendorId,
		Name:     vn.Lookup(vendorId),
		Prices:   map[Finish]FinishPrice{},
	}
	for _, finish := range AllFinishes {
		fp, found := Normalize(entry, finish)
		if !found {
			continue
		}
		quote.Prices[finish] = fp
	}
	return quote
}

// BuildTable assembles the quotes of all vendors for a card. If the same
// vendor appears more than once, the last entry replaces the previous one
// in its original position.
func (vn VendorNames) BuildTable(cardId string, entries VendorEntries) CardPriceTable {
	table := EmptyTable(cardId)
	index := map[string]int{}
	for _, entry := range entries {
		quote := vn.BuildQuote(entry.VendorId, entry.Entry)
		i, found := index[entry.VendorId]
		if found {
			table.Vendors[i] = quote
			continue
		}
		index[entry.VendorId] = len(table.Vendors)
		table.Vendors = append(table.Vendors, quote)
	}
	return table
}

// BuildTables assembles the price tables of every card in the raw data
func (vn VendorNames) BuildTables(raw RawPrices) map[string]CardPriceTable {
	tables := make(map[string]CardPriceTable, len(raw))
	for cardId, entries := range raw {
		tables[cardId] = vn.BuildTable(cardId, entries)
	}
	return tables
}

// BuildTables assembles price tables using DefaultVendorNames
func BuildTables(raw RawPrices) map[string]CardPriceTable {
	return DefaultVendorNames.BuildTables(raw)
}

// TableFor returns the table of the card, or an empty one if not present
func TableFor(tables map[string]CardPriceTable, cardId string) CardPriceTable {
	table, found := tables[cardId]
	if !found || table.Vendors == nil {
		return EmptyTable(cardId)
	}
	return table
}
