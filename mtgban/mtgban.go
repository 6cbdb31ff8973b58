// Package mtgban defines the data model used to describe prices offered
// by vendors, and the functions needed to normalize, aggregate and compare
// them across retail and buylist sides.
package mtgban

// PriceEntry is the raw quote of a single vendor for a single card, as
// returned by the BAN API. Every field is optional.
type PriceEntry struct {
	Regular *float64 `json:"regular,omitempty"`
	Foil    *float64 `json:"foil,omitempty"`
	Etched  *float64 `json:"etched,omitempty"`

	Qty       *int `json:"qty,omitempty"`
	QtyFoil   *int `json:"qty_foil,omitempty"`
	QtyEtched *int `json:"qty_etched,omitempty"`

	// Condition prices, keyed by bare grade ("NM") for the regular finish,
	// or by grade and finish ("NM_foil", "NM_etched") for the others
	Conditions map[string]float64 `json:"conditions,omitempty"`
}

// VendorEntry pairs a PriceEntry with the vendor identifier it belongs to
type VendorEntry struct {
	VendorId string
	Entry    PriceEntry
}

// VendorEntries keeps the vendors of a card in the order they were received
type VendorEntries []VendorEntry

// Get returns the entry for the given vendor, if present
func (ve VendorEntries) Get(vendorId string) (PriceEntry, bool) {
	for _, entry := range ve {
		if entry.VendorId == vendorId {
			return entry.Entry, true
		}
	}
	return PriceEntry{}, false
}

// RawPrices is the decoded content of one side (retail or buylist) of an
// API response, card id pointing to the list of vendor entries
type RawPrices map[string]VendorEntries

// FinishPrice is the normalized quote of a vendor for a card in one finish
type FinishPrice struct {
	// Price in USD, never negative
	Price float64 `json:"price"`

	// Quantity available (or requested), if reported
	Quantity *int `json:"quantity,omitempty"`

	// Prices for each grade of this finish, nil if none were reported
	Conditions map[Condition]float64 `json:"conditions,omitempty"`
}

// VendorQuote is the full quote of a vendor for a card
type VendorQuote struct {
	// Short code of the vendor, as used by the API
	VendorId string `json:"vendor_id"`

	// Display name of the vendor
	Name string `json:"name"`

	// Prices for each finish available, never nil
	Prices map[Finish]FinishPrice `json:"prices"`
}

// CardPriceTable holds all the quotes of a card for one side
type CardPriceTable struct {
	CardId string `json:"card_id"`

	// Vendors in the order they were received, each id appears once
	Vendors []VendorQuote `json:"vendors"`
}

// Quote returns the quote for the given vendor, if present
func (table CardPriceTable) Quote(vendorId string) (VendorQuote, bool) {
	for _, quote := range table.Vendors {
		if quote.VendorId == vendorId {
			return quote, true
		}
	}
	return VendorQuote{}, false
}

// EmptyTable returns a table with no vendors for the given card
func EmptyTable(cardId string) CardPriceTable {
	return CardPriceTable{
		CardId:  cardId,
		Vendors: []VendorQuote{},
	}
}

// PricePoint is a price and the vendor offering it
type PricePoint struct {
	Price    float64 `json:"price"`
	Vendor   string  `json:"vendor"`
	VendorId string  `json:"vendor_id"`
}

// AggregatedSummary contains the best prices for each finish
type AggregatedSummary struct {
	LowestRetail   map[Finish]PricePoint `json:"lowest_retail"`
	HighestBuylist map[Finish]PricePoint `json:"highest_buylist"`

	// Buylist price as a percentage of the retail price, two decimals
	Spread map[Finish]float64 `json:"spread"`
}

// CardWithPrices is the complete pricing information of a card
type CardWithPrices struct {
	Id     string `json:"id"`
	Name   string `json:"name"`
	Set    string `json:"set"`
	Number string `json:"number"`

	Retail     CardPriceTable    `json:"retail"`
	Buylist    CardPriceTable    `json:"buylist"`
	Aggregated AggregatedSummary `json:"aggregated"`
}

// InventoryEntry represents an entry for selling a particular card
type InventoryEntry struct {
	// Quantity of this entry
	Quantity int `json:"quantity"`

	// The grade of the current entry
	Conditions string `json:"conditions"`

	// The price of this entry, in USD
	Price float64 `json:"price"`

	// The link for this entry on the vendor website (if available)
	URL string `json:"url"`
}

// BuylistEntry represents an entry for buying a particular card
type BuylistEntry struct {
	// Quantity of this entry
	Quantity int `json:"quantity"`

	// The grade of the current entry, if empty it is considered "NM"
	Conditions string `json:"conditions"`

	// The price at which this entry is bought, in USD
	BuyPrice float64 `json:"buy_price"`

	// The ratio between the sale and buy prices, indicating desiderability
	// of the entry by the provider
	PriceRatio float64 `json:"price_ratio,omitempty"`

	// The link for this entry on the vendor website (if available)
	URL string `json:"url"`
}

// ReferenceEntry is a market price used when no buylist offer is present
type ReferenceEntry struct {
	Price float64 `json:"price"`
	URL   string  `json:"url"`
}

// ReferenceSource provides reference prices for cards
type ReferenceSource interface {
	Reference(cardId string, finish Finish) (ReferenceEntry, bool)
}

// SussyList flags cards whose reference price is known to be unreliable
type SussyList map[string]float64

// Has reports whether the card is present in the list
func (sl SussyList) Has(cardId string) bool {
	_, found := sl[cardId]
	return found
}
