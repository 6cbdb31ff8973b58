package mtgban

import (
	"encoding/json"
	"io"
	"sort"

	"github.com/samber/lo"
	"github.com/scizorman/go-ndjson"
)

type cardsJSON struct {
	Cards map[string]CardWithPrices `json:"cards"`
	Arbit []ArbitEntry              `json:"arbit,omitempty"`
}

func WriteCardsToJSON(cards map[string]CardWithPrices, arbit []ArbitEntry, w io.Writer) error {
	data := cardsJSON{
		Cards: cards,
		Arbit: arbit,
	}
	return json.NewEncoder(w).Encode(&data)
}

func ReadCardsFromJSON(r io.Reader) (map[string]CardWithPrices, []ArbitEntry, error) {
	var data cardsJSON

	err := json.NewDecoder(r).Decode(&data)
	if err != nil {
		return nil, nil, err
	}

	return data.Cards, data.Arbit, nil
}

// One line per vendor quote
type quoteElement struct {
	CardId string `json:"card_id"`
	Side   string `json:"side"`
	VendorQuote
}

func WriteCardsToNDJSON(cards map[string]CardWithPrices, w io.Writer) error {
	ids := lo.Keys(cards)
	sort.Strings(ids)

	var flat []quoteElement
	for _, id := range ids {
		for _, quote := range cards[id].Retail.Vendors {
			flat = append(flat, quoteElement{
				CardId:      id,
				Side:        "retail",
				VendorQuote: quote,
			})
		}
		for _, quote := range cards[id].Buylist.Vendors {
			flat = append(flat, quoteElement{
				CardId:      id,
				Side:        "buylist",
				VendorQuote: quote,
			})
		}
	}

	output, err := ndjson.Marshal(flat)
	if err != nil {
		return err
	}

	_, err = w.Write(output)
	return err
}

func WriteArbitrageToNDJSON(arbitrage []ArbitEntry, w io.Writer) error {
	output, err := ndjson.Marshal(arbitrage)
	if err != nil {
		return err
	}

	_, err = w.Write(output)
	return err
}
