package mtgban

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/samber/lo"
)

var (
	// The canonical header that will be present in all price table files
	TableHeader = []string{
		"Key", "Side", "Vendor", "Vendor Name", "Finish", "Price", "Quantity", "Conditions",
	}

	// The canonical header that will be present in all summary files
	SummaryHeader = []string{
		"Key", "Name", "Finish", "Lowest Retail", "Retail Vendor", "Highest Buylist", "Buylist Vendor", "Spread",
	}

	ArbitHeader = []string{
		"Key", "F/NF", "Conditions", "Sell Price", "Buy Price", "Trade Price", "Reference Price", "Difference", "Spread", "Price Ratio", "Profitability", "Caution",
	}
)

func writeTableRows(csvWriter *csv.Writer, side string, table CardPriceTable) error {
	for _, vendor := range table.Vendors {
		for _, finish := range AllFinishes {
			fp, found := vendor.Prices[finish]
			if !found {
				continue
			}

			qty := ""
			if fp.Quantity != nil {
				qty = fmt.Sprint(*fp.Quantity)
			}
			conds := ""
			for i, cond := range fp.SortedConditions() {
				if i > 0 {
					conds += " "
				}
				conds += fmt.Sprintf("%s:%0.2f", cond, fp.Conditions[cond])
			}

			err := csvWriter.Write([]string{
				table.CardId,
				side,
				vendor.VendorId,
				vendor.Name,
				string(finish),
				fmt.Sprintf("%0.2f", fp.Price),
				qty,
				conds,
			})
			if err != nil {
				return err
			}
		}
	}
	return nil
}

func WriteCardsToCSV(cards map[string]CardWithPrices, w io.Writer) error {
	if len(cards) == 0 {
		return errors.New("no cards to write")
	}

	csvWriter := csv.NewWriter(w)
	defer csvWriter.Flush()

	err := csvWriter.Write(TableHeader)
	if err != nil {
		return err
	}

	ids := lo.Keys(cards)
	sort.Strings(ids)
	for _, id := range ids {
		err = writeTableRows(csvWriter, "retail", cards[id].Retail)
		if err != nil {
			return err
		}
		err = writeTableRows(csvWriter, "buylist", cards[id].Buylist)
		if err != nil {
			return err
		}
		csvWriter.Flush()
	}

	return csvWriter.Error()
}

func WriteSummaryToCSV(cards map[string]CardWithPrices, w io.Writer) error {
	csvWriter := csv.NewWriter(w)
	defer csvWriter.Flush()

	err := csvWriter.Write(SummaryHeader)
	if err != nil {
		return err
	}

	ids := lo.Keys(cards)
	sort.Strings(ids)
	for _, id := range ids {
		card := cards[id]
		for _, finish := range AllFinishes {
			low, hasLow := card.Aggregated.LowestRetail[finish]
			high, hasHigh := card.Aggregated.HighestBuylist[finish]
			if !hasLow && !hasHigh {
				continue
			}

			record := []string{id, card.Name, string(finish), "", "", "", "", ""}
			if hasLow {
				record[3] = fmt.Sprintf("%0.2f", low.Price)
				record[4] = low.Vendor
			}
			if hasHigh {
				record[5] = fmt.Sprintf("%0.2f", high.Price)
				record[6] = high.Vendor
			}
			spread, found := card.Aggregated.Spread[finish]
			if found {
				record[7] = fmt.Sprintf("%0.2f%%", spread)
			}

			err = csvWriter.Write(record)
			if err != nil {
				return err
			}
		}
		csvWriter.Flush()
	}

	return csvWriter.Error()
}

func WriteArbitrageToCSV(arbitrage []ArbitEntry, w io.Writer) error {
	csvWriter := csv.NewWriter(w)
	defer csvWriter.Flush()

	err := csvWriter.Write(ArbitHeader)
	if err != nil {
		return err
	}

	for _, entry := range arbitrage {
		inv := entry.InventoryEntry
		bl := entry.BuylistEntry

		foil := ""
		switch entry.Finish {
		case FinishFoil:
			foil = "FOIL"
		case FinishEtched:
			foil = "ETCHED"
		}
		caution := ""
		if entry.Caution() {
			caution = "CAUTION"
		}

		err = csvWriter.Write([]string{
			entry.CardId,
			foil,
			inv.Conditions,
			fmt.Sprintf("%0.2f", inv.Price),
			fmt.Sprintf("%0.2f", bl.BuyPrice),
			fmt.Sprintf("%0.2f", entry.TradePrice),
			fmt.Sprintf("%0.2f", entry.ReferenceEntry.Price),
			fmt.Sprintf("%0.2f", entry.Difference),
			entry.SpreadString(),
			fmt.Sprintf("%0.2f%%", bl.PriceRatio),
			entry.ProfitabilityString(),
			caution,
		})
		if err != nil {
			return err
		}

		csvWriter.Flush()
	}

	return csvWriter.Error()
}
