package tcgplayer

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	tcgplayer "github.com/mtgban/go-tcgplayer"

	"github.com/mtgban/go-banprice/mtgban"
)

// Index names, sorted as the prices returned by the market endpoint
var AvailableIndexNames = []string{
	"TCG Low", "TCG Market", "TCG Mid", "TCG Direct Low",
}

const DefaultIndex = "TCG Market"

// MarketReference provides reference prices from the TCGplayer market
// data, keyed by TCGplayer product id (ie the API queried with id=tcg)
type MarketReference struct {
	LogCallback mtgban.LogCallbackFunc

	// Partner code added to the generated links
	Affiliate string

	// One of AvailableIndexNames, DefaultIndex if empty
	Index string

	prices map[string]map[mtgban.Finish]float64

	client *tcgplayer.Client
}

func (tcg *MarketReference) printf(format string, a ...interface{}) {
	if tcg.LogCallback != nil {
		tcg.LogCallback("[TCGRef] "+format, a...)
	}
}

func NewMarketReference(publicId, privateId string) (*MarketReference, error) {
	if publicId == "" || privateId == "" {
		return nil, fmt.Errorf("missing authentication data")
	}
	tcg := MarketReference{}
	tcg.prices = map[string]map[mtgban.Finish]float64{}
	tcg.client = tcgplayer.NewClient(publicId, privateId)
	return &tcg, nil
}

func (tcg *MarketReference) indexPosition() int {
	index := tcg.Index
	if index == "" {
		index = DefaultIndex
	}
	for i, name := range AvailableIndexNames {
		if name == index {
			return i
		}
	}
	return -1
}

// Load retrieves the market prices of the given products. Ids that are
// not numeric are skipped.
func (tcg *MarketReference) Load(productIds []string) error {
	if tcg.client == nil {
		return errors.New("client not initialized")
	}
	pos := tcg.indexPosition()
	if pos < 0 {
		return fmt.Errorf("unknown index %q", tcg.Index)
	}

	var ids []int
	for _, productId := range productIds {
		id, err := strconv.Atoi(productId)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}

	for i := 0; i < len(ids); i += tcgplayer.MaxIdsInRequest {
		start := i
		end := i + tcgplayer.MaxIdsInRequest
		if end > len(ids) {
			end = len(ids)
		}

		results, err := tcg.client.GetMarketPricesByProducts(ids[start:end])
		if err != nil {
			return err
		}

		for _, result := range results {
			// These are sorted as in AvailableIndexNames
			prices := []float64{
				result.LowPrice, result.MarketPrice, result.MidPrice, result.DirectLowPrice,
			}
			tcg.addPrice(fmt.Sprint(result.ProductId), result.SubTypeName, prices[pos])
		}
	}

	tcg.printf("Loaded %d prices for %d products", tcg.Len(), len(ids))
	return nil
}

func finishFromSubType(subType string) (mtgban.Finish, bool) {
	switch {
	case subType == "Normal":
		return mtgban.FinishRegular, true
	case subType == "Foil":
		return mtgban.FinishFoil, true
	case strings.Contains(strings.ToLower(subType), "etched"):
		return mtgban.FinishEtched, true
	}
	return "", false
}

func (tcg *MarketReference) addPrice(productId, subType string, price float64) {
	if price <= 0 {
		return
	}
	finish, ok := finishFromSubType(subType)
	if !ok {
		tcg.printf("Unsupported printing %q for %s", subType, productId)
		return
	}
	if tcg.prices == nil {
		tcg.prices = map[string]map[mtgban.Finish]float64{}
	}
	if tcg.prices[productId] == nil {
		tcg.prices[productId] = map[mtgban.Finish]float64{}
	}
	tcg.prices[productId][finish] = price
}

// Len returns the number of prices loaded
func (tcg *MarketReference) Len() int {
	var count int
	for _, prices := range tcg.prices {
		count += len(prices)
	}
	return count
}

func (tcg *MarketReference) Reference(cardId string, finish mtgban.Finish) (mtgban.ReferenceEntry, bool) {
	price, found := tcg.prices[cardId][finish]
	if !found {
		return mtgban.ReferenceEntry{}, false
	}
	productId, err := strconv.Atoi(cardId)
	if err != nil {
		return mtgban.ReferenceEntry{}, false
	}

	return mtgban.ReferenceEntry{
		Price: price,
		URL:   TCGPlayerProductURL(productId, printingName(finish), tcg.Affiliate, "", ""),
	}, true
}
