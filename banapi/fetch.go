package banapi

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/mtgban/go-banprice/mtgban"
)

// CardRef identifies a card to fetch, the descriptive fields are copied
// as they are in the result
type CardRef struct {
	Id     string `json:"id"`
	Name   string `json:"name,omitempty"`
	Set    string `json:"set,omitempty"`
	Number string `json:"number,omitempty"`
}

// Card assembles the tables of a card from both sides of the prices
func (p *Prices) Card(ref CardRef, names mtgban.VendorNames) mtgban.CardWithPrices {
	retail := names.BuildTable(ref.Id, p.Retail[ref.Id])
	buylist := names.BuildTable(ref.Id, p.Buylist[ref.Id])

	return mtgban.CardWithPrices{
		Id:         ref.Id,
		Name:       ref.Name,
		Set:        ref.Set,
		Number:     ref.Number,
		Retail:     retail,
		Buylist:    buylist,
		Aggregated: mtgban.Aggregate(retail, buylist),
	}
}

// Cards assembles every card present in either side of the prices
func (p *Prices) Cards(names mtgban.VendorNames) map[string]mtgban.CardWithPrices {
	out := map[string]mtgban.CardWithPrices{}
	for _, side := range []mtgban.RawPrices{p.Retail, p.Buylist} {
		for cardId := range side {
			_, found := out[cardId]
			if found {
				continue
			}
			out[cardId] = p.Card(CardRef{Id: cardId}, names)
		}
	}
	return out
}

// FetchCardWithPrices retrieves both sides of a card at the same time,
// with condition prices. A card without any quote is returned with empty
// tables.
func (c *Client) FetchCardWithPrices(ctx context.Context, ref CardRef, params RequestParams) (*mtgban.CardWithPrices, error) {
	if ref.Id == "" {
		return nil, &ValidationError{Field: "id", Message: "card id is required"}
	}
	params.Conds = true

	var retail, buylist *Prices

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		retail, err = c.FetchPrices(gctx, EndpointRetail, ref.Id, params)
		return err
	})
	g.Go(func() error {
		var err error
		buylist, err = c.FetchPrices(gctx, EndpointBuylist, ref.Id, params)
		return err
	})
	err := g.Wait()
	if err != nil {
		return nil, err
	}

	prices := &Prices{
		Meta:    retail.Meta,
		Retail:  retail.Retail,
		Buylist: buylist.Buylist,
	}
	card := prices.Card(ref, c.names())
	return &card, nil
}

// FetchSetPrices retrieves all the prices of the cards of an edition
func (c *Client) FetchSetPrices(ctx context.Context, setCode string, params RequestParams) (map[string]mtgban.CardWithPrices, error) {
	if setCode == "" {
		return nil, &ValidationError{Field: "set", Message: "set code is required"}
	}

	prices, err := c.FetchPrices(ctx, EndpointAll, setCode, params)
	if err != nil {
		return nil, err
	}

	cards := prices.Cards(c.names())
	for cardId, card := range cards {
		card.Set = setCode
		cards[cardId] = card
	}
	return cards, nil
}

type cardResult struct {
	card mtgban.CardWithPrices
	ok   bool
}

// FetchMultipleCards retrieves several cards concurrently. Cards that fail
// to load are logged and left out of the result.
func (c *Client) FetchMultipleCards(ctx context.Context, refs []CardRef, params RequestParams) map[string]mtgban.CardWithPrices {
	workers := c.MaxConcurrency
	if workers <= 0 {
		workers = DefaultConcurrency
	}

	var wg sync.WaitGroup
	refChannel := make(chan CardRef)
	channelOut := make(chan cardResult)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			for ref := range refChannel {
				card, ok := WithFallback(func() (*mtgban.CardWithPrices, error) {
					return c.FetchCardWithPrices(ctx, ref, params)
				}, nil, c.printf, "Unable to fetch "+ref.Id)
				if !ok || card == nil {
					channelOut <- cardResult{}
					continue
				}
				channelOut <- cardResult{card: *card, ok: true}
			}
			wg.Done()
		}()
	}

	go func() {
		for _, ref := range refs {
			refChannel <- ref
		}
		close(refChannel)

		wg.Wait()
		close(channelOut)
	}()

	out := map[string]mtgban.CardWithPrices{}
	for result := range channelOut {
		if !result.ok {
			continue
		}
		out[result.card.Id] = result.card
	}
	return out
}

// WithFallback runs fn, and on error logs it and returns the fallback value.
// The second return value reports whether fn succeeded.
func WithFallback[T any](fn func() (T, error), fallback T, logf mtgban.LogCallbackFunc, msg string) (T, bool) {
	result, err := fn()
	if err != nil {
		if logf != nil {
			logf("%s: %s", msg, err)
		}
		return fallback, false
	}
	return result, true
}
