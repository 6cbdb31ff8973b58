// Package banapi talks to the MTGBAN price API: it builds request and
// redirect URLs, decodes the price payloads, and fetches cards and sets
// with per-item failure isolation.
package banapi

import (
	"errors"
	"net/url"
	"strconv"
	"strings"
)

const (
	DefaultBaseURL = "https://www.mtgban.com/api/mtgban"

	DefaultConcurrency = 8
)

// Endpoint selects which side of the prices is requested
type Endpoint string

const (
	EndpointRetail  Endpoint = "retail"
	EndpointBuylist Endpoint = "buylist"
	EndpointAll     Endpoint = "all"
)

func ParseEndpoint(s string) (Endpoint, error) {
	switch Endpoint(strings.ToLower(s)) {
	case EndpointRetail:
		return EndpointRetail, nil
	case EndpointBuylist:
		return EndpointBuylist, nil
	case EndpointAll, "":
		return EndpointAll, nil
	}
	return "", errors.New("unknown endpoint " + s)
}

// IdSystem is the identifier namespace used for the keys of the response
type IdSystem string

const (
	IdTCG      IdSystem = "tcg"
	IdScryfall IdSystem = "scryfall"
	IdMTGJSON  IdSystem = "mtgjson"
	IdMKM      IdSystem = "mkm"
	IdCK       IdSystem = "ck"
	IdMTGBAN   IdSystem = "mtgban"
)

// RequestParams are the query parameters of a request, zero values are
// not sent
type RequestParams struct {
	// API key
	Sig string

	// Identifier namespace of the output keys
	Id IdSystem

	// Include quantities
	Qty bool

	// Only return prices from this vendor
	Vendor string

	// Include per condition prices
	Conds bool
}

// Values returns the query string parameters
func (p RequestParams) Values() url.Values {
	v := url.Values{}
	if p.Sig != "" {
		v.Set("sig", p.Sig)
	}
	if p.Id != "" {
		v.Set("id", string(p.Id))
	}
	if p.Qty {
		v.Set("qty", strconv.FormatBool(p.Qty))
	}
	if p.Vendor != "" {
		v.Set("vendor", p.Vendor)
	}
	if p.Conds {
		v.Set("conds", strconv.FormatBool(p.Conds))
	}
	return v
}

// BuildURL returns the address of the price data of identifier (a card id,
// a set code, or "all") for the given endpoint
func BuildURL(base string, endpoint Endpoint, identifier string, params RequestParams) string {
	link := strings.TrimSuffix(base, "/") + "/" + string(endpoint) + "/" + url.PathEscape(identifier) + ".json"

	query := params.Values().Encode()
	if query != "" {
		link += "?" + query
	}
	return link
}

// BuildRedirectURL returns the link that redirects to the listing of the
// card on the vendor website. The base may be the API address, only its
// scheme and host are used.
func BuildRedirectURL(base, vendorTag, cardId string) string {
	root := strings.TrimSuffix(base, "/")
	u, err := url.Parse(base)
	if err == nil && u.Scheme != "" && u.Host != "" {
		root = u.Scheme + "://" + u.Host
	}
	return root + "/go/" + url.PathEscape(vendorTag) + "/" + url.PathEscape(cardId)
}
