package banapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/mtgban/go-banprice/mtgban"
)

type Meta struct {
	Date    time.Time `json:"date"`
	Version string    `json:"version"`
	BaseURL string    `json:"base_url"`
}

// Response is the envelope of every API reply. The sides are kept raw so
// that the vendor order of each card can be preserved while decoding.
type Response struct {
	Error   string          `json:"error,omitempty"`
	Meta    Meta            `json:"meta"`
	Retail  json.RawMessage `json:"retail,omitempty"`
	Buylist json.RawMessage `json:"buylist,omitempty"`
}

// Prices is a fully decoded response
type Prices struct {
	Meta    Meta
	Retail  mtgban.RawPrices
	Buylist mtgban.RawPrices
}

// Side returns the prices for the endpoint, retail unless buylist
func (p *Prices) Side(endpoint Endpoint) mtgban.RawPrices {
	if endpoint == EndpointBuylist {
		return p.Buylist
	}
	return p.Retail
}

// ParseResponse decodes the envelope and checks for API errors
func ParseResponse(data []byte) (*Response, error) {
	var response Response
	err := json.Unmarshal(data, &response)
	if err != nil {
		return nil, fmt.Errorf("unable to decode response: %w", err)
	}
	if response.Error != "" {
		return nil, &APIError{Message: response.Error}
	}
	return &response, nil
}

// Side decodes the requested side of the response. An absent side is
// returned as an empty set of prices.
func (r *Response) Side(endpoint Endpoint) (mtgban.RawPrices, error) {
	raw := r.Retail
	if endpoint == EndpointBuylist {
		raw = r.Buylist
	}
	return decodeSide(raw)
}

// Decode returns the prices of one side of the payload
func Decode(data []byte, endpoint Endpoint) (mtgban.RawPrices, error) {
	response, err := ParseResponse(data)
	if err != nil {
		return nil, err
	}
	return response.Side(endpoint)
}

// DecodeAll returns both sides of the payload
func DecodeAll(data []byte) (*Prices, error) {
	response, err := ParseResponse(data)
	if err != nil {
		return nil, err
	}

	retail, err := response.Side(EndpointRetail)
	if err != nil {
		return nil, fmt.Errorf("retail: %w", err)
	}
	buylist, err := response.Side(EndpointBuylist)
	if err != nil {
		return nil, fmt.Errorf("buylist: %w", err)
	}

	return &Prices{
		Meta:    response.Meta,
		Retail:  retail,
		Buylist: buylist,
	}, nil
}

// DecodeResponse checks the status of an http response and decodes the
// requested side of its body
func DecodeResponse(resp *http.Response, endpoint Endpoint) (mtgban.RawPrices, error) {
	data, err := readResponse(resp)
	if err != nil {
		return nil, err
	}
	return Decode(data, endpoint)
}

func readResponse(resp *http.Response) ([]byte, error) {
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, NewHTTPError(resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	return data, nil
}

// Decode a {card: {vendor: entry}} object keeping the order of vendors
func decodeSide(raw json.RawMessage) (mtgban.RawPrices, error) {
	out := mtgban.RawPrices{}

	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return out, nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	err := expectDelim(dec, '{')
	if err != nil {
		return nil, err
	}
	for dec.More() {
		cardId, err := keyToken(dec)
		if err != nil {
			return nil, err
		}
		entries, err := decodeVendors(dec)
		if err != nil {
			return nil, fmt.Errorf("card %s: %w", cardId, err)
		}
		out[cardId] = entries
	}
	err = expectDelim(dec, '}')
	if err != nil {
		return nil, err
	}

	return out, nil
}

func decodeVendors(dec *json.Decoder) (mtgban.VendorEntries, error) {
	entries := mtgban.VendorEntries{}

	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if tok == nil {
		return entries, nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("unexpected token %v", tok)
	}

	for dec.More() {
		vendorId, err := keyToken(dec)
		if err != nil {
			return nil, err
		}
		var entry mtgban.PriceEntry
		err = dec.Decode(&entry)
		if err != nil {
			return nil, fmt.Errorf("vendor %s: %w", vendorId, err)
		}
		entries = append(entries, mtgban.VendorEntry{
			VendorId: vendorId,
			Entry:    entry,
		})
	}

	return entries, expectDelim(dec, '}')
}

func keyToken(dec *json.Decoder) (string, error) {
	tok, err := dec.Token()
	if err != nil {
		return "", err
	}
	key, ok := tok.(string)
	if !ok {
		return "", fmt.Errorf("unexpected token %v", tok)
	}
	return key, nil
}

func expectDelim(dec *json.Decoder, expected json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	delim, ok := tok.(json.Delim)
	if !ok || delim != expected {
		return fmt.Errorf("unexpected token %v, expected %v", tok, expected)
	}
	return nil
}
