package banapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

type testServer struct {
	sync.Mutex
	queries []string
}

// Serves one card per id, card "2" is always unavailable and card "empty"
// has no quotes at all
func (ts *testServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ts.Lock()
	ts.queries = append(ts.queries, r.URL.String())
	ts.Unlock()

	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	if len(parts) != 2 {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	endpoint := parts[0]
	id := strings.TrimSuffix(parts[1], ".json")

	if r.URL.Query().Get("sig") != "secret" {
		fmt.Fprint(w, `{"error": "invalid signature"}`)
		return
	}

	switch id {
	case "2":
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	case "empty":
		fmt.Fprintf(w, `{"error": "", "%s": {}}`, endpoint)
		return
	case "moved":
		http.Redirect(w, r, "https://example.com/", http.StatusMovedPermanently)
		return
	}

	switch endpoint {
	case "retail":
		fmt.Fprintf(w, `{"error": "", "retail": {"%s": {"CK": {"regular": 10.0}, "TCG": {"regular": 8.0}}}}`, id)
	case "buylist":
		fmt.Fprintf(w, `{"error": "", "buylist": {"%s": {"CK": {"regular": 6.0}}}}`, id)
	case "all":
		fmt.Fprint(w, `{"error": "", "retail": {"a": {"CK": {"regular": 1.0}}}, "buylist": {"b": {"CK": {"regular": 0.5}}}}`)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func newTestClient(t *testing.T) (*Client, *testServer) {
	ts := &testServer{}
	server := httptest.NewServer(ts)
	t.Cleanup(server.Close)

	client := NewClient("secret")
	client.BaseURL = server.URL
	client.LogCallback = t.Logf
	return client, ts
}

func TestFetchCardWithPrices(t *testing.T) {
	client, ts := newTestClient(t)

	card, err := client.FetchCardWithPrices(context.Background(), CardRef{Id: "1", Name: "Lightning Bolt"}, RequestParams{})
	if err != nil {
		t.Errorf("FAIL: unexpected error: %s", err)
		return
	}
	if card.Id != "1" || card.Name != "Lightning Bolt" {
		t.Errorf("FAIL: card reference not copied: %+v", card)
		return
	}
	if len(card.Retail.Vendors) != 2 || len(card.Buylist.Vendors) != 1 {
		t.Errorf("FAIL: wrong tables: %+v", card)
		return
	}

	summary := card.Aggregated
	if summary.LowestRetail["regular"].Vendor != "TCGPlayer" || summary.HighestBuylist["regular"].Vendor != "Card Kingdom" {
		t.Errorf("FAIL: wrong summary: %+v", summary)
		return
	}
	if summary.Spread["regular"] != 75.0 {
		t.Errorf("FAIL: expected spread 75.00, got %v", summary.Spread["regular"])
		return
	}

	ts.Lock()
	defer ts.Unlock()
	if len(ts.queries) != 2 {
		t.Errorf("FAIL: expected 2 queries, got %d", len(ts.queries))
		return
	}
	for _, query := range ts.queries {
		if !strings.Contains(query, "conds=true") {
			t.Errorf("FAIL: conditions not requested in %s", query)
			return
		}
	}

	t.Log("PASS: FetchCardWithPrices")
}

func TestFetchCardEmpty(t *testing.T) {
	client, _ := newTestClient(t)

	card, err := client.FetchCardWithPrices(context.Background(), CardRef{Id: "empty"}, RequestParams{})
	if err != nil {
		t.Errorf("FAIL: unexpected error: %s", err)
		return
	}
	if card.Retail.Vendors == nil || len(card.Retail.Vendors) != 0 || len(card.Buylist.Vendors) != 0 {
		t.Errorf("FAIL: expected empty tables, got %+v", card)
		return
	}
	if len(card.Aggregated.Spread) != 0 {
		t.Errorf("FAIL: expected empty summary")
		return
	}

	t.Log("PASS: FetchCardEmpty")
}

func TestFetchErrors(t *testing.T) {
	client, _ := newTestClient(t)
	ctx := context.Background()

	_, err := client.FetchCardWithPrices(ctx, CardRef{}, RequestParams{})
	var valErr *ValidationError
	if !errors.As(err, &valErr) {
		t.Errorf("FAIL: expected ValidationError, got %v", err)
		return
	}
	_, err = client.FetchSetPrices(ctx, "", RequestParams{})
	if !errors.As(err, &valErr) {
		t.Errorf("FAIL: expected ValidationError, got %v", err)
		return
	}

	_, err = client.FetchPrices(ctx, EndpointRetail, "2", RequestParams{})
	var httpErr *HTTPError
	if !errors.As(err, &httpErr) || httpErr.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("FAIL: expected 503 HTTPError, got %v", err)
		return
	}

	// Redirects are not followed
	_, err = client.FetchPrices(ctx, EndpointRetail, "moved", RequestParams{})
	if !errors.As(err, &httpErr) || httpErr.Reason != "Request must be made over HTTPS" {
		t.Errorf("FAIL: expected 301 HTTPError, got %v", err)
		return
	}

	client.Signature = "wrong"
	_, err = client.FetchPrices(ctx, EndpointRetail, "1", RequestParams{})
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Errorf("FAIL: expected APIError, got %v", err)
		return
	}

	t.Log("PASS: FetchErrors")
}

func TestFetchSetPrices(t *testing.T) {
	client, _ := newTestClient(t)

	cards, err := client.FetchSetPrices(context.Background(), "MH2", RequestParams{})
	if err != nil {
		t.Errorf("FAIL: unexpected error: %s", err)
		return
	}
	if len(cards) != 2 {
		t.Errorf("FAIL: expected cards from both sides, got %d", len(cards))
		return
	}
	if cards["a"].Set != "MH2" || len(cards["a"].Retail.Vendors) != 1 || len(cards["a"].Buylist.Vendors) != 0 {
		t.Errorf("FAIL: wrong card a: %+v", cards["a"])
		return
	}
	if len(cards["b"].Buylist.Vendors) != 1 {
		t.Errorf("FAIL: wrong card b: %+v", cards["b"])
		return
	}

	t.Log("PASS: FetchSetPrices")
}

func TestFetchMultipleCards(t *testing.T) {
	client, _ := newTestClient(t)
	client.MaxConcurrency = 2

	refs := []CardRef{{Id: "1"}, {Id: "2"}, {Id: "3"}}
	cards := client.FetchMultipleCards(context.Background(), refs, RequestParams{})
	if len(cards) != 2 {
		t.Errorf("FAIL: expected 2 cards, got %d", len(cards))
		return
	}
	for _, id := range []string{"1", "3"} {
		card, found := cards[id]
		if !found || card.Id != id {
			t.Errorf("FAIL: card %s missing", id)
			return
		}
	}
	_, found := cards["2"]
	if found {
		t.Errorf("FAIL: failed card should be omitted")
		return
	}

	t.Log("PASS: FetchMultipleCards")
}

func TestWithFallback(t *testing.T) {
	var logged []string
	logf := func(format string, a ...interface{}) {
		logged = append(logged, fmt.Sprintf(format, a...))
	}

	value, ok := WithFallback(func() (int, error) {
		return 0, errors.New("boom")
	}, -1, logf, "failing")
	if ok || value != -1 {
		t.Errorf("FAIL: expected fallback, got %d %v", value, ok)
		return
	}
	if len(logged) != 1 || logged[0] != "failing: boom" {
		t.Errorf("FAIL: unexpected log %v", logged)
		return
	}

	value, ok = WithFallback(func() (int, error) {
		return 42, nil
	}, -1, logf, "working")
	if !ok || value != 42 {
		t.Errorf("FAIL: expected 42, got %d %v", value, ok)
		return
	}

	t.Log("PASS: WithFallback")
}

func TestRedirectURL(t *testing.T) {
	client := NewClient("")
	if client.RedirectURL("CK", "abc") != "https://www.mtgban.com/go/CK/abc" {
		t.Errorf("FAIL: unexpected redirect %q", client.RedirectURL("CK", "abc"))
		return
	}

	t.Log("PASS: RedirectURL")
}
