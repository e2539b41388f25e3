package quotes

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

// ErrUnavailable covers unknown symbols and transport failures alike; the
// ledger layer does not distinguish the two.
var ErrUnavailable = errors.New("Quote unavailable")

// Quote is the oracle's answer for one symbol.
type Quote struct {
	Name   string          `json:"name"`
	Symbol string          `json:"symbol"`
	Price  decimal.Decimal `json:"price"`
}

// SearchResult is one match from symbol search.
type SearchResult struct {
	Symbol      string `json:"symbol"`
	Description string `json:"description"`
	Type        string `json:"type"`
}

// Client is the price oracle consumed by settlement and valuation.
type Client interface {
	Lookup(ctx context.Context, symbol string) (*Quote, error)
	Search(ctx context.Context, query string) ([]SearchResult, error)
}

const (
	defaultBaseURL   = "https://finnhub.io/api/v1"
	quoteCachePrefix = "quote:"
	quoteCacheTTL    = 5 * time.Minute
)

// FinnhubClient implements Client against finnhub.io. When Rdb is set,
// quotes are cached for a few minutes so repeated portfolio reads don't
// burn API quota.
type FinnhubClient struct {
	APIKey     string
	BaseURL    string
	HTTPClient *http.Client
	Rdb        *redis.Client
}

type finnhubProfile struct {
	Name   string `json:"name"`
	Ticker string `json:"ticker"`
}

type finnhubQuote struct {
	Current float64 `json:"c"`
}

type finnhubSearch struct {
	Result []struct {
		Symbol      string `json:"symbol"`
		Description string `json:"description"`
		Type        string `json:"type"`
	} `json:"result"`
}

type finnhubSymbol struct {
	Symbol string `json:"symbol"`
}

// Lookup fetches company profile and current price for a symbol.
func (f *FinnhubClient) Lookup(ctx context.Context, symbol string) (*Quote, error) {
	if cached := f.cacheGet(ctx, symbol); cached != nil {
		return cached, nil
	}

	var profile finnhubProfile
	if err := f.getJSON(ctx, "/stock/profile2", url.Values{"symbol": {symbol}}, &profile); err != nil {
		return nil, ErrUnavailable
	}

	var quote finnhubQuote
	if err := f.getJSON(ctx, "/quote", url.Values{"symbol": {symbol}}, &quote); err != nil {
		return nil, ErrUnavailable
	}

	// Finnhub answers unknown symbols with an empty profile and a zero quote.
	if profile.Ticker == "" || quote.Current <= 0 {
		return nil, ErrUnavailable
	}

	q := &Quote{
		Name:   profile.Name,
		Symbol: profile.Ticker,
		Price:  decimal.NewFromFloat(quote.Current),
	}
	f.cacheSet(ctx, symbol, q)
	return q, nil
}

// Search returns best-matching symbols, filtered to the US exchange universe.
func (f *FinnhubClient) Search(ctx context.Context, query string) ([]SearchResult, error) {
	var search finnhubSearch
	if err := f.getJSON(ctx, "/search", url.Values{"q": {query}}, &search); err != nil {
		return nil, ErrUnavailable
	}

	var universe []finnhubSymbol
	if err := f.getJSON(ctx, "/stock/symbol", url.Values{"exchange": {"US"}}, &universe); err != nil {
		return nil, ErrUnavailable
	}
	known := make(map[string]bool, len(universe))
	for _, s := range universe {
		known[s.Symbol] = true
	}

	results := make([]SearchResult, 0, len(search.Result))
	for _, r := range search.Result {
		if !known[r.Symbol] {
			continue
		}
		results = append(results, SearchResult{
			Symbol:      r.Symbol,
			Description: r.Description,
			Type:        r.Type,
		})
	}
	return results, nil
}

func (f *FinnhubClient) getJSON(ctx context.Context, path string, query url.Values, out interface{}) error {
	base := f.BaseURL
	if base == "" {
		base = defaultBaseURL
	}
	query.Set("token", f.APIKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+path+"?"+query.Encode(), nil)
	if err != nil {
		return err
	}
	client := f.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return errors.New("unexpected status " + resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (f *FinnhubClient) cacheGet(ctx context.Context, symbol string) *Quote {
	if f.Rdb == nil {
		return nil
	}
	b, err := f.Rdb.Get(ctx, quoteCachePrefix+symbol).Bytes()
	if err != nil {
		return nil
	}
	var q Quote
	if err := json.Unmarshal(b, &q); err != nil {
		return nil
	}
	return &q
}

func (f *FinnhubClient) cacheSet(ctx context.Context, symbol string, q *Quote) {
	if f.Rdb == nil {
		return
	}
	b, err := json.Marshal(q)
	if err != nil {
		return
	}
	f.Rdb.Set(ctx, quoteCachePrefix+symbol, b, quoteCacheTTL)
}
