package quotes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func finnhubStub(t *testing.T, hits *int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits != nil {
			*hits++
		}
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/stock/profile2":
			if r.URL.Query().Get("symbol") == "AAPL" {
				w.Write([]byte(`{"name":"Apple Inc","ticker":"AAPL"}`))
				return
			}
			w.Write([]byte(`{}`))
		case "/quote":
			if r.URL.Query().Get("symbol") == "AAPL" {
				w.Write([]byte(`{"c":150.25}`))
				return
			}
			w.Write([]byte(`{"c":0}`))
		case "/search":
			w.Write([]byte(`{"result":[{"symbol":"AAPL","description":"APPLE INC","type":"Common Stock"},{"symbol":"AAPL.SW","description":"APPLE INC","type":"Common Stock"}]}`))
		case "/stock/symbol":
			w.Write([]byte(`[{"symbol":"AAPL"},{"symbol":"NFLX"}]`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
}

func TestLookup(t *testing.T) {
	srv := finnhubStub(t, nil)
	defer srv.Close()

	client := &FinnhubClient{APIKey: "test", BaseURL: srv.URL}
	q, err := client.Lookup(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.Equal(t, "Apple Inc", q.Name)
	assert.Equal(t, "AAPL", q.Symbol)
	assert.True(t, q.Price.Equal(decimal.RequireFromString("150.25")), q.Price.String())
}

func TestLookup_UnknownSymbol(t *testing.T) {
	srv := finnhubStub(t, nil)
	defer srv.Close()

	client := &FinnhubClient{APIKey: "test", BaseURL: srv.URL}
	_, err := client.Lookup(context.Background(), "NOPE")
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestLookup_TransportError(t *testing.T) {
	srv := finnhubStub(t, nil)
	srv.Close() // refuse connections

	client := &FinnhubClient{APIKey: "test", BaseURL: srv.URL}
	_, err := client.Lookup(context.Background(), "AAPL")
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestLookup_CacheHit(t *testing.T) {
	hits := 0
	srv := finnhubStub(t, &hits)
	defer srv.Close()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	client := &FinnhubClient{APIKey: "test", BaseURL: srv.URL, Rdb: rdb}

	_, err = client.Lookup(context.Background(), "AAPL")
	require.NoError(t, err)
	firstHits := hits

	q, err := client.Lookup(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.Equal(t, firstHits, hits, "second lookup should be served from cache")
	assert.True(t, q.Price.Equal(decimal.RequireFromString("150.25")))
}

func TestSearch_FiltersToUSUniverse(t *testing.T) {
	srv := finnhubStub(t, nil)
	defer srv.Close()

	client := &FinnhubClient{APIKey: "test", BaseURL: srv.URL}
	results, err := client.Search(context.Background(), "apple")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "AAPL", results[0].Symbol)
}
