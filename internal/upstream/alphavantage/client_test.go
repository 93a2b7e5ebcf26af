package alphavantage

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ratescope/api/internal/config"
)

const spotRateBody = `{
	"Realtime Currency Exchange Rate": {
		"1. From_Currency Code": "USD",
		"2. From_Currency Name": "United States Dollar",
		"3. To_Currency Code": "EUR",
		"4. To_Currency Name": "Euro",
		"5. Exchange Rate": "0.92340000",
		"6. Last Refreshed": "2024-05-01 12:00:00"
	}
}`

const dailySeriesBody = `{
	"Meta Data": {"2. From Symbol": "USD", "3. To Symbol": "EUR"},
	"Time Series FX (Daily)": {
		"2024-04-30": {"1. open": "0.9301", "2. high": "0.9350", "3. low": "0.9290", "4. close": "0.9333"},
		"2024-05-01": {"1. open": "0.9333", "2. high": "0.9360", "3. low": "0.9310", "4. close": "0.9234"}
	}
}`

const rateLimitBody = `{"Note": "Thank you for using Alpha Vantage! Our standard API call frequency is 25 requests per day."}`

const providerErrorBody = `{"Error Message": "the parameter apikey is invalid or missing."}`

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client := New(config.AlphaVantageConfig{
		APIKey:  "test-key",
		BaseURL: srv.URL,
	}, zerolog.Nop())
	return client, srv
}

func staticBody(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}
}

func TestSpotRateSuccess(t *testing.T) {
	var gotQuery string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		_, _ = w.Write([]byte(spotRateBody))
	})

	payload, err := client.SpotRate(context.Background(), "USD", "EUR")
	require.NoError(t, err)

	assert.Equal(t, KindSuccess, payload.Kind)
	assert.Equal(t, "USD", payload.Quote.From)
	assert.Equal(t, "EUR", payload.Quote.To)
	assert.InDelta(t, 0.9234, payload.Quote.Rate, 1e-9)
	assert.Equal(t, "2024-05-01 12:00:00", payload.Quote.LastRefreshed)

	assert.Contains(t, gotQuery, "function=CURRENCY_EXCHANGE_RATE")
	assert.Contains(t, gotQuery, "from_currency=USD")
	assert.Contains(t, gotQuery, "apikey=test-key")
}

func TestSpotRateRateLimited(t *testing.T) {
	client, _ := newTestClient(t, staticBody(rateLimitBody))

	payload, err := client.SpotRate(context.Background(), "USD", "EUR")
	require.NoError(t, err)

	assert.Equal(t, KindRateLimited, payload.Kind)
	assert.Contains(t, payload.Note, "API call frequency")
}

func TestSpotRateProviderError(t *testing.T) {
	client, _ := newTestClient(t, staticBody(providerErrorBody))

	payload, err := client.SpotRate(context.Background(), "USD", "EUR")
	require.NoError(t, err)

	assert.Equal(t, KindProviderError, payload.Kind)
	assert.Contains(t, payload.ErrorMessage, "apikey is invalid")
}

func TestSpotRateMalformed(t *testing.T) {
	client, _ := newTestClient(t, staticBody(`{"unexpected": "shape"}`))

	payload, err := client.SpotRate(context.Background(), "USD", "EUR")
	require.NoError(t, err)

	assert.Equal(t, KindMalformed, payload.Kind)
}

func TestSpotRateNotConfigured(t *testing.T) {
	client := New(config.AlphaVantageConfig{BaseURL: "http://127.0.0.1:1"}, zerolog.Nop())

	_, err := client.SpotRate(context.Background(), "USD", "EUR")
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestSpotRateHTTPFailure(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	_, err := client.SpotRate(context.Background(), "USD", "EUR")
	assert.Error(t, err)
}

func TestDailySeriesSuccess(t *testing.T) {
	client, _ := newTestClient(t, staticBody(dailySeriesBody))

	payload, err := client.DailySeries(context.Background(), "USD", "EUR")
	require.NoError(t, err)

	require.Equal(t, KindSuccess, payload.Kind)
	require.Len(t, payload.Series, 2)

	// newest observation first
	assert.Equal(t, "2024-05-01", payload.Series[0].Date)
	assert.InDelta(t, 0.9234, payload.Series[0].Close, 1e-9)
	assert.Equal(t, "2024-04-30", payload.Series[1].Date)
	assert.InDelta(t, 0.9301, payload.Series[1].Open, 1e-9)
}

func TestDailySeriesMissingSeriesKey(t *testing.T) {
	client, _ := newTestClient(t, staticBody(`{"Meta Data": {}}`))

	payload, err := client.DailySeries(context.Background(), "USD", "EUR")
	require.NoError(t, err)

	assert.Equal(t, KindMalformed, payload.Kind)
}

func TestDailySeriesRateLimited(t *testing.T) {
	client, _ := newTestClient(t, staticBody(rateLimitBody))

	payload, err := client.DailySeries(context.Background(), "USD", "EUR")
	require.NoError(t, err)

	assert.Equal(t, KindRateLimited, payload.Kind)
}
