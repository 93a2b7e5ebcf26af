// Package alphavantage wraps the exchange-rate provider. The provider reports
// soft failures (rate limiting, bad API keys) inside HTTP 200 bodies, so every
// response is decoded into an explicit Payload variant right here and callers
// switch on Payload.Kind instead of probing response shapes.
package alphavantage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"

	"ratescope/api/internal/config"
	"ratescope/api/internal/models"
)

var ErrNotConfigured = errors.New("exchange rate provider api key is not configured")

type Kind int

const (
	KindSuccess Kind = iota
	KindRateLimited
	KindProviderError
	KindMalformed
)

// Payload is the decoded form of one provider response. Exactly one of the
// variants applies: Quote/Series carry data for KindSuccess, Note for
// KindRateLimited, ErrorMessage for KindProviderError.
type Payload struct {
	Kind         Kind
	Note         string
	ErrorMessage string
	Quote        models.SpotRate
	Series       []models.Candle
}

type Client struct {
	hc      *http.Client
	baseURL string
	apiKey  string
	log     zerolog.Logger
}

func New(cfg config.AlphaVantageConfig, log zerolog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		hc:      &http.Client{Timeout: timeout},
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		log:     log,
	}
}

// SpotRate fetches the real-time exchange rate between two ISO currency codes.
func (c *Client) SpotRate(ctx context.Context, from, to string) (Payload, error) {
	body, err := c.query(ctx, url.Values{
		"function":      {"CURRENCY_EXCHANGE_RATE"},
		"from_currency": {from},
		"to_currency":   {to},
	})
	if err != nil {
		return Payload{}, err
	}
	return c.classifySpot(from, to, body), nil
}

// DailySeries fetches the recent daily OHLC series for a currency pair.
func (c *Client) DailySeries(ctx context.Context, from, to string) (Payload, error) {
	body, err := c.query(ctx, url.Values{
		"function":    {"FX_DAILY"},
		"from_symbol": {from},
		"to_symbol":   {to},
		"outputsize":  {"compact"},
	})
	if err != nil {
		return Payload{}, err
	}
	return c.classifySeries(body), nil
}

func (c *Client) query(ctx context.Context, params url.Values) ([]byte, error) {
	if c.apiKey == "" {
		return nil, ErrNotConfigured
	}
	params.Set("apikey", c.apiKey)

	reqURL := fmt.Sprintf("%s/query?%s", c.baseURL, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build provider request: %w", err)
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("provider request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("provider status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read provider response: %w", err)
	}
	return body, nil
}

func (c *Client) classifySpot(from, to string, body []byte) Payload {
	if p, ok := c.classifyCommon(body); !ok {
		return p
	}

	rateStr := gjson.GetBytes(body, `Realtime Currency Exchange Rate.5\. Exchange Rate`).String()
	rate, err := strconv.ParseFloat(rateStr, 64)
	if rateStr == "" || err != nil {
		c.log.Warn().Str("from", from).Str("to", to).Msg("provider response missing exchange rate")
		return Payload{Kind: KindMalformed}
	}

	quote := models.SpotRate{
		From:          gjson.GetBytes(body, `Realtime Currency Exchange Rate.1\. From_Currency Code`).String(),
		To:            gjson.GetBytes(body, `Realtime Currency Exchange Rate.3\. To_Currency Code`).String(),
		Rate:          rate,
		LastRefreshed: gjson.GetBytes(body, `Realtime Currency Exchange Rate.6\. Last Refreshed`).String(),
	}
	if quote.From == "" {
		quote.From = from
	}
	if quote.To == "" {
		quote.To = to
	}

	return Payload{Kind: KindSuccess, Quote: quote}
}

func (c *Client) classifySeries(body []byte) Payload {
	if p, ok := c.classifyCommon(body); !ok {
		return p
	}

	series := gjson.GetBytes(body, `Time Series FX (Daily)`)
	if !series.Exists() || !series.IsObject() {
		return Payload{Kind: KindMalformed}
	}

	var candles []models.Candle
	series.ForEach(func(date, fields gjson.Result) bool {
		candles = append(candles, models.Candle{
			Date:  date.String(),
			Open:  fields.Get(`1\. open`).Float(),
			High:  fields.Get(`2\. high`).Float(),
			Low:   fields.Get(`3\. low`).Float(),
			Close: fields.Get(`4\. close`).Float(),
		})
		return true
	})
	// newest first
	sort.Slice(candles, func(i, j int) bool { return candles[i].Date > candles[j].Date })

	return Payload{Kind: KindSuccess, Series: candles}
}

// classifyCommon handles the two soft-failure shapes shared by every provider
// endpoint. It returns ok=false with the terminal payload when one matches.
func (c *Client) classifyCommon(body []byte) (Payload, bool) {
	if msg := gjson.GetBytes(body, `Error Message`).String(); msg != "" {
		c.log.Warn().Str("provider_error", msg).Msg("provider returned error payload")
		return Payload{Kind: KindProviderError, ErrorMessage: msg}, false
	}
	if note := gjson.GetBytes(body, "Note").String(); note != "" {
		c.log.Warn().Str("note", note).Msg("provider rate limit reached")
		return Payload{Kind: KindRateLimited, Note: note}, false
	}
	return Payload{}, true
}
