package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"ratescope/api/internal/service"
	"ratescope/api/internal/upstream/alphavantage"
)

func (h HandlerSet) ExchangeRate(c *gin.Context) {
	from, to, ok := currencyPair(c)
	if !ok {
		return
	}

	quote, err := h.currency.SpotRate(c.Request.Context(), from, to)
	if err != nil {
		h.writeUpstreamError(c, err)
		return
	}

	c.JSON(http.StatusOK, quote)
}

func (h HandlerSet) HistoricalRates(c *gin.Context) {
	from, to, ok := currencyPair(c)
	if !ok {
		return
	}

	series, err := h.currency.History(c.Request.Context(), from, to)
	if err != nil {
		h.writeUpstreamError(c, err)
		return
	}

	c.JSON(http.StatusOK, series)
}

func (h HandlerSet) SupportedCurrencies(c *gin.Context) {
	currencies, err := h.currency.Supported(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("list supported currencies failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch supported currencies"})
		return
	}

	resp := make([]gin.H, 0, len(currencies))
	for _, cur := range currencies {
		resp = append(resp, gin.H{
			"code":   cur.Code,
			"name":   cur.Name,
			"symbol": cur.Symbol,
		})
	}
	c.JSON(http.StatusOK, resp)
}

// CurrencyTest is an operational smoke check exercising one USD→EUR lookup
// through the full upstream error mapping.
func (h HandlerSet) CurrencyTest(c *gin.Context) {
	quote, err := h.currency.SpotRate(c.Request.Context(), "USD", "EUR")
	if err != nil {
		h.writeUpstreamError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"message":   "API is working correctly",
		"testRate":  fmt.Sprintf("USD to EUR: %v", quote.Rate),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// writeUpstreamError maps the currency service's error taxonomy onto HTTP
// status codes. Rate limiting becomes 429; provider errors, malformed data,
// transport failures, and a missing provider key all become 502, since each
// means the provider cannot currently serve data.
func (h HandlerSet) writeUpstreamError(c *gin.Context, err error) {
	var providerErr *service.ProviderError

	switch {
	case errors.Is(err, service.ErrRateLimited):
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "API rate limit exceeded. Please try again later."})
	case errors.As(err, &providerErr):
		c.JSON(http.StatusBadGateway, gin.H{"error": providerErr.Message})
	case errors.Is(err, service.ErrMalformedQuote):
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to fetch valid exchange rate from provider."})
	case errors.Is(err, service.ErrNoHistoricalFix):
		c.JSON(http.StatusBadGateway, gin.H{"error": "No historical data available for this currency pair. This might be due to API limitations or invalid currency codes."})
	case errors.Is(err, alphavantage.ErrNotConfigured):
		c.JSON(http.StatusBadGateway, gin.H{"error": "Exchange rate provider is not configured."})
	default:
		h.log.Error().Err(err).Msg("upstream rate lookup failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to reach exchange rate provider."})
	}
}

func currencyPair(c *gin.Context) (string, string, bool) {
	from := c.Query("from")
	to := c.Query("to")
	if from == "" || to == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing from or to currency"})
		return "", "", false
	}
	return from, to, true
}
