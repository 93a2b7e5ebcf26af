package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"ratescope/api/internal/config"
	"ratescope/api/internal/models"
	"ratescope/api/internal/upstream/alphavantage"
)

var (
	ErrRateLimited     = errors.New("api rate limit exceeded")
	ErrMalformedQuote  = errors.New("failed to fetch valid exchange rate from provider")
	ErrNoHistoricalFix = errors.New("no historical data available for this currency pair")
)

// ProviderError carries the upstream provider's own error message so the API
// layer can surface it verbatim with a 502.
type ProviderError struct {
	Message string
}

func (e *ProviderError) Error() string {
	return e.Message
}

type CurrencyCatalog interface {
	List(ctx context.Context) ([]models.Currency, error)
}

type RateProvider interface {
	SpotRate(ctx context.Context, from, to string) (alphavantage.Payload, error)
	DailySeries(ctx context.Context, from, to string) (alphavantage.Payload, error)
}

type CurrencyService struct {
	provider RateProvider
	catalog  CurrencyCatalog
	cache    *redis.Client
	cfg      *config.AppConfig
	log      zerolog.Logger
}

func NewCurrencyService(provider RateProvider, catalog CurrencyCatalog, cache *redis.Client, cfg *config.AppConfig, log zerolog.Logger) *CurrencyService {
	return &CurrencyService{
		provider: provider,
		catalog:  catalog,
		cache:    cache,
		cfg:      cfg,
		log:      log,
	}
}

// SpotRate resolves the current rate for a pair, serving from the Redis cache
// when a recent lookup exists. Cache failures only log; the upstream answer
// still flows through.
func (s *CurrencyService) SpotRate(ctx context.Context, from, to string) (models.SpotRate, error) {
	cacheKey := fmt.Sprintf("fx:rate:%s:%s", from, to)
	var cached models.SpotRate
	if s.readCache(ctx, cacheKey, &cached) {
		return cached, nil
	}

	payload, err := s.provider.SpotRate(ctx, from, to)
	if err != nil {
		return models.SpotRate{}, err
	}

	switch payload.Kind {
	case alphavantage.KindRateLimited:
		return models.SpotRate{}, ErrRateLimited
	case alphavantage.KindProviderError:
		return models.SpotRate{}, &ProviderError{Message: payload.ErrorMessage}
	case alphavantage.KindMalformed:
		return models.SpotRate{}, ErrMalformedQuote
	}

	s.writeCache(ctx, cacheKey, payload.Quote, s.cfg.AlphaVantage.CacheTTL)
	return payload.Quote, nil
}

func (s *CurrencyService) History(ctx context.Context, from, to string) (models.RateSeries, error) {
	cacheKey := fmt.Sprintf("fx:history:%s:%s", from, to)
	var cached models.RateSeries
	if s.readCache(ctx, cacheKey, &cached) {
		return cached, nil
	}

	payload, err := s.provider.DailySeries(ctx, from, to)
	if err != nil {
		return models.RateSeries{}, err
	}

	switch payload.Kind {
	case alphavantage.KindRateLimited:
		return models.RateSeries{}, ErrRateLimited
	case alphavantage.KindProviderError:
		return models.RateSeries{}, &ProviderError{Message: payload.ErrorMessage}
	case alphavantage.KindMalformed:
		return models.RateSeries{}, ErrNoHistoricalFix
	}

	series := models.RateSeries{From: from, To: to, Series: payload.Series}
	s.writeCache(ctx, cacheKey, series, 10*time.Minute)
	return series, nil
}

// Supported returns the catalog, normalized to a non-nil slice so an empty
// catalog serializes as [] rather than null.
func (s *CurrencyService) Supported(ctx context.Context) ([]models.Currency, error) {
	currencies, err := s.catalog.List(ctx)
	if err != nil {
		return nil, err
	}
	if currencies == nil {
		currencies = []models.Currency{}
	}
	return currencies, nil
}

func (s *CurrencyService) readCache(ctx context.Context, key string, dst any) bool {
	if s.cache == nil {
		return false
	}
	raw, err := s.cache.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.log.Warn().Err(err).Str("key", key).Msg("rate cache read failed")
		}
		return false
	}
	return json.Unmarshal(raw, dst) == nil
}

func (s *CurrencyService) writeCache(ctx context.Context, key string, value any, ttl time.Duration) {
	if s.cache == nil || ttl <= 0 {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, raw, ttl).Err(); err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("rate cache write failed")
	}
}
