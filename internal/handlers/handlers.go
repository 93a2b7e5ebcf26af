package handlers

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"ratescope/api/internal/config"
	"ratescope/api/internal/middleware"
	"ratescope/api/internal/repository"
	"ratescope/api/internal/service"
	"ratescope/api/internal/upstream/alphavantage"
	"ratescope/api/internal/upstream/gemini"
)

// PlaceStore backs the country/city search endpoints.
type PlaceStore interface {
	SearchCountries(ctx context.Context, q string, limit int) ([]string, error)
	SearchCities(ctx context.Context, country string, q string, limit int) ([]string, error)
	CountryForCity(ctx context.Context, city string) (string, error)
}

type HandlerSet struct {
	log      zerolog.Logger
	cfg      *config.AppConfig
	auth     *service.AuthService
	currency *service.CurrencyService
	funFacts *service.FunFactService
	db       *pgxpool.Pool
	cache    *redis.Client
	users    service.UserStore
	tokens   service.TokenStore
	places   PlaceStore
}

func NewHandlerSet(log zerolog.Logger, db *pgxpool.Pool, cache *redis.Client, cfg *config.AppConfig) HandlerSet {
	userRepo := repository.NewUserRepository(db)
	tokenRepo := repository.NewTokenRepository(db)
	currencyRepo := repository.NewCurrencyRepository(db)
	placeRepo := repository.NewPlaceRepository(db)

	fxClient := alphavantage.New(cfg.AlphaVantage, log)
	textClient := gemini.New(cfg.Gemini, log)

	return HandlerSet{
		log:      log,
		cfg:      cfg,
		auth:     service.NewAuthService(userRepo, tokenRepo, cfg, log),
		currency: service.NewCurrencyService(fxClient, currencyRepo, cache, cfg, log),
		funFacts: service.NewFunFactService(textClient, log),
		db:       db,
		cache:    cache,
		users:    userRepo,
		tokens:   tokenRepo,
		places:   placeRepo,
	}
}

func (h HandlerSet) Register(router *gin.RouterGroup) {
	router.GET("/healthz", h.Health)

	auth := router.Group("/auth")
	{
		auth.POST("/signup", h.Signup)
		auth.POST("/login", h.Login)
		auth.POST("/logout", h.Logout)
		auth.GET("/me", middleware.Auth(h.cfg, h.users, h.tokens), h.Me)
	}

	currency := router.Group("/currency")
	{
		currency.GET("/test", h.CurrencyTest)
		currency.GET("/rate", h.ExchangeRate)
		currency.GET("/history", h.HistoricalRates)
		currency.GET("/supported", h.SupportedCurrencies)
	}

	router.GET("/gemini/fun-facts", h.CurrencyFunFacts)

	countries := router.Group("/countries")
	{
		countries.GET("/search", h.SearchCountries)
		countries.GET("/cities/search", h.SearchCities)
		countries.GET("/cities/country", h.CountryForCity)
	}
}
