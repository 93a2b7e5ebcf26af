package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"ratescope/api/internal/repository"
)

const placeSearchLimit = 10

func (h HandlerSet) SearchCountries(c *gin.Context) {
	q := c.Query("q")
	if len(q) < 2 {
		c.JSON(http.StatusOK, gin.H{"countries": []string{}})
		return
	}

	countries, err := h.places.SearchCountries(c.Request.Context(), q, placeSearchLimit)
	if err != nil {
		h.log.Error().Err(err).Msg("country search failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to search countries"})
		return
	}
	if countries == nil {
		countries = []string{}
	}

	c.JSON(http.StatusOK, gin.H{"countries": countries})
}

func (h HandlerSet) SearchCities(c *gin.Context) {
	country := c.Query("country")
	q := c.Query("q")
	if country == "" || len(q) < 2 {
		c.JSON(http.StatusOK, gin.H{"cities": []string{}})
		return
	}

	cities, err := h.places.SearchCities(c.Request.Context(), country, q, placeSearchLimit)
	if err != nil {
		h.log.Error().Err(err).Msg("city search failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to search cities"})
		return
	}
	if cities == nil {
		cities = []string{}
	}

	c.JSON(http.StatusOK, gin.H{"cities": cities})
}

func (h HandlerSet) CountryForCity(c *gin.Context) {
	city := c.Query("city")
	if city == "" {
		c.JSON(http.StatusOK, gin.H{"country": nil})
		return
	}

	country, err := h.places.CountryForCity(c.Request.Context(), city)
	if err != nil {
		if errors.Is(err, repository.ErrPlaceNotFound) {
			c.JSON(http.StatusOK, gin.H{"country": nil})
			return
		}
		h.log.Error().Err(err).Msg("country lookup failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get country by city"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"country": country})
}
