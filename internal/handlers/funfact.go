package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"ratescope/api/internal/service"
)

// CurrencyFunFacts serves best-effort trivia for a currency pair. Provider
// failures never surface here; the service guarantees a usable fact.
func (h HandlerSet) CurrencyFunFacts(c *gin.Context) {
	from := c.Query("from")
	to := c.Query("to")
	if from == "" || to == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   `Both "from" and "to" currency codes are required.`,
		})
		return
	}

	fact, err := h.funFacts.CurrencyFunFact(c.Request.Context(), from, to)
	if err != nil {
		if errors.Is(err, service.ErrSamePair) {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error":   "From and to currencies must be different.",
			})
			return
		}
		h.log.Error().Err(err).Msg("fun fact generation failed")
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to generate currency fun fact.",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": fact})
}
