package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	portssvc "github.com/mptrsn/corpledger/internal/core/ports/services"
	"github.com/mptrsn/corpledger/internal/dto"
	"github.com/mptrsn/corpledger/internal/middleware"
)

// rateHandler handles HTTP requests for exchange-rate management.
type rateHandler struct {
	rateService portssvc.RateSvc
}

func newRateHandler(rs portssvc.RateSvc) *rateHandler {
	return &rateHandler{rateService: rs}
}

// registerRateRoutes registers routes related to exchange rates.
func registerRateRoutes(rg *gin.RouterGroup, rateService portssvc.RateSvc) {
	h := newRateHandler(rateService)

	rates := rg.Group("/exchange-rates")
	{
		rates.GET("/:from/:to", h.getRate)
		rates.PUT("/:from/:to", h.setRate)
	}
}

func (h *rateHandler) getRate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	from := strings.ToUpper(c.Param("from"))
	to := strings.ToUpper(c.Param("to"))

	rate, err := h.rateService.GetRate(c.Request.Context(), from, to)
	if err != nil {
		respondServiceError(c, logger, err, "resolve exchange rate")
		return
	}
	c.JSON(http.StatusOK, gin.H{"from": from, "to": to, "rate": rate})
}

func (h *rateHandler) setRate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	from := strings.ToUpper(c.Param("from"))
	to := strings.ToUpper(c.Param("to"))

	var req dto.SetExchangeRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for SetRate", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actorID, _ := middleware.GetActorFromContext(c)
	if err := h.rateService.SetRate(c.Request.Context(), from, to, req.Rate, actorID); err != nil {
		respondServiceError(c, logger, err, "store exchange rate")
		return
	}

	logger.Info("Exchange rate stored", slog.String("from", from), slog.String("to", to))
	c.JSON(http.StatusOK, gin.H{"from": from, "to": to, "rate": req.Rate})
}
