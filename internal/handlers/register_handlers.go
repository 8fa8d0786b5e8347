package handlers

import (
	"log"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	"github.com/mptrsn/corpledger/internal/core/domain"
	portssvc "github.com/mptrsn/corpledger/internal/core/ports/services"
	"github.com/mptrsn/corpledger/internal/middleware"
	"github.com/mptrsn/corpledger/internal/platform/config"
	"github.com/mptrsn/corpledger/internal/utils/money"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces.
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) {
	registerCurrencyValidation(cfg.SupportedCurrencies)

	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})

	setupAPIV1Routes(r, cfg, services)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations.
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) {
	v1 := r.Group("/api/v1", middleware.RateLimit(newRateLimiter(cfg.RateLimit)))

	registerAccountRoutes(v1, services.Account)
	registerTransactionRoutes(v1, services.Ledger)
	registerRateRoutes(v1, services.Rates)
	registerReportingRoutes(v1, services.Reporting)
	registerCurrencyRoutes(v1, cfg)
}

// registerCurrencyRoutes exposes the configured currency set with display metadata.
func registerCurrencyRoutes(rg *gin.RouterGroup, cfg *config.Config) {
	currencies := make([]domain.Currency, 0, len(cfg.SupportedCurrencies))
	for _, code := range cfg.SupportedCurrencies {
		currencies = append(currencies, domain.Currency{
			CurrencyCode: code,
			Symbol:       money.Symbol(code),
			Name:         money.Name(code),
			Precision:    int(money.Precision(code)),
		})
	}
	rg.GET("/currencies", func(c *gin.Context) {
		c.JSON(200, gin.H{"currencies": currencies})
	})
}

// newRateLimiter builds an in-memory rate limiter from a "count-period" format
// string such as "100-M".
func newRateLimiter(format string) *limiter.Limiter {
	rate, err := limiter.NewRateFromFormatted(format)
	if err != nil {
		log.Printf("Warning: Invalid RATE_LIMIT ('%s'). Defaulting to 100-M.\n", format)
		rate, _ = limiter.NewRateFromFormatted("100-M")
	}
	return limiter.New(memory.NewStore(), rate)
}

// registerCurrencyValidation installs the "supportedcurrency" binding tag used by
// the transaction DTOs, backed by the configured currency set.
func registerCurrencyValidation(supportedCurrencies []string) {
	supported := make(map[string]struct{}, len(supportedCurrencies))
	for _, code := range supportedCurrencies {
		supported[code] = struct{}{}
	}
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("supportedcurrency", func(fl validator.FieldLevel) bool {
			_, ok := supported[strings.ToUpper(fl.Field().String())]
			return ok
		})
	}
}
