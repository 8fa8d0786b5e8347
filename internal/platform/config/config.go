package config

import (
	"log"
	"strings"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL   string
	Port          string
	IsProduction  bool
	EnableDBCheck bool
	RateLimit     string

	// Ledger settings
	BaseCurrency        string
	SupportedCurrencies []string
	DecimalPrecision    int32
	DefaultExchangeRate decimal.Decimal
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("RATE_LIMIT", "100-M")
	viper.SetDefault("BASE_CURRENCY", "USD")
	viper.SetDefault("SUPPORTED_CURRENCIES", "USD,EUR,GBP,JPY,INR")
	viper.SetDefault("DECIMAL_PRECISION", 2)
	viper.SetDefault("DEFAULT_EXCHANGE_RATE", "1.0")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = viper.GetBool("ENABLE_DB_CHECK")
	cfg.RateLimit = viper.GetString("RATE_LIMIT")

	cfg.BaseCurrency = strings.ToUpper(viper.GetString("BASE_CURRENCY"))

	supported := strings.Split(viper.GetString("SUPPORTED_CURRENCIES"), ",")
	cfg.SupportedCurrencies = make([]string, 0, len(supported))
	for _, code := range supported {
		code = strings.ToUpper(strings.TrimSpace(code))
		if code != "" {
			cfg.SupportedCurrencies = append(cfg.SupportedCurrencies, code)
		}
	}
	if !containsCurrency(cfg.SupportedCurrencies, cfg.BaseCurrency) {
		// The base currency is always usable, whatever the supported list says.
		cfg.SupportedCurrencies = append(cfg.SupportedCurrencies, cfg.BaseCurrency)
	}

	cfg.DecimalPrecision = viper.GetInt32("DECIMAL_PRECISION")
	if cfg.DecimalPrecision < 0 {
		log.Printf("Warning: Invalid DECIMAL_PRECISION %d. Defaulting to 2.\n", cfg.DecimalPrecision)
		cfg.DecimalPrecision = 2
	}

	rateStr := viper.GetString("DEFAULT_EXCHANGE_RATE")
	rate, err := decimal.NewFromString(rateStr)
	if err != nil || !rate.IsPositive() {
		log.Printf("Warning: Invalid DEFAULT_EXCHANGE_RATE ('%s'). Defaulting to 1.\n", rateStr)
		rate = decimal.NewFromInt(1)
	}
	cfg.DefaultExchangeRate = rate

	return cfg, nil
}

func containsCurrency(codes []string, code string) bool {
	for _, c := range codes {
		if c == code {
			return true
		}
	}
	return false
}
