package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL       string
	Port              string
	IsProduction      bool
	JWTSecret         string
	JWTExpiryDuration time.Duration
	JWTIssuer         string
	CORSAllowOrigins  []string

	// Blockchain anchoring
	EthRPCURL           string
	EthContractAddress  string
	EthPrivateKey       string
	AnchorWorkers       int
	AnchorQueueSize     int
	AnchorMaxAttempts   int
	AnchorRetryBase     time.Duration
	AnchorSubmitTimeout time.Duration
	AnchorConfirmWindow time.Duration
	AnchorRescanSpec    string

	// Event stream (optional)
	KafkaBrokers []string
	KafkaTopic   string

	// Audit reporting
	OperationalCosts decimal.Decimal
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("JWT_EXPIRY_DURATION", "24h")
	viper.SetDefault("JWT_ISSUER", "coop-backend")
	viper.SetDefault("CORS_ALLOW_ORIGINS", "http://localhost:3000")
	viper.SetDefault("ETH_RPC_URL", "")
	viper.SetDefault("ETH_CONTRACT_ADDRESS", "")
	viper.SetDefault("ETH_PRIVATE_KEY", "")
	viper.SetDefault("ANCHOR_WORKERS", 2)
	viper.SetDefault("ANCHOR_QUEUE_SIZE", 256)
	viper.SetDefault("ANCHOR_MAX_ATTEMPTS", 5)
	viper.SetDefault("ANCHOR_RETRY_BASE", "2s")
	viper.SetDefault("ANCHOR_SUBMIT_TIMEOUT", "30s")
	viper.SetDefault("ANCHOR_CONFIRM_WINDOW", "2m")
	viper.SetDefault("ANCHOR_RESCAN_SPEC", "@every 10m")
	viper.SetDefault("KAFKA_BROKERS", "")
	viper.SetDefault("KAFKA_TOPIC", "ledger.events")
	viper.SetDefault("OPERATIONAL_COSTS", "0")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if cfg.JWTSecret == "a-very-secret-key-should-be-longer-and-random" {
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}

	jwtExpiryStr := viper.GetString("JWT_EXPIRY_DURATION")
	jwtExpiryDuration, err := time.ParseDuration(jwtExpiryStr)
	if err != nil {
		jwtExpiryDuration = 24 * time.Hour
		log.Printf("Warning: Invalid value for JWT_EXPIRY_DURATION ('%s'). Defaulting to %s.\n", jwtExpiryStr, jwtExpiryDuration.String())
	}
	cfg.JWTExpiryDuration = jwtExpiryDuration
	cfg.JWTIssuer = viper.GetString("JWT_ISSUER")

	cfg.CORSAllowOrigins = splitAndTrim(viper.GetString("CORS_ALLOW_ORIGINS"))

	cfg.EthRPCURL = viper.GetString("ETH_RPC_URL")
	cfg.EthContractAddress = viper.GetString("ETH_CONTRACT_ADDRESS")
	cfg.EthPrivateKey = viper.GetString("ETH_PRIVATE_KEY")
	if cfg.EthRPCURL == "" || cfg.EthContractAddress == "" || cfg.EthPrivateKey == "" {
		log.Println("Warning: blockchain anchoring not fully configured (ETH_RPC_URL, ETH_CONTRACT_ADDRESS, ETH_PRIVATE_KEY). Transactions will stay unverified.")
	}

	cfg.AnchorWorkers = viper.GetInt("ANCHOR_WORKERS")
	if cfg.AnchorWorkers < 1 {
		cfg.AnchorWorkers = 1
	}
	cfg.AnchorQueueSize = viper.GetInt("ANCHOR_QUEUE_SIZE")
	if cfg.AnchorQueueSize < 1 {
		cfg.AnchorQueueSize = 1
	}
	cfg.AnchorMaxAttempts = viper.GetInt("ANCHOR_MAX_ATTEMPTS")
	if cfg.AnchorMaxAttempts < 1 {
		cfg.AnchorMaxAttempts = 1
	}
	cfg.AnchorRetryBase = parseDurationOr("ANCHOR_RETRY_BASE", 2*time.Second)
	cfg.AnchorSubmitTimeout = parseDurationOr("ANCHOR_SUBMIT_TIMEOUT", 30*time.Second)
	cfg.AnchorConfirmWindow = parseDurationOr("ANCHOR_CONFIRM_WINDOW", 2*time.Minute)
	cfg.AnchorRescanSpec = viper.GetString("ANCHOR_RESCAN_SPEC")

	cfg.KafkaBrokers = splitAndTrim(viper.GetString("KAFKA_BROKERS"))
	cfg.KafkaTopic = viper.GetString("KAFKA_TOPIC")
	if len(cfg.KafkaBrokers) == 0 {
		log.Println("Warning: KAFKA_BROKERS not set. Ledger events will not be published.")
	}

	costsStr := viper.GetString("OPERATIONAL_COSTS")
	costs, err := decimal.NewFromString(costsStr)
	if err != nil {
		costs = decimal.Zero
		log.Printf("Warning: Invalid value for OPERATIONAL_COSTS ('%s'). Defaulting to 0.\n", costsStr)
	}
	cfg.OperationalCosts = costs

	return cfg, nil
}

func parseDurationOr(key string, fallback time.Duration) time.Duration {
	raw := viper.GetString(key)
	d, err := time.ParseDuration(raw)
	if err != nil {
		log.Printf("Warning: Invalid value for %s ('%s'). Defaulting to %s.\n", key, raw, fallback.String())
		return fallback
	}
	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
