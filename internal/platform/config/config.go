package config

import (
	"log"
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

	// AdminUserID identifies the platform wallet that receives posting fees
	// and fronts refunds.
	AdminUserID string
	// JobPostingFee is the flat fee charged per job posting.
	JobPostingFee decimal.Decimal

	DBMaxRetries     int
	DBRetryBaseDelay time.Duration

	// FCMCredentialsFile points at the Firebase service account JSON; empty
	// disables push notifications.
	FCMCredentialsFile string
	PosthogAPIKey      string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("JWT_EXPIRY_DURATION", "1h")
	viper.SetDefault("JWT_ISSUER", "jobhive-backend")
	viper.SetDefault("ADMIN_USER_ID", "")
	viper.SetDefault("JOB_POSTING_FEE", "10")
	viper.SetDefault("DB_MAX_RETRIES", 3)
	viper.SetDefault("DB_RETRY_BASE_DELAY", "50ms")
	viper.SetDefault("FCM_CREDENTIALS_FILE", "")
	viper.SetDefault("POSTHOG_API_KEY", "")

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
		jwtExpiryDuration = time.Hour
		log.Printf("Warning: Invalid value for JWT_EXPIRY_DURATION ('%s'). Defaulting to %s.\n", jwtExpiryStr, jwtExpiryDuration)
	}
	cfg.JWTExpiryDuration = jwtExpiryDuration
	cfg.JWTIssuer = viper.GetString("JWT_ISSUER")

	cfg.AdminUserID = viper.GetString("ADMIN_USER_ID")
	if cfg.AdminUserID == "" {
		log.Println("Warning: ADMIN_USER_ID environment variable not set. Job posting will fail until it is configured.")
	}

	feeStr := viper.GetString("JOB_POSTING_FEE")
	fee, err := decimal.NewFromString(feeStr)
	if err != nil || fee.IsNegative() {
		fee = decimal.NewFromInt(10)
		log.Printf("Warning: Invalid value for JOB_POSTING_FEE ('%s'). Defaulting to %s.\n", feeStr, fee)
	}
	cfg.JobPostingFee = fee

	cfg.DBMaxRetries = viper.GetInt("DB_MAX_RETRIES")
	if cfg.DBMaxRetries <= 0 {
		cfg.DBMaxRetries = 3
	}
	retryDelayStr := viper.GetString("DB_RETRY_BASE_DELAY")
	retryDelay, err := time.ParseDuration(retryDelayStr)
	if err != nil || retryDelay <= 0 {
		retryDelay = 50 * time.Millisecond
		log.Printf("Warning: Invalid value for DB_RETRY_BASE_DELAY ('%s'). Defaulting to %s.\n", retryDelayStr, retryDelay)
	}
	cfg.DBRetryBaseDelay = retryDelay

	cfg.FCMCredentialsFile = viper.GetString("FCM_CREDENTIALS_FILE")
	if cfg.FCMCredentialsFile == "" {
		log.Println("Warning: FCM_CREDENTIALS_FILE not set. Push notifications are disabled.")
	}
	cfg.PosthogAPIKey = viper.GetString("POSTHOG_API_KEY")

	return cfg, nil
}
