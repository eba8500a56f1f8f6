package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	validator "gopkg.in/go-playground/validator.v9"

	"storefront/internal/retry"
)

// Content backends
const (
	ContentSanity   = "sanity"
	ContentPostgres = "postgres"
)

type Config struct {
	// HTTP listen address. The wallet session is shared by every visitor,
	// so the default host only accepts local connections.
	ListenHost string `validate:"omitempty,hostname|ip"`
	Port       int    `validate:"min=1,max=65535"`

	// Log level (debug, info, warn, error) and optional rotated log file
	LogLevel      string `validate:"oneof=debug info warn error"`
	LogFile       string
	LogMaxSizeMB  int `validate:"min=1"`
	LogMaxBackups int `validate:"min=0"`

	// Content store backend: sanity or postgres
	ContentBackend string `validate:"oneof=sanity postgres"`

	// Sanity project, also used to resolve image URLs for both backends
	SanityProjectID  string `validate:"required"`
	SanityDataset    string `validate:"required"`
	SanityAPIVersion string
	SanityToken      string
	SanityUseCDN     bool

	// Postgres connection string ( required for the postgres backend )
	DatabaseURL string

	// Ethereum JSON-RPC endpoint
	RPCURL string `validate:"required,url"`

	// Symbol shown for prices paid in the native token
	NativeSymbol string `validate:"required"`

	// Gateway used for ipfs:// token metadata
	IPFSGateway string `validate:"omitempty,url"`

	// Wallet keystore
	KeystoreDir      string `validate:"required"`
	WalletAccount    string
	WalletPassphrase string
	KeystoreLightKDF bool

	// Drop views
	ViewTTL          time.Duration `validate:"min=1000000000"`
	MaxViews         int           `validate:"min=0"`
	RefreshAfterMint bool

	// Header brand
	Brand string

	// Startup retry for the node dial and database ping
	Retry retry.Config
}

// Load returns the configuration from environment variables
func Load() *Config {
	return &Config{
		ListenHost: getEnv("LISTEN_HOST", "127.0.0.1"),
		Port:       getEnvAsInt("PORT", 2112),

		LogLevel:      strings.ToLower(getEnv("LOG_LEVEL", "info")),
		LogFile:       getEnv("LOG_FILE", ""),
		LogMaxSizeMB:  getEnvAsInt("LOG_MAX_SIZE_MB", 100),
		LogMaxBackups: getEnvAsInt("LOG_MAX_BACKUPS", 3),

		ContentBackend: strings.ToLower(getEnv("CONTENT_BACKEND", ContentSanity)),

		SanityProjectID:  getEnv("SANITY_PROJECT_ID", ""),
		SanityDataset:    getEnv("SANITY_DATASET", "production"),
		SanityAPIVersion: getEnv("SANITY_API_VERSION", "2021-10-21"),
		SanityToken:      getEnv("SANITY_API_TOKEN", ""),
		SanityUseCDN:     getEnvAsBool("SANITY_USE_CDN", true),

		DatabaseURL: getEnv("DATABASE_URL", ""),

		// Polygon Mumbai testnet
		RPCURL: getEnv("RPC_URL", "https://rpc-mumbai.maticvigil.com"),

		NativeSymbol: getEnv("NATIVE_SYMBOL", "ETH"),
		IPFSGateway:  getEnv("IPFS_GATEWAY", "https://ipfs.io/ipfs/"),

		KeystoreDir:      getEnv("KEYSTORE_DIR", "./keystore"),
		WalletAccount:    getEnv("WALLET_ACCOUNT", ""),
		WalletPassphrase: getEnv("WALLET_PASSPHRASE", ""),
		KeystoreLightKDF: getEnvAsBool("KEYSTORE_LIGHT_KDF", false),

		ViewTTL:          time.Duration(getEnvAsInt("VIEW_TTL_SEC", 600)) * time.Second,
		MaxViews:         getEnvAsInt("MAX_VIEWS", 500),
		RefreshAfterMint: getEnvAsBool("REFRESH_AFTER_MINT", false),

		Brand: getEnv("BRAND", "PAPAFAM"),

		Retry: retry.Config{
			Enabled:      getEnvAsBool("RETRY_ENABLED", true),
			MaxRetries:   getEnvAsInt("RETRY_MAX_RETRIES", 10),
			InitialDelay: time.Duration(getEnvAsInt("RETRY_INITIAL_DELAY_SEC", 1)) * time.Second,
			MaxDelay:     time.Duration(getEnvAsInt("RETRY_MAX_DELAY_SEC", 60)) * time.Second,
		},
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return err
	}
	if c.ContentBackend == ContentPostgres && c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required for the postgres content backend")
	}
	if c.Retry.Enabled && c.Retry.MaxDelay < c.Retry.InitialDelay {
		return fmt.Errorf("RETRY_MAX_DELAY_SEC must not be lower than RETRY_INITIAL_DELAY_SEC")
	}
	return nil
}

// Helper: get string from env
func getEnv(key, defaultVal string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return defaultVal
}

// Helper: get bool from env
func getEnvAsBool(key string, defaultVal bool) bool {
	valStr := os.Getenv(key)
	if valStr == "" {
		return defaultVal
	}
	val, err := strconv.ParseBool(valStr)
	if err != nil {
		return defaultVal
	}
	return val
}

// Helper: get int from env
func getEnvAsInt(key string, defaultVal int) int {
	valStr := os.Getenv(key)
	if valStr == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(valStr)
	if err != nil {
		return defaultVal
	}
	return val
}
