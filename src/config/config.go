package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Platform identifies one of the two MM Mega Market storefronts.
type Platform string

const (
	PlatformB2C Platform = "b2c"
	PlatformB2B Platform = "b2b"
)

// PlatformConfig describes one storefront's GraphQL endpoint. The store code
// is the only field mutated after startup (by store selection).
type PlatformConfig struct {
	Name         string
	Endpoint     string
	StoreCode    string
	RequiresAuth bool
}

// AuthConfig carries B2B credentials. The customer token is written back here
// after a successful login so a fresh client can reuse it.
type AuthConfig struct {
	Username      string
	Password      string
	CustomerToken string
}

// Config aggregates application configuration. It is built once by Load and
// passed explicitly to every component; the mutable session state (store
// codes, customer token) lives here rather than in package globals.
type Config struct {
	B2C     PlatformConfig
	B2B     PlatformConfig
	B2BAuth AuthConfig

	Port     string
	LogLevel string

	Timeout        time.Duration
	RetryAttempts  int
	RateLimitDelay time.Duration

	// Must resemble a browser or mmpro.vn answers 403.
	UserAgent string
}

const defaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/130.0.0.0 Safari/537.36"

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Info: no .env file found, relying on OS environment variables and defaults.")
	} else {
		log.Println(".env file loaded successfully.")
	}

	cfg := &Config{
		B2C: PlatformConfig{
			Name:      "online.mmvietnam.com",
			Endpoint:  getEnv("MM_B2C_ENDPOINT", "https://online.mmvietnam.com/graphql"),
			StoreCode: getEnv("MM_B2C_STORE_CODE", "b2c_10010_vi"),
		},
		B2B: PlatformConfig{
			Name:         "mmpro.vn",
			Endpoint:     getEnv("MM_B2B_ENDPOINT", "https://mmpro.vn/graphql"),
			StoreCode:    getEnv("MM_B2B_STORE_CODE", "mm_10010_vi"),
			RequiresAuth: true,
		},
		B2BAuth: AuthConfig{
			Username:      os.Getenv("MMPRO_USERNAME"),
			Password:      os.Getenv("MMPRO_PASSWORD"),
			CustomerToken: os.Getenv("MMPRO_CUSTOMER_TOKEN"),
		},
		Port:           getEnv("PORT", "8080"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		Timeout:        getEnvAsDuration("MM_TIMEOUT", 30*time.Second),
		RetryAttempts:  getEnvAsInt("MM_RETRY_ATTEMPTS", 3),
		RateLimitDelay: getEnvAsDuration("MM_RATE_LIMIT_DELAY", time.Second),
		UserAgent:      getEnv("MM_USER_AGENT", defaultUserAgent),
	}

	log.Printf("Configuration loaded: Port=%s, LogLevel=%s, B2C=%s, B2B=%s",
		cfg.Port, cfg.LogLevel, cfg.B2C.StoreCode, cfg.B2B.StoreCode)

	return cfg
}

// Platform returns the profile for the given storefront. B2C is the fallback
// for unrecognized values, matching the search default.
func (c *Config) Platform(p Platform) *PlatformConfig {
	if p == PlatformB2B {
		return &c.B2B
	}
	return &c.B2C
}

// SetB2BCredentials overrides the configured B2B login.
func (c *Config) SetB2BCredentials(username, password string) {
	c.B2BAuth.Username = username
	c.B2BAuth.Password = password
}

// SetB2BToken injects a customer token directly, bypassing login.
func (c *Config) SetB2BToken(token string) {
	c.B2BAuth.CustomerToken = token
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return fallback
	}
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	log.Printf("Invalid integer value for %s ('%s'), using default: %d", key, valueStr, fallback)
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return fallback
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	log.Printf("Invalid duration value for %s ('%s'), using default: %s", key, valueStr, fallback.String())
	return fallback
}
