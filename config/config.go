package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Storage    StorageConfig    `mapstructure:"storage"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Redis      RedisConfig      `mapstructure:"redis"`
	JWT        JWTConfig        `mapstructure:"jwt"`
	AES        AESConfig        `mapstructure:"aes"`
	Log        LogConfig        `mapstructure:"log"`
	RateLimit  RateLimitConfig  `mapstructure:"ratelimit"`
	Sale       SaleConfig       `mapstructure:"sale"`
	Chain      ChainConfig      `mapstructure:"chain"`
	Reconciler ReconcilerConfig `mapstructure:"reconciler"`
	Alerts     AlertsConfig     `mapstructure:"alerts"`
	Admin      AdminConfig      `mapstructure:"admin"`
	Tokens     []TokenConfig    `mapstructure:"tokens"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // debug, release, test
}

// StorageConfig selects the ledger backend.
type StorageConfig struct {
	Driver string `mapstructure:"driver"` // postgres, memory
}

type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	PoolSize int    `mapstructure:"pool_size"` // 0 uses the client default
}

// Addr returns the Redis address string.
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

type JWTConfig struct {
	Secret string        `mapstructure:"secret"`
	Expiry time.Duration `mapstructure:"expiry"`
	Issuer string        `mapstructure:"issuer"`
}

type AESConfig struct {
	Key string `mapstructure:"key"` // 32-byte hex-encoded key for AES-256
}

type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Pretty bool   `mapstructure:"pretty"` // human-readable output (dev only)
}

// RateLimitConfig configures the per-wallet sliding window.
type RateLimitConfig struct {
	Backend     string        `mapstructure:"backend"` // memory, redis
	MaxRequests int           `mapstructure:"max_requests"`
	Window      time.Duration `mapstructure:"window"`
}

// SaleConfig holds presale business rules.
type SaleConfig struct {
	CappedToken       string        `mapstructure:"capped_token"`
	WalletCap         string        `mapstructure:"wallet_cap"` // decimal token count
	SettlementTimeout time.Duration `mapstructure:"settlement_timeout"`
	ChallengeTTL      time.Duration `mapstructure:"challenge_ttl"`
}

// ChainConfig describes the settlement contract and the operator signer.
type ChainConfig struct {
	RPCURL          string        `mapstructure:"rpc_url"`
	ChainID         int64         `mapstructure:"chain_id"`
	PresaleContract string        `mapstructure:"presale_contract"`
	SignerKeyEnc    string        `mapstructure:"signer_key_enc"` // AES-256-GCM encrypted hex private key
	GasLimit        uint64        `mapstructure:"gas_limit"`
	RPCRate         float64       `mapstructure:"rpc_rate"` // requests per second
	RPCBurst        int           `mapstructure:"rpc_burst"`
	ReceiptPoll     time.Duration `mapstructure:"receipt_poll"`
}

// ReconcilerConfig controls the settlement reconciliation job.
type ReconcilerConfig struct {
	Enabled   bool          `mapstructure:"enabled"`
	Schedule  string        `mapstructure:"schedule"` // cron expression with seconds
	Grace     time.Duration `mapstructure:"grace"`
	MaxAge    time.Duration `mapstructure:"max_age"`
	BatchSize int           `mapstructure:"batch_size"`
}

type AlertsConfig struct {
	WebhookURL string `mapstructure:"webhook_url"`
	Secret     string `mapstructure:"secret"`
}

type AdminConfig struct {
	APIKeyHash string `mapstructure:"api_key_hash"` // Argon2id encoded hash
}

// TokenConfig seeds a token sale configuration at startup.
type TokenConfig struct {
	Symbol            string  `mapstructure:"symbol"`
	ContractAddress   string  `mapstructure:"contract_address"`
	UnitPrice         string  `mapstructure:"unit_price"`
	TotalSupply       string  `mapstructure:"total_supply"`
	MaxPerWallet      *string `mapstructure:"max_per_wallet"`
	VestingPeriodDays int     `mapstructure:"vesting_period_days"`
	Decimals          int32   `mapstructure:"decimals"`
}

// Load reads configuration from file and environment variables.
// Environment variables override file values. Prefix: PSB_ (presale backend).
// Nested keys use underscore: PSB_DATABASE_HOST, PSB_CHAIN_RPC_URL, etc.
func Load(path string) (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("storage.driver", "postgres")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "postgres")
	v.SetDefault("database.dbname", "presale")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 20)
	v.SetDefault("database.min_conns", 5)
	v.SetDefault("database.conn_max_lifetime", "30m")
	v.SetDefault("redis.enabled", true)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.pool_size", 20)
	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.expiry", "24h")
	v.SetDefault("jwt.issuer", "presale-backend")
	v.SetDefault("aes.key", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)
	v.SetDefault("ratelimit.backend", "memory")
	v.SetDefault("ratelimit.max_requests", 5)
	v.SetDefault("ratelimit.window", "15m")
	v.SetDefault("sale.capped_token", "GNF10")
	v.SetDefault("sale.wallet_cap", "200")
	v.SetDefault("sale.settlement_timeout", "90s")
	v.SetDefault("sale.challenge_ttl", "5m")
	v.SetDefault("chain.rpc_url", "http://localhost:8545")
	v.SetDefault("chain.chain_id", 56)
	v.SetDefault("chain.presale_contract", "")
	v.SetDefault("chain.signer_key_enc", "")
	v.SetDefault("chain.gas_limit", 300000)
	v.SetDefault("chain.rpc_rate", 5.0)
	v.SetDefault("chain.rpc_burst", 10)
	v.SetDefault("chain.receipt_poll", "2s")
	v.SetDefault("reconciler.enabled", true)
	v.SetDefault("reconciler.schedule", "0 */5 * * * *")
	v.SetDefault("reconciler.grace", "10m")
	v.SetDefault("reconciler.max_age", "24h")
	v.SetDefault("reconciler.batch_size", 100)
	v.SetDefault("alerts.webhook_url", "")
	v.SetDefault("alerts.secret", "")
	v.SetDefault("admin.api_key_hash", "")

	// File config
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	// Environment variables: PSB_DATABASE_HOST -> database.host
	v.SetEnvPrefix("PSB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file (not required, env vars can suffice)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Storage.Driver {
	case "postgres", "memory":
	default:
		return fmt.Errorf("unsupported storage driver %q", c.Storage.Driver)
	}
	switch c.RateLimit.Backend {
	case "memory", "redis":
	default:
		return fmt.Errorf("unsupported rate limit backend %q", c.RateLimit.Backend)
	}
	if c.RateLimit.Backend == "redis" && !c.Redis.Enabled {
		return fmt.Errorf("rate limit backend redis requires redis.enabled")
	}
	if c.RateLimit.MaxRequests <= 0 || c.RateLimit.Window <= 0 {
		return fmt.Errorf("rate limit requires positive max_requests and window")
	}
	if c.Sale.SettlementTimeout <= 0 {
		return fmt.Errorf("sale.settlement_timeout must be positive")
	}
	return nil
}
