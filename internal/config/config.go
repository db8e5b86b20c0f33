package config

import (
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

const (
	AuthorityStatic = "static"
	AuthorityHTTP   = "http"
)

type Config struct {
	AppPort string

	MySQLHost string
	MySQLPort string
	MySQLDB   string
	MySQLUser string
	MySQLPass string

	RedisAddr     string
	RedisPass     string
	RedisDB       int
	RedisPoolSize int

	IdempTTLSecs int

	LogLevel  string
	LogFormat string

	AuthorityMode         string
	AuthorityBaseURL      string
	AuthorityTimeout      time.Duration
	AuthorityCacheTTLSecs int

	KafkaBrokers []string
	KafkaTopic   string
	KafkaGroup   string

	LoanInterestRate  decimal.Decimal
	LedgerSeedBalance uint64
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.port", "8080")

	v.SetDefault("mysql.host", "mysql")
	v.SetDefault("mysql.port", "3306")
	v.SetDefault("mysql.db", "cargotrace")
	v.SetDefault("mysql.user", "cargotrace")
	v.SetDefault("mysql.pass", "cargotrace")

	v.SetDefault("redis.addr", "redis:6379")
	v.SetDefault("redis.pass", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.pool_size", 0)

	v.SetDefault("idempotency.ttl_seconds", 300)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("authority.mode", AuthorityStatic)
	v.SetDefault("authority.base_url", "")
	v.SetDefault("authority.timeout_ms", 3000)
	v.SetDefault("authority.cache_ttl_seconds", 600)

	v.SetDefault("kafka.brokers", "")
	v.SetDefault("kafka.topic", "nft-transfers")
	v.SetDefault("kafka.group", "cargotrace-transfer-watcher")

	v.SetDefault("loan.interest_rate", "4.5")
	v.SetDefault("ledger.seed_balance", 0)
}

// Load reads config.yaml from the working directory or /app when present,
// then lets environment variables override it (mysql.host <- MYSQL_HOST).
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("/app")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	rate, err := decimal.NewFromString(v.GetString("loan.interest_rate"))
	if err != nil {
		return nil, fmt.Errorf("invalid LOAN_INTEREST_RATE %q: %w", v.GetString("loan.interest_rate"), err)
	}

	c := &Config{
		AppPort: v.GetString("app.port"),

		MySQLHost: v.GetString("mysql.host"),
		MySQLPort: v.GetString("mysql.port"),
		MySQLDB:   v.GetString("mysql.db"),
		MySQLUser: v.GetString("mysql.user"),
		MySQLPass: v.GetString("mysql.pass"),

		RedisAddr:     v.GetString("redis.addr"),
		RedisPass:     v.GetString("redis.pass"),
		RedisDB:       v.GetInt("redis.db"),
		RedisPoolSize: v.GetInt("redis.pool_size"),

		IdempTTLSecs: v.GetInt("idempotency.ttl_seconds"),

		LogLevel:  v.GetString("log.level"),
		LogFormat: v.GetString("log.format"),

		AuthorityMode:         strings.ToLower(v.GetString("authority.mode")),
		AuthorityBaseURL:      strings.TrimRight(v.GetString("authority.base_url"), "/"),
		AuthorityTimeout:      time.Duration(v.GetInt("authority.timeout_ms")) * time.Millisecond,
		AuthorityCacheTTLSecs: v.GetInt("authority.cache_ttl_seconds"),

		KafkaBrokers: splitList(v.GetString("kafka.brokers")),
		KafkaTopic:   v.GetString("kafka.topic"),
		KafkaGroup:   v.GetString("kafka.group"),

		LoanInterestRate:  rate,
		LedgerSeedBalance: v.GetUint64("ledger.seed_balance"),
	}
	return c, nil
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func (c *Config) Validate() error {
	if c.MySQLHost == "" || c.MySQLPort == "" || c.MySQLDB == "" || c.MySQLUser == "" {
		return errors.New("missing MySQL config (MYSQL_HOST/PORT/DB/USER)")
	}
	// ensure port is valid
	if _, err := net.LookupPort("tcp", c.MySQLPort); err != nil {
		return fmt.Errorf("invalid MYSQL_PORT %q: %w", c.MySQLPort, err)
	}
	if c.AppPort == "" {
		return errors.New("missing APP_PORT")
	}
	switch c.AuthorityMode {
	case AuthorityStatic:
	case AuthorityHTTP:
		if c.AuthorityBaseURL == "" {
			return errors.New("AUTHORITY_BASE_URL is required when AUTHORITY_MODE=http")
		}
	default:
		return fmt.Errorf("invalid AUTHORITY_MODE %q", c.AuthorityMode)
	}
	if c.AuthorityTimeout <= 0 {
		return errors.New("AUTHORITY_TIMEOUT_MS must be positive")
	}
	if c.LoanInterestRate.IsNegative() {
		return errors.New("LOAN_INTEREST_RATE must not be negative")
	}
	return nil
}

// KafkaEnabled reports whether the transfer watcher should consume.
func (c *Config) KafkaEnabled() bool { return len(c.KafkaBrokers) > 0 && c.KafkaTopic != "" }

func (c *Config) mysqlAddr() string { return net.JoinHostPort(c.MySQLHost, c.MySQLPort) }

func (c *Config) MySQLDSN() string {
	// multiStatements=true is handy for migrations; parseTime needed for DATETIME
	return fmt.Sprintf("%s:%s@tcp(%s)/%s?multiStatements=true&parseTime=true&charset=utf8mb4,utf8",
		c.MySQLUser, c.MySQLPass, c.mysqlAddr(), c.MySQLDB)
}
