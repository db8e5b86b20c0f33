package config

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", c.AppPort)
	assert.Equal(t, "mysql", c.MySQLHost)
	assert.Equal(t, 300, c.IdempTTLSecs)
	assert.Equal(t, AuthorityStatic, c.AuthorityMode)
	assert.Equal(t, 3*time.Second, c.AuthorityTimeout)
	assert.True(t, c.LoanInterestRate.Equal(decimal.RequireFromString("4.5")))
	assert.False(t, c.KafkaEnabled())
	require.NoError(t, c.Validate())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("APP_PORT", "9090")
	t.Setenv("MYSQL_HOST", "db.local")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("REDIS_POOL_SIZE", "20")
	t.Setenv("IDEMPOTENCY_TTL_SECONDS", "60")
	t.Setenv("AUTHORITY_MODE", "HTTP")
	t.Setenv("AUTHORITY_BASE_URL", "http://customs.local/")
	t.Setenv("AUTHORITY_TIMEOUT_MS", "750")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")
	t.Setenv("LOAN_INTEREST_RATE", "7.25")
	t.Setenv("LEDGER_SEED_BALANCE", "1000000")

	c, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", c.AppPort)
	assert.Equal(t, "db.local", c.MySQLHost)
	assert.Equal(t, 3, c.RedisDB)
	assert.Equal(t, 20, c.RedisPoolSize)
	assert.Equal(t, 60, c.IdempTTLSecs)
	assert.Equal(t, AuthorityHTTP, c.AuthorityMode)
	assert.Equal(t, "http://customs.local", c.AuthorityBaseURL)
	assert.Equal(t, 750*time.Millisecond, c.AuthorityTimeout)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, c.KafkaBrokers)
	assert.True(t, c.KafkaEnabled())
	assert.Equal(t, "7.25", c.LoanInterestRate.String())
	assert.Equal(t, uint64(1000000), c.LedgerSeedBalance)
	require.NoError(t, c.Validate())
}

func TestLoad_BadInterestRate(t *testing.T) {
	t.Setenv("LOAN_INTEREST_RATE", "four")
	_, err := Load()
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		c, err := Load()
		require.NoError(t, err)
		return c
	}

	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"missing mysql host", func(c *Config) { c.MySQLHost = "" }},
		{"bad mysql port", func(c *Config) { c.MySQLPort = "not-a-port" }},
		{"missing app port", func(c *Config) { c.AppPort = "" }},
		{"unknown authority mode", func(c *Config) { c.AuthorityMode = "grpc" }},
		{"http authority without url", func(c *Config) { c.AuthorityMode = AuthorityHTTP; c.AuthorityBaseURL = "" }},
		{"zero timeout", func(c *Config) { c.AuthorityTimeout = 0 }},
		{"negative rate", func(c *Config) { c.LoanInterestRate = decimal.NewFromInt(-1) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := base()
			tt.mutate(c)
			assert.Error(t, c.Validate())
		})
	}
}

func TestMySQLDSN(t *testing.T) {
	c := &Config{MySQLHost: "h", MySQLPort: "3306", MySQLDB: "d", MySQLUser: "u", MySQLPass: "p"}
	assert.Equal(t, "u:p@tcp(h:3306)/d?multiStatements=true&parseTime=true&charset=utf8mb4,utf8", c.MySQLDSN())
}
