package config

import (
	"context"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	HTTPAddr        string `env:"HTTP_ADDR,default=:8080"`
	CORSAllowOrigin string `env:"CORS_ALLOW_ORIGIN,default=*"`

	DBHost            string        `env:"DB_HOST,required"`
	DBPort            int           `env:"DB_PORT,default=5432"`
	DBUser            string        `env:"DB_USER,required"`
	DBPassword        string        `env:"DB_PASSWORD,required"`
	DBName            string        `env:"DB_NAME,required"`
	DBSSLMode         string        `env:"DB_SSLMODE,default=disable"`
	DBMaxIdleConns    int           `env:"DB_MAX_IDLE_CONNS,default=10"`
	DBMaxOpenConns    int           `env:"DB_MAX_OPEN_CONNS,default=25"`
	DBConnMaxLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME,default=30m"`

	ExpoBaseURL      string        `env:"EXPO_BASE_URL,default=https://exp.host/--/api/v2"`
	ExpoTimeout      time.Duration `env:"EXPO_TIMEOUT,default=30s"`
	ExpoBatchTimeout time.Duration `env:"EXPO_BATCH_TIMEOUT,default=60s"`

	CoinGeckoBaseURL string        `env:"COINGECKO_BASE_URL,default=https://api.coingecko.com/api/v3"`
	CoinGeckoTimeout time.Duration `env:"COINGECKO_TIMEOUT,default=30s"`
	// Free-tier friendly ceiling on outbound price calls.
	CoinGeckoRPS float64 `env:"COINGECKO_RPS,default=0.5"`

	DispatchInterval time.Duration `env:"DISPATCH_INTERVAL,default=5m"`
	RefreshInterval  time.Duration `env:"REFRESH_INTERVAL,default=5m"`

	LogLevel string `env:"LOG_LEVEL,default=info"`
}

func Load(ctx context.Context) (Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
