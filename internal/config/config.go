package config

import "time"

type PostgresConfig struct {
	DSN             string        `env:"PG_DSN"`
	MaxOpenConns    int           `env:"PG_MAX_OPEN_CONNS" envDefault:"10"`
	MaxIdleConns    int           `env:"PG_MAX_IDLE_CONNS" envDefault:"5"`
	ConnMaxIdleTime time.Duration `env:"PG_CONN_MAX_IDLE_TIME" envDefault:"5m"`
	ConnMaxLifetime time.Duration `env:"PG_CONN_MAX_LIFETIME" envDefault:"30m"`
}

type ArenaConfig struct {
	// Grant given to every account at registration, in points.
	InitialBalance int64 `env:"ARENA_INITIAL_BALANCE" envDefault:"1000"`
	// Simulated payment/wager processing time before persistence starts.
	ProcessingDelay time.Duration `env:"ARENA_PROCESSING_DELAY" envDefault:"2500ms"`
}

type AuthConfig struct {
	JWTSecret string        `env:"AUTH_JWT_SECRET"`
	TokenTTL  time.Duration `env:"AUTH_TOKEN_TTL" envDefault:"24h"`
}
