package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"

	"limit-book/src/engine"
)

// Config is the full process configuration. Every key has a default and can
// be overridden from the environment (nested keys use underscores, e.g.
// BOOK_MAX_QUANTITY, RATE_LIMIT_MAX, LOG_LEVEL).
type Config struct {
	Port            string        `mapstructure:"port"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`

	Log       Log       `mapstructure:"log"`
	RateLimit RateLimit `mapstructure:"rate_limit"`
	Depth     Depth     `mapstructure:"depth"`
	Book      Book      `mapstructure:"book"`

	// MaxRestingOrders caps how many orders may rest before new
	// submissions are turned away at the HTTP layer. 0 disables the cap.
	MaxRestingOrders int64 `mapstructure:"max_resting_orders"`
	MaintenanceMode  bool  `mapstructure:"maintenance_mode"`

	RequestLoggingDisabled bool `mapstructure:"request_logging_disabled"`
}

type Log struct {
	Level  string `mapstructure:"level"`
	File   string `mapstructure:"file"`
	Format string `mapstructure:"format"`
}

type RateLimit struct {
	Disabled bool          `mapstructure:"disabled"`
	Max      int           `mapstructure:"max"`
	Window   time.Duration `mapstructure:"window"`
}

type Depth struct {
	Default int `mapstructure:"default"`
	Max     int `mapstructure:"max"`
}

// Book holds the order book's validation bounds and allocator tuning.
type Book struct {
	MinPrice     float64 `mapstructure:"min_price"`
	MaxPrice     float64 `mapstructure:"max_price"`
	MaxQuantity  uint64  `mapstructure:"max_quantity"`
	BlockSize    int     `mapstructure:"block_size"`
	MatchOnAmend bool    `mapstructure:"match_on_amend"`
}

// Engine converts the book section into the engine's own config type.
func (b Book) Engine() engine.Config {
	return engine.Config{
		MinPrice:     b.MinPrice,
		MaxPrice:     b.MaxPrice,
		MaxQuantity:  b.MaxQuantity,
		BlockSize:    b.BlockSize,
		MatchOnAmend: b.MatchOnAmend,
	}
}

func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("port", "8080")
	v.SetDefault("shutdown_timeout", "10s")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
	v.SetDefault("log.format", "")

	v.SetDefault("rate_limit.disabled", false)
	v.SetDefault("rate_limit.max", 100)
	v.SetDefault("rate_limit.window", "1s")

	v.SetDefault("depth.default", 10)
	v.SetDefault("depth.max", 1000)

	def := engine.DefaultConfig()
	v.SetDefault("book.min_price", def.MinPrice)
	v.SetDefault("book.max_price", def.MaxPrice)
	v.SetDefault("book.max_quantity", def.MaxQuantity)
	v.SetDefault("book.block_size", def.BlockSize)
	v.SetDefault("book.match_on_amend", def.MatchOnAmend)

	v.SetDefault("max_resting_orders", 0)
	v.SetDefault("maintenance_mode", false)
	v.SetDefault("request_logging_disabled", false)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
