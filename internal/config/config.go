package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
)

// Prefix is prepended to every environment key, e.g. LIBRARY_DATA_FILE.
const Prefix = "LIBRARY"

type Config struct {
	DataFile     string        `envconfig:"DATA_FILE" default:"library_transaction.csv" validate:"required"`
	Interactive  bool          `envconfig:"INTERACTIVE" default:"true"`
	ReportFormat string        `envconfig:"REPORT_FORMAT" default:"text" validate:"oneof=text json markdown"`
	ChartWidth   int           `envconfig:"CHART_WIDTH" default:"60" validate:"min=10,max=200"`
	Color        bool          `envconfig:"COLOR" default:"true"`
	Logging      LoggingConfig `envconfig:"LOG"`
	Discord      DiscordConfig `envconfig:"DISCORD"`
}

type LoggingConfig struct {
	Level  string `envconfig:"LEVEL" default:"info" validate:"oneof=trace debug info warn error disabled"`
	Format string `envconfig:"FORMAT" default:"console" validate:"oneof=console json"`
}

// DiscordConfig is optional; publishing is enabled once a token is set.
type DiscordConfig struct {
	BotToken  string `envconfig:"BOT_TOKEN"`
	ChannelID string `envconfig:"CHANNEL_ID" validate:"required_with=BotToken"`
}

func (d DiscordConfig) Enabled() bool {
	return d.BotToken != ""
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}
	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}
