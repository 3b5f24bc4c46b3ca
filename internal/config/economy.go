package config

import "github.com/caarlos0/env/v11"

type EconomyConfig struct {
	StartingBalance int64 `env:"STARTING_BALANCE" envDefault:"1000"`
	DailyBonus      int64 `env:"DAILY_BONUS" envDefault:"100"`
	BailoutAmount   int64 `env:"BAILOUT_AMOUNT" envDefault:"50"`

	DefaultMinStake int64 `env:"DEFAULT_MIN_STAKE" envDefault:"1"`
}

func LoadEconomy() (EconomyConfig, error) {
	var cfg EconomyConfig
	err := env.Parse(&cfg)
	return cfg, err
}
