package e2e

import "github.com/kelseyhightower/envconfig"

// Config for the end-to-end suite. NOTIFY_ADDR empty means "no live server
// around": the suite skips itself instead of failing.
type Config struct {
	NotifyAddr string `envconfig:"NOTIFY_ADDR"`
	Token      string `envconfig:"NOTIFY_TOKEN"`
	Colours    bool   `envconfig:"E2E_COLOURS"`
}

func LoadConfig() (Config, error) {
	var config Config
	err := envconfig.Process("", &config)
	return config, err
}
