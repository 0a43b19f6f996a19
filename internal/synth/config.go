package synth

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config carries the deployment-level choices that shape provisioning.
// MobileInserts decides whether backing tables accept inserts from mobile
// clients (the store default); MobileData decides whether they are synced to
// mobile clients at all.
type Config struct {
	MobileInserts bool `yaml:"mobile_inserts"`
	MobileData    bool `yaml:"mobile_data"`
}

// DefaultConfig mirrors the deployment defaults: tables are insertable by
// mobile clients and not mobile-synced.
func DefaultConfig() Config {
	return Config{MobileInserts: true, MobileData: false}
}

// ParseConfig decodes a YAML config document over the defaults, so absent
// keys keep their default values.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if len(data) == 0 {
		return cfg, nil
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("synth: parse config: %w", err)
	}
	return cfg, nil
}

// LoadConfig reads and parses a YAML config file. A missing path yields the
// defaults rather than an error.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return Config{}, fmt.Errorf("synth: read config: %w", err)
	}
	return ParseConfig(data)
}
