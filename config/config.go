// Package config loads the node configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/phoenixkonsole/papara/chain"
	"github.com/phoenixkonsole/papara/consensus"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const sporkDBFile = "sporks.db"

// Config defines the top level configuration of a papara node.
type Config struct {
	// Network is one of mainnet, testnet or regtest.
	Network string `mapstructure:"network"`
	// DataDir holds the spork database. An empty DataDir keeps sporks in
	// memory only.
	DataDir string `mapstructure:"data-dir"`
	// Sporks overrides the base network's spork defaults, keyed by spork
	// name. Keys are case-insensitive.
	Sporks  map[string]uint64 `mapstructure:"sporks"`
	Logging LoggerConfig      `mapstructure:"logging"`
}

// DefaultConfig returns the default configuration for a mainnet node.
func DefaultConfig() Config {
	return Config{
		Network: "mainnet",
		Sporks:  make(map[string]uint64),
		Logging: defaultLoggingConfig(),
	}
}

// LoadConfig reads the config file at fileLocation into vip. An empty
// fileLocation leaves vip untouched.
func LoadConfig(fileLocation string, vip *viper.Viper) error {
	if fileLocation == "" {
		return nil
	}
	vip.SetConfigFile(fileLocation)
	if err := vip.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read config file %v: %w", fileLocation, err)
	}
	return nil
}

// Parse decodes the configuration held by vip over the defaults and checks
// it.
func Parse(vip *viper.Viper) (Config, error) {
	conf := DefaultConfig()
	hook := mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.TextUnmarshallerHookFunc(),
	)
	if err := vip.Unmarshal(&conf, viper.DecodeHook(hook)); err != nil {
		return Config{}, fmt.Errorf("unmarshal viper: %w", err)
	}
	if _, err := conf.sporkValues(); err != nil {
		return Config{}, err
	}
	return conf, nil
}

func (c Config) sporkValues() (map[chain.SporkID]uint64, error) {
	values := make(map[chain.SporkID]uint64, len(c.Sporks))
	for name, v := range c.Sporks {
		// viper lowercases map keys
		id, err := chain.ParseSporkID(strings.ToUpper(name))
		if err != nil {
			return nil, fmt.Errorf("invalid spork override: %w", err)
		}
		values[id] = v
	}
	return values, nil
}

// BaseNetwork returns the configured network with the spork overrides
// applied.
func (c Config) BaseNetwork() (*consensus.Network, error) {
	n, err := chain.NetworkByName(c.Network)
	if err != nil {
		return nil, err
	}
	values, err := c.sporkValues()
	if err != nil {
		return nil, err
	} else if len(values) == 0 {
		return n, nil
	}
	return chain.ApplySporks(n, values)
}

// OpenManager opens the spork store under DataDir and returns a Manager for
// the configured network, along with a function that closes both.
func (c Config) OpenManager(log *zap.Logger) (*chain.Manager, func() error, error) {
	base, err := c.BaseNetwork()
	if err != nil {
		return nil, nil, err
	}
	if c.DataDir == "" {
		m, err := chain.NewManager(base, chain.NewMemDB(), chain.WithLog(log.Named("chain")))
		if err != nil {
			return nil, nil, err
		}
		return m, m.Close, nil
	}

	if err := os.MkdirAll(c.DataDir, 0o700); err != nil {
		return nil, nil, fmt.Errorf("failed to create data dir: %w", err)
	}
	db, err := chain.OpenBoltDB(filepath.Join(c.DataDir, sporkDBFile))
	if err != nil {
		return nil, nil, err
	}
	m, err := chain.NewManager(base, db, chain.WithLog(log.Named("chain")))
	if err != nil {
		db.Close()
		return nil, nil, err
	}
	closeFn := func() error {
		if err := m.Close(); err != nil {
			db.Close()
			return err
		}
		return db.Close()
	}
	return m, closeFn, nil
}
