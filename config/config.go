package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/hyperledger-labs/yui-colony/core"
	"github.com/hyperledger-labs/yui-colony/coreutil"
	"github.com/hyperledger-labs/yui-colony/log"
	"github.com/hyperledger-labs/yui-colony/otelcore"
)

type Config struct {
	Global GlobalConfig             `yaml:"global" json:"global"`
	Chains []*core.ChainProverConfig `yaml:"chains" json:"chains"`
	Relays []RelayConfig             `yaml:"relays" json:"relays"`

	// cache
	chains Chains `yaml:"-" json:"-"`

	ConfigPath string `yaml:"-" json:"-"`
}

type GlobalConfig struct {
	Timeout         string       `yaml:"timeout" json:"timeout"`
	LoggerConfig    LoggerConfig `yaml:"logger" json:"logger"`
	EnableTelemetry bool         `yaml:"enable_telemetry" json:"enable_telemetry"`
}

type LoggerConfig struct {
	Level  string `yaml:"level" json:"level"`
	Format string `yaml:"format" json:"format"`
	Output string `yaml:"output" json:"output"`
}

// RelayConfig defines a relay service from a source chain to a configured
// destination chain.
type RelayConfig struct {
	SourceChain string `yaml:"source_chain" json:"source_chain"`
	Destination string `yaml:"destination" json:"destination"`
	// BatchesFile holds the relay batches of the source chain, one JSON object per line.
	BatchesFile string `yaml:"batches_file" json:"batches_file"`
	Interval    string `yaml:"interval" json:"interval"`
}

func DefaultConfig(configPath string) Config {
	return Config{
		Global: newDefaultGlobalConfig(),
		Chains: []*core.ChainProverConfig{},
		Relays: []RelayConfig{},

		ConfigPath: configPath,
	}
}

// newDefaultGlobalConfig returns a global config with defaults set
func newDefaultGlobalConfig() GlobalConfig {
	return GlobalConfig{
		Timeout: "10s",
		LoggerConfig: LoggerConfig{
			Level:  "DEBUG",
			Format: "json",
			Output: "stderr",
		},
		EnableTelemetry: false,
	}
}

func (c GlobalConfig) GetTimeout() (time.Duration, error) {
	return time.ParseDuration(c.Timeout)
}

// InitChains builds every configured chain. Chains are wrapped so that each
// adapter call is traced.
func (c *Config) InitChains(homePath string) error {
	logger := log.GetLogger().WithModule("config")
	c.chains = nil
	for i, cc := range c.Chains {
		chain, err := cc.Build(homePath)
		if err != nil {
			return errors.Wrapf(err, "failed to build chain #%d", i)
		}
		if _, err := c.chains.Get(chain.ChainName()); err == nil {
			return errors.Newf("duplicate chain name %s", chain.ChainName())
		}
		logger.Debug("chain initialized", "chain_name", chain.ChainName())
		c.chains = append(c.chains, otelcore.NewChain(chain, nil))
	}
	return nil
}

type closableChain interface {
	core.Chain
	io.Closer
}

// CloseChains releases the backends held by the initialized chains.
func (c *Config) CloseChains() error {
	var errs []error
	for _, chain := range c.chains {
		closer, err := coreutil.UnwrapChain[closableChain](chain)
		if err != nil {
			continue
		}
		if err := closer.Close(); err != nil {
			errs = append(errs, errors.Wrapf(err, "failed to close chain %s", chain.ChainName()))
		}
	}
	c.chains = nil
	return errors.Join(errs...)
}

// GetChain returns the chain registered under name
func (c *Config) GetChain(name string) (core.Chain, error) {
	return c.chains.Get(name)
}

// GetChains returns every initialized chain
func (c *Config) GetChains() Chains {
	return c.chains
}

// AddChain adds an additional chain to the config
func (c *Config) AddChain(cc *core.ChainProverConfig) error {
	if err := cc.Init(); err != nil {
		return err
	}
	chainCfg, err := cc.GetChainConfig()
	if err != nil {
		return err
	}
	name := chainCfg.ChainName()
	for _, existing := range c.Chains {
		other, err := existing.GetChainConfig()
		if err != nil {
			return err
		}
		if other.ChainName() == name {
			return fmt.Errorf("chain with name %s already exists in config", name)
		}
	}
	c.Chains = append(c.Chains, cc)
	return nil
}

// AddRelay adds a relay service definition
func (c *Config) AddRelay(r RelayConfig) error {
	for _, existing := range c.Relays {
		if existing.SourceChain == r.SourceChain && existing.Destination == r.Destination {
			return fmt.Errorf("relay %s -> %s already exists in config", r.SourceChain, r.Destination)
		}
	}
	c.Relays = append(c.Relays, r)
	return nil
}

// RelayServices builds the relay services defined in the config. It must be
// called after InitChains.
func (c *Config) RelayServices(defaultInterval time.Duration) ([]*core.RelayService, error) {
	var services []*core.RelayService
	for _, r := range c.Relays {
		dst, err := c.chains.Get(r.Destination)
		if err != nil {
			return nil, err
		}
		interval := defaultInterval
		if r.Interval != "" {
			if interval, err = time.ParseDuration(r.Interval); err != nil {
				return nil, errors.Wrapf(err, "invalid interval of relay %s -> %s", r.SourceChain, r.Destination)
			}
		}
		src := core.NewFileSource(r.SourceChain, r.BatchesFile)
		services = append(services, core.NewRelayService(src, dst, interval))
	}
	return services, nil
}

// OverWriteConfig writes the config to ConfigPath
func (c *Config) OverWriteConfig() error {
	bz, err := MarshalJSON(*c)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(c.ConfigPath), os.ModePerm); err != nil {
		return err
	}
	return os.WriteFile(c.ConfigPath, bz, 0600)
}

// LoadConfig reads the config at configPath.
func LoadConfig(configPath string) (*Config, error) {
	bz, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig(configPath)
	if err := UnmarshalJSON(bz, &cfg); err != nil {
		return nil, errors.Wrapf(err, "failed to decode config %s", configPath)
	}
	cfg.ConfigPath = configPath
	for i, cc := range cfg.Chains {
		if err := cc.Init(); err != nil {
			return nil, errors.Wrapf(err, "invalid chain #%d", i)
		}
	}
	return &cfg, nil
}
