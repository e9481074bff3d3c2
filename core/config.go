package core

import (
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/cockroachdb/errors"
)

// TypeKey is the JSON field carrying the concrete type of a chain or prover
// config.
const TypeKey = "@type"

// ChainProverConfig defines the top level configuration for a chain instance
type ChainProverConfig struct {
	Chain  json.RawMessage `json:"chain" yaml:"chain"` // NOTE: it's any type as json format
	Prover json.RawMessage `json:"prover,omitempty" yaml:"prover,omitempty"`

	// cache
	chain  ChainConfig  `json:"-" yaml:"-"`
	prover ProverConfig `json:"-" yaml:"-"`
}

// ChainConfig defines a chain configuration and its builder
type ChainConfig interface {
	// ChainName returns the name the chain is registered under
	ChainName() string
	// Build returns the chain. prover is nil when the config has no prover section.
	Build(homePath string, prover Prover) (Chain, error)
	Validate() error
}

// ProverConfig defines a prover configuration and its builder
type ProverConfig interface {
	Build() (Prover, error)
	Validate() error
}

var (
	registryMtx     sync.RWMutex
	chainConfigs    = map[string]func() ChainConfig{}
	proverConfigs   = map[string]func() ProverConfig{}
	errUnknownType  = errors.New("unknown config type")
	errMissingType  = errors.Newf("missing %s field", TypeKey)
	errDuplicateReg = errors.New("config type already registered")
)

// RegisterChainConfig makes a chain config type available to the config
// loader. It panics if typeName is registered twice.
func RegisterChainConfig(typeName string, f func() ChainConfig) {
	registryMtx.Lock()
	defer registryMtx.Unlock()
	if _, ok := chainConfigs[typeName]; ok {
		panic(errors.Wrap(errDuplicateReg, typeName))
	}
	chainConfigs[typeName] = f
}

// RegisterProverConfig makes a prover config type available to the config
// loader. It panics if typeName is registered twice.
func RegisterProverConfig(typeName string, f func() ProverConfig) {
	registryMtx.Lock()
	defer registryMtx.Unlock()
	if _, ok := proverConfigs[typeName]; ok {
		panic(errors.Wrap(errDuplicateReg, typeName))
	}
	proverConfigs[typeName] = f
}

// RegisteredChainConfigs returns the sorted type names of the registered chain configs.
func RegisteredChainConfigs() []string {
	registryMtx.RLock()
	defer registryMtx.RUnlock()
	names := make([]string, 0, len(chainConfigs))
	for name := range chainConfigs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func typeOf(bz []byte) (string, error) {
	var t struct {
		Type string `json:"@type"`
	}
	if err := json.Unmarshal(bz, &t); err != nil {
		return "", err
	}
	if t.Type == "" {
		return "", errMissingType
	}
	return t.Type, nil
}

// UnmarshalChainConfig decodes a chain config whose concrete type is named
// by its "@type" field.
func UnmarshalChainConfig(bz []byte) (ChainConfig, error) {
	typeName, err := typeOf(bz)
	if err != nil {
		return nil, err
	}
	registryMtx.RLock()
	f, ok := chainConfigs[typeName]
	registryMtx.RUnlock()
	if !ok {
		return nil, errors.Wrapf(errUnknownType, "chain config %q", typeName)
	}
	cfg := f()
	if err := json.Unmarshal(bz, cfg); err != nil {
		return nil, errors.Wrapf(err, "failed to decode chain config %q", typeName)
	}
	return cfg, nil
}

// UnmarshalProverConfig decodes a prover config whose concrete type is named
// by its "@type" field.
func UnmarshalProverConfig(bz []byte) (ProverConfig, error) {
	typeName, err := typeOf(bz)
	if err != nil {
		return nil, err
	}
	registryMtx.RLock()
	f, ok := proverConfigs[typeName]
	registryMtx.RUnlock()
	if !ok {
		return nil, errors.Wrapf(errUnknownType, "prover config %q", typeName)
	}
	cfg := f()
	if err := json.Unmarshal(bz, cfg); err != nil {
		return nil, errors.Wrapf(err, "failed to decode prover config %q", typeName)
	}
	return cfg, nil
}

// MarshalTyped encodes cfg with its type name stored under "@type".
func MarshalTyped(typeName string, cfg any) (json.RawMessage, error) {
	bz, err := json.Marshal(cfg)
	if err != nil {
		return nil, err
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(bz, &fields); err != nil {
		return nil, err
	}
	tbz, err := json.Marshal(typeName)
	if err != nil {
		return nil, err
	}
	fields[TypeKey] = tbz
	return json.Marshal(fields)
}

// NewChainProverConfig returns a new config instance
func NewChainProverConfig(chainType string, chain ChainConfig, proverType string, prover ProverConfig) (*ChainProverConfig, error) {
	cbz, err := MarshalTyped(chainType, chain)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal chain config: %w", err)
	}
	c := &ChainProverConfig{Chain: cbz, chain: chain}
	if prover != nil {
		pbz, err := MarshalTyped(proverType, prover)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal prover config: %w", err)
		}
		c.Prover = pbz
		c.prover = prover
	}
	return c, nil
}

// Init decodes the raw chain and prover sections.
func (cc *ChainProverConfig) Init() error {
	chain, err := UnmarshalChainConfig(cc.Chain)
	if err != nil {
		return err
	}
	if err := chain.Validate(); err != nil {
		return errors.Wrap(err, "invalid chain config")
	}
	cc.chain = chain
	if len(cc.Prover) > 0 {
		prover, err := UnmarshalProverConfig(cc.Prover)
		if err != nil {
			return err
		}
		if err := prover.Validate(); err != nil {
			return errors.Wrap(err, "invalid prover config")
		}
		cc.prover = prover
	}
	return nil
}

// GetChainConfig returns a cached chain config
func (cc ChainProverConfig) GetChainConfig() (ChainConfig, error) {
	if cc.chain == nil {
		return nil, errors.New("chain is nil")
	}
	return cc.chain, nil
}

// GetProverConfig returns a cached prover config, or nil if none was configured
func (cc ChainProverConfig) GetProverConfig() ProverConfig {
	return cc.prover
}

// Build builds the prover (if any) and then the chain.
func (cc *ChainProverConfig) Build(homePath string) (Chain, error) {
	if cc.chain == nil {
		if err := cc.Init(); err != nil {
			return nil, err
		}
	}
	var prover Prover
	if cc.prover != nil {
		p, err := cc.prover.Build()
		if err != nil {
			return nil, errors.Wrap(err, "failed to build prover")
		}
		prover = p
	}
	return cc.chain.Build(homePath, prover)
}
