package local

import (
	"path/filepath"

	sdkmath "cosmossdk.io/math"
	"github.com/cockroachdb/errors"

	"github.com/hyperledger-labs/yui-colony/core"
	"github.com/hyperledger-labs/yui-colony/signer"
)

const ChainConfigType = "/colony.chains.local.ChainConfig"

const (
	StoreBackendMemDB     = "memdb"
	StoreBackendGoLevelDB = "goleveldb"
	StoreBackendSQLite    = "sqlite"
)

type StoreConfig struct {
	// Backend is one of "memdb", "goleveldb" or "sqlite".
	Backend string `json:"backend" yaml:"backend"`
	// Path is the database directory (goleveldb) or file (sqlite), relative
	// to the home directory unless absolute.
	Path string `json:"path,omitempty" yaml:"path,omitempty"`
}

type AddressCodecConfig struct {
	// Kind is "hex" or "bech32".
	Kind         string `json:"kind,omitempty" yaml:"kind,omitempty"`
	Bech32Prefix string `json:"bech32_prefix,omitempty" yaml:"bech32_prefix,omitempty"`
}

// ChainConfig configures an in-process destination chain hosting a light
// client and a treasury.
type ChainConfig struct {
	Name        string      `json:"chain_name" yaml:"chain_name"`
	SourceChain string      `json:"source_chain" yaml:"source_chain"`
	Genesis     core.Header `json:"genesis_header" yaml:"genesis_header"`

	Store        StoreConfig        `json:"store" yaml:"store"`
	AddressCodec AddressCodecConfig `json:"address_codec" yaml:"address_codec"`

	LightClientAddress string `json:"light_client_address" yaml:"light_client_address"`
	TreasuryAddress    string `json:"treasury_address" yaml:"treasury_address"`

	// Relayer is the key the relayer account is derived from.
	Relayer *signer.MnemonicSignerConfig `json:"relayer,omitempty" yaml:"relayer,omitempty"`
	// RelayerBalance is the native balance reported for the relayer account.
	RelayerBalance string `json:"relayer_balance,omitempty" yaml:"relayer_balance,omitempty"`

	// CounterContracts are the contract names that accept counter orders.
	CounterContracts []string `json:"counter_contracts,omitempty" yaml:"counter_contracts,omitempty"`
}

var _ core.ChainConfig = (*ChainConfig)(nil)

func (c *ChainConfig) ChainName() string {
	return c.Name
}

func (c *ChainConfig) Validate() error {
	var errs []error
	if c.Name == "" {
		errs = append(errs, errors.New("config attribute \"chain_name\" is empty"))
	}
	if c.SourceChain == "" {
		errs = append(errs, errors.New("config attribute \"source_chain\" is empty"))
	}
	if len(c.Genesis) == 0 {
		errs = append(errs, errors.New("config attribute \"genesis_header\" is empty"))
	}
	switch c.Store.Backend {
	case StoreBackendMemDB:
	case StoreBackendGoLevelDB, StoreBackendSQLite:
		if c.Store.Path == "" {
			errs = append(errs, errors.Newf("store backend %s requires a path", c.Store.Backend))
		}
	default:
		errs = append(errs, errors.Newf("unknown store backend %q", c.Store.Backend))
	}
	if _, err := core.NewAddressCodec(c.AddressCodec.Kind, c.AddressCodec.Bech32Prefix); err != nil {
		errs = append(errs, err)
	}
	if c.Relayer != nil {
		if err := c.Relayer.Validate(); err != nil {
			errs = append(errs, errors.Wrap(err, "relayer"))
		}
	}
	if c.RelayerBalance != "" {
		if _, err := sdkmath.ParseUint(c.RelayerBalance); err != nil {
			errs = append(errs, errors.Wrapf(err, "config attribute \"relayer_balance\""))
		}
	}
	return errors.Join(errs...)
}

func (c *ChainConfig) Build(homePath string, prover core.Prover) (core.Chain, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if prover == nil {
		return nil, errors.Newf("chain %s: a prover must be configured", c.Name)
	}
	return NewChain(c, homePath, prover)
}

func (c *ChainConfig) storePath(homePath string) string {
	if filepath.IsAbs(c.Store.Path) {
		return c.Store.Path
	}
	return filepath.Join(homePath, c.Store.Path)
}
