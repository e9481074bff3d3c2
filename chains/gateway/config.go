package gateway

import (
	"net/url"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/hyperledger-labs/yui-colony/core"
)

const ChainConfigType = "/colony.chains.gateway.ChainConfig"

const defaultTimeout = 10 * time.Second

// ChainConfig configures a destination chain whose light client and treasury
// are contracts reached through an HTTP contract gateway.
type ChainConfig struct {
	Name        string `json:"chain_name" yaml:"chain_name"`
	SourceChain string `json:"source_chain" yaml:"source_chain"`

	GatewayURL  string `json:"gateway_url" yaml:"gateway_url"`
	FullNodeURI string `json:"full_node_uri" yaml:"full_node_uri"`
	// Timeout bounds a single gateway request, e.g. "10s".
	Timeout string `json:"timeout,omitempty" yaml:"timeout,omitempty"`

	LightClientAddress string `json:"light_client_address" yaml:"light_client_address"`
	TreasuryAddress    string `json:"treasury_address" yaml:"treasury_address"`

	RelayerAddress string `json:"relayer_address" yaml:"relayer_address"`
	// RelayerMnemonic is handed to the gateway to sign transactions.
	RelayerMnemonic string `json:"relayer_mnemonic,omitempty" yaml:"relayer_mnemonic,omitempty"`
}

var _ core.ChainConfig = (*ChainConfig)(nil)

func (c *ChainConfig) ChainName() string {
	return c.Name
}

func (c *ChainConfig) timeout() (time.Duration, error) {
	if c.Timeout == "" {
		return defaultTimeout, nil
	}
	return time.ParseDuration(c.Timeout)
}

func (c *ChainConfig) Validate() error {
	var errs []error
	for attr, v := range map[string]string{
		"chain_name":           c.Name,
		"source_chain":         c.SourceChain,
		"full_node_uri":        c.FullNodeURI,
		"light_client_address": c.LightClientAddress,
		"treasury_address":     c.TreasuryAddress,
	} {
		if v == "" {
			errs = append(errs, errors.Newf("config attribute %q is empty", attr))
		}
	}
	if u, err := url.Parse(c.GatewayURL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, errors.Newf("config attribute \"gateway_url\" is not an absolute URL: %q", c.GatewayURL))
	}
	if _, err := c.timeout(); err != nil {
		errs = append(errs, errors.Wrap(err, "config attribute \"timeout\""))
	}
	return errors.Join(errs...)
}

// Build returns the chain. The prover is unused: proofs are checked by the
// contracts themselves.
func (c *ChainConfig) Build(homePath string, prover core.Prover) (core.Chain, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	timeout, err := c.timeout()
	if err != nil {
		return nil, err
	}
	return NewChain(c, NewClient(c.Name, c.GatewayURL, c.FullNodeURI, timeout)), nil
}
