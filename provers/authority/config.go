package authority

import (
	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/common"

	"github.com/hyperledger-labs/yui-colony/core"
)

const ProverConfigType = "/colony.provers.authority.ProverConfig"

type ProverConfig struct {
	// Authorities are the hex addresses of the finality signers.
	Authorities []string `json:"authorities" yaml:"authorities"`
	// Quorum is the number of distinct signatures a header needs; 0 selects
	// the two-thirds majority.
	Quorum int `json:"quorum,omitempty" yaml:"quorum,omitempty"`
}

var _ core.ProverConfig = (*ProverConfig)(nil)

func (c *ProverConfig) Build() (core.Prover, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	authorities := make([]common.Address, len(c.Authorities))
	for i, a := range c.Authorities {
		authorities[i] = common.HexToAddress(a)
	}
	return NewProver(authorities, c.Quorum)
}

func (c *ProverConfig) Validate() error {
	if len(c.Authorities) == 0 {
		return errors.New("authorities must not be empty")
	}
	for _, a := range c.Authorities {
		if !common.IsHexAddress(a) {
			return errors.Newf("invalid authority address %q", a)
		}
	}
	if c.Quorum < 0 || c.Quorum > len(c.Authorities) {
		return errors.Newf("quorum %d out of range", c.Quorum)
	}
	return nil
}
