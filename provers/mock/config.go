package mock

import (
	"github.com/hyperledger-labs/yui-colony/core"
)

const ProverConfigType = "/colony.provers.mock.ProverConfig"

type ProverConfig struct {
	// Strict disables the "valid" placeholder proof.
	Strict bool `json:"strict,omitempty" yaml:"strict,omitempty"`
}

var _ core.ProverConfig = (*ProverConfig)(nil)

func (c *ProverConfig) Build() (core.Prover, error) {
	return NewProver(c.Strict), nil
}

func (c *ProverConfig) Validate() error {
	return nil
}
