package debug

import (
	"encoding/json"

	"github.com/cockroachdb/errors"

	"github.com/hyperledger-labs/yui-colony/core"
	"github.com/hyperledger-labs/yui-colony/log"
)

const ProverConfigType = "/colony.provers.debug.ProverConfig"

// ProverConfig wraps the config of the prover that does the actual checks.
type ProverConfig struct {
	OriginProver json.RawMessage `json:"origin_prover" yaml:"origin_prover"`
}

var _ core.ProverConfig = (*ProverConfig)(nil)

func (pc *ProverConfig) Build() (core.Prover, error) {
	origin, err := pc.origin()
	if err != nil {
		return nil, err
	}
	originProver, err := origin.Build()
	if err != nil {
		return nil, err
	}
	log.GetLogger().WithModule("debug.prover").Info("debug prover is initialized.")
	return NewProver(originProver), nil
}

func (pc *ProverConfig) Validate() error {
	origin, err := pc.origin()
	if err != nil {
		return err
	}
	return origin.Validate()
}

func (pc *ProverConfig) origin() (core.ProverConfig, error) {
	if len(pc.OriginProver) == 0 {
		return nil, errors.New("OriginProver must set")
	}
	return core.UnmarshalProverConfig(pc.OriginProver)
}
