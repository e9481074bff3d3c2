package module

import (
	"github.com/spf13/cobra"

	"github.com/hyperledger-labs/yui-colony/config"
	"github.com/hyperledger-labs/yui-colony/core"
	debugprover "github.com/hyperledger-labs/yui-colony/provers/debug"
)

type Module struct{}

var _ config.ModuleI = (*Module)(nil)

// Name returns the name of the module
func (Module) Name() string {
	return "debug.prover"
}

// RegisterConfigs registers the prover config of the module.
func (Module) RegisterConfigs() {
	core.RegisterProverConfig(debugprover.ProverConfigType, func() core.ProverConfig { return &debugprover.ProverConfig{} })
}

// GetCmd returns the command
func (Module) GetCmd(ctx *config.Context) *cobra.Command {
	return nil
}
