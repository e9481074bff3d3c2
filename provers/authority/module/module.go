package module

import (
	"github.com/spf13/cobra"

	"github.com/hyperledger-labs/yui-colony/config"
	"github.com/hyperledger-labs/yui-colony/core"
	"github.com/hyperledger-labs/yui-colony/provers/authority"
	"github.com/hyperledger-labs/yui-colony/provers/authority/cmd"
)

type Module struct{}

var _ config.ModuleI = (*Module)(nil)

// Name returns the name of the module
func (Module) Name() string {
	return "authority"
}

// RegisterConfigs registers the prover config of the module.
func (Module) RegisterConfigs() {
	core.RegisterProverConfig(authority.ProverConfigType, func() core.ProverConfig { return &authority.ProverConfig{} })
}

// GetCmd returns the command
func (Module) GetCmd(ctx *config.Context) *cobra.Command {
	return cmd.AuthorityCmd(ctx)
}
