package module

import (
	"github.com/spf13/cobra"

	"github.com/hyperledger-labs/yui-colony/chains/local"
	"github.com/hyperledger-labs/yui-colony/chains/local/cmd"
	"github.com/hyperledger-labs/yui-colony/config"
	"github.com/hyperledger-labs/yui-colony/core"
)

type Module struct{}

var _ config.ModuleI = (*Module)(nil)

// Name returns the name of the module
func (Module) Name() string {
	return "local"
}

// RegisterConfigs registers the chain config of the module.
func (Module) RegisterConfigs() {
	core.RegisterChainConfig(local.ChainConfigType, func() core.ChainConfig { return &local.ChainConfig{} })
}

// GetCmd returns the command
func (Module) GetCmd(ctx *config.Context) *cobra.Command {
	return cmd.LocalCmd(ctx)
}
