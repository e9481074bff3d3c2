package module

import (
	"github.com/spf13/cobra"

	"github.com/hyperledger-labs/yui-colony/chains/gateway"
	"github.com/hyperledger-labs/yui-colony/config"
	"github.com/hyperledger-labs/yui-colony/core"
)

type Module struct{}

var _ config.ModuleI = (*Module)(nil)

// Name returns the name of the module
func (Module) Name() string {
	return "gateway"
}

// RegisterConfigs registers the chain config of the module.
func (Module) RegisterConfigs() {
	core.RegisterChainConfig(gateway.ChainConfigType, func() core.ChainConfig { return &gateway.ChainConfig{} })
}

// GetCmd returns the command
func (Module) GetCmd(ctx *config.Context) *cobra.Command {
	return gateway.GatewayCmd(ctx)
}
