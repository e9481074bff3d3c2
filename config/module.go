package config

import (
	"github.com/spf13/cobra"
)

// ModuleI defines an interface of Module
type ModuleI interface {
	// Name returns the name of the module
	Name() string

	// RegisterConfigs registers the chain and prover config types of the module
	RegisterConfigs()

	// GetCmd returns the command of the module, or nil if it has none
	GetCmd(ctx *Context) *cobra.Command
}
