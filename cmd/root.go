package cmd

import (
	"context"
	"os"
	"path/filepath"

	"github.com/cosmos/cosmos-sdk/client/flags"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hyperledger-labs/yui-colony/config"
	"github.com/hyperledger-labs/yui-colony/internal/telemetry"
	"github.com/hyperledger-labs/yui-colony/log"
)

var (
	defaultHome = os.ExpandEnv("$HOME/.colony")
	configPath  = filepath.Join("config", "config.json")
)

// Execute adds all child commands to the root command and runs it. Every
// module registers its config types before the config file is read.
func Execute(modules ...config.ModuleI) error {
	return NewRootCmd(modules...).ExecuteContext(context.Background())
}

// NewRootCmd returns the root command wired with modules.
func NewRootCmd(modules ...config.ModuleI) *cobra.Command {
	// rootCmd represents the base command when called without any subcommands
	rootCmd := &cobra.Command{
		Use:   "colony",
		Short: "This application relays delivery records to the light clients and treasuries of configured chains",
	}
	cobra.EnableCommandSorting = false
	rootCmd.SilenceUsage = true

	rootCmd.PersistentFlags().String(flags.FlagHome, defaultHome, "set home directory")
	if err := viper.BindPFlag(flags.FlagHome, rootCmd.PersistentFlags().Lookup(flags.FlagHome)); err != nil {
		panic(err)
	}

	for _, module := range modules {
		module.RegisterConfigs()
	}

	ctx := &config.Context{Modules: modules, Config: &config.Config{}}

	var shutdownTelemetry func(context.Context) error
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		// reads `homeDir/config/config.json` into ctx.Config before each command
		if err := viper.BindPFlags(cmd.Flags()); err != nil {
			return err
		}
		if err := initConfig(ctx, viper.GetString(flags.FlagHome)); err != nil {
			return err
		}
		global := ctx.Config.Global
		if err := log.InitLogger(global.LoggerConfig.Level, global.LoggerConfig.Format, global.LoggerConfig.Output, global.EnableTelemetry); err != nil {
			return err
		}
		if global.EnableTelemetry {
			shutdown, err := telemetry.SetupOTelSDK(cmd.Context())
			if err != nil {
				return err
			}
			shutdownTelemetry = shutdown
		}
		return telemetry.InitializeMetrics()
	}
	rootCmd.PersistentPostRunE = func(cmd *cobra.Command, _ []string) error {
		if err := ctx.Config.CloseChains(); err != nil {
			return err
		}
		if shutdownTelemetry != nil {
			return shutdownTelemetry(cmd.Context())
		}
		return nil
	}

	rootCmd.AddCommand(
		configCmd(ctx),
		chainsCmd(ctx),
		lightClientCmd(ctx),
		treasuryCmd(ctx),
		serviceCmd(ctx),
		serverCmd(ctx),
		modulesCmd(ctx),
	)

	for _, module := range modules {
		if cmd := module.GetCmd(ctx); cmd != nil {
			rootCmd.AddCommand(cmd)
		}
	}

	return rootCmd
}

func noCommand(cmd *cobra.Command, args []string) error {
	return cmd.Help()
}
