package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hyperledger-labs/yui-colony/config"
	"github.com/hyperledger-labs/yui-colony/core"
)

func serviceCmd(ctx *config.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "service",
		Short: "Relay Service Commands",
		Long:  "Commands to manage the relay service",
	}
	cmd.AddCommand(
		startCmd(ctx),
	)
	return cmd
}

func startCmd(ctx *config.Context) *cobra.Command {
	const defaultRelayInterval = 3 * time.Second

	cmd := &cobra.Command{
		Use:   "start",
		Short: "Relay the batches of every configured relay until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := ctx.InitChains(); err != nil {
				return err
			}
			services, err := ctx.Config.RelayServices(viper.GetDuration(flagRelayInterval))
			if err != nil {
				return err
			}
			if len(services) == 0 {
				return fmt.Errorf("no relay is configured in %s", ctx.Config.ConfigPath)
			}
			sigCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return core.StartServices(sigCtx, services...)
		},
	}
	cmd.Flags().Duration(flagRelayInterval, defaultRelayInterval, "time interval to perform relays")
	return cmd
}
